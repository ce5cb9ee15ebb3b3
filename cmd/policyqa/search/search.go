// Package searchcmder provides the search command for retrieving the policy
// passages most relevant to a query.
package searchcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/policyqa/api/client"
	apisearch "github.com/papercomputeco/policyqa/api/search"
	"github.com/papercomputeco/policyqa/pkg/bootstrap"
	"github.com/papercomputeco/policyqa/pkg/cliui"
	"github.com/papercomputeco/policyqa/pkg/config"
	"github.com/papercomputeco/policyqa/pkg/logger"
)

const searchLongDesc string = `Search the ingested policy corpus.

Embeds the query with the fitted TF-IDF model, finds the nearest chunks in the
vector index and reranks them by how often the query occurs in each chunk.

By default the artifacts are loaded locally. Use --remote to query a running
policyqa API server instead.

Examples:
  policyqa search "vacation policy"
  policyqa search "remote work" -k 3
  policyqa search "parental leave" --remote --api-target http://localhost:8000
  policyqa search "sick days" --json`

const searchShortDesc string = "Search the policy corpus"

var searchFlags = []string{
	config.FlagTopK,
	config.FlagArtifactsDir,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagAPITarget,
}

type searchCommander struct {
	query string

	flags struct {
		topK         int
		artifactsDir string
		storeProv    string
		storeTarget  string
		apiTarget    string
	}
	remote bool
	asJSON bool

	cfg    *config.Config
	debug  bool
	out    io.Writer
	logger *slog.Logger
}

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ResolveCommand(cmd, searchFlags...)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = cfg
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	config.AddIntFlag(cmd, config.Flags, config.FlagTopK, &cmder.flags.topK)
	config.AddStringFlag(cmd, config.Flags, config.FlagArtifactsDir, &cmder.flags.artifactsDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &cmder.flags.storeProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreTgt, &cmder.flags.storeTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.flags.apiTarget)
	cmd.Flags().BoolVar(&cmder.remote, "remote", false, "Query a running API server instead of local artifacts")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print results as JSON")

	return cmd
}

func (c *searchCommander) run(ctx context.Context) error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	var (
		output *apisearch.Output
		err    error
	)
	if c.remote {
		output, err = c.searchRemote(ctx)
	} else {
		output, err = c.searchLocal(ctx)
	}
	if err != nil {
		return err
	}

	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	cliui.RenderChunks(c.out, output.Query, output.Chunks())
	return nil
}

func (c *searchCommander) searchLocal(ctx context.Context) (*apisearch.Output, error) {
	q, err := bootstrap.LoadQuery(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	return apisearch.Search(ctx, q.Retriever, c.query, c.cfg.Retrieval.TopK, c.logger)
}

func (c *searchCommander) searchRemote(ctx context.Context) (*apisearch.Output, error) {
	cl, err := client.New(c.cfg.Client.APITarget)
	if err != nil {
		return nil, err
	}
	return cl.Search(ctx, c.query, c.cfg.Retrieval.TopK)
}
