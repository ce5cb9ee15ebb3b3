// Package askcmder provides the ask command, which answers a question from
// the ingested policy corpus.
package askcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/policyqa/api"
	"github.com/papercomputeco/policyqa/api/client"
	"github.com/papercomputeco/policyqa/pkg/bootstrap"
	"github.com/papercomputeco/policyqa/pkg/cliui"
	"github.com/papercomputeco/policyqa/pkg/config"
	"github.com/papercomputeco/policyqa/pkg/logger"
)

const askLongDesc string = `Ask a question about the HR policies.

Retrieves the most relevant policy chunks, asks the configured language model
to answer from them only, and prints the answer with previews of its sources.
Answers are cached by question text, so repeating a question is free.

The generator API key is read from the environment variable named by
generator.api_key_env (GROQ_API_KEY by default). A .env file in the working
directory is loaded at startup.

Examples:
  policyqa ask "How many vacation days do I get?"
  policyqa ask "Can I work remotely?" --generator-provider ollama -m llama3.1
  policyqa ask "What is the dress code?" --remote`

const askShortDesc string = "Answer a question from the policy corpus"

var askFlags = []string{
	config.FlagArtifactsDir,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagCacheProvider,
	config.FlagCacheTarget,
	config.FlagGeneratorProv,
	config.FlagGeneratorTgt,
	config.FlagGeneratorModel,
	config.FlagAPITarget,
}

type askCommander struct {
	question string

	flags struct {
		artifactsDir string
		storeProv    string
		storeTarget  string
		cacheProv    string
		cacheTarget  string
		genProv      string
		genTarget    string
		genModel     string
		apiTarget    string
	}
	remote bool
	asJSON bool

	cfg    *config.Config
	debug  bool
	out    io.Writer
	logger *slog.Logger
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ResolveCommand(cmd, askFlags...)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = cfg
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.question = args[0]
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagArtifactsDir, &cmder.flags.artifactsDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &cmder.flags.storeProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreTgt, &cmder.flags.storeTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagCacheProvider, &cmder.flags.cacheProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagCacheTarget, &cmder.flags.cacheTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagGeneratorProv, &cmder.flags.genProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagGeneratorTgt, &cmder.flags.genTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagGeneratorModel, &cmder.flags.genModel)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.flags.apiTarget)
	cmd.Flags().BoolVar(&cmder.remote, "remote", false, "Ask a running API server instead of answering locally")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the answer and sources as JSON")

	return cmd
}

func (c *askCommander) run(ctx context.Context) error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	var (
		resp *api.QueryResponse
		err  error
	)
	if c.remote {
		resp, err = c.askRemote(ctx)
	} else {
		resp, err = c.askLocal(ctx)
	}
	if err != nil {
		return err
	}

	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	c.render(resp)
	return nil
}

func (c *askCommander) askLocal(ctx context.Context) (*api.QueryResponse, error) {
	q, err := bootstrap.LoadQuery(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	answering, err := bootstrap.NewAnswering(ctx, c.cfg, q.Retriever, c.logger)
	if err != nil {
		return nil, err
	}
	// Close waits for the cache write of a fresh answer.
	defer answering.Close()

	res, err := answering.Service.Ask(ctx, c.question)
	if err != nil {
		return nil, err
	}
	if res.Cached {
		c.logger.Debug("answer served from cache")
	}

	return &api.QueryResponse{Answer: res.Answer, Sources: res.Sources}, nil
}

func (c *askCommander) askRemote(ctx context.Context) (*api.QueryResponse, error) {
	cl, err := client.New(c.cfg.Client.APITarget)
	if err != nil {
		return nil, err
	}
	return cl.Ask(ctx, c.question)
}

func (c *askCommander) render(resp *api.QueryResponse) {
	answer := resp.Answer
	if cliui.IsTerminal(c.out) {
		if rendered, err := cliui.RenderMarkdown(answer); err == nil {
			answer = rendered
		}
	}

	fmt.Fprintf(c.out, "\n%s\n\n", answer)
	cliui.RenderSources(c.out, resp.Sources)
	fmt.Fprintln(c.out)
}
