// Package ingestcmder provides the ingest command, which builds the artifact
// set from a directory of policy documents.
package ingestcmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/policyqa/pkg/bootstrap"
	"github.com/papercomputeco/policyqa/pkg/cliui"
	"github.com/papercomputeco/policyqa/pkg/config"
	"github.com/papercomputeco/policyqa/pkg/dotdir"
	"github.com/papercomputeco/policyqa/pkg/ingest"
	"github.com/papercomputeco/policyqa/pkg/logger"
)

const ingestLongDesc string = `Ingest the policy documents in the data directory.

Every .pdf and .txt/.md file directly inside the data directory is extracted,
split into overlapping word chunks and embedded with a TF-IDF model fitted on
the whole corpus. The run writes three artifacts that search, ask and serve
load at startup:
  meta.json    chunk texts and their source files
  index.bin    the vector index
  model.bin    the fitted TF-IDF model

Files that cannot be extracted are reported and skipped. Re-running replaces
the previous artifacts.

Examples:
  policyqa ingest
  policyqa ingest --data-dir ./policies --artifacts-dir ./build
  policyqa ingest --events-provider kafka --events-brokers localhost:9092`

const ingestShortDesc string = "Build the search artifacts from policy documents"

var ingestFlags = []string{
	config.FlagDataDir,
	config.FlagChunkSize,
	config.FlagChunkOverlap,
	config.FlagMaxFeatures,
	config.FlagArtifactsDir,
	config.FlagEventsProvider,
	config.FlagEventsBrokers,
}

type ingestCommander struct {
	flags struct {
		dataDir      string
		chunkSize    int
		chunkOverlap int
		maxFeatures  int
		artifactsDir string
		events       string
		brokers      string
	}

	cfg       *config.Config
	configDir string
	debug     bool
	out       io.Writer
	logger    *slog.Logger
}

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ResolveCommand(cmd, ingestFlags...)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = cfg
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagDataDir, &cmder.flags.dataDir)
	config.AddIntFlag(cmd, config.Flags, config.FlagChunkSize, &cmder.flags.chunkSize)
	config.AddIntFlag(cmd, config.Flags, config.FlagChunkOverlap, &cmder.flags.chunkOverlap)
	config.AddIntFlag(cmd, config.Flags, config.FlagMaxFeatures, &cmder.flags.maxFeatures)
	config.AddStringFlag(cmd, config.Flags, config.FlagArtifactsDir, &cmder.flags.artifactsDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsProvider, &cmder.flags.events)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsBrokers, &cmder.flags.brokers)

	return cmd
}

func (c *ingestCommander) run(ctx context.Context) error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	if err := os.MkdirAll(c.cfg.Artifacts.Dir, 0o755); err != nil {
		return fmt.Errorf("creating artifacts directory: %w", err)
	}

	ing, pub, err := bootstrap.NewIngester(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer pub.Close()

	fmt.Fprintf(c.out, "\n  %s %s\n\n", cliui.KeyStyle.Render("Ingesting"), cliui.ValueStyle.Render(c.cfg.Ingest.DataDir))

	var res *ingest.Result
	err = cliui.Step(c.out, "Extracting, chunking and indexing documents", func() error {
		var runErr error
		res, runErr = ing.Run(ctx)
		return runErr
	})
	if res != nil {
		c.printFailures(res)
	}
	if err != nil {
		return err
	}

	c.printSummary(res)

	if err := c.saveState(res); err != nil {
		c.logger.Warn("could not record ingest state", "error", err)
	}
	return nil
}

func (c *ingestCommander) printFailures(res *ingest.Result) {
	for _, f := range res.Failures {
		fmt.Fprintf(c.out, "  %s %s\n", cliui.FailMark, cliui.DimStyle.Render(f.Error()))
	}
}

func (c *ingestCommander) printSummary(res *ingest.Result) {
	paths := bootstrap.ArtifactPaths(c.cfg.Artifacts)

	fmt.Fprintln(c.out)
	rows := [][2]string{
		{"Documents: ", fmt.Sprintf("%d", len(res.Documents))},
		{"Skipped:   ", fmt.Sprintf("%d", len(res.Failures))},
		{"Chunks:    ", fmt.Sprintf("%d", res.Chunks)},
		{"Dimensions:", fmt.Sprintf("%d", res.Dimensions)},
		{"Duration:  ", cliui.FormatDuration(res.Duration)},
		{"Metadata:  ", paths.Metadata},
		{"Index:     ", paths.Index},
		{"Model:     ", paths.Model},
	}
	for _, r := range rows {
		fmt.Fprintf(c.out, "  %s  %s\n", cliui.KeyStyle.Render(r[0]), cliui.ValueStyle.Render(r[1]))
	}
	fmt.Fprintln(c.out)
}

func (c *ingestCommander) saveState(res *ingest.Result) error {
	manager := dotdir.NewManager()
	target, err := manager.Target(c.configDir)
	if err != nil || target == "" {
		return err
	}

	paths := bootstrap.ArtifactPaths(c.cfg.Artifacts)
	return manager.SaveIngestState(&dotdir.IngestState{
		DataDir:     c.cfg.Ingest.DataDir,
		Metadata:    paths.Metadata,
		Index:       paths.Index,
		Model:       paths.Model,
		Documents:   len(res.Documents),
		Chunks:      res.Chunks,
		Dimensions:  res.Dimensions,
		FailedFiles: res.FailedFiles(),
		CompletedAt: time.Now().UTC(),
	}, target)
}
