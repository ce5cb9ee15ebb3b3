// Package servecmder provides the serve command, which runs the HTTP API and
// the MCP server over the ingested policy corpus.
package servecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/policyqa/api"
	"github.com/papercomputeco/policyqa/api/mcp"
	"github.com/papercomputeco/policyqa/pkg/bootstrap"
	"github.com/papercomputeco/policyqa/pkg/config"
	"github.com/papercomputeco/policyqa/pkg/logger"
)

const serveLongDesc string = `Run the policyqa API server.

Loads the artifacts once at startup and serves:
  GET  /health       liveness probe
  POST /query        {"question": "..."} -> {"answer": "...", "sources": [...]}
  GET  /v1/search    ?query=...&top_k=N ranked policy chunks
  /mcp               MCP streamable HTTP endpoint with search and ask tools

Examples:
  policyqa serve
  policyqa serve --listen :9000 --cache-provider sqlite --cache-target cache.db
  policyqa serve --log-file /var/log/policyqa.json`

const serveShortDesc string = "Run the policyqa API and MCP server"

var serveFlags = []string{
	config.FlagAPIListen,
	config.FlagTopK,
	config.FlagArtifactsDir,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagCacheProvider,
	config.FlagCacheTarget,
	config.FlagGeneratorProv,
	config.FlagGeneratorTgt,
	config.FlagGeneratorModel,
}

type ServeCommander struct {
	flags struct {
		listen       string
		topK         int
		artifactsDir string
		storeProv    string
		storeTarget  string
		cacheProv    string
		cacheTarget  string
		genProv      string
		genTarget    string
		genModel     string
	}
	noMCP   bool
	logFile string

	cfg    *config.Config
	debug  bool
	logger *slog.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ResolveCommand(cmd, serveFlags...)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = cfg
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.flags.listen)
	config.AddIntFlag(cmd, config.Flags, config.FlagTopK, &cmder.flags.topK)
	config.AddStringFlag(cmd, config.Flags, config.FlagArtifactsDir, &cmder.flags.artifactsDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &cmder.flags.storeProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreTgt, &cmder.flags.storeTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagCacheProvider, &cmder.flags.cacheProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagCacheTarget, &cmder.flags.cacheTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagGeneratorProv, &cmder.flags.genProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagGeneratorTgt, &cmder.flags.genTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagGeneratorModel, &cmder.flags.genModel)
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Do not mount the MCP endpoint")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	c.logger = log

	q, err := bootstrap.LoadQuery(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer q.Close()

	answering, err := bootstrap.NewAnswering(ctx, c.cfg, q.Retriever, c.logger)
	if err != nil {
		return err
	}
	defer answering.Close()

	apiConfig := api.Config{
		ListenAddr:  c.cfg.API.Listen,
		Searcher:    q.Retriever,
		Answerer:    answering.Service,
		DefaultTopK: c.cfg.Retrieval.TopK,
	}

	if !c.noMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Searcher:    q.Retriever,
			Service:     answering.Service,
			DefaultTopK: c.cfg.Retrieval.TopK,
			Logger:      c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating MCP server: %w", err)
		}
		apiConfig.MCPHandler = mcpServer.Handler()
	}

	server, err := api.NewServer(apiConfig, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	c.logger.Info("serving policy corpus",
		"listen", c.cfg.API.Listen,
		"chunks", q.Retriever.Size(),
		"vector_store", c.cfg.VectorStore.Provider,
		"cache", c.cfg.Cache.Provider,
		"generator", c.cfg.Generator.Provider,
		"mcp", !c.noMCP,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		c.logger.Info("shutting down")
		return server.Shutdown()
	}
}

// newLogger returns the console logger, fanned out to a JSON log file when
// --log-file is set.
func (c *ServeCommander) newLogger() (*slog.Logger, func(), error) {
	console := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))
	if c.logFile == "" {
		return console, func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	file := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithSource(c.debug),
		logger.WithWriter(io.Writer(f)),
	)
	return logger.Multi(console, file), func() { _ = f.Close() }, nil
}
