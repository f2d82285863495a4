package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/config"
	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/obsidian"
	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/vault"
	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/vaultmcp"
)

func main() {
	var configPath string
	var verbose bool
	flag.StringVar(&configPath, "config", "", "path to config file (default: ~/.config/obsidianmcp/config.json)")
	flag.BoolVar(&verbose, "v", false, "enable verbose logging of input/output")
	flag.Parse()

	setupLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to load %s", configPath)
	}

	var opts []obsidian.Option
	if cfg.Obsidian.Cert != "" {
		opts = append(opts, obsidian.WithCertificate(cfg.Obsidian.Cert))
	} else {
		opts = append(opts, obsidian.WithInsecureTLS())
	}
	client, err := obsidian.NewClient(cfg.Obsidian.URL, cfg.Obsidian.APIKey, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := vault.NewRemoteVault(client, log.Logger)
	resolver := vault.NewResolver(backend, log.Logger)

	var searchOpts []vault.OrchestratorOption
	if cfg.Cache.Enabled {
		index := vault.NewIndex(backend, log.Logger,
			vault.WithRefreshInterval(cfg.RefreshInterval()),
			vault.WithStaleAfter(cfg.StaleAfter()),
		)
		go index.Run(ctx)
		searchOpts = append(searchOpts, vault.WithCacheFallback(index, vault.SnapshotSearch))
		log.Info().Dur("refresh_interval", cfg.RefreshInterval()).Msg("cache fallback enabled")
	}
	search := vault.NewOrchestrator(backend.LiveSearch, log.Logger, searchOpts...)

	deps := vaultmcp.Deps{
		Client:   client,
		Backend:  backend,
		Resolver: resolver,
		Search:   search,
	}

	s := server.NewMCPServer(
		"Obsidian Vault MCP Server",
		"1.0.0",
	)

	// Tool registry map
	toolRegistry := map[string]func(*server.MCPServer, vaultmcp.Deps){
		"read_note":             vaultmcp.RegisterReadNote,
		"create_or_update_note": vaultmcp.RegisterCreateOrUpdateNote,
		"append_note":           vaultmcp.RegisterAppendNote,
		"delete_note":           vaultmcp.RegisterDeleteNote,
		"move_note":             vaultmcp.RegisterMoveNote,
		"list_files":            vaultmcp.RegisterListFiles,
		"search_notes":          vaultmcp.RegisterSearchNotes,
		"get_active_file":       vaultmcp.RegisterGetActiveFile,
		"append_active_file":    vaultmcp.RegisterAppendActiveFile,
		"get_daily_note":        vaultmcp.RegisterGetDailyNote,
		"open_note":             vaultmcp.RegisterOpenNote,
	}

	for name, registerFunc := range toolRegistry {
		if enabled, ok := cfg.MCP.Tools[name]; ok && enabled {
			log.Info().Msgf("Registering tool %s", name)
			registerFunc(s, deps)
		} else if !ok {
			log.Warn().Msgf("Tool %s not found in config, skipping", name)
		}
	}

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if verbose {
		in = &loggingReader{os.Stdin}
		out = &loggingWriter{os.Stdout}
	}
	if err := serveStdio(ctx, s, in, out); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}

type loggingReader struct {
	r io.Reader
}

func (lr *loggingReader) Read(p []byte) (n int, err error) {
	n, err = lr.r.Read(p)
	if n > 0 {
		log.Info().Msgf("IN: %q", p[:n])
	}
	return n, err
}

type loggingWriter struct {
	w io.Writer
}

func (lw *loggingWriter) Write(p []byte) (n int, err error) {
	if len(p) < 50 {
		log.Info().Msgf("OUT: %q", p)
	} else {
		log.Info().Msgf("OUT: %q...", p[:50])
	}
	return lw.w.Write(p)
}

func serveStdio(ctx context.Context, srv *server.MCPServer, in io.Reader, out io.Writer) error {
	s := server.NewStdioServer(srv)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	return s.Listen(ctx, in, out)
}

func setupLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Stamp,
	})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
