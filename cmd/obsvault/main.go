// obsvault is a small operator CLI for poking the resolution and search
// layer against a live vault:
//
//	obsvault resolve <path>
//	obsvault search <query>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/config"
	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/obsidian"
	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/vault"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: obsvault resolve <path> | obsvault search <query>")
		os.Exit(1)
	}
	command, arg := os.Args[1], os.Args[2]

	fs := flag.NewFlagSet("obsvault", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the configuration file (default: ~/.config/obsidianmcp/config.json)")
	_ = fs.Parse(os.Args[3:])

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
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

	backend := vault.NewRemoteVault(client, log.Logger)
	ctx := context.Background()

	switch command {
	case "resolve":
		res, err := vault.NewResolver(backend, log.Logger).Resolve(ctx, arg)
		if err != nil {
			log.Fatal().Err(err).Msg("resolution failed")
		}
		fmt.Printf("%-20s %s\n", "RESOLVED", res.Path)
		fmt.Printf("%-20s %t\n", "CASE CORRECTED", res.CaseCorrected)

	case "search":
		index := vault.NewIndex(backend, log.Logger)
		search := vault.NewOrchestrator(backend.LiveSearch, log.Logger,
			vault.WithCacheFallback(index, vault.SnapshotSearch))
		outcome, err := search.Search(ctx, vault.Query{Text: arg}, vault.Filters{}, vault.Page{})
		if err != nil {
			log.Fatal().Err(err).Msg("search failed")
		}
		fmt.Printf("source=%s generation=%d total=%d\n", outcome.Source, outcome.Generation, outcome.Total)
		for _, m := range outcome.Matches {
			fmt.Println(m.Path)
		}

	default:
		fmt.Println("Usage: obsvault resolve <path> | obsvault search <query>")
		os.Exit(1)
	}
}
