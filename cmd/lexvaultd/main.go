package main

import (
	"context"
	_ "embed"
	"flag"
	"strings"

	"lexvault/pkg/config"
	"lexvault/pkg/log"
	"lexvault/pkg/server"
)

//go:embed VERSION
var Version string

func main() {
	configPath := flag.String("config", "", "Configuration file path (YAML or TOML)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Logging.Format == "json" {
		log.SetJSONOutput()
	}
	if *debug || cfg.Logging.Level == "debug" {
		log.SetDebugMode()
	}

	blobs, err := config.NewBlobClient(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob storage")
	}

	srv := server.New(cfg, blobs, strings.TrimSpace(Version))
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
