package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"promptdeck/internal/catalog"
	"promptdeck/internal/config"
	"promptdeck/internal/edge"
	"promptdeck/internal/services"
	"promptdeck/internal/store"
	"promptdeck/internal/tui"
	"promptdeck/internal/version"
)

func main() {
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/promptdeck/config.json)")
	offlineFlag := flag.Bool("offline", false, "Ignore any session and run against the demo catalog")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                        # Run with default configuration\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --offline              # Browse the demo catalog without a session\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config custom.json   # Use custom configuration\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PROMPTDECK_INIT_DATA   Telegram init data for the remote session\n")
		fmt.Fprintf(os.Stderr, "  PROMPTDECK_ANON_KEY    Public API key for the edge functions\n")
		fmt.Fprintf(os.Stderr, "  PROMPTDECK_STORE_PATH  Override the local store location\n")
		fmt.Fprintf(os.Stderr, "  PROMPTDECK_LOG_FILE    Write structured logs to this file\n")
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	// A .env next to the binary is a convenience for local runs; a missing
	// one is the normal case.
	_ = godotenv.Load()

	configPath := *configPathFlag
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
		cfg = config.DefaultConfig()
	}
	if *offlineFlag {
		cfg.InitData = ""
	}

	logger, cleanup, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("Could not initialize logging: %v", err)
	}
	defer cleanup()

	// The store is optional: favorites just lose persistence without it. A
	// failed open leaves kv a nil interface so the services skip the store
	// entirely.
	var kv services.KVStore
	st, err := store.Open(context.Background(), cfg.StorePath)
	if err != nil {
		logger.Warnw("local store unavailable, favorites will not persist", "path", cfg.StorePath, "error", err)
		st = nil
	} else {
		kv = st
		defer func() {
			if err := st.Close(); err != nil {
				logger.Warnw("store close failed", "error", err)
			}
		}()
	}

	client := edge.NewClient(edge.Options{
		ProfileURL:  cfg.Edge.ProfileURL,
		PromptsURL:  cfg.Edge.PromptsURL,
		FavoriteURL: cfg.Edge.FavoriteURL,
		CopyURL:     cfg.Edge.CopyURL,
		AnonKey:     cfg.Edge.AnonKey,
		InitData:    cfg.InitData,
		Timeout:     cfg.EdgeTimeout(),
	})

	state := catalog.NewState()
	catalogSvc := services.NewCatalogService(state, client, kv, logger)
	favoriteSvc := services.NewFavoriteService(state, client, kv, logger)
	profileSvc := services.NewProfileService(client, logger)

	app := tui.NewApp(cfg, state, catalogSvc, favoriteSvc, profileSvc, st, logger)
	if err := app.Run(); err != nil {
		logger.Errorw("application exited with error", "error", err)
		cleanup()
		log.Fatalf("Error running application: %v", err)
	}
}

// buildLogger writes structured logs to the configured file. Without a log
// file it discards everything: stderr belongs to the terminal UI.
func buildLogger(cfg *config.Config) (*zap.SugaredLogger, func(), error) {
	if cfg.LogFile == "" {
		return zap.NewNop().Sugar(), func() {}, nil
	}

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{cfg.LogFile}
	zcfg.ErrorOutputPaths = []string{cfg.LogFile}
	if cfg.LogDebug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return logger.Sugar(), func() { _ = logger.Sync() }, nil
}
