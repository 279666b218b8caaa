package main

import (
	"context"
	"flag"
	"log"
	"os"

	"CoinLake/internal/di"
	"CoinLake/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	stage := flag.String("stage", "all", "ingest | reconcile | aggregate | all | serve")
	flag.Parse()

	// Local runs keep secrets in .env; absence is fine
	_ = godotenv.Load()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s backend=%s coins=%d", cfg.Environment, cfg.Storage.Backend, len(cfg.Pipeline.Coins))

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if *stage == "serve" {
		// Run dashboard server (blocks until signal)
		if err := app.Run(); err != nil {
			log.Printf("app error: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := app.RunStage(context.Background(), *stage); err != nil {
		log.Printf("stage %s failed: %v", *stage, err)
		os.Exit(1)
	}
}
