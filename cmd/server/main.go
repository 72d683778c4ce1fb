package main

import (
	"log"

	"controlstock-backend/internal/branchdb"
	"controlstock-backend/internal/config"
	"controlstock-backend/internal/server"
)

func main() {
	cfg := config.Load()

	registry := branchdb.NewRegistry(cfg)

	// Startup check: the default branch must be reachable before we accept
	// traffic. The other branches connect lazily on first request.
	if _, err := registry.Get(cfg.DefaultBranch); err != nil {
		log.Fatalf("Initial connection to branch %q failed: %v", cfg.DefaultBranch, err)
	}
	log.Printf("Multi-pool database system ready (default: %s)", cfg.DefaultBranch)

	app := server.New(cfg, registry)

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
