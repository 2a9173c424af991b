package main

import (
	"log"
	"net/http"
	"os"

	"gridforge.dev/internal/config"
	"gridforge.dev/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("loading configuration: %v", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
		log.Printf("creating data directory: %v", err)
		os.Exit(1)
	}

	router := handlers.SetupRoutes(cfg)
	log.Printf("serving %dx%d worlds on %s", cfg.Width, cfg.Height, cfg.ServerAddr)
	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		log.Printf("server stopped: %v", err)
		os.Exit(1)
	}
}
