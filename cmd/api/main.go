package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"quorum/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server.
//
//	@title			Quorum Election API
//	@version		1.0
//	@description	School election administration and voting API.
//	@BasePath		/api/v1
func main() {
	_ = godotenv.Load()

	log.Println("quorum api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("quorum api stopped with error: %v", err)
	}
}
