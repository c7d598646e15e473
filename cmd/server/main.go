package main

import (
	"context"
	"log"

	"github.com/sundayezeilo/shortlink/internal/app"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	application, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	// Blocks until a shutdown signal arrives.
	return application.Start(ctx)
}
