// Package main implements the entry point for the tasknest API server,
// which tracks tasks and users and keeps their cross-references consistent.
package main

import (
	"context"
	"log"
)

func main() {
	app, err := newApplication(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
