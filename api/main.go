// @title Archive Relay
// @version 1.0.0
// @description Accepts 'testing' and 'results' ZIP archives and streams them back.

// @host localhost:8000
// @BasePath /
// @schemes http

package main

import (
	"log"
	"os"

	"tush00nka/archive_relay/internal/app"
	"tush00nka/archive_relay/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if err := app.Run(cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
