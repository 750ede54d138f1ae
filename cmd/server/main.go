package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/dmitrijs2005/docvault/internal/server"
	"github.com/dmitrijs2005/docvault/internal/server/config"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(context.Background(), cfg, logger, nil)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(context.Background())
	_ = app.Close()
	if err != nil {
		os.Exit(1)
	}
}
