package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/daylog-app/daylog/internal/cli"
	"github.com/daylog-app/daylog/internal/config"
	"github.com/daylog-app/daylog/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
