// Command reeldocsd runs the reeldocs daemon: the job runner that turns
// uploaded videos into multi-language documentation, plus the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"reeldocs/internal/config"
	"reeldocs/internal/daemon"
	"reeldocs/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := daemon.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reeldocsd: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "reeldocsd: %v\n", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("reeldocsd shutting down")
}
