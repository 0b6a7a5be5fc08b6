package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/geomsync/geomsync/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	srv, err := injector.BuildServer(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building server:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)

	if err = srv.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error starting server:", err)
		os.Exit(1)
	}

	<-stopCh
	cancel()
	if err = srv.Stop(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error stopping server:", err)
		os.Exit(1)
	}
}
