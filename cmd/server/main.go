package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hollowpoint/hollowpoint/internal/core/observability/log"
	"github.com/hollowpoint/hollowpoint/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML server configuration")
	debugTint := flag.Bool("debug-tint", false, "color NPC visuals by behavior state")
	flag.Parse()

	logger := log.New(log.LevelInfo)

	cfg := server.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			fmt.Println("Error opening config:", err)
			os.Exit(1)
		}
		cfg, err = server.LoadConfig(f)
		_ = f.Close()
		if err != nil {
			fmt.Println("Error loading config:", err)
			os.Exit(1)
		}
	}

	if *debugTint {
		cfg.DebugTint = true
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		fmt.Println("Error creating server:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start the server
	if err := srv.Start(ctx); err != nil {
		fmt.Println("Error starting server:", err)
		os.Exit(1)
	}

	<-stopCh
	cancel()
	if err := srv.Stop(); err != nil {
		fmt.Println("Error stopping server:", err)
	}
}
