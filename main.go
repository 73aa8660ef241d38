package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vehicle-auction/internal/bidding"
	"vehicle-auction/internal/config"
	"vehicle-auction/internal/ledger"
	"vehicle-auction/internal/scheduler"
	"vehicle-auction/internal/server"
	"vehicle-auction/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	auctionLedger := ledger.NewMemoryLedger()
	auctionService := bidding.NewService(auctionLedger, bidding.PolicyFromConfig(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := scheduler.NewSweeper(auctionService, cfg.SweepInterval)
	go sweeper.Run(ctx)

	router := server.SetupRouter(auctionService)

	utils.Info("starting auction server", map[string]any{
		"port":           cfg.Port,
		"increment_mode": cfg.IncrementMode,
		"sweep_interval": cfg.SweepInterval.String(),
	})
	if err := router.Run(":" + cfg.Port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
