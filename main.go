package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/config"
	"github.com/zainarain279/monad5/pkg/engine"
	"github.com/zainarain279/monad5/pkg/health"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/protocols"
	"github.com/zainarain279/monad5/pkg/randomizer"
	"github.com/zainarain279/monad5/pkg/wallet"
)

func main() {
	protocol := flag.String("protocol", "all", "protocol to run, or 'all' for the full batch order")
	cycles := flag.Int("cycles", 1, "cycles per account")
	intervalHours := flag.Int("interval", -1, "hours between batches, overrides BATCH_INTERVAL; 0 runs a single batch")
	kintsuTokenID := flag.Int64("kintsu-token-id", 1, "kintsu position token id")
	flag.Parse()

	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)

	// Set up context with cancellation on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		lg.Notice("Received termination signal, shutting down gracefully...")
		cancel()
	}()

	client, err := chainclient.New(ctx, cfg.RPCURL, cfg.ExplorerURL, cfg.ChainID, cfg.GasMultiplier, cfg.TxWaitTimeout)
	if err != nil {
		log.Fatalf("Failed to connect to chain: %v", err)
	}

	wallets, invalid, err := wallet.LoadFile(cfg.WalletFile)
	if err != nil {
		log.Fatalf("Failed to load wallets: %v", err)
	}
	for _, keyErr := range invalid {
		lg.Error("skipping account: %v", keyErr)
	}
	lg.Info("loaded %d accounts from %s", len(wallets), cfg.WalletFile)

	rand := randomizer.New()
	eng := engine.New(client, lg, rand, cfg)
	registry := protocols.NewRegistry(client, lg, rand, cfg, *kintsuTokenID)

	// Start health check and metrics server
	healthServer := health.NewServer(cfg.MetricsPort, client, eng.Breakers())
	go healthServer.Start()

	var descs []*engine.Descriptor
	if *protocol == "all" {
		descs = registry.RunAll()
	} else {
		desc, err := registry.Get(*protocol)
		if err != nil {
			log.Fatalf("%v (known: %v)", err, registry.Names())
		}
		descs = []*engine.Descriptor{desc}
	}

	interval := cfg.Delays.BatchInterval
	if *intervalHours >= 0 {
		interval = time.Duration(*intervalHours) * time.Hour
	}
	lg.Info("starting: %d protocol(s), %d cycle(s) per account, interval %s", len(descs), *cycles, interval)

	if err := eng.RunLoop(ctx, descs, wallets, *cycles, interval); err != nil && ctx.Err() == nil {
		log.Fatalf("Run failed: %v", err)
	}
	lg.Info("done")
}
