package config

import (
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/joho/godotenv"
	"github.com/zainarain279/monad5/pkg/logger"
)

// Config holds the configuration for the automation service
type Config struct {
	RPCURL            string
	ExplorerURL       string
	ChainID           int64
	WalletFile        string
	Amounts           AmountConfig
	Delays            DelayConfig
	GasMultiplier     float64
	TxWaitTimeout     time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	MetricsPort       string
	CircuitBreaker    CircuitBreakerConfig
	LoggerConfig      LoggerConfig
	AprioriStatusURL  string
	MonorailQuoteURL  string
}

// AmountConfig controls how per-cycle transaction amounts are drawn
type AmountConfig struct {
	MinBP         int64 // lower bound in basis points of the native balance
	MaxBP         int64 // upper bound, exclusive
	FloorWei      *big.Int
	DefaultAmount *big.Int
}

// DelayConfig controls the randomized pauses between operations
type DelayConfig struct {
	MinCycleDelay       time.Duration
	MaxCycleDelay       time.Duration
	AccountSwitchDelay  time.Duration
	ProtocolSettleDelay time.Duration
	ClaimDelay          time.Duration
	BatchInterval       time.Duration
}

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled        bool
	Threshold      int
	WindowDuration time.Duration
	ResetTimeout   time.Duration
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	rpcURL, err := GetEnvRPCURL()
	if err != nil {
		return nil, err
	}

	explorerURL, err := GetEnvExplorerURL()
	if err != nil {
		return nil, err
	}

	chainID, err := GetEnvChainID()
	if err != nil {
		return nil, err
	}

	walletFile := GetEnvWalletFile()

	minBP, maxBP, err := GetEnvAmountRange()
	if err != nil {
		return nil, err
	}

	floorWei, err := GetEnvFloorAmount()
	if err != nil {
		return nil, err
	}

	defaultAmount, err := GetEnvDefaultAmount()
	if err != nil {
		return nil, err
	}

	minDelay, maxDelay, err := GetEnvCycleDelayRange()
	if err != nil {
		return nil, err
	}

	batchInterval, err := GetEnvBatchInterval()
	if err != nil {
		return nil, err
	}

	gasMultiplier, err := GetEnvGasMultiplier()
	if err != nil {
		return nil, err
	}

	txWaitTimeout, err := GetEnvTxWaitTimeout()
	if err != nil {
		return nil, err
	}

	maxRetries, err := GetEnvMaxRetries()
	if err != nil {
		return nil, err
	}

	retryDelay, err := GetEnvRetryDelay()
	if err != nil {
		return nil, err
	}

	metricsPort, err := GetEnvMetricsPort()
	if err != nil {
		return nil, err
	}

	cbEnabled, err := GetEnvCircuitBreakerEnabled()
	if err != nil {
		return nil, err
	}

	cbThreshold, err := GetEnvCircuitBreakerThreshold()
	if err != nil {
		return nil, err
	}

	cbWindow, err := GetEnvCircuitBreakerWindow()
	if err != nil {
		return nil, err
	}

	cbReset, err := GetEnvCircuitBreakerReset()
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RPCURL:      rpcURL,
		ExplorerURL: explorerURL,
		ChainID:     chainID,
		WalletFile:  walletFile,
		Amounts: AmountConfig{
			MinBP:         minBP,
			MaxBP:         maxBP,
			FloorWei:      floorWei,
			DefaultAmount: defaultAmount,
		},
		Delays: DelayConfig{
			MinCycleDelay:       minDelay,
			MaxCycleDelay:       maxDelay,
			AccountSwitchDelay:  DefaultAccountSwitchDelay * time.Second,
			ProtocolSettleDelay: DefaultProtocolSettleDelay * time.Second,
			ClaimDelay:          DefaultClaimDelay * time.Second,
			BatchInterval:       batchInterval,
		},
		GasMultiplier: gasMultiplier,
		TxWaitTimeout: txWaitTimeout,
		MaxRetries:    maxRetries,
		RetryDelay:    retryDelay,
		MetricsPort:   metricsPort,
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:        cbEnabled,
			Threshold:      cbThreshold,
			WindowDuration: cbWindow,
			ResetTimeout:   cbReset,
		},
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
		AprioriStatusURL: GetEnvAprioriStatusURL(),
		MonorailQuoteURL: GetEnvMonorailQuoteURL(),
	}

	// Validate required environment variables
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return fmt.Errorf("RPC_URL environment variable is required")
	}
	if cfg.WalletFile == "" {
		return fmt.Errorf("WALLET_FILE environment variable is required")
	}
	if cfg.Amounts.MinBP >= cfg.Amounts.MaxBP {
		return fmt.Errorf("AMOUNT_MIN_BP must be less than AMOUNT_MAX_BP")
	}
	if cfg.Delays.MinCycleDelay > cfg.Delays.MaxCycleDelay {
		return fmt.Errorf("MIN_CYCLE_DELAY must not exceed MAX_CYCLE_DELAY")
	}
	return nil
}
