package config

import (
	"fmt"
	"math/big"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/zainarain279/monad5/pkg/logger"
)

const (
	// DefaultRPCURL is the default Monad testnet RPC endpoint
	DefaultRPCURL = "https://testnet-rpc.monad.xyz/"

	// DefaultExplorerURL is the default transaction explorer prefix
	DefaultExplorerURL = "https://testnet.monadexplorer.com/tx/"

	// DefaultChainID is the Monad testnet chain ID
	DefaultChainID = 10143

	// DefaultWalletFile is the default file holding one private key per line
	DefaultWalletFile = "wallet.txt"

	// DefaultAmountMinBP defines the lower bound for randomized amounts in basis points (0.1% of balance)
	DefaultAmountMinBP = 10

	// DefaultAmountMaxBP defines the upper bound for randomized amounts in basis points (1% of balance)
	DefaultAmountMaxBP = 100

	// DefaultFloorAmount defines the substitute amount when a draw falls below the dust floor
	DefaultFloorAmount = "100000000000000" // 0.0001 MON

	// DefaultAmount defines the fallback amount when the balance cannot be read
	DefaultAmountWei = "10000000000000000" // 0.01 MON

	// DefaultMinCycleDelay defines the minimum pause between cycle steps in seconds
	DefaultMinCycleDelay = 30

	// DefaultMaxCycleDelay defines the maximum pause between cycle steps in seconds
	DefaultMaxCycleDelay = 60

	// DefaultAccountSwitchDelay defines the pause between accounts in seconds
	DefaultAccountSwitchDelay = 3

	// DefaultProtocolSettleDelay defines the pause between protocols in run-all mode in seconds
	DefaultProtocolSettleDelay = 5

	// DefaultClaimDelay defines the wait before claiming matured unstake requests in seconds
	DefaultClaimDelay = 660

	// DefaultBatchInterval defines the interval between scheduled batches in hours
	DefaultBatchInterval = 1

	// DefaultGasMultiplier defines the multiplier applied to suggested fees
	DefaultGasMultiplier = 1.05

	// DefaultTxWaitTimeout defines the receipt wait timeout in seconds
	DefaultTxWaitTimeout = 180

	// DefaultMaxRetries defines the maximum number of retries for transient failures
	DefaultMaxRetries = 3

	// DefaultRetryDelay defines the fixed delay between retries in seconds
	DefaultRetryDelay = 5

	// DefaultMetricsPort defines the default port for the metrics server
	DefaultMetricsPort = "8080"

	// DefaultCircuitBreakerEnabled defines whether the circuit breaker is enabled
	DefaultCircuitBreakerEnabled = true

	// DefaultCircuitBreakerThreshold defines the number of failures before the circuit breaker trips
	DefaultCircuitBreakerThreshold = 5

	// DefaultCircuitBreakerWindow defines the time window for the circuit breaker in seconds
	DefaultCircuitBreakerWindow = 60

	// DefaultCircuitBreakerReset defines the reset timeout for the circuit breaker in seconds
	DefaultCircuitBreakerReset = 300

	// DefaultAprioriStatusURL is the endpoint reporting withdrawal request status
	DefaultAprioriStatusURL = "https://stake-api.apr.io/withdrawal_requests"

	// DefaultMonorailQuoteURL is the pathfinder quote endpoint
	DefaultMonorailQuoteURL = "https://testnet-pathfinder.monorail.xyz/v1/router/quote"
)

// GetEnvRPCURL returns the RPC endpoint from environment variables
func GetEnvRPCURL() (string, error) {
	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		return DefaultRPCURL, nil
	}

	// Validate URL format
	if _, err := url.ParseRequestURI(rpcURL); err != nil {
		return "", fmt.Errorf("invalid RPC_URL value: %s, must be a valid URL", rpcURL)
	}
	return rpcURL, nil
}

// GetEnvExplorerURL returns the explorer prefix from environment variables
func GetEnvExplorerURL() (string, error) {
	explorerURL := os.Getenv("EXPLORER_URL")
	if explorerURL == "" {
		return DefaultExplorerURL, nil
	}

	if _, err := url.ParseRequestURI(explorerURL); err != nil {
		return "", fmt.Errorf("invalid EXPLORER_URL value: %s, must be a valid URL", explorerURL)
	}
	return explorerURL, nil
}

// GetEnvChainID returns the chain ID from environment variables
func GetEnvChainID() (int64, error) {
	chainID := os.Getenv("CHAIN_ID")
	if chainID == "" {
		return DefaultChainID, nil
	}

	id, err := strconv.ParseInt(chainID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid CHAIN_ID value: %s, must be an integer", chainID)
	}
	if id <= 0 {
		return 0, fmt.Errorf("CHAIN_ID must be greater than 0")
	}
	return id, nil
}

// GetEnvWalletFile returns the wallet file path from environment variables
func GetEnvWalletFile() string {
	walletFile := os.Getenv("WALLET_FILE")
	if walletFile == "" {
		return DefaultWalletFile
	}
	return walletFile
}

// GetEnvAmountRange returns the randomized amount bounds in basis points
func GetEnvAmountRange() (int64, int64, error) {
	minBP := int64(DefaultAmountMinBP)
	maxBP := int64(DefaultAmountMaxBP)

	if v := os.Getenv("AMOUNT_MIN_BP"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid AMOUNT_MIN_BP value: %s, must be an integer", v)
		}
		if parsed <= 0 {
			return 0, 0, fmt.Errorf("AMOUNT_MIN_BP must be greater than 0")
		}
		minBP = parsed
	}

	if v := os.Getenv("AMOUNT_MAX_BP"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid AMOUNT_MAX_BP value: %s, must be an integer", v)
		}
		if parsed <= 0 {
			return 0, 0, fmt.Errorf("AMOUNT_MAX_BP must be greater than 0")
		}
		maxBP = parsed
	}

	return minBP, maxBP, nil
}

// GetEnvFloorAmount returns the dust floor substitution amount in wei
func GetEnvFloorAmount() (*big.Int, error) {
	floor := os.Getenv("FLOOR_AMOUNT_WEI")
	if floor == "" {
		floor = DefaultFloorAmount
	}

	floorBig := new(big.Int)
	if _, ok := floorBig.SetString(floor, 10); !ok {
		return nil, fmt.Errorf("invalid FLOOR_AMOUNT_WEI value: %s, must be a valid integer string", floor)
	}
	if floorBig.Sign() <= 0 {
		return nil, fmt.Errorf("FLOOR_AMOUNT_WEI must be greater than 0")
	}
	return floorBig, nil
}

// GetEnvDefaultAmount returns the fallback amount in wei used when the balance is unreadable
func GetEnvDefaultAmount() (*big.Int, error) {
	amount := os.Getenv("DEFAULT_AMOUNT_WEI")
	if amount == "" {
		amount = DefaultAmountWei
	}

	amountBig := new(big.Int)
	if _, ok := amountBig.SetString(amount, 10); !ok {
		return nil, fmt.Errorf("invalid DEFAULT_AMOUNT_WEI value: %s, must be a valid integer string", amount)
	}
	if amountBig.Sign() <= 0 {
		return nil, fmt.Errorf("DEFAULT_AMOUNT_WEI must be greater than 0")
	}
	return amountBig, nil
}

// GetEnvCycleDelayRange returns the min and max pause between cycle steps
func GetEnvCycleDelayRange() (time.Duration, time.Duration, error) {
	minDelay := time.Duration(DefaultMinCycleDelay) * time.Second
	maxDelay := time.Duration(DefaultMaxCycleDelay) * time.Second

	if v := os.Getenv("MIN_CYCLE_DELAY"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid MIN_CYCLE_DELAY value: %s, must be an integer", v)
		}
		if parsed <= 0 {
			return 0, 0, fmt.Errorf("MIN_CYCLE_DELAY must be greater than 0")
		}
		minDelay = time.Duration(parsed) * time.Second
	}

	if v := os.Getenv("MAX_CYCLE_DELAY"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid MAX_CYCLE_DELAY value: %s, must be an integer", v)
		}
		if parsed <= 0 {
			return 0, 0, fmt.Errorf("MAX_CYCLE_DELAY must be greater than 0")
		}
		maxDelay = time.Duration(parsed) * time.Second
	}

	return minDelay, maxDelay, nil
}

// GetEnvBatchInterval returns the interval between scheduled batches
func GetEnvBatchInterval() (time.Duration, error) {
	interval := os.Getenv("BATCH_INTERVAL")
	if interval == "" {
		return DefaultBatchInterval * time.Hour, nil
	}

	// Validate duration format
	parsed, err := time.ParseDuration(interval)
	if err != nil {
		return 0, fmt.Errorf("invalid BATCH_INTERVAL value: %s, must be a valid duration string", interval)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("BATCH_INTERVAL must be greater than 0")
	}
	return parsed, nil
}

// GetEnvGasMultiplier returns the fee multiplier from environment variables
func GetEnvGasMultiplier() (float64, error) {
	multiplier := os.Getenv("GAS_MULTIPLIER")
	if multiplier == "" {
		return DefaultGasMultiplier, nil
	}

	parsed, err := strconv.ParseFloat(multiplier, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid GAS_MULTIPLIER value: %s, must be a number", multiplier)
	}
	if parsed < 1 {
		return 0, fmt.Errorf("GAS_MULTIPLIER must be at least 1")
	}
	return parsed, nil
}

// GetEnvTxWaitTimeout returns the receipt wait timeout from environment variables
func GetEnvTxWaitTimeout() (time.Duration, error) {
	timeout := os.Getenv("TX_WAIT_TIMEOUT")
	if timeout == "" {
		return DefaultTxWaitTimeout * time.Second, nil
	}

	parsed, err := time.ParseDuration(timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid TX_WAIT_TIMEOUT value: %s, must be a valid duration string", timeout)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("TX_WAIT_TIMEOUT must be greater than 0")
	}
	return parsed, nil
}

// GetEnvMaxRetries returns the maximum number of retries from environment variables
func GetEnvMaxRetries() (int, error) {
	maxRetries := os.Getenv("MAX_RETRIES")
	if maxRetries == "" {
		return DefaultMaxRetries, nil
	}

	maxRetriesInt, err := strconv.Atoi(maxRetries)
	if err != nil {
		return 0, fmt.Errorf("invalid MAX_RETRIES value: %s, must be an integer", maxRetries)
	}
	if maxRetriesInt < 0 {
		return 0, fmt.Errorf("MAX_RETRIES must be greater than or equal to 0")
	}
	return maxRetriesInt, nil
}

// GetEnvRetryDelay returns the fixed delay between retries from environment variables
func GetEnvRetryDelay() (time.Duration, error) {
	retryDelay := os.Getenv("RETRY_DELAY")
	if retryDelay == "" {
		return DefaultRetryDelay * time.Second, nil
	}

	parsed, err := time.ParseDuration(retryDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid RETRY_DELAY value: %s, must be a valid duration string", retryDelay)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("RETRY_DELAY must be greater than 0")
	}
	return parsed, nil
}

// GetEnvMetricsPort returns the metrics server port from environment variables
func GetEnvMetricsPort() (string, error) {
	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		return DefaultMetricsPort, nil
	}

	// Validate port format
	if _, err := strconv.Atoi(metricsPort); err != nil {
		return "", fmt.Errorf("invalid METRICS_PORT value: %s, must be a valid integer", metricsPort)
	}
	return metricsPort, nil
}

// GetEnvCircuitBreakerEnabled returns whether the circuit breaker is enabled from environment variables
func GetEnvCircuitBreakerEnabled() (bool, error) {
	enabled := os.Getenv("CIRCUIT_BREAKER_ENABLED")
	if enabled == "" {
		return DefaultCircuitBreakerEnabled, nil
	}

	if enabled == "true" {
		return true, nil
	} else if enabled == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid CIRCUIT_BREAKER_ENABLED value: %s, must be 'true' or 'false'", enabled)
}

// GetEnvCircuitBreakerThreshold returns the circuit breaker threshold from environment variables
func GetEnvCircuitBreakerThreshold() (int, error) {
	threshold := os.Getenv("CIRCUIT_BREAKER_THRESHOLD")
	if threshold == "" {
		return DefaultCircuitBreakerThreshold, nil
	}

	thresholdInt, err := strconv.Atoi(threshold)
	if err != nil {
		return 0, fmt.Errorf("invalid CIRCUIT_BREAKER_THRESHOLD value: %s, must be an integer", threshold)
	}
	if thresholdInt <= 0 {
		return 0, fmt.Errorf("CIRCUIT_BREAKER_THRESHOLD must be greater than 0")
	}
	return thresholdInt, nil
}

// GetEnvCircuitBreakerWindow returns the circuit breaker window duration from environment variables
func GetEnvCircuitBreakerWindow() (time.Duration, error) {
	window := os.Getenv("CIRCUIT_BREAKER_WINDOW")
	if window == "" {
		return DefaultCircuitBreakerWindow * time.Second, nil
	}

	// Validate duration format
	parsed, err := time.ParseDuration(window)
	if err != nil {
		return 0, fmt.Errorf("invalid CIRCUIT_BREAKER_WINDOW value: %s, must be a valid duration string", window)
	}
	return parsed, nil
}

// GetEnvCircuitBreakerReset returns the circuit breaker reset timeout from environment variables
func GetEnvCircuitBreakerReset() (time.Duration, error) {
	reset := os.Getenv("CIRCUIT_BREAKER_RESET")
	if reset == "" {
		return DefaultCircuitBreakerReset * time.Second, nil
	}

	// Validate duration format
	parsed, err := time.ParseDuration(reset)
	if err != nil {
		return 0, fmt.Errorf("invalid CIRCUIT_BREAKER_RESET value: %s, must be a valid duration string", reset)
	}
	return parsed, nil
}

// GetEnvLogLevel returns the logging level from environment variables
func GetEnvLogLevel() (logger.Level, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return logger.InfoLevel, nil
	}

	switch level {
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "notice":
		return logger.NoticeLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	}

	return 0, fmt.Errorf("invalid LOG_LEVEL value: %s, must be 'debug', 'info', 'notice' or 'error'", level)
}

// GetEnvLogColoring returns whether log coloring is enabled from environment variables
func GetEnvLogColoring() (bool, error) {
	coloring := os.Getenv("LOG_COLORING")
	if coloring == "" {
		return true, nil
	}

	if coloring == "true" {
		return true, nil
	} else if coloring == "false" {
		return false, nil
	}

	return false, fmt.Errorf("invalid LOG_COLORING value: %s, must be 'true' or 'false'", coloring)
}

// GetEnvAprioriStatusURL returns the withdrawal status endpoint from environment variables
func GetEnvAprioriStatusURL() string {
	statusURL := os.Getenv("APRIORI_STATUS_URL")
	if statusURL == "" {
		return DefaultAprioriStatusURL
	}
	return statusURL
}

// GetEnvMonorailQuoteURL returns the pathfinder quote endpoint from environment variables
func GetEnvMonorailQuoteURL() string {
	quoteURL := os.Getenv("MONORAIL_QUOTE_URL")
	if quoteURL == "" {
		return DefaultMonorailQuoteURL
	}
	return quoteURL
}
