package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// PathfinderGasLimit is the gas limit for swaps routed by the pathfinder
const PathfinderGasLimit = 500000

// pathfinderNative is the token identifier the API uses for native MON
const pathfinderNative = "0x0000000000000000000000000000000000000000"

// TxPlan is the transaction returned by the pathfinder for a quote
type TxPlan struct {
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *hexutil.Big   `json:"value"`
}

type quoteResponse struct {
	Quote struct {
		Transaction *TxPlan `json:"transaction"`
	} `json:"quote"`
}

// PathfinderClient fetches routed swap transactions from the quote API
type PathfinderClient struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Logger
}

// NewPathfinderClient creates a new pathfinder quote client
func NewPathfinderClient(endpoint string, logger logger.Logger) *PathfinderClient {
	return &PathfinderClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Quote requests a routed transaction swapping amount of from into to.
// The amount is expressed in whole tokens, not wei.
func (c *PathfinderClient) Quote(ctx context.Context, amount string, from, to string, sender common.Address) (*TxPlan, error) {
	query := url.Values{}
	query.Set("amount", amount)
	query.Set("from", from)
	query.Set("to", to)
	query.Set("slippage", "100")
	query.Set("deadline", "60")
	query.Set("source", "fe")
	query.Set("sender", sender.Hex())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %v", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error("Failed to close response body: %v", err)
		}
	}(resp.Body)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var quote quoteResponse
	if err := json.Unmarshal(bodyBytes, &quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %v, body: %s", err, string(bodyBytes))
	}
	if quote.Quote.Transaction == nil {
		return nil, fmt.Errorf("quote response missing transaction data: %s", string(bodyBytes))
	}

	return quote.Quote.Transaction, nil
}

// FormatUnits renders a wei amount as a whole-token decimal string
func FormatUnits(amount *big.Int, decimals uint8) string {
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(amount, divisor, new(big.Int))

	if frac.Sign() == 0 {
		return whole.String()
	}

	fracStr := fmt.Sprintf("%0*s", decimals, frac.String())
	// trim trailing zeros
	for len(fracStr) > 1 && fracStr[len(fracStr)-1] == '0' {
		fracStr = fracStr[:len(fracStr)-1]
	}
	return whole.String() + "." + fracStr
}

// pathfinderAddr renders a token for the quote API, native as the zero address
func pathfinderAddr(t tokens.Token) string {
	if t.IsNative() {
		return pathfinderNative
	}
	return t.Address.Hex()
}

// Swap executes a swap along the quoted route. The router allowance is
// topped up first for token sources.
func (c *PathfinderClient) Swap(
	ctx context.Context,
	client *chainclient.Client,
	w *wallet.Wallet,
	from, to tokens.Token,
	amountIn *big.Int,
) (*types.Receipt, error) {
	if !from.IsNative() {
		if _, err := EnsureAllowance(ctx, NewChainERC20(client), c.logger, w, from.Address, tokens.MonorailRouter, amountIn); err != nil {
			return nil, err
		}
	}

	plan, err := c.Quote(ctx, FormatUnits(amountIn, from.Decimals), pathfinderAddr(from), pathfinderAddr(to), w.Address)
	if err != nil {
		return nil, err
	}

	var value *big.Int
	if from.IsNative() {
		value = amountIn
	}
	return client.SubmitCall(ctx, w, plan.To, value, PathfinderGasLimit, plan.Data)
}
