package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zainarain279/monad5/pkg/logger"
)

// WithdrawalRequest is one entry from the staking withdrawal status API
type WithdrawalRequest struct {
	ID          json.Number `json:"id"`
	Claimed     bool        `json:"claimed"`
	IsClaimable bool        `json:"is_claimable"`
}

// WithdrawalStatusClient polls the off-chain API that reports when a
// withdrawal request has matured and can be claimed on-chain
type WithdrawalStatusClient struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Logger
}

// NewWithdrawalStatusClient creates a new withdrawal status client
func NewWithdrawalStatusClient(endpoint string, logger logger.Logger) *WithdrawalStatusClient {
	return &WithdrawalStatusClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// ClaimableRequest returns the ID of the first unclaimed request that has
// matured, or false when nothing is claimable yet
func (c *WithdrawalStatusClient) ClaimableRequest(ctx context.Context, address common.Address) (*big.Int, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?address="+address.Hex(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build status request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch withdrawal status: %v", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error("Failed to close response body: %v", err)
		}
	}(resp.Body)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var requests []WithdrawalRequest
	if err := json.Unmarshal(bodyBytes, &requests); err != nil {
		return nil, false, fmt.Errorf("failed to decode withdrawal requests: %v, body: %s", err, string(bodyBytes))
	}

	for _, r := range requests {
		if r.Claimed || !r.IsClaimable {
			continue
		}

		id, ok := new(big.Int).SetString(r.ID.String(), 10)
		if !ok {
			return nil, false, fmt.Errorf("invalid request ID: %s", r.ID)
		}
		return id, true, nil
	}

	return nil, false, nil
}
