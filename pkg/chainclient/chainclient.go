package chainclient

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// Client contains client and config information for the target chain
type Client struct {
	ChainID       *big.Int
	RPCURL        string
	ExplorerURL   string
	Client        *ethclient.Client
	GasMultiplier float64
	WaitTimeout   time.Duration
}

// New connects to the chain using the provided RPC URL
func New(ctx context.Context, rpcURL, explorerURL string, chainID int64, gasMultiplier float64, waitTimeout time.Duration) (*Client, error) {
	if gasMultiplier < 1 {
		return nil, fmt.Errorf("invalid gas multiplier: %f", gasMultiplier)
	}

	client := &Client{
		ChainID:       big.NewInt(chainID),
		RPCURL:        rpcURL,
		ExplorerURL:   explorerURL,
		GasMultiplier: gasMultiplier,
		WaitTimeout:   waitTimeout,
	}
	if err := client.connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to chain %d: %v", chainID, err)
	}

	return client, nil
}

// connect establishes the RPC connection and verifies the chain ID
func (c *Client) connect(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, c.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to client: %v", err)
	}

	remoteID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %v", err)
	}
	if remoteID.Cmp(c.ChainID) != 0 {
		return fmt.Errorf("chain ID mismatch: expected %s, got %s", c.ChainID, remoteID)
	}

	c.Client = client
	return nil
}

// NativeBalance returns the native token balance of the given address
func (c *Client) NativeBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	if c.Client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return c.Client.BalanceAt(timeoutCtx, address, nil)
}

// SuggestFees returns the tip cap and fee cap for a new transaction,
// both scaled by the configured gas multiplier
func (c *Client) SuggestFees(ctx context.Context) (*big.Int, *big.Int, error) {
	if c.Client == nil {
		return nil, nil, fmt.Errorf("client not connected")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tipCap, err := c.Client.SuggestGasTipCap(timeoutCtx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get gas tip cap: %v", err)
	}

	gasPrice, err := c.Client.SuggestGasPrice(timeoutCtx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get gas price: %v", err)
	}

	return c.applyMultiplier(tipCap), c.applyMultiplier(gasPrice), nil
}

// applyMultiplier scales a fee value by the configured gas multiplier
func (c *Client) applyMultiplier(fee *big.Int) *big.Int {
	multiplied := new(big.Float).Mul(
		new(big.Float).SetInt(fee),
		big.NewFloat(c.GasMultiplier),
	)

	final := new(big.Int)
	multiplied.Int(final)
	return final
}

// SubmitCall signs, submits and waits for a raw contract call.
// The wait for the receipt is bounded by the configured timeout.
func (c *Client) SubmitCall(
	ctx context.Context,
	w *wallet.Wallet,
	to common.Address,
	value *big.Int,
	gasLimit uint64,
	data []byte,
) (*types.Receipt, error) {
	if c.Client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	nonce, err := c.Client.PendingNonceAt(ctx, w.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %v", err)
	}

	tipCap, feeCap, err := c.SuggestFees(ctx)
	if err != nil {
		return nil, err
	}

	if value == nil {
		value = big.NewInt(0)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.ChainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.ChainID), w.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %v", err)
	}

	if err := c.Client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %v", err)
	}

	return c.WaitForReceipt(ctx, signedTx)
}

// WaitForReceipt waits for a transaction to be mined, bounded by the configured timeout
func (c *Client) WaitForReceipt(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.WaitTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, c.Client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction %s: %v", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}

	return receipt, nil
}

// Auth creates a transactor for the given wallet, used with bound contracts
func (c *Client) Auth(ctx context.Context, w *wallet.Wallet) (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(w.PrivateKey, c.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %v", err)
	}
	auth.Context = ctx
	return auth, nil
}

// TxURL returns the explorer link for a transaction hash
func (c *Client) TxURL(hash common.Hash) string {
	return c.ExplorerURL + hash.Hex()
}
