package ops

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// MaxUint256 represents the maximum possible uint256 value (2^256 - 1),
// used for unlimited token approvals
var MaxUint256 = new(big.Int).Sub(new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil), big.NewInt(1))

// ERC20ABI contains the ABI for the ERC20 functions needed for balances and approvals
const ERC20ABI = `[
	{
		"constant": true,
		"inputs": [{"name": "_owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"payable": false,
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "_owner", "type": "address"},
			{"name": "_spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"payable": false,
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "_spender", "type": "address"},
			{"name": "_value", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"payable": false,
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

var erc20ABI = mustABI(ERC20ABI)

// boundERC20 creates a contract binding for an ERC20 token
func boundERC20(client *chainclient.Client, token common.Address) *bind.BoundContract {
	return bind.NewBoundContract(token, erc20ABI, client.Client, client.Client, client.Client)
}

// TokenBalance returns the ERC20 balance of the owner
func TokenBalance(ctx context.Context, client *chainclient.Client, token, owner common.Address) (*big.Int, error) {
	var out []interface{}
	err := boundERC20(client, token).Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get token balance: %v", err)
	}
	if len(out) == 0 || out[0] == nil {
		return nil, fmt.Errorf("empty balance response")
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invalid balance format")
	}
	return balance, nil
}

// Allowance returns the current spender allowance for the owner
func Allowance(ctx context.Context, client *chainclient.Client, token, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	err := boundERC20(client, token).Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to check allowance: %v", err)
	}
	if len(out) == 0 || out[0] == nil {
		return nil, fmt.Errorf("empty allowance response")
	}

	allowance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invalid allowance format")
	}
	return allowance, nil
}

// AllowanceBackend covers the reads and writes needed to manage a spender
// allowance. ChainERC20 is the chain-backed implementation.
type AllowanceBackend interface {
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	ApproveUnlimited(ctx context.Context, w *wallet.Wallet, token, spender common.Address) (string, error)
}

// ChainERC20 performs ERC20 allowance reads and approvals through the
// chain client
type ChainERC20 struct {
	client *chainclient.Client
}

func NewChainERC20(client *chainclient.Client) *ChainERC20 {
	return &ChainERC20{client: client}
}

func (c *ChainERC20) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	return Allowance(ctx, c.client, token, owner, spender)
}

// ApproveUnlimited submits an unlimited approval, waits for its receipt and
// returns the explorer link of the transaction
func (c *ChainERC20) ApproveUnlimited(ctx context.Context, w *wallet.Wallet, token, spender common.Address) (string, error) {
	auth, err := c.client.Auth(ctx, w)
	if err != nil {
		return "", err
	}

	tx, err := boundERC20(c.client, token).Transact(auth, "approve", spender, MaxUint256)
	if err != nil {
		return "", fmt.Errorf("failed to approve token transfer: %v", err)
	}

	if _, err := c.client.WaitForReceipt(ctx, tx); err != nil {
		return "", fmt.Errorf("approve transaction failed: %v", err)
	}

	return c.client.TxURL(tx.Hash()), nil
}

// EnsureAllowance checks the spender allowance and issues an unlimited approval
// when it does not cover the amount. It returns true if an approval was sent.
func EnsureAllowance(
	ctx context.Context,
	backend AllowanceBackend,
	log logger.Logger,
	w *wallet.Wallet,
	token, spender common.Address,
	amount *big.Int,
) (bool, error) {
	allowance, err := backend.Allowance(ctx, token, w.Address, spender)
	if err != nil {
		return false, err
	}

	if allowance.Cmp(amount) >= 0 {
		log.Debug("existing allowance %s covers amount %s, skipping approval", allowance, amount)
		return false, nil
	}

	txURL, err := backend.ApproveUnlimited(ctx, w, token, spender)
	if err != nil {
		return false, err
	}
	log.Info("approval sent: %s", txURL)

	return true, nil
}
