package ops

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// WrapGasLimit is the gas limit for wrapped native deposits and withdrawals
const WrapGasLimit = 500000

// WMONABI contains the ABI for the wrapped native token
const WMONABI = `[
	{
		"inputs": [],
		"name": "deposit",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [{"name": "amount", "type": "uint256"}],
		"name": "withdraw",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

var wmonABI = mustABI(WMONABI)

// Wrap converts native MON into WMON
func Wrap(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, amount *big.Int) (*types.Receipt, error) {
	data, err := wmonABI.Pack("deposit")
	if err != nil {
		return nil, fmt.Errorf("failed to pack deposit call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.WMON, amount, WrapGasLimit, data)
}

// Unwrap converts WMON back into native MON
func Unwrap(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, amount *big.Int) (*types.Receipt, error) {
	data, err := wmonABI.Pack("withdraw", amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack withdraw call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.WMON, nil, WrapGasLimit, data)
}

// WrappedBalance returns the WMON balance of the owner
func WrappedBalance(ctx context.Context, client *chainclient.Client, w *wallet.Wallet) (*big.Int, error) {
	return TokenBalance(ctx, client, tokens.WMON, w.Address)
}
