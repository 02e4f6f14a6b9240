package ops

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

const (
	// SwapDeadline bounds how long a submitted swap stays valid
	SwapDeadline = 6 * time.Hour

	// slippage tolerance: accept no less than 95% of the quoted output
	slippageNumerator   = 95
	slippageDenominator = 100
)

// RouterABI contains the ABI for the v2-style swap routers
const RouterABI = `[
	{
		"inputs": [
			{"name": "amountIn", "type": "uint256"},
			{"name": "path", "type": "address[]"}
		],
		"name": "getAmountsOut",
		"outputs": [{"name": "amounts", "type": "uint256[]"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "amountOutMin", "type": "uint256"},
			{"name": "path", "type": "address[]"},
			{"name": "to", "type": "address"},
			{"name": "deadline", "type": "uint256"}
		],
		"name": "swapExactETHForTokens",
		"outputs": [{"name": "amounts", "type": "uint256[]"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "amountIn", "type": "uint256"},
			{"name": "amountOutMin", "type": "uint256"},
			{"name": "path", "type": "address[]"},
			{"name": "to", "type": "address"},
			{"name": "deadline", "type": "uint256"}
		],
		"name": "swapExactTokensForETH",
		"outputs": [{"name": "amounts", "type": "uint256[]"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "amountIn", "type": "uint256"},
			{"name": "amountOutMin", "type": "uint256"},
			{"name": "path", "type": "address[]"},
			{"name": "to", "type": "address"},
			{"name": "deadline", "type": "uint256"}
		],
		"name": "swapExactTokensForTokens",
		"outputs": [{"name": "amounts", "type": "uint256[]"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

var routerABI = mustABI(RouterABI)

// MinOut applies the slippage tolerance to a quoted output amount
func MinOut(quoted *big.Int) *big.Int {
	out := new(big.Int).Mul(quoted, big.NewInt(slippageNumerator))
	return out.Div(out, big.NewInt(slippageDenominator))
}

// swapDeadline returns the unix deadline for a swap submitted now
func swapDeadline() *big.Int {
	return big.NewInt(time.Now().Add(SwapDeadline).Unix())
}

// QuoteOut returns the expected output of a swap along the given path
func QuoteOut(ctx context.Context, client *chainclient.Client, router common.Address, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	contract := bind.NewBoundContract(router, routerABI, client.Client, client.Client, client.Client)

	var out []interface{}
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAmountsOut", amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get amounts out: %v", err)
	}
	if len(out) == 0 || out[0] == nil {
		return nil, fmt.Errorf("empty amounts out response")
	}

	amounts, ok := out[0].([]*big.Int)
	if !ok || len(amounts) == 0 {
		return nil, fmt.Errorf("invalid amounts out format")
	}
	return amounts[len(amounts)-1], nil
}

// SwapNativeForToken swaps native MON for an ERC20 token through a v2 router
func SwapNativeForToken(
	ctx context.Context,
	client *chainclient.Client,
	w *wallet.Wallet,
	router common.Address,
	token tokens.Token,
	amountIn *big.Int,
	gasLimit uint64,
) (*types.Receipt, error) {
	path := []common.Address{tokens.WMON, token.Address}

	quoted, err := QuoteOut(ctx, client, router, amountIn, path)
	if err != nil {
		return nil, err
	}

	data, err := routerABI.Pack("swapExactETHForTokens", MinOut(quoted), path, w.Address, swapDeadline())
	if err != nil {
		return nil, fmt.Errorf("failed to pack swap call: %v", err)
	}

	return client.SubmitCall(ctx, w, router, amountIn, gasLimit, data)
}

// SwapTokenForNative swaps an ERC20 token back to native MON through a v2 router.
// The router allowance is topped up first when needed.
func SwapTokenForNative(
	ctx context.Context,
	client *chainclient.Client,
	log logger.Logger,
	w *wallet.Wallet,
	router common.Address,
	token tokens.Token,
	amountIn *big.Int,
	gasLimit uint64,
) (*types.Receipt, error) {
	if _, err := EnsureAllowance(ctx, NewChainERC20(client), log, w, token.Address, router, amountIn); err != nil {
		return nil, err
	}

	path := []common.Address{token.Address, tokens.WMON}

	quoted, err := QuoteOut(ctx, client, router, amountIn, path)
	if err != nil {
		return nil, err
	}

	data, err := routerABI.Pack("swapExactTokensForETH", amountIn, MinOut(quoted), path, w.Address, swapDeadline())
	if err != nil {
		return nil, fmt.Errorf("failed to pack swap call: %v", err)
	}

	return client.SubmitCall(ctx, w, router, nil, gasLimit, data)
}

// SwapTokenForToken swaps one ERC20 token for another through a v2 router
func SwapTokenForToken(
	ctx context.Context,
	client *chainclient.Client,
	log logger.Logger,
	w *wallet.Wallet,
	router common.Address,
	from, to tokens.Token,
	amountIn *big.Int,
	gasLimit uint64,
) (*types.Receipt, error) {
	if _, err := EnsureAllowance(ctx, NewChainERC20(client), log, w, from.Address, router, amountIn); err != nil {
		return nil, err
	}

	path := []common.Address{from.Address, to.Address}

	quoted, err := QuoteOut(ctx, client, router, amountIn, path)
	if err != nil {
		return nil, err
	}

	data, err := routerABI.Pack("swapExactTokensForTokens", amountIn, MinOut(quoted), path, w.Address, swapDeadline())
	if err != nil {
		return nil, fmt.Errorf("failed to pack swap call: %v", err)
	}

	return client.SubmitCall(ctx, w, router, nil, gasLimit, data)
}
