package ops

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// ambient pool parameters
const (
	ambientCallpath = 1
	ambientPoolIdx  = 0x8ca0
)

// AmbientABI contains the ABI for the ambient dex entry point
const AmbientABI = `[
	{
		"inputs": [
			{"name": "callpath", "type": "uint16"},
			{"name": "cmd", "type": "bytes"}
		],
		"name": "userCmd",
		"outputs": [{"name": "", "type": "bytes"}],
		"stateMutability": "payable",
		"type": "function"
	}
]`

var ambientABI = mustABI(AmbientABI)

// limit prices spanning the full price range, direction dependent
var (
	ambientMinPrice    = new(big.Int).SetInt64(1)
	ambientBuyMaxPrice = mustBig("0xffff5433e2b3d8211706e6102aa9471")
)

func mustBig(hex string) *big.Int {
	n, ok := new(big.Int).SetString(hex[2:], 16)
	if !ok {
		panic("invalid big int literal: " + hex)
	}
	return n
}

var ambientSwapArgs = abi.Arguments{
	{Type: addressType},           // base
	{Type: addressType},           // quote
	{Type: uint256Type},           // poolIdx
	{Type: mustType("bool")},      // isBuy
	{Type: mustType("bool")},      // inBaseQty
	{Type: mustType("uint128")},   // qty
	{Type: mustType("uint16")},    // tip
	{Type: mustType("uint128")},   // limitPrice
	{Type: mustType("uint128")},   // minOut
	{Type: mustType("uint8")},     // reserveFlags
}

// packAmbientSwap encodes the swap command for userCmd
func packAmbientSwap(base, quote common.Address, isBuy, inBaseQty bool, qty, limitPrice, minOut *big.Int, reserveFlags uint8) ([]byte, error) {
	cmd, err := ambientSwapArgs.Pack(
		base,
		quote,
		big.NewInt(ambientPoolIdx),
		isBuy,
		inBaseQty,
		qty,
		uint16(0),
		limitPrice,
		minOut,
		reserveFlags,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap command: %v", err)
	}

	return ambientABI.Pack("userCmd", uint16(ambientCallpath), cmd)
}

// AmbientSwapNative swaps native MON into a token on the ambient dex
func AmbientSwapNative(
	ctx context.Context,
	client *chainclient.Client,
	w *wallet.Wallet,
	token tokens.Token,
	amountIn *big.Int,
	gasLimit uint64,
) (*types.Receipt, error) {
	// native is the base side of every ambient pool
	minOut := new(big.Int).Mul(amountIn, big.NewInt(95))
	minOut.Div(minOut, big.NewInt(100))

	data, err := packAmbientSwap(common.Address{}, token.Address, false, true, amountIn, ambientMinPrice, minOut, 0)
	if err != nil {
		return nil, err
	}

	return client.SubmitCall(ctx, w, tokens.AmbientRouter, amountIn, gasLimit, data)
}

// AmbientSwapToken swaps a token back to native MON on the ambient dex.
// The dex allowance is topped up first when needed.
func AmbientSwapToken(
	ctx context.Context,
	client *chainclient.Client,
	log logger.Logger,
	w *wallet.Wallet,
	token tokens.Token,
	amountIn *big.Int,
	gasLimit uint64,
) (*types.Receipt, error) {
	if _, err := EnsureAllowance(ctx, NewChainERC20(client), log, w, token.Address, tokens.AmbientRouter, amountIn); err != nil {
		return nil, err
	}

	minOut := new(big.Int).Mul(amountIn, big.NewInt(97))
	minOut.Div(minOut, big.NewInt(100))

	// settle through the dex-held surplus ledger
	data, err := packAmbientSwap(common.Address{}, token.Address, false, false, amountIn, ambientMinPrice, minOut, 0x02)
	if err != nil {
		return nil, err
	}

	return client.SubmitCall(ctx, w, tokens.AmbientRouter, nil, gasLimit, data)
}
