package ops

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// Gas limits for the staking contracts
const (
	AprioriStakeGasLimit   = 500000
	AprioriUnstakeGasLimit = 800000
	AprioriClaimGasLimit   = 800000
	MagmaStakeGasLimit     = 500000
	MagmaUnstakeGasLimit   = 800000
)

// Function selectors for the staking contracts. Only the selectors are
// published for these testnet deployments, not full ABIs.
var (
	aprioriStakeSelector   = common.Hex2Bytes("6e553f65") // deposit(uint256,address)
	aprioriUnstakeSelector = common.Hex2Bytes("7d41c86e") // requestRedeem(uint256,address,address)
	aprioriClaimSelector   = common.Hex2Bytes("492e47d2") // takes (uint256[],address)
	magmaStakeSelector     = common.Hex2Bytes("d5575982")
	magmaUnstakeSelector   = common.Hex2Bytes("6fed1ea7")
	kintsuStakeSelector    = common.Hex2Bytes("3a4b66f1") // stake()
	kintsuUnstakeSelector  = common.Hex2Bytes("30af6b2e") // decreaseStake(uint256,uint256)
)

var (
	uint256Type      = mustType("uint256")
	addressType      = mustType("address")
	uint256SliceType = mustType("uint256[]")
)

// AprioriStake stakes native MON for aprMON
func AprioriStake(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, amount *big.Int) (*types.Receipt, error) {
	data, err := packCall(aprioriStakeSelector, abi.Arguments{
		{Type: uint256Type},
		{Type: addressType},
	}, amount, w.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to pack stake call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.AprioriContract, amount, AprioriStakeGasLimit, data)
}

// AprioriRequestUnstake files a withdrawal request for the given aprMON amount
func AprioriRequestUnstake(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, amount *big.Int) (*types.Receipt, error) {
	data, err := packCall(aprioriUnstakeSelector, abi.Arguments{
		{Type: uint256Type},
		{Type: addressType},
		{Type: addressType},
	}, amount, w.Address, w.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to pack unstake call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.AprioriContract, nil, AprioriUnstakeGasLimit, data)
}

// AprioriClaim claims a matured withdrawal request by its ID
func AprioriClaim(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, requestID *big.Int) (*types.Receipt, error) {
	data, err := packCall(aprioriClaimSelector, abi.Arguments{
		{Type: uint256SliceType},
		{Type: addressType},
	}, []*big.Int{requestID}, w.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to pack claim call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.AprioriContract, nil, AprioriClaimGasLimit, data)
}

// MagmaStake stakes native MON for gMON
func MagmaStake(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, amount *big.Int) (*types.Receipt, error) {
	return client.SubmitCall(ctx, w, tokens.MagmaContract, amount, MagmaStakeGasLimit, magmaStakeSelector)
}

// MagmaUnstake withdraws the given gMON amount back to native MON
func MagmaUnstake(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, amount *big.Int) (*types.Receipt, error) {
	data, err := packCall(magmaUnstakeSelector, abi.Arguments{
		{Type: uint256Type},
	}, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack unstake call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.MagmaContract, nil, MagmaUnstakeGasLimit, data)
}

// KintsuStake stakes native MON for sMON
func KintsuStake(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, amount *big.Int, gasLimit uint64) (*types.Receipt, error) {
	return client.SubmitCall(ctx, w, tokens.KintsuContract, amount, gasLimit, kintsuStakeSelector)
}

// KintsuUnstake decreases the stake held by a position token
func KintsuUnstake(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, tokenID, amount *big.Int, gasLimit uint64) (*types.Receipt, error) {
	data, err := packCall(kintsuUnstakeSelector, abi.Arguments{
		{Type: uint256Type},
		{Type: uint256Type},
	}, tokenID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack unstake call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.KintsuContract, nil, gasLimit, data)
}

// KintsuShareBalance returns the sMON balance of the wallet
func KintsuShareBalance(ctx context.Context, client *chainclient.Client, w *wallet.Wallet) (*big.Int, error) {
	return TokenBalance(ctx, client, tokens.KintsuContract, w.Address)
}
