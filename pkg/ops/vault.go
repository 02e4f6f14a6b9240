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

// Gas limits for the shMON vault
const (
	VaultDepositGasLimit = 500000
	VaultRedeemGasLimit  = 800000
	VaultBondGasLimit    = 600000
)

// VaultBondPolicyID is the commitment policy used when bonding shares
const VaultBondPolicyID = 4

// VaultABI contains the ABI for the shMON liquid staking vault
const VaultABI = `[
	{
		"type": "function",
		"name": "deposit",
		"inputs": [
			{"name": "assets", "type": "uint256"},
			{"name": "receiver", "type": "address"}
		],
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "payable"
	},
	{
		"type": "function",
		"name": "redeem",
		"inputs": [
			{"name": "shares", "type": "uint256"},
			{"name": "receiver", "type": "address"},
			{"name": "owner", "type": "address"}
		],
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "bond",
		"inputs": [
			{"name": "policyID", "type": "uint64"},
			{"name": "bondRecipient", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [],
		"stateMutability": "nonpayable"
	}
]`

var vaultABI = mustABI(VaultABI)

// VaultDeposit deposits native MON into the vault for shMON shares
func VaultDeposit(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, amount *big.Int) (*types.Receipt, error) {
	data, err := vaultABI.Pack("deposit", amount, w.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to pack deposit call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.ShmonadContract, amount, VaultDepositGasLimit, data)
}

// VaultRedeem burns shares and returns the underlying native MON
func VaultRedeem(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, shares *big.Int) (*types.Receipt, error) {
	data, err := vaultABI.Pack("redeem", shares, w.Address, w.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to pack redeem call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.ShmonadContract, nil, VaultRedeemGasLimit, data)
}

// VaultBond commits shares to the bonding policy
func VaultBond(ctx context.Context, client *chainclient.Client, w *wallet.Wallet, amount *big.Int) (*types.Receipt, error) {
	data, err := vaultABI.Pack("bond", uint64(VaultBondPolicyID), w.Address, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack bond call: %v", err)
	}

	return client.SubmitCall(ctx, w, tokens.ShmonadContract, nil, VaultBondGasLimit, data)
}

// VaultShareBalance returns the shMON balance of the wallet
func VaultShareBalance(ctx context.Context, client *chainclient.Client, w *wallet.Wallet) (*big.Int, error) {
	return TokenBalance(ctx, client, tokens.ShmonadContract, w.Address)
}
