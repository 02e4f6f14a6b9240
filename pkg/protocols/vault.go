package protocols

import (
	"context"
	"math/big"

	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/ops"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// Shmonad is the shMON liquid staking vault: deposit for shares, redeem
// most of them, bond the rest under the fixed commitment policy
type Shmonad struct {
	client *chainclient.Client
}

func NewShmonad(client *chainclient.Client) *Shmonad {
	return &Shmonad{client: client}
}

func (p *Shmonad) Deposit(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	receipt, err := ops.VaultDeposit(ctx, p.client, w, amount)
	return record("shmonad", receipt, err)
}

func (p *Shmonad) ShareBalance(ctx context.Context, w *wallet.Wallet) (*big.Int, error) {
	return ops.VaultShareBalance(ctx, p.client, w)
}

func (p *Shmonad) Redeem(ctx context.Context, w *wallet.Wallet, shares *big.Int) error {
	receipt, err := ops.VaultRedeem(ctx, p.client, w, shares)
	return record("shmonad", receipt, err)
}

func (p *Shmonad) Bond(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	receipt, err := ops.VaultBond(ctx, p.client, w, amount)
	return record("shmonad", receipt, err)
}
