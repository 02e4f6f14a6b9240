package protocols

import (
	"context"
	"math/big"

	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/ops"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// WrapRoundTrip wraps native into WMON and back. Rubic and izumi cycles
// are both wrap round-trips against the same wrapped token.
type WrapRoundTrip struct {
	name   string
	client *chainclient.Client
}

func NewWrapRoundTrip(name string, client *chainclient.Client) *WrapRoundTrip {
	return &WrapRoundTrip{name: name, client: client}
}

func (p *WrapRoundTrip) Wrap(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	receipt, err := ops.Wrap(ctx, p.client, w, amount)
	return record(p.name, receipt, err)
}

func (p *WrapRoundTrip) Unwrap(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	receipt, err := ops.Unwrap(ctx, p.client, w, amount)
	return record(p.name, receipt, err)
}
