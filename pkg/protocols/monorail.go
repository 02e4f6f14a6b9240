package protocols

import (
	"context"
	"math/big"

	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/ops"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// Monorail routes swaps through the pathfinder quote API, which returns
// ready-to-send transaction payloads
type Monorail struct {
	client     *chainclient.Client
	pathfinder *ops.PathfinderClient
	universe   []tokens.Token
}

func NewMonorail(client *chainclient.Client, pathfinder *ops.PathfinderClient) *Monorail {
	universe := make([]tokens.Token, 0, len(tokens.Monorail)+1)
	universe = append(universe, tokens.Native)
	universe = append(universe, tokens.Monorail...)

	return &Monorail{client: client, pathfinder: pathfinder, universe: universe}
}

func (p *Monorail) Tokens() []tokens.Token {
	return p.universe
}

func (p *Monorail) Balance(ctx context.Context, w *wallet.Wallet, t tokens.Token) (*big.Int, error) {
	if t.IsNative() {
		return p.client.NativeBalance(ctx, w.Address)
	}
	return ops.TokenBalance(ctx, p.client, t.Address, w.Address)
}

func (p *Monorail) Swap(ctx context.Context, w *wallet.Wallet, from, to tokens.Token, amount *big.Int) error {
	receipt, err := p.pathfinder.Swap(ctx, p.client, w, from, to, amount)
	return record("monorail", receipt, err)
}
