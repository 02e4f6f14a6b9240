package protocols

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/ops"
	"github.com/zainarain279/monad5/pkg/randomizer"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// Ambient trades native against its pool tokens on the CrocSwap-style dex.
// Every pool is quoted against native, so token-to-token pairs never occur
// in its two-token universe.
type Ambient struct {
	client   *chainclient.Client
	log      logger.Logger
	rand     *randomizer.Randomizer
	universe []tokens.Token
}

func NewAmbient(client *chainclient.Client, log logger.Logger, rand *randomizer.Randomizer) *Ambient {
	universe := make([]tokens.Token, 0, len(tokens.Ambient)+1)
	universe = append(universe, tokens.Native)
	universe = append(universe, tokens.Ambient...)

	return &Ambient{client: client, log: log, rand: rand, universe: universe}
}

func (p *Ambient) Tokens() []tokens.Token {
	return p.universe
}

func (p *Ambient) Balance(ctx context.Context, w *wallet.Wallet, t tokens.Token) (*big.Int, error) {
	if t.IsNative() {
		return p.client.NativeBalance(ctx, w.Address)
	}
	return ops.TokenBalance(ctx, p.client, t.Address, w.Address)
}

func (p *Ambient) Swap(ctx context.Context, w *wallet.Wallet, from, to tokens.Token, amount *big.Int) error {
	gas, err := p.rand.GasLimit(swapGasMin, swapGasMax)
	if err != nil {
		return err
	}

	var receipt *types.Receipt
	switch {
	case from.IsNative():
		receipt, err = ops.AmbientSwapNative(ctx, p.client, w, to, amount, gas)
	case to.IsNative():
		receipt, err = ops.AmbientSwapToken(ctx, p.client, p.log, w, from, amount, gas)
	default:
		return fmt.Errorf("no %s/%s pool, pairs must include native", from.Symbol, to.Symbol)
	}
	return record("ambient", receipt, err)
}
