package protocols

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/ops"
	"github.com/zainarain279/monad5/pkg/randomizer"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// V2Swap trades a token universe through a UniswapV2-style router.
// Native/wrapped legs route to wrap and unwrap instead of the router.
type V2Swap struct {
	name     string
	client   *chainclient.Client
	log      logger.Logger
	rand     *randomizer.Randomizer
	router   common.Address
	universe []tokens.Token
}

// NewV2Swap builds the adapter for one router. The universe is the native
// coin, the wrapped token and the router's token set.
func NewV2Swap(name string, client *chainclient.Client, log logger.Logger, rand *randomizer.Randomizer, router common.Address, set []tokens.Token) *V2Swap {
	universe := make([]tokens.Token, 0, len(set)+2)
	universe = append(universe, tokens.Native, tokens.WrappedNative)
	universe = append(universe, set...)

	return &V2Swap{
		name:     name,
		client:   client,
		log:      log,
		rand:     rand,
		router:   router,
		universe: universe,
	}
}

func (s *V2Swap) Tokens() []tokens.Token {
	return s.universe
}

func (s *V2Swap) Balance(ctx context.Context, w *wallet.Wallet, t tokens.Token) (*big.Int, error) {
	if t.IsNative() {
		return s.client.NativeBalance(ctx, w.Address)
	}
	return ops.TokenBalance(ctx, s.client, t.Address, w.Address)
}

func (s *V2Swap) Swap(ctx context.Context, w *wallet.Wallet, from, to tokens.Token, amount *big.Int) error {
	gas, err := s.rand.GasLimit(swapGasMin, swapGasMax)
	if err != nil {
		return err
	}

	var receipt *types.Receipt
	switch {
	case from.IsNative() && to.Address == tokens.WMON:
		receipt, err = ops.Wrap(ctx, s.client, w, amount)
	case from.Address == tokens.WMON && to.IsNative():
		receipt, err = ops.Unwrap(ctx, s.client, w, amount)
	case from.IsNative():
		receipt, err = ops.SwapNativeForToken(ctx, s.client, w, s.router, to, amount, gas)
	case to.IsNative():
		receipt, err = ops.SwapTokenForNative(ctx, s.client, s.log, w, s.router, from, amount, gas)
	default:
		receipt, err = ops.SwapTokenForToken(ctx, s.client, s.log, w, s.router, from, to, amount, gas)
	}
	return record(s.name, receipt, err)
}

// NativeValue quotes a token's full balance in native terms for the sweep.
// The wrapped token is 1:1 with native.
func (s *V2Swap) NativeValue(ctx context.Context, w *wallet.Wallet, t tokens.Token) (*big.Int, error) {
	balance, err := s.Balance(ctx, w, t)
	if err != nil {
		return nil, err
	}
	if balance.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if t.Address == tokens.WMON {
		return balance, nil
	}

	return ops.QuoteOut(ctx, s.client, s.router, balance, []common.Address{t.Address, tokens.WMON})
}
