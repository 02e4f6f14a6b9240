package engine

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zainarain279/monad5/pkg/circuitbreaker"
	"github.com/zainarain279/monad5/pkg/config"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/metrics"
	"github.com/zainarain279/monad5/pkg/randomizer"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// Shape selects the step sequence a protocol cycle runs through
type Shape int

const (
	// ShapeSwap swaps native into a random token and back
	ShapeSwap Shape = iota
	// ShapeStake stakes native, unstakes, and optionally claims
	ShapeStake
	// ShapeWrap wraps native into the wrapped token and back
	ShapeWrap
	// ShapeVault deposits into a vault, redeems most shares and bonds the rest
	ShapeVault
)

// share percentages for the vault shape
const (
	vaultRedeemPercent = 98
	vaultBondPercent   = 50
)

// reversePercent sizes legs that move a balance back to native,
// leaving a remainder against rounding
const reversePercent = 99

// sweepThreshold is the native value above which a token balance is
// swept back to native before a swap cycle (0.5 MON)
var sweepThreshold = big.NewInt(500000000000000000)

// SwapOps is implemented by protocols that trade within a token universe.
// The universe includes the native coin; implementations route wrap and
// unwrap legs themselves when the pair is native/wrapped.
type SwapOps interface {
	Tokens() []tokens.Token
	Balance(ctx context.Context, w *wallet.Wallet, token tokens.Token) (*big.Int, error)
	Swap(ctx context.Context, w *wallet.Wallet, from, to tokens.Token, amount *big.Int) error
}

// SweepOps quotes a token balance in native terms for the pre-cycle sweep
type SweepOps interface {
	NativeValue(ctx context.Context, w *wallet.Wallet, token tokens.Token) (*big.Int, error)
}

// StakeOps is implemented by staking protocols
type StakeOps interface {
	Stake(ctx context.Context, w *wallet.Wallet, amount *big.Int) error
	Unstake(ctx context.Context, w *wallet.Wallet, stakedAmount *big.Int) error
}

// ClaimOps is implemented by staking protocols whose withdrawals mature
// off-band and must be claimed in a separate transaction
type ClaimOps interface {
	Claim(ctx context.Context, w *wallet.Wallet) error
}

// WrapOps is implemented by protocols that wrap and unwrap the native token
type WrapOps interface {
	Wrap(ctx context.Context, w *wallet.Wallet, amount *big.Int) error
	Unwrap(ctx context.Context, w *wallet.Wallet, amount *big.Int) error
}

// VaultOps is implemented by share-based vault protocols
type VaultOps interface {
	Deposit(ctx context.Context, w *wallet.Wallet, amount *big.Int) error
	ShareBalance(ctx context.Context, w *wallet.Wallet) (*big.Int, error)
	Redeem(ctx context.Context, w *wallet.Wallet, shares *big.Int) error
	Bond(ctx context.Context, w *wallet.Wallet, amount *big.Int) error
}

// Descriptor binds a protocol name to the operations its cycle shape needs.
// Exactly one of the ops fields matching the shape must be set.
type Descriptor struct {
	Name  string
	Shape Shape

	Swap  SwapOps
	Sweep SweepOps
	Stake StakeOps
	Claim ClaimOps
	Wrap  WrapOps
	Vault VaultOps

	// AbsoluteMin and AbsoluteMax override the balance-based amount policy
	// when both are set
	AbsoluteMin *big.Int
	AbsoluteMax *big.Int
}

// BalanceReader reads native account balances. Satisfied by
// chainclient.Client.
type BalanceReader interface {
	NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error)
}

// Engine sequences protocol cycles across accounts
type Engine struct {
	client   BalanceReader
	log      logger.Logger
	rand     *randomizer.Randomizer
	cfg      *config.Config
	breakers *circuitbreaker.Registry

	// sleep is replaceable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an engine
func New(client BalanceReader, log logger.Logger, rand *randomizer.Randomizer, cfg *config.Config) *Engine {
	cb := cfg.CircuitBreaker
	return &Engine{
		client:   client,
		log:      log,
		rand:     rand,
		cfg:      cfg,
		breakers: circuitbreaker.NewRegistry(cb.Enabled, cb.Threshold, cb.WindowDuration, cb.ResetTimeout),
		sleep:    sleepCtx,
	}
}

// Breakers exposes the per-protocol circuit breakers for status reporting
func (e *Engine) Breakers() *circuitbreaker.Registry {
	return e.breakers
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// pause waits a randomized delay between cycle steps
func (e *Engine) pause(ctx context.Context, name string) error {
	d, err := e.rand.Delay(e.cfg.Delays.MinCycleDelay, e.cfg.Delays.MaxCycleDelay)
	if err != nil {
		return err
	}

	e.log.DebugWithProtocol(name, "waiting %s before next step", d.Round(time.Second))
	return e.sleep(ctx, d)
}

// drawAmount picks the transaction amount for a cycle. Protocols with an
// absolute range draw from it directly, everything else draws a fraction
// of the native balance.
func (e *Engine) drawAmount(ctx context.Context, desc *Descriptor, w *wallet.Wallet) (*big.Int, error) {
	if desc.AbsoluteMin != nil && desc.AbsoluteMax != nil {
		return e.rand.AbsoluteRange(desc.AbsoluteMin, desc.AbsoluteMax)
	}

	balance, err := e.client.NativeBalance(ctx, w.Address)
	if err != nil {
		e.log.NoticeWithProtocol(desc.Name, "could not read balance for %s, using default amount: %v", w.Short(), err)
		balance = nil
	}

	amount, floored, err := e.rand.Amount(balance, randomizer.Policy{
		MinBP:   e.cfg.Amounts.MinBP,
		MaxBP:   e.cfg.Amounts.MaxBP,
		Floor:   e.cfg.Amounts.FloorWei,
		Default: e.cfg.Amounts.DefaultAmount,
	})
	if err != nil {
		return nil, err
	}
	if floored {
		e.log.NoticeWithProtocol(desc.Name, "balance of %s too low, using floor amount", w.Short())
		metrics.FloorSubstitutions.WithLabelValues(desc.Name).Inc()
	}

	return amount, nil
}

// step runs one named operation with retry and records its outcome
func (e *Engine) step(ctx context.Context, name, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := WithRetry(ctx, e.log, e.cfg.MaxRetries, e.cfg.RetryDelay, name, op, fn)
	metrics.OperationDuration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.OperationsTotal.WithLabelValues(name, op, "success").Inc()
		return nil
	case errors.Is(err, ErrSkip):
		metrics.OperationsTotal.WithLabelValues(name, op, "skipped").Inc()
		return err
	default:
		metrics.OperationsTotal.WithLabelValues(name, op, "failure").Inc()
		return fmt.Errorf("%s failed: %v", op, err)
	}
}

// RunCycle executes a single cycle of the protocol for one account
func (e *Engine) RunCycle(ctx context.Context, desc *Descriptor, w *wallet.Wallet, cycle int) error {
	e.log.InfoWithProtocol(desc.Name, "starting cycle %d for %s", cycle, w.Short())

	var err error
	switch desc.Shape {
	case ShapeSwap:
		err = e.runSwapCycle(ctx, desc, w)
	case ShapeStake:
		err = e.runStakeCycle(ctx, desc, w)
	case ShapeWrap:
		err = e.runWrapCycle(ctx, desc, w)
	case ShapeVault:
		err = e.runVaultCycle(ctx, desc, w)
	default:
		err = fmt.Errorf("unknown cycle shape %d", desc.Shape)
	}

	if err != nil {
		metrics.CyclesTotal.WithLabelValues(desc.Name, "failure").Inc()
		return err
	}

	metrics.CyclesTotal.WithLabelValues(desc.Name, "success").Inc()
	e.log.InfoWithProtocol(desc.Name, "cycle %d for %s completed", cycle, w.Short())
	return nil
}

// runWrapCycle wraps a randomized amount and unwraps the same amount
func (e *Engine) runWrapCycle(ctx context.Context, desc *Descriptor, w *wallet.Wallet) error {
	amount, err := e.drawAmount(ctx, desc, w)
	if err != nil {
		return err
	}

	if err := e.step(ctx, desc.Name, "wrap", func(ctx context.Context) error {
		return desc.Wrap.Wrap(ctx, w, amount)
	}); err != nil {
		return err
	}

	if err := e.pause(ctx, desc.Name); err != nil {
		return err
	}

	return e.step(ctx, desc.Name, "unwrap", func(ctx context.Context) error {
		return desc.Wrap.Unwrap(ctx, w, amount)
	})
}

// runStakeCycle stakes a randomized amount, requests the unstake after a
// pause, and claims when the protocol requires it
func (e *Engine) runStakeCycle(ctx context.Context, desc *Descriptor, w *wallet.Wallet) error {
	amount, err := e.drawAmount(ctx, desc, w)
	if err != nil {
		return err
	}

	if err := e.step(ctx, desc.Name, "stake", func(ctx context.Context) error {
		return desc.Stake.Stake(ctx, w, amount)
	}); err != nil {
		return err
	}

	if err := e.pause(ctx, desc.Name); err != nil {
		return err
	}

	err = e.step(ctx, desc.Name, "unstake", func(ctx context.Context) error {
		return desc.Stake.Unstake(ctx, w, amount)
	})
	if err != nil {
		if isSkip(err) {
			e.log.NoticeWithProtocol(desc.Name, "unstake skipped for %s", w.Short())
			return nil
		}
		return err
	}

	if desc.Claim == nil {
		return nil
	}

	e.log.InfoWithProtocol(desc.Name, "waiting %s before claiming", e.cfg.Delays.ClaimDelay)
	if err := e.sleep(ctx, e.cfg.Delays.ClaimDelay); err != nil {
		return err
	}

	err = e.step(ctx, desc.Name, "claim", func(ctx context.Context) error {
		return desc.Claim.Claim(ctx, w)
	})
	if err != nil && isSkip(err) {
		e.log.NoticeWithProtocol(desc.Name, "nothing claimable for %s yet", w.Short())
		return nil
	}
	return err
}

// runSwapCycle sweeps oversized balances, swaps a random pair forward
// and most of it back. A failed reverse leg leaves the cycle successful
// since the forward transaction already confirmed.
func (e *Engine) runSwapCycle(ctx context.Context, desc *Descriptor, w *wallet.Wallet) error {
	if desc.Sweep != nil {
		e.sweepToNative(ctx, desc, w)
	}

	from, to, err := e.pickPair(desc.Swap.Tokens(), nil)
	if err != nil {
		return err
	}
	e.log.InfoWithProtocol(desc.Name, "selected pair %s -> %s", from.Symbol, to.Symbol)

	funded, err := e.fundToken(ctx, desc, w, from)
	if err != nil {
		return err
	}
	if !funded {
		e.log.NoticeWithProtocol(desc.Name, "cannot fund %s, substituting pair", from.Symbol)
		from, to, err = e.pickPair(desc.Swap.Tokens(), &from)
		if err != nil {
			return err
		}
		funded, err = e.fundToken(ctx, desc, w, from)
		if err != nil {
			return err
		}
		if !funded {
			return fmt.Errorf("insufficient balance to fund %s for the forward swap", from.Symbol)
		}
	}

	amount, err := e.swapAmount(ctx, desc, w, from, to)
	if err != nil {
		return err
	}

	if err := e.step(ctx, desc.Name, "swap", func(ctx context.Context) error {
		return desc.Swap.Swap(ctx, w, from, to, amount)
	}); err != nil {
		return err
	}

	if err := e.pause(ctx, desc.Name); err != nil {
		return err
	}

	// reverse leg is best effort, the forward transaction already confirmed
	funded, err = e.fundToken(ctx, desc, w, to)
	if err != nil || !funded {
		e.log.NoticeWithProtocol(desc.Name, "cannot fund reverse swap of %s for %s, forward leg stands", to.Symbol, w.Short())
		return nil
	}

	reverse, err := e.swapAmount(ctx, desc, w, to, from)
	if err != nil {
		return err
	}

	err = e.step(ctx, desc.Name, "swap back", func(ctx context.Context) error {
		return desc.Swap.Swap(ctx, w, to, from, reverse)
	})
	if err != nil {
		e.log.NoticeWithProtocol(desc.Name, "reverse swap %s -> %s failed, forward leg stands: %v", to.Symbol, from.Symbol, err)
	}
	return nil
}

// pickPair draws two distinct tokens from the universe, optionally
// excluding a token that could not be funded
func (e *Engine) pickPair(set []tokens.Token, exclude *tokens.Token) (tokens.Token, tokens.Token, error) {
	pool := set
	if exclude != nil {
		pool = make([]tokens.Token, 0, len(set))
		for _, t := range set {
			if t.Symbol != exclude.Symbol {
				pool = append(pool, t)
			}
		}
	}
	if len(pool) < 2 {
		return tokens.Token{}, tokens.Token{}, fmt.Errorf("token universe too small for a pair")
	}

	i, err := e.rand.Intn(len(pool))
	if err != nil {
		return tokens.Token{}, tokens.Token{}, err
	}
	j, err := e.rand.Intn(len(pool) - 1)
	if err != nil {
		return tokens.Token{}, tokens.Token{}, err
	}
	if j >= i {
		j++
	}
	return pool[i], pool[j], nil
}

// fundToken ensures the token holds at least its dust amount, replenishing
// once from native when possible. Returns false when the token cannot back
// a swap.
func (e *Engine) fundToken(ctx context.Context, desc *Descriptor, w *wallet.Wallet, t tokens.Token) (bool, error) {
	balance, err := desc.Swap.Balance(ctx, w, t)
	if err != nil {
		return false, fmt.Errorf("failed to read %s balance: %v", t.Symbol, err)
	}
	if balance.Cmp(t.Dust()) >= 0 {
		return true, nil
	}
	if t.IsNative() {
		return false, nil
	}

	native, err := desc.Swap.Balance(ctx, w, tokens.Native)
	if err != nil {
		return false, fmt.Errorf("failed to read native balance: %v", err)
	}
	if native.Cmp(e.cfg.Amounts.DefaultAmount) < 0 {
		return false, nil
	}

	e.log.InfoWithProtocol(desc.Name, "replenishing %s from native for %s", t.Symbol, w.Short())
	err = e.step(ctx, desc.Name, "replenish", func(ctx context.Context) error {
		return desc.Swap.Swap(ctx, w, tokens.Native, t, new(big.Int).Set(e.cfg.Amounts.DefaultAmount))
	})
	if err != nil {
		return false, err
	}

	balance, err = desc.Swap.Balance(ctx, w, t)
	if err != nil {
		return false, fmt.Errorf("failed to read %s balance: %v", t.Symbol, err)
	}
	return balance.Cmp(t.Dust()) >= 0, nil
}

// swapAmount sizes a swap leg: legs back to native move 99% of the balance,
// everything else draws from the percentage policy
func (e *Engine) swapAmount(ctx context.Context, desc *Descriptor, w *wallet.Wallet, from, to tokens.Token) (*big.Int, error) {
	balance, err := desc.Swap.Balance(ctx, w, from)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s balance: %v", from.Symbol, err)
	}

	if to.IsNative() {
		amount := new(big.Int).Mul(balance, big.NewInt(reversePercent))
		return amount.Div(amount, big.NewInt(100)), nil
	}

	amount, floored, err := e.rand.Amount(balance, randomizer.Policy{
		MinBP:   e.cfg.Amounts.MinBP,
		MaxBP:   e.cfg.Amounts.MaxBP,
		Floor:   from.Dust(),
		Default: from.Dust(),
	})
	if err != nil {
		return nil, err
	}
	if floored {
		metrics.FloorSubstitutions.WithLabelValues(desc.Name).Inc()
	}
	return amount, nil
}

// sweepToNative swaps oversized token balances back to native before the
// cycle starts. Best effort, failures only log.
func (e *Engine) sweepToNative(ctx context.Context, desc *Descriptor, w *wallet.Wallet) {
	for _, t := range desc.Swap.Tokens() {
		if t.IsNative() {
			continue
		}

		value, err := desc.Sweep.NativeValue(ctx, w, t)
		if err != nil {
			e.log.DebugWithProtocol(desc.Name, "could not value %s for sweep: %v", t.Symbol, err)
			continue
		}
		if value.Cmp(sweepThreshold) <= 0 {
			continue
		}

		balance, err := desc.Swap.Balance(ctx, w, t)
		if err != nil {
			continue
		}
		amount := new(big.Int).Mul(balance, big.NewInt(reversePercent))
		amount.Div(amount, big.NewInt(100))
		if amount.Sign() == 0 {
			continue
		}

		e.log.InfoWithProtocol(desc.Name, "%s balance quotes above the sweep threshold, swapping back to native", t.Symbol)
		if err := desc.Swap.Swap(ctx, w, t, tokens.Native, amount); err != nil {
			e.log.NoticeWithProtocol(desc.Name, "sweep of %s failed: %v", t.Symbol, err)
		}
	}
}

// runVaultCycle deposits, redeems most of the shares and bonds half of
// whatever remains
func (e *Engine) runVaultCycle(ctx context.Context, desc *Descriptor, w *wallet.Wallet) error {
	amount, err := e.drawAmount(ctx, desc, w)
	if err != nil {
		return err
	}

	if err := e.step(ctx, desc.Name, "deposit", func(ctx context.Context) error {
		return desc.Vault.Deposit(ctx, w, amount)
	}); err != nil {
		return err
	}

	if err := e.pause(ctx, desc.Name); err != nil {
		return err
	}

	shares, err := desc.Vault.ShareBalance(ctx, w)
	if err != nil {
		return fmt.Errorf("failed to read share balance: %v", err)
	}

	redeem := new(big.Int).Mul(shares, big.NewInt(vaultRedeemPercent))
	redeem.Div(redeem, big.NewInt(100))

	if redeem.Sign() > 0 {
		if err := e.step(ctx, desc.Name, "redeem", func(ctx context.Context) error {
			return desc.Vault.Redeem(ctx, w, redeem)
		}); err != nil {
			return err
		}

		if err := e.pause(ctx, desc.Name); err != nil {
			return err
		}
	} else {
		e.log.NoticeWithProtocol(desc.Name, "no shares to redeem for %s", w.Short())
	}

	remaining, err := desc.Vault.ShareBalance(ctx, w)
	if err != nil {
		return fmt.Errorf("failed to read share balance: %v", err)
	}

	bond := new(big.Int).Mul(remaining, big.NewInt(vaultBondPercent))
	bond.Div(bond, big.NewInt(100))

	if bond.Sign() == 0 {
		e.log.NoticeWithProtocol(desc.Name, "no shares to bond for %s", w.Short())
		return nil
	}

	return e.step(ctx, desc.Name, "bond", func(ctx context.Context) error {
		return desc.Vault.Bond(ctx, w, bond)
	})
}

func isSkip(err error) bool {
	return errors.Is(err, ErrSkip)
}
