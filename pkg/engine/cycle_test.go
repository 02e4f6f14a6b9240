package engine

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zainarain279/monad5/pkg/config"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/randomizer"
	"github.com/zainarain279/monad5/pkg/tokens"
	"github.com/zainarain279/monad5/pkg/wallet"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

// zeroReader pins every random draw to the range minimum
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type fakeChain struct {
	balance *big.Int
}

func (f *fakeChain) NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	if f.balance == nil {
		return nil, fmt.Errorf("no response")
	}
	return new(big.Int).Set(f.balance), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Amounts: config.AmountConfig{
			MinBP:         10,
			MaxBP:         100,
			FloorWei:      big.NewInt(100000000000000),    // 0.0001
			DefaultAmount: big.NewInt(10000000000000000), // 0.01
		},
		Delays: config.DelayConfig{
			MinCycleDelay:       30 * time.Second,
			MaxCycleDelay:       60 * time.Second,
			AccountSwitchDelay:  3 * time.Second,
			ProtocolSettleDelay: 5 * time.Second,
			ClaimDelay:          11 * time.Minute,
		},
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}
}

// testEngine builds an engine with deterministic entropy and recorded sleeps
func testEngine(t *testing.T, balance *big.Int) (*Engine, *[]time.Duration) {
	t.Helper()

	var slept []time.Duration
	e := New(&fakeChain{balance: balance}, &logger.EmptyLogger{}, randomizer.NewWithEntropy(zeroReader{}), testConfig())
	e.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return e, &slept
}

func testWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.FromHex(1, testKey)
	require.NoError(t, err)
	return w
}

type fakeWrap struct {
	wrapped   []*big.Int
	unwrapped []*big.Int
	wrapErr   error
}

func (f *fakeWrap) Wrap(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	if f.wrapErr != nil {
		return f.wrapErr
	}
	f.wrapped = append(f.wrapped, new(big.Int).Set(amount))
	return nil
}

func (f *fakeWrap) Unwrap(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	f.unwrapped = append(f.unwrapped, new(big.Int).Set(amount))
	return nil
}

func TestRunWrapCycle(t *testing.T) {
	oneMon := big.NewInt(1000000000000000000)
	e, slept := testEngine(t, oneMon)
	w := testWallet(t)

	wrap := &fakeWrap{}
	desc := &Descriptor{Name: "rubic", Shape: ShapeWrap, Wrap: wrap}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)

	require.Len(t, wrap.wrapped, 1)
	require.Len(t, wrap.unwrapped, 1)
	// unwrap returns exactly what was wrapped
	assert.Equal(t, wrap.wrapped[0], wrap.unwrapped[0])

	// zero entropy pins the draw to MinBP of the balance
	expected := new(big.Int).Div(oneMon, big.NewInt(1000))
	assert.Equal(t, expected, wrap.wrapped[0])

	// one pause between the two steps, at the range minimum
	require.Len(t, *slept, 1)
	assert.Equal(t, 30*time.Second, (*slept)[0])
}

func TestRunWrapCycleFirstStepFails(t *testing.T) {
	e, slept := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	wrap := &fakeWrap{wrapErr: fmt.Errorf("execution reverted")}
	desc := &Descriptor{Name: "rubic", Shape: ShapeWrap, Wrap: wrap}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.Error(t, err)
	assert.Empty(t, wrap.unwrapped)
	assert.Empty(t, *slept)
}

type fakeStake struct {
	staked     []*big.Int
	unstaked   []*big.Int
	stakeErr   error
	unstakeErr error
}

func (f *fakeStake) Stake(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	if f.stakeErr != nil {
		return f.stakeErr
	}
	f.staked = append(f.staked, new(big.Int).Set(amount))
	return nil
}

func (f *fakeStake) Unstake(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	if f.unstakeErr != nil {
		return f.unstakeErr
	}
	f.unstaked = append(f.unstaked, new(big.Int).Set(amount))
	return nil
}

type fakeClaim struct {
	claims   int
	claimErr error
}

func (f *fakeClaim) Claim(ctx context.Context, w *wallet.Wallet) error {
	if f.claimErr != nil {
		return f.claimErr
	}
	f.claims++
	return nil
}

func TestRunStakeCycleWithClaim(t *testing.T) {
	e, slept := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	stake := &fakeStake{}
	claim := &fakeClaim{}
	desc := &Descriptor{Name: "apriori", Shape: ShapeStake, Stake: stake, Claim: claim}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)

	require.Len(t, stake.staked, 1)
	require.Len(t, stake.unstaked, 1)
	// unstake requests exactly the staked amount
	assert.Equal(t, stake.staked[0], stake.unstaked[0])
	assert.Equal(t, 1, claim.claims)

	// step pause plus the claim maturation wait
	require.Len(t, *slept, 2)
	assert.Equal(t, 11*time.Minute, (*slept)[1])
}

func TestRunStakeCycleStakeReverts(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	stake := &fakeStake{stakeErr: fmt.Errorf("execution reverted: insufficient stake")}
	desc := &Descriptor{Name: "magma", Shape: ShapeStake, Stake: stake}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.Error(t, err)
	assert.Empty(t, stake.unstaked)
}

func TestRunStakeCycleUnstakeSkipped(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	stake := &fakeStake{unstakeErr: ErrSkip}
	claim := &fakeClaim{}
	desc := &Descriptor{Name: "kintsu", Shape: ShapeStake, Stake: stake, Claim: claim}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)
	// a skipped unstake ends the cycle before any claim
	assert.Equal(t, 0, claim.claims)
}

func TestRunStakeCycleClaimNothingClaimable(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	stake := &fakeStake{}
	claim := &fakeClaim{claimErr: ErrSkip}
	desc := &Descriptor{Name: "apriori", Shape: ShapeStake, Stake: stake, Claim: claim}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)
}

func TestRunStakeCycleAbsoluteAmounts(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	stake := &fakeStake{}
	desc := &Descriptor{
		Name:        "kintsu",
		Shape:       ShapeStake,
		Stake:       stake,
		AbsoluteMin: big.NewInt(50000000000000000),
		AbsoluteMax: big.NewInt(100000000000000000),
	}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)
	require.Len(t, stake.staked, 1)
	// zero entropy pins the draw to the absolute minimum
	assert.Equal(t, desc.AbsoluteMin, stake.staked[0])
}

type fakeVault struct {
	deposits  []*big.Int
	redeems   []*big.Int
	bonds     []*big.Int
	shares    []*big.Int // consecutive ShareBalance answers
	shareIdx  int
	redeemErr error
}

func (f *fakeVault) Deposit(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	f.deposits = append(f.deposits, new(big.Int).Set(amount))
	return nil
}

func (f *fakeVault) ShareBalance(ctx context.Context, w *wallet.Wallet) (*big.Int, error) {
	if f.shareIdx >= len(f.shares) {
		return big.NewInt(0), nil
	}
	s := f.shares[f.shareIdx]
	f.shareIdx++
	return new(big.Int).Set(s), nil
}

func (f *fakeVault) Redeem(ctx context.Context, w *wallet.Wallet, shares *big.Int) error {
	if f.redeemErr != nil {
		return f.redeemErr
	}
	f.redeems = append(f.redeems, new(big.Int).Set(shares))
	return nil
}

func (f *fakeVault) Bond(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	f.bonds = append(f.bonds, new(big.Int).Set(amount))
	return nil
}

func TestRunVaultCycle(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	vault := &fakeVault{shares: []*big.Int{big.NewInt(1000), big.NewInt(20)}}
	desc := &Descriptor{Name: "shmonad", Shape: ShapeVault, Vault: vault}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)

	require.Len(t, vault.deposits, 1)
	require.Len(t, vault.redeems, 1)
	require.Len(t, vault.bonds, 1)
	// 98% of the first share reading, 50% of the second
	assert.Equal(t, int64(980), vault.redeems[0].Int64())
	assert.Equal(t, int64(10), vault.bonds[0].Int64())
}

func TestRunVaultCycleNoShares(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	vault := &fakeVault{shares: []*big.Int{big.NewInt(0), big.NewInt(0)}}
	desc := &Descriptor{Name: "shmonad", Shape: ShapeVault, Vault: vault}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)
	assert.Empty(t, vault.redeems)
	assert.Empty(t, vault.bonds)
}

// fakeSwap trades a universe of native plus two tokens with an in-memory
// balance book
type fakeSwap struct {
	universe []tokens.Token
	balances map[string]*big.Int
	swaps    []string
	failPair string
}

func newFakeSwap() *fakeSwap {
	usdc := tokens.Token{Symbol: "USDC", Address: common.HexToAddress("0x62534E4bBD6D9ebAC0ac99aeaa0aa48E56372df0"), Decimals: 6}
	bean := tokens.Token{Symbol: "BEAN", Address: common.HexToAddress("0x268E4E24E0051EC27b3D27A95977E71cE6875a05"), Decimals: 18}
	return &fakeSwap{
		universe: []tokens.Token{tokens.Native, usdc, bean},
		balances: map[string]*big.Int{
			"MON":  big.NewInt(1000000000000000000), // 1
			"USDC": big.NewInt(5000000),             // 5
			"BEAN": big.NewInt(2000000000000000000), // 2
		},
	}
}

func (f *fakeSwap) Tokens() []tokens.Token {
	return f.universe
}

func (f *fakeSwap) Balance(ctx context.Context, w *wallet.Wallet, t tokens.Token) (*big.Int, error) {
	b, ok := f.balances[t.Symbol]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(b), nil
}

func (f *fakeSwap) Swap(ctx context.Context, w *wallet.Wallet, from, to tokens.Token, amount *big.Int) error {
	pair := from.Symbol + "->" + to.Symbol
	if pair == f.failPair {
		return fmt.Errorf("execution reverted")
	}
	f.swaps = append(f.swaps, pair)
	f.balances[from.Symbol] = new(big.Int).Sub(f.balances[from.Symbol], amount)
	// credit an arbitrary but positive amount on the output side
	if out, ok := f.balances[to.Symbol]; ok {
		f.balances[to.Symbol] = new(big.Int).Add(out, big.NewInt(1000000))
	} else {
		f.balances[to.Symbol] = big.NewInt(1000000)
	}
	return nil
}

func TestRunSwapCycleForwardAndBack(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	swap := newFakeSwap()
	desc := &Descriptor{Name: "octoswap", Shape: ShapeSwap, Swap: swap}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)

	// zero entropy picks universe[0] and universe[1]: MON -> USDC and back
	require.Len(t, swap.swaps, 2)
	assert.Equal(t, "MON->USDC", swap.swaps[0])
	assert.Equal(t, "USDC->MON", swap.swaps[1])
}

func TestRunSwapCycleReverseFailureIsPartialSuccess(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	swap := newFakeSwap()
	swap.failPair = "USDC->MON"
	desc := &Descriptor{Name: "octoswap", Shape: ShapeSwap, Swap: swap}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)
	require.Len(t, swap.swaps, 1)
	assert.Equal(t, "MON->USDC", swap.swaps[0])
}

func TestRunSwapCycleReplenishesEmptySource(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	// zero entropy picks the first two universe entries, so put the empty
	// token first to make it the swap source
	swap := newFakeSwap()
	swap.universe[0], swap.universe[1] = swap.universe[1], swap.universe[0]
	swap.balances["USDC"] = big.NewInt(0)
	desc := &Descriptor{Name: "octoswap", Shape: ShapeSwap, Swap: swap}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)

	// the empty USDC side is topped up from native before the forward swap
	require.True(t, len(swap.swaps) >= 2)
	assert.Equal(t, "MON->USDC", swap.swaps[0])
	assert.Equal(t, "USDC->MON", swap.swaps[1])
}

type fakeSweep struct {
	values map[string]*big.Int
}

func (f *fakeSweep) NativeValue(ctx context.Context, w *wallet.Wallet, t tokens.Token) (*big.Int, error) {
	v, ok := f.values[t.Symbol]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(v), nil
}

func TestRunSwapCycleSweepsOversizedBalances(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	swap := newFakeSwap()
	sweep := &fakeSweep{
		values: map[string]*big.Int{
			// BEAN quotes above the 0.5 MON threshold, USDC below
			"BEAN": big.NewInt(700000000000000000),
			"USDC": big.NewInt(100000000000000000),
		},
	}
	desc := &Descriptor{Name: "beanswap", Shape: ShapeSwap, Swap: swap, Sweep: sweep}

	err := e.RunCycle(context.Background(), desc, w, 1)
	require.NoError(t, err)

	require.NotEmpty(t, swap.swaps)
	assert.Equal(t, "BEAN->MON", swap.swaps[0])
}

func TestDrawAmountFallsBackToDefault(t *testing.T) {
	e, _ := testEngine(t, nil)
	w := testWallet(t)

	desc := &Descriptor{Name: "rubic", Shape: ShapeWrap}
	amount, err := e.drawAmount(context.Background(), desc, w)
	require.NoError(t, err)
	assert.Equal(t, e.cfg.Amounts.DefaultAmount, amount)
}
