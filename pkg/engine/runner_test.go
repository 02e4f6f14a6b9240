package engine

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zainarain279/monad5/pkg/wallet"
)

const testKey2 = "8da4ef21b864d2cc526dbdb2a120bd2874c36c9d0a1fb7f8c63d7f7a8b41de8f"

func testWallets(t *testing.T) []*wallet.Wallet {
	t.Helper()
	w1, err := wallet.FromHex(1, testKey)
	require.NoError(t, err)
	w2, err := wallet.FromHex(2, testKey2)
	require.NoError(t, err)
	return []*wallet.Wallet{w1, w2}
}

func TestRunCyclesCountsCompletions(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	// wrap fails on the second cycle only
	failingWrap := &countingWrap{failOn: 2}
	desc := &Descriptor{Name: "rubic", Shape: ShapeWrap, Wrap: failingWrap}

	completed, err := e.RunCycles(context.Background(), desc, w, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, completed)
	assert.Equal(t, 3, failingWrap.cycles)
}

// countingWrap fails the wrap step of one chosen cycle
type countingWrap struct {
	cycles int
	failOn int
}

func (c *countingWrap) Wrap(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	c.cycles++
	if c.cycles == c.failOn {
		return fmt.Errorf("execution reverted")
	}
	return nil
}

func (c *countingWrap) Unwrap(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	return nil
}

func TestRunCyclesInterCycleDelayDoubled(t *testing.T) {
	e, slept := testEngine(t, big.NewInt(1000000000000000000))
	w := testWallet(t)

	desc := &Descriptor{Name: "rubic", Shape: ShapeWrap, Wrap: &fakeWrap{}}
	_, err := e.RunCycles(context.Background(), desc, w, 2)
	require.NoError(t, err)

	// two intra-cycle pauses at 30s plus one inter-cycle pause at the
	// doubled minimum
	require.Len(t, *slept, 3)
	assert.Equal(t, 30*time.Second, (*slept)[0])
	assert.Equal(t, 60*time.Second, (*slept)[1])
	assert.Equal(t, 30*time.Second, (*slept)[2])
}

func TestRunAccountsProcessesSequentially(t *testing.T) {
	e, slept := testEngine(t, big.NewInt(1000000000000000000))
	wallets := testWallets(t)

	wrap := &fakeWrap{}
	desc := &Descriptor{Name: "rubic", Shape: ShapeWrap, Wrap: wrap}

	result, err := e.RunAccounts(context.Background(), desc, wallets, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Skipped)
	assert.Len(t, wrap.wrapped, 2)

	// per-account step pause plus one account switch delay
	assert.Contains(t, *slept, 3*time.Second)
}

func TestRunAccountsSkipsFailingAccount(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	wallets := testWallets(t)

	// every wrap fails, so both accounts complete zero cycles
	wrap := &fakeWrap{wrapErr: fmt.Errorf("execution reverted")}
	desc := &Descriptor{Name: "rubic", Shape: ShapeWrap, Wrap: wrap}

	result, err := e.RunAccounts(context.Background(), desc, wallets, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 2, result.Skipped)
}

func TestRunBatchWalksProtocolOrder(t *testing.T) {
	e, slept := testEngine(t, big.NewInt(1000000000000000000))
	wallets := testWallets(t)

	first := &fakeWrap{}
	second := &fakeWrap{}
	descs := []*Descriptor{
		{Name: "rubic", Shape: ShapeWrap, Wrap: first},
		{Name: "izumi", Shape: ShapeWrap, Wrap: second},
	}

	result, err := e.RunBatch(context.Background(), descs, wallets, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Processed)
	assert.Len(t, first.wrapped, 2)
	assert.Len(t, second.wrapped, 2)

	// the settle delay separates the two protocols
	assert.Contains(t, *slept, 5*time.Second)
}

func TestRunLoopSingleBatchWithoutInterval(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	wallets := testWallets(t)

	wrap := &fakeWrap{}
	descs := []*Descriptor{{Name: "rubic", Shape: ShapeWrap, Wrap: wrap}}

	err := e.RunLoop(context.Background(), descs, wallets, 1, 0)
	require.NoError(t, err)
	assert.Len(t, wrap.wrapped, 2)
}

func TestRunLoopStopsOnCancellation(t *testing.T) {
	e, _ := testEngine(t, big.NewInt(1000000000000000000))
	wallets := testWallets(t)

	ctx, cancel := context.WithCancel(context.Background())
	wrap := &fakeWrap{}
	descs := []*Descriptor{{Name: "rubic", Shape: ShapeWrap, Wrap: wrap}}

	// cancel at the first pause
	e.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err := e.RunLoop(ctx, descs, wallets, 1, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
