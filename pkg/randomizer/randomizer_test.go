package randomizer

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	return Policy{
		MinBP:   10,
		MaxBP:   100,
		Floor:   big.NewInt(100000000000000),   // 0.0001
		Default: big.NewInt(10000000000000000), // 0.01
	}
}

func TestAmountWithinBounds(t *testing.T) {
	r := New()
	policy := testPolicy()

	// 1 MON balance: draws must land in [0.001, 0.01) MON
	balance := new(big.Int)
	balance.SetString("1000000000000000000", 10)

	lower := new(big.Int)
	lower.SetString("1000000000000000", 10)
	upper := new(big.Int)
	upper.SetString("10000000000000000", 10)

	for i := 0; i < 1000; i++ {
		amount, floored, err := r.Amount(balance, policy)
		require.NoError(t, err)
		assert.False(t, floored)
		assert.True(t, amount.Cmp(lower) >= 0, "amount %s below lower bound", amount)
		assert.True(t, amount.Cmp(upper) < 0, "amount %s at or above upper bound", amount)
	}
}

func TestAmountFloorSubstitution(t *testing.T) {
	r := New()
	policy := testPolicy()

	// balance so small that the whole draw range lands below the floor
	balance := big.NewInt(1000)

	amount, floored, err := r.Amount(balance, policy)
	require.NoError(t, err)
	assert.True(t, floored)
	assert.Equal(t, 0, amount.Cmp(policy.Floor))
}

func TestAmountFloorIsExact(t *testing.T) {
	r := New()
	policy := testPolicy()
	policy.Floor = big.NewInt(2000000000000000) // 0.002

	// 1 MON balance puts the range low end at 0.001, below the floor,
	// even though the high end (0.01) is above it. Every draw must come
	// back as exactly the floor, never a value from inside the range.
	balance := new(big.Int)
	balance.SetString("1000000000000000000", 10)

	for i := 0; i < 200; i++ {
		amount, floored, err := r.Amount(balance, policy)
		require.NoError(t, err)
		assert.True(t, floored)
		assert.Equal(t, 0, amount.Cmp(policy.Floor), "got %s, want floor %s", amount, policy.Floor)
	}
}

func TestAmountDefaultOnUnreadableBalance(t *testing.T) {
	r := New()
	policy := testPolicy()

	t.Run("nil balance", func(t *testing.T) {
		amount, floored, err := r.Amount(nil, policy)
		require.NoError(t, err)
		assert.False(t, floored)
		assert.Equal(t, 0, amount.Cmp(policy.Default))
	})

	t.Run("zero balance", func(t *testing.T) {
		amount, floored, err := r.Amount(big.NewInt(0), policy)
		require.NoError(t, err)
		assert.False(t, floored)
		assert.Equal(t, 0, amount.Cmp(policy.Default))
	})
}

func TestAmountDoesNotAliasPolicy(t *testing.T) {
	r := New()
	policy := testPolicy()

	amount, _, err := r.Amount(big.NewInt(1), policy)
	require.NoError(t, err)

	amount.Add(amount, big.NewInt(1))
	assert.Equal(t, int64(100000000000000), policy.Floor.Int64())
}

func TestAbsoluteRange(t *testing.T) {
	r := New()

	min := big.NewInt(50000000000000000)  // 0.05
	max := big.NewInt(100000000000000000) // 0.1

	for i := 0; i < 1000; i++ {
		amount, err := r.AbsoluteRange(min, max)
		require.NoError(t, err)
		assert.True(t, amount.Cmp(min) >= 0)
		assert.True(t, amount.Cmp(max) < 0)
	}

	t.Run("invalid range", func(t *testing.T) {
		_, err := r.AbsoluteRange(max, min)
		assert.Error(t, err)
	})
}

func TestDelay(t *testing.T) {
	r := New()

	for i := 0; i < 1000; i++ {
		d, err := r.Delay(30*time.Second, 60*time.Second)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d, 30*time.Second)
		assert.Less(t, d, 60*time.Second)
	}

	t.Run("degenerate range", func(t *testing.T) {
		d, err := r.Delay(5*time.Second, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, d)
	})
}

func TestGasLimit(t *testing.T) {
	r := New()

	for i := 0; i < 1000; i++ {
		limit, err := r.GasLimit(250000, 350000)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, limit, uint64(250000))
		assert.Less(t, limit, uint64(350000))
	}
}

func TestAmountSpread(t *testing.T) {
	r := New()
	policy := testPolicy()

	balance := new(big.Int)
	balance.SetString("1000000000000000000", 10)

	// the draw is uniform over the full wei range, not over a coarse
	// grid of basis-point steps, so collisions should be vanishingly rare
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		amount, _, err := r.Amount(balance, policy)
		require.NoError(t, err)
		seen[amount.String()] = true
	}
	assert.Greater(t, len(seen), 490)
}
