package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zainarain279/monad5/pkg/config"
	"github.com/zainarain279/monad5/pkg/engine"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/randomizer"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg := &config.Config{
		AprioriStatusURL: "http://localhost",
		MonorailQuoteURL: "http://localhost",
	}
	return NewRegistry(nil, &logger.EmptyLogger{}, randomizer.New(), cfg, 1)
}

func TestRegistryRunAllOrder(t *testing.T) {
	r := testRegistry(t)

	descs := r.RunAll()
	require.Len(t, descs, len(runAllOrder))

	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	assert.Equal(t, runAllOrder, names)

	// ambient is registered but excluded from run-all
	assert.NotContains(t, names, "ambient")
	_, err := r.Get("ambient")
	assert.NoError(t, err)
}

func TestRegistryDescriptorShapes(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		name  string
		shape engine.Shape
	}{
		{"rubic", engine.ShapeWrap},
		{"izumi", engine.ShapeWrap},
		{"beanswap", engine.ShapeSwap},
		{"octoswap", engine.ShapeSwap},
		{"monorail", engine.ShapeSwap},
		{"ambient", engine.ShapeSwap},
		{"magma", engine.ShapeStake},
		{"apriori", engine.ShapeStake},
		{"kintsu", engine.ShapeStake},
		{"shmonad", engine.ShapeVault},
	}

	for _, tt := range tests {
		desc, err := r.Get(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.shape, desc.Shape, tt.name)
	}
}

func TestRegistryClaimWiring(t *testing.T) {
	r := testRegistry(t)

	apriori, err := r.Get("apriori")
	require.NoError(t, err)
	assert.NotNil(t, apriori.Claim)

	magma, err := r.Get("magma")
	require.NoError(t, err)
	assert.Nil(t, magma.Claim)
}

func TestRegistryKintsuAbsoluteRange(t *testing.T) {
	r := testRegistry(t)

	kintsu, err := r.Get("kintsu")
	require.NoError(t, err)
	require.NotNil(t, kintsu.AbsoluteMin)
	require.NotNil(t, kintsu.AbsoluteMax)
	assert.Equal(t, -1, kintsu.AbsoluteMin.Cmp(kintsu.AbsoluteMax))
}

func TestRegistrySweepWiring(t *testing.T) {
	r := testRegistry(t)

	for _, name := range []string{"beanswap", "octoswap"} {
		desc, err := r.Get(name)
		require.NoError(t, err)
		assert.NotNil(t, desc.Sweep, name)
	}

	monorail, err := r.Get("monorail")
	require.NoError(t, err)
	assert.Nil(t, monorail.Sweep)
}

func TestRegistryUnknownProtocol(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Get("uniswap")
	assert.Error(t, err)
}
