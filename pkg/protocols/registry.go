package protocols

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/config"
	"github.com/zainarain279/monad5/pkg/engine"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/ops"
	"github.com/zainarain279/monad5/pkg/randomizer"
	"github.com/zainarain279/monad5/pkg/tokens"
)

// kintsu draws absolute stake amounts instead of a balance percentage
var (
	kintsuStakeMin = big.NewInt(50000000000000000)  // 0.05
	kintsuStakeMax = big.NewInt(100000000000000000) // 0.1
)

// runAllOrder is the sequence the unattended batch walks through.
// Ambient is available by name but excluded from run-all.
var runAllOrder = []string{
	"rubic",
	"izumi",
	"beanswap",
	"magma",
	"apriori",
	"monorail",
	"kintsu",
	"shmonad",
	"octoswap",
}

// Registry holds the descriptor for every supported protocol
type Registry struct {
	descriptors map[string]*engine.Descriptor
}

// NewRegistry wires every protocol adapter against the shared chain client
func NewRegistry(client *chainclient.Client, log logger.Logger, rand *randomizer.Randomizer, cfg *config.Config, kintsuTokenID int64) *Registry {
	pathfinder := ops.NewPathfinderClient(cfg.MonorailQuoteURL, log)
	status := ops.NewWithdrawalStatusClient(cfg.AprioriStatusURL, log)

	rubic := NewWrapRoundTrip("rubic", client)
	izumi := NewWrapRoundTrip("izumi", client)
	beanswap := NewV2Swap("beanswap", client, log, rand, tokens.BeanswapRouter, tokens.Beanswap)
	octoswap := NewV2Swap("octoswap", client, log, rand, tokens.OctoswapRouter, tokens.Octoswap)
	ambient := NewAmbient(client, log, rand)
	monorail := NewMonorail(client, pathfinder)
	apriori := NewApriori(client, status, log)
	kintsu := NewKintsu(client, rand, log, kintsuTokenID)

	descriptors := map[string]*engine.Descriptor{
		"rubic": {Name: "rubic", Shape: engine.ShapeWrap, Wrap: rubic},
		"izumi": {Name: "izumi", Shape: engine.ShapeWrap, Wrap: izumi},
		"beanswap": {
			Name:  "beanswap",
			Shape: engine.ShapeSwap,
			Swap:  beanswap,
			Sweep: beanswap,
		},
		"octoswap": {
			Name:  "octoswap",
			Shape: engine.ShapeSwap,
			Swap:  octoswap,
			Sweep: octoswap,
		},
		"magma":   {Name: "magma", Shape: engine.ShapeStake, Stake: NewMagma(client)},
		"apriori": {Name: "apriori", Shape: engine.ShapeStake, Stake: apriori, Claim: apriori},
		"monorail": {
			Name:  "monorail",
			Shape: engine.ShapeSwap,
			Swap:  monorail,
		},
		"ambient": {
			Name:  "ambient",
			Shape: engine.ShapeSwap,
			Swap:  ambient,
		},
		"kintsu": {
			Name:        "kintsu",
			Shape:       engine.ShapeStake,
			Stake:       kintsu,
			AbsoluteMin: kintsuStakeMin,
			AbsoluteMax: kintsuStakeMax,
		},
		"shmonad": {Name: "shmonad", Shape: engine.ShapeVault, Vault: NewShmonad(client)},
	}

	return &Registry{descriptors: descriptors}
}

// Get returns one protocol's descriptor by name
func (r *Registry) Get(name string) (*engine.Descriptor, error) {
	desc, ok := r.descriptors[name]
	if !ok {
		return nil, fmt.Errorf("unknown protocol: %s", name)
	}
	return desc, nil
}

// RunAll returns the descriptors in the unattended batch order
func (r *Registry) RunAll() []*engine.Descriptor {
	descs := make([]*engine.Descriptor, 0, len(runAllOrder))
	for _, name := range runAllOrder {
		descs = append(descs, r.descriptors[name])
	}
	return descs
}

// Names lists every registered protocol alphabetically
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
