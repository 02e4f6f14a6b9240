// Package protocols binds the on-chain operation primitives to the cycle
// engine, one descriptor per supported protocol.
package protocols

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zainarain279/monad5/pkg/metrics"
)

// Randomized gas limit ranges, max exclusive
const (
	swapGasMin = 250000
	swapGasMax = 350000

	kintsuGasMin = 150000
	kintsuGasMax = 250000
)

// record counts a submitted transaction and its gas usage, then passes
// the operation error through
func record(protocol string, receipt *types.Receipt, err error) error {
	if receipt != nil {
		metrics.TransactionsSent.WithLabelValues(protocol).Inc()
		metrics.GasUsed.WithLabelValues(protocol).Observe(float64(receipt.GasUsed))
	}
	return err
}
