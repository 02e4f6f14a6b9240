package engine

import (
	"context"
	"math/big"
	"time"

	"github.com/zainarain279/monad5/pkg/metrics"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// BatchResult summarizes one pass over the account list
type BatchResult struct {
	Processed int
	Skipped   int
}

// RunCycles runs the requested number of cycles for one account and
// returns how many completed. A failed cycle is logged and iteration
// continues; only context cancellation aborts.
func (e *Engine) RunCycles(ctx context.Context, desc *Descriptor, w *wallet.Wallet, cycles int) (int, error) {
	completed := 0
	for i := 1; i <= cycles; i++ {
		if err := e.RunCycle(ctx, desc, w, i); err != nil {
			if ctx.Err() != nil {
				return completed, ctx.Err()
			}
			e.log.ErrorWithProtocol(desc.Name, "cycle %d/%d for %s failed: %v", i, cycles, w.Short(), err)
			e.breakers.Get(desc.Name).RecordFailure()
		} else {
			completed++
			e.breakers.Get(desc.Name).RecordSuccess()
		}

		if i < cycles {
			// double the step range between full cycles
			d, err := e.rand.Delay(2*e.cfg.Delays.MinCycleDelay, 2*e.cfg.Delays.MaxCycleDelay)
			if err != nil {
				return completed, err
			}
			e.log.DebugWithProtocol(desc.Name, "waiting %s before next cycle", d.Round(time.Second))
			if err := e.sleep(ctx, d); err != nil {
				return completed, err
			}
		}
	}

	e.log.InfoWithProtocol(desc.Name, "completed %d/%d cycles for %s", completed, cycles, w.Short())
	return completed, nil
}

// RunAccounts processes every account sequentially for one protocol.
// An account whose cycles all fail is skipped, not fatal. A tripped
// circuit breaker skips the remaining accounts.
func (e *Engine) RunAccounts(ctx context.Context, desc *Descriptor, wallets []*wallet.Wallet, cycles int) (BatchResult, error) {
	var result BatchResult
	breaker := e.breakers.Get(desc.Name)

	for i, w := range wallets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if breaker.IsOpen() {
			e.log.NoticeWithProtocol(desc.Name, "circuit open, skipping remaining %d accounts", len(wallets)-i)
			result.Skipped += len(wallets) - i
			metrics.AccountsSkipped.WithLabelValues(desc.Name).Add(float64(len(wallets) - i))
			break
		}

		e.log.InfoWithProtocol(desc.Name, "processing account %d/%d: %s", i+1, len(wallets), w.Short())

		initial, err := e.client.NativeBalance(ctx, w.Address)
		if err != nil {
			e.log.NoticeWithProtocol(desc.Name, "could not read balance for %s: %v", w.Short(), err)
		} else {
			bal, _ := new(big.Float).SetInt(initial).Float64()
			metrics.AccountBalance.WithLabelValues(w.Short()).Set(bal)
		}

		completed, err := e.RunCycles(ctx, desc, w, cycles)
		if err != nil {
			return result, err
		}
		if completed == 0 {
			e.log.NoticeWithProtocol(desc.Name, "account %s completed no cycles, moving on", w.Short())
			result.Skipped++
			metrics.AccountsSkipped.WithLabelValues(desc.Name).Inc()
		} else {
			result.Processed++
		}

		if initial != nil {
			e.logBalanceDelta(ctx, desc, w, initial)
		}

		if i < len(wallets)-1 {
			e.log.DebugWithProtocol(desc.Name, "waiting %s before next account", e.cfg.Delays.AccountSwitchDelay)
			if err := e.sleep(ctx, e.cfg.Delays.AccountSwitchDelay); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}

// logBalanceDelta reports how much native the account gained or spent
// over its run
func (e *Engine) logBalanceDelta(ctx context.Context, desc *Descriptor, w *wallet.Wallet, initial *big.Int) {
	final, err := e.client.NativeBalance(ctx, w.Address)
	if err != nil {
		return
	}

	delta := new(big.Int).Sub(final, initial)
	sign := ""
	if delta.Sign() > 0 {
		sign = "+"
	}
	mon := new(big.Float).Quo(new(big.Float).SetInt(delta), big.NewFloat(1e18))
	e.log.InfoWithProtocol(desc.Name, "account %s balance change: %s%s MON", w.Short(), sign, mon.Text('f', 6))
}

// RunBatch runs every protocol in order over the whole account list,
// pausing between protocols to let state settle
func (e *Engine) RunBatch(ctx context.Context, descs []*Descriptor, wallets []*wallet.Wallet, cycles int) (BatchResult, error) {
	var total BatchResult

	for i, desc := range descs {
		if e.breakers.Get(desc.Name).IsOpen() {
			e.log.NoticeWithProtocol(desc.Name, "circuit open, skipping protocol for this batch")
			total.Skipped += len(wallets)
			continue
		}

		result, err := e.RunAccounts(ctx, desc, wallets, cycles)
		total.Processed += result.Processed
		total.Skipped += result.Skipped
		if err != nil {
			return total, err
		}

		if i < len(descs)-1 {
			e.log.Debug("waiting %s before next protocol", e.cfg.Delays.ProtocolSettleDelay)
			if err := e.sleep(ctx, e.cfg.Delays.ProtocolSettleDelay); err != nil {
				return total, err
			}
		}
	}

	return total, nil
}

// RunLoop runs batches until the context is cancelled. The interval is
// measured from batch completion so batches never overlap; a
// non-positive interval runs a single batch.
func (e *Engine) RunLoop(ctx context.Context, descs []*Descriptor, wallets []*wallet.Wallet, cycles int, interval time.Duration) error {
	for {
		start := time.Now()
		result, err := e.RunBatch(ctx, descs, wallets, cycles)
		if err != nil {
			return err
		}

		elapsed := time.Since(start)
		metrics.BatchesCompleted.Inc()
		metrics.BatchDuration.Observe(elapsed.Seconds())
		e.log.Info("batch done in %s: %d accounts processed, %d skipped",
			elapsed.Round(time.Second), result.Processed, result.Skipped)

		if interval <= 0 {
			return nil
		}

		e.log.Info("next batch in %s", interval)
		metrics.NextBatchIn.Set(interval.Seconds())
		if err := e.sleep(ctx, interval); err != nil {
			return err
		}
		metrics.NextBatchIn.Set(0)
	}
}
