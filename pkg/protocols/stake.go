package protocols

import (
	"context"
	"fmt"
	"math/big"

	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/engine"
	"github.com/zainarain279/monad5/pkg/logger"
	"github.com/zainarain279/monad5/pkg/ops"
	"github.com/zainarain279/monad5/pkg/randomizer"
	"github.com/zainarain279/monad5/pkg/wallet"
)

// Magma stakes native MON for gMON and withdraws it again
type Magma struct {
	client *chainclient.Client
}

func NewMagma(client *chainclient.Client) *Magma {
	return &Magma{client: client}
}

func (p *Magma) Stake(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	receipt, err := ops.MagmaStake(ctx, p.client, w, amount)
	return record("magma", receipt, err)
}

func (p *Magma) Unstake(ctx context.Context, w *wallet.Wallet, stakedAmount *big.Int) error {
	receipt, err := ops.MagmaUnstake(ctx, p.client, w, stakedAmount)
	return record("magma", receipt, err)
}

// Apriori stakes native MON for aprMON. Withdrawals mature off-band and
// are claimed by request id once the status API reports them claimable.
type Apriori struct {
	client *chainclient.Client
	status *ops.WithdrawalStatusClient
	log    logger.Logger
}

func NewApriori(client *chainclient.Client, status *ops.WithdrawalStatusClient, log logger.Logger) *Apriori {
	return &Apriori{client: client, status: status, log: log}
}

func (p *Apriori) Stake(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	receipt, err := ops.AprioriStake(ctx, p.client, w, amount)
	return record("apriori", receipt, err)
}

func (p *Apriori) Unstake(ctx context.Context, w *wallet.Wallet, stakedAmount *big.Int) error {
	receipt, err := ops.AprioriRequestUnstake(ctx, p.client, w, stakedAmount)
	return record("apriori", receipt, err)
}

func (p *Apriori) Claim(ctx context.Context, w *wallet.Wallet) error {
	id, ok, err := p.status.ClaimableRequest(ctx, w.Address)
	if err != nil {
		return err
	}
	if !ok {
		return engine.ErrSkip
	}

	p.log.InfoWithProtocol("apriori", "claiming withdrawal request %s for %s", id, w.Short())
	receipt, err := ops.AprioriClaim(ctx, p.client, w, id)
	return record("apriori", receipt, err)
}

// kintsu thresholds in wei
var (
	// positions holding at most this many shares are not unstaked
	kintsuMinShares = big.NewInt(10000000000000000) // 0.01

	// decreaseStake always withdraws this fixed amount
	kintsuUnstakeAmount = big.NewInt(100000000000000000) // 0.1
)

// Kintsu stakes native MON for sMON held by a position token
type Kintsu struct {
	client  *chainclient.Client
	rand    *randomizer.Randomizer
	log     logger.Logger
	tokenID *big.Int
}

func NewKintsu(client *chainclient.Client, rand *randomizer.Randomizer, log logger.Logger, tokenID int64) *Kintsu {
	if tokenID <= 0 {
		tokenID = 1
	}
	return &Kintsu{client: client, rand: rand, log: log, tokenID: big.NewInt(tokenID)}
}

func (p *Kintsu) Stake(ctx context.Context, w *wallet.Wallet, amount *big.Int) error {
	gas, err := p.rand.GasLimit(kintsuGasMin, kintsuGasMax)
	if err != nil {
		return err
	}

	receipt, err := ops.KintsuStake(ctx, p.client, w, amount, gas)
	return record("kintsu", receipt, err)
}

func (p *Kintsu) Unstake(ctx context.Context, w *wallet.Wallet, stakedAmount *big.Int) error {
	shares, err := ops.KintsuShareBalance(ctx, p.client, w)
	if err != nil {
		return fmt.Errorf("failed to read sMON balance: %v", err)
	}
	if shares.Cmp(kintsuMinShares) <= 0 {
		return engine.ErrSkip
	}

	gas, err := p.rand.GasLimit(kintsuGasMin, kintsuGasMax)
	if err != nil {
		return err
	}

	receipt, err := ops.KintsuUnstake(ctx, p.client, w, p.tokenID, kintsuUnstakeAmount, gas)
	return record("kintsu", receipt, err)
}
