package randomizer

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

const bpsDenominator = 10000

// Policy controls how transaction amounts are drawn from an account balance
type Policy struct {
	// MinBP and MaxBP bound the draw in basis points of the balance, max exclusive
	MinBP int64
	MaxBP int64

	// Floor replaces draws that fall below it
	Floor *big.Int

	// Default is used when the balance cannot be read
	Default *big.Int
}

// Randomizer draws transaction parameters from a cryptographic entropy source
type Randomizer struct {
	entropy io.Reader
}

// New creates a randomizer backed by crypto/rand
func New() *Randomizer {
	return &Randomizer{entropy: crand.Reader}
}

// NewWithEntropy creates a randomizer with a custom entropy source, used in tests
func NewWithEntropy(entropy io.Reader) *Randomizer {
	return &Randomizer{entropy: entropy}
}

// bigRange returns a uniform value in [min, max)
func (r *Randomizer) bigRange(min, max *big.Int) (*big.Int, error) {
	if min.Cmp(max) >= 0 {
		return nil, fmt.Errorf("invalid range: min %s must be less than max %s", min, max)
	}

	span := new(big.Int).Sub(max, min)
	n, err := crand.Int(r.entropy, span)
	if err != nil {
		return nil, fmt.Errorf("failed to draw random value: %v", err)
	}
	return n.Add(n, min), nil
}

// Amount draws a transaction amount uniformly across the wei range spanned
// by the basis-point bounds of the balance. A nil or non-positive balance
// yields the policy default. When even the low end of the range falls below
// the floor, the floor itself is returned; the second return value reports
// that substitution.
func (r *Randomizer) Amount(balance *big.Int, p Policy) (*big.Int, bool, error) {
	if balance == nil || balance.Sign() <= 0 {
		return new(big.Int).Set(p.Default), false, nil
	}

	low := new(big.Int).Mul(balance, big.NewInt(p.MinBP))
	low.Div(low, big.NewInt(bpsDenominator))
	if low.Cmp(p.Floor) < 0 {
		return new(big.Int).Set(p.Floor), true, nil
	}

	high := new(big.Int).Mul(balance, big.NewInt(p.MaxBP))
	high.Div(high, big.NewInt(bpsDenominator))

	amount, err := r.bigRange(low, high)
	if err != nil {
		return nil, false, err
	}
	return amount, false, nil
}

// AbsoluteRange draws an amount uniformly in [min, max) wei,
// independent of the account balance
func (r *Randomizer) AbsoluteRange(min, max *big.Int) (*big.Int, error) {
	return r.bigRange(min, max)
}

// Delay draws a pause duration uniformly in [min, max)
func (r *Randomizer) Delay(min, max time.Duration) (time.Duration, error) {
	if min == max {
		return min, nil
	}

	n, err := r.bigRange(big.NewInt(int64(min)), big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return time.Duration(n.Int64()), nil
}

// Intn draws a uniform index in [0, n)
func (r *Randomizer) Intn(n int) (int, error) {
	v, err := r.bigRange(big.NewInt(0), big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// GasLimit draws a gas limit uniformly in [min, max)
func (r *Randomizer) GasLimit(min, max uint64) (uint64, error) {
	n, err := r.bigRange(new(big.Int).SetUint64(min), new(big.Int).SetUint64(max))
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}
