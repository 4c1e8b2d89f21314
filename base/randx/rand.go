// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package randx provides a source-abstracted interface over the
// standard math/rand generator, so that all stochastic behavior
// (weight initialization, minibatch shuffling, fold assignment,
// permutation testing) can be made reproducible by passing an
// explicitly seeded source, while defaulting to the global stream.
package randx

import "math/rand"

// Rand is the subset of the standard rand.Rand methods used
// throughout this module, supporting either the global rand
// generator or a separate seeded source.
type Rand interface {
	// Seed uses the provided seed value to initialize the generator
	// to a deterministic state. Seed should not be called concurrently
	// with any other Rand method.
	Seed(seed int64)

	// Int63 returns a non-negative pseudo-random 63-bit integer as an int64.
	Int63() int64

	// Intn returns, as an int, a non-negative pseudo-random number
	// in the half-open interval [0,n). It panics if n <= 0.
	Intn(n int) int

	// Float64 returns, as a float64, a pseudo-random number
	// in the half-open interval [0.0,1.0).
	Float64() float64

	// NormFloat64 returns a normally distributed float64 with
	// mean 0 and standard deviation 1.
	NormFloat64() float64

	// Perm returns, as a slice of n ints, a pseudo-random permutation
	// of the integers in the half-open interval [0,n).
	Perm(n int) []int

	// Shuffle pseudo-randomizes the order of elements.
	// n is the number of elements. Shuffle panics if n < 0.
	// swap swaps the elements with indexes i and j.
	Shuffle(n int, swap func(i, j int))
}

// SysRand supports the system random number generator for either a
// separate rand.Rand source, or, if that is nil, the global rand stream.
type SysRand struct {

	// if non-nil, use this random number source instead of the global default one
	Rand *rand.Rand
}

// NewGlobalRand returns a new [SysRand] that uses the
// system global rand source.
func NewGlobalRand() *SysRand {
	return &SysRand{}
}

// NewSysRand returns a new [SysRand] with a new rand.Rand
// random source with given initial seed.
func NewSysRand(seed int64) *SysRand {
	r := &SysRand{}
	r.NewRand(seed)
	return r
}

// NewRand sets Rand to a new rand.Rand source using given seed.
func (r *SysRand) NewRand(seed int64) {
	r.Rand = rand.New(rand.NewSource(seed))
}

// Seed uses the provided seed value to initialize the generator to a
// deterministic state. Seed should not be called concurrently with any
// other Rand method.
func (r *SysRand) Seed(seed int64) {
	if r.Rand == nil {
		rand.Seed(seed)
		return
	}
	r.Rand.Seed(seed)
}

// Int63 returns a non-negative pseudo-random 63-bit integer as an int64.
func (r *SysRand) Int63() int64 {
	if r.Rand == nil {
		return rand.Int63()
	}
	return r.Rand.Int63()
}

// Intn returns, as an int, a non-negative pseudo-random number
// in the half-open interval [0,n). It panics if n <= 0.
func (r *SysRand) Intn(n int) int {
	if r.Rand == nil {
		return rand.Intn(n)
	}
	return r.Rand.Intn(n)
}

// Float64 returns, as a float64, a pseudo-random number
// in the half-open interval [0.0,1.0).
func (r *SysRand) Float64() float64 {
	if r.Rand == nil {
		return rand.Float64()
	}
	return r.Rand.Float64()
}

// NormFloat64 returns a normally distributed float64 with
// mean 0 and standard deviation 1.
func (r *SysRand) NormFloat64() float64 {
	if r.Rand == nil {
		return rand.NormFloat64()
	}
	return r.Rand.NormFloat64()
}

// Perm returns, as a slice of n ints, a pseudo-random permutation
// of the integers in the half-open interval [0,n).
func (r *SysRand) Perm(n int) []int {
	if r.Rand == nil {
		return rand.Perm(n)
	}
	return r.Rand.Perm(n)
}

// Shuffle pseudo-randomizes the order of elements.
// n is the number of elements. Shuffle panics if n < 0.
// swap swaps the elements with indexes i and j.
func (r *SysRand) Shuffle(n int, swap func(i, j int)) {
	if r.Rand == nil {
		rand.Shuffle(n, swap)
		return
	}
	r.Rand.Shuffle(n, swap)
}
