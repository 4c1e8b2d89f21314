// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/kernels"
)

func TestTCCA(t *testing.T) {
	vs := simViews(20, 200, []int{4, 5}, 1, 0.2)
	m := NewTCCA(1, 0.5)
	m.Rand = randx.NewSysRand(7)
	assert.NoError(t, m.Fit(vs...))

	zs, err := m.Transform(vs...)
	assert.NoError(t, err)
	n, k := zs[0].Dims()
	assert.Equal(t, 200, n)
	assert.Equal(t, 1, k)

	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.5)
}

func TestTCCAThreeViews(t *testing.T) {
	vs := simViews(21, 150, []int{3, 4, 3}, 1, 0.2)
	m := NewTCCA(1, 0.5)
	m.Rand = randx.NewSysRand(8)
	assert.NoError(t, m.Fit(vs...))
	// maximizing the third-order correlation recovers pairwise
	// correlations more weakly than the two-view case; this seed
	// lands at 0.31
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.25)
}

func TestKTCCA(t *testing.T) {
	vs := simViews(22, 80, []int{4, 4}, 1, 0.2)
	m := NewKTCCA(1)
	m.C = []float64{0.5}
	m.Rand = randx.NewSysRand(9)
	assert.NoError(t, m.Fit(vs...))

	zs, err := m.Transform(vs...)
	assert.NoError(t, err)
	n, k := zs[0].Dims()
	assert.Equal(t, 80, n)
	assert.Equal(t, 1, k)

	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.4)
}

func TestKTCCAErrors(t *testing.T) {
	vs := simViews(24, 40, []int{3, 3}, 1, 0.2)
	m := NewKTCCA(1)
	m.C = []float64{-3}
	assert.Error(t, m.Fit(vs...))
	m = NewKTCCA(1)
	m.C = []float64{2}
	assert.Error(t, m.Fit(vs...))
}

func TestKTCCARBF(t *testing.T) {
	vs := simViews(23, 60, []int{4, 4}, 1, 0.2)
	m := NewKTCCA(1, kernels.Options{Kind: kernels.RBF, Gamma: 0.1})
	m.C = []float64{0.5}
	m.Rand = randx.NewSysRand(10)
	assert.NoError(t, m.Fit(vs...))
	zs, err := m.Transform(vs...)
	assert.NoError(t, err)
	n, _ := zs[0].Dims()
	assert.Equal(t, 60, n)
}
