// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/randx"
)

func TestEigenGameCCA(t *testing.T) {
	vs := simViews(40, 300, []int{4, 4}, 1, 0.1)
	m := NewCCAEigenGame(1)
	m.Epochs = 1000
	m.LearningRate = 0.05
	m.Rand = randx.NewSysRand(40)
	assert.NoError(t, m.Fit(vs...))
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.5)
}

func TestEigenGamePLS(t *testing.T) {
	vs := simViews(41, 300, []int{4, 4}, 1, 0.1)
	m := NewPLSEigenGame(1)
	m.Epochs = 1000
	m.LearningRate = 0.05
	m.Rand = randx.NewSysRand(41)
	assert.NoError(t, m.Fit(vs...))
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.5)
}

func TestStochasticErrors(t *testing.T) {
	vs := simViews(45, 50, []int{4, 4}, 1, 0.1)

	// c outside [0,1] is an error
	m := NewEigenGame(1, 5)
	assert.Error(t, m.Fit(vs...))
	m = NewEigenGame(1, -3)
	assert.Error(t, m.Fit(vs...))

	// BatchSize larger than the sample count is an error
	m = NewCCAEigenGame(1)
	m.BatchSize = 51
	assert.Error(t, m.Fit(vs...))
	sp := NewStochasticPLS(1)
	sp.BatchSize = 51
	assert.Error(t, sp.Fit(vs...))
}

func TestStochasticObjectives(t *testing.T) {
	vs := simViews(44, 300, []int{4, 4}, 1, 0.1)
	eg := NewPLSEigenGame(1)
	eg.Epochs = 200
	eg.Rand = randx.NewSysRand(44)
	assert.NoError(t, eg.Fit(vs...))
	// PLS flavor monitors score covariance, which is unbounded but
	// must be nonzero on correlated data
	obj, err := eg.Objective(vs...)
	assert.NoError(t, err)
	assert.NotZero(t, obj)

	sp := NewStochasticPLS(1)
	sp.Epochs = 200
	sp.Rand = randx.NewSysRand(44)
	assert.NoError(t, sp.Fit(vs...))
	obj, err = sp.Objective(vs...)
	assert.NoError(t, err)
	assert.NotZero(t, obj)
}

func TestEigenGameMinibatch(t *testing.T) {
	vs := simViews(42, 256, []int{4, 4}, 1, 0.1)
	m := NewCCAEigenGame(1)
	m.Epochs = 500
	m.BatchSize = 64
	m.LearningRate = 0.02
	m.Rand = randx.NewSysRand(42)
	assert.NoError(t, m.Fit(vs...))
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.4)
}

func TestMinibatches(t *testing.T) {
	rnd := randx.NewSysRand(43)
	bs := minibatches(10, 3, rnd)
	assert.Len(t, bs, 3) // the trailing partial batch is dropped
	seen := map[int]bool{}
	for _, b := range bs {
		assert.Len(t, b, 3)
		for _, i := range b {
			assert.False(t, seen[i])
			seen[i] = true
		}
	}

	one := minibatches(2, 5, rnd)
	assert.Len(t, one, 1)
	assert.Len(t, one[0], 2)
}

func TestStochasticPLS(t *testing.T) {
	vs := simViews(44, 300, []int{5, 5}, 2, 0.1)
	m := NewStochasticPLS(2)
	m.Epochs = 200
	m.Rand = randx.NewSysRand(44)
	assert.NoError(t, m.Fit(vs...))

	// QR keeps each view's weights orthonormal
	for i := 0; i < 2; i++ {
		w := m.Weights(i)
		var g mat.Dense
		g.Mul(w.T(), w)
		for r := 0; r < 2; r++ {
			for c := 0; c < 2; c++ {
				want := 0.0
				if r == c {
					want = 1
				}
				assert.InDelta(t, want, g.At(r, c), 1e-8)
			}
		}
	}

	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.4)
}

func TestTriu(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	triuInPlace(a)
	assert.Equal(t, 0.0, a.At(1, 0))
	assert.Equal(t, 2.0, a.At(0, 1))
	assert.Equal(t, 4.0, a.At(1, 1))
}
