// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/randx"
)

func TestSoftThreshold(t *testing.T) {
	assert.InDelta(t, 1.5, softThreshold(2, 0.5), 1e-12)
	assert.InDelta(t, -1.5, softThreshold(-2, 0.5), 1e-12)
	assert.InDelta(t, 0, softThreshold(0.3, 0.5), 1e-12)
	assert.InDelta(t, 0, softThreshold(-0.3, 0.5), 1e-12)
}

func TestElasticNet(t *testing.T) {
	// y = 2*x0 - x1 exactly; with no penalty the coordinate descent
	// recovers the coefficients
	n := 50
	rnd := randx.NewSysRand(30)
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a, b := rnd.NormFloat64(), rnd.NormFloat64()
		x.Set(i, 0, a)
		x.Set(i, 1, b)
		y[i] = 2*a - b
	}
	w := make([]float64, 2)
	elasticNet(x, y, w, 0, 1, false, 1000, 1e-10)
	assert.InDelta(t, 2, w[0], 1e-6)
	assert.InDelta(t, -1, w[1], 1e-6)

	// a strong l1 penalty shrinks everything to zero
	w2 := make([]float64, 2)
	elasticNet(x, y, w2, 100, 1, false, 1000, 1e-10)
	assert.Equal(t, 0.0, w2[0])
	assert.Equal(t, 0.0, w2[1])

	// positivity clamps the negative coefficient
	w3 := make([]float64, 2)
	elasticNet(x, y, w3, 0, 1, true, 1000, 1e-10)
	assert.GreaterOrEqual(t, w3[1], 0.0)
}

func TestElasticCCA(t *testing.T) {
	vs := simViews(31, 200, []int{6, 5}, 2, 0.2)
	m := NewElasticCCA(2)
	m.Alpha = []float64{1e-3}
	m.Rand = randx.NewSysRand(31)
	assert.NoError(t, m.Fit(vs...))
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.7)
	assert.NotEmpty(t, m.Track)
}

func TestSCCA(t *testing.T) {
	vs := simViews(32, 200, []int{6, 5}, 1, 0.2)
	m := NewSCCA(1, 1e-3)
	m.Rand = randx.NewSysRand(32)
	assert.NoError(t, m.Fit(vs...))
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.7)
}

func TestSCCAPMD(t *testing.T) {
	vs := simViews(33, 200, []int{8, 6}, 1, 0.2)
	m := NewSCCAPMD(1, 0.6)
	m.Rand = randx.NewSysRand(33)
	assert.NoError(t, m.Fit(vs...))
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.5)

	// the l2 / l1 constraints hold on every weight vector
	for i := 0; i < 2; i++ {
		w := m.Weights(i)
		p, _ := w.Dims()
		tmax := math.Max(1, 0.6*math.Sqrt(float64(p)))
		for d := 0; d < 1; d++ {
			l2, l1 := 0.0, 0.0
			for r := 0; r < p; r++ {
				v := w.At(r, d)
				l2 += v * v
				l1 += math.Abs(v)
			}
			assert.InDelta(t, 1, math.Sqrt(l2), 1e-6)
			assert.LessOrEqual(t, l1, tmax+1e-4)
		}
	}
}

func TestSCCAPMDBadTau(t *testing.T) {
	vs := simViews(34, 60, []int{4, 4}, 1, 0.2)
	m := NewSCCAPMD(1, 2)
	assert.Error(t, m.Fit(vs...))
}

func TestDeltaSearch(t *testing.T) {
	w := []float64{3, 1, 0.5, 0.1}
	deltaSearch(w, 1.3, 1e-9)
	l2, l1 := 0.0, 0.0
	for _, v := range w {
		l2 += v * v
		l1 += math.Abs(v)
	}
	assert.InDelta(t, 1, math.Sqrt(l2), 1e-6)
	assert.LessOrEqual(t, l1, 1.3+1e-4)

	// already inside the l1 ball: only l2 normalization applies
	u := []float64{1, 0, 0}
	deltaSearch(u, 1, 1e-9)
	assert.InDelta(t, 1, u[0], 1e-12)
}

func TestAltMaxVar(t *testing.T) {
	vs := simViews(35, 200, []int{6, 5}, 2, 0.2)
	m := NewAltMaxVar(2, 1e-4)
	m.Rand = randx.NewSysRand(35)
	assert.NoError(t, m.Fit(vs...))
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.6)

	zs, err := m.Transform(vs...)
	assert.NoError(t, err)
	n, k := zs[0].Dims()
	assert.Equal(t, 200, n)
	assert.Equal(t, 2, k)
}

func TestInitMethodsString(t *testing.T) {
	assert.Equal(t, "PLS", InitPLS.String())
	assert.Equal(t, "Random", InitRandom.String())
}
