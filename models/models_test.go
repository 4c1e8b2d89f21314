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

// simViews generates views sharing k latent signal dimensions:
// each view is Z A_i^T plus Gaussian noise, so the leading canonical
// correlations between views are close to 1 for small noise.
func simViews(seed int64, n int, ps []int, k int, noise float64) []*mat.Dense {
	rnd := randx.NewSysRand(seed)
	z := mat.NewDense(n, k, nil)
	for r := 0; r < n; r++ {
		for c := 0; c < k; c++ {
			// decaying scale separates the latent dimensions
			z.Set(r, c, rnd.NormFloat64()*(1+float64(k-c)))
		}
	}
	vs := make([]*mat.Dense, len(ps))
	for i, p := range ps {
		a := mat.NewDense(p, k, nil)
		for r := 0; r < p; r++ {
			for c := 0; c < k; c++ {
				a.Set(r, c, rnd.NormFloat64())
			}
		}
		x := mat.NewDense(n, p, nil)
		x.Mul(z, a.T())
		for r := 0; r < n; r++ {
			for c := 0; c < p; c++ {
				x.Set(r, c, x.At(r, c)+rnd.NormFloat64()*noise)
			}
		}
		vs[i] = x
	}
	return vs
}

// absDims returns the absolute per-dimension mean pairwise
// correlation: solver score signs are arbitrary.
func absDims(t *testing.T, m Model, vs ...*mat.Dense) []float64 {
	t.Helper()
	dims, err := ScoreDims(m, vs...)
	assert.NoError(t, err)
	for i, d := range dims {
		dims[i] = math.Abs(d)
	}
	return dims
}

func TestCCA(t *testing.T) {
	vs := simViews(1, 300, []int{8, 6}, 2, 0.2)
	m := NewCCA(2)
	assert.NoError(t, m.Fit(vs...))
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.9)
	assert.Greater(t, dims[1], 0.9)
	// eigenvalues are sorted descending
	assert.GreaterOrEqual(t, m.EigenValues[0], m.EigenValues[1])

	zs, err := m.Transform(vs...)
	assert.NoError(t, err)
	assert.Len(t, zs, 2)
	n, k := zs[0].Dims()
	assert.Equal(t, 300, n)
	assert.Equal(t, 2, k)

	sc, err := Score(m, vs...)
	assert.NoError(t, err)
	assert.Greater(t, math.Abs(sc), 1.5)
}

func TestMCCAThreeViews(t *testing.T) {
	vs := simViews(2, 250, []int{7, 5, 6}, 2, 0.2)
	m := NewMCCA(2)
	assert.NoError(t, m.Fit(vs...))
	dims := absDims(t, m, vs...)
	assert.Greater(t, dims[0], 0.85)

	corrs, err := PairwiseCorrelations(m, vs...)
	assert.NoError(t, err)
	assert.Len(t, corrs, 3)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1, corrs[i][i][0], 1e-10)
	}
}

func TestRCCAAndPLS(t *testing.T) {
	vs := simViews(3, 200, []int{6, 6}, 1, 0.3)
	for _, m := range []*MCCA{NewRCCA(1, 0.5), NewPLS(1)} {
		assert.NoError(t, m.Fit(vs...))
		dims := absDims(t, m, vs...)
		assert.Greater(t, dims[0], 0.8)
	}
}

func TestMCCAErrors(t *testing.T) {
	vs := simViews(4, 50, []int{4, 4}, 1, 0.2)

	bad := NewRCCA(1, 2) // c out of range
	assert.Error(t, bad.Fit(vs...))

	m := NewCCA(1)
	assert.Error(t, m.Fit(vs[0])) // single view is not enough
	short := mat.NewDense(20, 4, nil)
	assert.Error(t, m.Fit(vs[0], short)) // row mismatch

	wide := NewCCA(10) // more dims than the narrowest view
	assert.Error(t, wide.Fit(vs...))

	unfit := NewCCA(1)
	_, err := unfit.Transform(vs...)
	assert.Error(t, err)
}

func TestTransformOutOfSample(t *testing.T) {
	vs := simViews(5, 400, []int{6, 5}, 2, 0.2)
	train := make([]*mat.Dense, 2)
	test := make([]*mat.Dense, 2)
	for i, v := range vs {
		_, p := v.Dims()
		train[i] = mat.DenseCopyOf(v.Slice(0, 300, 0, p))
		test[i] = mat.DenseCopyOf(v.Slice(300, 400, 0, p))
	}
	m := NewCCA(2)
	assert.NoError(t, m.Fit(train...))
	dims := absDims(t, m, test...)
	assert.Greater(t, dims[0], 0.8)
}

func TestExplainedVariance(t *testing.T) {
	vs := simViews(6, 200, []int{6, 5}, 2, 0.2)
	m := NewCCA(2)
	assert.NoError(t, m.Fit(vs...))

	ev, err := m.ExplainedVariance(vs...)
	assert.NoError(t, err)
	assert.Len(t, ev, 2)
	for _, view := range ev {
		for _, v := range view {
			assert.Greater(t, v, 0.0)
		}
	}

	ratio, err := m.ExplainedVarianceRatio(vs...)
	assert.NoError(t, err)
	for _, view := range ratio {
		for _, v := range view {
			assert.Greater(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0+1e-8)
		}
	}

	cum, err := m.ExplainedVarianceCumulative(vs...)
	assert.NoError(t, err)
	for _, view := range cum {
		for d := 1; d < len(view); d++ {
			assert.GreaterOrEqual(t, view[d], view[d-1])
		}
	}

	cr, err := m.ExplainedCovarianceRatio(vs...)
	assert.NoError(t, err)
	sum := 0.0
	for _, v := range cr {
		sum += v
	}
	assert.InDelta(t, 1, sum, 1e-8)
}

func TestFitTransform(t *testing.T) {
	vs := simViews(7, 100, []int{4, 4}, 1, 0.2)
	m := NewCCA(1)
	zs, err := FitTransform(m, vs...)
	assert.NoError(t, err)
	assert.Len(t, zs, 2)
	assert.Equal(t, 1, m.LatentDimensions())
}
