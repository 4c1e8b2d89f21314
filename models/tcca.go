// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/linalg"
	"cogentcore.org/cca/views"
)

// TCCA fits tensor canonical correlation analysis, which maximizes
// the higher-order correlation across all views jointly rather than
// the sum of pairwise correlations (Kim, Wong & Cipolla 2007).
// Each view is whitened by the inverse square root of its regularized
// covariance, the order-nviews interaction tensor is averaged over
// samples, and a CP (PARAFAC) decomposition of that tensor yields the
// per-view factors.
type TCCA struct {
	Base

	// C is the per-view covariance regularization in [0,1].
	C []float64

	// Eps is the eigenvalue clamp used when inverting covariance
	// square roots. Zero means 1e-9.
	Eps float64

	// MaxIter bounds the CP alternating least squares iterations.
	// Zero means 100.
	MaxIter int

	// Tol is the CP convergence tolerance. Zero means 1e-8.
	Tol float64

	// Rand is the source for CP factor initialization,
	// the global source if nil.
	Rand randx.Rand
}

// NewTCCA returns a TCCA model with the given number of latent
// dimensions and optional per-view regularization.
func NewTCCA(latentDims int, c ...float64) *TCCA {
	return &TCCA{Base: NewBase(latentDims), C: c}
}

// Fit fits the model to the given views.
func (m *TCCA) Fit(vs ...*mat.Dense) error {
	pvs, err := m.prepare(vs...)
	if err != nil {
		return err
	}
	c, err := views.Param("c", m.C, 0, m.NViews)
	if err != nil {
		return err
	}
	for i, ci := range c {
		if ci < 0 || ci > 1 {
			return fmt.Errorf("models: c[%d] = %v outside [0,1]", i, ci)
		}
	}
	eps := m.Eps
	if eps == 0 {
		eps = 1e-9
	}
	// whiten each view by the inverse sqrt of its regularized covariance
	invsqrts := make([]*mat.Dense, m.NViews)
	whitened := make([]*mat.Dense, m.NViews)
	nf, _ := pvs[0].Dims()
	for i, v := range pvs {
		_, p := v.Dims()
		var cov mat.Dense
		cov.Mul(v.T(), v)
		cov.Scale(1/float64(nf), &cov)
		s := mat.NewSymDense(p, nil)
		for r := 0; r < p; r++ {
			for cc := r; cc < p; cc++ {
				sv := (1 - c[i]) * 0.5 * (cov.At(r, cc) + cov.At(cc, r))
				if r == cc {
					sv += c[i]
				}
				s.SetSym(r, cc, sv)
			}
		}
		invsqrts[i], err = linalg.InvSqrtSym(s, eps)
		if err != nil {
			return err
		}
		var w mat.Dense
		w.Mul(v, invsqrts[i])
		whitened[i] = &w
	}
	factors, err := m.decompose(whitened)
	if err != nil {
		return err
	}
	// weights map centered data directly to scores; normalize each
	// dimension so the training scores have unit norm
	m.Ws = make([]*mat.Dense, m.NViews)
	for i := range pvs {
		var alpha mat.Dense
		alpha.Mul(invsqrts[i], factors[i])
		normalizeScoreColumns(&alpha, pvs[i])
		m.Ws[i] = &alpha
	}
	return nil
}

// decompose builds the mean interaction tensor over samples and
// runs the CP decomposition, returning per-view factors.
func (m *TCCA) decompose(whitened []*mat.Dense) ([]*mat.Dense, error) {
	n, _ := whitened[0].Dims()
	dims := make([]int, len(whitened))
	for i, w := range whitened {
		_, p := w.Dims()
		dims[i] = p
	}
	t := newDenseTensor(dims...)
	st := t.strides()
	idx := make([]int, len(dims))
	for s := 0; s < n; s++ {
		for flat := range t.data {
			rem := flat
			for d := range dims {
				idx[d] = rem / st[d]
				rem = rem % st[d]
			}
			v := 1.0
			for d, w := range whitened {
				v *= w.At(s, idx[d])
			}
			t.data[flat] += v
		}
	}
	for i := range t.data {
		t.data[i] /= float64(n)
	}
	maxIter := m.MaxIter
	if maxIter == 0 {
		maxIter = 100
	}
	tol := m.Tol
	if tol == 0 {
		tol = 1e-8
	}
	return cpDecompose(t, m.LatentDims, maxIter, tol, m.Rand)
}

// normalizeScoreColumns rescales each column w_d of weights so that
// ||X w_d|| = 1 on the training view X.
func normalizeScoreColumns(w *mat.Dense, x *mat.Dense) {
	var z mat.Dense
	z.Mul(x, w)
	n, k := z.Dims()
	col := make([]float64, n)
	for d := 0; d < k; d++ {
		mat.Col(col, d, &z)
		nrm := mat.NewVecDense(n, col).Norm(2)
		if nrm == 0 {
			continue
		}
		p, _ := w.Dims()
		for r := 0; r < p; r++ {
			w.Set(r, d, w.At(r, d)/nrm)
		}
	}
}
