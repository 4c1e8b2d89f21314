// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/kernels"
	"cogentcore.org/cca/linalg"
	"cogentcore.org/cca/views"
)

// KTCCA fits kernel tensor canonical correlation analysis: [TCCA] in
// the dual, whitening each view's Gram matrix by the inverse square
// root of its regularized kernel covariance before forming the
// higher-order interaction tensor.
type KTCCA struct {
	Base

	// C is the per-view regularization in [0,1].
	C []float64

	// Eps is the eigenvalue floor for the kernel covariances.
	// Zero means 1e-3, as Gram matrices are close to singular.
	Eps float64

	// Kernels configures the kernel per view; broadcast, linear default.
	Kernels []kernels.Options

	// MaxIter bounds the CP iterations. Zero means 100.
	MaxIter int

	// Tol is the CP convergence tolerance. Zero means 1e-8.
	Tol float64

	// Rand is the source for CP factor initialization.
	Rand randx.Rand

	// train holds the preprocessed training views for Transform.
	train []*mat.Dense

	// kopts holds the broadcast per-view kernel options.
	kopts []kernels.Options
}

// NewKTCCA returns a kernel TCCA model with the given number of
// latent dimensions and per-view kernel options.
func NewKTCCA(latentDims int, kos ...kernels.Options) *KTCCA {
	return &KTCCA{Base: NewBase(latentDims), Kernels: kos}
}

// Fit fits the model to the given views.
func (m *KTCCA) Fit(vs ...*mat.Dense) error {
	n, err := views.Check(vs...)
	if err != nil {
		return err
	}
	if m.LatentDims < 1 || m.LatentDims > n {
		return fmt.Errorf("models: LatentDims %d outside [1,%d] for kernel model", m.LatentDims, n)
	}
	if len(vs) < 2 {
		return fmt.Errorf("models: at least two views are required, got %d", len(vs))
	}
	m.NViews = len(vs)
	c, err := views.Param("c", m.C, 0, m.NViews)
	if err != nil {
		return err
	}
	for i, ci := range c {
		if ci < 0 || ci > 1 {
			return fmt.Errorf("models: c[%d] = %v outside [0,1]", i, ci)
		}
	}
	m.kopts, err = views.Param("kernels", m.Kernels, kernels.NewOptions(), m.NViews)
	if err != nil {
		return err
	}
	eps := m.Eps
	if eps == 0 {
		eps = 1e-3
	}
	m.Prep = &views.Preprocessor{Center: m.Center, Scale: m.Scale}
	pvs, err := m.Prep.Fit(vs...)
	if err != nil {
		return err
	}
	m.train = pvs

	invsqrts := make([]*mat.Dense, m.NViews)
	whitened := make([]*mat.Dense, m.NViews)
	for i, v := range pvs {
		k, err := kernels.Gram(m.kopts[i], v, nil)
		if err != nil {
			return err
		}
		// kernel covariance (1-c) K K / n + c K, floored to PD
		var kk mat.Dense
		kk.Mul(k, k)
		kk.Scale(1/float64(n), &kk)
		s := mat.NewSymDense(n, nil)
		for r := 0; r < n; r++ {
			for cc := r; cc < n; cc++ {
				sv := (1-c[i])*0.5*(kk.At(r, cc)+kk.At(cc, r)) + c[i]*0.5*(k.At(r, cc)+k.At(cc, r))
				s.SetSym(r, cc, sv)
			}
		}
		if err := linalg.FloorPD(s, eps); err != nil {
			return err
		}
		invsqrts[i], err = linalg.InvSqrtSym(s, eps)
		if err != nil {
			return err
		}
		var w mat.Dense
		w.Mul(k, invsqrts[i])
		whitened[i] = &w
	}

	tc := &TCCA{Base: m.Base, MaxIter: m.MaxIter, Tol: m.Tol, Rand: m.Rand}
	factors, err := tc.decompose(whitened)
	if err != nil {
		return err
	}
	// dual weights map kernel evaluations against training samples to
	// scores; normalize so training scores have unit norm
	m.Ws = make([]*mat.Dense, m.NViews)
	for i := range pvs {
		var alpha mat.Dense
		alpha.Mul(invsqrts[i], factors[i])
		k, err := kernels.Gram(m.kopts[i], pvs[i], nil)
		if err != nil {
			return err
		}
		normalizeScoreColumns(&alpha, k)
		m.Ws[i] = &alpha
	}
	return nil
}

// Transform projects the given views into the latent space via
// cross-kernels against the stored training views.
func (m *KTCCA) Transform(vs ...*mat.Dense) ([]*mat.Dense, error) {
	if err := m.checkFitted(); err != nil {
		return nil, err
	}
	if len(vs) != m.NViews {
		return nil, fmt.Errorf("models: got %d views, fit with %d", len(vs), m.NViews)
	}
	pvs, err := m.Prep.Transform(vs...)
	if err != nil {
		return nil, err
	}
	out := make([]*mat.Dense, len(pvs))
	for i, v := range pvs {
		kt, err := kernels.Gram(m.kopts[i], m.train[i], v)
		if err != nil {
			return nil, err
		}
		var z mat.Dense
		z.Mul(kt.T(), m.Ws[i])
		out[i] = &z
	}
	return out, nil
}
