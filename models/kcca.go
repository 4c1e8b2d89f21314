// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/kernels"
	"cogentcore.org/cca/linalg"
	"cogentcore.org/cca/views"
)

// KCCA fits kernel canonical correlation analysis: [MCCA] in the
// dual, with one Gram matrix per view in place of the data matrix.
// The fitted weights are dual coefficients over training samples, so
// Transform computes cross-kernels between the stored training views
// and the new data.
type KCCA struct {
	Base

	// C is the per-view regularization in [0,1], interpolating from
	// kernel CCA (0) toward the kernel covariance problem (1).
	C []float64

	// Eps is the eigenvalue floor keeping the metric block matrix
	// positive definite. Kernel Gram matrices are much closer to
	// singular than covariance matrices, so the default is 1e-3.
	Eps float64

	// Kernels configures the kernel per view. A single entry is
	// broadcast; empty means linear kernels.
	Kernels []kernels.Options

	// EigenValues holds the top generalized eigenvalues after Fit.
	EigenValues []float64

	// train holds the preprocessed training views for Transform.
	train []*mat.Dense

	// kopts holds the broadcast per-view kernel options.
	kopts []kernels.Options
}

// NewKCCA returns a kernel CCA model with the given number of latent
// dimensions and per-view kernel options (broadcast if one is given,
// linear if none).
func NewKCCA(latentDims int, kos ...kernels.Options) *KCCA {
	return &KCCA{Base: NewBase(latentDims), Kernels: kos}
}

// Fit fits the model to the given views.
func (m *KCCA) Fit(vs ...*mat.Dense) error {
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

	grams := make([]*mat.Dense, m.NViews)
	for i, v := range pvs {
		grams[i], err = kernels.Gram(m.kopts[i], v, nil)
		if err != nil {
			return err
		}
	}

	// A has the cross blocks K_i^T K_j / n; B is block-diagonal
	// (1-c_i) K_i K_i / n + c_i K_i.
	tot := m.NViews * n
	a := mat.NewSymDense(tot, nil)
	b := mat.NewSymDense(tot, nil)
	nf := float64(n)
	for i, ki := range grams {
		var kk mat.Dense
		kk.Mul(ki.T(), ki)
		for r := 0; r < n; r++ {
			for cc := r; cc < n; cc++ {
				bv := (1-c[i])*kk.At(r, cc)/nf + c[i]*0.5*(ki.At(r, cc)+ki.At(cc, r))
				b.SetSym(i*n+r, i*n+cc, bv)
			}
		}
		for j := i + 1; j < m.NViews; j++ {
			var cross mat.Dense
			cross.Mul(ki.T(), grams[j])
			for r := 0; r < n; r++ {
				for cc := 0; cc < n; cc++ {
					a.SetSym(i*n+r, j*n+cc, cross.At(r, cc)/nf)
				}
			}
		}
	}
	if err := linalg.FloorPD(b, eps); err != nil {
		return err
	}
	vals, vecs, err := linalg.GeneralizedEigSym(a, b, m.LatentDims, eps)
	if err != nil {
		return err
	}
	m.EigenValues = vals
	splits := make([]int, m.NViews+1)
	for i := range splits {
		splits[i] = i * n
	}
	m.Ws = splitRowsBy(vecs, splits)
	return nil
}

// Transform projects the given views into the latent space via
// cross-kernels against the stored training views.
func (m *KCCA) Transform(vs ...*mat.Dense) ([]*mat.Dense, error) {
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
