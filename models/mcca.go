// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/linalg"
	"cogentcore.org/cca/views"
)

// MCCA fits multiview regularized canonical correlation analysis by
// solving the generalized symmetric eigenproblem A w = lambda B w,
// where A holds the between-view covariances and B is the
// block-diagonal of per-view regularized covariances
// (1-c_i) X_i^T X_i / n + c_i I. With more than two views this
// maximizes the sum of pairwise correlations (Kettenring 1971).
// The per-view regularization c in [0,1] interpolates from CCA (0)
// to PLS (1); see [NewCCA], [NewPLS] and [NewRCCA].
type MCCA struct {
	Base

	// C is the per-view regularization in [0,1]. A single value is
	// broadcast to all views; empty means 0 (plain CCA).
	C []float64

	// Eps is the eigenvalue floor keeping B positive definite.
	// Zero means 1e-9.
	Eps float64

	// EigenValues holds the top generalized eigenvalues after Fit,
	// one per latent dimension, in descending order.
	EigenValues []float64
}

// NewMCCA returns an MCCA model with the given number of latent
// dimensions and optional per-view regularization.
func NewMCCA(latentDims int, c ...float64) *MCCA {
	return &MCCA{Base: NewBase(latentDims), C: c}
}

// NewCCA returns an unregularized CCA model (c = 0) with the given
// number of latent dimensions. Two or more views are supported.
func NewCCA(latentDims int) *MCCA {
	return NewMCCA(latentDims)
}

// NewRCCA returns a ridge-regularized CCA model with the given
// per-view regularization values.
func NewRCCA(latentDims int, c ...float64) *MCCA {
	return NewMCCA(latentDims, c...)
}

// NewPLS returns a partial least squares model (c = 1), maximizing
// covariance instead of correlation.
func NewPLS(latentDims int) *MCCA {
	return NewMCCA(latentDims, 1)
}

// Fit fits the model to the given views.
func (m *MCCA) Fit(vs ...*mat.Dense) error {
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
	n, _ := pvs[0].Dims()
	a, b, splits := evpMatrices(pvs, c, float64(n))
	if err := linalg.FloorPD(b, eps); err != nil {
		return err
	}
	vals, vecs, err := linalg.GeneralizedEigSym(a, b, m.LatentDims, eps)
	if err != nil {
		return err
	}
	m.EigenValues = vals
	m.Ws = splitRowsBy(vecs, splits)
	return nil
}

// evpMatrices builds the A (between-view covariance) and B
// (block-diagonal regularized within-view covariance) matrices of the
// generalized eigenproblem, along with the per-view row splits of the
// stacked weight vector.
func evpMatrices(pvs []*mat.Dense, c []float64, n float64) (a, b *mat.SymDense, splits []int) {
	tot := 0
	splits = make([]int, len(pvs)+1)
	for i, v := range pvs {
		_, p := v.Dims()
		splits[i] = tot
		tot += p
	}
	splits[len(pvs)] = tot

	a = mat.NewSymDense(tot, nil)
	b = mat.NewSymDense(tot, nil)
	for i, vi := range pvs {
		_, pi := vi.Dims()
		for j := i; j < len(pvs); j++ {
			vj := pvs[j]
			_, pj := vj.Dims()
			var cov mat.Dense
			cov.Mul(vi.T(), vj)
			cov.Scale(1/n, &cov)
			if i == j {
				for r := 0; r < pi; r++ {
					for cc := r; cc < pi; cc++ {
						bv := (1 - c[i]) * cov.At(r, cc)
						if r == cc {
							bv += c[i]
						}
						b.SetSym(splits[i]+r, splits[i]+cc, bv)
					}
				}
				continue
			}
			for r := 0; r < pi; r++ {
				for cc := 0; cc < pj; cc++ {
					a.SetSym(splits[i]+r, splits[j]+cc, cov.At(r, cc))
				}
			}
		}
	}
	return a, b, splits
}

// splitRowsBy slices the stacked eigenvector matrix back into
// one weight matrix per view.
func splitRowsBy(vecs *mat.Dense, splits []int) []*mat.Dense {
	_, k := vecs.Dims()
	out := make([]*mat.Dense, len(splits)-1)
	for i := 0; i < len(splits)-1; i++ {
		p := splits[i+1] - splits[i]
		w := mat.NewDense(p, k, nil)
		w.Copy(vecs.Slice(splits[i], splits[i+1], 0, k))
		out[i] = w
	}
	return out
}
