// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/linalg"
)

// PCCA fits probabilistic CCA (Bach & Jordan 2005) by expectation
// maximization of the latent linear-Gaussian model
//
//	z ~ N(0, I_k),  x_i = W_i z + eps_i,  eps_i ~ N(0, Psi_i)
//
// over the stacked views, with the noise covariance constrained to be
// block-diagonal across views. Transform returns the posterior mean
// E[z | x_i] computed from each view alone, so views remain
// comparable out of sample.
type PCCA struct {
	Base

	// MaxIter bounds the EM iterations. Zero means 500.
	MaxIter int

	// Tol is the convergence tolerance on the change in the
	// loadings. Zero means 1e-6.
	Tol float64

	// Rand is the source for loading initialization,
	// the global source if nil.
	Rand randx.Rand

	// Loadings are the fitted per-view loading matrices W_i,
	// each ncols x LatentDims.
	Loadings []*mat.Dense

	// Noise are the fitted per-view noise covariances Psi_i.
	Noise []*mat.SymDense
}

// NewPCCA returns a probabilistic CCA model with the given number of
// latent dimensions.
func NewPCCA(latentDims int) *PCCA {
	return &PCCA{Base: NewBase(latentDims)}
}

// Fit fits the model to the given views by EM.
func (m *PCCA) Fit(vs ...*mat.Dense) error {
	pvs, err := m.prepare(vs...)
	if err != nil {
		return err
	}
	rnd := m.Rand
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	maxIter := m.MaxIter
	if maxIter == 0 {
		maxIter = 500
	}
	tol := m.Tol
	if tol == 0 {
		tol = 1e-6
	}
	n, _ := pvs[0].Dims()
	k := m.LatentDims
	splits := make([]int, m.NViews+1)
	ptot := 0
	for i, v := range pvs {
		_, p := v.Dims()
		splits[i] = ptot
		ptot += p
	}
	splits[m.NViews] = ptot

	// stacked data and its covariance
	y := mat.NewDense(n, ptot, nil)
	for i, v := range pvs {
		_, p := v.Dims()
		y.Slice(0, n, splits[i], splits[i]+p).(*mat.Dense).Copy(v)
	}
	var scov mat.Dense
	scov.Mul(y.T(), y)
	scov.Scale(1/float64(n), &scov)
	s, err := linalg.Sym(&scov)
	if err != nil {
		return err
	}

	// init: random loadings, diagonal of S as noise
	w := mat.NewDense(ptot, k, nil)
	for r := 0; r < ptot; r++ {
		for c := 0; c < k; c++ {
			w.Set(r, c, rnd.NormFloat64()*0.1)
		}
	}
	psi := mat.NewSymDense(ptot, nil)
	for r := 0; r < ptot; r++ {
		psi.SetSym(r, r, math.Max(s.At(r, r), 1e-6))
	}

	sd := mat.DenseCopyOf(s)
	for iter := 0; iter < maxIter; iter++ {
		psiInv, err := invertSym(psi)
		if err != nil {
			return err
		}
		// G = (I + W^T Psi^-1 W)^-1
		var pw, wpw mat.Dense
		pw.Mul(psiInv, w)
		wpw.Mul(w.T(), &pw)
		gd := mat.NewDense(k, k, nil)
		for i := 0; i < k; i++ {
			gd.Set(i, i, 1)
		}
		gd.Add(gd, &wpw)
		gs, err := linalg.Sym(gd)
		if err != nil {
			return err
		}
		g, err := invertSym(gs)
		if err != nil {
			return err
		}
		// beta = G W^T Psi^-1 (k x ptot)
		var beta mat.Dense
		beta.Mul(g, pw.T())
		// Ezz = G + beta S beta^T
		var bs, ezz mat.Dense
		bs.Mul(&beta, sd)
		ezz.Mul(&bs, beta.T())
		ezz.Add(&ezz, g)
		ezzSym, err := linalg.Sym(&ezz)
		if err != nil {
			return err
		}
		ezzInv, err := invertSym(ezzSym)
		if err != nil {
			return err
		}
		// W_new = S beta^T Ezz^-1
		var sb, wNew mat.Dense
		sb.Mul(sd, beta.T())
		wNew.Mul(&sb, ezzInv)
		// Psi_new = blockdiag(S - W_new beta S)
		var wbs mat.Dense
		wbs.Mul(&wNew, &bs)
		for i := 0; i < m.NViews; i++ {
			for r := splits[i]; r < splits[i+1]; r++ {
				for c := r; c < splits[i+1]; c++ {
					v := sd.At(r, c) - 0.5*(wbs.At(r, c)+wbs.At(c, r))
					if r == c && v < 1e-9 {
						v = 1e-9
					}
					psi.SetSym(r, c, v)
				}
			}
		}
		var diff mat.Dense
		diff.Sub(&wNew, w)
		change := mat.Norm(&diff, 2)
		w.Copy(&wNew)
		if change < tol {
			break
		}
	}

	// per-view posterior projection weights: Psi_i^-1 W_i G_i with
	// G_i = (I + W_i^T Psi_i^-1 W_i)^-1
	m.Loadings = make([]*mat.Dense, m.NViews)
	m.Noise = make([]*mat.SymDense, m.NViews)
	m.Ws = make([]*mat.Dense, m.NViews)
	for i := 0; i < m.NViews; i++ {
		p := splits[i+1] - splits[i]
		wi := mat.NewDense(p, k, nil)
		wi.Copy(w.Slice(splits[i], splits[i+1], 0, k))
		m.Loadings[i] = wi
		pi := mat.NewSymDense(p, nil)
		for r := 0; r < p; r++ {
			for c := r; c < p; c++ {
				pi.SetSym(r, c, psi.At(splits[i]+r, splits[i]+c))
			}
		}
		m.Noise[i] = pi
		piInv, err := invertSym(pi)
		if err != nil {
			return err
		}
		var pwi, wpwi mat.Dense
		pwi.Mul(piInv, wi)
		wpwi.Mul(wi.T(), &pwi)
		gd := mat.NewDense(k, k, nil)
		for r := 0; r < k; r++ {
			gd.Set(r, r, 1)
		}
		gd.Add(gd, &wpwi)
		gs, err := linalg.Sym(gd)
		if err != nil {
			return err
		}
		gi, err := invertSym(gs)
		if err != nil {
			return err
		}
		var proj mat.Dense
		proj.Mul(&pwi, gi)
		m.Ws[i] = &proj
	}
	return nil
}

// invertSym inverts a symmetric positive definite matrix, falling
// back to an eigenvalue-clamped pseudo-inverse when the Cholesky
// route fails.
func invertSym(s *mat.SymDense) (*mat.Dense, error) {
	n := s.SymmetricDim()
	var chol mat.Cholesky
	if chol.Factorize(s) {
		inv := mat.NewSymDense(n, nil)
		if err := chol.InverseTo(inv); err == nil {
			return mat.DenseCopyOf(inv), nil
		}
	}
	vals, vecs, err := linalg.EigSym(s)
	if err != nil {
		return nil, fmt.Errorf("models: cannot invert symmetric matrix: %w", err)
	}
	d := mat.NewDiagDense(n, nil)
	for i, v := range vals {
		if v < 1e-12 {
			v = 1e-12
		}
		d.SetDiag(i, 1/v)
	}
	var tmp, out mat.Dense
	tmp.Mul(vecs, d)
	out.Mul(&tmp, vecs.T())
	return &out, nil
}
