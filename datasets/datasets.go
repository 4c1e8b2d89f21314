// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package datasets generates simulated multiview data with known
// latent structure, for testing and benchmarking the CCA models.
package datasets

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/views"
)

// Simulated generates views from a latent joint-Gaussian model: a
// shared standard-normal latent z drives every view through
// orthonormal true weights,
//
//	x_i = W_i diag(sqrt(rho)) z + e_i
//
// with the per-view noise e_i drawn so that each view has identity
// signal-plus-noise covariance scaled by 1 + Noise. The canonical
// correlation of latent dimension d between any two views is then
// rho_d / (1 + Noise).
type Simulated struct {
	// Samples is the number of rows to generate.
	Samples int

	// Features is the number of columns per view.
	Features []int

	// LatentDims is the number of shared latent dimensions.
	LatentDims int

	// Correlations are the per-dimension true correlations rho in
	// [0,1); broadcast, so a single value applies to all dimensions.
	Correlations []float64

	// Noise is the additional per-feature noise variance. Zero is
	// noiseless beyond the latent model's own residual.
	Noise float64

	// Sparsity is the per-view fraction of true weight entries zeroed
	// before orthonormalization; broadcast. Zero means dense weights.
	// The zeroed entries survive orthonormalization exactly only for
	// LatentDims = 1; for more dimensions the QR mixes columns and the
	// weights are only approximately sparse.
	Sparsity []float64

	// Rand seeds generation, the global source if nil.
	Rand randx.Rand

	// Weights records the orthonormalized true weights per view
	// after Generate.
	Weights []*mat.Dense
}

// Generate returns one matrix per view, Samples x Features[i].
func (s *Simulated) Generate() ([]*mat.Dense, error) {
	if s.Samples < 1 {
		return nil, fmt.Errorf("datasets: Samples must be at least 1, got %d", s.Samples)
	}
	if len(s.Features) < 1 {
		return nil, fmt.Errorf("datasets: at least one view is required")
	}
	k := s.LatentDims
	if k < 1 {
		return nil, fmt.Errorf("datasets: LatentDims must be at least 1, got %d", k)
	}
	for i, p := range s.Features {
		if p < k {
			return nil, fmt.Errorf("datasets: view %d has %d features, need at least LatentDims = %d", i, p, k)
		}
	}
	if s.Noise < 0 {
		return nil, fmt.Errorf("datasets: Noise must be non-negative, got %v", s.Noise)
	}
	nv := len(s.Features)
	rho, err := views.Param("Correlations", s.Correlations, 0.9, k)
	if err != nil {
		return nil, err
	}
	for d, r := range rho {
		if r < 0 || r >= 1 {
			return nil, fmt.Errorf("datasets: Correlations[%d] = %v outside [0,1)", d, r)
		}
	}
	sparsity, err := views.Param("Sparsity", s.Sparsity, 0, nv)
	if err != nil {
		return nil, err
	}
	rnd := s.Rand
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	// gonum's samplers take a golang.org/x/exp/rand source
	src := rand.NewSource(uint64(rnd.Int63()))
	nrm := rand.New(src)

	s.Weights = make([]*mat.Dense, nv)
	for i, p := range s.Features {
		w, err := trueWeights(p, k, sparsity[i], nrm)
		if err != nil {
			return nil, fmt.Errorf("datasets: view %d: %w", i, err)
		}
		s.Weights[i] = w
	}

	// shared latent draws
	z := mat.NewDense(s.Samples, k, nil)
	for r := 0; r < s.Samples; r++ {
		for c := 0; c < k; c++ {
			z.Set(r, c, nrm.NormFloat64())
		}
	}
	sqrtRho := mat.NewDiagDense(k, nil)
	for d, r := range rho {
		sqrtRho.SetDiag(d, math.Sqrt(r))
	}

	out := make([]*mat.Dense, nv)
	for i, p := range s.Features {
		// residual covariance I - W diag(rho) W^T + Noise I keeps the
		// total view covariance at (1 + Noise) I
		w := s.Weights[i]
		var wr, sig mat.Dense
		wr.Mul(w, mat.NewDiagDense(k, rho))
		sig.Mul(&wr, w.T())
		sigE := mat.NewSymDense(p, nil)
		for r := 0; r < p; r++ {
			for c := r; c < p; c++ {
				v := -0.5 * (sig.At(r, c) + sig.At(c, r))
				if r == c {
					v += 1 + s.Noise
				}
				sigE.SetSym(r, c, v)
			}
		}
		dist, ok := distmv.NewNormal(make([]float64, p), sigE, src)
		if !ok {
			return nil, fmt.Errorf("datasets: view %d noise covariance is not positive definite", i)
		}
		x := mat.NewDense(s.Samples, p, nil)
		var signal mat.Dense
		signal.Mul(z, sqrtRho)
		var xs mat.Dense
		xs.Mul(&signal, w.T())
		row := make([]float64, p)
		for r := 0; r < s.Samples; r++ {
			dist.Rand(row)
			for c := 0; c < p; c++ {
				x.Set(r, c, xs.At(r, c)+row[c])
			}
		}
		out[i] = x
	}
	return out, nil
}

// trueWeights draws a random p x k weight matrix, zeroes the given
// fraction of entries, and orthonormalizes the columns with a thin QR
// so the latent covariance algebra holds exactly. For k > 1 the QR
// mixes columns, so exact zeros are only guaranteed at k = 1.
func trueWeights(p, k int, sparsity float64, nrm *rand.Rand) (*mat.Dense, error) {
	if sparsity < 0 || sparsity >= 1 {
		return nil, fmt.Errorf("sparsity %v outside [0,1)", sparsity)
	}
	w := mat.NewDense(p, k, nil)
	for c := 0; c < k; c++ {
		nonzero := 0
		for r := 0; r < p; r++ {
			if sparsity > 0 && nrm.Float64() < sparsity {
				continue
			}
			w.Set(r, c, nrm.NormFloat64())
			nonzero++
		}
		if nonzero == 0 {
			// keep every column usable
			w.Set(nrm.Intn(p), c, nrm.NormFloat64())
		}
	}
	var qr mat.QR
	qr.Factorize(w)
	var q mat.Dense
	qr.QTo(&q)
	out := mat.NewDense(p, k, nil)
	out.Copy(q.Slice(0, p, 0, k))
	return out, nil
}
