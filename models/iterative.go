// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/logx"
	"cogentcore.org/cca/base/randx"
)

// InitMethods are the score initialization strategies for the
// iterative models.
type InitMethods int32

const (
	// InitPLS initializes scores from a one-dimensional PLS fit
	// of the current (residual) views. This is the default.
	InitPLS InitMethods = iota

	// InitCCA initializes scores from a one-dimensional CCA fit.
	InitCCA

	// InitRandom initializes scores with standard normal draws.
	InitRandom

	// InitUniform initializes scores with all ones.
	InitUniform
)

var initNames = []string{"PLS", "CCA", "Random", "Uniform"}

func (im InitMethods) String() string {
	if im < 0 || int(im) >= len(initNames) {
		return fmt.Sprintf("InitMethods(%d)", int(im))
	}
	return initNames[im]
}

// Iterative has the configuration shared by the deflation-based
// iterative models: iteration and tolerance limits, score
// initialization, and the random source.
type Iterative struct {
	Base

	// MaxIter is the maximum number of inner-loop iterations
	// per latent dimension. Zero means 100.
	MaxIter int

	// Tol is the tolerance on the change in the inner objective
	// used for early stopping. Zero means 1e-9.
	Tol float64

	// Initialization selects the score initialization strategy.
	Initialization InitMethods

	// Rand is the source for random initialization and any
	// stochastic subproblems, the global source if nil.
	Rand randx.Rand

	// Track records the inner-loop objective values of the most
	// recent Fit, one series per latent dimension.
	Track [][]float64
}

// NewIterative returns the default iterative configuration with the
// given number of latent dimensions.
func NewIterative(latentDims int) Iterative {
	return Iterative{Base: NewBase(latentDims)}
}

func (it *Iterative) maxIter() int {
	if it.MaxIter == 0 {
		return 100
	}
	return it.MaxIter
}

func (it *Iterative) tol() float64 {
	if it.Tol == 0 {
		return 1e-9
	}
	return it.Tol
}

func (it *Iterative) rand() randx.Rand {
	if it.Rand == nil {
		return randx.NewGlobalRand()
	}
	return it.Rand
}

// initScores returns one initial score vector per view for the
// current (residual) views, according to the configured strategy.
func (it *Iterative) initScores(pvs []*mat.Dense) ([]*mat.VecDense, error) {
	n, _ := pvs[0].Dims()
	out := make([]*mat.VecDense, len(pvs))
	switch it.Initialization {
	case InitRandom:
		rnd := it.rand()
		for i := range pvs {
			z := mat.NewVecDense(n, nil)
			for r := 0; r < n; r++ {
				z.SetVec(r, rnd.NormFloat64())
			}
			out[i] = z
		}
	case InitUniform:
		for i := range pvs {
			z := mat.NewVecDense(n, nil)
			for r := 0; r < n; r++ {
				z.SetVec(r, 1)
			}
			out[i] = z
		}
	default: // InitPLS, InitCCA on the already-preprocessed views
		m := NewMCCA(1)
		if it.Initialization == InitPLS {
			m.C = []float64{1}
		}
		m.Center = false
		m.Scale = false
		if err := m.Fit(pvs...); err != nil {
			return nil, err
		}
		zs, err := m.Transform(pvs...)
		if err != nil {
			return nil, err
		}
		for i, z := range zs {
			out[i] = mat.NewVecDense(n, mat.Col(nil, 0, z))
		}
	}
	return out, nil
}

// innerUpdater is one iterative model's per-dimension weight update:
// initialize prepares per-view weights from the initial scores,
// update performs one alternating pass over the views, updating
// weights and scores in place, and objective reports the value the
// outer loop monitors for convergence.
type innerUpdater interface {
	initialize(pvs []*mat.Dense, ws []*mat.VecDense, zs []*mat.VecDense) error
	update(pvs []*mat.Dense, ws []*mat.VecDense, zs []*mat.VecDense) error
	objective(pvs []*mat.Dense, ws []*mat.VecDense, zs []*mat.VecDense) float64
}

// fitDeflated runs the generic deflation loop: for each latent
// dimension it runs the inner alternating loop to convergence on the
// residual views, stores the weight vectors, and projects the fitted
// score direction out of each view.
func (it *Iterative) fitDeflated(up innerUpdater, pvs []*mat.Dense) error {
	k := it.LatentDims
	nv := len(pvs)
	it.Ws = make([]*mat.Dense, nv)
	for i, v := range pvs {
		_, p := v.Dims()
		it.Ws[i] = mat.NewDense(p, k, nil)
	}
	it.Track = make([][]float64, k)
	resid := make([]*mat.Dense, nv)
	for i, v := range pvs {
		resid[i] = mat.DenseCopyOf(v)
	}
	for d := 0; d < k; d++ {
		ws, track, err := it.innerLoop(up, resid)
		if err != nil {
			return fmt.Errorf("models: dimension %d: %w", d, err)
		}
		it.Track[d] = track
		for i := range resid {
			p, _ := it.Ws[i].Dims()
			for r := 0; r < p; r++ {
				it.Ws[i].Set(r, d, ws[i].AtVec(r))
			}
		}
		if d < k-1 {
			for i := range resid {
				deflate(resid[i], ws[i])
			}
		}
	}
	// weights were fit on deflated residuals; the stored weights apply
	// to the preprocessed originals, which projection deflation preserves
	return nil
}

// innerLoop runs the alternating updates for a single latent
// dimension until the objective change falls below Tol or MaxIter is
// reached, returning the weight vectors and the objective trace.
func (it *Iterative) innerLoop(up innerUpdater, pvs []*mat.Dense) ([]*mat.VecDense, []float64, error) {
	zs, err := it.initScores(pvs)
	if err != nil {
		return nil, nil, err
	}
	ws := make([]*mat.VecDense, len(pvs))
	for i, v := range pvs {
		_, p := v.Dims()
		ws[i] = mat.NewVecDense(p, nil)
	}
	if err := up.initialize(pvs, ws, zs); err != nil {
		return nil, nil, err
	}
	track := make([]float64, 0, it.maxIter())
	converged := false
	for iter := 0; iter < it.maxIter(); iter++ {
		if err := up.update(pvs, ws, zs); err != nil {
			return nil, nil, err
		}
		track = append(track, up.objective(pvs, ws, zs))
		if len(track) >= 2 && math.Abs(track[len(track)-2]-track[len(track)-1]) < it.tol() {
			converged = true
			break
		}
	}
	if !converged {
		logx.PrintlnWarn("models: inner loop did not converge; consider increasing MaxIter")
	}
	return ws, track, nil
}

// deflate removes the fitted score direction z = X w from the view by
// projection deflation: X <- X - z z^T X / (z^T z).
func deflate(x *mat.Dense, w *mat.VecDense) {
	n, _ := x.Dims()
	z := mat.NewVecDense(n, nil)
	z.MulVec(x, w)
	zz := mat.Dot(z, z)
	if zz == 0 {
		return
	}
	var zx mat.Dense // z^T X, 1 x p
	zx.Mul(z.T(), x)
	var outer mat.Dense
	outer.Mul(z, &zx)
	outer.Scale(1/zz, &outer)
	x.Sub(x, &outer)
}

// updateScores recomputes z_i = X_i w_i for all views.
func updateScores(pvs []*mat.Dense, ws, zs []*mat.VecDense) {
	for i, v := range pvs {
		zs[i].MulVec(v, ws[i])
	}
}
