// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/logx"
	"cogentcore.org/cca/views"
)

// AltMaxVar fits the MAXVAR formulation of multiview CCA with sparse
// regularization (Fu et al. 2017): all latent dimensions are fit at
// once by alternating between an orthonormal shared target G, the
// polar factor of the summed scores, and per-view proximal-gradient
// weight updates with an l1 penalty and optional non-negativity.
type AltMaxVar struct {
	Iterative

	// Gamma is the per-view l1 penalty on the weights.
	Gamma []float64

	// Positive constrains the given views' weights to be non-negative.
	Positive []bool

	// LRate scales the proximal gradient step, which is 1/L per view
	// with L the Lipschitz constant of the least-squares term.
	// Zero means 1.
	LRate float64

	// InnerIter is the number of proximal gradient steps per view per
	// outer iteration. Zero means 20.
	InnerIter int

	gamma    []float64
	positive []bool
}

// NewAltMaxVar returns an AltMaxVar model with the given number of
// latent dimensions and optional per-view l1 penalties.
func NewAltMaxVar(latentDims int, gamma ...float64) *AltMaxVar {
	return &AltMaxVar{Iterative: NewIterative(latentDims), Gamma: gamma}
}

// Fit fits the model to the given views.
func (m *AltMaxVar) Fit(vs ...*mat.Dense) error {
	pvs, err := m.prepare(vs...)
	if err != nil {
		return err
	}
	if m.gamma, err = views.Param("gamma", m.Gamma, 0, m.NViews); err != nil {
		return err
	}
	for i, g := range m.gamma {
		if g < 0 {
			return fmt.Errorf("models: gamma[%d] = %v must be non-negative", i, g)
		}
	}
	if m.positive, err = views.Param("positive", m.Positive, false, m.NViews); err != nil {
		return err
	}
	n, _ := pvs[0].Dims()
	k := m.LatentDims

	zs, err := m.initScoreMatrices(pvs)
	if err != nil {
		return err
	}
	m.Ws = make([]*mat.Dense, m.NViews)
	steps := make([]float64, m.NViews)
	for i, v := range pvs {
		_, p := v.Dims()
		m.Ws[i] = mat.NewDense(p, k, nil)
		var svd mat.SVD
		if !svd.Factorize(v, mat.SVDNone) {
			return fmt.Errorf("models: SVD of view %d failed", i)
		}
		smax := svd.Values(nil)[0]
		l := smax * smax / float64(n)
		if l == 0 {
			l = 1
		}
		lr := m.LRate
		if lr == 0 {
			lr = 1
		}
		steps[i] = lr / l
	}

	inner := m.InnerIter
	if inner == 0 {
		inner = 20
	}
	g := mat.NewDense(n, k, nil)
	track := make([]float64, 0, m.maxIter())
	converged := false
	for iter := 0; iter < m.maxIter(); iter++ {
		if err := polarTarget(zs, g); err != nil {
			return err
		}
		for i, v := range pvs {
			m.updateView(v, g, m.Ws[i], steps[i], m.gamma[i], m.positive[i], inner)
			zs[i].Mul(v, m.Ws[i])
		}
		track = append(track, m.objective(pvs, g))
		if len(track) >= 2 && math.Abs(track[len(track)-2]-track[len(track)-1]) < m.tol() {
			converged = true
			break
		}
	}
	m.Track = [][]float64{track}
	if !converged {
		logx.PrintlnWarn("models: AltMaxVar did not converge; consider increasing MaxIter")
	}
	return nil
}

// initScoreMatrices returns one n x k initial score matrix per view.
func (m *AltMaxVar) initScoreMatrices(pvs []*mat.Dense) ([]*mat.Dense, error) {
	n, _ := pvs[0].Dims()
	k := m.LatentDims
	out := make([]*mat.Dense, len(pvs))
	switch m.Initialization {
	case InitRandom:
		rnd := m.rand()
		for i := range pvs {
			z := mat.NewDense(n, k, nil)
			for r := 0; r < n; r++ {
				for c := 0; c < k; c++ {
					z.Set(r, c, rnd.NormFloat64())
				}
			}
			out[i] = z
		}
	case InitUniform:
		for i := range pvs {
			z := mat.NewDense(n, k, nil)
			for r := 0; r < n; r++ {
				for c := 0; c < k; c++ {
					z.Set(r, c, 1)
				}
			}
			out[i] = z
		}
	default:
		mc := NewMCCA(k)
		if m.Initialization == InitPLS {
			mc.C = []float64{1}
		}
		mc.Center = false
		mc.Scale = false
		if err := mc.Fit(pvs...); err != nil {
			return nil, err
		}
		zs, err := mc.Transform(pvs...)
		if err != nil {
			return nil, err
		}
		out = zs
	}
	return out, nil
}

// updateView performs proximal gradient steps on one view's weights:
// w <- prox_{step*gamma*l1}(w - step * X^T (X w - G) / n).
func (m *AltMaxVar) updateView(x, g, w *mat.Dense, step, gamma float64, positive bool, iters int) {
	n, _ := x.Dims()
	for it := 0; it < iters; it++ {
		var z, grad mat.Dense
		z.Mul(x, w)
		z.Sub(&z, g)
		grad.Mul(x.T(), &z)
		grad.Scale(step/float64(n), &grad)
		w.Sub(w, &grad)
		thr := step * gamma
		p, k := w.Dims()
		for r := 0; r < p; r++ {
			for c := 0; c < k; c++ {
				v := softThreshold(w.At(r, c), thr)
				if positive && v < 0 {
					v = 0
				}
				w.Set(r, c, v)
			}
		}
	}
}

func (m *AltMaxVar) objective(pvs []*mat.Dense, g *mat.Dense) float64 {
	n, _ := pvs[0].Dims()
	total := 0.0
	for i, v := range pvs {
		var z mat.Dense
		z.Mul(v, m.Ws[i])
		z.Sub(&z, g)
		nrm := mat.Norm(&z, 2)
		total += nrm * nrm / (2 * float64(n))
		p, k := m.Ws[i].Dims()
		l1 := 0.0
		for r := 0; r < p; r++ {
			for c := 0; c < k; c++ {
				l1 += math.Abs(m.Ws[i].At(r, c))
			}
		}
		total += m.gamma[i] * l1
	}
	return total
}

// polarTarget sets g to the polar factor U V^T of the summed scores,
// the closest matrix with orthonormal columns.
func polarTarget(zs []*mat.Dense, g *mat.Dense) error {
	var r mat.Dense
	for i, z := range zs {
		if i == 0 {
			r.CloneFrom(z)
			continue
		}
		r.Add(&r, z)
	}
	var svd mat.SVD
	if !svd.Factorize(&r, mat.SVDThin) {
		return fmt.Errorf("models: SVD of score sum failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	g.Mul(&u, v.T())
	return nil
}
