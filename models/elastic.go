// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/views"
)

// ElasticCCA fits sparse canonical correlation analysis by
// alternating elastic-net regressions (Fu et al. 2017; Mai & Zhang
// 2019). In the default MAXVAR form each view is regressed onto a
// shared auxiliary target, the normalized mean of the current scores;
// in the SUMCOR form each view is regressed onto the previous view's
// score, with the weights rescaled afterward so every score has norm
// sqrt(n).
type ElasticCCA struct {
	Iterative

	// Alpha is the per-view elastic-net regularization strength.
	Alpha []float64

	// L1Ratio is the per-view mix between the l1 (1) and l2 (0)
	// penalties.
	L1Ratio []float64

	// MaxVar selects the auxiliary-target MAXVAR form; when false
	// the SUMCOR form is used.
	MaxVar bool

	// Positive constrains the given views' weights to be non-negative.
	Positive []bool

	alpha    []float64
	l1ratio  []float64
	positive []bool
}

// NewElasticCCA returns an elastic-net CCA model in the MAXVAR form.
func NewElasticCCA(latentDims int) *ElasticCCA {
	return &ElasticCCA{Iterative: NewIterative(latentDims), MaxVar: true}
}

// NewSCCA returns a sparse CCA model: [ElasticCCA] with pure l1
// penalties in the SUMCOR form (Mai & Zhang 2019).
func NewSCCA(latentDims int, alpha ...float64) *ElasticCCA {
	return &ElasticCCA{
		Iterative: NewIterative(latentDims),
		Alpha:     alpha,
		L1Ratio:   []float64{1},
	}
}

// Fit fits the model to the given views.
func (m *ElasticCCA) Fit(vs ...*mat.Dense) error {
	pvs, err := m.prepare(vs...)
	if err != nil {
		return err
	}
	if m.alpha, err = views.Param("alpha", m.Alpha, 0, m.NViews); err != nil {
		return err
	}
	for i, a := range m.alpha {
		if a < 0 {
			return fmt.Errorf("models: alpha[%d] = %v must be non-negative", i, a)
		}
	}
	if m.l1ratio, err = views.Param("l1ratio", m.L1Ratio, 0, m.NViews); err != nil {
		return err
	}
	for i, lr := range m.l1ratio {
		if lr < 0 || lr > 1 {
			return fmt.Errorf("models: l1ratio[%d] = %v outside [0,1]", i, lr)
		}
	}
	if m.positive, err = views.Param("positive", m.Positive, false, m.NViews); err != nil {
		return err
	}
	return m.fitDeflated(m, pvs)
}

func (m *ElasticCCA) initialize(pvs []*mat.Dense, ws, zs []*mat.VecDense) error {
	return nil
}

// target returns the regression target for the given view: the
// normalized mean score for MAXVAR, or the previous view's score
// (wrapping around) for SUMCOR.
func (m *ElasticCCA) target(zs []*mat.VecDense, i int) []float64 {
	n := zs[0].Len()
	t := make([]float64, n)
	if m.MaxVar {
		for _, z := range zs {
			for r := 0; r < n; r++ {
				t[r] += z.AtVec(r)
			}
		}
		nz := 0.0
		for r := 0; r < n; r++ {
			t[r] /= float64(len(zs))
			nz += t[r] * t[r]
		}
		if nz > 0 {
			scale := math.Sqrt(float64(n)) / math.Sqrt(nz)
			for r := 0; r < n; r++ {
				t[r] *= scale
			}
		}
		return t
	}
	prev := zs[(i-1+len(zs))%len(zs)]
	for r := 0; r < n; r++ {
		t[r] = prev.AtVec(r)
	}
	return t
}

func (m *ElasticCCA) update(pvs []*mat.Dense, ws, zs []*mat.VecDense) error {
	n, _ := pvs[0].Dims()
	for i, v := range pvs {
		t := m.target(zs, i)
		w := ws[i].RawVector().Data
		elasticNet(v, t, w, m.alpha[i], m.l1ratio[i], m.positive[i], 1000, 1e-8)
		if !m.MaxVar {
			// SUMCOR rescales so the score has norm sqrt(n)
			zs[i].MulVec(v, ws[i])
			nrm := zs[i].Norm(2)
			if nrm == 0 {
				return fmt.Errorf("models: view %d weights shrank to zero; reduce alpha", i)
			}
			ws[i].ScaleVec(math.Sqrt(float64(n))/nrm, ws[i])
		}
		zs[i].MulVec(v, ws[i])
	}
	return nil
}

func (m *ElasticCCA) objective(pvs []*mat.Dense, ws, zs []*mat.VecDense) float64 {
	n, _ := pvs[0].Dims()
	total := 0.0
	for i := range pvs {
		t := m.target(zs, i)
		res := 0.0
		for r := 0; r < n; r++ {
			d := zs[i].AtVec(r) - t[r]
			res += d * d
		}
		total += res / (2 * float64(n))
		l1, l2 := 0.0, 0.0
		for j := 0; j < ws[i].Len(); j++ {
			w := ws[i].AtVec(j)
			l1 += math.Abs(w)
			l2 += w * w
		}
		total += m.alpha[i]*m.l1ratio[i]*l1 + 0.5*m.alpha[i]*(1-m.l1ratio[i])*l2
	}
	return total
}
