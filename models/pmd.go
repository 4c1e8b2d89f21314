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

// SCCAPMD fits sparse CCA by penalized matrix decomposition (Witten,
// Tibshirani & Hastie 2009): power-iteration weight updates followed
// by projection onto an l1 ball, so each weight vector has unit l2
// norm and l1 norm at most t_i = max(1, tau_i * sqrt(p_i)). Tau in
// [0,1] scales the sparsity per view, 1 being no constraint beyond
// the l2 normalization.
type SCCAPMD struct {
	Iterative

	// Tau is the per-view sparsity parameter in [0,1].
	// Unset means 1, i.e. minimal l1 regularization, with a warning.
	Tau []float64

	// Positive constrains the given views' weights to be non-negative.
	Positive []bool

	tau      []float64
	t        []float64
	positive []bool
}

// NewSCCAPMD returns a PMD sparse CCA model with the given per-view
// sparsity parameters.
func NewSCCAPMD(latentDims int, tau ...float64) *SCCAPMD {
	return &SCCAPMD{Iterative: NewIterative(latentDims), Tau: tau}
}

// Fit fits the model to the given views.
func (m *SCCAPMD) Fit(vs ...*mat.Dense) error {
	pvs, err := m.prepare(vs...)
	if err != nil {
		return err
	}
	if len(m.Tau) == 0 {
		logx.PrintlnWarn("models: tau not set; using tau=1, the maximum l1 radius")
	}
	if m.tau, err = views.Param("tau", m.Tau, 1, m.NViews); err != nil {
		return err
	}
	for i, tau := range m.tau {
		if tau < 0 || tau > 1 {
			return fmt.Errorf("models: tau[%d] = %v outside [0,1]", i, tau)
		}
	}
	if m.positive, err = views.Param("positive", m.Positive, false, m.NViews); err != nil {
		return err
	}
	m.t = make([]float64, m.NViews)
	for i, v := range pvs {
		_, p := v.Dims()
		m.t[i] = math.Max(1, m.tau[i]*math.Sqrt(float64(p)))
	}
	return m.fitDeflated(m, pvs)
}

func (m *SCCAPMD) initialize(pvs []*mat.Dense, ws, zs []*mat.VecDense) error {
	// seed weights from the initial scores so the first power
	// iteration has a meaningful target
	for i, v := range pvs {
		ws[i].MulVec(v.T(), zs[i])
		nrm := ws[i].Norm(2)
		if nrm > 0 {
			ws[i].ScaleVec(1/nrm, ws[i])
		}
		zs[i].MulVec(v, ws[i])
	}
	return nil
}

func (m *SCCAPMD) update(pvs []*mat.Dense, ws, zs []*mat.VecDense) error {
	n, _ := pvs[0].Dims()
	target := mat.NewVecDense(n, nil)
	for i, v := range pvs {
		target.Zero()
		for j, z := range zs {
			if j == i {
				continue
			}
			target.AddVec(target, z)
		}
		ws[i].MulVec(v.T(), target)
		if m.positive[i] {
			for r := 0; r < ws[i].Len(); r++ {
				if ws[i].AtVec(r) < 0 {
					ws[i].SetVec(r, 0)
				}
			}
		}
		deltaSearch(ws[i].RawVector().Data, m.t[i], m.tol())
		zs[i].MulVec(v, ws[i])
	}
	return nil
}

// objective is the total covariance between scores, minus the
// tau-weighted l2 norms as in the original formulation.
func (m *SCCAPMD) objective(pvs []*mat.Dense, ws, zs []*mat.VecDense) float64 {
	n, _ := pvs[0].Dims()
	total := 0.0
	for i := range zs {
		for j := i + 1; j < len(zs); j++ {
			total += mat.Dot(zs[i], zs[j]) / float64(n)
		}
	}
	for i := range ws {
		total -= m.tau[i] * ws[i].Norm(2)
	}
	// the outer loop minimizes objective change; negate so increasing
	// covariance registers as decreasing objective
	return -total
}

// deltaSearch projects w in place onto the intersection of the unit
// l2 sphere and the l1 ball of radius t, by bisecting on the
// soft-threshold parameter delta (Witten et al. 2009, Algorithm 3).
func deltaSearch(w []float64, t float64, tol float64) {
	norm2 := func(v []float64) float64 {
		s := 0.0
		for _, x := range v {
			s += x * x
		}
		return math.Sqrt(s)
	}
	norm1 := func(v []float64) float64 {
		s := 0.0
		for _, x := range v {
			s += math.Abs(x)
		}
		return s
	}
	nrm := norm2(w)
	if nrm == 0 {
		return
	}
	for i := range w {
		w[i] /= nrm
	}
	if norm1(w) <= t {
		return
	}
	lo, hi := 0.0, 0.0
	for _, x := range w {
		if a := math.Abs(x); a > hi {
			hi = a
		}
	}
	tmp := make([]float64, len(w))
	for iter := 0; iter < 200; iter++ {
		mid := (lo + hi) / 2
		for i, x := range w {
			tmp[i] = softThreshold(x, mid)
		}
		n2 := norm2(tmp)
		var l1 float64
		if n2 > 0 {
			l1 = norm1(tmp) / n2
		}
		if l1 > t {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < tol {
			break
		}
	}
	delta := hi
	for i, x := range w {
		w[i] = softThreshold(x, delta)
	}
	n2 := norm2(w)
	if n2 > 0 {
		for i := range w {
			w[i] /= n2
		}
	}
}
