// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/logx"
	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/views"
)

// EigenGame fits regularized CCA by the generalized EigenGame
// (Chapman, Lawry Aguila & Wells 2022): minibatch gradient updates
// whose utility gradient for each view is
//
//	2 Aw - (Aw triu(w^T Bw) + Bw triu(w^T Aw))
//
// where A holds the cross-view covariance of the batch and B the
// c-regularized within-view metric. c per view interpolates from
// CCA (0) to PLS (1); see [NewCCAEigenGame] and [NewPLSEigenGame].
type EigenGame struct {
	Base

	// C is the per-view regularization in [0,1].
	C []float64

	// Epochs is the number of passes over the data. Zero means 100.
	Epochs int

	// BatchSize is the minibatch size; zero means full batch.
	BatchSize int

	// LearningRate is the gradient step size. Zero means 0.1.
	LearningRate float64

	// Rand is the source for weight initialization and batch
	// shuffling, the global source if nil.
	Rand randx.Rand

	c []float64
}

// NewEigenGame returns an EigenGame model with the given number of
// latent dimensions and per-view regularization.
func NewEigenGame(latentDims int, c ...float64) *EigenGame {
	return &EigenGame{Base: NewBase(latentDims), C: c}
}

// NewCCAEigenGame returns an EigenGame solving plain CCA (c = 0).
func NewCCAEigenGame(latentDims int) *EigenGame {
	return NewEigenGame(latentDims)
}

// NewPLSEigenGame returns an EigenGame solving PLS (c = 1).
func NewPLSEigenGame(latentDims int) *EigenGame {
	return NewEigenGame(latentDims, 1)
}

func (m *EigenGame) epochs() int {
	if m.Epochs == 0 {
		return 100
	}
	return m.Epochs
}

func (m *EigenGame) lrate() float64 {
	if m.LearningRate == 0 {
		return 0.1
	}
	return m.LearningRate
}

func (m *EigenGame) rand() randx.Rand {
	if m.Rand == nil {
		return randx.NewGlobalRand()
	}
	return m.Rand
}

// Fit fits the model to the given views.
func (m *EigenGame) Fit(vs ...*mat.Dense) error {
	pvs, err := m.prepare(vs...)
	if err != nil {
		return err
	}
	if m.c, err = views.Param("c", m.C, 0, m.NViews); err != nil {
		return err
	}
	for i, ci := range m.c {
		if ci < 0 || ci > 1 {
			return fmt.Errorf("models: c[%d] = %v outside [0,1]", i, ci)
		}
	}
	rnd := m.rand()
	m.Ws = initRandomWeights(pvs, m.LatentDims, rnd)
	n, _ := pvs[0].Dims()
	bs := m.BatchSize
	if bs > n {
		return fmt.Errorf("models: BatchSize %d exceeds %d samples", bs, n)
	}
	if bs <= 0 {
		bs = n
	}
	for epoch := 0; epoch < m.epochs(); epoch++ {
		for _, batch := range minibatches(n, bs, rnd) {
			m.updateBatch(views.Rows(pvs, batch))
		}
		if logx.LevelEnabled(slog.LevelDebug) {
			if obj, err := m.Objective(vs...); err == nil {
				logx.PrintlnDebug("models: EigenGame epoch", epoch, "objective", obj)
			}
		}
	}
	return nil
}

// Objective reports the monitored training objective on the given
// views: the total canonical correlation, or for fully regularized
// (c = 1, PLS) models the total score covariance.
func (m *EigenGame) Objective(vs ...*mat.Dense) (float64, error) {
	pls := len(m.c) > 0
	for _, c := range m.c {
		if c != 1 {
			pls = false
			break
		}
	}
	if pls {
		return ScoreCovariance(m, vs...)
	}
	return Score(m, vs...)
}

// updateBatch applies one EigenGame gradient step per view on the
// given minibatch views.
func (m *EigenGame) updateBatch(bvs []*mat.Dense) {
	nb, _ := bvs[0].Dims()
	nf := float64(nb)
	k := m.LatentDims
	zs := make([]*mat.Dense, m.NViews)
	for i, v := range bvs {
		var z mat.Dense
		z.Mul(v, m.Ws[i])
		zs[i] = &z
	}
	for i, v := range bvs {
		n, _ := v.Dims()
		target := mat.NewDense(n, k, nil)
		for j, z := range zs {
			if j == i {
				continue
			}
			target.Add(target, z)
		}
		var aw mat.Dense
		aw.Mul(v.T(), target)
		aw.Scale(1/nf, &aw)

		var bw mat.Dense
		bw.Mul(v.T(), zs[i])
		bw.Scale((1-m.c[i])/nf, &bw)
		var reg mat.Dense
		reg.Scale(m.c[i], m.Ws[i])
		bw.Add(&bw, &reg)

		var wb, wa mat.Dense
		wb.Mul(m.Ws[i].T(), &bw)
		wa.Mul(m.Ws[i].T(), &aw)
		triuInPlace(&wb)
		triuInPlace(&wa)

		var pen1, pen2, grads mat.Dense
		pen1.Mul(&aw, &wb)
		pen2.Mul(&bw, &wa)
		grads.Scale(2, &aw)
		grads.Sub(&grads, &pen1)
		grads.Sub(&grads, &pen2)
		grads.Scale(m.lrate(), &grads)
		m.Ws[i].Add(m.Ws[i], &grads)
	}
}

// triuInPlace zeroes the strictly lower triangular part of a square
// matrix, keeping the diagonal.
func triuInPlace(a *mat.Dense) {
	r, _ := a.Dims()
	for i := 1; i < r; i++ {
		for j := 0; j < i; j++ {
			a.Set(i, j, 0)
		}
	}
}

// initRandomWeights returns per-view weight matrices with normal
// entries scaled by 1/sqrt(p), a standard scale-preserving init.
func initRandomWeights(pvs []*mat.Dense, k int, rnd randx.Rand) []*mat.Dense {
	out := make([]*mat.Dense, len(pvs))
	for i, v := range pvs {
		_, p := v.Dims()
		w := mat.NewDense(p, k, nil)
		scale := 1 / math.Sqrt(float64(p))
		for r := 0; r < p; r++ {
			for c := 0; c < k; c++ {
				w.Set(r, c, rnd.NormFloat64()*scale)
			}
		}
		out[i] = w
	}
	return out
}

// minibatches shuffles [0,n) and splits it into batches of the given
// size, dropping a trailing partial batch as in the original solvers.
func minibatches(n, size int, rnd randx.Rand) [][]int {
	perm := rnd.Perm(n)
	nb := n / size
	if nb == 0 {
		return [][]int{perm}
	}
	out := make([][]int, 0, nb)
	for b := 0; b < nb; b++ {
		out = append(out, perm[b*size:(b+1)*size])
	}
	return out
}
