// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/logx"
	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/views"
)

// StochasticPLS fits PLS by the stochastic power method (Arora et
// al. 2012): each minibatch takes a covariance-gradient step toward
// the other views' scores and re-orthonormalizes the weights with a
// thin QR factorization.
type StochasticPLS struct {
	Base

	// Epochs is the number of passes over the data. Zero means 100.
	Epochs int

	// BatchSize is the minibatch size; zero means full batch.
	BatchSize int

	// LearningRate is the gradient step size. Zero means 0.1.
	LearningRate float64

	// Rand is the source for weight initialization and batch
	// shuffling, the global source if nil.
	Rand randx.Rand
}

// NewStochasticPLS returns a stochastic power-method PLS model with
// the given number of latent dimensions.
func NewStochasticPLS(latentDims int) *StochasticPLS {
	return &StochasticPLS{Base: NewBase(latentDims)}
}

// Fit fits the model to the given views.
func (m *StochasticPLS) Fit(vs ...*mat.Dense) error {
	pvs, err := m.prepare(vs...)
	if err != nil {
		return err
	}
	rnd := m.Rand
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	epochs := m.Epochs
	if epochs == 0 {
		epochs = 100
	}
	lr := m.LearningRate
	if lr == 0 {
		lr = 0.1
	}
	m.Ws = initRandomWeights(pvs, m.LatentDims, rnd)
	n, _ := pvs[0].Dims()
	bs := m.BatchSize
	if bs > n {
		return fmt.Errorf("models: BatchSize %d exceeds %d samples", bs, n)
	}
	if bs <= 0 {
		bs = n
	}
	for epoch := 0; epoch < epochs; epoch++ {
		for _, batch := range minibatches(n, bs, rnd) {
			if err := m.updateBatch(views.Rows(pvs, batch), lr); err != nil {
				return err
			}
		}
		if logx.LevelEnabled(slog.LevelDebug) {
			if obj, err := m.Objective(vs...); err == nil {
				logx.PrintlnDebug("models: StochasticPLS epoch", epoch, "objective", obj)
			}
		}
	}
	return nil
}

// Objective reports the monitored training objective on the given
// views: the total covariance captured by the scores.
func (m *StochasticPLS) Objective(vs ...*mat.Dense) (float64, error) {
	return ScoreCovariance(m, vs...)
}

// updateBatch takes one power step per view and re-orthonormalizes.
func (m *StochasticPLS) updateBatch(bvs []*mat.Dense, lr float64) error {
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
		target := mat.NewDense(nb, k, nil)
		for j, z := range zs {
			if j == i {
				continue
			}
			target.Add(target, z)
		}
		var grad mat.Dense
		grad.Mul(v.T(), target)
		grad.Scale(lr/nf, &grad)
		m.Ws[i].Add(m.Ws[i], &grad)

		var qr mat.QR
		qr.Factorize(m.Ws[i])
		var q mat.Dense
		qr.QTo(&q)
		p, _ := m.Ws[i].Dims()
		if qr_, qc := q.Dims(); qr_ != p || qc < k {
			return fmt.Errorf("models: QR orthonormalization failed for view %d", i)
		}
		m.Ws[i].Copy(q.Slice(0, p, 0, k))
	}
	return nil
}
