// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ExplainedVariance returns, per view and per latent dimension, the
// variance of the projection of the (preprocessed) view onto that
// dimension's weights.
func (b *Base) ExplainedVariance(vs ...*mat.Dense) ([][]float64, error) {
	zs, err := b.Transform(vs...)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(zs))
	for i, z := range zs {
		n, k := z.Dims()
		ev := make([]float64, k)
		col := make([]float64, n)
		for d := 0; d < k; d++ {
			mat.Col(col, d, z)
			ev[d] = stat.Variance(col, nil)
		}
		out[i] = ev
	}
	return out, nil
}

// ExplainedVarianceRatio returns [ExplainedVariance] divided by the
// total column variance of each preprocessed view, so each entry is
// the fraction of that view's variance captured by one dimension.
func (b *Base) ExplainedVarianceRatio(vs ...*mat.Dense) ([][]float64, error) {
	ev, err := b.ExplainedVariance(vs...)
	if err != nil {
		return nil, err
	}
	pvs, err := b.Prep.Transform(vs...)
	if err != nil {
		return nil, err
	}
	for i, v := range pvs {
		n, c := v.Dims()
		total := 0.0
		col := make([]float64, n)
		for j := 0; j < c; j++ {
			mat.Col(col, j, v)
			total += stat.Variance(col, nil)
		}
		if total == 0 {
			total = 1
		}
		for d := range ev[i] {
			ev[i][d] /= total
		}
	}
	return ev, nil
}

// ExplainedVarianceCumulative returns the cumulative sum over latent
// dimensions of [ExplainedVarianceRatio], which is monotonically
// non-decreasing per view.
func (b *Base) ExplainedVarianceCumulative(vs ...*mat.Dense) ([][]float64, error) {
	ev, err := b.ExplainedVarianceRatio(vs...)
	if err != nil {
		return nil, err
	}
	for i := range ev {
		for d := 1; d < len(ev[i]); d++ {
			ev[i][d] += ev[i][d-1]
		}
	}
	return ev, nil
}

// ExplainedCovariance returns, per latent dimension, the average over
// distinct view pairs of the absolute covariance between the paired
// scores of the transformed views.
func (b *Base) ExplainedCovariance(vs ...*mat.Dense) ([]float64, error) {
	zs, err := b.Transform(vs...)
	if err != nil {
		return nil, err
	}
	nv := len(zs)
	k := b.LatentDims
	out := make([]float64, k)
	npairs := nv * (nv - 1) / 2
	if npairs == 0 {
		npairs = 1
	}
	n, _ := zs[0].Dims()
	ci := make([]float64, n)
	cj := make([]float64, n)
	for d := 0; d < k; d++ {
		sum := 0.0
		for i := 0; i < nv; i++ {
			for j := i + 1; j < nv; j++ {
				mat.Col(ci, d, zs[i])
				mat.Col(cj, d, zs[j])
				cov := stat.Covariance(ci, cj, nil)
				if cov < 0 {
					cov = -cov
				}
				sum += cov
			}
		}
		out[d] = sum / float64(npairs)
	}
	return out, nil
}

// ExplainedCovarianceRatio normalizes [ExplainedCovariance] to sum
// to 1 across the fitted latent dimensions.
func (b *Base) ExplainedCovarianceRatio(vs ...*mat.Dense) ([]float64, error) {
	ec, err := b.ExplainedCovariance(vs...)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, v := range ec {
		total += v
	}
	if total == 0 {
		return ec, nil
	}
	for d := range ec {
		ec[d] /= total
	}
	return ec, nil
}
