// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package models implements the canonical correlation analysis (CCA)
// model zoo: regularized and multiview CCA and PLS solved as a
// generalized eigenproblem, kernel CCA, higher-order tensor CCA,
// sparse and elastic-net iterative variants, stochastic minibatch
// solvers, and probabilistic CCA by expectation maximization.
// All models present the same fit / transform estimator surface over
// lists of per-view data matrices with a shared number of rows.
package models

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Model is the common estimator interface: Fit learns per-view
// projections from training views, and Transform applies them to
// (possibly held-out) views, returning one score matrix per view
// with LatentDimensions columns.
type Model interface {
	// Fit fits the model to the given views, which must all have the
	// same number of rows (samples).
	Fit(vs ...*mat.Dense) error

	// Transform projects the given views into the learned latent space.
	// The model must have been fit first.
	Transform(vs ...*mat.Dense) ([]*mat.Dense, error)

	// LatentDimensions returns the number of latent dimensions
	// the model projects onto.
	LatentDimensions() int
}

// FitTransform fits the model on the given views and returns their
// transformed scores.
func FitTransform(m Model, vs ...*mat.Dense) ([]*mat.Dense, error) {
	if err := m.Fit(vs...); err != nil {
		return nil, err
	}
	return m.Transform(vs...)
}

// PairwiseCorrelations returns the full nviews x nviews x latentdims
// array of canonical correlations between the transformed views:
// out[i][j][d] is the Pearson correlation between dimension d of
// view i's scores and dimension d of view j's scores.
func PairwiseCorrelations(m Model, vs ...*mat.Dense) ([][][]float64, error) {
	zs, err := m.Transform(vs...)
	if err != nil {
		return nil, err
	}
	nv := len(zs)
	k := m.LatentDimensions()
	out := make([][][]float64, nv)
	for i := range out {
		out[i] = make([][]float64, nv)
		for j := range out[i] {
			out[i][j] = make([]float64, k)
		}
	}
	n, _ := zs[0].Dims()
	ci := make([]float64, n)
	cj := make([]float64, n)
	for i := 0; i < nv; i++ {
		for j := i; j < nv; j++ {
			for d := 0; d < k; d++ {
				mat.Col(ci, d, zs[i])
				mat.Col(cj, d, zs[j])
				r := stat.Correlation(ci, cj, nil)
				out[i][j][d] = r
				out[j][i][d] = r
			}
		}
	}
	return out, nil
}

// ScoreDims returns, for each latent dimension, the average canonical
// correlation over all distinct view pairs.
func ScoreDims(m Model, vs ...*mat.Dense) ([]float64, error) {
	corrs, err := PairwiseCorrelations(m, vs...)
	if err != nil {
		return nil, err
	}
	nv := len(corrs)
	k := m.LatentDimensions()
	out := make([]float64, k)
	npairs := nv * (nv - 1) / 2
	if npairs == 0 {
		npairs = 1 // single view: self correlation is 1 by definition
	}
	for d := 0; d < k; d++ {
		sum := 0.0
		for i := 0; i < nv; i++ {
			for j := i + 1; j < nv; j++ {
				sum += corrs[i][j][d]
			}
		}
		out[d] = sum / float64(npairs)
	}
	return out, nil
}

// ScoreCovariance returns the sum over latent dimensions of the
// average pairwise score covariance across views. This is the
// monitored objective of the PLS-flavored stochastic solvers, where
// the score scale is meaningful.
func ScoreCovariance(m Model, vs ...*mat.Dense) (float64, error) {
	zs, err := m.Transform(vs...)
	if err != nil {
		return 0, err
	}
	nv := len(zs)
	k := m.LatentDimensions()
	npairs := nv * (nv - 1) / 2
	if npairs == 0 {
		npairs = 1
	}
	n, _ := zs[0].Dims()
	ci := make([]float64, n)
	cj := make([]float64, n)
	sum := 0.0
	for d := 0; d < k; d++ {
		for i := 0; i < nv; i++ {
			for j := i + 1; j < nv; j++ {
				mat.Col(ci, d, zs[i])
				mat.Col(cj, d, zs[j])
				sum += stat.Covariance(ci, cj, nil)
			}
		}
	}
	return sum / float64(npairs), nil
}

// Score returns the sum over latent dimensions of the average
// pairwise canonical correlation, the scalar used for model
// selection and cross-validation.
func Score(m Model, vs ...*mat.Dense) (float64, error) {
	dims, err := ScoreDims(m, vs...)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, d := range dims {
		sum += d
	}
	return sum, nil
}
