// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modelsel implements model selection for the CCA model zoo:
// k-fold cross-validation, grid search over hyperparameters,
// permutation testing, and learning curves. Models are stateful, so
// every routine takes a factory returning a fresh model rather than a
// model instance.
package modelsel

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/models"
	"cogentcore.org/cca/views"
)

// Factory returns a fresh, unfitted model. Cross-validation fits one
// model per fold, so sharing a single instance would leak state
// across folds.
type Factory func() models.Model

// Metric scores a fitted model on held-out views. The default is
// [models.Score], the sum over latent dimensions of the mean pairwise
// score correlation.
type Metric func(m models.Model, vs ...*mat.Dense) (float64, error)

// CVResult holds per-fold scores and their summary statistics.
type CVResult struct {
	// Scores has one entry per fold.
	Scores []float64

	// Mean is the mean of Scores.
	Mean float64

	// Std is the (sample) standard deviation of Scores.
	Std float64
}

func summarize(scores []float64) *CVResult {
	r := &CVResult{Scores: scores}
	r.Mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		r.Std = math.Sqrt(stat.Variance(scores, nil))
	}
	return r
}

// CrossValidate scores the model by k-fold cross-validation: for each
// fold, a fresh model is fit on the remaining rows and scored on the
// fold with the given metric (nil means [models.Score]). folds = 1
// means a single shuffled 80:20 train / validation split. rnd may be
// nil for the global source. The context is checked between folds.
func CrossValidate(ctx context.Context, factory Factory, vs []*mat.Dense, folds int, metric Metric, rnd randx.Rand) (*CVResult, error) {
	if factory == nil {
		return nil, fmt.Errorf("modelsel: nil model factory")
	}
	if metric == nil {
		metric = models.Score
	}
	n, err := views.Check(vs...)
	if err != nil {
		return nil, err
	}
	fs, err := views.Folds(n, folds, rnd)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(fs))
	for i, test := range fs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		train := views.Complement(n, test)
		m := factory()
		if err := m.Fit(views.Rows(vs, train)...); err != nil {
			return nil, fmt.Errorf("modelsel: fold %d: %w", i, err)
		}
		s, err := metric(m, views.Rows(vs, test)...)
		if err != nil {
			return nil, fmt.Errorf("modelsel: fold %d: %w", i, err)
		}
		scores[i] = s
	}
	return summarize(scores), nil
}

// PermResult holds the outcome of a permutation test.
type PermResult struct {
	// Observed is the model score on the unpermuted data.
	Observed float64

	// Permuted has one score per permutation, with the rows of every
	// view but the first shuffled independently.
	Permuted []float64

	// PValue is the fraction of permutations scoring at least as high
	// as the observed score, with the +1 smoothing of Phipson &
	// Smyth so it is never exactly zero.
	PValue float64
}

// PermutationTest compares the model score on the true row pairing
// against nperm scores on data with the cross-view pairing destroyed.
// rnd may be nil for the global source. The context is checked
// between permutations.
func PermutationTest(ctx context.Context, factory Factory, vs []*mat.Dense, nperm int, metric Metric, rnd randx.Rand) (*PermResult, error) {
	if factory == nil {
		return nil, fmt.Errorf("modelsel: nil model factory")
	}
	if nperm < 1 {
		return nil, fmt.Errorf("modelsel: need at least 1 permutation, got %d", nperm)
	}
	if metric == nil {
		metric = models.Score
	}
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	n, err := views.Check(vs...)
	if err != nil {
		return nil, err
	}
	score := func(data []*mat.Dense) (float64, error) {
		m := factory()
		if err := m.Fit(data...); err != nil {
			return 0, err
		}
		return metric(m, data...)
	}
	obs, err := score(vs)
	if err != nil {
		return nil, err
	}
	res := &PermResult{Observed: obs, Permuted: make([]float64, nperm)}
	ge := 0
	for p := 0; p < nperm; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		perm := make([]*mat.Dense, len(vs))
		perm[0] = vs[0]
		for i := 1; i < len(vs); i++ {
			perm[i] = views.Rows(vs[i:i+1], rnd.Perm(n))[0]
		}
		s, err := score(perm)
		if err != nil {
			return nil, fmt.Errorf("modelsel: permutation %d: %w", p, err)
		}
		res.Permuted[p] = s
		if s >= obs {
			ge++
		}
	}
	res.PValue = float64(ge+1) / float64(nperm+1)
	return res, nil
}

// CurvePoint is one training-set size on a learning curve.
type CurvePoint struct {
	// Fraction is the fraction of rows used for training.
	Fraction float64

	// TrainSize is the corresponding number of training rows.
	TrainSize int

	// Result summarizes the held-out scores over repeats.
	Result *CVResult
}

// LearningCurve scores the model at increasing training-set sizes:
// for each fraction, the rows are reshuffled repeats times, a fresh
// model is fit on the leading fraction and scored on the remainder.
// Fractions must lie in (0, 1). rnd may be nil for the global source.
// The context is checked between repeats.
func LearningCurve(ctx context.Context, factory Factory, vs []*mat.Dense, fractions []float64, repeats int, metric Metric, rnd randx.Rand) ([]CurvePoint, error) {
	if factory == nil {
		return nil, fmt.Errorf("modelsel: nil model factory")
	}
	if len(fractions) == 0 {
		return nil, fmt.Errorf("modelsel: no fractions given")
	}
	if repeats < 1 {
		repeats = 1
	}
	if metric == nil {
		metric = models.Score
	}
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	n, err := views.Check(vs...)
	if err != nil {
		return nil, err
	}
	out := make([]CurvePoint, len(fractions))
	for fi, frac := range fractions {
		if frac <= 0 || frac >= 1 {
			return nil, fmt.Errorf("modelsel: fraction %v outside (0,1)", frac)
		}
		ntrain := int(float64(n) * frac)
		if ntrain < 2 || ntrain >= n {
			return nil, fmt.Errorf("modelsel: fraction %v leaves no usable split of %d rows", frac, n)
		}
		scores := make([]float64, repeats)
		for r := 0; r < repeats; r++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			perm := rnd.Perm(n)
			m := factory()
			if err := m.Fit(views.Rows(vs, perm[:ntrain])...); err != nil {
				return nil, fmt.Errorf("modelsel: fraction %v repeat %d: %w", frac, r, err)
			}
			s, err := metric(m, views.Rows(vs, perm[ntrain:])...)
			if err != nil {
				return nil, fmt.Errorf("modelsel: fraction %v repeat %d: %w", frac, r, err)
			}
			scores[r] = s
		}
		out[fi] = CurvePoint{Fraction: frac, TrainSize: ntrain, Result: summarize(scores)}
	}
	return out, nil
}
