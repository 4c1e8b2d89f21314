// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modelsel

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/logx"
	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/models"
)

// Param is one named hyperparameter axis of a grid search.
type Param struct {
	// Name identifies the parameter for reporting.
	Name string

	// Values are the candidate values.
	Values []float64
}

// Candidate is one parameter combination with its cross-validation
// outcome.
type Candidate struct {
	// Params maps parameter names to this combination's values.
	Params map[string]float64

	// Result summarizes the per-fold scores.
	Result *CVResult
}

// GridSearch cross-validates every combination of the parameter axes
// and refits the best one on the full data. The model factory
// receives the combination being evaluated, so it decides how values
// map onto model fields.
type GridSearch struct {
	// Factory builds a fresh model for the given parameter values.
	Factory func(params map[string]float64) models.Model

	// Params are the grid axes; the grid is their cartesian product.
	Params []Param

	// Folds is the number of cross-validation folds per combination.
	// Zero means 5.
	Folds int

	// Metric scores fitted models; nil means [models.Score].
	Metric Metric

	// Workers bounds the parallel combinations. Zero means GOMAXPROCS.
	Workers int

	// Rand seeds fold assignment. Each combination derives its own
	// source so parallel evaluation stays deterministic.
	Rand randx.Rand

	// Results holds every evaluated combination, sorted by descending
	// mean score after Run.
	Results []Candidate

	// Best is the top entry of Results.
	Best *Candidate

	// BestModel is the best combination refit on all rows.
	BestModel models.Model
}

// Run evaluates the grid on the given views. The context cancels
// outstanding combinations.
func (gs *GridSearch) Run(ctx context.Context, vs ...*mat.Dense) error {
	if gs.Factory == nil {
		return fmt.Errorf("modelsel: nil grid factory")
	}
	if len(gs.Params) == 0 {
		return fmt.Errorf("modelsel: no grid parameters")
	}
	for _, p := range gs.Params {
		if len(p.Values) == 0 {
			return fmt.Errorf("modelsel: parameter %q has no candidate values", p.Name)
		}
	}
	folds := gs.Folds
	if folds == 0 {
		folds = 5
	}
	combos := gs.combinations()
	gs.Results = make([]Candidate, len(combos))
	seed := int64(0)
	if gs.Rand != nil {
		seed = gs.Rand.Int63()
	}

	g, ctx := errgroup.WithContext(ctx)
	workers := gs.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for ci, combo := range combos {
		ci, combo := ci, combo
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rnd := randx.NewSysRand(seed + int64(ci))
			res, err := CrossValidate(ctx, func() models.Model {
				return gs.Factory(combo)
			}, vs, folds, gs.Metric, rnd)
			if err != nil {
				return fmt.Errorf("modelsel: grid point %v: %w", combo, err)
			}
			gs.Results[ci] = Candidate{Params: combo, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.SliceStable(gs.Results, func(i, j int) bool {
		return gs.Results[i].Result.Mean > gs.Results[j].Result.Mean
	})
	gs.Best = &gs.Results[0]
	logx.PrintlnInfo("modelsel: best grid point", gs.Best.Params, "mean score", gs.Best.Result.Mean)

	gs.BestModel = gs.Factory(gs.Best.Params)
	if err := gs.BestModel.Fit(vs...); err != nil {
		return fmt.Errorf("modelsel: refitting best grid point: %w", err)
	}
	return nil
}

// combinations enumerates the cartesian product of the parameter axes.
func (gs *GridSearch) combinations() []map[string]float64 {
	total := 1
	for _, p := range gs.Params {
		total *= len(p.Values)
	}
	out := make([]map[string]float64, 0, total)
	idx := make([]int, len(gs.Params))
	for {
		combo := make(map[string]float64, len(gs.Params))
		for i, p := range gs.Params {
			combo[p.Name] = p.Values[idx[i]]
		}
		out = append(out, combo)
		d := len(idx) - 1
		for d >= 0 {
			idx[d]++
			if idx[d] < len(gs.Params[d].Values) {
				break
			}
			idx[d] = 0
			d--
		}
		if d < 0 {
			return out
		}
	}
}
