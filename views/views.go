// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package views provides the multi-view data plumbing shared by all
// canonical correlation models: validation of view lists, per-view
// parameter broadcasting, row subsetting, fold assignment for
// cross-validation, and column centering / scaling with out-of-sample
// transform support.
package views

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/randx"
)

// Check validates a list of views: there must be at least one view,
// every view must have the same number of rows (samples), and no view
// may be empty. It returns the common number of rows.
func Check(views ...*mat.Dense) (n int, err error) {
	if len(views) == 0 {
		return 0, fmt.Errorf("views: at least one view is required")
	}
	for i, v := range views {
		if v == nil {
			return 0, fmt.Errorf("views: view %d is nil", i)
		}
		r, c := v.Dims()
		if r == 0 || c == 0 {
			return 0, fmt.Errorf("views: view %d is empty (%d x %d)", i, r, c)
		}
		if i == 0 {
			n = r
		} else if r != n {
			return 0, fmt.Errorf("views: view %d has %d rows, want %d", i, r, n)
		}
	}
	return n, nil
}

// Copy returns a deep copy of the given views, so that fitting
// cannot mutate caller data.
func Copy(views ...*mat.Dense) []*mat.Dense {
	out := make([]*mat.Dense, len(views))
	for i, v := range views {
		out[i] = mat.DenseCopyOf(v)
	}
	return out
}

// Rows returns new views containing only the given rows of each view,
// in the given order.
func Rows(vs []*mat.Dense, idx []int) []*mat.Dense {
	out := make([]*mat.Dense, len(vs))
	for i, v := range vs {
		_, c := v.Dims()
		sub := mat.NewDense(len(idx), c, nil)
		for ri, r := range idx {
			sub.SetRow(ri, v.RawRowView(r))
		}
		out[i] = sub
	}
	return out
}

// Folds assigns the integers [0,n) to the given number of
// cross-validation folds after shuffling with the given source
// (the global source if nil). As a special case, folds = 1 produces
// a single held-out fold of a fifth of the data, i.e. an 80:20
// train / validation split, always holding out at least one row.
func Folds(n, folds int, rnd randx.Rand) ([][]int, error) {
	if folds < 1 {
		return nil, fmt.Errorf("views: folds must be at least 1, got %d", folds)
	}
	if folds > n {
		return nil, fmt.Errorf("views: more folds (%d) than samples (%d)", folds, n)
	}
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	perm := rnd.Perm(n)
	if folds == 1 {
		size := n / 5
		if size == 0 {
			size = 1
		}
		return [][]int{perm[:size]}, nil
	}
	out := make([][]int, 0, folds)
	for f := 0; f < folds; f++ {
		lo := f * n / folds
		hi := (f + 1) * n / folds
		out = append(out, perm[lo:hi])
	}
	return out, nil
}

// Complement returns the integers [0,n) that are not in idx,
// preserving ascending order. Used to build the training rows
// for a held-out fold.
func Complement(n int, idx []int) []int {
	in := make([]bool, n)
	for _, i := range idx {
		in[i] = true
	}
	out := make([]int, 0, n-len(idx))
	for i := 0; i < n; i++ {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}

// Param broadcasts a per-view parameter: a nil slice becomes the
// default replicated per view, a single value is replicated per view,
// and a full-length slice is returned as is. Any other length is an
// error naming the parameter.
func Param[T any](name string, vals []T, def T, nviews int) ([]T, error) {
	switch len(vals) {
	case 0:
		out := make([]T, nviews)
		for i := range out {
			out[i] = def
		}
		return out, nil
	case 1:
		out := make([]T, nviews)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	case nviews:
		return vals, nil
	}
	return nil, fmt.Errorf("views: parameter %q has %d values, want 1 or %d", name, len(vals), nviews)
}
