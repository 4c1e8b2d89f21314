// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package views

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Preprocessor centers and scales view columns, recording the training
// means and standard deviations so that held-out data can be pushed
// through the identical transform.
type Preprocessor struct {

	// Center subtracts the per-column training mean.
	Center bool

	// Scale divides by the per-column training standard deviation.
	// Zero-variance columns are left unscaled.
	Scale bool

	// Means has the fitted per-view, per-column means.
	Means [][]float64

	// Stds has the fitted per-view, per-column standard deviations.
	Stds [][]float64
}

// NewPreprocessor returns a Preprocessor with the default
// center-and-scale configuration.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{Center: true, Scale: true}
}

// Fit records the column means and standard deviations of the given
// views and returns the transformed training views.
func (pp *Preprocessor) Fit(vs ...*mat.Dense) ([]*mat.Dense, error) {
	if _, err := Check(vs...); err != nil {
		return nil, err
	}
	pp.Means = make([][]float64, len(vs))
	pp.Stds = make([][]float64, len(vs))
	for i, v := range vs {
		r, c := v.Dims()
		mus := make([]float64, c)
		sds := make([]float64, c)
		col := make([]float64, r)
		for j := 0; j < c; j++ {
			mat.Col(col, j, v)
			mu, sd := stat.MeanStdDev(col, nil)
			mus[j] = mu
			if sd == 0 {
				sd = 1
			}
			sds[j] = sd
		}
		pp.Means[i] = mus
		pp.Stds[i] = sds
	}
	return pp.Transform(vs...)
}

// Transform applies the fitted centering and scaling to the given
// views, which must have the same number of views and columns as the
// training data. The inputs are not modified.
func (pp *Preprocessor) Transform(vs ...*mat.Dense) ([]*mat.Dense, error) {
	if pp.Means == nil {
		return nil, fmt.Errorf("views: Preprocessor has not been fit")
	}
	if len(vs) != len(pp.Means) {
		return nil, fmt.Errorf("views: got %d views, fit with %d", len(vs), len(pp.Means))
	}
	out := make([]*mat.Dense, len(vs))
	for i, v := range vs {
		r, c := v.Dims()
		if c != len(pp.Means[i]) {
			return nil, fmt.Errorf("views: view %d has %d columns, fit with %d", i, c, len(pp.Means[i]))
		}
		t := mat.NewDense(r, c, nil)
		for ri := 0; ri < r; ri++ {
			for j := 0; j < c; j++ {
				val := v.At(ri, j)
				if pp.Center {
					val -= pp.Means[i][j]
				}
				if pp.Scale {
					val /= pp.Stds[i][j]
				}
				t.Set(ri, j, val)
			}
		}
		out[i] = t
	}
	return out, nil
}

// InverseTransform undoes the fitted centering and scaling,
// mapping preprocessed data back to the original units.
func (pp *Preprocessor) InverseTransform(vs ...*mat.Dense) ([]*mat.Dense, error) {
	if pp.Means == nil {
		return nil, fmt.Errorf("views: Preprocessor has not been fit")
	}
	if len(vs) != len(pp.Means) {
		return nil, fmt.Errorf("views: got %d views, fit with %d", len(vs), len(pp.Means))
	}
	out := make([]*mat.Dense, len(vs))
	for i, v := range vs {
		r, c := v.Dims()
		t := mat.NewDense(r, c, nil)
		for ri := 0; ri < r; ri++ {
			for j := 0; j < c; j++ {
				val := v.At(ri, j)
				if pp.Scale {
					val *= pp.Stds[i][j]
				}
				if pp.Center {
					val += pp.Means[i][j]
				}
				t.Set(ri, j, val)
			}
		}
		out[i] = t
	}
	return out, nil
}
