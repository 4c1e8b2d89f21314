// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/views"
)

// Base has the configuration and fitted state shared by all models:
// the number of latent dimensions, preprocessing flags, and the
// fitted per-view weight matrices. Models embed Base and implement
// Fit; the default Transform projects preprocessed views through
// the fitted weights.
type Base struct {

	// LatentDims is the number of latent dimensions to learn.
	LatentDims int

	// Center subtracts per-column training means before fitting
	// and before transforming out-of-sample data.
	Center bool

	// Scale divides by per-column training standard deviations.
	Scale bool

	// NViews is the number of views the model was fit with.
	NViews int

	// Ws are the fitted per-view weight matrices, each ncols x LatentDims.
	Ws []*mat.Dense

	// Prep is the fitted preprocessor, recording training column statistics.
	Prep *views.Preprocessor
}

// NewBase returns a Base with the given number of latent dimensions
// and the default center-and-scale preprocessing.
func NewBase(latentDims int) Base {
	return Base{LatentDims: latentDims, Center: true, Scale: true}
}

// LatentDimensions returns the number of latent dimensions.
func (b *Base) LatentDimensions() int { return b.LatentDims }

// Weights returns the fitted weight matrix for the given view,
// or nil if the model has not been fit.
func (b *Base) Weights(view int) *mat.Dense {
	if b.Ws == nil || view < 0 || view >= len(b.Ws) {
		return nil
	}
	return b.Ws[view]
}

// prepare validates the views, records NViews, fits the preprocessor
// and returns the preprocessed training views. All Fit methods start here.
func (b *Base) prepare(vs ...*mat.Dense) ([]*mat.Dense, error) {
	if _, err := views.Check(vs...); err != nil {
		return nil, err
	}
	if len(vs) < 2 {
		return nil, fmt.Errorf("models: at least two views are required, got %d", len(vs))
	}
	if b.LatentDims < 1 {
		return nil, fmt.Errorf("models: LatentDims must be at least 1, got %d", b.LatentDims)
	}
	for i, v := range vs {
		_, c := v.Dims()
		if b.LatentDims > c {
			return nil, fmt.Errorf("models: LatentDims %d exceeds view %d width %d", b.LatentDims, i, c)
		}
	}
	b.NViews = len(vs)
	b.Prep = &views.Preprocessor{Center: b.Center, Scale: b.Scale}
	return b.Prep.Fit(vs...)
}

// checkFitted returns an error if Fit has not completed successfully.
func (b *Base) checkFitted() error {
	if b.Ws == nil || b.Prep == nil {
		return fmt.Errorf("models: model has not been fit")
	}
	return nil
}

// Transform projects the given views through the fitted weights,
// applying the training preprocessing first.
func (b *Base) Transform(vs ...*mat.Dense) ([]*mat.Dense, error) {
	if err := b.checkFitted(); err != nil {
		return nil, err
	}
	if len(vs) != b.NViews {
		return nil, fmt.Errorf("models: got %d views, fit with %d", len(vs), b.NViews)
	}
	pvs, err := b.Prep.Transform(vs...)
	if err != nil {
		return nil, err
	}
	out := make([]*mat.Dense, len(pvs))
	for i, v := range pvs {
		var z mat.Dense
		z.Mul(v, b.Ws[i])
		out[i] = &z
	}
	return out, nil
}
