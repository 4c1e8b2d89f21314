// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/errors"
	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/datasets"
	"cogentcore.org/cca/models"
	"cogentcore.org/cca/modelsel"
)

func fittedModel(t *testing.T) (models.Model, []*mat.Dense, []*mat.Dense) {
	t.Helper()
	sim := datasets.Simulated{
		Samples:    150,
		Features:   []int{5, 4},
		LatentDims: 2,
		Rand:       randx.NewSysRand(1),
	}
	vs := errors.Must1(sim.Generate())
	train := make([]*mat.Dense, 2)
	test := make([]*mat.Dense, 2)
	for i, v := range vs {
		_, p := v.Dims()
		train[i] = mat.DenseCopyOf(v.Slice(0, 100, 0, p))
		test[i] = mat.DenseCopyOf(v.Slice(100, 150, 0, p))
	}
	m := models.NewCCA(2)
	assert.NoError(t, m.Fit(train...))
	return m, train, test
}

func assertImage(t *testing.T, path string) {
	t.Helper()
	st, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}

func TestCovarianceHeatmap(t *testing.T) {
	m, train, test := fittedModel(t)
	path := filepath.Join(t.TempDir(), "cov.png")
	assert.NoError(t, CovarianceHeatmap(m, train, test, path))
	assertImage(t, path)
}

func TestPairPlot(t *testing.T) {
	m, train, test := fittedModel(t)
	path := filepath.Join(t.TempDir(), "pairs.png")
	assert.NoError(t, PairPlot(m, train, test, path))
	assertImage(t, path)
}

func TestCVSurfaceLine(t *testing.T) {
	res := []modelsel.Candidate{
		{Params: map[string]float64{"c": 0.5}, Result: &modelsel.CVResult{Mean: 0.8, Std: 0.1}},
		{Params: map[string]float64{"c": 0}, Result: &modelsel.CVResult{Mean: 0.9, Std: 0.05}},
		{Params: map[string]float64{"c": 1}, Result: &modelsel.CVResult{Mean: 0.7, Std: 0.2}},
	}
	path := filepath.Join(t.TempDir(), "line.png")
	assert.NoError(t, CVSurface(res, []string{"c"}, path))
	assertImage(t, path)
}

func TestCVSurfaceHeatmap(t *testing.T) {
	res := []modelsel.Candidate{}
	for _, c1 := range []float64{0, 0.5} {
		for _, c2 := range []float64{0.1, 0.9} {
			res = append(res, modelsel.Candidate{
				Params: map[string]float64{"c1": c1, "c2": c2},
				Result: &modelsel.CVResult{Mean: c1 + c2},
			})
		}
	}
	path := filepath.Join(t.TempDir(), "surface.png")
	assert.NoError(t, CVSurface(res, []string{"c1", "c2"}, path))
	assertImage(t, path)
}

func TestCVSurfaceErrors(t *testing.T) {
	assert.Error(t, CVSurface(nil, []string{"c"}, "x.png"))
	res := []modelsel.Candidate{{Params: map[string]float64{"c": 0}, Result: &modelsel.CVResult{}}}
	assert.Error(t, CVSurface(res, nil, "x.png"))
	assert.Error(t, CVSurface(res, []string{"missing"}, filepath.Join(t.TempDir(), "x.png")))
}
