// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/models"
	"cogentcore.org/cca/modelsel"
)

func TestMatrixCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.csv")
	m := mat.NewDense(2, 3, []float64{1, 2.5, -3, 0, 1e-9, 42})
	assert.NoError(t, writeMatrixCSV(path, m, []string{"a", "b", "c"}))

	got, err := readMatrixCSV(path)
	assert.NoError(t, err)
	r, c := got.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.InDelta(t, 2.5, got.At(0, 1), 1e-12)
	assert.InDelta(t, 42, got.At(1, 2), 1e-12)
}

func TestReadMatrixCSVNoHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.csv")
	assert.NoError(t, os.WriteFile(path, []byte("1,2\n3,4\n"), 0o644))
	got, err := readMatrixCSV(path)
	assert.NoError(t, err)
	assert.InDelta(t, 4, got.At(1, 1), 1e-12)
}

func TestReadMatrixCSVErrors(t *testing.T) {
	_, err := readMatrixCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	assert.NoError(t, os.WriteFile(bad, []byte("a,b\n1,x\n"), 0o644))
	_, err = readMatrixCSV(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.csv")
	assert.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	_, err = readMatrixCSV(empty)
	assert.Error(t, err)
}

func TestParseParams(t *testing.T) {
	pm, err := parseParams([]string{"c=0.5", "alpha=1e-3"})
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, pm["c"], 1e-12)
	assert.InDelta(t, 1e-3, pm["alpha"], 1e-12)

	_, err = parseParams([]string{"nonsense"})
	assert.Error(t, err)
	_, err = parseParams([]string{"c=zebra"})
	assert.Error(t, err)
}

func TestNewModel(t *testing.T) {
	for _, name := range modelNames {
		m, err := newModel(name, 2, map[string]float64{"c": 0.5, "tau": 0.8}, "linear")
		assert.NoError(t, err, name)
		assert.Equal(t, 2, m.LatentDimensions(), name)
	}
	_, err := newModel("nope", 1, nil, "linear")
	assert.Error(t, err)
	_, err = newModel("kcca", 1, nil, "banana")
	assert.Error(t, err)

	m, err := newModel("rcca", 1, map[string]float64{"c": 0.3}, "")
	assert.NoError(t, err)
	rcca, ok := m.(*models.MCCA)
	assert.True(t, ok)
	assert.Equal(t, []float64{0.3}, rcca.C)
}

func TestParamString(t *testing.T) {
	s := paramString(map[string]float64{"b": 2, "a": 1})
	assert.Equal(t, "a=1 b=2", s)
}

func TestLoadGridConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.toml")
	cfg := `
model = "rcca"
dims = 2
folds = 3
seed = 7

[fixed]
alpha = 0.001

[[param]]
name = "c"
values = [0.0, 0.5, 1.0]
`
	assert.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	got, err := loadGridConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "rcca", got.Model)
	assert.Equal(t, 2, got.Dims)
	assert.Equal(t, 3, got.Folds)
	assert.Equal(t, int64(7), got.Seed)
	assert.InDelta(t, 0.001, got.Fixed["alpha"], 1e-12)
	assert.Len(t, got.Params, 1)
	assert.Equal(t, "c", got.Params[0].Name)
	assert.Len(t, got.Params[0].Values, 3)

	noAxes := filepath.Join(dir, "empty.toml")
	assert.NoError(t, os.WriteFile(noAxes, []byte(`model = "cca"`), 0o644))
	_, err = loadGridConfig(noAxes)
	assert.Error(t, err)
}

func TestWriteGridResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "res.csv")
	res := []modelsel.Candidate{
		{Params: map[string]float64{"c": 0.5}, Result: &modelsel.CVResult{Mean: 0.9, Std: 0.1}},
		{Params: map[string]float64{"c": 0}, Result: &modelsel.CVResult{Mean: 0.8, Std: 0.2}},
	}
	assert.NoError(t, writeGridResults(path, res))
	got, err := readMatrixCSV(path)
	assert.NoError(t, err)
	r, c := got.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.InDelta(t, 0.9, got.At(0, 1), 1e-12)

	assert.Error(t, writeGridResults(path, nil))
}

func TestFitCommand(t *testing.T) {
	dir := t.TempDir()
	// simulate then fit through the CLI surface
	root := newRootCmd()
	root.SetArgs([]string{"simulate", "-n", "80", "-f", "4,4", "-d", "1", "-o", dir})
	assert.NoError(t, root.Execute())

	out := filepath.Join(dir, "fitout")
	root = newRootCmd()
	root.SetArgs([]string{"fit", "-m", "cca", "-d", "1", "-o", out,
		filepath.Join(dir, "view_0.csv"), filepath.Join(dir, "view_1.csv")})
	assert.NoError(t, root.Execute())

	for _, name := range []string{"scores_0.csv", "scores_1.csv", "weights_0.csv", "correlations.csv"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestGridSearchCommand(t *testing.T) {
	dir := t.TempDir()
	root := newRootCmd()
	root.SetArgs([]string{"simulate", "-n", "60", "-f", "4,4", "-d", "1", "-o", dir})
	assert.NoError(t, root.Execute())

	cfgPath := filepath.Join(dir, "grid.toml")
	cfg := `
model = "rcca"
dims = 1
folds = 2

[[param]]
name = "c"
values = [0.0, 0.5]
`
	assert.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	resPath := filepath.Join(dir, "results.csv")
	root = newRootCmd()
	root.SetArgs([]string{"gridsearch", "-c", cfgPath, "-o", resPath,
		filepath.Join(dir, "view_0.csv"), filepath.Join(dir, "view_1.csv")})
	assert.NoError(t, root.Execute())

	got, err := readMatrixCSV(resPath)
	assert.NoError(t, err)
	r, _ := got.Dims()
	assert.Equal(t, 2, r)
}

func TestPlotCommand(t *testing.T) {
	dir := t.TempDir()
	root := newRootCmd()
	root.SetArgs([]string{"simulate", "-n", "60", "-f", "4,4", "-d", "1", "-o", dir})
	assert.NoError(t, root.Execute())

	out := filepath.Join(dir, "fitout")
	root = newRootCmd()
	root.SetArgs([]string{"fit", "-d", "1", "-o", out,
		filepath.Join(dir, "view_0.csv"), filepath.Join(dir, "view_1.csv")})
	assert.NoError(t, root.Execute())

	img := filepath.Join(dir, "heat.png")
	root = newRootCmd()
	root.SetArgs([]string{"plot", "-k", "heatmap", "-o", img,
		filepath.Join(out, "scores_0.csv"), filepath.Join(out, "scores_1.csv")})
	assert.NoError(t, root.Execute())
	st, err := os.Stat(img)
	assert.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}
