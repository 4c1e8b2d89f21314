// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"sort"
	"strings"

	"cogentcore.org/cca/kernels"
	"cogentcore.org/cca/models"
)

// modelNames lists the models the CLI can build, for usage messages.
var modelNames = []string{
	"altmaxvar", "cca", "eigengame", "elastic", "kcca", "ktcca",
	"mcca", "pcca", "pls", "pmd", "rcca", "scca", "spls", "tcca",
}

// newModel builds a named model with the given latent dimensions and
// hyperparameters. Recognized parameter keys depend on the model:
// c (regularization), alpha, l1ratio, tau, gamma, lr, epochs, batch,
// and the kernel parameters kgamma, degree and coef0.
func newModel(name string, dims int, params map[string]float64, kernel string) (models.Model, error) {
	p := func(key string, def float64) float64 {
		if v, ok := params[key]; ok {
			return v
		}
		return def
	}
	ko, err := kernelOptions(kernel, params)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(name) {
	case "cca":
		return models.NewCCA(dims), nil
	case "pls":
		return models.NewPLS(dims), nil
	case "rcca":
		return models.NewRCCA(dims, p("c", 0)), nil
	case "mcca":
		return models.NewMCCA(dims, p("c", 0)), nil
	case "kcca":
		return models.NewKCCA(dims, ko), nil
	case "tcca":
		return models.NewTCCA(dims, p("c", 0.1)), nil
	case "ktcca":
		m := models.NewKTCCA(dims, ko)
		m.C = []float64{p("c", 0.1)}
		return m, nil
	case "elastic":
		m := models.NewElasticCCA(dims)
		m.Alpha = []float64{p("alpha", 0)}
		m.L1Ratio = []float64{p("l1ratio", 0.5)}
		return m, nil
	case "scca":
		return models.NewSCCA(dims, p("alpha", 1e-3)), nil
	case "pmd":
		return models.NewSCCAPMD(dims, p("tau", 1)), nil
	case "altmaxvar":
		return models.NewAltMaxVar(dims, p("gamma", 0)), nil
	case "eigengame":
		m := models.NewEigenGame(dims, p("c", 0))
		m.Epochs = int(p("epochs", 0))
		m.BatchSize = int(p("batch", 0))
		m.LearningRate = p("lr", 0)
		return m, nil
	case "spls":
		m := models.NewStochasticPLS(dims)
		m.Epochs = int(p("epochs", 0))
		m.BatchSize = int(p("batch", 0))
		m.LearningRate = p("lr", 0)
		return m, nil
	case "pcca":
		return models.NewPCCA(dims), nil
	default:
		return nil, fmt.Errorf("unknown model %q, have %s", name, strings.Join(modelNames, ", "))
	}
}

func kernelOptions(kernel string, params map[string]float64) (kernels.Options, error) {
	ko := kernels.NewOptions()
	switch strings.ToLower(kernel) {
	case "", "linear":
		ko.Kind = kernels.Linear
	case "rbf":
		ko.Kind = kernels.RBF
	case "poly", "polynomial":
		ko.Kind = kernels.Polynomial
	case "sigmoid":
		ko.Kind = kernels.Sigmoid
	default:
		return ko, fmt.Errorf("unknown kernel %q, have linear, rbf, poly, sigmoid", kernel)
	}
	if v, ok := params["kgamma"]; ok {
		ko.Gamma = v
	}
	if v, ok := params["degree"]; ok {
		ko.Degree = int(v)
	}
	if v, ok := params["coef0"]; ok {
		ko.Coef0 = v
	}
	return ko, nil
}

// parseParams parses repeated key=value flags into a parameter map.
func parseParams(kvs []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, kv := range kvs {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q is not key=value", kv)
		}
		var f float64
		if _, err := fmt.Sscanf(val, "%g", &f); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", kv, err)
		}
		out[strings.TrimSpace(name)] = f
	}
	return out, nil
}

// paramString renders a parameter map deterministically for logging
// and result tables.
func paramString(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, params[k])
	}
	return strings.Join(parts, " ")
}
