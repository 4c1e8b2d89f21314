// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernels computes Gram matrices for the kernelized
// canonical correlation models. The standard kernels are enumerated
// as [Kinds]; a user-supplied function can be used instead via
// [Options.Func].
package kernels

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kinds are the standard kernel functions.
type Kinds int32

const (
	// Linear is the plain dot-product kernel.
	Linear Kinds = iota

	// RBF is the Gaussian radial basis function kernel
	// exp(-gamma * ||x - y||^2).
	RBF

	// Polynomial is the polynomial kernel (gamma * x.y + coef0)^degree.
	Polynomial

	// Sigmoid is the hyperbolic tangent kernel tanh(gamma * x.y + coef0).
	Sigmoid
)

var kindNames = []string{"Linear", "RBF", "Polynomial", "Sigmoid"}

func (k Kinds) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kinds(%d)", int(k))
	}
	return kindNames[k]
}

// Options configures the kernel for one view.
type Options struct {

	// Kind selects the kernel function, defaulting to [Linear].
	Kind Kinds

	// Gamma is the scale parameter for the RBF, Polynomial and
	// Sigmoid kernels. Zero means 1 / ncols.
	Gamma float64

	// Degree is the Polynomial kernel degree. Zero means 1.
	Degree int

	// Coef0 is the constant term for the Polynomial and Sigmoid
	// kernels. The conventional default is 1.
	Coef0 float64

	// Func, if non-nil, overrides Kind with a custom kernel
	// evaluated on pairs of rows.
	Func func(x, y []float64) float64
}

// NewOptions returns Options with the conventional defaults:
// a linear kernel with coef0 = 1.
func NewOptions() Options {
	return Options{Kind: Linear, Coef0: 1}
}

// value evaluates the configured kernel on two rows.
func (ko Options) value(x, y []float64, gamma float64) float64 {
	if ko.Func != nil {
		return ko.Func(x, y)
	}
	switch ko.Kind {
	case RBF:
		d := floats.Distance(x, y, 2)
		return math.Exp(-gamma * d * d)
	case Polynomial:
		deg := ko.Degree
		if deg == 0 {
			deg = 1
		}
		return math.Pow(gamma*floats.Dot(x, y)+ko.Coef0, float64(deg))
	case Sigmoid:
		return math.Tanh(gamma*floats.Dot(x, y) + ko.Coef0)
	default:
		return floats.Dot(x, y)
	}
}

// Gram computes the Gram matrix K with K[i,j] = k(x_i, y_j) over the
// rows of x and y. A nil y means y = x, producing the square training
// Gram matrix. x and y must have the same number of columns.
func Gram(ko Options, x, y *mat.Dense) (*mat.Dense, error) {
	if y == nil {
		y = x
	}
	xr, yr := rows(x), rows(y)
	k := mat.NewDense(xr, yr, nil)
	if err := GramOut(ko, x, y, k); err != nil {
		return nil, err
	}
	return k, nil
}

// GramOut computes the Gram matrix as in [Gram], into the given
// output matrix, which must have rows(x) x rows(y) shape.
func GramOut(ko Options, x, y, out *mat.Dense) error {
	if y == nil {
		y = x
	}
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xc != yc {
		return fmt.Errorf("kernels: x has %d columns, y has %d", xc, yc)
	}
	if or, oc := out.Dims(); or != xr || oc != yr {
		return fmt.Errorf("kernels: out is %d x %d, need %d x %d", or, oc, xr, yr)
	}
	gamma := ko.Gamma
	if gamma == 0 {
		gamma = 1 / float64(xc)
	}
	for i := 0; i < xr; i++ {
		xi := x.RawRowView(i)
		for j := 0; j < yr; j++ {
			out.Set(i, j, ko.value(xi, y.RawRowView(j), gamma))
		}
	}
	return nil
}

func rows(a *mat.Dense) int {
	r, _ := a.Dims()
	return r
}
