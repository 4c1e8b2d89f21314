// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

const tol = 1.0e-8

func TestGramLinear(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 0, 0, 2})
	k, err := Gram(NewOptions(), x, nil)
	assert.NoError(t, err)
	assert.InDelta(t, 1, k.At(0, 0), tol)
	assert.InDelta(t, 0, k.At(0, 1), tol)
	assert.InDelta(t, 4, k.At(1, 1), tol)
}

func TestGramRBF(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	ko := Options{Kind: RBF, Gamma: 0.5}
	k, err := Gram(ko, x, nil)
	assert.NoError(t, err)
	// diagonal is 1, off-diagonal exp(-0.5*2)
	assert.InDelta(t, 1, k.At(0, 0), tol)
	assert.InDelta(t, math.Exp(-1), k.At(0, 1), tol)
	assert.InDelta(t, k.At(1, 0), k.At(0, 1), tol)
}

func TestGramPolynomial(t *testing.T) {
	x := mat.NewDense(1, 2, []float64{1, 2})
	y := mat.NewDense(1, 2, []float64{3, 4})
	ko := Options{Kind: Polynomial, Gamma: 1, Degree: 2, Coef0: 1}
	k, err := Gram(ko, x, y)
	assert.NoError(t, err)
	assert.InDelta(t, 144, k.At(0, 0), tol) // (11+1)^2
}

func TestGramSigmoid(t *testing.T) {
	x := mat.NewDense(1, 1, []float64{2})
	ko := Options{Kind: Sigmoid, Gamma: 1, Coef0: 0}
	k, err := Gram(ko, x, nil)
	assert.NoError(t, err)
	assert.InDelta(t, math.Tanh(4), k.At(0, 0), tol)
}

func TestGramCustomAndCross(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})
	ko := Options{Func: func(a, b []float64) float64 { return a[0] * b[0] * 10 }}
	k, err := Gram(ko, x, y)
	assert.NoError(t, err)
	r, c := k.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.InDelta(t, 60, k.At(1, 2), tol)

	_, err = Gram(NewOptions(), x, mat.NewDense(1, 2, nil))
	assert.Error(t, err)
}

func TestGramOut(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 2})
	out := mat.NewDense(2, 2, nil)
	assert.NoError(t, GramOut(NewOptions(), x, nil, out))
	assert.InDelta(t, 4, out.At(1, 1), tol)

	assert.Error(t, GramOut(NewOptions(), x, nil, mat.NewDense(1, 1, nil)))
}
