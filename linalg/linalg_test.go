// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

const tol = 1.0e-8

func TestSym(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 4, 3})
	s, err := Sym(a)
	assert.NoError(t, err)
	assert.Equal(t, 3.0, s.At(0, 1))
	assert.Equal(t, 3.0, s.At(1, 0))

	_, err = Sym(mat.NewDense(2, 3, nil))
	assert.Error(t, err)
}

func TestBlockDiag(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(1, 1, []float64{5})
	out := BlockDiag(a, b)
	r, c := out.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 4.0, out.At(1, 1))
	assert.Equal(t, 5.0, out.At(2, 2))
	assert.Equal(t, 0.0, out.At(0, 2))
	assert.Equal(t, 0.0, out.At(2, 0))
}

func TestEigSymDesc(t *testing.T) {
	// diag(3, 1, 2) has known spectrum
	s := mat.NewSymDense(3, []float64{3, 0, 0, 0, 1, 0, 0, 0, 2})
	vals, vecs, err := EigSymDesc(s, 2)
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 2}, vals, tol)
	// first eigenvector is +-e0, second +-e2
	assert.InDelta(t, 1, vecs.At(0, 0)*vecs.At(0, 0), tol)
	assert.InDelta(t, 1, vecs.At(2, 1)*vecs.At(2, 1), tol)

	_, _, err = EigSymDesc(s, 4)
	assert.Error(t, err)
}

func TestFloorPD(t *testing.T) {
	s := mat.NewSymDense(2, []float64{1, 2, 2, 1}) // eigenvalues 3, -1
	err := FloorPD(s, 1e-9)
	assert.NoError(t, err)
	vals, _, err := EigSym(s)
	assert.NoError(t, err)
	assert.Greater(t, vals[0], 0.0)
}

func TestInvSqrtSym(t *testing.T) {
	s := mat.NewSymDense(2, []float64{4, 0, 0, 9})
	w, err := InvSqrtSym(s, 1e-12)
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, w.At(0, 0), tol)
	assert.InDelta(t, 1.0/3.0, w.At(1, 1), tol)
	assert.InDelta(t, 0, w.At(0, 1), tol)

	sq, err := SqrtSym(s, 1e-12)
	assert.NoError(t, err)
	assert.InDelta(t, 2, sq.At(0, 0), tol)
	assert.InDelta(t, 3, sq.At(1, 1), tol)
}

func TestGeneralizedEigSym(t *testing.T) {
	// A v = lambda B v with B = 4I has eigenvalues lambda(A)/4.
	a := mat.NewSymDense(2, []float64{2, 0, 0, 8})
	b := mat.NewSymDense(2, []float64{4, 0, 0, 4})
	vals, vecs, err := GeneralizedEigSym(a, b, 2, 1e-12)
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 0.5}, vals, tol)
	r, c := vecs.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
}
