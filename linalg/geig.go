// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

func sqrt(v float64) float64 { return math.Sqrt(v) }

// GeneralizedEigSym solves the generalized symmetric-definite
// eigenproblem A v = lambda B v for the k largest eigenvalues,
// returning them in descending order with the matching generalized
// eigenvectors as columns. B must be symmetric positive definite
// (callers floor it with [FloorPD] first); the problem is reduced to
// an ordinary symmetric eigenproblem by whitening with B^{-1/2}.
func GeneralizedEigSym(a, b *mat.SymDense, k int, eps float64) (vals []float64, vecs *mat.Dense, err error) {
	if a.SymmetricDim() != b.SymmetricDim() {
		return nil, nil, mat.ErrShape
	}
	w, err := InvSqrtSym(b, eps)
	if err != nil {
		return nil, nil, err
	}
	var tmp, m mat.Dense
	tmp.Mul(w, a)
	m.Mul(&tmp, w)
	ms, err := Sym(&m)
	if err != nil {
		return nil, nil, err
	}
	vals, u, err := EigSymDesc(ms, k)
	if err != nil {
		return nil, nil, err
	}
	var v mat.Dense
	v.Mul(w, u)
	return vals, &v, nil
}
