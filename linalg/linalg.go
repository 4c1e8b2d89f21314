// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linalg provides the small set of dense linear-algebra
// helpers on top of gonum/mat that the canonical correlation models
// share: symmetrization, block-diagonal assembly, positive-definite
// flooring, symmetric eigendecomposition in descending order, matrix
// square roots and their inverses, and the generalized symmetric
// eigenproblem solved by whitening.
package linalg

import (
	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/errors"
)

// Sym returns the symmetric part (a + a^T)/2 of the given square
// matrix as a SymDense, which is what the eigen solvers require.
// Returns an error if a is not square.
func Sym(a mat.Matrix) (*mat.SymDense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, mat.ErrShape
	}
	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			s.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	return s, nil
}

// BlockDiag assembles the given square blocks into one
// block-diagonal matrix.
func BlockDiag(blocks ...mat.Matrix) *mat.Dense {
	tot := 0
	for _, b := range blocks {
		r, _ := b.Dims()
		tot += r
	}
	out := mat.NewDense(tot, tot, nil)
	off := 0
	for _, b := range blocks {
		r, c := b.Dims()
		out.Slice(off, off+r, off, off+c).(*mat.Dense).Copy(b)
		off += r
	}
	return out
}

// FloorPD shifts the diagonal of the symmetric matrix s in place by
// -(min(0, smallest eigenvalue) - eps), guaranteeing that the result
// is positive definite with smallest eigenvalue at least eps.
func FloorPD(s *mat.SymDense, eps float64) error {
	vals, _, err := EigSym(s)
	if err != nil {
		return err
	}
	small := vals[0] // ascending order
	if small > 0 {
		small = 0
	}
	shift := eps - small
	n := s.SymmetricDim()
	for i := 0; i < n; i++ {
		s.SetSym(i, i, s.At(i, i)+shift)
	}
	return nil
}

// EigSym performs the eigendecomposition of the given symmetric
// matrix, returning eigenvalues in ascending order with the matching
// eigenvectors as columns, following gonum's native ordering.
// See [EigSymDesc] for the top-k descending form the models use.
func EigSym(s *mat.SymDense) (vals []float64, vecs *mat.Dense, err error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(s, true); !ok {
		return nil, nil, errors.New("linalg: mat.EigenSym Factorize failed")
	}
	vals = eig.Values(nil)
	vecs = mat.NewDense(s.SymmetricDim(), s.SymmetricDim(), nil)
	eig.VectorsTo(vecs)
	return vals, vecs, nil
}

// EigSymDesc returns the k largest eigenvalues of the symmetric
// matrix s in descending order, with the matching eigenvectors as
// the columns of the returned matrix.
func EigSymDesc(s *mat.SymDense, k int) (vals []float64, vecs *mat.Dense, err error) {
	n := s.SymmetricDim()
	if k < 1 || k > n {
		return nil, nil, mat.ErrShape
	}
	avals, avecs, err := EigSym(s)
	if err != nil {
		return nil, nil, err
	}
	vals = make([]float64, k)
	vecs = mat.NewDense(n, k, nil)
	for j := 0; j < k; j++ {
		src := n - 1 - j
		vals[j] = avals[src]
		for i := 0; i < n; i++ {
			vecs.Set(i, j, avecs.At(i, src))
		}
	}
	return vals, vecs, nil
}

// powSym returns V diag(f(lambda)) V^T for the given symmetric matrix,
// applying f to each eigenvalue.
func powSym(s *mat.SymDense, f func(v float64) float64) (*mat.Dense, error) {
	vals, vecs, err := EigSym(s)
	if err != nil {
		return nil, err
	}
	n := s.SymmetricDim()
	d := mat.NewDiagDense(n, nil)
	for i, v := range vals {
		d.SetDiag(i, f(v))
	}
	var tmp, out mat.Dense
	tmp.Mul(vecs, d)
	out.Mul(&tmp, vecs.T())
	return &out, nil
}

// SqrtSym returns the principal square root of the given symmetric
// positive semi-definite matrix. Eigenvalues below eps are clamped
// to eps first, for numerical stability.
func SqrtSym(s *mat.SymDense, eps float64) (*mat.Dense, error) {
	return powSym(s, func(v float64) float64 {
		if v < eps {
			v = eps
		}
		return sqrt(v)
	})
}

// InvSqrtSym returns the inverse of the principal square root of the
// given symmetric positive semi-definite matrix. Eigenvalues below
// eps are clamped to eps first, for numerical stability.
func InvSqrtSym(s *mat.SymDense, eps float64) (*mat.Dense, error) {
	return powSym(s, func(v float64) float64 {
		if v < eps {
			v = eps
		}
		return 1 / sqrt(v)
	})
}
