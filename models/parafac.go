// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/randx"
)

// denseTensor is a dense higher-order array in row-major layout
// (last dimension fastest), used for the interaction tensor in [TCCA].
type denseTensor struct {
	dims []int
	data []float64
}

func newDenseTensor(dims ...int) *denseTensor {
	tot := 1
	for _, d := range dims {
		tot *= d
	}
	return &denseTensor{dims: dims, data: make([]float64, tot)}
}

// strides returns the row-major stride per dimension.
func (t *denseTensor) strides() []int {
	s := make([]int, len(t.dims))
	acc := 1
	for i := len(t.dims) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= t.dims[i]
	}
	return s
}

// unfold returns the mode-n unfolding of the tensor: rows are indexed
// by dimension n, and columns enumerate the remaining dimensions with
// the lowest-numbered dimension varying fastest (the standard Kolda
// convention, matching [krProduct] with factors in descending order).
func (t *denseTensor) unfold(n int) *mat.Dense {
	rows := t.dims[n]
	cols := len(t.data) / rows
	out := mat.NewDense(rows, cols, nil)
	st := t.strides()
	nd := len(t.dims)
	idx := make([]int, nd)
	for flat := range t.data {
		// decode row-major flat index
		rem := flat
		for d := 0; d < nd; d++ {
			idx[d] = rem / st[d]
			rem = rem % st[d]
		}
		// column index: lowest mode fastest
		j := 0
		mult := 1
		for d := 0; d < nd; d++ {
			if d == n {
				continue
			}
			j += idx[d] * mult
			mult *= t.dims[d]
		}
		out.Set(idx[n], j, t.data[flat])
	}
	return out
}

// krProduct computes the Khatri-Rao (column-wise Kronecker) product
// of the given factor matrices, which must be listed in descending
// mode order so that the lowest mode varies fastest across rows.
func krProduct(factors []*mat.Dense) *mat.Dense {
	_, k := factors[0].Dims()
	rows := 1
	for _, f := range factors {
		r, _ := f.Dims()
		rows *= r
	}
	out := mat.NewDense(rows, k, nil)
	idx := make([]int, len(factors))
	for r := 0; r < rows; r++ {
		// mixed-radix decode with the last listed factor fastest
		rem := r
		for d := len(factors) - 1; d >= 0; d-- {
			rd, _ := factors[d].Dims()
			idx[d] = rem % rd
			rem /= rd
		}
		for c := 0; c < k; c++ {
			v := 1.0
			for d, f := range factors {
				v *= f.At(idx[d], c)
			}
			out.Set(r, c, v)
		}
	}
	return out
}

// cpDecompose computes a rank-k CP (PARAFAC) decomposition of the
// tensor by alternating least squares, returning one factor matrix
// per dimension. Factors are initialized from the given random
// source (global if nil).
func cpDecompose(t *denseTensor, rank, maxIter int, tol float64, rnd randx.Rand) ([]*mat.Dense, error) {
	if rank < 1 {
		return nil, fmt.Errorf("models: CP rank must be at least 1, got %d", rank)
	}
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	nd := len(t.dims)
	factors := make([]*mat.Dense, nd)
	for d, sz := range t.dims {
		f := mat.NewDense(sz, rank, nil)
		for i := 0; i < sz; i++ {
			for c := 0; c < rank; c++ {
				f.Set(i, c, rnd.NormFloat64())
			}
		}
		factors[d] = f
	}
	unfolds := make([]*mat.Dense, nd)
	for d := range unfolds {
		unfolds[d] = t.unfold(d)
	}
	grams := make([]*mat.SymDense, nd)
	updateGram := func(d int) {
		var g mat.Dense
		g.Mul(factors[d].T(), factors[d])
		s := mat.NewSymDense(rank, nil)
		for i := 0; i < rank; i++ {
			for j := i; j < rank; j++ {
				s.SetSym(i, j, 0.5*(g.At(i, j)+g.At(j, i)))
			}
		}
		grams[d] = s
	}
	for d := range factors {
		updateGram(d)
	}
	prev := math.Inf(1)
	for iter := 0; iter < maxIter; iter++ {
		change := 0.0
		for d := 0; d < nd; d++ {
			// V = hadamard of all other factor grams, ridged for stability
			v := mat.NewSymDense(rank, nil)
			for i := 0; i < rank; i++ {
				for j := i; j < rank; j++ {
					p := 1.0
					for m := 0; m < nd; m++ {
						if m == d {
							continue
						}
						p *= grams[m].At(i, j)
					}
					if i == j {
						p += 1e-12
					}
					v.SetSym(i, j, p)
				}
			}
			others := make([]*mat.Dense, 0, nd-1)
			for m := nd - 1; m >= 0; m-- {
				if m == d {
					continue
				}
				others = append(others, factors[m])
			}
			var mkr mat.Dense
			mkr.Mul(unfolds[d], krProduct(others))
			var sol mat.Dense
			if err := sol.Solve(v, mkr.T()); err != nil {
				return nil, fmt.Errorf("models: CP least squares failed: %w", err)
			}
			var newf mat.Dense
			newf.CloneFrom(sol.T())
			var diff mat.Dense
			diff.Sub(&newf, factors[d])
			change += mat.Norm(&diff, 2)
			factors[d] = &newf
			updateGram(d)
		}
		if math.Abs(prev-change) < tol || change < tol {
			break
		}
		prev = change
	}
	return factors, nil
}
