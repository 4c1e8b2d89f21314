// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/randx"
)

// rank1Tensor builds T[i,j,k] = a_i b_j c_k.
func rank1Tensor(a, b, c []float64) *denseTensor {
	t := newDenseTensor(len(a), len(b), len(c))
	st := t.strides()
	for i := range a {
		for j := range b {
			for k := range c {
				t.data[i*st[0]+j*st[1]+k*st[2]] = a[i] * b[j] * c[k]
			}
		}
	}
	return t
}

func TestUnfold(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{1, 10, 100}
	c := []float64{1, -1}
	tt := rank1Tensor(a, b, c)

	t0 := tt.unfold(0)
	r, cl := t0.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 6, cl)
	// columns enumerate (j,k) with j (the lowest remaining mode) fastest
	for i := range a {
		for j := range b {
			for k := range c {
				assert.InDelta(t, a[i]*b[j]*c[k], t0.At(i, j+3*k), 1e-12)
			}
		}
	}

	t1 := tt.unfold(1)
	for i := range a {
		for j := range b {
			for k := range c {
				assert.InDelta(t, a[i]*b[j]*c[k], t1.At(j, i+2*k), 1e-12)
			}
		}
	}
}

func TestKRProduct(t *testing.T) {
	f1 := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	f0 := mat.NewDense(2, 2, []float64{5, 6, 7, 8})
	kr := krProduct([]*mat.Dense{f1, f0})
	r, c := kr.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
	// the last listed factor varies fastest across rows
	want := [][]float64{{5, 12}, {7, 16}, {15, 24}, {21, 32}}
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], kr.At(i, j), 1e-12)
		}
	}
}

func TestCPDecomposeRank1(t *testing.T) {
	tt := rank1Tensor(
		[]float64{1, 2, 3},
		[]float64{-1, 0.5, 2, 1},
		[]float64{2, -3},
	)
	factors, err := cpDecompose(tt, 1, 500, 1e-12, randx.NewSysRand(42))
	assert.NoError(t, err)
	assert.Len(t, factors, 3)

	// reconstruct mode-0 unfolding from the factors
	var est mat.Dense
	est.Mul(factors[0], krProduct([]*mat.Dense{factors[2], factors[1]}).T())
	t0 := tt.unfold(0)
	var diff mat.Dense
	diff.Sub(&est, t0)
	assert.Less(t, mat.Norm(&diff, 2)/mat.Norm(t0, 2), 1e-6)
}

func TestCPDecomposeErrors(t *testing.T) {
	tt := newDenseTensor(2, 2)
	_, err := cpDecompose(tt, 0, 10, 1e-8, nil)
	assert.Error(t, err)
}
