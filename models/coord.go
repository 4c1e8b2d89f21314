// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// softThreshold is the scalar soft-thresholding (shrinkage) operator.
func softThreshold(v, thr float64) float64 {
	if v > thr {
		return v - thr
	}
	if v < -thr {
		return v + thr
	}
	return 0
}

// elasticNet solves the elastic-net regression
//
//	min_w 1/(2n) ||y - X w||^2 + alpha*l1ratio*||w||_1
//	                           + alpha*(1-l1ratio)/2*||w||^2
//
// without an intercept, by cyclic coordinate descent with
// soft-thresholding, optionally constraining weights to be
// non-negative. w is updated in place as the warm start.
func elasticNet(x *mat.Dense, y []float64, w []float64, alpha, l1ratio float64, positive bool, maxIter int, tol float64) {
	n, p := x.Dims()
	nf := float64(n)
	l1 := alpha * l1ratio
	l2 := alpha * (1 - l1ratio)

	// residual r = y - X w
	r := make([]float64, n)
	copy(r, y)
	for j := 0; j < p; j++ {
		if w[j] == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			r[i] -= x.At(i, j) * w[j]
		}
	}
	// per-column squared norms / n
	colsq := make([]float64, p)
	for j := 0; j < p; j++ {
		s := 0.0
		for i := 0; i < n; i++ {
			v := x.At(i, j)
			s += v * v
		}
		colsq[j] = s / nf
	}

	for iter := 0; iter < maxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < p; j++ {
			if colsq[j] == 0 {
				continue
			}
			// rho = x_j^T r / n + colsq_j * w_j
			rho := 0.0
			for i := 0; i < n; i++ {
				rho += x.At(i, j) * r[i]
			}
			rho = rho/nf + colsq[j]*w[j]
			wj := softThreshold(rho, l1) / (colsq[j] + l2)
			if positive && wj < 0 {
				wj = 0
			}
			if wj != w[j] {
				d := wj - w[j]
				for i := 0; i < n; i++ {
					r[i] -= x.At(i, j) * d
				}
				if ad := math.Abs(d); ad > maxDelta {
					maxDelta = ad
				}
				w[j] = wj
			}
		}
		if maxDelta < tol {
			break
		}
	}
}
