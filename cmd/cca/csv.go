// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/errors"
)

// readMatrixCSV reads a numeric CSV file into a matrix. A first row
// that fails to parse as numbers is treated as a header and skipped.
func readMatrixCSV(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("reading %s: empty file", path)
	}
	start := 0
	if _, err := strconv.ParseFloat(recs[0][0], 64); err != nil {
		start = 1
	}
	rows := len(recs) - start
	if rows == 0 {
		return nil, fmt.Errorf("reading %s: no data rows", path)
	}
	cols := len(recs[start])
	m := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		rec := recs[start+r]
		if len(rec) != cols {
			return nil, fmt.Errorf("reading %s: row %d has %d fields, want %d", path, start+r+1, len(rec), cols)
		}
		for c, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("reading %s: row %d field %d: %w", path, start+r+1, c+1, err)
			}
			m.Set(r, c, v)
		}
	}
	return m, nil
}

// writeMatrixCSV writes a matrix as CSV, with an optional header of
// column names.
func writeMatrixCSV(path string, m mat.Matrix, header []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer func() { errors.Log(f.Close()) }()
	w := csv.NewWriter(f)
	rows, cols := m.Dims()
	if header != nil {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	rec := make([]string, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			rec[c] = strconv.FormatFloat(m.At(r, c), 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// dimHeader returns column names like dim0, dim1, ... for score and
// weight matrices.
func dimHeader(k int) []string {
	out := make([]string, k)
	for i := range out {
		out[i] = fmt.Sprintf("dim%d", i)
	}
	return out
}

func readViews(paths []string) ([]*mat.Dense, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no view files given")
	}
	vs := make([]*mat.Dense, len(paths))
	for i, p := range paths {
		v, err := readMatrixCSV(p)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}
