// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cogentcore.org/cca/base/logx"
	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/datasets"
)

func newSimulateCmd() *cobra.Command {
	var (
		samples      int
		features     []int
		dims         int
		correlations []float64
		noise        float64
		sparsity     []float64
		seed         int64
		out          string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate simulated multiview data with known latent structure",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sim := datasets.Simulated{
				Samples:      samples,
				Features:     features,
				LatentDims:   dims,
				Correlations: correlations,
				Noise:        noise,
				Sparsity:     sparsity,
				Rand:         randx.NewSysRand(seed),
			}
			vs, err := sim.Generate()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			for i, v := range vs {
				path := filepath.Join(out, fmt.Sprintf("view_%d.csv", i))
				_, p := v.Dims()
				header := make([]string, p)
				for c := range header {
					header[c] = fmt.Sprintf("x%d", c)
				}
				if err := writeMatrixCSV(path, v, header); err != nil {
					return err
				}
			}
			for i, w := range sim.Weights {
				path := filepath.Join(out, fmt.Sprintf("true_weights_%d.csv", i))
				if err := writeMatrixCSV(path, w, dimHeader(dims)); err != nil {
					return err
				}
			}
			logx.PrintlnInfo("wrote", len(vs), "views of", samples, "samples to", out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&samples, "samples", "n", 500, "number of rows")
	cmd.Flags().IntSliceVarP(&features, "features", "f", []int{10, 10}, "columns per view")
	cmd.Flags().IntVarP(&dims, "dims", "d", 1, "shared latent dimensions")
	cmd.Flags().Float64SliceVarP(&correlations, "correlations", "r", nil, "true correlation per dimension")
	cmd.Flags().Float64Var(&noise, "noise", 0, "additional noise variance")
	cmd.Flags().Float64SliceVar(&sparsity, "sparsity", nil, "fraction of zero true weights per view")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	return cmd
}
