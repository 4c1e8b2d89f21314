// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/base/logx"
	"cogentcore.org/cca/models"
)

func newFitCmd() *cobra.Command {
	var (
		model  string
		dims   int
		kernel string
		params []string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "fit view1.csv view2.csv...",
		Short: "Fit a model on CSV view files and write weights, scores and correlations",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			vs, err := readViews(args)
			if err != nil {
				return err
			}
			pm, err := parseParams(params)
			if err != nil {
				return err
			}
			m, err := newModel(model, dims, pm, kernel)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			logx.PrintlnInfo("fitting", model, "with", dims, "latent dimensions on", len(vs), "views")
			zs, err := models.FitTransform(m, vs...)
			if err != nil {
				return err
			}
			for i, z := range zs {
				path := filepath.Join(out, fmt.Sprintf("scores_%d.csv", i))
				if err := writeMatrixCSV(path, z, dimHeader(dims)); err != nil {
					return err
				}
			}
			if wm, ok := m.(interface{ Weights(view int) *mat.Dense }); ok {
				for i := range vs {
					if w := wm.Weights(i); w != nil {
						path := filepath.Join(out, fmt.Sprintf("weights_%d.csv", i))
						if err := writeMatrixCSV(path, w, dimHeader(dims)); err != nil {
							return err
						}
					}
				}
			}
			corrDims, err := models.ScoreDims(m, vs...)
			if err != nil {
				return err
			}
			corr := mat.NewDense(1, len(corrDims), corrDims)
			if err := writeMatrixCSV(filepath.Join(out, "correlations.csv"), corr, dimHeader(len(corrDims))); err != nil {
				return err
			}
			total := 0.0
			for _, d := range corrDims {
				total += d
			}
			logx.PrintlnInfo("mean pairwise correlations per dimension:", corrDims, "sum:", total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "cca", "model to fit: "+fmt.Sprint(modelNames))
	cmd.Flags().IntVarP(&dims, "dims", "d", 1, "number of latent dimensions")
	cmd.Flags().StringVarP(&kernel, "kernel", "k", "linear", "kernel for kcca / ktcca")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "model hyperparameter as key=value; repeatable")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	return cmd
}
