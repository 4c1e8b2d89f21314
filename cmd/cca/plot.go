// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"cogentcore.org/cca/plots"
)

func newPlotCmd() *cobra.Command {
	var (
		kind string
		test []string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "plot scores_0.csv scores_1.csv...",
		Short: "Render a heatmap or pair plot from saved score CSVs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ztr, err := readViews(args)
			if err != nil {
				return err
			}
			var zte []*mat.Dense
			if len(test) > 0 {
				if len(test) != len(args) {
					return fmt.Errorf("got %d test score files for %d train score files", len(test), len(args))
				}
				if zte, err = readViews(test); err != nil {
					return err
				}
			}
			switch kind {
			case "heatmap":
				return plots.ScoreHeatmap(ztr, zte, out)
			case "pairs":
				return plots.ScorePairPlot(ztr, zte, out)
			default:
				return fmt.Errorf("unknown plot kind %q, have heatmap, pairs", kind)
			}
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "heatmap", "plot kind: heatmap or pairs")
	cmd.Flags().StringArrayVar(&test, "test", nil, "held-out score CSVs to overlay; repeatable")
	cmd.Flags().StringVarP(&out, "out", "o", "plot.png", "output image path")
	return cmd
}
