// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"cogentcore.org/cca/base/logx"
	"cogentcore.org/cca/base/randx"
	"cogentcore.org/cca/models"
	"cogentcore.org/cca/modelsel"
	"cogentcore.org/cca/plots"
)

// gridConfig is the TOML schema for the gridsearch command.
type gridConfig struct {
	// Model names the model to search over.
	Model string `toml:"model"`

	// Dims is the number of latent dimensions.
	Dims int `toml:"dims"`

	// Kernel names the kernel for the kernel models.
	Kernel string `toml:"kernel"`

	// Folds is the number of cross-validation folds.
	Folds int `toml:"folds"`

	// Workers bounds the parallel grid points.
	Workers int `toml:"workers"`

	// Seed seeds fold assignment.
	Seed int64 `toml:"seed"`

	// Fixed holds hyperparameters held constant across the grid.
	Fixed map[string]float64 `toml:"fixed"`

	// Params are the grid axes.
	Params []gridParam `toml:"param"`
}

type gridParam struct {
	Name   string    `toml:"name"`
	Values []float64 `toml:"values"`
}

func loadGridConfig(path string) (*gridConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := &gridConfig{Model: "rcca", Dims: 1, Folds: 5, Seed: 1}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Params) == 0 {
		return nil, fmt.Errorf("config %s has no [[param]] axes", path)
	}
	return cfg, nil
}

func newGridSearchCmd() *cobra.Command {
	var (
		config   string
		out      string
		plotPath string
	)

	cmd := &cobra.Command{
		Use:   "gridsearch view1.csv view2.csv...",
		Short: "Cross-validate a hyperparameter grid from a TOML config",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadGridConfig(config)
			if err != nil {
				return err
			}
			vs, err := readViews(args)
			if err != nil {
				return err
			}
			axes := make([]modelsel.Param, len(cfg.Params))
			for i, p := range cfg.Params {
				axes[i] = modelsel.Param{Name: p.Name, Values: p.Values}
			}
			gs := &modelsel.GridSearch{
				Factory: func(params map[string]float64) models.Model {
					merged := map[string]float64{}
					for k, v := range cfg.Fixed {
						merged[k] = v
					}
					for k, v := range params {
						merged[k] = v
					}
					m, err := newModel(cfg.Model, cfg.Dims, merged, cfg.Kernel)
					if err != nil {
						// the model name was validated before Run
						panic(err)
					}
					return m
				},
				Params:  axes,
				Folds:   cfg.Folds,
				Workers: cfg.Workers,
				Rand:    randx.NewSysRand(cfg.Seed),
			}
			// validate model name and parameters up front
			if _, err := newModel(cfg.Model, cfg.Dims, cfg.Fixed, cfg.Kernel); err != nil {
				return err
			}
			logx.PrintlnInfo("grid searching", cfg.Model, "over", len(axes), "axes with", cfg.Folds, "folds")
			if err := gs.Run(cmd.Context(), vs...); err != nil {
				return err
			}
			if err := writeGridResults(out, gs.Results); err != nil {
				return err
			}
			logx.PrintlnInfo("best:", paramString(gs.Best.Params), "mean score", gs.Best.Result.Mean)
			if plotPath != "" {
				names := make([]string, len(axes))
				for i, a := range axes {
					names[i] = a.Name
				}
				if err := plots.CVSurface(gs.Results, names, plotPath); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&config, "config", "c", "grid.toml", "TOML grid config file")
	cmd.Flags().StringVarP(&out, "out", "o", "grid_results.csv", "results CSV path")
	cmd.Flags().StringVar(&plotPath, "plot", "", "optional score surface image path")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// writeGridResults writes one row per grid point: the parameters,
// then the mean and standard deviation of the fold scores.
func writeGridResults(path string, results []modelsel.Candidate) error {
	if len(results) == 0 {
		return fmt.Errorf("no grid results to write")
	}
	names := []string{}
	for name := range results[0].Params {
		names = append(names, name)
	}
	sort.Strings(names)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(append(append([]string{}, names...), "mean", "std")); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, c := range results {
		row := make([]string, 0, len(names)+2)
		for _, name := range names {
			row = append(row, strconv.FormatFloat(c.Params[name], 'g', -1, 64))
		}
		row = append(row,
			strconv.FormatFloat(c.Result.Mean, 'g', -1, 64),
			strconv.FormatFloat(c.Result.Std, 'g', -1, 64))
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
