// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/nichevl/go-niche/pkg/floodplain"
	"github.com/nichevl/go-niche/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var floodplainCmd = &cobra.Command{
	Use:   "floodplain [flags] depth_file",
	Short: "predict the response of vegetation to flooding.",
	Long: `Predict the potential of each vegetation type under a given flooding scenario,
	from a grid of flooding depth codes (an ESRI ASCII grid).  One grid per
	vegetation type is written to the output folder.  Optionally, the results are
	first combined with the vegetation grids of a niche model.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, tableFlags)
		bindFlags(cmd, map[string]string{
			"floodplain.frequency": "frequency",
			"floodplain.duration":  "duration",
			"floodplain.period":    "period",
			"output.folder":        "output",
			"output.name":          "name",
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(2)
		}
		//
		cfg := loadConfig()
		//
		period, err := floodplain.ParsePeriod(cfg.Floodplain.Period)
		if err != nil {
			fail(2, err)
		}
		//
		niche, err := parseVegetationFiles(GetStringArray(cmd, "niche"))
		if err != nil {
			fail(2, err)
		}
		//
		stats := util.NewPerfStats()
		//
		tables, err := floodplain.LoadTables(cfg.Tables, tableCache)
		if err != nil {
			fail(1, err)
		}
		//
		fp, err := floodplain.New(tables, cfg.Output.Name)
		if err != nil {
			fail(1, err)
		}
		//
		stats.Log("Loading code tables")
		stats = util.NewPerfStats()
		//
		if err = fp.CalculateFile(args[0], cfg.Floodplain.Frequency, cfg.Floodplain.Duration, period); err != nil {
			fail(1, err)
		}
		//
		stats.Log("Calculating floodplain potential")
		//
		if len(niche) > 0 {
			if fp, err = combine(fp, niche); err != nil {
				fail(1, err)
			}
		}
		//
		if _, err := fp.Write(cfg.Output.Folder); err != nil {
			fail(1, err)
		}
		//
		if GetFlag(cmd, "summary") {
			printSummary(fp)
		}
	},
}

// Combine floodplain results with the vegetation grids of a niche model.
func combine(fp *floodplain.FloodPlain, files map[int]string) (*floodplain.FloodPlain, error) {
	suitability := floodplain.NewSuitabilitySet(fp.Context())
	//
	for _, code := range slices.Sorted(maps.Keys(files)) {
		if err := suitability.AddFile(code, files[code]); err != nil {
			return nil, err
		}
	}
	//
	log.Debugf("combining with %d vegetation grids", len(files))
	//
	return fp.Combine(suitability)
}

func printSummary(fp *floodplain.FloodPlain) {
	rows, err := fp.Summary()
	if err != nil {
		fail(1, err)
	}
	//
	tp := util.NewTablePrinter(4, uint(len(rows)+1))
	tp.SetRow(0, "veg_code", "potential", "description", "cells")
	//
	for i, row := range rows {
		tp.SetRow(uint(i+1), strconv.Itoa(row.VegCode), strconv.Itoa(int(row.Potential)), row.Description,
			strconv.FormatUint(uint64(row.Cells), 10))
	}
	//
	tp.FitWidth(util.TerminalWidth())
	tp.Print()
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(floodplainCmd)
	floodplainCmd.Flags().StringP("frequency", "f", "T2", "flooding frequency (e.g. T2, T10, T25 or T100)")
	floodplainCmd.Flags().IntP("duration", "d", 1, "flooding duration code")
	floodplainCmd.Flags().StringP("period", "p", "summer", "flooding period (summer or winter)")
	floodplainCmd.Flags().StringP("output", "o", "output", "folder to which results are written")
	floodplainCmd.Flags().StringP("name", "n", "", "name prefixed to the files written")
	floodplainCmd.Flags().StringArray("niche", []string{}, "vegetation grid of a niche model (code=file)")
	floodplainCmd.Flags().Bool("summary", false, "print the number of cells per potential")
	addTableFlags(floodplainCmd)
}
