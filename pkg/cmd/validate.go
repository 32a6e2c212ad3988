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
	"os"
	"path/filepath"

	"github.com/nichevl/go-niche/pkg/codetable"
	"github.com/nichevl/go-niche/pkg/floodplain"
	"github.com/nichevl/go-niche/pkg/util"
	"github.com/nichevl/go-niche/pkg/validate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags]",
	Short: "check a set of code tables for consistency.",
	Long: `Check a set of code tables for consistency.  The floodplain tables default
	to the bundled tables, unless overridden by flags or configuration.  The tables
	of other models are read from a directory holding one file per table (e.g.
	seepage.csv or seepage.yaml).`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, tableFlags)
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			model = GetString(cmd, "model")
			dir   = GetString(cmd, "dir")
			stats = util.NewPerfStats()
			err   error
		)
		//
		if len(args) != 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(2)
		} else if model != "floodplain" && dir == "" {
			fmt.Printf("model \"%s\" requires a table directory (--dir)\n", model)
			os.Exit(2)
		}
		//
		switch model {
		case "floodplain":
			err = validateFloodplain(GetFlag(cmd, "strict"))
		case "acidity":
			err = validateAcidity(dir)
		case "nutrient_level":
			err = validateNutrientLevel(dir)
		case "vegetation":
			err = validateVegetation(dir)
		default:
			fmt.Printf("unknown model \"%s\"\n", model)
			os.Exit(2)
		}
		//
		stats.Log("Validating code tables")
		//
		if err != nil {
			fail(1, err)
		}
		//
		log.Infof("%s code tables are consistent", model)
	},
}

// Flags overriding individual floodplain tables, indexed by configuration key.
var tableFlags = map[string]string{
	"tables.depths":        "depths-table",
	"tables.duration":      "duration-table",
	"tables.frequency":     "frequency-table",
	"tables.lnk_potential": "lnk-potential-table",
	"tables.potential":     "potential-table",
}

func validateFloodplain(strict bool) error {
	cfg := loadConfig()
	//
	tables, err := floodplain.LoadTables(cfg.Tables, tableCache)
	if err != nil {
		return err
	} else if strict {
		return validate.ValidateFloodplainsStrict(tables)
	}
	//
	return validate.ValidateFloodplains(tables)
}

func validateAcidity(dir string) error {
	var ct validate.AcidityTables
	//
	d := tableDir{dir: dir}
	ct.Acidity = d.read("acidity")
	ct.SoilMlwClass = d.read("soil_mlw_class")
	ct.SoilCodes = d.read("soil_codes")
	ct.LnkAcidity = d.read("lnk_acidity")
	ct.Seepage = d.read("seepage")
	//
	if d.err != nil {
		return d.err
	}
	//
	return validate.ValidateAcidity(ct)
}

func validateNutrientLevel(dir string) error {
	var ct validate.NutrientLevelTables
	//
	d := tableDir{dir: dir}
	ct.LnkSoilNutrientLevel = d.read("lnk_soil_nutrient_level")
	ct.Management = d.read("management")
	ct.Mineralisation = d.read("mineralisation")
	ct.SoilCode = d.read("soil_code")
	ct.NutrientLevel = d.read("nutrient_level")
	//
	if d.err != nil {
		return d.err
	}
	//
	return validate.ValidateNutrientLevel(ct)
}

func validateVegetation(dir string) error {
	var ct validate.VegetationTables
	//
	d := tableDir{dir: dir}
	ct.Vegetation = d.read("vegetation")
	ct.SoilCode = d.read("soil_code")
	ct.Inundation = d.read("inundation")
	ct.Management = d.read("management")
	ct.Acidity = d.read("acidity")
	ct.NutrientLevel = d.read("nutrient_level")
	//
	if d.err != nil {
		return d.err
	}
	//
	return validate.ValidateVegetation(ct)
}

// tableDir reads the tables of a model from a directory, retaining the first
// error encountered.
type tableDir struct {
	dir string
	err error
}

// Read a table, or return nil if it does not exist (in which case the
// validator reports it as missing).
func (p *tableDir) read(name string) *codetable.Table {
	if p.err != nil {
		return nil
	}
	//
	for _, ext := range []string{".csv", ".yaml", ".yml"} {
		filename := filepath.Join(p.dir, name+ext)
		//
		if _, err := os.Stat(filename); err == nil {
			table, err := tableCache.Load(filename)
			p.err = err
			//
			return table
		}
	}
	//
	log.Debugf("no table %s in %s", name, p.dir)
	//
	return nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("model", "m", "floodplain",
		"model whose tables are checked (floodplain, acidity, nutrient_level or vegetation)")
	validateCmd.Flags().StringP("dir", "d", "", "directory holding the code tables")
	validateCmd.Flags().Bool("strict", false, "also join lnk_potential against the depths and potential tables")
	addTableFlags(validateCmd)
}

// Add flags overriding individual floodplain tables.
func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().String("depths-table", "", "depths table (default bundled)")
	cmd.Flags().String("duration-table", "", "duration table (default bundled)")
	cmd.Flags().String("frequency-table", "", "frequency table (default bundled)")
	cmd.Flags().String("lnk-potential-table", "", "lnk_potential table (default bundled)")
	cmd.Flags().String("potential-table", "", "potential table (default bundled)")
}
