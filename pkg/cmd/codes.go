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

	"github.com/nichevl/go-niche/pkg/raster"
	"github.com/nichevl/go-niche/pkg/validate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var codesCmd = &cobra.Command{
	Use:   "codes [flags] grid_file table",
	Short: "check the codes used in a grid.",
	Long: `Check that every cell of a grid (an ESRI ASCII grid) holding data uses a code
	listed in a given column of a code table.  The table is either a file (CSV or
	YAML) or one of the bundled tables.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(2)
		}
		//
		column := GetString(cmd, "column")
		name := GetString(cmd, "name")
		//
		if name == "" {
			name = column
		}
		//
		g, _, err := raster.ReadASCII(args[0])
		if err != nil {
			fail(1, err)
		}
		//
		table, err := readTable(args[1])
		if err != nil {
			fail(1, err)
		}
		//
		allowed, err := table.Ints(column)
		if err != nil {
			fail(1, err)
		}
		//
		if err := validate.CheckGridCodes(name, g, allowed); err != nil {
			fail(1, err)
		}
		//
		log.Infof("%s only uses codes from %s", args[0], table.Name())
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(codesCmd)
	codesCmd.Flags().String("column", "code", "column of the table listing the allowed codes")
	codesCmd.Flags().String("name", "", "name of the input (e.g. acidity), defaulting to the column name")
}
