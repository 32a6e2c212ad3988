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

	"github.com/nichevl/go-niche/pkg/codetable"
	"github.com/nichevl/go-niche/pkg/util"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] [table]",
	Short: "print a code table.",
	Long: `Print a code table, which is either a file (CSV or YAML) or one of the bundled
	tables.  Without arguments, the bundled tables are listed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(2)
		} else if len(args) == 0 {
			for _, key := range codetable.Defaults() {
				fmt.Println(key)
			}
			//
			return
		}
		//
		table, err := readTable(args[0])
		if err != nil {
			fail(1, err)
		}
		//
		if table, err = selectColumns(table, GetStringArray(cmd, "column")); err != nil {
			fail(1, err)
		}
		//
		if column := GetString(cmd, "distinct"); column != "" {
			values, err := table.Distinct(column)
			if err != nil {
				fail(1, err)
			}
			//
			fmt.Println(values.String())
			//
			return
		}
		//
		printTable(table, GetInt(cmd, "max-rows"))
	},
}

// Restrict a code table to the given columns, if any.
func selectColumns(table *codetable.Table, columns []string) (*codetable.Table, error) {
	if len(columns) == 0 {
		return table, nil
	}
	//
	return table.Project(columns...)
}

// Print (at most a given number of rows of) a code table.  A negative limit
// prints all rows.
func printTable(table *codetable.Table, limit int) {
	height := table.Height()
	if limit >= 0 {
		height = min(height, uint(limit))
	}
	//
	columns := table.Columns()
	tp := util.NewTablePrinter(uint(len(columns)), height+1)
	tp.SetRow(0, columns...)
	//
	for i := uint(0); i < height; i++ {
		row := table.Row(i)
		cells := make([]string, len(row))
		//
		for j, v := range row {
			cells[j] = v.String()
		}
		//
		tp.SetRow(i+1, cells...)
	}
	//
	tp.FitWidth(util.TerminalWidth())
	tp.Print()
	//
	if height < table.Height() {
		fmt.Printf("(%d of %d rows)\n", height, table.Height())
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Int("max-rows", -1, "maximum number of rows to print (all if negative)")
	inspectCmd.Flags().StringArray("column", []string{}, "print only the given column (repeatable, in order)")
	inspectCmd.Flags().String("distinct", "", "print only the distinct values of a given column")
}
