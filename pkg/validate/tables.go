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
package validate

import (
	"fmt"
	"slices"

	"github.com/nichevl/go-niche/pkg/codetable"
	"github.com/nichevl/go-niche/pkg/util/collection/set"
	log "github.com/sirupsen/logrus"
)

// CheckUnique checks that no value occurs more than once in a given column.
func CheckUnique(table *codetable.Table, column string) error {
	values, err := table.Column(column)
	if err != nil {
		return &TableError{Check: UNIQUE, Tables: []string{table.Name()}, Columns: []string{column}, Err: err}
	}
	//
	seen := set.NewAnySortedSet[codetable.Value]()
	//
	for i, v := range values {
		if seen.Contains(v) {
			return &TableError{
				Check:   UNIQUE,
				Tables:  []string{table.Name()},
				Columns: []string{column},
				Details: fmt.Sprintf("value %s repeated (row %d)", v, i),
			}
		}
		//
		seen.Insert(v)
	}
	//
	return nil
}

// CheckLowerUpperBoundaries checks that a range table partitions its numeric
// domain without gaps or overlaps.  Rows are grouped by every column other than
// the min, max and value columns.  Within each group, and in table order, the
// minimum of each row must equal the maximum of the row before it.
func CheckLowerUpperBoundaries(table *codetable.Table, minColumn, maxColumn, valueColumn string) error {
	fail := func(details string, err error) error {
		return &TableError{
			Check:   BOUNDARIES,
			Tables:  []string{table.Name()},
			Columns: []string{minColumn, maxColumn, valueColumn},
			Details: details,
			Err:     err,
		}
	}
	//
	var groupBy []string
	//
	for _, col := range table.Columns() {
		if col != minColumn && col != maxColumn && col != valueColumn {
			groupBy = append(groupBy, col)
		}
	}
	//
	index, err := table.GroupBy(groupBy...)
	if err != nil {
		return fail("", err)
	}
	//
	mins, err := table.Column(minColumn)
	if err != nil {
		return fail("", err)
	}
	//
	maxs, err := table.Column(maxColumn)
	if err != nil {
		return fail("", err)
	}
	//
	for _, group := range index.Groups() {
		for i := 1; i < len(group.Rows); i++ {
			prev, row := group.Rows[i-1], group.Rows[i]
			//
			if !mins[row].Equal(maxs[prev]) {
				return fail(fmt.Sprintf("min %s (row %d) does not correspond with max %s (row %d) in group %s%v",
					mins[row], row, maxs[prev], prev, groupBy, group.Key), nil)
			}
		}
	}
	//
	return nil
}

// CheckInnerJoin checks that two columns (in two tables) hold exactly the same
// set of distinct values.  Every value of the first column must occur in the
// second, and vice versa.  When the second column is empty, the column of the
// first table is used for both.
func CheckInnerJoin(lhs, rhs *codetable.Table, lhsColumn, rhsColumn string) error {
	if rhsColumn == "" {
		rhsColumn = lhsColumn
	}
	//
	fail := func(details string, err error) error {
		return &TableError{
			Check:   JOIN,
			Tables:  []string{lhs.Name(), rhs.Name()},
			Columns: []string{lhsColumn, rhsColumn},
			Details: details,
			Err:     err,
		}
	}
	//
	left, err := lhs.Distinct(lhsColumn)
	if err != nil {
		return fail("", err)
	}
	//
	right, err := rhs.Distinct(rhsColumn)
	if err != nil {
		return fail("", err)
	}
	//
	if !left.Equals(right) {
		log.Debugf("join %s.%s %s <> %s.%s %s", lhs.Name(), lhsColumn, left, rhs.Name(), rhsColumn, right)
		//
		return fail(fmt.Sprintf("different keys exist in tables (only in %s: %s, only in %s: %s)", lhs.Name(),
			left.Difference(right), rhs.Name(), right.Difference(left)), nil)
	}
	//
	return nil
}

// CheckSingleCombination checks that, for every group of rows sharing the same
// values over the grouping columns, there is exactly one combination of values
// over the given columns.
func CheckSingleCombination(table *codetable.Table, groupBy []string, columns []string) error {
	fail := func(details string, err error) error {
		return &TableError{
			Check:   COMBINATION,
			Tables:  []string{table.Name()},
			Columns: slices.Concat(groupBy, columns),
			Details: details,
			Err:     err,
		}
	}
	//
	index, err := table.GroupBy(groupBy...)
	if err != nil {
		return fail("", err)
	}
	//
	for _, group := range index.Groups() {
		combinations, err := index.Subtable(group).GroupBy(columns...)
		if err != nil {
			return fail("", err)
		} else if combinations.Len() != 1 {
			return fail(fmt.Sprintf("group %v%v has %d combinations", groupBy, group.Key, combinations.Len()), nil)
		}
	}
	//
	return nil
}
