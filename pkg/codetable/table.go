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
package codetable

import (
	"fmt"
	"slices"

	"github.com/nichevl/go-niche/pkg/util/collection/set"
)

// ColumnError is reported when a table is accessed using a column it does not
// have.
type ColumnError struct {
	// Table being accessed
	Table string
	// Column which was requested
	Column string
}

func (p *ColumnError) Error() string {
	return fmt.Sprintf("table \"%s\" has no column \"%s\"", p.Table, p.Column)
}

// Table is an immutable code table, consisting of a fixed set of named columns
// and an ordered sequence of rows.
type Table struct {
	name    string
	columns []string
	// Maps column names to their position
	index map[string]uint
	rows  [][]Value
}

// NewTable constructs a new table with the given columns and rows.  Every row
// must have exactly one value per column, and column names must be unique.
// The given rows are cloned.
func NewTable(name string, columns []string, rows [][]Value) (*Table, error) {
	index := make(map[string]uint, len(columns))
	//
	for i, col := range columns {
		if _, ok := index[col]; ok {
			return nil, fmt.Errorf("table \"%s\" has duplicate column \"%s\"", name, col)
		}
		//
		index[col] = uint(i)
	}
	//
	nrows := make([][]Value, len(rows))
	//
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("table \"%s\" row %d has %d values (expected %d)", name, i, len(row),
				len(columns))
		}
		//
		nrows[i] = slices.Clone(row)
	}
	//
	return &Table{name, slices.Clone(columns), index, nrows}, nil
}

// FromRecords constructs a table from a header and a set of textual records,
// parsing every cell with ParseValue.
func FromRecords(name string, header []string, records [][]string) (*Table, error) {
	rows := make([][]Value, len(records))
	//
	for i, record := range records {
		rows[i] = make([]Value, len(record))
		for j, cell := range record {
			rows[i][j] = ParseValue(cell)
		}
	}
	//
	return NewTable(name, header, rows)
}

// Name returns the name of this table.
func (p *Table) Name() string {
	return p.name
}

// Columns returns the column names of this table, in order.
func (p *Table) Columns() []string {
	return slices.Clone(p.columns)
}

// Has checks whether this table has a given column.
func (p *Table) Has(column string) bool {
	_, ok := p.index[column]
	return ok
}

// Height returns the number of rows in this table.
func (p *Table) Height() uint {
	return uint(len(p.rows))
}

// Row returns a copy of the given row.
func (p *Table) Row(row uint) []Value {
	return slices.Clone(p.rows[row])
}

// Get returns the value at a given row and column.
func (p *Table) Get(row uint, column string) (Value, error) {
	col, ok := p.index[column]
	if !ok {
		return Value{}, &ColumnError{p.name, column}
	}
	//
	return p.rows[row][col], nil
}

// Column returns all values held in a given column, in row order.
func (p *Table) Column(column string) ([]Value, error) {
	col, ok := p.index[column]
	if !ok {
		return nil, &ColumnError{p.name, column}
	}
	//
	values := make([]Value, len(p.rows))
	for i, row := range p.rows {
		values[i] = row[col]
	}
	//
	return values, nil
}

// Distinct returns the set of distinct values held in a given column.
func (p *Table) Distinct(column string) (*set.AnySortedSet[Value], error) {
	values, err := p.Column(column)
	if err != nil {
		return nil, err
	}
	//
	return set.NewAnySortedSet(values...), nil
}

// Ints returns the values of a given column as integers.  This fails if any
// value in the column is not integral.
func (p *Table) Ints(column string) ([]int64, error) {
	values, err := p.Column(column)
	if err != nil {
		return nil, err
	}
	//
	ints := make([]int64, len(values))
	//
	for i, v := range values {
		var ok bool
		if ints[i], ok = v.Int(); !ok {
			return nil, fmt.Errorf("table \"%s\" column \"%s\" row %d is not an integer (%s)", p.name, column, i, v)
		}
	}
	//
	return ints, nil
}

// Strings returns the values of a given column rendered as strings.
func (p *Table) Strings(column string) ([]string, error) {
	values, err := p.Column(column)
	if err != nil {
		return nil, err
	}
	//
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = v.String()
	}
	//
	return strs, nil
}

// Project constructs a new table holding only the given columns (in the given
// order).
func (p *Table) Project(columns ...string) (*Table, error) {
	cols := make([]uint, len(columns))
	//
	for i, column := range columns {
		col, ok := p.index[column]
		if !ok {
			return nil, &ColumnError{p.name, column}
		}
		//
		cols[i] = col
	}
	//
	rows := make([][]Value, len(p.rows))
	//
	for i, row := range p.rows {
		rows[i] = make([]Value, len(cols))
		for j, col := range cols {
			rows[i][j] = row[col]
		}
	}
	//
	return NewTable(p.name, columns, rows)
}

// Select constructs a new table holding only the given rows (in the given
// order).
func (p *Table) Select(rows []uint) *Table {
	nrows := make([][]Value, len(rows))
	//
	for i, row := range rows {
		nrows[i] = slices.Clone(p.rows[row])
	}
	//
	return &Table{p.name, p.columns, p.index, nrows}
}

func (p *Table) String() string {
	return fmt.Sprintf("%s%v (%d rows)", p.name, p.columns, len(p.rows))
}
