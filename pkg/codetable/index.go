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
	"strings"
)

// Group is a set of rows sharing the same values over the grouping columns of
// an Index.
type Group struct {
	// Key holds the values of the grouping columns for this group.
	Key []Value
	// Rows identifies the rows of this group, in table order.
	Rows []uint
}

// Clone returns an independent copy of this group.
func (p Group) Clone() Group {
	return Group{slices.Clone(p.Key), slices.Clone(p.Rows)}
}

// Index groups the rows of a table by a tuple of columns.  Groups are held in
// the order in which their key first appears in the table, and the rows of each
// group retain table order.  An index is built once and then only read.
type Index struct {
	table   *Table
	columns []string
	groups  []Group
	lookup  map[string]uint
}

// GroupBy constructs an index of this table over the given columns.  Grouping
// by no columns yields a single group holding every row (provided the table is
// not empty).
func (p *Table) GroupBy(columns ...string) (*Index, error) {
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
	index := &Index{p, slices.Clone(columns), nil, make(map[string]uint)}
	key := make([]Value, len(cols))
	//
	for i, row := range p.rows {
		for j, col := range cols {
			key[j] = row[col]
		}
		//
		k := tupleKey(key)
		//
		if g, ok := index.lookup[k]; ok {
			index.groups[g].Rows = append(index.groups[g].Rows, uint(i))
		} else {
			index.lookup[k] = uint(len(index.groups))
			index.groups = append(index.groups, Group{slices.Clone(key), []uint{uint(i)}})
		}
	}
	//
	return index, nil
}

// Columns returns the grouping columns of this index.
func (p *Index) Columns() []string {
	return slices.Clone(p.columns)
}

// Len returns the number of groups in this index.
func (p *Index) Len() uint {
	return uint(len(p.groups))
}

// Groups returns a copy of the groups of this index, in order of first
// appearance.
func (p *Index) Groups() []Group {
	groups := make([]Group, len(p.groups))
	//
	for i, g := range p.groups {
		groups[i] = g.Clone()
	}
	//
	return groups
}

// Find returns the group with a given key (if it exists).
func (p *Index) Find(key ...Value) (Group, bool) {
	if len(key) != len(p.columns) {
		panic(fmt.Sprintf("invalid key length %d (expected %d)", len(key), len(p.columns)))
	}
	//
	if g, ok := p.lookup[tupleKey(key)]; ok {
		return p.groups[g].Clone(), true
	}
	//
	return Group{}, false
}

// Subtable constructs the table consisting of the rows of a given group.
func (p *Index) Subtable(group Group) *Table {
	return p.table.Select(group.Rows)
}

func tupleKey(key []Value) string {
	var builder strings.Builder
	//
	for i, v := range key {
		if i != 0 {
			builder.WriteByte(0)
		}
		//
		builder.WriteString(v.key())
	}
	//
	return builder.String()
}
