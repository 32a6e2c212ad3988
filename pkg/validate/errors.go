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
	"strings"
)

// Check identifies the kind of structural check applied to a code table.
type Check uint8

const (
	// UNIQUE requires that no value occurs twice in a column.
	UNIQUE Check = iota
	// BOUNDARIES requires that consecutive rows of a range table share their
	// boundaries.
	BOUNDARIES
	// JOIN requires that two columns hold exactly the same distinct values.
	JOIN
	// COMBINATION requires that a group of rows has a single combination of
	// values over some columns.
	COMBINATION
	// PRESENCE requires that a table was supplied at all.
	PRESENCE
)

func (c Check) String() string {
	switch c {
	case UNIQUE:
		return "unique"
	case BOUNDARIES:
		return "boundaries"
	case JOIN:
		return "join"
	case PRESENCE:
		return "presence"
	default:
		return "combination"
	}
}

// TableError reports a code table (or pair of code tables) which violates a
// structural check.  Such tables must never be used for classification.
type TableError struct {
	// Check which failed
	Check Check
	// Tables involved in the check
	Tables []string
	// Columns involved in the check (one per table for joins)
	Columns []string
	// Details of the offending values or rows
	Details string
	// Underlying cause (e.g. a missing column), if any.
	Err error
}

func (p *TableError) Error() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("%s check failed for %s", p.Check, strings.Join(p.Tables, ", ")))
	//
	if len(p.Columns) > 0 {
		builder.WriteString(fmt.Sprintf(" (%s)", strings.Join(p.Columns, ", ")))
	}
	//
	if p.Details != "" {
		builder.WriteString(": ")
		builder.WriteString(p.Details)
	}
	//
	if p.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(p.Err.Error())
	}
	//
	return builder.String()
}

func (p *TableError) Unwrap() error {
	return p.Err
}

// CodeError reports an input containing codes which are not permitted by the
// code table it is classified against.
type CodeError struct {
	// Name of the input (e.g. "depth")
	Name string
	// Codes found in the input
	Used string
	// Codes permitted for the input
	Allowed string
}

func (p *CodeError) Error() string {
	return fmt.Sprintf("invalid %s code used\nused: %s\npossible: %s", p.Name, p.Used, p.Allowed)
}
