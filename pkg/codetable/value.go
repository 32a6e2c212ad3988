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
	"cmp"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which sort of scalar a Value holds.
type Kind uint8

const (
	// INT_KIND is used for integer codes (e.g. soil or depth codes).
	INT_KIND Kind = iota
	// FLOAT_KIND is used for numeric bounds (e.g. seepage_min).
	FLOAT_KIND
	// STRING_KIND is used for labels and textual codes (e.g. "T2").
	STRING_KIND
)

func (k Kind) String() string {
	switch k {
	case INT_KIND:
		return "int"
	case FLOAT_KIND:
		return "float"
	default:
		return "string"
	}
}

// Value is a single cell within a code table.  Values are either integers,
// floats or strings.  Integers and floats compare numerically with each other,
// whilst numbers always order before strings.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// IntValue constructs an integer value.
func IntValue(v int64) Value {
	return Value{kind: INT_KIND, i: v}
}

// FloatValue constructs a float value.
func FloatValue(v float64) Value {
	return Value{kind: FLOAT_KIND, f: v}
}

// StringValue constructs a string value.
func StringValue(v string) Value {
	return Value{kind: STRING_KIND, s: v}
}

// ParseValue converts a raw (textual) cell into a value.  Integers are tried
// first, then floats, and anything else is retained as a string.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	//
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntValue(i)
	} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return FloatValue(f)
	}
	//
	return StringValue(raw)
}

// Kind returns the kind of this value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumeric checks whether this is an integer or float value.
func (v Value) IsNumeric() bool {
	return v.kind != STRING_KIND
}

// Int returns this value as an integer, provided it is an integer or an
// integral float.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case INT_KIND:
		return v.i, true
	case FLOAT_KIND:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return int64(v.f), true
		}
	}
	//
	return 0, false
}

// Float returns this value as a float, provided it is numeric.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case INT_KIND:
		return float64(v.i), true
	case FLOAT_KIND:
		return v.f, true
	}
	//
	return 0, false
}

// Cmp implements a total order over values.  Numbers are compared numerically
// and order before strings, which are compared lexicographically.
func (v Value) Cmp(other Value) int {
	switch {
	case v.kind == INT_KIND && other.kind == INT_KIND:
		return cmp.Compare(v.i, other.i)
	case v.IsNumeric() && other.IsNumeric():
		lhs, _ := v.Float()
		rhs, _ := other.Float()
		//
		return cmp.Compare(lhs, rhs)
	case v.IsNumeric():
		return -1
	case other.IsNumeric():
		return 1
	default:
		return strings.Compare(v.s, other.s)
	}
}

// Equal checks whether two values are the same, where an integer is considered
// equal to an integral float of the same magnitude.
func (v Value) Equal(other Value) bool {
	return v.Cmp(other) == 0
}

func (v Value) String() string {
	switch v.kind {
	case INT_KIND:
		return strconv.FormatInt(v.i, 10)
	case FLOAT_KIND:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// key returns a canonical textual encoding of this value, such that two values
// have the same key iff they are equal.
func (v Value) key() string {
	if i, ok := v.Int(); ok {
		return "n" + strconv.FormatInt(i, 10)
	} else if v.kind == FLOAT_KIND {
		return "n" + strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	//
	return "s" + v.s
}
