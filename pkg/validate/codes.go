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
	"github.com/nichevl/go-niche/pkg/grid"
	"github.com/nichevl/go-niche/pkg/util/collection/set"
)

// Code is the type of values which can be checked against a code table.
type Code interface {
	int | int16 | int32 | int64 | float32 | float64 | string
}

// Inputs whose derived layers use NO_DATA_COMPUTED for cells which could not be
// computed.
var computed = []string{"acidity", "nutrient_level"}

// CheckCodesUsed checks that every distinct value used in an input is one of the
// allowed codes.  Besides the allowed codes, numeric inputs may always use
// grid.NO_DATA, and the "acidity" and "nutrient_level" inputs may also use
// grid.NO_DATA_COMPUTED.  NaN values are ignored.
func CheckCodesUsed[T Code](name string, used []T, allowed []T) error {
	usedCodes := set.NewSortedSet[T]()
	//
	for _, v := range used {
		// only NaN is not equal to itself
		if v == v {
			usedCodes.Insert(v)
		}
	}
	//
	allowedCodes := set.NewSortedSet(allowed...)
	//
	for _, v := range sentinels[T](name) {
		allowedCodes.Insert(v)
	}
	//
	if !usedCodes.SubsetOf(allowedCodes) {
		return &CodeError{name, usedCodes.String(), allowedCodes.String()}
	}
	//
	return nil
}

// CheckCodeUsed checks that a single value is one of the allowed codes, under the
// same rules as CheckCodesUsed.
func CheckCodeUsed[T Code](name string, used T, allowed []T) error {
	return CheckCodesUsed(name, []T{used}, allowed)
}

// CheckGridCodes checks that every cell of a grid holding data uses one of the
// allowed codes.
func CheckGridCodes(name string, g *grid.Grid, allowed []int64) error {
	distinct := g.Distinct()
	used := make([]int64, len(distinct))
	//
	for i, v := range distinct {
		used[i] = int64(v)
	}
	//
	return CheckCodesUsed(name, used, allowed)
}

// Determine the sentinel codes implicitly allowed for a given input.
func sentinels[T Code](name string) []T {
	codes := []int16{grid.NO_DATA}
	//
	for _, c := range computed {
		if c == name {
			codes = append(codes, grid.NO_DATA_COMPUTED)
		}
	}
	//
	var values []T
	//
	for _, c := range codes {
		if v, ok := fromInt16[T](c); ok {
			values = append(values, v)
		}
	}
	//
	return values
}

// Convert a sentinel into the given code type.  Sentinels have no string form.
func fromInt16[T Code](c int16) (T, bool) {
	var v T
	//
	switch p := any(&v).(type) {
	case *int:
		*p = int(c)
	case *int16:
		*p = c
	case *int32:
		*p = int32(c)
	case *int64:
		*p = int64(c)
	case *float32:
		*p = float32(c)
	case *float64:
		*p = float64(c)
	default:
		return v, false
	}
	//
	return v, true
}
