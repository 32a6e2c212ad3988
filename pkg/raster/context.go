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
package raster

import (
	"fmt"
	"math"
)

// tolerance used when comparing transform coefficients.
const tolerance = 1e-9

// Affine is a (north-up) affine transform mapping a cell's (col, row) position
// onto map coordinates, such that x = A*col + B*row + C and y = D*col + E*row +
// F.
type Affine struct {
	A, B, C, D, E, F float64
}

// NewAffine constructs a north-up transform for square cells of a given size,
// whose upper left corner is at (x, y).
func NewAffine(x, y, cellsize float64) Affine {
	return Affine{cellsize, 0, x, 0, -cellsize, y}
}

// AlmostEqual checks whether all coefficients of two transforms agree within a
// small tolerance.
func (p Affine) AlmostEqual(q Affine) bool {
	lhs := [6]float64{p.A, p.B, p.C, p.D, p.E, p.F}
	rhs := [6]float64{q.A, q.B, q.C, q.D, q.E, q.F}
	//
	for i := range lhs {
		if math.Abs(lhs[i]-rhs[i]) > tolerance {
			return false
		}
	}
	//
	return true
}

func (p Affine) String() string {
	return fmt.Sprintf("Affine(%v, %v, %v,\n       %v, %v, %v)", p.A, p.B, p.C, p.D, p.E, p.F)
}

// Point is a location in map coordinates.
type Point struct {
	X, Y float64
}

// Extent is the bounding box of a grid, given as its upper left and lower right
// corners.
type Extent struct {
	UpperLeft  Point
	LowerRight Point
}

// Window identifies a block of rows and columns [start, end) within a grid.
type Window struct {
	RowStart, RowEnd uint
	ColStart, ColEnd uint
}

// SpatialContext holds the georeferencing of a grid: its transform, dimensions
// and coordinate reference system.  Two grids can only be combined cell by cell
// when their spatial contexts are equal.
type SpatialContext struct {
	Transform Affine
	Width     uint
	Height    uint
	// Coordinate reference system, in whatever textual form the source
	// provided (e.g. WKT or a proj string).  Empty when unknown.
	CRS string
}

// Extent returns the bounding box covered by this context.
func (p SpatialContext) Extent() Extent {
	t := p.Transform
	//
	return Extent{
		UpperLeft: Point{t.C, t.F},
		LowerRight: Point{
			t.C + t.A*float64(p.Width) + t.B*float64(p.Height),
			t.F + t.D*float64(p.Width) + t.E*float64(p.Height),
		},
	}
}

// Equal checks whether two contexts describe the same grid.
func (p SpatialContext) Equal(other SpatialContext) bool {
	return p.Transform.AlmostEqual(other.Transform) && p.Width == other.Width && p.Height == other.Height &&
		p.CRS == other.CRS
}

// CheckOverlap checks whether two grids can be aligned with each other: they
// must share the same coordinate system and cell size, their cells must line up
// exactly and their extents must intersect.
func (p SpatialContext) CheckOverlap(other SpatialContext) bool {
	if p.CRS != other.CRS || !p.isNorthUp() || !other.isNorthUp() {
		return false
	} else if math.Abs(p.Transform.A-other.Transform.A) > tolerance ||
		math.Abs(p.Transform.E-other.Transform.E) > tolerance {
		return false
	} else if !aligned(p.Transform.C-other.Transform.C, p.Transform.A) ||
		!aligned(p.Transform.F-other.Transform.F, p.Transform.E) {
		return false
	}
	//
	lhs, rhs := p.Extent(), other.Extent()
	//
	return lhs.UpperLeft.X < rhs.LowerRight.X && rhs.UpperLeft.X < lhs.LowerRight.X &&
		lhs.LowerRight.Y < rhs.UpperLeft.Y && rhs.LowerRight.Y < lhs.UpperLeft.Y
}

// Intersect returns the context covering only the area shared by both
// contexts, or false if they do not overlap.
func (p SpatialContext) Intersect(other SpatialContext) (SpatialContext, bool) {
	if !p.CheckOverlap(other) {
		return SpatialContext{}, false
	}
	//
	lhs, rhs := p.Extent(), other.Extent()
	left := max(lhs.UpperLeft.X, rhs.UpperLeft.X)
	top := min(lhs.UpperLeft.Y, rhs.UpperLeft.Y)
	right := min(lhs.LowerRight.X, rhs.LowerRight.X)
	bottom := max(lhs.LowerRight.Y, rhs.LowerRight.Y)
	//
	t := p.Transform
	t.C, t.F = left, top
	//
	return SpatialContext{
		Transform: t,
		Width:     uint(math.Round((right - left) / t.A)),
		Height:    uint(math.Round((bottom - top) / t.E)),
		CRS:       p.CRS,
	}, true
}

// ReadWindow determines the window within the other grid which covers exactly
// this grid.  This fails if this grid is not aligned with, or not contained
// within, the other grid.
func (p SpatialContext) ReadWindow(other SpatialContext) (Window, bool) {
	if !p.CheckOverlap(other) {
		return Window{}, false
	}
	//
	col := math.Round((p.Transform.C - other.Transform.C) / other.Transform.A)
	row := math.Round((p.Transform.F - other.Transform.F) / other.Transform.E)
	//
	if col < 0 || row < 0 || uint(col)+p.Width > other.Width || uint(row)+p.Height > other.Height {
		return Window{}, false
	}
	//
	return Window{uint(row), uint(row) + p.Height, uint(col), uint(col) + p.Width}, true
}

// Mismatch describes how this grid differs from the other grid, in terms of
// the other grid's rows and columns where possible.  This returns an empty
// string when both contexts are equal.
func (p SpatialContext) Mismatch(other SpatialContext) string {
	if p.Equal(other) {
		return ""
	} else if p.CRS != other.CRS {
		return fmt.Sprintf("has coordinate system \"%s\" (expected \"%s\")", p.CRS, other.CRS)
	} else if !p.CheckOverlap(other) {
		return "is not aligned with, or does not overlap, the expected grid"
	} else if w, ok := p.ReadWindow(other); ok {
		return fmt.Sprintf("covers only rows %d-%d and columns %d-%d of the expected %dx%d grid", w.RowStart,
			w.RowEnd-1, w.ColStart, w.ColEnd-1, other.Height, other.Width)
	}
	//
	shared, _ := p.Intersect(other)
	//
	return fmt.Sprintf("shares only %dx%d cells with the expected %dx%d grid", shared.Height, shared.Width,
		other.Height, other.Width)
}

func (p SpatialContext) String() string {
	e := p.Extent()
	//
	return fmt.Sprintf("Extent: ((%v, %v), (%v, %v))\n\n%s\n\nwidth: %d, height: %d\n\nProjection: %s",
		e.UpperLeft.X, e.UpperLeft.Y, e.LowerRight.X, e.LowerRight.Y, p.Transform, p.Width, p.Height, p.CRS)
}

func (p SpatialContext) isNorthUp() bool {
	return p.Transform.B == 0 && p.Transform.D == 0 && p.Transform.A > 0 && p.Transform.E < 0
}

// Check whether a given offset is a whole number of cells.
func aligned(offset float64, cellsize float64) bool {
	cells := offset / cellsize
	//
	return math.Abs(cells-math.Round(cells)) < tolerance
}
