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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nichevl/go-niche/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const small = `ncols 7
nrows 6
xllcorner 172762.5
yllcorner 210637.5
cellsize 25
NODATA_value -99
1 1 1 2 2 2 -99
1 1 1 2 2 2 -99
1 1 1 2 2 3 3
0 0 1 2 2 3 3
0 0 1 2 3 3 3
0 0 0 -99 3 3 3
`

func Test_Context_Extent(t *testing.T) {
	_, ctx, err := DecodeASCII(strings.NewReader(small))
	require.NoError(t, err)
	//
	e := ctx.Extent()
	assert.Equal(t, Point{172762.5, 210787.5}, e.UpperLeft)
	assert.Equal(t, Point{172937.5, 210637.5}, e.LowerRight)
	assert.Equal(t, uint(7), ctx.Width)
	assert.Equal(t, uint(6), ctx.Height)
}

func Test_Context_Equal(t *testing.T) {
	lhs := SpatialContext{NewAffine(0, 100, 10), 10, 10, "EPSG:31370"}
	rhs := lhs
	assert.True(t, lhs.Equal(rhs))
	//
	rhs.CRS = "EPSG:4326"
	assert.False(t, lhs.Equal(rhs))
	//
	rhs = lhs
	rhs.Transform.C += 0.5
	assert.False(t, lhs.Equal(rhs))
	//
	rhs = lhs
	rhs.Width = 11
	assert.False(t, lhs.Equal(rhs))
}

func Test_Context_Overlap(t *testing.T) {
	big := SpatialContext{NewAffine(0, 100, 10), 10, 10, ""}
	part := SpatialContext{NewAffine(20, 80, 10), 3, 4, ""}
	moved := SpatialContext{NewAffine(20.5, 80, 10), 3, 4, ""}
	far := SpatialContext{NewAffine(1000, 1000, 10), 3, 4, ""}
	//
	assert.True(t, big.CheckOverlap(part))
	assert.True(t, part.CheckOverlap(big))
	assert.False(t, big.CheckOverlap(moved))
	assert.False(t, big.CheckOverlap(far))
	//
	w, ok := part.ReadWindow(big)
	require.True(t, ok)
	assert.Equal(t, Window{2, 6, 2, 5}, w)
	//
	w, ok = big.ReadWindow(big)
	require.True(t, ok)
	assert.Equal(t, Window{0, 10, 0, 10}, w)
	// big is not contained in part
	_, ok = big.ReadWindow(part)
	assert.False(t, ok)
	//
	ctx, ok := big.Intersect(part)
	require.True(t, ok)
	assert.True(t, ctx.Equal(part))
	//
	_, ok = big.Intersect(far)
	assert.False(t, ok)
}

func Test_Context_Mismatch(t *testing.T) {
	big := SpatialContext{NewAffine(0, 100, 10), 10, 10, ""}
	part := SpatialContext{NewAffine(20, 80, 10), 3, 4, ""}
	shifted := SpatialContext{NewAffine(80, 100, 10), 4, 2, ""}
	moved := SpatialContext{NewAffine(20.5, 80, 10), 3, 4, ""}
	//
	assert.Empty(t, big.Mismatch(big))
	assert.Equal(t, "covers only rows 2-5 and columns 2-4 of the expected 10x10 grid", part.Mismatch(big))
	assert.Equal(t, "shares only 2x2 cells with the expected 10x10 grid", shifted.Mismatch(big))
	assert.Equal(t, "is not aligned with, or does not overlap, the expected grid", moved.Mismatch(big))
	//
	projected := big
	projected.CRS = "EPSG:31370"
	assert.Contains(t, projected.Mismatch(big), "EPSG:31370")
}

func Test_ASCII_Decode(t *testing.T) {
	g, _, err := DecodeASCII(strings.NewReader(small))
	require.NoError(t, err)
	//
	assert.Equal(t, uint(3), g.CountNoData())
	//
	v, ok := g.Get(2, 6)
	assert.True(t, ok)
	assert.Equal(t, int16(3), v)
	//
	_, ok = g.Get(5, 3)
	assert.False(t, ok)
}

func Test_ASCII_Centre(t *testing.T) {
	src := "ncols 1\nnrows 1\nxllcenter 5\nyllcenter 5\ncellsize 10\n4\n"
	_, ctx, err := DecodeASCII(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, NewAffine(0, 10, 10), ctx.Transform)
}

func Test_ASCII_Invalid(t *testing.T) {
	for _, src := range []string{
		"ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1\n",
		"ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1.5\n",
		"ncols 1\nnrows 1\nxllcorner 0\ncellsize 1\n1\n",
		"ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\nbogus 2\n1\n",
		"ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\nx\n",
	} {
		_, _, err := DecodeASCII(strings.NewReader(src))
		assert.Error(t, err, src)
	}
}

func Test_ASCII_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "out.asc")
	//
	g, err := grid.FromRows([][]int16{{0, 1, 4}, {grid.NO_DATA, 2, 3}}, grid.NO_DATA)
	require.NoError(t, err)
	//
	ctx := SpatialContext{NewAffine(100, 200, 25), 3, 2, "EPSG:31370"}
	require.NoError(t, WriteASCII(filename, g, ctx, grid.NO_DATA))
	//
	prj, err := os.ReadFile(filepath.Join(dir, "out.prj"))
	require.NoError(t, err)
	assert.Equal(t, "EPSG:31370\n", string(prj))
	//
	read, rctx, err := ReadASCII(filename)
	require.NoError(t, err)
	assert.True(t, ctx.Equal(rctx))
	assert.Equal(t, g.Raw(grid.NO_DATA), read.Raw(grid.NO_DATA))
	// Shape mismatch
	ctx.Width = 4
	assert.Error(t, WriteASCII(filename, g, ctx, grid.NO_DATA))
}
