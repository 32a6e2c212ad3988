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
package floodplain

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nichevl/go-niche/pkg/codetable"
	"github.com/nichevl/go-niche/pkg/grid"
	"github.com/nichevl/go-niche/pkg/raster"
	"github.com/nichevl/go-niche/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FloodPlain_Defaults(t *testing.T) {
	fp, err := NewDefault("")
	require.NoError(t, err)
	//
	codes := fp.VegCodes()
	assert.Len(t, codes, 28)
	assert.Equal(t, 1, codes[0])
	assert.False(t, fp.Calculated())
}

func Test_FloodPlain_Calculate(t *testing.T) {
	fp := newDefault(t)
	depth := depthGrid(t)
	//
	require.NoError(t, fp.Calculate(depth, "T2", 1, SUMMER))
	assert.True(t, fp.Calculated())
	assert.Equal(t, Options{"T2", 1, SUMMER}, fp.Options())
	//
	veg, err := fp.Result(1)
	require.NoError(t, err)
	assert.Equal(t, []int16{3, 3, 2, grid.NO_DATA}, veg.Raw(grid.NO_DATA))
	// Every vegetation type is present, with nodata preserved
	for _, code := range fp.VegCodes() {
		g, ok := fp.Vegetation(code)
		require.True(t, ok)
		assert.True(t, g.IsNoData(3))
	}
}

func Test_FloodPlain_NoFlooding(t *testing.T) {
	fp := newDefault(t)
	depth, err := grid.FromRows([][]int16{{0, 0}, {1, grid.NO_DATA}}, grid.NO_DATA)
	require.NoError(t, err)
	//
	require.NoError(t, fp.Calculate(depth, "T10", 2, WINTER))
	//
	veg, err := fp.Result(5)
	require.NoError(t, err)
	// Depth 0 never occurs in lnk_potential
	assert.Equal(t, []int16{NO_INFORMATION, NO_INFORMATION, 3, grid.NO_DATA}, veg.Raw(grid.NO_DATA))
}

func Test_FloodPlain_SentinelDepth(t *testing.T) {
	dir := t.TempDir()
	// Declared nodata differs from the sentinel
	declared := filepath.Join(dir, "declared.asc")
	contents := "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\nNODATA_value -9999\n1 -99\n2 -9999\n"
	require.NoError(t, os.WriteFile(declared, []byte(contents), 0o644))
	//
	fp := newDefault(t)
	require.NoError(t, fp.CalculateFile(declared, "T2", 1, SUMMER))
	//
	veg, err := fp.Result(1)
	require.NoError(t, err)
	assert.Equal(t, []int16{3, grid.NO_DATA, 2, grid.NO_DATA}, veg.Raw(grid.NO_DATA))
	assert.Equal(t, uint(2), veg.CountNoData())
	// No nodata declared at all
	undeclared := filepath.Join(dir, "undeclared.asc")
	contents = "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 -99\n2 1\n"
	require.NoError(t, os.WriteFile(undeclared, []byte(contents), 0o644))
	//
	require.NoError(t, fp.CalculateFile(undeclared, "T2", 1, SUMMER))
	//
	veg, err = fp.Result(1)
	require.NoError(t, err)
	assert.Equal(t, []int16{3, grid.NO_DATA, 2, 3}, veg.Raw(grid.NO_DATA))
	assert.True(t, veg.IsNoData(1))
	// Raw grid without sentinels
	depth, err := grid.FromRaw(1, 2, []int16{1, grid.NO_DATA})
	require.NoError(t, err)
	//
	require.NoError(t, fp.Calculate(depth, "T2", 1, SUMMER))
	//
	veg, err = fp.Result(1)
	require.NoError(t, err)
	assert.Equal(t, []int16{3, grid.NO_DATA}, veg.Raw(grid.NO_DATA))
	assert.True(t, veg.IsNoData(1))
	// Input left untouched
	assert.False(t, depth.IsNoData(1))
}

func Test_FloodPlain_NoMatchingScenario(t *testing.T) {
	tables := customTables(t, `period,frequency,duration,veg_code,depth,potential
summer,T2,1,1,1,3
winter,T10,1,1,1,2
`)
	fp, err := New(tables, "")
	require.NoError(t, err)
	//
	require.NoError(t, fp.Calculate(depthGrid(t), "T2", 1, WINTER))
	//
	veg, err := fp.Result(1)
	require.NoError(t, err)
	assert.Equal(t, []int16{4, 4, 4, grid.NO_DATA}, veg.Raw(grid.NO_DATA))
}

func Test_FloodPlain_MaximumWins(t *testing.T) {
	tables := customTables(t, `period,frequency,duration,veg_code,depth,potential
summer,T2,1,1,1,1
summer,T2,1,1,1,3
summer,T2,1,1,1,2
summer,T2,1,1,2,0
summer,T10,1,1,1,0
`)
	fp, err := New(tables, "")
	require.NoError(t, err)
	//
	require.NoError(t, fp.Calculate(depthGrid(t), "T2", 1, SUMMER))
	//
	veg, err := fp.Result(1)
	require.NoError(t, err)
	// A single matching entry replaces the default, even when lower
	assert.Equal(t, []int16{3, 3, 0, grid.NO_DATA}, veg.Raw(grid.NO_DATA))
}

func Test_FloodPlain_InvalidTables(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)
	//
	tables.Duration, err = codetable.ReadCSV("duration", strings.NewReader("code,description\n1,a\n2,b\n3,c\n"))
	require.NoError(t, err)
	//
	_, err = New(tables, "")
	//
	var tableErr *validate.TableError
	require.True(t, errors.As(err, &tableErr))
	assert.Equal(t, validate.JOIN, tableErr.Check)
	//
	tables.Duration = nil
	_, err = New(tables, "")
	require.True(t, errors.As(err, &tableErr))
	assert.Equal(t, validate.PRESENCE, tableErr.Check)
}

func Test_FloodPlain_InvalidInputs(t *testing.T) {
	fp := newDefault(t)
	//
	depth, err := grid.FromRows([][]int16{{1, 7}}, grid.NO_DATA)
	require.NoError(t, err)
	//
	var codeErr *validate.CodeError
	//
	err = fp.Calculate(depth, "T2", 1, SUMMER)
	require.True(t, errors.As(err, &codeErr))
	assert.Equal(t, "depth", codeErr.Name)
	assert.False(t, fp.Calculated())
	//
	err = fp.Calculate(depthGrid(t), "T3", 1, SUMMER)
	require.True(t, errors.As(err, &codeErr))
	assert.Equal(t, "frequency", codeErr.Name)
	//
	err = fp.Calculate(depthGrid(t), "T2", 3, SUMMER)
	require.True(t, errors.As(err, &codeErr))
	assert.Equal(t, "duration", codeErr.Name)
	//
	err = fp.Calculate(depthGrid(t), "T2", 1, Period("spring"))
	require.True(t, errors.As(err, &codeErr))
	assert.Equal(t, "period", codeErr.Name)
	//
	_, err = ParsePeriod("autumn")
	assert.Error(t, err)
	//
	p, err := ParsePeriod("winter")
	require.NoError(t, err)
	assert.Equal(t, WINTER, p)
}

func Test_FloodPlain_FailureKeepsResults(t *testing.T) {
	fp := newDefault(t)
	require.NoError(t, fp.Calculate(depthGrid(t), "T2", 1, SUMMER))
	//
	require.Error(t, fp.Calculate(depthGrid(t), "T2", 9, SUMMER))
	assert.Equal(t, Options{"T2", 1, SUMMER}, fp.Options())
}

func Test_FloodPlain_Idempotent(t *testing.T) {
	fp := newDefault(t)
	require.NoError(t, fp.Calculate(depthGrid(t), "T25", 2, WINTER))
	//
	first := make(map[int][]int16)
	for _, code := range fp.VegCodes() {
		g, _ := fp.Vegetation(code)
		first[code] = g.Raw(grid.NO_DATA)
	}
	//
	require.NoError(t, fp.Calculate(depthGrid(t), "T25", 2, WINTER))
	//
	for _, code := range fp.VegCodes() {
		g, _ := fp.Vegetation(code)
		assert.Equal(t, first[code], g.Raw(grid.NO_DATA))
	}
}

func Test_FloodPlain_Result(t *testing.T) {
	fp := newDefault(t)
	//
	var fpErr *Error
	//
	_, err := fp.Result(1)
	assert.True(t, errors.As(err, &fpErr))
	//
	require.NoError(t, fp.Calculate(depthGrid(t), "T2", 1, SUMMER))
	//
	_, err = fp.Result(99)
	assert.True(t, errors.As(err, &fpErr))
}

func Test_FloodPlain_Combine(t *testing.T) {
	fp := newDefault(t)
	depth := depthGrid(t)
	ctx := unitContext(depth)
	suitability := NewSuitabilitySet(ctx)
	//
	var fpErr *Error
	// Neither side calculated
	_, err := fp.Combine(suitability)
	assert.True(t, errors.As(err, &fpErr))
	//
	for _, code := range fp.VegCodes() {
		g, err := grid.FromRows([][]int16{{1, 0}, {grid.NO_DATA_COMPUTED, 1}}, grid.NO_DATA, grid.NO_DATA_COMPUTED)
		require.NoError(t, err)
		require.NoError(t, suitability.Add(code, g))
	}
	// Floodplain not calculated
	_, err = fp.Combine(suitability)
	assert.True(t, errors.As(err, &fpErr))
	//
	require.NoError(t, fp.Calculate(depth, "T2", 1, SUMMER))
	//
	combined, err := fp.Combine(suitability)
	require.NoError(t, err)
	//
	veg, err := combined.Result(1)
	require.NoError(t, err)
	assert.Equal(t, []int16{3, 0, grid.NO_DATA, grid.NO_DATA}, veg.Raw(grid.NO_DATA))
	// Receiver untouched
	orig, err := fp.Result(1)
	require.NoError(t, err)
	assert.Equal(t, []int16{3, 3, 2, grid.NO_DATA}, orig.Raw(grid.NO_DATA))
	// Combining again works on the combined result
	twice, err := combined.Combine(suitability)
	require.NoError(t, err)
	veg, _ = twice.Result(1)
	assert.Equal(t, []int16{3, 0, grid.NO_DATA, grid.NO_DATA}, veg.Raw(grid.NO_DATA))
}

func Test_FloodPlain_CombineMismatch(t *testing.T) {
	fp := newDefault(t)
	depth := depthGrid(t)
	require.NoError(t, fp.Calculate(depth, "T2", 1, SUMMER))
	//
	var fpErr *Error
	// Different context
	shifted := unitContext(depth)
	shifted.Transform = raster.NewAffine(10, 2, 1)
	other := NewSuitabilitySet(shifted)
	require.NoError(t, other.Add(1, grid.Full(2, 2, 1)))
	//
	_, err := fp.Combine(other)
	assert.True(t, errors.As(err, &fpErr))
	assert.Contains(t, err.Error(), "does not overlap")
	// Missing vegetation type
	partial := NewSuitabilitySet(unitContext(depth))
	require.NoError(t, partial.Add(1, grid.Full(2, 2, 1)))
	//
	_, err = fp.Combine(partial)
	assert.True(t, errors.As(err, &fpErr))
	// Wrong shape
	assert.Error(t, partial.Add(2, grid.Full(1, 4, 1)))
}

func Test_SuitabilitySet_AddFile(t *testing.T) {
	dir := t.TempDir()
	depth := depthGrid(t)
	ctx := unitContext(depth)
	filename := filepath.Join(dir, "v01.asc")
	//
	veg, err := grid.FromRows([][]int16{{1, grid.NO_DATA_COMPUTED}, {0, 1}})
	require.NoError(t, err)
	require.NoError(t, raster.WriteASCII(filename, veg, ctx, grid.NO_DATA))
	//
	set := NewSuitabilitySet(ctx)
	require.NoError(t, set.AddFile(1, filename))
	//
	g, ok := set.Vegetation(1)
	require.True(t, ok)
	assert.Equal(t, []int16{1, grid.NO_DATA, 0, 1}, g.Raw(grid.NO_DATA))
	assert.Equal(t, []int{1}, set.VegCodes())
	//
	other := NewSuitabilitySet(raster.SpatialContext{Transform: raster.NewAffine(0, 0, 5), Width: 2, Height: 2})
	assert.Error(t, other.AddFile(1, filename))
	// Grid covering part of the expected area
	var fpErr *Error
	//
	larger := NewSuitabilitySet(raster.SpatialContext{Transform: raster.NewAffine(-1, 3, 1), Width: 4, Height: 4})
	err = larger.AddFile(1, filename)
	require.True(t, errors.As(err, &fpErr))
	assert.Contains(t, err.Error(), "covers only rows 1-2 and columns 1-2 of the expected 4x4 grid")
	assert.False(t, larger.VegetationCalculated())
	// Grid with cells not lining up
	offset := NewSuitabilitySet(raster.SpatialContext{Transform: raster.NewAffine(0.5, 2, 1), Width: 2, Height: 2})
	err = offset.AddFile(1, filename)
	require.True(t, errors.As(err, &fpErr))
	assert.Contains(t, err.Error(), "not aligned")
}

func Test_FloodPlain_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	fp, err := NewDefault("scenario")
	require.NoError(t, err)
	//
	_, err = fp.Write(dir)
	assert.Error(t, err)
	//
	require.NoError(t, fp.Calculate(depthGrid(t), "T10", 2, WINTER))
	//
	files, err := fp.Write(dir)
	require.NoError(t, err)
	assert.Len(t, files, 28)
	//
	path, ok := files["scenario-F01-T10-P2-winter.asc"]
	require.True(t, ok)
	//
	g, ctx, err := raster.ReadASCII(path)
	require.NoError(t, err)
	assert.True(t, ctx.Equal(fp.Context()))
	assert.Equal(t, []int16{3, 3, 2, grid.NO_DATA}, g.Raw(grid.NO_DATA))
	//
	bytes, err := os.ReadFile(filepath.Join(dir, MANIFEST))
	require.NoError(t, err)
	//
	var manifest Manifest
	require.NoError(t, json.Unmarshal(bytes, &manifest))
	assert.NotEmpty(t, manifest.RunID)
	assert.Equal(t, "scenario", manifest.Name)
	assert.Equal(t, Options{"T10", 2, WINTER}, manifest.Options)
	assert.Equal(t, files, manifest.Files)
}

func Test_FloodPlain_Filename(t *testing.T) {
	fp := newDefault(t)
	require.NoError(t, fp.Calculate(depthGrid(t), "T100", 1, SUMMER))
	assert.Equal(t, "F12-T100-P1-summer.asc", fp.Filename(12))
}

func Test_FloodPlain_Summary(t *testing.T) {
	fp := newDefault(t)
	//
	_, err := fp.Summary()
	assert.Error(t, err)
	//
	require.NoError(t, fp.Calculate(depthGrid(t), "T2", 1, SUMMER))
	//
	rows, err := fp.Summary()
	require.NoError(t, err)
	// five potentials plus nodata, per vegetation type
	require.Len(t, rows, 28*6)
	//
	assert.Equal(t, SummaryRow{1, 2, "moderately compatible", 1}, rows[2])
	assert.Equal(t, SummaryRow{1, 3, "compatible", 2}, rows[3])
	assert.Equal(t, SummaryRow{1, 4, "no information", 0}, rows[4])
	assert.Equal(t, SummaryRow{1, grid.NO_DATA, "no data", 1}, rows[5])
}

func Test_FloodPlain_SummaryRange(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)
	//
	tables.Potential, err = codetable.ReadCSV("potential", strings.NewReader("code,description\n3,compatible\n40000,bogus\n"))
	require.NoError(t, err)
	//
	fp, err := New(tables, "")
	require.NoError(t, err)
	require.NoError(t, fp.Calculate(depthGrid(t), "T2", 1, SUMMER))
	//
	rows, err := fp.Summary()
	assert.Error(t, err)
	assert.Nil(t, rows)
}

func Test_LoadTables(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "duration.yaml")
	yaml := "- code: 1\n  description: short\n- code: 2\n  description: long\n"
	require.NoError(t, os.WriteFile(filename, []byte(yaml), 0o644))
	//
	loader := codetable.NewLoader()
	//
	tables, err := LoadTables(Sources{Duration: filename}, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, loader.Len())
	//
	descriptions, err := tables.Duration.Strings("description")
	require.NoError(t, err)
	assert.Equal(t, []string{"short", "long"}, descriptions)
	//
	_, err = New(tables, "")
	require.NoError(t, err)
	//
	_, err = LoadTables(Sources{Depths: filepath.Join(dir, "missing.csv")}, nil)
	assert.Error(t, err)
}

func newDefault(t *testing.T) *FloodPlain {
	fp, err := NewDefault("")
	require.NoError(t, err)
	//
	return fp
}

func depthGrid(t *testing.T) *grid.Grid {
	depth, err := grid.FromRows([][]int16{{1, 1}, {2, grid.NO_DATA}}, grid.NO_DATA)
	require.NoError(t, err)
	//
	return depth
}

func unitContext(g *grid.Grid) raster.SpatialContext {
	rows, cols := g.Shape()
	return raster.SpatialContext{Transform: raster.NewAffine(0, float64(rows), 1), Width: cols, Height: rows}
}

func customTables(t *testing.T, lnk string) Tables {
	tables, err := DefaultTables()
	require.NoError(t, err)
	//
	tables.LnkPotential, err = codetable.ReadCSV("lnk_potential", strings.NewReader(lnk))
	require.NoError(t, err)
	//
	tables.Duration, err = codetable.ReadCSV("duration", strings.NewReader("code\n1\n"))
	require.NoError(t, err)
	//
	tables.Frequency, err = codetable.ReadCSV("frequency", strings.NewReader("code\nT2\nT10\n"))
	require.NoError(t, err)
	//
	return tables
}
