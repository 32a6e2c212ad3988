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
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/nichevl/go-niche/pkg/grid"
	log "github.com/sirupsen/logrus"
)

// header of an ESRI ASCII grid.
type header struct {
	ncols, nrows uint
	x, y         float64
	// Whether x/y identify the centre (rather than the corner) of the lower
	// left cell.
	centre   bool
	cellsize float64
	nodata   *float64
}

// ReadASCII reads a single band grid in ESRI ASCII format, along with its
// spatial context.  Cells holding the file's nodata value hold no data in the
// returned grid.  If a ".prj" file exists alongside, its contents are used as
// the coordinate reference system.
func ReadASCII(filename string) (*grid.Grid, SpatialContext, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, SpatialContext{}, err
	}
	//
	defer file.Close()
	//
	g, ctx, err := DecodeASCII(file)
	if err != nil {
		return nil, SpatialContext{}, fmt.Errorf("%s: %w", filename, err)
	}
	//
	if prj, err := os.ReadFile(prjFile(filename)); err == nil {
		ctx.CRS = strings.TrimSpace(string(prj))
	}
	//
	log.Debugf("read %s (%dx%d)", filename, ctx.Height, ctx.Width)
	//
	return g, ctx, nil
}

// DecodeASCII parses a grid in ESRI ASCII format from a given stream.
func DecodeASCII(reader io.Reader) (*grid.Grid, SpatialContext, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	//
	hdr, first, err := readHeader(scanner)
	if err != nil {
		return nil, SpatialContext{}, err
	}
	//
	data := make([]int16, 0, hdr.nrows*hdr.ncols)
	mask := make([]bool, 0, hdr.nrows*hdr.ncols)
	//
	for token, ok := first, first != ""; ok; token, ok = next(scanner) {
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, SpatialContext{}, fmt.Errorf("invalid cell value \"%s\"", token)
		}
		//
		switch {
		case hdr.nodata != nil && value == *hdr.nodata:
			data = append(data, 0)
			mask = append(mask, true)
		case value != math.Trunc(value) || value < math.MinInt16 || value > math.MaxInt16:
			return nil, SpatialContext{}, fmt.Errorf("cell value %v is not a valid code", value)
		default:
			data = append(data, int16(value))
			mask = append(mask, false)
		}
	}
	//
	if err := scanner.Err(); err != nil {
		return nil, SpatialContext{}, err
	} else if uint(len(data)) != hdr.nrows*hdr.ncols {
		return nil, SpatialContext{}, fmt.Errorf("found %d cells (expected %dx%d)", len(data), hdr.nrows, hdr.ncols)
	}
	//
	g, err := grid.FromRaw(hdr.nrows, hdr.ncols, data)
	if err != nil {
		return nil, SpatialContext{}, err
	}
	//
	for i, nodata := range mask {
		if nodata {
			g.ClearAt(uint(i)/hdr.ncols, uint(i)%hdr.ncols)
		}
	}
	//
	return g, hdr.context(), nil
}

// Read header entries up to the first cell value, which is returned.
func readHeader(scanner *bufio.Scanner) (header, string, error) {
	var (
		hdr  header
		seen = make(map[string]bool)
	)
	//
	for {
		key, ok := next(scanner)
		if !ok {
			// empty grid
			break
		} else if _, err := strconv.ParseFloat(key, 64); err == nil {
			if err := hdr.check(seen); err != nil {
				return hdr, "", err
			}
			//
			return hdr, key, nil
		}
		//
		raw, ok := next(scanner)
		if !ok {
			return hdr, "", fmt.Errorf("missing value for header \"%s\"", key)
		}
		//
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return hdr, "", fmt.Errorf("invalid value \"%s\" for header \"%s\"", raw, key)
		}
		//
		key = strings.ToLower(key)
		seen[key] = true
		//
		switch key {
		case "ncols":
			hdr.ncols = uint(value)
		case "nrows":
			hdr.nrows = uint(value)
		case "xllcorner":
			hdr.x = value
		case "yllcorner":
			hdr.y = value
		case "xllcenter":
			hdr.x, hdr.centre = value, true
		case "yllcenter":
			hdr.y, hdr.centre = value, true
		case "cellsize":
			hdr.cellsize = value
		case "nodata_value":
			hdr.nodata = &value
		default:
			return hdr, "", fmt.Errorf("unknown header \"%s\"", key)
		}
	}
	//
	return hdr, "", hdr.check(seen)
}

func (p *header) check(seen map[string]bool) error {
	for _, key := range []string{"ncols", "nrows", "cellsize"} {
		if !seen[key] {
			return fmt.Errorf("missing header \"%s\"", key)
		}
	}
	//
	if !(seen["xllcorner"] || seen["xllcenter"]) || !(seen["yllcorner"] || seen["yllcenter"]) {
		return errors.New("missing lower left coordinates")
	} else if p.cellsize <= 0 {
		return fmt.Errorf("invalid cell size %v", p.cellsize)
	}
	//
	return nil
}

func (p *header) context() SpatialContext {
	x, y := p.x, p.y
	//
	if p.centre {
		x, y = x-p.cellsize/2, y-p.cellsize/2
	}
	//
	return SpatialContext{
		Transform: NewAffine(x, y+float64(p.nrows)*p.cellsize, p.cellsize),
		Width:     p.ncols,
		Height:    p.nrows,
	}
}

func next(scanner *bufio.Scanner) (string, bool) {
	if scanner.Scan() {
		return scanner.Text(), true
	}
	//
	return "", false
}

// WriteASCII writes a grid in ESRI ASCII format, using a given sentinel for
// cells without data.  The grid's shape must match the context, which must have
// square, north-up cells.  A ".prj" file is written alongside when the context
// has a coordinate reference system.
func WriteASCII(filename string, g *grid.Grid, ctx SpatialContext, nodata int16) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	//
	if err = EncodeASCII(file, g, ctx, nodata); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", filename, err)
	} else if err = file.Close(); err != nil {
		return err
	}
	//
	if ctx.CRS != "" {
		if err := os.WriteFile(prjFile(filename), []byte(ctx.CRS+"\n"), 0o644); err != nil {
			return err
		}
	}
	//
	log.Debugf("wrote %s (%dx%d)", filename, ctx.Height, ctx.Width)
	//
	return nil
}

// EncodeASCII writes a grid in ESRI ASCII format to a given stream.
func EncodeASCII(writer io.Writer, g *grid.Grid, ctx SpatialContext, nodata int16) error {
	rows, cols := g.Shape()
	t := ctx.Transform
	//
	if rows != ctx.Height || cols != ctx.Width {
		return fmt.Errorf("grid is %dx%d but context is %dx%d", rows, cols, ctx.Height, ctx.Width)
	} else if !ctx.isNorthUp() || math.Abs(t.A+t.E) > tolerance {
		return errors.New("only north-up grids with square cells are supported")
	}
	//
	out := bufio.NewWriter(writer)
	lowerLeft := t.F + t.E*float64(rows)
	//
	fmt.Fprintf(out, "ncols %d\nnrows %d\n", cols, rows)
	fmt.Fprintf(out, "xllcorner %s\nyllcorner %s\n", formatFloat(t.C), formatFloat(lowerLeft))
	fmt.Fprintf(out, "cellsize %s\nNODATA_value %d\n", formatFloat(t.A), nodata)
	//
	raw := g.Raw(nodata)
	//
	for r := uint(0); r < rows; r++ {
		for c := uint(0); c < cols; c++ {
			if c != 0 {
				out.WriteByte(' ')
			}
			//
			out.WriteString(strconv.Itoa(int(raw[r*cols+c])))
		}
		//
		out.WriteByte('\n')
	}
	//
	return out.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func prjFile(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > strings.LastIndexAny(filename, "/\\") {
		return filename[:i] + ".prj"
	}
	//
	return filename + ".prj"
}
