package util

import (
	"fmt"
	"io"
	"strings"
)

// TablePrinter is useful for printing tables to the terminal.
type TablePrinter struct {
	widths []uint
	rows   [][]string
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	widths := make([]uint, width)
	rows := make([][]string, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
	}
	//
	return &TablePrinter{widths, rows}
}

// Width returns the number of columns in this table.
func (p *TablePrinter) Width() uint {
	return uint(len(p.widths))
}

// Height returns the number of rows in this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(len(val)))
	p.rows[row][col] = val
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = max(p.widths[i], uint(len(vals[i])))
	}
	//
	p.rows[row] = vals
}

// SetMaxWidth puts an upper bound on the width of any column.
func (p *TablePrinter) SetMaxWidth(m uint) {
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = min(p.widths[i], m)
	}
}

// FitWidth bounds the width of columns such that a row of this table fits
// within a given number of characters (where possible).
func (p *TablePrinter) FitWidth(total uint) {
	n := uint(len(p.widths))
	// Each column is decorated with 3 characters
	if n == 0 || total <= 3*n {
		return
	}
	//
	p.SetMaxWidth(max(1, (total-3*n)/n))
}

// Print the table to stdout.
func (p *TablePrinter) Print() {
	// Writing to stdout cannot sensibly fail
	_ = p.Write(stdout{})
}

// Write the table to a given stream, separating the first row (the header)
// from the remainder.
func (p *TablePrinter) Write(w io.Writer) error {
	for i, row := range p.rows {
		var builder strings.Builder
		//
		for j, col := range row {
			jth := col
			jthWidth := p.widths[j]
			//
			if uint(len(col)) > jthWidth {
				jth = col[0:jthWidth]
			}
			//
			builder.WriteString(fmt.Sprintf(" %*s |", jthWidth, jth))
		}
		//
		if _, err := fmt.Fprintln(w, builder.String()); err != nil {
			return err
		} else if i == 0 && len(p.rows) > 1 {
			if _, err := fmt.Fprintln(w, p.separator()); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

func (p *TablePrinter) separator() string {
	var builder strings.Builder
	//
	for _, w := range p.widths {
		builder.WriteString(strings.Repeat("-", int(w)+2))
		builder.WriteString("+")
	}
	//
	return builder.String()
}

type stdout struct{}

func (stdout) Write(bytes []byte) (int, error) {
	return fmt.Print(string(bytes))
}
