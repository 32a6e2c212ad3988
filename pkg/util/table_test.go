package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TablePrinter_Write(t *testing.T) {
	tp := NewTablePrinter(2, 3)
	tp.SetRow(0, "code", "description")
	tp.SetRow(1, "0", "no flooding")
	tp.Set(0, 2, "1")
	tp.Set(1, 2, "< 0.25 m")
	//
	var out strings.Builder
	require.NoError(t, tp.Write(&out))
	//
	expected := "" +
		" code | description |\n" +
		"------+-------------+\n" +
		"    0 | no flooding |\n" +
		"    1 |    < 0.25 m |\n"
	assert.Equal(t, expected, out.String())
}

func Test_TablePrinter_FitWidth(t *testing.T) {
	tp := NewTablePrinter(2, 1)
	tp.SetRow(0, "abcdefghij", "klmnopqrst")
	tp.FitWidth(14)
	//
	var out strings.Builder
	require.NoError(t, tp.Write(&out))
	assert.Equal(t, " abcd | klmn |\n", out.String())
	//
	assert.Panics(t, func() { tp.SetRow(0, "x") })
}

func Test_PerfStats(t *testing.T) {
	stats := NewPerfStats()
	stats.Log("nothing")
	assert.GreaterOrEqual(t, stats.Elapsed().Nanoseconds(), int64(0))
}
