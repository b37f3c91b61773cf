package analysis

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iafilius/BlockAccuracyPlot/src/types"
)

func TestReadRecords_Basic(t *testing.T) {
	in := "session,phase,block,correct,rt_ms\n" +
		"s1,baseline,1,1,512\n" +
		"s1, baseline , 2 , 0 ,498\n" +
		"\n" +
		"s1,treatment,1,1,455\n"
	recs, err := ReadRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, types.Record{Phase: "baseline", Block: 1, Correct: 1, Line: 2}, recs[0])
	assert.Equal(t, types.Record{Phase: "baseline", Block: 2, Correct: 0, Line: 3}, recs[1])
	// blank line skipped, line numbers still track the file
	assert.Equal(t, types.Record{Phase: "treatment", Block: 1, Correct: 1, Line: 5}, recs[2])
}

func TestReadRecords_HeaderCaseAndBOM(t *testing.T) {
	in := "\ufeffPhase,BLOCK,Correct\nbaseline,1,1\n"
	recs, err := ReadRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "baseline", recs[0].Phase)
}

func TestReadRecords_DuplicateColumnUsesLast(t *testing.T) {
	// block appears twice; the second column is the one read
	in := "phase,block,correct,block\nbaseline,9,1,2\nbaseline,x,0,3\n"
	recs, err := ReadRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, types.Record{Phase: "baseline", Block: 2, Correct: 1, Line: 2}, recs[0])
	assert.Equal(t, types.Record{Phase: "baseline", Block: 3, Correct: 0, Line: 3}, recs[1])
}

func TestReadRecords_HeaderOnly(t *testing.T) {
	recs, err := ReadRecords(strings.NewReader("phase,block,correct\n"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadRecords_Errors(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		line   int
		column string
		value  string
		cause  error
	}{
		{"empty input", "", 1, "", "", ErrMissingHeader},
		{"missing column", "phase,block\nbaseline,1\n", 1, ColumnCorrect, "", ErrMissingColumn},
		{"non-integer block", "phase,block,correct\nbaseline,1,1\nbaseline,x,1\n", 3, ColumnBlock, "x", ErrInvalidBlock},
		{"negative block", "phase,block,correct\nbaseline,-2,1\n", 2, ColumnBlock, "-2", ErrInvalidBlock},
		{"non-integer correct", "phase,block,correct\nbaseline,1,yes\n", 2, ColumnCorrect, "yes", ErrInvalidCorrect},
		{"correct out of range", "phase,block,correct\nbaseline,1,2\n", 2, ColumnCorrect, "2", ErrInvalidCorrect},
		{"short row", "phase,block,correct\nbaseline,1\n", 2, ColumnCorrect, "", ErrMissingField},
		{"empty phase", "phase,block,correct\n,1,1\n", 2, ColumnPhase, "", ErrMissingField},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(c.in))
			require.Error(t, err)
			var pe *types.ParseError
			require.True(t, errors.As(err, &pe), "want ParseError, got %T: %v", err, err)
			assert.Equal(t, c.line, pe.Line)
			assert.Equal(t, c.column, pe.Column)
			assert.Equal(t, c.value, pe.Value)
			assert.ErrorIs(t, err, c.cause)
		})
	}
}

func TestReadRecords_CSVSyntaxError(t *testing.T) {
	_, err := ReadRecords(strings.NewReader("phase,block,correct\nbase\"line,1,1\n"))
	require.Error(t, err)
	var pe *types.ParseError
	require.True(t, errors.As(err, &pe), "want ParseError, got %T", err)
	assert.Equal(t, 2, pe.Line)
}

func TestReadRecordsFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")
	_, err := ReadRecordsFile(path)
	require.Error(t, err)
	var fsErr *types.FilesystemError
	require.True(t, errors.As(err, &fsErr), "want FilesystemError, got %T", err)
	assert.Equal(t, path, fsErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadRecordsFile_ParseErrorNamesPath(t *testing.T) {
	path := tempCSV(t, "phase,block,correct\nbaseline,x,1\n")
	_, err := ReadRecordsFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), `"x"`)
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "trials.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadRecordsFile_XLSXMatchesCSV(t *testing.T) {
	xlsx := writeWorkbook(t, [][]interface{}{
		{"phase", "block", "correct"},
		{"baseline", 1, 1},
		{"baseline", 1, 0},
		{"baseline", 2, 1},
		{"treatment", 1, 1},
	})
	csv := tempCSV(t, "phase,block,correct\nbaseline,1,1\nbaseline,1,0\nbaseline,2,1\ntreatment,1,1\n")

	fromXLSX, n1, err := LoadBlockAccuracy(xlsx)
	require.NoError(t, err)
	fromCSV, n2, err := LoadBlockAccuracy(csv)
	require.NoError(t, err)
	assert.Equal(t, n2, n1)
	assert.Equal(t, fromCSV, fromXLSX)
}

func TestReadRecordsFile_XLSXParseError(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"phase", "block", "correct"},
		{"baseline", 1, 1},
		{"baseline", "x", 1},
	})
	_, err := ReadRecordsFile(path)
	require.Error(t, err)
	var pe *types.ParseError
	require.True(t, errors.As(err, &pe), "want ParseError, got %T", err)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, ColumnBlock, pe.Column)
}

func TestParseRows_SkipsBlankRows(t *testing.T) {
	recs, err := parseRows([][]string{
		{"phase", "block", "correct"},
		{"baseline", "1", "1"},
		{},
		{"", " "},
		{"baseline", "1", "0"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 5, recs[1].Line)
}
