package analysis

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iafilius/BlockAccuracyPlot/src/logging"
	"github.com/iafilius/BlockAccuracyPlot/src/types"
)

// Column names every input must carry. Matching is case-insensitive.
const (
	ColumnPhase   = "phase"
	ColumnBlock   = "block"
	ColumnCorrect = "correct"
)

var (
	ErrMissingHeader  = errors.New("missing header row")
	ErrMissingColumn  = errors.New("required column missing from header")
	ErrMissingField   = errors.New("missing value")
	ErrInvalidBlock   = errors.New("block must be a non-negative integer")
	ErrInvalidCorrect = errors.New("correct must be 0 or 1")
)

// columnIndex maps the required columns to their position in a row.
type columnIndex struct {
	phase, block, correct int
}

func indexHeader(header []string) (columnIndex, error) {
	idx := columnIndex{phase: -1, block: -1, correct: -1}
	for i, h := range header {
		// Excel exports often prefix the first cell with a UTF-8 BOM.
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		// A repeated column name keeps its last position.
		switch name {
		case ColumnPhase:
			idx.phase = i
		case ColumnBlock:
			idx.block = i
		case ColumnCorrect:
			idx.correct = i
		}
	}
	for _, c := range []struct {
		name string
		pos  int
	}{{ColumnPhase, idx.phase}, {ColumnBlock, idx.block}, {ColumnCorrect, idx.correct}} {
		if c.pos < 0 {
			return idx, &types.ParseError{Line: 1, Column: c.name, Err: ErrMissingColumn}
		}
	}
	return idx, nil
}

func field(row []string, pos int, name string, line int) (string, error) {
	if pos >= len(row) {
		return "", &types.ParseError{Line: line, Column: name, Err: ErrMissingField}
	}
	v := strings.TrimSpace(row[pos])
	if v == "" {
		return "", &types.ParseError{Line: line, Column: name, Err: ErrMissingField}
	}
	return v, nil
}

// parse converts one data row into a Record.
func (c columnIndex) parse(row []string, line int) (types.Record, error) {
	phase, err := field(row, c.phase, ColumnPhase, line)
	if err != nil {
		return types.Record{}, err
	}
	rawBlock, err := field(row, c.block, ColumnBlock, line)
	if err != nil {
		return types.Record{}, err
	}
	block, err := strconv.Atoi(rawBlock)
	if err != nil || block < 0 {
		return types.Record{}, &types.ParseError{Line: line, Column: ColumnBlock, Value: rawBlock, Err: ErrInvalidBlock}
	}
	rawCorrect, err := field(row, c.correct, ColumnCorrect, line)
	if err != nil {
		return types.Record{}, err
	}
	correct, err := strconv.Atoi(rawCorrect)
	if err != nil || (correct != 0 && correct != 1) {
		return types.Record{}, &types.ParseError{Line: line, Column: ColumnCorrect, Value: rawCorrect, Err: ErrInvalidCorrect}
	}
	return types.Record{Phase: phase, Block: block, Correct: correct, Line: line}, nil
}

// ReadRecords decodes comma-separated records with a header row.
// Rows are returned in input order. The first malformed row aborts the read.
func ReadRecords(r io.Reader) ([]types.Record, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1 // short rows are reported per field below
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &types.ParseError{Line: 1, Err: ErrMissingHeader}
	}
	if err != nil {
		return nil, csvError(err)
	}
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}
	var out []types.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := cr.FieldPos(0)
		rec, err := idx.parse(row, line)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// csvError converts encoding/csv syntax errors into ParseErrors; I/O errors pass through.
func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &types.ParseError{Line: pe.Line, Err: pe.Err}
	}
	return err
}

// ReadRecordsFile reads records from path. Files ending in .xlsx are read from
// their first sheet; anything else is parsed as CSV.
func ReadRecordsFile(path string) ([]types.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readWorkbook(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.FilesystemError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	recs, err := ReadRecords(f)
	if err != nil {
		var pe *types.ParseError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, &types.FilesystemError{Op: "read", Path: path, Err: err}
	}
	logging.Debugf("read %d csv records from %s", len(recs), path)
	return recs, nil
}

func readWorkbook(path string) ([]types.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &types.FilesystemError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, &types.ParseError{Line: 1, Err: ErrMissingHeader})
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &types.FilesystemError{Op: "read", Path: path, Err: err}
	}
	recs, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Debugf("read %d records from sheet %q of %s", len(recs), sheets[0], path)
	return recs, nil
}

// parseRows handles already-split rows; row i is reported as line i+1.
func parseRows(rows [][]string) ([]types.Record, error) {
	if len(rows) == 0 {
		return nil, &types.ParseError{Line: 1, Err: ErrMissingHeader}
	}
	idx, err := indexHeader(rows[0])
	if err != nil {
		return nil, err
	}
	out := make([]types.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rec, err := idx.parse(row, i+2)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
