// Package input reads batch URL lists from text, CSV, or XLSX files.
package input

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// urlHeader names the column read from tabular files. Without it the first
// column is used and no header row is assumed.
const urlHeader = "url"

// ReadURLs loads URLs from path, choosing the parser by extension: .csv,
// .xlsx, otherwise one URL per line. Blank entries and lines starting with
// '#' are skipped; duplicates are dropped keeping the first occurrence.
func ReadURLs(path string) ([]string, error) {
	var (
		raw []string
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		raw, err = readCSV(path)
	case ".xlsx":
		raw, err = readXLSX(path)
	default:
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "input: open")
		}
		defer f.Close() //nolint:errcheck
		raw, err = ParseLines(f)
	}
	if err != nil {
		return nil, err
	}
	return clean(raw), nil
}

// ParseLines reads one URL per line from r.
func ParseLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "input: scan lines")
	}
	return clean(out), nil
}

func readCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "input: open csv")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "input: read csv")
	}
	return column(rows), nil
}

func readXLSX(path string) ([]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "input: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("input: %s has no sheets", path)
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return column(rows), nil
}

// column picks the URL column out of tabular rows.
func column(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}
	idx := 0
	start := 0
	for j, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), urlHeader) {
			idx, start = j, 1
			break
		}
	}

	out := make([]string, 0, len(rows)-start)
	for _, row := range rows[start:] {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}

func clean(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if seen[s] {
			zap.L().Debug("input: skipping duplicate url", zap.String("url", s))
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
