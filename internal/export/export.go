// Package export writes lead reports to disk as csv, json, yaml, or xlsx.
package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-scout/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet used for xlsx exports.
const SheetName = "leads"

// DefaultPath is the export file used when none is given.
const DefaultPath = "scored_leads.csv"

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains([]Format{FormatCSV, FormatJSON, FormatYAML, FormatXLSX}, f) {
		return "", eris.Errorf("export: unknown format %q", s)
	}
	return f, nil
}

// FormatFromPath infers the format from a file extension, defaulting to csv.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// Write saves reports to path in the given format. An empty slice writes
// nothing and is not an error.
func Write(reports []model.LeadReport, path string, format Format) error {
	if len(reports) == 0 {
		zap.L().Warn("export: no results to save", zap.String("path", path))
		return nil
	}
	if path == "" {
		path = DefaultPath
	}
	if format == "" {
		format = FormatFromPath(path)
	}

	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(reports, path)
	case FormatJSON:
		err = writeJSON(reports, path)
	case FormatYAML:
		err = writeYAML(reports, path)
	case FormatXLSX:
		err = writeXLSX(reports, path)
	default:
		return eris.Errorf("export: unknown format %q", format)
	}
	if err != nil {
		return err
	}

	zap.L().Info("export: saved results",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("count", len(reports)),
	)
	return nil
}

func writeCSV(reports []model.LeadReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create csv")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(model.ReportColumns()); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range reports {
		if err := w.Write(r.Row()); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return eris.Wrap(f.Close(), "export: close csv")
}

func writeJSON(reports []model.LeadReport, path string) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal json")
	}
	return eris.Wrap(os.WriteFile(path, append(data, '\n'), 0o644), "export: write json")
}

func writeYAML(reports []model.LeadReport, path string) error {
	data, err := yaml.Marshal(reports)
	if err != nil {
		return eris.Wrap(err, "export: marshal yaml")
	}
	return eris.Wrap(os.WriteFile(path, data, 0o644), "export: write yaml")
}

func writeXLSX(reports []model.LeadReport, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range model.ReportColumns() {
		header.AddCell().SetString(col)
	}
	for _, r := range reports {
		row := sheet.AddRow()
		for i, val := range r.Row() {
			cell := row.AddCell()
			// Score stays numeric so spreadsheets can sort on it.
			if i == scoreColumn {
				n, _ := strconv.Atoi(val)
				cell.SetInt(n)
				continue
			}
			cell.SetString(val)
		}
	}

	return eris.Wrap(f.Save(path), "export: save xlsx")
}

var scoreColumn = slices.Index(model.ReportColumns(), "Score")
