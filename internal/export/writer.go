// Package export persists aggregated page records as a spreadsheet.
//
// The layout is a discriminated mode chosen once from the job
// configuration: generic tabular (row per page, column per key) when no
// field anchors a cell, coordinate-addressed (each field at its configured
// anchor) when at least one does.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"fieldscan/internal/extract"
	"fieldscan/internal/job"
	"fieldscan/internal/logger"
)

const sheetName = "Sheet1"

// Writer serializes records for one job.
type Writer struct {
	job *job.Job
	log zerolog.Logger
}

// NewWriter creates a writer for the job's configured output layout.
func NewWriter(j *job.Job) *Writer {
	return &Writer{job: j, log: logger.WithComponent("export")}
}

// Write persists the records to a spreadsheet at path, creating parent
// directories as needed and silently overwriting an existing file. All cell
// references are validated before anything is written, so a malformed
// anchor leaves no output behind.
func (w *Writer) Write(records []*extract.Record, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	var err error
	mode := w.job.OutputMode()
	switch mode {
	case job.ModeCells:
		err = w.fillAnchored(f, records)
	default:
		err = w.fillTabular(f, records)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}

	w.log.Info().
		Str("path", path).
		Int("records", len(records)).
		Bool("anchored", mode == job.ModeCells).
		Msg("Workbook written")
	return nil
}

// fillTabular writes one row per record with columns for Page and the union
// of field keys across records, in configuration order. Fields missing from
// a record render as empty cells.
func (w *Writer) fillTabular(f *excelize.File, records []*extract.Record) error {
	columns := w.tabularColumns(records)

	setCell := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, v)
	}

	if err := setCell(1, 1, "Page"); err != nil {
		return err
	}
	for i, name := range columns {
		if err := setCell(i+2, 1, name); err != nil {
			return err
		}
	}

	for i, rec := range records {
		row := i + 2
		if err := setCell(1, row, rec.Page); err != nil {
			return err
		}
		for c, name := range columns {
			value, _ := rec.Get(name)
			if err := setCell(c+2, row, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// tabularColumns returns the field names present in at least one record,
// ordered by configuration order.
func (w *Writer) tabularColumns(records []*extract.Record) []string {
	present := make(map[string]bool)
	for _, rec := range records {
		for _, name := range rec.FieldNames() {
			present[name] = true
		}
	}
	var columns []string
	for i := range w.job.Fields {
		if name := w.job.Fields[i].Name; present[name] {
			columns = append(columns, name)
		}
	}
	return columns
}

type anchor struct {
	name string
	col  int
	row  int
}

// fillAnchored places each anchored field's values below its anchor cell:
// the header one row above the anchor, record i at anchor_row + i. The
// offset is the record's position in the aggregated sequence, not its page
// number, so page-filtered runs still fill consecutive rows. Fields without
// an anchor are omitted in this mode.
func (w *Writer) fillAnchored(f *excelize.File, records []*extract.Record) error {
	anchors, pageAnchor, err := w.resolveAnchors()
	if err != nil {
		return err
	}

	setCell := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, v)
	}

	writeColumn := func(a anchor, value func(*extract.Record) (any, bool)) error {
		if a.row > 1 {
			if err := setCell(a.col, a.row-1, a.name); err != nil {
				return err
			}
		}
		for i, rec := range records {
			v, ok := value(rec)
			if !ok {
				continue
			}
			if err := setCell(a.col, a.row+i, v); err != nil {
				return err
			}
		}
		return nil
	}

	if pageAnchor != nil {
		err := writeColumn(*pageAnchor, func(rec *extract.Record) (any, bool) {
			return rec.Page, true
		})
		if err != nil {
			return err
		}
	}
	for _, a := range anchors {
		name := a.name
		err := writeColumn(a, func(rec *extract.Record) (any, bool) {
			v, ok := rec.Get(name)
			return v, ok
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveAnchors parses every configured cell reference up front so a
// malformed one fails the run before the workbook is created.
func (w *Writer) resolveAnchors() (anchors []anchor, pageAnchor *anchor, err error) {
	for i := range w.job.Fields {
		fld := &w.job.Fields[i]
		if fld.Cell == "" {
			continue
		}
		col, row, err := ParseCellRef(fld.Cell)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", fld.Name, err)
		}
		anchors = append(anchors, anchor{name: fld.Name, col: col, row: row})
	}
	if !w.job.OmitPageColumn {
		col, row, err := ParseCellRef(w.job.PageCell)
		if err != nil {
			return nil, nil, fmt.Errorf("page_cell: %w", err)
		}
		pageAnchor = &anchor{name: "Page", col: col, row: row}
	}
	return anchors, pageAnchor, nil
}
