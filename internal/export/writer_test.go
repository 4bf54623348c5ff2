package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"fieldscan/internal/extract"
	"fieldscan/internal/job"
)

func record(page int, kv ...string) *extract.Record {
	rec := extract.NewRecord(page)
	for i := 0; i+1 < len(kv); i += 2 {
		rec.Set(kv[i], kv[i+1])
	}
	return rec
}

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheetName, ref)
	if err != nil {
		t.Fatalf("read %s: %v", ref, err)
	}
	return v
}

func TestWriteTabular(t *testing.T) {
	j := &job.Job{
		InputPDF: "a.pdf",
		PageCell: job.DefaultPageCell,
		Fields:   []job.Field{{Name: "X"}},
	}
	records := []*extract.Record{
		record(1, "X", "10"),
		record(2, "X", "20"),
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")

	if err := NewWriter(j).Write(records, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f := openWorkbook(t, path)
	want := map[string]string{
		"A1": "Page", "B1": "X",
		"A2": "1", "B2": "10",
		"A3": "2", "B3": "20",
	}
	for ref, v := range want {
		if got := cell(t, f, ref); got != v {
			t.Errorf("%s = %q, want %q", ref, got, v)
		}
	}
}

func TestWriteTabularMissingKeysRenderEmpty(t *testing.T) {
	j := &job.Job{
		InputPDF: "a.pdf",
		PageCell: job.DefaultPageCell,
		Fields:   []job.Field{{Name: "X"}, {Name: "Y", PageIndex: 2}},
	}
	records := []*extract.Record{
		record(1, "X", "10"),
		record(2, "X", "20", "Y", "v"),
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")

	if err := NewWriter(j).Write(records, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f := openWorkbook(t, path)
	if got := cell(t, f, "C1"); got != "Y" {
		t.Errorf("C1 = %q, want Y", got)
	}
	if got := cell(t, f, "C2"); got != "" {
		t.Errorf("C2 = %q, want empty (Y absent on page 1)", got)
	}
	if got := cell(t, f, "C3"); got != "v" {
		t.Errorf("C3 = %q, want v", got)
	}
}

func TestWriteAnchored(t *testing.T) {
	j := &job.Job{
		InputPDF: "a.pdf",
		PageCell: job.DefaultPageCell,
		Fields: []job.Field{
			{Name: "Alpha", Cell: "B2"},
			{Name: "Beta", Cell: "C2"},
		},
	}
	records := []*extract.Record{
		record(1, "Alpha", "a1", "Beta", "b1"),
		record(2, "Alpha", "a2", "Beta", "b2"),
		record(3, "Alpha", "a3", "Beta", "b3"),
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")

	if err := NewWriter(j).Write(records, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f := openWorkbook(t, path)
	want := map[string]string{
		// Headers one row above the anchors.
		"A1": "Page", "B1": "Alpha", "C1": "Beta",
		// Page column at the default A2 anchor.
		"A2": "1", "A3": "2", "A4": "3",
		// Field values at anchor_row + record offset.
		"B2": "a1", "B3": "a2", "B4": "a3",
		"C2": "b1", "C3": "b2", "C4": "b3",
	}
	for ref, v := range want {
		if got := cell(t, f, ref); got != v {
			t.Errorf("%s = %q, want %q", ref, got, v)
		}
	}
}

func TestWriteAnchoredOffsetIsRecordIndex(t *testing.T) {
	// A field restricted to page 3 of a 3-page document still lands rows by
	// record offset, so pages missing the field leave gaps while the page
	// column stays dense.
	j := &job.Job{
		InputPDF: "a.pdf",
		PageCell: job.DefaultPageCell,
		Fields:   []job.Field{{Name: "Last", PageIndex: 3, Cell: "B2"}},
	}
	records := []*extract.Record{
		record(1),
		record(2),
		record(3, "Last", "x"),
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")

	if err := NewWriter(j).Write(records, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f := openWorkbook(t, path)
	if got := cell(t, f, "B2"); got != "" {
		t.Errorf("B2 = %q, want empty (page 1 has no value)", got)
	}
	if got := cell(t, f, "B4"); got != "x" {
		t.Errorf("B4 = %q, want x (record offset 2)", got)
	}
	if got := cell(t, f, "A4"); got != "3" {
		t.Errorf("A4 = %q, want 3", got)
	}
}

func TestWriteAnchoredOmitPageColumn(t *testing.T) {
	j := &job.Job{
		InputPDF:       "a.pdf",
		PageCell:       job.DefaultPageCell,
		OmitPageColumn: true,
		Fields:         []job.Field{{Name: "Alpha", Cell: "B2"}},
	}
	records := []*extract.Record{record(1, "Alpha", "a1")}
	path := filepath.Join(t.TempDir(), "out.xlsx")

	if err := NewWriter(j).Write(records, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f := openWorkbook(t, path)
	if got := cell(t, f, "A1"); got != "" {
		t.Errorf("A1 = %q, want empty with omit_page_column", got)
	}
	if got := cell(t, f, "A2"); got != "" {
		t.Errorf("A2 = %q, want empty with omit_page_column", got)
	}
}

func TestWriteMalformedAnchorWritesNothing(t *testing.T) {
	j := &job.Job{
		InputPDF: "a.pdf",
		PageCell: job.DefaultPageCell,
		Fields:   []job.Field{{Name: "Alpha", Cell: "2B"}},
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")

	err := NewWriter(j).Write([]*extract.Record{record(1, "Alpha", "x")}, path)
	if !errors.Is(err, ErrCellRef) {
		t.Fatalf("err = %v, want ErrCellRef", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("no output file should exist after a cell reference error")
	}
}

func TestWriteCreatesParentDirectories(t *testing.T) {
	j := &job.Job{
		InputPDF: "a.pdf",
		PageCell: job.DefaultPageCell,
		Fields:   []job.Field{{Name: "X"}},
	}
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.xlsx")

	if err := NewWriter(j).Write([]*extract.Record{record(1, "X", "10")}, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}
