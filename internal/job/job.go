// Package job loads and validates the job configuration that drives a
// fieldscan run: which PDF to read, which pixel regions to recognize on
// which pages, and where the results go.
//
// The configuration is a JSON file selected by the FIELDSCAN_CONFIG
// environment variable (or the --config flag), defaulting to config.json
// in the working directory.
package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Common configuration errors.
var (
	// ErrConfigNotFound is returned when the job configuration file does not exist.
	ErrConfigNotFound = errors.New("job configuration file not found")

	// ErrGeometry is returned when a field's crop rectangle is degenerate
	// (left >= right or top >= bottom) or lies outside the page bounds.
	ErrGeometry = errors.New("invalid crop geometry")

	// ErrInvalidConfig is returned when a required configuration key is
	// missing or malformed.
	ErrInvalidConfig = errors.New("invalid job configuration")
)

// DefaultWhitelist restricts recognition to digits and the decimal point.
// It applies to fields that do not set ocr_whitelist at all; an explicitly
// empty whitelist means unrestricted recognition.
const DefaultWhitelist = "0123456789."

// DefaultPageCell anchors the page-number column in coordinate-addressed
// output when page_cell is not configured.
const DefaultPageCell = "A2"

// PageAll marks a field that is recognized on every page.
const PageAll PageIndex = 0

// PageIndex selects the pages a field applies to: either the literal "all"
// or a specific 1-based page number.
type PageIndex int

// UnmarshalJSON accepts either the string "all" or a positive page number.
func (p *PageIndex) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "all" {
			*p = PageAll
			return nil
		}
		return fmt.Errorf("%w: page_index %q (expected \"all\" or a page number)", ErrInvalidConfig, s)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: page_index must be \"all\" or a page number", ErrInvalidConfig)
	}
	if n < 1 {
		return fmt.Errorf("%w: page_index %d (pages are numbered from 1)", ErrInvalidConfig, n)
	}
	*p = PageIndex(n)
	return nil
}

// MarshalJSON mirrors UnmarshalJSON.
func (p PageIndex) MarshalJSON() ([]byte, error) {
	if p == PageAll {
		return json.Marshal("all")
	}
	return json.Marshal(int(p))
}

// Matches reports whether a field with this index applies to the given
// 1-based page number.
func (p PageIndex) Matches(page int) bool {
	return p == PageAll || int(p) == page
}

// Box is a pixel rectangle on a rasterized page: left, top, right, bottom.
type Box struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// UnmarshalJSON accepts the four-element array form used in the
// configuration file: [left, top, right, bottom].
func (b *Box) UnmarshalJSON(data []byte) error {
	var coords []int
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("%w: box must be an array of four integers", ErrInvalidConfig)
	}
	if len(coords) != 4 {
		return fmt.Errorf("%w: box has %d coordinates, want 4", ErrInvalidConfig, len(coords))
	}
	b.Left, b.Top, b.Right, b.Bottom = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// MarshalJSON mirrors UnmarshalJSON.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.Left, b.Top, b.Right, b.Bottom})
}

func (b Box) validate(field string) error {
	if b.Left >= b.Right || b.Top >= b.Bottom {
		return fmt.Errorf("%w: field %q box [%d %d %d %d]", ErrGeometry, field, b.Left, b.Top, b.Right, b.Bottom)
	}
	return nil
}

// Field describes one named, geometrically-defined region recognized
// independently per page.
type Field struct {
	// Name keys the recognized value in page records and serves as the
	// spreadsheet header.
	Name string `json:"name"`

	// Box is the pixel rectangle to crop, at rasterization resolution.
	Box Box `json:"box"`

	// PageIndex restricts the field to a specific page; the default applies
	// it to every page.
	PageIndex PageIndex `json:"page_index,omitempty"`

	// OCRWhitelist restricts the characters the recognition engine may emit.
	// Absent means DefaultWhitelist; an empty string lifts the restriction
	// (useful for alphanumeric fields).
	OCRWhitelist *string `json:"ocr_whitelist,omitempty"`

	// Lang is the recognition language tag, e.g. "eng". Defaults to "eng".
	Lang string `json:"lang,omitempty"`

	// Cell optionally anchors the field's first data row in
	// coordinate-addressed spreadsheet output, e.g. "B2".
	Cell string `json:"cell,omitempty"`
}

// Whitelist resolves the effective character whitelist for the field.
func (f *Field) Whitelist() string {
	if f.OCRWhitelist == nil {
		return DefaultWhitelist
	}
	return *f.OCRWhitelist
}

// Mode selects the output layout, decided once from the configuration.
type Mode int

const (
	// ModeTabular serializes records row-per-page with a column per key.
	ModeTabular Mode = iota

	// ModeCells places each field at its configured anchor cell, one row
	// per record below it.
	ModeCells
)

// Job is the immutable configuration for one extraction run.
type Job struct {
	// InputPDF is the path of the scanned document to process.
	InputPDF string `json:"input_pdf"`

	// OutputExcel is the spreadsheet path written by the export command.
	OutputExcel string `json:"output_excel"`

	// Fields lists the regions to recognize, in processing order.
	Fields []Field `json:"fields"`

	// PageCell anchors the page-number column in coordinate-addressed
	// output. Defaults to DefaultPageCell.
	PageCell string `json:"page_cell,omitempty"`

	// OmitPageColumn suppresses the page-number column in
	// coordinate-addressed output.
	OmitPageColumn bool `json:"omit_page_column,omitempty"`
}

// OutputMode reports how the output writer should lay out results:
// coordinate-addressed when any field anchors a cell, tabular otherwise.
func (j *Job) OutputMode() Mode {
	for i := range j.Fields {
		if j.Fields[i].Cell != "" {
			return ModeCells
		}
	}
	return ModeTabular
}

// Load reads and validates the job configuration at path.
// It returns ErrConfigNotFound when the file does not exist.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read job configuration %s: %w", path, err)
	}

	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse job configuration %s: %w", path, err)
	}

	if err := j.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	j.applyDefaults()
	return &j, nil
}

func (j *Job) validate() error {
	if j.InputPDF == "" {
		return fmt.Errorf("%w: input_pdf is required", ErrInvalidConfig)
	}
	if len(j.Fields) == 0 {
		return fmt.Errorf("%w: at least one field is required", ErrInvalidConfig)
	}
	for i := range j.Fields {
		f := &j.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("%w: fields[%d] has no name", ErrInvalidConfig, i)
		}
		if err := f.Box.validate(f.Name); err != nil {
			return err
		}
	}
	return nil
}

func (j *Job) applyDefaults() {
	if j.PageCell == "" {
		j.PageCell = DefaultPageCell
	}
	for i := range j.Fields {
		if j.Fields[i].Lang == "" {
			j.Fields[i].Lang = "eng"
		}
	}
}
