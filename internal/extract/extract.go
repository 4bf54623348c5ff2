// Package extract implements the per-field extraction pipeline: crop each
// configured region out of a rasterized page, binarize it, and hand it to
// the recognition engine. Pages are processed strictly in document order,
// fields in configuration order; there is no concurrency and no recovery of
// partial results.
package extract

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/rs/zerolog"

	"fieldscan/internal/imaging"
	"fieldscan/internal/job"
	"fieldscan/internal/logger"
	"fieldscan/internal/ocr"
)

// PageSource supplies rasterized pages in document order. It is implemented
// by raster.Rasterizer and stubbed in tests.
type PageSource interface {
	EachPage(ctx context.Context, pdfPath string, fn func(page int, img image.Image) error) error
}

// Extractor runs the configured fields against rasterized pages.
type Extractor struct {
	job    *job.Job
	engine ocr.Engine
	log    zerolog.Logger
}

// New creates an extractor for one job.
func New(j *job.Job, engine ocr.Engine) *Extractor {
	return &Extractor{job: j, engine: engine, log: logger.WithComponent("extract")}
}

// Run rasterizes the job's input PDF through pages and returns one record
// per page, ordered 1..N. Any failure aborts the run with no partial result.
func (e *Extractor) Run(ctx context.Context, pages PageSource) ([]*Record, error) {
	var records []*Record
	err := pages.EachPage(ctx, e.job.InputPDF, func(page int, img image.Image) error {
		rec, err := e.ExtractPage(ctx, page, img)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("pdf", e.job.InputPDF).
		Int("pages", len(records)).
		Int("fields", len(e.job.Fields)).
		Str("engine", e.engine.Name()).
		Msg("Extraction completed")
	return records, nil
}

// ExtractPage produces the record for one rasterized page, covering only
// fields whose page_index matches. Crop rectangles outside the page bounds
// fail with job.ErrGeometry; the error propagates, nothing is clamped.
func (e *Extractor) ExtractPage(ctx context.Context, page int, img image.Image) (*Record, error) {
	rec := NewRecord(page)
	for i := range e.job.Fields {
		f := &e.job.Fields[i]
		if !f.PageIndex.Matches(page) {
			continue
		}

		crop, err := cropField(img, f)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		data, err := imaging.EncodePNG(imaging.Binarize(crop))
		if err != nil {
			return nil, fmt.Errorf("page %d field %q: %w", page, f.Name, err)
		}

		text, err := e.engine.Recognize(ctx, ocr.Request{
			Image:     data,
			Language:  f.Lang,
			Whitelist: f.Whitelist(),
		})
		if err != nil {
			return nil, fmt.Errorf("page %d field %q: %w", page, f.Name, err)
		}

		value := strings.TrimSpace(text)
		e.log.Debug().
			Int("page", page).
			Str("field", f.Name).
			Str("value", value).
			Msg("Field recognized")
		rec.Set(f.Name, value)
	}
	return rec, nil
}

// subImager is satisfied by every raster image type the rasterizer decodes.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func cropField(img image.Image, f *job.Field) (image.Image, error) {
	rect := image.Rect(f.Box.Left, f.Box.Top, f.Box.Right, f.Box.Bottom)
	if !rect.In(img.Bounds()) {
		return nil, fmt.Errorf("%w: field %q box [%d %d %d %d] outside page bounds %v",
			job.ErrGeometry, f.Name, f.Box.Left, f.Box.Top, f.Box.Right, f.Box.Bottom, img.Bounds())
	}
	si, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("field %q: page image does not support cropping", f.Name)
	}
	return si.SubImage(rect), nil
}
