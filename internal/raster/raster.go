// Package raster converts PDF pages to in-memory raster images by shelling
// out to pdftoppm (poppler-utils). The rasterizer is treated as an opaque
// external service: pages come back as PNGs at a fixed resolution and are
// streamed to the caller one at a time, in document order.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"fieldscan/internal/logger"
)

// Common rasterization errors
var (
	// ErrInputNotFound is returned when the source PDF does not exist.
	ErrInputNotFound = errors.New("input PDF not found")

	// ErrRasterFailed is returned when the external rasterizer fails or
	// renders no pages.
	ErrRasterFailed = errors.New("PDF rasterization failed")
)

// Config controls the external rasterizer invocation.
type Config struct {
	// Pdftoppm is the binary name or absolute path; empty means "pdftoppm".
	Pdftoppm string

	// DPI is the rasterization resolution. Scanned-form field coordinates
	// are expressed at this resolution; default 300.
	DPI int
}

// Rasterizer renders PDF pages via pdftoppm.
type Rasterizer struct {
	cfg    Config
	runner Runner
	log    zerolog.Logger
}

// New creates a rasterizer, filling config defaults.
func New(cfg Config) *Rasterizer {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Rasterizer{cfg: cfg, runner: execRunner{}, log: logger.WithComponent("raster")}
}

// EachPage rasterizes pdfPath and invokes fn for every page in document
// order with its 1-based page number. Each page image is transient: it is
// released after fn returns. An error from fn stops iteration and is
// returned as-is.
func (r *Rasterizer) EachPage(ctx context.Context, pdfPath string, fn func(page int, img image.Image) error) error {
	if _, err := os.Stat(pdfPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, pdfPath)
		}
		return fmt.Errorf("stat %s: %w", pdfPath, err)
	}

	tmpDir, err := os.MkdirTemp("", "fieldscan-pp-*")
	if err != nil {
		return fmt.Errorf("create raster temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			r.log.Warn().Err(rmErr).Str("dir", tmpDir).Msg("Failed to remove raster temp dir")
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrRasterFailed, pdfPath, truncate(string(errb), 1<<10))
	}

	// pdftoppm zero-pads page numbers (page-01.png ...) so a plain sort
	// preserves document order.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return fmt.Errorf("%w: %s: no pages rendered", ErrRasterFailed, pdfPath)
	}

	r.log.Debug().
		Str("pdf", pdfPath).
		Int("pages", len(matches)).
		Int("dpi", r.cfg.DPI).
		Msg("PDF rasterized")

	for i, path := range matches {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		img, err := decodePNG(path)
		if err != nil {
			return fmt.Errorf("%w: decode page %d: %v", ErrRasterFailed, i+1, err)
		}
		if err := fn(i+1, img); err != nil {
			return err
		}
	}
	return nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
