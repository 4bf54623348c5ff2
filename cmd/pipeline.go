package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"fieldscan/internal/extract"
	"fieldscan/internal/job"
	"fieldscan/internal/logger"
	"fieldscan/internal/ocr"
	"fieldscan/internal/raster"
)

// jobConfigPath resolves the job configuration path: the --config flag when
// set, otherwise the environment-derived default.
func jobConfigPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return cfg.JobConfigPath
}

// runPipeline executes the full extraction pipeline for one job: load the
// configuration, rasterize the input PDF page by page, and recognize every
// configured field. Any failure aborts with no partial result.
func runPipeline(ctx context.Context, configPath string) (*job.Job, []*extract.Record, error) {
	log := logger.WithComponent("pipeline")

	j, err := job.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log.Info().
		Str("config", configPath).
		Str("pdf", j.InputPDF).
		Int("fields", len(j.Fields)).
		Msg("Job configuration loaded")

	engine, err := ocr.New(ctx, cfg.OCREngine)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := engine.(io.Closer); ok {
		defer c.Close()
	}

	rast := raster.New(raster.Config{Pdftoppm: cfg.PdftoppmBin, DPI: cfg.DPI})
	records, err := extract.New(j, engine).Run(ctx, rast)
	if err != nil {
		return nil, nil, err
	}
	return j, records, nil
}
