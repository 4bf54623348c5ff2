package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldscan/internal/export"
	"fieldscan/internal/job"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run OCR extraction and write the results to a spreadsheet",
	Long: `Rasterize the configured PDF, recognize every configured field region,
and write the resulting page records to the spreadsheet named by the job
configuration's output_excel key.

The layout depends on the configuration: when any field sets a cell anchor
(e.g. "B2"), each field's values are placed below its anchor with the header
one row above; otherwise a generic table is written with one row per page
and one column per field. Parent directories of the output path are created
as needed and an existing file is overwritten.`,
	Example: `  # Export to the path configured in config.json
  fieldscan export

  # Export using an explicit job configuration
  fieldscan export --config lab-report.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("config", "c", "", "Job configuration path (overrides FIELDSCAN_CONFIG)")
}

func runExport(cmd *cobra.Command, args []string) error {
	j, records, err := runPipeline(cmd.Context(), jobConfigPath(cmd))
	if err != nil {
		return err
	}

	if j.OutputExcel == "" {
		return fmt.Errorf("%w: output_excel is required for export", job.ErrInvalidConfig)
	}
	if err := export.NewWriter(j).Write(records, j.OutputExcel); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", j.OutputExcel)
	return nil
}
