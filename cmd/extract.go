package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fieldscan/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run OCR extraction and print page records as a JSON array",
	Long: `Rasterize the configured PDF, recognize every configured field region,
and print the resulting page records to stdout as a single JSON array.

Stdout carries nothing but the array, so the output can be piped straight
into other tools; logs go to stderr.`,
	Example: `  # Extract using config.json in the working directory
  fieldscan extract

  # Extract using an explicit job configuration
  fieldscan extract --config lab-report.json

  # Pipe into jq
  fieldscan extract | jq '.[].Hemoglobin'`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("config", "c", "", "Job configuration path (overrides FIELDSCAN_CONFIG)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	_, records, err := runPipeline(cmd.Context(), jobConfigPath(cmd))
	if err != nil {
		return err
	}

	if records == nil {
		records = []*extract.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
