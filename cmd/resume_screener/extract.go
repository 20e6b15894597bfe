package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <path>...",
	Short: "Extract contact details, skills and education from resumes",
	Long:  `Extracts fields from each resume file, .zip batch or directory without scoring.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

var extractFormat string

func init() {
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "text", "Output format: text or json")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractFormat != "text" && extractFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", extractFormat)
	}
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	loader := a.loader()
	extractor := extraction.NewExtractor(a.catalog())
	records := []types.ResumeRecord{}
	for _, path := range args {
		docs, err := loader.LoadPath(cmd.Context(), path)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			records = append(records, pipeline.ExtractRecord(extractor, doc))
		}
	}

	if extractFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	for _, rec := range records {
		printer.PrintRecord(rec)
	}
	return nil
}
