package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/publish"
	"github.com/jonathan/resume-screener/internal/schemas"
	"github.com/jonathan/resume-screener/internal/storage"
	"github.com/jonathan/resume-screener/internal/types"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Score a batch of resumes against a job description",
	Long: `Extracts fields from every resume, scores the batch against the job description,
and prints the ranking with improvement suggestions.

The job description is the concatenation of --job, --job-file and --job-url, in that order.
Resumes come from --resumes (a file, a .zip batch or a directory) and/or --s3-prefix.`,
	Args: cobra.NoArgs,
	RunE: runScreen,
}

var (
	screenJob        string
	screenJobFile    string
	screenJobURL     string
	screenUseBrowser bool
	screenResumes    string
	screenS3Prefix   string
	screenOut        string
	screenValidate   bool
	screenPublish    bool
)

func init() {
	screenCmd.Flags().StringVar(&screenJob, "job", "", "Job description text")
	screenCmd.Flags().StringVar(&screenJobFile, "job-file", "", "Path to a job description file (.txt, .pdf, .docx)")
	screenCmd.Flags().StringVar(&screenJobURL, "job-url", "", "URL of a job posting to fetch")
	screenCmd.Flags().BoolVar(&screenUseBrowser, "use-browser", false, "Render JavaScript-heavy postings with headless Chrome")
	screenCmd.Flags().StringVarP(&screenResumes, "resumes", "r", "", "Resume file, .zip batch, or directory")
	screenCmd.Flags().StringVar(&screenS3Prefix, "s3-prefix", "", "Load resumes from the configured bucket under this prefix")
	screenCmd.Flags().StringVarP(&screenOut, "out", "o", "", "Write the JSON result to this file (- for stdout)")
	screenCmd.Flags().BoolVar(&screenValidate, "validate", false, "Validate the JSON result against the screening result schema")
	screenCmd.Flags().BoolVar(&screenPublish, "publish", false, "Publish a run summary to the configured AMQP exchange")

	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	if screenJob == "" && screenJobFile == "" && screenJobURL == "" {
		return fmt.Errorf("a job description is required (--job, --job-file or --job-url)")
	}
	if screenResumes == "" && screenS3Prefix == "" {
		return fmt.Errorf("no resumes given (--resumes or --s3-prefix)")
	}

	loader := a.loader()
	var fetcher ingestion.PostingFetcher
	if screenJobURL != "" {
		fetcher = a.fetcher(screenUseBrowser)
	}
	job, err := loader.JobDescription(ctx, ingestion.JobSource{
		Text:     screenJob,
		FilePath: screenJobFile,
		URL:      screenJobURL,
	}, fetcher)
	if err != nil {
		return err
	}
	a.logger.Info("job description ready", zap.Strings("sources", job.Sources), zap.String("hash", job.Hash))

	docs, err := loadResumes(cmd, a, loader)
	if err != nil {
		return err
	}

	var pub publish.Publisher
	if screenPublish {
		if a.cfg.AMQP.URL == "" {
			return fmt.Errorf("--publish requires amqp.url in the config")
		}
		amqp, err := a.publisher()
		if err != nil {
			return err
		}
		defer func() { _ = amqp.Close() }()
		pub = amqp
	}

	screener, closeScreener, err := a.screener(ctx, pub)
	if err != nil {
		return err
	}
	defer closeScreener()

	result, err := screener.Screen(ctx, job.Text, docs)
	if err != nil {
		return err
	}
	return writeResult(cmd, result)
}

func loadResumes(cmd *cobra.Command, a *app, loader *ingestion.Loader) ([]types.Document, error) {
	ctx := cmd.Context()
	var docs []types.Document
	if screenResumes != "" {
		local, err := loader.LoadPath(ctx, screenResumes)
		if err != nil {
			return nil, err
		}
		docs = append(docs, local...)
	}
	if screenS3Prefix != "" {
		bucket, err := storage.NewBucket(ctx, a.cfg.Storage, a.logger)
		if err != nil {
			return nil, err
		}
		remote, err := bucket.LoadResumes(ctx, screenS3Prefix, loader)
		if err != nil {
			return nil, err
		}
		docs = append(docs, remote...)
	}
	a.logger.Info("resumes loaded", zap.Int("count", len(docs)))
	return docs, nil
}

func writeResult(cmd *cobra.Command, result *types.ScreeningResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if screenValidate {
		if err := schemas.ValidateResult(data); err != nil {
			return err
		}
	}

	switch screenOut {
	case "":
		observability.NewPrinter(cmd.OutOrStdout()).PrintScreening(result)
	case "-":
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	default:
		if err := os.WriteFile(screenOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintScreening(result)
	}
	return nil
}
