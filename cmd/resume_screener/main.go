// Package main provides the resume_screener command line tool and API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	jsonLogs bool
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "resume_screener",
	Short: "Screen and rank resumes against a job description",
	Long: `resume_screener extracts contact details, skills and education from resumes,
scores each one against a job description with text embeddings and a skill-overlap
floor, and suggests improvements. Run it once from the command line or serve it
over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML, JSON or TOML config file (defaults and SCREENER_* env vars otherwise)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Verbose/debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "JSON format for logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
