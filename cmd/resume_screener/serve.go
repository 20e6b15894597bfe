package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/publish"
	"github.com/jonathan/resume-screener/internal/server"
	"github.com/jonathan/resume-screener/internal/server/ratelimit"
)

var (
	servePort       int
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that screens uploaded resumes (POST /screen, /screen/stream, /extract).`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Render JavaScript-heavy postings given as jd_url with headless Chrome")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	var pub publish.Publisher
	amqp, err := a.publisher()
	if err != nil {
		return err
	}
	if amqp != nil {
		defer func() { _ = amqp.Close() }()
		pub = amqp
	}

	screener, closeScreener, err := a.screener(ctx, pub)
	if err != nil {
		return err
	}
	defer closeScreener()

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}
	limits := ratelimit.DefaultConfig()
	limits.RPS = a.cfg.Server.RateLimit.RPS
	limits.Burst = a.cfg.Server.RateLimit.Burst

	srv, err := server.New(server.Options{
		Port:           port,
		Screener:       screener,
		Loader:         a.loader(),
		Fetcher:        a.fetcher(serveUseBrowser),
		MaxUploadBytes: a.cfg.MaxUploadBytes(),
		RateLimit:      limits,
		Logger:         a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}
