// Package fetch downloads job postings over HTTP and reduces them to text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeScreener/1.0)"

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 5 << 20

// Page is a fetched job posting.
type Page struct {
	URL        string
	HTML       string
	Text       string
	Board      Board
	StatusCode int
	Rendered   bool
}

// Error describes a failed fetch.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Renderer renders a URL in a browser and returns the final HTML.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Renderer, when set, is used for pages whose static HTML yields less
	// than MinContentLength characters of text.
	Renderer Renderer
}

// Client fetches job postings.
type Client struct {
	http      *http.Client
	userAgent string
	renderer  Renderer
	logger    *zap.Logger
}

// NewClient creates a Client. Zero option fields take defaults.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		renderer:  opts.Renderer,
		logger:    logger,
	}
}

// JobPosting fetches urlStr and extracts the posting text using the
// selectors of the detected job board.
func (c *Client) JobPosting(ctx context.Context, urlStr string) (*Page, error) {
	html, status, err := c.get(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	board := DetectBoard(urlStr)
	text, err := MainText(html, board)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}
	page := &Page{URL: urlStr, HTML: html, Text: text, Board: board, StatusCode: status}
	c.logger.Debug("fetched job posting",
		zap.String("url", urlStr),
		zap.String("board", string(board)),
		zap.Int("chars", len(text)))

	if c.renderer != nil && NeedsRendering(text) {
		c.logger.Info("static content too short, rendering in browser", zap.String("url", urlStr))
		rendered, err := c.renderer.Render(ctx, urlStr)
		if err != nil {
			c.logger.Warn("browser rendering failed, keeping static content", zap.Error(err))
			return page, nil
		}
		if text, err := MainText(rendered, board); err == nil {
			page.HTML = rendered
			page.Text = text
			page.Rendered = true
		}
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, urlStr string) (string, int, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", 0, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", 0, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return string(body), resp.StatusCode, nil
}

// MainText parses HTML, strips page chrome and board-specific noise, and
// returns the text of the first matching content selector, or the body.
func MainText(html string, board Board) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .sidebar, .cookie-banner, .popup").Remove()
	doc.Find(strings.Join(board.noiseSelectors(), ", ")).Remove()

	content := doc.Find("body")
	for _, selector := range board.contentSelectors() {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	return collapseLines(content.Text()), nil
}

func collapseLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
