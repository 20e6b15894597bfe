package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest static text accepted before falling back
// to browser rendering.
const MinContentLength = 500

// NeedsRendering reports whether text is short enough that the page is
// probably rendered client-side.
func NeedsRendering(text string) bool {
	return len(strings.TrimSpace(text)) < MinContentLength
}

// Browser renders pages with headless Chrome. Chrome must be installed.
type Browser struct {
	Timeout time.Duration
	Settle  time.Duration
}

// NewBrowser returns a Browser with a 30s timeout.
func NewBrowser() *Browser {
	return &Browser{Timeout: 30 * time.Second, Settle: 2 * time.Second}
}

// Render navigates to url, waits for scripts to settle, and returns the
// document HTML.
func (b *Browser) Render(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, b.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}
	return html, nil
}
