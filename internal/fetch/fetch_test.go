package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	html  string
	err   error
	calls int
}

func (s *stubRenderer) Render(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.html, s.err
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestJobPosting_ExtractsMainContent(t *testing.T) {
	server := serve(t, http.StatusOK, `<html><body>
		<nav>Navigation</nav>
		<main><h1>Backend Engineer</h1><p>Python and AWS required.</p></main>
		<footer>Footer</footer>
	</body></html>`)

	page, err := NewClient(Options{}, nil).JobPosting(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, BoardGeneric, page.Board)
	assert.Contains(t, page.Text, "Backend Engineer")
	assert.Contains(t, page.Text, "Python and AWS required.")
	assert.NotContains(t, page.Text, "Navigation")
	assert.NotContains(t, page.Text, "Footer")
	assert.False(t, page.Rendered)
}

func TestJobPosting_InvalidURL(t *testing.T) {
	_, err := NewClient(Options{}, nil).JobPosting(context.Background(), "not-a-url")
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "invalid URL", fetchErr.Message)
}

func TestJobPosting_HTTPError(t *testing.T) {
	server := serve(t, http.StatusNotFound, "missing")

	_, err := NewClient(Options{}, nil).JobPosting(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestJobPosting_RendersShortPages(t *testing.T) {
	server := serve(t, http.StatusOK, `<html><body><div id="root"></div></body></html>`)
	long := strings.Repeat("Kubernetes and Docker experience. ", 30)
	renderer := &stubRenderer{html: "<html><body><main>" + long + "</main></body></html>"}

	page, err := NewClient(Options{Renderer: renderer}, nil).JobPosting(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.True(t, page.Rendered)
	assert.Contains(t, page.Text, "Kubernetes and Docker")
}

func TestJobPosting_RenderFailureKeepsStaticText(t *testing.T) {
	server := serve(t, http.StatusOK, `<html><body><main>Short posting</main></body></html>`)
	renderer := &stubRenderer{err: errors.New("chrome not installed")}

	page, err := NewClient(Options{Renderer: renderer}, nil).JobPosting(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.False(t, page.Rendered)
	assert.Equal(t, "Short posting", page.Text)
}

func TestMainText_BoardSelectorsAndNoise(t *testing.T) {
	html := `<html><body>
		<div class="sidebar">Sidebar junk</div>
		<div class="job__description"><h2>Requirements</h2><p>5 years of Go</p></div>
		<form>Apply now</form>
	</body></html>`

	text, err := MainText(html, BoardGreenhouse)
	require.NoError(t, err)
	assert.Contains(t, text, "Requirements")
	assert.Contains(t, text, "5 years of Go")
	assert.NotContains(t, text, "Sidebar junk")
	assert.NotContains(t, text, "Apply now")
}

func TestMainText_FallsBackToBody(t *testing.T) {
	text, err := MainText(`<html><body><div>Some content here.</div></body></html>`, BoardGeneric)
	require.NoError(t, err)
	assert.Equal(t, "Some content here.", text)
}

func TestDetectBoard(t *testing.T) {
	tests := []struct {
		url  string
		want Board
	}{
		{"https://boards.greenhouse.io/acme/jobs/1", BoardGreenhouse},
		{"https://jobs.lever.co/acme/abc", BoardLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers", BoardWorkday},
		{"https://example.com/careers", BoardGeneric},
		{"::bad::", BoardGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectBoard(tt.url))
		})
	}
}

func TestNeedsRendering(t *testing.T) {
	assert.True(t, NeedsRendering("   short  "))
	assert.False(t, NeedsRendering(strings.Repeat("a", MinContentLength)))
}
