package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/fetch"
)

type zipEntry struct {
	name string
	body string
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if e.body != "" {
			_, err = w.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExpandArchive_KeepsOrderAndFiltersEntries(t *testing.T) {
	data := buildZip(t,
		zipEntry{name: "batch/"},
		zipEntry{name: "batch/zeta.txt", body: "Zeta Person"},
		zipEntry{name: "batch/notes.md", body: "ignored"},
		zipEntry{name: "batch/alpha.txt", body: "Alpha Person"},
		zipEntry{name: "batch/broken.pdf", body: "garbage"},
	)

	docs, err := NewLoader(nil).ExpandArchive(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "batch/zeta.txt", docs[0].FileName)
	assert.Equal(t, "Zeta Person", docs[0].Text)
	assert.Equal(t, "batch/alpha.txt", docs[1].FileName)
	assert.Equal(t, "Alpha Person", docs[1].Text)
	assert.Equal(t, "batch/broken.pdf", docs[2].FileName)
	assert.Empty(t, docs[2].Text)
}

func TestExpandArchive_Empty(t *testing.T) {
	docs, err := NewLoader(nil).ExpandArchive(context.Background(), buildZip(t))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestExpandArchive_NotAZip(t *testing.T) {
	_, err := NewLoader(nil).ExpandArchive(context.Background(), []byte("plain bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open zip archive")
}

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("Bee"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("Ay"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.png"), []byte("x"), 0o644))
	zipPath := filepath.Join(t.TempDir(), "batch.zip")
	require.NoError(t, os.WriteFile(zipPath, buildZip(t, zipEntry{name: "c.txt", body: "Cee"}), 0o644))

	loader := NewLoader(nil)
	ctx := context.Background()

	t.Run("directory sorted by name", func(t *testing.T) {
		docs, err := loader.LoadPath(ctx, dir)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a.txt", docs[0].FileName)
		assert.Equal(t, "b.txt", docs[1].FileName)
	})

	t.Run("single file", func(t *testing.T) {
		docs, err := loader.LoadPath(ctx, filepath.Join(dir, "b.txt"))
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Bee", docs[0].Text)
	})

	t.Run("zip file", func(t *testing.T) {
		docs, err := loader.LoadPath(ctx, zipPath)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "c.txt", docs[0].FileName)
		assert.Equal(t, "Cee", docs[0].Text)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := loader.LoadPath(ctx, filepath.Join(dir, "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "resume path not found")
	})
}

type stubFetcher struct {
	page *fetch.Page
	err  error
}

func (s stubFetcher) JobPosting(_ context.Context, _ string) (*fetch.Page, error) {
	return s.page, s.err
}

func TestJobDescription_JoinsSources(t *testing.T) {
	file := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(file, []byte("Needs AWS"), 0o644))
	fetcher := stubFetcher{page: &fetch.Page{Text: "Remote   friendly", Board: fetch.BoardGeneric}}

	job, err := NewLoader(nil).JobDescription(context.Background(),
		JobSource{Text: "Python developer", FilePath: file, URL: "https://example.com/job"}, fetcher)
	require.NoError(t, err)

	assert.Equal(t, "Python developer\nNeeds AWS\nRemote friendly", job.Text)
	assert.Equal(t, []string{"text", file, "https://example.com/job"}, job.Sources)
	assert.Len(t, job.Hash, 64)
}

func TestJobDescription_Errors(t *testing.T) {
	loader := NewLoader(nil)
	ctx := context.Background()

	_, err := loader.JobDescription(ctx, JobSource{FilePath: "/nonexistent/jd.txt"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")

	_, err = loader.JobDescription(ctx, JobSource{URL: "https://example.com"}, nil)
	require.Error(t, err)

	_, err = loader.JobDescription(ctx, JobSource{URL: "https://example.com"},
		stubFetcher{err: &fetch.Error{URL: "https://example.com", Message: "HTTP status 500"}})
	var fetchErr *fetch.Error
	require.ErrorAs(t, err, &fetchErr)
}

func TestJobDescription_TextOnly(t *testing.T) {
	job, err := NewLoader(nil).JobDescription(context.Background(), JobSource{Text: "Go and Docker"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Go and Docker", job.Text)
	assert.Equal(t, []string{"text"}, job.Sources)
}

func TestJobDescription_UploadedFile(t *testing.T) {
	job, err := NewLoader(nil).JobDescription(context.Background(),
		JobSource{Text: "Backend role", FileName: "jd.txt", FileData: []byte("Kubernetes required")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Backend role\nKubernetes required", job.Text)
	assert.Equal(t, []string{"text", "jd.txt"}, job.Sources)
}
