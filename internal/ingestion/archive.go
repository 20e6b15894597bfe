package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/types"
)

// MaxEntryBytes caps how much of a single archive entry is decompressed.
const MaxEntryBytes = 20 << 20

// decodeWorkers bounds concurrent document decoding.
const decodeWorkers = 4

// Loader turns files, archives and directories into documents.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// IsArchive reports whether name looks like a zip batch.
func IsArchive(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".zip")
}

// Document decodes a single uploaded file. Decoding failures are logged and
// produce a document with empty text.
func (l *Loader) Document(name string, data []byte) types.Document {
	text, err := Extract(name, data)
	if err != nil {
		l.logger.Debug("text extraction failed", zap.String("file", name), zap.Error(err))
		text = ""
	}
	return types.Document{FileName: name, Text: text}
}

// ExpandArchive decodes every resume entry of a zip batch, in archive order.
// Directories and files with unsupported extensions are skipped. The error is
// non-nil only when the archive itself cannot be read.
func (l *Loader) ExpandArchive(ctx context.Context, data []byte) ([]types.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	var entries []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !IsArchiveResume(f.Name) {
			l.logger.Warn("skipping archive entry", zap.String("entry", f.Name))
			continue
		}
		entries = append(entries, f)
	}

	docs := make([]types.Document, len(entries))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(decodeWorkers)
	for i, f := range entries {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := readEntry(f)
			if err != nil {
				l.logger.Warn("failed to read archive entry", zap.String("entry", f.Name), zap.Error(err))
				docs[i] = types.Document{FileName: f.Name}
				return nil
			}
			docs[i] = l.Document(f.Name, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("expanded archive", zap.Int("entries", len(zr.File)), zap.Int("resumes", len(docs)))
	return docs, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntryBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxEntryBytes {
		return nil, fmt.Errorf("entry exceeds %d bytes", MaxEntryBytes)
	}
	return data, nil
}

// LoadPath loads resumes from the filesystem. A zip file expands to its
// entries, any other file becomes one document, and a directory yields its
// supported files sorted by name.
func (l *Loader) LoadPath(ctx context.Context, path string) ([]types.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("resume path not found: %w", err)
		}
		return nil, fmt.Errorf("failed to stat resume path: %w", err)
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		if IsArchive(path) {
			return l.ExpandArchive(ctx, data)
		}
		return []types.Document{l.Document(filepath.Base(path), data)}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && IsArchiveResume(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]types.Document, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(path, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		docs = append(docs, l.Document(name, data))
	}
	return docs, nil
}

// ReadFileText reads and decodes a single file from disk, such as a job
// description file.
func (l *Loader) ReadFileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return l.Document(filepath.Base(path), data).Text, nil
}
