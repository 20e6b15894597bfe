package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/encoding/charmap"
)

// Supported resume extensions inside archives.
var archiveExtensions = []string{".pdf", ".docx", ".txt"}

// ErrUnsupportedFormat is returned by Extract for unknown file extensions.
var ErrUnsupportedFormat = fmt.Errorf("unsupported document format")

// ExtractText returns the plain text of a document, choosing a decoder by the
// file name's extension. Any failure yields an empty string so downstream
// heuristics see "nothing found" instead of an error.
func ExtractText(name string, data []byte) string {
	text, err := Extract(name, data)
	if err != nil {
		return ""
	}
	return text
}

// Extract is ExtractText with the failure reason preserved.
func Extract(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return pdfText(data)
	case ".docx":
		return docxText(data)
	case ".txt":
		return plainText(data), nil
	case ".html", ".htm":
		return HTMLText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// IsArchiveResume reports whether name is a resume format accepted inside a
// zip batch.
func IsArchiveResume(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllStringFunc(content, func(tag string) string {
		if tag == "<w:tab/>" {
			return "\t"
		}
		return "\n"
	})
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

// plainText decodes UTF-8, falling back to Latin-1 for byte sequences that
// are not valid UTF-8.
func plainText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// HTMLText returns the cleaned body text of an HTML document with script,
// style and navigation chrome removed.
func HTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, nav, footer").Remove()

	var lines []string
	doc.Find("body").Find("h1, h2, h3, h4, p, li, td, div, span").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 && s.Is("div, span") {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		lines = append(lines, doc.Find("body").Text())
	}
	return CleanText(strings.Join(lines, "\n")), nil
}
