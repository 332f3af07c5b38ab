// Package extract converts uploaded resume documents to plain text.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resumeforge/internal/errors"
)

// MaxFileSize is the largest upload accepted, in bytes.
const MaxFileSize = 10 * 1024 * 1024

// AllowedExtensions lists the file extensions the extractor accepts.
var AllowedExtensions = []string{".pdf", ".docx", ".doc", ".txt", ".md"}

// ValidateUpload checks the filename extension and payload size before
// any parsing happens.
func ValidateUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	supported := false
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			supported = true
			break
		}
	}
	if !supported {
		return errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported file type: %s", ext), nil).
			WithContext("filename", filename)
	}
	if size > MaxFileSize {
		return errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("file exceeds maximum size of %d bytes", MaxFileSize), nil).
			WithContext("size", size)
	}
	return nil
}

// Text extracts plain text from a resume document, dispatching on the
// file extension. The returned text preserves line structure so the
// section heuristics downstream can work on it.
func Text(data []byte, filename string) (string, error) {
	if err := ValidateUpload(filename, int64(len(data))); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return pdfText(data)
	case ".docx", ".doc":
		return docxText(data)
	case ".txt", ".md":
		return string(data), nil
	}
	return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
		fmt.Sprintf("unsupported file type: %s", ext), nil)
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"failed to read pdf", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"failed to parse docx", err)
	}
	defer doc.Close()

	return stripDocxMarkup(doc.Editable().GetContent()), nil
}

var (
	paragraphEndRE = regexp.MustCompile(`</w:p>`)
	xmlTagRE       = regexp.MustCompile(`<[^>]+>`)
)

// stripDocxMarkup turns raw document.xml content into plain text,
// mapping paragraph boundaries to newlines.
func stripDocxMarkup(content string) string {
	content = paragraphEndRE.ReplaceAllString(content, "\n")
	content = xmlTagRE.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "&amp;", "&")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	return strings.TrimSpace(content)
}
