package common

import (
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeforge/internal/errors"
)

func TestReadDocumentPlainText(t *testing.T) {
	fp := NewFileProcessor(nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	content := "Jane Smith\njane@example.com\n\nSKILLS\nPython, SQL\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	text, err := fp.ReadDocument(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != content {
		t.Errorf("expected passthrough content, got %q", text)
	}
}

func TestReadDocumentMissingFile(t *testing.T) {
	fp := NewFileProcessor(nil)

	_, err := fp.ReadDocument(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
}

func TestReadDocumentUnsupportedExtension(t *testing.T) {
	fp := NewFileProcessor(nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "resume.xlsx")
	if err := os.WriteFile(path, []byte("data"), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := fp.ReadDocument(path)
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	fp := NewFileProcessor(nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "result.json")
	if err := fp.WriteFile(path, `{"ok":true}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back file: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestValidateAndReadFiles(t *testing.T) {
	fp := NewFileProcessor(nil)

	dir := t.TempDir()
	first := filepath.Join(dir, "resume.txt")
	second := filepath.Join(dir, "job.md")
	if err := os.WriteFile(first, []byte("resume text"), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := os.WriteFile(second, []byte("job text"), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	contents, err := fp.ValidateAndReadFiles(first, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0] != "resume text" || contents[1] != "job text" {
		t.Errorf("unexpected contents: %v", contents)
	}
}

func TestValidateAndReadFilesMissingFile(t *testing.T) {
	fp := NewFileProcessor(nil)

	_, err := fp.ValidateAndReadFiles(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "Invalid file") {
		t.Errorf("unexpected error message: %v", err)
	}
}
