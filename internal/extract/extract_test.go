package extract

import (
	"strings"
	"testing"

	apperrors "resumeforge/internal/errors"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		size         int64
		expectError  bool
		expectedCode string
	}{
		{
			name:     "valid pdf",
			filename: "resume.pdf",
			size:     1024,
		},
		{
			name:     "valid docx",
			filename: "resume.docx",
			size:     2048,
		},
		{
			name:     "uppercase extension accepted",
			filename: "RESUME.PDF",
			size:     1024,
		},
		{
			name:         "unsupported extension",
			filename:     "resume.png",
			size:         1024,
			expectError:  true,
			expectedCode: apperrors.ErrCodeUnsupportedFormat,
		},
		{
			name:         "no extension",
			filename:     "resume",
			size:         1024,
			expectError:  true,
			expectedCode: apperrors.ErrCodeUnsupportedFormat,
		},
		{
			name:         "oversized file",
			filename:     "resume.pdf",
			size:         MaxFileSize + 1,
			expectError:  true,
			expectedCode: apperrors.ErrCodeFileTooLarge,
		},
		{
			name:     "at size limit",
			filename: "resume.pdf",
			size:     MaxFileSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.size)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				appErr, ok := err.(*apperrors.AppError)
				if !ok {
					t.Fatalf("expected *AppError, got %T", err)
				}
				if appErr.Code != tt.expectedCode {
					t.Errorf("expected code %s, got %s", tt.expectedCode, appErr.Code)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTextPlainPassthrough(t *testing.T) {
	content := "John Smith\njohn@example.com\n555-123-4567"
	got, err := Text([]byte(content), "resume.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != content {
		t.Errorf("expected passthrough content, got %q", got)
	}
}

func TestTextCorruptPDF(t *testing.T) {
	_, err := Text([]byte("not a pdf at all"), "resume.pdf")
	if err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Type != apperrors.ErrorTypeExtraction {
		t.Errorf("expected extraction error type, got %s", appErr.Type)
	}
	if appErr.Code != apperrors.ErrCodeExtractionFailed {
		t.Errorf("expected code %s, got %s", apperrors.ErrCodeExtractionFailed, appErr.Code)
	}
}

func TestTextCorruptDocx(t *testing.T) {
	_, err := Text([]byte("garbage bytes"), "resume.docx")
	if err == nil {
		t.Fatal("expected error for corrupt docx")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Code != apperrors.ErrCodeExtractionFailed {
		t.Errorf("expected code %s, got %s", apperrors.ErrCodeExtractionFailed, appErr.Code)
	}
}

func TestStripDocxMarkup(t *testing.T) {
	raw := `<w:p><w:r><w:t>John Smith</w:t></w:r></w:p><w:p><w:r><w:t>Engineer &amp; Leader</w:t></w:r></w:p>`
	got := stripDocxMarkup(raw)
	if !strings.Contains(got, "John Smith") {
		t.Errorf("expected name in output, got %q", got)
	}
	if !strings.Contains(got, "Engineer & Leader") {
		t.Errorf("expected entity decoding, got %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("expected paragraph boundary newline, got %q", got)
	}
}
