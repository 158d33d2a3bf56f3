package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestNewWithRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("test output")}
	extractor := NewWithRunner(runner)
	require.NotNil(t, extractor)
	assert.Equal(t, runner, extractor.runner)
}

func TestFormats(t *testing.T) {
	extractor := New()
	formats := extractor.Formats()

	assert.Contains(t, formats, "application/pdf")
	assert.Contains(t, formats, ".pdf")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		fileName string
		expected string
	}{
		{
			name:     "first line as title",
			content:  "Document Title\n\nSome content here.",
			fileName: "/doc.pdf",
			expected: "Document Title",
		},
		{
			name:     "skip empty lines",
			content:  "\n\n\nActual Title\nContent",
			fileName: "/doc.pdf",
			expected: "Actual Title",
		},
		{
			name:     "fallback to filename",
			content:  "",
			fileName: "/path/to/my_document.pdf",
			expected: "my document",
		},
		{
			name:     "skip very long first line",
			content:  string(make([]byte, 250)) + "\nShort Title\nContent",
			fileName: "/doc.pdf",
			expected: "Short Title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.fileName, ""))
		})
	}
}

func TestCleanPDFText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "form feeds become paragraph breaks",
			input:    "page one\fpage two",
			expected: "page one\n\npage two",
		},
		{
			name:     "blank runs collapse",
			input:    "a\n\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "trailing spaces trimmed",
			input:    "line   \nnext\t\n",
			expected: "line\nnext",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanPDFText(tc.input))
		})
	}
}

// Extraction tests need pdftotext in PATH because availability is
// checked before the runner is invoked.

func TestExtract_WithMockRunner(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping mock runner test")
	}

	runner := &mockRunner{
		output: []byte("PDF Title\n\nThis is the content of the PDF.\n"),
	}
	extractor := NewWithRunner(runner)
	ctx := context.Background()

	result, err := extractor.Extract(ctx, driven.ExtractInput{
		Data:      []byte("%PDF-1.4 fake pdf content"),
		MediaType: "application/pdf",
		FileName:  "/path/to/document.pdf",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "PDF Title", result.Title)
	assert.Equal(t, "pdf", result.Format)
	assert.Contains(t, result.Content, "This is the content of the PDF.")
	assert.NotContains(t, result.Metadata, "partial")
}

func TestExtract_PartialOutput(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping partial output test")
	}

	runner := &mockRunner{
		output: []byte("the pages that worked\n"),
		err:    errors.New("syntax error on page 3"),
	}
	extractor := NewWithRunner(runner)
	ctx := context.Background()

	result, err := extractor.Extract(ctx, driven.ExtractInput{
		Data:     []byte("%PDF-1.4"),
		FileName: "damaged.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "the pages that worked", result.Content)
	assert.Equal(t, true, result.Metadata["partial"])
}

func TestExtract_RunnerError(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping runner error test")
	}

	runner := &mockRunner{err: errors.New("pdftotext crashed")}
	extractor := NewWithRunner(runner)
	ctx := context.Background()

	result, err := extractor.Extract(ctx, driven.ExtractInput{
		Data:     []byte("%PDF-1.4"),
		FileName: "broken.pdf",
	})
	require.Error(t, err)
	assert.True(t, domain.IsProcessing(err))
	assert.Nil(t, result)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}
