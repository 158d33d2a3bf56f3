package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestFormats(t *testing.T) {
	extractor := New()
	formats := extractor.Formats()

	require.NotEmpty(t, formats)
	assert.Contains(t, formats, "text/plain")
	assert.Contains(t, formats, "application/json")
	assert.Contains(t, formats, ".txt")
	assert.Contains(t, formats, ".go")
}

func TestAvailable(t *testing.T) {
	extractor := New()
	assert.True(t, extractor.Available())
}

func TestExtract_Success(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	input := driven.ExtractInput{
		Data:      []byte("This is plain text content."),
		MediaType: "text/plain",
		FileName:  "/path/to/document.txt",
	}

	result, err := extractor.Extract(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "This is plain text content.", result.Content)
	assert.Equal(t, "document", result.Title)
	assert.Equal(t, "plaintext", result.Format)
	assert.Equal(t, "text/plain", result.MediaType)
	assert.Equal(t, int64(27), result.SizeBytes)
	assert.Equal(t, 6, result.TokenCount)
	assert.Equal(t, domain.HashContent("This is plain text content."), result.ContentHash)
	assert.Equal(t, 1, result.Metadata["line_count"])
}

func TestExtract_EmptyContent(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte("")},
		{name: "whitespace only", data: []byte("  \n\t \r\n ")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := extractor.Extract(ctx, driven.ExtractInput{Data: tc.data, FileName: "empty.txt"})
			assert.ErrorIs(t, err, domain.ErrEmptyContent)
			assert.Nil(t, result)
		})
	}
}

func TestExtract_NormalisesLineEndings(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	result, err := extractor.Extract(ctx, driven.ExtractInput{
		Data:     []byte("line one\r\nline two\r\n"),
		FileName: "crlf.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", result.Content)
	assert.Equal(t, 2, result.Metadata["line_count"])
}

func TestTitleFromName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		url      string
		expected string
	}{
		{
			name:     "simple filename",
			fileName: "/path/to/document.txt",
			expected: "document",
		},
		{
			name:     "underscores to spaces",
			fileName: "/path/my_document_name.txt",
			expected: "my document name",
		},
		{
			name:     "dashes to spaces",
			fileName: "/path/my-document-name.txt",
			expected: "my document name",
		},
		{
			name:     "code file",
			fileName: "/src/main.go",
			expected: "main",
		},
		{
			name:     "url fallback",
			url:      "https://example.com/docs/getting-started.txt",
			expected: "getting started",
		},
		{
			name:     "nothing to go on",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, titleFromName(tc.fileName, tc.url))
		})
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}
