package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/token"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the media types and extensions this extractor handles.
func (e *Extractor) Formats() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".docx",
	}
}

// Available reports whether the extractor can run. DOCX parsing has no
// external dependencies.
func (e *Extractor) Available() bool {
	return true
}

// Extract converts a DOCX document to plain text. Paragraph text comes
// from word/document.xml; the title comes from docProps/core.xml when
// present.
func (e *Extractor) Extract(_ context.Context, input driven.ExtractInput) (*domain.ExtractedText, error) {
	reader, err := zip.NewReader(bytes.NewReader(input.Data), int64(len(input.Data)))
	if err != nil {
		return nil, domain.NewProcessingError("extract", "not a valid docx archive", err)
	}

	content, paragraphs, err := extractDocumentText(reader)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	title := extractCoreTitle(reader)
	if title == "" {
		title = titleFromName(input.FileName, input.SourceURL)
	}

	return &domain.ExtractedText{
		Content:     content,
		Title:       title,
		TokenCount:  token.Count(content),
		ContentHash: domain.HashContent(content),
		SizeBytes:   int64(len(input.Data)),
		MediaType:   input.MediaType,
		Format:      "docx",
		Metadata: map[string]any{
			"paragraph_count": paragraphs,
		},
	}, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraphXML `xml:"p"`
	} `xml:"body"`
}

type paragraphXML struct {
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Text []textXML `xml:"t"`
}

type textXML struct {
	Content string `xml:",chardata"`
}

// extractDocumentText extracts paragraph text from word/document.xml.
// Paragraphs are separated by blank lines so the chunker can see them.
func extractDocumentText(reader *zip.Reader) (string, int, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", 0, domain.NewProcessingError("extract", "cannot open word/document.xml", err)
		}

		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", 0, domain.NewProcessingError("extract", "cannot read word/document.xml", err)
		}

		var doc documentXML
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return "", 0, domain.NewProcessingError("extract", "cannot parse word/document.xml", err)
		}

		var result strings.Builder
		count := 0
		for _, para := range doc.Body.Paragraphs {
			var text strings.Builder
			for _, r := range para.Runs {
				for _, t := range r.Text {
					text.WriteString(t.Content)
				}
			}
			line := strings.TrimSpace(text.String())
			if line == "" {
				continue
			}
			if count > 0 {
				result.WriteString("\n\n")
			}
			result.WriteString(line)
			count++
		}

		return strings.TrimSpace(result.String()), count, nil
	}
	return "", 0, nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractCoreTitle reads the document title from docProps/core.xml.
func extractCoreTitle(reader *zip.Reader) string {
	for _, file := range reader.File {
		if file.Name != "docProps/core.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return ""
		}

		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return ""
		}

		var core coreXML
		if err := xml.Unmarshal(raw, &core); err == nil {
			return strings.TrimSpace(core.Title)
		}
		return ""
	}
	return ""
}

// titleFromName derives a human-readable title from the file name, or
// the URL path when no file name is present.
func titleFromName(fileName, sourceURL string) string {
	name := fileName
	if name == "" {
		name = sourceURL
	}
	if name == "" {
		return ""
	}

	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return base
}
