package pdf

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/token"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates the pdftotext binary is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes an external command and returns its combined
// output. Abstracted for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor handles PDF documents by shelling out to pdftotext.
type Extractor struct {
	runner CommandRunner
}

// New creates a new PDF extractor using the system pdftotext binary.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable verifies pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform-specific install guidance for
// the pdftotext dependency.
func InstallInstructions() string {
	return strings.Join([]string{
		"pdftotext is required for PDF extraction.",
		"  macOS:  brew install poppler",
		"  Debian: apt install poppler-utils",
		"  Fedora: dnf install poppler-utils",
	}, "\n")
}

// Formats returns the media types and extensions this extractor handles.
func (e *Extractor) Formats() []string {
	return []string{"application/pdf", ".pdf"}
}

// Available reports whether pdftotext is installed.
func (e *Extractor) Available() bool {
	return CheckAvailable() == nil
}

// Extract converts a PDF document to plain text via pdftotext. Partial
// output is kept when the tool reports errors on some pages; only a
// fully empty result is treated as failure.
func (e *Extractor) Extract(ctx context.Context, input driven.ExtractInput) (*domain.ExtractedText, error) {
	if err := CheckAvailable(); err != nil {
		return nil, errors.Join(domain.ErrExtractorUnavailable, err)
	}

	tmp, err := os.CreateTemp("", "corpora-*.pdf")
	if err != nil {
		return nil, domain.NewProcessingError("extract", "cannot create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(input.Data); err != nil {
		tmp.Close()
		return nil, domain.NewProcessingError("extract", "cannot write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, domain.NewProcessingError("extract", "cannot close temp file", err)
	}

	// "-" sends text to stdout. pdftotext exits non-zero on damaged
	// pages while still emitting the pages it could read, so partial
	// output wins over the error.
	output, runErr := e.runner.Run(ctx, "pdftotext", "-layout", "-nopgbrk", tmpName, "-")
	content := cleanPDFText(string(output))
	if content == "" {
		if runErr != nil {
			return nil, domain.NewProcessingError("extract", "pdftotext failed", runErr)
		}
		return nil, domain.ErrEmptyContent
	}

	meta := map[string]any{
		"line_count": strings.Count(content, "\n") + 1,
	}
	if runErr != nil {
		meta["partial"] = true
	}

	return &domain.ExtractedText{
		Content:     content,
		Title:       extractTitle(content, input.FileName, input.SourceURL),
		TokenCount:  token.Count(content),
		ContentHash: domain.HashContent(content),
		SizeBytes:   int64(len(input.Data)),
		MediaType:   input.MediaType,
		Format:      "pdf",
		Metadata:    meta,
	}, nil
}

// cleanPDFText normalises pdftotext output: form feeds between pages
// become paragraph breaks and runs of blank lines collapse.
func cleanPDFText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n\n")

	lines := strings.Split(text, "\n")
	var result []string
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			result = append(result, "")
			continue
		}
		blanks = 0
		result = append(result, line)
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}

// maxTitleLength is the longest first line still considered a title.
const maxTitleLength = 200

// extractTitle takes the first short non-empty line as the title, or
// falls back to the file name.
func extractTitle(content, fileName, sourceURL string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxTitleLength {
			continue
		}
		return line
	}
	return titleFromName(fileName, sourceURL)
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
