package extractors

import (
	"github.com/corpora-labs/corpora-cli/internal/extractors/docx"
	"github.com/corpora-labs/corpora-cli/internal/extractors/html"
	"github.com/corpora-labs/corpora-cli/internal/extractors/markdown"
	"github.com/corpora-labs/corpora-cli/internal/extractors/pdf"
	"github.com/corpora-labs/corpora-cli/internal/extractors/plaintext"
)

// RegisterDefaults registers all built-in extractors with the registry.
// Call this during application initialisation to enable the standard
// formats. Plaintext registers first: it claims the text/plain fallback
// key while the specific text formats override their own keys.
func RegisterDefaults(r *Registry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(pdf.New())
}
