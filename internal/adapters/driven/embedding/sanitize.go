package embedding

import (
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/token"
)

// maxInputTokens bounds a single embedding input. Hosted models accept
// 8191 tokens; staying under 8000 leaves headroom for the estimate
// running slightly low on punctuation-heavy text.
const maxInputTokens = 8000

// DefaultMaxInputWords is the word cap applied during sanitisation,
// derived from maxInputTokens via the same estimate used by chunking.
var DefaultMaxInputWords = token.WordBudget(maxInputTokens)

// Sanitize prepares text for an embedding call: leading and trailing
// whitespace is trimmed, internal whitespace runs collapse to single
// spaces, and anything past maxWords is dropped. Returns "" when
// nothing survives, which callers map to an empty vector.
func Sanitize(text string, maxWords int) string {
	words := strings.Fields(text)
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
