// Package token provides approximate token counting for budget
// enforcement. Chunking and embedding both measure text through this
// package so their budgets stay consistent without a model-specific
// tokenizer.
package token

import "strings"

// tokensPerWord is the approximation ratio: an average English word
// maps to about 1.3 model tokens.
const tokensPerWord = 1.3

// Count returns the approximate token count for text, computed as
// wordCount x 1.3 rounded down.
func Count(text string) int {
	return ForWords(len(strings.Fields(text)))
}

// ForWords returns the approximate token count for a word count.
func ForWords(words int) int {
	if words <= 0 {
		return 0
	}
	return int(float64(words) * tokensPerWord)
}

// WordBudget returns how many words fit in a token budget.
func WordBudget(tokens int) int {
	if tokens <= 0 {
		return 0
	}
	return int(float64(tokens) / tokensPerWord)
}

// Words splits text on whitespace, preserving punctuation within words.
// Slicing and re-joining these words keeps the original text content,
// which chunking relies on for overlap reconstruction.
func Words(text string) []string {
	return strings.Fields(text)
}

// Tail returns the trailing words of text that approximately amount to
// the given token count, joined with single spaces. It is used to seed
// chunk overlap.
func Tail(text string, tokens int) string {
	words := strings.Fields(text)
	n := WordBudget(tokens)
	if n <= 0 || len(words) == 0 {
		return ""
	}
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[len(words)-n:], " ")
}
