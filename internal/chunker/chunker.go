// Package chunker splits extracted text into token-bounded chunks with
// configurable overlap.
//
// Splitting is hierarchical: paragraphs are the preferred unit, a
// paragraph over budget is split into sentences, and a sentence over
// budget falls back to a raw token window. Units are then packed into
// chunks up to the token budget, seeding each new chunk with the tail
// of the previous one so adjacent chunks share context.
package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/token"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker is a stateless text chunker. Configuration travels with each
// call so concurrent documents can chunk under different parameters.
type Chunker struct{}

// New creates a new chunker.
func New() *Chunker {
	return &Chunker{}
}

// unit is one indivisible piece of text produced by splitting. Units
// are never larger than the chunk budget.
type unit struct {
	text  string
	words int
	sep   string // separator before this unit inside a chunk
	kind  domain.ChunkStrategy
}

// Chunk splits text into ordered, token-bounded chunks.
func (c *Chunker) Chunk(_ context.Context, documentID, text string, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	// Whole text within budget: one chunk, no overlap.
	total := token.Count(text)
	if total <= cfg.ChunkSize {
		return []domain.Chunk{{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Content:    text,
			Position:   0,
			TokenCount: total,
			Strategy:   cfg.Strategy(),
			IsFirst:    true,
			IsLast:     true,
		}}, nil
	}

	units := split(text, cfg)
	chunks := pack(documentID, units, cfg)
	return postProcess(chunks, cfg), nil
}

// split breaks text into budget-sized units at the granularity the
// config asks for, falling back to finer granularities as needed.
func split(text string, cfg domain.ChunkConfig) []unit {
	switch cfg.Strategy() {
	case domain.StrategyParagraph:
		var units []unit
		for _, para := range splitParagraphs(text) {
			words := len(strings.Fields(para))
			if token.ForWords(words) <= cfg.ChunkSize {
				units = append(units, unit{text: para, words: words, sep: "\n\n", kind: domain.StrategyParagraph})
				continue
			}
			units = append(units, sentenceUnits(para, cfg, "\n\n")...)
		}
		return units
	case domain.StrategySentence:
		return sentenceUnits(text, cfg, "\n\n")
	default:
		return windowUnits(text, cfg, "\n\n")
	}
}

// sentenceUnits splits text into sentence units. A sentence over
// budget degrades to token windows. firstSep is the separator placed
// before the first unit when it follows earlier text in a chunk.
func sentenceUnits(text string, cfg domain.ChunkConfig, firstSep string) []unit {
	var units []unit
	for i, sentence := range splitSentences(text) {
		sep := " "
		if i == 0 {
			sep = firstSep
		}
		words := len(strings.Fields(sentence))
		if token.ForWords(words) <= cfg.ChunkSize {
			units = append(units, unit{text: sentence, words: words, sep: sep, kind: domain.StrategySentence})
			continue
		}
		units = append(units, windowUnits(sentence, cfg, sep)...)
	}
	return units
}

// windowUnits slices text into fixed word windows. Window size leaves
// room for an overlap seed, so a seeded chunk plus one window always
// fits the budget.
func windowUnits(text string, cfg domain.ChunkConfig, firstSep string) []unit {
	words := token.Words(text)
	size := token.WordBudget(cfg.ChunkSize - cfg.Overlap)
	if size < 1 {
		size = 1
	}

	units := make([]unit, 0, len(words)/size+1)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		sep := " "
		if start == 0 {
			sep = firstSep
		}
		units = append(units, unit{
			text:  strings.Join(words[start:end], " "),
			words: end - start,
			sep:   sep,
			kind:  domain.StrategyTokenWindow,
		})
	}
	return units
}

// pack assembles units into chunks up to the word budget, seeding each
// new chunk with the overlap tail of the one just closed.
func pack(documentID string, units []unit, cfg domain.ChunkConfig) []domain.Chunk {
	budget := token.WordBudget(cfg.ChunkSize)
	if budget < 1 {
		budget = 1
	}

	var (
		chunks  []domain.Chunk
		content strings.Builder
		words   int
		seeded  bool
		kind    = cfg.Strategy()
	)

	emit := func(seedNext bool) {
		text := content.String()
		overlapEnd := 0
		if seedNext && cfg.Overlap > 0 {
			overlapEnd = cfg.Overlap
		}
		overlapStart := 0
		if seeded {
			overlapStart = cfg.Overlap
		}
		chunks = append(chunks, domain.Chunk{
			ID:           uuid.New().String(),
			DocumentID:   documentID,
			Content:      text,
			Position:     len(chunks),
			TokenCount:   token.Count(text),
			OverlapStart: overlapStart,
			OverlapEnd:   overlapEnd,
			Strategy:     kind,
		})

		content.Reset()
		words = 0
		seeded = false
		kind = cfg.Strategy()

		if seedNext && cfg.Overlap > 0 {
			seed := token.Tail(text, cfg.Overlap)
			if seed != "" {
				content.WriteString(seed)
				words = len(strings.Fields(seed))
				seeded = true
			}
		}
	}

	// dropSeed abandons the pending seed when it would not leave room
	// for the next unit, and clears the bookkeeping on the chunk that
	// produced it.
	dropSeed := func() {
		content.Reset()
		words = 0
		seeded = false
		if n := len(chunks); n > 0 {
			chunks[n-1].OverlapEnd = 0
		}
	}

	for _, u := range units {
		if words > 0 && words+u.words > budget {
			emit(true)
			if seeded && words+u.words > budget {
				dropSeed()
			}
		}
		if content.Len() > 0 {
			content.WriteString(u.sep)
		}
		content.WriteString(u.text)
		words += u.words
		kind = finer(kind, u.kind)
	}
	if words > 0 {
		emit(false)
	}

	return chunks
}

// postProcess cleans chunk content, drops undersized chunks, and fixes
// up positions, flags and edge overlaps on the survivors.
func postProcess(chunks []domain.Chunk, cfg domain.ChunkConfig) []domain.Chunk {
	out := chunks[:0]
	for _, chunk := range chunks {
		chunk.Content = strings.TrimSpace(chunk.Content)
		chunk.TokenCount = token.Count(chunk.Content)
		if chunk.TokenCount < cfg.MinChunkSize {
			continue
		}
		out = append(out, chunk)
	}
	if len(out) == 0 {
		return nil
	}

	for i := range out {
		out[i].Position = i
		out[i].IsFirst = i == 0
		out[i].IsLast = i == len(out)-1
		if out[i].IsFirst {
			out[i].OverlapStart = 0
		}
		if out[i].IsLast {
			out[i].OverlapEnd = 0
		}
		if out[i].OverlapStart >= out[i].TokenCount {
			out[i].OverlapStart = out[i].TokenCount - 1
		}
	}
	return out
}

// finer returns the finer-grained of two strategies. A chunk is
// labelled by the finest granularity that contributed to it.
func finer(a, b domain.ChunkStrategy) domain.ChunkStrategy {
	if rank(b) > rank(a) {
		return b
	}
	return a
}

func rank(s domain.ChunkStrategy) int {
	switch s {
	case domain.StrategySentence:
		return 1
	case domain.StrategyTokenWindow:
		return 2
	default:
		return 0
	}
}

var (
	paragraphBreak  = regexp.MustCompile(`\n[ \t]*\n+`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// splitParagraphs splits text on blank-line boundaries.
func splitParagraphs(text string) []string {
	var out []string
	for _, part := range paragraphBreak.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitSentences splits text on terminal punctuation. Text after the
// last terminator, or text with no terminators at all, comes back as a
// final sentence. Whitespace inside each sentence collapses to single
// spaces.
func splitSentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentencePattern.FindAllStringIndex(text, -1) {
		sentence := normaliseSpace(text[loc[0]:loc[1]])
		if sentence != "" {
			out = append(out, sentence)
		}
		last = loc[1]
	}
	if rest := normaliseSpace(text[last:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func normaliseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
