// Package chunker splits extracted document text into bounded, overlapping
// windows sized in characters. Boundaries prefer the largest separator
// available inside the window so chunks avoid splitting mid-word; the next
// chunk re-includes the previous chunk's trailing overlap so context carries
// across boundaries.
package chunker

import (
	"fmt"
	"strings"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/faults"
)

// Chunk is one output window. Index is the sequential chunk number within
// the source; Page is the 1-indexed page that contributed most of the text
// (0 when the source carried no page metadata).
type Chunk struct {
	Index int
	Page  int
	Text  string
}

// Splitter carries validated chunking parameters.
type Splitter struct {
	size    int
	overlap int
}

// Break preference, largest boundary first: paragraph break, line break,
// sentence end, word boundary. A hard cut is the fallback.
var separators = []string{"\n\n", "\n", ". ", " "}

// New validates 0 <= overlap < size and returns a Splitter.
func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, &faults.InvalidConfigError{Reason: fmt.Sprintf("chunkSize must be positive, got %d", size)}
	}
	if overlap < 0 || overlap >= size {
		return nil, &faults.InvalidConfigError{Reason: fmt.Sprintf("chunkOverlap must satisfy 0 <= overlap < chunkSize, got overlap=%d size=%d", overlap, size)}
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

func (s *Splitter) ChunkSize() int    { return s.size }
func (s *Splitter) ChunkOverlap() int { return s.overlap }

// Split chunks a single text with no page attribution.
// Empty input yields an empty slice, not an error.
func (s *Splitter) Split(text string) []Chunk {
	runes := []rune(text)
	var out []Chunk
	for _, sp := range s.spans(runes) {
		t := string(runes[sp[0]:sp[1]])
		if strings.TrimSpace(t) == "" {
			continue
		}
		out = append(out, Chunk{Index: len(out), Text: t})
	}
	return out
}

// SplitPages chunks an ordered page sequence as one continuous text and tags
// every chunk with the page owning the largest share of its span.
func (s *Splitter) SplitPages(pages []core.PageText) []Chunk {
	type pageSpan struct {
		page       int
		start, end int
	}

	var (
		runes []rune
		spans []pageSpan
	)
	for i, p := range pages {
		if i > 0 {
			runes = append(runes, '\n', '\n')
		}
		start := len(runes)
		runes = append(runes, []rune(p.Text)...)
		spans = append(spans, pageSpan{page: p.Page, start: start, end: len(runes)})
	}

	var out []Chunk
	for _, sp := range s.spans(runes) {
		t := string(runes[sp[0]:sp[1]])
		if strings.TrimSpace(t) == "" {
			continue
		}

		// Dominant page: the one overlapping the most of this span.
		page, best := 0, 0
		for _, ps := range spans {
			lo, hi := max(sp[0], ps.start), min(sp[1], ps.end)
			if hi-lo > best {
				best = hi - lo
				page = ps.page
			}
		}
		out = append(out, Chunk{Index: len(out), Page: page, Text: t})
	}
	return out
}

// spans walks the rune slice greedily: accumulate up to size runes, back off
// to the best separator, then restart overlap runes before the emitted end.
func (s *Splitter) spans(text []rune) [][2]int {
	n := len(text)
	if n == 0 {
		return nil
	}
	var out [][2]int
	start := 0
	for {
		end := start + s.size
		if end >= n {
			out = append(out, [2]int{start, n})
			return out
		}
		end = s.breakAt(text, start, end)
		out = append(out, [2]int{start, end})

		next := end - s.overlap
		if next <= start {
			// Guard forward progress when a separator cut the chunk shorter
			// than the overlap budget.
			next = start + 1
		}
		start = next
	}
}

// breakAt retreats from limit to the nearest preferred separator so the cut
// lands after it. The backscan stops at the middle of the window; a chunk
// half empty is worse than a mid-sentence cut.
func (s *Splitter) breakAt(text []rune, start, limit int) int {
	floor := start + s.size/2
	for _, sep := range separators {
		sepRunes := []rune(sep)
		for i := limit - len(sepRunes); i >= floor; i-- {
			if hasSepAt(text, i, sepRunes) {
				return i + len(sepRunes)
			}
		}
	}
	return limit
}

func hasSepAt(text []rune, i int, sep []rune) bool {
	if i < 0 || i+len(sep) > len(text) {
		return false
	}
	for j, r := range sep {
		if text[i+j] != r {
			return false
		}
	}
	return true
}
