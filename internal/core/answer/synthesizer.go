// Package answer turns retrieved chunk text plus a user query into a
// formatted, insertable answer block: one generation call, then a
// deterministic cleanup-and-markup pass with no further network use.
package answer

import (
	"context"
	"strings"

	"github.com/eniola-bakare/notemark/internal/core"
	"github.com/eniola-bakare/notemark/internal/core/faults"
)

// Result is the synthesized answer for one query. Ephemeral; it is only
// persisted by being merged into the caller's note content.
type Result struct {
	Query   string
	Context string
	Raw     string
	HTML    string
}

type Synthesizer struct {
	llm core.LLMProvider
}

func NewSynthesizer(llm core.LLMProvider) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// Synthesize runs the single generation call and post-processes the raw
// output. Empty context is refused up front: fabricating an answer with
// nothing to ground it would be worse than failing.
func (s *Synthesizer) Synthesize(ctx context.Context, query, contextText string) (*Result, error) {
	if strings.TrimSpace(contextText) == "" {
		return nil, &faults.GenerationError{Reason: "no context retrieved for query"}
	}
	if strings.TrimSpace(query) == "" {
		return nil, &faults.GenerationError{Reason: "empty query"}
	}

	raw, err := s.llm.Generate(ctx, systemPrompt, BuildPrompt(query, contextText))
	if err != nil {
		return nil, faults.AsTimeout("generate answer",
			&faults.GenerationError{Reason: "generative service call failed", Err: err})
	}

	cleaned := StripFiller(raw)
	if strings.TrimSpace(cleaned) == "" {
		return nil, &faults.GenerationError{Reason: "model returned no usable text"}
	}

	return &Result{
		Query:   query,
		Context: contextText,
		Raw:     raw,
		HTML:    WrapQA(query, FormatHTML(cleaned)),
	}, nil
}
