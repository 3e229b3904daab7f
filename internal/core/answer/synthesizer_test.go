package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eniola-bakare/notemark/internal/core/coretest"
	"github.com/eniola-bakare/notemark/internal/core/faults"
)

func TestSynthesizeRefusesEmptyContext(t *testing.T) {
	llm := &coretest.FakeLLM{Response: "should never be used"}
	s := NewSynthesizer(llm)

	_, err := s.Synthesize(context.Background(), "any question", "   \n ")
	require.Error(t, err)
	var genErr *faults.GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Empty(t, llm.Prompts, "model must not be invoked without context")
}

func TestSynthesizePropagatesModelFailure(t *testing.T) {
	llm := &coretest.FakeLLM{Err: errors.New("upstream 500")}
	s := NewSynthesizer(llm)

	_, err := s.Synthesize(context.Background(), "q", "some context")
	require.Error(t, err)
	var genErr *faults.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestSynthesizeRejectsEmptyModelOutput(t *testing.T) {
	for _, raw := range []string{"", "   ", "Okay, I understand.  "} {
		llm := &coretest.FakeLLM{Response: raw}
		s := NewSynthesizer(llm)

		_, err := s.Synthesize(context.Background(), "q", "ctx")
		require.Error(t, err, "raw=%q", raw)
		var genErr *faults.GenerationError
		assert.ErrorAs(t, err, &genErr)
	}
}

func TestSynthesizeFormatsAndWraps(t *testing.T) {
	llm := &coretest.FakeLLM{
		Response: "Okay, I understand the question. # Summary\n\nThe answer is `42`.",
	}
	s := NewSynthesizer(llm)

	res, err := s.Synthesize(context.Background(), "what is the answer?", "chunk text here")
	require.NoError(t, err)

	assert.Equal(t, "what is the answer?", res.Query)
	assert.Contains(t, res.HTML, "<strong>Question: </strong>what is the answer?")
	assert.Contains(t, res.HTML, ">Summary</h1>")
	assert.Contains(t, res.HTML, "<code")
	assert.NotContains(t, res.HTML, "Okay, I understand")

	require.Len(t, llm.Prompts, 1)
	assert.Contains(t, llm.Prompts[0], "chunk text here")
	assert.Contains(t, llm.Prompts[0], "what is the answer?")
}
