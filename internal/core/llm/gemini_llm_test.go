package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eniola-bakare/notemark/internal/core/faults"
)

func TestTextFromResponseJoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text("first "), genai.Text("second")},
			},
		}},
	}

	got, err := textFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "first second", got)
}

func TestTextFromResponseEmptyIsGenerationError(t *testing.T) {
	cases := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: nil}},
		}},
		{"no text parts", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := textFromResponse(tc.resp)
			assert.Empty(t, got)
			var genErr *faults.GenerationError
			require.ErrorAs(t, err, &genErr)
		})
	}
}
