package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eniola-bakare/notemark/internal/core/coretest"
)

func TestGeminiGenerateRejectsEmptyPromptWithoutModelCall(t *testing.T) {
	llm := &coretest.FakeLLM{Response: "should not be used"}
	h := NewGeminiHandler(llm)

	for _, body := range []string{`{"prompt":""}`, `{"prompt":"   "}`, `{}`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/gemini", strings.NewReader(body))
		h.Generate(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.Empty(t, llm.Prompts, "model must never be invoked for an empty prompt")
}

func TestGeminiGenerateRejectsInvalidJSON(t *testing.T) {
	h := NewGeminiHandler(&coretest.FakeLLM{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/gemini", strings.NewReader("{not json"))
	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeminiGenerateReturnsTextAndUsage(t *testing.T) {
	llm := &coretest.FakeLLM{Response: "twelve chars"}
	h := NewGeminiHandler(llm)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/gemini",
		strings.NewReader(`{"prompt":"tell me something"}`))
	h.Generate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"text":"twelve chars"`)
	assert.Contains(t, body, `"candidatesTokens":3`)
	require.Len(t, llm.Prompts, 1)
	assert.Equal(t, "tell me something", llm.Prompts[0])
}

func TestGeminiGenerateClassifiesUpstreamErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errors.New("rate limit exceeded for model"), http.StatusTooManyRequests},
		{errors.New("quota exhausted"), http.StatusTooManyRequests},
		{errors.New("invalid api key"), http.StatusUnauthorized},
		{errors.New("backend unavailable"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := NewGeminiHandler(&coretest.FakeLLM{Err: tc.err})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/gemini",
			strings.NewReader(`{"prompt":"hi"}`))
		h.Generate(rec, req)

		assert.Equal(t, tc.want, rec.Code, "error %q", tc.err)
	}
}

func TestGeminiHealth(t *testing.T) {
	h := NewGeminiHandler(&coretest.FakeLLM{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/api/gemini", nil)
	h.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
