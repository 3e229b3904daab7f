package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/eniola-bakare/notemark/internal/core"
)

// GeminiHandler exposes a thin pass-through to the generative model for
// free-form prompts, with no retrieval attached.
type GeminiHandler struct {
	llm core.LLMProvider
}

func NewGeminiHandler(llm core.LLMProvider) *GeminiHandler {
	return &GeminiHandler{llm: llm}
}

type geminiRequest struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   *int32   `json:"maxTokens,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
}

type geminiUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CandidatesTokens int `json:"candidatesTokens"`
	TotalTokens      int `json:"totalTokens"`
}

type geminiResponse struct {
	Text  string      `json:"text"`
	Usage geminiUsage `json:"usage"`
}

func (h *GeminiHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req geminiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	// Rejected before any model call.
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	maxTokens := int32(2048)
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	temperature := float32(0.7)
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	text, err := h.llm.GenerateWithConfig(r.Context(), req.Prompt, maxTokens, temperature)
	if err != nil {
		http.Error(w, err.Error(), classifyModelError(err))
		return
	}

	promptTokens := approxUsage(req.Prompt)
	candidatesTokens := approxUsage(text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(geminiResponse{
		Text: text,
		Usage: geminiUsage{
			PromptTokens:     promptTokens,
			CandidatesTokens: candidatesTokens,
			TotalTokens:      promptTokens + candidatesTokens,
		},
	})
}

// Health answers HEAD probes so clients can cheaply check the endpoint is up.
func (h *GeminiHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// classifyModelError maps an upstream failure to a client-facing status by
// inspecting the message. The SDK error types are not stable enough to
// switch on directly.
func classifyModelError(err error) int {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "quota"):
		return http.StatusTooManyRequests
	case strings.Contains(msg, "auth"), strings.Contains(msg, "api key"), strings.Contains(msg, "key"):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// approxUsage estimates token usage at ~4 chars per token.
func approxUsage(s string) int {
	return len(s) / 4
}
