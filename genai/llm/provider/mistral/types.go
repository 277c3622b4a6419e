package mistral

import (
	"encoding/json"

	"github.com/viant/divinity/genai/llm"
)

// Request represents the chat completion request body of the Mistral API.
type Request struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
	Stream      bool          `json:"stream"`
}

// Usage mirrors the usage block sent with the final chunk.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Delta carries the incremental part of a choice; Content is kept raw since
// some models stream structured (non-string) content chunks.
type Delta struct {
	Role    string          `json:"role,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Text returns the delta text when the content is a plain string.
func (d Delta) Text() (string, bool) {
	if len(d.Content) == 0 {
		return "", false
	}
	var text string
	if err := json.Unmarshal(d.Content, &text); err != nil {
		return "", false
	}
	return text, true
}

// Choice is a single streamed choice.
type Choice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Chunk is one `data:` payload of the completion stream.
type Chunk struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// ErrorResponse is the JSON error body returned on non-200 answers.
type ErrorResponse struct {
	Object  string `json:"object"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}
