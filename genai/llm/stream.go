package llm

import (
	"context"
)

// StreamEvent represents a partial event in a streaming LLM response.
// Delta holds the newly generated text fragment, Err indicates a streaming error.
type StreamEvent struct {
	Delta        string
	FinishReason string
	Usage        *Usage
	Err          error
}

// StreamingModel is implemented by LLM providers that support streaming responses.
type StreamingModel interface {
	// Stream sends a chat request with streaming enabled and returns a channel of StreamEvent.
	// The returned error covers everything up to the first byte of the reply;
	// later failures are delivered as StreamEvent.Err.
	Stream(ctx context.Context, request *GenerateRequest) (<-chan StreamEvent, error)
}
