package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tmaxmax/go-sse"
	"github.com/viant/divinity/genai/llm"
)

const providerName = "mistral"

// Stream sends a chat request to the Mistral API with streaming enabled and
// returns a channel of text deltas. Rate-limited connects are retried according
// to the client retry policy; once the upstream answered 200, failures are
// reported on the channel.
func (c *Client) Stream(ctx context.Context, request *llm.GenerateRequest) (<-chan llm.StreamEvent, error) {
	if request == nil {
		return nil, fmt.Errorf("%w: request was nil", llm.ErrMalformedRequest)
	}
	if err := request.Messages.Validate(); err != nil {
		return nil, err
	}
	req := c.toRequest(request)
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	cancel := context.CancelFunc(func() {})
	if c.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
	}

	var resp *http.Response
	policy := c.Retry
	if policy.OnRetry == nil {
		policy.OnRetry = func(retry int, err error) {
			c.logger.V(1).Info("rate limited, retrying", "retry", retry, "maxRetries", policy.MaxRetries, "delay", policy.Delay.String())
		}
	}
	err = policy.Do(ctx, func(ctx context.Context) error {
		var connectErr error
		resp, connectErr = c.connect(ctx, payload)
		return connectErr
	})
	if err != nil {
		cancel()
		return nil, err
	}

	events := make(chan llm.StreamEvent)
	go func() {
		defer cancel()
		defer resp.Body.Close()
		defer close(events)
		c.consume(ctx, req.Model, resp.Body, events)
	}()
	return events, nil
}

// connect issues a single streaming request; non-200 answers are turned into
// *llm.UpstreamError so that the retry policy can classify them.
func (c *Client) connect(ctx context.Context, payload []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return nil, &llm.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Body: errorMessage(body)}
}

func (c *Client) consume(ctx context.Context, model string, body io.Reader, events chan<- llm.StreamEvent) {
	send := func(ev llm.StreamEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	var lastUsage *llm.Usage
	for ev, err := range sse.Read(body, nil) {
		if err != nil {
			send(llm.StreamEvent{Err: fmt.Errorf("stream error: %w", err)})
			return
		}
		data := strings.TrimSpace(ev.Data)
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			break
		}
		var chunk Chunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			send(llm.StreamEvent{Err: fmt.Errorf("failed to decode stream chunk: %w", err)})
			return
		}
		if chunk.Model != "" {
			model = chunk.Model
		}
		if chunk.Usage != nil && chunk.Usage.TotalTokens > 0 {
			lastUsage = &llm.Usage{PromptTokens: chunk.Usage.PromptTokens, CompletionTokens: chunk.Usage.CompletionTokens, TotalTokens: chunk.Usage.TotalTokens}
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		out := llm.StreamEvent{}
		if text, ok := choice.Delta.Text(); ok {
			out.Delta = text
		}
		if choice.FinishReason != nil {
			out.FinishReason = *choice.FinishReason
			out.Usage = lastUsage
		}
		if out.Delta == "" && out.FinishReason == "" {
			continue
		}
		if !send(out) {
			return
		}
	}
	if lastUsage != nil {
		c.UsageListener.OnUsage(model, lastUsage)
	}
}

func (c *Client) toRequest(request *llm.GenerateRequest) *Request {
	req := &Request{
		Model:    c.Model,
		Messages: request.Messages,
		TopP:     c.TopP,
		Stream:   true,
	}
	if opts := request.Options; opts != nil {
		if opts.Model != "" {
			req.Model = opts.Model
		}
		if opts.TopP > 0 {
			req.TopP = opts.TopP
		}
		req.Temperature = opts.Temperature
		req.MaxTokens = opts.MaxTokens
	}
	return req
}

func errorMessage(body []byte) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return strings.TrimSpace(string(body))
}
