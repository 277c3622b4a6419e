// Package relay is the HTTP client of the chat relay endpoint.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/viant/divinity/genai/llm"
)

// ChatPath is the relay endpoint path.
const ChatPath = "/api/chat"

// ChatRequest is the relay request body.
type ChatRequest struct {
	Messages llm.Messages `json:"messages"`
}

// Client opens relay streams.
type Client struct {
	baseURL string
	http    *http.Client
	headers map[string]string
}

// New constructs a relay client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Open posts the conversation and returns the raw reply stream. The caller
// owns the returned body and must close it.
func (c *Client) Open(ctx context.Context, messages llm.Messages) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, &ChatRequest{Messages: messages})
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: errorMessage(b)}
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, ErrNoBody
	}
	return resp.Body, nil
}

func (c *Client) newRequest(ctx context.Context, in *ChatRequest) (*http.Request, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return nil, err
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	full := base.JoinPath(ChatPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, full.String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// errorMessage extracts the error field of a JSON error body.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
