package llm

import (
	"fmt"
)

// MessageRole represents the role of the message sender.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

func (m MessageRole) String() string {
	return string(m)
}

// IsValid reports whether the role is one accepted by the chat API.
func (m MessageRole) IsValid() bool {
	switch m {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single role-tagged entry of a conversation.
type Message struct {
	// Role of the sender (system, user or assistant)
	Role MessageRole `json:"role"`

	// Content is the plain text (usually markdown) of the message.
	Content string `json:"content"`
}

// Messages is an ordered conversation sent to the model.
type Messages []Message

func (m *Messages) Append(msg Message) {
	*m = append(*m, msg)
}

// Validate checks that the conversation is not empty and that every entry
// carries a known role.
func (m Messages) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("%w: messages were empty", ErrMalformedRequest)
	}
	for i, msg := range m {
		if !msg.Role.IsValid() {
			return fmt.Errorf("%w: message[%d] has unsupported role %q", ErrMalformedRequest, i, msg.Role)
		}
	}
	return nil
}

// Options holds sampling parameters for a request; zero values fall back to
// the provider defaults.
type Options struct {
	// Model is the model to use.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"maxTokens,omitempty"`

	// Temperature is the temperature for sampling.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	// TopP is the cumulative probability for top-p sampling.
	TopP float64 `json:"top_p,omitempty" yaml:"topP,omitempty"`
}

// GenerateRequest represents a request to a chat-based LLM.
type GenerateRequest struct {
	// Messages is the list of messages in the conversation.
	Messages Messages `json:"messages"`

	// Options contains additional options for the request.
	Options *Options `json:"options,omitempty"`
}

// Usage contains token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewUserMessage creates a new message with the "user" role.
func NewUserMessage(content string) Message {
	return NewTextMessage(RoleUser, content)
}

// NewSystemMessage creates a new message with the "system" role.
func NewSystemMessage(content string) Message {
	return NewTextMessage(RoleSystem, content)
}

// NewAssistantMessage creates a new message with the "assistant" role.
func NewAssistantMessage(content string) Message {
	return NewTextMessage(RoleAssistant, content)
}

// NewTextMessage creates a new message with the given role and content.
func NewTextMessage(role MessageRole, content string) Message {
	return Message{Role: role, Content: content}
}
