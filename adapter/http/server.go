// Package http exposes the chat relay endpoint.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/viant/divinity/genai/llm"
	"github.com/viant/divinity/genai/usage"
)

// DefaultMaxBodyBytes bounds the accepted request body.
const DefaultMaxBodyBytes int64 = 1 << 20

// Server relays conversations to a streaming model:
//
//	POST /api/chat  -> text/plain chunked reply stream
//	GET  /api/usage -> per model token totals, when a usage source is set
//	GET  /healthz   -> {"status":"ok"}
//
// It keeps no per-request state, so concurrent requests are independent.
type Server struct {
	model        llm.StreamingModel
	options      *llm.Options
	logger       logr.Logger
	maxBodyBytes int64
	usage        UsageSource
}

// UsageSource reports accumulated token usage.
type UsageSource interface {
	Snapshot() map[string]usage.Stat
}

// ServerOption customises HTTP server behaviour.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger logr.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithOptions sets generation options applied to every relayed request.
func WithOptions(options *llm.Options) ServerOption {
	return func(s *Server) { s.options = options }
}

// WithUsage exposes the source on GET /api/usage.
func WithUsage(source UsageSource) ServerOption {
	return func(s *Server) { s.usage = source }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(limit int64) ServerOption {
	return func(s *Server) {
		if limit > 0 {
			s.maxBodyBytes = limit
		}
	}
}

// NewServer returns an http.Handler with routes bound.
func NewServer(model llm.StreamingModel, opts ...ServerOption) http.Handler {
	s := &Server{model: model, logger: logr.Discard(), maxBodyBytes: DefaultMaxBodyBytes}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	if s.usage != nil {
		mux.HandleFunc("GET /api/usage", func(w http.ResponseWriter, r *http.Request) {
			encode(w, http.StatusOK, s.usage.Snapshot())
		})
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		encode(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return WithCORS(WithRequestID(mux))
}

type errorResponse struct {
	Error string `json:"error"`
}

// encode writes a JSON response.
func encode(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func encodeError(w http.ResponseWriter, statusCode int, message string) {
	encode(w, statusCode, errorResponse{Error: message})
}
