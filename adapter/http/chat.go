package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/viant/divinity/genai/llm"
)

// chatRequest is the relay request body.
type chatRequest struct {
	Messages llm.Messages `json:"messages"`
}

const internalError = "Internal Server Error"

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	var (
		messages int
		relayed  int
		err      error
	)
	defer func() {
		kv := []any{"requestId", RequestID(r.Context()), "messages", messages, "bytes", relayed, "duration", time.Since(started).String()}
		if err != nil {
			s.logger.Error(err, "chat relay failed", kv...)
			return
		}
		s.logger.Info("chat relayed", kv...)
	}()

	req, err := s.decode(w, r)
	if err != nil {
		encodeError(w, http.StatusBadRequest, err.Error())
		return
	}
	messages = len(req.Messages)

	flusher, ok := w.(http.Flusher)
	if !ok {
		err = fmt.Errorf("response writer does not support flushing")
		encodeError(w, http.StatusInternalServerError, internalError)
		return
	}
	events, err := s.model.Stream(r.Context(), &llm.GenerateRequest{Messages: req.Messages, Options: s.options})
	if err != nil {
		encodeError(w, http.StatusInternalServerError, internalError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range events {
		if event.Err != nil {
			err = event.Err
			// headers are gone; abort so the client sees a truncated body
			panic(http.ErrAbortHandler)
		}
		if event.Delta == "" {
			continue
		}
		n, wErr := io.WriteString(w, event.Delta)
		relayed += n
		if wErr != nil {
			err = fmt.Errorf("client went away: %w", wErr)
			return
		}
		flusher.Flush()
	}
	if ctxErr := r.Context().Err(); ctxErr != nil {
		err = ctxErr
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*chatRequest, error) {
	req := &chatRequest{}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err := decoder.Decode(req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", llm.ErrMalformedRequest, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: invalid JSON body: %v", llm.ErrMalformedRequest, err)
	}
	if err := req.Messages.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
