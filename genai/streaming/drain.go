package streaming

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/viant/divinity/genai/llm"
	"golang.org/x/text/encoding/unicode"
)

// ErrStreamAborted is reported when a byte stream ends without a clean close.
var ErrStreamAborted = errors.New("stream aborted")

// Drain reads r to the end, decoding UTF-8 across read boundaries, and calls
// update after every read that produced text with the whole reply accumulated
// so far as an assistant message. update receives full replacements, never
// patches.
//
// A code point split between two reads is held back until its remaining bytes
// arrive. Text delivered before a failure is kept by the caller; Drain does not
// retry.
func Drain(r io.Reader, update func(llm.Message)) error {
	if r == nil {
		return fmt.Errorf("%w: nil reader", ErrStreamAborted)
	}
	decoded := unicode.UTF8.NewDecoder().Reader(r)
	var content strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := decoded.Read(buf)
		if n > 0 {
			content.Write(buf[:n])
			if update != nil {
				update(llm.NewAssistantMessage(content.String()))
			}
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrStreamAborted, err)
	}
}
