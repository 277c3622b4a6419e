// Package logging builds the process logger.
package logging

import (
	"io"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Name prefixes every log line.
const Name = "divinity"

// New returns a logr logger writing through the standard log package.
// verbosity enables V(n) lines for n <= verbosity.
func New(w io.Writer, verbosity int) logr.Logger {
	if w == nil {
		w = os.Stderr
	}
	stdr.SetVerbosity(verbosity)
	return stdr.NewWithOptions(log.New(w, "", log.LstdFlags), stdr.Options{}).WithName(Name)
}
