package divinity

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/viant/divinity/client/duet"
	"github.com/viant/divinity/genai/persona"
	"github.com/viant/divinity/genai/transcript"
)

// AskCmd runs a single turn and prints both replies.
// Usage: divinity ask -q "should I quit my job?"
type AskCmd struct {
	relayOptions
	Query string `short:"q" long:"query" description:"question to ask" required:"true"`
}

func (a *AskCmd) Execute(_ []string) error {
	if err := loadEnv(); err != nil {
		return err
	}
	ctx := context.Background()
	_, pair, err := resolvePair(ctx, a.Personas, a.Pair)
	if err != nil {
		return err
	}
	orchestrator := duet.New(a.relay(), pair, duet.WithLogger(newLogger(os.Stderr).WithName("duet")))
	err = orchestrator.Submit(ctx, a.Query)
	printReplies(os.Stdout, pair, orchestrator)
	return err
}

func printReplies(w io.Writer, pair persona.Pair, orchestrator *duet.Orchestrator) {
	a, b := orchestrator.Histories()
	for i, side := range []struct {
		persona persona.Persona
		history *transcript.History
	}{
		{persona: pair.A, history: a},
		{persona: pair.B, history: b},
	} {
		last, ok := side.history.Last()
		if !ok {
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s [%s]\n%s\n", side.persona.Name, last.Phase, last.Content)
	}
}
