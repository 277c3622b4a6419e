package duet

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/divinity/genai/llm"
	"github.com/viant/divinity/genai/persona"
	"github.com/viant/divinity/genai/streaming"
	"github.com/viant/divinity/genai/transcript"
)

var testPair = persona.Pair{
	ID: "test",
	A:  persona.Persona{ID: "angel", Directive: "be good"},
	B:  persona.Persona{ID: "devil", Directive: "be bad"},
}

// failingReader yields its text and then fails like an aborted chunked body.
type failingReader struct {
	text string
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.ErrUnexpectedEOF
	}
	r.done = true
	return copy(p, r.text), nil
}

type trackedBody struct {
	io.Reader
	closed atomic.Bool
}

func (b *trackedBody) Close() error {
	b.closed.Store(true)
	return nil
}

// fakeRelay routes by the leading system directive.
type fakeRelay struct {
	mu     sync.Mutex
	calls  map[string][]llm.Messages
	open   func(directive string, messages llm.Messages) (io.ReadCloser, error)
	bodies []*trackedBody
}

func (f *fakeRelay) Open(ctx context.Context, messages llm.Messages) (io.ReadCloser, error) {
	directive := messages[0].Content
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string][]llm.Messages{}
	}
	f.calls[directive] = append(f.calls[directive], messages)
	f.mu.Unlock()
	return f.open(directive, messages)
}

func (f *fakeRelay) track(r io.Reader) io.ReadCloser {
	body := &trackedBody{Reader: r}
	f.mu.Lock()
	f.bodies = append(f.bodies, body)
	f.mu.Unlock()
	return body
}

func (f *fakeRelay) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, calls := range f.calls {
		total += len(calls)
	}
	return total
}

func echoRelay(replies map[string][]string) *fakeRelay {
	relay := &fakeRelay{}
	turn := map[string]int{}
	var mu sync.Mutex
	relay.open = func(directive string, messages llm.Messages) (io.ReadCloser, error) {
		mu.Lock()
		defer mu.Unlock()
		reply := replies[directive][turn[directive]]
		turn[directive]++
		return relay.track(strings.NewReader(reply)), nil
	}
	return relay
}

func TestOrchestrator_Submit_Empty(t *testing.T) {
	relay := echoRelay(nil)
	notified := 0
	o := New(relay, testPair, WithListener(func() { notified++ }))
	for _, text := range []string{"", "   ", "\n\t"} {
		require.NoError(t, o.Submit(context.Background(), text))
	}
	assert.Equal(t, 0, relay.count())
	assert.Equal(t, 0, notified)
	assert.Empty(t, o.Users())
	assert.Empty(t, o.Transcript())
	a, b := o.Histories()
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestOrchestrator_Submit_Turns(t *testing.T) {
	relay := echoRelay(map[string][]string{
		"be good": {"R1a", "R2a"},
		"be bad":  {"R1b", "R2b"},
	})
	o := New(relay, testPair)
	require.NoError(t, o.Submit(context.Background(), "U1"))
	require.NoError(t, o.Submit(context.Background(), "U2"))
	assert.False(t, o.Loading())

	expect := transcript.Transcript{
		llm.NewUserMessage("U1"), llm.NewAssistantMessage("R1a"), llm.NewAssistantMessage("R1b"),
		llm.NewUserMessage("U2"), llm.NewAssistantMessage("R2a"), llm.NewAssistantMessage("R2b"),
	}
	assert.EqualValues(t, expect, o.Transcript())

	second := relay.calls["be good"][1]
	assert.EqualValues(t, llm.Messages{
		llm.NewSystemMessage("be good"),
		llm.NewUserMessage("U1"),
		llm.NewAssistantMessage("R1a"),
		llm.NewUserMessage("U2"),
	}, second)
	first := relay.calls["be bad"][0]
	assert.EqualValues(t, llm.Messages{llm.NewSystemMessage("be bad"), llm.NewUserMessage("U1")}, first)

	a, b := o.Histories()
	last, _ := a.Last()
	assert.Equal(t, transcript.Complete, last.Phase)
	last, _ = b.Last()
	assert.Equal(t, transcript.Complete, last.Phase)
	for _, body := range relay.bodies {
		assert.True(t, body.closed.Load())
	}
}

func TestOrchestrator_Submit_TrimsInput(t *testing.T) {
	relay := echoRelay(map[string][]string{"be good": {"R1a"}, "be bad": {"R1b"}})
	o := New(relay, testPair)
	require.NoError(t, o.Submit(context.Background(), "  hi \n"))

	assert.Equal(t, []llm.Message{llm.NewUserMessage("hi")}, o.Users())
	assert.EqualValues(t, llm.Messages{llm.NewSystemMessage("be good"), llm.NewUserMessage("hi")}, relay.calls["be good"][0])
	user, ok := o.Transcript().Latest(transcript.SlotUser)
	require.True(t, ok)
	assert.Equal(t, "hi", user.Content)
}

func TestOrchestrator_Submit_FailureIsolation(t *testing.T) {
	relay := &fakeRelay{}
	relay.open = func(directive string, messages llm.Messages) (io.ReadCloser, error) {
		if directive == "be good" {
			return relay.track(&failingReader{text: "Hello"}), nil
		}
		return relay.track(strings.NewReader("Hello, I am complete.")), nil
	}
	o := New(relay, testPair)
	err := o.Submit(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, streaming.ErrStreamAborted)
	assert.Contains(t, err.Error(), "angel")
	assert.NotContains(t, err.Error(), "devil")
	assert.False(t, o.Loading())

	a, b := o.Histories()
	lastA, _ := a.Last()
	assert.Equal(t, transcript.Failed, lastA.Phase)
	assert.Equal(t, "Hello", lastA.Content)
	lastB, _ := b.Last()
	assert.Equal(t, transcript.Complete, lastB.Phase)
	assert.Equal(t, "Hello, I am complete.", lastB.Content)

	tr := o.Transcript()
	left, ok := tr.Latest(transcript.SlotPersonaA)
	require.True(t, ok)
	assert.Equal(t, "Hello", left.Content)
}

func TestOrchestrator_Submit_StartFailure(t *testing.T) {
	relay := &fakeRelay{}
	startErr := errors.New("connection refused")
	relay.open = func(directive string, messages llm.Messages) (io.ReadCloser, error) {
		if directive == "be bad" {
			return nil, startErr
		}
		return relay.track(strings.NewReader("never decoded")), nil
	}
	o := New(relay, testPair)
	err := o.Submit(context.Background(), "hi")
	require.ErrorIs(t, err, startErr)
	assert.False(t, o.Loading())
	assert.Equal(t, 2, relay.count())

	a, b := o.Histories()
	for _, history := range []*transcript.History{a, b} {
		last, ok := history.Last()
		require.True(t, ok)
		assert.Equal(t, transcript.Failed, last.Phase)
		assert.Equal(t, "", last.Content)
	}
	require.Len(t, relay.bodies, 1)
	assert.True(t, relay.bodies[0].closed.Load())

	// the failed empty replies are left out of the next request
	relay.open = func(directive string, messages llm.Messages) (io.ReadCloser, error) {
		return relay.track(strings.NewReader("ok")), nil
	}
	require.NoError(t, o.Submit(context.Background(), "again"))
	assert.EqualValues(t, llm.Messages{
		llm.NewSystemMessage("be good"),
		llm.NewUserMessage("hi"),
		llm.NewUserMessage("again"),
	}, relay.calls["be good"][1])
}

func TestOrchestrator_Submit_Busy(t *testing.T) {
	reader, writer := io.Pipe()
	relay := &fakeRelay{}
	relay.open = func(directive string, messages llm.Messages) (io.ReadCloser, error) {
		if directive == "be good" {
			return relay.track(reader), nil
		}
		return relay.track(strings.NewReader("done")), nil
	}
	o := New(relay, testPair)
	done := make(chan error, 1)
	go func() { done <- o.Submit(context.Background(), "first") }()

	require.Eventually(t, o.Loading, time.Second, time.Millisecond)
	assert.ErrorIs(t, o.Submit(context.Background(), "second"), ErrBusy)

	_, err := writer.Write([]byte("partial "))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		a, _ := o.Histories()
		last, _ := a.Last()
		return last.Content == "partial "
	}, time.Second, time.Millisecond)
	assert.True(t, o.Loading())

	_, _ = writer.Write([]byte("reply"))
	require.NoError(t, writer.Close())
	require.NoError(t, <-done)
	assert.False(t, o.Loading())
	assert.Len(t, o.Users(), 1)
	a, _ := o.Histories()
	last, _ := a.Last()
	assert.Equal(t, "partial reply", last.Content)
}

func TestOrchestrator_SetPair(t *testing.T) {
	relay := echoRelay(map[string][]string{
		"be good":       {"R1a"},
		"be bad":        {"R1b"},
		"be supportive": {"R2a"},
		"be critical":   {"R2b"},
	})
	var notified atomic.Int32
	o := New(relay, testPair, WithListener(func() { notified.Add(1) }))
	require.NoError(t, o.Submit(context.Background(), "U1"))

	other := persona.Pair{
		ID: "other",
		A:  persona.Persona{ID: "supportive", Directive: "be supportive"},
		B:  persona.Persona{ID: "critical", Directive: "be critical"},
	}
	before := notified.Load()
	o.SetPair(other)
	assert.Equal(t, before+1, notified.Load())
	assert.Equal(t, "other", o.Pair().ID)

	a, b := o.Histories()
	assert.Equal(t, "be supportive", a.System.Content)
	assert.Equal(t, "be critical", b.System.Content)
	assert.Equal(t, "R1a", a.Replies[0].Content)

	require.NoError(t, o.Submit(context.Background(), "U2"))
	assert.EqualValues(t, llm.Messages{
		llm.NewSystemMessage("be critical"),
		llm.NewUserMessage("U1"),
		llm.NewAssistantMessage("R1b"),
		llm.NewUserMessage("U2"),
	}, relay.calls["be critical"][0])
	assert.Len(t, o.Transcript(), 6)
}
