package dialogue

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Voice is the boundary to speech capture and playback. The dialogue logic
// only ever sees finished utterances and plain text to say.
type Voice interface {
	// Listen streams learner utterances until the input ends or ctx is done.
	Listen(ctx context.Context) <-chan string

	// Speak plays text to the learner.
	Speak(ctx context.Context, text string) error
}

// LineVoice is a text-only Voice: one line of input is one utterance.
type LineVoice struct {
	in     io.Reader
	out    io.Writer
	prefix string
}

// NewLineVoice creates a LineVoice reading from in and writing to out.
// Spoken lines are prefixed with prefix.
func NewLineVoice(in io.Reader, out io.Writer, prefix string) *LineVoice {
	return &LineVoice{in: in, out: out, prefix: prefix}
}

// Listen must be called at most once per LineVoice.
func (v *LineVoice) Listen(ctx context.Context) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(v.in)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (v *LineVoice) Speak(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(v.out, "%s%s\n", v.prefix, text)
	return err
}
