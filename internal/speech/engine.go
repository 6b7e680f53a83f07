// Package speech drives text-to-speech playback of the dialogue script. The
// Controller owns a small Idle/Playing/Paused state machine; the Engine
// interface hides how the sound is actually produced so tests can swap in a
// fake and headless hosts can run with speech disabled.
package speech

import (
	"context"
	"os/exec"
	"strings"
)

// Engine produces audio for one utterance. Speak blocks until the utterance
// finishes or ctx is canceled; cancellation must stop the audio promptly.
type Engine interface {
	Speak(ctx context.Context, text string) error
}

// ExecEngine shells out to a local TTS command such as say or espeak,
// passing the utterance as the final argument. Cancellation kills the
// process.
type ExecEngine struct {
	command string
	args    []string
}

// NewExecEngine parses a command line like "espeak -s 150" into an engine.
// An empty command yields a no-op engine.
func NewExecEngine(commandLine string) Engine {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return NullEngine{}
	}
	return &ExecEngine{command: fields[0], args: fields[1:]}
}

func (e *ExecEngine) Speak(ctx context.Context, text string) error {
	args := append(append([]string(nil), e.args...), text)
	cmd := exec.CommandContext(ctx, e.command, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// NullEngine discards every utterance immediately. Used when speech is
// disabled or no TTS command is available.
type NullEngine struct{}

func (NullEngine) Speak(ctx context.Context, text string) error {
	return ctx.Err()
}
