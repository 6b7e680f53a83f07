package speech

import (
	"context"
	"strings"
)

// State is the playback phase of the controller.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Utterance is one engine run handed out by the controller. The caller runs
// Speak on its own goroutine and reports the generation back through
// Finished when it returns.
type Utterance struct {
	Text string
	Gen  uint64

	engine Engine
	ctx    context.Context
}

// Speak blocks until the utterance completes or is canceled by the
// controller.
func (u *Utterance) Speak() error {
	return u.engine.Speak(u.ctx, u.Text)
}

// Controller enforces that at most one utterance is ever active. It is not
// safe for concurrent use; the UI event loop owns it, and only the Utterance
// handed out leaves that loop.
type Controller struct {
	engine Engine
	state  State
	text   string
	gen    uint64
	cancel context.CancelFunc
}

// NewController wraps an engine in the playback state machine.
func NewController(engine Engine) *Controller {
	return &Controller{engine: engine}
}

// State reports the current playback phase.
func (c *Controller) State() State { return c.state }

// Play cancels whatever is active and starts speaking text from the top.
// Blank text is refused.
func (c *Controller) Play(text string) *Utterance {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	c.stopActive()
	c.text = text
	c.state = Playing
	return c.newUtterance()
}

// Pause halts the active utterance but remembers it, so Resume can pick the
// script back up. Only meaningful while playing.
func (c *Controller) Pause() {
	if c.state != Playing {
		return
	}
	c.stopActive()
	c.state = Paused
}

// Resume restarts the paused utterance. Local TTS commands cannot continue
// mid-word, so the script is spoken again from the top.
func (c *Controller) Resume() *Utterance {
	if c.state != Paused || c.text == "" {
		return nil
	}
	c.state = Playing
	return c.newUtterance()
}

// Stop cancels any active or paused utterance and returns to Idle. Safe to
// call in any state; leaving the audio view routes here.
func (c *Controller) Stop() {
	c.stopActive()
	c.text = ""
	c.state = Idle
}

// Finished marks an utterance as naturally complete. Stale generations are
// ignored, so a canceled run ending late cannot knock out a newer one.
func (c *Controller) Finished(gen uint64) bool {
	if gen != c.gen || c.state != Playing {
		return false
	}
	c.cancel = nil
	c.text = ""
	c.state = Idle
	return true
}

func (c *Controller) newUtterance() *Utterance {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.gen++
	return &Utterance{Text: c.text, Gen: c.gen, engine: c.engine, ctx: ctx}
}

func (c *Controller) stopActive() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
