package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

const (
	jobKindUpload   jobKind = "upload"
	jobKindAsk      jobKind = "ask"
	jobKindDialogue jobKind = "dialogue"
	jobKindGuide    jobKind = "guide"
	jobKindAnalyze  jobKind = "analyze"
	jobKindExport   jobKind = "export"
)

type jobStatus string

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

// jobSnapshot is what the status bar knows about one backend call.
type jobSnapshot struct {
	ID       string
	Kind     jobKind
	Status   jobStatus
	Started  time.Time
	Duration time.Duration
	Err      string
}

// jobSignalMsg announces that a job started running.
type jobSignalMsg struct {
	Snapshot jobSnapshot
}

// jobResultEnvelope wraps the job's payload message with its final snapshot
// so the model can update badges and then dispatch the payload.
type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) tea.Msg

// jobBus runs backend work off the event loop. Every job shares one
// configured deadline, so a stuck backend can never hang a request forever.
type jobBus struct {
	counter int64
	timeout time.Duration
}

func newJobBus(timeout time.Duration) *jobBus {
	return &jobBus{timeout: timeout}
}

// Start schedules runner and returns the command that first signals the job
// as running, then delivers its enveloped result. The payload's own err
// field is what the model acts on; the envelope error string only feeds the
// log and the badges.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	idx := atomic.AddInt64(&b.counter, 1)
	snapshot := jobSnapshot{
		ID:      fmt.Sprintf("%s-%d", kind, idx),
		Kind:    kind,
		Status:  jobStatusRunning,
		Started: time.Now(),
	}

	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: snapshot}
	}
	runCmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		payload := runner(ctx)
		snapshot.Duration = time.Since(snapshot.Started)
		snapshot.Status = jobStatusSucceeded
		if failure, ok := payload.(interface{ failure() string }); ok {
			if msg := failure.failure(); msg != "" {
				snapshot.Status = jobStatusFailed
				snapshot.Err = msg
			}
		}
		log.Printf("[jobs] %s %s (duration=%s, err=%q)", kind, snapshot.Status, snapshot.Duration, snapshot.Err)
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}
	return tea.Sequence(startCmd, runCmd)
}
