package tui

import (
	"context"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/averma/studymate/internal/guide"
	"github.com/averma/studymate/internal/material"
	"github.com/averma/studymate/internal/speech"
)

// Gateway is the slice of the backend client the shell needs. The tests
// install a fake.
type Gateway interface {
	UploadMaterial(ctx context.Context, filename string, content io.Reader) (string, error)
	Ask(ctx context.Context, question string) (string, error)
	AudioDialogue(ctx context.Context) (string, error)
	StudyGuide(ctx context.Context) (guide.Guide, error)
	AnalyzeVideo(ctx context.Context, videoURL string) (string, error)
}

type uploadResultMsg struct {
	gen     uint64
	mat     material.Material
	summary string
	err     error
}

func (m uploadResultMsg) failure() string { return errText(m.err) }

type answerResultMsg struct {
	gen    uint64
	answer string
	err    error
}

func (m answerResultMsg) failure() string { return errText(m.err) }

type dialogueResultMsg struct {
	gen    uint64
	script string
	err    error
}

func (m dialogueResultMsg) failure() string { return errText(m.err) }

type guideResultMsg struct {
	gen   uint64
	guide guide.Guide
	err   error
}

func (m guideResultMsg) failure() string { return errText(m.err) }

type analysisResultMsg struct {
	videoID  string
	gen      uint64
	analysis string
	err      error
}

func (m analysisResultMsg) failure() string { return errText(m.err) }

type exportResultMsg struct {
	path string
	err  error
}

func (m exportResultMsg) failure() string { return errText(m.err) }

type speechDoneMsg struct {
	gen uint64
	err error
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func uploadJob(gateway Gateway, gen uint64, mat material.Material, path string) jobRunner {
	return func(ctx context.Context) tea.Msg {
		file, err := os.Open(path)
		if err != nil {
			return uploadResultMsg{gen: gen, mat: mat, err: err}
		}
		defer file.Close()
		summary, err := gateway.UploadMaterial(ctx, filepath.Base(path), file)
		return uploadResultMsg{gen: gen, mat: mat, summary: summary, err: err}
	}
}

func askJob(gateway Gateway, gen uint64, question string) jobRunner {
	return func(ctx context.Context) tea.Msg {
		answer, err := gateway.Ask(ctx, question)
		return answerResultMsg{gen: gen, answer: answer, err: err}
	}
}

func dialogueJob(gateway Gateway, gen uint64) jobRunner {
	return func(ctx context.Context) tea.Msg {
		script, err := gateway.AudioDialogue(ctx)
		return dialogueResultMsg{gen: gen, script: script, err: err}
	}
}

func guideJob(gateway Gateway, gen uint64) jobRunner {
	return func(ctx context.Context) tea.Msg {
		g, err := gateway.StudyGuide(ctx)
		return guideResultMsg{gen: gen, guide: g, err: err}
	}
}

func analyzeJob(gateway Gateway, videoID string, gen uint64, videoURL string) jobRunner {
	return func(ctx context.Context) tea.Msg {
		analysis, err := gateway.AnalyzeVideo(ctx, videoURL)
		return analysisResultMsg{videoID: videoID, gen: gen, analysis: analysis, err: err}
	}
}

func exportGuideJob(dir, format string, g guide.Guide) jobRunner {
	return func(ctx context.Context) tea.Msg {
		path, err := guide.Save(dir, format, g)
		return exportResultMsg{path: path, err: err}
	}
}

func exportDialogueJob(dir, script string) jobRunner {
	return func(ctx context.Context) tea.Msg {
		path, err := guide.SaveDialogue(dir, script)
		return exportResultMsg{path: path, err: err}
	}
}

// speakCmd runs one utterance to completion outside the job bus: playback
// has no deadline and its lifecycle belongs to the speech controller.
func speakCmd(u *speech.Utterance) tea.Cmd {
	return func() tea.Msg {
		return speechDoneMsg{gen: u.Gen, err: u.Speak()}
	}
}
