package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/averma/studymate/internal/material"
	"github.com/averma/studymate/internal/session"
	"github.com/averma/studymate/internal/speech"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Gateway        Gateway
	Speech         *speech.Controller
	RequestTimeout time.Duration
	ExportDir      string
	ExportFormat   string
}

const heroTagline = "Upload your notes, then chat, listen and quiz your way through them."

const chatFailureText = "❌ AI couldn't answer. Please try again."

const analysisFailureText = "Analysis unavailable. Press ctrl+a to retry."

var suggestedQuestions = []string{
	"Explain the main concept in simple terms",
	"Give me a real-world example",
	"What should I focus on for exams?",
	"Create practice questions",
	"Summarize the key points",
}

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	pathInput := textinput.New()
	pathInput.Placeholder = "Path to a PDF, .txt or .md file…"
	pathInput.CharLimit = 200
	pathInput.Width = 70

	questionInput := textinput.New()
	questionInput.Placeholder = "Ask about the uploaded material…"
	questionInput.CharLimit = 200
	questionInput.Width = 70

	videoInput := textinput.New()
	videoInput.Placeholder = "Paste a YouTube link (or several, separated by spaces)…"
	videoInput.CharLimit = 400
	videoInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	return &model{
		config:        config,
		stage:         stageLanding,
		bus:           newJobBus(timeout),
		sess:          session.New(),
		pathInput:     pathInput,
		questionInput: questionInput,
		videoInput:    videoInput,
		spinner:       spin,
		viewport:      vp,
		jobBadges:     map[jobKind]jobSnapshot{},
		viewportDirty: true,
		infoMessage:   "Press Enter to start a study session.",
	}
}

type stage int

const (
	stageLanding stage = iota
	stageMain
)

type model struct {
	config Config
	stage  stage
	bus    *jobBus
	sess   *session.Session

	pathInput     textinput.Model
	questionInput textinput.Model
	videoInput    textinput.Model
	spinner       spinner.Model
	viewport      viewport.Model

	videoCursor   int
	suggestionIdx int
	exporting     bool
	helpVisible   bool

	jobBadges     map[jobKind]jobSnapshot
	viewportDirty bool
	infoMessage   string
	errorMessage  string
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.anyBusy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageMain {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - 10
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		m.markViewportDirty()
		return m, nil
	case jobSignalMsg:
		m.jobBadges[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.jobBadges[msg.Snapshot.Kind] = msg.Snapshot
		return m.Update(msg.Payload)
	case uploadResultMsg:
		return m.handleUploadResult(msg)
	case answerResultMsg:
		return m.handleAnswerResult(msg)
	case dialogueResultMsg:
		return m.handleDialogueResult(msg)
	case guideResultMsg:
		return m.handleGuideResult(msg)
	case analysisResultMsg:
		return m.handleAnalysisResult(msg)
	case exportResultMsg:
		m.exporting = false
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			m.infoMessage = "Export failed."
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Saved to %s", msg.path)
		return m, nil
	case speechDoneMsg:
		if m.config.Speech != nil && m.config.Speech.Finished(msg.gen) {
			if msg.err != nil {
				m.errorMessage = msg.err.Error()
				m.infoMessage = "Playback failed. Check the speech command."
			} else {
				m.infoMessage = "Playback finished."
			}
			m.markViewportDirty()
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.sess.FailUpload(msg.gen) {
			m.errorMessage = msg.err.Error()
			m.infoMessage = "Upload failed. The previous material is untouched."
			m.markViewportDirty()
		}
		return m, nil
	}
	if !m.sess.CommitUpload(msg.gen, msg.summary) {
		return m, nil
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Loaded %s. Ask away, or try a suggested question with ctrl+n.", msg.mat.Name)
	m.setTab(session.TabChat)
	return m, nil
}

func (m *model) handleAnswerResult(msg answerResultMsg) (tea.Model, tea.Cmd) {
	text := msg.answer
	if msg.err != nil {
		text = chatFailureText
	}
	if !m.sess.DeliverAnswer(msg.gen, text) {
		return m, nil
	}
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
	} else {
		m.errorMessage = ""
		m.infoMessage = "Answer ready."
	}
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleDialogueResult(msg dialogueResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.sess.FailDialogue(msg.gen) {
			m.errorMessage = msg.err.Error()
			m.infoMessage = "Dialogue generation failed. Press g to retry."
			m.markViewportDirty()
		}
		return m, nil
	}
	if !m.sess.SetDialogue(msg.gen, msg.script) {
		return m, nil
	}
	m.errorMessage = ""
	m.infoMessage = "Dialogue ready. Press p to play it aloud."
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleGuideResult(msg guideResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.sess.FailGuide(msg.gen) {
			m.errorMessage = msg.err.Error()
			m.infoMessage = "Study guide failed. Press g to retry."
			m.markViewportDirty()
		}
		return m, nil
	}
	if !m.sess.SetGuide(msg.gen, msg.guide) {
		return m, nil
	}
	m.errorMessage = ""
	m.infoMessage = "Study guide ready. Press e to export it."
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleAnalysisResult(msg analysisResultMsg) (tea.Model, tea.Cmd) {
	text := msg.analysis
	if msg.err != nil {
		text = analysisFailureText
	}
	if !m.sess.SetAnalysis(msg.videoID, msg.gen, text) {
		return m, nil
	}
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
	} else {
		m.errorMessage = ""
		m.infoMessage = "Video analysis ready."
	}
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.stage == stageLanding {
		switch key.Type {
		case tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.enterMain()
		}
		return m, nil
	}

	switch key.Type {
	case tea.KeyTab:
		m.setTab(nextTab(m.sess.ActiveTab(), 1))
		return m, nil
	case tea.KeyShiftTab:
		m.setTab(nextTab(m.sess.ActiveTab(), -1))
		return m, nil
	case tea.KeyCtrlK:
		m.helpVisible = !m.helpVisible
		m.markViewportDirty()
		return m, nil
	case tea.KeyEsc:
		return m.handleEsc()
	}

	switch m.sess.ActiveTab() {
	case session.TabUpload:
		return m.handleUploadKey(key)
	case session.TabChat:
		return m.handleChatKey(key)
	case session.TabAudio:
		return m.handleAudioKey(key)
	case session.TabGuide:
		return m.handleGuideKey(key)
	case session.TabVideos:
		return m.handleVideosKey(key)
	}
	return m, nil
}

func (m *model) handleEsc() (tea.Model, tea.Cmd) {
	if m.helpVisible {
		m.helpVisible = false
		m.markViewportDirty()
		return m, nil
	}
	if input := m.activeInput(); input != nil && strings.TrimSpace(input.Value()) != "" {
		input.SetValue("")
		return m, nil
	}
	if m.sess.ActiveTab() == session.TabAudio && m.config.Speech != nil && m.config.Speech.State() != speech.Idle {
		m.config.Speech.Stop()
		m.infoMessage = "Playback stopped."
		m.markViewportDirty()
		return m, nil
	}
	return m, tea.Quit
}

func (m *model) handleUploadKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(key)
	if key.Type != tea.KeyEnter {
		return m, cmd
	}
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		m.errorMessage = "Enter the path of a document to upload."
		return m, cmd
	}
	if m.sess.UploadBusy() {
		m.infoMessage = "An upload is already running."
		return m, cmd
	}
	mat, preview, err := material.Load(path)
	if err != nil && mat.Name == "" {
		// Detect failed, so the file itself is unreadable. A preview-only
		// failure still leaves a usable descriptor and we upload anyway.
		m.errorMessage = fmt.Sprintf("Cannot read %s: %v", path, err)
		return m, cmd
	}
	gen, ok := m.sess.BeginUpload(mat, preview)
	if !ok {
		return m, cmd
	}
	m.pathInput.SetValue("")
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Uploading %s…", mat.Name)
	m.markViewportDirty()
	return m, tea.Batch(cmd, m.spinner.Tick, m.bus.Start(jobKindUpload, uploadJob(m.config.Gateway, gen, mat, path)))
}

func (m *model) handleChatKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	case "ctrl+n":
		m.questionInput.SetValue(suggestedQuestions[m.suggestionIdx])
		m.questionInput.CursorEnd()
		m.suggestionIdx = (m.suggestionIdx + 1) % len(suggestedQuestions)
		return m, nil
	}

	var cmd tea.Cmd
	m.questionInput, cmd = m.questionInput.Update(key)
	if key.Type != tea.KeyEnter {
		return m, cmd
	}
	question := strings.TrimSpace(m.questionInput.Value())
	if question == "" {
		return m, cmd
	}
	if _, _, has := m.sess.Material(); !has {
		m.infoMessage = "Upload a document first; the Upload tab is one shift+tab away."
		return m, cmd
	}
	gen, ok := m.sess.AskQuestion(question)
	if !ok {
		m.infoMessage = "Waiting for the previous answer, hold on."
		return m, cmd
	}
	m.questionInput.SetValue("")
	m.errorMessage = ""
	m.infoMessage = "Thinking…"
	m.markViewportDirty()
	return m, tea.Batch(cmd, m.spinner.Tick, m.bus.Start(jobKindAsk, askJob(m.config.Gateway, gen, question)))
}

func (m *model) handleAudioKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "g":
		if _, _, has := m.sess.Material(); !has {
			m.infoMessage = "Upload a document first."
			return m, nil
		}
		if m.sess.DialogueBusy() {
			m.infoMessage = "Dialogue generation already running."
			return m, nil
		}
		if m.config.Speech != nil {
			m.config.Speech.Stop()
		}
		gen := m.sess.RequestDialogue()
		m.errorMessage = ""
		m.infoMessage = "Generating dialogue…"
		m.markViewportDirty()
		return m, tea.Batch(m.spinner.Tick, m.bus.Start(jobKindDialogue, dialogueJob(m.config.Gateway, gen)))
	case "p":
		return m.togglePlayback()
	case "s":
		if m.config.Speech != nil {
			m.config.Speech.Stop()
			m.infoMessage = "Playback stopped."
			m.markViewportDirty()
		}
		return m, nil
	case "e":
		if m.sess.Dialogue() == "" {
			m.infoMessage = "Generate a dialogue before exporting."
			return m, nil
		}
		if m.exporting {
			m.infoMessage = "An export is already running."
			return m, nil
		}
		m.exporting = true
		m.infoMessage = "Exporting dialogue…"
		return m, tea.Batch(m.spinner.Tick, m.bus.Start(jobKindExport, exportDialogueJob(m.config.ExportDir, m.sess.Dialogue())))
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) togglePlayback() (tea.Model, tea.Cmd) {
	if m.config.Speech == nil {
		m.infoMessage = "Speech is disabled on this host."
		return m, nil
	}
	if m.sess.Dialogue() == "" {
		m.infoMessage = "Generate a dialogue with g before playing."
		return m, nil
	}
	switch m.config.Speech.State() {
	case speech.Playing:
		m.config.Speech.Pause()
		m.infoMessage = "Playback paused. Press p to resume."
		m.markViewportDirty()
		return m, nil
	case speech.Paused:
		if u := m.config.Speech.Resume(); u != nil {
			m.infoMessage = "Resuming from the top of the script."
			m.markViewportDirty()
			return m, speakCmd(u)
		}
		return m, nil
	default:
		if u := m.config.Speech.Play(m.sess.Dialogue()); u != nil {
			m.infoMessage = "Playing dialogue."
			m.markViewportDirty()
			return m, speakCmd(u)
		}
		return m, nil
	}
}

func (m *model) handleGuideKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "g":
		if _, _, has := m.sess.Material(); !has {
			m.infoMessage = "Upload a document first."
			return m, nil
		}
		if m.sess.GuideBusy() {
			m.infoMessage = "Study guide already running."
			return m, nil
		}
		gen := m.sess.RequestGuide()
		m.errorMessage = ""
		m.infoMessage = "Building study guide…"
		m.markViewportDirty()
		return m, tea.Batch(m.spinner.Tick, m.bus.Start(jobKindGuide, guideJob(m.config.Gateway, gen)))
	case "e":
		g, has := m.sess.Guide()
		if !has {
			m.infoMessage = "Generate a study guide before exporting."
			return m, nil
		}
		if m.exporting {
			m.infoMessage = "An export is already running."
			return m, nil
		}
		m.exporting = true
		m.infoMessage = "Exporting study guide…"
		return m, tea.Batch(m.spinner.Tick, m.bus.Start(jobKindExport, exportGuideJob(m.config.ExportDir, m.config.ExportFormat, g)))
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) handleVideosKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up":
		if m.videoCursor > 0 {
			m.videoCursor--
			m.markViewportDirty()
		}
		return m, nil
	case "down":
		if m.videoCursor < len(m.sess.Videos())-1 {
			m.videoCursor++
			m.markViewportDirty()
		}
		return m, nil
	case "ctrl+a":
		return m.startAnalysis()
	case "ctrl+d":
		videos := m.sess.Videos()
		if m.videoCursor < len(videos) {
			m.sess.RemoveVideo(m.videoCursor)
			if m.videoCursor >= len(m.sess.Videos()) && m.videoCursor > 0 {
				m.videoCursor--
			}
			m.infoMessage = "Video removed."
			m.markViewportDirty()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.videoInput, cmd = m.videoInput.Update(key)
	if key.Type != tea.KeyEnter {
		return m, cmd
	}
	text := strings.TrimSpace(m.videoInput.Value())
	if text == "" {
		return m, cmd
	}
	// Space-separated pastes are common; split them onto lines first.
	added, parseErrs := m.sess.AddVideos(strings.ReplaceAll(text, " ", "\n"))
	m.videoInput.SetValue("")
	switch {
	case len(parseErrs) > 0 && len(added) == 0:
		m.errorMessage = parseErrs[0].Error()
		m.infoMessage = "No videos added."
	case len(parseErrs) > 0:
		m.errorMessage = parseErrs[0].Error()
		m.infoMessage = fmt.Sprintf("Added %d video(s); some lines were skipped.", len(added))
	case len(added) == 0:
		m.errorMessage = ""
		m.infoMessage = "Those videos are already in the list."
	default:
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Added %d video(s). Select one and press ctrl+a to analyze.", len(added))
	}
	m.markViewportDirty()
	return m, cmd
}

func (m *model) startAnalysis() (tea.Model, tea.Cmd) {
	videos := m.sess.Videos()
	if m.videoCursor >= len(videos) {
		m.infoMessage = "Add a video first."
		return m, nil
	}
	link := videos[m.videoCursor]
	id, gen, ok := m.sess.BeginAnalysis(m.videoCursor)
	if !ok {
		m.infoMessage = "Analysis already running for this video."
		return m, nil
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Analyzing %s…", link.Title)
	m.markViewportDirty()
	return m, tea.Batch(m.spinner.Tick, m.bus.Start(jobKindAnalyze, analyzeJob(m.config.Gateway, id, gen, link.URL)))
}

func (m *model) enterMain() {
	m.stage = stageMain
	m.infoMessage = "Upload a document from the Upload tab to begin (tab/shift+tab to move around)."
	m.setTab(session.TabChat)
}

func (m *model) setTab(tab session.Tab) {
	if m.sess.SetTab(tab) && m.config.Speech != nil {
		m.config.Speech.Stop()
	}
	m.pathInput.Blur()
	m.questionInput.Blur()
	m.videoInput.Blur()
	if input := m.activeInput(); input != nil {
		input.Focus()
	}
	m.viewport.SetYOffset(0)
	m.markViewportDirty()
}

func (m *model) activeInput() *textinput.Model {
	switch m.sess.ActiveTab() {
	case session.TabUpload:
		return &m.pathInput
	case session.TabChat:
		return &m.questionInput
	case session.TabVideos:
		return &m.videoInput
	default:
		return nil
	}
}

func nextTab(current session.Tab, direction int) session.Tab {
	const tabCount = 5
	return session.Tab((int(current) + direction + tabCount) % tabCount)
}

func (m *model) anyBusy() bool {
	if m.sess.UploadBusy() || m.sess.ChatBusy() || m.sess.DialogueBusy() || m.sess.GuideBusy() || m.exporting {
		return true
	}
	for _, link := range m.sess.Videos() {
		if m.sess.AnalysisBusy(link.ID) {
			return true
		}
	}
	return false
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}
