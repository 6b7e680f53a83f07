package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/averma/studymate/internal/format"
	"github.com/averma/studymate/internal/session"
	"github.com/averma/studymate/internal/speech"
)

func (m *model) View() string {
	if m.stage == stageLanding {
		return m.viewLanding()
	}
	return m.viewMain()
}

func (m *model) viewLanding() string {
	features := []string{
		"• Upload a PDF or text document and get an instant summary",
		"• Chat about the material with suggested starter questions",
		"• Turn it into a teacher-student dialogue and play it aloud",
		"• Build an exportable study guide with practice questions",
		"• Collect YouTube videos and pull transcript analyses",
	}
	parts := []string{
		renderLogo(),
		taglineStyle.Render(heroTagline),
		helperStyle.Render(strings.Join(features, "\n")),
		keyStyle.Render("Enter") + keyDescStyle.Render(" Start studying   ") + keyStyle.Render("Esc") + keyDescStyle.Render(" Quit"),
	}
	return joinNonEmpty(parts)
}

func (m *model) viewMain() string {
	m.refreshViewportIfDirty()
	parts := []string{
		m.tabBar(),
		m.viewport.View(),
	}
	if input := m.activeInput(); input != nil {
		parts = append(parts, input.View())
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.anyBusy() {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	parts = append(parts, m.statusBar())
	return joinNonEmpty(parts)
}

var tabTitles = []string{"Upload", "Chat", "Audio", "Study Guide", "Videos"}

func (m *model) tabBar() string {
	cells := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		if session.Tab(i) == m.sess.ActiveTab() {
			cells = append(cells, activeTabStyle.Render(title))
		} else {
			cells = append(cells, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewport.SetContent(m.buildTabContent())
	m.viewportDirty = false
}

func (m *model) buildTabContent() string {
	switch m.sess.ActiveTab() {
	case session.TabUpload:
		return m.uploadContent()
	case session.TabChat:
		return m.chatContent()
	case session.TabAudio:
		return m.audioContent()
	case session.TabGuide:
		return m.guideContent()
	case session.TabVideos:
		return m.videosContent()
	default:
		return ""
	}
}

func (m *model) uploadContent() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Upload Material"))
	b.WriteString("\n\n")
	mat, preview, has := m.sess.Material()
	if !has {
		b.WriteString(helperStyle.Render("No document loaded yet. Enter a file path below and press Enter."))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Current material: %s (%s)\n", subjectStyle.Render(mat.Name), mat.Kind))
	if preview != "" {
		b.WriteString("\n")
		b.WriteString(helperStyle.Render("Preview"))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(preview, m.wrapWidth()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helperStyle.Render("Uploading a new document starts a fresh session."))
	return b.String()
}

func (m *model) chatContent() string {
	messages := m.sess.Messages()
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Chat"))
	b.WriteString("\n\n")
	if len(messages) == 0 {
		b.WriteString(helperStyle.Render("Upload a document, then ask anything about it."))
		b.WriteString("\n\n")
	}
	for _, msg := range messages {
		label := assistantLabelStyle.Render("StudyMate")
		if msg.Role == session.RoleUser {
			label = userLabelStyle.Render("You")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(wordwrap.String(msg.Text, m.wrapWidth()))
		b.WriteString("\n\n")
	}
	if m.sess.ChatBusy() {
		b.WriteString(helperStyle.Render("StudyMate is thinking…"))
		b.WriteString("\n\n")
	}
	if len(messages) <= 1 {
		b.WriteString(helperStyle.Render("Suggested questions (ctrl+n cycles them into the input):"))
		b.WriteString("\n")
		for _, q := range suggestedQuestions {
			b.WriteString(helperStyle.Render("  • " + q))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *model) audioContent() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Audio Dialogue"))
	b.WriteString("\n\n")
	if m.config.Speech != nil {
		b.WriteString(helperStyle.Render("Playback: " + m.config.Speech.State().String()))
		b.WriteString("\n\n")
	}
	script := m.sess.Dialogue()
	if script == "" {
		if m.sess.DialogueBusy() {
			b.WriteString(helperStyle.Render("Generating a teacher-student dialogue…"))
		} else {
			b.WriteString(helperStyle.Render("Press g to turn the material into a spoken dialogue."))
		}
		return b.String()
	}
	lines := format.ParseDialogue(script)
	if len(lines) == 0 {
		b.WriteString(wordwrap.String(script, m.wrapWidth()))
		return b.String()
	}
	for _, line := range lines {
		label := teacherStyle.Render("Teacher")
		if line.Role == format.RoleStudent {
			label = studentStyle.Render("Student")
		}
		b.WriteString(label + " " + wordwrap.String(line.Text, m.wrapWidth()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) guideContent() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Study Guide"))
	b.WriteString("\n\n")
	g, has := m.sess.Guide()
	if !has {
		if m.sess.GuideBusy() {
			b.WriteString(helperStyle.Render("Building the study guide…"))
		} else {
			b.WriteString(helperStyle.Render("Press g to build a study guide from the material."))
		}
		return b.String()
	}
	if !g.Structured() {
		b.WriteString(renderFormatted(g.RawText, m.wrapWidth()))
		return b.String()
	}
	if g.Summary != "" {
		b.WriteString(subtitleStyle.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(g.Summary, m.wrapWidth()))
		b.WriteString("\n\n")
	}
	writeGuideSection(&b, "Key Concepts", g.KeyConcepts, m.wrapWidth())
	writeGuideSection(&b, "Exam Tips", g.ExamTips, m.wrapWidth())
	writeGuideSection(&b, "Practice Questions", g.PracticeQuestions, m.wrapWidth())
	return b.String()
}

func writeGuideSection(b *strings.Builder, title string, items []string, width int) {
	if len(items) == 0 {
		return
	}
	b.WriteString(subtitleStyle.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(wordwrap.String("• "+item, width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *model) videosContent() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Video Library"))
	b.WriteString("\n\n")
	videos := m.sess.Videos()
	if len(videos) == 0 {
		b.WriteString(helperStyle.Render("Paste YouTube links below. Valid lines are added; bad ones are reported."))
		return b.String()
	}
	for i, link := range videos {
		marker := "  "
		titleText := link.Title
		if i == m.videoCursor {
			marker = "▸ "
			titleText = currentLineStyle.Render(titleText)
		}
		b.WriteString(marker + titleText)
		b.WriteString("\n")
		b.WriteString(helperStyle.Render("    " + link.URL))
		b.WriteString("\n")
		switch {
		case m.sess.AnalysisBusy(link.ID):
			b.WriteString(helperStyle.Render("    analyzing…"))
			b.WriteString("\n")
		default:
			if analysis, ok := m.sess.Analysis(link.ID); ok {
				b.WriteString(wordwrap.String("    "+analysis, m.wrapWidth()))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(helperStyle.Render("↑/↓ select  ctrl+a analyze  ctrl+d remove"))
	return b.String()
}

// renderFormatted runs the lightweight markdown classifier over raw backend
// text and styles each node.
func renderFormatted(text string, width int) string {
	var b strings.Builder
	for _, node := range format.Parse(text) {
		switch node.Kind {
		case format.NodeHeader:
			b.WriteString(subtitleStyle.Render(node.Text))
		case format.NodeSubheader:
			b.WriteString(subjectStyle.Render(node.Text))
		case format.NodeBullet:
			var line strings.Builder
			line.WriteString("• ")
			for _, span := range node.Spans {
				if span.Bold {
					line.WriteString(boldSpanStyle.Render(span.Text))
				} else {
					line.WriteString(span.Text)
				}
			}
			b.WriteString(wordwrap.String(line.String(), width))
		case format.NodeRule:
			b.WriteString(helperStyle.Render(strings.Repeat("─", 24)))
		case format.NodeParagraph:
			b.WriteString(wordwrap.String(node.Text, width))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) statusBar() string {
	stats := []string{fmt.Sprintf("Tab %s", tabTitles[int(m.sess.ActiveTab())])}
	if mat, _, has := m.sess.Material(); has {
		stats = append(stats, fmt.Sprintf("Material %s", mat.Name))
	}
	if n := len(m.sess.Messages()); n > 0 {
		stats = append(stats, fmt.Sprintf("Chat %d", n))
	}
	if n := len(m.sess.Videos()); n > 0 {
		stats = append(stats, fmt.Sprintf("Videos %d", n))
	}
	if m.config.Speech != nil && m.config.Speech.State() != speech.Idle {
		stats = append(stats, "Speech "+m.config.Speech.State().String())
	}
	stats = append(stats, m.jobStatusBadges()...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	var badges []string
	for _, kind := range []jobKind{jobKindUpload, jobKindAsk, jobKindDialogue, jobKindGuide, jobKindAnalyze, jobKindExport} {
		snapshot, ok := m.jobBadges[kind]
		if !ok || snapshot.Status != jobStatusRunning {
			continue
		}
		badges = append(badges, fmt.Sprintf("%s…", kind))
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Tab", "Next tab"},
		{"Shift+Tab", "Previous tab"},
		{"Enter", "Submit input"},
		{"ctrl+n", "Suggested question"},
		{"g", "Generate (audio/guide)"},
		{"p", "Play or pause"},
		{"s", "Stop playback"},
		{"e", "Export"},
		{"ctrl+a", "Analyze video"},
		{"ctrl+d", "Remove video"},
		{"ctrl+k", "Toggle this cheatsheet"},
		{"Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keyboard Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description)
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) wrapWidth() int {
	width := m.viewport.Width - 2
	if width < 20 {
		width = 20
	}
	return width
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func renderLogo() string {
	lines := make([]string, len(logoArtLines))
	for i, line := range logoArtLines {
		lines[i] = logoFaceStyle.Render(line)
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	subjectStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boldSpanStyle      = lipgloss.NewStyle().Bold(true)

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8ecae6"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a3be8c"))
	teacherStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166"))
	studentStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bde0fe"))

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 2)

	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	currentLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))

	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb347")).Italic(true)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fff4d0"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"███████╗  ████████╗  ██╗   ██╗  ██████╗   ██╗   ██╗  ███╗   ███╗   █████╗   ████████╗  ███████╗",
		"██╔════╝  ╚══██╔══╝  ██║   ██║  ██╔══██╗  ╚██╗ ██╔╝  ████╗ ████║  ██╔══██╗  ╚══██╔══╝  ██╔════╝",
		"███████╗     ██║     ██║   ██║  ██║  ██║   ╚████╔╝   ██╔████╔██║  ███████║     ██║     █████╗  ",
		"╚════██║     ██║     ██║   ██║  ██║  ██║    ╚██╔╝    ██║╚██╔╝██║  ██╔══██║     ██║     ██╔══╝  ",
		"███████║     ██║     ╚██████╔╝  ██████╔╝     ██║     ██║ ╚═╝ ██║  ██║  ██║     ██║     ███████╗",
		"╚══════╝     ╚═╝      ╚═════╝   ╚═════╝      ╚═╝     ╚═╝     ╚═╝  ╚═╝  ╚═╝     ╚═╝     ╚══════╝",
	}
)
