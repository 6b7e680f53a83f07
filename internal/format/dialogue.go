package format

import "strings"

// Role identifies the speaker of one dialogue line.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// DialogueLine is one recognized exchange in a generated audio script.
type DialogueLine struct {
	Role Role
	Text string
}

const (
	teacherPrefix = "Teacher:"
	studentPrefix = "Student:"
)

// ParseDialogue keeps only lines carrying a Teacher: or Student: prefix.
// Unrecognized lines are dropped, not reported; the backend pads scripts
// with framing text we never want to speak.
func ParseDialogue(text string) []DialogueLine {
	var lines []DialogueLine
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, teacherPrefix):
			lines = append(lines, DialogueLine{
				Role: RoleTeacher,
				Text: strings.TrimSpace(strings.TrimPrefix(line, teacherPrefix)),
			})
		case strings.HasPrefix(line, studentPrefix):
			lines = append(lines, DialogueLine{
				Role: RoleStudent,
				Text: strings.TrimSpace(strings.TrimPrefix(line, studentPrefix)),
			})
		}
	}
	return lines
}

// StripBoldLabels removes markdown bold markers that some models wrap around
// the role labels ("**Teacher:**" → "Teacher:").
func StripBoldLabels(text string) string {
	replacer := strings.NewReplacer(
		"**Teacher:**", "Teacher:",
		"**Student:**", "Student:",
		"**Teacher**:", "Teacher:",
		"**Student**:", "Student:",
	)
	return replacer.Replace(text)
}
