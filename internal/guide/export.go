package guide

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Exporter serializes a guide for the one-way file download. There is no
// read-back channel; exported files are never loaded again.
type Exporter interface {
	Export(g Guide, w io.Writer) error
	Extension() string
}

// NewExporter picks an exporter by format name.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "txt", "text":
		return &TextExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s (supported: json, txt, yaml)", format)
	}
}

// JSONExporter writes the guide as indented JSON.
type JSONExporter struct{}

func (e *JSONExporter) Export(g Guide, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}

func (e *JSONExporter) Extension() string { return "json" }

// YAMLExporter writes the guide as YAML.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(g Guide, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(g)
}

func (e *YAMLExporter) Extension() string { return "yaml" }

// TextExporter writes the guide as a plain study sheet, mirroring what the
// guide tab renders.
type TextExporter struct{}

func (e *TextExporter) Export(g Guide, w io.Writer) error {
	if !g.Structured() {
		_, err := io.WriteString(w, strings.TrimSpace(g.RawText)+"\n")
		return err
	}
	var b strings.Builder
	if g.Summary != "" {
		b.WriteString("Summary\n")
		b.WriteString(g.Summary)
		b.WriteString("\n\n")
	}
	writeSection(&b, "Key Concepts", g.KeyConcepts)
	writeSection(&b, "Exam Tips", g.ExamTips)
	writeSection(&b, "Practice Questions", g.PracticeQuestions)
	_, err := io.WriteString(w, b.String())
	return err
}

func (e *TextExporter) Extension() string { return "txt" }

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title)
	b.WriteRune('\n')
	for _, item := range items {
		b.WriteString(" - ")
		b.WriteString(item)
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
}

// Save writes the guide next to dir using the given format, returning the
// final path. The base name is fixed; repeated saves overwrite.
func Save(dir, format string, g Guide) (string, error) {
	exporter, err := NewExporter(format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "study-guide."+exporter.Extension())
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := exporter.Export(g, file); err != nil {
		file.Close()
		return "", err
	}
	return path, file.Close()
}

// SaveDialogue writes a generated dialogue script as plain text, the audio
// tab's counterpart to the guide download.
func SaveDialogue(dir, dialogue string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "audio-dialogue.txt")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(dialogue)+"\n"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
