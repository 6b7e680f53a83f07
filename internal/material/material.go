// Package material describes the study document attached to a session and
// sniffs local files before they are shipped to the backend.
package material

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Kind distinguishes the two accepted document types.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "text"
)

// Material is the descriptor for the currently attached document. At most
// one is active per session.
type Material struct {
	Kind Kind
	Name string
}

const previewLimit = 480

var collapseWhitespace = regexp.MustCompile(`\s+`)

// Detect classifies a file as PDF or text. The extension decides first; for
// everything else the leading bytes are checked for the PDF magic so a
// mislabelled file still uploads under the right kind.
func Detect(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return KindPDF, nil
	case ".txt", ".md":
		return KindText, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	header := make([]byte, 5)
	if _, err := io.ReadFull(file, header); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return KindText, nil
		}
		return "", err
	}
	if string(header) == "%PDF-" {
		return KindPDF, nil
	}
	return KindText, nil
}

// Load builds a Material descriptor plus a short local text preview shown in
// the upload tab before anything leaves the machine.
func Load(path string) (Material, string, error) {
	kind, err := Detect(path)
	if err != nil {
		return Material{}, "", err
	}
	mat := Material{Kind: kind, Name: filepath.Base(path)}

	var text string
	switch kind {
	case KindPDF:
		text, err = extractPDFText(path)
	default:
		text, err = readTextHead(path)
	}
	if err != nil {
		// A preview failure is not an upload failure; the descriptor is
		// still usable.
		return mat, "", err
	}
	return mat, clipPreview(text), nil
}

func extractPDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func readTextHead(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	head := make([]byte, previewLimit*4)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	return string(head[:n]), nil
}

func clipPreview(text string) string {
	text = strings.TrimSpace(collapseWhitespace.ReplaceAllString(text, " "))
	if len(text) <= previewLimit {
		return text
	}
	return strings.TrimSpace(text[:previewLimit]) + "…"
}
