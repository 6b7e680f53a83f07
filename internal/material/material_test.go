package material

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestDetectByExtension(t *testing.T) {
	t.Parallel()

	pdfPath := writeFile(t, "notes.pdf", "%PDF-1.4 stub")
	kind, err := Detect(pdfPath)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if kind != KindPDF {
		t.Fatalf("kind = %q, want pdf", kind)
	}

	txtPath := writeFile(t, "notes.txt", "plain notes")
	kind, err = Detect(txtPath)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if kind != KindText {
		t.Fatalf("kind = %q, want text", kind)
	}
}

func TestDetectByMagicBytes(t *testing.T) {
	t.Parallel()

	disguised := writeFile(t, "chapter", "%PDF-1.7 body")
	kind, err := Detect(disguised)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if kind != KindPDF {
		t.Fatalf("kind = %q, want pdf from magic bytes", kind)
	}

	tiny := writeFile(t, "tiny", "ab")
	kind, err = Detect(tiny)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if kind != KindText {
		t.Fatalf("short files default to text, got %q", kind)
	}
}

func TestLoadTextPreview(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("photosynthesis converts light ", 40)
	path := writeFile(t, "bio.txt", long)

	mat, preview, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if mat.Name != "bio.txt" || mat.Kind != KindText {
		t.Fatalf("unexpected descriptor: %#v", mat)
	}
	if preview == "" {
		t.Fatal("expected a preview for readable text")
	}
	if len(preview) > 500 {
		t.Fatalf("preview should be clipped, got %d bytes", len(preview))
	}
}

func TestLoadBrokenPDFKeepsDescriptor(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "broken.pdf", "%PDF- this is not a real pdf")
	mat, preview, err := Load(path)
	if err == nil {
		t.Fatal("expected preview extraction to fail on a broken pdf")
	}
	if mat.Kind != KindPDF || mat.Name != "broken.pdf" {
		t.Fatalf("descriptor should survive preview failure: %#v", mat)
	}
	if preview != "" {
		t.Fatalf("no preview expected, got %q", preview)
	}
}
