package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/averma/studymate/internal/guide"
	"github.com/averma/studymate/internal/speech"
)

type fakeGateway struct {
	summary  string
	answer   string
	dialogue string
	guide    guide.Guide
	analysis string
	err      error

	uploaded string
	asked    string
	analyzed string
}

func (g *fakeGateway) UploadMaterial(ctx context.Context, filename string, content io.Reader) (string, error) {
	data, _ := io.ReadAll(content)
	g.uploaded = string(data)
	return g.summary, g.err
}

func (g *fakeGateway) Ask(ctx context.Context, question string) (string, error) {
	g.asked = question
	return g.answer, g.err
}

func (g *fakeGateway) AudioDialogue(ctx context.Context) (string, error) {
	return g.dialogue, g.err
}

func (g *fakeGateway) StudyGuide(ctx context.Context) (guide.Guide, error) {
	return g.guide, g.err
}

func (g *fakeGateway) AnalyzeVideo(ctx context.Context, videoURL string) (string, error) {
	g.analyzed = videoURL
	return g.analysis, g.err
}

func newTestModel(t *testing.T, gateway *fakeGateway) *model {
	t.Helper()
	teaModel, ok := New(Config{
		Gateway:      gateway,
		Speech:       speech.NewController(speech.NullEngine{}),
		ExportDir:    t.TempDir(),
		ExportFormat: "txt",
	}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel
}

func TestUploadJobReadsFileAndReportsSummary(t *testing.T) {
	gateway := &fakeGateway{summary: "Covers mitosis."}
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("cell division"), 0o644); err != nil {
		t.Fatal(err)
	}

	msg := uploadJob(gateway, 3, testMaterial("notes.txt"), path)(context.Background())
	result, ok := msg.(uploadResultMsg)
	if !ok {
		t.Fatalf("payload = %T, want uploadResultMsg", msg)
	}
	if result.err != nil {
		t.Fatalf("err = %v", result.err)
	}
	if result.gen != 3 || result.summary != "Covers mitosis." {
		t.Errorf("result = %+v", result)
	}
	if gateway.uploaded != "cell division" {
		t.Errorf("uploaded = %q", gateway.uploaded)
	}
}

func TestUploadJobMissingFileFails(t *testing.T) {
	gateway := &fakeGateway{}
	msg := uploadJob(gateway, 1, testMaterial("gone.txt"), filepath.Join(t.TempDir(), "gone.txt"))(context.Background())
	result := msg.(uploadResultMsg)
	if result.err == nil {
		t.Fatal("missing file did not fail")
	}
	if result.failure() == "" {
		t.Error("failure text empty for failed upload")
	}
}

func TestAskJobCarriesGeneration(t *testing.T) {
	gateway := &fakeGateway{answer: "Water moves across membranes."}
	msg := askJob(gateway, 7, "what is osmosis?")(context.Background())
	result := msg.(answerResultMsg)
	if result.gen != 7 || result.answer != "Water moves across membranes." {
		t.Errorf("result = %+v", result)
	}
	if gateway.asked != "what is osmosis?" {
		t.Errorf("asked = %q", gateway.asked)
	}
}

func TestAnalyzeJobRoutesByVideoID(t *testing.T) {
	gateway := &fakeGateway{analysis: "Explains photosynthesis."}
	msg := analyzeJob(gateway, "abc123", 2, "https://youtu.be/abc123")(context.Background())
	result := msg.(analysisResultMsg)
	if result.videoID != "abc123" || result.gen != 2 {
		t.Errorf("result = %+v", result)
	}
	if gateway.analyzed != "https://youtu.be/abc123" {
		t.Errorf("analyzed = %q", gateway.analyzed)
	}
}

func TestExportGuideJobWritesFile(t *testing.T) {
	dir := t.TempDir()
	g := guide.Guide{Summary: "short take", KeyConcepts: []string{"osmosis"}}
	msg := exportGuideJob(dir, "txt", g)(context.Background())
	result := msg.(exportResultMsg)
	if result.err != nil {
		t.Fatalf("err = %v", result.err)
	}
	data, err := os.ReadFile(result.path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(data) == 0 {
		t.Error("export file empty")
	}
}

func TestFailureTextSurfacesJobError(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("HTTP error! status: 502")}
	msg := askJob(gateway, 1, "q")(context.Background())
	result := msg.(answerResultMsg)
	if result.failure() != "HTTP error! status: 502" {
		t.Errorf("failure = %q", result.failure())
	}
}
