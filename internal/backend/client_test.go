package backend

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
}

func TestUploadMaterialSendsMultipartFile(t *testing.T) {
	t.Parallel()

	var gotPath, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("content type = %q, want multipart/form-data", r.Header.Get("Content-Type"))
		}
		form, err := r.MultipartReader()
		if err != nil {
			t.Fatalf("multipart reader: %v", err)
		}
		part, err := form.NextPart()
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		if part.FormName() != "file" {
			t.Errorf("form field = %q, want %q", part.FormName(), "file")
		}
		data, _ := io.ReadAll(part)
		gotBody = string(data)
		io.WriteString(w, `{"summary":"Chapter one covers mitosis."}`)
	})

	summary, err := client.UploadMaterial(context.Background(), "notes.pdf", strings.NewReader("raw bytes"))
	if err != nil {
		t.Fatalf("UploadMaterial: %v", err)
	}
	if gotPath != "/upload-pdf" {
		t.Errorf("path = %q, want /upload-pdf", gotPath)
	}
	if gotBody != "raw bytes" {
		t.Errorf("uploaded body = %q, want %q", gotBody, "raw bytes")
	}
	if summary != "Chapter one covers mitosis." {
		t.Errorf("summary = %q", summary)
	}
}

func TestUploadMaterialFallsBackToMessageField(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"Stored."}`)
	})
	summary, err := client.UploadMaterial(context.Background(), "notes.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("UploadMaterial: %v", err)
	}
	if summary != "Stored." {
		t.Errorf("summary = %q, want %q", summary, "Stored.")
	}
}

func TestUploadMaterialWithoutRecognizedFields(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true}`)
	})
	if _, err := client.UploadMaterial(context.Background(), "notes.txt", strings.NewReader("x")); !errors.Is(err, ErrNoSummary) {
		t.Fatalf("err = %v, want ErrNoSummary", err)
	}
}

func TestAskFieldPreference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{name: "answer field", body: `{"answer":"42"}`, want: "42"},
		{name: "response fallback", body: `{"response":"maybe"}`, want: "maybe"},
		{name: "answer wins over response", body: `{"answer":"a","response":"b"}`, want: "a"},
		{name: "no recognized field", body: `{"note":"x"}`, wantErr: ErrNoAnswer},
		{name: "empty answer", body: `{"answer":"  "}`, wantErr: ErrNoAnswer},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/ask" {
					t.Errorf("path = %q, want /ask", r.URL.Path)
				}
				io.WriteString(w, tt.body)
			})
			got, err := client.Ask(context.Background(), "why?")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("answer = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAskSendsQuestionJSON(t *testing.T) {
	t.Parallel()

	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		io.WriteString(w, `{"answer":"ok"}`)
	})
	if _, err := client.Ask(context.Background(), "what is osmosis?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if gotBody != `{"question":"what is osmosis?"}` {
		t.Errorf("request body = %q", gotBody)
	}
}

func TestAudioDialogueAcceptsRawBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "Here is your dialogue: Teacher: Hi Student: Hello")
	})
	dialogue, err := client.AudioDialogue(context.Background())
	if err != nil {
		t.Fatalf("AudioDialogue: %v", err)
	}
	if dialogue != "Here is your dialogue: Teacher: Hi Student: Hello" {
		t.Errorf("dialogue = %q", dialogue)
	}
}

func TestAudioDialogueErrorObjectFails(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"No study material uploaded yet"}`)
	})
	dialogue, err := client.AudioDialogue(context.Background())
	if !errors.Is(err, ErrEmptyDialogue) {
		t.Fatalf("err = %v, want ErrEmptyDialogue", err)
	}
	if !strings.Contains(err.Error(), "No study material uploaded yet") {
		t.Errorf("err = %v, want the backend's reason", err)
	}
	if dialogue != "" {
		t.Errorf("dialogue = %q, want empty", dialogue)
	}
}

func TestAudioDialogueUnrecognizedObjectFails(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"pending"}`)
	})
	if _, err := client.AudioDialogue(context.Background()); !errors.Is(err, ErrEmptyDialogue) {
		t.Fatalf("err = %v, want ErrEmptyDialogue", err)
	}
}

func TestAudioDialogueStripsBoldRoleLabels(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"dialogue":"**Teacher:** Hi\n**Student:** Hello"}`)
	})
	dialogue, err := client.AudioDialogue(context.Background())
	if err != nil {
		t.Fatalf("AudioDialogue: %v", err)
	}
	if dialogue != "Teacher: Hi\nStudent: Hello" {
		t.Errorf("dialogue = %q", dialogue)
	}
}

func TestStudyGuideParsesFencedJSON(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "```json\n{\"key_concepts\":[\"osmosis\"],\"summary\":\"water moves\"}\n```")
	})
	g, err := client.StudyGuide(context.Background())
	if err != nil {
		t.Fatalf("StudyGuide: %v", err)
	}
	if !g.Structured() {
		t.Fatalf("guide not structured: %+v", g)
	}
	if len(g.KeyConcepts) != 1 || g.KeyConcepts[0] != "osmosis" {
		t.Errorf("key concepts = %v", g.KeyConcepts)
	}
}

func TestStudyGuideFallsBackToRawText(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "Just read chapter three.")
	})
	g, err := client.StudyGuide(context.Background())
	if err != nil {
		t.Fatalf("StudyGuide: %v", err)
	}
	if g.Structured() || g.RawText != "Just read chapter three." {
		t.Errorf("guide = %+v", g)
	}
}

func TestAnalyzeVideoShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "success with analysis", body: `{"status":"success","analysis":"Covers photosynthesis."}`, want: "Covers photosynthesis."},
		{name: "error with message", body: `{"status":"error","message":"No captions."}`, want: "No captions."},
		{name: "error without message", body: `{"status":"error"}`, want: analysisUnavailable},
		{name: "bare transcript field", body: `{"transcript":"Light reactions."}`, want: "Light reactions."},
		{name: "bare summary field", body: `{"summary":"Short take."}`, want: "Short take."},
		{name: "json string", body: `"Plain analysis."`, want: "Plain analysis."},
		{name: "raw text", body: "Not JSON at all.", want: "Not JSON at all."},
		{name: "nothing usable", body: `{"ok":true}`, want: analysisUnavailable},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/analyze/youtube" {
					t.Errorf("path = %q, want /api/analyze/youtube", r.URL.Path)
				}
				io.WriteString(w, tt.body)
			})
			got, err := client.AnalyzeVideo(context.Background(), "https://youtu.be/abc")
			if err != nil {
				t.Fatalf("AnalyzeVideo: %v", err)
			}
			if got != tt.want {
				t.Errorf("analysis = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNonSuccessStatusBecomesError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.Ask(context.Background(), "q")
	if err == nil || err.Error() != "HTTP error! status: 502" {
		t.Fatalf("err = %v, want HTTP error! status: 502", err)
	}
}
