// Package session holds the complete state of one study session: the
// uploaded material, the chat transcript, the dialogue script, the study
// guide and the video gallery. It is a plain state machine with no I/O:
// network work begins with a Begin/Request call that hands out a generation
// token, and results are applied only when that token is still current, so
// a reply from an abandoned request can never overwrite newer state.
package session

import (
	"github.com/averma/studymate/internal/guide"
	"github.com/averma/studymate/internal/material"
	"github.com/averma/studymate/internal/video"
)

// Tab identifies one pane of the tabbed shell.
type Tab int

const (
	TabUpload Tab = iota
	TabChat
	TabAudio
	TabGuide
	TabVideos
)

// Role marks who wrote a chat message.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

// Message is one entry of the append-only chat transcript. Backend failures
// appear inline as assistant messages rather than as a separate error state.
type Message struct {
	Role Role
	Text string
}

type pendingUpload struct {
	material material.Material
	preview  string
}

// Session is not safe for concurrent use; the UI event loop owns it.
type Session struct {
	activeTab Tab

	mat        material.Material
	preview    string
	hasMat     bool
	pending    *pendingUpload
	uploadBusy bool
	uploadGen  uint64

	messages []Message
	chatBusy bool
	chatGen  uint64

	dialogue     string
	dialogueBusy bool
	dialogueGen  uint64

	guide     guide.Guide
	hasGuide  bool
	guideBusy bool
	guideGen  uint64

	videos      video.Collection
	analyses    map[string]string
	analysisGen map[string]uint64
}

// New returns an empty session with the chat tab active.
func New() *Session {
	return &Session{
		activeTab:   TabChat,
		analyses:    make(map[string]string),
		analysisGen: make(map[string]uint64),
	}
}

// ActiveTab reports the currently visible pane.
func (s *Session) ActiveTab() Tab { return s.activeTab }

// SetTab switches panes and reports whether the audio pane was just left,
// which is the caller's cue to stop any running speech playback.
func (s *Session) SetTab(tab Tab) (leftAudio bool) {
	leftAudio = s.activeTab == TabAudio && tab != TabAudio
	s.activeTab = tab
	return leftAudio
}

// BeginUpload stages a new material without touching the committed one, so
// a failed upload leaves the previous session intact. It refuses while an
// upload is already in flight.
func (s *Session) BeginUpload(mat material.Material, preview string) (uint64, bool) {
	if s.uploadBusy {
		return 0, false
	}
	s.pending = &pendingUpload{material: mat, preview: preview}
	s.uploadBusy = true
	s.uploadGen++
	return s.uploadGen, true
}

// CommitUpload promotes the staged material and resets the chat transcript
// to a single assistant message carrying the backend's summary. Other
// artifacts (dialogue, guide, videos) are independent of the material and
// survive until explicitly regenerated.
func (s *Session) CommitUpload(gen uint64, summary string) bool {
	if gen != s.uploadGen || s.pending == nil {
		return false
	}
	s.mat = s.pending.material
	s.preview = s.pending.preview
	s.hasMat = true
	s.pending = nil
	s.uploadBusy = false

	s.messages = []Message{{Role: RoleAssistant, Text: summary}}
	s.chatBusy = false
	s.chatGen++
	return true
}

// FailUpload rolls the staged material back, leaving the committed session
// exactly as it was before BeginUpload.
func (s *Session) FailUpload(gen uint64) bool {
	if gen != s.uploadGen || s.pending == nil {
		return false
	}
	s.pending = nil
	s.uploadBusy = false
	return true
}

// UploadBusy reports whether an upload is in flight.
func (s *Session) UploadBusy() bool { return s.uploadBusy }

// Material returns the committed material, its local preview text, and
// whether any material has been committed at all.
func (s *Session) Material() (material.Material, string, bool) {
	return s.mat, s.preview, s.hasMat
}

// AskQuestion appends the user's question and marks the chat busy. It is a
// single-flight guard: a second question is refused until the first answer
// or failure arrives.
func (s *Session) AskQuestion(question string) (uint64, bool) {
	if s.chatBusy {
		return 0, false
	}
	s.messages = append(s.messages, Message{Role: RoleUser, Text: question})
	s.chatBusy = true
	s.chatGen++
	return s.chatGen, true
}

// DeliverAnswer appends the assistant's reply, which may be an error notice;
// both clear the busy flag. Stale generations are dropped.
func (s *Session) DeliverAnswer(gen uint64, text string) bool {
	if gen != s.chatGen {
		return false
	}
	s.messages = append(s.messages, Message{Role: RoleAssistant, Text: text})
	s.chatBusy = false
	return true
}

// Messages returns the chat transcript in order.
func (s *Session) Messages() []Message { return s.messages }

// ChatBusy reports whether a question is awaiting its answer.
func (s *Session) ChatBusy() bool { return s.chatBusy }

// RequestDialogue marks a dialogue fetch in flight. Regeneration while a
// fetch is running supersedes it: the older result will arrive stale.
func (s *Session) RequestDialogue() uint64 {
	s.dialogueBusy = true
	s.dialogueGen++
	return s.dialogueGen
}

// SetDialogue replaces the script wholesale.
func (s *Session) SetDialogue(gen uint64, text string) bool {
	if gen != s.dialogueGen {
		return false
	}
	s.dialogue = text
	s.dialogueBusy = false
	return true
}

// FailDialogue clears the busy flag without touching the existing script.
func (s *Session) FailDialogue(gen uint64) bool {
	if gen != s.dialogueGen {
		return false
	}
	s.dialogueBusy = false
	return true
}

// Dialogue returns the current script, which persists across tab switches.
func (s *Session) Dialogue() string { return s.dialogue }

// DialogueBusy reports whether a script fetch is in flight.
func (s *Session) DialogueBusy() bool { return s.dialogueBusy }

// RequestGuide marks a study-guide fetch in flight.
func (s *Session) RequestGuide() uint64 {
	s.guideBusy = true
	s.guideGen++
	return s.guideGen
}

// SetGuide replaces the guide wholesale.
func (s *Session) SetGuide(gen uint64, g guide.Guide) bool {
	if gen != s.guideGen {
		return false
	}
	s.guide = g
	s.hasGuide = true
	s.guideBusy = false
	return true
}

// FailGuide clears the busy flag, keeping any previously fetched guide.
func (s *Session) FailGuide(gen uint64) bool {
	if gen != s.guideGen {
		return false
	}
	s.guideBusy = false
	return true
}

// Guide returns the current guide and whether one has been fetched.
func (s *Session) Guide() (guide.Guide, bool) { return s.guide, s.hasGuide }

// GuideBusy reports whether a guide fetch is in flight.
func (s *Session) GuideBusy() bool { return s.guideBusy }

// AddVideos parses the pasted text line by line and adds every valid link,
// returning the malformed lines alongside. Duplicates are suppressed by the
// collection.
func (s *Session) AddVideos(text string) ([]video.Link, []*video.ParseError) {
	links, errs := video.ParseLinks(text)
	added := make([]video.Link, 0, len(links))
	for _, link := range links {
		if s.videos.Add(link) {
			added = append(added, link)
		}
	}
	return added, errs
}

// RemoveVideo drops the video at index along with its cached analysis.
// Out-of-range indexes are ignored.
func (s *Session) RemoveVideo(index int) {
	if index < 0 || index >= s.videos.Len() {
		return
	}
	id := s.videos.At(index).ID
	s.videos.Remove(index)
	delete(s.analyses, id)
	delete(s.analysisGen, id)
}

// Videos returns the gallery in insertion order.
func (s *Session) Videos() []video.Link { return s.videos.All() }

// BeginAnalysis marks one video's analysis in flight, keyed by video ID so
// removals and reordering cannot misroute a result.
func (s *Session) BeginAnalysis(index int) (string, uint64, bool) {
	if index < 0 || index >= s.videos.Len() {
		return "", 0, false
	}
	id := s.videos.At(index).ID
	if s.AnalysisBusy(id) {
		return "", 0, false
	}
	s.analysisGen[id]++
	s.analyses[id] = ""
	return id, s.analysisGen[id], true
}

// SetAnalysis records the result for one video. Results for videos removed
// in the meantime are dropped.
func (s *Session) SetAnalysis(id string, gen uint64, text string) bool {
	if gen != s.analysisGen[id] {
		return false
	}
	if !s.hasVideo(id) {
		delete(s.analyses, id)
		delete(s.analysisGen, id)
		return false
	}
	s.analyses[id] = text
	return true
}

// Analysis returns the cached analysis text for a video ID, if any.
func (s *Session) Analysis(id string) (string, bool) {
	text, ok := s.analyses[id]
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// AnalysisBusy reports whether a fetch for this video is in flight.
func (s *Session) AnalysisBusy(id string) bool {
	text, ok := s.analyses[id]
	return ok && text == ""
}

func (s *Session) hasVideo(id string) bool {
	for _, link := range s.videos.All() {
		if link.ID == id {
			return true
		}
	}
	return false
}
