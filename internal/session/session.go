package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tailor/internal/patch"
)

// State is the derived lifecycle position of a session.
type State string

const (
	StateCreated       State = "created"
	StateAnswering     State = "answering"
	StateAwaitingEdits State = "awaiting_edits"
	StateEditsReady    State = "edits_ready"
)

var (
	// ErrEmptyInput rejects session creation without resume or job text.
	ErrEmptyInput = errors.New("resume text and job text are required")
	// ErrSessionComplete guards add_answer once all questions are answered.
	ErrSessionComplete = errors.New("all questions already answered")
	// ErrIncompleteQA guards edit generation before the Q&A is complete.
	ErrIncompleteQA = errors.New("question round not complete")
	// ErrEditNotFound reports an edit id absent from the pending set.
	ErrEditNotFound = errors.New("edit not found")
)

// Session is one resume/job conversation: the question round, the current
// resume text, and the pending edit proposals. It is persisted as an opaque
// blob; Version supports optimistic concurrency in the store.
type Session struct {
	ID           string               `json:"id"`
	ResumeText   string               `json:"resume_text"`
	JobText      string               `json:"job_text"`
	Questions    []string             `json:"questions"`
	Answers      []string             `json:"answers"`
	PendingEdits []patch.EditProposal `json:"pending_edits"`
	CreatedAt    time.Time            `json:"created_at"`
	Version      int64                `json:"version"`
}

// New creates a session with the supplied question list. The question count
// is fixed by the generator and not validated here.
func New(resumeText, jobText string, questions []string) (*Session, error) {
	if resumeText == "" || jobText == "" {
		return nil, ErrEmptyInput
	}
	return &Session{
		ID:         uuid.NewString(),
		ResumeText: resumeText,
		JobText:    jobText,
		Questions:  questions,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// State derives the lifecycle position from the session data.
func (s *Session) State() State {
	switch {
	case len(s.PendingEdits) > 0:
		return StateEditsReady
	case s.Complete():
		return StateAwaitingEdits
	case len(s.Answers) > 0:
		return StateAnswering
	default:
		return StateCreated
	}
}

// Complete reports whether every question has an answer.
func (s *Session) Complete() bool {
	return len(s.Answers) >= len(s.Questions)
}

// AddAnswer appends the next answer. Calling it when the round is already
// complete fails with ErrSessionComplete and does not grow Answers.
func (s *Session) AddAnswer(answer string) error {
	if s.Complete() {
		return ErrSessionComplete
	}
	s.Answers = append(s.Answers, answer)
	return nil
}

// NextQuestion returns the question awaiting an answer, if any.
func (s *Session) NextQuestion() (string, bool) {
	if s.Complete() {
		return "", false
	}
	return s.Questions[len(s.Answers)], true
}

// Progress renders the answered count as "n/m".
func (s *Session) Progress() string {
	return fmt.Sprintf("%d/%d", len(s.Answers), len(s.Questions))
}

// SetPendingEdits replaces the pending set. Duplicate ids are dropped,
// keeping the earliest proposal, so the set never holds the same id twice.
func (s *Session) SetPendingEdits(edits []patch.EditProposal) {
	seen := make(map[string]bool, len(edits))
	kept := make([]patch.EditProposal, 0, len(edits))
	for _, e := range edits {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		kept = append(kept, e)
	}
	s.PendingEdits = kept
}

// TakeEdit removes and returns the pending edit with the given id. Each edit
// can be taken at most once; a second take fails with ErrEditNotFound.
func (s *Session) TakeEdit(id string) (patch.EditProposal, error) {
	for i, e := range s.PendingEdits {
		if e.ID == id {
			s.PendingEdits = append(s.PendingEdits[:i], s.PendingEdits[i+1:]...)
			return e, nil
		}
	}
	return patch.EditProposal{}, ErrEditNotFound
}
