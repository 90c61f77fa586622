package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tailor/internal/advisor"
	"tailor/internal/latex"
	"tailor/internal/patch"
	"tailor/internal/session"
	"tailor/internal/store"
)

const defaultGenerateTimeout = 60 * time.Second

// ErrGeneratorUnavailable wraps failures of the external edit generator so
// callers can distinguish them from local workflow errors.
var ErrGeneratorUnavailable = errors.New("edit generator unavailable")

// Engine drives the tailoring workflow: question generation, the answer
// round, edit proposals, and applying accepted edits to the resume text.
type Engine struct {
	store      store.Store
	advisor    advisor.Advisor
	applier    *patch.Applier
	logger     *zap.Logger
	genTimeout time.Duration
}

func New(st store.Store, adv advisor.Advisor, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      st,
		advisor:    adv,
		applier:    patch.NewApplier(nil),
		logger:     logger,
		genTimeout: defaultGenerateTimeout,
	}
}

// Start creates a session for a resume/job pair. Question generation runs
// under a bounded timeout; on failure or a malformed response the built-in
// fallback questions are used so session creation never depends on the
// generator being healthy.
func (e *Engine) Start(ctx context.Context, resumeText, jobText string) (*session.Session, error) {
	if resumeText == "" || jobText == "" {
		return nil, session.ErrEmptyInput
	}

	genCtx, cancel := context.WithTimeout(ctx, e.genTimeout)
	defer cancel()

	questions, err := e.advisor.GenerateQuestions(genCtx, resumeText, jobText)
	if err != nil || len(questions) != advisor.QuestionCount {
		e.logger.Warn("question generation failed, using fallback questions", zap.Error(err))
		questions = advisor.FallbackQuestions()
	}

	sess, err := session.New(resumeText, jobText, questions)
	if err != nil {
		return nil, err
	}
	if err := e.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	e.logger.Info("session started",
		zap.String("session_id", sess.ID),
		zap.Int("questions", len(questions)),
	)
	return sess, nil
}

// Answer records the next answer for the session.
func (e *Engine) Answer(ctx context.Context, id, answer string) (*session.Session, error) {
	return e.store.Update(ctx, id, func(s *session.Session) error {
		return s.AddAnswer(answer)
	})
}

// RequestEdits asks the generator for edit proposals once the question round
// is complete. Calling it again replaces the pending set, so a client can
// regenerate proposals it did not like. The generator call runs outside the
// store update; only the final pending set is written under the lock.
func (e *Engine) RequestEdits(ctx context.Context, id string) (*session.Session, error) {
	sess, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Complete() {
		return nil, session.ErrIncompleteQA
	}

	genCtx, cancel := context.WithTimeout(ctx, e.genTimeout)
	defer cancel()

	edits, err := e.advisor.GenerateEdits(genCtx, sess.ResumeText, sess.JobText, sess.Questions, sess.Answers)
	if err != nil {
		var verr *advisor.ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}

	updated, err := e.store.Update(ctx, id, func(s *session.Session) error {
		if !s.Complete() {
			return session.ErrIncompleteQA
		}
		s.SetPendingEdits(edits)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("edits generated",
		zap.String("session_id", id),
		zap.Int("edits", len(updated.PendingEdits)),
	)
	return updated, nil
}

// ApplyEdit consumes the pending edit with the given id and applies it to
// the session's resume text. A non-empty overrideSnippet replaces the
// suggested snippet, letting the user tweak the proposal before accepting
// it. On any apply failure nothing is persisted and the edit stays pending.
func (e *Engine) ApplyEdit(ctx context.Context, id, editID, overrideSnippet string) (*session.Session, error) {
	updated, err := e.store.Update(ctx, id, func(s *session.Session) error {
		edit, err := s.TakeEdit(editID)
		if err != nil {
			return err
		}
		if overrideSnippet != "" {
			edit.SuggestedSnippet = overrideSnippet
		}

		doc, skipped := latex.Parse(s.ResumeText)
		if len(skipped) > 0 {
			e.logger.Debug("unrecognized lines dropped on parse",
				zap.String("session_id", s.ID),
				zap.Int("lines", len(skipped)),
			)
		}
		if err := e.applier.Apply(doc, edit); err != nil {
			return err
		}
		s.ResumeText = latex.Serialize(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("edit applied",
		zap.String("session_id", id),
		zap.String("edit_id", editID),
		zap.Int("remaining", len(updated.PendingEdits)),
	)
	return updated, nil
}

// Status returns the current session snapshot.
func (e *Engine) Status(ctx context.Context, id string) (*session.Session, error) {
	return e.store.Get(ctx, id)
}

// Delete removes the session.
func (e *Engine) Delete(ctx context.Context, id string) error {
	ok, err := e.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}
