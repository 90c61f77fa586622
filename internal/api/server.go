package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tailor/internal/advisor"
	"tailor/internal/engine"
	"tailor/internal/patch"
	"tailor/internal/session"
	"tailor/internal/store"
	"tailor/internal/typeset"
)

const (
	serviceName    = "Resume Assistant"
	serviceVersion = "1.0.0"
)

// Server exposes the tailoring engine over HTTP.
type Server struct {
	engine   *engine.Engine
	compiler *typeset.Compiler
	logger   *zap.Logger
}

func NewServer(e *engine.Engine, c *typeset.Compiler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{engine: e, compiler: c, logger: logger}
}

// Handler builds the route table. Method patterns reject wrong verbs with
// 405 for free.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /session/start", s.handleStart)
	mux.HandleFunc("POST /session/answer", s.handleAnswer)
	mux.HandleFunc("POST /session/edits", s.handleEdits)
	mux.HandleFunc("POST /session/apply", s.handleApply)
	mux.HandleFunc("GET /session/{id}", s.handleStatus)
	mux.HandleFunc("DELETE /session/{id}", s.handleDelete)
	mux.HandleFunc("POST /export/pdf", s.handleExport)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message: serviceName,
		Version: serviceVersion,
		Endpoints: map[string]string{
			"POST /session/start":          "Start a new resume analysis session",
			"POST /session/answer":         "Submit an answer to the current question",
			"POST /session/edits":          "Generate edit proposals for a completed session",
			"POST /session/apply":          "Apply a pending edit to the resume",
			"GET /session/{session_id}":    "Get session status",
			"DELETE /session/{session_id}": "Delete a session",
			"POST /export/pdf":             "Compile LaTeX to PDF",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	sess, err := s.engine.Start(r.Context(), req.ResumeText, req.JobPost)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startResponse{
		SessionID:      sess.ID,
		FirstQuestion:  sess.Questions[0],
		TotalQuestions: len(sess.Questions),
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	sess, err := s.engine.Answer(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	resp := answerResponse{
		IsComplete: sess.Complete(),
		Progress:   sess.Progress(),
	}
	if next, ok := sess.NextQuestion(); ok {
		resp.NextQuestion = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEdits(w http.ResponseWriter, r *http.Request) {
	var req editsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	sess, err := s.engine.RequestEdits(r.Context(), req.SessionID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, editsResponse{
		SessionID: sess.ID,
		Edits:     sess.PendingEdits,
	})
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	sess, err := s.engine.ApplyEdit(r.Context(), req.SessionID, req.EditID, req.LatexCode)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	remaining := sess.PendingEdits
	if remaining == nil {
		remaining = []patch.EditProposal{}
	}
	writeJSON(w, http.StatusOK, applyResponse{
		UpdatedResume:  sess.ResumeText,
		RemainingEdits: remaining,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.Status(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	resp := statusResponse{
		SessionID:    sess.ID,
		State:        string(sess.State()),
		Questions:    sess.Questions,
		Answers:      sess.Answers,
		Progress:     sess.Progress(),
		PendingEdits: sess.PendingEdits,
		CreatedAt:    sess.CreatedAt.Format(time.RFC3339),
	}
	if resp.Answers == nil {
		resp.Answers = []string{}
	}
	if resp.PendingEdits == nil {
		resp.PendingEdits = []patch.EditProposal{}
	}
	if next, ok := sess.NextQuestion(); ok {
		resp.CurrentQuestion = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Message: "Session deleted successfully"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.LatexCode == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "Missing LaTeX code.")
		return
	}
	pdf, err := s.compiler.Compile(r.Context(), req.LatexCode)
	if err != nil {
		s.logger.Error("pdf export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "compile_failed", "LaTeX compilation failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// writeEngineError maps workflow errors onto HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var (
		sectionErr *patch.SectionNotFoundError
		kindErr    *patch.UnknownKindError
		validErr   *advisor.ValidationError
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, session.ErrEditNotFound):
		writeError(w, http.StatusNotFound, "edit_not_found", err.Error())
	case errors.Is(err, session.ErrSessionComplete):
		writeError(w, http.StatusConflict, "session_complete", err.Error())
	case errors.Is(err, session.ErrIncompleteQA):
		writeError(w, http.StatusConflict, "incomplete_qa", err.Error())
	case errors.Is(err, session.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.As(err, &sectionErr):
		writeError(w, http.StatusUnprocessableEntity, "section_not_found", err.Error())
	case errors.Is(err, patch.ErrMatchNotFound):
		writeError(w, http.StatusUnprocessableEntity, "match_not_found", err.Error())
	case errors.As(err, &kindErr):
		writeError(w, http.StatusUnprocessableEntity, "unknown_edit_kind", err.Error())
	case errors.As(err, &validErr):
		writeError(w, http.StatusBadGateway, "generator_invalid", err.Error())
	case errors.Is(err, engine.ErrGeneratorUnavailable):
		writeError(w, http.StatusBadGateway, "generator_unavailable", err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorResponse{Error: code, Detail: detail})
}
