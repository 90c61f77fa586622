package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor/internal/engine"
	"tailor/internal/patch"
	"tailor/internal/store"
	"tailor/internal/typeset"
)

type stubAdvisor struct {
	questions []string
	edits     []patch.EditProposal
	err       error
}

func (s *stubAdvisor) GenerateQuestions(ctx context.Context, resumeText, jobText string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.questions, nil
}

func (s *stubAdvisor) GenerateEdits(ctx context.Context, resumeText, jobText string, questions, answers []string) ([]patch.EditProposal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.edits, nil
}

const testResume = "\\section{Experience}\n  \\resumeItem{Built APIs}\n\n\\section{Skills}\n  \\resumeItem{Python}\n"

func newTestServer(t *testing.T, adv *stubAdvisor) *httptest.Server {
	t.Helper()
	if adv.questions == nil {
		adv.questions = []string{"Q1?", "Q2?", "Q3?"}
	}
	st := store.NewMemoryStore(store.DefaultTTL)
	t.Cleanup(func() { st.Close() })

	stub := filepath.Join(t.TempDir(), "fakelatex")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nprintf '%%PDF-1.4 fake' > resume.pdf\n"), 0o755))

	srv := NewServer(
		engine.New(st, adv, nil),
		typeset.NewCompiler(stub, time.Minute),
		nil,
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(string(raw)))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func startSession(t *testing.T, ts *httptest.Server) startResponse {
	t.Helper()
	resp := postJSON(t, ts, "/session/start", startRequest{ResumeText: testResume, JobPost: "Go developer wanted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[startResponse](t, resp)
}

func answerAll(t *testing.T, ts *httptest.Server, sessionID string, total int) {
	t.Helper()
	for i := 0; i < total; i++ {
		resp := postJSON(t, ts, "/session/answer", answerRequest{SessionID: sessionID, Answer: "I led a Go migration."})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	root := decode[rootResponse](t, resp)
	assert.Equal(t, "Resume Assistant", root.Message)
	assert.NotEmpty(t, root.Endpoints)

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	health := decode[healthResponse](t, resp)
	assert.Equal(t, "healthy", health.Status)
}

func TestStartSession(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	started := startSession(t, ts)
	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, "Q1?", started.FirstQuestion)
	assert.Equal(t, 3, started.TotalQuestions)
}

func TestStartSessionEmptyInput(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	resp := postJSON(t, ts, "/session/start", startRequest{ResumeText: "", JobPost: "job"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestStartSessionBadJSON(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	resp, err := http.Post(ts.URL+"/session/start", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAnswerFlow(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	started := startSession(t, ts)

	resp := postJSON(t, ts, "/session/answer", answerRequest{SessionID: started.SessionID, Answer: "first"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ans := decode[answerResponse](t, resp)
	require.NotNil(t, ans.NextQuestion)
	assert.Equal(t, "Q2?", *ans.NextQuestion)
	assert.False(t, ans.IsComplete)
	assert.Equal(t, "1/3", ans.Progress)

	answerAll(t, ts, started.SessionID, 2)

	resp, err := http.Get(ts.URL + "/session/" + started.SessionID)
	require.NoError(t, err)
	status := decode[statusResponse](t, resp)
	assert.Equal(t, "awaiting_edits", status.State)
	assert.Nil(t, status.CurrentQuestion)
}

func TestAnswerUnknownSession(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	resp := postJSON(t, ts, "/session/answer", answerRequest{SessionID: "no-such-id", Answer: "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAnswerAfterComplete(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	started := startSession(t, ts)
	answerAll(t, ts, started.SessionID, 3)

	resp := postJSON(t, ts, "/session/answer", answerRequest{SessionID: started.SessionID, Answer: "extra"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestEditsBeforeComplete(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	started := startSession(t, ts)

	resp := postJSON(t, ts, "/session/edits", editsRequest{SessionID: started.SessionID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestEditsAndApply(t *testing.T) {
	adv := &stubAdvisor{
		edits: []patch.EditProposal{
			{
				ID:                  "e1",
				Kind:                patch.AddItemToSection,
				TargetSectionHeader: "Skills",
				ContextBefore:       "Python",
				SuggestedSnippet:    "Go",
				Description:         "Adds Go to the skills section.",
			},
		},
	}
	ts := newTestServer(t, adv)
	started := startSession(t, ts)
	answerAll(t, ts, started.SessionID, 3)

	resp := postJSON(t, ts, "/session/edits", editsRequest{SessionID: started.SessionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edits := decode[editsResponse](t, resp)
	require.Len(t, edits.Edits, 1)

	resp = postJSON(t, ts, "/session/apply", applyRequest{SessionID: started.SessionID, EditID: "e1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	applied := decode[applyResponse](t, resp)
	assert.Contains(t, applied.UpdatedResume, "\\resumeItem{Python}\n  \\resumeItem{Go}")
	assert.Empty(t, applied.RemainingEdits)
}

func TestApplyUnknownEdit(t *testing.T) {
	adv := &stubAdvisor{
		edits: []patch.EditProposal{
			{ID: "e1", Kind: patch.AddItemToSection, TargetSectionHeader: "Skills", SuggestedSnippet: "Go"},
		},
	}
	ts := newTestServer(t, adv)
	started := startSession(t, ts)
	answerAll(t, ts, started.SessionID, 3)

	resp := postJSON(t, ts, "/session/edits", editsRequest{SessionID: started.SessionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts, "/session/apply", applyRequest{SessionID: started.SessionID, EditID: "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestApplySectionNotFound(t *testing.T) {
	adv := &stubAdvisor{
		edits: []patch.EditProposal{
			{ID: "e1", Kind: patch.AddItemToSection, TargetSectionHeader: "No Such Section", SuggestedSnippet: "Go"},
		},
	}
	ts := newTestServer(t, adv)
	started := startSession(t, ts)
	answerAll(t, ts, started.SessionID, 3)

	resp := postJSON(t, ts, "/session/edits", editsRequest{SessionID: started.SessionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts, "/session/apply", applyRequest{SessionID: started.SessionID, EditID: "e1"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errBody := decode[errorResponse](t, resp)
	assert.Equal(t, "section_not_found", errBody.Error)
}

func TestEditsGeneratorFailure(t *testing.T) {
	adv := &stubAdvisor{}
	ts := newTestServer(t, adv)
	started := startSession(t, ts)
	answerAll(t, ts, started.SessionID, 3)

	adv.err = errors.New("model unavailable")
	resp := postJSON(t, ts, "/session/edits", editsRequest{SessionID: started.SessionID})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	started := startSession(t, ts)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/session/"+started.SessionID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/session/" + started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	resp, err := http.Get(ts.URL + "/session/start")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()
}

func TestExportPDF(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	resp := postJSON(t, ts, "/export/pdf", exportRequest{LatexCode: "\\documentclass{article}\\begin{document}hi\\end{document}"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()
}

func TestExportPDFMissingCode(t *testing.T) {
	ts := newTestServer(t, &stubAdvisor{})
	resp := postJSON(t, ts, "/export/pdf", exportRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
