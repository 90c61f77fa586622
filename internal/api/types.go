package api

import (
	"tailor/internal/patch"
)

type startRequest struct {
	ResumeText string `json:"resume_text"`
	JobPost    string `json:"job_post"`
}

type startResponse struct {
	SessionID      string `json:"session_id"`
	FirstQuestion  string `json:"first_question"`
	TotalQuestions int    `json:"total_questions"`
}

type answerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type answerResponse struct {
	NextQuestion *string `json:"next_question"`
	IsComplete   bool    `json:"is_complete"`
	Progress     string  `json:"progress"`
}

type editsRequest struct {
	SessionID string `json:"session_id"`
}

type editsResponse struct {
	SessionID string               `json:"session_id"`
	Edits     []patch.EditProposal `json:"edits"`
}

type applyRequest struct {
	SessionID string `json:"session_id"`
	EditID    string `json:"edit_id"`
	// LatexCode optionally overrides the suggested snippet.
	LatexCode string `json:"latex_code,omitempty"`
}

type applyResponse struct {
	UpdatedResume  string               `json:"updated_resume"`
	RemainingEdits []patch.EditProposal `json:"remaining_edits"`
}

type statusResponse struct {
	SessionID       string               `json:"session_id"`
	State           string               `json:"state"`
	Questions       []string             `json:"questions"`
	Answers         []string             `json:"answers"`
	CurrentQuestion *string              `json:"current_question"`
	Progress        string               `json:"progress"`
	PendingEdits    []patch.EditProposal `json:"pending_edits"`
	CreatedAt       string               `json:"created_at"`
}

type deleteResponse struct {
	Message string `json:"message"`
}

type exportRequest struct {
	LatexCode string `json:"latex_code"`
}

type rootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}
