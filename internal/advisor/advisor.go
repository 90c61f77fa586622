package advisor

import (
	"context"
	"fmt"

	"tailor/internal/patch"
)

// QuestionCount is the fixed size of a question round.
const QuestionCount = 3

// Advisor generates targeted interview questions and edit proposals for a
// resume/job pair. Implementations talk to an external LLM service.
type Advisor interface {
	// GenerateQuestions returns exactly QuestionCount gap-analysis questions.
	GenerateQuestions(ctx context.Context, resumeText, jobText string) ([]string, error)

	// GenerateEdits returns edit proposals derived from the completed Q&A
	// round, validated against the edit exchange schema.
	GenerateEdits(ctx context.Context, resumeText, jobText string, questions, answers []string) ([]patch.EditProposal, error)
}

// FallbackQuestions is the fixed built-in set substituted when question
// generation fails or returns a malformed shape.
func FallbackQuestions() []string {
	return []string{
		"Can you provide specific examples of your experience with the key skills mentioned in the job posting?",
		"What measurable results or metrics did you achieve in your most recent role?",
		"Describe a challenging project you led that demonstrates your ability to handle the responsibilities mentioned in this role.",
	}
}

// ValidationError reports generator output that is not a well-formed
// response: wrong shape, schema violations, or duplicate edit ids.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generator output invalid: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generator output invalid: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }
