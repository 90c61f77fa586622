package advisor

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"tailor/internal/patch"
)

// cleanJSONOutput strips the code fence wrappers models like to add.
func cleanJSONOutput(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

// ParseQuestions decodes a questions response. Anything other than exactly
// QuestionCount non-blank strings is a validation error; the caller falls
// back to the built-in set.
func ParseQuestions(raw string) ([]string, error) {
	var questions []string
	if err := json.Unmarshal([]byte(cleanJSONOutput(raw)), &questions); err != nil {
		return nil, &ValidationError{Reason: "questions are not a JSON string array", Err: err}
	}
	if len(questions) != QuestionCount {
		return nil, &ValidationError{Reason: "expected exactly 3 questions"}
	}
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			return nil, &ValidationError{Reason: "blank question"}
		}
	}
	return questions, nil
}

// ParseEdits decodes and schema-validates an edits response. Missing ids are
// backfilled with uuids; duplicate ids are rejected so the pending set can
// never hold the same id twice.
func ParseEdits(raw string) ([]patch.EditProposal, error) {
	cleaned := cleanJSONOutput(raw)

	var generic any
	if err := json.Unmarshal([]byte(cleaned), &generic); err != nil {
		return nil, &ValidationError{Reason: "edits are not valid JSON", Err: err}
	}
	schema, err := compiledEditsSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(generic); err != nil {
		return nil, &ValidationError{Reason: "edits failed schema validation", Err: err}
	}

	var edits []patch.EditProposal
	if err := json.Unmarshal([]byte(cleaned), &edits); err != nil {
		return nil, &ValidationError{Reason: "edits do not decode into proposals", Err: err}
	}

	seen := make(map[string]bool, len(edits))
	for i := range edits {
		if edits[i].ID == "" {
			edits[i].ID = uuid.NewString()
		}
		if seen[edits[i].ID] {
			return nil, &ValidationError{Reason: "duplicate edit id " + edits[i].ID}
		}
		seen[edits[i].ID] = true
	}
	return edits, nil
}
