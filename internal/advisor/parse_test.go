package advisor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor/internal/patch"
)

func TestCleanJSONOutput(t *testing.T) {
	assert.Equal(t, `["a"]`, cleanJSONOutput("```json\n[\"a\"]\n```"))
	assert.Equal(t, `["a"]`, cleanJSONOutput("```\n[\"a\"]\n```"))
	assert.Equal(t, `["a"]`, cleanJSONOutput("  [\"a\"]  "))
}

func TestParseQuestions(t *testing.T) {
	questions, err := ParseQuestions(`["One?", "Two?", "Three?"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"One?", "Two?", "Three?"}, questions)
}

func TestParseQuestionsFenced(t *testing.T) {
	questions, err := ParseQuestions("```json\n[\"One?\", \"Two?\", \"Three?\"]\n```")
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestParseQuestionsWrongCount(t *testing.T) {
	_, err := ParseQuestions(`["One?", "Two?"]`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParseQuestionsBlankEntry(t *testing.T) {
	_, err := ParseQuestions(`["One?", "  ", "Three?"]`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParseQuestionsNotJSON(t *testing.T) {
	_, err := ParseQuestions("Here are some questions: 1. ...")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParseEdits(t *testing.T) {
	raw := `[
		{
			"id": "e1",
			"kind": "AddItemToSection",
			"targetSectionHeader": "Experience",
			"contextBefore": "Built APIs",
			"suggestedSnippet": "\\resumeItem{Led migration to Kubernetes}",
			"description": "Adds the Kubernetes experience mentioned in the answers."
		}
	]`
	edits, err := ParseEdits(raw)
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "e1", edits[0].ID)
	assert.Equal(t, patch.AddItemToSection, edits[0].Kind)
	assert.Equal(t, "Experience", edits[0].TargetSectionHeader)
}

func TestParseEditsBackfillsMissingID(t *testing.T) {
	raw := `[
		{"kind": "AddNewSection", "targetSectionHeader": "Certifications", "suggestedSnippet": "\\resumeItem{CKA}"},
		{"kind": "AddNewSection", "targetSectionHeader": "Awards", "suggestedSnippet": "\\resumeItem{Dean's list}"}
	]`
	edits, err := ParseEdits(raw)
	require.NoError(t, err)
	require.Len(t, edits, 2)
	assert.NotEmpty(t, edits[0].ID)
	assert.NotEmpty(t, edits[1].ID)
	assert.NotEqual(t, edits[0].ID, edits[1].ID)
}

func TestParseEditsDuplicateID(t *testing.T) {
	raw := `[
		{"id": "dup", "kind": "AddNewSection", "targetSectionHeader": "A", "suggestedSnippet": "x"},
		{"id": "dup", "kind": "AddNewSection", "targetSectionHeader": "B", "suggestedSnippet": "y"}
	]`
	_, err := ParseEdits(raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "duplicate")
}

func TestParseEditsUnknownKindRejected(t *testing.T) {
	raw := `[{"id": "e1", "kind": "DeleteSection", "targetSectionHeader": "A", "suggestedSnippet": "x"}]`
	_, err := ParseEdits(raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParseEditsMissingRequiredField(t *testing.T) {
	raw := `[{"id": "e1", "kind": "AddItemToSection", "suggestedSnippet": "x"}]`
	_, err := ParseEdits(raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParseEditsUpdateRequiresOriginal(t *testing.T) {
	raw := `[{"id": "e1", "kind": "UpdateItemInSection", "targetSectionHeader": "A", "suggestedSnippet": "x"}]`
	_, err := ParseEdits(raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	raw = `[{"id": "e1", "kind": "UpdateItemInSection", "targetSectionHeader": "A", "originalSnippet": "old", "suggestedSnippet": "x"}]`
	edits, err := ParseEdits(raw)
	require.NoError(t, err)
	assert.Equal(t, "old", edits[0].OriginalSnippet)
}

func TestParseEditsNotJSON(t *testing.T) {
	_, err := ParseEdits("I suggest rewriting the summary section.")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, errors.Unwrap(verr) != nil)
}

func TestFallbackQuestionsShape(t *testing.T) {
	questions := FallbackQuestions()
	require.Len(t, questions, QuestionCount)
	for _, q := range questions {
		assert.NotEmpty(t, q)
	}
}
