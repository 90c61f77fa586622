package session

import (
	"testing"

	"tailor/internal/patch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questions = []string{"Q1?", "Q2?", "Q3?"}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New("\\section{Skills}", "We need a Go engineer.", questions)
	require.NoError(t, err)
	return s
}

func TestNew_RequiresInput(t *testing.T) {
	_, err := New("", "job", questions)
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = New("resume", "", questions)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestAddAnswer_GuardsCompletion(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, StateCreated, s.State())

	require.NoError(t, s.AddAnswer("a1"))
	assert.Equal(t, StateAnswering, s.State())
	assert.Equal(t, "1/3", s.Progress())

	q, ok := s.NextQuestion()
	require.True(t, ok)
	assert.Equal(t, "Q2?", q)

	require.NoError(t, s.AddAnswer("a2"))
	require.NoError(t, s.AddAnswer("a3"))
	assert.Equal(t, StateAwaitingEdits, s.State())

	err := s.AddAnswer("a4")
	assert.ErrorIs(t, err, ErrSessionComplete)
	assert.Len(t, s.Answers, 3, "a rejected answer must not grow the list")

	_, ok = s.NextQuestion()
	assert.False(t, ok)
}

func TestSetPendingEdits_DropsDuplicateIDs(t *testing.T) {
	s := newSession(t)
	s.SetPendingEdits([]patch.EditProposal{
		{ID: "e1", Description: "first"},
		{ID: "e2"},
		{ID: "e1", Description: "dup"},
	})
	require.Len(t, s.PendingEdits, 2)
	assert.Equal(t, "first", s.PendingEdits[0].Description)
	assert.Equal(t, StateEditsReady, s.State())
}

func TestTakeEdit_ConsumesExactlyOnce(t *testing.T) {
	s := newSession(t)
	s.SetPendingEdits([]patch.EditProposal{{ID: "e1"}, {ID: "e2"}})

	e, err := s.TakeEdit("e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", e.ID)
	assert.Len(t, s.PendingEdits, 1)

	_, err = s.TakeEdit("e1")
	assert.ErrorIs(t, err, ErrEditNotFound)

	_, err = s.TakeEdit("missing")
	assert.ErrorIs(t, err, ErrEditNotFound)
}
