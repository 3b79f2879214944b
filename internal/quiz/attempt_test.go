package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildQuiz assembles the two-question quiz used across attempt tests:
// a 10-point multiple-choice (second choice correct) and a 5-point
// true/false whose correct answer is false.
func buildQuiz(t *testing.T) (Quiz, string, string, string) {
	t.Helper()
	s := NewMemoryStore("course-1")
	z, err := s.CreateQuiz()
	require.NoError(t, err)

	mc, correctID := mcQuestion(t, 10)
	_, err = s.AddQuestion(z.ID, mc)
	require.NoError(t, err)
	tf := tfQuestion(t, 5, false)
	_, err = s.AddQuestion(z.ID, tf)
	require.NoError(t, err)

	full, err := s.GetQuiz(z.ID)
	require.NoError(t, err)
	require.Equal(t, 15.0, full.Points)
	return full, mc.ID, correctID, tf.ID
}

func TestEndToEndScoring(t *testing.T) {
	z, mcID, correctID, tfID := buildQuiz(t)
	ctx := context.Background()

	// all correct
	sess := NewAttemptSession(z, "student-1")
	require.NoError(t, sess.RecordAnswer(mcID, correctID))
	require.NoError(t, sess.RecordAnswer(tfID, false))
	res, err := sess.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15.0, res.Score)
	assert.Len(t, res.Answers, 2)

	// all wrong, on a fresh attempt
	wrongID := ""
	for _, c := range z.Questions[0].MultipleChoice.Choices {
		if c.ID != correctID {
			wrongID = c.ID
		}
	}
	sess2 := NewAttemptSession(z, "student-1")
	require.NoError(t, sess2.RecordAnswer(mcID, wrongID))
	require.NoError(t, sess2.RecordAnswer(tfID, true))
	res2, err := sess2.Submit(ctx)
	require.NoError(t, err)
	assert.Zero(t, res2.Score)
}

func TestRecordAnswerUpserts(t *testing.T) {
	z, mcID, correctID, tfID := buildQuiz(t)
	sess := NewAttemptSession(z, "student-1")

	require.NoError(t, sess.RecordAnswer(mcID, "first-guess"))
	require.NoError(t, sess.RecordAnswer(mcID, correctID))
	require.NoError(t, sess.RecordAnswer(tfID, false))

	answers := sess.Answers()
	require.Len(t, answers, 2, "re-answering replaces, not appends")
	assert.Equal(t, correctID, answers[0].Value)
}

func TestRecordAnswerTypeMismatch(t *testing.T) {
	z, mcID, _, tfID := buildQuiz(t)
	sess := NewAttemptSession(z, "student-1")

	assert.ErrorIs(t, sess.RecordAnswer(mcID, true), ErrAnswerType)
	assert.ErrorIs(t, sess.RecordAnswer(tfID, "false"), ErrAnswerType)
	assert.ErrorIs(t, sess.RecordAnswer("ghost", "x"), ErrQuestionNotFound)
	assert.Empty(t, sess.Answers())
}

func TestNavigationClamps(t *testing.T) {
	z, _, _, _ := buildQuiz(t)
	sess := NewAttemptSession(z, "student-1")

	assert.Equal(t, 0, sess.Prev(), "previous at the first question is a no-op")
	assert.Equal(t, 1, sess.Next())
	assert.Equal(t, 1, sess.Next(), "next at the last question is a no-op")
	assert.Equal(t, 0, sess.Prev())
}

func TestCurrentQuestionStripsKeys(t *testing.T) {
	z, _, _, _ := buildQuiz(t)
	sess := NewAttemptSession(z, "student-1")

	q, ok := sess.CurrentQuestion()
	require.True(t, ok)
	_, hasKey := q.CorrectChoiceID()
	assert.False(t, hasKey)

	empty := NewAttemptSession(NewQuiz("empty"), "student-1")
	_, ok = empty.CurrentQuestion()
	assert.False(t, ok)
}

func TestSubmitOnce(t *testing.T) {
	z, mcID, correctID, _ := buildQuiz(t)
	at := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	sess := NewAttemptSessionWithClock(z, "student-1", func() time.Time { return at })

	require.NoError(t, sess.RecordAnswer(mcID, correctID))
	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Score)
	assert.Equal(t, at, res.SubmittedAt)

	// answers are frozen and a second submit is rejected
	assert.ErrorIs(t, sess.RecordAnswer(mcID, "other"), ErrAlreadySubmitted)
	_, err = sess.Submit(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	got, ok := sess.Result()
	require.True(t, ok)
	assert.Equal(t, res, got)
}

func TestUnansweredQuestionsScoreZero(t *testing.T) {
	z, mcID, correctID, _ := buildQuiz(t)
	sess := NewAttemptSession(z, "student-1")
	require.NoError(t, sess.RecordAnswer(mcID, correctID))

	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Score, "true/false left unanswered contributes 0")
}

func TestScoreIsIdempotent(t *testing.T) {
	z, mcID, correctID, tfID := buildQuiz(t)
	answers := []Answer{
		{QuestionID: mcID, Value: correctID},
		{QuestionID: tfID, Value: true}, // wrong on purpose
	}
	ctx := context.Background()

	first, err := Score(ctx, z, answers)
	require.NoError(t, err)
	second, err := Score(ctx, z, answers)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 10.0, first)
}

func TestAttemptSnapshotIgnoresLaterEdits(t *testing.T) {
	s := NewMemoryStore("course-1")
	z, _ := s.CreateQuiz()
	mc, correctID := mcQuestion(t, 10)
	_, err := s.AddQuestion(z.ID, mc)
	require.NoError(t, err)

	snapshot, err := s.GetQuiz(z.ID)
	require.NoError(t, err)
	sess := NewAttemptSession(snapshot, "student-1")

	// edits after the attempt opened do not change what is being graded
	newPoints := 100.0
	_, err = s.UpdateQuestion(z.ID, mc.ID, QuestionUpdate{Points: &newPoints})
	require.NoError(t, err)

	require.NoError(t, sess.RecordAnswer(mc.ID, correctID))
	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Score)
}

func TestAttemptStore(t *testing.T) {
	z, _, _, _ := buildQuiz(t)
	store := NewAttemptStore()

	sess := store.Open(z, "student-1")
	got, ok := store.Get(sess.ID())
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, "student-1", got.UserID())

	store.Delete(sess.ID())
	_, ok = store.Get(sess.ID())
	assert.False(t, ok)
}
