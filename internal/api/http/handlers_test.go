package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/courseflow/quiz-service/internal/auth/middleware"
	"github.com/courseflow/quiz-service/internal/quiz"
	"github.com/courseflow/quiz-service/internal/rbac"
)

// testRouter mirrors the production route table but takes identity from
// request headers instead of a JWT.
func testRouter(store quiz.Store, attempts *quiz.AttemptStore) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := rbac.WithRole(req.Context(), req.Header.Get("X-Role"))
			ctx = authmw.WithSubject(ctx, req.Header.Get("X-Subject"))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	r.With(rbac.Require("quiz:create")).Post("/quizzes", CreateQuizHandler(store))
	r.With(rbac.Require("quiz:edit")).Patch("/quizzes/{quizID}", UpdateQuizHandler(store))
	r.With(rbac.Require("quiz:delete")).Delete("/quizzes/{quizID}", DeleteQuizHandler(store))
	r.With(rbac.Require("quiz:publish")).Post("/quizzes/{quizID}/publish", TogglePublishHandler(store))
	r.With(rbac.Require("quiz:edit")).Post("/quizzes/{quizID}/questions", AddQuestionHandler(store))
	r.With(rbac.Require("quiz:edit")).Patch("/quizzes/{quizID}/questions/{questionID}", UpdateQuestionHandler(store))
	r.With(rbac.Require("quiz:edit")).Delete("/quizzes/{quizID}/questions/{questionID}", DeleteQuestionHandler(store))
	r.With(rbac.Require("quiz:view")).Get("/quizzes", ListQuizzesHandler(store))
	r.With(rbac.Require("quiz:view")).Get("/quizzes/{quizID}", GetQuizHandler(store))
	r.With(rbac.Require("quiz:view")).Get("/quizzes/{quizID}/availability", AvailabilityHandler(store))
	r.With(rbac.Require("attempt:create")).Post("/quizzes/{quizID}/attempts", CreateAttemptHandler(store, attempts))
	r.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).Get("/attempts/{attemptID}", GetAttemptHandler(attempts))
	r.With(rbac.Require("attempt:save")).Post("/attempts/{attemptID}/answers", RecordAnswerHandler(attempts))
	r.With(rbac.Require("attempt:save")).Post("/attempts/{attemptID}/navigate", NavigateHandler(attempts))
	r.With(rbac.Require("attempt:submit")).Post("/attempts/{attemptID}/submit", SubmitAttemptHandler(attempts))
	return r
}

func do(t *testing.T, h http.Handler, method, path, role string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Role", role)
	req.Header.Set("X-Subject", role+"-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// seedQuiz drives the authoring endpoints as an instructor: one 10-point
// multiple-choice question (second choice correct) and one 5-point
// true/false whose correct answer is false.
func seedQuiz(t *testing.T, h http.Handler) quiz.Quiz {
	t.Helper()
	rec := do(t, h, "POST", "/quizzes", "instructor", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	z := decode[quiz.Quiz](t, rec)

	rec = do(t, h, "POST", "/quizzes/"+z.ID+"/questions", "instructor", map[string]any{
		"type": "multiple-choice", "title": "Capital", "points": 10, "prompt": "Capital of France?",
		"choices": []map[string]any{
			{"text": "London"},
			{"text": "Paris", "is_correct": true},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, "POST", "/quizzes/"+z.ID+"/questions", "instructor", map[string]any{
		"type": "true-false", "title": "Geography", "points": 5, "prompt": "The Nile is in Europe.",
		"correct_answer": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[quiz.Quiz](t, rec)
}

func TestAuthoringFlow(t *testing.T) {
	h := testRouter(quiz.NewMemoryStore("course-1"), quiz.NewAttemptStore())

	z := seedQuiz(t, h)
	assert.Equal(t, 15.0, z.Points)
	require.Len(t, z.Questions, 2)

	rec := do(t, h, "PATCH", "/quizzes/"+z.ID, "instructor", map[string]any{"title": "Midterm"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Midterm", decode[quiz.Quiz](t, rec).Title)

	rec = do(t, h, "POST", "/quizzes/"+z.ID+"/publish", "instructor", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[quiz.Quiz](t, rec).Published)

	rec = do(t, h, "DELETE", "/quizzes/"+z.ID+"/questions/"+z.Questions[1].ID, "instructor", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10.0, decode[quiz.Quiz](t, rec).Points)
}

func TestStudentCannotAuthor(t *testing.T) {
	h := testRouter(quiz.NewMemoryStore("course-1"), quiz.NewAttemptStore())

	assert.Equal(t, http.StatusForbidden, do(t, h, "POST", "/quizzes", "student", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, "POST", "/quizzes", "", nil).Code)
}

func TestStudentViewIsFiltered(t *testing.T) {
	h := testRouter(quiz.NewMemoryStore("course-1"), quiz.NewAttemptStore())
	z := seedQuiz(t, h)

	// unpublished quizzes are hidden from the list
	rec := do(t, h, "GET", "/quizzes", "student", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]quiz.Quiz](t, rec))

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/quizzes/"+z.ID+"/publish", "instructor", nil).Code)

	rec = do(t, h, "GET", "/quizzes/"+z.ID, "student", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[quiz.Quiz](t, rec)
	require.Len(t, got.Questions, 2)
	_, hasKey := got.Questions[0].CorrectChoiceID()
	assert.False(t, hasKey, "answer keys are stripped for students")
	assert.Len(t, got.Questions[0].MultipleChoice.Choices, 2, "choices themselves survive")
	assert.Nil(t, got.Questions[1].TrueFalse)

	// the instructor still sees the key
	rec = do(t, h, "GET", "/quizzes/"+z.ID, "instructor", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, hasKey = decode[quiz.Quiz](t, rec).Questions[0].CorrectChoiceID()
	assert.True(t, hasKey)
}

func TestAttemptFlow(t *testing.T) {
	h := testRouter(quiz.NewMemoryStore("course-1"), quiz.NewAttemptStore())
	z := seedQuiz(t, h)
	require.Equal(t, http.StatusOK, do(t, h, "POST", "/quizzes/"+z.ID+"/publish", "instructor", nil).Code)

	correctID, ok := z.Questions[0].CorrectChoiceID()
	require.True(t, ok)

	rec := do(t, h, "POST", "/quizzes/"+z.ID+"/attempts", "student", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	att := decode[attemptView](t, rec)
	assert.Equal(t, z.ID, att.QuizID)
	assert.Equal(t, "student-1", att.UserID)
	assert.Equal(t, 0, att.CurrentIndex)

	rec = do(t, h, "POST", "/attempts/"+att.ID+"/answers", "student",
		quiz.Answer{QuestionID: z.Questions[0].ID, Value: correctID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "POST", "/attempts/"+att.ID+"/navigate", "student", map[string]string{"direction": "next"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[attemptView](t, rec).CurrentIndex)

	rec = do(t, h, "POST", "/attempts/"+att.ID+"/answers", "student",
		quiz.Answer{QuestionID: z.Questions[1].ID, Value: false})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "POST", "/attempts/"+att.ID+"/submit", "student", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[quiz.Attempt](t, rec)
	assert.Equal(t, 15.0, result.Score)

	// submitting twice is a conflict, and the frozen attempt stays readable
	assert.Equal(t, http.StatusConflict, do(t, h, "POST", "/attempts/"+att.ID+"/submit", "student", nil).Code)

	rec = do(t, h, "GET", "/attempts/"+att.ID, "student", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	final := decode[attemptView](t, rec)
	assert.True(t, final.Submitted)
	require.NotNil(t, final.Result)
	assert.Equal(t, 15.0, final.Result.Score)
}

func TestAttemptRejectsBadAnswerType(t *testing.T) {
	h := testRouter(quiz.NewMemoryStore("course-1"), quiz.NewAttemptStore())
	z := seedQuiz(t, h)
	require.Equal(t, http.StatusOK, do(t, h, "POST", "/quizzes/"+z.ID+"/publish", "instructor", nil).Code)

	att := decode[attemptView](t, do(t, h, "POST", "/quizzes/"+z.ID+"/attempts", "student", nil))

	rec := do(t, h, "POST", "/attempts/"+att.ID+"/answers", "student",
		quiz.Answer{QuestionID: z.Questions[1].ID, Value: "false"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "POST", "/attempts/"+att.ID+"/navigate", "student", map[string]string{"direction": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttemptBlockedOutsideWindow(t *testing.T) {
	h := testRouter(quiz.NewMemoryStore("course-1"), quiz.NewAttemptStore())
	z := seedQuiz(t, h)
	require.Equal(t, http.StatusOK, do(t, h, "POST", "/quizzes/"+z.ID+"/publish", "instructor", nil).Code)

	rec := do(t, h, "PATCH", "/quizzes/"+z.ID, "instructor", map[string]any{"available_date": "2999-01-01"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "POST", "/quizzes/"+z.ID+"/attempts", "student", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, quiz.NotYetAvailable, decode[quiz.Availability](t, rec).State)

	rec = do(t, h, "GET", "/quizzes/"+z.ID+"/availability", "student", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, quiz.NotYetAvailable, decode[quiz.Availability](t, rec).State)
}

func TestAttemptOnUnpublishedQuizForbidden(t *testing.T) {
	h := testRouter(quiz.NewMemoryStore("course-1"), quiz.NewAttemptStore())
	z := seedQuiz(t, h)

	assert.Equal(t, http.StatusForbidden, do(t, h, "POST", "/quizzes/"+z.ID+"/attempts", "student", nil).Code)
}

func TestUnknownIDsAre404(t *testing.T) {
	h := testRouter(quiz.NewMemoryStore("course-1"), quiz.NewAttemptStore())

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/quizzes/ghost", "instructor", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "PATCH", "/quizzes/ghost", "instructor", map[string]any{"title": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "DELETE", "/quizzes/ghost", "instructor", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/attempts/ghost", "student", nil).Code)
}

func TestQuestionRequestValidation(t *testing.T) {
	h := testRouter(quiz.NewMemoryStore("course-1"), quiz.NewAttemptStore())
	z := seedQuiz(t, h)

	// one choice is below the floor
	rec := do(t, h, "POST", "/quizzes/"+z.ID+"/questions", "instructor", map[string]any{
		"type": "multiple-choice", "title": "Bad", "points": 1,
		"choices": []map[string]any{{"text": "only one", "is_correct": true}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// fill-in-blank with only blank answers
	rec = do(t, h, "POST", "/quizzes/"+z.ID+"/questions", "instructor", map[string]any{
		"type": "fill-in-blank", "title": "Bad", "points": 1,
		"possible_answers": []string{"", "   "},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "POST", "/quizzes/"+z.ID+"/questions", "instructor", map[string]any{
		"type": "fill-in-blank", "title": "Capital", "points": 2, "prompt": "Capital of France?",
		"possible_answers": []string{"Paris", " paris "},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[quiz.Quiz](t, rec)
	require.Len(t, got.Questions, 3)
	assert.Equal(t, 17.0, got.Points)
}
