package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/courseflow/quiz-service/internal/auth/middleware"
	"github.com/courseflow/quiz-service/internal/quiz"
)

// attemptView is the wire shape of a live attempt session.
type attemptView struct {
	ID           string        `json:"id"`
	QuizID       string        `json:"quiz_id"`
	UserID       string        `json:"user_id"`
	CurrentIndex int           `json:"current_index"`
	Answers      []quiz.Answer `json:"answers"`
	Submitted    bool          `json:"submitted"`
	Result       *quiz.Attempt `json:"result,omitempty"`
}

func viewOf(s *quiz.AttemptSession) attemptView {
	v := attemptView{
		ID:           s.ID(),
		QuizID:       s.Quiz().ID,
		UserID:       s.UserID(),
		CurrentIndex: s.CurrentIndex(),
		Answers:      s.Answers(),
		Submitted:    s.Submitted(),
	}
	if res, ok := s.Result(); ok {
		v.Result = &res
	}
	return v
}

// CreateAttemptHandler opens an attempt session over the quiz as it stands.
// Unpublished or closed quizzes cannot be attempted.
func CreateAttemptHandler(store quiz.Store, attempts *quiz.AttemptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, err := store.GetQuiz(chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !z.Published && !canSeeAnswerKeys(r) {
			http.Error(w, "quiz not published", http.StatusForbidden)
			return
		}
		if av := z.AvailabilityAt(time.Now()); av.State != quiz.Available {
			writeJSON(w, http.StatusForbidden, av)
			return
		}
		sess := attempts.Open(z, authmw.SubjectFromContext(r.Context()))
		writeJSON(w, http.StatusCreated, viewOf(sess))
	}
}

func GetAttemptHandler(attempts *quiz.AttemptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := attempts.Get(chi.URLParam(r, "attemptID"))
		if !ok {
			http.Error(w, "attempt not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(sess))
	}
}

func RecordAnswerHandler(attempts *quiz.AttemptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := attempts.Get(chi.URLParam(r, "attemptID"))
		if !ok {
			http.Error(w, "attempt not found", http.StatusNotFound)
			return
		}
		var req quiz.Answer
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := sess.RecordAnswer(req.QuestionID, req.Value); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(sess))
	}
}

func NavigateHandler(attempts *quiz.AttemptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := attempts.Get(chi.URLParam(r, "attemptID"))
		if !ok {
			http.Error(w, "attempt not found", http.StatusNotFound)
			return
		}
		var req struct {
			Direction string `json:"direction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		switch req.Direction {
		case "next":
			sess.Next()
		case "previous":
			sess.Prev()
		default:
			http.Error(w, "direction must be next or previous", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(sess))
	}
}

func SubmitAttemptHandler(attempts *quiz.AttemptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := attempts.Get(chi.URLParam(r, "attemptID"))
		if !ok {
			http.Error(w, "attempt not found", http.StatusNotFound)
			return
		}
		result, err := sess.Submit(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
