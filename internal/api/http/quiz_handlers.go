package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/courseflow/quiz-service/internal/quiz"
	"github.com/courseflow/quiz-service/internal/rbac"
)

// canSeeAnswerKeys reports whether the requesting role may read answer keys.
func canSeeAnswerKeys(r *http.Request) bool {
	return rbac.Has(rbac.RoleFromContext(r.Context()), "quiz:edit")
}

func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, err := store.CreateQuiz()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, z)
	}
}

func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListQuizzes()
		if err != nil {
			writeError(w, err)
			return
		}
		if !canSeeAnswerKeys(r) {
			// Students see only published quizzes, without keys.
			out := make([]quiz.Quiz, 0, len(list))
			for _, z := range list {
				if z.Published {
					out = append(out, z.WithoutAnswerKeys())
				}
			}
			list = out
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, err := store.GetQuiz(chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !canSeeAnswerKeys(r) {
			z = z.WithoutAnswerKeys()
		}
		writeJSON(w, http.StatusOK, z)
	}
}

func UpdateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd quiz.QuizUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		z, err := store.UpdateQuiz(chi.URLParam(r, "quizID"), upd)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, z)
	}
}

func DeleteQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuiz(chi.URLParam(r, "quizID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func TogglePublishHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, err := store.TogglePublish(chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, z)
	}
}

func AvailabilityHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, err := store.GetQuiz(chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, z.AvailabilityAt(time.Now()))
	}
}
