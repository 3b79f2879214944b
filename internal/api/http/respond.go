package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/courseflow/quiz-service/internal/grading"
	"github.com/courseflow/quiz-service/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses: missing ids are 404,
// double submission is a conflict, constraint and type violations are 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound),
		errors.Is(err, quiz.ErrQuestionNotFound),
		errors.Is(err, quiz.ErrChoiceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		status = http.StatusConflict
	case errors.Is(err, quiz.ErrChoiceFloor),
		errors.Is(err, quiz.ErrAnswerFloor),
		errors.Is(err, quiz.ErrNoAnswers),
		errors.Is(err, quiz.ErrInvalidQuestion),
		errors.Is(err, quiz.ErrAnswerType),
		errors.Is(err, grading.ErrResponseType):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
