package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courseflow/quiz-service/internal/quiz"
)

// questionRequest is the authoring payload for a new question. It is run
// through the matching draft, so the emitted question carries the same
// normalization the in-process authoring engine applies (server-assigned
// choice ids, exactly one correct choice, blank answers filtered).
type questionRequest struct {
	Type   quiz.QuestionType `json:"type"`
	Title  string            `json:"title"`
	Points float64           `json:"points"`
	Prompt string            `json:"prompt"`

	Choices []struct {
		Text      string `json:"text"`
		IsCorrect bool   `json:"is_correct"`
	} `json:"choices,omitempty"`
	CorrectAnswer   *bool    `json:"correct_answer,omitempty"`
	PossibleAnswers []string `json:"possible_answers,omitempty"`
}

func (req questionRequest) build() (quiz.Question, error) {
	switch req.Type {
	case quiz.MultipleChoice:
		if len(req.Choices) < 2 {
			return quiz.Question{}, quiz.ErrInvalidQuestion
		}
		d := quiz.NewMultipleChoiceDraft()
		d.Title, d.Points, d.Prompt = req.Title, req.Points, req.Prompt
		ids := make([]string, 0, len(req.Choices))
		for i, c := range req.Choices {
			var id string
			if i < 2 {
				id = d.Choices()[i].ID
			} else {
				id = d.AddChoice().ID
			}
			if err := d.SetChoiceText(id, c.Text); err != nil {
				return quiz.Question{}, err
			}
			ids = append(ids, id)
		}
		for i, c := range req.Choices {
			if c.IsCorrect {
				if err := d.MarkCorrect(ids[i]); err != nil {
					return quiz.Question{}, err
				}
				break
			}
		}
		return d.Save()

	case quiz.TrueFalse:
		d := quiz.NewTrueFalseDraft()
		d.Title, d.Points, d.Prompt = req.Title, req.Points, req.Prompt
		if req.CorrectAnswer != nil {
			d.Correct = *req.CorrectAnswer
		}
		return d.Save()

	case quiz.FillInBlank:
		d := quiz.NewFillInBlankDraft()
		d.Title, d.Points, d.Prompt = req.Title, req.Points, req.Prompt
		for i, a := range req.PossibleAnswers {
			if i > 0 {
				d.AddAnswer()
			}
			if err := d.SetAnswer(i, a); err != nil {
				return quiz.Question{}, err
			}
		}
		return d.Save()
	}
	return quiz.Question{}, quiz.ErrInvalidQuestion
}

func AddQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q, err := req.build()
		if err != nil {
			writeError(w, err)
			return
		}
		z, err := store.AddQuestion(chi.URLParam(r, "quizID"), q)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, z)
	}
}

func UpdateQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd quiz.QuestionUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		z, err := store.UpdateQuestion(chi.URLParam(r, "quizID"), chi.URLParam(r, "questionID"), upd)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, z)
	}
}

func DeleteQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		z, err := store.DeleteQuestion(chi.URLParam(r, "quizID"), chi.URLParam(r, "questionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, z)
	}
}
