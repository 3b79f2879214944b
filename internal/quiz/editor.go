package quiz

import (
	"strings"

	"github.com/google/uuid"
)

// Authoring drafts. A draft accumulates edits in memory and emits a validated
// Question on Save; cancelling an edit is simply dropping the draft. The
// caller persists the saved question via Store.AddQuestion/UpdateQuestion.
//
// Constraint floors (minimum 2 choices, minimum 1 answer slot) are enforced
// by the mutating methods themselves rather than left to a UI, so a host
// cannot drive a draft into an invalid shape.

// MultipleChoiceDraft edits a multiple-choice question.
type MultipleChoiceDraft struct {
	Title  string
	Points float64
	Prompt string

	id      string
	choices []Choice
}

// NewMultipleChoiceDraft starts a fresh draft seeded with two empty choices,
// the first of which is correct.
func NewMultipleChoiceDraft() *MultipleChoiceDraft {
	return &MultipleChoiceDraft{
		id: uuid.NewString(),
		choices: []Choice{
			{ID: uuid.NewString(), IsCorrect: true},
			{ID: uuid.NewString()},
		},
	}
}

// EditMultipleChoice starts a draft from an existing question.
func EditMultipleChoice(q Question) (*MultipleChoiceDraft, error) {
	if q.Type != MultipleChoice || q.MultipleChoice == nil {
		return nil, ErrInvalidQuestion
	}
	return &MultipleChoiceDraft{
		Title:   q.Title,
		Points:  q.Points,
		Prompt:  q.Prompt,
		id:      q.ID,
		choices: append([]Choice(nil), q.MultipleChoice.Choices...),
	}, nil
}

// Choices returns a copy of the current choice list.
func (d *MultipleChoiceDraft) Choices() []Choice {
	return append([]Choice(nil), d.choices...)
}

// AddChoice appends a new, initially-incorrect choice and returns it.
func (d *MultipleChoiceDraft) AddChoice() Choice {
	c := Choice{ID: uuid.NewString()}
	d.choices = append(d.choices, c)
	return c
}

// RemoveChoice deletes a choice. Removing at the 2-choice floor is rejected.
func (d *MultipleChoiceDraft) RemoveChoice(id string) error {
	if len(d.choices) <= 2 {
		return ErrChoiceFloor
	}
	for i := range d.choices {
		if d.choices[i].ID == id {
			wasCorrect := d.choices[i].IsCorrect
			d.choices = append(d.choices[:i], d.choices[i+1:]...)
			if wasCorrect {
				d.choices[0].IsCorrect = true
			}
			return nil
		}
	}
	return ErrChoiceNotFound
}

func (d *MultipleChoiceDraft) SetChoiceText(id, text string) error {
	for i := range d.choices {
		if d.choices[i].ID == id {
			d.choices[i].Text = text
			return nil
		}
	}
	return ErrChoiceNotFound
}

// MarkCorrect marks one choice correct and clears the flag on all others
// (radio-button semantics).
func (d *MultipleChoiceDraft) MarkCorrect(id string) error {
	found := false
	for i := range d.choices {
		if d.choices[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return ErrChoiceNotFound
	}
	for i := range d.choices {
		d.choices[i].IsCorrect = d.choices[i].ID == id
	}
	return nil
}

func (d *MultipleChoiceDraft) Save() (Question, error) {
	q := Question{
		ID:             d.id,
		Type:           MultipleChoice,
		Title:          d.Title,
		Points:         d.Points,
		Prompt:         d.Prompt,
		MultipleChoice: &MultipleChoicePayload{Choices: append([]Choice(nil), d.choices...)},
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// TrueFalseDraft edits a true/false question. Correct defaults to true.
type TrueFalseDraft struct {
	Title   string
	Points  float64
	Prompt  string
	Correct bool

	id string
}

func NewTrueFalseDraft() *TrueFalseDraft {
	return &TrueFalseDraft{id: uuid.NewString(), Correct: true}
}

func EditTrueFalse(q Question) (*TrueFalseDraft, error) {
	if q.Type != TrueFalse || q.TrueFalse == nil {
		return nil, ErrInvalidQuestion
	}
	return &TrueFalseDraft{
		Title:   q.Title,
		Points:  q.Points,
		Prompt:  q.Prompt,
		Correct: q.TrueFalse.CorrectAnswer,
		id:      q.ID,
	}, nil
}

func (d *TrueFalseDraft) Save() (Question, error) {
	q := Question{
		ID:        d.id,
		Type:      TrueFalse,
		Title:     d.Title,
		Points:    d.Points,
		Prompt:    d.Prompt,
		TrueFalse: &TrueFalsePayload{CorrectAnswer: d.Correct},
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// FillInBlankDraft edits a fill-in-blank question.
type FillInBlankDraft struct {
	Title  string
	Points float64
	Prompt string

	id      string
	answers []string
}

// NewFillInBlankDraft starts a fresh draft with a single empty answer slot.
func NewFillInBlankDraft() *FillInBlankDraft {
	return &FillInBlankDraft{id: uuid.NewString(), answers: []string{""}}
}

func EditFillInBlank(q Question) (*FillInBlankDraft, error) {
	if q.Type != FillInBlank || q.FillInBlank == nil {
		return nil, ErrInvalidQuestion
	}
	return &FillInBlankDraft{
		Title:   q.Title,
		Points:  q.Points,
		Prompt:  q.Prompt,
		id:      q.ID,
		answers: append([]string(nil), q.FillInBlank.PossibleAnswers...),
	}, nil
}

// Answers returns a copy of the current answer slots, blanks included.
func (d *FillInBlankDraft) Answers() []string {
	return append([]string(nil), d.answers...)
}

// AddAnswer appends an empty answer slot.
func (d *FillInBlankDraft) AddAnswer() {
	d.answers = append(d.answers, "")
}

// RemoveAnswer deletes the slot at index i. Removing the last slot is rejected.
func (d *FillInBlankDraft) RemoveAnswer(i int) error {
	if len(d.answers) <= 1 {
		return ErrAnswerFloor
	}
	if i < 0 || i >= len(d.answers) {
		return ErrAnswerFloor
	}
	d.answers = append(d.answers[:i], d.answers[i+1:]...)
	return nil
}

func (d *FillInBlankDraft) SetAnswer(i int, v string) error {
	if i < 0 || i >= len(d.answers) {
		return ErrAnswerFloor
	}
	d.answers[i] = v
	return nil
}

// Save filters blank answers out before emitting. A draft whose slots are all
// blank cannot be saved; every question must keep at least one real answer.
func (d *FillInBlankDraft) Save() (Question, error) {
	kept := make([]string, 0, len(d.answers))
	for _, a := range d.answers {
		if strings.TrimSpace(a) != "" {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		return Question{}, ErrNoAnswers
	}
	q := Question{
		ID:          d.id,
		Type:        FillInBlank,
		Title:       d.Title,
		Points:      d.Points,
		Prompt:      d.Prompt,
		FillInBlank: &FillInBlankPayload{PossibleAnswers: kept},
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}
