package quiz

import "errors"

var (
	// ErrQuizNotFound is returned when a quiz id does not exist in the store.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound is returned when a question id does not exist on the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrChoiceNotFound is returned when a choice id does not exist on a draft.
	ErrChoiceNotFound = errors.New("choice not found")
	// ErrInvalidQuestion indicates a question violates its type's structural invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrChoiceFloor rejects removing a choice when only two remain.
	ErrChoiceFloor = errors.New("multiple-choice questions need at least 2 choices")
	// ErrAnswerFloor rejects removing the last possible answer.
	ErrAnswerFloor = errors.New("fill-in-blank questions need at least 1 answer slot")
	// ErrNoAnswers rejects saving a fill-in-blank question whose answers are all blank.
	ErrNoAnswers = errors.New("fill-in-blank questions need at least 1 non-blank answer")
	// ErrAlreadySubmitted rejects answer mutation or re-submission of a graded attempt.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrAnswerType indicates the answer value type does not match the question type.
	ErrAnswerType = errors.New("answer type does not match question type")
)
