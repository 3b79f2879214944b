package quiz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/courseflow/quiz-service/internal/grading"
)

var defaultGrader = grading.NewDefaultGrader()

// AttemptSession drives one respondent through one quiz: it captures answers,
// tracks the current question under one-question-at-a-time mode, and grades
// on submit. A session is single-writer; the mutex only guards against a host
// that routes the same session through concurrent handlers.
type AttemptSession struct {
	id     string
	userID string
	quiz   Quiz
	now    func() time.Time

	mu        sync.Mutex
	current   int
	answers   []Answer
	submitted bool
	result    Attempt
}

// NewAttemptSession opens a session over a snapshot of the quiz. Later store
// edits do not affect an attempt already in flight.
func NewAttemptSession(z Quiz, userID string) *AttemptSession {
	return NewAttemptSessionWithClock(z, userID, time.Now)
}

// NewAttemptSessionWithClock allows deterministic timestamps in tests.
func NewAttemptSessionWithClock(z Quiz, userID string, now func() time.Time) *AttemptSession {
	return &AttemptSession{
		id:     uuid.NewString(),
		userID: userID,
		quiz:   z.clone(),
		now:    now,
	}
}

func (s *AttemptSession) ID() string     { return s.id }
func (s *AttemptSession) UserID() string { return s.userID }

// Quiz returns the quiz snapshot this attempt runs against.
func (s *AttemptSession) Quiz() Quiz { return s.quiz.clone() }

func (s *AttemptSession) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Answers returns a copy of the answers recorded so far.
func (s *AttemptSession) Answers() []Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Answer(nil), s.answers...)
}

// CurrentIndex is the 0-based question cursor; it is only meaningful when the
// quiz is configured one-question-at-a-time.
func (s *AttemptSession) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentQuestion returns the question under the cursor, answer key stripped.
func (s *AttemptSession) CurrentQuestion() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.quiz.Questions) == 0 {
		return Question{}, false
	}
	stripped := s.quiz.WithoutAnswerKeys()
	return stripped.Questions[s.current], true
}

// RecordAnswer upserts an answer: it replaces an existing answer for the
// question or appends a new one. The value's type must match the question's
// type (choice id string, bool, or free text); mismatches fail fast with
// ErrAnswerType so host bugs are not masked as wrong answers.
func (s *AttemptSession) RecordAnswer(questionID string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return ErrAlreadySubmitted
	}
	i, ok := s.quiz.findQuestion(questionID)
	if !ok {
		return ErrQuestionNotFound
	}
	q := s.quiz.Questions[i]
	switch q.Type {
	case MultipleChoice, FillInBlank:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: question %s wants string, got %T", ErrAnswerType, questionID, value)
		}
	case TrueFalse:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: question %s wants bool, got %T", ErrAnswerType, questionID, value)
		}
	}
	for j := range s.answers {
		if s.answers[j].QuestionID == questionID {
			s.answers[j].Value = value
			return nil
		}
	}
	s.answers = append(s.answers, Answer{QuestionID: questionID, Value: value})
	return nil
}

// Next advances the cursor, clamped to the last question, and returns the new
// index. Navigating past the end is a no-op.
func (s *AttemptSession) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < len(s.quiz.Questions)-1 {
		s.current++
	}
	return s.current
}

// Prev moves the cursor back, clamped to 0, and returns the new index.
func (s *AttemptSession) Prev() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current > 0 {
		s.current--
	}
	return s.current
}

// Submit grades the recorded answers and freezes the session. Unanswered
// questions contribute 0; submission does not require every question to be
// answered. A second Submit fails with ErrAlreadySubmitted and can never
// change the recorded score.
func (s *AttemptSession) Submit(ctx context.Context) (Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return Attempt{}, ErrAlreadySubmitted
	}
	score, err := Score(ctx, s.quiz, s.answers)
	if err != nil {
		return Attempt{}, err
	}
	s.submitted = true
	s.result = Attempt{
		Answers:     append([]Answer(nil), s.answers...),
		Score:       score,
		SubmittedAt: s.now(),
	}
	return s.result, nil
}

// Result returns the graded attempt once submitted.
func (s *AttemptSession) Result() (Attempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.submitted {
		return Attempt{}, false
	}
	return s.result, true
}

// Score grades a (quiz, answers) pair without mutating either, so re-scoring
// the same pair always yields the same total.
func Score(ctx context.Context, z Quiz, answers []Answer) (float64, error) {
	byQuestion := make(map[string]any, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Value
	}
	total := 0.0
	for _, q := range z.Questions {
		resp, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		res, err := defaultGrader.Grade(ctx, q.gradingView(), resp)
		if err != nil {
			return 0, err
		}
		total += res.AutoPoints
	}
	return total, nil
}

// gradingView projects the question into the grading engine's key shape.
func (q Question) gradingView() grading.Q {
	gq := grading.Q{Type: string(q.Type), Points: q.Points}
	switch q.Type {
	case MultipleChoice:
		if id, ok := q.CorrectChoiceID(); ok {
			gq.AnswerKey = []string{id}
		}
	case TrueFalse:
		if q.TrueFalse != nil && q.TrueFalse.CorrectAnswer {
			gq.AnswerKey = []string{"true"}
		} else {
			gq.AnswerKey = []string{"false"}
		}
	case FillInBlank:
		if q.FillInBlank != nil {
			gq.AnswerKey = append([]string(nil), q.FillInBlank.PossibleAnswers...)
		}
	}
	return gq
}
