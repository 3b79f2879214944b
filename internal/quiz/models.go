package quiz

import "time"

// QuizType selects how (and whether) a quiz counts toward a grade.
type QuizType string

const (
	GradedQuiz     QuizType = "graded-quiz"
	PracticeQuiz   QuizType = "practice-quiz"
	GradedSurvey   QuizType = "graded-survey"
	UngradedSurvey QuizType = "ungraded-survey"
)

// AssignmentGroup tags which gradebook bucket a quiz belongs to.
type AssignmentGroup string

const (
	GroupQuizzes     AssignmentGroup = "quizzes"
	GroupExams       AssignmentGroup = "exams"
	GroupAssignments AssignmentGroup = "assignments"
	GroupProject     AssignmentGroup = "project"
)

// ShowCorrectAnswers is the policy for revealing answer keys to respondents.
type ShowCorrectAnswers string

const (
	ShowImmediately  ShowCorrectAnswers = "immediately"
	ShowAfterDueDate ShowCorrectAnswers = "after-due-date"
	ShowNever        ShowCorrectAnswers = "never"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	FillInBlank    QuestionType = "fill-in-blank"
)

// Choice is one selectable option of a multiple-choice question.
type Choice struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// MultipleChoicePayload holds the ordered choices; exactly one is correct.
type MultipleChoicePayload struct {
	Choices []Choice `json:"choices"`
}

type TrueFalsePayload struct {
	CorrectAnswer bool `json:"correct_answer"`
}

// FillInBlankPayload holds the accepted answers. Matching at grading time is
// case- and surrounding-whitespace-insensitive.
type FillInBlankPayload struct {
	PossibleAnswers []string `json:"possible_answers"`
}

// Question is one assessable item. Exactly one payload field is set, and it
// must agree with Type; Validate enforces this so a true-false question can
// never carry choices.
type Question struct {
	ID     string       `json:"id"`
	Type   QuestionType `json:"type"`
	Title  string       `json:"title"`
	Points float64      `json:"points"`
	Prompt string       `json:"prompt"`

	MultipleChoice *MultipleChoicePayload `json:"multiple_choice,omitempty"`
	TrueFalse      *TrueFalsePayload      `json:"true_false,omitempty"`
	FillInBlank    *FillInBlankPayload    `json:"fill_in_blank,omitempty"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if q.ID == "" {
		return ErrInvalidQuestion
	}
	if q.Points < 0 {
		return ErrInvalidQuestion
	}
	switch q.Type {
	case MultipleChoice:
		if q.MultipleChoice == nil || q.TrueFalse != nil || q.FillInBlank != nil {
			return ErrInvalidQuestion
		}
		if len(q.MultipleChoice.Choices) < 2 {
			return ErrInvalidQuestion
		}
		correct := 0
		for _, c := range q.MultipleChoice.Choices {
			if c.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return ErrInvalidQuestion
		}
	case TrueFalse:
		if q.TrueFalse == nil || q.MultipleChoice != nil || q.FillInBlank != nil {
			return ErrInvalidQuestion
		}
	case FillInBlank:
		if q.FillInBlank == nil || q.MultipleChoice != nil || q.TrueFalse != nil {
			return ErrInvalidQuestion
		}
		if len(q.FillInBlank.PossibleAnswers) < 1 {
			return ErrInvalidQuestion
		}
	default:
		return ErrInvalidQuestion
	}
	return nil
}

// CorrectChoiceID returns the id of the correct choice of a multiple-choice
// question, if any.
func (q Question) CorrectChoiceID() (string, bool) {
	if q.MultipleChoice == nil {
		return "", false
	}
	for _, c := range q.MultipleChoice.Choices {
		if c.IsCorrect {
			return c.ID, true
		}
	}
	return "", false
}

func (q Question) clone() Question {
	out := q
	if q.MultipleChoice != nil {
		p := MultipleChoicePayload{Choices: append([]Choice(nil), q.MultipleChoice.Choices...)}
		out.MultipleChoice = &p
	}
	if q.TrueFalse != nil {
		p := *q.TrueFalse
		out.TrueFalse = &p
	}
	if q.FillInBlank != nil {
		p := FillInBlankPayload{PossibleAnswers: append([]string(nil), q.FillInBlank.PossibleAnswers...)}
		out.FillInBlank = &p
	}
	return out
}

// Quiz is one assessment within a course. Points is derived from the
// questions and never set directly.
type Quiz struct {
	ID                          string             `json:"id"`
	Title                       string             `json:"title"`
	Description                 string             `json:"description"`
	QuizType                    QuizType           `json:"quiz_type"`
	AssignmentGroup             AssignmentGroup    `json:"assignment_group"`
	Points                      float64            `json:"points"`
	Questions                   []Question         `json:"questions"`
	ShuffleAnswers              bool               `json:"shuffle_answers"`
	TimeLimit                   int                `json:"time_limit"` // minutes, 0 = unlimited
	MultipleAttempts            bool               `json:"multiple_attempts"`
	HowManyAttempts             int                `json:"how_many_attempts"`
	ShowCorrectAnswers          ShowCorrectAnswers `json:"show_correct_answers"`
	AccessCode                  string             `json:"access_code"`
	OneQuestionAtATime          bool               `json:"one_question_at_a_time"`
	WebcamRequired              bool               `json:"webcam_required"`
	LockQuestionsAfterAnswering bool               `json:"lock_questions_after_answering"`
	DueDate                     string             `json:"due_date"`       // RFC 3339, "" = unset
	AvailableDate               string             `json:"available_date"` // RFC 3339, "" = unset
	UntilDate                   string             `json:"until_date"`     // RFC 3339, "" = unset
	Published                   bool               `json:"published"`
}

// NewQuiz returns a quiz with the documented defaults and the given identity.
func NewQuiz(id string) Quiz {
	return Quiz{
		ID:                 id,
		Title:              "Unnamed Quiz",
		QuizType:           GradedQuiz,
		AssignmentGroup:    GroupQuizzes,
		Questions:          []Question{},
		ShuffleAnswers:     true,
		TimeLimit:          20,
		HowManyAttempts:    1,
		ShowCorrectAnswers: ShowImmediately,
		OneQuestionAtATime: true,
	}
}

// TotalPoints sums the question point values.
func (z Quiz) TotalPoints() float64 {
	sum := 0.0
	for _, q := range z.Questions {
		sum += q.Points
	}
	return sum
}

// WithoutAnswerKeys strips per-question answer keys for respondent-facing
// reads. Choice ordering and ids are preserved so answers can still be
// recorded against them.
func (z Quiz) WithoutAnswerKeys() Quiz {
	out := z.clone()
	for i := range out.Questions {
		q := &out.Questions[i]
		if q.MultipleChoice != nil {
			for j := range q.MultipleChoice.Choices {
				q.MultipleChoice.Choices[j].IsCorrect = false
			}
		}
		q.TrueFalse = nil
		q.FillInBlank = nil
	}
	return out
}

func (z Quiz) clone() Quiz {
	out := z
	out.Questions = make([]Question, len(z.Questions))
	for i, q := range z.Questions {
		out.Questions[i] = q.clone()
	}
	return out
}

func (z Quiz) findQuestion(questionID string) (int, bool) {
	for i := range z.Questions {
		if z.Questions[i].ID == questionID {
			return i, true
		}
	}
	return -1, false
}

// Answer is one respondent's answer to one question. Value is a choice id
// (string), a bool, or free text (string) depending on the question type.
type Answer struct {
	QuestionID string `json:"question_id"`
	Value      any    `json:"value"`
}

// Attempt is the immutable result of a completed submission.
type Attempt struct {
	Answers     []Answer  `json:"answers"`
	Score       float64   `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// QuizUpdate is a partial update; nil fields are left unchanged. Points is
// absent on purpose: it is derived from the questions.
type QuizUpdate struct {
	Title                       *string             `json:"title,omitempty"`
	Description                 *string             `json:"description,omitempty"`
	QuizType                    *QuizType           `json:"quiz_type,omitempty"`
	AssignmentGroup             *AssignmentGroup    `json:"assignment_group,omitempty"`
	ShuffleAnswers              *bool               `json:"shuffle_answers,omitempty"`
	TimeLimit                   *int                `json:"time_limit,omitempty"`
	MultipleAttempts            *bool               `json:"multiple_attempts,omitempty"`
	HowManyAttempts             *int                `json:"how_many_attempts,omitempty"`
	ShowCorrectAnswers          *ShowCorrectAnswers `json:"show_correct_answers,omitempty"`
	AccessCode                  *string             `json:"access_code,omitempty"`
	OneQuestionAtATime          *bool               `json:"one_question_at_a_time,omitempty"`
	WebcamRequired              *bool               `json:"webcam_required,omitempty"`
	LockQuestionsAfterAnswering *bool               `json:"lock_questions_after_answering,omitempty"`
	DueDate                     *string             `json:"due_date,omitempty"`
	AvailableDate               *string             `json:"available_date,omitempty"`
	UntilDate                   *string             `json:"until_date,omitempty"`
	Published                   *bool               `json:"published,omitempty"`
}

func (u QuizUpdate) apply(z *Quiz) {
	if u.Title != nil {
		z.Title = *u.Title
	}
	if u.Description != nil {
		z.Description = *u.Description
	}
	if u.QuizType != nil {
		z.QuizType = *u.QuizType
	}
	if u.AssignmentGroup != nil {
		z.AssignmentGroup = *u.AssignmentGroup
	}
	if u.ShuffleAnswers != nil {
		z.ShuffleAnswers = *u.ShuffleAnswers
	}
	if u.TimeLimit != nil {
		z.TimeLimit = *u.TimeLimit
	}
	if u.MultipleAttempts != nil {
		z.MultipleAttempts = *u.MultipleAttempts
	}
	if u.HowManyAttempts != nil {
		z.HowManyAttempts = *u.HowManyAttempts
	}
	if u.ShowCorrectAnswers != nil {
		z.ShowCorrectAnswers = *u.ShowCorrectAnswers
	}
	if u.AccessCode != nil {
		z.AccessCode = *u.AccessCode
	}
	if u.OneQuestionAtATime != nil {
		z.OneQuestionAtATime = *u.OneQuestionAtATime
	}
	if u.WebcamRequired != nil {
		z.WebcamRequired = *u.WebcamRequired
	}
	if u.LockQuestionsAfterAnswering != nil {
		z.LockQuestionsAfterAnswering = *u.LockQuestionsAfterAnswering
	}
	if u.DueDate != nil {
		z.DueDate = *u.DueDate
	}
	if u.AvailableDate != nil {
		z.AvailableDate = *u.AvailableDate
	}
	if u.UntilDate != nil {
		z.UntilDate = *u.UntilDate
	}
	if u.Published != nil {
		z.Published = *u.Published
	}
}

// QuestionUpdate is a partial question update; nil fields are left unchanged.
// Supplying a payload replaces that payload wholesale. The merged question is
// re-validated, so an update can never leave a question without exactly one
// correct choice or with an empty answer set.
type QuestionUpdate struct {
	Type           *QuestionType          `json:"type,omitempty"`
	Title          *string                `json:"title,omitempty"`
	Points         *float64               `json:"points,omitempty"`
	Prompt         *string                `json:"prompt,omitempty"`
	MultipleChoice *MultipleChoicePayload `json:"multiple_choice,omitempty"`
	TrueFalse      *TrueFalsePayload      `json:"true_false,omitempty"`
	FillInBlank    *FillInBlankPayload    `json:"fill_in_blank,omitempty"`
}

func (u QuestionUpdate) apply(q *Question) {
	if u.Type != nil {
		q.Type = *u.Type
	}
	if u.Title != nil {
		q.Title = *u.Title
	}
	if u.Points != nil {
		q.Points = *u.Points
	}
	if u.Prompt != nil {
		q.Prompt = *u.Prompt
	}
	if u.MultipleChoice != nil {
		q.MultipleChoice = u.MultipleChoice
		q.TrueFalse, q.FillInBlank = nil, nil
	}
	if u.TrueFalse != nil {
		q.TrueFalse = u.TrueFalse
		q.MultipleChoice, q.FillInBlank = nil, nil
	}
	if u.FillInBlank != nil {
		q.FillInBlank = u.FillInBlank
		q.MultipleChoice, q.TrueFalse = nil, nil
	}
}
