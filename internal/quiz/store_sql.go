package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLStore persists quizzes in a quizzes table (sqlite or postgres),
// course-scoped like MemoryStore. Questions and the option flags are stored
// as JSON columns; fields that list views filter on (title, dates, published,
// points) stay scalar. Question edits run in a transaction so the points
// recomputation is atomic with the edit that triggered it.
type SQLStore struct {
	db       *sql.DB
	courseID string
}

func NewSQLStore(db *sql.DB, courseID string) *SQLStore {
	return &SQLStore{db: db, courseID: courseID}
}

// quizOptions are the authoring flags persisted as one JSON column.
type quizOptions struct {
	ShuffleAnswers              bool               `json:"shuffle_answers"`
	TimeLimit                   int                `json:"time_limit"`
	MultipleAttempts            bool               `json:"multiple_attempts"`
	HowManyAttempts             int                `json:"how_many_attempts"`
	ShowCorrectAnswers          ShowCorrectAnswers `json:"show_correct_answers"`
	AccessCode                  string             `json:"access_code"`
	OneQuestionAtATime          bool               `json:"one_question_at_a_time"`
	WebcamRequired              bool               `json:"webcam_required"`
	LockQuestionsAfterAnswering bool               `json:"lock_questions_after_answering"`
}

func optionsOf(z Quiz) quizOptions {
	return quizOptions{
		ShuffleAnswers:              z.ShuffleAnswers,
		TimeLimit:                   z.TimeLimit,
		MultipleAttempts:            z.MultipleAttempts,
		HowManyAttempts:             z.HowManyAttempts,
		ShowCorrectAnswers:          z.ShowCorrectAnswers,
		AccessCode:                  z.AccessCode,
		OneQuestionAtATime:          z.OneQuestionAtATime,
		WebcamRequired:              z.WebcamRequired,
		LockQuestionsAfterAnswering: z.LockQuestionsAfterAnswering,
	}
}

func (o quizOptions) applyTo(z *Quiz) {
	z.ShuffleAnswers = o.ShuffleAnswers
	z.TimeLimit = o.TimeLimit
	z.MultipleAttempts = o.MultipleAttempts
	z.HowManyAttempts = o.HowManyAttempts
	z.ShowCorrectAnswers = o.ShowCorrectAnswers
	z.AccessCode = o.AccessCode
	z.OneQuestionAtATime = o.OneQuestionAtATime
	z.WebcamRequired = o.WebcamRequired
	z.LockQuestionsAfterAnswering = o.LockQuestionsAfterAnswering
}

func (s *SQLStore) CreateQuiz() (Quiz, error) {
	z := NewQuiz(uuid.NewString())
	qj, err := json.Marshal(z.Questions)
	if err != nil {
		return Quiz{}, err
	}
	oj, err := json.Marshal(optionsOf(z))
	if err != nil {
		return Quiz{}, err
	}
	_, err = s.db.Exec(`INSERT INTO quizzes
		(id,course_id,title,description,quiz_type,assignment_group,points,questions_json,options_json,due_date,available_date,until_date,published,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		z.ID, s.courseID, z.Title, z.Description, string(z.QuizType), string(z.AssignmentGroup),
		z.Points, string(qj), string(oj), z.DueDate, z.AvailableDate, z.UntilDate, z.Published,
		time.Now().UnixNano())
	if err != nil {
		return Quiz{}, err
	}
	return z, nil
}

func (s *SQLStore) GetQuiz(id string) (Quiz, error) {
	return s.get(s.db.QueryRow(`SELECT id,title,description,quiz_type,assignment_group,points,questions_json,options_json,due_date,available_date,until_date,published
		FROM quizzes WHERE id=$1 AND course_id=$2`, id, s.courseID))
}

func (s *SQLStore) ListQuizzes() ([]Quiz, error) {
	rows, err := s.db.Query(`SELECT id,title,description,quiz_type,assignment_group,points,questions_json,options_json,due_date,available_date,until_date,published
		FROM quizzes WHERE course_id=$1 ORDER BY created_at`, s.courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Quiz
	for rows.Next() {
		z, err := s.get(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLStore) get(row rowScanner) (Quiz, error) {
	var z Quiz
	var qt, ag, qjson, ojson string
	err := row.Scan(&z.ID, &z.Title, &z.Description, &qt, &ag, &z.Points, &qjson, &ojson,
		&z.DueDate, &z.AvailableDate, &z.UntilDate, &z.Published)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	z.QuizType = QuizType(qt)
	z.AssignmentGroup = AssignmentGroup(ag)
	if err := json.Unmarshal([]byte(qjson), &z.Questions); err != nil {
		return Quiz{}, fmt.Errorf("decode questions for quiz %s: %w", z.ID, err)
	}
	var opts quizOptions
	if err := json.Unmarshal([]byte(ojson), &opts); err != nil {
		return Quiz{}, fmt.Errorf("decode options for quiz %s: %w", z.ID, err)
	}
	opts.applyTo(&z)
	return z, nil
}

func (s *SQLStore) UpdateQuiz(id string, upd QuizUpdate) (Quiz, error) {
	return s.mutate(id, func(z *Quiz) error {
		upd.apply(z)
		return nil
	})
}

func (s *SQLStore) DeleteQuiz(id string) error {
	res, err := s.db.Exec(`DELETE FROM quizzes WHERE id=$1 AND course_id=$2`, id, s.courseID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (s *SQLStore) TogglePublish(id string) (Quiz, error) {
	return s.mutate(id, func(z *Quiz) error {
		z.Published = !z.Published
		return nil
	})
}

func (s *SQLStore) AddQuestion(quizID string, q Question) (Quiz, error) {
	if err := q.Validate(); err != nil {
		return Quiz{}, err
	}
	return s.mutate(quizID, func(z *Quiz) error {
		z.Questions = append(z.Questions, q)
		return nil
	})
}

func (s *SQLStore) UpdateQuestion(quizID, questionID string, upd QuestionUpdate) (Quiz, error) {
	return s.mutate(quizID, func(z *Quiz) error {
		i, ok := z.findQuestion(questionID)
		if !ok {
			return ErrQuestionNotFound
		}
		merged := z.Questions[i].clone()
		upd.apply(&merged)
		if err := merged.Validate(); err != nil {
			return err
		}
		z.Questions[i] = merged
		return nil
	})
}

func (s *SQLStore) DeleteQuestion(quizID, questionID string) (Quiz, error) {
	return s.mutate(quizID, func(z *Quiz) error {
		i, ok := z.findQuestion(questionID)
		if !ok {
			return ErrQuestionNotFound
		}
		z.Questions = append(z.Questions[:i], z.Questions[i+1:]...)
		return nil
	})
}

// mutate reads the quiz, applies fn, recomputes points and writes everything
// back inside one transaction.
func (s *SQLStore) mutate(id string, fn func(*Quiz) error) (Quiz, error) {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Quiz{}, err
	}
	defer tx.Rollback()

	z, err := s.get(tx.QueryRow(`SELECT id,title,description,quiz_type,assignment_group,points,questions_json,options_json,due_date,available_date,until_date,published
		FROM quizzes WHERE id=$1 AND course_id=$2`, id, s.courseID))
	if err != nil {
		return Quiz{}, err
	}
	if err := fn(&z); err != nil {
		return Quiz{}, err
	}
	z.Points = z.TotalPoints()

	qj, err := json.Marshal(z.Questions)
	if err != nil {
		return Quiz{}, err
	}
	oj, err := json.Marshal(optionsOf(z))
	if err != nil {
		return Quiz{}, err
	}
	_, err = tx.Exec(`UPDATE quizzes SET title=$1,description=$2,quiz_type=$3,assignment_group=$4,points=$5,questions_json=$6,options_json=$7,due_date=$8,available_date=$9,until_date=$10,published=$11
		WHERE id=$12 AND course_id=$13`,
		z.Title, z.Description, string(z.QuizType), string(z.AssignmentGroup), z.Points,
		string(qj), string(oj), z.DueDate, z.AvailableDate, z.UntilDate, z.Published,
		z.ID, s.courseID)
	if err != nil {
		return Quiz{}, err
	}
	if err := tx.Commit(); err != nil {
		return Quiz{}, err
	}
	return z, nil
}
