package quiz

import (
	"sync"

	"github.com/google/uuid"
)

// Store is the authoritative collection of quizzes for one course. Every
// question mutation recomputes the owning quiz's Points before it becomes
// visible, so readers never observe a quiz whose points disagree with its
// questions. Mutations on unknown ids fail with ErrQuizNotFound or
// ErrQuestionNotFound rather than silently doing nothing.
type Store interface {
	CreateQuiz() (Quiz, error)
	GetQuiz(id string) (Quiz, error)
	ListQuizzes() ([]Quiz, error)
	UpdateQuiz(id string, upd QuizUpdate) (Quiz, error)
	DeleteQuiz(id string) error
	TogglePublish(id string) (Quiz, error)
	AddQuestion(quizID string, q Question) (Quiz, error)
	UpdateQuestion(quizID, questionID string, upd QuestionUpdate) (Quiz, error)
	DeleteQuestion(quizID, questionID string) (Quiz, error)
}

// MemoryStore keeps quizzes in creation order, in memory. Zero value is not
// usable; construct with NewMemoryStore.
type MemoryStore struct {
	courseID string
	mu       sync.RWMutex
	quizzes  []Quiz
}

func NewMemoryStore(courseID string) *MemoryStore {
	return &MemoryStore{courseID: courseID}
}

// CourseID reports which course this store is scoped to.
func (m *MemoryStore) CourseID() string { return m.courseID }

func (m *MemoryStore) CreateQuiz() (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z := NewQuiz(uuid.NewString())
	m.quizzes = append(m.quizzes, z)
	return z.clone(), nil
}

func (m *MemoryStore) GetQuiz(id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.quizzes {
		if m.quizzes[i].ID == id {
			return m.quizzes[i].clone(), nil
		}
	}
	return Quiz{}, ErrQuizNotFound
}

func (m *MemoryStore) ListQuizzes() ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Quiz, len(m.quizzes))
	for i := range m.quizzes {
		out[i] = m.quizzes[i].clone()
	}
	return out, nil
}

func (m *MemoryStore) UpdateQuiz(id string, upd QuizUpdate) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, err := m.find(id)
	if err != nil {
		return Quiz{}, err
	}
	upd.apply(z)
	return z.clone(), nil
}

func (m *MemoryStore) DeleteQuiz(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.quizzes {
		if m.quizzes[i].ID == id {
			m.quizzes = append(m.quizzes[:i], m.quizzes[i+1:]...)
			return nil
		}
	}
	return ErrQuizNotFound
}

func (m *MemoryStore) TogglePublish(id string) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, err := m.find(id)
	if err != nil {
		return Quiz{}, err
	}
	z.Published = !z.Published
	return z.clone(), nil
}

func (m *MemoryStore) AddQuestion(quizID string, q Question) (Quiz, error) {
	if err := q.Validate(); err != nil {
		return Quiz{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	z, err := m.find(quizID)
	if err != nil {
		return Quiz{}, err
	}
	z.Questions = append(z.Questions, q.clone())
	z.Points = z.TotalPoints()
	return z.clone(), nil
}

func (m *MemoryStore) UpdateQuestion(quizID, questionID string, upd QuestionUpdate) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, err := m.find(quizID)
	if err != nil {
		return Quiz{}, err
	}
	i, ok := z.findQuestion(questionID)
	if !ok {
		return Quiz{}, ErrQuestionNotFound
	}
	merged := z.Questions[i].clone()
	upd.apply(&merged)
	if err := merged.Validate(); err != nil {
		return Quiz{}, err
	}
	z.Questions[i] = merged
	z.Points = z.TotalPoints()
	return z.clone(), nil
}

func (m *MemoryStore) DeleteQuestion(quizID, questionID string) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, err := m.find(quizID)
	if err != nil {
		return Quiz{}, err
	}
	i, ok := z.findQuestion(questionID)
	if !ok {
		return Quiz{}, ErrQuestionNotFound
	}
	z.Questions = append(z.Questions[:i], z.Questions[i+1:]...)
	z.Points = z.TotalPoints()
	return z.clone(), nil
}

// find returns a pointer into the backing slice; callers hold the lock.
func (m *MemoryStore) find(id string) (*Quiz, error) {
	for i := range m.quizzes {
		if m.quizzes[i].ID == id {
			return &m.quizzes[i], nil
		}
	}
	return nil, ErrQuizNotFound
}
