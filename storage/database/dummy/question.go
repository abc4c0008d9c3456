package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

var (
	errUnknownCourse  = errors.New("course not found")
	errUnknownLesson  = errors.New("lesson not found")
	errLessonMismatch = errors.New("lesson does not belong to this course")
)

type questionBackend struct {
	db *DB
}

var _ question.Backend = (*questionBackend)(nil) // interface compliance check

func NewQuestionBackend(db *DB) question.Backend {
	return &questionBackend{db: db}
}

// AddCourse registers a course owned by ownerID.
func (db *DB) AddCourse(ownerID, title string) question.Option {
	db.course.Lock()
	defer db.course.Unlock()

	opt := question.Option{ID: uuid.New().String(), Title: title}
	db.course.table[opt.ID] = &course{Option: opt, ownerID: ownerID}
	return opt
}

// AddLesson registers a lesson of courseID.
func (db *DB) AddLesson(courseID, title string) question.Option {
	db.lesson.Lock()
	defer db.lesson.Unlock()

	opt := question.Option{ID: uuid.New().String(), Title: title}
	db.lesson.table[opt.ID] = &lesson{Option: opt, courseID: courseID}
	return opt
}

// Questions returns all stored questions, oldest first.
func (db *DB) Questions() []question.Question {
	db.question.RLock()
	defer db.question.RUnlock()

	questions := make([]question.Question, 0, len(db.question.table))
	for _, q := range db.question.table {
		questions = append(questions, *q)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].CreatedAt.Before(questions[j].CreatedAt) })
	return questions
}

func (b *questionBackend) FetchCourses(_ context.Context, ownerID string) ([]question.Option, error) {
	b.db.course.RLock()
	defer b.db.course.RUnlock()

	courses := make([]question.Option, 0)
	for _, c := range b.db.course.table {
		if ownerID == "" || c.ownerID == ownerID {
			courses = append(courses, c.Option)
		}
	}
	sortOptions(courses)
	return courses, nil
}

func (b *questionBackend) FetchLessons(_ context.Context, courseID string) ([]question.Option, error) {
	b.db.lesson.RLock()
	defer b.db.lesson.RUnlock()

	lessons := make([]question.Option, 0)
	for _, l := range b.db.lesson.table {
		if l.courseID == courseID {
			lessons = append(lessons, l.Option)
		}
	}
	sortOptions(lessons)
	return lessons, nil
}

func (b *questionBackend) GetQuestion(_ context.Context, id string) (question.Question, error) {
	b.db.question.RLock()
	defer b.db.question.RUnlock()

	if q, ok := b.db.question.table[id]; ok {
		return *q, nil
	}
	return question.Question{}, question.ErrNotFound
}

func (b *questionBackend) CreateQuestion(_ context.Context, p question.Payload) (question.Question, error) {
	if err := b.checkScope(p); err != nil {
		return question.Question{}, err
	}

	b.db.question.Lock()
	defer b.db.question.Unlock()

	now := time.Now().UTC()
	q := question.Question{
		ID:        uuid.New().String(),
		Payload:   p,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.db.question.table[q.ID] = &q
	return q, nil
}

// UpdateQuestion applies p over the stored question. The teacher is kept when p carries none.
func (b *questionBackend) UpdateQuestion(_ context.Context, id string, p question.Payload) (question.Question, error) {
	if err := b.checkScope(p); err != nil {
		return question.Question{}, err
	}

	b.db.question.Lock()
	defer b.db.question.Unlock()

	q, ok := b.db.question.table[id]
	if !ok {
		return question.Question{}, question.ErrNotFound
	}
	if p.Teacher == "" {
		p.Teacher = q.Teacher
	}
	q.Payload = p
	q.UpdatedAt = time.Now().UTC()
	return *q, nil
}

// checkScope rejects unknown courses & lessons, and lessons sent with another course.
func (b *questionBackend) checkScope(p question.Payload) error {
	if p.Course != "" {
		b.db.course.RLock()
		_, ok := b.db.course.table[p.Course]
		b.db.course.RUnlock()
		if !ok {
			return core.NewValidationError(errUnknownCourse, core.FieldError{Field: "course", Error: errUnknownCourse.Error()})
		}
	}
	if p.Lesson != "" {
		b.db.lesson.RLock()
		l, ok := b.db.lesson.table[p.Lesson]
		b.db.lesson.RUnlock()
		if !ok {
			return core.NewValidationError(errUnknownLesson, core.FieldError{Field: "lesson", Error: errUnknownLesson.Error()})
		}
		if p.Course != "" && l.courseID != p.Course {
			return core.NewValidationError(errLessonMismatch, core.FieldError{Field: "lesson", Error: errLessonMismatch.Error()})
		}
	}
	return nil
}

func sortOptions(opts []question.Option) {
	sort.Slice(opts, func(i, j int) bool {
		return strings.ToLower(opts[i].Title) < strings.ToLower(opts[j].Title)
	})
}
