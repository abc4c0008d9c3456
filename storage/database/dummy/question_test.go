package dummydb

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

func TestQuestionBackend_catalog(t *testing.T) {
	db := Open()
	maths := db.AddCourse("teacher-1", "Maths")
	algebra := db.AddCourse("teacher-1", "algebra")
	physics := db.AddCourse("teacher-2", "Physics")
	fractions := db.AddLesson(maths.ID, "Fractions")
	db.AddLesson(physics.ID, "Optics")

	backend := NewQuestionBackend(db)
	ctx := context.Background()

	courses, err := backend.FetchCourses(ctx, "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, []question.Option{algebra, maths}, courses)

	courses, err = backend.FetchCourses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, courses, 3)

	courses, err = backend.FetchCourses(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)

	lessons, err := backend.FetchLessons(ctx, maths.ID)
	require.NoError(t, err)
	assert.Equal(t, []question.Option{fractions}, lessons)
}

func TestQuestionBackend_questions(t *testing.T) {
	db := Open()
	maths := db.AddCourse("teacher-1", "Maths")
	physics := db.AddCourse("teacher-1", "Physics")
	fractions := db.AddLesson(maths.ID, "Fractions")

	backend := NewQuestionBackend(db)
	ctx := context.Background()

	p := question.Payload{
		Question:      "1/2 + 1/2 = ?",
		QuestionType:  question.TypeWritten,
		CorrectAnswer: "1",
		Difficulty:    question.DifficultyEasy,
		Points:        1,
		EstimatedTime: 30,
		Course:        maths.ID,
		Lesson:        fractions.ID,
		Teacher:       "teacher-1",
	}
	q, err := backend.CreateQuestion(ctx, p)
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, p, q.Payload)

	got, err := backend.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q, got)

	// teacher is kept when not sent
	p.Teacher = ""
	p.Points = 3
	updated, err := backend.UpdateQuestion(ctx, q.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", updated.Teacher)
	assert.Equal(t, float64(3), updated.Points)
	assert.False(t, updated.UpdatedAt.Before(q.UpdatedAt))

	_, err = backend.GetQuestion(ctx, "unknown")
	assert.Equal(t, question.ErrNotFound, err)
	_, err = backend.UpdateQuestion(ctx, "unknown", p)
	assert.Equal(t, question.ErrNotFound, err)

	tests := []struct {
		name      string
		course    string
		lesson    string
		wantField string
	}{
		{name: "unknown course", course: "nope", wantField: "course"},
		{name: "unknown lesson", course: maths.ID, lesson: "nope", wantField: "lesson"},
		{name: "lesson of another course", course: physics.ID, lesson: fractions.ID, wantField: "lesson"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := p
			bad.Course, bad.Lesson = tt.course, tt.lesson
			_, err := backend.CreateQuestion(ctx, bad)

			var vErr *core.ValidationError
			require.True(t, errors.As(err, &vErr), "error = %v", err)
			assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
		})
	}

	assert.Len(t, db.Questions(), 1)
}

func TestOpenDemo(t *testing.T) {
	backend := NewQuestionBackend(OpenDemo())
	ctx := context.Background()

	courses, err := backend.FetchCourses(ctx, DemoTeacher)
	require.NoError(t, err)
	require.Len(t, courses, 3)
	assert.Equal(t, "History", courses[0].Title)

	lessons, err := backend.FetchLessons(ctx, courses[1].ID) // Mathematics
	require.NoError(t, err)
	assert.Len(t, lessons, 2)
}
