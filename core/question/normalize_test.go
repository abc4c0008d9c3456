package question

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonKeys(t *testing.T, p Payload) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestNormalize(t *testing.T) {
	original := &Question{ID: "q1", Payload: Payload{Teacher: "teacher-9"}}

	tests := []struct {
		name       string
		draft      func() Draft
		actx       AuthoringContext
		want       Payload
		wantAbsent []string
	}{
		{
			name: "general mcq",
			draft: func() Draft {
				d := validDraft()
				d.Text = "  What is the capital of France? "
				d.Answers[1].Text = " Lyon "
				return d
			},
			actx: teacherCtx,
			want: Payload{
				Question:     "What is the capital of France?",
				QuestionType: TypeMCQ,
				Answers:      []Answer{{Text: "Paris", IsCorrect: true, Order: 1}, {Text: "Lyon", Order: 2}},
				Difficulty:   DifficultyMedium, Points: 1, EstimatedTime: 60,
				IsGeneral: true,
			},
			wantAbsent: []string{"course", "lesson", "correctAnswer", "tags", "teacher", "explanation", "image"},
		},
		{
			name: "general scope drops stale course",
			draft: func() Draft {
				d := validDraft()
				d.Scope = Scope{Kind: ScopeGeneral, CourseID: "stale", LessonID: "stale"}
				return d
			},
			actx:       teacherCtx,
			wantAbsent: []string{"course", "lesson"},
		},
		{
			name:       "course only",
			draft:      func() Draft { d := validDraft(); d.Scope = Scope{Kind: ScopeScoped, CourseID: "c1"}; return d },
			actx:       teacherCtx,
			wantAbsent: []string{"lesson"},
		},
		{
			name:       "lesson is never sent without its course",
			draft:      func() Draft { d := validDraft(); d.Scope = Scope{Kind: ScopeScoped, LessonID: "l1"}; return d },
			actx:       teacherCtx,
			wantAbsent: []string{"course", "lesson"},
		},
		{
			name:  "lesson comes with its course",
			draft: func() Draft { d := validDraft(); d.Scope = Scope{Kind: ScopeScoped, CourseID: "c1", LessonID: "l1"}; return d },
			actx:  teacherCtx,
		},
		{
			name: "written",
			draft: func() Draft {
				d := DefaultAnswerPolicy.OnTypeChange(validDraft(), TypeWritten)
				d.CorrectAnswer = " Paris "
				d.Explanation = "It is."
				return d
			},
			actx:       teacherCtx,
			wantAbsent: []string{"answers"},
		},
		{
			name: "written drops leftover answers",
			draft: func() Draft {
				d := validDraft()
				d.Type = TypeWritten
				d.CorrectAnswer = "Paris"
				return d
			},
			actx:       teacherCtx,
			wantAbsent: []string{"answers"},
		},
		{
			name:  "tags trimmed and deduplicated",
			draft: func() Draft { d := validDraft(); d.Tags = []string{" geo ", "geo", "", "Geo"}; return d },
			actx:  teacherCtx,
		},
		{
			name:       "blank tags are omitted",
			draft:      func() Draft { d := validDraft(); d.Tags = []string{" ", ""}; return d },
			actx:       teacherCtx,
			wantAbsent: []string{"tags"},
		},
		{name: "admin sends teacher", draft: validDraft, actx: adminCtx},
		{
			name:       "admin without teacher",
			draft:      validDraft,
			actx:       AuthoringContext{Role: RoleAdmin, SessionUserID: "admin-1"},
			wantAbsent: []string{"teacher"},
		},
		{
			name:  "admin edit falls back to the question's teacher",
			draft: validDraft,
			actx:  AuthoringContext{Role: RoleAdmin, SessionUserID: "admin-1", Original: original},
		},
		{
			name:  "admin edit with explicit teacher",
			draft: validDraft,
			actx:  AuthoringContext{Role: RoleAdmin, SessionUserID: "admin-1", Teacher: "teacher-2", Original: original},
		},
		{
			name:       "teacher flow never sends teacher",
			draft:      validDraft,
			actx:       AuthoringContext{Role: RoleTeacher, SessionUserID: "teacher-1", Original: original},
			wantAbsent: []string{"teacher"},
		},
		{
			name: "numbers",
			draft: func() Draft {
				d := validDraft()
				d.Points = Number(math.NaN())
				d.EstimatedTime = 90
				return d
			},
			actx: teacherCtx,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.draft(), tt.actx)
			if tt.want.Question != "" {
				assert.Equal(t, tt.want, got)
			}

			keys := jsonKeys(t, got)
			for _, k := range tt.wantAbsent {
				assert.NotContains(t, keys, k)
			}
			for _, k := range []string{"question", "questionType", "difficulty", "points", "estimatedTime", "isGeneral"} {
				assert.Contains(t, keys, k)
			}
		})
	}
}

func TestNormalize_values(t *testing.T) {
	d := validDraft()
	d.Scope = Scope{Kind: ScopeScoped, CourseID: " c1 ", LessonID: "l1"}
	d.Tags = []string{" geo ", "geo", "", "Geo"}
	d.Points = Number(math.NaN())
	d.Image = "https://res.cloudinary.com/demo/q1.png"

	got := Normalize(d, AuthoringContext{Role: RoleAdmin, Original: &Question{ID: "q1", Payload: Payload{Teacher: "teacher-9"}}})
	assert.False(t, got.IsGeneral)
	assert.Equal(t, "c1", got.Course)
	assert.Equal(t, "l1", got.Lesson)
	assert.Equal(t, []string{"geo", "Geo"}, got.Tags)
	assert.Equal(t, float64(0), got.Points)
	assert.Equal(t, "teacher-9", got.Teacher)
	assert.Equal(t, d.Image, got.Image)
}

func TestNormalize_isIdempotent(t *testing.T) {
	written := DefaultAnswerPolicy.OnTypeChange(validDraft(), TypeWritten)
	written.CorrectAnswer = " 42 "

	messy := validDraft()
	messy.Text = " Q? "
	messy.Answers = []Answer{{Text: " a ", Order: 7}, {Text: "b", Order: 3, IsCorrect: true}}
	messy.Tags = []string{"x", " x", "y"}
	messy.Points = Number(math.NaN())
	messy.Scope = Scope{Kind: ScopeScoped, CourseID: "c1", LessonID: "l1"}

	stale := validDraft()
	stale.Scope = Scope{Kind: ScopeGeneral, CourseID: "stale"}

	drafts := map[string]Draft{
		"new":     NewDraft(),
		"empty":   {},
		"valid":   validDraft(),
		"written": written,
		"messy":   messy,
		"stale":   stale,
	}
	for name, d := range drafts {
		for _, actx := range []AuthoringContext{teacherCtx, adminCtx, {Role: RoleAdmin}} {
			t.Run(name+"/"+actx.Role, func(t *testing.T) {
				once := Normalize(d, actx)
				twice := Normalize(Reload(once), actx)
				assert.Equal(t, once, twice)
			})
		}
	}
}

func TestReload(t *testing.T) {
	p := Payload{
		Question:     "Q?",
		QuestionType: TypeTrueFalse,
		Answers:      []Answer{{Text: "True", IsCorrect: true, Order: 1}, {Text: "False", Order: 2}},
		Difficulty:   DifficultyHard,
		Points:       2,
		Course:       "c1",
		Lesson:       "l1",
	}
	d := NewDraftFromQuestion(Question{ID: "q1", Payload: p})
	assert.Equal(t, Scope{Kind: ScopeScoped, CourseID: "c1", LessonID: "l1"}, d.Scope)
	assert.Equal(t, p.Answers, d.Answers)
	assert.Equal(t, Number(2), d.Points)

	p.IsGeneral = true
	assert.Equal(t, StateGeneral, Reload(p).Scope.State())

	// the reloaded draft does not share the payload's slices
	d.Answers[0].Text = "Vrai"
	assert.Equal(t, "True", p.Answers[0].Text)
}
