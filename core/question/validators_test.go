package question

import (
	"math"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-authoring/core"
)

func newTestEngine(locale string) *Engine {
	validate := validator.New()
	translator := core.NewTranslator(locale)
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return NewEngine(validate, translator)
}

var (
	adminCtx   = AuthoringContext{Role: RoleAdmin, SessionUserID: "admin-1", Teacher: "teacher-1"}
	teacherCtx = AuthoringContext{Role: RoleTeacher, SessionUserID: "teacher-1"}
)

// validDraft returns a draft that passes validation for teacherCtx.
func validDraft() Draft {
	d := mcqDraft("Paris", "Lyon")
	d.Text = "What is the capital of France?"
	d.Answers[0].IsCorrect = true
	return d
}

func fields(res Result) []string {
	flds := make([]string, 0, len(res.Failures))
	for _, f := range res.Failures {
		flds = append(flds, f.Field)
	}
	return flds
}

func TestEngine_Validate(t *testing.T) {
	engine := newTestEngine("en")

	edit := AuthoringContext{Role: RoleAdmin, SessionUserID: "admin-1", Original: &Question{ID: "q1"}}

	tests := []struct {
		name       string
		draft      func() Draft
		actx       AuthoringContext
		wantFields []string
		wantReason map[string]string
	}{
		{name: "valid", draft: validDraft, actx: teacherCtx},
		{name: "valid admin", draft: validDraft, actx: adminCtx},
		{
			name: "valid written",
			draft: func() Draft {
				d := DefaultAnswerPolicy.OnTypeChange(validDraft(), TypeWritten)
				d.CorrectAnswer = "Paris"
				return d
			},
			actx: teacherCtx,
		},
		{
			name:  "valid true_false",
			draft: func() Draft { d, _ := SetCorrect(DefaultAnswerPolicy.OnTypeChange(validDraft(), TypeTrueFalse), 1, true); return d },
			actx:  teacherCtx,
		},
		{
			name:       "blank text",
			draft:      func() Draft { d := validDraft(); d.Text = "  \t"; return d },
			actx:       teacherCtx,
			wantFields: []string{"question"},
			wantReason: map[string]string{"question": "this field is required"},
		},
		{
			name:       "no correct answer",
			draft:      func() Draft { d := validDraft(); d.Answers[0].IsCorrect = false; return d },
			actx:       teacherCtx,
			wantFields: []string{"answers"},
			wantReason: map[string]string{"answers": "no correct answer"},
		},
		{
			name:       "too few answers short-circuits correctness",
			draft:      func() Draft { d := validDraft(); d.Answers = d.Answers[1:]; return d },
			actx:       teacherCtx,
			wantFields: []string{"answers"},
			wantReason: map[string]string{"answers": "at least 2 answers are required"},
		},
		{
			name:       "true_false without correct answer",
			draft:      func() Draft { return DefaultAnswerPolicy.OnTypeChange(validDraft(), TypeTrueFalse) },
			actx:       teacherCtx,
			wantFields: []string{"answers"},
		},
		{
			name:       "written without correct answer",
			draft:      func() Draft { return DefaultAnswerPolicy.OnTypeChange(validDraft(), TypeWritten) },
			actx:       teacherCtx,
			wantFields: []string{"correctAnswer"},
		},
		{
			name:       "unknown type",
			draft:      func() Draft { d := validDraft(); d.Type = "essay"; return d },
			actx:       teacherCtx,
			wantFields: []string{"questionType"},
		},
		{
			name:       "scope incomplete",
			draft:      func() Draft { d := validDraft(); d.Scope = Scope{Kind: ScopeScoped}; return d },
			actx:       teacherCtx,
			wantFields: []string{"scope"},
			wantReason: map[string]string{"scope": "scope incomplete: select a course or a lesson"},
		},
		{
			name:       "lesson without its course",
			draft:      func() Draft { d := validDraft(); d.Scope = Scope{Kind: ScopeScoped, LessonID: "l1"}; return d },
			actx:       teacherCtx,
			wantFields: []string{"scope"},
			wantReason: map[string]string{"scope": "a lesson must be selected under its course"},
		},
		{
			name:       "blank course",
			draft:      func() Draft { d := validDraft(); d.Scope = Scope{Kind: ScopeScoped, CourseID: "  "}; return d },
			actx:       teacherCtx,
			wantFields: []string{"scope"},
			wantReason: map[string]string{"scope": "scope incomplete: select a course or a lesson"},
		},
		{
			name: "numbers",
			draft: func() Draft {
				d := validDraft()
				d.Points = 0
				d.EstimatedTime = Number(math.NaN())
				return d
			},
			actx:       teacherCtx,
			wantFields: []string{"points", "estimatedTime"},
			wantReason: map[string]string{"points": "must be at least 1", "estimatedTime": "must be a number"},
		},
		{
			name: "fractional numbers",
			draft: func() Draft {
				d := validDraft()
				d.Points = 2.5
				d.EstimatedTime = 90.5
				return d
			},
			actx:       teacherCtx,
			wantFields: []string{"points", "estimatedTime"},
			wantReason: map[string]string{"points": "must be a whole number", "estimatedTime": "must be a whole number"},
		},
		{
			name:       "infinite points",
			draft:      func() Draft { d := validDraft(); d.Points = Number(math.Inf(1)); return d },
			actx:       teacherCtx,
			wantFields: []string{"points"},
		},
		{
			name:       "difficulty",
			draft:      func() Draft { d := validDraft(); d.Difficulty = ""; return d },
			actx:       teacherCtx,
			wantFields: []string{"difficulty"},
		},
		{
			name:       "admin create without teacher",
			draft:      validDraft,
			actx:       AuthoringContext{Role: RoleAdmin, SessionUserID: "admin-1"},
			wantFields: []string{"teacher"},
		},
		{name: "admin edit without teacher", draft: validDraft, actx: edit},
		{
			name: "every family reported in priority order",
			draft: func() Draft {
				d := validDraft()
				d.Text = ""
				d.Answers[0].IsCorrect = false
				d.Scope = Scope{Kind: ScopeScoped}
				d.Points = -1
				d.EstimatedTime = 0
				return d
			},
			actx:       AuthoringContext{Role: RoleAdmin},
			wantFields: []string{"question", "answers", "scope", "points", "estimatedTime", "teacher"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Validate(tt.draft(), tt.actx)
			if len(tt.wantFields) == 0 {
				assert.True(t, res.Valid(), "failures: %+v", res.Failures)
				assert.NoError(t, res.Err())
				return
			}
			assert.False(t, res.Valid())
			assert.Equal(t, tt.wantFields, fields(res))
			for _, f := range res.Failures {
				if want, ok := tt.wantReason[f.Field]; ok {
					assert.Equal(t, want, f.Error, f.Field)
				}
			}

			var vErr *core.ValidationError
			require.True(t, errors.As(res.Err(), &vErr))
			assert.Equal(t, res.Failures, vErr.Fields)
		})
	}
}

func TestEngine_Validate_fr(t *testing.T) {
	engine := newTestEngine("fr")

	d := validDraft()
	d.Answers[0].IsCorrect = false
	d.Scope = Scope{Kind: ScopeScoped}

	res := engine.Validate(d, teacherCtx)
	assert.Equal(t, []core.FieldError{
		{Field: "answers", Error: "aucune réponse correcte"},
		{Field: "scope", Error: "portée incomplète : choisissez un cours ou une leçon"},
	}, res.Failures)
}

func TestEngine_Validate_frParams(t *testing.T) {
	engine := newTestEngine("fr")

	d := validDraft()
	d.Answers = d.Answers[:1]
	d.Points = 0

	res := engine.Validate(d, teacherCtx)
	assert.Equal(t, []core.FieldError{
		{Field: "answers", Error: "au moins 2 réponses sont requises"},
		{Field: "points", Error: "doit être au moins 1"},
	}, res.Failures)
}

func TestEngine_Validate_isTotal(t *testing.T) {
	engine := newTestEngine("en")
	drafts := []Draft{
		{},
		{Type: TypeMCQ},
		{Type: TypeTrueFalse, Answers: []Answer{{}}},
		{Type: "", Points: Number(math.NaN()), EstimatedTime: Number(math.Inf(-1))},
		{Scope: Scope{Kind: "unknown"}},
		NewDraft(),
	}
	for _, d := range drafts {
		assert.NotPanics(t, func() {
			res := engine.Validate(d, AuthoringContext{})
			assert.False(t, res.Valid())
			assert.NotEmpty(t, res.Failures)
		})
	}
}
