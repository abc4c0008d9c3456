package question

import (
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-authoring/core"
)

var (
	// custom validation tags
	difficultyTag      = "difficulty"
	questionTypeTag    = "qtype"
	minAnswersTag      = "minanswers"
	noCorrectTag       = "nocorrect"
	correctAnswerTag   = "correctanswer"
	scopeIncompleteTag = "scopeincomplete"
	lessonCourseTag    = "lessoncourse"
	teacherTag         = "teacher"

	trueLabelKey  = "trueLabel"
	falseLabelKey = "falseLabel"

	texts = map[string]map[string]string{
		"en": {
			difficultyTag:      "invalid difficulty",
			questionTypeTag:    "invalid question type",
			minAnswersTag:      "at least {0} answers are required",
			noCorrectTag:       "no correct answer",
			correctAnswerTag:   "the correct answer is required",
			scopeIncompleteTag: "scope incomplete: select a course or a lesson",
			lessonCourseTag:    "a lesson must be selected under its course",
			teacherTag:         "a teacher is required",
			trueLabelKey:       "True",
			falseLabelKey:      "False",
		},
		"fr": {
			difficultyTag:      "difficulté invalide",
			questionTypeTag:    "type de question invalide",
			minAnswersTag:      "au moins {0} réponses sont requises",
			noCorrectTag:       "aucune réponse correcte",
			correctAnswerTag:   "la réponse correcte est obligatoire",
			scopeIncompleteTag: "portée incomplète : choisissez un cours ou une leçon",
			lessonCourseTag:    "une leçon doit être choisie dans son cours",
			teacherTag:         "un enseignant est obligatoire",
			trueLabelKey:       "Vrai",
			falseLabelKey:      "Faux",
		},
	}

	// failures are reported by rule family, in this order
	fieldPriorities = map[string]int{
		"question":      1,
		"questionType":  2,
		"answers":       2,
		"correctAnswer": 2,
		"scope":         3,
		"points":        4,
		"estimatedTime": 4,
		"difficulty":    4,
		"teacher":       5,
	}
)

// submission is what gets validated: the draft fields carrying field-level rules,
// plus the whole draft and its authoring context for the struct-level ones.
type submission struct {
	Text          string     `json:"question" validate:"notblank"`
	Points        Number     `json:"points" validate:"finite,integer,gte=1"`
	EstimatedTime Number     `json:"estimatedTime" validate:"finite,integer,gte=1"`
	Difficulty    Difficulty `json:"difficulty" validate:"difficulty"`

	draft Draft
	actx  AuthoringContext
}

// InitValidators registers the question rules and their translations.
// core.InitValidators must have been called on validate first.
// It panics if a rule or a translation cannot be registered.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	msgs := core.LocaleTexts(translator, texts)

	core.MustRegister(validate.RegisterValidation(difficultyTag, difficultyValidation))
	validate.RegisterStructValidation(submissionStructValidation, submission{})

	for _, tag := range []string{
		difficultyTag, questionTypeTag, minAnswersTag, noCorrectTag,
		correctAnswerTag, scopeIncompleteTag, lessonCourseTag, teacherTag,
	} {
		core.MustRegister(core.RegisterCustomTranslation(validate, translator, tag, msgs[tag]))
	}
}

// Result is the verdict of Engine.Validate: valid, or an ordered list of failures.
type Result struct {
	Failures []core.FieldError `json:"failures,omitempty"`
}

func (r Result) Valid() bool {
	return len(r.Failures) == 0
}

// Err returns the failures as a *core.ValidationError, or nil if valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return core.NewValidationError(errInvalidDraft, r.Failures...)
}

// Engine runs the pre-submit checks on drafts.
type Engine struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewEngine(validate *validator.Validate, translator ut.Translator) *Engine {
	return &Engine{validate: validate, translator: translator}
}

// Validate checks d in one pass and reports every failing rule family,
// ordered: text, type-specific answers, scope, numbers, teacher.
func (e *Engine) Validate(d Draft, actx AuthoringContext) Result {
	sub := submission{
		Text:          d.Text,
		Points:        d.Points,
		EstimatedTime: d.EstimatedTime,
		Difficulty:    d.Difficulty,
		draft:         d,
		actx:          actx,
	}
	err := e.validate.Struct(sub)
	if err == nil {
		return Result{}
	}

	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Failures: []core.FieldError{{Field: "question", Error: err.Error()}}}
	}
	failures := core.TranslateErrors(vErrs, e.translator)
	sort.SliceStable(failures, func(i, j int) bool {
		return fieldPriorities[failures[i].Field] < fieldPriorities[failures[j].Field]
	})
	return Result{Failures: failures}
}

// Custom Validators

func difficultyValidation(fl validator.FieldLevel) bool {
	return Difficulty(fl.Field().String()).IsValid()
}

// submissionStructValidation checks the rules spanning several draft fields.
func submissionStructValidation(sl validator.StructLevel) {
	sub, ok := sl.Current().Interface().(submission)
	if !ok {
		return
	}
	validateAnswers(sub.draft, sl)
	validateScope(sub.draft.Scope, sl)
	validateTeacher(sub.actx, sl)
}

// validateAnswers reports the first failing type-specific rule.
func validateAnswers(d Draft, sl validator.StructLevel) {
	switch d.Type {
	case TypeMCQ, TypeTrueFalse:
		if len(d.Answers) < minMCQAnswers {
			sl.ReportError(d.Answers, "answers", "Answers", minAnswersTag, "2")
			return
		}
		for _, a := range d.Answers {
			if a.IsCorrect {
				return
			}
		}
		sl.ReportError(d.Answers, "answers", "Answers", noCorrectTag, "")
	case TypeWritten:
		if core.CleanString(d.CorrectAnswer) == "" {
			sl.ReportError(d.CorrectAnswer, "correctAnswer", "CorrectAnswer", correctAnswerTag, "")
		}
	default:
		sl.ReportError(d.Type, "questionType", "Type", questionTypeTag, "")
	}
}

// validateScope requires a scoped question to name a course, and a lesson to travel with its course.
func validateScope(s Scope, sl validator.StructLevel) {
	if s.IsGeneral() {
		return
	}
	course, lesson := core.CleanString(s.CourseID), core.CleanString(s.LessonID)
	switch {
	case course == "" && lesson == "":
		sl.ReportError(s, "scope", "Scope", scopeIncompleteTag, "")
	case course == "":
		sl.ReportError(s, "scope", "Scope", lessonCourseTag, "")
	}
}

// validateTeacher requires a resolvable teacher when creating a question.
func validateTeacher(actx AuthoringContext, sl validator.StructLevel) {
	if !actx.IsEdit() && actx.ResolveTeacher() == "" {
		sl.ReportError(actx.Teacher, "teacher", "Teacher", teacherTag, "")
	}
}
