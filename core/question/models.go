package question

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Roles allowed to author questions.
const (
	RoleAdmin   = "admin:"
	RoleTeacher = "teacher:"
)

type Type string

const (
	TypeMCQ       Type = "mcq"
	TypeTrueFalse Type = "true_false"
	TypeWritten   Type = "written"
)

var AllTypes = []Type{TypeMCQ, TypeTrueFalse, TypeWritten}

func (t Type) IsValid() bool {
	switch t {
	case TypeMCQ, TypeTrueFalse, TypeWritten:
		return true
	}
	return false
}

// HasAnswers reports whether correctness is carried by the answer list (as opposed to CorrectAnswer).
func (t Type) HasAnswers() bool {
	return t == TypeMCQ || t == TypeTrueFalse
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type ScopeKind string

const (
	ScopeGeneral ScopeKind = "general"
	ScopeScoped  ScopeKind = "scoped"
)

type (
	Answer struct {
		Text      string `json:"text"`
		IsCorrect bool   `json:"isCorrect"`
		Order     int    `json:"order"`
	}

	// Scope is where a question lives. An empty ID means "not selected".
	// The zero value is a general scope.
	Scope struct {
		Kind     ScopeKind `json:"kind"`
		CourseID string    `json:"course,omitempty"`
		LessonID string    `json:"lesson,omitempty"`
	}

	// Draft is a question under edit.
	Draft struct {
		Text          string     `json:"question"`
		Type          Type       `json:"questionType"`
		Answers       []Answer   `json:"answers"`
		CorrectAnswer string     `json:"correctAnswer"`
		Explanation   string     `json:"explanation"`
		Difficulty    Difficulty `json:"difficulty"`
		Points        Number     `json:"points"`
		EstimatedTime Number     `json:"estimatedTime"` // seconds
		Tags          []string   `json:"tags"`
		Image         string     `json:"image"`
		Scope         Scope      `json:"scope"`
	}

	// Payload is the minimal wire representation of a Draft sent to the backend.
	Payload struct {
		Question      string     `json:"question"`
		QuestionType  Type       `json:"questionType"`
		Answers       []Answer   `json:"answers,omitempty"`
		CorrectAnswer string     `json:"correctAnswer,omitempty"`
		Explanation   string     `json:"explanation,omitempty"`
		Difficulty    Difficulty `json:"difficulty"`
		Points        float64    `json:"points"`
		EstimatedTime float64    `json:"estimatedTime"`
		Tags          []string   `json:"tags,omitempty"`
		Image         string     `json:"image,omitempty"`
		IsGeneral     bool       `json:"isGeneral"`
		Course        string     `json:"course,omitempty"`
		Lesson        string     `json:"lesson,omitempty"`
		Teacher       string     `json:"teacher,omitempty"`
	}

	// Question is a persisted question, as returned by the backend.
	Question struct {
		ID string `json:"id"`
		Payload
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// AuthoringContext describes who is authoring, for which teacher, and whether a question is being edited.
	AuthoringContext struct {
		Role          string
		SessionUserID string
		SessionName   string
		Teacher       string    // explicit teacher choice (admin authoring on behalf of a teacher)
		Original      *Question // set when editing
	}
)

func (s Scope) IsGeneral() bool {
	return s.Kind != ScopeScoped
}

func (ac AuthoringContext) IsAdmin() bool {
	return ac.Role == RoleAdmin
}

func (ac AuthoringContext) IsEdit() bool {
	return ac.Original != nil
}

// ResolveTeacher returns the teacher a question is authored for, or "" when none can be resolved:
// the explicit choice first, then the edited question's teacher, then the session user if a teacher.
func (ac AuthoringContext) ResolveTeacher() string {
	if t := strings.TrimSpace(ac.Teacher); t != "" {
		return t
	}
	if ac.Original != nil && ac.Original.Teacher != "" {
		return ac.Original.Teacher
	}
	if ac.Role == RoleTeacher {
		return ac.SessionUserID
	}
	return ""
}

// NewDraft returns the draft of a new question.
func NewDraft() Draft {
	return Draft{
		Type:          TypeMCQ,
		Answers:       []Answer{{Order: 1}},
		Difficulty:    DifficultyMedium,
		Points:        1,
		EstimatedTime: 60,
		Scope:         Scope{Kind: ScopeGeneral},
	}
}

// NewDraftFromQuestion seeds a draft from a persisted question, for edit flows.
func NewDraftFromQuestion(q Question) Draft {
	return Reload(q.Payload)
}

// Clone returns a deep copy of d.
func (d Draft) Clone() Draft {
	if d.Answers != nil {
		d.Answers = append(make([]Answer, 0, len(d.Answers)), d.Answers...)
	}
	if d.Tags != nil {
		d.Tags = append(make([]string, 0, len(d.Tags)), d.Tags...)
	}
	return d
}

// Number is a numeric form input. It decodes from a JSON number or a numeric string;
// anything else decodes to NaN and is left for validation to report.
type Number float64

func (n Number) IsFinite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float returns n, or 0 when n is not a finite number.
func (n Number) Float() float64 {
	if !n.IsFinite() {
		return 0
	}
	return float64(n)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*n = 0
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = Number(math.NaN())
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f = math.NaN()
	}
	*n = Number(f)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsFinite() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}
