package echoapi

import (
	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

type (
	// DraftRequest carries the draft under edit.
	// QuestionID is set when the draft edits a persisted question.
	DraftRequest struct {
		Draft      question.Draft `json:"draft"`
		Teacher    string         `json:"teacher,omitempty"`
		QuestionID string         `json:"questionId,omitempty"`
	}

	TypeChangeRequest struct {
		DraftRequest
		Type question.Type `json:"questionType" validate:"required,oneof=mcq true_false written"`
	}

	AnswerRequest struct {
		DraftRequest
		Index int    `json:"index" validate:"gte=0"`
		Value bool   `json:"value"`
		Text  string `json:"text"`
	}

	TagRequest struct {
		DraftRequest
		Tag string `json:"tag"`
	}

	ImageRequest struct {
		DraftRequest
		Image string `json:"image"`
	}

	ScopeRequest struct {
		DraftRequest
		General        bool   `json:"general"`
		Course         string `json:"course"`
		Lesson         string `json:"lesson"`
		LessonsLoading bool   `json:"lessonsLoading"`
	}

	ScopeResponse struct {
		Draft                  question.Draft      `json:"draft"`
		State                  question.ScopeState `json:"state"`
		LessonSelectionEnabled bool                `json:"lessonSelectionEnabled"`
	}

	ValidationResponse struct {
		Valid    bool              `json:"valid"`
		Failures []core.FieldError `json:"failures"`
	}

	CandidatesResponse struct {
		Status question.CandidateStatus `json:"status"`
		Items  []question.Option        `json:"items"`
	}

	QuestionResponse struct {
		Question question.Question `json:"question"`
		Draft    question.Draft    `json:"draft"`
	}
)

func newScopeResponse(d question.Draft, resolver question.ScopeResolver) ScopeResponse {
	return ScopeResponse{
		Draft:                  d,
		State:                  d.Scope.State(),
		LessonSelectionEnabled: resolver.LessonSelectionEnabled(d.Scope),
	}
}

func newValidationResponse(res question.Result) ValidationResponse {
	failures := res.Failures
	if failures == nil {
		failures = []core.FieldError{}
	}
	return ValidationResponse{Valid: res.Valid(), Failures: failures}
}

func newCandidatesResponse(c question.Candidates) CandidatesResponse {
	items := c.Items
	if items == nil {
		items = []question.Option{}
	}
	return CandidatesResponse{Status: c.Status(), Items: items}
}
