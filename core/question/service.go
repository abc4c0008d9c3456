package question

import (
	"context"
	"io"

	"github.com/kat-co/vala"

	"github.com/trezcool/masomo-authoring/core"
)

type (
	// Backend is the question store the payloads are submitted to.
	Backend interface {
		FetchCourses(ctx context.Context, ownerID string) ([]Option, error)
		FetchLessons(ctx context.Context, courseID string) ([]Option, error)
		GetQuestion(ctx context.Context, id string) (Question, error)
		CreateQuestion(ctx context.Context, p Payload) (Question, error)
		UpdateQuestion(ctx context.Context, id string, p Payload) (Question, error)
	}

	// ImageUploader stores question images and returns an opaque reference to them.
	ImageUploader interface {
		UploadImage(ctx context.Context, file io.Reader, name string) (string, error)
	}

	Service interface {
		Policy() AnswerPolicy
		Validate(d Draft, actx AuthoringContext) Result
		// Prepare validates d and returns its normalized payload.
		Prepare(d Draft, actx AuthoringContext) (Payload, error)
		// Submit creates the question, or updates actx.Original when editing.
		Submit(ctx context.Context, d Draft, actx AuthoringContext) (Question, error)
		Get(ctx context.Context, id string) (Question, error)
		CourseCandidates(ctx context.Context, actx AuthoringContext) (Candidates, error)
		LessonCandidates(ctx context.Context, courseID string) (Candidates, error)
	}

	service struct {
		backend Backend
		engine  *Engine
		policy  AnswerPolicy
		logger  core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(backend Backend, engine *Engine, policy AnswerPolicy, logger core.Logger) Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(backend, "backend"),
		vala.IsNotNil(engine, "engine"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &service{
		backend: backend,
		engine:  engine,
		policy:  policy,
		logger:  logger,
	}
}

func (svc *service) Policy() AnswerPolicy {
	return svc.policy
}

func (svc *service) Validate(d Draft, actx AuthoringContext) Result {
	return svc.engine.Validate(d, actx)
}

func (svc *service) Prepare(d Draft, actx AuthoringContext) (Payload, error) {
	if err := svc.engine.Validate(d, actx).Err(); err != nil {
		return Payload{}, err
	}
	return Normalize(d, actx), nil
}

// Submit returns backend errors unchanged.
func (svc *service) Submit(ctx context.Context, d Draft, actx AuthoringContext) (Question, error) {
	p, err := svc.Prepare(d, actx)
	if err != nil {
		return Question{}, err
	}

	var q Question
	if actx.IsEdit() {
		q, err = svc.backend.UpdateQuestion(ctx, actx.Original.ID, p)
	} else {
		q, err = svc.backend.CreateQuestion(ctx, p)
	}
	if err != nil {
		svc.logger.Warn("submitting question", err, actx)
		return Question{}, err
	}
	svc.logger.Info("question submitted", map[string]interface{}{"id": q.ID, "edit": actx.IsEdit()}, actx)
	return q, nil
}

func (svc *service) Get(ctx context.Context, id string) (Question, error) {
	return svc.backend.GetQuestion(ctx, id)
}

// CourseCandidates lists the courses of the teacher the question is authored for;
// all courses when no teacher is resolvable yet.
func (svc *service) CourseCandidates(ctx context.Context, actx AuthoringContext) (Candidates, error) {
	courses, err := svc.backend.FetchCourses(ctx, actx.ResolveTeacher())
	if err != nil {
		return Candidates{}, err
	}
	return ReadyCandidates(courses), nil
}

func (svc *service) LessonCandidates(ctx context.Context, courseID string) (Candidates, error) {
	if courseID = core.CleanString(courseID); courseID == "" {
		return ReadyCandidates(nil), nil
	}
	lessons, err := svc.backend.FetchLessons(ctx, courseID)
	if err != nil {
		return Candidates{}, err
	}
	return ReadyCandidates(lessons), nil
}
