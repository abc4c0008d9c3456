package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

var errImageRequired = core.NewValidationError(
	errors.New("image required"),
	core.FieldError{Field: "image", Error: "this field is required"},
)

type (
	questionAPIDeps struct {
		svc      question.Service
		uploader question.ImageUploader
		signer   UploadSigner
		validate *validator.Validate
	}

	questionAPI struct {
		questionAPIDeps
	}
)

func registerQuestionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps questionAPIDeps) {
	api := questionAPI{deps}
	author := authorMiddleware()

	// drafts are stateless: every call takes the current draft and returns the next one
	drafts := g.Group("/drafts", jwt, author)
	drafts.GET("/new", api.newDraft)
	drafts.POST("/type", api.changeType)
	drafts.POST("/answers", api.addAnswer)
	drafts.POST("/answers/remove", api.removeAnswer)
	drafts.POST("/answers/correct", api.setCorrect)
	drafts.POST("/answers/text", api.setAnswerText)
	drafts.POST("/tags", api.addTag)
	drafts.POST("/tags/remove", api.removeTag)
	drafts.POST("/image", api.setImage)
	drafts.POST("/scope/general", api.setGeneral)
	drafts.POST("/scope/course", api.selectCourse)
	drafts.POST("/scope/lesson", api.selectLesson)
	drafts.POST("/validate", api.validateDraft)
	drafts.POST("/normalize", api.normalizeDraft)

	courses := g.Group("/courses", jwt, author)
	courses.GET("", api.listCourses)
	courses.GET("/:id/lessons", api.listLessons)

	questions := g.Group("/questions", jwt, author)
	questions.POST("", api.create)
	questions.GET("/:id", api.retrieve)
	questions.PUT("/:id", api.update)
	questions.POST("/images", api.uploadImage)
	questions.GET("/images/signature", api.imageSignature)
}

func (api questionAPI) bind(ctx echo.Context, req interface{}) error {
	if err := ctx.Bind(req); err != nil {
		return errors.Wrap(err, "binding request")
	}
	if err := api.validate.Struct(req); err != nil {
		return errors.Wrap(err, "validating request")
	}
	return nil
}

// authoringContext resolves the authoring context of req, loading the edited question if any.
func (api questionAPI) authoringContext(ctx echo.Context, req DraftRequest) (question.AuthoringContext, error) {
	var original *question.Question
	if id := core.CleanString(req.QuestionID); id != "" {
		q, err := api.svc.Get(ctx.Request().Context(), id)
		if err != nil {
			return question.AuthoringContext{}, errors.Wrap(err, "getting edited question")
		}
		original = &q
	}
	return authoringContext(ctx, req.Teacher, original)
}

func (api questionAPI) newDraft(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, question.NewDraft())
}

func (api questionAPI) changeType(ctx echo.Context) error {
	var req TypeChangeRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Policy().OnTypeChange(req.Draft, req.Type))
}

func (api questionAPI) addAnswer(ctx echo.Context) error {
	var req DraftRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	d, err := question.AddAnswer(req.Draft)
	if err != nil {
		return errors.Wrap(err, "adding answer")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api questionAPI) removeAnswer(ctx echo.Context) error {
	var req AnswerRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	d, err := question.RemoveAnswer(req.Draft, req.Index)
	if err != nil {
		return errors.Wrap(err, "removing answer")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api questionAPI) setCorrect(ctx echo.Context) error {
	var req AnswerRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	d, err := question.SetCorrect(req.Draft, req.Index, req.Value)
	if err != nil {
		return errors.Wrap(err, "setting correct answer")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api questionAPI) setAnswerText(ctx echo.Context) error {
	var req AnswerRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	d, err := question.SetText(req.Draft, req.Index, req.Text)
	if err != nil {
		return errors.Wrap(err, "setting answer text")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api questionAPI) addTag(ctx echo.Context) error {
	var req TagRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, question.AddTag(req.Draft, req.Tag))
}

func (api questionAPI) removeTag(ctx echo.Context) error {
	var req TagRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, question.RemoveTag(req.Draft, req.Tag))
}

func (api questionAPI) setImage(ctx echo.Context) error {
	var req ImageRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, question.SetImage(req.Draft, req.Image))
}

func (api questionAPI) setGeneral(ctx echo.Context) error {
	var req ScopeRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	resolver := scopeResolver(req)
	d := req.Draft.Clone()
	d.Scope = resolver.SetGeneral(d.Scope, req.General)
	return ctx.JSON(http.StatusOK, newScopeResponse(d, resolver))
}

func (api questionAPI) selectCourse(ctx echo.Context) error {
	var req ScopeRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	resolver := scopeResolver(req)
	d := req.Draft.Clone()
	d.Scope = resolver.SelectCourse(d.Scope, req.Course)
	return ctx.JSON(http.StatusOK, newScopeResponse(d, resolver))
}

func (api questionAPI) selectLesson(ctx echo.Context) error {
	var req ScopeRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	resolver := scopeResolver(req)
	d := req.Draft.Clone()
	d.Scope = resolver.SelectLesson(d.Scope, req.Lesson)
	return ctx.JSON(http.StatusOK, newScopeResponse(d, resolver))
}

func scopeResolver(req ScopeRequest) question.ScopeResolver {
	var resolver question.ScopeResolver
	if req.LessonsLoading {
		resolver.Lessons = question.LoadingCandidates()
	}
	return resolver
}

func (api questionAPI) validateDraft(ctx echo.Context) error {
	var req DraftRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	actx, err := api.authoringContext(ctx, req)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newValidationResponse(api.svc.Validate(req.Draft, actx)))
}

func (api questionAPI) normalizeDraft(ctx echo.Context) error {
	var req DraftRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	actx, err := api.authoringContext(ctx, req)
	if err != nil {
		return err
	}
	p, err := api.svc.Prepare(req.Draft, actx)
	if err != nil {
		return errors.Wrap(err, "preparing payload")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api questionAPI) listCourses(ctx echo.Context) error {
	actx, err := authoringContext(ctx, ctx.QueryParam("teacher"), nil)
	if err != nil {
		return err
	}
	courses, err := api.svc.CourseCandidates(ctx.Request().Context(), actx)
	if err != nil {
		return errors.Wrap(err, "fetching courses")
	}
	return ctx.JSON(http.StatusOK, newCandidatesResponse(courses))
}

func (api questionAPI) listLessons(ctx echo.Context) error {
	lessons, err := api.svc.LessonCandidates(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching lessons")
	}
	return ctx.JSON(http.StatusOK, newCandidatesResponse(lessons))
}

func (api questionAPI) create(ctx echo.Context) error {
	var req DraftRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	req.QuestionID = ""
	actx, err := api.authoringContext(ctx, req)
	if err != nil {
		return err
	}

	q, err := api.svc.Submit(ctx.Request().Context(), req.Draft, actx)
	if err != nil {
		return errors.Wrap(err, "creating question")
	}
	return ctx.JSON(http.StatusCreated, QuestionResponse{Question: q, Draft: question.NewDraftFromQuestion(q)})
}

func (api questionAPI) retrieve(ctx echo.Context) error {
	q, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting question")
	}
	return ctx.JSON(http.StatusOK, QuestionResponse{Question: q, Draft: question.NewDraftFromQuestion(q)})
}

func (api questionAPI) update(ctx echo.Context) error {
	var req DraftRequest
	if err := api.bind(ctx, &req); err != nil {
		return err
	}
	req.QuestionID = ctx.Param("id")
	actx, err := api.authoringContext(ctx, req)
	if err != nil {
		return err
	}

	q, err := api.svc.Submit(ctx.Request().Context(), req.Draft, actx)
	if err != nil {
		return errors.Wrap(err, "updating question")
	}
	return ctx.JSON(http.StatusOK, QuestionResponse{Question: q, Draft: question.NewDraftFromQuestion(q)})
}

func (api questionAPI) uploadImage(ctx echo.Context) error {
	fh, err := ctx.FormFile("image")
	if err != nil {
		return errImageRequired
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening image")
	}
	defer file.Close()

	ref, err := api.uploader.UploadImage(ctx.Request().Context(), file, fh.Filename)
	if err != nil {
		return errors.Wrap(err, "uploading image")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"image": ref})
}

func (api questionAPI) imageSignature(ctx echo.Context) error {
	if api.signer == nil {
		return errHttpNotFound
	}
	sig, err := api.signer.Sign()
	if err != nil {
		return errors.Wrap(err, "signing upload")
	}
	return ctx.JSON(http.StatusOK, sig)
}
