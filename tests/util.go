package testutil

import (
	"io/ioutil"
	"log"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
	logsvc "github.com/trezcool/masomo-authoring/services/logger"
)

// Config returns the configuration of test apps.
func Config() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Masomo",
		Build:     "test",
		Locale:    "en",
		SecretKey: "secret",
		Server:    core.ServerConfig{JWTExpirationDelta: 10 * time.Minute},
	}
}

// Logger returns a logger that reports nowhere.
func Logger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

// Validator returns a validator with the core & question rules registered for locale.
func Validator(locale string) (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator(locale)
	core.InitValidators(validate, translator)
	question.InitValidators(validate, translator)
	return validate, translator
}

// ValidDraft returns a submittable MCQ draft with untrimmed text,
// scoped to courseID or general if courseID is "".
func ValidDraft(courseID string) question.Draft {
	d := question.NewDraft()
	d.Text = "  What is 2 + 2?  "
	d.Answers = []question.Answer{
		{Text: "4", IsCorrect: true, Order: 1},
		{Text: "5", Order: 2},
	}
	if courseID != "" {
		d.Scope = question.Scope{Kind: question.ScopeScoped, CourseID: courseID}
	}
	return d
}
