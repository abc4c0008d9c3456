package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/masomo-authoring/apps/api/echo"
	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
	backendsvc "github.com/trezcool/masomo-authoring/services/backend"
	logsvc "github.com/trezcool/masomo-authoring/services/logger"
	uploadsvc "github.com/trezcool/masomo-authoring/services/upload"
	dummydb "github.com/trezcool/masomo-authoring/storage/database/dummy"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	backendLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "BACKEND : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	backendLogger.Enable(!conf.Debug)

	// set up backend & uploads
	backend := newBackend(conf, backendLogger)

	var (
		uploader question.ImageUploader
		signer   echoapi.UploadSigner
	)
	if conf.Cloudinary.URL == "" {
		uploader = uploadsvc.NewConsoleUploader(conf.Cloudinary.Folder, log.New(os.Stdout, "UPLOAD : ", log.LstdFlags))
	} else {
		cld, err := uploadsvc.NewCloudinaryUploader(conf, logger)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up uploads: %v", err), err)
		}
		uploader, signer = cld, cld
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator(conf.Locale)
	core.InitValidators(validate, translator)
	question.InitValidators(validate, translator)

	questionSvc := question.NewService(
		backend,
		question.NewEngine(validate, translator),
		question.NewAnswerPolicy(translator),
		logger,
	)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("locale").Set(translator.Locale())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			QuestionSvc: questionSvc,
			Uploader:    uploader,
			Signer:      signer,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// newBackend returns the LMS question backend, or an in-memory one seeded with a demo catalog
// when no backend is configured.
func newBackend(conf *core.Config, logger core.Logger) question.Backend {
	if conf.TestMode || conf.Backend.BaseURL == "" {
		logger.Info("using the in-memory question backend")
		return dummydb.NewQuestionBackend(dummydb.OpenDemo())
	}
	return backendsvc.NewClient(conf)
}
