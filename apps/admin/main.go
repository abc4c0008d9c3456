package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
	backendsvc "github.com/trezcool/masomo-authoring/services/backend"
	logsvc "github.com/trezcool/masomo-authoring/services/logger"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	rollbarLogger := logsvc.NewRollbarLogger(logger, conf)
	rollbarLogger.Enable(!conf.Debug)

	validate := validator.New()
	translator := core.NewTranslator(conf.Locale)
	core.InitValidators(validate, translator)
	question.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		conf:   conf,
		engine: question.NewEngine(validate, translator),
		policy: question.NewAnswerPolicy(translator),
		logger: rollbarLogger,
		out:    os.Stdout,
		newBackend: func(apiKey string) question.Backend {
			return backendsvc.NewClient(conf).WithAPIKey(apiKey)
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
