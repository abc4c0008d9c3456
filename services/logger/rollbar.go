package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// prepare builds the rollbar args from msg and args.
// expected fmt: msg | error, map[string]interface{}, question.AuthoringContext
// Extra data maps are merged into one, since rollbar only keeps the last map it is given.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var (
		personSet bool
		extras    map[string]interface{}
	)
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	addExtras := func(m map[string]interface{}) {
		if extras == nil {
			extras = make(map[string]interface{}, len(m))
		}
		for k, v := range m {
			extras[k] = v
		}
	}

	for _, arg := range args {
		switch a := arg.(type) {
		case question.AuthoringContext:
			if personSet { // only set one author
				continue
			}
			if a.SessionUserID != "" {
				rollbar.SetPerson(a.SessionUserID, a.SessionName, "")
				personSet = true
			}
			addExtras(authoringExtras(a))
		case map[string]interface{}:
			addExtras(a)
		default:
			newArgs = append(newArgs, arg)
		}
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	if extras != nil {
		newArgs = append(newArgs, extras)
	}
	return newArgs
}

func authoringExtras(actx question.AuthoringContext) map[string]interface{} {
	extras := map[string]interface{}{
		"role":    actx.Role,
		"teacher": actx.ResolveTeacher(),
	}
	if actx.IsEdit() {
		extras["question"] = actx.Original.ID
	}
	return extras
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(msg, args)
	l.std.Fatal(msg)
}
