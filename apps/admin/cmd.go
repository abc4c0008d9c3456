package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp          = errors.New("help provided")
	errInvalidDrafts = errors.New("some drafts are invalid")
)

type commandLine struct {
	conf   *core.Config
	engine *question.Engine
	policy question.AnswerPolicy
	logger core.Logger
	out    io.Writer

	// newBackend returns the backend drafts are imported into.
	newBackend func(apiKey string) question.Backend
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  validate -file FILE [-teacher ID]          - validate the drafts of a JSON file")
	fmt.Fprintln(cli.out, "  normalize -file FILE [-teacher ID] [-diff]  - print the payloads of the drafts of a JSON file")
	fmt.Fprintln(cli.out, "  import -file FILE -teacher ID              - submit the drafts of a JSON file. The API key will be prompted next.")
	fmt.Fprintln(cli.out, "  token -user ID -role admin|teacher [-name NAME] - sign a token for the authoring API")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validateFile := validateCmd.String("file", "", "JSON file holding one draft or a list of drafts")
	validateTeacher := validateCmd.String("teacher", "", "The teacher the drafts are authored for")

	normalizeCmd := flag.NewFlagSet("normalize", flag.ExitOnError)
	normalizeFile := normalizeCmd.String("file", "", "JSON file holding one draft or a list of drafts")
	normalizeTeacher := normalizeCmd.String("teacher", "", "The teacher the drafts are authored for")
	normalizeDiff := normalizeCmd.Bool("diff", false, "Print a diff between each draft and its payload")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file holding one draft or a list of drafts")
	importTeacher := importCmd.String("teacher", "", "The teacher the questions are created for")

	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	tokenUser := tokenCmd.String("user", "", "The user ID")
	tokenRole := tokenCmd.String("role", "", "admin or teacher")
	tokenName := tokenCmd.String("name", "", "The user's display name")

	switch args[1] {
	case "validate":
		if err := validateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *validateFile == "" {
			validateCmd.Usage()
			return errHelp
		}
		return cli.validate(*validateFile, *validateTeacher)
	case "normalize":
		if err := normalizeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *normalizeFile == "" {
			normalizeCmd.Usage()
			return errHelp
		}
		return cli.normalize(*normalizeFile, *normalizeTeacher, *normalizeDiff)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" || *importTeacher == "" {
			importCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter API key:")
		key, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(key) == 0 {
			importCmd.Usage()
			return errHelp
		}
		return cli.importDrafts(*importFile, *importTeacher, string(key))
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenUser == "" || *tokenRole == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenUser, *tokenName, *tokenRole)
	default:
		cli.printUsage()
		return errHelp
	}
}
