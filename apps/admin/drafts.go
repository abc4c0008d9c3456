package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	echoapi "github.com/trezcool/masomo-authoring/apps/api/echo"
	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

const cliUserID = "admin-cli"

// readDrafts reads a JSON file holding either one draft or a list of drafts.
func readDrafts(path string) ([]question.Draft, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading drafts")
	}
	data = bytes.TrimSpace(data)

	var drafts []question.Draft
	if bytes.HasPrefix(data, []byte("[")) {
		err = json.Unmarshal(data, &drafts)
	} else {
		var d question.Draft
		err = json.Unmarshal(data, &d)
		drafts = append(drafts, d)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return drafts, nil
}

func (cli *commandLine) authoringContext(teacher string) question.AuthoringContext {
	return question.AuthoringContext{
		Role:          question.RoleAdmin,
		SessionUserID: cliUserID,
		Teacher:       core.CleanString(teacher),
	}
}

func (cli *commandLine) validate(path, teacher string) error {
	drafts, err := readDrafts(path)
	if err != nil {
		return err
	}
	actx := cli.authoringContext(teacher)

	invalid := 0
	for i, d := range drafts {
		res := cli.engine.Validate(d, actx)
		if res.Valid() {
			fmt.Fprintf(cli.out, "draft #%d: ok\n", i+1)
			continue
		}
		invalid++
		for _, f := range res.Failures {
			fmt.Fprintf(cli.out, "draft #%d: %s: %s\n", i+1, f.Field, f.Error)
		}
	}
	if invalid > 0 {
		return errInvalidDrafts
	}
	return nil
}

func (cli *commandLine) normalize(path, teacher string, diff bool) error {
	drafts, err := readDrafts(path)
	if err != nil {
		return err
	}
	actx := cli.authoringContext(teacher)

	for i, d := range drafts {
		if err := cli.engine.Validate(d, actx).Err(); err != nil {
			return errors.Wrapf(err, "draft #%d", i+1)
		}
		p := question.Normalize(d, actx)

		out, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding payload")
		}
		if !diff {
			fmt.Fprintf(cli.out, "%s\n", out)
			continue
		}

		in, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding draft")
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(in) + "\n"),
			B:        difflib.SplitLines(string(out) + "\n"),
			FromFile: fmt.Sprintf("draft #%d", i+1),
			ToFile:   fmt.Sprintf("payload #%d", i+1),
			Context:  3,
		})
		if err != nil {
			return errors.Wrap(err, "diffing payload")
		}
		fmt.Fprint(cli.out, text)
	}
	return nil
}

// importDrafts submits every draft, stopping at the first invalid one.
// Nothing is submitted if any draft is invalid.
func (cli *commandLine) importDrafts(path, teacher, apiKey string) error {
	drafts, err := readDrafts(path)
	if err != nil {
		return err
	}
	actx := cli.authoringContext(teacher)

	svc := question.NewService(cli.newBackend(apiKey), cli.engine, cli.policy, cli.logger)
	for i, d := range drafts {
		if _, err := svc.Prepare(d, actx); err != nil {
			return errors.Wrapf(err, "draft #%d", i+1)
		}
	}

	ctx := context.Background()
	for i, d := range drafts {
		q, err := svc.Submit(ctx, d, actx)
		if err != nil {
			return errors.Wrapf(err, "importing draft #%d", i+1)
		}
		fmt.Fprintf(cli.out, "draft #%d: created %s\n", i+1, q.ID)
	}
	return nil
}

func (cli *commandLine) token(userID, name, role string) error {
	roles := map[string]string{"admin": question.RoleAdmin, "teacher": question.RoleTeacher}
	claimRole, ok := roles[core.CleanString(role, true /* lower */)]
	if !ok {
		return errors.Errorf("unknown role %q: expected admin or teacher", role)
	}
	token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, userID, name, claimRole))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
