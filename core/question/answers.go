package question

import (
	ut "github.com/go-playground/universal-translator"

	"github.com/trezcool/masomo-authoring/core"
)

const minMCQAnswers = 2

// AnswerPolicy keeps a draft's answers consistent with its question type.
// All operations are pure: the input draft is never modified.
type AnswerPolicy struct {
	TrueLabel  string
	FalseLabel string
}

var DefaultAnswerPolicy = AnswerPolicy{TrueLabel: "True", FalseLabel: "False"}

// NewAnswerPolicy returns a policy whose true/false answers are labelled in the translator's locale.
func NewAnswerPolicy(translator ut.Translator) AnswerPolicy {
	msgs := core.LocaleTexts(translator, texts)
	return AnswerPolicy{TrueLabel: msgs[trueLabelKey], FalseLabel: msgs[falseLabelKey]}
}

// OnTypeChange reshapes the answers for type t.
//
// Switching to TypeTrueFalse discards any existing answers, including authored MCQ answers:
// true/false answers are fixed labels, not user text. Switching to TypeWritten empties the answers
// and CorrectAnswer becomes the authoritative field. Switching to TypeMCQ only seeds a blank answer
// when there are none.
func (p AnswerPolicy) OnTypeChange(d Draft, t Type) Draft {
	d = d.Clone()
	d.Type = t
	switch t {
	case TypeTrueFalse:
		d.Answers = []Answer{
			{Text: p.TrueLabel, Order: 1},
			{Text: p.FalseLabel, Order: 2},
		}
	case TypeWritten:
		d.Answers = []Answer{}
	case TypeMCQ:
		if len(d.Answers) == 0 {
			d.Answers = []Answer{{Order: 1}}
		}
	}
	return d
}

// AddAnswer appends a blank MCQ answer.
// TRUE_FALSE and WRITTEN questions have a fixed answer set: adding to them fails with an *InvariantError.
func AddAnswer(d Draft) (Draft, error) {
	if d.Type != TypeMCQ {
		return d, newInvariantError("addAnswer", "%s questions have a fixed answer set", d.Type)
	}
	d = d.Clone()
	d.Answers = append(d.Answers, Answer{Order: len(d.Answers) + 1})
	return d, nil
}

// RemoveAnswer removes the answer at index i and renumbers the rest from 1.
// Only MCQ answers can be removed, and an MCQ question never goes below two answers:
// TRUE_FALSE and WRITTEN drafts fail with an *InvariantError like any out of range index.
func RemoveAnswer(d Draft, i int) (Draft, error) {
	switch {
	case d.Type != TypeMCQ:
		return d, newInvariantError("removeAnswer", "%s questions have a fixed answer set", d.Type)
	case !inRange(d, i):
		return d, newInvariantError("removeAnswer", "answer index %d out of range [0, %d)", i, len(d.Answers))
	case len(d.Answers)-1 < minMCQAnswers:
		return d, newInvariantError("removeAnswer", "a multiple choice question needs at least %d answers", minMCQAnswers)
	}

	answers := make([]Answer, 0, len(d.Answers)-1)
	answers = append(answers, d.Answers[:i]...)
	answers = append(answers, d.Answers[i+1:]...)
	d = d.Clone()
	d.Answers = renumber(answers)
	return d, nil
}

// SetCorrect flags the answer at index i.
// For true/false questions, marking an answer correct unmarks every other one.
// MCQ questions may have several correct answers.
func SetCorrect(d Draft, i int, value bool) (Draft, error) {
	if !inRange(d, i) {
		return d, newInvariantError("setCorrect", "answer index %d out of range [0, %d)", i, len(d.Answers))
	}
	d = d.Clone()
	if d.Type == TypeTrueFalse && value {
		for j := range d.Answers {
			d.Answers[j].IsCorrect = false
		}
	}
	d.Answers[i].IsCorrect = value
	return d, nil
}

func SetText(d Draft, i int, text string) (Draft, error) {
	if !inRange(d, i) {
		return d, newInvariantError("setText", "answer index %d out of range [0, %d)", i, len(d.Answers))
	}
	d = d.Clone()
	d.Answers[i].Text = text
	return d, nil
}

// AddTag appends tag unless blank or already present (case-sensitive).
func AddTag(d Draft, tag string) Draft {
	tag = core.CleanString(tag)
	if tag == "" || hasTag(d.Tags, tag) {
		return d
	}
	d = d.Clone()
	d.Tags = append(d.Tags, tag)
	return d
}

func RemoveTag(d Draft, tag string) Draft {
	tag = core.CleanString(tag)
	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	d = d.Clone()
	d.Tags = tags
	return d
}

// SetImage stores the reference returned by the image upload service; "" clears it.
func SetImage(d Draft, ref string) Draft {
	d.Image = core.CleanString(ref)
	return d
}

func inRange(d Draft, i int) bool {
	return i >= 0 && i < len(d.Answers)
}

func renumber(answers []Answer) []Answer {
	for i := range answers {
		answers[i].Order = i + 1
	}
	return answers
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
