package question

import "github.com/trezcool/masomo-authoring/core"

// Normalize turns d into the minimal payload expected by the backend.
// Empty optional fields are left out rather than sent empty, so that updates never clobber server state:
//  - a general question carries neither course nor lesson, whatever the draft still holds
//  - a lesson is always sent along with the course it was selected under, never alone
//  - teacher is only sent by admins authoring on behalf of a teacher, and only if resolvable
// Normalize(Reload(Normalize(d))) == Normalize(d).
func Normalize(d Draft, actx AuthoringContext) Payload {
	p := Payload{
		Question:      core.CleanString(d.Text),
		QuestionType:  d.Type,
		CorrectAnswer: core.CleanString(d.CorrectAnswer),
		Explanation:   core.CleanString(d.Explanation),
		Difficulty:    d.Difficulty,
		Points:        d.Points.Float(),
		EstimatedTime: d.EstimatedTime.Float(),
		Tags:          normalizeTags(d.Tags),
		Image:         core.CleanString(d.Image),
		IsGeneral:     d.Scope.IsGeneral(),
	}

	if d.Type != TypeWritten && len(d.Answers) > 0 {
		p.Answers = make([]Answer, 0, len(d.Answers))
		for _, a := range d.Answers {
			p.Answers = append(p.Answers, Answer{Text: core.CleanString(a.Text), IsCorrect: a.IsCorrect})
		}
		p.Answers = renumber(p.Answers)
	}

	if !p.IsGeneral {
		p.Course = core.CleanString(d.Scope.CourseID)
		if p.Course != "" {
			p.Lesson = core.CleanString(d.Scope.LessonID)
		}
	}

	if actx.IsAdmin() {
		p.Teacher = actx.ResolveTeacher()
	}
	return p
}

// Reload turns a payload back into a draft, e.g. to edit a question returned by the backend.
func Reload(p Payload) Draft {
	d := Draft{
		Text:          p.Question,
		Type:          p.QuestionType,
		Answers:       append([]Answer{}, p.Answers...),
		CorrectAnswer: p.CorrectAnswer,
		Explanation:   p.Explanation,
		Difficulty:    p.Difficulty,
		Points:        Number(p.Points),
		EstimatedTime: Number(p.EstimatedTime),
		Tags:          append([]string{}, p.Tags...),
		Image:         p.Image,
		Scope:         Scope{Kind: ScopeGeneral},
	}
	if !p.IsGeneral {
		d.Scope = Scope{Kind: ScopeScoped, CourseID: p.Course, LessonID: p.Lesson}
	}
	return d
}

// normalizeTags trims tags and drops blanks and duplicates, keeping the first occurrence.
func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = core.CleanString(t)
		if t != "" && !hasTag(out, t) {
			out = append(out, t)
		}
	}
	return out
}
