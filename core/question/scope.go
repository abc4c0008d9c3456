package question

import "github.com/trezcool/masomo-authoring/core"

type ScopeState string

const (
	StateGeneral               ScopeState = "GENERAL"
	StateScopedNoCourse        ScopeState = "SCOPED_NO_COURSE"
	StateScopedCourseOnly      ScopeState = "SCOPED_COURSE_ONLY"
	StateScopedCourseAndLesson ScopeState = "SCOPED_COURSE_AND_LESSON"
)

// State reports where s stands in the general > course > lesson hierarchy.
// A scope seeded with a lesson but no course reports StateScopedCourseAndLesson.
func (s Scope) State() ScopeState {
	switch {
	case s.IsGeneral():
		return StateGeneral
	case s.LessonID != "":
		return StateScopedCourseAndLesson
	case s.CourseID != "":
		return StateScopedCourseOnly
	default:
		return StateScopedNoCourse
	}
}

type CandidateStatus string

const (
	CandidatesLoading CandidateStatus = "loading"
	CandidatesEmpty   CandidateStatus = "empty"
	CandidatesReady   CandidateStatus = "ready"
)

type (
	// Option is a selectable course or lesson.
	Option struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	// Candidates is a fetched list of courses or lessons, which may still be loading.
	Candidates struct {
		Loading bool     `json:"loading"`
		Items   []Option `json:"items"`
	}
)

func LoadingCandidates() Candidates {
	return Candidates{Loading: true}
}

func ReadyCandidates(items []Option) Candidates {
	if items == nil {
		items = []Option{}
	}
	return Candidates{Items: items}
}

// Empty reports a loaded list with no items. This is not an error.
func (c Candidates) Empty() bool {
	return !c.Loading && len(c.Items) == 0
}

func (c Candidates) Status() CandidateStatus {
	switch {
	case c.Loading:
		return CandidatesLoading
	case len(c.Items) == 0:
		return CandidatesEmpty
	default:
		return CandidatesReady
	}
}

func (c Candidates) Contains(id string) bool {
	for _, opt := range c.Items {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// ScopeResolver applies course/lesson picks to a Scope, cascading resets down the hierarchy.
// It never fails: incomplete scopes are reported at validation time.
type ScopeResolver struct {
	Courses Candidates
	Lessons Candidates
}

// SetGeneral toggles the general scope. Going general drops any course and lesson;
// going back to scoped keeps the current selection if the scope already was scoped.
func (r ScopeResolver) SetGeneral(s Scope, general bool) Scope {
	if general {
		return Scope{Kind: ScopeGeneral}
	}
	if s.Kind == ScopeScoped {
		return s
	}
	return Scope{Kind: ScopeScoped}
}

// SelectCourse binds the scope to courseID and always clears the lesson,
// since a lesson belongs to exactly one course.
func (r ScopeResolver) SelectCourse(s Scope, courseID string) Scope {
	return Scope{Kind: ScopeScoped, CourseID: core.CleanString(courseID)}
}

// SelectLesson binds the scope to lessonID under the currently selected course.
// It is a no-op while no course is selected, and picking is blocked while lessons are still loading.
// An empty lessonID clears the lesson only.
func (r ScopeResolver) SelectLesson(s Scope, lessonID string) Scope {
	lessonID = core.CleanString(lessonID)
	if s.Kind != ScopeScoped || s.CourseID == "" {
		return s
	}
	if lessonID != "" && r.Lessons.Loading {
		return s
	}
	return Scope{Kind: ScopeScoped, CourseID: s.CourseID, LessonID: lessonID}
}

// LessonSelectionEnabled reports whether a lesson can be picked for s.
func (r ScopeResolver) LessonSelectionEnabled(s Scope) bool {
	return s.Kind == ScopeScoped && s.CourseID != "" && !r.Lessons.Loading
}
