package dummydb

import (
	"sync"

	"github.com/trezcool/masomo-authoring/core/question"
)

type (
	// DB is an in-memory question backend, for DEV & TEST.
	DB struct {
		course   *courseTable
		lesson   *lessonTable
		question *questionTable
	}

	course struct {
		question.Option
		ownerID string
	}

	lesson struct {
		question.Option
		courseID string
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course
	}

	lessonTable struct {
		sync.RWMutex
		table map[string]*lesson
	}

	questionTable struct {
		sync.RWMutex
		table map[string]*question.Question
	}
)

func Open() *DB {
	return &DB{
		course:   &courseTable{table: make(map[string]*course)},
		lesson:   &lessonTable{table: make(map[string]*lesson)},
		question: &questionTable{table: make(map[string]*question.Question)},
	}
}

// OpenDemo returns a DB seeded with a small catalog owned by DemoTeacher.
func OpenDemo() *DB {
	db := Open()
	maths := db.AddCourse(DemoTeacher, "Mathematics")
	db.AddLesson(maths.ID, "Fractions")
	db.AddLesson(maths.ID, "Equations")
	physics := db.AddCourse(DemoTeacher, "Physics")
	db.AddLesson(physics.ID, "Optics")
	db.AddCourse(DemoTeacher, "History")
	return db
}

const DemoTeacher = "demo-teacher"
