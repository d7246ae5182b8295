// Package inmemdb provides map-backed repositories for tests and local runs
// without a Postgres instance. A single lock guards all tables so the
// cross-table listing queries stay consistent.
package inmemdb

import (
	"sync"

	"github.com/edutrack/backend/core/academic"
	"github.com/edutrack/backend/core/assignment"
	"github.com/edutrack/backend/core/course"
	"github.com/edutrack/backend/core/institution"
	"github.com/edutrack/backend/core/payment"
	"github.com/edutrack/backend/core/profile"
	"github.com/edutrack/backend/core/section"
	"github.com/edutrack/backend/core/user"
)

type levelAssignment struct {
	institutionID   int
	academicLevelID int
}

type DB struct {
	mu sync.RWMutex

	users  map[int]*user.User
	userPK int

	institutions  map[int]*institution.Institution
	institutionPK int

	levels  map[int]*academic.Level
	levelPK int

	grades  map[int]*academic.Grade
	gradePK int

	institutionLevels map[levelAssignment]struct{}

	courses  map[int]*course.Course
	coursePK int

	sections  map[int]*section.Section
	sectionPK int

	// sectionID -> roster
	sectionStudents map[int][]int

	teacherProfiles  map[int]*profile.TeacherProfile
	teacherProfilePK int

	studentProfiles  map[int]*profile.StudentProfile
	studentProfilePK int

	assignments  map[int]*assignment.Assignment
	assignmentPK int

	submissions  map[int]*assignment.Submission
	submissionPK int

	payments  map[int]*payment.Payment
	paymentPK int
}

func Open() (*DB, error) {
	db := &DB{
		users:             make(map[int]*user.User),
		institutions:      make(map[int]*institution.Institution),
		levels:            make(map[int]*academic.Level),
		grades:            make(map[int]*academic.Grade),
		institutionLevels: make(map[levelAssignment]struct{}),
		courses:           make(map[int]*course.Course),
		sections:          make(map[int]*section.Section),
		sectionStudents:   make(map[int][]int),
		teacherProfiles:   make(map[int]*profile.TeacherProfile),
		studentProfiles:   make(map[int]*profile.StudentProfile),
		assignments:       make(map[int]*assignment.Assignment),
		submissions:       make(map[int]*assignment.Submission),
		payments:          make(map[int]*payment.Payment),
	}
	return db, nil
}

// Reset empties every table and restarts the PK sequences.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.users = make(map[int]*user.User)
	db.userPK = 0
	db.institutions = make(map[int]*institution.Institution)
	db.institutionPK = 0
	db.levels = make(map[int]*academic.Level)
	db.levelPK = 0
	db.grades = make(map[int]*academic.Grade)
	db.gradePK = 0
	db.institutionLevels = make(map[levelAssignment]struct{})
	db.courses = make(map[int]*course.Course)
	db.coursePK = 0
	db.sections = make(map[int]*section.Section)
	db.sectionPK = 0
	db.sectionStudents = make(map[int][]int)
	db.teacherProfiles = make(map[int]*profile.TeacherProfile)
	db.teacherProfilePK = 0
	db.studentProfiles = make(map[int]*profile.StudentProfile)
	db.studentProfilePK = 0
	db.assignments = make(map[int]*assignment.Assignment)
	db.assignmentPK = 0
	db.submissions = make(map[int]*assignment.Submission)
	db.submissionPK = 0
	db.payments = make(map[int]*payment.Payment)
	db.paymentPK = 0
}
