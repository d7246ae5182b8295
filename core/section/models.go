package section

import "github.com/edutrack/backend/core"

type Section struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	CourseID      int    `json:"courseId"`
	TeacherID     int    `json:"teacherId"`
	InstitutionID int    `json:"institutionId"`
}

// Info is the expanded listing shape the console tables render: the section
// plus the display names of its course/grade/level/teacher and its roster size.
type Info struct {
	Section
	CourseName      string `json:"courseName"`
	GradeID         int    `json:"gradeId"`
	GradeName       string `json:"gradeName"`
	AcademicLevelID int    `json:"academicLevelId"`
	LevelName       string `json:"academicLevelName"`
	TeacherFullName string `json:"teacherFullName"`
	InstitutionName string `json:"institutionName"`
	StudentCount    int    `json:"studentCount"`
}

// Student is a roster entry.
type Student struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Lastname      string `json:"lastname"`
	Email         string `json:"email"`
	Grade         string `json:"grade"`
	AcademicLevel string `json:"academicLevel"`
}

// StudentAverage is the per-student grade average the teacher's section
// detail view shows.
type StudentAverage struct {
	StudentID    int     `json:"studentId"`
	StudentName  string  `json:"studentName"`
	AverageGrade float64 `json:"averageGrade"`
}

type NewSection struct {
	Name       string `json:"name" validate:"required"`
	CourseID   int    `json:"courseId" validate:"required"`
	TeacherID  int    `json:"teacherId" validate:"required"`
	StudentIDs []int  `json:"studentIds"`
}

func (ns *NewSection) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

type UpdateSection struct {
	Name      string `json:"name"`
	CourseID  int    `json:"courseId"`
	TeacherID int    `json:"teacherId"`
}

func (us *UpdateSection) Validate(orig Section) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if us.CourseID == 0 {
		us.CourseID = orig.CourseID
	}
	if us.TeacherID == 0 {
		us.TeacherID = orig.TeacherID
	}
	return core.Validate.Struct(us)
}

// AssignStudents replaces a section's roster.
type AssignStudents struct {
	StudentIDs []int `json:"studentIds" validate:"required"`
}

func (as AssignStudents) Validate() error { return core.Validate.Struct(as) }
