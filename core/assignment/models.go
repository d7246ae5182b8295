package assignment

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/edutrack/backend/core"
)

// Assignment kinds.
const (
	TypeHomework = "HOMEWORK"
	TypeExam     = "EXAM"
	TypeMaterial = "MATERIAL"
)

var AllTypes = []string{TypeHomework, TypeExam, TypeMaterial}

type Assignment struct {
	ID          int         `json:"id"`
	SectionID   int         `json:"sectionId"`
	TeacherID   int         `json:"teacherId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	DueDate     time.Time   `json:"dueDate"`
	FileURL     null.String `json:"fileUrl,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"` // UTC
}

type Submission struct {
	ID           int          `json:"id"`
	AssignmentID int          `json:"assignmentId"`
	StudentID    int          `json:"studentId"`
	Comment      string       `json:"comment,omitempty"`
	FileURL      null.String  `json:"fileUrl,omitempty"`
	Grade        null.Float64 `json:"grade,omitempty"`
	SubmittedAt  time.Time    `json:"submittedAt"` // UTC
}

// NewAssignment is bound from the multipart form; the attachment itself is
// stored separately and arrives here as a URL.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Type        string    `json:"type" validate:"required,assignmenttype"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	SectionID   int       `json:"sectionId" validate:"required"`
	FileURL     string    `json:"-"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Type = core.CleanString(na.Type)
	return core.Validate.Struct(na)
}

type NewSubmission struct {
	AssignmentID int    `json:"assignmentId" validate:"required"`
	Comment      string `json:"comment"`
	FileURL      string `json:"-"`
}

func (ns *NewSubmission) Validate() error {
	ns.Comment = core.CleanString(ns.Comment)
	return core.Validate.Struct(ns)
}

// GradeSubmission records a teacher's mark for a submission, on a 0-100 scale.
type GradeSubmission struct {
	Grade float64 `json:"grade" validate:"gte=0,lte=100"`
}

func (gs GradeSubmission) Validate() error { return core.Validate.Struct(gs) }
