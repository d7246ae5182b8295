package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadySubmitted   = errors.New("assignment already submitted")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id int) (Assignment, error)
		QueryAssignmentsBySection(ctx context.Context, sectionID int) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		DeleteAssignmentByID(ctx context.Context, id int) error

		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id int) (Submission, error)
		GetSubmissionByAssignmentAndStudent(ctx context.Context, assignmentID, studentID int) (Submission, error)
		QuerySubmissionsByAssignment(ctx context.Context, assignmentID int) ([]Submission, error)
		QuerySubmissionsByStudent(ctx context.Context, studentID int) ([]Submission, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, teacherID int, na NewAssignment) (Assignment, error) {
	asg := Assignment{
		SectionID:   na.SectionID,
		TeacherID:   teacherID,
		Title:       na.Title,
		Description: na.Description,
		Type:        na.Type,
		DueDate:     na.DueDate,
		CreatedAt:   time.Now().UTC(),
	}
	if na.FileURL != "" {
		asg.FileURL = null.StringFrom(na.FileURL)
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) BySection(ctx context.Context, sectionID int) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsBySection(ctx, sectionID)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteAssignmentByID(ctx, id)
}

// Submit records a student's submission; a student may submit once per assignment.
func (svc *Service) Submit(ctx context.Context, studentID int, ns NewSubmission) (Submission, error) {
	if _, err := svc.repo.GetAssignmentByID(ctx, ns.AssignmentID); err != nil {
		return Submission{}, err
	}
	if _, err := svc.repo.GetSubmissionByAssignmentAndStudent(ctx, ns.AssignmentID, studentID); err == nil {
		return Submission{}, ErrAlreadySubmitted
	} else if err != ErrSubmissionNotFound {
		return Submission{}, err
	}

	sub := Submission{
		AssignmentID: ns.AssignmentID,
		StudentID:    studentID,
		Comment:      ns.Comment,
		SubmittedAt:  time.Now().UTC(),
	}
	if ns.FileURL != "" {
		sub.FileURL = null.StringFrom(ns.FileURL)
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

func (svc *Service) GetSubmissionByID(ctx context.Context, id int) (Submission, error) {
	return svc.repo.GetSubmissionByID(ctx, id)
}

func (svc *Service) SubmissionsByAssignment(ctx context.Context, assignmentID int) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByAssignment(ctx, assignmentID)
}

func (svc *Service) SubmissionsByStudent(ctx context.Context, studentID int) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByStudent(ctx, studentID)
}

// Grade records the teacher's mark for a submission.
func (svc *Service) Grade(ctx context.Context, submissionID int, gs GradeSubmission) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	sub.Grade = null.Float64From(gs.Grade)
	return svc.repo.UpdateSubmission(ctx, sub)
}
