package section

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("section not found")

type (
	Repository interface {
		CreateSection(ctx context.Context, sec Section) (Section, error)
		GetSectionByID(ctx context.Context, id int) (Section, error)
		GetSectionInfoByID(ctx context.Context, id int) (Info, error)
		QuerySectionsByInstitution(ctx context.Context, institutionID int) ([]Info, error)
		QuerySectionsByTeacher(ctx context.Context, teacherID int) ([]Info, error)
		QuerySectionsByStudent(ctx context.Context, studentID int) ([]Info, error)
		UpdateSection(ctx context.Context, sec Section) (Section, error)
		DeleteSectionByID(ctx context.Context, id int) error
		CountSectionsByInstitution(ctx context.Context, institutionID int) (int, error)

		// SetSectionStudents replaces the section's roster.
		SetSectionStudents(ctx context.Context, sectionID int, studentIDs []int) error
		QuerySectionStudents(ctx context.Context, sectionID int) ([]Student, error)
		QueryStudentAverages(ctx context.Context, sectionID int) ([]StudentAverage, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, institutionID int, ns NewSection) (Section, error) {
	sec, err := svc.repo.CreateSection(ctx, Section{
		Name:          ns.Name,
		CourseID:      ns.CourseID,
		TeacherID:     ns.TeacherID,
		InstitutionID: institutionID,
	})
	if err != nil {
		return Section{}, err
	}
	if len(ns.StudentIDs) > 0 {
		if err := svc.repo.SetSectionStudents(ctx, sec.ID, ns.StudentIDs); err != nil {
			return Section{}, err
		}
	}
	return sec, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Section, error) {
	return svc.repo.GetSectionByID(ctx, id)
}

func (svc *Service) GetInfoByID(ctx context.Context, id int) (Info, error) {
	return svc.repo.GetSectionInfoByID(ctx, id)
}

func (svc *Service) ByInstitution(ctx context.Context, institutionID int) ([]Info, error) {
	return svc.repo.QuerySectionsByInstitution(ctx, institutionID)
}

func (svc *Service) ByTeacher(ctx context.Context, teacherID int) ([]Info, error) {
	return svc.repo.QuerySectionsByTeacher(ctx, teacherID)
}

func (svc *Service) ByStudent(ctx context.Context, studentID int) ([]Info, error) {
	return svc.repo.QuerySectionsByStudent(ctx, studentID)
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateSection) (Section, error) {
	orig, err := svc.repo.GetSectionByID(ctx, id)
	if err != nil {
		return Section{}, err
	}
	return svc.repo.UpdateSection(ctx, Section{
		ID:            id,
		Name:          us.Name,
		CourseID:      us.CourseID,
		TeacherID:     us.TeacherID,
		InstitutionID: orig.InstitutionID,
	})
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteSectionByID(ctx, id)
}

func (svc *Service) CountByInstitution(ctx context.Context, institutionID int) (int, error) {
	return svc.repo.CountSectionsByInstitution(ctx, institutionID)
}

func (svc *Service) AssignStudents(ctx context.Context, sectionID int, as AssignStudents) error {
	if _, err := svc.repo.GetSectionByID(ctx, sectionID); err != nil {
		return err
	}
	return svc.repo.SetSectionStudents(ctx, sectionID, as.StudentIDs)
}

func (svc *Service) Students(ctx context.Context, sectionID int) ([]Student, error) {
	return svc.repo.QuerySectionStudents(ctx, sectionID)
}

func (svc *Service) StudentAverages(ctx context.Context, sectionID int) ([]StudentAverage, error) {
	return svc.repo.QueryStudentAverages(ctx, sectionID)
}
