package profile

import (
	"context"
	"errors"

	"github.com/edutrack/backend/core/user"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
)

type (
	Repository interface {
		CreateTeacherProfile(ctx context.Context, tp TeacherProfile) (TeacherProfile, error)
		GetTeacherProfileByUser(ctx context.Context, userID int) (TeacherProfile, error)
		QueryTeachersByInstitution(ctx context.Context, institutionID int) ([]TeacherInfo, error)

		CreateStudentProfile(ctx context.Context, sp StudentProfile) (StudentProfile, error)
		GetStudentProfileByUser(ctx context.Context, userID int) (StudentProfile, error)
		QueryStudentsByInstitution(ctx context.Context, institutionID int) ([]StudentInfo, error)
		QueryStudentsByGradeAndInstitution(ctx context.Context, gradeID, institutionID int) ([]StudentInfo, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CompleteTeacher finishes the teacher profile wizard for the given user.
func (svc *Service) CompleteTeacher(ctx context.Context, usr user.User, np NewTeacherProfile) (TeacherProfile, error) {
	if _, err := svc.repo.GetTeacherProfileByUser(ctx, usr.ID); err == nil {
		return TeacherProfile{}, ErrAlreadyExists
	} else if err != ErrNotFound {
		return TeacherProfile{}, err
	}
	return svc.repo.CreateTeacherProfile(ctx, TeacherProfile{
		UserID:        usr.ID,
		InstitutionID: usr.InstitutionID,
		Specialty:     np.Specialty,
		Biography:     np.Biography,
	})
}

// CompleteStudent finishes the student profile wizard for the given user.
func (svc *Service) CompleteStudent(ctx context.Context, usr user.User, np NewStudentProfile) (StudentProfile, error) {
	if _, err := svc.repo.GetStudentProfileByUser(ctx, usr.ID); err == nil {
		return StudentProfile{}, ErrAlreadyExists
	} else if err != ErrNotFound {
		return StudentProfile{}, err
	}
	return svc.repo.CreateStudentProfile(ctx, StudentProfile{
		UserID:        usr.ID,
		InstitutionID: usr.InstitutionID,
		GradeID:       np.GradeID,
		Biography:     np.Biography,
	})
}

func (svc *Service) TeacherByUser(ctx context.Context, userID int) (TeacherProfile, error) {
	return svc.repo.GetTeacherProfileByUser(ctx, userID)
}

func (svc *Service) StudentByUser(ctx context.Context, userID int) (StudentProfile, error) {
	return svc.repo.GetStudentProfileByUser(ctx, userID)
}

// TeacherStatus reports whether the user still needs to complete a teacher profile.
func (svc *Service) TeacherStatus(ctx context.Context, userID int) (Status, error) {
	if _, err := svc.repo.GetTeacherProfileByUser(ctx, userID); err != nil {
		if err == ErrNotFound {
			return Status{NeedsProfileCompletion: true}, nil
		}
		return Status{}, err
	}
	return Status{}, nil
}

// StudentStatus reports whether the user still needs to complete a student profile.
func (svc *Service) StudentStatus(ctx context.Context, userID int) (Status, error) {
	if _, err := svc.repo.GetStudentProfileByUser(ctx, userID); err != nil {
		if err == ErrNotFound {
			return Status{NeedsProfileCompletion: true}, nil
		}
		return Status{}, err
	}
	return Status{}, nil
}

func (svc *Service) TeachersByInstitution(ctx context.Context, institutionID int) ([]TeacherInfo, error) {
	return svc.repo.QueryTeachersByInstitution(ctx, institutionID)
}

func (svc *Service) StudentsByInstitution(ctx context.Context, institutionID int) ([]StudentInfo, error) {
	return svc.repo.QueryStudentsByInstitution(ctx, institutionID)
}

// StudentsByGradeAndInstitution feeds the section form's roster picker.
func (svc *Service) StudentsByGradeAndInstitution(ctx context.Context, gradeID, institutionID int) ([]StudentInfo, error) {
	return svc.repo.QueryStudentsByGradeAndInstitution(ctx, gradeID, institutionID)
}
