package academic

import (
	"context"
	"errors"
)

var (
	ErrLevelNotFound = errors.New("academic level not found")
	ErrGradeNotFound = errors.New("grade not found")
)

type (
	Repository interface {
		CreateLevel(ctx context.Context, lvl Level) (Level, error)
		QueryAllLevels(ctx context.Context) ([]Level, error)
		GetLevelByID(ctx context.Context, id int) (Level, error)
		UpdateLevel(ctx context.Context, lvl Level) (Level, error)
		DeleteLevelByID(ctx context.Context, id int) error

		CreateGrade(ctx context.Context, grd Grade) (Grade, error)
		QueryAllGrades(ctx context.Context) ([]Grade, error)
		GetGradeByID(ctx context.Context, id int) (Grade, error)
		QueryGradesByLevel(ctx context.Context, levelID int) ([]Grade, error)
		UpdateGrade(ctx context.Context, grd Grade) (Grade, error)
		DeleteGradeByID(ctx context.Context, id int) error

		AssignLevelToInstitution(ctx context.Context, institutionID, levelID int) error
		UnassignLevelFromInstitution(ctx context.Context, institutionID, levelID int) error
		QueryLevelsByInstitution(ctx context.Context, institutionID int) ([]Level, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateLevel(ctx context.Context, nl NewLevel) (Level, error) {
	return svc.repo.CreateLevel(ctx, Level{Name: nl.Name})
}

func (svc *Service) QueryAllLevels(ctx context.Context) ([]Level, error) {
	return svc.repo.QueryAllLevels(ctx)
}

func (svc *Service) GetLevelByID(ctx context.Context, id int) (Level, error) {
	return svc.repo.GetLevelByID(ctx, id)
}

func (svc *Service) UpdateLevel(ctx context.Context, id int, nl NewLevel) (Level, error) {
	return svc.repo.UpdateLevel(ctx, Level{ID: id, Name: nl.Name})
}

func (svc *Service) DeleteLevel(ctx context.Context, id int) error {
	return svc.repo.DeleteLevelByID(ctx, id)
}

func (svc *Service) CreateGrade(ctx context.Context, ng NewGrade) (Grade, error) {
	if _, err := svc.repo.GetLevelByID(ctx, ng.AcademicLevelID); err != nil {
		return Grade{}, err
	}
	return svc.repo.CreateGrade(ctx, Grade{Name: ng.Name, AcademicLevelID: ng.AcademicLevelID})
}

func (svc *Service) QueryAllGrades(ctx context.Context) ([]Grade, error) {
	return svc.repo.QueryAllGrades(ctx)
}

func (svc *Service) GetGradeByID(ctx context.Context, id int) (Grade, error) {
	return svc.repo.GetGradeByID(ctx, id)
}

// GradesByLevel feeds the level → grade cascading dropdown.
func (svc *Service) GradesByLevel(ctx context.Context, levelID int) ([]Grade, error) {
	return svc.repo.QueryGradesByLevel(ctx, levelID)
}

func (svc *Service) UpdateGrade(ctx context.Context, id int, ug UpdateGrade) (Grade, error) {
	return svc.repo.UpdateGrade(ctx, Grade{ID: id, Name: ug.Name, AcademicLevelID: ug.AcademicLevelID})
}

func (svc *Service) DeleteGrade(ctx context.Context, id int) error {
	return svc.repo.DeleteGradeByID(ctx, id)
}

func (svc *Service) AssignLevel(ctx context.Context, al AssignLevel) error {
	if _, err := svc.repo.GetLevelByID(ctx, al.AcademicLevelID); err != nil {
		return err
	}
	return svc.repo.AssignLevelToInstitution(ctx, al.InstitutionID, al.AcademicLevelID)
}

func (svc *Service) UnassignLevel(ctx context.Context, al AssignLevel) error {
	return svc.repo.UnassignLevelFromInstitution(ctx, al.InstitutionID, al.AcademicLevelID)
}

// LevelsByInstitution feeds the institution → level cascading dropdown.
func (svc *Service) LevelsByInstitution(ctx context.Context, institutionID int) ([]Level, error) {
	return svc.repo.QueryLevelsByInstitution(ctx, institutionID)
}
