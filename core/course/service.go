package course

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("course not found")

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		QueryCoursesByGrade(ctx context.Context, gradeID int) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourseByID(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	return svc.repo.CreateCourse(ctx, Course{Name: nc.Name, GradeID: nc.GradeID})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

// ByGrade feeds the grade → course cascading dropdown.
func (svc *Service) ByGrade(ctx context.Context, gradeID int) ([]Course, error) {
	return svc.repo.QueryCoursesByGrade(ctx, gradeID)
}

func (svc *Service) Update(ctx context.Context, id int, uc UpdateCourse) (Course, error) {
	return svc.repo.UpdateCourse(ctx, Course{ID: id, Name: uc.Name, GradeID: uc.GradeID})
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteCourseByID(ctx, id)
}
