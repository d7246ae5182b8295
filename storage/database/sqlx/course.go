package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/backend/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type courseRow struct {
	ID      int    `db:"id"`
	Name    string `db:"name"`
	GradeID int    `db:"grade_id"`
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	const q = `INSERT INTO course (name, grade_id) VALUES ($1, $2) RETURNING id`
	if err := repo.db.GetContext(ctx, &crs.ID, q, crs.Name, crs.GradeID); err != nil {
		return course.Course{}, err
	}
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	return repo.queryCourses(ctx, `SELECT id, name, grade_id FROM course ORDER BY id`)
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT id, name, grade_id FROM course WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, err
	}
	return course.Course(row), nil
}

func (repo *courseRepository) QueryCoursesByGrade(ctx context.Context, gradeID int) ([]course.Course, error) {
	return repo.queryCourses(ctx, `SELECT id, name, grade_id FROM course WHERE grade_id = $1 ORDER BY id`, gradeID)
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE course SET name = $1, grade_id = $2 WHERE id = $3`, crs.Name, crs.GradeID, crs.ID)
	if err != nil {
		return course.Course{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo *courseRepository) DeleteCourseByID(ctx context.Context, id int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	return err
}

func (repo *courseRepository) queryCourses(ctx context.Context, query string, args ...interface{}) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, course.Course(row))
	}
	return courses, nil
}
