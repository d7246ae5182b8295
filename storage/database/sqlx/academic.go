package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/backend/core/academic"
)

type academicRepository struct {
	db *sqlx.DB
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *sqlx.DB) *academicRepository {
	return &academicRepository{db: db}
}

type levelRow struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

type gradeRow struct {
	ID              int    `db:"id"`
	Name            string `db:"name"`
	AcademicLevelID int    `db:"academic_level_id"`
}

func (repo *academicRepository) CreateLevel(ctx context.Context, lvl academic.Level) (academic.Level, error) {
	if err := repo.db.GetContext(ctx, &lvl.ID, `INSERT INTO academic_level (name) VALUES ($1) RETURNING id`, lvl.Name); err != nil {
		return academic.Level{}, err
	}
	return lvl, nil
}

func (repo *academicRepository) QueryAllLevels(ctx context.Context) ([]academic.Level, error) {
	return repo.queryLevels(ctx, `SELECT id, name FROM academic_level ORDER BY id`)
}

func (repo *academicRepository) GetLevelByID(ctx context.Context, id int) (academic.Level, error) {
	var row levelRow
	if err := repo.db.GetContext(ctx, &row, `SELECT id, name FROM academic_level WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return academic.Level{}, academic.ErrLevelNotFound
		}
		return academic.Level{}, err
	}
	return academic.Level(row), nil
}

func (repo *academicRepository) UpdateLevel(ctx context.Context, lvl academic.Level) (academic.Level, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE academic_level SET name = $1 WHERE id = $2`, lvl.Name, lvl.ID)
	if err != nil {
		return academic.Level{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return academic.Level{}, academic.ErrLevelNotFound
	}
	return lvl, nil
}

func (repo *academicRepository) DeleteLevelByID(ctx context.Context, id int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM academic_level WHERE id = $1`, id)
	return err
}

func (repo *academicRepository) CreateGrade(ctx context.Context, grd academic.Grade) (academic.Grade, error) {
	const q = `INSERT INTO grade (name, academic_level_id) VALUES ($1, $2) RETURNING id`
	if err := repo.db.GetContext(ctx, &grd.ID, q, grd.Name, grd.AcademicLevelID); err != nil {
		return academic.Grade{}, err
	}
	return grd, nil
}

func (repo *academicRepository) QueryAllGrades(ctx context.Context) ([]academic.Grade, error) {
	return repo.queryGrades(ctx, `SELECT id, name, academic_level_id FROM grade ORDER BY id`)
}

func (repo *academicRepository) GetGradeByID(ctx context.Context, id int) (academic.Grade, error) {
	var row gradeRow
	if err := repo.db.GetContext(ctx, &row, `SELECT id, name, academic_level_id FROM grade WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return academic.Grade{}, academic.ErrGradeNotFound
		}
		return academic.Grade{}, err
	}
	return academic.Grade(row), nil
}

func (repo *academicRepository) QueryGradesByLevel(ctx context.Context, levelID int) ([]academic.Grade, error) {
	return repo.queryGrades(ctx, `SELECT id, name, academic_level_id FROM grade WHERE academic_level_id = $1 ORDER BY id`, levelID)
}

func (repo *academicRepository) UpdateGrade(ctx context.Context, grd academic.Grade) (academic.Grade, error) {
	const q = `UPDATE grade SET name = $1, academic_level_id = $2 WHERE id = $3`
	res, err := repo.db.ExecContext(ctx, q, grd.Name, grd.AcademicLevelID, grd.ID)
	if err != nil {
		return academic.Grade{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return academic.Grade{}, academic.ErrGradeNotFound
	}
	return grd, nil
}

func (repo *academicRepository) DeleteGradeByID(ctx context.Context, id int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM grade WHERE id = $1`, id)
	return err
}

func (repo *academicRepository) AssignLevelToInstitution(ctx context.Context, institutionID, levelID int) error {
	const q = `
INSERT INTO institution_level (institution_id, academic_level_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`
	_, err := repo.db.ExecContext(ctx, q, institutionID, levelID)
	return err
}

func (repo *academicRepository) UnassignLevelFromInstitution(ctx context.Context, institutionID, levelID int) error {
	const q = `DELETE FROM institution_level WHERE institution_id = $1 AND academic_level_id = $2`
	_, err := repo.db.ExecContext(ctx, q, institutionID, levelID)
	return err
}

func (repo *academicRepository) QueryLevelsByInstitution(ctx context.Context, institutionID int) ([]academic.Level, error) {
	const q = `
SELECT al.id, al.name
FROM academic_level al
JOIN institution_level il ON il.academic_level_id = al.id
WHERE il.institution_id = $1
ORDER BY al.id`
	return repo.queryLevels(ctx, q, institutionID)
}

func (repo *academicRepository) queryLevels(ctx context.Context, query string, args ...interface{}) ([]academic.Level, error) {
	var rows []levelRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	levels := make([]academic.Level, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, academic.Level(row))
	}
	return levels, nil
}

func (repo *academicRepository) queryGrades(ctx context.Context, query string, args ...interface{}) ([]academic.Grade, error) {
	var rows []gradeRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	grades := make([]academic.Grade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, academic.Grade(row))
	}
	return grades, nil
}
