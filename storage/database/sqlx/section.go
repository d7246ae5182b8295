package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/backend/core/section"
)

type sectionRepository struct {
	db *sqlx.DB
}

var _ section.Repository = (*sectionRepository)(nil) // interface compliance check

func NewSectionRepository(db *sqlx.DB) *sectionRepository {
	return &sectionRepository{db: db}
}

type sectionRow struct {
	ID            int    `db:"id"`
	Name          string `db:"name"`
	CourseID      int    `db:"course_id"`
	TeacherID     int    `db:"teacher_id"`
	InstitutionID int    `db:"institution_id"`
}

type sectionInfoRow struct {
	sectionRow
	CourseName      string `db:"course_name"`
	GradeID         int    `db:"grade_id"`
	GradeName       string `db:"grade_name"`
	AcademicLevelID int    `db:"academic_level_id"`
	LevelName       string `db:"level_name"`
	TeacherFullName string `db:"teacher_full_name"`
	InstitutionName string `db:"institution_name"`
	StudentCount    int    `db:"student_count"`
}

func (r sectionInfoRow) toInfo() section.Info {
	return section.Info{
		Section:         section.Section(r.sectionRow),
		CourseName:      r.CourseName,
		GradeID:         r.GradeID,
		GradeName:       r.GradeName,
		AcademicLevelID: r.AcademicLevelID,
		LevelName:       r.LevelName,
		TeacherFullName: r.TeacherFullName,
		InstitutionName: r.InstitutionName,
		StudentCount:    r.StudentCount,
	}
}

const selectSectionInfo = `
SELECT s.id, s.name, s.course_id, s.teacher_id, s.institution_id,
       c.name AS course_name,
       g.id AS grade_id, g.name AS grade_name,
       al.id AS academic_level_id, al.name AS level_name,
       u.name || ' ' || u.lastname AS teacher_full_name,
       i.name AS institution_name,
       (SELECT COUNT(*) FROM section_student ss WHERE ss.section_id = s.id) AS student_count
FROM section s
JOIN course c ON c.id = s.course_id
JOIN grade g ON g.id = c.grade_id
JOIN academic_level al ON al.id = g.academic_level_id
JOIN "user" u ON u.id = s.teacher_id
JOIN institution i ON i.id = s.institution_id`

func (repo *sectionRepository) CreateSection(ctx context.Context, sec section.Section) (section.Section, error) {
	const q = `INSERT INTO section (name, course_id, teacher_id, institution_id) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.GetContext(ctx, &sec.ID, q, sec.Name, sec.CourseID, sec.TeacherID, sec.InstitutionID); err != nil {
		return section.Section{}, err
	}
	return sec, nil
}

func (repo *sectionRepository) GetSectionByID(ctx context.Context, id int) (section.Section, error) {
	var row sectionRow
	const q = `SELECT id, name, course_id, teacher_id, institution_id FROM section WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return section.Section{}, section.ErrNotFound
		}
		return section.Section{}, err
	}
	return section.Section(row), nil
}

func (repo *sectionRepository) GetSectionInfoByID(ctx context.Context, id int) (section.Info, error) {
	var row sectionInfoRow
	if err := repo.db.GetContext(ctx, &row, selectSectionInfo+" WHERE s.id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return section.Info{}, section.ErrNotFound
		}
		return section.Info{}, err
	}
	return row.toInfo(), nil
}

func (repo *sectionRepository) QuerySectionsByInstitution(ctx context.Context, institutionID int) ([]section.Info, error) {
	return repo.queryInfos(ctx, selectSectionInfo+" WHERE s.institution_id = $1 ORDER BY s.id", institutionID)
}

func (repo *sectionRepository) QuerySectionsByTeacher(ctx context.Context, teacherID int) ([]section.Info, error) {
	return repo.queryInfos(ctx, selectSectionInfo+" WHERE s.teacher_id = $1 ORDER BY s.id", teacherID)
}

func (repo *sectionRepository) QuerySectionsByStudent(ctx context.Context, studentID int) ([]section.Info, error) {
	const q = selectSectionInfo + `
JOIN section_student sst ON sst.section_id = s.id
WHERE sst.student_id = $1
ORDER BY s.id`
	return repo.queryInfos(ctx, q, studentID)
}

func (repo *sectionRepository) queryInfos(ctx context.Context, query string, args ...interface{}) ([]section.Info, error) {
	var rows []sectionInfoRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	infos := make([]section.Info, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, row.toInfo())
	}
	return infos, nil
}

func (repo *sectionRepository) UpdateSection(ctx context.Context, sec section.Section) (section.Section, error) {
	const q = `UPDATE section SET name = $1, course_id = $2, teacher_id = $3 WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, q, sec.Name, sec.CourseID, sec.TeacherID, sec.ID)
	if err != nil {
		return section.Section{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return section.Section{}, section.ErrNotFound
	}
	return sec, nil
}

func (repo *sectionRepository) DeleteSectionByID(ctx context.Context, id int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM section WHERE id = $1`, id)
	return err
}

func (repo *sectionRepository) CountSectionsByInstitution(ctx context.Context, institutionID int) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM section WHERE institution_id = $1`, institutionID)
	return count, err
}

// SetSectionStudents replaces the roster in a single transaction.
func (repo *sectionRepository) SetSectionStudents(ctx context.Context, sectionID int, studentIDs []int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM section_student WHERE section_id = $1`, sectionID); err != nil {
		return err
	}
	for _, studentID := range studentIDs {
		const q = `INSERT INTO section_student (section_id, student_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, q, sectionID, studentID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (repo *sectionRepository) QuerySectionStudents(ctx context.Context, sectionID int) ([]section.Student, error) {
	const q = `
SELECT u.id, u.name, u.lastname, u.email, g.name AS grade, al.name AS academic_level
FROM section_student ss
JOIN "user" u ON u.id = ss.student_id
LEFT JOIN student_profile sp ON sp.user_id = u.id
LEFT JOIN grade g ON g.id = sp.grade_id
LEFT JOIN academic_level al ON al.id = g.academic_level_id
WHERE ss.section_id = $1
ORDER BY u.lastname, u.name`

	var rows []struct {
		ID            int            `db:"id"`
		Name          string         `db:"name"`
		Lastname      string         `db:"lastname"`
		Email         string         `db:"email"`
		Grade         sql.NullString `db:"grade"`
		AcademicLevel sql.NullString `db:"academic_level"`
	}
	if err := repo.db.SelectContext(ctx, &rows, q, sectionID); err != nil {
		return nil, err
	}
	students := make([]section.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, section.Student{
			ID:            row.ID,
			Name:          row.Name,
			Lastname:      row.Lastname,
			Email:         row.Email,
			Grade:         row.Grade.String,
			AcademicLevel: row.AcademicLevel.String,
		})
	}
	return students, nil
}

func (repo *sectionRepository) QueryStudentAverages(ctx context.Context, sectionID int) ([]section.StudentAverage, error) {
	const q = `
SELECT u.id AS student_id,
       u.name || ' ' || u.lastname AS student_name,
       COALESCE(AVG(sub.grade), 0) AS average_grade
FROM section_student ss
JOIN "user" u ON u.id = ss.student_id
LEFT JOIN assignment a ON a.section_id = ss.section_id
LEFT JOIN submission sub ON sub.assignment_id = a.id AND sub.student_id = u.id AND sub.grade IS NOT NULL
WHERE ss.section_id = $1
GROUP BY u.id, u.name, u.lastname
ORDER BY u.lastname, u.name`

	var rows []struct {
		StudentID    int     `db:"student_id"`
		StudentName  string  `db:"student_name"`
		AverageGrade float64 `db:"average_grade"`
	}
	if err := repo.db.SelectContext(ctx, &rows, q, sectionID); err != nil {
		return nil, err
	}
	averages := make([]section.StudentAverage, 0, len(rows))
	for _, row := range rows {
		averages = append(averages, section.StudentAverage(row))
	}
	return averages, nil
}
