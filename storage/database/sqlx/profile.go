package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/backend/core/profile"
)

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *sqlx.DB) *profileRepository {
	return &profileRepository{db: db}
}

type teacherProfileRow struct {
	ID            int    `db:"id"`
	UserID        int    `db:"user_id"`
	InstitutionID int    `db:"institution_id"`
	Specialty     string `db:"specialty"`
	Biography     string `db:"biography"`
}

type studentProfileRow struct {
	ID            int    `db:"id"`
	UserID        int    `db:"user_id"`
	InstitutionID int    `db:"institution_id"`
	GradeID       int    `db:"grade_id"`
	Biography     string `db:"biography"`
}

func (repo *profileRepository) CreateTeacherProfile(ctx context.Context, tp profile.TeacherProfile) (profile.TeacherProfile, error) {
	const q = `
INSERT INTO teacher_profile (user_id, institution_id, specialty, biography)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err := repo.db.GetContext(ctx, &tp.ID, q, tp.UserID, tp.InstitutionID, tp.Specialty, tp.Biography); err != nil {
		return profile.TeacherProfile{}, err
	}
	return tp, nil
}

func (repo *profileRepository) GetTeacherProfileByUser(ctx context.Context, userID int) (profile.TeacherProfile, error) {
	var row teacherProfileRow
	const q = `SELECT id, user_id, institution_id, specialty, biography FROM teacher_profile WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return profile.TeacherProfile{}, profile.ErrNotFound
		}
		return profile.TeacherProfile{}, err
	}
	return profile.TeacherProfile(row), nil
}

func (repo *profileRepository) QueryTeachersByInstitution(ctx context.Context, institutionID int) ([]profile.TeacherInfo, error) {
	const q = `
SELECT tp.id, tp.user_id, u.name || ' ' || u.lastname AS full_name, u.email, tp.specialty
FROM teacher_profile tp
JOIN "user" u ON u.id = tp.user_id
WHERE tp.institution_id = $1
ORDER BY u.lastname, u.name`

	var rows []struct {
		ID        int    `db:"id"`
		UserID    int    `db:"user_id"`
		FullName  string `db:"full_name"`
		Email     string `db:"email"`
		Specialty string `db:"specialty"`
	}
	if err := repo.db.SelectContext(ctx, &rows, q, institutionID); err != nil {
		return nil, err
	}
	infos := make([]profile.TeacherInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, profile.TeacherInfo(row))
	}
	return infos, nil
}

func (repo *profileRepository) CreateStudentProfile(ctx context.Context, sp profile.StudentProfile) (profile.StudentProfile, error) {
	const q = `
INSERT INTO student_profile (user_id, institution_id, grade_id, biography)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err := repo.db.GetContext(ctx, &sp.ID, q, sp.UserID, sp.InstitutionID, sp.GradeID, sp.Biography); err != nil {
		return profile.StudentProfile{}, err
	}
	return sp, nil
}

func (repo *profileRepository) GetStudentProfileByUser(ctx context.Context, userID int) (profile.StudentProfile, error) {
	var row studentProfileRow
	const q = `SELECT id, user_id, institution_id, grade_id, biography FROM student_profile WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return profile.StudentProfile{}, profile.ErrNotFound
		}
		return profile.StudentProfile{}, err
	}
	return profile.StudentProfile(row), nil
}

func (repo *profileRepository) QueryStudentsByInstitution(ctx context.Context, institutionID int) ([]profile.StudentInfo, error) {
	return repo.queryStudents(ctx, `WHERE sp.institution_id = $1`, institutionID)
}

func (repo *profileRepository) QueryStudentsByGradeAndInstitution(ctx context.Context, gradeID, institutionID int) ([]profile.StudentInfo, error) {
	return repo.queryStudents(ctx, `WHERE sp.grade_id = $1 AND sp.institution_id = $2`, gradeID, institutionID)
}

func (repo *profileRepository) queryStudents(ctx context.Context, where string, args ...interface{}) ([]profile.StudentInfo, error) {
	q := `
SELECT sp.id, sp.user_id, u.name, u.lastname, u.email, sp.grade_id, g.name AS grade_name
FROM student_profile sp
JOIN "user" u ON u.id = sp.user_id
JOIN grade g ON g.id = sp.grade_id
` + where + `
ORDER BY u.lastname, u.name`

	var rows []struct {
		ID        int    `db:"id"`
		UserID    int    `db:"user_id"`
		Name      string `db:"name"`
		Lastname  string `db:"lastname"`
		Email     string `db:"email"`
		GradeID   int    `db:"grade_id"`
		GradeName string `db:"grade_name"`
	}
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	infos := make([]profile.StudentInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, profile.StudentInfo(row))
	}
	return infos, nil
}
