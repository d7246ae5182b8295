package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/edutrack/backend/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

type assignmentRow struct {
	ID          int         `db:"id"`
	SectionID   int         `db:"section_id"`
	TeacherID   int         `db:"teacher_id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Type        string      `db:"type"`
	DueDate     time.Time   `db:"due_date"`
	FileURL     null.String `db:"file_url"`
	CreatedAt   time.Time   `db:"created_at"`
}

type submissionRow struct {
	ID           int          `db:"id"`
	AssignmentID int          `db:"assignment_id"`
	StudentID    int          `db:"student_id"`
	Comment      string       `db:"comment"`
	FileURL      null.String  `db:"file_url"`
	Grade        null.Float64 `db:"grade"`
	SubmittedAt  time.Time    `db:"submitted_at"`
}

const (
	selectAssignment = `
SELECT id, section_id, teacher_id, title, description, type, due_date, file_url, created_at
FROM assignment`

	selectSubmission = `
SELECT id, assignment_id, student_id, comment, file_url, grade, submitted_at
FROM submission`
)

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	const q = `
INSERT INTO assignment (section_id, teacher_id, title, description, type, due_date, file_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	err := repo.db.GetContext(ctx, &asg.ID, q,
		asg.SectionID, asg.TeacherID, asg.Title, asg.Description, asg.Type, asg.DueDate, asg.FileURL, asg.CreatedAt)
	if err != nil {
		return assignment.Assignment{}, err
	}
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id int) (assignment.Assignment, error) {
	var row assignmentRow
	if err := repo.db.GetContext(ctx, &row, selectAssignment+" WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, err
	}
	return assignment.Assignment(row), nil
}

func (repo *assignmentRepository) QueryAssignmentsBySection(ctx context.Context, sectionID int) ([]assignment.Assignment, error) {
	var rows []assignmentRow
	if err := repo.db.SelectContext(ctx, &rows, selectAssignment+" WHERE section_id = $1 ORDER BY due_date", sectionID); err != nil {
		return nil, err
	}
	asgs := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		asgs = append(asgs, assignment.Assignment(row))
	}
	return asgs, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	const q = `
UPDATE assignment
SET title = $1, description = $2, type = $3, due_date = $4, file_url = $5
WHERE id = $6`
	res, err := repo.db.ExecContext(ctx, q, asg.Title, asg.Description, asg.Type, asg.DueDate, asg.FileURL, asg.ID)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return asg, nil
}

func (repo *assignmentRepository) DeleteAssignmentByID(ctx context.Context, id int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM assignment WHERE id = $1`, id)
	return err
}

func (repo *assignmentRepository) CreateSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	const q = `
INSERT INTO submission (assignment_id, student_id, comment, file_url, grade, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := repo.db.GetContext(ctx, &sub.ID, q,
		sub.AssignmentID, sub.StudentID, sub.Comment, sub.FileURL, sub.Grade, sub.SubmittedAt)
	if err != nil {
		return assignment.Submission{}, err
	}
	return sub, nil
}

func (repo *assignmentRepository) GetSubmissionByID(ctx context.Context, id int) (assignment.Submission, error) {
	return repo.getSubmission(ctx, selectSubmission+" WHERE id = $1", id)
}

func (repo *assignmentRepository) GetSubmissionByAssignmentAndStudent(ctx context.Context, assignmentID, studentID int) (assignment.Submission, error) {
	return repo.getSubmission(ctx, selectSubmission+" WHERE assignment_id = $1 AND student_id = $2", assignmentID, studentID)
}

func (repo *assignmentRepository) getSubmission(ctx context.Context, query string, args ...interface{}) (assignment.Submission, error) {
	var row submissionRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Submission{}, assignment.ErrSubmissionNotFound
		}
		return assignment.Submission{}, err
	}
	return assignment.Submission(row), nil
}

func (repo *assignmentRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID int) ([]assignment.Submission, error) {
	return repo.querySubmissions(ctx, selectSubmission+" WHERE assignment_id = $1 ORDER BY submitted_at", assignmentID)
}

func (repo *assignmentRepository) QuerySubmissionsByStudent(ctx context.Context, studentID int) ([]assignment.Submission, error) {
	return repo.querySubmissions(ctx, selectSubmission+" WHERE student_id = $1 ORDER BY submitted_at", studentID)
}

func (repo *assignmentRepository) querySubmissions(ctx context.Context, query string, args ...interface{}) ([]assignment.Submission, error) {
	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	subs := make([]assignment.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, assignment.Submission(row))
	}
	return subs, nil
}

func (repo *assignmentRepository) UpdateSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	const q = `UPDATE submission SET comment = $1, file_url = $2, grade = $3 WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, q, sub.Comment, sub.FileURL, sub.Grade, sub.ID)
	if err != nil {
		return assignment.Submission{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	return sub, nil
}
