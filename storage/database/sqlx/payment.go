package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/edutrack/backend/core/payment"
)

type paymentRepository struct {
	db *sqlx.DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *sqlx.DB) *paymentRepository {
	return &paymentRepository{db: db}
}

type paymentRow struct {
	ID            int       `db:"id"`
	StudentID     int       `db:"student_id"`
	InstitutionID int       `db:"institution_id"`
	Concept       string    `db:"concept"`
	Amount        float64   `db:"amount"`
	Currency      string    `db:"currency"`
	Status        string    `db:"status"`
	Reference     string    `db:"reference"`
	PaidAt        null.Time `db:"paid_at"`
	CreatedAt     time.Time `db:"created_at"`
}

const selectPayment = `
SELECT id, student_id, institution_id, concept, amount, currency, status, reference, paid_at, created_at
FROM payment`

func (repo *paymentRepository) CreatePayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	const q = `
INSERT INTO payment (student_id, institution_id, concept, amount, currency, status, reference, paid_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`
	err := repo.db.GetContext(ctx, &pmt.ID, q,
		pmt.StudentID, pmt.InstitutionID, pmt.Concept, pmt.Amount, pmt.Currency,
		pmt.Status, pmt.Reference, pmt.PaidAt, pmt.CreatedAt)
	if err != nil {
		return payment.Payment{}, err
	}
	return pmt, nil
}

func (repo *paymentRepository) GetPaymentByID(ctx context.Context, id int) (payment.Payment, error) {
	var row paymentRow
	if err := repo.db.GetContext(ctx, &row, selectPayment+" WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return payment.Payment{}, payment.ErrNotFound
		}
		return payment.Payment{}, err
	}
	return payment.Payment(row), nil
}

func (repo *paymentRepository) QueryPaymentsByStudent(ctx context.Context, studentID int) ([]payment.Payment, error) {
	return repo.queryPayments(ctx, selectPayment+" WHERE student_id = $1 ORDER BY created_at DESC", studentID)
}

func (repo *paymentRepository) QueryPaymentsByInstitution(ctx context.Context, institutionID int) ([]payment.Payment, error) {
	return repo.queryPayments(ctx, selectPayment+" WHERE institution_id = $1 ORDER BY created_at DESC", institutionID)
}

func (repo *paymentRepository) UpdatePayment(ctx context.Context, pmt payment.Payment) error {
	const q = `UPDATE payment SET status = $1, paid_at = $2 WHERE id = $3`
	res, err := repo.db.ExecContext(ctx, q, pmt.Status, pmt.PaidAt, pmt.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return payment.ErrNotFound
	}
	return nil
}

func (repo *paymentRepository) CountPaymentsByInstitution(ctx context.Context, institutionID int) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM payment WHERE institution_id = $1`, institutionID)
	return count, err
}

func (repo *paymentRepository) queryPayments(ctx context.Context, query string, args ...interface{}) ([]payment.Payment, error) {
	var rows []paymentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	pmts := make([]payment.Payment, 0, len(rows))
	for _, row := range rows {
		pmts = append(pmts, payment.Payment(row))
	}
	return pmts, nil
}
