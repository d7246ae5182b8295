package inmemdb

import (
	"context"
	"sort"

	"github.com/edutrack/backend/core/payment"
)

type paymentRepository struct {
	db *DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) *paymentRepository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) CreatePayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.paymentPK++
	pmt.ID = repo.db.paymentPK
	repo.db.payments[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *paymentRepository) GetPaymentByID(ctx context.Context, id int) (payment.Payment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if pmt, ok := repo.db.payments[id]; ok {
		return *pmt, nil
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) QueryPaymentsByStudent(ctx context.Context, studentID int) ([]payment.Payment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.queryPayments(func(pmt payment.Payment) bool { return pmt.StudentID == studentID }), nil
}

func (repo *paymentRepository) QueryPaymentsByInstitution(ctx context.Context, institutionID int) ([]payment.Payment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.queryPayments(func(pmt payment.Payment) bool { return pmt.InstitutionID == institutionID }), nil
}

func (repo *paymentRepository) UpdatePayment(ctx context.Context, pmt payment.Payment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.payments[pmt.ID]; !ok {
		return payment.ErrNotFound
	}
	repo.db.payments[pmt.ID] = &pmt
	return nil
}

func (repo *paymentRepository) CountPaymentsByInstitution(ctx context.Context, institutionID int) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var count int
	for _, pmt := range repo.db.payments {
		if pmt.InstitutionID == institutionID {
			count++
		}
	}
	return count, nil
}

func (repo *paymentRepository) queryPayments(match func(payment.Payment) bool) []payment.Payment {
	var pmts []payment.Payment
	for _, pmt := range repo.db.payments {
		if match(*pmt) {
			pmts = append(pmts, *pmt)
		}
	}
	// newest first, matching the SQL ordering
	sort.Slice(pmts, func(i, j int) bool { return pmts[i].ID > pmts[j].ID })
	return pmts
}
