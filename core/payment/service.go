package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var (
	ErrNotFound      = errors.New("payment not found")
	ErrInvalidStatus = errors.New("invalid payment status")
)

const defaultCurrency = "USD"

type Repository interface {
	CreatePayment(ctx context.Context, pmt Payment) (Payment, error)
	GetPaymentByID(ctx context.Context, id int) (Payment, error)
	QueryPaymentsByStudent(ctx context.Context, studentID int) ([]Payment, error)
	QueryPaymentsByInstitution(ctx context.Context, institutionID int) ([]Payment, error)
	UpdatePayment(ctx context.Context, pmt Payment) error
	CountPaymentsByInstitution(ctx context.Context, institutionID int) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a pending payment for a student. The reference is
// generated server-side and handed to the payment processor later.
func (svc *Service) Create(ctx context.Context, np NewPayment, studentID, institutionID int) (Payment, error) {
	if err := np.Validate(); err != nil {
		return Payment{}, err
	}
	currency := np.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	pmt := Payment{
		StudentID:     studentID,
		InstitutionID: institutionID,
		Concept:       np.Concept,
		Amount:        np.Amount,
		Currency:      currency,
		Status:        StatusPending,
		Reference:     uuid.New().String(),
		CreatedAt:     time.Now().UTC(),
	}
	return svc.repo.CreatePayment(ctx, pmt)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Payment, error) {
	return svc.repo.GetPaymentByID(ctx, id)
}

func (svc *Service) ByStudent(ctx context.Context, studentID int) ([]Payment, error) {
	return svc.repo.QueryPaymentsByStudent(ctx, studentID)
}

func (svc *Service) ByInstitution(ctx context.Context, institutionID int) ([]Payment, error) {
	return svc.repo.QueryPaymentsByInstitution(ctx, institutionID)
}

// SetStatus transitions a payment; completing one stamps paidAt.
func (svc *Service) SetStatus(ctx context.Context, id int, us UpdateStatus) (Payment, error) {
	if err := us.Validate(); err != nil {
		return Payment{}, err
	}
	pmt, err := svc.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	pmt.Status = us.Status
	if us.Status == StatusCompleted && !pmt.PaidAt.Valid {
		pmt.PaidAt = null.TimeFrom(time.Now().UTC())
	}
	if err := svc.repo.UpdatePayment(ctx, pmt); err != nil {
		return Payment{}, err
	}
	return pmt, nil
}

func (svc *Service) CountByInstitution(ctx context.Context, institutionID int) (int, error) {
	return svc.repo.CountPaymentsByInstitution(ctx, institutionID)
}
