package payment

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/edutrack/backend/core"
)

// Payment statuses.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusRejected  = "REJECTED"
)

var AllStatuses = []string{StatusPending, StatusCompleted, StatusRejected}

type Payment struct {
	ID            int       `json:"id"`
	StudentID     int       `json:"studentId"`
	InstitutionID int       `json:"institutionId"`
	Concept       string    `json:"concept"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Reference     string    `json:"reference"`
	PaidAt        null.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time `json:"createdAt"` // UTC
}

type NewPayment struct {
	Concept  string  `json:"concept" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3,alpha"`
}

func (np *NewPayment) Validate() error {
	np.Concept = core.CleanString(np.Concept)
	np.Currency = strings.ToUpper(core.CleanString(np.Currency))
	return core.Validate.Struct(np)
}

// UpdateStatus moves a payment through its lifecycle (admin side).
type UpdateStatus struct {
	Status string `json:"status" validate:"required,paymentstatus"`
}

func (us UpdateStatus) Validate() error { return core.Validate.Struct(us) }
