package domain

import (
	"time"

	"github.com/google/uuid"
)

type InvestmentStatus string

const (
	InvestmentPending   InvestmentStatus = "pending"
	InvestmentConfirmed InvestmentStatus = "confirmed"
	InvestmentReturning InvestmentStatus = "returning"
	InvestmentClosed    InvestmentStatus = "closed"
)

func (s InvestmentStatus) Valid() bool {
	switch s {
	case InvestmentPending, InvestmentConfirmed, InvestmentReturning, InvestmentClosed:
		return true
	}
	return false
}

// Investment son los puntos que un inversor aporta a un proyecto.
type Investment struct {
	ID              uuid.UUID        `json:"id"`
	ProjectID       uuid.UUID        `json:"project_id"`
	ProjectTitle    string           `json:"project_title"`
	Investor        string           `json:"investor"`
	AmountPoints    int              `json:"amount_points"`
	ExpectedReturn  int              `json:"expected_return"`
	ReturnsReceived int              `json:"returns_received"`
	Status          InvestmentStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (i *Investment) PartitionKey() string {
	return i.ProjectID.String()
}

// --- Métodos de dominio ---

// SetReturns registra los retornos cobrados. Una inversión confirmada pasa a
// "returning" con el primer retorno y se cierra al cobrar lo esperado.
func (i *Investment) SetReturns(points int, now time.Time) {
	i.ReturnsReceived = points
	switch {
	case i.ExpectedReturn > 0 && points >= i.ExpectedReturn && i.Status != InvestmentPending:
		i.Status = InvestmentClosed
	case points > 0 && i.Status == InvestmentConfirmed:
		i.Status = InvestmentReturning
	}
	i.UpdatedAt = now
}
