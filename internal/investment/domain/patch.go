package domain

import (
	"fmt"
	"strings"
	"time"

	shared "github.com/davicafu/makethechange/internal/shared/domain"
)

// InvestmentPatch son los campos editables desde el listado. nil = sin tocar.
type InvestmentPatch struct {
	ReturnsReceived *int              `json:"returns_received,omitempty"`
	Status          *InvestmentStatus `json:"status,omitempty"`
}

func ReturnsPatch(points int) InvestmentPatch { return InvestmentPatch{ReturnsReceived: &points} }

func StatusPatch(s InvestmentStatus) InvestmentPatch { return InvestmentPatch{Status: &s} }

func (p InvestmentPatch) Key() string {
	var fields []string
	if p.ReturnsReceived != nil {
		fields = append(fields, "returns_received")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return strings.Join(fields, ",")
}

func (p InvestmentPatch) Validate() error {
	if p.Key() == "" {
		return fmt.Errorf("%w: no fields to update", shared.ErrInvalidPatch)
	}
	if p.ReturnsReceived != nil && *p.ReturnsReceived < 0 {
		return fmt.Errorf("%w: returns must be >= 0", shared.ErrInvalidPatch)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidPatch, *p.Status)
	}
	return nil
}

// Apply devuelve una copia con el patch aplicado. Un estado explícito gana
// al que derivarían los retornos.
func (p InvestmentPatch) Apply(inv Investment, now time.Time) Investment {
	if p.ReturnsReceived != nil {
		inv.SetReturns(*p.ReturnsReceived, now)
	}
	if p.Status != nil {
		inv.Status = *p.Status
	}
	inv.UpdatedAt = now
	return inv
}
