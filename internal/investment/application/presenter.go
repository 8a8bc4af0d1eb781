package application

import (
	"fmt"
	"time"

	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	"github.com/davicafu/makethechange/internal/listing"
)

// ReturnsStep es lo que suma cada pulsación del contador de retornos.
const ReturnsStep = 10

var statusTones = map[investmentDomain.InvestmentStatus]string{
	investmentDomain.InvestmentPending:   "warning",
	investmentDomain.InvestmentConfirmed: "info",
	investmentDomain.InvestmentReturning: "success",
	investmentDomain.InvestmentClosed:    "neutral",
}

func PresentInvestment(inv investmentDomain.Investment, mode listing.ViewMode) listing.Card {
	card := listing.Card{
		ID:       inv.ID.String(),
		Title:    fmt.Sprintf("%s · %d pts", inv.Investor, inv.AmountPoints),
		Subtitle: inv.ProjectTitle,
		Href:     "/investments/" + inv.ID.String(),
		Badges: []listing.Badge{
			{Label: string(inv.Status), Tone: statusTones[inv.Status], Field: listing.FieldStatus, Value: string(inv.Status)},
			{Label: inv.ProjectTitle, Field: listing.FieldProject, Value: inv.ProjectID.String()},
		},
		Counters: []listing.Counter{{Field: "returns_received", Label: "Retornos", Value: float64(inv.ReturnsReceived), Step: ReturnsStep}},
	}
	if mode == listing.ViewList {
		card.Description = fmt.Sprintf("Retorno esperado: %d pts · invertido el %s", inv.ExpectedReturn, inv.CreatedAt.Format("02/01/2006"))
	}
	return card
}

var InvestmentPatches = listing.PatchBuilder[investmentDomain.InvestmentPatch]{
	Counter: func(field string, value float64) (investmentDomain.InvestmentPatch, error) {
		if field != "returns_received" {
			return investmentDomain.InvestmentPatch{}, listing.ErrUnknownField
		}
		return investmentDomain.ReturnsPatch(int(value)), nil
	},
}

func ApplyLocal(inv investmentDomain.Investment, patch investmentDomain.InvestmentPatch) investmentDomain.Investment {
	return patch.Apply(inv, inv.UpdatedAt)
}

func InvestmentID(inv investmentDomain.Investment) string { return inv.ID.String() }

func NewScreenConfig(
	fetcher listing.Fetcher[investmentDomain.Investment, investmentDomain.InvestmentCriteria],
	mutator listing.Mutator[investmentDomain.Investment, investmentDomain.InvestmentPatch],
	debounce time.Duration,
) listing.ScreenConfig[investmentDomain.Investment, investmentDomain.InvestmentCriteria, investmentDomain.InvestmentPatch] {
	return listing.ScreenConfig[investmentDomain.Investment, investmentDomain.InvestmentCriteria, investmentDomain.InvestmentPatch]{
		Defaults: investmentDomain.DefaultCriteria(),
		Mode:     investmentDomain.PaginationMode,
		PageSize: investmentDomain.PageSize,
		Fetcher:  fetcher,
		IDOf:     InvestmentID,
		Present:  PresentInvestment,
		Mutator:  mutator,
		Apply:    ApplyLocal,
		Patches:  InvestmentPatches,
		Debounce: debounce,
	}
}
