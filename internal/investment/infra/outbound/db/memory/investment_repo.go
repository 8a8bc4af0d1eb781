package memory

import (
	"github.com/google/uuid"

	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	sharedMemory "github.com/davicafu/makethechange/internal/shared/infra/platform/db/memory"
)

type InvestmentRepoMemory = sharedMemory.CatalogRepo[investmentDomain.Investment]

var _ investmentDomain.InvestmentRepository = (*InvestmentRepoMemory)(nil)

func NewInvestmentRepoMemory(seed ...investmentDomain.Investment) *InvestmentRepoMemory {
	repo := sharedMemory.NewCatalogRepo(
		func(i investmentDomain.Investment) uuid.UUID { return i.ID },
		sharedMemory.Fields[investmentDomain.Investment]{
			"project_id":       func(i investmentDomain.Investment) interface{} { return i.ProjectID.String() },
			"project_title":    func(i investmentDomain.Investment) interface{} { return i.ProjectTitle },
			"investor":         func(i investmentDomain.Investment) interface{} { return i.Investor },
			"status":           func(i investmentDomain.Investment) interface{} { return string(i.Status) },
			"amount_points":    func(i investmentDomain.Investment) interface{} { return i.AmountPoints },
			"returns_received": func(i investmentDomain.Investment) interface{} { return i.ReturnsReceived },
			"created_at":       func(i investmentDomain.Investment) interface{} { return i.CreatedAt },
		},
		investmentDomain.ErrInvestmentNotFound,
	)
	repo.Seed(seed...)
	return repo
}
