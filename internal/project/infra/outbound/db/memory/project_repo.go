package memory

import (
	"github.com/google/uuid"

	projectDomain "github.com/davicafu/makethechange/internal/project/domain"
	sharedMemory "github.com/davicafu/makethechange/internal/shared/infra/platform/db/memory"
)

type ProjectRepoMemory = sharedMemory.CatalogRepo[projectDomain.Project]

var _ projectDomain.ProjectRepository = (*ProjectRepoMemory)(nil)

func NewProjectRepoMemory(seed ...projectDomain.Project) *ProjectRepoMemory {
	repo := sharedMemory.NewCatalogRepo(
		func(p projectDomain.Project) uuid.UUID { return p.ID },
		sharedMemory.Fields[projectDomain.Project]{
			"title":         func(p projectDomain.Project) interface{} { return p.Title },
			"summary":       func(p projectDomain.Project) interface{} { return p.Summary },
			"location":      func(p projectDomain.Project) interface{} { return p.Location },
			"category":      func(p projectDomain.Project) interface{} { return p.Category },
			"producer":      func(p projectDomain.Project) interface{} { return p.Producer },
			"tags":          func(p projectDomain.Project) interface{} { return p.Tags },
			"status":        func(p projectDomain.Project) interface{} { return string(p.Status) },
			"goal_points":   func(p projectDomain.Project) interface{} { return p.GoalPoints },
			"raised_points": func(p projectDomain.Project) interface{} { return p.RaisedPoints },
			"featured":      func(p projectDomain.Project) interface{} { return p.Featured },
			"created_at":    func(p projectDomain.Project) interface{} { return p.CreatedAt },
		},
		projectDomain.ErrProjectNotFound,
	)
	repo.Seed(seed...)
	return repo
}
