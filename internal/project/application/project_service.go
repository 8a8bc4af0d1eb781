package application

import (
	"go.uber.org/zap"

	projectDomain "github.com/davicafu/makethechange/internal/project/domain"
	sharedApp "github.com/davicafu/makethechange/internal/shared/application"
	sharedCache "github.com/davicafu/makethechange/internal/shared/infra/platform/cache"
)

// ProjectService son los casos de uso del listado de proyectos.
type ProjectService = sharedApp.Catalog[projectDomain.Project, projectDomain.ProjectCriteria, projectDomain.ProjectPatch]

func NewProjectService(repo projectDomain.ProjectRepository, cache sharedCache.Cache, log *zap.Logger) *ProjectService {
	return sharedApp.NewCatalog[projectDomain.Project, projectDomain.ProjectCriteria, projectDomain.ProjectPatch](
		sharedApp.CatalogConfig[projectDomain.Project, projectDomain.ProjectCriteria]{
			Aggregate: projectDomain.ProjectAggregate,
			Defaults:  projectDomain.DefaultCriteria(),
			Mode:      projectDomain.PaginationMode,
			PageSize:  projectDomain.PageSize,
		},
		repo, cache, log,
	)
}
