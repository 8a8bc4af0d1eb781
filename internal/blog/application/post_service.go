package application

import (
	"go.uber.org/zap"

	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	sharedApp "github.com/davicafu/makethechange/internal/shared/application"
	sharedCache "github.com/davicafu/makethechange/internal/shared/infra/platform/cache"
)

// PostService son los casos de uso del blog.
type PostService = sharedApp.Catalog[blogDomain.Post, blogDomain.PostCriteria, blogDomain.PostPatch]

func NewPostService(repo blogDomain.PostRepository, cache sharedCache.Cache, log *zap.Logger) *PostService {
	return sharedApp.NewCatalog[blogDomain.Post, blogDomain.PostCriteria, blogDomain.PostPatch](
		sharedApp.CatalogConfig[blogDomain.Post, blogDomain.PostCriteria]{
			Aggregate: blogDomain.PostAggregate,
			Defaults:  blogDomain.DefaultCriteria(),
			Mode:      blogDomain.PaginationMode,
			PageSize:  blogDomain.PageSize,
		},
		repo, cache, log,
	)
}
