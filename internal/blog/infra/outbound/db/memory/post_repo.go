package memory

import (
	"github.com/google/uuid"

	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	sharedMemory "github.com/davicafu/makethechange/internal/shared/infra/platform/db/memory"
)

type PostRepoMemory = sharedMemory.CatalogRepo[blogDomain.Post]

var _ blogDomain.PostRepository = (*PostRepoMemory)(nil)

func NewPostRepoMemory(seed ...blogDomain.Post) *PostRepoMemory {
	repo := sharedMemory.NewCatalogRepo(
		func(p blogDomain.Post) uuid.UUID { return p.ID },
		sharedMemory.Fields[blogDomain.Post]{
			"title":        func(p blogDomain.Post) interface{} { return p.Title },
			"excerpt":      func(p blogDomain.Post) interface{} { return p.Excerpt },
			"author":       func(p blogDomain.Post) interface{} { return p.Author },
			"tags":         func(p blogDomain.Post) interface{} { return p.Tags },
			"status":       func(p blogDomain.Post) interface{} { return string(p.Status) },
			"featured":     func(p blogDomain.Post) interface{} { return p.Featured },
			"views":        func(p blogDomain.Post) interface{} { return p.Views },
			"published_at": func(p blogDomain.Post) interface{} { return p.PublishedAt },
		},
		blogDomain.ErrPostNotFound,
	)
	repo.Seed(seed...)
	return repo
}
