package domain

import (
	"fmt"
	"strings"
	"time"

	shared "github.com/davicafu/makethechange/internal/shared/domain"
)

// PostPatch son los campos editables desde el listado. nil = sin tocar.
type PostPatch struct {
	Featured *bool       `json:"featured,omitempty"`
	Status   *PostStatus `json:"status,omitempty"`
}

func FeaturedPatch(on bool) PostPatch { return PostPatch{Featured: &on} }

func StatusPatch(s PostStatus) PostPatch { return PostPatch{Status: &s} }

func (p PostPatch) Key() string {
	var fields []string
	if p.Featured != nil {
		fields = append(fields, "featured")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return strings.Join(fields, ",")
}

func (p PostPatch) Validate() error {
	if p.Key() == "" {
		return fmt.Errorf("%w: no fields to update", shared.ErrInvalidPatch)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidPatch, *p.Status)
	}
	return nil
}

func (p PostPatch) Apply(post Post, now time.Time) Post {
	post.Tags = append([]string(nil), post.Tags...)
	if p.Featured != nil {
		post.Featured = *p.Featured
	}
	if p.Status != nil {
		post.SetStatus(*p.Status, now)
	}
	post.UpdatedAt = now
	return post
}
