package domain

import (
	"fmt"
	"strings"
	"time"

	shared "github.com/davicafu/makethechange/internal/shared/domain"
)

// ProjectPatch son los campos editables desde el listado. nil = sin tocar.
type ProjectPatch struct {
	Featured *bool          `json:"featured,omitempty"`
	Status   *ProjectStatus `json:"status,omitempty"`
}

func FeaturedPatch(on bool) ProjectPatch { return ProjectPatch{Featured: &on} }

func StatusPatch(s ProjectStatus) ProjectPatch { return ProjectPatch{Status: &s} }

func (p ProjectPatch) Key() string {
	var fields []string
	if p.Featured != nil {
		fields = append(fields, "featured")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return strings.Join(fields, ",")
}

func (p ProjectPatch) Validate() error {
	if p.Key() == "" {
		return fmt.Errorf("%w: no fields to update", shared.ErrInvalidPatch)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidPatch, *p.Status)
	}
	return nil
}

func (p ProjectPatch) Apply(project Project, now time.Time) Project {
	project.Tags = append([]string(nil), project.Tags...)
	if p.Featured != nil {
		project.Featured = *p.Featured
	}
	if p.Status != nil {
		project.Status = *p.Status
	}
	project.UpdatedAt = now
	return project
}
