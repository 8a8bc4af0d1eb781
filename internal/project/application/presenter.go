package application

import (
	"fmt"
	"time"

	"github.com/davicafu/makethechange/internal/listing"
	projectDomain "github.com/davicafu/makethechange/internal/project/domain"
	"github.com/davicafu/makethechange/pkg/clock"
)

var statusTones = map[projectDomain.ProjectStatus]string{
	projectDomain.ProjectFunding:   "info",
	projectDomain.ProjectActive:    "success",
	projectDomain.ProjectCompleted: "neutral",
	projectDomain.ProjectPaused:    "warning",
}

// ViewModes: los proyectos también se ven en el mapa.
var ViewModes = []listing.ViewMode{listing.ViewGrid, listing.ViewList, listing.ViewMap}

// PresentProject es la card de un proyecto.
func PresentProject(p projectDomain.Project, mode listing.ViewMode) listing.Card {
	card := listing.Card{
		ID:       p.ID.String(),
		Title:    p.Title,
		Subtitle: fmt.Sprintf("%s · %s", p.Producer, p.Location),
		ImageURL: p.ImageURL,
		Href:     "/projects/" + p.ID.String(),
		Badges: []listing.Badge{
			{Label: p.Category, Field: listing.FieldCategory, Value: p.Category},
			{Label: string(p.Status), Tone: statusTones[p.Status], Field: listing.FieldStatus, Value: string(p.Status)},
			{Label: fmt.Sprintf("%.0f%%", p.Progress()*100)},
		},
		Toggles: []listing.Toggle{{Field: "featured", Label: "Destacado", On: p.Featured}},
	}
	if p.HasLocation() {
		card.Location = &listing.GeoPoint{Lat: p.Lat, Lng: p.Lng}
	}
	switch mode {
	case listing.ViewList:
		card.Description = p.Summary
		for _, tag := range p.Tags {
			card.Badges = append(card.Badges, listing.Badge{Label: "#" + tag, Field: listing.FieldTags, Value: tag})
		}
	case listing.ViewMap:
		// en el mapa solo caben título y estado
		card.Badges = card.Badges[1:2]
		card.ImageURL = ""
	}
	return card
}

var ProjectPatches = listing.PatchBuilder[projectDomain.ProjectPatch]{
	Toggle: func(field string, on bool) (projectDomain.ProjectPatch, error) {
		if field != "featured" {
			return projectDomain.ProjectPatch{}, listing.ErrUnknownField
		}
		return projectDomain.FeaturedPatch(on), nil
	},
}

func ApplyLocal(p projectDomain.Project, patch projectDomain.ProjectPatch) projectDomain.Project {
	return patch.Apply(p, p.UpdatedAt)
}

func ProjectID(p projectDomain.Project) string { return p.ID.String() }

func NewScreenConfig(
	fetcher listing.Fetcher[projectDomain.Project, projectDomain.ProjectCriteria],
	mutator listing.Mutator[projectDomain.Project, projectDomain.ProjectPatch],
	debounce time.Duration,
) listing.ScreenConfig[projectDomain.Project, projectDomain.ProjectCriteria, projectDomain.ProjectPatch] {
	return listing.ScreenConfig[projectDomain.Project, projectDomain.ProjectCriteria, projectDomain.ProjectPatch]{
		Defaults:          projectDomain.DefaultCriteria(),
		Mode:              projectDomain.PaginationMode,
		PageSize:          projectDomain.PageSize,
		Fetcher:           fetcher,
		IDOf:              ProjectID,
		Present:           PresentProject,
		Mutator:           mutator,
		Apply:             ApplyLocal,
		Patches:           ProjectPatches,
		Debounce:          debounce,
		ControllerOptions: []listing.ControllerOption{listing.WithViewModes(ViewModes...)},
	}
}

// NewMapMarkers engancha un MarkerFilter a la página visible: cada vez que
// cambia la lista se recalculan los marcadores.
func NewMapMarkers(
	screen *listing.Screen[projectDomain.Project, projectDomain.ProjectCriteria, projectDomain.ProjectPatch],
	c clock.Clock,
	onChange func([]listing.Card),
) (*listing.MarkerFilter, func()) {
	markers := listing.NewMarkerFilter(c, listing.DefaultMarkerDelay, onChange)
	unsubscribe := screen.List.Subscribe(func(s listing.ListState[projectDomain.Project]) {
		markers.SetCards(screen.Adapter.Cards(s.Items, listing.ViewMap))
	})
	return markers, unsubscribe
}
