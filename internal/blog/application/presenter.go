package application

import (
	"fmt"
	"time"

	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	"github.com/davicafu/makethechange/internal/listing"
)

// Topics clasifica los posts por tema a partir del título y el extracto.
var Topics = listing.NewClassifier(
	listing.Rule{Category: "Comunidad", Tone: "neutral"},
	listing.Rule{Category: "Medio ambiente", Tone: "success", Keywords: []string{"bosque", "reforest", "árbol", "clima", "biodiversidad"}},
	listing.Rule{Category: "Energía", Tone: "warning", Keywords: []string{"solar", "energía", "eólic", "placas"}},
	listing.Rule{Category: "Agua", Tone: "info", Keywords: []string{"agua", "pozo", "río", "riego"}},
	listing.Rule{Category: "Inversión", Tone: "info", Keywords: []string{"inversión", "retorno", "puntos"}},
)

var statusTones = map[blogDomain.PostStatus]string{
	blogDomain.PostDraft:     "neutral",
	blogDomain.PostPublished: "success",
	blogDomain.PostArchived:  "muted",
}

func PresentPost(p blogDomain.Post, mode listing.ViewMode) listing.Card {
	card := listing.Card{
		ID:       p.ID.String(),
		Title:    p.Title,
		Subtitle: fmt.Sprintf("%s · %d min", p.Author, p.ReadMinutes),
		ImageURL: p.CoverURL,
		Href:     "/blog/" + p.Slug,
		Badges: []listing.Badge{
			// el tema es derivado, no filtra
			Topics.Badge("", p.Title, p.Excerpt),
			{Label: p.Author, Field: listing.FieldAuthor, Value: p.Author},
			{Label: string(p.Status), Tone: statusTones[p.Status], Field: listing.FieldStatus, Value: string(p.Status)},
		},
		Toggles: []listing.Toggle{{Field: "featured", Label: "Destacado", On: p.Featured}},
	}
	if mode == listing.ViewList {
		card.Description = p.Excerpt
		if !p.PublishedAt.IsZero() {
			card.Subtitle += " · " + p.PublishedAt.Format("02/01/2006")
		}
		for _, tag := range p.Tags {
			card.Badges = append(card.Badges, listing.Badge{Label: "#" + tag, Field: listing.FieldTags, Value: tag})
		}
	}
	return card
}

var PostPatches = listing.PatchBuilder[blogDomain.PostPatch]{
	Toggle: func(field string, on bool) (blogDomain.PostPatch, error) {
		if field != "featured" {
			return blogDomain.PostPatch{}, listing.ErrUnknownField
		}
		return blogDomain.FeaturedPatch(on), nil
	},
}

func ApplyLocal(p blogDomain.Post, patch blogDomain.PostPatch) blogDomain.Post {
	return patch.Apply(p, p.UpdatedAt)
}

func PostID(p blogDomain.Post) string { return p.ID.String() }

func NewScreenConfig(
	fetcher listing.Fetcher[blogDomain.Post, blogDomain.PostCriteria],
	mutator listing.Mutator[blogDomain.Post, blogDomain.PostPatch],
	debounce time.Duration,
) listing.ScreenConfig[blogDomain.Post, blogDomain.PostCriteria, blogDomain.PostPatch] {
	return listing.ScreenConfig[blogDomain.Post, blogDomain.PostCriteria, blogDomain.PostPatch]{
		Defaults: blogDomain.DefaultCriteria(),
		Mode:     blogDomain.PaginationMode,
		PageSize: blogDomain.PageSize,
		Fetcher:  fetcher,
		IDOf:     PostID,
		Present:  PresentPost,
		Mutator:  mutator,
		Apply:    ApplyLocal,
		Patches:  PostPatches,
		Debounce: debounce,
	}
}
