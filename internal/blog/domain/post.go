package domain

import (
	"time"

	"github.com/google/uuid"
)

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostDraft, PostPublished, PostArchived:
		return true
	}
	return false
}

// Post es una entrada del blog.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	Status      PostStatus `json:"status"`
	Featured    bool       `json:"featured"`
	Views       int        `json:"views"`
	ReadMinutes int        `json:"read_minutes"`
	CoverURL    string     `json:"cover_url,omitempty"`
	PublishedAt time.Time  `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Post) PartitionKey() string {
	return p.ID.String()
}

// --- Métodos de dominio ---

// SetStatus cambia el estado. La primera publicación fija PublishedAt.
func (p *Post) SetStatus(s PostStatus, now time.Time) {
	p.Status = s
	if s == PostPublished && p.PublishedAt.IsZero() {
		p.PublishedAt = now
	}
	p.UpdatedAt = now
}
