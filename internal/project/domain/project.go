package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectFunding   ProjectStatus = "funding"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectPaused    ProjectStatus = "paused"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectFunding, ProjectActive, ProjectCompleted, ProjectPaused:
		return true
	}
	return false
}

// Project es una iniciativa de impacto que recibe inversiones en puntos.
type Project struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Summary      string        `json:"summary"`
	Category     string        `json:"category"`
	Producer     string        `json:"producer"`
	Location     string        `json:"location"`
	Lat          float64       `json:"lat"`
	Lng          float64       `json:"lng"`
	Tags         []string      `json:"tags"`
	Status       ProjectStatus `json:"status"`
	GoalPoints   int           `json:"goal_points"`
	RaisedPoints int           `json:"raised_points"`
	Featured     bool          `json:"featured"`
	ImageURL     string        `json:"image_url,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (p *Project) PartitionKey() string {
	return p.ID.String()
}

// --- Métodos de dominio ---

// Progress es la fracción financiada, entre 0 y 1.
func (p Project) Progress() float64 {
	if p.GoalPoints <= 0 {
		return 0
	}
	return min(float64(p.RaisedPoints)/float64(p.GoalPoints), 1)
}

// HasLocation indica si el proyecto se puede pintar en el mapa.
func (p Project) HasLocation() bool {
	return p.Lat != 0 || p.Lng != 0
}
