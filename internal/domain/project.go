// ABOUTME: Project domain: jobs the plant is producing for

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionProjects is the remote collection name for projects.
const CollectionProjects = "projects"

// ProjectStatus tracks a project through its production lifecycle.
type ProjectStatus string

const (
	ProjectBidding   ProjectStatus = "Bidding"
	ProjectActive    ProjectStatus = "Active"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCompleted ProjectStatus = "Completed"
)

// Project is one job in the plant's book.
type Project struct {
	entitystore.Meta
	Name     string        `json:"name"`
	Number   string        `json:"number,omitempty"`
	Customer string        `json:"customer,omitempty"`
	Location string        `json:"location,omitempty"`
	Status   ProjectStatus `json:"status,omitempty"`
	Notes    string        `json:"notes,omitempty"`
}

// NewProjectStore creates the project store.
func NewProjectStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[Project] {
	return entitystore.New(rs, entitystore.Config[Project]{
		Collection: CollectionProjects,
		Name:       func(p Project) string { return p.Name },
		SearchText: func(p Project) []string {
			return []string{p.Name, p.Number, p.Customer, p.Location}
		},
		Complete: func(p Project) bool {
			return p.Name != "" && p.Number != "" && p.Customer != ""
		},
		Logger: logger,
	})
}
