// ABOUTME: Contact domain: customers, inspectors, and suppliers

package domain

import (
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionContacts is the remote collection name for contacts.
const CollectionContacts = "contacts"

// Contact is one person or company contact.
type Contact struct {
	entitystore.Meta
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Role    string `json:"role,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// NewContactStore creates the contact store.
func NewContactStore(rs remote.Store, logger *slog.Logger) *entitystore.Store[Contact] {
	return entitystore.New(rs, entitystore.Config[Contact]{
		Collection: CollectionContacts,
		Name:       func(c Contact) string { return c.Name },
		SearchText: func(c Contact) []string {
			return []string{c.Name, c.Company, c.Email}
		},
		Complete: func(c Contact) bool {
			return c.Name != "" && (c.Phone != "" || c.Email != "")
		},
		Logger: logger,
	})
}
