// ABOUTME: Pour schedule domain: dated bed pours of products for projects
// ABOUTME: Adds a date-range derived query on top of the generic store

package domain

import (
	"log/slog"
	"sort"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// CollectionPourSchedule is the remote collection name for the pour schedule.
const CollectionPourSchedule = "pourSchedule"

// PourStatus tracks a scheduled pour through production.
type PourStatus string

const (
	PourScheduled PourStatus = "Scheduled"
	PourPoured    PourStatus = "Poured"
	PourStripped  PourStatus = "Stripped"
	PourShipped   PourStatus = "Shipped"
)

// PourEntry is one scheduled pour on one bed.
type PourEntry struct {
	entitystore.Meta
	Name        string     `json:"name"` // label shown on the schedule board
	Bed         string     `json:"bed,omitempty"`
	ProductID   string     `json:"productId,omitempty"`
	ProjectID   string     `json:"projectId,omitempty"`
	MixDesignID string     `json:"mixDesignId,omitempty"`
	PourDate    int64      `json:"pourDate,omitempty"` // epoch millis, start of day
	Quantity    int        `json:"quantity,omitempty"`
	Status      PourStatus `json:"status,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

func pourEntryComplete(e PourEntry) bool {
	return e.ProductID != "" && e.Bed != "" && e.PourDate > 0
}

// ScheduleStore is the pour schedule store with its date-range query.
type ScheduleStore struct {
	*entitystore.Store[PourEntry]
}

// NewScheduleStore creates the pour schedule store.
func NewScheduleStore(rs remote.Store, logger *slog.Logger) *ScheduleStore {
	return &ScheduleStore{
		Store: entitystore.New(rs, entitystore.Config[PourEntry]{
			Collection: CollectionPourSchedule,
			Name:       func(e PourEntry) string { return e.Name },
			SearchText: func(e PourEntry) []string {
				return []string{e.Name, e.Bed, string(e.Status)}
			},
			Complete: pourEntryComplete,
			Logger:   logger,
		}),
	}
}

// ScheduledBetween returns the entries with from <= PourDate < to, ordered by
// pour date, then bed.
func (s *ScheduleStore) ScheduledBetween(from, to int64) []PourEntry {
	var out []PourEntry
	for _, e := range s.GetAll() {
		if e.PourDate >= from && e.PourDate < to {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PourDate != out[j].PourDate {
			return out[i].PourDate < out[j].PourDate
		}
		return out[i].Bed < out[j].Bed
	})
	return out
}
