// ABOUTME: Bundle of every domain store over one remote store
// ABOUTME: Explicit context object owned by the app lifetime, not module globals

package domain

import (
	"context"
	"errors"
	"log/slog"

	"github.com/castline/castline/internal/entitystore"
	"github.com/castline/castline/internal/remote"
)

// Stores bundles every domain store over a single remote store. The owner of
// the app lifetime constructs one Stores and passes it down; there is no
// process-global store state.
type Stores struct {
	Aggregates     *entitystore.Store[Aggregate]
	Admixtures     *entitystore.Store[Admixture]
	Cements        *entitystore.Store[Cement]
	MixDesigns     *entitystore.Store[MixDesign]
	Products       *entitystore.Store[Product]
	Projects       *entitystore.Store[Project]
	Strands        *entitystore.Store[Strand]
	StrandPatterns *entitystore.Store[StrandPattern]
	Schedule       *ScheduleStore
	QualityLog     *entitystore.Store[QualityEntry]
	Contacts       *entitystore.Store[Contact]
}

// NewStores wires every domain store over rs. Pass nil logger for default.
func NewStores(rs remote.Store, logger *slog.Logger) *Stores {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stores{
		Aggregates:     NewAggregateStore(rs, logger),
		Admixtures:     NewAdmixtureStore(rs, logger),
		Cements:        NewCementStore(rs, logger),
		MixDesigns:     NewMixDesignStore(rs, logger),
		Products:       NewProductStore(rs, logger),
		Projects:       NewProjectStore(rs, logger),
		Strands:        NewStrandStore(rs, logger),
		StrandPatterns: NewStrandPatternStore(rs, logger),
		Schedule:       NewScheduleStore(rs, logger),
		QualityLog:     NewQualityLogStore(rs, logger),
		Contacts:       NewContactStore(rs, logger),
	}
}

// InitializeAll initializes every store, collecting failures. Stores that
// fail stay uninitialized and can be retried individually.
func (s *Stores) InitializeAll(ctx context.Context) error {
	return errors.Join(
		s.Aggregates.Initialize(ctx),
		s.Admixtures.Initialize(ctx),
		s.Cements.Initialize(ctx),
		s.MixDesigns.Initialize(ctx),
		s.Products.Initialize(ctx),
		s.Projects.Initialize(ctx),
		s.Strands.Initialize(ctx),
		s.StrandPatterns.Initialize(ctx),
		s.Schedule.Initialize(ctx),
		s.QualityLog.Initialize(ctx),
		s.Contacts.Initialize(ctx),
	)
}

// CleanupAll tears down every store's live feed. Safe to call more than once.
func (s *Stores) CleanupAll() {
	s.Aggregates.Cleanup()
	s.Admixtures.Cleanup()
	s.Cements.Cleanup()
	s.MixDesigns.Cleanup()
	s.Products.Cleanup()
	s.Projects.Cleanup()
	s.Strands.Cleanup()
	s.StrandPatterns.Cleanup()
	s.Schedule.Cleanup()
	s.QualityLog.Cleanup()
	s.Contacts.Cleanup()
}
