// ABOUTME: Tests for the domain completeness predicates and store wiring
// ABOUTME: Table-driven completeness checks plus the Stores bundle lifecycle

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castline/castline/internal/remote"
)

func TestAggregateComplete(t *testing.T) {
	coarse := Aggregate{Name: "#57 Stone", Type: AggregateCoarse, SpecificGravity: 2.68, Absorption: 0.8}
	assert.True(t, aggregateComplete(coarse))

	fine := coarse
	fine.Name = "River Sand"
	fine.Type = AggregateFine
	assert.False(t, aggregateComplete(fine), "fine aggregate needs a fineness modulus")

	fine.FinenessModulus = 2.7
	assert.True(t, aggregateComplete(fine))

	tests := []struct {
		name   string
		mutate func(*Aggregate)
	}{
		{"missing name", func(a *Aggregate) { a.Name = "" }},
		{"missing type", func(a *Aggregate) { a.Type = "" }},
		{"zero specific gravity", func(a *Aggregate) { a.SpecificGravity = 0 }},
		{"zero absorption", func(a *Aggregate) { a.Absorption = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := coarse
			tt.mutate(&a)
			assert.False(t, aggregateComplete(a))
		})
	}
}

func TestAdmixtureComplete(t *testing.T) {
	full := Admixture{
		Name:         "MasterAir AE 200",
		Manufacturer: "Master Builders",
		Type:         AdmixtureAirEntrainer,
		DosageMin:    0.5,
		DosageMax:    1.5,
	}
	assert.True(t, admixtureComplete(full))

	inverted := full
	inverted.DosageMax = 0.25
	assert.False(t, admixtureComplete(inverted), "max dosage below min is incomplete")

	zeroMin := full
	zeroMin.DosageMin = 0
	assert.False(t, admixtureComplete(zeroMin))
}

func TestMixDesignComplete(t *testing.T) {
	full := MixDesign{
		Name:              "6000 SCC",
		DesignStrengthPSI: 6000,
		WaterCementRatio:  0.38,
		AggregateIDs:      []string{"agg-1", "agg-2"},
	}
	assert.True(t, mixDesignComplete(full))

	noAggs := full
	noAggs.AggregateIDs = nil
	assert.False(t, mixDesignComplete(noAggs))

	noRatio := full
	noRatio.WaterCementRatio = 0
	assert.False(t, mixDesignComplete(noRatio))
}

func TestProductComplete(t *testing.T) {
	full := Product{Name: "10DT24", Type: ProductDoubleTee, WidthIn: 120, DepthIn: 24}
	assert.True(t, productComplete(full))

	flat := full
	flat.DepthIn = 0
	assert.False(t, productComplete(flat))
}

func TestStrandComplete(t *testing.T) {
	full := Strand{Name: "1/2in 270K LL", DiameterIn: 0.5, Grade: 270, AreaSqIn: 0.153}
	assert.True(t, strandComplete(full))

	noArea := full
	noArea.AreaSqIn = 0
	assert.False(t, strandComplete(noArea))
}

func TestStrandPatternComplete(t *testing.T) {
	full := StrandPattern{
		Name:        "24-strand straight",
		StrandCount: 24,
		Rows:        []StrandRow{{HeightIn: 2, Count: 12}, {HeightIn: 4, Count: 12}},
	}
	assert.True(t, strandPatternComplete(full))

	noRows := full
	noRows.Rows = nil
	assert.False(t, strandPatternComplete(noRows))
}

func TestPourEntryComplete(t *testing.T) {
	full := PourEntry{Name: "Bed 3 tees", Bed: "3", ProductID: "prod-1", PourDate: 1}
	assert.True(t, pourEntryComplete(full))

	noBed := full
	noBed.Bed = ""
	assert.False(t, pourEntryComplete(noBed))

	noDate := full
	noDate.PourDate = 0
	assert.False(t, pourEntryComplete(noDate))
}

func TestQualityEntryComplete(t *testing.T) {
	base := QualityEntry{BatchID: "B-1042", ProductID: "prod-1", TestDate: 1}
	assert.False(t, qualityEntryComplete(base), "needs at least one measurement")

	withSlump := base
	withSlump.SlumpIn = 7.5
	assert.True(t, qualityEntryComplete(withSlump))

	withBreak := base
	withBreak.Breaks = []CylinderBreak{{AgeDays: 1, PSI: 4200}}
	assert.True(t, qualityEntryComplete(withBreak))

	noProduct := withSlump
	noProduct.ProductID = ""
	assert.False(t, qualityEntryComplete(noProduct))
}

func TestContactComplete(t *testing.T) {
	phone := Contact{Name: "Dana", Phone: "555-0101"}
	email := Contact{Name: "Dana", Email: "dana@example.com"}
	neither := Contact{Name: "Dana"}

	rs := remoteForPredicates(t)
	s := NewContactStore(rs, nil)
	require.NoError(t, s.Initialize(t.Context()))
	defer s.Cleanup()

	p, err := s.Add(t.Context(), phone)
	require.NoError(t, err)
	e, err := s.Add(t.Context(), email)
	require.NoError(t, err)
	n, err := s.Add(t.Context(), neither)
	require.NoError(t, err)

	assert.True(t, s.IsComplete(p.ID))
	assert.True(t, s.IsComplete(e.ID))
	assert.False(t, s.IsComplete(n.ID))
}

func remoteForPredicates(t *testing.T) *remote.MemoryStore {
	t.Helper()
	m := remote.NewMemoryStore()
	t.Cleanup(func() { m.Close() })
	return m
}

func TestScheduleStore_ScheduledBetween(t *testing.T) {
	rs := remoteForPredicates(t)
	s := NewScheduleStore(rs, nil)
	require.NoError(t, s.Initialize(t.Context()))
	defer s.Cleanup()
	ctx := t.Context()

	mk := func(name, bed string, date int64) {
		_, err := s.Add(ctx, PourEntry{Name: name, Bed: bed, PourDate: date})
		require.NoError(t, err)
	}
	mk("early", "1", 100)
	mk("monday b", "2", 200)
	mk("monday a", "1", 200)
	mk("tuesday", "1", 300)
	mk("late", "1", 500)

	got := s.ScheduledBetween(200, 500)
	require.Len(t, got, 3, "range is inclusive of from, exclusive of to")
	assert.Equal(t, "monday a", got[0].Name, "same-day entries order by bed")
	assert.Equal(t, "monday b", got[1].Name)
	assert.Equal(t, "tuesday", got[2].Name)

	assert.Empty(t, s.ScheduledBetween(600, 700))
}

func TestQualityLog_DuplicateUsesBatchID(t *testing.T) {
	rs := remoteForPredicates(t)
	s := NewQualityLogStore(rs, nil)
	require.NoError(t, s.Initialize(t.Context()))
	defer s.Cleanup()

	src, err := s.Add(t.Context(), QualityEntry{BatchID: "B-1042", SlumpIn: 7.0})
	require.NoError(t, err)

	cp, err := s.Duplicate(t.Context(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, "B-1042 (Copy)", cp.BatchID, "quality entries are named by batch id")
	assert.Equal(t, 7.0, cp.SlumpIn)
}

func TestStores_LifecycleOverOneRemote(t *testing.T) {
	rs := remoteForPredicates(t)

	stores := NewStores(rs, nil)
	require.NoError(t, stores.InitializeAll(t.Context()))

	assert.True(t, stores.Projects.Initialized())
	assert.True(t, stores.Schedule.Initialized())
	assert.True(t, stores.QualityLog.Initialized())

	_, err := stores.Strands.Add(t.Context(), Strand{Name: "1/2in 270K"})
	require.NoError(t, err)
	assert.Equal(t, 1, stores.Strands.Len())

	stores.CleanupAll()
	assert.False(t, stores.Projects.Initialized())
	assert.Equal(t, 0, stores.Strands.Len())

	// The bundle can come back up after cleanup.
	require.NoError(t, stores.InitializeAll(t.Context()))
	defer stores.CleanupAll()
	assert.Equal(t, 1, stores.Strands.Len(), "data survives in the remote store")
}
