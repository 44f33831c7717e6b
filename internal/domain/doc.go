// Package domain defines the precast-QC data domains and wires each one into
// the generic entity store: materials (aggregates, admixtures, cement types),
// mix designs, products, projects, prestressing strand (library and
// patterns), the pour schedule, the quality log, and contacts.
//
// Every domain contributes exactly three things: its entity type (embedding
// entitystore.Meta), its completeness predicate, and its search/sort
// configuration. The optimistic-sync behavior is identical across all of
// them; none of it lives here.
package domain
