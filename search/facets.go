// Package search implements faceted filtering, semantic search, and
// pattern-to-measure similarity scoring over the ontology.
package search

import (
	"sort"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/query"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/evid"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

// Facets holds the distinct values available for each evidence filter.
type Facets struct {
	Modalities       []string `json:"modalities"`
	LevelsOfAnalysis []string `json:"levels_of_analysis"`
	Populations      []string `json:"study_populations"`
	Techniques       []string `json:"analytic_techniques"`
}

// Filters holds the filter values a user selected. Nil fields are
// inactive.
type Filters struct {
	Populations     []string    `json:"study_populations,omitempty"`
	EffectSizeRange *[2]float64 `json:"effect_size_range,omitempty"`
	PValueThreshold *float64    `json:"p_value_threshold,omitempty"`
}

// AvailableFacets extracts the facet values present in the store: every
// modality, level, and technique referenced by a measure, and every
// population referenced by a study. Values are local names, sorted.
func AvailableFacets(q *query.Querier) Facets {
	store := q.Store()
	return Facets{
		Modalities:       distinctObjects(store.PredicateTriples(meas.PropIncludesModality), true),
		LevelsOfAnalysis: distinctObjects(store.PredicateTriples(meas.PropHasLevelOfAnalysis), true),
		Populations:      distinctObjects(store.PredicateTriples(evid.PropHasStudyPopulation), false),
		Techniques:       distinctObjects(store.PredicateTriples(meas.PropUsesAnalyticTechnique), true),
	}
}

func distinctObjects(triples []ontology.Triple, shorten bool) []string {
	seen := make(map[string]struct{})
	for _, t := range triples {
		v := t.Object.Value
		if shorten {
			v = meas.LocalName(v)
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ApplyFilters returns the evidence records passing every active filter.
// Records without a p-value are dropped by the significance filter, and
// records without a value are dropped by the range filter, matching the
// dashboard's behavior.
func ApplyFilters(evidence []query.EvidenceRecord, f Filters) []query.EvidenceRecord {
	filtered := evidence

	if f.PValueThreshold != nil {
		t := *f.PValueThreshold
		filtered = keep(filtered, func(e query.EvidenceRecord) bool {
			return e.PValue != nil && *e.PValue <= t
		})
	}
	if f.EffectSizeRange != nil {
		lo, hi := f.EffectSizeRange[0], f.EffectSizeRange[1]
		filtered = keep(filtered, func(e query.EvidenceRecord) bool {
			return e.Value != nil && lo <= *e.Value && *e.Value <= hi
		})
	}
	if len(f.Populations) > 0 {
		allowed := make(map[string]struct{}, len(f.Populations))
		for _, p := range f.Populations {
			allowed[p] = struct{}{}
		}
		filtered = keep(filtered, func(e query.EvidenceRecord) bool {
			_, ok := allowed[e.Population]
			return ok
		})
	}
	return filtered
}

func keep(in []query.EvidenceRecord, pred func(query.EvidenceRecord) bool) []query.EvidenceRecord {
	out := make([]query.EvidenceRecord, 0, len(in))
	for _, e := range in {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}
