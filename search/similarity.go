package search

import (
	"sort"
	"sync"

	"github.com/katalvlaran/lvlath/bfs"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/query"
)

// Pattern describes an ad-hoc sensor pattern to match against the
// catalogued measures. Modality, level, and technique are local names;
// construct is a full IRI so it can be located in the graph.
type Pattern struct {
	Modality  string `json:"modality,omitempty"`
	Level     string `json:"level,omitempty"`
	Technique string `json:"technique,omitempty"`
	Construct string `json:"construct,omitempty"`
}

// Weights are the fixed linear-scoring weights for pattern matching.
type Weights struct {
	Modality         float64 `yaml:"modality" json:"modality"`
	Level            float64 `yaml:"level" json:"level"`
	Technique        float64 `yaml:"technique" json:"technique"`
	SemanticDistance float64 `yaml:"semantic_distance" json:"semantic_distance"`
}

// DefaultWeights mirror the published scoring scheme.
func DefaultWeights() Weights {
	return Weights{
		Modality:         0.3,
		Level:            0.2,
		Technique:        0.2,
		SemanticDistance: 0.3,
	}
}

// Match is a scored measure.
type Match struct {
	Measure string  `json:"measure"`
	Score   float64 `json:"score"`
}

// PatternScorer ranks measures by similarity to a sensor pattern:
// weighted categorical matches plus a semantic-distance term computed as
// 1/(1+d) over the resource graph's unweighted shortest path between
// constructs.
type PatternScorer struct {
	querier *query.Querier
	weights Weights

	// distances memoizes BFS depth maps per start construct.
	mu        sync.Mutex
	distances map[string]map[string]int
}

// NewPatternScorer builds a scorer over the querier's store.
func NewPatternScorer(q *query.Querier, w Weights) *PatternScorer {
	return &PatternScorer{
		querier:   q,
		weights:   w,
		distances: make(map[string]map[string]int),
	}
}

// Score computes the similarity between pattern and one measure.
// Measures without the required modality/level attributes score only on
// whatever the pattern can still reach (the semantic term).
func (s *PatternScorer) Score(pattern Pattern, measureIRI string) float64 {
	props, _ := s.querier.MeasureProperties(measureIRI)

	score := 0.0
	if pattern.Modality != "" && pattern.Modality == props.Modality {
		score += s.weights.Modality
	}
	if pattern.Level != "" && pattern.Level == props.Level {
		score += s.weights.Level
	}
	if pattern.Technique != "" && pattern.Technique == props.Technique {
		score += s.weights.Technique
	}
	if pattern.Construct != "" && props.Construct != "" {
		if d, ok := s.semanticDistance(pattern.Construct, props.Construct); ok {
			score += s.weights.SemanticDistance * (1.0 / (1.0 + float64(d)))
		}
	}
	return score
}

// FindSimilar scores every measure and returns the topK matches,
// ordered by score descending with IRI as tie-break.
func (s *PatternScorer) FindSimilar(pattern Pattern, topK int) []Match {
	if topK <= 0 {
		topK = 5
	}
	measures := s.querier.AllMeasures()
	matches := make([]Match, 0, len(measures))
	for _, m := range measures {
		matches = append(matches, Match{Measure: m, Score: s.Score(pattern, m)})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Measure < matches[j].Measure
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// semanticDistance returns the unweighted shortest-path length between
// two resources, or ok == false when either is absent or unreachable.
func (s *PatternScorer) semanticDistance(from, to string) (int, bool) {
	if from == to {
		return 0, true
	}
	depths, ok := s.depthsFrom(from)
	if !ok {
		return 0, false
	}
	d, ok := depths[to]
	return d, ok
}

// depthsFrom runs one BFS per start construct and memoizes the result;
// the graph is small enough that a full depth map is cheaper than
// repeated point queries.
func (s *PatternScorer) depthsFrom(from string) (map[string]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.distances[from]; ok {
		return cached, cached != nil
	}

	g := s.querier.Store().ResourceGraph()
	res, err := bfs.BFS(g, from)
	if err != nil {
		// Start vertex missing from the resource projection.
		s.distances[from] = nil
		return nil, false
	}
	s.distances[from] = res.Depth
	return res.Depth, true
}
