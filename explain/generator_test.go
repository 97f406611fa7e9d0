package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/query"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/search"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/evid"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

const inst = "http://example.org/instances#"

func iri(v string) ontology.Term { return ontology.Term{Value: v, Kind: ontology.KindIRI} }
func lit(v string) ontology.Term { return ontology.Term{Value: v, Kind: ontology.KindLiteral} }

func add(s *ontology.Store, subject, predicate string, object ontology.Term) {
	s.Add(ontology.Triple{Subject: subject, Predicate: predicate, Object: object})
}

func newTestQuerier() *query.Querier {
	s := ontology.NewStore()
	coordination := meas.Namespace + "coordination"
	add(s, coordination, ontology.RDFSSubClassOf, iri(meas.ClassConstruct))

	m := inst + "speechOverlap"
	add(s, m, ontology.RDFType, iri(meas.ClassMeasure))
	add(s, m, meas.PropHasName, lit("Speech Overlap Ratio"))
	add(s, m, meas.PropMeasuresConstruct, iri(coordination))
	add(s, m, meas.PropIncludesModality, iri(meas.Namespace+"audio"))
	add(s, m, meas.PropHasLevelOfAnalysis, iri(meas.LevelTeam))
	add(s, m, meas.PropUsesAnalyticTechnique, iri(meas.TechniqueSynchrony))

	for i, val := range []string{"0.45", "0.39"} {
		effect := inst + "effect" + string(rune('1'+i))
		add(s, effect, evid.PropHasDependentVariable, iri(m))
		add(s, effect, evid.PropHasEffectSizeValue, lit(val))
		add(s, effect, evid.PropUsesEffectSizeMetric, iri(evid.Namespace+"correlation"))
		study := inst + "study" + string(rune('1'+i))
		add(s, study, evid.PropReportsEffectSize, iri(effect))
	}
	return query.New(s, nil)
}

func TestGenerateHighSimilarity(t *testing.T) {
	g := NewGenerator(newTestQuerier(), DefaultThresholds())

	text, err := g.Generate(Request{
		Pattern: search.Pattern{Modality: "audio", Level: "team", Technique: "synchrony"},
		Measure: inst + "speechOverlap",
		Score:   0.92,
	})
	require.NoError(t, err)

	assert.Contains(t, text, "92% similarity")
	assert.Contains(t, text, "'Speech Overlap Ratio'")
	assert.Contains(t, text, "modality, level of analysis, and analytic technique")
	assert.Contains(t, text, "capture coordination")
	assert.Contains(t, text, "positive effects")
	assert.Contains(t, text, "across 2 studies")
	assert.Contains(t, text, "0.420")
}

func TestGenerateModerateSimilarity(t *testing.T) {
	g := NewGenerator(newTestQuerier(), DefaultThresholds())

	text, err := g.Generate(Request{
		Pattern: search.Pattern{Modality: "audio", Level: "individual"},
		Measure: inst + "speechOverlap",
		Score:   0.55,
	})
	require.NoError(t, err)

	assert.Contains(t, text, "55% similarity")
	assert.Contains(t, text, "matches on modality")
	assert.Contains(t, text, "differs in level of analysis")
}

func TestGenerateUnknownMeasure(t *testing.T) {
	g := NewGenerator(newTestQuerier(), DefaultThresholds())

	_, err := g.Generate(Request{Measure: inst + "missing", Score: 0.5})
	assert.Error(t, err)
}

func TestGenerateReasoningPath(t *testing.T) {
	g := NewGenerator(newTestQuerier(), DefaultThresholds())

	text, err := g.Generate(Request{
		Pattern:       search.Pattern{Modality: "audio", Level: "team"},
		Measure:       inst + "speechOverlap",
		Score:         0.9,
		ReasoningPath: true,
	})
	require.NoError(t, err)

	assert.Contains(t, text, "Your audio sensor data")
	assert.Contains(t, text, "analyzed at the team level")
	assert.Contains(t, text, "corresponds to the 'Speech Overlap Ratio' measure")
	assert.Contains(t, text, "which captures coordination")
}

func TestFormatList(t *testing.T) {
	tests := []struct {
		items []string
		want  string
	}{
		{nil, "no aspects"},
		{[]string{"modality"}, "modality"},
		{[]string{"modality", "level of analysis"}, "modality and level of analysis"},
		{[]string{"a", "b", "c"}, "a, b, and c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatList(tt.items))
	}
}

func TestSummarizeEffects(t *testing.T) {
	v := func(x float64) *float64 { return &x }
	tests := []struct {
		name     string
		evidence []query.EvidenceRecord
		dir      string
		studies  int
	}{
		{"empty", nil, "no reported", 0},
		{"positive", []query.EvidenceRecord{
			{Value: v(0.5), Study: "s1"},
			{Value: v(0.3), Study: "s2"},
		}, "positive", 2},
		{"negative", []query.EvidenceRecord{{Value: v(-0.6), Study: "s1"}}, "negative", 1},
		{"negligible", []query.EvidenceRecord{
			{Value: v(0.1), Study: "s1"},
			{Value: v(-0.1), Study: "s1"},
		}, "small to negligible", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := summarizeEffects(tt.evidence, DefaultThresholds().EffectDirection)
			assert.Equal(t, tt.dir, summary.Direction)
			assert.Equal(t, tt.studies, summary.Studies)
		})
	}
}

func TestConstructDescriptionFallbacks(t *testing.T) {
	g := NewGenerator(newTestQuerier(), DefaultThresholds())

	assert.Contains(t, g.constructDescription(meas.Namespace+"cohesion"), "unity")
	assert.Equal(t, "team-related processes and outcomes",
		g.constructDescription(meas.Namespace+"somethingNovel"))
}
