package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/evid"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

const inst = "http://example.org/instances#"

func iri(v string) ontology.Term { return ontology.Term{Value: v, Kind: ontology.KindIRI} }
func lit(v string) ontology.Term { return ontology.Term{Value: v, Kind: ontology.KindLiteral} }

func add(s *ontology.Store, subject, predicate string, object ontology.Term) {
	s.Add(ontology.Triple{Subject: subject, Predicate: predicate, Object: object})
}

// newTestStore builds a small graph: two constructs, one fully
// described measure, one unnamed measure, and one complete plus one
// incomplete effect size.
func newTestStore() *ontology.Store {
	s := ontology.NewStore()

	coordination := meas.Namespace + "coordination"
	communication := meas.Namespace + "communication"
	add(s, coordination, ontology.RDFSSubClassOf, iri(meas.ClassConstruct))
	add(s, coordination, ontology.RDFSLabel, lit("Coordination"))
	add(s, coordination, ontology.RDFSComment, lit("The orchestration of interdependent actions."))
	add(s, communication, ontology.RDFSSubClassOf, iri(meas.ClassConstruct))

	audio := meas.Namespace + "audio"
	add(s, audio, ontology.RDFSSubClassOf, iri(meas.ClassModality))
	add(s, audio, ontology.RDFSLabel, lit("Audio"))

	speechOverlap := inst + "speechOverlap"
	add(s, speechOverlap, ontology.RDFType, iri(meas.ClassMeasure))
	add(s, speechOverlap, meas.PropHasName, lit("Speech Overlap Ratio"))
	add(s, speechOverlap, meas.PropHasDescription, lit("Fraction of time two speakers overlap."))
	add(s, speechOverlap, meas.PropMeasuresConstruct, iri(coordination))
	add(s, speechOverlap, meas.PropIncludesModality, iri(audio))
	add(s, speechOverlap, meas.PropHasLevelOfAnalysis, iri(meas.LevelTeam))
	add(s, speechOverlap, meas.PropUsesAnalyticTechnique, iri(meas.Namespace+"turnTaking"))

	unnamed := inst + "unnamedMeasure"
	add(s, unnamed, ontology.RDFType, iri(meas.ClassMeasure))
	add(s, unnamed, meas.PropMeasuresConstruct, iri(coordination))

	effect := inst + "effect1"
	add(s, effect, ontology.RDFType, iri(evid.ClassEffectSize))
	add(s, effect, evid.PropHasDependentVariable, iri(speechOverlap))
	add(s, effect, evid.PropHasEffectSizeValue, lit("0.42"))
	add(s, effect, evid.PropUsesEffectSizeMetric, iri(evid.Namespace+"correlation"))
	add(s, effect, evid.PropHasPValue, lit("0.03"))
	add(s, effect, evid.PropHasLowerCI, lit("0.21"))
	add(s, effect, evid.PropHasUpperCI, lit("0.63"))
	add(s, effect, evid.PropHasTeamSampleSize, lit("32"))

	incomplete := inst + "effect2"
	add(s, incomplete, ontology.RDFType, iri(evid.ClassEffectSize))
	add(s, incomplete, evid.PropHasDependentVariable, iri(speechOverlap))
	add(s, incomplete, evid.PropUsesEffectSizeMetric, iri(evid.Namespace+"correlation"))

	study := inst + "study1"
	add(s, study, ontology.RDFType, iri(evid.ClassPrimaryStudy))
	add(s, study, evid.PropReportsEffectSize, iri(effect))
	add(s, study, evid.PropHasStudyPopulation, lit("healthcare teams"))

	pub := inst + "pub1"
	add(s, pub, ontology.RDFType, iri(evid.ClassPublication))
	add(s, pub, evid.PropReportsStudy, iri(study))
	add(s, pub, evid.PropHasDOI, lit("10.1000/xyz123"))

	return s
}

func TestEvidenceForConstruct(t *testing.T) {
	q := New(newTestStore(), nil)

	records := q.EvidenceForConstruct(meas.Namespace + "coordination")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Speech Overlap Ratio", rec.MeasureName)
	require.NotNil(t, rec.Value)
	assert.InDelta(t, 0.42, *rec.Value, 1e-9)
	assert.Equal(t, evid.Namespace+"correlation", rec.Metric)
	require.NotNil(t, rec.PValue)
	assert.InDelta(t, 0.03, *rec.PValue, 1e-9)
	assert.Equal(t, inst+"study1", rec.Study)
	assert.Equal(t, "healthcare teams", rec.Population)
	assert.Equal(t, "10.1000/xyz123", rec.DOI)
	require.NotNil(t, rec.TeamN)
	assert.Equal(t, 32, *rec.TeamN)
	assert.Nil(t, rec.IndividualN)
}

func TestEvidenceForConstructNoEvidence(t *testing.T) {
	q := New(newTestStore(), nil)
	assert.Empty(t, q.EvidenceForConstruct(meas.Namespace+"communication"))
}

func TestEvidenceIsCached(t *testing.T) {
	store := newTestStore()
	q := New(store, nil)
	first := q.EvidenceForConstruct(meas.Namespace + "coordination")

	// New triples after the first query are not visible through the cache.
	effect := inst + "effect3"
	add(store, effect, evid.PropHasDependentVariable, iri(inst+"speechOverlap"))
	add(store, effect, evid.PropHasEffectSizeValue, lit("0.10"))
	add(store, effect, evid.PropUsesEffectSizeMetric, iri(evid.Namespace+"correlation"))
	add(store, inst+"study1", evid.PropReportsEffectSize, iri(effect))

	assert.Len(t, q.EvidenceForConstruct(meas.Namespace+"coordination"), len(first))
}

func TestMeasuresByModality(t *testing.T) {
	q := New(newTestStore(), nil)

	measures := q.MeasuresByModality(meas.Namespace + "audio")
	require.Len(t, measures, 1)
	assert.Equal(t, "Speech Overlap Ratio", measures[0].Name)
	assert.Equal(t, meas.Namespace+"coordination", measures[0].Construct)

	assert.Empty(t, q.MeasuresByModality(meas.Namespace+"video"))
}

func TestAllConstructs(t *testing.T) {
	q := New(newTestStore(), nil)

	constructs := q.AllConstructs()
	require.Len(t, constructs, 3)
	// Sorted by IRI: Construct, then communication, then coordination.
	assert.Equal(t, "Construct", constructs[0].LocalName, "the root class is listed too")
	assert.Equal(t, "communication", constructs[1].LocalName)
	assert.Equal(t, "communication", constructs[1].Label, "label falls back to local name")
	assert.Equal(t, "Coordination", constructs[2].Label)
}

func TestAllModalitiesIncludeParent(t *testing.T) {
	q := New(newTestStore(), nil)

	modalities := q.AllModalities()
	require.Len(t, modalities, 2)
	assert.Equal(t, "Modality", modalities[0].LocalName)
	assert.Empty(t, modalities[0].Parent, "the root class has no parent")
	assert.Equal(t, "audio", modalities[1].LocalName)
	assert.Equal(t, meas.ClassModality, modalities[1].Parent)
}

func TestMeasureProperties(t *testing.T) {
	q := New(newTestStore(), nil)

	props, ok := q.MeasureProperties(inst + "speechOverlap")
	require.True(t, ok)
	assert.Equal(t, "audio", props.Modality)
	assert.Equal(t, "team", props.Level)
	assert.Equal(t, "turnTaking", props.Technique)
	assert.Equal(t, meas.Namespace+"coordination", props.Construct)

	_, ok = q.MeasureProperties(inst + "unnamedMeasure")
	assert.False(t, ok, "measures without modality and level are not scoreable")
}

func TestMeasureInfo(t *testing.T) {
	q := New(newTestStore(), nil)

	info, ok := q.MeasureInfo(inst + "speechOverlap")
	require.True(t, ok)
	assert.Equal(t, "Speech Overlap Ratio", info.Name)
	assert.Equal(t, "Fraction of time two speakers overlap.", info.Description)
	assert.Equal(t, "audio", info.Modality)

	_, ok = q.MeasureInfo(inst + "unnamedMeasure")
	assert.False(t, ok)
}

func TestConstructComment(t *testing.T) {
	q := New(newTestStore(), nil)

	comment, ok := q.ConstructComment(meas.Namespace + "coordination")
	require.True(t, ok)
	assert.Contains(t, comment, "orchestration")

	_, ok = q.ConstructComment(meas.Namespace + "communication")
	assert.False(t, ok)
}
