package ontology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/evid"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

const ontologyFixture = `
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix meas: <http://example.org/ontology/teamMeasurement#> .

meas:Construct a owl:Class ;
    rdfs:label "Construct" .

meas:teamProcess a owl:Class ;
    rdfs:subClassOf meas:Construct ;
    rdfs:label "Team Process" .

meas:coordination a owl:Class ;
    rdfs:subClassOf meas:teamProcess ;
    rdfs:label "Coordination" ;
    rdfs:comment "The orchestration of interdependent actions." .

meas:Measure a owl:Class .
meas:hasName a owl:DatatypeProperty .
meas:measuresConstruct a owl:ObjectProperty .
`

const instanceFixture = `
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix meas: <http://example.org/ontology/teamMeasurement#> .
@prefix evid: <http://example.org/ontology/evidence#> .
@prefix inst: <http://example.org/instances#> .

inst:speechOverlap a meas:Measure ;
    meas:hasName "Speech Overlap Ratio" ;
    meas:measuresConstruct meas:coordination .

inst:study1 a evid:primaryStudy .
inst:effect1 a evid:EffectSize ;
    evid:hasEffectSizeValue "0.42" .
`

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "instances"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.ttl"), []byte(ontologyFixture), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "instances", "data.ttl"), []byte(instanceFixture), 0o644))
	return dir
}

func TestLoaderLoadsNestedTurtleFiles(t *testing.T) {
	dir := writeFixtures(t)

	store, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)
	assert.Greater(t, store.Len(), 10)

	name, ok := store.FirstLiteral("http://example.org/instances#speechOverlap", meas.PropHasName)
	require.True(t, ok)
	assert.Equal(t, "Speech Overlap Ratio", name)
}

func TestLoaderSkipsMalformedFiles(t *testing.T) {
	dir := writeFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.ttl"), []byte("@prefix broken"), 0o644))

	store, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)
	assert.Greater(t, store.Len(), 0)
}

func TestLoaderErrorsWhenNothingLoads(t *testing.T) {
	_, err := NewLoader(t.TempDir(), nil).Load()
	assert.Error(t, err)
}

func TestStoreStats(t *testing.T) {
	dir := writeFixtures(t)
	store, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)

	stats := store.Stats()
	assert.Equal(t, store.Len(), stats.TotalTriples)
	assert.Equal(t, 1, stats.Measures)
	assert.Equal(t, 1, stats.Studies)
	assert.Equal(t, 1, stats.EffectSizes)
	assert.Equal(t, 2, stats.Properties)
}

func TestSubClassClosure(t *testing.T) {
	dir := writeFixtures(t)
	store, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)

	closure := store.SubClassClosure(meas.ClassConstruct)
	assert.Equal(t, []string{
		meas.ClassConstruct,
		meas.Namespace + "coordination",
		meas.Namespace + "teamProcess",
	}, closure, "the closure includes the root class itself")
}

func TestResourceGraphExcludesSystemResources(t *testing.T) {
	dir := writeFixtures(t)
	store, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)

	g := store.ResourceGraph()
	assert.True(t, g.HasVertex(meas.Namespace+"coordination"))
	assert.True(t, g.HasVertex("http://example.org/instances#speechOverlap"))
	assert.False(t, g.HasVertex(OWLClass))
}

func TestIsSystemResource(t *testing.T) {
	assert.True(t, IsSystemResource(RDFType))
	assert.True(t, IsSystemResource(OWLClass))
	assert.False(t, IsSystemResource(meas.ClassMeasure))
	assert.False(t, IsSystemResource(evid.ClassEffectSize))
}

func TestProviderReloadKeepsStoreOnFailure(t *testing.T) {
	dir := writeFixtures(t)
	provider := NewProvider(NewLoader(dir, nil), nil)
	require.NoError(t, provider.Load())
	before := provider.Store().Len()

	require.NoError(t, os.RemoveAll(filepath.Join(dir, "instances")))
	require.NoError(t, os.Remove(filepath.Join(dir, "core.ttl")))

	assert.Error(t, provider.Reload())
	assert.Equal(t, before, provider.Store().Len())
}

func TestProviderReloadNotifiesCallbacks(t *testing.T) {
	dir := writeFixtures(t)
	provider := NewProvider(NewLoader(dir, nil), nil)
	require.NoError(t, provider.Load())

	var got *Store
	provider.OnReload(func(s *Store) { got = s })
	require.NoError(t, provider.Reload())
	assert.Same(t, provider.Store(), got)
}
