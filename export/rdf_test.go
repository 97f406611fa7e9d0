package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

func testStore() *ontology.Store {
	s := ontology.NewStore()
	m := "http://example.org/instances#speechOverlap"
	s.Add(ontology.Triple{
		Subject:   m,
		Predicate: ontology.RDFType,
		Object:    ontology.Term{Value: meas.ClassMeasure, Kind: ontology.KindIRI},
	})
	s.Add(ontology.Triple{
		Subject:   m,
		Predicate: meas.PropHasName,
		Object:    ontology.Term{Value: `Speech "Overlap" Ratio`, Kind: ontology.KindLiteral},
	})
	s.Add(ontology.Triple{
		Subject:   m,
		Predicate: meas.PropMeasuresConstruct,
		Object:    ontology.Term{Value: meas.Namespace + "coordination", Kind: ontology.KindIRI},
	})
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"turtle", FormatTurtle, false},
		{"ttl", FormatTurtle, false},
		{".ttl", FormatTurtle, false},
		{"ntriples", FormatNTriples, false},
		{"n-triples", FormatNTriples, false},
		{"nt", FormatNTriples, false},
		{"jsonld", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestExportTurtle(t *testing.T) {
	out, err := NewExporter(testStore()).Export(FormatTurtle)
	require.NoError(t, err)

	assert.Contains(t, out, "@prefix meas: <"+meas.Namespace+"> .")
	assert.Contains(t, out, "a meas:Measure")
	assert.Contains(t, out, "meas:measuresConstruct meas:coordination")
	assert.Contains(t, out, `meas:hasName "Speech \"Overlap\" Ratio"`)
	// Grouped subject form: predicates joined with semicolons.
	assert.Contains(t, out, " ;")
}

func TestExportNTriples(t *testing.T) {
	out, err := NewExporter(testStore()).Export(FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "<http://example.org/instances#speechOverlap>"), line)
		assert.True(t, strings.HasSuffix(line, " ."), line)
	}
	assert.Contains(t, out, "<"+ontology.RDFType+"> <"+meas.ClassMeasure+">")
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := NewExporter(testStore()).Export(Format("xml"))
	assert.Error(t, err)
}
