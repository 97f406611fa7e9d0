package ontology

import (
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/evid"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

// Statistics summarizes the loaded ontology for the dashboard sidebar.
type Statistics struct {
	TotalTriples int `json:"total_triples"`
	Classes      int `json:"classes"`
	Properties   int `json:"properties"`
	Studies      int `json:"studies"`
	EffectSizes  int `json:"effect_sizes"`
	Measures     int `json:"measures"`
}

// Stats computes basic counts over the store. Study subjects are the
// union of evid:Study, evid:primaryStudy, and evid:metaAnalysis typed
// resources; the instance data mixes the three.
func (s *Store) Stats() Statistics {
	studies := make(map[string]struct{})
	for _, class := range []string{evid.ClassStudy, evid.ClassPrimaryStudy, evid.ClassMetaAnalysis} {
		for _, subj := range s.SubjectsOfType(class) {
			studies[subj] = struct{}{}
		}
	}
	return Statistics{
		TotalTriples: s.Len(),
		Classes:      len(s.SubjectsOfType(OWLClass)),
		Properties:   len(s.SubjectsOfType(OWLObjectProp)) + len(s.SubjectsOfType(OWLDatatypeProp)),
		Studies:      len(studies),
		EffectSizes:  len(s.SubjectsOfType(evid.ClassEffectSize)),
		Measures:     len(s.SubjectsOfType(meas.ClassMeasure)),
	}
}
