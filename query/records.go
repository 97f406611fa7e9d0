// Package query normalizes ontology lookups into plain records. It is the
// replacement for the templated SPARQL layer: each operation walks the
// indexed store and flattens matching rows, silently skipping resources
// with missing required fields.
package query

// EvidenceRecord is one effect-size row linking a study, a measure, and
// (when published) a DOI. Optional numeric fields are pointers so absent
// values survive JSON round-trips as null.
type EvidenceRecord struct {
	Effect      string   `json:"effect"`
	Value       *float64 `json:"value"`
	Metric      string   `json:"metric"`
	PValue      *float64 `json:"pvalue"`
	LowerCI     *float64 `json:"lower_ci,omitempty"`
	UpperCI     *float64 `json:"upper_ci,omitempty"`
	Study       string   `json:"study"`
	Population  string   `json:"population,omitempty"`
	Measure     string   `json:"measure"`
	MeasureName string   `json:"measure_name"`
	DOI         string   `json:"doi,omitempty"`

	IndividualN *int `json:"individual_n,omitempty"`
	TeamN       *int `json:"team_n,omitempty"`
}

// MeasureRecord is a measure with its descriptive fields.
type MeasureRecord struct {
	Measure     string `json:"measure"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Construct   string `json:"construct,omitempty"`
}

// ClassRecord is a construct or modality class with display labels.
type ClassRecord struct {
	URI       string `json:"uri"`
	Label     string `json:"label"`
	LocalName string `json:"local_name"`
	Parent    string `json:"parent,omitempty"`
}

// MeasureProperties are the categorical attributes used by the pattern
// scorer, shortened to local names (construct keeps the full IRI for
// distance lookups).
type MeasureProperties struct {
	Modality  string `json:"modality,omitempty"`
	Level     string `json:"level,omitempty"`
	Technique string `json:"technique,omitempty"`
	Construct string `json:"construct,omitempty"`
}

// MeasureInfo extends MeasureProperties with descriptive fields for
// explanation generation.
type MeasureInfo struct {
	Measure        string `json:"measure"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Modality       string `json:"modality,omitempty"`
	Level          string `json:"level,omitempty"`
	Technique      string `json:"technique,omitempty"`
	Construct      string `json:"construct,omitempty"`
	Scale          string `json:"scale,omitempty"`
	Interpretation string `json:"interpretation,omitempty"`
}
