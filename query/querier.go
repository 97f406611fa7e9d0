package query

import (
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/evid"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

// Querier answers record-shaped queries over one immutable store.
// Results are memoized; build a fresh Querier after an ontology reload.
type Querier struct {
	store  *ontology.Store
	logger *slog.Logger

	mu            sync.RWMutex
	evidenceCache map[string][]EvidenceRecord
}

// New creates a querier over store.
func New(store *ontology.Store, logger *slog.Logger) *Querier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Querier{
		store:         store,
		logger:        logger,
		evidenceCache: make(map[string][]EvidenceRecord),
	}
}

// Store exposes the underlying store for graph-level consumers.
func (q *Querier) Store() *ontology.Store { return q.store }

// EvidenceForConstruct returns every effect size whose dependent variable
// is a measure of the given construct. Rows missing a required field
// (value, metric, reporting study, or measure name) are skipped.
func (q *Querier) EvidenceForConstruct(constructIRI string) []EvidenceRecord {
	q.mu.RLock()
	if cached, ok := q.evidenceCache[constructIRI]; ok {
		q.mu.RUnlock()
		return cached
	}
	q.mu.RUnlock()

	var records []EvidenceRecord
	for _, measure := range q.store.SubjectsWithObject(meas.PropMeasuresConstruct, constructIRI) {
		name, ok := q.store.FirstLiteral(measure, meas.PropHasName)
		if !ok {
			q.logger.Debug("measure without name skipped", slog.String("measure", measure))
			continue
		}
		for _, effect := range q.store.SubjectsWithObject(evid.PropHasDependentVariable, measure) {
			rec, ok := q.buildEvidenceRecord(effect, measure, name)
			if !ok {
				continue
			}
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Effect < records[j].Effect })

	q.mu.Lock()
	q.evidenceCache[constructIRI] = records
	q.mu.Unlock()
	return records
}

func (q *Querier) buildEvidenceRecord(effect, measure, measureName string) (EvidenceRecord, bool) {
	value := q.floatValue(effect, evid.PropHasEffectSizeValue)
	metric, metricOK := q.store.FirstObject(effect, evid.PropUsesEffectSizeMetric)
	studies := q.store.SubjectsWithObject(evid.PropReportsEffectSize, effect)
	if value == nil || !metricOK || len(studies) == 0 {
		q.logger.Debug("incomplete effect size skipped", slog.String("effect", effect))
		return EvidenceRecord{}, false
	}
	study := studies[0]

	rec := EvidenceRecord{
		Effect:      effect,
		Value:       value,
		Metric:      metric.Value,
		PValue:      q.floatValue(effect, evid.PropHasPValue),
		LowerCI:     q.floatValue(effect, evid.PropHasLowerCI),
		UpperCI:     q.floatValue(effect, evid.PropHasUpperCI),
		Study:       study,
		Measure:     measure,
		MeasureName: measureName,
		IndividualN: q.intValue(effect, evid.PropHasIndividualSampleSize),
		TeamN:       q.intValue(effect, evid.PropHasTeamSampleSize),
	}
	if pop, ok := q.store.FirstObject(study, evid.PropHasStudyPopulation); ok {
		rec.Population = pop.Value
	}
	for _, pub := range q.store.SubjectsWithObject(evid.PropReportsStudy, study) {
		if doi, ok := q.store.FirstLiteral(pub, evid.PropHasDOI); ok {
			rec.DOI = doi
			break
		}
	}
	return rec, true
}

// MeasuresByModality returns all measures using the given modality.
func (q *Querier) MeasuresByModality(modalityIRI string) []MeasureRecord {
	var out []MeasureRecord
	for _, m := range q.store.SubjectsOfType(meas.ClassMeasure) {
		if !q.hasObject(m, meas.PropIncludesModality, modalityIRI) {
			continue
		}
		name, ok := q.store.FirstLiteral(m, meas.PropHasName)
		if !ok {
			continue
		}
		rec := MeasureRecord{Measure: m, Name: name}
		rec.Description, _ = q.store.FirstLiteral(m, meas.PropHasDescription)
		rec.Construct, _ = q.store.FirstResource(m, meas.PropMeasuresConstruct)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Measure < out[j].Measure })
	return out
}

// AllConstructs lists meas:Construct and its transitive subclasses with
// display labels. The label falls back to the IRI local name.
func (q *Querier) AllConstructs() []ClassRecord {
	return q.classClosure(meas.ClassConstruct, false)
}

// AllModalities lists meas:Modality and its transitive subclasses,
// including each class's direct parent.
func (q *Querier) AllModalities() []ClassRecord {
	return q.classClosure(meas.ClassModality, true)
}

func (q *Querier) classClosure(root string, withParent bool) []ClassRecord {
	classes := q.store.SubClassClosure(root)
	out := make([]ClassRecord, 0, len(classes))
	for _, c := range classes {
		rec := ClassRecord{URI: c, LocalName: meas.LocalName(c)}
		if label, ok := q.store.FirstLiteral(c, ontology.RDFSLabel); ok {
			rec.Label = label
		} else {
			rec.Label = rec.LocalName
		}
		if withParent {
			rec.Parent, _ = q.store.FirstResource(c, ontology.RDFSSubClassOf)
		}
		out = append(out, rec)
	}
	return out
}

// AllMeasures returns every measure IRI, sorted.
func (q *Querier) AllMeasures() []string {
	measures := append([]string(nil), q.store.SubjectsOfType(meas.ClassMeasure)...)
	sort.Strings(measures)
	return measures
}

// MeasureProperties returns the categorical attributes the pattern scorer
// compares on. Modality and level are required; measures lacking either
// report ok == false. Construct keeps its full IRI for distance lookups.
func (q *Querier) MeasureProperties(measureIRI string) (MeasureProperties, bool) {
	modality, mOK := q.store.FirstResource(measureIRI, meas.PropIncludesModality)
	level, lOK := q.store.FirstResource(measureIRI, meas.PropHasLevelOfAnalysis)
	if !mOK || !lOK {
		return MeasureProperties{}, false
	}
	props := MeasureProperties{
		Modality: meas.LocalName(modality),
		Level:    meas.LocalName(level),
	}
	if tech, ok := q.store.FirstResource(measureIRI, meas.PropUsesAnalyticTechnique); ok {
		props.Technique = meas.LocalName(tech)
	}
	props.Construct, _ = q.store.FirstResource(measureIRI, meas.PropMeasuresConstruct)
	return props, true
}

// MeasureInfo returns the descriptive fields used by explanations.
// The name is required; everything else is best-effort.
func (q *Querier) MeasureInfo(measureIRI string) (MeasureInfo, bool) {
	name, ok := q.store.FirstLiteral(measureIRI, meas.PropHasName)
	if !ok {
		return MeasureInfo{}, false
	}
	info := MeasureInfo{Measure: measureIRI, Name: name}
	info.Description, _ = q.store.FirstLiteral(measureIRI, meas.PropHasDescription)
	if v, ok := q.store.FirstResource(measureIRI, meas.PropIncludesModality); ok {
		info.Modality = meas.LocalName(v)
	}
	if v, ok := q.store.FirstResource(measureIRI, meas.PropHasLevelOfAnalysis); ok {
		info.Level = meas.LocalName(v)
	}
	if v, ok := q.store.FirstResource(measureIRI, meas.PropUsesAnalyticTechnique); ok {
		info.Technique = meas.LocalName(v)
	}
	info.Construct, _ = q.store.FirstResource(measureIRI, meas.PropMeasuresConstruct)
	info.Scale, _ = q.store.FirstLiteral(measureIRI, meas.PropHasScale)
	info.Interpretation, _ = q.store.FirstLiteral(measureIRI, meas.PropHasInterpretation)
	return info, true
}

// ConstructComment returns the rdfs:comment of a construct, if any.
func (q *Querier) ConstructComment(constructIRI string) (string, bool) {
	return q.store.FirstLiteral(constructIRI, ontology.RDFSComment)
}

func (q *Querier) hasObject(subject, predicate, object string) bool {
	for _, term := range q.store.Objects(subject, predicate) {
		if term.IsResource() && term.Value == object {
			return true
		}
	}
	return false
}

func (q *Querier) floatValue(subject, predicate string) *float64 {
	raw, ok := q.store.FirstLiteral(subject, predicate)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.logger.Debug("unparseable numeric literal",
			slog.String("subject", subject),
			slog.String("predicate", predicate),
			slog.String("value", raw))
		return nil
	}
	return &v
}

func (q *Querier) intValue(subject, predicate string) *int {
	raw, ok := q.store.FirstLiteral(subject, predicate)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
