// Package meas defines IRI constants for the team-measurement ontology
// namespace. Class and property terms mirror the vocabulary used by the
// ETL that produces the instance data.
package meas

import "strings"

// Namespace is the base IRI prefix for all team-measurement terms.
const Namespace = "http://example.org/ontology/teamMeasurement#"

// Class IRIs define the types of entities in the measurement ontology.
const (
	// ClassConstruct represents an abstract team concept (e.g., cohesion).
	ClassConstruct = Namespace + "Construct"

	// ClassMeasure represents an operational sensor/survey procedure that
	// quantifies some construct.
	ClassMeasure = Namespace + "Measure"

	// ClassModality represents a data modality (survey, physiology, ...).
	ClassModality = Namespace + "Modality"

	// ClassMethod represents an analytic method or technique.
	ClassMethod = Namespace + "Method"

	// ClassAnalyticTechnique represents an analytic technique class.
	ClassAnalyticTechnique = Namespace + "analyticTechnique"

	// ClassLevelOfAnalysis represents a level-of-analysis class.
	ClassLevelOfAnalysis = Namespace + "levelOfAnalysis"
)

// Property IRIs define attributes and relationships of measures.
const (
	// PropHasName is the measure's human-readable name.
	PropHasName = Namespace + "hasName"

	// PropHasDescription is the free-text description.
	PropHasDescription = Namespace + "hasDescription"

	// PropHasScale is the measurement scale of a survey measure.
	PropHasScale = Namespace + "hasScale"

	// PropHasInterpretation is guidance for interpreting scores.
	PropHasInterpretation = Namespace + "hasInterpretation"

	// PropIncludesModality links a measure to its data modality.
	PropIncludesModality = Namespace + "includesModality"

	// PropHasLevelOfAnalysis links a measure to its level of analysis
	// (individual, dyad, team, crossLevel).
	PropHasLevelOfAnalysis = Namespace + "hasLevelOfAnalysis"

	// PropUsesAnalyticTechnique links a measure to its analytic technique.
	PropUsesAnalyticTechnique = Namespace + "usesAnalyticTechnique"

	// PropUsesMethod links a measure to its collection method.
	PropUsesMethod = Namespace + "usesMethod"

	// PropMeasuresConstruct links a measure to the construct it quantifies.
	PropMeasuresConstruct = Namespace + "measuresConstruct"

	// PropHasTeamSize records the team size a measure was used with.
	PropHasTeamSize = Namespace + "hasTeamSize"
)

// Well-known individuals referenced by the pattern builder.
const (
	LevelIndividual = Namespace + "individual"
	LevelDyad       = Namespace + "dyad"
	LevelTeam       = Namespace + "team"
	LevelCrossLevel = Namespace + "crossLevel"

	TechniqueSimpleAggregation    = Namespace + "simpleAggregation"
	TechniqueSynchrony            = Namespace + "synchrony"
	TechniqueNetworkAnalysis      = Namespace + "networkAnalysis"
	TechniqueInformationTheoretic = Namespace + "informationTheoretic"
	TechniqueCRQA                 = Namespace + "CRQA"
)

// LocalName shortens an IRI to its fragment or final path segment.
// IRIs without a separator are returned unchanged.
func LocalName(iri string) string {
	if i := strings.LastIndex(iri, "#"); i >= 0 {
		return iri[i+1:]
	}
	if i := strings.LastIndex(iri, "/"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}
