// Package evid defines IRI constants for the evidence ontology namespace:
// studies, publications, and the effect sizes that link measures.
package evid

// Namespace is the base IRI prefix for all evidence terms.
const Namespace = "http://example.org/ontology/evidence#"

// InstanceNamespace is the base IRI for instance data produced by the ETL.
const InstanceNamespace = "http://example.org/ontology/instances#"

// Class IRIs define the types of evidence entities.
const (
	// ClassStudy represents a study reported by a publication.
	ClassStudy = Namespace + "Study"

	// ClassPrimaryStudy represents a primary (non-meta-analytic) study.
	// The ETL emits this alongside ClassStudy for some rows.
	ClassPrimaryStudy = Namespace + "primaryStudy"

	// ClassMetaAnalysis represents a meta-analytic study.
	ClassMetaAnalysis = Namespace + "metaAnalysis"

	// ClassPublication represents a published article.
	ClassPublication = Namespace + "Publication"

	// ClassEffectSize represents a reported effect-size statistic.
	ClassEffectSize = Namespace + "EffectSize"
)

// Property IRIs define attributes and relationships of evidence entities.
const (
	// PropHasDependentVariable links an effect size to its dependent measure.
	PropHasDependentVariable = Namespace + "hasDependentVariable"

	// PropHasIndependentVariable links an effect size to its independent measure.
	PropHasIndependentVariable = Namespace + "hasIndependentVariable"

	// PropHasEffectSizeValue is the numeric effect-size value.
	PropHasEffectSizeValue = Namespace + "hasEffectSizeValue"

	// PropUsesEffectSizeMetric is the metric the value is expressed in
	// (e.g., Cohen's d, Pearson r).
	PropUsesEffectSizeMetric = Namespace + "usesEffectSizeMetric"

	// PropHasPValue is the reported p-value.
	PropHasPValue = Namespace + "hasPValue"

	// PropHasLowerCI is the lower bound of the confidence interval.
	PropHasLowerCI = Namespace + "hasLowerCI"

	// PropHasUpperCI is the upper bound of the confidence interval.
	PropHasUpperCI = Namespace + "hasUpperCI"

	// PropHasIndividualSampleSize is the individual-level sample size.
	PropHasIndividualSampleSize = Namespace + "hasIndividualSampleSize"

	// PropHasTeamSampleSize is the team-level sample size.
	PropHasTeamSampleSize = Namespace + "hasTeamSampleSize"

	// PropHasStudyPopulation is the population a study sampled from.
	PropHasStudyPopulation = Namespace + "hasStudyPopulation"

	// PropReportsEffectSize links a study to an effect size it reports.
	PropReportsEffectSize = Namespace + "reportsEffectSize"

	// PropReportsStudy links a publication to a study it reports.
	PropReportsStudy = Namespace + "reportsStudy"

	// PropHasDOI is the publication DOI.
	PropHasDOI = Namespace + "hasDOI"

	// PropHasFirstAuthor is the publication's first author.
	PropHasFirstAuthor = Namespace + "hasFirstAuthor"

	// PropHasPubYear is the publication year.
	PropHasPubYear = Namespace + "hasPubYear"
)
