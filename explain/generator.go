// Package explain renders natural-language explanations of why a sensor
// pattern resembles a catalogued measure, backed by the evidence graph.
package explain

import (
	"fmt"
	"strings"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/query"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/search"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

// Thresholds tune the explanation wording.
type Thresholds struct {
	// HighSimilarity switches to the high-confidence template.
	HighSimilarity float64 `yaml:"high_similarity" json:"high_similarity"`
	// EffectDirection is the |mean effect| bound between "small to
	// negligible" and a directional summary.
	EffectDirection float64 `yaml:"effect_direction" json:"effect_direction"`
}

// DefaultThresholds returns the published wording thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{HighSimilarity: 0.8, EffectDirection: 0.2}
}

// Generator builds explanations from querier lookups.
type Generator struct {
	querier    *query.Querier
	thresholds Thresholds
}

// NewGenerator creates a generator over q.
func NewGenerator(q *query.Querier, t Thresholds) *Generator {
	return &Generator{querier: q, thresholds: t}
}

// Request describes one explanation to generate.
type Request struct {
	Pattern       search.Pattern `json:"pattern"`
	Measure       string         `json:"measure"`
	Score         float64        `json:"score"`
	ReasoningPath bool           `json:"reasoning_path,omitempty"`
}

// Generate renders the explanation text for a pattern/measure pair.
func (g *Generator) Generate(req Request) (string, error) {
	info, ok := g.querier.MeasureInfo(req.Measure)
	if !ok {
		return "", fmt.Errorf("measure %s has no name", req.Measure)
	}

	matches, differences := comparePattern(req.Pattern, info)

	var sb strings.Builder
	pct := fmt.Sprintf("%.0f%%", req.Score*100)
	if req.Score > g.thresholds.HighSimilarity {
		fmt.Fprintf(&sb,
			"This sensor pattern shows %s similarity to '%s'. "+
				"The pattern matches on %s, which are key characteristics of this measure.",
			pct, info.Name, formatList(matches))
	} else {
		fmt.Fprintf(&sb,
			"This pattern has %s similarity with '%s'. "+
				"While the pattern matches on %s, it differs in %s.",
			pct, info.Name, formatList(matches), formatList(differences))
	}

	if info.Construct != "" {
		fmt.Fprintf(&sb, " This measure is designed to capture %s, which reflects %s.",
			meas.LocalName(info.Construct), g.constructDescription(info.Construct))

		if summary := summarizeEffects(g.querier.EvidenceForConstruct(info.Construct), g.thresholds.EffectDirection); summary.Studies > 0 {
			fmt.Fprintf(&sb,
				" Previous studies have shown %s effects (average effect size: %.3f) across %d studies.",
				summary.Direction, summary.MeanEffect, summary.Studies)
		}
	}

	if req.ReasoningPath {
		sb.WriteString("\n\n")
		sb.WriteString(g.reasoningPath(req.Pattern, info))
	}
	return sb.String(), nil
}

// comparePattern lists the aspects the pattern shares with the measure
// and the aspects where they differ. Unspecified pattern fields are
// neither.
func comparePattern(p search.Pattern, info query.MeasureInfo) (matches, differences []string) {
	compare := func(patternVal, measureVal, aspect string) {
		if patternVal == "" {
			return
		}
		if patternVal == measureVal {
			matches = append(matches, aspect)
		} else {
			differences = append(differences, aspect)
		}
	}
	compare(p.Modality, info.Modality, "modality")
	compare(p.Level, info.Level, "level of analysis")
	compare(p.Technique, info.Technique, "analytic technique")
	return matches, differences
}

// formatList joins items for natural language: "a", "a and b",
// "a, b, and c". Empty lists read as "no aspects".
func formatList(items []string) string {
	switch len(items) {
	case 0:
		return "no aspects"
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// constructFallbacks covers constructs that lack an rdfs:comment.
var constructFallbacks = map[string]string{
	"teamPerformance":      "the overall effectiveness and efficiency of team task completion",
	"coordination":         "the synchronization and organization of team member actions",
	"communication":        "the exchange of information between team members",
	"cohesion":             "the degree of unity and connectedness within the team",
	"situationalAwareness": "team members' understanding of the current environment and task state",
	"sharedMentalModel":    "the common understanding of task goals and procedures among team members",
	"stress":               "psychological and physiological responses to demanding situations",
	"cognitiveLoad":        "the mental effort required to process information and complete tasks",
}

func (g *Generator) constructDescription(constructIRI string) string {
	if comment, ok := g.querier.ConstructComment(constructIRI); ok {
		return comment
	}
	if desc, ok := constructFallbacks[meas.LocalName(constructIRI)]; ok {
		return desc
	}
	return "team-related processes and outcomes"
}

// effectSummary aggregates evidence for the wording of the evidence
// sentence.
type effectSummary struct {
	Direction  string
	MeanEffect float64
	Studies    int
}

func summarizeEffects(evidence []query.EvidenceRecord, directionBound float64) effectSummary {
	if len(evidence) == 0 {
		return effectSummary{Direction: "no reported"}
	}

	sum, n := 0.0, 0
	studies := make(map[string]struct{})
	for _, e := range evidence {
		if e.Value != nil {
			sum += *e.Value
			n++
		}
		studies[e.Study] = struct{}{}
	}
	mean := 0.0
	if n > 0 {
		mean = sum / float64(n)
	}

	direction := "small to negligible"
	switch {
	case mean > directionBound:
		direction = "positive"
	case mean < -directionBound:
		direction = "negative"
	}
	return effectSummary{Direction: direction, MeanEffect: mean, Studies: len(studies)}
}

// reasoningPath narrates the chain from the pattern's attributes through
// the measure to its construct.
func (g *Generator) reasoningPath(p search.Pattern, info query.MeasureInfo) string {
	var steps []string
	if p.Modality != "" {
		steps = append(steps, fmt.Sprintf("Your %s sensor data", p.Modality))
	}
	if p.Technique != "" {
		steps = append(steps, fmt.Sprintf("processed using %s", p.Technique))
	}
	if p.Level != "" {
		steps = append(steps, fmt.Sprintf("analyzed at the %s level", p.Level))
	}
	steps = append(steps, fmt.Sprintf("corresponds to the '%s' measure", info.Name))

	target := "team processes"
	if info.Construct != "" {
		name := meas.LocalName(info.Construct)
		steps = append(steps, fmt.Sprintf("which captures %s", name))
		target = name
	}

	return fmt.Sprintf("The connection between your pattern and %s follows this path: %s",
		target, strings.Join(steps, " -> "))
}
