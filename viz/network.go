// Package viz builds visualization payloads for the dashboard frontend.
// Only data is produced here; layout and rendering happen client-side.
package viz

import (
	"fmt"
	"strings"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/query"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/evid"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

// Node groups drive frontend coloring.
const (
	GroupConstruct = "Construct"
	GroupMeasure   = "Measure"
	GroupStudy     = "Study"
	GroupModality  = "Modality"
	GroupMethod    = "Method"
	GroupUnknown   = "Unknown"
)

// Node is one resource in the network payload.
type Node struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Group       string            `json:"group"`
	Focus       bool              `json:"focus,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Edge is one resource-to-resource statement.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// NetworkPayload is the nodes/edges document served to the frontend.
type NetworkPayload struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NetworkBuilder extracts neighborhood and full-graph payloads.
type NetworkBuilder struct {
	querier *query.Querier
}

// NewNetworkBuilder creates a builder over q's store.
func NewNetworkBuilder(q *query.Querier) *NetworkBuilder {
	return &NetworkBuilder{querier: q}
}

// ResolveFocus maps user input to a resource IRI: exact IRI first, then
// case-insensitive local name, then rdfs:label or meas:hasName literal.
func (b *NetworkBuilder) ResolveFocus(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	store := b.querier.Store()

	if len(store.SubjectTriples(input)) > 0 {
		return input, true
	}

	lower := strings.ToLower(input)
	for _, t := range store.Triples() {
		for _, candidate := range resourceValues(t) {
			if strings.ToLower(meas.LocalName(candidate)) == lower {
				return candidate, true
			}
		}
	}
	for _, pred := range []string{ontology.RDFSLabel, meas.PropHasName} {
		for _, t := range store.PredicateTriples(pred) {
			if t.Object.Kind == ontology.KindLiteral && strings.EqualFold(t.Object.Value, input) {
				return t.Subject, true
			}
		}
	}
	return "", false
}

func resourceValues(t ontology.Triple) []string {
	vals := []string{t.Subject}
	if t.Object.IsResource() {
		vals = append(vals, t.Object.Value)
	}
	return vals
}

// Neighborhood returns the nodes within depth hops of focus, following
// edges in both directions and skipping system resources.
func (b *NetworkBuilder) Neighborhood(focus string, depth int) NetworkPayload {
	if depth <= 0 {
		depth = 2
	}
	store := b.querier.Store()

	visited := map[string]bool{focus: true}
	frontier := []string{focus}
	payload := NetworkPayload{}
	edgeSeen := map[string]bool{}

	addNode := func(iri string, isFocus bool) {
		payload.Nodes = append(payload.Nodes, b.node(iri, isFocus))
	}
	addNode(focus, true)

	for d := 0; d < depth; d++ {
		var next []string
		for _, cur := range frontier {
			for _, t := range store.SubjectTriples(cur) {
				if !t.Object.IsResource() || ontology.IsSystemResource(t.Object.Value) {
					continue
				}
				b.appendEdge(&payload, edgeSeen, t.Subject, t.Object.Value, t.Predicate)
				if !visited[t.Object.Value] {
					visited[t.Object.Value] = true
					addNode(t.Object.Value, false)
					next = append(next, t.Object.Value)
				}
			}
			for _, t := range store.Triples() {
				if !t.Object.IsResource() || t.Object.Value != cur {
					continue
				}
				if ontology.IsSystemResource(t.Subject) {
					continue
				}
				b.appendEdge(&payload, edgeSeen, t.Subject, cur, t.Predicate)
				if !visited[t.Subject] {
					visited[t.Subject] = true
					addNode(t.Subject, false)
					next = append(next, t.Subject)
				}
			}
		}
		frontier = next
	}
	return payload
}

// FullGraph returns every non-system resource edge. Large but the
// dataset tops out in the low thousands of triples.
func (b *NetworkBuilder) FullGraph() NetworkPayload {
	store := b.querier.Store()
	payload := NetworkPayload{}
	nodeSeen := map[string]bool{}
	edgeSeen := map[string]bool{}

	for _, t := range store.Triples() {
		if !t.Object.IsResource() {
			continue
		}
		if ontology.IsSystemResource(t.Subject) || ontology.IsSystemResource(t.Object.Value) ||
			hiddenPredicate(t.Predicate) {
			continue
		}
		for _, iri := range []string{t.Subject, t.Object.Value} {
			if !nodeSeen[iri] {
				nodeSeen[iri] = true
				payload.Nodes = append(payload.Nodes, b.node(iri, false))
			}
		}
		b.appendEdge(&payload, edgeSeen, t.Subject, t.Object.Value, t.Predicate)
	}
	return payload
}

// hiddenPredicate reports predicates whose edges clutter the full
// graph. RDFS predicates stay visible: rdfs:subClassOf carries the
// class hierarchy.
func hiddenPredicate(predicate string) bool {
	return strings.HasPrefix(predicate, ontology.RDFNamespace) ||
		strings.HasPrefix(predicate, ontology.OWLNamespace) ||
		strings.HasPrefix(predicate, ontology.XSDNamespace)
}

func (b *NetworkBuilder) appendEdge(p *NetworkPayload, seen map[string]bool, from, to, predicate string) {
	key := fmt.Sprintf("%s|%s|%s", from, predicate, to)
	if seen[key] {
		return
	}
	seen[key] = true
	p.Edges = append(p.Edges, Edge{From: from, To: to, Label: meas.LocalName(predicate)})
}

func (b *NetworkBuilder) node(iri string, focus bool) Node {
	return Node{
		ID:          iri,
		Label:       meas.LocalName(iri),
		Group:       b.nodeGroup(iri),
		Focus:       focus,
		Annotations: b.annotations(iri),
	}
}

// nodeGroup classifies a resource by its rdf:type, falling back to
// subclass-closure membership for ontology classes themselves.
func (b *NetworkBuilder) nodeGroup(iri string) string {
	store := b.querier.Store()
	for _, t := range store.Objects(iri, ontology.RDFType) {
		if !t.IsResource() {
			continue
		}
		switch t.Value {
		case meas.ClassMeasure:
			return GroupMeasure
		case meas.ClassMethod, meas.ClassAnalyticTechnique:
			return GroupMethod
		case evid.ClassStudy, evid.ClassPrimaryStudy, evid.ClassMetaAnalysis:
			return GroupStudy
		}
	}
	for _, class := range store.SubClassClosure(meas.ClassConstruct) {
		if class == iri {
			return GroupConstruct
		}
	}
	for _, class := range store.SubClassClosure(meas.ClassModality) {
		if class == iri {
			return GroupModality
		}
	}
	return GroupUnknown
}

// annotations gathers display literals for node tooltips.
func (b *NetworkBuilder) annotations(iri string) map[string]string {
	store := b.querier.Store()
	out := map[string]string{}
	for key, pred := range map[string]string{
		"name":        meas.PropHasName,
		"label":       ontology.RDFSLabel,
		"description": meas.PropHasDescription,
		"comment":     ontology.RDFSComment,
	} {
		if v, ok := store.FirstLiteral(iri, pred); ok {
			out[key] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
