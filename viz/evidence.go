package viz

import (
	"github.com/dr-rosen-rosen/bioTDMS-explainer/query"
)

// significanceLevel is the p-value bound used for the summary count.
const significanceLevel = 0.05

// ForestRow is one effect size in the forest plot.
type ForestRow struct {
	Label   string   `json:"label"`
	Value   float64  `json:"value"`
	LowerCI *float64 `json:"lower_ci,omitempty"`
	UpperCI *float64 `json:"upper_ci,omitempty"`
	PValue  *float64 `json:"p_value,omitempty"`
	Study   string   `json:"study"`
	Metric  string   `json:"metric,omitempty"`
}

// ForestSummary aggregates the plotted effects.
type ForestSummary struct {
	Count       int     `json:"count"`
	MeanEffect  float64 `json:"mean_effect"`
	Significant int     `json:"significant"`
	Studies     int     `json:"studies"`
}

// ForestPlotPayload is the forest-plot document served to the frontend.
type ForestPlotPayload struct {
	Rows    []ForestRow   `json:"rows"`
	Summary ForestSummary `json:"summary"`
}

// ForestPlot converts evidence records into plot rows plus summary
// statistics. Records without an effect value are excluded; rows keep
// the querier's effect-size ordering.
func ForestPlot(evidence []query.EvidenceRecord) ForestPlotPayload {
	payload := ForestPlotPayload{Rows: []ForestRow{}}
	sum := 0.0
	studies := make(map[string]struct{})

	for _, e := range evidence {
		if e.Value == nil {
			continue
		}
		payload.Rows = append(payload.Rows, ForestRow{
			Label:   e.MeasureName,
			Value:   *e.Value,
			LowerCI: e.LowerCI,
			UpperCI: e.UpperCI,
			PValue:  e.PValue,
			Study:   e.Study,
			Metric:  e.Metric,
		})
		sum += *e.Value
		studies[e.Study] = struct{}{}
		if e.PValue != nil && *e.PValue < significanceLevel {
			payload.Summary.Significant++
		}
	}

	payload.Summary.Count = len(payload.Rows)
	payload.Summary.Studies = len(studies)
	if payload.Summary.Count > 0 {
		payload.Summary.MeanEffect = sum / float64(payload.Summary.Count)
	}
	return payload
}
