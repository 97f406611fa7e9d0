package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/explain"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/search"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

func searchCmd(loadApp func() (*app, error)) *cobra.Command {
	var (
		topK   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over constructs and measures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			engine, err := prepareEngine(cmd.Context(), a)
			if err != nil {
				return err
			}

			results, err := engine.Search(cmd.Context(), strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(results)
			}
			for _, r := range results {
				fmt.Printf("%.3f  [%s] %s\n", r.Score, r.Item.Kind, r.Item.Label)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 5, "Number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// patternFlags binds the shared pattern flags for match and explain.
func patternFlags(cmd *cobra.Command, p *search.Pattern) {
	cmd.Flags().StringVar(&p.Modality, "modality", "", "Sensor modality local name, e.g. audio")
	cmd.Flags().StringVar(&p.Level, "level", "", "Level of analysis local name, e.g. team")
	cmd.Flags().StringVar(&p.Technique, "technique", "", "Analytic technique local name")
	cmd.Flags().StringVar(&p.Construct, "construct", "", "Target construct (local name or IRI)")
}

func normalizePattern(p *search.Pattern) {
	if p.Construct != "" && !isIRI(p.Construct) {
		p.Construct = meas.Namespace + p.Construct
	}
}

func matchCmd(loadApp func() (*app, error)) *cobra.Command {
	var (
		pattern search.Pattern
		topK    int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank measures by similarity to a sensor pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pattern == (search.Pattern{}) {
				return fmt.Errorf("set at least one of --modality, --level, --technique, --construct")
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			normalizePattern(&pattern)

			scorer := search.NewPatternScorer(a.querier, a.cfg.Scoring.Weights)
			matches := scorer.FindSimilar(pattern, topK)
			if asJSON {
				return printJSON(matches)
			}
			for _, m := range matches {
				fmt.Printf("%.3f  %s\n", m.Score, meas.LocalName(m.Measure))
			}
			return nil
		},
	}

	patternFlags(cmd, &pattern)
	cmd.Flags().IntVar(&topK, "top-k", 5, "Number of matches")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func explainCmd(loadApp func() (*app, error)) *cobra.Command {
	var (
		pattern   search.Pattern
		measure   string
		score     float64
		reasoning bool
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain why a pattern matches a measure",
		RunE: func(cmd *cobra.Command, args []string) error {
			if measure == "" {
				return fmt.Errorf("--measure is required")
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			normalizePattern(&pattern)
			if !isIRI(measure) {
				measure = meas.Namespace + measure
			}

			if !cmd.Flags().Changed("score") {
				scorer := search.NewPatternScorer(a.querier, a.cfg.Scoring.Weights)
				score = scorer.Score(pattern, measure)
			}

			gen := explain.NewGenerator(a.querier, a.cfg.Explain.Thresholds)
			text, err := gen.Generate(explain.Request{
				Pattern:       pattern,
				Measure:       measure,
				Score:         score,
				ReasoningPath: reasoning,
			})
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	patternFlags(cmd, &pattern)
	cmd.Flags().StringVar(&measure, "measure", "", "Measure to explain (local name or IRI)")
	cmd.Flags().Float64Var(&score, "score", 0, "Similarity score (computed when omitted)")
	cmd.Flags().BoolVar(&reasoning, "reasoning", false, "Include the reasoning path")
	return cmd
}
