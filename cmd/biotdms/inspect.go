package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/search"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statsCmd(loadApp func() (*app, error)) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics of the loaded graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			stats := a.provider.Store().Stats()
			if asJSON {
				return printJSON(stats)
			}
			fmt.Printf("Triples:      %d\n", stats.TotalTriples)
			fmt.Printf("Classes:      %d\n", stats.Classes)
			fmt.Printf("Properties:   %d\n", stats.Properties)
			fmt.Printf("Measures:     %d\n", stats.Measures)
			fmt.Printf("Studies:      %d\n", stats.Studies)
			fmt.Printf("Effect sizes: %d\n", stats.EffectSizes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func constructsCmd(loadApp func() (*app, error)) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "constructs",
		Short: "List the constructs in the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			constructs := a.querier.AllConstructs()
			if asJSON {
				return printJSON(constructs)
			}
			for _, c := range constructs {
				fmt.Printf("%-30s %s\n", c.LocalName, c.Label)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func evidenceCmd(loadApp func() (*app, error)) *cobra.Command {
	var (
		asJSON bool
		pValue float64
	)

	cmd := &cobra.Command{
		Use:   "evidence <construct>",
		Short: "List effect-size evidence for a construct",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			construct := args[0]
			iri := construct
			if !isIRI(iri) {
				iri = meas.Namespace + construct
			}

			records := a.querier.EvidenceForConstruct(iri)
			if cmd.Flags().Changed("p-value") {
				records = search.ApplyFilters(records, search.Filters{PValueThreshold: &pValue})
			}
			if asJSON {
				return printJSON(records)
			}
			if len(records) == 0 {
				fmt.Printf("No evidence found for %s\n", construct)
				return nil
			}
			for _, rec := range records {
				val := "n/a"
				if rec.Value != nil {
					val = fmt.Sprintf("%.3f", *rec.Value)
				}
				fmt.Printf("%-40s %8s  %-12s %s\n", rec.MeasureName, val, rec.Metric, rec.Study)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().Float64Var(&pValue, "p-value", 0.05, "Only keep records at or below this p-value")
	return cmd
}

func isIRI(s string) bool {
	for i := 0; i+2 < len(s); i++ {
		if s[i] == ':' && s[i+1] == '/' && s[i+2] == '/' {
			return true
		}
	}
	return false
}
