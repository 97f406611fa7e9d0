package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/export"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/evid"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

func exportCmd(loadApp func() (*app, error)) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialize the loaded graph to Turtle or N-Triples",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			a, err := loadApp()
			if err != nil {
				return err
			}

			text, err := export.NewExporter(a.provider.Store()).Export(f)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				fmt.Print(text)
				return nil
			}
			if err := os.WriteFile(output, []byte(text), 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Wrote %d bytes to %s\n", len(text), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "turtle", "Output format (turtle, ntriples)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (- for stdout)")
	return cmd
}

func embedCmd(loadApp func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Build and persist the semantic search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			engine, err := newSemanticEngine(a)
			if err != nil {
				return err
			}
			if err := buildIndex(cmd.Context(), a, engine); err != nil {
				return err
			}
			fmt.Printf("Semantic index written to %s\n", a.cfg.Embedding.IndexPath)
			return nil
		},
	}
	return cmd
}

func validateCmd(loadApp func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report integrity problems in the loaded graph",
		Long: `Validate scans the graph for records the dashboard would silently
skip: measures without a name, effect sizes without a value, and
statements pointing at resources that are never described.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			report := validateStore(a.provider.Store())

			fmt.Printf("Measures without hasName:       %d\n", len(report.UnnamedMeasures))
			for _, m := range report.UnnamedMeasures {
				fmt.Printf("  %s\n", m)
			}
			fmt.Printf("Effect sizes without a value:   %d\n", len(report.ValuelessEffects))
			for _, e := range report.ValuelessEffects {
				fmt.Printf("  %s\n", e)
			}
			fmt.Printf("Dangling object references:     %d\n", len(report.DanglingObjects))
			for _, d := range report.DanglingObjects {
				fmt.Printf("  %s\n", d)
			}

			if report.Problems() > 0 {
				return fmt.Errorf("%d problems found", report.Problems())
			}
			fmt.Println("Graph is consistent.")
			return nil
		},
	}
	return cmd
}

// validationReport lists graph records that queries would skip.
type validationReport struct {
	UnnamedMeasures  []string
	ValuelessEffects []string
	DanglingObjects  []string
}

func (r validationReport) Problems() int {
	return len(r.UnnamedMeasures) + len(r.ValuelessEffects) + len(r.DanglingObjects)
}

func validateStore(store *ontology.Store) validationReport {
	var report validationReport

	for _, m := range store.SubjectsOfType(meas.ClassMeasure) {
		if _, ok := store.FirstLiteral(m, meas.PropHasName); !ok {
			report.UnnamedMeasures = append(report.UnnamedMeasures, meas.LocalName(m))
		}
	}
	for _, e := range store.SubjectsOfType(evid.ClassEffectSize) {
		if _, ok := store.FirstLiteral(e, evid.PropHasEffectSizeValue); !ok {
			report.ValuelessEffects = append(report.ValuelessEffects, meas.LocalName(e))
		}
	}

	// An object IRI in the instance namespace with no statements of its
	// own is a broken link from the spreadsheet conversion.
	described := make(map[string]bool)
	for _, t := range store.Triples() {
		described[t.Subject] = true
	}
	seen := make(map[string]bool)
	for _, t := range store.Triples() {
		o := t.Object
		if !o.IsResource() || described[o.Value] || seen[o.Value] {
			continue
		}
		if ontology.IsSystemResource(o.Value) {
			continue
		}
		seen[o.Value] = true
		report.DanglingObjects = append(report.DanglingObjects,
			fmt.Sprintf("%s (referenced by %s)", meas.LocalName(o.Value), meas.LocalName(t.Subject)))
	}
	return report
}
