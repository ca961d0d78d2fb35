package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shelfmirror/inventory-service/internal/parsers/csvfile"
	"github.com/shelfmirror/inventory-service/internal/parsers/xlsxfile"
	"github.com/shelfmirror/inventory-service/internal/reconcile"
	"github.com/shelfmirror/inventory-service/internal/vendorrule"
)

var (
	parseOutput string
	parseRule   string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a vendor shipment file and show what a session would see",
	Long: `Parse a local vendor shipment file (CSV or XLSX) and show the headers,
the inferred column roles, per-rule quantity calculations, and a sample of
rows. Useful for checking a vendor's file format before uploading it to a
reconciliation session.`,
	Example: `  inventory-service parse ./shipments/acme.csv
  inventory-service parse ./shipments/acme.xlsx --rule case-pack --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table or json")
	parseCmd.Flags().StringVar(&parseRule, "rule", "quantity", "Stock calculation rule to preview")
}

type parsePreview struct {
	Headers    []string                `json:"headers"`
	Hints      reconcile.ColumnHints   `json:"hints"`
	Rule       string                  `json:"rule"`
	TotalRows  int                     `json:"totalRows"`
	TotalUnits int                     `json:"totalUnits"`
	Sample     []map[string]string     `json:"sample"`
	Quantities []int                   `json:"quantities"`
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	logger.Info().Str("file", filePath).Msg("Reading file")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var result *csvfile.Result
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		result, err = xlsxfile.Parse(content)
	default:
		result, err = csvfile.Parse(content)
	}
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	hints := reconcile.InferColumns(result.Headers)
	rule := vendorrule.Lookup(parseRule, hints.Quantity)

	preview := parsePreview{
		Headers:   result.Headers,
		Hints:     hints,
		Rule:      rule.Name(),
		TotalRows: len(result.Rows),
	}
	for _, row := range result.Rows {
		qty := rule.CalculateStock(row)
		preview.Quantities = append(preview.Quantities, qty)
		preview.TotalUnits += qty
	}
	if len(result.Rows) > 5 {
		preview.Sample = result.Rows[:5]
	} else {
		preview.Sample = result.Rows
	}

	switch strings.ToLower(parseOutput) {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(preview)
	case "table":
		outputParseTable(preview)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", parseOutput)
	}
}

func outputParseTable(preview parsePreview) {
	fmt.Printf("\nParse Preview\n")
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Headers\t%s\n", strings.Join(preview.Headers, ", "))
	fmt.Fprintf(w, "Identifier column\t%s\n", orDash(preview.Hints.Identifier))
	fmt.Fprintf(w, "Name column\t%s\n", orDash(preview.Hints.Name))
	fmt.Fprintf(w, "Quantity column\t%s\n", orDash(preview.Hints.Quantity))
	fmt.Fprintf(w, "Rule\t%s\n", preview.Rule)
	fmt.Fprintf(w, "Total rows\t%d\n", preview.TotalRows)
	fmt.Fprintf(w, "Total units\t%d\n", preview.TotalUnits)
	w.Flush()

	if len(preview.Sample) > 0 {
		fmt.Printf("\nSample Rows (first %d):\n", len(preview.Sample))
		fmt.Println(strings.Repeat("-", 60))
		for i, row := range preview.Sample {
			id := row[preview.Hints.Identifier]
			name := row[preview.Hints.Name]
			fmt.Printf("%d. %s - %s (units: %d)\n", i+1, orDash(id), orDash(name), preview.Quantities[i])
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
