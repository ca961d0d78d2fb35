package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tagsOutput string

// tagsCmd represents the tags command
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the remote vendor tags",
	Long: `Fetches the remote catalog's tag list. Tags scope reconciliation
sessions to a single vendor's items.`,
	RunE: runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)

	tagsCmd.Flags().StringVar(&tagsOutput, "output", "table", "Output format: table or json")
}

func runTags(cmd *cobra.Command, args []string) error {
	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	tags := client.FetchTags(context.Background())

	switch strings.ToLower(tagsOutput) {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(tags)
	case "table":
		if len(tags) == 0 {
			fmt.Println("No tags found (or remote unavailable)")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "ID\tName\n")
		fmt.Fprintf(w, "--\t----\n")
		for _, tag := range tags {
			fmt.Fprintf(w, "%s\t%s\n", tag.ID, tag.Name)
		}
		w.Flush()
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", tagsOutput)
	}
}
