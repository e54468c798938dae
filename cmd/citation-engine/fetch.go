// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/openalex"
	"github.com/pdiddy/citation-engine/internal/snapshot"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch ID...",
	Short: "Build a snapshot from OpenAlex works",
	Long: `Fetch retrieves works from the OpenAlex API by work ID (W123... or
https://openalex.org/W123...) and keeps the citations among them. Concept
names become research domains. With --include-references the works cited
by the seeds are fetched too, up to provider.max_works.

The snapshot is written to --out, or as YAML to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("out", "", "output snapshot file (.yaml, .yml or .json)")
	fetchCmd.Flags().String("email", "", "mailto address for the OpenAlex polite pool (default: provider.email)")
	fetchCmd.Flags().Bool("include-references", false, "also fetch works cited by the seeds")
	fetchCmd.Flags().Int("max-works", 0, "maximum works in the snapshot (default: provider.max_works)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	pc := cfg.Provider
	if email, _ := cmd.Flags().GetString("email"); email != "" {
		pc.Email = email
	}
	if cmd.Flags().Changed("include-references") {
		pc.IncludeReferences, _ = cmd.Flags().GetBool("include-references")
	}
	if n, _ := cmd.Flags().GetInt("max-works"); n > 0 {
		pc.MaxWorks = n
	}

	snap, err := openalex.NewProvider(pc, logger).Fetch(cmd.Context(), args)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		data, err := snapshot.Marshal(snap, snapshot.FormatYAML)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := snapshot.Write(out, snap); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d papers and %d citations to %s\n", len(snap.Papers), len(snap.Citations), out)
	return nil
}
