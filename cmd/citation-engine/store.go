// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/snapshot"
)

// --- import subcommand ---

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a snapshot file into the store",
	Long: `Import upserts the papers, citations and profiles of a snapshot file
into the SQLite store. Interactions are merged with those already stored.`,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("snapshot")
	if path == "" {
		return fmt.Errorf("--snapshot is required")
	}
	snap, err := snapshot.Load(path)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Import(cmd.Context(), snap)
	if err != nil {
		return err
	}
	fmt.Printf("imported papers: %d, citations: %d, profiles: %d, new interactions: %d\n",
		summary.Papers, summary.Citations, summary.Profiles, summary.Interactions)
	return nil
}

// --- export subcommand ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the store to YAML or JSON",
	Long: `Export writes the stored snapshot to export.yaml or export.json in the
store directory. The output can be read back with --snapshot.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := snapshot.ParseFormat(name)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	path, err := s.Export(cmd.Context(), format)
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- record subcommand ---

var recordCmd = &cobra.Command{
	Use:   "record PMID...",
	Short: "Record that a user interacted with papers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, pmid := range args {
		if err := s.RecordInteraction(cmd.Context(), userID, pmid); err != nil {
			return err
		}
	}
	fmt.Printf("recorded %d interaction(s) for %s\n", len(args), userID)
	return nil
}

func init() {
	importCmd.Flags().String("snapshot", "", "snapshot file to import (.yaml, .yml or .json)")
	importCmd.Flags().String("db", "", "store directory (default: store.dir)")

	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("db", "", "store directory (default: store.dir)")

	recordCmd.Flags().String("user", "", "user ID (required)")
	recordCmd.Flags().String("db", "", "store directory (default: store.dir)")
	recordCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(recordCmd)
}
