// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend papers to one user",
	Long: `Recommend ranks papers for a user by blending collaborative filtering
over similar users with content matching against the user's stated
preferences. Papers the user already interacted with are never returned.`,
	RunE: runRecommend,
}

func init() {
	addInputFlags(recommendCmd)
	addAnalysisFlags(recommendCmd)
	recommendCmd.Flags().String("user", "", "user ID (required)")
	recommendCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")

	snap, err := loadInput(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	list, err := newEngine().Recommend(cmd.Context(), snap, userID, analysisConfig(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list.Recommendations) == 0 {
		fmt.Printf("No recommendations for %s (%s).\n", userID, list.Reason)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-6s  %-6s  %-13s  %s\n",
		"Rank", "Paper", "Score", "Conf", "Signal", "Reasoning")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, r := range list.Recommendations {
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-6.3f  %-6.2f  %-13s  %s\n",
			i+1, truncate(r.PMID, 20), r.Score, r.Confidence, r.Dominant, r.Reasoning)
	}
	fmt.Fprintf(os.Stdout, "\n%d recommendations\n", len(list.Recommendations))
	return nil
}
