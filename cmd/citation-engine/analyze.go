// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/analysis"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a full analysis over a snapshot",
	Long: `Analyze builds the citation graph from a snapshot file or the store,
then ranks papers, detects clusters and their trends, finds cross-domain
opportunities and breakthrough papers, and produces recommendations for
every stored profile.

The run status is complete, degraded (results carry warnings such as
non-convergence or dropped records) or cancelled (interrupted, no results).`,
	RunE: runAnalyze,
}

func init() {
	addInputFlags(analyzeCmd)
	addAnalysisFlags(analyzeCmd)
	analyzeCmd.Flags().Int("top", 10, "number of top-ranked papers to list")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	snap, err := loadInput(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	rep, err := newEngine().Run(cmd.Context(), snap, analysisConfig(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		top, _ := cmd.Flags().GetInt("top")
		printReport(os.Stdout, rep, top)
	}

	if rep.Status == types.StatusCancelled {
		return fmt.Errorf("analysis cancelled")
	}
	return nil
}

func printReport(w io.Writer, rep *analysis.Report, top int) {
	fmt.Fprintf(w, "run %s: %s", rep.RunID, rep.Status)
	if rep.Cached {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintf(w, " in %s\n", rep.Elapsed.Round(time.Millisecond))
	if rep.Status == types.StatusCancelled {
		return
	}

	dq := rep.DataQuality
	fmt.Fprintf(w, "papers: %d/%d kept, citations: %d/%d kept\n",
		dq.PapersKept, dq.PapersIn, dq.CitationsKept, dq.CitationsIn)
	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "warning: %s %s: %s\n", warn.Code, warn.Subject, warn.Detail)
	}

	fmt.Fprintf(w, "\n%-4s  %-20s  %-9s  %-9s  %-9s  %s\n",
		"Rank", "Paper", "PageRank", "Between", "Velocity", "In")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for i, n := range topNodes(rep.Nodes, top) {
		fmt.Fprintf(w, "%-4d  %-20s  %-9.5f  %-9.5f  %-9.2f  %d\n",
			i+1, truncate(n.PMID, 20), n.PageRank, n.BetweennessCentrality, n.CitationVelocity, n.InDegree)
	}

	fmt.Fprintf(w, "\nclusters: %d (%d unclustered)\n", len(rep.Clusters), len(rep.Unclustered))
	for _, c := range rep.Clusters {
		fmt.Fprintf(w, "  %s  %-30s  %3d papers  %d-%d  %s\n",
			c.ID, truncate(c.Theme, 30), len(c.Members), c.TemporalSpan.Start, c.TemporalSpan.End, c.GrowthTrajectory)
	}

	fmt.Fprintf(w, "\ntrends:%s\n", reason(rep.Trends.Reason))
	for _, t := range rep.Trends.Trends {
		fmt.Fprintf(w, "  %s  growth %+.2f  momentum %+.2f  p=%.2f  %s\n",
			t.ClusterID, t.GrowthRate, t.CitationMomentum, t.BreakthroughProbability, t.PredictedTrajectory)
	}

	fmt.Fprintf(w, "\nopportunities:%s\n", reason(rep.Opportunities.Reason))
	for _, o := range rep.Opportunities.Opportunities {
		fmt.Fprintf(w, "  %s (%s) <-> %s (%s)  strength %.3f  potential %.3f  %d edges\n",
			o.ClusterA, o.DomainA, o.ClusterB, o.DomainB, o.ConnectionStrength, o.InnovationPotential, o.BridgingEdges)
	}

	b := rep.Breakthroughs
	fmt.Fprintf(w, "\nbreakthroughs: current %s, emerging %s, predicted %s\n",
		pmids(b.Current), pmids(b.Emerging), pmids(b.Predicted))

	for _, rl := range rep.Recommendations {
		fmt.Fprintf(w, "\nrecommendations for %s:%s\n", rl.UserID, reason(rl.Reason))
		for i, r := range rl.Recommendations {
			fmt.Fprintf(w, "  %2d. %-20s  %.3f  %s\n", i+1, truncate(r.PMID, 20), r.Score, r.Reasoning)
		}
	}
}

// topNodes returns the n nodes with the highest PageRank, ties by pmid.
func topNodes(nodes []types.NodeMetrics, n int) []types.NodeMetrics {
	sorted := append([]types.NodeMetrics(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PageRank != sorted[j].PageRank {
			return sorted[i].PageRank > sorted[j].PageRank
		}
		return sorted[i].PMID < sorted[j].PMID
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func pmids(bs []types.Breakthrough) string {
	if len(bs) == 0 {
		return "none"
	}
	ids := make([]string, len(bs))
	for i, b := range bs {
		ids[i] = b.PMID
	}
	return strings.Join(ids, ", ")
}

func reason(r types.ReasonCode) string {
	if r == types.ReasonNone {
		return ""
	}
	return " " + string(r)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
