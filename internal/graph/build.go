// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/citation-engine/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// IssueCode classifies a record dropped during Build.
type IssueCode string

const (
	IssueInvalidPaper       IssueCode = "invalid_paper"
	IssueDuplicatePaper     IssueCode = "duplicate_paper"
	IssueInvalidCitation    IssueCode = "invalid_citation"
	IssueUnknownEndpoint    IssueCode = "unknown_endpoint"
	IssueSelfCitation       IssueCode = "self_citation"
	IssueCausalityViolation IssueCode = "causality_violation"
	IssueDuplicateCitation  IssueCode = "duplicate_citation"
)

// Issue records one dropped paper or citation.
type Issue struct {
	Code   IssueCode `json:"code" yaml:"code"`
	Record string    `json:"record" yaml:"record"`
	Detail string    `json:"detail" yaml:"detail"`
}

// Report is the data-quality report of a Build call. Every dropped record
// appears exactly once in Issues.
type Report struct {
	PapersIn      int     `json:"papers_in" yaml:"papers_in"`
	PapersKept    int     `json:"papers_kept" yaml:"papers_kept"`
	CitationsIn   int     `json:"citations_in" yaml:"citations_in"`
	CitationsKept int     `json:"citations_kept" yaml:"citations_kept"`
	Issues        []Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Count returns the number of issues with the given code.
func (r Report) Count(code IssueCode) int {
	n := 0
	for _, is := range r.Issues {
		if is.Code == code {
			n++
		}
	}
	return n
}

// CitationsRejected returns the number of citations dropped.
func (r Report) CitationsRejected() int {
	return r.CitationsIn - r.CitationsKept
}

func (r *Report) add(code IssueCode, record, detail string) {
	r.Issues = append(r.Issues, Issue{Code: code, Record: record, Detail: detail})
}

// DataQualityError is returned when a snapshot has no usable papers. It
// carries the full report so callers can show why every record was dropped.
type DataQualityError struct {
	Report Report
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("data quality: %d of %d papers valid", e.Report.PapersKept, e.Report.PapersIn)
}

// Unwrap lets errors.Is match types.ErrEmptyGraph.
func (e *DataQualityError) Unwrap() error { return types.ErrEmptyGraph }

// Build validates papers and citations and assembles them into a Graph.
// Papers are deduplicated by pmid (first occurrence wins). Citations that
// fail validation, reference unknown papers, cite themselves, cite a later
// paper, or repeat an earlier pair are dropped. Every drop is recorded in the
// returned Report. Build fails only when no valid paper remains.
func Build(papers []types.Paper, citations []types.Citation) (*Graph, Report, error) {
	report := Report{PapersIn: len(papers), CitationsIn: len(citations)}

	seen := make(map[string]bool, len(papers))
	nodes := make([]types.Paper, 0, len(papers))
	for i, p := range papers {
		record := p.PMID
		if record == "" {
			record = fmt.Sprintf("papers[%d]", i)
		}
		if err := validate.Struct(p); err != nil {
			report.add(IssueInvalidPaper, record, describe(err))
			continue
		}
		if seen[p.PMID] {
			report.add(IssueDuplicatePaper, record, "pmid already present; first occurrence kept")
			continue
		}
		seen[p.PMID] = true
		nodes = append(nodes, normalizePaper(p))
	}
	report.PapersKept = len(nodes)
	if len(nodes) == 0 {
		return nil, report, &DataQualityError{Report: report}
	}

	sort.Slice(nodes, func(a, b int) bool { return nodes[a].PMID < nodes[b].PMID })
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.PMID] = i
	}

	type pair struct{ from, to int }
	pairs := make(map[pair]bool, len(citations))
	edges := make([]Edge, 0, len(citations))
	for i, c := range citations {
		record := c.CitingID + "->" + c.CitedID
		if c.CitingID == "" || c.CitedID == "" {
			record = fmt.Sprintf("citations[%d]", i)
		}
		if err := validate.Struct(c); err != nil {
			report.add(IssueInvalidCitation, record, describe(err))
			continue
		}
		if c.CitingID == c.CitedID {
			report.add(IssueSelfCitation, record, "paper cites itself")
			continue
		}
		from, okFrom := index[c.CitingID]
		to, okTo := index[c.CitedID]
		if !okFrom || !okTo {
			missing := c.CitingID
			if okFrom {
				missing = c.CitedID
			}
			report.add(IssueUnknownEndpoint, record, fmt.Sprintf("unknown pmid %q", missing))
			continue
		}
		citingYear, citedYear := nodes[from].Year, nodes[to].Year
		if citingYear < citedYear {
			report.add(IssueCausalityViolation, record,
				fmt.Sprintf("citing year %d precedes cited year %d", citingYear, citedYear))
			continue
		}
		key := pair{from, to}
		if pairs[key] {
			report.add(IssueDuplicateCitation, record, "pair already present; first occurrence kept")
			continue
		}
		pairs[key] = true

		c.Context = c.Context.Normalize()
		c.Sentiment = c.Sentiment.Normalize()
		c.TemporalDistance = citingYear - citedYear
		edges = append(edges, Edge{From: from, To: to, Citation: c})
	}
	report.CitationsKept = len(edges)

	sort.Slice(edges, func(a, b int) bool {
		if edges[a].From != edges[b].From {
			return edges[a].From < edges[b].From
		}
		return edges[a].To < edges[b].To
	})

	g := &Graph{
		nodes: nodes,
		index: index,
		edges: edges,
		out:   make([][]int, len(nodes)),
		in:    make([][]int, len(nodes)),
	}
	// Edges are sorted by (From, To), so out lists come out sorted by To.
	// In lists are appended in From order for the same reason.
	for e, edge := range edges {
		g.out[edge.From] = append(g.out[edge.From], e)
		g.in[edge.To] = append(g.in[edge.To], e)
	}

	hash, err := contentHash(nodes, edges)
	if err != nil {
		return nil, report, fmt.Errorf("hashing graph: %w", err)
	}
	g.hash = hash

	return g, report, nil
}

// normalizePaper fills enum defaults and turns the domain list into a sorted set.
func normalizePaper(p types.Paper) types.Paper {
	p.Methodology = p.Methodology.Normalize()
	if len(p.ResearchDomains) > 0 {
		set := make(map[string]bool, len(p.ResearchDomains))
		domains := make([]string, 0, len(p.ResearchDomains))
		for _, d := range p.ResearchDomains {
			d = strings.ToLower(strings.TrimSpace(d))
			if d == "" || set[d] {
				continue
			}
			set[d] = true
			domains = append(domains, d)
		}
		sort.Strings(domains)
		p.ResearchDomains = domains
	}
	return p
}

// describe flattens validator errors into one line.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// contentHash hashes the canonical JSON encoding of the sorted nodes and
// edges. Two snapshots with the same valid content hash identically
// regardless of input order.
func contentHash(nodes []types.Paper, edges []Edge) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, n := range nodes {
		if err := enc.Encode(n); err != nil {
			return "", err
		}
	}
	for _, e := range edges {
		if err := enc.Encode(e.Citation); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
