// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex implements the bibliographic data provider over the
// OpenAlex works API. It fetches works by OpenAlex ID in batches, maps them
// to papers, and keeps the citation edges among the fetched works.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/internal/logging"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// worksBase is the OpenAlex works endpoint. Declared as a var so tests can
// substitute an httptest server.
var worksBase = "https://api.openalex.org/works"

const (
	// batchSize is the number of IDs per filter request; OpenAlex accepts
	// at most 50 values in one OR filter.
	batchSize = 50

	defaultMaxWorks = 500

	// minConceptScore drops weakly attached concepts.
	minConceptScore = 0.3

	// Citation attributes OpenAlex does not provide.
	defaultImportance = 1.0
	defaultSimilarity = 0.5

	openAlexPrefix = "https://openalex.org/"
	pubmedPrefix   = "https://pubmed.ncbi.nlm.nih.gov/"
)

// selectFields limits the response payload to what fetchWorks maps.
var selectFields = strings.Join([]string{
	"id", "ids", "doi", "title", "publication_year", "cited_by_count",
	"authorships", "primary_location", "concepts", "referenced_works",
}, ",")

// Provider fetches snapshots from OpenAlex.
type Provider struct {
	Client *httputil.Client

	// Email is sent as mailto parameter for polite pool access.
	Email string

	// APIKey is sent as api_key parameter when set.
	APIKey string

	// IncludeReferences also fetches the works each seed cites.
	IncludeReferences bool

	// MaxWorks caps the number of works in one snapshot.
	MaxWorks int

	log logging.Logger
}

// NewProvider creates a Provider from cfg. A nil log discards output.
func NewProvider(cfg types.ProviderConfig, log logging.Logger) *Provider {
	if log == nil {
		log = logging.NewNop()
	}
	maxWorks := cfg.MaxWorks
	if maxWorks <= 0 {
		maxWorks = defaultMaxWorks
	}
	return &Provider{
		Client:            httputil.NewClient(cfg.Timeout, cfg.UserAgent, cfg.RequestsPerSecond, cfg.MaxRetries),
		Email:             cfg.Email,
		APIKey:            cfg.APIKey,
		IncludeReferences: cfg.IncludeReferences,
		MaxWorks:          maxWorks,
		log:               log.Named("openalex"),
	}
}

// Fetch returns a snapshot holding the works identified by ids (OpenAlex IDs,
// bare or as URLs) and the citations among them. With IncludeReferences the
// works cited by the seeds are fetched as well, up to MaxWorks in total.
// IDs OpenAlex does not know are skipped.
func (p *Provider) Fetch(ctx context.Context, ids []string) (types.Snapshot, error) {
	seeds, err := normalizeIDs(ids)
	if err != nil {
		return types.Snapshot{}, err
	}
	if len(seeds) > p.MaxWorks {
		seeds = seeds[:p.MaxWorks]
	}

	works, err := p.fetchWorks(ctx, seeds)
	if err != nil {
		return types.Snapshot{}, err
	}

	if p.IncludeReferences {
		var refs []string
		seen := make(map[string]bool, len(works))
		for _, w := range works {
			seen[shortID(w.ID)] = true
		}
		for _, w := range works {
			for _, r := range w.ReferencedWorks {
				id := shortID(r)
				if !seen[id] && len(works)+len(refs) < p.MaxWorks {
					seen[id] = true
					refs = append(refs, id)
				}
			}
		}
		more, err := p.fetchWorks(ctx, refs)
		if err != nil {
			return types.Snapshot{}, err
		}
		works = append(works, more...)
	}

	snap := toSnapshot(works)
	p.log.Info("fetched snapshot",
		logging.Int("requested", len(ids)),
		logging.Int("papers", len(snap.Papers)),
		logging.Int("citations", len(snap.Citations)),
	)
	return snap, nil
}

// fetchWorks requests ids in batches of batchSize.
func (p *Provider) fetchWorks(ctx context.Context, ids []string) ([]work, error) {
	var works []work
	for lo := 0; lo < len(ids); lo += batchSize {
		hi := min(lo+batchSize, len(ids))
		batch, err := p.fetchBatch(ctx, ids[lo:hi])
		if err != nil {
			return nil, err
		}
		p.log.Debug("fetched batch", logging.Int("requested", hi-lo), logging.Int("returned", len(batch)))
		works = append(works, batch...)
	}
	return works, nil
}

func (p *Provider) fetchBatch(ctx context.Context, ids []string) ([]work, error) {
	params := url.Values{
		"filter":   {"openalex:" + strings.Join(ids, "|")},
		"per-page": {fmt.Sprintf("%d", batchSize)},
		"select":   {selectFields},
	}
	if p.Email != "" {
		params.Set("mailto", p.Email)
	}
	if p.APIKey != "" {
		params.Set("api_key", p.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, worksBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.Client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var wr worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return wr.Results, nil
}

// normalizeIDs strips URL prefixes, upper-cases the W prefix, drops
// duplicates and rejects anything that is not a work ID.
func normalizeIDs(ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := shortID(strings.TrimSpace(raw))
		if len(id) < 2 || (id[0] != 'W' && id[0] != 'w') {
			return nil, fmt.Errorf("invalid OpenAlex work ID %q", raw)
		}
		id = "W" + id[1:]
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no OpenAlex work IDs given")
	}
	return out, nil
}

func shortID(id string) string {
	return strings.TrimPrefix(id, openAlexPrefix)
}

// toSnapshot maps works to papers keyed by pmid (or OpenAlex ID when no pmid
// is known) and keeps every reference whose target was also fetched.
func toSnapshot(works []work) types.Snapshot {
	keys := make(map[string]string, len(works))
	papers := make([]types.Paper, 0, len(works))
	for _, w := range works {
		id := shortID(w.ID)
		if _, dup := keys[id]; dup {
			continue
		}
		p := w.paper()
		keys[id] = p.PMID
		papers = append(papers, p)
	}

	var citations []types.Citation
	emitted := make(map[[2]string]bool)
	for _, w := range works {
		from := keys[shortID(w.ID)]
		for _, r := range w.ReferencedWorks {
			to, ok := keys[shortID(r)]
			if !ok || to == from || emitted[[2]string{from, to}] {
				continue
			}
			emitted[[2]string{from, to}] = true
			citations = append(citations, types.Citation{
				CitingID:           from,
				CitedID:            to,
				Importance:         defaultImportance,
				SemanticSimilarity: defaultSimilarity,
			})
		}
	}

	sort.Slice(papers, func(i, j int) bool { return papers[i].PMID < papers[j].PMID })
	sort.Slice(citations, func(i, j int) bool {
		if citations[i].CitingID != citations[j].CitingID {
			return citations[i].CitingID < citations[j].CitingID
		}
		return citations[i].CitedID < citations[j].CitedID
	})
	return types.Snapshot{Papers: papers, Citations: citations}
}

func (w work) paper() types.Paper {
	p := types.Paper{
		PMID:          shortID(w.ID),
		Title:         w.Title,
		Year:          w.PublicationYear,
		CitationCount: w.CitedByCount,
	}
	if pmid := strings.TrimPrefix(w.IDs.PMID, pubmedPrefix); pmid != "" {
		p.PMID = pmid
	}
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			p.Authors = append(p.Authors, a.Author.DisplayName)
		}
	}
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil {
		p.Journal = w.PrimaryLocation.Source.DisplayName
	}
	for _, c := range w.Concepts {
		if c.Score >= minConceptScore && c.DisplayName != "" {
			p.ResearchDomains = append(p.ResearchDomains, c.DisplayName)
		}
	}
	return p
}

// OpenAlex API JSON structures.
type worksResponse struct {
	Meta    meta   `json:"meta"`
	Results []work `json:"results"`
}

type meta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type work struct {
	ID              string       `json:"id"`
	IDs             workIDs      `json:"ids"`
	DOI             string       `json:"doi"`
	Title           string       `json:"title"`
	PublicationYear int          `json:"publication_year"`
	CitedByCount    int          `json:"cited_by_count"`
	Authorships     []authorship `json:"authorships"`
	PrimaryLocation *location    `json:"primary_location"`
	Concepts        []concept    `json:"concepts"`
	ReferencedWorks []string     `json:"referenced_works"`
}

type workIDs struct {
	OpenAlex string `json:"openalex"`
	DOI      string `json:"doi"`
	PMID     string `json:"pmid"`
}

type authorship struct {
	Author author `json:"author"`
}

type author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type location struct {
	Source *source `json:"source"`
}

type source struct {
	DisplayName string `json:"display_name"`
}

type concept struct {
	DisplayName string  `json:"display_name"`
	Level       int     `json:"level"`
	Score       float64 `json:"score"`
}
