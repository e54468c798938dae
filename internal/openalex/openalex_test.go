// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// fakeAPI serves works from a fixed catalog, honoring the openalex: filter.
type fakeAPI struct {
	mu       sync.Mutex
	catalog  map[string]work
	requests []request
	status   int
}

type request struct {
	ids    []string
	mailto string
	apiKey string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ids := strings.Split(strings.TrimPrefix(q.Get("filter"), "openalex:"), "|")

	f.mu.Lock()
	f.requests = append(f.requests, request{ids: ids, mailto: q.Get("mailto"), apiKey: q.Get("api_key")})
	status := f.status
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	var resp worksResponse
	for _, id := range ids {
		if wk, ok := f.catalog[id]; ok {
			resp.Results = append(resp.Results, wk)
		}
	}
	resp.Meta.Count = len(resp.Results)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func newFake(works ...work) *fakeAPI {
	f := &fakeAPI{catalog: make(map[string]work)}
	for _, w := range works {
		f.catalog[shortID(w.ID)] = w
	}
	return f
}

func serve(t *testing.T, f *fakeAPI, cfg types.ProviderConfig) *Provider {
	t.Helper()
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)

	old := worksBase
	worksBase = ts.URL
	t.Cleanup(func() { worksBase = old })

	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1000
	}
	return NewProvider(cfg, nil)
}

func oaWork(id string, year int, refs ...string) work {
	w := work{ID: openAlexPrefix + id, Title: "Work " + id, PublicationYear: year}
	for _, r := range refs {
		w.ReferencedWorks = append(w.ReferencedWorks, openAlexPrefix+r)
	}
	return w
}

func TestFetch_MapsWorksAndEdges(t *testing.T) {
	w1 := oaWork("W1", 2015)
	w1.IDs.PMID = pubmedPrefix + "12345"
	w1.CitedByCount = 42
	w1.Authorships = []authorship{{Author: author{DisplayName: "Ada Lovelace"}}, {Author: author{}}}
	w1.PrimaryLocation = &location{Source: &source{DisplayName: "Nature"}}
	w1.Concepts = []concept{{DisplayName: "Genomics", Score: 0.9}, {DisplayName: "Biology", Score: 0.1}}

	w2 := oaWork("W2", 2018, "W1", "W99")
	w3 := oaWork("W3", 2020, "W1", "W2", "W2")

	f := newFake(w1, w2, w3)
	p := serve(t, f, types.ProviderConfig{Email: "me@example.com", APIKey: "oa_key"})

	snap, err := p.Fetch(context.Background(), []string{"W3", "https://openalex.org/W1", "W2", "w2"})
	require.NoError(t, err)

	require.Len(t, snap.Papers, 3)
	assert.Equal(t, []string{"12345", "W2", "W3"}, []string{snap.Papers[0].PMID, snap.Papers[1].PMID, snap.Papers[2].PMID})

	p1 := snap.Papers[0]
	assert.Equal(t, "Work W1", p1.Title)
	assert.Equal(t, 2015, p1.Year)
	assert.Equal(t, 42, p1.CitationCount)
	assert.Equal(t, []string{"Ada Lovelace"}, p1.Authors)
	assert.Equal(t, "Nature", p1.Journal)
	assert.Equal(t, []string{"Genomics"}, p1.ResearchDomains)

	// W99 was not fetched and the duplicate W3->W2 reference is collapsed.
	require.Len(t, snap.Citations, 3)
	assert.Equal(t, "W2", snap.Citations[0].CitingID)
	assert.Equal(t, "12345", snap.Citations[0].CitedID)
	assert.Equal(t, "W3", snap.Citations[1].CitingID)
	assert.Equal(t, "12345", snap.Citations[1].CitedID)
	assert.Equal(t, "W2", snap.Citations[2].CitedID)
	assert.Equal(t, defaultImportance, snap.Citations[0].Importance)

	require.Len(t, f.requests, 1)
	assert.Equal(t, []string{"W3", "W1", "W2"}, f.requests[0].ids)
	assert.Equal(t, "me@example.com", f.requests[0].mailto)
	assert.Equal(t, "oa_key", f.requests[0].apiKey)
}

func TestFetch_BatchesOf50(t *testing.T) {
	var works []work
	var ids []string
	for i := 0; i < 120; i++ {
		id := fmt.Sprintf("W%d", i+1)
		works = append(works, oaWork(id, 2020))
		ids = append(ids, id)
	}
	f := newFake(works...)
	p := serve(t, f, types.ProviderConfig{})

	snap, err := p.Fetch(context.Background(), ids)
	require.NoError(t, err)

	assert.Len(t, snap.Papers, 120)
	require.Len(t, f.requests, 3)
	assert.Len(t, f.requests[0].ids, 50)
	assert.Len(t, f.requests[1].ids, 50)
	assert.Len(t, f.requests[2].ids, 20)
}

func TestFetch_IncludeReferences(t *testing.T) {
	f := newFake(
		oaWork("W1", 2020, "W2", "W3", "W4"),
		oaWork("W2", 2015),
		oaWork("W3", 2016, "W2"),
		oaWork("W4", 2017),
	)
	p := serve(t, f, types.ProviderConfig{IncludeReferences: true, MaxWorks: 3})

	snap, err := p.Fetch(context.Background(), []string{"W1"})
	require.NoError(t, err)

	// MaxWorks limits the references to the first two.
	require.Len(t, snap.Papers, 3)
	assert.Equal(t, "W3", snap.Papers[2].PMID)
	assert.Len(t, snap.Citations, 3)
	assert.Len(t, f.requests, 2)
}

func TestFetch_HTTPError(t *testing.T) {
	f := newFake()
	f.status = http.StatusBadRequest
	p := serve(t, f, types.ProviderConfig{})

	_, err := p.Fetch(context.Background(), []string{"W1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestFetch_InvalidIDs(t *testing.T) {
	p := serve(t, newFake(), types.ProviderConfig{})

	_, err := p.Fetch(context.Background(), []string{"10.1000/xyz"})
	assert.Error(t, err)

	_, err = p.Fetch(context.Background(), nil)
	assert.Error(t, err)
}

func TestFetch_Cancelled(t *testing.T) {
	p := serve(t, newFake(oaWork("W1", 2020)), types.ProviderConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Fetch(ctx, []string{"W1"})
	assert.ErrorIs(t, err, context.Canceled)
}
