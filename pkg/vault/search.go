package vault

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
)

// Source tags which data source served a search outcome.
type Source string

const (
	SourceLive  Source = "live"
	SourceCache Source = "cache"
)

// Query is the text or pattern to match. When Glob is set, Text is a
// glob pattern matched against vault paths; otherwise it is a
// case-insensitive substring query.
type Query struct {
	Text string
	Glob bool
}

// Filters restrict matches regardless of data source.
type Filters struct {
	PathPrefix    string
	ModifiedAfter time.Time
}

// Page selects a window of the sorted match list.
type Page struct {
	Offset int
	Limit  int
}

// Match is a single search hit.
type Match struct {
	Path    string  `json:"path"`
	Score   float64 `json:"score,omitempty"`
	Context string  `json:"context,omitempty"`
}

// Outcome is the result of an orchestrated search. Generation is set
// only when Source is SourceCache, so callers can judge staleness.
type Outcome struct {
	Matches    []Match `json:"matches"`
	Total      int     `json:"total"`
	Source     Source  `json:"source"`
	Generation uint64  `json:"generation,omitempty"`
}

// LiveSearchFunc runs a query against the authoritative backend.
type LiveSearchFunc func(ctx context.Context, q Query, f Filters) ([]Match, error)

// CacheSearchFunc runs the same query semantics against a published
// snapshot. It must not reach the backend.
type CacheSearchFunc func(q Query, f Filters, snap *Snapshot) ([]Match, error)

// Orchestrator owns the live-vs-cache decision for searches. Without a
// configured fallback it depends solely on the live function; with one,
// it redirects the query to the cached index only when the live call
// fails with a ServiceUnavailable-class error.
type Orchestrator struct {
	live  LiveSearchFunc
	cache CacheSearchFunc
	index *Index
	log   zerolog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCacheFallback enables degradation to the given index using fn for
// the snapshot-side query.
func WithCacheFallback(index *Index, fn CacheSearchFunc) OrchestratorOption {
	return func(o *Orchestrator) {
		o.index = index
		o.cache = fn
	}
}

func NewOrchestrator(live LiveSearchFunc, log zerolog.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{live: live, log: log}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search runs q against the live backend first. An empty live result is
// a valid answer and is returned as-is; only a classified
// ServiceUnavailable failure triggers the cache fallback. When both
// sources fail, the live failure is surfaced, never a generic empty
// result. Ordering is a stable sort by path and pagination is applied
// here, identically for both sources.
func (o *Orchestrator) Search(ctx context.Context, q Query, f Filters, p Page) (Outcome, error) {
	matches, err := o.live(ctx, q, f)
	if err == nil {
		return paginate(matches, SourceLive, 0, p), nil
	}

	liveErr := Classify("search", err)
	if o.index == nil || o.cache == nil || !IsUnavailable(liveErr) {
		return Outcome{}, liveErr
	}

	o.log.Warn().Err(liveErr).Str("query", q.Text).
		Msg("live search unavailable, falling back to cached index")

	snap := o.index.EnsureFresh(ctx)
	if snap == nil {
		o.log.Warn().Msg("no index snapshot available for fallback search")
		return Outcome{}, liveErr
	}

	cached, cerr := o.cache(q, f, snap)
	if cerr != nil {
		o.log.Warn().Err(cerr).Msg("fallback search against snapshot failed")
		return Outcome{}, liveErr
	}

	return paginate(cached, SourceCache, snap.Generation, p), nil
}

func paginate(matches []Match, src Source, gen uint64, p Page) Outcome {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Path < matches[j].Path
	})

	total := len(matches)
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	window := matches[offset:]
	if p.Limit > 0 && p.Limit < len(window) {
		window = window[:p.Limit]
	}

	return Outcome{Matches: window, Total: total, Source: src, Generation: gen}
}

// SnapshotSearch is the default CacheSearchFunc: it applies the query
// and filters to the snapshot's paths and last-known metadata. Snapshot
// entries carry no content, so text queries match against paths.
func SnapshotSearch(q Query, f Filters, snap *Snapshot) ([]Match, error) {
	match, err := pathMatcher(q)
	if err != nil {
		return nil, err
	}

	prefix := Normalize(f.PathPrefix)
	var matches []Match
	for p, e := range snap.Entries {
		if prefix != "" && p != prefix && !strings.HasPrefix(p, prefix+"/") {
			continue
		}
		if !f.ModifiedAfter.IsZero() && e.ModTime.Before(f.ModifiedAfter) {
			continue
		}
		if !match(p) {
			continue
		}
		matches = append(matches, Match{Path: p})
	}
	return matches, nil
}

func pathMatcher(q Query) (func(string) bool, error) {
	if q.Glob {
		g, err := glob.Compile(q.Text, '/')
		if err != nil {
			return nil, err
		}
		return g.Match, nil
	}
	needle := strings.ToLower(q.Text)
	return func(p string) bool {
		return needle == "" || strings.Contains(strings.ToLower(p), needle)
	}, nil
}
