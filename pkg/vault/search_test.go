package vault

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingLive(err error) LiveSearchFunc {
	return func(context.Context, Query, Filters) ([]Match, error) {
		return nil, err
	}
}

func staticLive(matches []Match) LiveSearchFunc {
	return func(context.Context, Query, Filters) ([]Match, error) {
		return matches, nil
	}
}

func TestOrchestrator_NoCacheLiveFailurePropagates(t *testing.T) {
	o := NewOrchestrator(failingLive(errors.New("connection refused")), zerolog.Nop())

	_, err := o.Search(context.Background(), Query{Text: "q"}, Filters{}, Page{})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestOrchestrator_EmptyLiveResultIsValidAnswer(t *testing.T) {
	cacheCalled := false
	ix := NewIndex(&fakeIndexSource{}, zerolog.Nop())
	o := NewOrchestrator(staticLive(nil), zerolog.Nop(),
		WithCacheFallback(ix, func(Query, Filters, *Snapshot) ([]Match, error) {
			cacheCalled = true
			return nil, nil
		}))

	outcome, err := o.Search(context.Background(), Query{Text: "q"}, Filters{}, Page{})
	require.NoError(t, err)
	assert.Equal(t, SourceLive, outcome.Source)
	assert.Empty(t, outcome.Matches)
	assert.False(t, cacheCalled, "empty live result must not trigger fallback")
}

func TestOrchestrator_NotFoundDoesNotTriggerFallback(t *testing.T) {
	cacheCalled := false
	ix := NewIndex(&fakeIndexSource{}, zerolog.Nop())
	liveErr := &Error{Kind: KindNotFound, Op: "search", Message: "no such note"}
	o := NewOrchestrator(failingLive(liveErr), zerolog.Nop(),
		WithCacheFallback(ix, func(Query, Filters, *Snapshot) ([]Match, error) {
			cacheCalled = true
			return nil, nil
		}))

	_, err := o.Search(context.Background(), Query{Text: "q"}, Filters{}, Page{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, cacheCalled)
}

func TestOrchestrator_FallbackOnUnavailable(t *testing.T) {
	// Advance the index to generation 7 by changing the listing
	// between refreshes.
	src := &fakeIndexSource{}
	ix := NewIndex(src, zerolog.Nop())
	for i := 1; i <= 7; i++ {
		src.set([]Metadata{
			{Path: "notes/report.md", Size: int64(i), ModTime: time.Unix(int64(i), 0)},
		}, nil)
		gen, err := ix.Refresh(context.Background())
		require.NoError(t, err)
		require.Equal(t, uint64(i), gen)
	}

	liveErr := &Error{Kind: KindUnavailable, Op: "search", Message: "backend unreachable"}
	o := NewOrchestrator(failingLive(liveErr), zerolog.Nop(),
		WithCacheFallback(ix, SnapshotSearch))

	outcome, err := o.Search(context.Background(), Query{Text: "report"}, Filters{}, Page{})
	require.NoError(t, err)
	assert.Equal(t, SourceCache, outcome.Source)
	assert.Equal(t, uint64(7), outcome.Generation)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, "notes/report.md", outcome.Matches[0].Path)
}

func TestOrchestrator_BothSourcesFailSurfacesLiveError(t *testing.T) {
	src := &fakeIndexSource{metas: []Metadata{{Path: "a.md"}}}
	ix := NewIndex(src, zerolog.Nop())
	_, err := ix.Refresh(context.Background())
	require.NoError(t, err)

	liveErr := &Error{Kind: KindUnavailable, Op: "search", Message: "live search down"}
	o := NewOrchestrator(failingLive(liveErr), zerolog.Nop(),
		WithCacheFallback(ix, func(Query, Filters, *Snapshot) ([]Match, error) {
			return nil, errors.New("bad pattern")
		}))

	_, err = o.Search(context.Background(), Query{Text: "q"}, Filters{}, Page{})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Contains(t, err.Error(), "live search down")
}

func TestOrchestrator_NoSnapshotSurfacesLiveError(t *testing.T) {
	src := &fakeIndexSource{err: errors.New("backend down")}
	ix := NewIndex(src, zerolog.Nop())

	liveErr := &Error{Kind: KindUnavailable, Op: "search", Message: "live search down"}
	o := NewOrchestrator(failingLive(liveErr), zerolog.Nop(),
		WithCacheFallback(ix, SnapshotSearch))

	_, err := o.Search(context.Background(), Query{Text: "q"}, Filters{}, Page{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "live search down")
}

func TestOrchestrator_DeterministicOrderingAndPagination(t *testing.T) {
	matches := []Match{
		{Path: "c.md"},
		{Path: "a.md"},
		{Path: "d.md"},
		{Path: "b.md"},
	}
	o := NewOrchestrator(staticLive(matches), zerolog.Nop())

	outcome, err := o.Search(context.Background(), Query{Text: "q"}, Filters{}, Page{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, outcome.Total)
	require.Len(t, outcome.Matches, 2)
	assert.Equal(t, "b.md", outcome.Matches[0].Path)
	assert.Equal(t, "c.md", outcome.Matches[1].Path)
}

func TestOrchestrator_OffsetBeyondTotal(t *testing.T) {
	o := NewOrchestrator(staticLive([]Match{{Path: "a.md"}}), zerolog.Nop())

	outcome, err := o.Search(context.Background(), Query{Text: "q"}, Filters{}, Page{Offset: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Total)
	assert.Empty(t, outcome.Matches)
}

func TestOrchestrator_ReproducibleAgainstUnchangedSnapshot(t *testing.T) {
	src := &fakeIndexSource{metas: []Metadata{
		{Path: "b.md"}, {Path: "a.md"}, {Path: "c.md"},
	}}
	ix := NewIndex(src, zerolog.Nop())
	_, err := ix.Refresh(context.Background())
	require.NoError(t, err)

	liveErr := &Error{Kind: KindUnavailable, Op: "search", Message: "down"}
	o := NewOrchestrator(failingLive(liveErr), zerolog.Nop(),
		WithCacheFallback(ix, SnapshotSearch))

	first, err := o.Search(context.Background(), Query{}, Filters{}, Page{})
	require.NoError(t, err)
	second, err := o.Search(context.Background(), Query{}, Filters{}, Page{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSnapshotSearch_SubstringAndFilters(t *testing.T) {
	snap := &Snapshot{
		Generation: 3,
		Entries: map[string]Entry{
			"notes/Report.md":   {Path: "notes/Report.md", ModTime: time.Unix(1000, 0)},
			"notes/old.md":      {Path: "notes/old.md", ModTime: time.Unix(10, 0)},
			"archive/report.md": {Path: "archive/report.md", ModTime: time.Unix(1000, 0)},
		},
	}

	matches, err := SnapshotSearch(
		Query{Text: "report"},
		Filters{PathPrefix: "notes", ModifiedAfter: time.Unix(500, 0)},
		snap,
	)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "notes/Report.md", matches[0].Path)
}

func TestSnapshotSearch_Glob(t *testing.T) {
	snap := &Snapshot{Entries: map[string]Entry{
		"notes/a.md":     {Path: "notes/a.md"},
		"notes/sub/b.md": {Path: "notes/sub/b.md"},
		"notes/c.txt":    {Path: "notes/c.txt"},
	}}

	matches, err := SnapshotSearch(Query{Text: "notes/*.md", Glob: true}, Filters{}, snap)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "notes/a.md", matches[0].Path)
}

func TestSnapshotSearch_BadGlob(t *testing.T) {
	snap := &Snapshot{Entries: map[string]Entry{"a.md": {Path: "a.md"}}}

	_, err := SnapshotSearch(Query{Text: "[", Glob: true}, Filters{}, snap)
	assert.Error(t, err)
}

func TestSnapshotSearch_EmptyQueryMatchesAll(t *testing.T) {
	snap := &Snapshot{Entries: map[string]Entry{}}
	for i := 0; i < 5; i++ {
		p := fmt.Sprintf("n%d.md", i)
		snap.Entries[p] = Entry{Path: p}
	}

	matches, err := SnapshotSearch(Query{}, Filters{}, snap)
	require.NoError(t, err)
	assert.Len(t, matches, 5)
}
