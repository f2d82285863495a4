package vault

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Entry is the cached record for one vault file: its path plus the
// last-known lightweight metadata. Entries are owned by the snapshot
// they belong to and are never mutated after publication.
type Entry struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Snapshot is an immutable, generation-numbered view of the vault's file
// listing. Readers always see a complete snapshot; a refresh publishes a
// new one rather than updating in place.
type Snapshot struct {
	Generation uint64
	BuiltAt    time.Time
	Entries    map[string]Entry
}

// IndexSource supplies the full vault listing for a refresh.
type IndexSource interface {
	ListAll(ctx context.Context) ([]Metadata, error)
}

const (
	defaultRefreshInterval = 5 * time.Minute
	defaultStaleAfter      = 10 * time.Minute
)

// Index maintains a background-refreshed snapshot of the vault listing,
// used only as the fallback data source for searches.
type Index struct {
	source   IndexSource
	log      zerolog.Logger
	interval time.Duration
	stale    time.Duration

	snap  atomic.Pointer[Snapshot]
	group singleflight.Group
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithRefreshInterval sets the period of the background refresh loop.
func WithRefreshInterval(d time.Duration) IndexOption {
	return func(ix *Index) {
		if d > 0 {
			ix.interval = d
		}
	}
}

// WithStaleAfter sets the snapshot age past which EnsureFresh triggers an
// on-demand refresh.
func WithStaleAfter(d time.Duration) IndexOption {
	return func(ix *Index) {
		if d > 0 {
			ix.stale = d
		}
	}
}

func NewIndex(source IndexSource, log zerolog.Logger, opts ...IndexOption) *Index {
	ix := &Index{
		source:   source,
		log:      log,
		interval: defaultRefreshInterval,
		stale:    defaultStaleAfter,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Current returns the last published snapshot, or nil before the first
// successful refresh.
func (ix *Index) Current() *Snapshot {
	return ix.snap.Load()
}

// Refresh rebuilds the snapshot from the backend. Concurrent calls are
// coalesced into a single upstream listing. On failure the previous
// snapshot stays in place and its generation is returned alongside the
// error. A listing identical to the current snapshot republishes the
// same generation with a fresh build time.
func (ix *Index) Refresh(ctx context.Context) (uint64, error) {
	gen, err, _ := ix.group.Do("refresh", func() (interface{}, error) {
		g, err := ix.refresh(ctx)
		return g, err
	})
	g, _ := gen.(uint64)
	return g, err
}

func (ix *Index) refresh(ctx context.Context) (uint64, error) {
	metas, err := ix.source.ListAll(ctx)
	if err != nil {
		prev := ix.snap.Load()
		var prevGen uint64
		if prev != nil {
			prevGen = prev.Generation
		}
		ix.log.Warn().Err(err).Uint64("generation", prevGen).
			Msg("index refresh failed, keeping previous snapshot")
		return prevGen, err
	}

	entries := make(map[string]Entry, len(metas))
	for _, m := range metas {
		p := Normalize(m.Path)
		entries[p] = Entry{Path: p, Size: m.Size, ModTime: m.ModTime}
	}

	prev := ix.snap.Load()
	gen := uint64(1)
	if prev != nil {
		if sameEntries(prev.Entries, entries) {
			ix.snap.Store(&Snapshot{
				Generation: prev.Generation,
				BuiltAt:    time.Now(),
				Entries:    prev.Entries,
			})
			ix.log.Debug().Uint64("generation", prev.Generation).
				Msg("index unchanged upstream, generation retained")
			return prev.Generation, nil
		}
		gen = prev.Generation + 1
	}

	ix.snap.Store(&Snapshot{Generation: gen, BuiltAt: time.Now(), Entries: entries})
	ix.log.Info().Uint64("generation", gen).Int("files", len(entries)).
		Msg("index refreshed")
	return gen, nil
}

// EnsureFresh refreshes the index when no snapshot exists yet or the
// current one exceeds the staleness threshold, then returns the current
// snapshot. Refresh failures are absorbed here: a stale snapshot beats
// none at all.
func (ix *Index) EnsureFresh(ctx context.Context) *Snapshot {
	snap := ix.snap.Load()
	if snap == nil || time.Since(snap.BuiltAt) > ix.stale {
		if _, err := ix.Refresh(ctx); err != nil && snap != nil {
			ix.log.Debug().Err(err).Msg("on-demand refresh failed, serving stale snapshot")
		}
		snap = ix.snap.Load()
	}
	return snap
}

// Run refreshes immediately and then on a fixed interval until ctx is
// cancelled. Intended to be started as a goroutine from main.
func (ix *Index) Run(ctx context.Context) {
	_, _ = ix.Refresh(ctx)

	ticker := time.NewTicker(ix.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			ix.log.Debug().Msg("index refresh loop stopped")
			return
		case <-ticker.C:
			_, _ = ix.Refresh(ctx)
		}
	}
}

func sameEntries(a, b map[string]Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for p, ea := range a {
		eb, ok := b[p]
		if !ok || ea.Size != eb.Size || !ea.ModTime.Equal(eb.ModTime) {
			return false
		}
	}
	return true
}
