package vault

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Metadata is the lightweight per-file information the backend can probe
// for a single path.
type Metadata struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// MetadataSource probes a single path. A missing file returns an error
// classified as KindNotFound; a communication fault returns
// KindUnavailable and is never folded into not-found.
type MetadataSource interface {
	Stat(ctx context.Context, path string) (*Metadata, error)
}

// DirectorySource lists the entries of a directory ("" for the vault
// root). Subdirectory entries carry a trailing slash.
type DirectorySource interface {
	List(ctx context.Context, dir string) ([]string, error)
}

// ResolverSource is the capability the resolver needs from the backend.
type ResolverSource interface {
	MetadataSource
	DirectorySource
}

// Resolution is the outcome of resolving a client-supplied path.
// CaseCorrected is informational only: it tells the caller the resolved
// path differs in case from what was requested.
type Resolution struct {
	Path          string
	CaseCorrected bool
}

// Resolver reconciles a client-supplied, possibly case-mismatched path
// against the authoritative on-disk name.
type Resolver struct {
	source ResolverSource
	log    zerolog.Logger
}

func NewResolver(source ResolverSource, log zerolog.Logger) *Resolver {
	return &Resolver{source: source, log: log}
}

// Resolve returns the canonical vault path for requested. The exact path
// is probed first; on not-found the containing directory is listed and
// matched case-insensitively against the basename. Zero matches is
// NotFound, more than one is Conflict. Resolution never guesses among
// competing matches and performs no writes.
func (r *Resolver) Resolve(ctx context.Context, requested string) (Resolution, error) {
	p := Normalize(requested)
	if p == "" {
		return Resolution{}, &Error{Kind: KindNotFound, Op: "resolve", Message: "empty path"}
	}

	if _, err := r.source.Stat(ctx, p); err == nil {
		return Resolution{Path: p}, nil
	} else if !IsNotFound(err) {
		return Resolution{}, err
	}

	dir, base := Split(p)
	r.log.Debug().Str("path", p).Str("dir", dir).
		Msg("exact lookup missed, attempting case-insensitive resolution")

	entries, err := r.source.List(ctx, dir)
	if err != nil {
		if IsNotFound(err) {
			return Resolution{}, r.notFound(p)
		}
		return Resolution{}, err
	}

	want := strings.ToLower(base)
	var matches []string
	for _, entry := range entries {
		if IsDirEntry(entry) {
			continue
		}
		if name := EntryBase(entry); strings.ToLower(name) == want {
			matches = append(matches, Join(dir, name))
		}
	}

	switch len(matches) {
	case 0:
		r.log.Debug().Str("path", p).Msg("case-insensitive resolution found no match")
		return Resolution{}, r.notFound(p)
	case 1:
		resolved := matches[0]
		if resolved != p {
			r.log.Info().Str("requested", p).Str("resolved", resolved).
				Msg("resolved path with case correction")
		}
		return Resolution{Path: resolved, CaseCorrected: resolved != p}, nil
	default:
		sort.Strings(matches)
		return Resolution{}, &Error{
			Kind:    KindConflict,
			Op:      "resolve",
			Message: fmt.Sprintf("path %q is ambiguous, matches: %s", p, strings.Join(matches, ", ")),
			Matches: matches,
		}
	}
}

func (r *Resolver) notFound(p string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Op:      "resolve",
		Message: fmt.Sprintf("file %q not found: exact and case-insensitive lookups both failed", p),
	}
}
