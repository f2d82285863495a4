package vault

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/obsidian"
)

// RemoteVault adapts the Obsidian REST client to the capability
// interfaces the resolution and retrieval layer consumes. All backend
// failures leave it already classified.
type RemoteVault struct {
	client *obsidian.Client
	log    zerolog.Logger
}

func NewRemoteVault(client *obsidian.Client, log zerolog.Logger) *RemoteVault {
	return &RemoteVault{client: client, log: log}
}

// Stat probes a single path for existence and metadata.
func (v *RemoteVault) Stat(ctx context.Context, path string) (*Metadata, error) {
	note, err := v.client.Vault.GetNote(ctx, path)
	if err != nil {
		return nil, Classify("stat "+path, err)
	}
	return &Metadata{
		Path:    Normalize(path),
		Size:    int64(note.Stat.Size),
		ModTime: time.UnixMilli(int64(note.Stat.Mtime)),
	}, nil
}

// List returns the entries of dir ("" for the vault root). Directory
// entries keep their trailing slash.
func (v *RemoteVault) List(ctx context.Context, dir string) ([]string, error) {
	p := Normalize(dir)
	if p != "" {
		p += "/"
	}
	entries, err := v.client.Vault.List(ctx, p)
	if err != nil {
		return nil, Classify("list "+dir, err)
	}
	return entries, nil
}

// ListAll walks the vault breadth-first and returns every file with its
// last-known metadata. A failure listing the root aborts the walk;
// failures inside a subtree or on a single stat are logged and skipped
// so one bad directory does not poison a whole index refresh.
func (v *RemoteVault) ListAll(ctx context.Context) ([]Metadata, error) {
	dirs := []string{""}
	var out []Metadata

	for len(dirs) > 0 {
		dir := dirs[0]
		dirs = dirs[1:]

		entries, err := v.List(ctx, dir)
		if err != nil {
			if dir == "" {
				return nil, err
			}
			v.log.Warn().Err(err).Str("dir", dir).Msg("skipping unlistable directory")
			continue
		}

		for _, entry := range entries {
			name := EntryBase(entry)
			if IsDirEntry(entry) {
				dirs = append(dirs, Join(dir, name))
				continue
			}
			p := Join(dir, name)
			m := Metadata{Path: p}
			if full, err := v.Stat(ctx, p); err == nil {
				m = *full
			} else {
				v.log.Debug().Err(err).Str("path", p).Msg("stat failed, indexing path only")
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// LiveSearch runs q against the authoritative backend. Plain text
// queries use the simple search endpoint; glob queries and
// modification-window filters need the JsonLogic endpoint, which can
// evaluate path globs and stat fields server-side.
func (v *RemoteVault) LiveSearch(ctx context.Context, q Query, f Filters) ([]Match, error) {
	if q.Glob || !f.ModifiedAfter.IsZero() {
		return v.logicSearch(ctx, q, f)
	}

	results, err := v.client.Search.Simple(ctx, q.Text, 100)
	if err != nil {
		return nil, Classify("search", err)
	}

	var matches []Match
	for _, r := range results {
		m := Match{Path: Normalize(r.Filename), Score: r.Score}
		if !underPrefix(m.Path, f.PathPrefix) {
			continue
		}
		if len(r.Matches) > 0 {
			m.Context = r.Matches[0].Context
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (v *RemoteVault) logicSearch(ctx context.Context, q Query, f Filters) ([]Match, error) {
	results, err := v.client.Search.JSONLogic(ctx, buildLogicQuery(q, f))
	if err != nil {
		return nil, Classify("search", err)
	}

	var matches []Match
	for _, r := range results {
		p := Normalize(r.Filename)
		if !underPrefix(p, f.PathPrefix) {
			continue
		}
		matches = append(matches, Match{Path: p})
	}
	return matches, nil
}

// buildLogicQuery assembles a JsonLogic expression mirroring the cache
// fallback's query semantics: glob against the path, substring against
// content, mtime lower bound from the filter.
func buildLogicQuery(q Query, f Filters) interface{} {
	var clauses []interface{}
	if q.Text != "" {
		if q.Glob {
			clauses = append(clauses, map[string]interface{}{
				"glob": []interface{}{q.Text, map[string]interface{}{"var": "path"}},
			})
		} else {
			clauses = append(clauses, map[string]interface{}{
				"in": []interface{}{q.Text, map[string]interface{}{"var": "content"}},
			})
		}
	}
	if !f.ModifiedAfter.IsZero() {
		clauses = append(clauses, map[string]interface{}{
			">=": []interface{}{
				map[string]interface{}{"var": "stat.mtime"},
				float64(f.ModifiedAfter.UnixMilli()),
			},
		})
	}

	switch len(clauses) {
	case 0:
		// match everything
		return map[string]interface{}{"!!": []interface{}{map[string]interface{}{"var": "path"}}}
	case 1:
		return clauses[0]
	default:
		return map[string]interface{}{"and": clauses}
	}
}

func underPrefix(p, prefix string) bool {
	prefix = Normalize(prefix)
	return prefix == "" || p == prefix || strings.HasPrefix(p, prefix+"/")
}
