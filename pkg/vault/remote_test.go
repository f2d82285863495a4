package vault

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/obsidian"
)

func newTestRemote(t *testing.T, mux *http.ServeMux) (*RemoteVault, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := obsidian.NewClient(server.URL, "test-token")
	require.NoError(t, err)
	return NewRemoteVault(client, zerolog.Nop()), server
}

func TestRemoteVault_Stat(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/notes/a.md", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.olrapi.note+json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{"path": "notes/a.md", "stat": {"size": 42, "mtime": 1700000000000}}`)
	})
	remote, _ := newTestRemote(t, mux)

	m, err := remote.Stat(context.Background(), "notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "notes/a.md", m.Path)
	assert.Equal(t, int64(42), m.Size)
	assert.Equal(t, time.UnixMilli(1700000000000), m.ModTime)
}

func TestRemoteVault_StatNotFoundClassified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errorCode": 40400, "message": "File does not exist."}`)
	})
	remote, _ := newTestRemote(t, mux)

	_, err := remote.Stat(context.Background(), "missing.md")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRemoteVault_StatServerErrorClassified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	remote, _ := newTestRemote(t, mux)

	_, err := remote.Stat(context.Background(), "a.md")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestRemoteVault_ListAppendsSlash(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/notes/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vault/notes/", r.URL.Path)
		fmt.Fprint(w, `{"files": ["a.md", "sub/"]}`)
	})
	remote, _ := newTestRemote(t, mux)

	entries, err := remote.List(context.Background(), "notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "sub/"}, entries)
}

func TestRemoteVault_ListAllWalksSubdirectories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vault/":
			fmt.Fprint(w, `{"files": ["a.md", "sub/"]}`)
		case "/vault/sub/":
			fmt.Fprint(w, `{"files": ["b.md"]}`)
		case "/vault/a.md":
			fmt.Fprint(w, `{"path": "a.md", "stat": {"size": 1, "mtime": 1000}}`)
		case "/vault/sub/b.md":
			fmt.Fprint(w, `{"path": "sub/b.md", "stat": {"size": 2, "mtime": 2000}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "not found"}`)
		}
	})
	remote, _ := newTestRemote(t, mux)

	metas, err := remote.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, metas, 2)

	byPath := map[string]Metadata{}
	for _, m := range metas {
		byPath[m.Path] = m
	}
	assert.Equal(t, int64(1), byPath["a.md"].Size)
	assert.Equal(t, int64(2), byPath["sub/b.md"].Size)
}

func TestRemoteVault_ListAllRootFailureAborts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	remote, _ := newTestRemote(t, mux)

	_, err := remote.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestRemoteVault_LiveSearchSimple(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/simple/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "meeting", r.URL.Query().Get("query"))
		fmt.Fprint(w, `[
			{"filename": "notes/a.md", "score": 1.5, "matches": [{"context": "the meeting notes"}]},
			{"filename": "archive/b.md", "score": 0.5}
		]`)
	})
	remote, _ := newTestRemote(t, mux)

	matches, err := remote.LiveSearch(context.Background(), Query{Text: "meeting"}, Filters{PathPrefix: "notes"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "notes/a.md", matches[0].Path)
	assert.Equal(t, "the meeting notes", matches[0].Context)
}

func TestRemoteVault_LiveSearchGlobUsesJSONLogic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.olrapi.jsonlogic+json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `[{"filename": "notes/a.md", "result": true}]`)
	})
	remote, _ := newTestRemote(t, mux)

	matches, err := remote.LiveSearch(context.Background(), Query{Text: "notes/*.md", Glob: true}, Filters{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "notes/a.md", matches[0].Path)
}

func TestRemoteVault_LiveSearchFailureClassified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/simple/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	remote, _ := newTestRemote(t, mux)

	_, err := remote.LiveSearch(context.Background(), Query{Text: "q"}, Filters{})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestBuildLogicQuery(t *testing.T) {
	q := buildLogicQuery(Query{Text: "notes/*.md", Glob: true}, Filters{ModifiedAfter: time.UnixMilli(5000)})
	clause, ok := q.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, clause, "and")

	q = buildLogicQuery(Query{}, Filters{})
	clause, ok = q.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, clause, "!!")
}
