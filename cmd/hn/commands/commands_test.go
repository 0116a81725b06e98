package commands

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hnreader/internal/secrets"
	"hnreader/internal/state"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"
)

//go:embed testdata
var testdata embed.FS

func newFakeHN(t *testing.T) *httptest.Server {
	t.Helper()

	serve := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			content, err := testdata.ReadFile("testdata/" + name)
			require.NoError(t, err)
			w.Header().Set("content-type", "text/html; charset=utf-8")
			w.Write(content)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /news", serve("news.html"))
	mux.HandleFunc("GET /item", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "27883047" {
			w.Write([]byte("No such item."))
			return
		}
		serve("item.html")(w, r)
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "scastiel" {
			w.Write([]byte("No such user."))
			return
		}
		serve("user.html")(w, r)
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("acct") != "scastiel" || r.FormValue("pw") != "hunter2" {
			w.Write([]byte("Bad login."))
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:    "user",
			Value:   "scastiel&0bf4e2",
			Expires: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		http.Redirect(w, r, "/news", http.StatusFound)
	})
	mux.HandleFunc("GET /vote", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("user")
		if err != nil || cookie.Value != "scastiel&0bf4e2" || r.URL.Query().Get("auth") != "0123abcd" {
			w.Write([]byte(`<form action="vote" method="post"></form>`))
			return
		}
		http.Redirect(w, r, "/news", http.StatusFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// setup points the cli at a fake hacker news and a fresh data directory, it
// returns the keyring tokens end up in.
func setup(t *testing.T) keyring.Keyring {
	t.Helper()

	hn := newFakeHN(t)
	dir := t.TempDir()
	// the config is picked up from a parent of the working directory
	work := filepath.Join(dir, "work", "nested")
	require.NoError(t, os.MkdirAll(work, 0755))
	t.Chdir(work)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	config := fmt.Sprintf(`{
		// the page cache is left on, it is keyed by url
		base_url: %q,
		requests_per_second: 100,
	}`, hn.URL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hn.json5"), []byte(config), 0644))

	ring := keyring.NewArrayKeyring(nil)
	original := openSecretStore
	openSecretStore = func(string) (secrets.Store, error) {
		return secrets.NewKeyringStore(ring), nil
	}
	t.Cleanup(func() {
		openSecretStore = original
	})

	return ring
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := bytes.NewBuffer(nil)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListStories(t *testing.T) {
	setup(t)

	out, err := run(t, "")
	require.NoError(t, err)
	require.Contains(t, out, "Julia Computing raises $24M Series A")
	require.Contains(t, out, "294 points by dklend122")

	out, err = run(t, "", "top", "--jq", ".[].id")
	require.NoError(t, err)
	require.Equal(t, "27883047\n29246573\n30000001\n", out)

	out, err = run(t, "", "t", "--table")
	require.NoError(t, err)
	require.Contains(t, out, "╭")
	require.Contains(t, out, "hpcwire.com")

	_, err = run(t, "", "top", "--output", "xml")
	require.Error(t, err)
}

func TestDetails(t *testing.T) {
	setup(t)

	_, err := run(t, "", "details", "1")
	require.ErrorIs(t, err, state.ErrUnknownRank)

	_, err = run(t, "", "top")
	require.NoError(t, err)

	out, err := run(t, "", "d", "1")
	require.NoError(t, err)
	require.Contains(t, out, "Julia Computing raises $24M Series A")
	require.Contains(t, out, "alice")

	out, err = run(t, "", "details", "1", "--outline")
	require.NoError(t, err)
	require.Contains(t, out, "├──")
	require.Contains(t, out, "bob")

	out, err = run(t, "", "details", "1", "--output", "json", "--jq", ".comments | length")
	require.NoError(t, err)
	require.Equal(t, "2\n", out)

	_, err = run(t, "", "details", "2")
	require.ErrorContains(t, err, "no longer exists")
}

func TestOpen(t *testing.T) {
	setup(t)

	var opened string
	original := openUrl
	openUrl = func(url string) error {
		opened = url
		return nil
	}
	t.Cleanup(func() {
		openUrl = original
	})

	_, err := run(t, "", "top")
	require.NoError(t, err)
	_, err = run(t, "", "open", "1")
	require.NoError(t, err)
	require.Equal(t, "https://www.hpcwire.com/off-the-wire/julia-computing-raises-24m-series-a/", opened)
}

func TestUser(t *testing.T) {
	setup(t)

	out, err := run(t, "", "user", "scastiel")
	require.NoError(t, err)
	require.Regexp(t, `karma:\s+1234`, out)

	out, err = run(t, "", "u", "scastiel", "--table")
	require.NoError(t, err)
	require.Contains(t, out, "karma")
	require.Contains(t, out, "1234")

	out, err = run(t, "", "user", "scastiel", "--output", "yaml")
	require.NoError(t, err)
	require.Contains(t, out, "karma: 1234")

	_, err = run(t, "", "user", "nobody")
	require.ErrorContains(t, err, "not found")
}

func TestSession(t *testing.T) {
	ring := setup(t)

	_, err := run(t, "", "top")
	require.NoError(t, err)

	_, err = run(t, "", "upvote", "1")
	require.ErrorIs(t, err, state.ErrNoSession)

	_, err = run(t, "scastiel\nwrong\n", "login")
	require.ErrorContains(t, err, "invalid username or password")

	out, err := run(t, "scastiel\nhunter2\n", "login")
	require.NoError(t, err)
	require.Equal(t, "Signed in as scastiel.\n", out)

	item, err := ring.Get("token:scastiel")
	require.NoError(t, err)
	require.Equal(t, "scastiel&0bf4e2", string(item.Data))

	out, err = run(t, "", "l")
	require.NoError(t, err)
	require.Equal(t, "Already signed in as scastiel.\n", out)

	out, err = run(t, "", "upvote", "1")
	require.NoError(t, err)
	require.Equal(t, "Upvoted \"Julia Computing raises $24M Series A\".\n", out)

	out, err = run(t, "", "logout")
	require.NoError(t, err)
	require.Equal(t, "Signed out scastiel.\n", out)

	_, err = ring.Get("token:scastiel")
	require.ErrorIs(t, err, keyring.ErrKeyNotFound)

	out, err = run(t, "", "logout")
	require.NoError(t, err)
	require.Equal(t, "Not signed in.\n", out)
}

func TestDumpHttp(t *testing.T) {
	setup(t)
	dump := filepath.Join(t.TempDir(), "dump")

	_, err := run(t, "", "top", "--dump-http", dump)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dump, "0001.txt"))
	require.NoError(t, err)
	require.Contains(t, string(content), "---- RESPONSE ----")
	require.Contains(t, string(content), "Julia Computing")
}
