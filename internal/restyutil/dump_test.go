package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput map[string]string

func (m memoryOutput) Write(id, contents string) {
	m[id] = contents
}

func TestDump(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-served-by", "test")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	output := memoryOutput{}
	client := resty.New().SetBaseURL(server.URL)
	Dump(client, output)

	_, err := client.R().SetQueryParam("id", "1").Get("/item")
	require.NoError(t, err)
	_, err = client.R().SetFormData(map[string]string{"acct": "alice"}).Post("/login")
	require.NoError(t, err)

	require.Len(t, output, 2)

	first := output["0001.txt"]
	require.Contains(t, first, "GET "+server.URL+"/item?id=1")
	require.Contains(t, first, "200 ")
	require.Contains(t, first, "X-Served-By: test")
	require.Contains(t, first, "<html>ok</html>")

	require.Contains(t, output["0002.txt"], "acct=alice")
}

func TestDumpNilOutput(t *testing.T) {
	client := resty.New()
	Dump(client, nil)
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.txt"), nil, 0600))

	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	output.Write("0001.txt", "contents")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	content, err := os.ReadFile(filepath.Join(dir, "0001.txt"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(content))
}
