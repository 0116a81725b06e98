package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Port    int    `json:"port"`
	Verbose bool   `json:"verbose"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0644)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, name, `{
		// comments are allowed
		base_url: "https://news.ycombinator.com",
		port: 8080,
	}`)
	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://news.ycombinator.com", Port: 8080}, cfg)

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{port: 9000, verbose: true}`)
	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://news.ycombinator.com", Port: 9000, Verbose: true}, cfg)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")
	writeFile(t, name, `{port: }`)

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadWithDefaults(t *testing.T) {
	dir := t.TempDir()
	defaults := testConfig{BaseUrl: "https://news.ycombinator.com", Port: 8080}

	cfg, err := ReadWithDefaults(defaults, filepath.Join(dir, "missing.json5"))
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	present := filepath.Join(dir, "present.json5")
	writeFile(t, present, `{port: 3000}`)
	cfg, err = ReadWithDefaults(defaults, filepath.Join(dir, "missing.json5"), present)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://news.ycombinator.com", Port: 3000}, cfg)
}

func TestReadRecursively(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	err := os.MkdirAll(nested, 0755)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "hn-test.json5"), `{port: 1234}`)

	t.Chdir(nested)

	cfg, err := ReadRecursively[testConfig]("hn-test.json5")
	require.NoError(t, err)
	require.Equal(t, 1234, cfg.Port)
}
