package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBenchmarkCatalog = `
benchmarks:
  - id: navigation
    title: Navigation
    description: Stack navigator push and pop
    type: navigation
    repo_url: https://github.com/dream-horizon-org/navigation-benchmark
    libraries:
      - name: react-navigation
        version: 7.0.0
        url: https://reactnavigation.org
  - id: tabs
    title: Tabs
    type: tabs
    benchmark_url: https://dream-horizon-org.github.io/tabs/
  - id: webview
    title: WebView
    type: webview
    benchmark_url: https://evil.example.com/webview
`

func TestURLAllowed(t *testing.T) {
	allowed := []string{"dream-horizon-org.github.io"}

	for url, expected := range map[string]bool{
		"https://dream-horizon-org.github.io/x":         true,
		"http://dream-horizon-org.github.io:8080/x?y=1": true,
		"https://evil.example.com/x":                    false,
		"https://dream-horizon-org.github.io.evil.com/": false,
		"https://sub.dream-horizon-org.github.io/":      false,
		"dream-horizon-org.github.io/x":                 false,
		"not a url":                                     false,
		"://bad":                                        false,
		"":                                              false,
	} {
		t.Run(url, func(t *testing.T) {
			assert.Equal(t, expected, URLAllowed(url, allowed))
		})
	}
	assert.False(t, URLAllowed("https://dream-horizon-org.github.io/x", nil))
}

func TestBenchmarkCatalog(t *testing.T) {
	writeCatalog := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "benchmarks.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("LoadRestrictsURLs", func(t *testing.T) {
		c, err := LoadBenchmarkCatalog(writeCatalog(t, testBenchmarkCatalog), nil)
		require.NoError(t, err)
		require.Len(t, c.Items, 3)
		assert.Equal(t, "https://dream-horizon-org.github.io/tabs/", c.Items[1].BenchmarkURL)
		assert.Empty(t, c.Items[2].BenchmarkURL)
		require.Len(t, c.Items[0].Libraries, 1)
		assert.Equal(t, "react-navigation", c.Items[0].Libraries[0].Name)

		def := c.Default()
		require.NotNil(t, def)
		assert.Equal(t, "tabs", def.ID)

		item, ok := c.Find("webview")
		require.True(t, ok)
		assert.Equal(t, "WebView", item.Title)
		_, ok = c.Find("modules")
		assert.False(t, ok)
	})
	t.Run("CustomAllowlist", func(t *testing.T) {
		c, err := LoadBenchmarkCatalog(writeCatalog(t, testBenchmarkCatalog), []string{"evil.example.com"})
		require.NoError(t, err)
		assert.Empty(t, c.Items[1].BenchmarkURL)
		assert.Equal(t, "https://evil.example.com/webview", c.Items[2].BenchmarkURL)
		assert.Equal(t, "webview", c.Default().ID)
	})
	t.Run("DefaultFallsBackToFirst", func(t *testing.T) {
		c := &BenchmarkCatalog{Items: []BenchmarkItem{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}}
		assert.Equal(t, "a", c.Default().ID)
		assert.Nil(t, (&BenchmarkCatalog{}).Default())

		var nilCatalog *BenchmarkCatalog
		assert.Nil(t, nilCatalog.Default())
	})
	t.Run("Invalid", func(t *testing.T) {
		_, err := LoadBenchmarkCatalog(writeCatalog(t, "benchmarks:\n  - id: a\n    title: A\n  - id: a\n    title: B\n"), nil)
		assert.Error(t, err)
		_, err = LoadBenchmarkCatalog(writeCatalog(t, "benchmarks:\n  - title: A\n"), nil)
		assert.Error(t, err)
		_, err = LoadBenchmarkCatalog(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		assert.Error(t, err)
	})
}
