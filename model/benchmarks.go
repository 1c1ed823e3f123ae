package model

import (
	"net/url"

	"github.com/evergreen-ci/benchboard/util"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// DefaultAllowedDomains are the hosts benchmark pages may be embedded from
// when no allowlist is configured.
var DefaultAllowedDomains = []string{"dream-horizon-org.github.io"}

// BenchmarkLibrary is one library compared by a benchmark.
type BenchmarkLibrary struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	URL     string `json:"url" yaml:"url"`
}

// BenchmarkItem describes a benchmark hosted outside the dashboard.
type BenchmarkItem struct {
	ID           string             `json:"id" yaml:"id"`
	Title        string             `json:"title" yaml:"title"`
	Description  string             `json:"description" yaml:"description"`
	Type         string             `json:"type" yaml:"type"`
	BenchmarkURL string             `json:"benchmark_url" yaml:"benchmark_url"`
	RepoURL      string             `json:"repo_url" yaml:"repo_url"`
	Libraries    []BenchmarkLibrary `json:"libraries" yaml:"libraries"`
	LastUpdated  string             `json:"last_updated" yaml:"last_updated"`
}

// BenchmarkCatalog is the list of other benchmarks offered by the
// dashboard.
type BenchmarkCatalog struct {
	Items []BenchmarkItem `json:"items" yaml:"benchmarks"`
}

// LoadBenchmarkCatalog reads a catalog from a YAML file and blanks every
// benchmark URL whose host is not allowed. A nil or empty allowlist uses
// DefaultAllowedDomains.
func LoadBenchmarkCatalog(path string, allowed []string) (*BenchmarkCatalog, error) {
	c := &BenchmarkCatalog{}
	if err := util.ReadFileYAML(path, c); err != nil {
		return nil, errors.Wrap(err, "problem reading benchmark catalog")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	c.Restrict(allowed)

	return c, nil
}

// Validate requires every item to have a unique id and a title.
func (c *BenchmarkCatalog) Validate() error {
	catcher := grip.NewBasicCatcher()
	ids := []string{}
	for idx, item := range c.Items {
		catcher.ErrorfWhen(item.ID == "", "benchmark %d has no id", idx)
		catcher.ErrorfWhen(item.Title == "", "benchmark '%s' has no title", item.ID)
		catcher.ErrorfWhen(utility.StringSliceContains(ids, item.ID), "duplicate benchmark '%s'", item.ID)
		ids = append(ids, item.ID)
	}

	return catcher.Resolve()
}

// Restrict blanks the benchmark URLs that are not allowed.
func (c *BenchmarkCatalog) Restrict(allowed []string) {
	if len(allowed) == 0 {
		allowed = DefaultAllowedDomains
	}

	for idx := range c.Items {
		item := &c.Items[idx]
		if item.BenchmarkURL == "" || URLAllowed(item.BenchmarkURL, allowed) {
			continue
		}

		grip.Warning(message.Fields{
			"message":   "benchmark url is not on the allowlist",
			"benchmark": item.ID,
			"url":       item.BenchmarkURL,
		})
		item.BenchmarkURL = ""
	}
}

// Default returns the item shown when the tab opens: the first item with a
// benchmark URL, else the first item, else nil.
func (c *BenchmarkCatalog) Default() *BenchmarkItem {
	if c == nil || len(c.Items) == 0 {
		return nil
	}

	for idx := range c.Items {
		if c.Items[idx].BenchmarkURL != "" {
			return &c.Items[idx]
		}
	}

	return &c.Items[0]
}

// Find returns the item with the given id.
func (c *BenchmarkCatalog) Find(id string) (*BenchmarkItem, bool) {
	if c == nil {
		return nil, false
	}
	for idx := range c.Items {
		if c.Items[idx].ID == id {
			return &c.Items[idx], true
		}
	}
	return nil, false
}

// URLAllowed reports whether the URL is absolute and its hostname is exactly
// one of the allowed domains. Malformed URLs are never allowed.
func URLAllowed(raw string, allowed []string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return utility.StringSliceContains(allowed, u.Hostname())
}
