package model

import (
	dbmodel "github.com/evergreen-ci/benchboard/model"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// APIVersionCatalog lists the selectable versions.
type APIVersionCatalog struct {
	// Versions is ordered oldest first.
	Versions []string `json:"versions"`
	// Newest is ordered newest first, as the version menu shows it.
	Newest []string `json:"newest"`
	Latest *string  `json:"latest"`
}

// Import transforms a VersionCatalog into an APIVersionCatalog.
func (c *APIVersionCatalog) Import(i interface{}) error {
	catalog, ok := i.(*dbmodel.VersionCatalog)
	if !ok {
		return errors.Errorf("incorrect type %T when converting to APIVersionCatalog", i)
	}

	c.Versions = []string{}
	if catalog != nil {
		c.Versions = append(c.Versions, catalog.Versions...)
	}
	c.Newest = catalog.Newest()
	c.Latest = utility.ToStringPtr(catalog.Latest())

	return nil
}

func (c *APIVersionCatalog) Export() (interface{}, error) {
	return dbmodel.NewVersionCatalog(c.Versions...)
}

// APIBenchmarkLibrary is one library compared by a benchmark.
type APIBenchmarkLibrary struct {
	Name    *string `json:"name"`
	Version *string `json:"version"`
	URL     *string `json:"url"`
}

// APIBenchmark is one entry of the other benchmarks tab. An empty
// benchmark URL means the page may not be embedded.
type APIBenchmark struct {
	ID           *string               `json:"id"`
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	Type         *string               `json:"type"`
	BenchmarkURL *string               `json:"benchmark_url"`
	RepoURL      *string               `json:"repo_url"`
	Libraries    []APIBenchmarkLibrary `json:"libraries"`
	LastUpdated  *string               `json:"last_updated"`
}

// Import transforms a BenchmarkItem into an APIBenchmark.
func (b *APIBenchmark) Import(i interface{}) error {
	var item dbmodel.BenchmarkItem
	switch in := i.(type) {
	case dbmodel.BenchmarkItem:
		item = in
	case *dbmodel.BenchmarkItem:
		if in == nil {
			return errors.New("cannot import a nil benchmark")
		}
		item = *in
	default:
		return errors.Errorf("incorrect type %T when converting to APIBenchmark", i)
	}

	b.ID = utility.ToStringPtr(item.ID)
	b.Title = utility.ToStringPtr(item.Title)
	b.Description = utility.ToStringPtr(item.Description)
	b.Type = utility.ToStringPtr(item.Type)
	b.BenchmarkURL = utility.ToStringPtr(item.BenchmarkURL)
	b.RepoURL = utility.ToStringPtr(item.RepoURL)
	b.LastUpdated = utility.ToStringPtr(item.LastUpdated)
	b.Libraries = make([]APIBenchmarkLibrary, 0, len(item.Libraries))
	for _, lib := range item.Libraries {
		b.Libraries = append(b.Libraries, APIBenchmarkLibrary{
			Name:    utility.ToStringPtr(lib.Name),
			Version: utility.ToStringPtr(lib.Version),
			URL:     utility.ToStringPtr(lib.URL),
		})
	}

	return nil
}

func (b *APIBenchmark) Export() (interface{}, error) {
	return nil, errors.New("Export is not implemented for APIBenchmark")
}

// APIBenchmarkCatalog is the other benchmarks tab.
type APIBenchmarkCatalog struct {
	Items []APIBenchmark `json:"items"`
	// Default is the id of the benchmark shown when the tab opens.
	Default *string `json:"default"`
}

// Import transforms a BenchmarkCatalog into an APIBenchmarkCatalog.
func (c *APIBenchmarkCatalog) Import(i interface{}) error {
	catalog, ok := i.(*dbmodel.BenchmarkCatalog)
	if !ok {
		return errors.Errorf("incorrect type %T when converting to APIBenchmarkCatalog", i)
	}

	c.Items = []APIBenchmark{}
	c.Default = nil
	if catalog == nil {
		return nil
	}

	for _, item := range catalog.Items {
		apiItem := APIBenchmark{}
		if err := apiItem.Import(item); err != nil {
			return errors.WithStack(err)
		}
		c.Items = append(c.Items, apiItem)
	}
	if def := catalog.Default(); def != nil {
		c.Default = utility.ToStringPtr(def.ID)
	}

	return nil
}

func (c *APIBenchmarkCatalog) Export() (interface{}, error) {
	return nil, errors.New("Export is not implemented for APIBenchmarkCatalog")
}
