package model

import (
	"strings"

	"github.com/evergreen-ci/utility"
	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
)

// VersionCatalog is the ordered list of versions offered for selection,
// oldest first. The last entry is the latest version.
type VersionCatalog struct {
	Versions []string `json:"versions" yaml:"versions"`
}

// NewVersionCatalog returns a catalog, rejecting empty and duplicate entries.
func NewVersionCatalog(versions ...string) (*VersionCatalog, error) {
	c := &VersionCatalog{Versions: []string{}}
	for _, v := range versions {
		if v == "" {
			return nil, errors.New("version must not be empty")
		}
		if utility.StringSliceContains(c.Versions, v) {
			return nil, errors.Errorf("duplicate version '%s'", v)
		}
		c.Versions = append(c.Versions, v)
	}

	return c, nil
}

// VersionCatalogFromStore derives a catalog from the versions present in a
// result store, sorted oldest first.
func VersionCatalogFromStore(store ResultStore) *VersionCatalog {
	// store versions are already ordered by CompareVersions
	return &VersionCatalog{Versions: store.Versions()}
}

// Latest returns the newest version, or "" for an empty catalog.
func (c *VersionCatalog) Latest() string {
	if c == nil || len(c.Versions) == 0 {
		return ""
	}
	return c.Versions[len(c.Versions)-1]
}

// Contains reports whether the version is offered.
func (c *VersionCatalog) Contains(version string) bool {
	return c != nil && utility.StringSliceContains(c.Versions, version)
}

// Newest returns the versions newest first, as the selection menu lists them.
func (c *VersionCatalog) Newest() []string {
	if c == nil {
		return []string{}
	}

	out := make([]string, 0, len(c.Versions))
	for i := len(c.Versions) - 1; i >= 0; i-- {
		out = append(out, c.Versions[i])
	}
	return out
}

// CompareVersions orders versions by semantic precedence, so release
// candidates sort before their release and "0.9.0" before "0.76.0".
// Versions that do not parse sort before every parsable version, in string
// order, which keeps Latest a real release. Equal precedence with
// different spellings ("0.76" and "0.76.0") falls back to string order.
// It returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	av, aerr := version.NewVersion(a)
	bv, berr := version.NewVersion(b)

	switch {
	case aerr != nil && berr != nil:
		return strings.Compare(a, b)
	case aerr != nil:
		return -1
	case berr != nil:
		return 1
	}

	if cmp := av.Compare(bv); cmp != 0 {
		return cmp
	}

	return strings.Compare(a, b)
}
