/*
Package benchboard holds a number of application level constants and shared
resources for the benchboard application.
*/
package benchboard

const (
	ShortDateFormat = "2006-01-02T15:04"
)

// BuildRevision stores the commit in the git repository at build time and is
// specified with -ldflags at build time.
var BuildRevision = ""

const (
	QueueName   = "benchboard.service"
	ServiceName = "benchboard"
)

// Names of the snapshots held in the environment cache.
const (
	ResultStoreCacheKey      = "result-store"
	VersionCatalogCacheKey   = "version-catalog"
	BenchmarkCatalogCacheKey = "benchmark-catalog"
)

// Names of the stats caches registered in every environment.
const (
	StatsCacheReports = "reports"
	StatsCacheNotices = "notices"
)
