package model

var (
	_ Model = &APIConfigurationKey{}
	_ Model = &APINotice{}
	_ Model = &APIReport{}
	_ Model = &APIAnalysis{}
	_ Model = &APISelectionAction{}
	_ Model = &APISelection{}
	_ Model = &APIVersionCatalog{}
	_ Model = &APIBenchmark{}
	_ Model = &APIBenchmarkCatalog{}
)
