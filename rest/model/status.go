package model

// APIStatus reports what the service is serving.
type APIStatus struct {
	Revision     string        `json:"revision"`
	ResultSource string        `json:"result_source"`
	Records      int           `json:"records"`
	Versions     int           `json:"versions"`
	Latest       *string       `json:"latest"`
	Benchmarks   int           `json:"benchmarks"`
	Queue        *APIQueueInfo `json:"queue,omitempty"`
}

// APIQueueInfo summarizes the local job queue.
type APIQueueInfo struct {
	Started   bool `json:"started"`
	Running   int  `json:"running"`
	Pending   int  `json:"pending"`
	Completed int  `json:"completed"`
}

// APIJob identifies a job enqueued on behalf of a request.
type APIJob struct {
	ID   *string `json:"id"`
	Type *string `json:"type"`
}

// APIReportExportRequest is the body of a report export request.
type APIReportExportRequest struct {
	Keys []string `json:"keys"`
}
