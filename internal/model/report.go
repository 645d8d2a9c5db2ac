package model

import "time"

// MaxReportErrors caps how many per-record errors are carried in an
// externally visible sync report.
const MaxReportErrors = 10

// SyncReport is the outcome of one full sync run.
type SyncReport struct {
	RunID            string    `json:"runId"`
	Success          bool      `json:"success"`
	RecordsProcessed int       `json:"recordsProcessed"`
	RecordsAdded     int       `json:"recordsAdded"`
	Errors           []string  `json:"errors"`
	SyncTimestamp    time.Time `json:"syncTimestamp"`
	DurationMS       int64     `json:"durationMs"`

	// RemoteFiles is a best-effort listing of the remote directory captured
	// when fetching failed. Only populated when the debug flag is set.
	RemoteFiles []string `json:"remoteFiles,omitempty"`
}

// AddError appends msg, honoring the report error cap.
func (r *SyncReport) AddError(msg string) {
	if len(r.Errors) >= MaxReportErrors {
		return
	}
	r.Errors = append(r.Errors, msg)
}

// ProductPage is the paginated envelope returned by product queries.
type ProductPage struct {
	Records    []InventoryRecord `json:"records"`
	TotalCount int               `json:"totalCount"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	HasMore    bool              `json:"hasMore"`
}

// FeedHealth is the result of probing the distributor's file server.
type FeedHealth struct {
	Healthy           bool   `json:"healthy"`
	LatencyMS         int64  `json:"latencyMs"`
	DiagnosticMessage string `json:"diagnosticMessage"`
}
