package integration

import "time"

// RecordFailure identifies one record that could not be reconciled
type RecordFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// StageResult accumulates the outcome of one pipeline stage.
// A stage-level error means the stage aborted; per-record failures
// mean the stage ran to completion around them.
type StageResult struct {
	Succeeded []string        `json:"succeeded,omitempty"`
	Failed    []RecordFailure `json:"failed,omitempty"`
	Err       string          `json:"error,omitempty"`
}

// AddSuccess records a reconciled record
func (r *StageResult) AddSuccess(id string) {
	r.Succeeded = append(r.Succeeded, id)
}

// AddFailure records a record that could not be reconciled
func (r *StageResult) AddFailure(id string, err error) {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	r.Failed = append(r.Failed, RecordFailure{ID: id, Reason: reason})
}

// Fail marks the whole stage as aborted
func (r *StageResult) Fail(err error) {
	if err != nil {
		r.Err = err.Error()
	}
}

// SuccessCount returns the number of reconciled records
func (r StageResult) SuccessCount() int {
	return len(r.Succeeded)
}

// FailureCount returns the number of failed records
func (r StageResult) FailureCount() int {
	return len(r.Failed)
}

// Ok reports whether the stage completed without any failure
func (r StageResult) Ok() bool {
	return r.Err == "" && len(r.Failed) == 0
}

// SourceSyncReport aggregates the per-stage outcomes of one sync pass
// over one marketplace
type SourceSyncReport struct {
	Marketplace Marketplace `json:"marketplace"`
	Skipped     bool        `json:"skipped"`
	SkipReason  string      `json:"skip_reason,omitempty"`
	Products    StageResult `json:"products"`
	Orders      StageResult `json:"orders"`
	Images      StageResult `json:"images"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at"`
}

// NewSkippedReport builds the report for a marketplace that was not synced
func NewSkippedReport(marketplace Marketplace, reason string) SourceSyncReport {
	now := time.Now()
	return SourceSyncReport{
		Marketplace: marketplace,
		Skipped:     true,
		SkipReason:  reason,
		StartedAt:   now,
		CompletedAt: now,
	}
}
