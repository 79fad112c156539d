package models

type RowStatus string

const (
	RowSaved   RowStatus = "saved"
	RowSkipped RowStatus = "skipped"
	RowFailed  RowStatus = "failed"
)

// RowOutcome records what happened to one CSV data row. Row is 1-based and
// excludes the header.
type RowOutcome struct {
	Row      int       `json:"row"`
	ReviewID string    `json:"review_id,omitempty"`
	Status   RowStatus `json:"status"`
	Reason   string    `json:"reason,omitempty"`
}

type BatchReport struct {
	Bucket  string       `json:"bucket"`
	Key     string       `json:"key"`
	Rows    []RowOutcome `json:"rows"`
	Saved   int          `json:"saved"`
	Skipped int          `json:"skipped"`
	Failed  int          `json:"failed"`
}

func (b *BatchReport) Record(outcome RowOutcome) {
	b.Rows = append(b.Rows, outcome)
	switch outcome.Status {
	case RowSaved:
		b.Saved++
	case RowSkipped:
		b.Skipped++
	case RowFailed:
		b.Failed++
	}
}

// IngestResult is returned by the ingest function.
type IngestResult struct {
	Status  string        `json:"status,omitempty"`
	Count   int           `json:"count"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Files   []BatchReport `json:"files,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// SummaryResult is returned by the summary function: either Error is set or
// Message and Summary are.
type SummaryResult struct {
	Message string `json:"message,omitempty"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}
