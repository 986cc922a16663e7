package analyses

import "encoding/json"

// Status is the lifecycle state of an analysis job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is a final one.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// RawResult holds the backend's analysis_result payload. Depending on the
// backend version it arrives as a JSON string or as an embedded object;
// either way it is kept as the raw text for the normalizer to interpret.
type RawResult string

func (r *RawResult) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RawResult(s)
		return nil
	}
	*r = RawResult(data)
	return nil
}

func (r RawResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

// Analysis is the AI-analysis record for one document. At most one current
// analysis per document is kept client-side; a re-analysis overwrites it.
// Score and the list fields are derived by Normalize and may be absent.
type Analysis struct {
	ID              string    `json:"id"`
	DocumentID      string    `json:"document_id"`
	DocumentName    string    `json:"document_name,omitempty"`
	Status          Status    `json:"status"`
	AnalysisResult  RawResult `json:"analysis_result,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedTime     string    `json:"created_time,omitempty"`
	StartedTime     string    `json:"started_time,omitempty"`
	CompletedTime   string    `json:"completed_time,omitempty"`
	UpdatedTime     string    `json:"updated_time,omitempty"`
	Score           *int      `json:"score,omitempty"`
	Strengths       []string  `json:"strengths,omitempty"`
	Improvements    []string  `json:"improvements,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	AnalysisText    string    `json:"analysis_text,omitempty"`
}
