package dispatch

// Status of one task execution.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// TaskResult is the outcome of one task execution. Output carries the
// task's text payload; for failed tasks it is the failure description.
type TaskResult struct {
	Integration string `json:"integration"`
	Status      string `json:"status"`
	Output      string `json:"output"`
}

// Succeeded reports whether the task completed without a terminal failure.
func (r TaskResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// CombinedResult aggregates every task's result for one request.
// Success is the conjunction of the per-task statuses; the per-task Status
// fields remain the authoritative signal for callers that need detail.
type CombinedResult struct {
	Success      bool         `json:"success"`
	Results      []TaskResult `json:"results"`
	CombinedText string       `json:"combined_text"`
}
