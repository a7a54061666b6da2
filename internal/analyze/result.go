package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Result is the immutable outcome of one pipeline run. OverallScore is the
// unrounded arithmetic mean of the three skill scores.
type Result struct {
	JumpScore      int     `json:"jump_score"`
	RunningScore   int     `json:"running_score"`
	PassingScore   int     `json:"passing_score"`
	OverallScore   float64 `json:"overall_score"`
	ProcessingTime float64 `json:"processing_time"`
}

// NewResult builds a Result from the three finalized skill scores and the
// measured wall-clock duration of the run.
func NewResult(jump, running, passing int, elapsed time.Duration) *Result {
	return &Result{
		JumpScore:      jump,
		RunningScore:   running,
		PassingScore:   passing,
		OverallScore:   float64(jump+running+passing) / 3,
		ProcessingTime: elapsed.Seconds(),
	}
}

// WriteFile persists the result as indented JSON at path.
func (r *Result) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}
