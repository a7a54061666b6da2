package analyze

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewResult_OverallIsUnroundedMean(t *testing.T) {
	tests := []struct {
		jump, running, passing int
		want                   float64
	}{
		{0, 0, 0, 0},
		{5, 5, 5, 5},
		{1, 0, 0, float64(1) / 3},
		{3, 4, 5, 4},
		{2, 2, 3, float64(7) / 3},
	}

	for _, tt := range tests {
		r := NewResult(tt.jump, tt.running, tt.passing, time.Second)
		if r.OverallScore != tt.want {
			t.Errorf("NewResult(%d, %d, %d) overall = %v, want %v",
				tt.jump, tt.running, tt.passing, r.OverallScore, tt.want)
		}
	}
}

func TestNewResult_ProcessingTimeInSeconds(t *testing.T) {
	r := NewResult(1, 2, 3, 1500*time.Millisecond)
	if r.ProcessingTime != 1.5 {
		t.Errorf("ProcessingTime = %v, want 1.5", r.ProcessingTime)
	}
}

func TestResult_WriteFile(t *testing.T) {
	r := NewResult(3, 2, 1, 2*time.Second)

	path := filepath.Join(t.TempDir(), "result.json")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	for _, key := range []string{"jump_score", "running_score", "passing_score", "overall_score", "processing_time"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("output missing key %q", key)
		}
	}

	if got := decoded["jump_score"].(float64); got != 3 {
		t.Errorf("jump_score = %v, want 3", got)
	}
	if got := decoded["overall_score"].(float64); got != 2 {
		t.Errorf("overall_score = %v, want 2", got)
	}
}

func TestResult_WriteFileBadPath(t *testing.T) {
	r := NewResult(0, 0, 0, 0)
	if err := r.WriteFile(filepath.Join(t.TempDir(), "missing", "result.json")); err == nil {
		t.Error("WriteFile() to a missing directory succeeded, want error")
	}
}
