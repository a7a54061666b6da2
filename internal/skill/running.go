package skill

import (
	"gonum.org/v1/gonum/stat"

	"github.com/asateer/skillscore/internal/detect"
)

// DefaultMinBallDistance is the maximum mid-hip-to-ball distance in pixels
// for the ball to count as controlled.
const DefaultMinBallDistance = 30

// RunningEvaluator scores the running-with-ball skill from the average
// mid-hip displacement across frames where the ball is controlled (close
// to the body).
//
// The displacement magnitude scales with the sampling stride: skipping
// more frames between qualifying samples inflates each step. The scoring
// formula is stride-sensitive by construction and assumes the stride stays
// fixed for a run.
type RunningEvaluator struct {
	minBallDistance float64
	displacements   []float64
	prevMidHip      *detect.Point2D
}

// NewRunningEvaluator creates a RunningEvaluator with the given controlled-
// ball distance gate. Values <= 0 fall back to the default.
func NewRunningEvaluator(minBallDistance float64) *RunningEvaluator {
	if minBallDistance <= 0 {
		minBallDistance = DefaultMinBallDistance
	}
	return &RunningEvaluator{minBallDistance: minBallDistance}
}

// Name returns the skill name.
func (e *RunningEvaluator) Name() string { return "running-with-ball" }

// Observe records a mid-hip displacement when both observations are present
// and the ball is within the controlled-ball gate. The previous mid-hip is
// remembered only from gated frames, so displacements always span two
// qualifying samples.
func (e *RunningEvaluator) Observe(obs Observation) {
	if obs.Ball == nil || obs.Pose == nil {
		return
	}

	midHip := obs.Pose.MidHip()
	if midHip.Dist(*obs.Ball) >= e.minBallDistance {
		return
	}

	if e.prevMidHip != nil {
		e.displacements = append(e.displacements, e.prevMidHip.Dist(midHip))
	}

	prev := midHip
	e.prevMidHip = &prev
}

// Score returns min(MaxScore, int(mean displacement * 10)), or 0 when no
// qualifying frame pair was seen.
func (e *RunningEvaluator) Score() int {
	if len(e.displacements) == 0 {
		return 0
	}
	mean := stat.Mean(e.displacements, nil)
	return clampScore(int(mean * 10))
}

// Displacements returns the recorded per-step displacements.
func (e *RunningEvaluator) Displacements() []float64 {
	return e.displacements
}
