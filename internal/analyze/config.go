// Package analyze runs the frame-sequential evaluation pipeline: it samples
// frames from a video source, extracts ball and pose observations through
// the detection models, feeds all three skill evaluators and aggregates
// their final scores into one result.
package analyze

import "github.com/asateer/skillscore/internal/skill"

// Config holds the sampling stride and evaluator thresholds for one run.
// All values are fixed for the duration of a run; the running score in
// particular is only comparable between runs that share the same FrameSkip.
type Config struct {
	// FrameSkip is the sampling stride: only frames whose index is a
	// multiple of it are submitted to the detection models.
	FrameSkip int

	// JumpDistanceThresh is the ball-to-knee contact distance in pixels.
	JumpDistanceThresh float64
	// JumpAngleThresh is the maximum knee angle in degrees for a touch.
	JumpAngleThresh float64

	// RunMinBallDistance is the controlled-ball gate in pixels.
	RunMinBallDistance float64

	// PassDistanceThresh is the ball-to-mid-ankle distance in pixels for a
	// pass attempt.
	PassDistanceThresh float64
}

// DefaultConfig returns the tuned thresholds of the evaluation pipeline.
func DefaultConfig() Config {
	return Config{
		FrameSkip:          2,
		JumpDistanceThresh: skill.DefaultJumpDistanceThresh,
		JumpAngleThresh:    skill.DefaultJumpAngleThresh,
		RunMinBallDistance: skill.DefaultMinBallDistance,
		PassDistanceThresh: skill.DefaultPassDistanceThresh,
	}
}
