// Package skill implements the three soccer-skill evaluators. Each
// evaluator is an explicit accumulator fed one observation per sampled
// frame; it keeps its own running state and emits a final 0-5 score once
// the frame stream ends.
package skill

import "github.com/asateer/skillscore/internal/detect"

// MaxScore is the upper bound of every skill score.
const MaxScore = 5

// Observation carries the per-frame measurements extracted from the
// detection models. Ball and Pose are nil when the corresponding model
// produced no usable output for the frame; that is an observation gap,
// not an error.
type Observation struct {
	FrameIndex int
	Ball       *detect.Point2D
	Pose       *detect.Skeleton
}

// Evaluator accumulates observations for one skill and produces a final
// integer score in [0, MaxScore]. Implementations hold private mutable
// state and must be fed observations in frame-index order.
type Evaluator interface {
	// Name returns the skill name.
	Name() string

	// Observe feeds one sampled frame's observation into the evaluator.
	Observe(obs Observation)

	// Score finalizes and returns the skill score, clamped to [0, MaxScore].
	Score() int
}

// clampScore pins a raw score to [0, MaxScore].
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxScore {
		return MaxScore
	}
	return n
}
