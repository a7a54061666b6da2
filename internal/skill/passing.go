package skill

import "github.com/asateer/skillscore/internal/detect"

// Passing evaluator defaults.
const (
	// DefaultPassDistanceThresh is the minimum ball-to-mid-ankle distance
	// in pixels for a ball movement to count as a pass attempt.
	DefaultPassDistanceThresh = 100
	// DefaultPassMinBallMove is the minimum ball displacement in pixels
	// between consecutive sampled frames for a pass attempt.
	DefaultPassMinBallMove = 20
	// DefaultPassMaxBallMove is the displacement below which an attempt
	// also counts as a successful pass.
	DefaultPassMaxBallMove = 150
)

// PassingEvaluator scores the passing skill by counting ball movements
// between consecutive sampled frames.
//
// An attempt requires the ball to move more than the minimum displacement
// AND to sit farther from the mid-ankle than the distance threshold; a
// success additionally requires the displacement to stay below the maximum.
// A very large displacement therefore counts as an attempt but never as a
// success.
type PassingEvaluator struct {
	distanceThresh float64
	minBallMove    float64
	maxBallMove    float64
	attempts       int
	successes      int
	prevBall       *detect.Point2D

	// prevMidAnkle is tracked for diagnostics only; the scoring decision
	// uses the current frame's mid-ankle.
	prevMidAnkle *detect.Point2D
}

// NewPassingEvaluator creates a PassingEvaluator with the given ankle
// distance threshold. Values <= 0 fall back to the default.
func NewPassingEvaluator(distanceThresh float64) *PassingEvaluator {
	if distanceThresh <= 0 {
		distanceThresh = DefaultPassDistanceThresh
	}
	return &PassingEvaluator{
		distanceThresh: distanceThresh,
		minBallMove:    DefaultPassMinBallMove,
		maxBallMove:    DefaultPassMaxBallMove,
	}
}

// Name returns the skill name.
func (e *PassingEvaluator) Name() string { return "passing" }

// Observe runs only on pose-present frames. When both the current and the
// previous pose-present frame carried a ball observation, the ball
// displacement is classified into attempt/success. The remembered ball
// position is overwritten with the current one on every pose-present frame,
// including frames where the ball is absent.
func (e *PassingEvaluator) Observe(obs Observation) {
	if obs.Pose == nil {
		return
	}

	midAnkle := obs.Pose.MidAnkle()

	if e.prevBall != nil && obs.Ball != nil {
		ballMove := obs.Ball.Dist(*e.prevBall)
		ankleToBall := obs.Ball.Dist(midAnkle)

		if ballMove > e.minBallMove && ankleToBall > e.distanceThresh {
			e.attempts++
			if ballMove < e.maxBallMove {
				e.successes++
			}
		}
	}

	if obs.Ball != nil {
		ball := *obs.Ball
		e.prevBall = &ball
	} else {
		e.prevBall = nil
	}
	e.prevMidAnkle = &midAnkle
}

// Score returns the number of successful passes, clamped to [0, MaxScore].
func (e *PassingEvaluator) Score() int {
	return clampScore(e.successes)
}

// Attempts returns the total number of counted pass attempts.
func (e *PassingEvaluator) Attempts() int {
	return e.attempts
}
