package skill

import (
	"math"

	"github.com/asateer/skillscore/internal/detect"
)

// Jump evaluator defaults.
const (
	// DefaultJumpDistanceThresh is the maximum ball-to-knee distance in
	// pixels for a frame to count as a touch.
	DefaultJumpDistanceThresh = 40
	// DefaultJumpAngleThresh is the maximum knee angle in degrees for a
	// frame to count as a touch.
	DefaultJumpAngleThresh = 60
)

// Touch is a diagnostic record of one counted ball-knee contact.
type Touch struct {
	Frame    int     `json:"frame"`
	Distance float64 `json:"distance"`
	Angle    float64 `json:"angle"`
}

// JumpEvaluator scores the jumping-with-ball skill by counting frames in
// which the ball sits close to a bent left knee.
type JumpEvaluator struct {
	distanceThresh float64
	angleThresh    float64
	touches        int
	records        []Touch
}

// NewJumpEvaluator creates a JumpEvaluator with the given thresholds.
// Values <= 0 fall back to the defaults.
func NewJumpEvaluator(distanceThresh, angleThresh float64) *JumpEvaluator {
	if distanceThresh <= 0 {
		distanceThresh = DefaultJumpDistanceThresh
	}
	if angleThresh <= 0 {
		angleThresh = DefaultJumpAngleThresh
	}
	return &JumpEvaluator{
		distanceThresh: distanceThresh,
		angleThresh:    angleThresh,
	}
}

// Name returns the skill name.
func (e *JumpEvaluator) Name() string { return "jumping-with-ball" }

// Observe counts a touch when both observations are present, the ball is
// within the distance threshold of the left knee and the knee angle is
// below the angle threshold. Frames missing either observation contribute
// nothing.
func (e *JumpEvaluator) Observe(obs Observation) {
	if obs.Ball == nil || obs.Pose == nil {
		return
	}

	hip := obs.Pose.Keypoints[detect.LeftHip]
	knee := obs.Pose.Keypoints[detect.LeftKnee]
	ankle := obs.Pose.Keypoints[detect.LeftAnkle]

	angle := kneeAngle(hip, knee, ankle)
	dist := obs.Ball.Dist(knee)

	if dist < e.distanceThresh && angle < e.angleThresh {
		e.touches++
		e.records = append(e.records, Touch{
			Frame:    obs.FrameIndex,
			Distance: round1(dist),
			Angle:    round1(angle),
		})
	}
}

// Score returns the number of counted touches, clamped to [0, MaxScore].
func (e *JumpEvaluator) Score() int {
	return clampScore(e.touches)
}

// Touches returns the diagnostic records of counted contacts.
func (e *JumpEvaluator) Touches() []Touch {
	return e.records
}

// kneeAngle returns the absolute angular difference in degrees, modulo 180,
// between the knee->ankle and knee->hip vectors using the 2D atan2
// convention.
func kneeAngle(hip, knee, ankle detect.Point2D) float64 {
	rad := math.Atan2(ankle.Y-knee.Y, ankle.X-knee.X) - math.Atan2(hip.Y-knee.Y, hip.X-knee.X)
	return math.Mod(math.Abs(rad*180/math.Pi), 180)
}

// round1 rounds to one decimal place, matching the diagnostic precision of
// the touch records.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
