package skill

import (
	"testing"

	"github.com/asateer/skillscore/internal/detect"
)

// controlledRunObservation places the ball exactly on the mid-hip, which
// always passes the controlled-ball gate.
func controlledRunObservation(frame int, midHipX, midHipY float64) Observation {
	pose := detect.SkeletonWithMidHip(midHipX, midHipY)
	ball := detect.Point2D{X: midHipX, Y: midHipY}
	return Observation{FrameIndex: frame, Ball: &ball, Pose: &pose}
}

func TestRunningEvaluator_MeanDisplacementScore(t *testing.T) {
	e := NewRunningEvaluator(0)

	// Mid-hip positions producing displacements [1, 2, 3]; mean 2.0.
	xs := []float64{100, 101, 103, 106}
	for i, x := range xs {
		e.Observe(controlledRunObservation(i*2, x, 200))
	}

	got := e.Displacements()
	want := []float64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("len(Displacements()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if diff := got[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Displacements()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// min(5, int(2.0 * 10)) == 5
	if score := e.Score(); score != 5 {
		t.Errorf("Score() = %d, want 5", score)
	}
}

func TestRunningEvaluator_TruncatesMidRangeScore(t *testing.T) {
	e := NewRunningEvaluator(0)

	// Displacements [0.2, 0.2]; mean 0.2 scores int(2.0) = 2.
	e.Observe(controlledRunObservation(0, 100, 200))
	e.Observe(controlledRunObservation(2, 100.2, 200))
	e.Observe(controlledRunObservation(4, 100.4, 200))

	if score := e.Score(); score != 2 {
		t.Errorf("Score() = %d, want 2", score)
	}
}

func TestRunningEvaluator_NoQualifyingPairsScoresZero(t *testing.T) {
	e := NewRunningEvaluator(0)

	if score := e.Score(); score != 0 {
		t.Errorf("Score() with no observations = %d, want 0", score)
	}

	// A single gated frame has no previous position to pair with.
	e.Observe(controlledRunObservation(0, 100, 200))
	if score := e.Score(); score != 0 {
		t.Errorf("Score() with one qualifying frame = %d, want 0", score)
	}
}

func TestRunningEvaluator_UncontrolledBallIsSkipped(t *testing.T) {
	e := NewRunningEvaluator(0)

	e.Observe(controlledRunObservation(0, 100, 200))

	// Ball far from the body: frame does not count and does not update the
	// previous mid-hip.
	pose := detect.SkeletonWithMidHip(150, 200)
	farBall := detect.Point2D{X: 400, Y: 200}
	e.Observe(Observation{FrameIndex: 2, Ball: &farBall, Pose: &pose})

	// Next controlled frame pairs with frame 0, not frame 2.
	e.Observe(controlledRunObservation(4, 104, 200))

	d := e.Displacements()
	if len(d) != 1 {
		t.Fatalf("len(Displacements()) = %d, want 1", len(d))
	}
	if d[0] != 4 {
		t.Errorf("Displacements()[0] = %v, want 4 (span from frame 0 to frame 4)", d[0])
	}
}

func TestRunningEvaluator_ObservationGapsContributeNothing(t *testing.T) {
	e := NewRunningEvaluator(0)

	pose := detect.SkeletonWithMidHip(100, 200)
	ball := detect.Point2D{X: 100, Y: 200}

	e.Observe(Observation{FrameIndex: 0, Ball: &ball, Pose: nil})
	e.Observe(Observation{FrameIndex: 2, Ball: nil, Pose: &pose})

	if len(e.Displacements()) != 0 {
		t.Errorf("Displacements() = %v, want empty", e.Displacements())
	}
	if score := e.Score(); score != 0 {
		t.Errorf("Score() = %d, want 0", score)
	}
}
