// Package detect provides the detection-model boundary for the skill
// scoring pipeline: object detections, pose skeletons and the helpers that
// turn raw model output into per-frame observations.
package detect

import "math"

// Skeleton keypoint indices following the COCO pose convention used by
// YOLOv8-pose and similar models.
const (
	Nose          = 0
	LeftEye       = 1
	RightEye      = 2
	LeftEar       = 3
	RightEar      = 4
	LeftShoulder  = 5
	RightShoulder = 6
	LeftElbow     = 7
	RightElbow    = 8
	LeftWrist     = 9
	RightWrist    = 10
	LeftHip       = 11
	RightHip      = 12
	LeftKnee      = 13
	RightKnee     = 14
	LeftAnkle     = 15
	RightAnkle    = 16
	NumKeypoints  = 17
)

// Point2D represents a 2D point in pixel coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point2D) Dist(q Point2D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Skeleton represents the 17 COCO body keypoints of one detected person.
type Skeleton struct {
	Keypoints [NumKeypoints]Point2D `json:"keypoints"`
	Score     float64               `json:"score"`
}

// MidHip returns the midpoint of the left and right hip keypoints.
func (s *Skeleton) MidHip() Point2D {
	return midpoint(s.Keypoints[LeftHip], s.Keypoints[RightHip])
}

// MidAnkle returns the midpoint of the left and right ankle keypoints.
func (s *Skeleton) MidAnkle() Point2D {
	return midpoint(s.Keypoints[LeftAnkle], s.Keypoints[RightAnkle])
}

func midpoint(a, b Point2D) Point2D {
	return Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
