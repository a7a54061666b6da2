package detect

import (
	"image"

	"gocv.io/x/gocv"
)

// MockObjectDetector is a test implementation of the ObjectDetector
// interface. It either replays a scripted sequence of per-call results or
// returns a fixed set of detections.
type MockObjectDetector struct {
	script [][]Detection
	fixed  []Detection
	err    error
	calls  int
}

// NewMockObjectDetector creates a new MockObjectDetector instance.
func NewMockObjectDetector() *MockObjectDetector {
	return &MockObjectDetector{}
}

// SetDetections sets the detections returned by every DetectObjects call.
func (m *MockObjectDetector) SetDetections(dets []Detection) {
	m.fixed = dets
}

// SetScript sets a per-call sequence of results. Call n receives script[n];
// calls beyond the script fall back to the fixed detections.
func (m *MockObjectDetector) SetScript(script [][]Detection) {
	m.script = script
}

// SetError sets the error returned by DetectObjects.
func (m *MockObjectDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times DetectObjects has been invoked.
func (m *MockObjectDetector) Calls() int {
	return m.calls
}

// DetectObjects returns the pre-configured detections or error.
func (m *MockObjectDetector) DetectObjects(frame *gocv.Mat) ([]Detection, error) {
	call := m.calls
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if call < len(m.script) {
		return m.script[call], nil
	}
	return m.fixed, nil
}

// Close is a no-op for the mock detector.
func (m *MockObjectDetector) Close() error {
	return nil
}

// MockPoseDetector is a test implementation of the PoseDetector interface.
type MockPoseDetector struct {
	script [][]Skeleton
	fixed  []Skeleton
	err    error
	calls  int
}

// NewMockPoseDetector creates a new MockPoseDetector instance.
func NewMockPoseDetector() *MockPoseDetector {
	return &MockPoseDetector{}
}

// SetSkeletons sets the skeletons returned by every DetectPose call.
func (m *MockPoseDetector) SetSkeletons(skels []Skeleton) {
	m.fixed = skels
}

// SetScript sets a per-call sequence of results. Call n receives script[n];
// calls beyond the script fall back to the fixed skeletons.
func (m *MockPoseDetector) SetScript(script [][]Skeleton) {
	m.script = script
}

// SetError sets the error returned by DetectPose.
func (m *MockPoseDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times DetectPose has been invoked.
func (m *MockPoseDetector) Calls() int {
	return m.calls
}

// DetectPose returns the pre-configured skeletons or error.
func (m *MockPoseDetector) DetectPose(frame *gocv.Mat) ([]Skeleton, error) {
	call := m.calls
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if call < len(m.script) {
		return m.script[call], nil
	}
	return m.fixed, nil
}

// Close is a no-op for the mock detector.
func (m *MockPoseDetector) Close() error {
	return nil
}

// BallDetectionAt returns a sports-ball detection whose box is centered on
// (x, y) with the given radius.
func BallDetectionAt(x, y, radius int) Detection {
	return Detection{
		Box:        image.Rect(x-radius, y-radius, x+radius, y+radius),
		ClassID:    SportsBallClassID,
		Confidence: 0.9,
	}
}

// StandingSkeleton returns a preset Skeleton of an upright player in a
// 640x480 frame, hips around y=240 and ankles around y=440.
func StandingSkeleton() Skeleton {
	s := Skeleton{Score: 0.95}

	s.Keypoints[Nose] = Point2D{X: 320, Y: 80}
	s.Keypoints[LeftEye] = Point2D{X: 312, Y: 72}
	s.Keypoints[RightEye] = Point2D{X: 328, Y: 72}
	s.Keypoints[LeftEar] = Point2D{X: 304, Y: 76}
	s.Keypoints[RightEar] = Point2D{X: 336, Y: 76}

	s.Keypoints[LeftShoulder] = Point2D{X: 290, Y: 130}
	s.Keypoints[RightShoulder] = Point2D{X: 350, Y: 130}
	s.Keypoints[LeftElbow] = Point2D{X: 275, Y: 185}
	s.Keypoints[RightElbow] = Point2D{X: 365, Y: 185}
	s.Keypoints[LeftWrist] = Point2D{X: 268, Y: 235}
	s.Keypoints[RightWrist] = Point2D{X: 372, Y: 235}

	s.Keypoints[LeftHip] = Point2D{X: 300, Y: 240}
	s.Keypoints[RightHip] = Point2D{X: 340, Y: 240}
	s.Keypoints[LeftKnee] = Point2D{X: 298, Y: 340}
	s.Keypoints[RightKnee] = Point2D{X: 342, Y: 340}
	s.Keypoints[LeftAnkle] = Point2D{X: 296, Y: 440}
	s.Keypoints[RightAnkle] = Point2D{X: 344, Y: 440}

	return s
}

// SkeletonWithMidHip returns a standing skeleton translated so that its
// mid-hip lands exactly on (x, y). Useful for displacement tests.
func SkeletonWithMidHip(x, y float64) Skeleton {
	s := StandingSkeleton()
	mid := s.MidHip()
	dx := x - mid.X
	dy := y - mid.Y
	for i := range s.Keypoints {
		s.Keypoints[i].X += dx
		s.Keypoints[i].Y += dy
	}
	return s
}
