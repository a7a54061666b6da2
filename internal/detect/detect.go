package detect

import (
	"image"

	"gocv.io/x/gocv"
)

// SportsBallClassID is the COCO class id for "sports ball".
const SportsBallClassID = 32

// Detection is a single bounding box returned by the object-detection model.
type Detection struct {
	Box        image.Rectangle `json:"box"`
	ClassID    int             `json:"class_id"`
	Confidence float64         `json:"confidence"`
}

// ObjectDetector defines the interface for object-detection implementations.
type ObjectDetector interface {
	// DetectObjects analyzes a video frame and returns all detected
	// bounding boxes. An empty slice means nothing was detected.
	DetectObjects(frame *gocv.Mat) ([]Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// PoseDetector defines the interface for pose-estimation implementations.
type PoseDetector interface {
	// DetectPose analyzes a video frame and returns the skeletons of all
	// detected persons. An empty slice means no person was detected.
	DetectPose(frame *gocv.Mat) ([]Skeleton, error)

	// Close releases any resources held by the detector.
	Close() error
}

// BallCentroid extracts the centroid of the first sports-ball detection.
// The first matching box wins, with no ranking by confidence or size; the
// midpoint uses integer division to match the detector's pixel grid.
// Returns false when no ball-class box is present.
func BallCentroid(dets []Detection) (Point2D, bool) {
	for _, d := range dets {
		if d.ClassID != SportsBallClassID {
			continue
		}
		return Point2D{
			X: float64((d.Box.Min.X + d.Box.Max.X) / 2),
			Y: float64((d.Box.Min.Y + d.Box.Max.Y) / 2),
		}, true
	}
	return Point2D{}, false
}

// PrimarySkeleton returns the first detected skeleton. A second person in
// frame is ignored. Returns false when no skeleton was detected.
func PrimarySkeleton(skels []Skeleton) (*Skeleton, bool) {
	if len(skels) == 0 {
		return nil, false
	}
	return &skels[0], true
}

// Config holds configuration options for the detector sidecar.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// ScriptPath overrides the location of the inference sidecar script.
	// When empty the detector searches the usual locations.
	ScriptPath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.25,
	}
}
