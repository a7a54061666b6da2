package detect

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Request kinds understood by the YOLO sidecar.
const (
	requestObjects = 'o'
	requestPose    = 'p'
)

// YOLODetector runs YOLOv8 inference through a Python sidecar process.
// It implements both ObjectDetector and PoseDetector: each request is a
// JPEG-encoded frame prefixed by a kind byte and a 4-byte big-endian length,
// and each response is a single JSON line.
type YOLODetector struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewYOLODetector creates a new YOLO detector. The Python process is
// started lazily on the first detection call.
func NewYOLODetector(config Config) (*YOLODetector, error) {
	if config.ScriptPath == "" {
		config.ScriptPath = findSidecarScript()
	}
	if config.ScriptPath == "" {
		return nil, fmt.Errorf("yolo_service.py not found")
	}

	return &YOLODetector{config: config}, nil
}

// DetectObjects runs the object-detection model on one frame.
func (d *YOLODetector) DetectObjects(frame *gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	line, err := d.roundTrip(requestObjects, frame)
	if err != nil {
		return nil, err
	}

	var response struct {
		Detections []jsonDetection `json:"detections"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	result := make([]Detection, 0, len(response.Detections))
	for _, jd := range response.Detections {
		if jd.Confidence < d.config.MinConfidence {
			continue
		}
		result = append(result, jd.toDetection())
	}

	return result, nil
}

// DetectPose runs the pose model on one frame. Persons whose keypoint list
// is shorter than the full COCO layout are dropped: a partial skeleton is
// treated as no observation.
func (d *YOLODetector) DetectPose(frame *gocv.Mat) ([]Skeleton, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	line, err := d.roundTrip(requestPose, frame)
	if err != nil {
		return nil, err
	}

	var response struct {
		Skeletons []jsonSkeleton `json:"skeletons"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	result := make([]Skeleton, 0, len(response.Skeletons))
	for _, js := range response.Skeletons {
		if s, ok := js.toSkeleton(); ok {
			result = append(result, s)
		}
	}

	return result, nil
}

// Close shuts down the Python process.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

// roundTrip sends one frame to the sidecar and reads one JSON line back.
// The caller must hold d.mu.
func (d *YOLODetector) roundTrip(kind byte, frame *gocv.Mat) ([]byte, error) {
	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	header := make([]byte, 5)
	header[0] = kind
	binary.BigEndian.PutUint32(header[1:], uint32(len(data)))

	if _, err := d.stdin.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	d.resetIdleTimer()
	return line, nil
}

func (d *YOLODetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, d.config.ScriptPath)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start yolo service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	return nil
}

func (d *YOLODetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *YOLODetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(30*time.Second, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findSidecarScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/yolo_service.py",
		"../scripts/yolo_service.py",
		filepath.Join(execDir, "scripts/yolo_service.py"),
		filepath.Join(os.Getenv("HOME"), ".skillscore/scripts/yolo_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".skillscore/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonDetection represents one bounding box from the Python service.
type jsonDetection struct {
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	ClassID    int     `json:"class_id"`
	Confidence float64 `json:"confidence"`
}

func (jd jsonDetection) toDetection() Detection {
	return Detection{
		Box:        image.Rect(jd.X1, jd.Y1, jd.X2, jd.Y2),
		ClassID:    jd.ClassID,
		Confidence: jd.Confidence,
	}
}

// jsonSkeleton represents one person's keypoints from the Python service.
type jsonSkeleton struct {
	Keypoints []jsonPoint `json:"keypoints"`
	Score     float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (js jsonSkeleton) toSkeleton() (Skeleton, bool) {
	if len(js.Keypoints) < NumKeypoints {
		return Skeleton{}, false
	}

	s := Skeleton{Score: js.Score}
	for i := 0; i < NumKeypoints; i++ {
		s.Keypoints[i] = Point2D{X: js.Keypoints[i].X, Y: js.Keypoints[i].Y}
	}

	return s, true
}
