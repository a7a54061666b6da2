// Package video provides frame sources over video containers using GoCV (OpenCV).
package video

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ErrSourceNotOpen is returned when reading from a source that is not open.
var ErrSourceNotOpen = errors.New("video source is not open")

// Source defines the interface for frame source implementations. A source
// yields the frames of a finite video in order, exactly once; exhaustion is
// signaled by Next returning false, not by an error.
type Source interface {
	// Open acquires the underlying video resource. Failing to open the
	// container is the only fatal error of the frame stream.
	Open() error

	// Next decodes the next frame. The caller owns the returned Mat and
	// must close it. Returns false when the stream is exhausted or the
	// source is not open.
	Next() (*gocv.Mat, bool)

	// Close releases the underlying video resource.
	Close() error

	// IsOpen reports whether the source is currently open.
	IsOpen() bool

	// FPS reports the container frame rate, or 0 when unknown or when the
	// source is not open.
	FPS() float64
}

// fileSource reads frames from a video file using GoCV.
type fileSource struct {
	path    string
	capture *gocv.VideoCapture
	mu      sync.Mutex
	open    bool
}

// NewFileSource creates a Source over the video file at path.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

// Open opens the video container for reading.
func (s *fileSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}

	capture, err := gocv.VideoCaptureFile(s.path)
	if err != nil {
		return fmt.Errorf("open video %q: %w", s.path, err)
	}

	s.capture = capture
	s.open = true

	return nil
}

// Next decodes the next frame from the container.
func (s *fileSource) Next() (*gocv.Mat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.capture == nil {
		return nil, false
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok {
		mat.Close()
		return nil, false
	}

	if mat.Empty() {
		mat.Close()
		return nil, false
	}

	return &mat, true
}

// Close closes the container and releases resources.
func (s *fileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.capture == nil {
		s.open = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.open = false

	return err
}

// IsOpen returns true if the source is currently open.
func (s *fileSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.open
}

// FPS returns the container-reported frame rate.
func (s *fileSource) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.capture == nil {
		return 0
	}
	return s.capture.Get(gocv.VideoCaptureFPS)
}
