package video

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back a fixed number of blank frames for testing. Each
// Next call hands out a fresh Mat owned by the caller, matching the
// single-consumption contract of a real file source.
type MockSource struct {
	count   int
	index   int
	mu      sync.Mutex
	open    bool
	openErr error
}

// NewMockSource creates a MockSource that yields count blank frames.
func NewMockSource(count int) *MockSource {
	return &MockSource{count: count}
}

// SetOpenError makes Open fail with err, simulating an unreadable video.
func (s *MockSource) SetOpenError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErr = err
}

// Open marks the source as open and rewinds it.
func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return s.openErr
	}

	s.open = true
	s.index = 0
	return nil
}

// Next returns the next blank frame, or false once count frames were read.
func (s *MockSource) Next() (*gocv.Mat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.index >= s.count {
		return nil, false
	}

	s.index++
	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	return &mat, true
}

// Close marks the source as closed.
func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

// IsOpen returns true if the source is currently open.
func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// FPS reports a fixed 30 fps while open, 0 otherwise.
func (s *MockSource) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return 0
	}
	return 30
}
