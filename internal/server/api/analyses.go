// Package api provides HTTP API handlers for the skill scoring service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/asateer/skillscore/internal/analyze"
	"github.com/asateer/skillscore/internal/detect"
	"github.com/asateer/skillscore/internal/skill"
	"github.com/asateer/skillscore/internal/store"
)

// maxUploadBytes caps the multipart form size for video uploads (256 MB).
const maxUploadBytes = 256 << 20

// AnalyzeFunc runs the evaluation pipeline on the video at path. The
// observer callback, when non-nil, receives every sampled-frame observation.
type AnalyzeFunc func(path string, observer func(skill.Observation)) (*analyze.Result, error)

// ObservationEvent is the wire form of one sampled-frame observation,
// published to the live feed while an analysis runs.
type ObservationEvent struct {
	AnalysisID   string          `json:"analysis_id"`
	Frame        int             `json:"frame"`
	Ball         *detect.Point2D `json:"ball,omitempty"`
	PoseDetected bool            `json:"pose_detected"`
}

// AnalysesHandler handles HTTP requests for analysis resources.
type AnalysesHandler struct {
	store     *store.Store
	analyze   AnalyzeFunc
	uploadDir string

	// OnObservation, when set, receives live events from running analyses.
	OnObservation func(ObservationEvent)
}

// NewAnalysesHandler creates a new AnalysesHandler. When uploadDir is empty
// the OS temp directory is used for spooling uploads.
func NewAnalysesHandler(s *store.Store, analyzeFn AnalyzeFunc, uploadDir string) *AnalysesHandler {
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &AnalysesHandler{
		store:     s,
		analyze:   analyzeFn,
		uploadDir: uploadDir,
	}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// the appropriate methods.
func (h *AnalysesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/analyses or /api/analyses/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/analyses")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type analysisResponse struct {
	ID             string  `json:"id"`
	VideoName      string  `json:"video_name"`
	JumpScore      int     `json:"jump_score"`
	RunningScore   int     `json:"running_score"`
	PassingScore   int     `json:"passing_score"`
	OverallScore   float64 `json:"overall_score"`
	ProcessingTime float64 `json:"processing_time"`
	CreatedAt      string  `json:"created_at"`
}

type listAnalysesResponse struct {
	Analyses []analysisResponse `json:"analyses"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Analysis to an analysisResponse.
func toResponse(a *store.Analysis) analysisResponse {
	return analysisResponse{
		ID:             a.ID,
		VideoName:      a.VideoName,
		JumpScore:      a.JumpScore,
		RunningScore:   a.RunningScore,
		PassingScore:   a.PassingScore,
		OverallScore:   a.OverallScore,
		ProcessingTime: a.ProcessingTime,
		CreatedAt:      a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// create handles POST /api/analyses: it spools the uploaded video, runs the
// pipeline on it, persists the result and returns the new record.
func (h *AnalysesHandler) create(w http.ResponseWriter, r *http.Request) {
	if h.analyze == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'video' form file")
		return
	}
	defer file.Close()

	id := uuid.NewString()

	videoPath := filepath.Join(h.uploadDir, id+filepath.Ext(header.Filename))
	if err := spoolUpload(videoPath, file); err != nil {
		log.Printf("api/analyses: spool upload: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(videoPath)

	var observer func(skill.Observation)
	if h.OnObservation != nil {
		publish := h.OnObservation
		observer = func(obs skill.Observation) {
			publish(ObservationEvent{
				AnalysisID:   id,
				Frame:        obs.FrameIndex,
				Ball:         obs.Ball,
				PoseDetected: obs.Pose != nil,
			})
		}
	}

	result, err := h.analyze(videoPath, observer)
	if err != nil {
		log.Printf("api/analyses: analysis of %q failed: %v", header.Filename, err)
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	analysis := &store.Analysis{
		ID:             id,
		VideoName:      header.Filename,
		JumpScore:      result.JumpScore,
		RunningScore:   result.RunningScore,
		PassingScore:   result.PassingScore,
		OverallScore:   result.OverallScore,
		ProcessingTime: result.ProcessingTime,
	}

	if err := h.store.Analyses().Create(analysis); err != nil {
		log.Printf("api/analyses: persist analysis: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to persist analysis")
		return
	}

	resp := toResponse(analysis)
	writeJSON(w, http.StatusCreated, resp)
}

// list handles GET /api/analyses and returns all stored analyses.
func (h *AnalysesHandler) list(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.store.Analyses().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}

	resp := listAnalysesResponse{Analyses: make([]analysisResponse, 0, len(analyses))}
	for _, a := range analyses {
		resp.Analyses = append(resp.Analyses, toResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// get handles GET /api/analyses/{id}.
func (h *AnalysesHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	analysis, err := h.store.Analyses().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load analysis")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(analysis))
}

// delete handles DELETE /api/analyses/{id}.
func (h *AnalysesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Analyses().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete analysis")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// spoolUpload copies the uploaded file to path.
func spoolUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return err
	}

	return nil
}
