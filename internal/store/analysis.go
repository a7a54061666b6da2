package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Analysis represents one persisted pipeline run.
type Analysis struct {
	ID             string
	VideoName      string
	JumpScore      int
	RunningScore   int
	PassingScore   int
	OverallScore   float64
	ProcessingTime float64
	CreatedAt      time.Time
}

// AnalysisRepository provides CRUD operations for analyses.
type AnalysisRepository struct {
	db *sql.DB
}

// Analyses returns the analysis repository for this store.
func (s *Store) Analyses() *AnalysisRepository {
	return &AnalysisRepository{db: s.db}
}

// Create inserts a new analysis into the database.
func (r *AnalysisRepository) Create(a *Analysis) error {
	a.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO analyses (id, video_name, jump_score, running_score, passing_score, overall_score, processing_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.VideoName, a.JumpScore, a.RunningScore, a.PassingScore, a.OverallScore, a.ProcessingTime, a.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves an analysis by its ID.
func (r *AnalysisRepository) GetByID(id string) (*Analysis, error) {
	a := &Analysis{}

	err := r.db.QueryRow(
		`SELECT id, video_name, jump_score, running_score, passing_score, overall_score, processing_time, created_at
		 FROM analyses WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.VideoName, &a.JumpScore, &a.RunningScore, &a.PassingScore, &a.OverallScore, &a.ProcessingTime, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return a, nil
}

// List retrieves all analyses, newest first.
func (r *AnalysisRepository) List() ([]*Analysis, error) {
	rows, err := r.db.Query(
		`SELECT id, video_name, jump_score, running_score, passing_score, overall_score, processing_time, created_at
		 FROM analyses ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*Analysis
	for rows.Next() {
		a := &Analysis{}

		err := rows.Scan(&a.ID, &a.VideoName, &a.JumpScore, &a.RunningScore, &a.PassingScore, &a.OverallScore, &a.ProcessingTime, &a.CreatedAt)
		if err != nil {
			return nil, err
		}

		analyses = append(analyses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return analyses, nil
}

// Delete removes an analysis by its ID.
func (r *AnalysisRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
