package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func sampleAnalysis(id string) *Analysis {
	return &Analysis{
		ID:             id,
		VideoName:      "drill.mp4",
		JumpScore:      4,
		RunningScore:   3,
		PassingScore:   2,
		OverallScore:   3,
		ProcessingTime: 12.5,
	}
}

func TestAnalysisRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Analyses()

	a := sampleAnalysis("a-1")
	if err := repo.Create(a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.CreatedAt.IsZero() {
		t.Error("Create() did not set CreatedAt")
	}

	got, err := repo.GetByID("a-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.VideoName != a.VideoName {
		t.Errorf("VideoName = %q, want %q", got.VideoName, a.VideoName)
	}
	if got.JumpScore != 4 || got.RunningScore != 3 || got.PassingScore != 2 {
		t.Errorf("scores = (%d, %d, %d), want (4, 3, 2)", got.JumpScore, got.RunningScore, got.PassingScore)
	}
	if got.OverallScore != 3 {
		t.Errorf("OverallScore = %v, want 3", got.OverallScore)
	}
	if got.ProcessingTime != 12.5 {
		t.Errorf("ProcessingTime = %v, want 12.5", got.ProcessingTime)
	}
}

func TestAnalysisRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Analyses().GetByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestAnalysisRepository_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	repo := s.Analyses()

	for _, id := range []string{"a-1", "a-2", "a-3"} {
		if err := repo.Create(sampleAnalysis(id)); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	analyses, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(analyses) != 3 {
		t.Fatalf("List() returned %d analyses, want 3", len(analyses))
	}

	for i := 1; i < len(analyses); i++ {
		if analyses[i].CreatedAt.After(analyses[i-1].CreatedAt) {
			t.Errorf("List() not ordered newest first at index %d", i)
		}
	}
}

func TestAnalysisRepository_ListEmpty(t *testing.T) {
	s := newTestStore(t)

	analyses, err := s.Analyses().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(analyses) != 0 {
		t.Errorf("List() returned %d analyses, want 0", len(analyses))
	}
}

func TestAnalysisRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Analyses()

	if err := repo.Create(sampleAnalysis("a-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete("a-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID("a-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete("a-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of missing row error = %v, want ErrNotFound", err)
	}
}

func TestMigrations_ScoreBoundsEnforced(t *testing.T) {
	s := newTestStore(t)

	a := sampleAnalysis("a-1")
	a.JumpScore = 9

	if err := s.Analyses().Create(a); err == nil {
		t.Error("Create() with out-of-range score succeeded, want CHECK violation")
	}
}
