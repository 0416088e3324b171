package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"score-tracker/internal/model"
	"score-tracker/internal/repository"
)

// SnapshotSource yields a fresh copy of the tracked data on every call.
type SnapshotSource interface {
	Load(ctx context.Context) (*model.Store, error)
}

// ArchiveService mirrors the live data file into the SQLite archive.
type ArchiveService struct {
	source  SnapshotSource
	archive *repository.SnapshotRepository
	log     *slog.Logger
}

func NewArchiveService(source SnapshotSource, archive *repository.SnapshotRepository, log *slog.Logger) *ArchiveService {
	if log == nil {
		log = slog.Default()
	}
	return &ArchiveService{source: source, archive: archive, log: log}
}

// Sync replaces the archive contents with the current snapshot and returns
// the resulting row counts.
func (s *ArchiveService) Sync(ctx context.Context) (repository.Counts, error) {
	start := time.Now()

	store, err := s.source.Load(ctx)
	if err != nil {
		return repository.Counts{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.archive.Save(ctx, store); err != nil {
		return repository.Counts{}, fmt.Errorf("archive snapshot: %w", err)
	}
	counts, err := s.archive.Counts(ctx)
	if err != nil {
		return repository.Counts{}, fmt.Errorf("count archive: %w", err)
	}

	s.log.Info("archive synced",
		"categories", counts.Categories,
		"items", counts.Items,
		"scores", counts.Scores,
		"took", time.Since(start).Round(time.Millisecond),
	)
	return counts, nil
}

// Job adapts Sync for the scheduler, which has no way to report errors.
func (s *ArchiveService) Job(ctx context.Context) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.Sync(ctx); err != nil {
			s.log.Error("archive sync failed", "error", err)
		}
	}
}
