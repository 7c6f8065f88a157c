package sweep

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/mediafetch/internal/entity"
)

type SweepStorage interface {
	Sweep(ctx context.Context) (*entity.SweepResult, error)
}

type CacheRepository interface {
	ClearInfo(ctx context.Context) (int64, error)
}

type SweepService struct {
	store SweepStorage
	repo  CacheRepository
	log   *slog.Logger
}

func NewSweepService(store SweepStorage, repo CacheRepository, log *slog.Logger) *SweepService {
	return &SweepService{
		store: store,
		repo:  repo,
		log:   log.With(slog.String("item", "SweepService")),
	}
}

func (s *SweepService) Sweep(ctx context.Context) (*entity.SweepResult, error) {
	res, err := s.store.Sweep(ctx)
	if err != nil {
		s.log.Error("Cannot sweep", slog.Any("error", err))

		return nil, fmt.Errorf("cannot sweep temp dir: %w", err)
	}

	s.log.Info("Temp dir swept", slog.Int("scanned", res.Scanned), slog.Int("removed", res.Removed), slog.Int("failed", res.Failed))

	return res, nil
}

// ClearCache drops the cached metadata so the next /info call asks the
// extractor again.
func (s *SweepService) ClearCache(ctx context.Context) error {
	n, err := s.repo.ClearInfo(ctx)
	if err != nil {
		s.log.Error("Cannot clear info cache", slog.Any("error", err))

		return fmt.Errorf("cannot clear info cache: %w", err)
	}

	s.log.Info("Info cache cleared", slog.Int64("count", n))

	return nil
}
