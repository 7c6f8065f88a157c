package info

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
)

const (
	serviceName = "info"
)

type MetadataBackend interface {
	FetchMetadata(ctx context.Context, url string) (*entity.VideoInfo, error)
}

type InfoRepository interface {
	GetInfo(ctx context.Context, url string) (*entity.VideoInfo, error)
	SetInfo(ctx context.Context, url string, info *entity.VideoInfo) error
}

type infoService struct {
	backend MetadataBackend
	repo    InfoRepository
	log     *slog.Logger
}

func NewInfoService(backend MetadataBackend, repo InfoRepository, log *slog.Logger) *infoService {
	return &infoService{
		backend: backend,
		repo:    repo,
		log:     log.With(slog.String("service", serviceName)),
	}
}

// Info returns the normalised metadata for url, from the cache when possible.
func (s *infoService) Info(ctx context.Context, url string) (*entity.VideoInfo, error) {
	if url == "" {
		return nil, common.ErrMissingParameter
	}

	log := s.log.With(slog.String("url", url))

	info, err := s.repo.GetInfo(ctx, url)
	if err == nil {
		log.Debug("Cache hit")

		return info, nil
	}

	if !errors.Is(err, common.ErrCacheMiss) {
		log.Error("Cannot read info cache", slog.Any("error", err))
	}

	info, err = s.backend.FetchMetadata(ctx, url)
	if err != nil {
		log.Error("Cannot fetch metadata", slog.Any("error", err))

		return nil, err
	}

	if err := s.repo.SetInfo(ctx, url, info); err != nil {
		log.Error("Cannot write info cache", slog.Any("error", err))
	}

	return info, nil
}
