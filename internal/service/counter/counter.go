package counter

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/jgivc/mediafetch/internal/entity"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	serviceName = "counter"

	dumpFileMode = 0644
)

type CounterRepository interface {
	DownloadCounterIterator(ctx context.Context) (iter.Seq2[*entity.DownloadCounter, error], error)
}

type counterService struct {
	fs   afero.Fs
	repo CounterRepository
	log  *slog.Logger
}

func NewCounterService(repo CounterRepository, log *slog.Logger) *counterService {
	return NewCounterServiceWithFS(afero.NewOsFs(), repo, log)
}

func NewCounterServiceWithFS(fs afero.Fs, repo CounterRepository, log *slog.Logger) *counterService {
	return &counterService{
		fs:   fs,
		repo: repo,
		log:  log.With(slog.String("service", serviceName)),
	}
}

func (c *counterService) GetDownloadCounters(ctx context.Context) ([]*entity.DownloadCounter, error) {
	it, err := c.repo.DownloadCounterIterator(ctx)
	if err != nil {
		c.log.Error("Cannot get download counters", slog.Any("error", err))

		return nil, fmt.Errorf("cannot get download counters: %w", err)
	}

	counters := make([]*entity.DownloadCounter, 0)
	for dc, err := range it {
		if err != nil {
			c.log.Error("Cannot read download counter", slog.Any("error", err))

			return nil, fmt.Errorf("cannot read download counter: %w", err)
		}

		counters = append(counters, dc)
	}

	return counters, nil
}

// DumpCounters writes all counters to fileName as YAML.
func (c *counterService) DumpCounters(ctx context.Context, fileName string) error {
	counters, err := c.GetDownloadCounters(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(counters)
	if err != nil {
		return fmt.Errorf("cannot marshal counters: %w", err)
	}

	if err := afero.WriteFile(c.fs, fileName, data, dumpFileMode); err != nil {
		c.log.Error("Cannot write dump file", slog.String("file", fileName), slog.Any("error", err))

		return fmt.Errorf("cannot write dump file: %w", err)
	}

	c.log.Info("Counters dumped", slog.String("file", fileName), slog.Int("count", len(counters)))

	return nil
}
