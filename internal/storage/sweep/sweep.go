package sweep

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/config"
	"github.com/jgivc/mediafetch/internal/entity"
	"github.com/spf13/afero"
)

const (
	maxFiles = 10000
)

type result struct {
	path string
	err  error
}

// sweepStorage removes run files that outlived any request that could
// still be streaming them.
type sweepStorage struct {
	running atomic.Bool
	fs      afero.Fs
	dir     string
	cfg     *config.StorageConfig
	now     func() time.Time
	log     *slog.Logger
}

func NewSweepStorage(dir string, cfg *config.StorageConfig, log *slog.Logger) *sweepStorage {
	return NewSweepStorageWithFS(afero.NewOsFs(), dir, cfg, log)
}

func NewSweepStorageWithFS(fs afero.Fs, dir string, cfg *config.StorageConfig, log *slog.Logger) *sweepStorage {
	return &sweepStorage{
		fs:  fs,
		dir: dir,
		cfg: cfg,
		now: time.Now,
		log: log.With(slog.String("item", "SweepStorage")),
	}
}

func (s *sweepStorage) Sweep(ctx context.Context) (*entity.SweepResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, common.ErrSweepAlreadyStarted
	}
	defer s.running.Store(false)

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, err
	}

	res := &entity.SweepResult{}
	deadline := s.now().Add(-s.cfg.MaxAge)
	prefix := s.cfg.FilePrefix + "-"

	// A run is stale only when its newest file is. A finished intermediate
	// stream may look old while the run still writes the rest.
	newest := make(map[string]time.Time)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}

		res.Scanned++
		names = append(names, entry.Name())

		run := runPrefix(entry.Name())
		if t, ok := newest[run]; !ok || entry.ModTime().After(t) {
			newest[run] = entry.ModTime()
		}
	}

	var paths []string
	for _, name := range names {
		if newest[runPrefix(name)].Before(deadline) {
			paths = append(paths, filepath.Join(s.dir, name))
		}

		if len(paths) >= maxFiles {
			break
		}
	}

	if len(paths) == 0 {
		return res, nil
	}

	workers := max(s.cfg.SweepWorkers, 1)

	in := make(chan string, len(paths))
	out := make(chan result, len(paths))

	for _, path := range paths {
		in <- path
	}
	close(in)

	var wg sync.WaitGroup
	wg.Add(workers)
	for n := 0; n < workers; n++ {
		go s.worker(ctx, n, in, out, &wg)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	for r := range out {
		if r.err != nil {
			s.log.Error("Cannot remove stale file", slog.String("path", r.path), slog.Any("error", r.err))
			res.Failed++

			continue
		}

		s.log.Debug("Stale file removed", slog.String("path", r.path))
		res.Removed++
	}

	return res, ctx.Err()
}

func (s *sweepStorage) worker(ctx context.Context, n int, in chan string, out chan result, wg *sync.WaitGroup) {
	defer wg.Done()

	log := s.log.With(slog.Int("worker_id", n))

	for path := range in {
		select {
		case <-ctx.Done():
			log.Info("Interrupted")

			return
		default:
		}

		out <- result{path: path, err: s.fs.Remove(path)}
	}
}

// runPrefix strips everything from the first dot: ytdl-<token>.f137.mp4 -> ytdl-<token>.
func runPrefix(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}

	return name
}
