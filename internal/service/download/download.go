package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
)

const (
	serviceName = "download"

	defaultSubtitleLang = "en"
)

type Backend interface {
	NewRun(req *entity.DownloadRequest) *entity.Run
	ProduceArtifact(ctx context.Context, run *entity.Run, req *entity.DownloadRequest) (*entity.Artifact, error)
}

type FileStore interface {
	Stream(path string, onDone func()) (io.ReadCloser, error)
	Cleanup(prefix string)
}

type Limiter interface {
	Acquire(ctx context.Context) (func(), error)
}

type CounterRepository interface {
	IncCounter(ctx context.Context, providerID, artifact, typ string) (int64, error)
}

type downloadService struct {
	validate *validator.Validate
	backend  Backend
	store    FileStore
	limiter  Limiter
	repo     CounterRepository
	log      *slog.Logger
}

func NewDownloadService(validate *validator.Validate, backend Backend, store FileStore, limiter Limiter, repo CounterRepository, log *slog.Logger) *downloadService {
	return &downloadService{
		validate: validate,
		backend:  backend,
		store:    store,
		limiter:  limiter,
		repo:     repo,
		log:      log.With(slog.String("service", serviceName)),
	}
}

// Download produces the requested artifact and opens it for streaming. The
// run's files are removed when the returned reader hits EOF or is closed, or
// right away if anything fails.
func (d *downloadService) Download(ctx context.Context, req *entity.DownloadRequest) (*entity.Artifact, io.ReadCloser, error) {
	ApplyDefaults(req)

	if err := d.Validate(req); err != nil {
		return nil, nil, err
	}

	release, err := d.limiter.Acquire(ctx)
	if err != nil {
		d.log.Warn("No free extractor slot", slog.String("url", req.URL), slog.Any("error", err))

		return nil, nil, err
	}
	defer release()

	run := d.backend.NewRun(req)
	log := d.log.With(slog.String("run", run.Token))

	art, err := d.backend.ProduceArtifact(ctx, run, req)
	if err != nil {
		log.Error("Cannot produce artifact", slog.String("url", req.URL), slog.Any("error", err))

		return nil, nil, err
	}

	rc, err := d.store.Stream(art.Path, func() {
		d.store.Cleanup(run.Prefix)
		log.Debug("Run cleaned up")
	})
	if err != nil {
		log.Error("Cannot open artifact", slog.String("path", art.Path), slog.Any("error", err))

		return nil, nil, fmt.Errorf("cannot open artifact: %w", err)
	}

	if _, err := d.repo.IncCounter(ctx, art.Provider, run.Artifact, run.Type); err != nil {
		log.Error("Cannot increment download counter", slog.Any("error", err))
	}

	log.Info("Artifact ready", slog.String("path", art.Path), slog.Int64("size", art.Size))

	return art, rc, nil
}

// ApplyDefaults fills the optional request fields.
func ApplyDefaults(req *entity.DownloadRequest) {
	if req.Artifact == "" {
		req.Artifact = entity.ArtifactVideo
	}
	if req.SubtitleMode == "" {
		req.SubtitleMode = entity.SubtitleModeNone
	}
	if req.SubtitleLang == "" {
		req.SubtitleLang = defaultSubtitleLang
	}
}

// Validate maps struct validation failures to the input errors.
func (d *downloadService) Validate(req *entity.DownloadRequest) error {
	if err := d.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return fmt.Errorf("cannot validate request: %w", err)
		}

		fe := verrs[0]
		switch {
		case fe.Tag() == "required":
			return fmt.Errorf("%w: %s", common.ErrMissingParameter, fe.Field())
		case fe.Field() == "Type":
			return common.ErrInvalidType
		case fe.Field() == "Artifact":
			return common.ErrInvalidArtifact
		case fe.Field() == "SubtitleMode":
			return common.ErrInvalidSubtitleMode
		}

		return fmt.Errorf("%w: %s", common.ErrMissingParameter, fe.Field())
	}

	if req.Artifact == entity.ArtifactSubtitle && req.Type != entity.TypeMP4 {
		return common.ErrInvalidArtifact
	}

	return nil
}
