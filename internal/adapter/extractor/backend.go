package extractor

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
	"github.com/jgivc/mediafetch/internal/util"
)

const (
	extTemplate = ".%(ext)s"
)

type Runner interface {
	Run(ctx context.Context, url string, flags Flags) ([]byte, error)
}

// Storage finds and removes the files a run left in the temp dir.
type Storage interface {
	Dir() string
	Locate(prefix, artifact string) (string, int64, error)
	Cleanup(prefix string)
}

type BackendConfig struct {
	FilePrefix string
	FFmpegPath string
}

// Backend is the yt-dlp implementation of metadata and artifact production.
// Nothing outside this package knows about extractor flags or output names.
type Backend struct {
	cfg      BackendConfig
	runner   Runner
	resolver Resolver
	storage  Storage
	log      *slog.Logger
}

func NewBackend(cfg BackendConfig, runner Runner, resolver Resolver, storage Storage, log *slog.Logger) *Backend {
	return &Backend{
		cfg:      cfg,
		runner:   runner,
		resolver: resolver,
		storage:  storage,
		log:      log.With(slog.String("item", "Backend")),
	}
}

func (b *Backend) FetchMetadata(ctx context.Context, url string) (*entity.VideoInfo, error) {
	providerID := b.resolver.Resolve(url)

	out, err := b.runner.Run(ctx, url, MetadataFlags())
	if err != nil {
		return nil, err
	}

	raw, err := ParseInfo(out)
	if err != nil {
		b.log.Error("Cannot parse metadata", slog.String("url", url), slog.Any("error", err))

		return nil, &common.ExtractionError{Err: err}
	}

	return MapInfo(raw, providerID), nil
}

// NewRun allocates the token and file prefix for one download.
func (b *Backend) NewRun(req *entity.DownloadRequest) *entity.Run {
	token := util.NewRunToken()

	return &entity.Run{
		Token:    token,
		Prefix:   b.cfg.FilePrefix + "-" + token,
		Artifact: req.Artifact,
		Type:     req.Type,
	}
}

// ProduceArtifact runs the extractor for req and returns the file it made.
// On any failure the run's files are removed before returning.
func (b *Backend) ProduceArtifact(ctx context.Context, run *entity.Run, req *entity.DownloadRequest) (*entity.Artifact, error) {
	providerID := b.resolver.Resolve(req.URL)

	flags, err := BuildFlags(Options{
		Type:           req.Type,
		Artifact:       req.Artifact,
		FormatID:       req.FormatID,
		SubtitleMode:   req.SubtitleMode,
		SubtitleLang:   req.SubtitleLang,
		Provider:       providerID,
		OutputTemplate: filepath.Join(b.storage.Dir(), run.Prefix+extTemplate),
		FFmpegPath:     b.cfg.FFmpegPath,
	})
	if err != nil {
		return nil, err
	}

	log := b.log.With(slog.String("run", run.Token), slog.String("provider", providerID))
	log.Info("Start download", slog.String("url", req.URL), slog.String("type", req.Type), slog.String("artifact", req.Artifact))

	if _, err := b.runner.Run(ctx, req.URL, flags); err != nil {
		b.storage.Cleanup(run.Prefix)

		return nil, err
	}

	path, size, err := b.storage.Locate(run.Prefix, run.Artifact)
	if err != nil {
		var missing *common.OutputMissingError
		if errors.As(err, &missing) {
			log.Error("Output not found", slog.String("prefix", run.Prefix))
		}

		b.storage.Cleanup(run.Prefix)

		return nil, err
	}

	return &entity.Artifact{
		Run:      run,
		Path:     path,
		Ext:      strings.TrimPrefix(filepath.Ext(path), "."),
		Size:     size,
		Provider: providerID,
	}, nil
}
