package app

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jgivc/mediafetch/internal/adapter/extractor"
	"github.com/jgivc/mediafetch/internal/adapter/fsadapter"
	"github.com/jgivc/mediafetch/internal/adapter/mdadapter"
	"github.com/jgivc/mediafetch/internal/adapter/provider"
	"github.com/jgivc/mediafetch/internal/adapter/tpladapter"
	"github.com/jgivc/mediafetch/internal/config"
	"github.com/jgivc/mediafetch/internal/entity"
	httphandler "github.com/jgivc/mediafetch/internal/handler/http"
	"github.com/jgivc/mediafetch/internal/repository/download"
	"github.com/jgivc/mediafetch/internal/service/counter"
	srvdownload "github.com/jgivc/mediafetch/internal/service/download"
	"github.com/jgivc/mediafetch/internal/service/info"
	"github.com/jgivc/mediafetch/internal/service/page"
	ssweep "github.com/jgivc/mediafetch/internal/service/sweep"
	"github.com/jgivc/mediafetch/internal/storage/limiter"
	"github.com/jgivc/mediafetch/internal/storage/sweep"
	"github.com/redis/go-redis/v9"
)

const (
	sweepTimeout = time.Minute
	dumpTimeout  = 5 * time.Second
	pingTimeout  = 5 * time.Second
)

type repository interface {
	GetInfo(ctx context.Context, url string) (*entity.VideoInfo, error)
	SetInfo(ctx context.Context, url string, info *entity.VideoInfo) error
	ClearInfo(ctx context.Context) (int64, error)
	IncCounter(ctx context.Context, providerID, artifact, typ string) (int64, error)
	DownloadCounterIterator(ctx context.Context) (iter.Seq2[*entity.DownloadCounter, error], error)
}

type counterService interface {
	GetDownloadCounters(ctx context.Context) ([]*entity.DownloadCounter, error)
	DumpCounters(ctx context.Context, fileName string) error
}

type App struct {
	cfgPath  string
	cfg      *config.Config
	rdb      *redis.Client
	srv      *http.Server
	mux      *http.ServeMux
	sweeper  *ssweep.SweepService
	counters counterService
	stop     chan struct{}
	log      *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
	}
}

// NewWithConfig wires the application without loading a config file or
// touching the network.
func NewWithConfig(cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	if err := a.build(); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *App) Start() {
	a.cfg = config.MustLoad(a.cfgPath)
	a.log = newLogger(a.cfg.LogLevel)

	if err := a.build(); err != nil {
		panic(err)
	}

	a.srv = &http.Server{
		Addr:    a.cfg.Listen,
		Handler: a.mux,
	}

	a.stop = make(chan struct{})
	go a.sweepLoop()

	go func() {
		a.log.Info("Start listen", slog.String("addr", a.cfg.Listen))

		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Could not serve", slog.String("listen_addr", a.cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()
}

func (a *App) build() error {
	cfg := a.cfg
	log := a.log

	repo, err := a.newRepository()
	if err != nil {
		return err
	}

	resolver := provider.NewDefaultResolver()
	fsa := fsadapter.NewFSAdapter(cfg.TempDir(), log)

	invoker := extractor.NewInvoker(extractor.InvokerConfig{
		Binary:      cfg.Extractor.Binary,
		Interpreter: cfg.Extractor.Interpreter,
		Module:      cfg.Extractor.Module,
		PluginDir:   cfg.PluginDir(),
		Timeout:     cfg.Extractor.Timeout,
	}, resolver, log)

	backend := extractor.NewBackend(extractor.BackendConfig{
		FilePrefix: cfg.Storage.FilePrefix,
		FFmpegPath: cfg.Extractor.FFmpegPath,
	}, invoker, resolver, fsa, log)

	tpl, err := tpladapter.NewTplAdapter()
	if err != nil {
		return err
	}

	lim := limiter.NewLimiter(cfg.Extractor.MaxConcurrent, log)
	store := sweep.NewSweepStorage(cfg.TempDir(), &cfg.Storage, log)

	infoSrv := info.NewInfoService(backend, repo, log)
	dSrv := srvdownload.NewDownloadService(validator.New(), backend, fsa, lim, repo, log)
	pageSrv := page.NewPageService(cfg.UI.NoticeFile, mdadapter.NewMDAdapter(), tpl, log)
	a.counters = counter.NewCounterService(repo, log)
	a.sweeper = ssweep.NewSweepService(store, repo, log)

	limit := httphandler.NewRateLimitMiddleware(cfg.Limits.RPS, cfg.Limits.Burst, log)

	a.mux = http.NewServeMux()
	a.mux.Handle("GET /{$}", httphandler.NewPageHandler(pageSrv, log))
	a.mux.Handle("GET /info", limit(httphandler.NewInfoHandler(infoSrv, log)))
	a.mux.Handle("GET /download", limit(httphandler.NewDownloadHandler(dSrv, log)))
	a.mux.Handle("GET /stats", httphandler.NewCounterHandler(a.counters, log))
	a.mux.Handle("POST /sweep", httphandler.NewSweepHandler(a.sweeper, log))
	a.mux.Handle("GET /healthz", httphandler.NewHealthHandler())

	return nil
}

func (a *App) newRepository() (repository, error) {
	if a.cfg.Redis.URL == "" {
		a.log.Info("Redis is not configured, cache and counters are off")

		return download.NewNopRepository(), nil
	}

	opt, err := redis.ParseURL(a.cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	a.rdb = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if _, err := a.rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return download.NewDownloadRepository(a.rdb, a.cfg.Redis.CacheTTL, a.log), nil
}

// Handler is the HTTP entry point of the application.
func (a *App) Handler() http.Handler {
	return a.mux
}

func (a *App) sweepLoop() {
	a.Sweep()

	if a.cfg.Storage.SweepInterval <= 0 {
		return
	}

	ticker := time.NewTicker(a.cfg.Storage.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			a.Sweep()
		}
	}
}

func (a *App) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	// Errors are logged by the service.
	_, _ = a.sweeper.Sweep(ctx)
}

// Maintain runs a sweep and drops the metadata cache.
func (a *App) Maintain() {
	a.Sweep()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	_ = a.sweeper.ClearCache(ctx)
}

func (a *App) Dump() {
	ctx, cancel := context.WithTimeout(context.Background(), dumpTimeout)
	defer cancel()

	if err := a.counters.DumpCounters(ctx, a.cfg.Storage.DumpFileName); err != nil {
		a.log.Error("Cannot dump counters", slog.Any("error", err))
	}
}

func (a *App) Stop() {
	if a.stop != nil {
		close(a.stop)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			a.log.Error("Cannot shutdown server", slog.Any("error", err))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Error("Cannot close redis client", slog.Any("error", err))
		}
	}
}

func newLogger(level string) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}

	return slog.New(slog.NewTextHandler(os.Stderr, lo))
}
