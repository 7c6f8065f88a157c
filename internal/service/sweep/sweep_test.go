package sweep

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
	"github.com/stretchr/testify/require"
)

type storeFunc func(ctx context.Context) (*entity.SweepResult, error)

func (f storeFunc) Sweep(ctx context.Context) (*entity.SweepResult, error) {
	return f(ctx)
}

type cacheFunc func(ctx context.Context) (int64, error)

func (f cacheFunc) ClearInfo(ctx context.Context) (int64, error) {
	return f(ctx)
}

func newLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSweep(t *testing.T) {
	want := &entity.SweepResult{Scanned: 3, Removed: 2}
	s := NewSweepService(storeFunc(func(context.Context) (*entity.SweepResult, error) { return want, nil }), nil, newLog())

	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.Same(t, want, res)
}

func TestSweepAlreadyStarted(t *testing.T) {
	s := NewSweepService(storeFunc(func(context.Context) (*entity.SweepResult, error) {
		return nil, common.ErrSweepAlreadyStarted
	}), nil, newLog())

	_, err := s.Sweep(context.Background())
	require.ErrorIs(t, err, common.ErrSweepAlreadyStarted)
}

func TestClearCache(t *testing.T) {
	s := NewSweepService(nil, cacheFunc(func(context.Context) (int64, error) { return 4, nil }), newLog())
	require.NoError(t, s.ClearCache(context.Background()))

	errRedis := errors.New("redis down")
	s = NewSweepService(nil, cacheFunc(func(context.Context) (int64, error) { return 0, errRedis }), newLog())
	require.ErrorIs(t, s.ClearCache(context.Background()), errRedis)
}
