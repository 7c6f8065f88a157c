package limiter

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/stretchr/testify/require"
)

func newLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(2, newLog())
	require.Equal(t, 2, l.Size())

	r1, err := l.Acquire(context.Background())
	require.NoError(t, err)

	r2, err := l.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, l.InUse())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx)
	require.ErrorIs(t, err, common.ErrBusy)

	r1()
	r1()
	require.Equal(t, 1, l.InUse())

	r3, err := l.Acquire(context.Background())
	require.NoError(t, err)

	r2()
	r3()
	require.Zero(t, l.InUse())
}

func TestLimiterWaits(t *testing.T) {
	l := NewLimiter(1, newLog())

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	time.AfterFunc(50*time.Millisecond, release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	next, err := l.Acquire(ctx)
	require.NoError(t, err)
	next()
}

func TestLimiterMinimumSize(t *testing.T) {
	require.Equal(t, 1, NewLimiter(0, newLog()).Size())
}
