package limiter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jgivc/mediafetch/internal/common"
)

// limiter bounds the number of extractor processes running at once.
type limiter struct {
	slots chan struct{}
	log   *slog.Logger
}

func NewLimiter(size int, log *slog.Logger) *limiter {
	return &limiter{
		slots: make(chan struct{}, max(size, 1)),
		log:   log.With(slog.String("item", "Limiter")),
	}
}

// Acquire waits for a free slot. If ctx ends first ErrBusy is returned. The
// returned func gives the slot back and is safe to call more than once.
func (l *limiter) Acquire(ctx context.Context) (func(), error) {
	select {
	case l.slots <- struct{}{}:
	default:
		l.log.Debug("Wait for slot", slog.Int("in_use", len(l.slots)))

		select {
		case l.slots <- struct{}{}:
		case <-ctx.Done():
			return nil, common.ErrBusy
		}
	}

	var once sync.Once

	return func() {
		once.Do(func() { <-l.slots })
	}, nil
}

func (l *limiter) InUse() int {
	return len(l.slots)
}

func (l *limiter) Size() int {
	return cap(l.slots)
}
