package download

import (
	"context"
	"iter"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
)

// nopRepository is used when no redis is configured. Lookups always miss and
// counters are not kept.
type nopRepository struct{}

func NewNopRepository() *nopRepository {
	return &nopRepository{}
}

func (nopRepository) GetInfo(context.Context, string) (*entity.VideoInfo, error) {
	return nil, common.ErrCacheMiss
}

func (nopRepository) SetInfo(context.Context, string, *entity.VideoInfo) error {
	return nil
}

func (nopRepository) ClearInfo(context.Context) (int64, error) {
	return 0, nil
}

func (nopRepository) IncCounter(context.Context, string, string, string) (int64, error) {
	return 0, nil
}

func (nopRepository) DownloadCounterIterator(context.Context) (iter.Seq2[*entity.DownloadCounter, error], error) {
	return func(func(*entity.DownloadCounter, error) bool) {}, nil
}
