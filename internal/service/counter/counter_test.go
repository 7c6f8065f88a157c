package counter

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"testing"

	"github.com/jgivc/mediafetch/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

type repo struct {
	counters []*entity.DownloadCounter
	err      error
	iterErr  error
}

func (r *repo) DownloadCounterIterator(context.Context) (iter.Seq2[*entity.DownloadCounter, error], error) {
	if r.err != nil {
		return nil, r.err
	}

	return func(yield func(*entity.DownloadCounter, error) bool) {
		for _, dc := range r.counters {
			if !yield(dc, nil) {
				return
			}
		}

		if r.iterErr != nil {
			yield(nil, r.iterErr)
		}
	}, nil
}

func newLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var testCounters = []*entity.DownloadCounter{
	{Provider: "hianime", Artifact: entity.ArtifactVideo, Type: entity.TypeMP4, Counter: 3},
	{Provider: "yt-dlp-generic", Artifact: entity.ArtifactSubtitle, Type: entity.TypeMP4, Counter: 1},
}

func TestGetDownloadCounters(t *testing.T) {
	s := NewCounterServiceWithFS(afero.NewMemMapFs(), &repo{counters: testCounters}, newLog())

	counters, err := s.GetDownloadCounters(context.Background())
	require.NoError(t, err)
	require.Equal(t, testCounters, counters)

	s = NewCounterServiceWithFS(afero.NewMemMapFs(), &repo{}, newLog())

	counters, err = s.GetDownloadCounters(context.Background())
	require.NoError(t, err)
	require.NotNil(t, counters)
	require.Empty(t, counters)
}

func TestGetDownloadCountersErrors(t *testing.T) {
	errRepo := errors.New("redis down")

	for _, r := range []*repo{{err: errRepo}, {counters: testCounters, iterErr: errRepo}} {
		s := NewCounterServiceWithFS(afero.NewMemMapFs(), r, newLog())

		_, err := s.GetDownloadCounters(context.Background())
		require.ErrorIs(t, err, errRepo)
	}
}

func TestDumpCounters(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewCounterServiceWithFS(fs, &repo{counters: testCounters}, newLog())

	require.NoError(t, s.DumpCounters(context.Background(), "/var/stats.yml"))

	data, err := afero.ReadFile(fs, "/var/stats.yml")
	require.NoError(t, err)

	var got []*entity.DownloadCounter
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Equal(t, testCounters, got)
	require.Contains(t, string(data), "provider: hianime")
}
