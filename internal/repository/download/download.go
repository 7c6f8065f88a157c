package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
	"github.com/jgivc/mediafetch/internal/util"
	"github.com/redis/go-redis/v9"
)

const (
	KeyMediaInfo     = "mi" // STRING. mi:{sha1(url)} -> VideoInfo JSON, expires after the cache TTL.
	KeyDownloadStats = "ds" // HASH. {provider}:{artifact}:{type} -> counter. HINCRBY ds {field} 1

	KeySeparator = ":"

	ScanCount = 1000
)

type downloadRepository struct {
	cl  *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewDownloadRepository(cl *redis.Client, ttl time.Duration, log *slog.Logger) *downloadRepository {
	return &downloadRepository{
		cl:  cl,
		ttl: ttl,
		log: log.With(slog.String("item", "DownloadRepository")),
	}
}

func (r *downloadRepository) GetInfo(ctx context.Context, url string) (*entity.VideoInfo, error) {
	data, err := r.cl.Get(ctx, infoKey(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrCacheMiss
		}

		return nil, fmt.Errorf("cannot get info for %s: %w", url, err)
	}

	var info entity.VideoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("cannot decode cached info: %w", err)
	}

	return &info, nil
}

func (r *downloadRepository) SetInfo(ctx context.Context, url string, info *entity.VideoInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("cannot encode info: %w", err)
	}

	if err := r.cl.Set(ctx, infoKey(url), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cannot set info for %s: %w", url, err)
	}

	return nil
}

// ClearInfo drops every cached metadata entry and returns how many were removed.
func (r *downloadRepository) ClearInfo(ctx context.Context) (int64, error) {
	pattern := getKey(KeyMediaInfo, "*")

	var (
		cursor       uint64
		deletedCount int64
	)

	for {
		keys, nextCursor, err := r.cl.Scan(ctx, cursor, pattern, ScanCount).Result()
		if err != nil {
			return deletedCount, fmt.Errorf("error scanning keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := r.cl.Del(ctx, keys...).Result()
			if err != nil {
				return deletedCount, fmt.Errorf("error deleting keys: %w", err)
			}
			deletedCount += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	r.log.Info("Clear info cache", slog.String("pattern", pattern), slog.Int64("key_count", deletedCount))

	return deletedCount, nil
}

func (r *downloadRepository) IncCounter(ctx context.Context, providerID, artifact, typ string) (int64, error) {
	field := CounterField(providerID, artifact, typ)

	counter, err := r.cl.HIncrBy(ctx, KeyDownloadStats, field, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("cannot increment %s counter: %w", field, err)
	}

	return counter, nil
}

func (r *downloadRepository) DownloadCounterIterator(ctx context.Context) (iter.Seq2[*entity.DownloadCounter, error], error) {
	stats, err := r.cl.HGetAll(ctx, KeyDownloadStats).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot get download stats: %w", err)
	}

	fields := make([]string, 0, len(stats))
	for field := range stats {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return func(yield func(*entity.DownloadCounter, error) bool) {
		for _, field := range fields {
			dc, err := parseCounter(field, stats[field])
			if err != nil {
				r.log.Error("Cannot parse counter", slog.String("field", field), slog.Any("error", err))

				continue
			}

			if !yield(dc, nil) {
				return
			}
		}
	}, nil
}

func CounterField(providerID, artifact, typ string) string {
	return getKey(providerID, artifact, typ)
}

func parseCounter(field, value string) (*entity.DownloadCounter, error) {
	parts := strings.Split(field, KeySeparator)
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed field %q", field)
	}

	counter, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot convert counter value: %w", err)
	}

	return &entity.DownloadCounter{
		Provider: parts[0],
		Artifact: parts[1],
		Type:     parts[2],
		Counter:  counter,
	}, nil
}

func infoKey(url string) string {
	return getKey(KeyMediaInfo, util.GetIDFromString(&url))
}

func getKey(keys ...string) string {
	return strings.Join(keys, KeySeparator)
}
