package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type infoFunc func(ctx context.Context, url string) (*entity.VideoInfo, error)

func (f infoFunc) Info(ctx context.Context, url string) (*entity.VideoInfo, error) {
	return f(ctx, url)
}

type downloadFunc func(ctx context.Context, req *entity.DownloadRequest) (*entity.Artifact, io.ReadCloser, error)

func (f downloadFunc) Download(ctx context.Context, req *entity.DownloadRequest) (*entity.Artifact, io.ReadCloser, error) {
	return f(ctx, req)
}

type sweepFunc func(ctx context.Context) (*entity.SweepResult, error)

func (f sweepFunc) Sweep(ctx context.Context) (*entity.SweepResult, error) {
	return f(ctx)
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true

	return nil
}

func newLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	return resp.Error
}

func TestInfoHandler(t *testing.T) {
	testCases := []struct {
		name           string
		query          string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{name: "Ok", query: "?url=https://example.com/v", expectedStatus: http.StatusOK},
		{name: "Missing url", query: "", expectedStatus: http.StatusBadRequest, expectedError: msgMissingParameters},
		{
			name:           "Unsupported url",
			query:          "?url=https://nowhere.example",
			err:            &common.ExtractionError{Stderr: "ERROR: Unsupported URL: https://nowhere.example"},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "This URL is not supported by the current yt-dlp extractor.",
		},
		{
			name:           "Empty failure",
			query:          "?url=https://example.com/v",
			err:            errors.New(""),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  msgInfoFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := infoFunc(func(_ context.Context, url string) (*entity.VideoInfo, error) {
				if tc.err != nil {
					return nil, tc.err
				}

				return &entity.VideoInfo{Title: "T", URL: url, Duration: json.RawMessage("1")}, nil
			})

			rec := httptest.NewRecorder()
			NewInfoHandler(srv, newLog())(rec, httptest.NewRequest(http.MethodGet, "/info"+tc.query, nil))

			require.Equal(t, tc.expectedStatus, rec.Code)
			require.Equal(t, contentTypeJSON, rec.Header().Get("Content-Type"))

			if tc.expectedError != "" {
				require.Equal(t, tc.expectedError, decodeError(t, rec))
				return
			}

			var info entity.VideoInfo
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
			require.Equal(t, "T", info.Title)
		})
	}
}

func TestDownloadHandler(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader("ID3audio")}

	var got *entity.DownloadRequest
	srv := downloadFunc(func(_ context.Context, req *entity.DownloadRequest) (*entity.Artifact, io.ReadCloser, error) {
		got = req

		return &entity.Artifact{
			Run:  &entity.Run{Token: "abc123", Artifact: entity.ArtifactVideo, Type: entity.TypeMP3},
			Path: "/tmp/ytdl-abc123.mp3",
			Ext:  "mp3",
			Size: 8,
		}, body, nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/download?url=https%3A%2F%2Fexample.com%2Fv&type=mp3&itag=251&subtitleMode=none&subtitleLang=de&artifact=video", nil)
	NewDownloadHandler(srv, newLog())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="video_abc123.mp3"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "8", rec.Header().Get("Content-Length"))
	assert.Equal(t, "ID3audio", rec.Body.String())
	assert.True(t, body.closed)

	require.Equal(t, &entity.DownloadRequest{
		URL:          "https://example.com/v",
		Type:         entity.TypeMP3,
		FormatID:     "251",
		SubtitleMode: entity.SubtitleModeNone,
		SubtitleLang: "de",
		Artifact:     entity.ArtifactVideo,
	}, got)
}

func TestDownloadHandlerErrors(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{name: "Missing", err: common.ErrMissingParameter, expectedStatus: http.StatusBadRequest, expectedError: msgMissingParameters},
		{name: "Bad type", err: common.ErrInvalidType, expectedStatus: http.StatusBadRequest, expectedError: common.ErrInvalidType.Error()},
		{name: "Subtitle with mp3", err: common.ErrInvalidArtifact, expectedStatus: http.StatusBadRequest, expectedError: common.ErrInvalidArtifact.Error()},
		{name: "Bad mode", err: common.ErrInvalidSubtitleMode, expectedStatus: http.StatusBadRequest, expectedError: common.ErrInvalidSubtitleMode.Error()},
		{name: "Busy", err: common.ErrBusy, expectedStatus: http.StatusServiceUnavailable, expectedError: msgBusy},
		{
			name:           "No subtitle",
			err:            &common.OutputMissingError{Artifact: entity.ArtifactSubtitle},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Subtitle is not available in the requested language.",
		},
		{
			name:           "Extractor stderr",
			err:            &common.ExtractionError{Stderr: "ERROR: [youtube] abc: Video unavailable\n"},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "ERROR: [youtube] abc: Video unavailable",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := downloadFunc(func(context.Context, *entity.DownloadRequest) (*entity.Artifact, io.ReadCloser, error) {
				return nil, nil, tc.err
			})

			rec := httptest.NewRecorder()
			NewDownloadHandler(srv, newLog())(rec, httptest.NewRequest(http.MethodGet, "/download?url=u&type=mp4", nil))

			require.Equal(t, tc.expectedStatus, rec.Code)
			require.Equal(t, tc.expectedError, decodeError(t, rec))
		})
	}
}

func TestSweepHandler(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "Ok", expectedStatus: http.StatusOK},
		{name: "Running", err: common.ErrSweepAlreadyStarted, expectedStatus: http.StatusConflict},
		{name: "Failed", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := sweepFunc(func(context.Context) (*entity.SweepResult, error) {
				if tc.err != nil {
					return nil, tc.err
				}

				return &entity.SweepResult{Scanned: 2, Removed: 1}, nil
			})

			rec := httptest.NewRecorder()
			NewSweepHandler(srv, newLog())(rec, httptest.NewRequest(http.MethodPost, "/sweep", nil))
			require.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

func TestContentType(t *testing.T) {
	testCases := map[string]string{
		"mp3":  "audio/mpeg",
		"mp4":  "video/mp4",
		"mkv":  "video/x-matroska",
		"webm": "video/webm",
		"srt":  "application/x-subrip",
		"vtt":  "text/vtt",
		"ass":  "text/plain",
		"ssa":  "text/plain",
		"mov":  "application/octet-stream",
		"":     "application/octet-stream",
	}

	for ext, expected := range testCases {
		require.Equal(t, expected, ContentType(ext), ext)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	h := NewRateLimitMiddleware(0.001, 2, newLog())(next)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/info", nil))
		codes = append(codes, rec.Code)
	}

	require.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	off := NewRateLimitMiddleware(0, 0, newLog())(next)
	for range 10 {
		rec := httptest.NewRecorder()
		off.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/info", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
