package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
)

const (
	msgMissingParameters = "Missing parameters"
	msgInfoFailed        = "Failed to fetch video info."
	msgDownloadFailed    = "Download failed"
	msgBusy              = "Too many downloads in progress, try again later."
	msgSweepStarted      = "Sweep process has already started"
	msgSweepFailed       = "Cannot start sweep process"
	msgStatsFailed       = "Cannot get download counters"
	msgPageFailed        = "Cannot get page"

	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"
)

var (
	contentTypes = map[string]string{
		"mp3":  "audio/mpeg",
		"mp4":  "video/mp4",
		"mkv":  "video/x-matroska",
		"webm": "video/webm",
		"srt":  "application/x-subrip",
		"vtt":  "text/vtt",
		"ass":  "text/plain",
		"ssa":  "text/plain",
	}
)

type InfoService interface {
	Info(ctx context.Context, url string) (*entity.VideoInfo, error)
}

type DownloadService interface {
	Download(ctx context.Context, req *entity.DownloadRequest) (*entity.Artifact, io.ReadCloser, error)
}

type CounterService interface {
	GetDownloadCounters(ctx context.Context) ([]*entity.DownloadCounter, error)
}

type SweepService interface {
	Sweep(ctx context.Context) (*entity.SweepResult, error)
}

type PageService interface {
	GetPage(ctx context.Context) (string, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewInfoHandler(srv InfoService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "InfoHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		url := r.URL.Query().Get("url")
		if url == "" {
			writeError(w, http.StatusBadRequest, msgMissingParameters)

			return
		}

		info, err := srv.Info(r.Context(), url)
		if err != nil {
			log.Error("Cannot get info", slog.String("url", url), slog.Any("error", err))

			writeError(w, statusFor(err), messageFor(err, msgInfoFailed))

			return
		}

		writeJSON(w, http.StatusOK, info, log)
	}
}

func NewDownloadHandler(srv DownloadService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "DownloadHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		req := &entity.DownloadRequest{
			URL:          q.Get("url"),
			Type:         q.Get("type"),
			FormatID:     q.Get("itag"),
			SubtitleMode: q.Get("subtitleMode"),
			SubtitleLang: q.Get("subtitleLang"),
			Artifact:     q.Get("artifact"),
		}

		art, rc, err := srv.Download(r.Context(), req)
		if err != nil {
			writeError(w, statusFor(err), messageFor(err, msgDownloadFailed))

			return
		}
		defer rc.Close()

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.FileName()))
		w.Header().Set("Content-Type", ContentType(art.Ext))
		w.Header().Set("Content-Length", strconv.FormatInt(art.Size, 10))
		w.WriteHeader(http.StatusOK)

		n, err := io.Copy(w, rc)
		if err != nil {
			log.Error("Cannot stream file", slog.String("path", art.Path), slog.Int64("written", n), slog.Any("error", err))

			return
		}

		log.Info("File sent", slog.String("name", art.FileName()), slog.Int64("size", n))
	}
}

func NewCounterHandler(srv CounterService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "CounterHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := srv.GetDownloadCounters(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, msgStatsFailed)

			return
		}

		writeJSON(w, http.StatusOK, counters, log)
	}
}

func NewSweepHandler(srv SweepService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "SweepHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		res, err := srv.Sweep(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, common.ErrSweepAlreadyStarted):
				writeError(w, http.StatusConflict, msgSweepStarted)
			default:
				writeError(w, http.StatusInternalServerError, msgSweepFailed)
			}

			return
		}

		writeJSON(w, http.StatusOK, res, log)
	}
}

func NewPageHandler(srv PageService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "PageHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		content, err := srv.GetPage(r.Context())
		if err != nil {
			http.Error(w, msgPageFailed, http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if _, err := io.WriteString(w, content); err != nil {
			log.Debug("Cannot write page", slog.Any("error", err))
		}
	}
}

func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}
}

// ContentType picks the response type from the artifact's extension.
func ContentType(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}

	return "application/octet-stream"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrMissingParameter),
		errors.Is(err, common.ErrInvalidType),
		errors.Is(err, common.ErrInvalidArtifact),
		errors.Is(err, common.ErrInvalidSubtitleMode):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, common.ErrRateLimited):
		return http.StatusTooManyRequests
	}

	return http.StatusInternalServerError
}

func messageFor(err error, fallback string) string {
	switch {
	case errors.Is(err, common.ErrMissingParameter):
		return msgMissingParameters
	case errors.Is(err, common.ErrBusy):
		return msgBusy
	}

	return common.UserMessage(err, fallback)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Cannot encode response", slog.Any("error", err))
	}
}
