package entity

import "encoding/json"

const (
	SubtitleSourceManual = "manual"
	SubtitleSourceAuto   = "auto"
)

// VideoFormat is one stream variant reported by the extractor.
type VideoFormat struct {
	ID            string   `json:"itag"` // Opaque, sent back verbatim as the format selector
	URL           string   `json:"url"`
	MimeType      string   `json:"mimeType,omitempty"`
	QualityLabel  string   `json:"qualityLabel,omitempty"`
	Bitrate       *float64 `json:"bitrate,omitempty"`
	Width         *int     `json:"width,omitempty"`
	Height        *int     `json:"height,omitempty"`
	Container     string   `json:"container,omitempty"`
	HasVideo      bool     `json:"hasVideo"`
	HasAudio      bool     `json:"hasAudio"`
	ContentLength *string  `json:"contentLength,omitempty"`
	Language      string   `json:"language,omitempty"`
}

// SubtitleTrack is a caption language available for a video.
type SubtitleTrack struct {
	Lang   string `json:"lang"`
	Label  string `json:"label"`
	Source string `json:"source"`
	Ext    string `json:"ext,omitempty"`
}

// VideoInfo is the metadata of one URL.
type VideoInfo struct {
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail"`
	Duration  json.RawMessage `json:"duration"` // Number or numeric string, as the extractor reported it
	Formats   []VideoFormat   `json:"formats"`
	URL       string          `json:"url"`
	Provider  string          `json:"provider"`
	Subtitles []SubtitleTrack `json:"subtitles"`
}
