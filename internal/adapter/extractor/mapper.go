package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/jgivc/mediafetch/internal/entity"
)

const (
	defaultTitle = "Untitled"
	codecNone    = "none"
)

var (
	zeroDuration = json.RawMessage("0")
)

// ParseInfo decodes the extractor's JSON document. Numbers are kept as
// json.Number so format ids and sizes are not rounded.
func ParseInfo(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("cannot parse extractor output: %w", err)
	}

	if raw == nil {
		return nil, fmt.Errorf("cannot parse extractor output: empty document")
	}

	return raw, nil
}

// MapInfo converts raw extractor metadata. Missing or mistyped fields fall
// back to defaults, it never fails.
func MapInfo(raw map[string]any, providerID string) *entity.VideoInfo {
	subs := make(map[string]entity.SubtitleTrack)
	collectSubtitles(raw["automatic_captions"], entity.SubtitleSourceAuto, subs)
	collectSubtitles(raw["subtitles"], entity.SubtitleSourceManual, subs)

	subtitles := make([]entity.SubtitleTrack, 0, len(subs))
	for _, track := range subs {
		subtitles = append(subtitles, track)
	}
	sort.Slice(subtitles, func(i, j int) bool {
		return subtitles[i].Lang < subtitles[j].Lang
	})

	title, ok := raw["title"].(string)
	if !ok {
		title = defaultTitle
	}

	thumbnail, _ := raw["thumbnail"].(string)
	pageURL, _ := raw["webpage_url"].(string)

	return &entity.VideoInfo{
		Title:     title,
		Thumbnail: thumbnail,
		Duration:  duration(raw["duration"]),
		Formats:   mapFormats(raw["formats"]),
		URL:       pageURL,
		Provider:  providerID,
		Subtitles: subtitles,
	}
}

func mapFormats(v any) []entity.VideoFormat {
	list, _ := v.([]any)
	formats := make([]entity.VideoFormat, 0, len(list))

	for _, item := range list {
		f, _ := item.(map[string]any)

		label := stringValue(f["format_note"])
		if label == "" {
			label = stringValue(f["resolution"])
		}

		format := entity.VideoFormat{
			ID:           toString(f["format_id"]),
			URL:          stringValue(f["url"]),
			MimeType:     stringValue(f["ext"]),
			QualityLabel: label,
			Bitrate:      floatPtr(f["tbr"]),
			Width:        intPtr(f["width"]),
			Height:       intPtr(f["height"]),
			Container:    stringValue(f["ext"]),
			HasVideo:     stringValue(f["vcodec"]) != codecNone,
			HasAudio:     stringValue(f["acodec"]) != codecNone,
			Language:     stringValue(f["language"]),
		}

		if size, ok := f["filesize"]; ok && size != nil {
			s := toString(size)
			format.ContentLength = &s
		}

		formats = append(formats, format)
	}

	return formats
}

// collectSubtitles merges one caption group into subs. A manual track replaces
// an automatic one of the same language, nothing replaces a manual track.
func collectSubtitles(v any, source string, subs map[string]entity.SubtitleTrack) {
	groups, ok := v.(map[string]any)
	if !ok {
		return
	}

	for lang, value := range groups {
		entries, _ := value.([]any)
		if len(entries) == 0 {
			continue
		}

		current, exists := subs[lang]
		if exists && !(current.Source == entity.SubtitleSourceAuto && source == entity.SubtitleSourceManual) {
			continue
		}

		entry, _ := entries[0].(map[string]any)

		label := stringValue(entry["name"])
		if label == "" {
			label = lang
		}

		subs[lang] = entity.SubtitleTrack{
			Lang:   lang,
			Label:  label,
			Source: source,
			Ext:    stringValue(entry["ext"]),
		}
	}
}

func duration(v any) json.RawMessage {
	switch d := v.(type) {
	case json.Number:
		return json.RawMessage(d.String())
	case float64:
		return json.RawMessage(strconv.FormatFloat(d, 'f', -1, 64))
	case string:
		data, err := json.Marshal(d)
		if err != nil {
			return zeroDuration
		}
		return data
	default:
		return zeroDuration
	}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func floatPtr(v any) *float64 {
	var f float64

	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return nil
		}
		f = n
	case float64:
		f = t
	default:
		return nil
	}

	return &f
}

func intPtr(v any) *int {
	f := floatPtr(v)
	if f == nil {
		return nil
	}

	n := int(*f)

	return &n
}
