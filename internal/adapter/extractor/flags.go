package extractor

import (
	"github.com/jgivc/mediafetch/internal/adapter/provider"
	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
	"github.com/lrstanley/go-ytdlp"
)

const (
	formatBestVideoAudio = "bestvideo+bestaudio/best"
	formatWithBestAudio  = "+bestaudio/best"
	audioQualityBest     = "0"
	subtitleFormat       = "srt/best"
	subtitleConvert      = "srt"
)

// Options is what the caller wants from one download.
type Options struct {
	Type           string
	Artifact       string
	FormatID       string
	SubtitleMode   string
	SubtitleLang   string
	Provider       string
	OutputTemplate string
	FFmpegPath     string
}

type SubtitleOptions struct {
	WriteSubs     bool
	WriteAutoSubs bool
	Langs         string
	Format        string
	Convert       string
	Embed         bool
}

// Flags is the extractor configuration for one invocation. It stays a plain
// comparable value; Command turns it into a yt-dlp command.
type Flags struct {
	NoWarnings          bool
	NoCheckCertificates bool
	RestrictFilenames   bool
	NoMtime             bool
	Output              string
	FFmpegLocation      string

	ExtractAudio bool
	AudioFormat  string
	AudioQuality string

	Format            string
	MergeOutputFormat string
	SkipDownload      bool
	Subtitles         SubtitleOptions

	DumpSingleJSON    bool
	PreferFreeFormats bool
}

// MetadataFlags asks for a single JSON document describing the URL.
func MetadataFlags() Flags {
	return Flags{
		DumpSingleJSON:      true,
		NoWarnings:          true,
		PreferFreeFormats:   true,
		NoCheckCertificates: true,
	}
}

// BuildFlags validates opts and returns the download configuration. It has no
// side effects.
func BuildFlags(opts Options) (Flags, error) {
	if opts.Artifact == "" {
		opts.Artifact = entity.ArtifactVideo
	}
	if opts.SubtitleMode == "" {
		opts.SubtitleMode = entity.SubtitleModeNone
	}

	switch opts.Type {
	case entity.TypeMP4, entity.TypeMP3:
	default:
		return Flags{}, common.ErrInvalidType
	}

	switch opts.Artifact {
	case entity.ArtifactVideo:
	case entity.ArtifactSubtitle:
		if opts.Type == entity.TypeMP3 {
			return Flags{}, common.ErrInvalidArtifact
		}
	default:
		return Flags{}, common.ErrInvalidArtifact
	}

	switch opts.SubtitleMode {
	case entity.SubtitleModeNone, entity.SubtitleModeEmbedded, entity.SubtitleModeExternal:
	default:
		return Flags{}, common.ErrInvalidSubtitleMode
	}

	f := Flags{
		NoWarnings:          true,
		NoCheckCertificates: true,
		RestrictFilenames:   true,
		NoMtime:             true,
		Output:              opts.OutputTemplate,
		FFmpegLocation:      opts.FFmpegPath,
	}

	switch {
	case opts.Type == entity.TypeMP3:
		f.ExtractAudio = true
		f.AudioFormat = entity.TypeMP3
		f.AudioQuality = audioQualityBest
		f.Format = opts.FormatID
	case opts.Artifact == entity.ArtifactSubtitle:
		f.SkipDownload = true
		f.Subtitles = subtitles(opts.SubtitleLang, false)
	default:
		f.MergeOutputFormat = entity.TypeMP4
		f.Format = videoFormat(opts.Provider, opts.FormatID)

		if opts.SubtitleMode == entity.SubtitleModeEmbedded {
			f.Subtitles = subtitles(opts.SubtitleLang, true)
		}
	}

	return f, nil
}

func videoFormat(providerID, formatID string) string {
	switch {
	case formatID != "" && provider.IsSpecialized(providerID):
		// Formats of this provider already carry audio.
		return formatID
	case formatID != "":
		return formatID + formatWithBestAudio
	default:
		return formatBestVideoAudio
	}
}

func subtitles(lang string, embed bool) SubtitleOptions {
	return SubtitleOptions{
		WriteSubs:     true,
		WriteAutoSubs: true,
		Langs:         lang,
		Format:        subtitleFormat,
		Convert:       subtitleConvert,
		Embed:         embed,
	}
}

// Command converts the flags into a yt-dlp command builder. The executable
// and the URL are set by the caller.
func (f Flags) Command() *ytdlp.Command {
	dl := ytdlp.New()

	if f.DumpSingleJSON {
		dl = dl.DumpSingleJSON()
	}
	if f.NoWarnings {
		dl = dl.NoWarnings()
	}
	if f.PreferFreeFormats {
		dl = dl.PreferFreeFormats()
	}
	if f.NoCheckCertificates {
		dl = dl.NoCheckCertificates()
	}
	if f.Output != "" {
		dl = dl.Output(f.Output)
	}
	if f.RestrictFilenames {
		dl = dl.RestrictFilenames()
	}
	if f.NoMtime {
		dl = dl.NoMtime()
	}
	if f.FFmpegLocation != "" {
		dl = dl.FFmpegLocation(f.FFmpegLocation)
	}

	if f.ExtractAudio {
		dl = dl.ExtractAudio()
	}
	if f.AudioFormat != "" {
		dl = dl.AudioFormat(f.AudioFormat)
	}
	if f.AudioQuality != "" {
		dl = dl.AudioQuality(f.AudioQuality)
	}

	if f.Format != "" {
		dl = dl.Format(f.Format)
	}
	if f.MergeOutputFormat != "" {
		dl = dl.MergeOutputFormat(f.MergeOutputFormat)
	}
	if f.SkipDownload {
		dl = dl.SkipDownload()
	}

	s := f.Subtitles
	if s.WriteSubs {
		dl = dl.WriteSubs()
	}
	if s.WriteAutoSubs {
		dl = dl.WriteAutoSubs()
	}
	if s.Langs != "" {
		dl = dl.SubLangs(s.Langs)
	}
	if s.Format != "" {
		dl = dl.SubFormat(s.Format)
	}
	if s.Convert != "" {
		dl = dl.ConvertSubs(s.Convert)
	}
	if s.Embed {
		dl = dl.EmbedSubs()
	}

	return dl
}
