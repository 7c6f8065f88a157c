package entity

const (
	TypeMP4 = "mp4"
	TypeMP3 = "mp3"

	ArtifactVideo    = "video"
	ArtifactSubtitle = "subtitle"

	SubtitleModeNone     = "none"
	SubtitleModeEmbedded = "embedded"
	SubtitleModeExternal = "external"
)

// DownloadRequest holds the user's choices for one /download call.
type DownloadRequest struct {
	URL          string `validate:"required"`
	Type         string `validate:"required,oneof=mp4 mp3"`
	FormatID     string
	SubtitleMode string `validate:"oneof=none embedded external"`
	SubtitleLang string `validate:"required"`
	Artifact     string `validate:"oneof=video subtitle"`
}

// Run is a single download. All its files share Prefix inside the temp dir.
type Run struct {
	Token    string
	Prefix   string
	Artifact string
	Type     string
}

// Artifact is the file produced by a run, ready to be streamed.
type Artifact struct {
	Run      *Run
	Path     string
	Ext      string
	Size     int64
	Provider string
}

// FileName is the name offered to the browser.
func (a *Artifact) FileName() string {
	name := ArtifactVideo
	if a.Run != nil {
		name = a.Run.Artifact + "_" + a.Run.Token
	}

	if a.Ext == "" {
		return name
	}

	return name + "." + a.Ext
}
