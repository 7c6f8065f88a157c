package fsadapter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jgivc/mediafetch/internal/common"
	"github.com/jgivc/mediafetch/internal/entity"
)

var (
	subtitleExts = map[string]struct{}{
		"srt":  {},
		"vtt":  {},
		"ass":  {},
		"ssa":  {},
		"ttml": {},
	}

	// Tried in order, the first group with a match wins.
	videoExtGroups = [][]string{
		{"mp4"},
		{"mp3"},
		{"mkv", "webm", "mov"},
	}
)

// Locate finds the file a run produced. The extractor picks the extension, so
// the directory is scanned for the run prefix after it exits.
func (a *fsAdapter) Locate(prefix, artifact string) (string, int64, error) {
	names, err := a.list(prefix)
	if err != nil {
		return "", 0, fmt.Errorf("cannot read temp dir: %w", err)
	}

	var name string
	if artifact == entity.ArtifactSubtitle {
		name = pickSubtitle(names)
	} else {
		name = pickVideo(prefix, names)
	}

	if name == "" {
		a.log.Error("File not found in temp dir", slog.String("dir", a.dir), slog.String("prefix", prefix), slog.Int("candidates", len(names)))

		return "", 0, &common.OutputMissingError{Artifact: artifact, Prefix: prefix}
	}

	path := filepath.Join(a.dir, name)

	stat, err := a.fs.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("cannot stat %s: %w", path, err)
	}

	return path, stat.Size(), nil
}

func ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func pickSubtitle(names []string) string {
	for _, name := range names {
		if _, ok := subtitleExts[ext(name)]; ok {
			return name
		}
	}

	return ""
}

// pickVideo prefers the exact <prefix>.<ext> output over intermediate files
// such as <prefix>.f137.mp4 that a merge can leave behind.
func pickVideo(prefix string, names []string) string {
	exact := make(map[string]struct{}, len(names))
	for _, name := range names {
		exact[name] = struct{}{}
	}

	for _, group := range videoExtGroups {
		for _, want := range group {
			if _, ok := exact[prefix+"."+want]; ok {
				return prefix + "." + want
			}
		}
	}

	for _, group := range videoExtGroups {
		for _, name := range names {
			e := ext(name)
			for _, want := range group {
				if e == want {
					return name
				}
			}
		}
	}

	return ""
}
