package fsadapter

import (
	"log/slog"
	"path/filepath"
)

// Cleanup removes every file of the run. Failures are logged and skipped; the
// request outcome is already decided by the time this runs.
func (a *fsAdapter) Cleanup(prefix string) {
	names, err := a.list(prefix)
	if err != nil {
		a.log.Error("Cannot list temp dir", slog.String("prefix", prefix), slog.Any("error", err))

		return
	}

	for _, name := range names {
		path := filepath.Join(a.dir, name)
		if err := a.fs.Remove(path); err != nil {
			a.log.Error("Cannot delete temp file", slog.String("path", path), slog.Any("error", err))

			continue
		}

		a.log.Debug("Temp file deleted", slog.String("path", path))
	}
}
