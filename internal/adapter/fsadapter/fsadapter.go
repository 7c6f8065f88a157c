package fsadapter

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// fsAdapter owns the temp dir the extractor writes run files to.
type fsAdapter struct {
	fs  afero.Fs
	dir string
	log *slog.Logger
}

func NewFSAdapter(dir string, log *slog.Logger) *fsAdapter {
	return NewFSAdapterWithFS(afero.NewOsFs(), dir, log)
}

func NewFSAdapterWithFS(fs afero.Fs, dir string, log *slog.Logger) *fsAdapter {
	return &fsAdapter{
		fs:  fs,
		dir: dir,
		log: log.With(slog.String("item", "FSAdapter")),
	}
}

func (a *fsAdapter) Dir() string {
	return a.dir
}

// list returns the sorted names in the temp dir that start with prefix.
func (a *fsAdapter) list(prefix string) ([]string, error) {
	entries, err := afero.ReadDir(a.fs, a.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}
