package tpladapter

import (
	"bytes"
	"fmt"
	"html/template"

	_ "embed"

	"github.com/jgivc/mediafetch/internal/entity"
)

//go:embed index.html
var defaultTemplate string

// PageContext is what the index template renders.
type PageContext struct {
	Title         string
	Notice        template.HTML
	Types         []string
	Artifacts     []string
	SubtitleModes []string
}

type tplAdapter struct {
	tpl *template.Template
}

func NewTplAdapter() (*tplAdapter, error) {
	tpl, err := template.New("index").Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("cannot parse template: %w", err)
	}

	return &tplAdapter{tpl: tpl}, nil
}

// Parse renders the index page. noticeHTML must already be safe markup.
func (a *tplAdapter) Parse(title, noticeHTML string) (string, error) {
	pc := &PageContext{
		Title:         title,
		Notice:        template.HTML(noticeHTML),
		Types:         []string{entity.TypeMP4, entity.TypeMP3},
		Artifacts:     []string{entity.ArtifactVideo, entity.ArtifactSubtitle},
		SubtitleModes: []string{entity.SubtitleModeNone, entity.SubtitleModeEmbedded, entity.SubtitleModeExternal},
	}

	buf := bytes.Buffer{}
	if err := a.tpl.Execute(&buf, pc); err != nil {
		return "", fmt.Errorf("cannot execute template: %w", err)
	}

	return buf.String(), nil
}
