package mdadapter

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Frontmatter is the metadata block at the top of a notice file.
type Frontmatter struct {
	Title string `yaml:"title"`
}

// Notice is a rendered markdown document.
type Notice struct {
	Frontmatter Frontmatter
	HTML        string
}

type mdAdapter struct {
	md goldmark.Markdown
}

func NewMDAdapter() *mdAdapter {
	return &mdAdapter{
		md: goldmark.New(
			goldmark.WithExtensions(
				&frontmatter.Extender{},
				NewProviderExtension(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
			),
		),
	}
}

func (a *mdAdapter) Render(src []byte) (*Notice, error) {
	pc := parser.NewContext()

	var buf bytes.Buffer
	if err := a.md.Convert(src, &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("cannot convert markdown: %w", err)
	}

	notice := &Notice{HTML: buf.String()}

	if fm := frontmatter.Get(pc); fm != nil {
		if err := fm.Decode(&notice.Frontmatter); err != nil {
			return nil, fmt.Errorf("cannot decode frontmatter: %w", err)
		}
	}

	return notice, nil
}
