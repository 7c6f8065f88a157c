package mdadapter

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// ProviderExtension adds the {{ provider: name }} directive.
type ProviderExtension struct{}

func NewProviderExtension() goldmark.Extender {
	return &ProviderExtension{}
}

func (e *ProviderExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(NewProviderDirectiveParser(), 500),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewProviderDirectiveRenderer(), 500),
		),
	)
}
