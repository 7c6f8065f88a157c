package mdadapter

import (
	"html"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type providerDirectiveRenderer struct{}

func NewProviderDirectiveRenderer() renderer.NodeRenderer {
	return &providerDirectiveRenderer{}
}

func (r *providerDirectiveRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindProviderDirective, r.renderProviderDirective)
}

func (r *providerDirectiveRenderer) renderProviderDirective(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	directive := n.(*ProviderDirective)

	_, _ = w.WriteString(`<code class="provider">`)
	_, _ = w.WriteString(html.EscapeString(directive.Name))
	_, _ = w.WriteString(`</code>`)

	return ast.WalkContinue, nil
}
