package mdadapter

import (
	"github.com/yuin/goldmark/ast"
)

var KindProviderDirective = ast.NewNodeKind("ProviderDirective")

// ProviderDirective is an inline {{ provider: name }} reference.
type ProviderDirective struct {
	ast.BaseInline
	Name string
}

func (n *ProviderDirective) Kind() ast.NodeKind {
	return KindProviderDirective
}

func (n *ProviderDirective) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name": n.Name,
	}, nil)
}
