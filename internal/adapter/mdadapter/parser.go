package mdadapter

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	directiveRegexp = regexp.MustCompile(`^{{\s*provider:\s*([\w.-]+)\s*}}`)
)

type providerDirectiveParser struct{}

func NewProviderDirectiveParser() parser.InlineParser {
	return &providerDirectiveParser{}
}

func (s *providerDirectiveParser) Trigger() []byte {
	return []byte{'{'}
}

func (s *providerDirectiveParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	matches := directiveRegexp.FindSubmatch(line)
	if matches == nil {
		return nil
	}

	block.Advance(len(matches[0]))

	return &ProviderDirective{
		Name: string(matches[1]),
	}
}
