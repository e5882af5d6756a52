package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/ingo-eichhorst/echolysis/internal/hash"
)

// pythonHighlights only needs to tag plain identifiers as @variable; every
// other leaf preserves its source text under the Python-like policy.
const pythonHighlights = `
(comment) @comment
(identifier) @variable
`

var pythonInterestingNodes = map[string]bool{
	"for_statement":       true,
	"if_statement":        true,
	"match_statement":     true,
	"try_statement":       true,
	"while_statement":     true,
	"with_statement":      true,
	"call":                true,
	"function_definition": true,
	"class_definition":    true,
}

var pythonIgnoredNodes = map[string]bool{
	"comment": true,
}

type pythonProfile struct {
	language     *sitter.Language
	query        *sitter.Query
	captureNames []string
}

// NewPython constructs the Python-like language profile.
func NewPython() Profile {
	language := sitter.NewLanguage(tree_sitter_python.Language())
	query, queryErr := sitter.NewQuery(language, pythonHighlights)
	if queryErr != nil {
		panic("lang: invalid python highlight query: " + queryErr.Error())
	}
	return &pythonProfile{
		language:     language,
		query:        query,
		captureNames: query.CaptureNames(),
	}
}

func (p *pythonProfile) ID() string { return "python" }

func (p *pythonProfile) NewParser() *sitter.Parser {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(p.language); err != nil {
		panic("lang: set python language: " + err.Error())
	}
	return parser
}

func (p *pythonProfile) Query() *sitter.Query   { return p.query }
func (p *pythonProfile) CaptureNames() []string { return p.captureNames }

func (p *pythonProfile) KindOf(kind string) NodeTaste {
	if pythonInterestingNodes[kind] {
		return Interesting
	}
	if pythonIgnoredNodes[kind] {
		return Ignored
	}
	return Normal
}

func (p *pythonProfile) LeafHash(kind string, capture string, hasCapture bool, text []byte) uint64 {
	if hasCapture && capture == "variable" {
		return hash.Leaf([]byte(capture))
	}
	return hash.Leaf(text)
}

// ComplexityWeight mirrors the Python-like rule: any kind whose name
// contains "statement", "call", or "function_definition" contributes 1.0.
// This is a substring match, not a set lookup, so it is expressed as a
// function rather than a fixed map.
func (p *pythonProfile) ComplexityWeight(kind string) float64 {
	if strings.Contains(kind, "statement") ||
		strings.Contains(kind, "call") ||
		strings.Contains(kind, "function_definition") {
		return 1.0
	}
	return 0
}

func (p *pythonProfile) ComplexityThreshold() float64 { return 10.0 }
