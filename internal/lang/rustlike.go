package lang

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/ingo-eichhorst/echolysis/internal/hash"
)

// rustHighlights is a minimal highlight query covering the capture tags the
// Rust-like obfuscation policy consumes: preserved tags (type, constant,
// function, constructor, label) and the one obfuscated tag
// (variable.parameter). It is not the full grammar highlights.scm -- only
// the captures §4.2's leaf-hashing rule actually branches on. The generic
// (identifier) @variable pattern comes first: collectCaptures keeps the last
// capture matched on a node, so the more specific patterns below take
// precedence over it.
const rustHighlights = `
(identifier) @variable

(line_comment) @comment
(block_comment) @comment

(type_identifier) @type
(primitive_type) @type

(const_item name: (identifier) @constant)
(static_item name: (identifier) @constant)

(function_item name: (identifier) @function)
(function_signature_item name: (identifier) @function)
(call_expression function: (identifier) @function)
(call_expression function: (field_expression field: (field_identifier) @function))

(struct_item name: (type_identifier) @constructor)
(enum_item name: (type_identifier) @constructor)

(parameter pattern: (identifier) @variable.parameter)
(closure_parameters (identifier) @variable.parameter)

(label) @label
`

// rustComplexityWeight mirrors the Rust-like cognitive-complexity table:
// a fixed weight per node kind, 0 for anything not listed.
var rustComplexityWeight = map[string]float64{
	"block":                        1.0,
	"if_expression":                1.0,
	"match_expression":             1.0,
	"match_pattern":                1.0,
	"loop_expression":               1.0,
	"for_expression":                1.0,
	"while_expression":              1.0,
	"break_expression":              1.0,
	"continue_expression":           1.0,
	"try_expression":                1.0,
	"try_block":                     1.0,
	"binary_expression":             0.5,
	"unary_expression":              0.5,
	"let_condition":                 0.5,
	"closure_expression":            1.0,
	"async_block":                   1.0,
	"function_item":                 1.0,
	"unsafe_block":                  1.0,
	"await_expression":              0.5,
	"type_cast_expression":          0.5,
	"macro_invocation":              1.0,
	"attribute_item":                0.5,
	"or_pattern":                    0.5,
	"compound_assignment_expression": 0.5,
	"range_expression":              0.5,
	"lifetime":                      0.5,
	"const_block":                   1.0,
	"gen_block":                     1.0,
	"array_expression":              1.0,
	"call_expression":               1.0,
	"index_expression":              1.0,
	"parenthesized_expression":      0.5,
	"reference_expression":          0.5,
	"return_expression":             1.5,
	"yield_expression":              1.5,
	"tuple_expression":              1.0,
	"tuple_pattern":                 1.0,
	"type_arguments":                0.5,
	"struct_pattern":                1.0,
	"field_pattern":                 0.5,
	"remaining_field_pattern":       0.5,
	"tuple_struct_pattern":          1.0,
}

var rustInterestingNodes = map[string]bool{
	"call_expression":     true,
	"const_block":         true,
	"for_expression":      true,
	"if_expression":       true,
	"loop_expression":     true,
	"match_expression":    true,
	"while_expression":    true,
	"function_item":       true,
	"impl_item":           true,
	"trait_item":          true,
	"closure_expression":  true,
}

var rustIgnoredNodes = map[string]bool{
	"block_comment":             true,
	"doc_comment":                true,
	"line_comment":               true,
	"inner_doc_comment_marker":   true,
	"outer_doc_comment_marker":   true,
	"empty_statement":            true,
}

// rustNotToObfuscate are capture tags whose exact source text is preserved.
var rustNotToObfuscate = map[string]bool{
	"type":        true,
	"constant":    true,
	"function":    true,
	"constructor": true,
	"label":       true,
}

// rustToObfuscate are capture tags collapsed to their tag name.
var rustToObfuscate = map[string]bool{
	"variable.parameter": true,
}

// rustKindsToObfuscate are node kinds (independent of capture) collapsed to
// their kind name -- catches identifiers the highlight query didn't tag.
var rustKindsToObfuscate = map[string]bool{
	"identifier": true,
}

type rustProfile struct {
	language     *sitter.Language
	query        *sitter.Query
	captureNames []string
}

// NewRust constructs the Rust-like language profile.
func NewRust() Profile {
	language := sitter.NewLanguage(tree_sitter_rust.Language())
	query, queryErr := sitter.NewQuery(language, rustHighlights)
	if queryErr != nil {
		panic("lang: invalid rust highlight query: " + queryErr.Error())
	}
	return &rustProfile{
		language:     language,
		query:        query,
		captureNames: query.CaptureNames(),
	}
}

func (p *rustProfile) ID() string { return "rust" }

func (p *rustProfile) NewParser() *sitter.Parser {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(p.language); err != nil {
		panic("lang: set rust language: " + err.Error())
	}
	return parser
}

func (p *rustProfile) Query() *sitter.Query        { return p.query }
func (p *rustProfile) CaptureNames() []string      { return p.captureNames }

func (p *rustProfile) KindOf(kind string) NodeTaste {
	if rustInterestingNodes[kind] {
		return Interesting
	}
	if rustIgnoredNodes[kind] {
		return Ignored
	}
	return Normal
}

func (p *rustProfile) LeafHash(kind string, capture string, hasCapture bool, text []byte) uint64 {
	if hasCapture {
		if rustNotToObfuscate[capture] {
			return hash.Leaf(text)
		}
		if rustToObfuscate[capture] {
			return hash.Leaf([]byte(capture))
		}
	}
	if rustKindsToObfuscate[kind] {
		return hash.Leaf([]byte(kind))
	}
	return hash.Leaf(text)
}

func (p *rustProfile) ComplexityWeight(kind string) float64 {
	return rustComplexityWeight[kind]
}

func (p *rustProfile) ComplexityThreshold() float64 { return 10.0 }
