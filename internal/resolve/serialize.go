package resolve

import (
	"encoding/json"
	"fmt"
)

// Result is the report of one resolution run.
type Result struct {
	// SyntaxNodes is the debug dump of the parsed, unmodified source
	SyntaxNodes string `json:"syntax_nodes" yaml:"syntax_nodes"`

	// MacroRules renders every definition as "name body", sorted by name
	MacroRules []string `json:"macro_rules" yaml:"macro_rules"`

	// Calls are the top-level expansions in source order
	Calls []*Node `json:"calls" yaml:"calls"`

	// Diagnostics explain what was left out. They are not part of the
	// serialized report.
	Diagnostics []Diagnostic `json:"-" yaml:"-"`
}

// Node is one expanded call site.
type Node struct {
	CallSiteText  string  `json:"call_site_text" yaml:"call_site_text"`
	ExpansionText string  `json:"expansion_text" yaml:"expansion_text"`
	Children      []*Node `json:"children" yaml:"children"`
}

func newResult(dump string, defs *DefinitionTable, calls []*Expansion) *Result {
	return &Result{
		SyntaxNodes: dump,
		MacroRules:  defs.Strings(),
		Calls:       serializeExpansions(calls),
	}
}

// serializeExpansions converts expansions to nodes, keeping order. The
// returned slice is never nil so it encodes as an empty array.
func serializeExpansions(exps []*Expansion) []*Node {
	nodes := make([]*Node, 0, len(exps))
	for _, e := range exps {
		nodes = append(nodes, &Node{
			CallSiteText:  e.CallSiteText(),
			ExpansionText: e.Outcome.Text(),
			Children:      serializeExpansions(e.Children),
		})
	}
	return nodes
}

// JSON encodes the report.
func (r *Result) JSON() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return data, nil
}

// CallCount returns the number of nodes in the call tree.
func (r *Result) CallCount() int {
	return countNodes(r.Calls)
}

func countNodes(nodes []*Node) int {
	n := len(nodes)
	for _, c := range nodes {
		n += countNodes(c.Children)
	}
	return n
}

// Walk visits every node in preorder with its depth, top level at 0.
func (r *Result) Walk(visit func(n *Node, depth int)) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			visit(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(r.Calls, 0)
}
