package resolve

import (
	"fmt"

	"github.com/leapstack-labs/macroscope/pkg/mbe"
	"github.com/leapstack-labs/macroscope/pkg/syntax"
	"github.com/leapstack-labs/macroscope/pkg/tt"
)

// Invocation is a macro call that is not a definition.
type Invocation struct {
	// Call is the call site in the tree being scanned
	Call syntax.MacroCall

	// Name is the last segment of the call's path
	Name string

	// Args is the call's argument token tree
	Args *tt.Subtree
}

// Expansion is one successfully expanded invocation and, when resolving
// recursively, the expansions found inside it.
type Expansion struct {
	Call     syntax.MacroCall
	Tokens   *tt.Subtree
	Outcome  Outcome
	Children []*Expansion
}

// CallSiteText returns the literal source text of the invocation.
func (e *Expansion) CallSiteText() string {
	return e.Call.Syntax().Text()
}

// callName reduces the call's path to its final segment.
func callName(call syntax.MacroCall) (string, error) {
	path, ok := call.Path()
	if !ok {
		return "", fmt.Errorf("%w: missing path", ErrMalformedInvocation)
	}
	seg, ok := path.Segment()
	if !ok {
		return "", fmt.Errorf("%w: path has no final segment", ErrMalformedInvocation)
	}
	ref, ok := seg.NameRef()
	if !ok {
		return "", fmt.Errorf("%w: path segment is not a name", ErrMalformedInvocation)
	}
	return ref.Text(), nil
}

// newInvocation converts a call's argument tree for the engine.
func newInvocation(call syntax.MacroCall, name string) (*Invocation, error) {
	tree, ok := call.TokenTree()
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing argument tree", ErrMalformedInvocation, name)
	}
	args, err := mbe.SyntaxToTokenTree(tree.Syntax())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedInvocation, name, err)
	}
	return &Invocation{Call: call, Name: name, Args: args}, nil
}

// expand resolves call against defs and expands it once. Any failure is
// returned as an error wrapping ErrUnresolvedName, ErrMalformedInvocation
// or ErrExpansionFailed.
func expand(call syntax.MacroCall, defs *DefinitionTable) (*Expansion, error) {
	name, err := callName(call)
	if err != nil {
		return nil, err
	}
	def, ok := defs.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedName, name)
	}
	inv, err := newInvocation(call, name)
	if err != nil {
		return nil, err
	}
	out, err := def.Rules.Expand(inv.Args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrExpansionFailed, name, err)
	}
	return &Expansion{
		Call:     call,
		Tokens:   out,
		Outcome:  classify(out),
		Children: []*Expansion{},
	}, nil
}
