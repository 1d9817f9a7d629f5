package resolve

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/macroscope/pkg/mbe"
	"github.com/leapstack-labs/macroscope/pkg/syntax"
	"github.com/leapstack-labs/macroscope/pkg/tt"
)

// DefinitionKeyword is the path of a call that defines a macro.
const DefinitionKeyword = "macro_rules"

// MacroDefinition is a compiled macro_rules! definition.
type MacroDefinition struct {
	// Name is the macro name bound by the definition (e.g., "foo" for
	// "macro_rules! foo { ... }")
	Name string

	// Body is the definition's token tree, delimiters included
	Body *tt.Subtree

	// Rules is the compiled rule set used for expansion
	Rules *mbe.Rules
}

// String renders the definition as its name followed by its body.
func (d *MacroDefinition) String() string {
	return d.Name + " " + d.Body.String()
}

// DefinitionTable maps macro names to their most recent definition.
type DefinitionTable struct {
	defs     map[string]*MacroDefinition
	inserted int
}

// NewDefinitionTable creates an empty definition table.
func NewDefinitionTable() *DefinitionTable {
	return &DefinitionTable{defs: make(map[string]*MacroDefinition)}
}

// Insert registers def under its name, replacing any earlier definition.
// It reports whether a definition was replaced.
func (t *DefinitionTable) Insert(def *MacroDefinition) bool {
	_, replaced := t.defs[def.Name]
	t.defs[def.Name] = def
	t.inserted++
	return replaced
}

// Get returns the definition registered under name.
func (t *DefinitionTable) Get(name string) (*MacroDefinition, bool) {
	def, ok := t.defs[name]
	return def, ok
}

// Has checks if a macro with the given name is defined.
func (t *DefinitionTable) Has(name string) bool {
	_, ok := t.defs[name]
	return ok
}

// Len returns the number of distinct names.
func (t *DefinitionTable) Len() int {
	return len(t.defs)
}

// Inserted returns how many definitions were inserted, shadowed ones included.
func (t *DefinitionTable) Inserted() int {
	return t.inserted
}

// Names returns the defined names in sorted order.
func (t *DefinitionTable) Names() []string {
	names := make([]string, 0, len(t.defs))
	for name := range t.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the registered definitions sorted by name.
func (t *DefinitionTable) Definitions() []*MacroDefinition {
	names := t.Names()
	defs := make([]*MacroDefinition, len(names))
	for i, name := range names {
		defs[i] = t.defs[name]
	}
	return defs
}

// Strings renders every definition with MacroDefinition.String.
func (t *DefinitionTable) Strings() []string {
	defs := t.Definitions()
	out := make([]string, len(defs))
	for i, def := range defs {
		out[i] = def.String()
	}
	return out
}

// isDefinition reports whether the call's path is exactly the definition
// keyword. Qualified paths such as a::macro_rules! are invocations.
func isDefinition(call syntax.MacroCall) bool {
	path, ok := call.Path()
	if !ok {
		return false
	}
	if _, qualified := path.Qualifier(); qualified {
		return false
	}
	seg, ok := path.Segment()
	if !ok {
		return false
	}
	ref, ok := seg.NameRef()
	return ok && ref.Text() == DefinitionKeyword
}

// parseDefinition extracts the name and body of a definition call and
// compiles its rules.
func parseDefinition(call syntax.MacroCall) (*MacroDefinition, error) {
	name, ok := call.Name()
	if !ok {
		return nil, fmt.Errorf("%w: missing macro name", ErrMalformedDefinition)
	}
	tree, ok := call.TokenTree()
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing body", ErrMalformedDefinition, name.Text())
	}
	body, err := mbe.SyntaxToTokenTree(tree.Syntax())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDefinition, name.Text(), err)
	}
	rules, err := mbe.Compile(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDefinition, name.Text(), err)
	}
	return &MacroDefinition{Name: name.Text(), Body: body, Rules: rules}, nil
}
