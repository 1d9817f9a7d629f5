// Package resolve finds macro_rules! definitions in a source text, expands
// the invocations that refer to them and reports the result as a tree of
// call sites and expansions.
//
// Resolution never fails because of a bad macro: definitions that do not
// compile and invocations that cannot be expanded are left out of the
// result and recorded as diagnostics instead.
package resolve

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/macroscope/pkg/syntax"
)

// Default bounds of one resolution run.
const (
	// DefaultMaxDepth bounds how deep recursive resolution rescans expansions.
	DefaultMaxDepth = 64

	// DefaultMaxExpansions bounds how many invocations one run expands.
	DefaultMaxExpansions = 10000

	// DefaultMaxTokens bounds the total number of tokens produced by all
	// expansions of one run.
	DefaultMaxTokens = 1 << 20
)

// Reasons an invocation or definition is left out of a Result.
var (
	ErrUnresolvedName      = errors.New("unresolved macro name")
	ErrMalformedInvocation = errors.New("malformed macro invocation")
	ErrExpansionFailed     = errors.New("macro expansion failed")
	ErrMalformedDefinition = errors.New("malformed macro definition")
	ErrDepthExceeded       = errors.New("expansion depth limit reached")
	ErrBudgetExceeded      = errors.New("expansion budget exhausted")
)

// ErrInternal reports an unexpected failure inside the syntax layer.
var ErrInternal = errors.New("internal resolver error")

// Options configures a Resolver.
type Options struct {
	// MaxDepth bounds recursive rescanning. Zero selects DefaultMaxDepth
	// and a negative value disables the bound.
	MaxDepth int

	// MaxExpansions and MaxTokens bound the work of one run. Zero selects
	// the default and a negative value disables the bound.
	MaxExpansions int
	MaxTokens     int

	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Options)

// WithMaxDepth sets the recursion bound.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithMaxExpansions sets how many invocations one run may expand.
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		o.MaxExpansions = n
	}
}

// WithMaxTokens sets how many tokens all expansions of one run may produce.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Resolver expands macro invocations. It holds no per-run state and is
// safe for concurrent use.
type Resolver struct {
	maxDepth      int
	maxExpansions int
	maxTokens     int
	logger        *slog.Logger
}

// New creates a resolver.
func New(opts ...Option) *Resolver {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		maxDepth:      orDefault(o.MaxDepth, DefaultMaxDepth),
		maxExpansions: orDefault(o.MaxExpansions, DefaultMaxExpansions),
		maxTokens:     orDefault(o.MaxTokens, DefaultMaxTokens),
		logger:        logger,
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// MaxDepth returns the effective recursion bound; negative means unbounded.
func (r *Resolver) MaxDepth() int {
	return r.maxDepth
}

// Resolve is a convenience for New().Resolve.
func Resolve(text string, recursive bool) (*Result, error) {
	return New().Resolve(text, recursive)
}

// Resolve parses text, expands every invocation of a macro defined in it
// and, when recursive is set, the invocations produced by those
// expansions.
func (r *Resolver) Resolve(text string, recursive bool) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrInternal, p)
		}
	}()

	file := syntax.Parse(text)
	ctx := r.newContext()
	calls := ctx.resolve(file.Syntax(), recursive, 0)

	res = newResult(file.DebugDump(), ctx.Definitions, calls)
	res.Diagnostics = ctx.diagnostics
	r.logger.Debug("resolved source",
		"recursive", recursive,
		"definitions", ctx.Definitions.Len(),
		"calls", len(calls),
		"diagnostics", len(ctx.diagnostics),
		"exhausted", ctx.exhausted)
	return res, nil
}

// DiagnosticKind classifies why something was left out of a Result.
type DiagnosticKind string

const (
	DiagUnresolvedName      DiagnosticKind = "unresolved_name"
	DiagMalformedInvocation DiagnosticKind = "malformed_invocation"
	DiagExpansionFailed     DiagnosticKind = "expansion_failed"
	DiagMalformedDefinition DiagnosticKind = "malformed_definition"
	DiagDepthExceeded       DiagnosticKind = "depth_exceeded"
	DiagBudgetExceeded      DiagnosticKind = "budget_exceeded"
)

// Diagnostic records one dropped invocation or definition.
type Diagnostic struct {
	Kind     DiagnosticKind
	CallSite string
	Reason   error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %v", d.Kind, d.CallSite, d.Reason)
}

func diagnosticKind(err error) DiagnosticKind {
	switch {
	case errors.Is(err, ErrUnresolvedName):
		return DiagUnresolvedName
	case errors.Is(err, ErrMalformedDefinition):
		return DiagMalformedDefinition
	case errors.Is(err, ErrExpansionFailed):
		return DiagExpansionFailed
	case errors.Is(err, ErrDepthExceeded):
		return DiagDepthExceeded
	case errors.Is(err, ErrBudgetExceeded):
		return DiagBudgetExceeded
	}
	return DiagMalformedInvocation
}

// Context is the state of one resolution run. The same context is passed
// down every level of recursion, so definitions found inside an expansion
// are visible to invocations processed after them.
type Context struct {
	Definitions *DefinitionTable

	maxDepth      int
	maxExpansions int
	maxTokens     int
	logger        *slog.Logger
	diagnostics   []Diagnostic

	expanded  int
	tokens    int
	exhausted bool
}

func (r *Resolver) newContext() *Context {
	return &Context{
		Definitions:   NewDefinitionTable(),
		maxDepth:      r.maxDepth,
		maxExpansions: r.maxExpansions,
		maxTokens:     r.maxTokens,
		logger:        r.logger,
	}
}

// admit reports whether another invocation may be expanded. The first
// refusal is recorded against call.
func (c *Context) admit(call syntax.MacroCall) bool {
	if c.exhausted {
		return false
	}
	if c.maxExpansions >= 0 && c.expanded >= c.maxExpansions {
		c.exhaust(call, fmt.Errorf("%w: %d expansions", ErrBudgetExceeded, c.maxExpansions))
		return false
	}
	return true
}

// spend charges exp against the budget. The expansion that crosses the
// token bound is kept, but nothing is expanded after it.
func (c *Context) spend(exp *Expansion) {
	c.expanded++
	c.tokens += exp.Tokens.CountLeaves()
	if c.maxTokens >= 0 && c.tokens > c.maxTokens {
		c.exhaust(exp.Call, fmt.Errorf("%w: %d tokens", ErrBudgetExceeded, c.maxTokens))
	}
}

func (c *Context) exhaust(call syntax.MacroCall, err error) {
	c.exhausted = true
	c.diagnose(call, err)
}

// Diagnostics returns what was dropped so far.
func (c *Context) Diagnostics() []Diagnostic {
	return c.diagnostics
}

func (c *Context) diagnose(call syntax.MacroCall, err error) {
	d := Diagnostic{Kind: diagnosticKind(err), CallSite: call.Syntax().Text(), Reason: err}
	c.diagnostics = append(c.diagnostics, d)
	c.logger.Debug("macro call dropped", "kind", d.Kind, "call_site", d.CallSite, "reason", err)
}

// collect registers every definition below root in preorder and returns
// the remaining calls in the same order. Definitions that fail to compile
// are dropped, not treated as invocations.
func (c *Context) collect(root *syntax.Node) []syntax.MacroCall {
	var calls []syntax.MacroCall
	for _, n := range root.Descendants() {
		call, ok := syntax.CastMacroCall(n)
		if !ok {
			continue
		}
		if !isDefinition(call) {
			calls = append(calls, call)
			continue
		}
		def, err := parseDefinition(call)
		if err != nil {
			c.diagnose(call, err)
			continue
		}
		if c.Definitions.Insert(def) {
			c.logger.Debug("macro redefined", "name", def.Name)
		}
	}
	return calls
}

// resolve runs one pass over root: collect definitions, expand every
// invocation in order, then rescan each structured expansion.
func (c *Context) resolve(root *syntax.Node, recursive bool, depth int) []*Expansion {
	calls := c.collect(root)

	expansions := make([]*Expansion, 0, len(calls))
	for _, call := range calls {
		if !c.admit(call) {
			break
		}
		exp, err := expand(call, c.Definitions)
		if err != nil {
			c.diagnose(call, err)
			continue
		}
		c.spend(exp)
		expansions = append(expansions, exp)
	}

	if !recursive {
		return expansions
	}
	for _, exp := range expansions {
		if c.exhausted {
			break
		}
		if !exp.Outcome.Scannable() {
			continue
		}
		if c.maxDepth >= 0 && depth >= c.maxDepth {
			if containsCall(exp.Outcome.Syntax) {
				c.diagnose(exp.Call, fmt.Errorf("%w: %d", ErrDepthExceeded, c.maxDepth))
			}
			continue
		}
		exp.Children = c.resolve(exp.Outcome.Syntax, recursive, depth+1)
	}
	return expansions
}

func containsCall(root *syntax.Node) bool {
	for _, n := range root.Descendants() {
		if _, ok := syntax.CastMacroCall(n); ok {
			return true
		}
	}
	return false
}
