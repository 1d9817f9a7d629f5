// Package token defines the syntax kinds shared by the lexer, the parser and
// the syntax tree.
//
// A single Kind enumeration covers lexical tokens, punctuation (single
// characters and the composite operators the parser glues from them),
// keywords, and composite syntax nodes.
package token

import "fmt"

// Kind identifies a token or a syntax node.
type Kind uint16

//nolint:revive // ALL_CAPS names mirror the debug dump output
const (
	EOF Kind = iota
	TOMBSTONE
	ERROR

	// Trivia
	WHITESPACE
	COMMENT

	// Literals and names
	IDENT
	LIFETIME
	INT_NUMBER
	FLOAT_NUMBER
	CHAR
	BYTE
	STRING
	BYTE_STRING
	RAW_STRING
	RAW_BYTE_STRING

	// Single character punctuation
	SEMI       // ;
	COMMA      // ,
	DOT        // .
	L_PAREN    // (
	R_PAREN    // )
	L_CURLY    // {
	R_CURLY    // }
	L_BRACK    // [
	R_BRACK    // ]
	L_ANGLE    // <
	R_ANGLE    // >
	AT         // @
	POUND      // #
	TILDE      // ~
	QUESTION   // ?
	DOLLAR     // $
	AMP        // &
	PIPE       // |
	PLUS       // +
	STAR       // *
	SLASH      // /
	CARET      // ^
	PERCENT    // %
	UNDERSCORE // _
	COLON      // :
	EQ         // =
	EXCL       // !
	MINUS      // -
	QUOTE      // '

	// Composite punctuation, glued by the parser from joint characters
	DOTDOT     // ..
	DOTDOTDOT  // ...
	DOTDOTEQ   // ..=
	COLONCOLON // ::
	THIN_ARROW // ->
	FAT_ARROW  // =>
	EQEQ       // ==
	NEQ        // !=
	LTEQ       // <=
	GTEQ       // >=
	AMPAMP     // &&
	PIPEPIPE   // ||
	PLUSEQ     // +=
	MINUSEQ    // -=
	STAREQ     // *=
	SLASHEQ    // /=
	CARETEQ    // ^=
	PERCENTEQ  // %=
	AMPEQ      // &=
	PIPEEQ     // |=
	SHL        // <<
	SHR        // >>
	SHLEQ      // <<=
	SHREQ      // >>=

	// Keywords
	AS_KW
	ASYNC_KW
	AWAIT_KW
	BOX_KW
	BREAK_KW
	CONST_KW
	CONTINUE_KW
	CRATE_KW
	DYN_KW
	ELSE_KW
	ENUM_KW
	EXTERN_KW
	FALSE_KW
	FN_KW
	FOR_KW
	IF_KW
	IMPL_KW
	IN_KW
	LET_KW
	LOOP_KW
	MATCH_KW
	MOD_KW
	MOVE_KW
	MUT_KW
	PUB_KW
	REF_KW
	RETURN_KW
	SELF_KW
	SELF_TYPE_KW
	STATIC_KW
	STRUCT_KW
	SUPER_KW
	TRAIT_KW
	TRUE_KW
	TYPE_KW
	UNSAFE_KW
	USE_KW
	WHERE_KW
	WHILE_KW

	// Roots
	SOURCE_FILE
	MACRO_STMTS
	MACRO_ITEMS
	FRAGMENT

	// Items
	FN
	STRUCT
	UNION
	ENUM
	TRAIT
	IMPL
	MODULE
	USE
	USE_TREE
	USE_TREE_LIST
	CONST
	STATIC
	TYPE_ALIAS
	EXTERN_CRATE
	EXTERN_BLOCK
	ABI
	RENAME
	MACRO_CALL
	TOKEN_TREE
	ITEM_LIST
	ASSOC_ITEM_LIST
	EXTERN_ITEM_LIST
	VARIANT_LIST
	VARIANT
	RECORD_FIELD_LIST
	RECORD_FIELD
	TUPLE_FIELD_LIST
	TUPLE_FIELD
	ATTR
	META
	VISIBILITY
	NAME
	NAME_REF

	// Generics
	GENERIC_PARAM_LIST
	TYPE_PARAM
	LIFETIME_PARAM
	CONST_PARAM
	GENERIC_ARG_LIST
	TYPE_ARG
	LIFETIME_ARG
	CONST_ARG
	ASSOC_TYPE_ARG
	TYPE_BOUND_LIST
	TYPE_BOUND
	WHERE_CLAUSE
	WHERE_PRED

	// Functions
	PARAM_LIST
	PARAM
	SELF_PARAM
	RET_TYPE

	// Paths
	PATH
	PATH_SEGMENT

	// Types
	PATH_TYPE
	REF_TYPE
	PTR_TYPE
	TUPLE_TYPE
	PAREN_TYPE
	ARRAY_TYPE
	SLICE_TYPE
	NEVER_TYPE
	INFER_TYPE
	FN_PTR_TYPE
	IMPL_TRAIT_TYPE
	DYN_TRAIT_TYPE

	// Statements
	LET_STMT
	EXPR_STMT

	// Expressions
	LITERAL
	PATH_EXPR
	RECORD_EXPR
	RECORD_EXPR_FIELD_LIST
	RECORD_EXPR_FIELD
	PAREN_EXPR
	TUPLE_EXPR
	ARRAY_EXPR
	BLOCK_EXPR
	IF_EXPR
	LET_EXPR
	WHILE_EXPR
	LOOP_EXPR
	FOR_EXPR
	MATCH_EXPR
	MATCH_ARM_LIST
	MATCH_ARM
	MATCH_GUARD
	RETURN_EXPR
	BREAK_EXPR
	CONTINUE_EXPR
	CLOSURE_EXPR
	CALL_EXPR
	METHOD_CALL_EXPR
	FIELD_EXPR
	AWAIT_EXPR
	INDEX_EXPR
	TRY_EXPR
	CAST_EXPR
	REF_EXPR
	PREFIX_EXPR
	RANGE_EXPR
	BIN_EXPR
	ARG_LIST
	LABEL

	// Patterns
	IDENT_PAT
	WILDCARD_PAT
	LITERAL_PAT
	PATH_PAT
	TUPLE_STRUCT_PAT
	RECORD_PAT
	RECORD_PAT_FIELD_LIST
	RECORD_PAT_FIELD
	TUPLE_PAT
	SLICE_PAT
	REF_PAT
	REST_PAT
	RANGE_PAT
	OR_PAT

	kindCount
)

// String returns the debug-dump name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("KIND(%d)", k)
}

// IsTrivia reports whether the kind is whitespace or a comment.
func (k Kind) IsTrivia() bool {
	return k == WHITESPACE || k == COMMENT
}

// IsKeyword reports whether the kind is a reserved keyword.
func (k Kind) IsKeyword() bool {
	return k >= AS_KW && k <= WHILE_KW
}

// IsPunct reports whether the kind is single character punctuation.
func (k Kind) IsPunct() bool {
	return k >= SEMI && k <= QUOTE
}

// IsComposite reports whether the kind is glued multi-character punctuation.
func (k Kind) IsComposite() bool {
	return k >= DOTDOT && k <= SHREQ
}

// IsLiteral reports whether the kind is a literal token.
func (k Kind) IsLiteral() bool {
	return (k >= INT_NUMBER && k <= RAW_BYTE_STRING) || k == TRUE_KW || k == FALSE_KW
}

// IsNode reports whether the kind names a composite syntax node.
func (k Kind) IsNode() bool {
	return k >= SOURCE_FILE && k < kindCount
}

// Token is a single lexical token with its source position.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// keywords maps reserved words to their kinds. Contextual keywords such as
// union, default and macro_rules stay IDENT and are recognized by text.
var keywords = map[string]Kind{
	"as":       AS_KW,
	"async":    ASYNC_KW,
	"await":    AWAIT_KW,
	"box":      BOX_KW,
	"break":    BREAK_KW,
	"const":    CONST_KW,
	"continue": CONTINUE_KW,
	"crate":    CRATE_KW,
	"dyn":      DYN_KW,
	"else":     ELSE_KW,
	"enum":     ENUM_KW,
	"extern":   EXTERN_KW,
	"false":    FALSE_KW,
	"fn":       FN_KW,
	"for":      FOR_KW,
	"if":       IF_KW,
	"impl":     IMPL_KW,
	"in":       IN_KW,
	"let":      LET_KW,
	"loop":     LOOP_KW,
	"match":    MATCH_KW,
	"mod":      MOD_KW,
	"move":     MOVE_KW,
	"mut":      MUT_KW,
	"pub":      PUB_KW,
	"ref":      REF_KW,
	"return":   RETURN_KW,
	"self":     SELF_KW,
	"Self":     SELF_TYPE_KW,
	"static":   STATIC_KW,
	"struct":   STRUCT_KW,
	"super":    SUPER_KW,
	"trait":    TRAIT_KW,
	"true":     TRUE_KW,
	"type":     TYPE_KW,
	"unsafe":   UNSAFE_KW,
	"use":      USE_KW,
	"where":    WHERE_KW,
	"while":    WHILE_KW,
}

// LookupIdent returns the keyword kind for ident, UNDERSCORE for a lone
// underscore, and IDENT otherwise.
func LookupIdent(ident string) Kind {
	if ident == "_" {
		return UNDERSCORE
	}
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// punctKinds maps single punctuation characters to their kinds.
var punctKinds = map[byte]Kind{
	';': SEMI, ',': COMMA, '.': DOT,
	'(': L_PAREN, ')': R_PAREN, '{': L_CURLY, '}': R_CURLY, '[': L_BRACK, ']': R_BRACK,
	'<': L_ANGLE, '>': R_ANGLE, '@': AT, '#': POUND, '~': TILDE, '?': QUESTION,
	'$': DOLLAR, '&': AMP, '|': PIPE, '+': PLUS, '*': STAR, '/': SLASH, '^': CARET,
	'%': PERCENT, ':': COLON, '=': EQ, '!': EXCL, '-': MINUS, '\'': QUOTE,
}

// LookupPunct returns the kind of a single punctuation character.
func LookupPunct(ch byte) (Kind, bool) {
	k, ok := punctKinds[ch]
	return k, ok
}

// compositeParts lists the single characters each composite is glued from.
var compositeParts = map[Kind][]Kind{
	DOTDOT:     {DOT, DOT},
	DOTDOTDOT:  {DOT, DOT, DOT},
	DOTDOTEQ:   {DOT, DOT, EQ},
	COLONCOLON: {COLON, COLON},
	THIN_ARROW: {MINUS, R_ANGLE},
	FAT_ARROW:  {EQ, R_ANGLE},
	EQEQ:       {EQ, EQ},
	NEQ:        {EXCL, EQ},
	LTEQ:       {L_ANGLE, EQ},
	GTEQ:       {R_ANGLE, EQ},
	AMPAMP:     {AMP, AMP},
	PIPEPIPE:   {PIPE, PIPE},
	PLUSEQ:     {PLUS, EQ},
	MINUSEQ:    {MINUS, EQ},
	STAREQ:     {STAR, EQ},
	SLASHEQ:    {SLASH, EQ},
	CARETEQ:    {CARET, EQ},
	PERCENTEQ:  {PERCENT, EQ},
	AMPEQ:      {AMP, EQ},
	PIPEEQ:     {PIPE, EQ},
	SHL:        {L_ANGLE, L_ANGLE},
	SHR:        {R_ANGLE, R_ANGLE},
	SHLEQ:      {L_ANGLE, L_ANGLE, EQ},
	SHREQ:      {R_ANGLE, R_ANGLE, EQ},
}

// CompositeParts returns the single characters a composite kind is made of,
// or nil when k is not a composite.
func CompositeParts(k Kind) []Kind {
	return compositeParts[k]
}

// compositesByLength lists composites longest first so greedy gluing picks
// `>>=` before `>>` before `>`.
var compositesByLength = []Kind{
	DOTDOTDOT, DOTDOTEQ, SHLEQ, SHREQ,
	DOTDOT, COLONCOLON, THIN_ARROW, FAT_ARROW, EQEQ, NEQ, LTEQ, GTEQ, AMPAMP,
	PIPEPIPE, PLUSEQ, MINUSEQ, STAREQ, SLASHEQ, CARETEQ, PERCENTEQ, AMPEQ, PIPEEQ,
	SHL, SHR,
}

// Composites returns composite kinds ordered longest first.
func Composites() []Kind {
	return compositesByLength
}
