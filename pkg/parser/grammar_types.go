package parser

import "github.com/leapstack-labs/macroscope/pkg/token"

// Grammar rules for paths, types and patterns:
//
//	path         → '::'? segment ('::' segment)*
//	segment      → name_ref generic_args? | 'self' | 'super' | 'crate' | 'Self'
//	generic_args → '::'? '<' (lifetime | type | name '=' type | const_arg),* '>'
//	type         → path_type | '&' lifetime? 'mut'? type | '*' ('const'|'mut') type
//	             | '(' type,* ')' | '[' type (';' expr)? ']' | '!' | '_'
//	             | fn_ptr | 'impl' bounds | 'dyn' bounds
//	pattern      → '|'? pattern_single ('|' pattern_single)*

// pathMode selects how generic arguments are recognized inside a path.
type pathMode int

const (
	pathType  pathMode = iota // Vec<u8>
	pathExpr                  // Vec::<u8>
	pathUse                   // stops before `::*` and `::{`
	pathBound                 // like pathType, plus Fn(A) -> B sugar
)

func (p *Parser) atPathStart() bool {
	switch p.current() {
	case token.IDENT, token.SELF_KW, token.SELF_TYPE_KW, token.SUPER_KW, token.CRATE_KW:
		return true
	case token.COLON:
		return p.at(token.COLONCOLON)
	}
	return false
}

// path parses nested PATH nodes: `a::b::c` is PATH(PATH(PATH(a) :: b) :: c).
func (p *Parser) path(mode pathMode) {
	m := p.start()
	p.pathSegment(mode, true)
	qual := m.complete(p, token.PATH)
	for p.at(token.COLONCOLON) {
		if mode == pathUse && (p.nth(2) == token.STAR || p.nth(2) == token.L_CURLY) {
			return
		}
		m := qual.precede(p)
		p.bump(token.COLONCOLON)
		p.pathSegment(mode, false)
		qual = m.complete(p, token.PATH)
	}
}

func (p *Parser) pathSegment(mode pathMode, first bool) {
	m := p.start()
	if first {
		p.eat(token.COLONCOLON)
	}
	switch p.current() {
	case token.IDENT:
		p.nameRef()
	case token.SELF_KW, token.SELF_TYPE_KW, token.SUPER_KW, token.CRATE_KW:
		p.bumpAny()
	default:
		p.error(expected("identifier"))
	}
	turbofish := p.at(token.COLONCOLON) && p.nth(2) == token.L_ANGLE
	switch mode {
	case pathType, pathBound:
		switch {
		case p.at(token.L_ANGLE) || turbofish:
			p.genericArgs(turbofish)
		case mode == pathBound && p.at(token.L_PAREN):
			p.paramList(paramFnPtr)
			p.retType()
		}
	case pathExpr:
		if turbofish {
			p.genericArgs(true)
		}
	}
	m.complete(p, token.PATH_SEGMENT)
}

func (p *Parser) genericArgs(turbofish bool) {
	m := p.start()
	if turbofish {
		p.bump(token.COLONCOLON)
	}
	p.bump(token.L_ANGLE)
	for !p.at(token.EOF) && !p.at(token.R_ANGLE) {
		before := p.pos
		p.genericArg()
		if p.pos == before {
			break
		}
		if !p.at(token.R_ANGLE) && !p.expect(token.COMMA) {
			break
		}
	}
	p.expect(token.R_ANGLE)
	m.complete(p, token.GENERIC_ARG_LIST)
}

func (p *Parser) genericArg() {
	m := p.start()
	switch {
	case p.at(token.LIFETIME):
		p.bump(token.LIFETIME)
		m.complete(p, token.LIFETIME_ARG)
	case p.at(token.IDENT) && p.nth(1) == token.EQ && !p.atN(1, token.EQEQ) && !p.atN(1, token.FAT_ARROW):
		p.nameRef()
		p.bump(token.EQ)
		p.typ()
		m.complete(p, token.ASSOC_TYPE_ARG)
	case p.at(token.IDENT) && p.nth(1) == token.COLON && !p.atN(1, token.COLONCOLON):
		p.nameRef()
		p.bump(token.COLON)
		p.typeBoundList()
		m.complete(p, token.ASSOC_TYPE_ARG)
	case p.atLiteral() || p.at(token.MINUS) || p.at(token.L_CURLY):
		p.constArgValue()
		m.complete(p, token.CONST_ARG)
	case p.atTypeStart():
		p.typ()
		m.complete(p, token.TYPE_ARG)
	default:
		m.abandon(p)
		p.errRecover(expected("generic argument"), token.R_ANGLE, token.COMMA)
	}
}

// constArgValue parses a const generic value: a literal, a negated literal
// or a block.
func (p *Parser) constArgValue() {
	switch {
	case p.at(token.L_CURLY):
		p.blockExpr()
	case p.at(token.MINUS):
		m := p.start()
		p.bump(token.MINUS)
		if p.literal() == nil {
			p.error(expected("a literal"))
		}
		m.complete(p, token.PREFIX_EXPR)
	default:
		if p.literal() == nil {
			p.error(expected("a literal"))
		}
	}
}

// ---------- Types ----------

func (p *Parser) atTypeStart() bool {
	switch p.current() {
	case token.L_PAREN, token.EXCL, token.STAR, token.L_BRACK, token.AMP, token.UNDERSCORE,
		token.FN_KW, token.UNSAFE_KW, token.EXTERN_KW, token.IMPL_KW, token.DYN_KW, token.FOR_KW:
		return true
	}
	return p.atPathStart()
}

func (p *Parser) typ() {
	p.typeWith(true)
}

// typeNoBounds parses a type that may not be followed by `+ Bound`, as in
// `&dyn A` or the target of a cast.
func (p *Parser) typeNoBounds() {
	p.typeWith(false)
}

func (p *Parser) typeWith(allowBounds bool) {
	switch p.current() {
	case token.L_PAREN:
		p.parenType()
	case token.EXCL:
		m := p.start()
		p.bump(token.EXCL)
		m.complete(p, token.NEVER_TYPE)
	case token.STAR:
		m := p.start()
		p.bump(token.STAR)
		if !p.eat(token.CONST_KW) && !p.eat(token.MUT_KW) {
			p.error(expected("mut or const in raw pointer type"))
		}
		p.typeNoBounds()
		m.complete(p, token.PTR_TYPE)
	case token.L_BRACK:
		m := p.start()
		p.bump(token.L_BRACK)
		p.typ()
		kind := token.SLICE_TYPE
		if p.eat(token.SEMI) {
			p.expr()
			kind = token.ARRAY_TYPE
		}
		p.expect(token.R_BRACK)
		m.complete(p, kind)
	case token.AMP:
		m := p.start()
		p.bump(token.AMP)
		p.eat(token.LIFETIME)
		p.eat(token.MUT_KW)
		p.typeNoBounds()
		m.complete(p, token.REF_TYPE)
	case token.UNDERSCORE:
		m := p.start()
		p.bump(token.UNDERSCORE)
		m.complete(p, token.INFER_TYPE)
	case token.FN_KW, token.UNSAFE_KW, token.EXTERN_KW:
		p.fnPtrType()
	case token.FOR_KW:
		p.forBinder()
		p.typeWith(allowBounds)
	case token.IMPL_KW:
		m := p.start()
		p.bump(token.IMPL_KW)
		p.boundsFor(allowBounds)
		m.complete(p, token.IMPL_TRAIT_TYPE)
	case token.DYN_KW:
		m := p.start()
		p.bump(token.DYN_KW)
		p.boundsFor(allowBounds)
		m.complete(p, token.DYN_TRAIT_TYPE)
	default:
		if !p.atPathStart() {
			p.errRecover(ErrExpectedType, token.R_PAREN, token.R_ANGLE, token.R_BRACK,
				token.COMMA, token.SEMI, token.EQ)
			return
		}
		m := p.start()
		p.path(pathType)
		if p.at(token.EXCL) && !p.at(token.NEQ) {
			p.bump(token.EXCL)
			if p.atAny(token.L_PAREN, token.L_BRACK, token.L_CURLY) {
				p.tokenTree()
			} else {
				p.error(ErrExpectedTree)
			}
			m.complete(p, token.MACRO_CALL)
			return
		}
		m.complete(p, token.PATH_TYPE)
	}
}

// boundsFor parses the bounds of `impl` and `dyn` types. Without bounds
// allowed only a single bound is taken.
func (p *Parser) boundsFor(allowBounds bool) {
	if allowBounds {
		p.typeBoundList()
		return
	}
	m := p.start()
	p.typeBound()
	m.complete(p, token.TYPE_BOUND_LIST)
}

// pathType parses a trait reference inside a bound.
func (p *Parser) pathType() {
	if !p.atPathStart() {
		p.error(expected("path"))
		return
	}
	m := p.start()
	p.path(pathBound)
	m.complete(p, token.PATH_TYPE)
}

func (p *Parser) parenType() {
	m := p.start()
	p.bump(token.L_PAREN)
	elems, sawComma := 0, false
	for !p.at(token.EOF) && !p.at(token.R_PAREN) {
		before := p.pos
		p.typ()
		if p.pos == before {
			break
		}
		elems++
		if !p.at(token.R_PAREN) {
			sawComma = true
			if !p.expect(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.R_PAREN)
	if elems == 1 && !sawComma {
		m.complete(p, token.PAREN_TYPE)
		return
	}
	m.complete(p, token.TUPLE_TYPE)
}

func (p *Parser) fnPtrType() {
	m := p.start()
	p.eat(token.UNSAFE_KW)
	if p.at(token.EXTERN_KW) {
		p.abi()
	}
	p.expect(token.FN_KW)
	if p.at(token.L_PAREN) {
		p.paramList(paramFnPtr)
	} else {
		p.error(expected("parameters"))
	}
	p.retType()
	m.complete(p, token.FN_PTR_TYPE)
}

// ---------- Patterns ----------

// pattern parses a pattern with `|` alternatives.
func (p *Parser) pattern() {
	m := p.start()
	leading := p.at(token.PIPE) && !p.at(token.PIPEPIPE)
	if leading {
		p.bump(token.PIPE)
	}
	p.patternSingle()
	if !p.at(token.PIPE) || p.at(token.PIPEPIPE) || p.at(token.PIPEEQ) {
		if leading {
			m.complete(p, token.OR_PAT)
			return
		}
		m.abandon(p)
		return
	}
	for p.at(token.PIPE) && !p.at(token.PIPEPIPE) {
		p.bump(token.PIPE)
		p.patternSingle()
	}
	m.complete(p, token.OR_PAT)
}

var patternRecovery = []token.Kind{
	token.R_PAREN, token.R_BRACK, token.COMMA, token.EQ, token.PIPE, token.FAT_ARROW,
	token.COLON, token.SEMI, token.IN_KW, token.IF_KW,
}

func (p *Parser) patternSingle() {
	switch {
	case p.at(token.UNDERSCORE):
		m := p.start()
		p.bump(token.UNDERSCORE)
		m.complete(p, token.WILDCARD_PAT)
	case p.at(token.DOTDOT) && !p.at(token.DOTDOTEQ) && !p.at(token.DOTDOTDOT):
		m := p.start()
		p.bump(token.DOTDOT)
		m.complete(p, token.REST_PAT)
	case p.at(token.AMP):
		m := p.start()
		p.bump(token.AMP)
		p.eat(token.MUT_KW)
		p.patternSingle()
		m.complete(p, token.REF_PAT)
	case p.at(token.L_PAREN):
		m := p.start()
		p.patternList(token.L_PAREN, token.R_PAREN)
		m.complete(p, token.TUPLE_PAT)
	case p.at(token.L_BRACK):
		m := p.start()
		p.patternList(token.L_BRACK, token.R_BRACK)
		m.complete(p, token.SLICE_PAT)
	case p.atLiteral() || (p.at(token.MINUS) && literalKinds[p.nth(1)]):
		m := p.start()
		p.literalPatValue()
		p.rangeTail(m.complete(p, token.LITERAL_PAT))
	case p.at(token.REF_KW), p.at(token.MUT_KW), p.at(token.BOX_KW):
		p.identPat()
	case p.at(token.IDENT) && !p.atN(1, token.COLONCOLON) &&
		p.nth(1) != token.L_PAREN && p.nth(1) != token.L_CURLY && p.nth(1) != token.EXCL:
		p.identPat()
	case p.atPathStart():
		p.pathPat()
	default:
		p.errRecover(ErrExpectedPattern, patternRecovery...)
	}
}

func (p *Parser) literalPatValue() {
	if p.at(token.MINUS) {
		m := p.start()
		p.bump(token.MINUS)
		p.literal()
		m.complete(p, token.PREFIX_EXPR)
		return
	}
	p.literal()
}

func (p *Parser) identPat() {
	m := p.start()
	p.eat(token.BOX_KW)
	p.eat(token.REF_KW)
	p.eat(token.MUT_KW)
	p.name()
	if p.eat(token.AT) {
		p.patternSingle()
	}
	m.complete(p, token.IDENT_PAT)
}

func (p *Parser) pathPat() {
	m := p.start()
	p.path(pathExpr)
	switch {
	case p.at(token.L_PAREN):
		p.patternList(token.L_PAREN, token.R_PAREN)
		m.complete(p, token.TUPLE_STRUCT_PAT)
	case p.at(token.L_CURLY):
		p.recordPatFields()
		m.complete(p, token.RECORD_PAT)
	case p.at(token.EXCL) && !p.at(token.NEQ):
		p.bump(token.EXCL)
		if p.atAny(token.L_PAREN, token.L_BRACK, token.L_CURLY) {
			p.tokenTree()
		} else {
			p.error(ErrExpectedTree)
		}
		m.complete(p, token.MACRO_CALL)
	default:
		p.rangeTail(m.complete(p, token.PATH_PAT))
	}
}

// rangeTail wraps a literal or path pattern in RANGE_PAT when a range
// operator follows.
func (p *Parser) rangeTail(start CompletedMarker) {
	var op token.Kind
	switch {
	case p.at(token.DOTDOTEQ):
		op = token.DOTDOTEQ
	case p.at(token.DOTDOTDOT):
		op = token.DOTDOTDOT
	case p.at(token.DOTDOT):
		op = token.DOTDOT
	default:
		return
	}
	m := start.precede(p)
	p.bump(op)
	switch {
	case p.atLiteral() || p.at(token.MINUS):
		lm := p.start()
		p.literalPatValue()
		lm.complete(p, token.LITERAL_PAT)
	case p.atPathStart():
		lm := p.start()
		p.path(pathExpr)
		lm.complete(p, token.PATH_PAT)
	}
	m.complete(p, token.RANGE_PAT)
}

// patternList parses a delimited, comma separated list of patterns into the
// caller's node.
func (p *Parser) patternList(open, closing token.Kind) {
	p.bump(open)
	for !p.at(token.EOF) && !p.at(closing) {
		before := p.pos
		p.pattern()
		if p.pos == before {
			break
		}
		if !p.at(closing) && !p.expect(token.COMMA) {
			break
		}
	}
	p.expect(closing)
}

func (p *Parser) recordPatFields() {
	m := p.start()
	p.bump(token.L_CURLY)
	for !p.at(token.EOF) && !p.at(token.R_CURLY) {
		before := p.pos
		switch {
		case p.at(token.DOTDOT):
			rm := p.start()
			p.bump(token.DOTDOT)
			rm.complete(p, token.REST_PAT)
		case (p.at(token.IDENT) || p.at(token.INT_NUMBER)) && p.nth(1) == token.COLON && !p.atN(1, token.COLONCOLON):
			fm := p.start()
			p.nameRef()
			p.bump(token.COLON)
			p.pattern()
			fm.complete(p, token.RECORD_PAT_FIELD)
		case p.atAny(token.IDENT, token.REF_KW, token.MUT_KW, token.BOX_KW, token.POUND):
			fm := p.start()
			p.attributes()
			p.identPat()
			fm.complete(p, token.RECORD_PAT_FIELD)
		default:
			p.errRecover(expected("identifier"), token.COMMA)
		}
		if p.pos == before {
			break
		}
		if !p.at(token.R_CURLY) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.R_CURLY)
	m.complete(p, token.RECORD_PAT_FIELD_LIST)
}
