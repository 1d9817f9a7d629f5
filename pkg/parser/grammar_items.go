package parser

import "github.com/leapstack-labs/macroscope/pkg/token"

// Grammar rules for items:
//
//	item        → attr* visibility? item_body
//	fn          → const? async? unsafe? abi? 'fn' name generic_params?
//	              param_list ret_type? where_clause? (block | ';')
//	struct      → 'struct' name generic_params? where_clause?
//	              (';' | record_fields | tuple_fields ';')
//	macro_call  → path '!' name? token_tree
//	use         → 'use' use_tree ';'

// itemsUntil parses items until EOF, or until a closing brace when
// stopAtCurly is set.
func (p *Parser) itemsUntil(stopAtCurly bool) {
	for !p.at(token.EOF) {
		if stopAtCurly && p.at(token.R_CURLY) {
			return
		}
		if p.eat(token.SEMI) {
			continue
		}
		if p.item() {
			continue
		}
		switch {
		case p.at(token.L_CURLY):
			p.errorBlock(ErrExpectedItem)
		case p.at(token.R_CURLY):
			p.errAndBump(ErrUnmatchedClose)
		default:
			p.errAndBump(ErrExpectedItem)
		}
	}
}

// errorBlock wraps a balanced block in an ERROR node.
func (p *Parser) errorBlock(msg string) {
	p.error(msg)
	m := p.start()
	p.tokenTree()
	m.complete(p, token.ERROR)
}

// item parses one item and reports whether anything was consumed.
func (p *Parser) item() bool {
	start := p.pos
	m := p.start()
	p.attributes()
	return p.finishItem(m, start)
}

// finishItem parses visibility and the item body into m, whose attributes
// have already been consumed.
func (p *Parser) finishItem(m Marker, start int) bool {
	p.visibility()
	kind := p.itemBody()
	if kind == token.TOMBSTONE {
		if p.pos == start {
			m.abandon(p)
			return false
		}
		p.error(ErrExpectedItem)
		m.complete(p, token.ERROR)
		return true
	}
	m.complete(p, kind)
	if kind == token.MACRO_CALL {
		p.eat(token.SEMI)
	}
	return true
}

// atItemStart reports whether an item begins at the current token, ignoring
// attributes. Used to tell items from expressions in statement position.
func (p *Parser) atItemStart() bool {
	switch p.current() {
	case token.PUB_KW, token.FN_KW, token.STRUCT_KW, token.ENUM_KW, token.TRAIT_KW,
		token.IMPL_KW, token.MOD_KW, token.USE_KW, token.TYPE_KW, token.STATIC_KW:
		return true
	case token.CONST_KW:
		return p.nth(1) != token.L_CURLY
	case token.ASYNC_KW:
		return p.nth(1) == token.FN_KW || p.nth(1) == token.UNSAFE_KW
	case token.UNSAFE_KW:
		switch p.nth(1) {
		case token.FN_KW, token.IMPL_KW, token.TRAIT_KW, token.EXTERN_KW:
			return true
		}
		return p.nth(1) == token.IDENT && p.nthText(1) == "auto"
	case token.EXTERN_KW:
		return true
	case token.IDENT:
		switch p.nthText(0) {
		case "union":
			return p.nth(1) == token.IDENT
		case "auto":
			return p.nth(1) == token.TRAIT_KW
		case "macro_rules":
			return p.nth(1) == token.EXCL && p.nth(2) == token.IDENT
		}
	}
	return false
}

// itemBody dispatches on the item keyword and returns the node kind, or
// TOMBSTONE when no item starts here.
func (p *Parser) itemBody() token.Kind {
	switch p.current() {
	case token.FN_KW:
		p.fnItem()
		return token.FN
	case token.CONST_KW:
		switch p.nth(1) {
		case token.FN_KW, token.UNSAFE_KW, token.ASYNC_KW, token.EXTERN_KW:
			p.fnItem()
			return token.FN
		case token.L_CURLY:
			return token.TOMBSTONE
		}
		p.constItem()
		return token.CONST
	case token.ASYNC_KW:
		if p.nth(1) == token.FN_KW || p.nth(1) == token.UNSAFE_KW {
			p.fnItem()
			return token.FN
		}
	case token.UNSAFE_KW:
		switch p.nth(1) {
		case token.FN_KW, token.EXTERN_KW:
			p.fnItem()
			return token.FN
		case token.IMPL_KW:
			p.implItem()
			return token.IMPL
		case token.TRAIT_KW, token.IDENT:
			if p.nth(1) == token.TRAIT_KW || (p.nthText(1) == "auto" && p.nth(2) == token.TRAIT_KW) {
				p.traitItem()
				return token.TRAIT
			}
		}
	case token.EXTERN_KW:
		return p.externItem()
	case token.STATIC_KW:
		p.staticItem()
		return token.STATIC
	case token.STRUCT_KW:
		p.bump(token.STRUCT_KW)
		p.structBody(true)
		return token.STRUCT
	case token.ENUM_KW:
		p.enumItem()
		return token.ENUM
	case token.TRAIT_KW:
		p.traitItem()
		return token.TRAIT
	case token.IMPL_KW:
		p.implItem()
		return token.IMPL
	case token.MOD_KW:
		p.modItem()
		return token.MODULE
	case token.USE_KW:
		p.bump(token.USE_KW)
		p.useTree()
		p.expect(token.SEMI)
		return token.USE
	case token.TYPE_KW:
		p.typeAlias()
		return token.TYPE_ALIAS
	case token.IDENT:
		switch {
		case p.atContextual("union") && p.nth(1) == token.IDENT:
			p.bumpAny()
			p.structBody(false)
			return token.UNION
		case p.atContextual("auto") && p.nth(1) == token.TRAIT_KW:
			p.traitItem()
			return token.TRAIT
		}
	}
	if p.atMacroCall() {
		p.macroCallBody()
		return token.MACRO_CALL
	}
	return token.TOMBSTONE
}

// atMacroCall looks past a simple path for a `!` that is not part of `!=`.
func (p *Parser) atMacroCall() bool {
	i := 0
	if p.at(token.COLONCOLON) {
		i += 2
	}
	segments := 0
	for {
		switch p.nth(i) {
		case token.IDENT, token.SELF_KW, token.SUPER_KW, token.CRATE_KW:
			i++
			segments++
		default:
			return false
		}
		if p.atN(i, token.COLONCOLON) {
			i += 2
			continue
		}
		break
	}
	return segments > 0 && p.nth(i) == token.EXCL && !p.atN(i, token.NEQ)
}

// macroCallBody parses `path ! name? token_tree` into the caller's node.
func (p *Parser) macroCallBody() {
	p.path(pathExpr)
	p.bump(token.EXCL)
	if p.at(token.IDENT) {
		p.name()
	}
	if p.atAny(token.L_PAREN, token.L_BRACK, token.L_CURLY) {
		p.tokenTree()
		return
	}
	p.error(ErrExpectedTree)
}

// tokenTree parses a balanced delimited group into a TOKEN_TREE.
func (p *Parser) tokenTree() {
	m := p.start()
	closing := closingDelimiter(p.current())
	p.bumpAny()
	for {
		switch {
		case p.at(token.EOF):
			p.error(ErrUnclosedTree)
			m.complete(p, token.TOKEN_TREE)
			return
		case p.atAny(token.L_PAREN, token.L_BRACK, token.L_CURLY):
			p.tokenTree()
		case p.current() == closing:
			p.bumpAny()
			m.complete(p, token.TOKEN_TREE)
			return
		case p.atAny(token.R_PAREN, token.R_BRACK, token.R_CURLY):
			p.errAndBump(ErrUnmatchedClose)
		default:
			p.bumpAny()
		}
	}
}

func closingDelimiter(open token.Kind) token.Kind {
	switch open {
	case token.L_PAREN:
		return token.R_PAREN
	case token.L_BRACK:
		return token.R_BRACK
	default:
		return token.R_CURLY
	}
}

// ---------- Attributes and Visibility ----------

func (p *Parser) innerAttributes() {
	for p.at(token.POUND) && p.nth(1) == token.EXCL && p.nth(2) == token.L_BRACK {
		p.attr(true)
	}
}

func (p *Parser) attributes() {
	for p.at(token.POUND) && p.nth(1) == token.L_BRACK {
		p.attr(false)
	}
}

func (p *Parser) attr(inner bool) {
	m := p.start()
	p.bump(token.POUND)
	if inner {
		p.bump(token.EXCL)
	}
	p.bump(token.L_BRACK)
	p.meta()
	p.expect(token.R_BRACK)
	m.complete(p, token.ATTR)
}

// meta parses attribute content: `path`, `path = expr` or `path(tokens)`.
func (p *Parser) meta() {
	m := p.start()
	p.eat(token.UNSAFE_KW)
	if !p.atPathStart() {
		p.error(expected("path"))
		m.complete(p, token.META)
		return
	}
	p.path(pathExpr)
	switch {
	case p.at(token.EQ):
		p.bump(token.EQ)
		p.expr()
	case p.atAny(token.L_PAREN, token.L_BRACK, token.L_CURLY):
		p.tokenTree()
	}
	m.complete(p, token.META)
}

func (p *Parser) visibility() bool {
	if !p.at(token.PUB_KW) {
		return false
	}
	m := p.start()
	p.bump(token.PUB_KW)
	if p.at(token.L_PAREN) {
		switch p.nth(1) {
		case token.CRATE_KW, token.SELF_KW, token.SUPER_KW:
			if p.nth(2) == token.R_PAREN {
				p.bump(token.L_PAREN)
				p.bumpAny()
				p.bump(token.R_PAREN)
			}
		case token.IN_KW:
			p.bump(token.L_PAREN)
			p.bump(token.IN_KW)
			p.path(pathType)
			p.expect(token.R_PAREN)
		}
	}
	m.complete(p, token.VISIBILITY)
	return true
}

// ---------- Names ----------

func (p *Parser) name() {
	if !p.at(token.IDENT) {
		p.error(ErrExpectedName)
		return
	}
	m := p.start()
	p.bump(token.IDENT)
	m.complete(p, token.NAME)
}

func (p *Parser) nameRef() {
	m := p.start()
	switch p.current() {
	case token.IDENT, token.INT_NUMBER:
		p.bumpAny()
	default:
		p.error(expected("identifier"))
	}
	m.complete(p, token.NAME_REF)
}

// ---------- Functions ----------

func (p *Parser) fnItem() {
	p.eat(token.CONST_KW)
	p.eat(token.ASYNC_KW)
	p.eat(token.UNSAFE_KW)
	if p.at(token.EXTERN_KW) {
		p.abi()
	}
	p.expect(token.FN_KW)
	p.name()
	p.genericParams()
	if p.at(token.L_PAREN) {
		p.paramList(paramFn)
	} else {
		p.error(expected("function arguments"))
	}
	p.retType()
	p.whereClause()
	if p.at(token.L_CURLY) {
		p.blockExpr()
		return
	}
	p.expect(token.SEMI)
}

func (p *Parser) abi() {
	m := p.start()
	p.bump(token.EXTERN_KW)
	switch p.current() {
	case token.STRING, token.RAW_STRING:
		p.bumpAny()
	}
	m.complete(p, token.ABI)
}

type paramFlavor int

const (
	paramFn    paramFlavor = iota // patterns with required types
	paramFnPtr                    // types, optionally named
)

func (p *Parser) paramList(flavor paramFlavor) {
	m := p.start()
	p.bump(token.L_PAREN)
	if flavor == paramFn && p.atSelfParam() {
		p.selfParam()
		if !p.at(token.R_PAREN) {
			p.expect(token.COMMA)
		}
	}
	for !p.at(token.EOF) && !p.at(token.R_PAREN) {
		before := p.pos
		p.param(flavor)
		if p.pos == before {
			break
		}
		if !p.at(token.R_PAREN) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.R_PAREN)
	m.complete(p, token.PARAM_LIST)
}

func (p *Parser) atSelfParam() bool {
	n := 0
	if p.at(token.AMP) {
		n++
		if p.nth(n) == token.LIFETIME {
			n++
		}
	}
	if p.nth(n) == token.MUT_KW {
		n++
	}
	return p.nth(n) == token.SELF_KW && !p.atN(n+1, token.COLONCOLON)
}

func (p *Parser) selfParam() {
	m := p.start()
	if p.eat(token.AMP) {
		p.eat(token.LIFETIME)
	}
	p.eat(token.MUT_KW)
	p.bump(token.SELF_KW)
	if p.at(token.COLON) && !p.at(token.COLONCOLON) {
		p.bump(token.COLON)
		p.typ()
	}
	m.complete(p, token.SELF_PARAM)
}

func (p *Parser) param(flavor paramFlavor) {
	m := p.start()
	p.attributes()
	switch {
	case p.at(token.DOTDOTDOT):
		p.bump(token.DOTDOTDOT)
	case flavor == paramFnPtr:
		if (p.at(token.IDENT) || p.at(token.UNDERSCORE)) && p.nth(1) == token.COLON && !p.atN(1, token.COLONCOLON) {
			p.patternSingle()
			p.bump(token.COLON)
		}
		p.typ()
	default:
		p.patternSingle()
		if p.at(token.COLON) && !p.at(token.COLONCOLON) {
			p.bump(token.COLON)
			p.typ()
		} else {
			p.error(expected("COLON"))
		}
	}
	m.complete(p, token.PARAM)
}

func (p *Parser) retType() {
	if !p.at(token.THIN_ARROW) {
		return
	}
	m := p.start()
	p.bump(token.THIN_ARROW)
	p.typ()
	m.complete(p, token.RET_TYPE)
}

// ---------- Generics ----------

func (p *Parser) genericParams() {
	if !p.at(token.L_ANGLE) {
		return
	}
	m := p.start()
	p.bump(token.L_ANGLE)
loop:
	for !p.at(token.EOF) && !p.at(token.R_ANGLE) {
		pm := p.start()
		p.attributes()
		switch p.current() {
		case token.LIFETIME:
			p.bump(token.LIFETIME)
			if p.at(token.COLON) {
				p.bump(token.COLON)
				p.lifetimeBounds()
			}
			pm.complete(p, token.LIFETIME_PARAM)
		case token.CONST_KW:
			p.bump(token.CONST_KW)
			p.name()
			p.expect(token.COLON)
			p.typ()
			if p.eat(token.EQ) {
				p.constArgValue()
			}
			pm.complete(p, token.CONST_PARAM)
		case token.IDENT:
			p.name()
			if p.at(token.COLON) && !p.at(token.COLONCOLON) {
				p.bump(token.COLON)
				p.typeBoundList()
			}
			if p.eat(token.EQ) {
				p.typ()
			}
			pm.complete(p, token.TYPE_PARAM)
		default:
			pm.abandon(p)
			p.error(expected("generic parameter"))
			break loop
		}
		if !p.at(token.R_ANGLE) && !p.expect(token.COMMA) {
			break
		}
	}
	p.expect(token.R_ANGLE)
	m.complete(p, token.GENERIC_PARAM_LIST)
}

func (p *Parser) lifetimeBounds() {
	for p.at(token.LIFETIME) {
		p.bump(token.LIFETIME)
		if !p.eat(token.PLUS) {
			return
		}
	}
}

func (p *Parser) atBoundStart() bool {
	switch p.current() {
	case token.LIFETIME, token.QUESTION, token.L_PAREN, token.FOR_KW, token.TILDE:
		return true
	}
	return p.atPathStart()
}

func (p *Parser) typeBoundList() {
	m := p.start()
	for p.atBoundStart() {
		p.typeBound()
		if !p.eat(token.PLUS) {
			break
		}
	}
	m.complete(p, token.TYPE_BOUND_LIST)
}

func (p *Parser) typeBound() {
	m := p.start()
	switch {
	case p.at(token.LIFETIME):
		p.bump(token.LIFETIME)
	case p.at(token.L_PAREN):
		p.bump(token.L_PAREN)
		p.eat(token.QUESTION)
		p.forBinder()
		p.pathType()
		p.expect(token.R_PAREN)
	default:
		p.eat(token.TILDE)
		p.eat(token.CONST_KW)
		p.eat(token.QUESTION)
		p.forBinder()
		p.pathType()
	}
	m.complete(p, token.TYPE_BOUND)
}

// forBinder parses a higher-ranked `for<'a>` prefix.
func (p *Parser) forBinder() {
	if p.at(token.FOR_KW) && p.nth(1) == token.L_ANGLE {
		p.bump(token.FOR_KW)
		p.genericParams()
	}
}

func (p *Parser) whereClause() {
	if !p.at(token.WHERE_KW) {
		return
	}
	m := p.start()
	p.bump(token.WHERE_KW)
	for p.at(token.LIFETIME) || p.at(token.FOR_KW) || p.atTypeStart() {
		pm := p.start()
		if p.at(token.LIFETIME) {
			p.bump(token.LIFETIME)
			p.expect(token.COLON)
			p.lifetimeBounds()
		} else {
			p.forBinder()
			p.typ()
			if p.at(token.COLON) && !p.at(token.COLONCOLON) {
				p.bump(token.COLON)
				p.typeBoundList()
			} else {
				p.error(expected("COLON"))
			}
		}
		pm.complete(p, token.WHERE_PRED)
		if !p.eat(token.COMMA) {
			break
		}
	}
	m.complete(p, token.WHERE_CLAUSE)
}

// ---------- ADTs ----------

// structBody parses what follows `struct` or `union`. Unions require a
// record field list.
func (p *Parser) structBody(allowTuple bool) {
	p.name()
	p.genericParams()
	switch {
	case allowTuple && p.at(token.SEMI):
		p.bump(token.SEMI)
	case allowTuple && p.at(token.L_PAREN):
		p.tupleFieldList()
		p.whereClause()
		p.expect(token.SEMI)
	default:
		p.whereClause()
		if p.at(token.L_CURLY) {
			p.recordFieldList()
		} else {
			p.error(expected("`;`, `{`, or `(`"))
		}
	}
}

func (p *Parser) recordFieldList() {
	m := p.start()
	p.bump(token.L_CURLY)
	for !p.at(token.EOF) && !p.at(token.R_CURLY) {
		before := p.pos
		fm := p.start()
		p.attributes()
		p.visibility()
		if p.at(token.IDENT) {
			p.name()
			p.expect(token.COLON)
			p.typ()
			fm.complete(p, token.RECORD_FIELD)
		} else {
			fm.abandon(p)
			p.errRecover(expected("field declaration"), token.COMMA)
		}
		if p.pos == before {
			break
		}
		if !p.at(token.R_CURLY) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.R_CURLY)
	m.complete(p, token.RECORD_FIELD_LIST)
}

func (p *Parser) tupleFieldList() {
	m := p.start()
	p.bump(token.L_PAREN)
	for !p.at(token.EOF) && !p.at(token.R_PAREN) {
		before := p.pos
		fm := p.start()
		p.attributes()
		p.visibility()
		p.typ()
		fm.complete(p, token.TUPLE_FIELD)
		if p.pos == before {
			break
		}
		if !p.at(token.R_PAREN) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.R_PAREN)
	m.complete(p, token.TUPLE_FIELD_LIST)
}

func (p *Parser) enumItem() {
	p.bump(token.ENUM_KW)
	p.name()
	p.genericParams()
	p.whereClause()
	if !p.at(token.L_CURLY) {
		p.error(expected("L_CURLY"))
		return
	}
	lm := p.start()
	p.bump(token.L_CURLY)
	for !p.at(token.EOF) && !p.at(token.R_CURLY) {
		before := p.pos
		vm := p.start()
		p.attributes()
		p.visibility()
		if p.at(token.IDENT) {
			p.name()
			switch {
			case p.at(token.L_CURLY):
				p.recordFieldList()
			case p.at(token.L_PAREN):
				p.tupleFieldList()
			}
			if p.eat(token.EQ) {
				p.expr()
			}
			vm.complete(p, token.VARIANT)
		} else {
			vm.abandon(p)
			p.errRecover(expected("enum variant"), token.COMMA)
		}
		if p.pos == before {
			break
		}
		if !p.at(token.R_CURLY) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.R_CURLY)
	lm.complete(p, token.VARIANT_LIST)
}

// ---------- Traits and Impls ----------

func (p *Parser) traitItem() {
	p.eat(token.UNSAFE_KW)
	if p.atContextual("auto") {
		p.bumpAny()
	}
	p.bump(token.TRAIT_KW)
	p.name()
	p.genericParams()
	if p.at(token.COLON) && !p.at(token.COLONCOLON) {
		p.bump(token.COLON)
		p.typeBoundList()
	}
	p.whereClause()
	p.delimitedItems(token.ASSOC_ITEM_LIST)
}

func (p *Parser) implItem() {
	p.eat(token.UNSAFE_KW)
	p.bump(token.IMPL_KW)
	if p.at(token.L_ANGLE) {
		p.genericParams()
	}
	p.eat(token.CONST_KW)
	p.eat(token.EXCL)
	p.typ()
	if p.eat(token.FOR_KW) {
		p.typ()
	}
	p.whereClause()
	p.delimitedItems(token.ASSOC_ITEM_LIST)
}

func (p *Parser) modItem() {
	p.bump(token.MOD_KW)
	p.name()
	if p.eat(token.SEMI) {
		return
	}
	p.delimitedItems(token.ITEM_LIST)
}

// delimitedItems parses `{ inner_attr* item* }` into a node of kind.
func (p *Parser) delimitedItems(kind token.Kind) {
	if !p.at(token.L_CURLY) {
		p.error(expected("L_CURLY"))
		return
	}
	m := p.start()
	p.bump(token.L_CURLY)
	p.innerAttributes()
	p.itemsUntil(true)
	p.expect(token.R_CURLY)
	m.complete(p, kind)
}

// ---------- Other Items ----------

func (p *Parser) externItem() token.Kind {
	if p.nth(1) == token.CRATE_KW {
		p.bump(token.EXTERN_KW)
		p.bump(token.CRATE_KW)
		if p.at(token.SELF_KW) {
			m := p.start()
			p.bump(token.SELF_KW)
			m.complete(p, token.NAME_REF)
		} else {
			p.nameRef()
		}
		p.rename()
		p.expect(token.SEMI)
		return token.EXTERN_CRATE
	}
	n := 1
	if p.nth(1) == token.STRING || p.nth(1) == token.RAW_STRING {
		n = 2
	}
	switch p.nth(n) {
	case token.FN_KW, token.UNSAFE_KW:
		p.fnItem()
		return token.FN
	case token.L_CURLY:
		p.abi()
		p.delimitedItems(token.EXTERN_ITEM_LIST)
		return token.EXTERN_BLOCK
	}
	return token.TOMBSTONE
}

func (p *Parser) rename() {
	if !p.at(token.AS_KW) {
		return
	}
	m := p.start()
	p.bump(token.AS_KW)
	if !p.eat(token.UNDERSCORE) {
		p.name()
	}
	m.complete(p, token.RENAME)
}

func (p *Parser) useTree() {
	m := p.start()
	switch {
	case p.at(token.STAR):
		p.bump(token.STAR)
	case p.at(token.COLONCOLON) && p.nth(2) == token.STAR:
		p.bump(token.COLONCOLON)
		p.bump(token.STAR)
	case p.at(token.L_CURLY) || (p.at(token.COLONCOLON) && p.nth(2) == token.L_CURLY):
		p.eat(token.COLONCOLON)
		p.useTreeList()
	case p.atPathStart():
		p.path(pathUse)
		if p.eat(token.COLONCOLON) {
			switch {
			case p.at(token.STAR):
				p.bump(token.STAR)
			case p.at(token.L_CURLY):
				p.useTreeList()
			default:
				p.error(expected("`*` or `{`"))
			}
		}
		p.rename()
	default:
		m.abandon(p)
		p.errRecover("expected one of `*`, `::`, `{`, `self`, `super` or an identifier", token.SEMI, token.COMMA)
		return
	}
	m.complete(p, token.USE_TREE)
}

func (p *Parser) useTreeList() {
	m := p.start()
	p.bump(token.L_CURLY)
	for !p.at(token.EOF) && !p.at(token.R_CURLY) {
		before := p.pos
		p.useTree()
		if p.pos == before {
			break
		}
		if !p.at(token.R_CURLY) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.R_CURLY)
	m.complete(p, token.USE_TREE_LIST)
}

func (p *Parser) constItem() {
	p.bump(token.CONST_KW)
	if !p.eat(token.UNDERSCORE) {
		p.name()
	}
	if p.at(token.COLON) && !p.at(token.COLONCOLON) {
		p.bump(token.COLON)
		p.typ()
	}
	if p.eat(token.EQ) {
		p.expr()
	}
	p.expect(token.SEMI)
}

func (p *Parser) staticItem() {
	p.bump(token.STATIC_KW)
	p.eat(token.MUT_KW)
	p.name()
	p.expect(token.COLON)
	p.typ()
	if p.eat(token.EQ) {
		p.expr()
	}
	p.expect(token.SEMI)
}

func (p *Parser) typeAlias() {
	p.bump(token.TYPE_KW)
	p.name()
	p.genericParams()
	if p.at(token.COLON) && !p.at(token.COLONCOLON) {
		p.bump(token.COLON)
		p.typeBoundList()
	}
	p.whereClause()
	if p.eat(token.EQ) {
		p.typ()
	}
	p.expect(token.SEMI)
}
