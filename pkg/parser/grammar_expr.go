package parser

import "github.com/leapstack-labs/macroscope/pkg/token"

// Grammar rules for statements and expressions:
//
//	block     → '{' inner_attr* stmt* expr? '}'
//	stmt      → attr* (let_stmt | item | expr ';'?)
//	let_stmt  → 'let' pattern (':' type)? ('=' expr ('else' block)?)? ';'
//	expr      → lhs (binary_op expr | 'as' type)*
//	lhs       → ('&' 'mut'? | '*' | '!' | '-') lhs | atom postfix*
//	postfix   → '?' | '.' 'await' | '.' name_ref generic_args? arg_list
//	            | '.' name_ref | arg_list | '[' expr ']'
//
// Binary operators bind as follows, loosest first: assignment (right
// associative), ranges, `||`, `&&`, comparisons, `|`, `^`, `&`, shifts,
// additive, multiplicative, `as`.

// restrictions narrow what an expression may contain in some positions.
type restrictions struct {
	forbidStructs bool // `if x == S {}` must not parse `S {}` as a struct literal
	preferStmt    bool // block-like expressions end a statement
}

// ---------- Statements ----------

func (p *Parser) blockExpr() CompletedMarker {
	m := p.start()
	p.blockBody()
	return m.complete(p, token.BLOCK_EXPR)
}

func (p *Parser) blockBody() {
	p.bump(token.L_CURLY)
	p.innerAttributes()
	for !p.at(token.EOF) && !p.at(token.R_CURLY) {
		if p.eat(token.SEMI) {
			continue
		}
		before := p.pos
		p.stmt(true)
		if p.pos == before {
			break
		}
	}
	p.expect(token.R_CURLY)
}

// stmt parses one statement. With semi set, the terminating semicolon is
// part of the statement and a trailing expression is left as a direct child
// of the enclosing list.
func (p *Parser) stmt(semi bool) {
	start := p.pos
	m := p.start()
	p.attributes()

	if p.at(token.LET_KW) {
		p.letStmt(semi)
		m.complete(p, token.LET_STMT)
		return
	}
	if p.atItemStart() {
		p.finishItem(m, start)
		return
	}

	_, blockLike, ok := p.exprBP(restrictions{preferStmt: true}, 1)
	if !ok {
		if p.pos == start {
			m.abandon(p)
			return
		}
		m.complete(p, token.ERROR)
		return
	}
	if !semi {
		m.complete(p, token.EXPR_STMT)
		return
	}
	switch {
	case p.at(token.SEMI):
		p.bump(token.SEMI)
		m.complete(p, token.EXPR_STMT)
	case p.at(token.R_CURLY) || p.at(token.EOF):
		m.abandon(p)
	case blockLike:
		m.complete(p, token.EXPR_STMT)
	default:
		p.error(ErrExpectedStmt)
		m.complete(p, token.EXPR_STMT)
	}
}

func (p *Parser) letStmt(semi bool) {
	p.bump(token.LET_KW)
	p.pattern()
	if p.at(token.COLON) && !p.at(token.COLONCOLON) {
		p.bump(token.COLON)
		p.typ()
	}
	if p.eat(token.EQ) {
		p.expr()
		if p.eat(token.ELSE_KW) {
			if p.at(token.L_CURLY) {
				p.blockExpr()
			} else {
				p.error(expected("a block"))
			}
		}
	}
	if semi {
		p.expect(token.SEMI)
	}
}

// ---------- Expressions ----------

func (p *Parser) expr() (CompletedMarker, bool) {
	cm, _, ok := p.exprBP(restrictions{}, 1)
	return cm, ok
}

func (p *Parser) exprNoStruct() {
	p.exprBP(restrictions{forbidStructs: true}, 1)
}

// exprBP is a Pratt loop: it parses an operand and then folds binary
// operators whose binding power is at least bp.
func (p *Parser) exprBP(r restrictions, bp int) (CompletedMarker, bool, bool) {
	lhs, blockLike, ok := p.lhs(r)
	if !ok {
		return lhs, false, false
	}
	if r.preferStmt && blockLike {
		return lhs, true, true
	}
	r.preferStmt = false

	for {
		opBP, op := p.currentOp()
		if opBP == 0 || opBP < bp {
			break
		}
		m := lhs.precede(p)
		if op == token.AS_KW {
			p.bump(token.AS_KW)
			p.typeNoBounds()
			lhs = m.complete(p, token.CAST_EXPR)
			continue
		}
		p.bump(op)
		if op == token.DOTDOT || op == token.DOTDOTEQ {
			if p.atExprStart() && !(r.forbidStructs && p.at(token.L_CURLY)) {
				p.exprBP(r, opBP+1)
			}
			lhs = m.complete(p, token.RANGE_EXPR)
			continue
		}
		next := opBP + 1
		if opBP == 1 {
			next = opBP
		}
		p.exprBP(r, next)
		lhs = m.complete(p, token.BIN_EXPR)
	}
	return lhs, false, true
}

// currentOp returns the binding power and kind of the binary operator at
// the current position, or 0 when there is none.
func (p *Parser) currentOp() (int, token.Kind) {
	switch p.current() {
	case token.PIPE:
		switch {
		case p.at(token.PIPEPIPE):
			return 3, token.PIPEPIPE
		case p.at(token.PIPEEQ):
			return 1, token.PIPEEQ
		}
		return 6, token.PIPE
	case token.R_ANGLE:
		switch {
		case p.at(token.SHREQ):
			return 1, token.SHREQ
		case p.at(token.SHR):
			return 9, token.SHR
		case p.at(token.GTEQ):
			return 5, token.GTEQ
		}
		return 5, token.R_ANGLE
	case token.EQ:
		switch {
		case p.at(token.FAT_ARROW):
			return 0, token.EOF
		case p.at(token.EQEQ):
			return 5, token.EQEQ
		}
		return 1, token.EQ
	case token.L_ANGLE:
		switch {
		case p.at(token.SHLEQ):
			return 1, token.SHLEQ
		case p.at(token.SHL):
			return 9, token.SHL
		case p.at(token.LTEQ):
			return 5, token.LTEQ
		}
		return 5, token.L_ANGLE
	case token.PLUS:
		if p.at(token.PLUSEQ) {
			return 1, token.PLUSEQ
		}
		return 10, token.PLUS
	case token.CARET:
		if p.at(token.CARETEQ) {
			return 1, token.CARETEQ
		}
		return 7, token.CARET
	case token.PERCENT:
		if p.at(token.PERCENTEQ) {
			return 1, token.PERCENTEQ
		}
		return 11, token.PERCENT
	case token.AMP:
		switch {
		case p.at(token.AMPEQ):
			return 1, token.AMPEQ
		case p.at(token.AMPAMP):
			return 4, token.AMPAMP
		}
		return 8, token.AMP
	case token.SLASH:
		if p.at(token.SLASHEQ) {
			return 1, token.SLASHEQ
		}
		return 11, token.SLASH
	case token.STAR:
		if p.at(token.STAREQ) {
			return 1, token.STAREQ
		}
		return 11, token.STAR
	case token.DOT:
		switch {
		case p.at(token.DOTDOTEQ):
			return 2, token.DOTDOTEQ
		case p.at(token.DOTDOT):
			return 2, token.DOTDOT
		}
	case token.EXCL:
		if p.at(token.NEQ) {
			return 5, token.NEQ
		}
	case token.MINUS:
		if p.at(token.MINUSEQ) {
			return 1, token.MINUSEQ
		}
		return 10, token.MINUS
	case token.AS_KW:
		return 12, token.AS_KW
	}
	return 0, token.EOF
}

// lhs parses a prefix expression or an atom with its postfix operators.
func (p *Parser) lhs(r restrictions) (CompletedMarker, bool, bool) {
	var kind token.Kind
	m := p.start()
	switch {
	case p.at(token.AMP):
		p.bump(token.AMP)
		p.eat(token.MUT_KW)
		kind = token.REF_EXPR
	case p.at(token.STAR), p.at(token.EXCL), p.at(token.MINUS):
		p.bumpAny()
		kind = token.PREFIX_EXPR
	case p.at(token.DOTDOTEQ), p.at(token.DOTDOT):
		if p.at(token.DOTDOTEQ) {
			p.bump(token.DOTDOTEQ)
		} else {
			p.bump(token.DOTDOT)
		}
		if p.atExprStart() && !(r.forbidStructs && p.at(token.L_CURLY)) {
			p.exprBP(r, 3)
		}
		return m.complete(p, token.RANGE_EXPR), false, true
	default:
		m.abandon(p)
		atom, blockLike, ok := p.atomExpr(r)
		if !ok {
			return atom, false, false
		}
		allowCalls := !(r.preferStmt && blockLike)
		return p.postfix(atom, allowCalls), blockLike, true
	}
	r.preferStmt = false
	p.lhs(r)
	return m.complete(p, kind), false, true
}

func (p *Parser) postfix(lhs CompletedMarker, allowCalls bool) CompletedMarker {
	for {
		switch {
		case allowCalls && p.at(token.L_PAREN):
			m := lhs.precede(p)
			p.argList()
			lhs = m.complete(p, token.CALL_EXPR)
		case allowCalls && p.at(token.L_BRACK):
			m := lhs.precede(p)
			p.bump(token.L_BRACK)
			p.expr()
			p.expect(token.R_BRACK)
			lhs = m.complete(p, token.INDEX_EXPR)
		case p.at(token.QUESTION):
			m := lhs.precede(p)
			p.bump(token.QUESTION)
			lhs = m.complete(p, token.TRY_EXPR)
		case p.at(token.DOT) && !p.at(token.DOTDOT):
			lhs = p.dotExpr(lhs)
		default:
			return lhs
		}
	}
}

// dotExpr parses `.await`, a method call or a field access.
func (p *Parser) dotExpr(lhs CompletedMarker) CompletedMarker {
	m := lhs.precede(p)
	p.bump(token.DOT)
	switch {
	case p.at(token.AWAIT_KW):
		p.bump(token.AWAIT_KW)
		return m.complete(p, token.AWAIT_EXPR)
	case p.at(token.IDENT) && (p.nth(1) == token.L_PAREN || p.atN(1, token.COLONCOLON)):
		p.nameRef()
		if p.at(token.COLONCOLON) {
			p.genericArgs(true)
		}
		if p.at(token.L_PAREN) {
			p.argList()
		} else {
			p.error(expected("argument list"))
		}
		return m.complete(p, token.METHOD_CALL_EXPR)
	case p.at(token.IDENT), p.at(token.INT_NUMBER):
		p.nameRef()
	case p.at(token.FLOAT_NUMBER):
		// `t.0.1` lexes the field path as one float.
		nm := p.start()
		p.bumpAny()
		nm.complete(p, token.NAME_REF)
	default:
		p.error(expected("field name or number"))
	}
	return m.complete(p, token.FIELD_EXPR)
}

func (p *Parser) argList() {
	m := p.start()
	p.bump(token.L_PAREN)
	for !p.at(token.EOF) && !p.at(token.R_PAREN) {
		before := p.pos
		if !p.atExprStart() {
			p.errRecover(ErrExpectedExpr, token.R_PAREN)
		} else {
			p.expr()
		}
		if p.pos == before {
			break
		}
		if !p.at(token.R_PAREN) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.R_PAREN)
	m.complete(p, token.ARG_LIST)
}

// ---------- Atoms ----------

var literalKinds = map[token.Kind]bool{
	token.INT_NUMBER: true, token.FLOAT_NUMBER: true, token.CHAR: true, token.BYTE: true,
	token.STRING: true, token.BYTE_STRING: true, token.RAW_STRING: true,
	token.RAW_BYTE_STRING: true, token.TRUE_KW: true, token.FALSE_KW: true,
}

func (p *Parser) atLiteral() bool {
	return literalKinds[p.current()]
}

// literal parses a LITERAL node, or returns nil when none starts here.
func (p *Parser) literal() *CompletedMarker {
	if !p.atLiteral() {
		return nil
	}
	m := p.start()
	p.bumpAny()
	cm := m.complete(p, token.LITERAL)
	return &cm
}

func (p *Parser) atExprStart() bool {
	if p.atLiteral() || p.atPathStart() {
		return true
	}
	switch p.current() {
	case token.L_PAREN, token.L_BRACK, token.L_CURLY, token.PIPE, token.MOVE_KW,
		token.ASYNC_KW, token.IF_KW, token.WHILE_KW, token.LOOP_KW, token.FOR_KW,
		token.MATCH_KW, token.RETURN_KW, token.BREAK_KW, token.CONTINUE_KW, token.LET_KW,
		token.UNSAFE_KW, token.AMP, token.STAR, token.EXCL, token.MINUS, token.LIFETIME:
		return true
	case token.DOT:
		return p.at(token.DOTDOT)
	case token.CONST_KW:
		return p.nth(1) == token.L_CURLY
	}
	return false
}

// atomExpr parses a primary expression. The second result reports whether
// the expression is block-like and so may end a statement without `;`.
func (p *Parser) atomExpr(r restrictions) (CompletedMarker, bool, bool) {
	if cm := p.literal(); cm != nil {
		return *cm, false, true
	}
	if p.atPathStart() {
		return p.pathExpr(r)
	}

	switch p.current() {
	case token.L_PAREN:
		return p.tupleExpr(), false, true
	case token.L_BRACK:
		return p.arrayExpr(), false, true
	case token.PIPE, token.MOVE_KW:
		return p.closureExpr(), false, true
	case token.ASYNC_KW:
		if p.nth(1) == token.PIPE || (p.nth(1) == token.MOVE_KW && p.nth(2) == token.PIPE) {
			return p.closureExpr(), false, true
		}
		m := p.start()
		p.bump(token.ASYNC_KW)
		p.eat(token.MOVE_KW)
		if !p.at(token.L_CURLY) {
			p.error(expected("a block"))
			return m.complete(p, token.BLOCK_EXPR), true, true
		}
		p.blockBody()
		return m.complete(p, token.BLOCK_EXPR), true, true
	case token.UNSAFE_KW, token.CONST_KW:
		if p.nth(1) == token.L_CURLY {
			m := p.start()
			p.bumpAny()
			p.blockBody()
			return m.complete(p, token.BLOCK_EXPR), true, true
		}
	case token.L_CURLY:
		return p.blockExpr(), true, true
	case token.IF_KW:
		return p.ifExpr(), true, true
	case token.MATCH_KW:
		return p.matchExpr(), true, true
	case token.LOOP_KW, token.WHILE_KW, token.FOR_KW:
		m := p.start()
		return m.complete(p, p.loopBody()), true, true
	case token.LIFETIME:
		if p.nth(1) == token.COLON {
			m := p.start()
			lm := p.start()
			p.bump(token.LIFETIME)
			p.bump(token.COLON)
			lm.complete(p, token.LABEL)
			if p.at(token.L_CURLY) {
				p.blockBody()
				return m.complete(p, token.BLOCK_EXPR), true, true
			}
			return m.complete(p, p.loopBody()), true, true
		}
	case token.RETURN_KW:
		m := p.start()
		p.bump(token.RETURN_KW)
		if p.atExprStart() {
			p.expr()
		}
		return m.complete(p, token.RETURN_EXPR), false, true
	case token.BREAK_KW:
		m := p.start()
		p.bump(token.BREAK_KW)
		p.eat(token.LIFETIME)
		if p.atExprStart() && !(r.forbidStructs && p.at(token.L_CURLY)) {
			p.expr()
		}
		return m.complete(p, token.BREAK_EXPR), false, true
	case token.CONTINUE_KW:
		m := p.start()
		p.bump(token.CONTINUE_KW)
		p.eat(token.LIFETIME)
		return m.complete(p, token.CONTINUE_EXPR), false, true
	case token.LET_KW:
		m := p.start()
		p.bump(token.LET_KW)
		p.pattern()
		p.expect(token.EQ)
		p.exprBP(restrictions{forbidStructs: r.forbidStructs}, 5)
		return m.complete(p, token.LET_EXPR), false, true
	}

	p.errRecover(ErrExpectedExpr)
	return CompletedMarker{}, false, false
}

// pathExpr parses a path expression, a struct literal or a macro call.
func (p *Parser) pathExpr(r restrictions) (CompletedMarker, bool, bool) {
	m := p.start()
	p.path(pathExpr)
	switch {
	case p.at(token.EXCL) && !p.at(token.NEQ):
		p.bump(token.EXCL)
		curly := p.at(token.L_CURLY)
		if p.atAny(token.L_PAREN, token.L_BRACK, token.L_CURLY) {
			p.tokenTree()
		} else {
			p.error(ErrExpectedTree)
		}
		return m.complete(p, token.MACRO_CALL), curly, true
	case p.at(token.L_CURLY) && !r.forbidStructs:
		p.recordExprFields()
		return m.complete(p, token.RECORD_EXPR), false, true
	}
	return m.complete(p, token.PATH_EXPR), false, true
}

func (p *Parser) recordExprFields() {
	m := p.start()
	p.bump(token.L_CURLY)
	for !p.at(token.EOF) && !p.at(token.R_CURLY) {
		before := p.pos
		switch {
		case p.at(token.DOTDOT):
			p.bump(token.DOTDOT)
			if p.atExprStart() {
				p.expr()
			}
		case p.at(token.IDENT) || p.at(token.INT_NUMBER) || p.at(token.POUND):
			fm := p.start()
			p.attributes()
			p.nameRef()
			if p.at(token.COLON) && !p.at(token.COLONCOLON) {
				p.bump(token.COLON)
				p.expr()
			}
			fm.complete(p, token.RECORD_EXPR_FIELD)
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
	m.complete(p, token.RECORD_EXPR_FIELD_LIST)
}

// tupleExpr parses `()`, `(e)` and `(e, ...)`.
func (p *Parser) tupleExpr() CompletedMarker {
	m := p.start()
	p.bump(token.L_PAREN)
	elems, sawComma := 0, false
	for !p.at(token.EOF) && !p.at(token.R_PAREN) {
		before := p.pos
		p.expr()
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
		return m.complete(p, token.PAREN_EXPR)
	}
	return m.complete(p, token.TUPLE_EXPR)
}

// arrayExpr parses `[a, b]` and `[a; n]`.
func (p *Parser) arrayExpr() CompletedMarker {
	m := p.start()
	p.bump(token.L_BRACK)
	first := true
	for !p.at(token.EOF) && !p.at(token.R_BRACK) {
		before := p.pos
		p.expr()
		if p.pos == before {
			break
		}
		if first && p.eat(token.SEMI) {
			p.expr()
			break
		}
		first = false
		if !p.at(token.R_BRACK) && !p.expect(token.COMMA) {
			break
		}
	}
	p.expect(token.R_BRACK)
	return m.complete(p, token.ARRAY_EXPR)
}

func (p *Parser) closureExpr() CompletedMarker {
	m := p.start()
	p.eat(token.ASYNC_KW)
	p.eat(token.MOVE_KW)
	pm := p.start()
	if p.at(token.PIPEPIPE) {
		p.bump(token.PIPEPIPE)
	} else {
		p.expect(token.PIPE)
		for !p.at(token.EOF) && !p.at(token.PIPE) {
			before := p.pos
			param := p.start()
			p.attributes()
			p.patternSingle()
			if p.at(token.COLON) && !p.at(token.COLONCOLON) {
				p.bump(token.COLON)
				p.typ()
			}
			param.complete(p, token.PARAM)
			if p.pos == before {
				break
			}
			if !p.at(token.PIPE) && !p.expect(token.COMMA) {
				break
			}
		}
		p.expect(token.PIPE)
	}
	pm.complete(p, token.PARAM_LIST)

	if p.at(token.THIN_ARROW) {
		p.retType()
		if p.at(token.L_CURLY) {
			p.blockExpr()
		} else {
			p.error(expected("a block"))
		}
	} else {
		p.expr()
	}
	return m.complete(p, token.CLOSURE_EXPR)
}

func (p *Parser) ifExpr() CompletedMarker {
	m := p.start()
	p.bump(token.IF_KW)
	p.exprNoStruct()
	p.blockOrError()
	if p.eat(token.ELSE_KW) {
		switch {
		case p.at(token.IF_KW):
			p.ifExpr()
		default:
			p.blockOrError()
		}
	}
	return m.complete(p, token.IF_EXPR)
}

func (p *Parser) blockOrError() {
	if p.at(token.L_CURLY) {
		p.blockExpr()
		return
	}
	p.error(expected("a block"))
}

// loopBody parses `loop`, `while` and `for` into the caller's node and
// returns its kind.
func (p *Parser) loopBody() token.Kind {
	var kind token.Kind
	switch p.current() {
	case token.LOOP_KW:
		p.bump(token.LOOP_KW)
		kind = token.LOOP_EXPR
	case token.WHILE_KW:
		p.bump(token.WHILE_KW)
		p.exprNoStruct()
		kind = token.WHILE_EXPR
	case token.FOR_KW:
		p.bump(token.FOR_KW)
		p.pattern()
		p.expect(token.IN_KW)
		p.exprNoStruct()
		kind = token.FOR_EXPR
	default:
		p.error(expected("a loop"))
		return token.ERROR
	}
	p.blockOrError()
	return kind
}

func (p *Parser) matchExpr() CompletedMarker {
	m := p.start()
	p.bump(token.MATCH_KW)
	p.exprNoStruct()
	if !p.at(token.L_CURLY) {
		p.error(expected("L_CURLY"))
		return m.complete(p, token.MATCH_EXPR)
	}
	lm := p.start()
	p.bump(token.L_CURLY)
	p.innerAttributes()
	for !p.at(token.EOF) && !p.at(token.R_CURLY) {
		before := p.pos
		p.matchArm()
		if p.pos == before {
			p.errAndBump(expected("match arm"))
		}
	}
	p.expect(token.R_CURLY)
	lm.complete(p, token.MATCH_ARM_LIST)
	return m.complete(p, token.MATCH_EXPR)
}

func (p *Parser) matchArm() {
	m := p.start()
	p.attributes()
	p.pattern()
	if p.at(token.IF_KW) {
		gm := p.start()
		p.bump(token.IF_KW)
		p.expr()
		gm.complete(p, token.MATCH_GUARD)
	}
	p.expect(token.FAT_ARROW)
	_, blockLike, _ := p.exprBP(restrictions{preferStmt: true}, 1)
	switch {
	case p.eat(token.COMMA):
	case blockLike, p.at(token.R_CURLY):
	default:
		p.error(expected("COMMA"))
	}
	m.complete(p, token.MATCH_ARM)
}
