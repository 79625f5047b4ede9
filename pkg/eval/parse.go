package eval

// MaxExprDepth bounds recursive-descent parsing to prevent a
// pathologically nested expression from blowing the Go call stack
// (§4.3's "maximum expression depth... bounded to prevent accidental
// non-termination"). It is a configuration constant, not per-call
// state, matching the fixed-limit style of
// other_examples/.../CWBudde-go-dws's DefaultMaxRecursionDepth.
const MaxExprDepth = 64

// parser is a hand-rolled recursive-descent parser over the token
// stream, one function per precedence level, in the teacher's
// manual-algorithm style.
type parser struct {
	toks     []token
	pos      int
	depth    int
	inAction bool
}

// Parse parses a statement-separated action/condition string into a
// Program. inAction controls whether `identifier = expression`
// assignment statements are permitted (forbidden in conditions, §4.3).
func Parse(src string, inAction bool) (*Program, *Error) {
	if src == "" {
		return &Program{}, nil
	}
	toks, lexErr := lex(src)
	if lexErr != nil {
		return nil, lexErr
	}
	p := &parser{toks: toks, inAction: inAction}
	prog := &Program{}
	for !p.atEOF() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		if p.peekOp(";") {
			p.advance()
			continue
		}
		break
	}
	if !p.atEOF() {
		return nil, newError(Syntax, "unexpected trailing input at token "+p.cur().val)
	}
	return prog, nil
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) atEOF() bool { return p.cur().kind == tokEOF }
func (p *parser) advance()    { p.pos++ }

func (p *parser) peekOp(op string) bool {
	return p.cur().kind == tokOp && p.cur().val == op
}

func (p *parser) statement() (Statement, *Error) {
	// identifier '=' expression — but only if the '=' isn't part of
	// '==', which the lexer already distinguishes as its own token.
	if p.cur().kind == tokIdent && p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tokOp && p.toks[p.pos+1].val == "=" {
		if !p.inAction {
			return nil, newError(AssignmentInCondition, "assignment is not permitted in a condition")
		}
		name := p.cur().val
		p.advance() // ident
		p.advance() // '='
		val, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &Assignment{Name: name, Value: val}, nil
	}
	val, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ExprStatement{Expr: val}, nil
}

func (p *parser) enter() *Error {
	p.depth++
	if p.depth > MaxExprDepth {
		return newError(ResourceLimit, "expression exceeds maximum nesting depth")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) expr() (Expr, *Error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.logicOr()
}

func (p *parser) logicOr() (Expr, *Error) {
	x, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.peekOp("||") {
		p.advance()
		y, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: "||", X: x, Y: y}
	}
	return x, nil
}

func (p *parser) logicAnd() (Expr, *Error) {
	x, err := p.bitOr()
	if err != nil {
		return nil, err
	}
	for p.peekOp("&&") {
		p.advance()
		y, err := p.bitOr()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: "&&", X: x, Y: y}
	}
	return x, nil
}

func (p *parser) bitOr() (Expr, *Error) {
	x, err := p.bitXor()
	if err != nil {
		return nil, err
	}
	for p.peekOp("|") {
		p.advance()
		y, err := p.bitXor()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: "|", X: x, Y: y}
	}
	return x, nil
}

func (p *parser) bitXor() (Expr, *Error) {
	x, err := p.bitAnd()
	if err != nil {
		return nil, err
	}
	for p.peekOp("^") {
		p.advance()
		y, err := p.bitAnd()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: "^", X: x, Y: y}
	}
	return x, nil
}

func (p *parser) bitAnd() (Expr, *Error) {
	x, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.peekOp("&") {
		p.advance()
		y, err := p.equality()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: "&", X: x, Y: y}
	}
	return x, nil
}

func (p *parser) equality() (Expr, *Error) {
	x, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.peekOp("==") || p.peekOp("!=") {
		op := p.cur().val
		p.advance()
		y, err := p.comparison()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: op, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) comparison() (Expr, *Error) {
	x, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.peekOp("<") || p.peekOp("<=") || p.peekOp(">") || p.peekOp(">=") {
		op := p.cur().val
		p.advance()
		y, err := p.additive()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: op, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) additive() (Expr, *Error) {
	x, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.peekOp("+") || p.peekOp("-") {
		op := p.cur().val
		p.advance()
		y, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: op, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) multiplicative() (Expr, *Error) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.peekOp("*") || p.peekOp("/") || p.peekOp("%") {
		op := p.cur().val
		p.advance()
		y, err := p.unary()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: op, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) unary() (Expr, *Error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if p.peekOp("!") || p.peekOp("-") {
		op := p.cur().val
		p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, X: x}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Expr, *Error) {
	tok := p.cur()
	switch tok.kind {
	case tokInt:
		p.advance()
		return &IntLit{Value: tok.ival}, nil
	case tokFloat:
		p.advance()
		return &FloatLit{Value: tok.fval}, nil
	case tokBool:
		p.advance()
		return &BoolLit{Value: tok.bval}, nil
	case tokString:
		p.advance()
		return &StringLit{Value: tok.val}, nil
	case tokIdent:
		p.advance()
		return &Ident{Name: tok.val}, nil
	case tokOp:
		if tok.val == "(" {
			p.advance()
			x, err := p.expr()
			if err != nil {
				return nil, err
			}
			if !p.peekOp(")") {
				return nil, newError(Syntax, "expected ')'")
			}
			p.advance()
			return x, nil
		}
	}
	return nil, newError(Syntax, "unexpected token '"+tok.val+"'")
}
