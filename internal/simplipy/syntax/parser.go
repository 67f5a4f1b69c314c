package syntax

import "strconv"

type parser struct {
	tokens []Token
	pos    int
}

// Parse turns SimpliPy source into a surface AST. Constructs outside the
// language entirely (for loops, imports, classes, augmented assignment
// and friends) are rejected here with the construct named; repairs that
// the simplifier can perform (missing else, bare return, nested calls)
// are left in place.
func Parse(src string) (*Module, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	body, err := p.parseStatements(EOF)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errAt(1, "empty program")
	}
	return &Module{Body: body}, nil
}

func (p *parser) peek() Token    { return p.tokens[p.pos] }
func (p *parser) next() Token    { t := p.tokens[p.pos]; p.pos++; return t }
func (p *parser) at(k Kind) bool { return p.tokens[p.pos].Kind == k }

func (p *parser) accept(k Kind) bool {
	if p.at(k) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(k Kind) (Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, errAt(t.Line, "expected %s, found %s", k, describe(t))
	}
	p.pos++
	return t, nil
}

func describe(t Token) string {
	switch t.Kind {
	case Name, IntLit, FloatLit:
		return "'" + t.Lit + "'"
	case StrLit:
		return "string literal"
	default:
		return t.Kind.String()
	}
}

// parseStatements consumes statements until the terminator kind (Dedent
// for blocks, EOF for the module).
func (p *parser) parseStatements(until Kind) ([]Stmt, error) {
	var stmts []Stmt
	for !p.at(until) && !p.at(EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if until != EOF {
		if _, err := p.expect(until); err != nil {
			return nil, err
		}
	}
	return stmts, nil
}

func (p *parser) parseStatement() (Stmt, error) {
	t := p.peek()
	switch t.Kind {
	case KwIf:
		return p.parseIf()
	case KwWhile:
		return p.parseWhile()
	case KwDef:
		return p.parseDef()
	case KwPass:
		p.next()
		return &PassStmt{Pos: Pos{LineNo: t.Line}}, p.endSimple()
	case KwBreak:
		p.next()
		return &BreakStmt{Pos: Pos{LineNo: t.Line}}, p.endSimple()
	case KwContinue:
		p.next()
		return &ContinueStmt{Pos: Pos{LineNo: t.Line}}, p.endSimple()
	case KwGlobal:
		p.next()
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		return &GlobalStmt{Pos: Pos{LineNo: t.Line}, Names: names}, p.endSimple()
	case KwNonlocal:
		p.next()
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		return &NonlocalStmt{Pos: Pos{LineNo: t.Line}, Names: names}, p.endSimple()
	case KwReturn:
		p.next()
		var value Expr
		if !p.at(Newline) && !p.at(EOF) {
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			value = v
		}
		return &ReturnStmt{Pos: Pos{LineNo: t.Line}, Value: value}, p.endSimple()
	case KwElif, KwElse:
		return nil, errAt(t.Line, "%s without a matching if", t.Kind)
	case Name:
		if unsupportedKeywords[t.Lit] {
			return nil, errAt(t.Line, "'%s' statements are not supported", t.Lit)
		}
		return p.parseExprOrAssign()
	default:
		return p.parseExprOrAssign()
	}
}

func (p *parser) endSimple() error {
	t := p.peek()
	if t.Kind == EOF {
		return nil
	}
	if t.Kind != Newline {
		return errAt(t.Line, "unexpected %s after statement", describe(t))
	}
	p.pos++
	return nil
}

func (p *parser) parseNameList() ([]string, error) {
	first, err := p.expect(Name)
	if err != nil {
		return nil, err
	}
	names := []string{first.Lit}
	for p.accept(Comma) {
		n, err := p.expect(Name)
		if err != nil {
			return nil, err
		}
		names = append(names, n.Lit)
	}
	return names, nil
}

func (p *parser) parseExprOrAssign() (Stmt, error) {
	start := p.peek()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	switch p.peek().Kind {
	case Assign:
		p.next()
		name, ok := expr.(*NameExpr)
		if !ok {
			return nil, errAt(start.Line, "assignment target must be a single variable name")
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.at(Assign) {
			return nil, errAt(start.Line, "chained assignment is not supported")
		}
		return &AssignStmt{Pos: Pos{LineNo: start.Line}, Target: name.Ident, Value: value}, p.endSimple()
	case AugAssign:
		return nil, errAt(start.Line, "augmented assignment ('%s') is not supported", p.peek().Lit)
	default:
		return &ExprStmt{Pos: Pos{LineNo: start.Line}, Value: expr}, p.endSimple()
	}
}

func (p *parser) parseIf() (Stmt, error) {
	t, err := p.expect(KwIf)
	if err != nil {
		return nil, err
	}
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var orelse []Stmt
	switch p.peek().Kind {
	case KwElif:
		// elif desugars to else holding a nested if.
		elifTok := p.peek()
		p.tokens[p.pos] = Token{Kind: KwIf, Lit: "if", Line: elifTok.Line, Col: elifTok.Col}
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		orelse = []Stmt{nested}
	case KwElse:
		p.next()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &IfStmt{Pos: Pos{LineNo: t.Line}, Test: test, Body: body, Else: orelse}, nil
}

func (p *parser) parseWhile() (Stmt, error) {
	t, err := p.expect(KwWhile)
	if err != nil {
		return nil, err
	}
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.at(KwElse) {
		return nil, errAt(p.peek().Line, "while loop 'else' clause is not supported")
	}
	return &WhileStmt{Pos: Pos{LineNo: t.Line}, Test: test, Body: body}, nil
}

func (p *parser) parseDef() (Stmt, error) {
	t, err := p.expect(KwDef)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(Name)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}

	params := []string{}
	if !p.at(RParen) {
		for {
			if p.at(Star) || p.at(DoubleStar) {
				return nil, errAt(p.peek().Line, "*args and **kwargs are not supported")
			}
			param, err := p.expect(Name)
			if err != nil {
				return nil, err
			}
			if p.at(Assign) {
				return nil, errAt(param.Line, "default parameter values are not supported")
			}
			params = append(params, param.Lit)
			if !p.accept(Comma) {
				break
			}
		}
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &DefStmt{Pos: Pos{LineNo: t.Line}, Name: name.Lit, Params: params, Body: body}, nil
}

// parseBlock parses ": NEWLINE INDENT stmts DEDENT". Single-line suites
// are rejected.
func (p *parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(Colon); err != nil {
		return nil, err
	}
	if t := p.peek(); t.Kind != Newline {
		return nil, errAt(t.Line, "single-line blocks are not supported; put the body on its own indented line")
	}
	p.next()
	if _, err := p.expect(Indent); err != nil {
		return nil, err
	}
	return p.parseStatements(Dedent)
}

// Expression grammar, lowest precedence first.

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if !p.at(KwOr) {
		return left, nil
	}
	values := []Expr{left}
	for p.accept(KwOr) {
		v, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &BoolOpExpr{Pos: Pos{LineNo: left.Line()}, Op: OpOr, Values: values}, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if !p.at(KwAnd) {
		return left, nil
	}
	values := []Expr{left}
	for p.accept(KwAnd) {
		v, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &BoolOpExpr{Pos: Pos{LineNo: left.Line()}, Op: OpAnd, Values: values}, nil
}

func (p *parser) parseNot() (Expr, error) {
	if t := p.peek(); t.Kind == KwNot {
		p.next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Pos: Pos{LineNo: t.Line}, Op: OpNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}

	var ops []CompareOp
	var comparators []Expr
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comparators = append(comparators, right)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &CompareExpr{Pos: Pos{LineNo: left.Line()}, Left: left, Ops: ops, Comparators: comparators}, nil
}

// compareOp consumes a comparison operator if one is next, handling the
// two-token forms "is not" and "not in".
func (p *parser) compareOp() (CompareOp, bool) {
	switch p.peek().Kind {
	case EqEq:
		p.next()
		return OpEq, true
	case NotEq:
		p.next()
		return OpNotEq, true
	case Lt:
		p.next()
		return OpLt, true
	case LtE:
		p.next()
		return OpLtE, true
	case Gt:
		p.next()
		return OpGt, true
	case GtE:
		p.next()
		return OpGtE, true
	case KwIs:
		p.next()
		if p.accept(KwNot) {
			return OpIsNot, true
		}
		return OpIs, true
	case KwIn:
		p.next()
		return OpIn, true
	case KwNot:
		if p.tokens[p.pos+1].Kind == KwIn {
			p.next()
			p.next()
			return OpNotIn, true
		}
	}
	return 0, false
}

func (p *parser) parseBitOr() (Expr, error) {
	return p.parseBinaryLevel(p.parseBitXor, map[Kind]BinaryOp{Pipe: OpBitOr})
}

func (p *parser) parseBitXor() (Expr, error) {
	return p.parseBinaryLevel(p.parseBitAnd, map[Kind]BinaryOp{Caret: OpBitXor})
}

func (p *parser) parseBitAnd() (Expr, error) {
	return p.parseBinaryLevel(p.parseShift, map[Kind]BinaryOp{Amp: OpBitAnd})
}

func (p *parser) parseShift() (Expr, error) {
	return p.parseBinaryLevel(p.parseArith, map[Kind]BinaryOp{LShift: OpLShift, RShift: OpRShift})
}

func (p *parser) parseArith() (Expr, error) {
	return p.parseBinaryLevel(p.parseTerm, map[Kind]BinaryOp{Plus: OpAdd, Minus: OpSub})
}

func (p *parser) parseTerm() (Expr, error) {
	return p.parseBinaryLevel(p.parseFactor, map[Kind]BinaryOp{
		Star: OpMul, Slash: OpDiv, DoubleSlash: OpFloorDiv, Percent: OpMod, At: OpMatMul,
	})
}

func (p *parser) parseBinaryLevel(operand func() (Expr, error), ops map[Kind]BinaryOp) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek().Kind]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Pos: Pos{LineNo: left.Line()}, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseFactor() (Expr, error) {
	t := p.peek()
	var op UnaryOp
	switch t.Kind {
	case Minus:
		op = OpNeg
	case Plus:
		op = OpPos
	case Tilde:
		op = OpInvert
	default:
		return p.parsePower()
	}
	p.next()
	operand, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Pos: Pos{LineNo: t.Line}, Op: op, Operand: operand}, nil
}

// parsePower handles the right-associative ** operator.
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if !p.accept(DoubleStar) {
		return base, nil
	}
	exp, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Pos: Pos{LineNo: base.Line()}, Op: OpPow, Left: base, Right: exp}, nil
}

func (p *parser) parseAtom() (Expr, error) {
	t := p.peek()
	switch t.Kind {
	case IntLit:
		p.next()
		v, err := strconv.ParseInt(t.Lit, 10, 64)
		if err != nil {
			return nil, errAt(t.Line, "integer literal %q out of range", t.Lit)
		}
		return &IntExpr{Pos: Pos{LineNo: t.Line}, Value: v}, nil
	case FloatLit:
		p.next()
		v, err := strconv.ParseFloat(t.Lit, 64)
		if err != nil {
			return nil, errAt(t.Line, "malformed float literal %q", t.Lit)
		}
		return &FloatExpr{Pos: Pos{LineNo: t.Line}, Value: v}, nil
	case StrLit:
		p.next()
		return &StrExpr{Pos: Pos{LineNo: t.Line}, Value: t.Lit}, nil
	case KwTrue:
		p.next()
		return &BoolExpr{Pos: Pos{LineNo: t.Line}, Value: true}, nil
	case KwFalse:
		p.next()
		return &BoolExpr{Pos: Pos{LineNo: t.Line}, Value: false}, nil
	case KwNone:
		p.next()
		return &NoneExpr{Pos: Pos{LineNo: t.Line}}, nil
	case Name:
		if unsupportedKeywords[t.Lit] {
			return nil, errAt(t.Line, "'%s' is not supported", t.Lit)
		}
		p.next()
		if p.at(LParen) {
			return p.parseCall(t)
		}
		return &NameExpr{Pos: Pos{LineNo: t.Line}, Ident: t.Lit}, nil
	case LParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RParen); err != nil {
			return nil, err
		}
		if p.at(LParen) {
			return nil, errAt(t.Line, "only plain function names can be called")
		}
		return inner, nil
	default:
		return nil, errAt(t.Line, "unexpected %s in expression", describe(t))
	}
}

func (p *parser) parseCall(fn Token) (Expr, error) {
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	args := []Expr{}
	if !p.at(RParen) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.at(Assign) {
				return nil, errAt(p.peek().Line, "keyword arguments are not supported")
			}
			args = append(args, arg)
			if !p.accept(Comma) {
				break
			}
		}
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	if p.at(LParen) {
		return nil, errAt(fn.Line, "only plain function names can be called")
	}
	return &CallExpr{Pos: Pos{LineNo: fn.Line}, Func: fn.Lit, Args: args}, nil
}
