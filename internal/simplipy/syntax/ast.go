// Package syntax holds the lexer, parser, AST and printer for the
// SimpliPy source language. The grammar accepted here is a superset of
// the executable core: nested calls, if-without-else and bare returns
// parse fine so that the simplifier can repair them before compilation.
package syntax

// Node is any element of the syntax tree that carries a source line.
type Node interface {
	Line() int
}

// Pos is the position information embedded in every AST node.
type Pos struct {
	LineNo int
}

// Line reports the 1-based source line of the node.
func (p Pos) Line() int { return p.LineNo }

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpNot
	OpInvert
)

// BinaryOp enumerates binary arithmetic and bitwise operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpLShift
	OpRShift
	OpBitOr
	OpBitXor
	OpBitAnd
	OpMatMul
)

// CompareOp enumerates comparison operators.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNotEq
	OpLt
	OpLtE
	OpGt
	OpGtE
	OpIs
	OpIsNot
	OpIn
	OpNotIn
)

// BoolOpKind enumerates the short-circuit boolean operators.
type BoolOpKind int

const (
	OpAnd BoolOpKind = iota
	OpOr
)

type (
	// IntExpr is an integer literal.
	IntExpr struct {
		Pos
		Value int64
	}

	// FloatExpr is a floating point literal.
	FloatExpr struct {
		Pos
		Value float64
	}

	// StrExpr is a string literal, already unescaped.
	StrExpr struct {
		Pos
		Value string
	}

	// BoolExpr is True or False.
	BoolExpr struct {
		Pos
		Value bool
	}

	// NoneExpr is the None literal.
	NoneExpr struct {
		Pos
	}

	// NameExpr is a variable reference.
	NameExpr struct {
		Pos
		Ident string
	}

	// UnaryExpr applies a unary operator.
	UnaryExpr struct {
		Pos
		Op      UnaryOp
		Operand Expr
	}

	// BinaryExpr applies a binary operator.
	BinaryExpr struct {
		Pos
		Op    BinaryOp
		Left  Expr
		Right Expr
	}

	// BoolOpExpr chains operands under a single and/or with
	// short-circuit evaluation.
	BoolOpExpr struct {
		Pos
		Op     BoolOpKind
		Values []Expr
	}

	// CompareExpr is a possibly chained comparison: Left Ops[0]
	// Comparators[0] Ops[1] Comparators[1] ...
	CompareExpr struct {
		Pos
		Left        Expr
		Ops         []CompareOp
		Comparators []Expr
	}

	// CallExpr calls a function held in a plain variable. The executable
	// core only admits it as the entire right-hand side of an
	// assignment; anywhere else the simplifier must hoist it first.
	CallExpr struct {
		Pos
		Func string
		Args []Expr
	}
)

func (*IntExpr) exprNode()     {}
func (*FloatExpr) exprNode()   {}
func (*StrExpr) exprNode()     {}
func (*BoolExpr) exprNode()    {}
func (*NoneExpr) exprNode()    {}
func (*NameExpr) exprNode()    {}
func (*UnaryExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}
func (*BoolOpExpr) exprNode()  {}
func (*CompareExpr) exprNode() {}
func (*CallExpr) exprNode()    {}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

type (
	// PassStmt is the no-op statement.
	PassStmt struct {
		Pos
	}

	// BreakStmt exits the enclosing while loop.
	BreakStmt struct {
		Pos
	}

	// ContinueStmt jumps back to the enclosing while test.
	ContinueStmt struct {
		Pos
	}

	// GlobalStmt declares names as referring to the global environment.
	GlobalStmt struct {
		Pos
		Names []string
	}

	// NonlocalStmt declares names as referring to an enclosing function
	// environment.
	NonlocalStmt struct {
		Pos
		Names []string
	}

	// AssignStmt binds the value of an expression to a single name.
	AssignStmt struct {
		Pos
		Target string
		Value  Expr
	}

	// ExprStmt is a bare expression used as a statement. The executable
	// core rejects it; the simplifier rewrites calls into assignments
	// and drops everything else as pass.
	ExprStmt struct {
		Pos
		Value Expr
	}

	// ReturnStmt returns from a function. Value is nil for a bare
	// return, which the simplifier rewrites to return None.
	ReturnStmt struct {
		Pos
		Value Expr
	}

	// IfStmt branches on a test. Else may be empty until the simplifier
	// supplies the mandatory else block.
	IfStmt struct {
		Pos
		Test Expr
		Body []Stmt
		Else []Stmt
	}

	// WhileStmt loops while the test holds.
	WhileStmt struct {
		Pos
		Test Expr
		Body []Stmt
	}

	// DefStmt defines a function.
	DefStmt struct {
		Pos
		Name   string
		Params []string
		Body   []Stmt
	}
)

func (*PassStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*GlobalStmt) stmtNode()   {}
func (*NonlocalStmt) stmtNode() {}
func (*AssignStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*DefStmt) stmtNode()      {}

// Module is a parsed source file.
type Module struct {
	Body []Stmt
}
