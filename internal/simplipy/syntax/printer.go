package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a module back to canonical SimpliPy source with
// four-space indentation. The output always re-parses, which is what
// the simplifier relies on to hand clients text with real line numbers.
func Print(m *Module) string {
	var b strings.Builder
	printStmts(&b, m.Body, 0)
	return b.String()
}

const indentUnit = "    "

func printStmts(b *strings.Builder, stmts []Stmt, depth int) {
	for _, stmt := range stmts {
		printStmt(b, stmt, depth)
	}
}

func printStmt(b *strings.Builder, stmt Stmt, depth int) {
	ind := strings.Repeat(indentUnit, depth)
	switch s := stmt.(type) {
	case *PassStmt:
		b.WriteString(ind + "pass\n")
	case *BreakStmt:
		b.WriteString(ind + "break\n")
	case *ContinueStmt:
		b.WriteString(ind + "continue\n")
	case *GlobalStmt:
		b.WriteString(ind + "global " + strings.Join(s.Names, ", ") + "\n")
	case *NonlocalStmt:
		b.WriteString(ind + "nonlocal " + strings.Join(s.Names, ", ") + "\n")
	case *AssignStmt:
		b.WriteString(ind + s.Target + " = " + ExprString(s.Value) + "\n")
	case *ExprStmt:
		b.WriteString(ind + ExprString(s.Value) + "\n")
	case *ReturnStmt:
		if s.Value == nil {
			b.WriteString(ind + "return\n")
		} else {
			b.WriteString(ind + "return " + ExprString(s.Value) + "\n")
		}
	case *IfStmt:
		b.WriteString(ind + "if " + ExprString(s.Test) + ":\n")
		printStmts(b, s.Body, depth+1)
		if len(s.Else) > 0 {
			b.WriteString(ind + "else:\n")
			printStmts(b, s.Else, depth+1)
		}
	case *WhileStmt:
		b.WriteString(ind + "while " + ExprString(s.Test) + ":\n")
		printStmts(b, s.Body, depth+1)
	case *DefStmt:
		b.WriteString(ind + "def " + s.Name + "(" + strings.Join(s.Params, ", ") + "):\n")
		printStmts(b, s.Body, depth+1)
	}
}

// Operator precedence levels for printing; higher binds tighter.
const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precArith
	precTerm
	precUnary
	precPower
	precAtom
)

var binaryPrec = map[BinaryOp]int{
	OpBitOr:    precBitOr,
	OpBitXor:   precBitXor,
	OpBitAnd:   precBitAnd,
	OpLShift:   precShift,
	OpRShift:   precShift,
	OpAdd:      precArith,
	OpSub:      precArith,
	OpMul:      precTerm,
	OpDiv:      precTerm,
	OpFloorDiv: precTerm,
	OpMod:      precTerm,
	OpMatMul:   precTerm,
	OpPow:      precPower,
}

var binarySym = map[BinaryOp]string{
	OpBitOr:    "|",
	OpBitXor:   "^",
	OpBitAnd:   "&",
	OpLShift:   "<<",
	OpRShift:   ">>",
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpMatMul:   "@",
	OpPow:      "**",
}

var compareSym = map[CompareOp]string{
	OpEq:    "==",
	OpNotEq: "!=",
	OpLt:    "<",
	OpLtE:   "<=",
	OpGt:    ">",
	OpGtE:   ">=",
	OpIs:    "is",
	OpIsNot: "is not",
	OpIn:    "in",
	OpNotIn: "not in",
}

var unarySym = map[UnaryOp]string{
	OpNeg:    "-",
	OpPos:    "+",
	OpNot:    "not ",
	OpInvert: "~",
}

// ExprString renders a single expression.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e, 0)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr, outer int) {
	switch x := e.(type) {
	case *IntExpr:
		b.WriteString(strconv.FormatInt(x.Value, 10))
	case *FloatExpr:
		s := strconv.FormatFloat(x.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		b.WriteString(s)
	case *StrExpr:
		b.WriteString(quote(x.Value))
	case *BoolExpr:
		if x.Value {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case *NoneExpr:
		b.WriteString("None")
	case *NameExpr:
		b.WriteString(x.Ident)
	case *UnaryExpr:
		prec := precUnary
		if x.Op == OpNot {
			prec = precNot
		}
		parenthesize(b, outer > prec, func() {
			b.WriteString(unarySym[x.Op])
			writeExpr(b, x.Operand, prec)
		})
	case *BinaryExpr:
		prec := binaryPrec[x.Op]
		parenthesize(b, outer > prec, func() {
			if x.Op == OpPow {
				// Right associative.
				writeExpr(b, x.Left, prec+1)
				b.WriteString(" ** ")
				writeExpr(b, x.Right, prec)
				return
			}
			writeExpr(b, x.Left, prec)
			fmt.Fprintf(b, " %s ", binarySym[x.Op])
			writeExpr(b, x.Right, prec+1)
		})
	case *BoolOpExpr:
		prec := precOr
		sym := " or "
		if x.Op == OpAnd {
			prec = precAnd
			sym = " and "
		}
		parenthesize(b, outer > prec, func() {
			for i, v := range x.Values {
				if i > 0 {
					b.WriteString(sym)
				}
				writeExpr(b, v, prec+1)
			}
		})
	case *CompareExpr:
		parenthesize(b, outer > precCompare, func() {
			writeExpr(b, x.Left, precCompare+1)
			for i, op := range x.Ops {
				fmt.Fprintf(b, " %s ", compareSym[op])
				writeExpr(b, x.Comparators[i], precCompare+1)
			}
		})
	case *CallExpr:
		b.WriteString(x.Func)
		b.WriteByte('(')
		for i, arg := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, arg, 0)
		}
		b.WriteByte(')')
	}
}

func parenthesize(b *strings.Builder, need bool, inner func()) {
	if need {
		b.WriteByte('(')
	}
	inner()
	if need {
		b.WriteByte(')')
	}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
