// Package simplify desugars surface SimpliPy programs into the strict
// executable core: nested calls are hoisted into temporary assignments,
// missing else blocks, trailing continues and final returns are
// supplied, and bare expression statements are rewritten or dropped.
package simplify

import (
	"fmt"

	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

// Source parses, simplifies and re-prints a program. The output is
// canonical source whose line numbers are real, so it can be submitted
// for execution directly.
func Source(code string) (string, error) {
	m, err := syntax.Parse(code)
	if err != nil {
		return "", err
	}
	simplified, err := Module(m)
	if err != nil {
		return "", err
	}
	return syntax.Print(simplified), nil
}

// Module rewrites a parsed module into the executable core.
func Module(m *syntax.Module) (*syntax.Module, error) {
	t := &transformer{}
	body, err := t.stmts(m.Body)
	if err != nil {
		return nil, err
	}
	return &syntax.Module{Body: body}, nil
}

type transformer struct {
	tempCount int
}

func (t *transformer) tempName() string {
	name := fmt.Sprintf("_simplipy_temp_%d", t.tempCount)
	t.tempCount++
	return name
}

func (t *transformer) stmts(in []syntax.Stmt) ([]syntax.Stmt, error) {
	var out []syntax.Stmt
	for _, stmt := range in {
		rewritten, err := t.stmt(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, rewritten...)
	}
	return out, nil
}

func (t *transformer) stmt(stmt syntax.Stmt) ([]syntax.Stmt, error) {
	switch s := stmt.(type) {
	case *syntax.AssignStmt:
		return t.assign(s)
	case *syntax.ExprStmt:
		return t.exprStmt(s)
	case *syntax.ReturnStmt:
		return t.ret(s)
	case *syntax.IfStmt:
		return t.ifStmt(s)
	case *syntax.WhileStmt:
		return t.whileStmt(s)
	case *syntax.DefStmt:
		return t.defStmt(s)
	default:
		// pass, break, continue, global, nonlocal need no rewriting.
		return []syntax.Stmt{stmt}, nil
	}
}

func (t *transformer) assign(s *syntax.AssignStmt) ([]syntax.Stmt, error) {
	// A call as the entire right-hand side is the core's native call
	// form; only its arguments need hoisting.
	if call, ok := s.Value.(*syntax.CallExpr); ok {
		newArgs, hoisted, err := t.hoistAll(call.Args, call.Line())
		if err != nil {
			return nil, err
		}
		final := &syntax.AssignStmt{
			Pos:    syntax.Pos{LineNo: s.Line()},
			Target: s.Target,
			Value:  &syntax.CallExpr{Pos: syntax.Pos{LineNo: call.Line()}, Func: call.Func, Args: newArgs},
		}
		return append(hoisted, final), nil
	}

	newValue, hoisted, err := t.expr(s.Value, s.Line())
	if err != nil {
		return nil, err
	}
	final := &syntax.AssignStmt{Pos: syntax.Pos{LineNo: s.Line()}, Target: s.Target, Value: newValue}
	return append(hoisted, final), nil
}

func (t *transformer) exprStmt(s *syntax.ExprStmt) ([]syntax.Stmt, error) {
	if call, ok := s.Value.(*syntax.CallExpr); ok {
		// A standalone call keeps its effect by landing in a temporary.
		newArgs, hoisted, err := t.hoistAll(call.Args, call.Line())
		if err != nil {
			return nil, err
		}
		assign := &syntax.AssignStmt{
			Pos:    syntax.Pos{LineNo: s.Line()},
			Target: t.tempName(),
			Value:  &syntax.CallExpr{Pos: syntax.Pos{LineNo: call.Line()}, Func: call.Func, Args: newArgs},
		}
		return append(hoisted, assign), nil
	}
	// Any other bare expression has no effect; drop it as pass.
	return []syntax.Stmt{&syntax.PassStmt{Pos: syntax.Pos{LineNo: s.Line()}}}, nil
}

func (t *transformer) ret(s *syntax.ReturnStmt) ([]syntax.Stmt, error) {
	if s.Value == nil {
		return []syntax.Stmt{&syntax.ReturnStmt{
			Pos:   syntax.Pos{LineNo: s.Line()},
			Value: &syntax.NoneExpr{Pos: syntax.Pos{LineNo: s.Line()}},
		}}, nil
	}
	newValue, hoisted, err := t.expr(s.Value, s.Line())
	if err != nil {
		return nil, err
	}
	final := &syntax.ReturnStmt{Pos: syntax.Pos{LineNo: s.Line()}, Value: newValue}
	return append(hoisted, final), nil
}

func (t *transformer) ifStmt(s *syntax.IfStmt) ([]syntax.Stmt, error) {
	newTest, hoisted, err := t.expr(s.Test, s.Line())
	if err != nil {
		return nil, err
	}
	body, err := t.stmts(s.Body)
	if err != nil {
		return nil, err
	}
	var orelse []syntax.Stmt
	if len(s.Else) > 0 {
		orelse, err = t.stmts(s.Else)
		if err != nil {
			return nil, err
		}
	} else {
		orelse = []syntax.Stmt{&syntax.PassStmt{Pos: syntax.Pos{LineNo: s.Line()}}}
	}
	final := &syntax.IfStmt{Pos: syntax.Pos{LineNo: s.Line()}, Test: newTest, Body: body, Else: orelse}
	return append(hoisted, final), nil
}

func (t *transformer) whileStmt(s *syntax.WhileStmt) ([]syntax.Stmt, error) {
	newTest, hoisted, err := t.expr(s.Test, s.Line())
	if err != nil {
		return nil, err
	}
	if len(hoisted) > 0 {
		// Hoisting out of a loop test would evaluate the call once
		// instead of per iteration.
		return nil, &syntax.SyntaxError{Line: s.Line(), Msg: "function calls in while conditions cannot be simplified; assign the result inside the loop"}
	}
	body, err := t.stmts(s.Body)
	if err != nil {
		return nil, err
	}
	// Falling off the end of a loop body exits the loop, so an explicit
	// continue is required to iterate.
	if n := len(body); n == 0 || !isContinue(body[n-1]) {
		body = append(body, &syntax.ContinueStmt{Pos: syntax.Pos{LineNo: s.Line()}})
	}
	return []syntax.Stmt{&syntax.WhileStmt{Pos: syntax.Pos{LineNo: s.Line()}, Test: newTest, Body: body}}, nil
}

func (t *transformer) defStmt(s *syntax.DefStmt) ([]syntax.Stmt, error) {
	body, err := t.stmts(s.Body)
	if err != nil {
		return nil, err
	}
	if n := len(body); n == 0 || !isReturn(body[n-1]) {
		body = append(body, &syntax.ReturnStmt{
			Pos:   syntax.Pos{LineNo: s.Line()},
			Value: &syntax.NoneExpr{Pos: syntax.Pos{LineNo: s.Line()}},
		})
	}
	return []syntax.Stmt{&syntax.DefStmt{Pos: syntax.Pos{LineNo: s.Line()}, Name: s.Name, Params: s.Params, Body: body}}, nil
}

func isContinue(s syntax.Stmt) bool {
	_, ok := s.(*syntax.ContinueStmt)
	return ok
}

func isReturn(s syntax.Stmt) bool {
	_, ok := s.(*syntax.ReturnStmt)
	return ok
}

// expr rewrites an expression, hoisting every call it contains into a
// temporary assignment emitted before the owning statement.
func (t *transformer) expr(e syntax.Expr, line int) (syntax.Expr, []syntax.Stmt, error) {
	switch x := e.(type) {
	case *syntax.CallExpr:
		newArgs, hoisted, err := t.hoistAll(x.Args, line)
		if err != nil {
			return nil, nil, err
		}
		temp := t.tempName()
		assign := &syntax.AssignStmt{
			Pos:    syntax.Pos{LineNo: line},
			Target: temp,
			Value:  &syntax.CallExpr{Pos: syntax.Pos{LineNo: x.Line()}, Func: x.Func, Args: newArgs},
		}
		hoisted = append(hoisted, assign)
		return &syntax.NameExpr{Pos: syntax.Pos{LineNo: x.Line()}, Ident: temp}, hoisted, nil
	case *syntax.UnaryExpr:
		operand, hoisted, err := t.expr(x.Operand, line)
		if err != nil {
			return nil, nil, err
		}
		return &syntax.UnaryExpr{Pos: x.Pos, Op: x.Op, Operand: operand}, hoisted, nil
	case *syntax.BinaryExpr:
		left, h1, err := t.expr(x.Left, line)
		if err != nil {
			return nil, nil, err
		}
		right, h2, err := t.expr(x.Right, line)
		if err != nil {
			return nil, nil, err
		}
		return &syntax.BinaryExpr{Pos: x.Pos, Op: x.Op, Left: left, Right: right}, append(h1, h2...), nil
	case *syntax.BoolOpExpr:
		values, hoisted, err := t.hoistAll(x.Values, line)
		if err != nil {
			return nil, nil, err
		}
		return &syntax.BoolOpExpr{Pos: x.Pos, Op: x.Op, Values: values}, hoisted, nil
	case *syntax.CompareExpr:
		left, hoisted, err := t.expr(x.Left, line)
		if err != nil {
			return nil, nil, err
		}
		comparators := make([]syntax.Expr, 0, len(x.Comparators))
		for _, c := range x.Comparators {
			nc, h, err := t.expr(c, line)
			if err != nil {
				return nil, nil, err
			}
			hoisted = append(hoisted, h...)
			comparators = append(comparators, nc)
		}
		return &syntax.CompareExpr{Pos: x.Pos, Left: left, Ops: x.Ops, Comparators: comparators}, hoisted, nil
	default:
		// Literals and names are already core expressions.
		return e, nil, nil
	}
}

func (t *transformer) hoistAll(exprs []syntax.Expr, line int) ([]syntax.Expr, []syntax.Stmt, error) {
	newExprs := make([]syntax.Expr, 0, len(exprs))
	var hoisted []syntax.Stmt
	for _, e := range exprs {
		ne, h, err := t.expr(e, line)
		if err != nil {
			return nil, nil, err
		}
		hoisted = append(hoisted, h...)
		newExprs = append(newExprs, ne)
	}
	return newExprs, hoisted, nil
}
