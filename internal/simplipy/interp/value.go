package interp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

// A RuntimeError is a fault raised while stepping a program, tagged with
// the line of the offending instruction.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func runtimeErr(line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Value is a SimpliPy runtime value. All values are immutable.
type Value interface {
	// Truthy reports the value's boolean interpretation.
	Truthy() bool
	// Repr renders the value the way the language would display it.
	Repr() string
	// TypeName is the user-facing name of the value's type.
	TypeName() string
}

type (
	// Int is an integer.
	Int int64

	// Float is a floating point number.
	Float float64

	// Bool is True or False.
	Bool bool

	// Str is a string.
	Str string

	// None is the unit value.
	None struct{}

	// Bottom marks a declared-but-unbound local. Reading one is a
	// runtime error.
	Bottom struct{}

	// Closure is a function value: the entry line of its body and its
	// formal parameters.
	Closure struct {
		Line    int      `json:"line"`
		Formals []string `json:"formals"`
	}
)

func (v Int) Truthy() bool   { return v != 0 }
func (v Float) Truthy() bool { return v != 0 }
func (v Bool) Truthy() bool  { return bool(v) }
func (v Str) Truthy() bool   { return v != "" }
func (None) Truthy() bool    { return false }
func (Bottom) Truthy() bool  { return false }
func (Closure) Truthy() bool { return true }

func (v Int) Repr() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float) Repr() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Bool) Repr() string {
	if v {
		return "True"
	}
	return "False"
}
func (v Str) Repr() string  { return strconv.Quote(string(v)) }
func (None) Repr() string   { return "None" }
func (Bottom) Repr() string { return "⊥" }
func (v Closure) Repr() string {
	return fmt.Sprintf("(%d, [%s])", v.Line, strings.Join(v.Formals, ", "))
}

func (Int) TypeName() string     { return "int" }
func (Float) TypeName() string   { return "float" }
func (Bool) TypeName() string    { return "bool" }
func (Str) TypeName() string     { return "str" }
func (None) TypeName() string    { return "NoneType" }
func (Bottom) TypeName() string  { return "bottom" }
func (Closure) TypeName() string { return "function" }

// MarshalJSON renders None as null.
func (None) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON renders an unbound local as its display glyph.
func (Bottom) MarshalJSON() ([]byte, error) { return json.Marshal("⊥") }

// MarshalJSON wraps closures so clients can distinguish them from plain
// objects.
func (v Closure) MarshalJSON() ([]byte, error) {
	type payload Closure
	return json.Marshal(map[string]payload{"closure": payload(v)})
}

// numeric coerces ints, floats and bools into a common arithmetic
// representation. ok is false for every other type.
func numeric(v Value) (i int64, f float64, isInt, ok bool) {
	switch n := v.(type) {
	case Int:
		return int64(n), float64(n), true, true
	case Bool:
		if n {
			return 1, 1, true, true
		}
		return 0, 0, true, true
	case Float:
		return 0, float64(n), false, true
	}
	return 0, 0, false, false
}

func unaryOp(op syntax.UnaryOp, v Value, line int) (Value, error) {
	if op == syntax.OpNot {
		if _, isBottom := v.(Bottom); isBottom {
			return nil, runtimeErr(line, "operand is unbound")
		}
		return Bool(!v.Truthy()), nil
	}

	i, f, isInt, ok := numeric(v)
	if !ok {
		return nil, runtimeErr(line, "bad operand type for unary operator: %s", v.TypeName())
	}
	switch op {
	case syntax.OpNeg:
		if isInt {
			return Int(-i), nil
		}
		return Float(-f), nil
	case syntax.OpPos:
		if isInt {
			return Int(i), nil
		}
		return Float(f), nil
	case syntax.OpInvert:
		if !isInt {
			return nil, runtimeErr(line, "bad operand type for unary ~: %s", v.TypeName())
		}
		return Int(^i), nil
	}
	return nil, runtimeErr(line, "unsupported unary operator")
}

//nolint:gocyclo // one arm per operator; splitting would obscure the table
func binaryOp(op syntax.BinaryOp, left, right Value, line int) (Value, error) {
	// String forms first: concatenation, repetition, formatting are not
	// supported beyond + and *.
	if ls, lok := left.(Str); lok {
		switch {
		case op == syntax.OpAdd:
			if rs, rok := right.(Str); rok {
				return ls + rs, nil
			}
		case op == syntax.OpMul:
			if n, isInt := right.(Int); isInt {
				return repeatStr(ls, int64(n)), nil
			}
		}
		return nil, typeErr(op, left, right, line)
	}
	if rs, rok := right.(Str); rok {
		if op == syntax.OpMul {
			if n, isInt := left.(Int); isInt {
				return repeatStr(rs, int64(n)), nil
			}
		}
		return nil, typeErr(op, left, right, line)
	}

	li, lf, lInt, lok := numeric(left)
	ri, rf, rInt, rok := numeric(right)
	if !lok || !rok {
		return nil, typeErr(op, left, right, line)
	}
	bothInt := lInt && rInt

	switch op {
	case syntax.OpAdd:
		if bothInt {
			return Int(li + ri), nil
		}
		return Float(lf + rf), nil
	case syntax.OpSub:
		if bothInt {
			return Int(li - ri), nil
		}
		return Float(lf - rf), nil
	case syntax.OpMul:
		if bothInt {
			return Int(li * ri), nil
		}
		return Float(lf * rf), nil
	case syntax.OpDiv:
		if rf == 0 {
			return nil, runtimeErr(line, "division by zero")
		}
		return Float(lf / rf), nil
	case syntax.OpFloorDiv:
		if bothInt {
			if ri == 0 {
				return nil, runtimeErr(line, "division by zero")
			}
			return Int(floorDiv(li, ri)), nil
		}
		if rf == 0 {
			return nil, runtimeErr(line, "division by zero")
		}
		return Float(math.Floor(lf / rf)), nil
	case syntax.OpMod:
		if bothInt {
			if ri == 0 {
				return nil, runtimeErr(line, "modulo by zero")
			}
			return Int(floorMod(li, ri)), nil
		}
		if rf == 0 {
			return nil, runtimeErr(line, "modulo by zero")
		}
		m := math.Mod(lf, rf)
		if m != 0 && (m < 0) != (rf < 0) {
			m += rf
		}
		return Float(m), nil
	case syntax.OpPow:
		if bothInt && ri >= 0 {
			return Int(intPow(li, ri)), nil
		}
		return Float(math.Pow(lf, rf)), nil
	case syntax.OpLShift:
		if !bothInt {
			return nil, typeErr(op, left, right, line)
		}
		if ri < 0 {
			return nil, runtimeErr(line, "negative shift count")
		}
		return Int(li << uint64(ri)), nil
	case syntax.OpRShift:
		if !bothInt {
			return nil, typeErr(op, left, right, line)
		}
		if ri < 0 {
			return nil, runtimeErr(line, "negative shift count")
		}
		return Int(li >> uint64(ri)), nil
	case syntax.OpBitOr:
		if !bothInt {
			return nil, typeErr(op, left, right, line)
		}
		return Int(li | ri), nil
	case syntax.OpBitXor:
		if !bothInt {
			return nil, typeErr(op, left, right, line)
		}
		return Int(li ^ ri), nil
	case syntax.OpBitAnd:
		if !bothInt {
			return nil, typeErr(op, left, right, line)
		}
		return Int(li & ri), nil
	case syntax.OpMatMul:
		return nil, typeErr(op, left, right, line)
	}
	return nil, runtimeErr(line, "unsupported binary operator")
}

func typeErr(op syntax.BinaryOp, left, right Value, line int) error {
	sym := map[syntax.BinaryOp]string{
		syntax.OpAdd: "+", syntax.OpSub: "-", syntax.OpMul: "*", syntax.OpDiv: "/",
		syntax.OpFloorDiv: "//", syntax.OpMod: "%", syntax.OpPow: "**",
		syntax.OpLShift: "<<", syntax.OpRShift: ">>", syntax.OpBitOr: "|",
		syntax.OpBitXor: "^", syntax.OpBitAnd: "&", syntax.OpMatMul: "@",
	}[op]
	return runtimeErr(line, "unsupported operand type(s) for %s: %s and %s", sym, left.TypeName(), right.TypeName())
}

func repeatStr(s Str, n int64) Str {
	if n <= 0 {
		return ""
	}
	return Str(strings.Repeat(string(s), int(n)))
}

// floorDiv implements Python's floor division for integers.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod implements Python's modulo: the result has the divisor's sign.
func floorMod(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func compareOp(op syntax.CompareOp, left, right Value, line int) (bool, error) {
	switch op {
	case syntax.OpEq:
		return valueEq(left, right), nil
	case syntax.OpNotEq:
		return !valueEq(left, right), nil
	case syntax.OpIs:
		return valueIs(left, right), nil
	case syntax.OpIsNot:
		return !valueIs(left, right), nil
	case syntax.OpIn, syntax.OpNotIn:
		ls, lok := left.(Str)
		rs, rok := right.(Str)
		if !lok || !rok {
			return false, runtimeErr(line, "'in' requires string operands, got %s and %s", left.TypeName(), right.TypeName())
		}
		contained := strings.Contains(string(rs), string(ls))
		if op == syntax.OpNotIn {
			return !contained, nil
		}
		return contained, nil
	}

	// Ordering comparisons.
	if ls, lok := left.(Str); lok {
		if rs, rok := right.(Str); rok {
			return orderResult(op, strings.Compare(string(ls), string(rs))), nil
		}
		return false, orderErr(op, left, right, line)
	}
	_, lf, _, lok := numeric(left)
	_, rf, _, rok := numeric(right)
	if !lok || !rok {
		return false, orderErr(op, left, right, line)
	}
	switch {
	case lf < rf:
		return orderResult(op, -1), nil
	case lf > rf:
		return orderResult(op, 1), nil
	default:
		return orderResult(op, 0), nil
	}
}

func orderResult(op syntax.CompareOp, cmp int) bool {
	switch op {
	case syntax.OpLt:
		return cmp < 0
	case syntax.OpLtE:
		return cmp <= 0
	case syntax.OpGt:
		return cmp > 0
	case syntax.OpGtE:
		return cmp >= 0
	}
	return false
}

func orderErr(op syntax.CompareOp, left, right Value, line int) error {
	sym := map[syntax.CompareOp]string{
		syntax.OpLt: "<", syntax.OpLtE: "<=", syntax.OpGt: ">", syntax.OpGtE: ">=",
	}[op]
	return runtimeErr(line, "'%s' not supported between %s and %s", sym, left.TypeName(), right.TypeName())
}

// valueEq is Python equality: numbers compare across int/float/bool,
// everything else requires matching types.
func valueEq(left, right Value) bool {
	_, lf, _, lok := numeric(left)
	_, rf, _, rok := numeric(right)
	if lok && rok {
		return lf == rf
	}
	switch l := left.(type) {
	case Str:
		r, ok := right.(Str)
		return ok && l == r
	case None:
		_, ok := right.(None)
		return ok
	case Closure:
		r, ok := right.(Closure)
		if !ok || l.Line != r.Line || len(l.Formals) != len(r.Formals) {
			return false
		}
		for i := range l.Formals {
			if l.Formals[i] != r.Formals[i] {
				return false
			}
		}
		return true
	case Bottom:
		_, ok := right.(Bottom)
		return ok
	}
	return false
}

// valueIs approximates identity for a language of immutable values:
// same type and equal. None is None and flag is True behave exactly as
// in Python; distinct-but-equal aggregates do not exist here.
func valueIs(left, right Value) bool {
	if fmt.Sprintf("%T", left) != fmt.Sprintf("%T", right) {
		return false
	}
	return valueEq(left, right)
}
