package interp

import (
	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

// globalEnvID identifies the module-level environment.
const globalEnvID = 0

// A Frame is one continuation entry: the line about to execute and the
// environment it executes in.
type Frame struct {
	Line int `json:"line"`
	Env  int `json:"env"`
}

// State is the complete machine state of a running program: the
// environment map, the parent chain between environments and the
// continuation stack. It advances one instruction per Step call.
type State struct {
	prog   *Program
	tables *Tables

	envs    map[int]map[string]Value
	parents map[int]int
	stack   []Frame

	nextEnvID int
}

// NewState builds the initial state for a compiled program, positioned
// at its first instruction with an empty global environment.
func NewState(prog *Program) (*State, error) {
	tables, err := BuildTables(prog)
	if err != nil {
		return nil, err
	}
	return &State{
		prog:      prog,
		tables:    tables,
		envs:      map[int]map[string]Value{globalEnvID: {}},
		parents:   map[int]int{},
		stack:     []Frame{{Line: prog.Body.First(), Env: globalEnvID}},
		nextEnvID: globalEnvID + 1,
	}, nil
}

// Program returns the compiled program this state runs.
func (s *State) Program() *Program { return s.prog }

// Tables returns the program's control-transfer tables.
func (s *State) Tables() *Tables { return s.tables }

func (s *State) top() *Frame { return &s.stack[len(s.stack)-1] }

// Finished reports whether the program has reached its fixed point: the
// top frame sits on a line whose next entry is itself.
func (s *State) Finished() bool {
	line := s.top().Line
	next, ok := s.tables.Next[line]
	return ok && next == line
}

// Step executes the instruction at the top frame's line. Stepping a
// finished state is a no-op.
func (s *State) Step() error {
	if s.Finished() {
		return nil
	}

	line := s.top().Line
	instr := s.prog.InstrAt(line)
	if instr == nil {
		return runtimeErr(line, "no instruction at this line")
	}

	switch in := instr.(type) {
	case *PassInstr, *BreakInstr, *ContinueInstr, *GlobalInstr, *NonlocalInstr:
		return s.advance(line)

	case *AssignInstr:
		val, err := s.eval(in.Value, line)
		if err != nil {
			return err
		}
		env, err := s.lookupEnv(in.Target, line)
		if err != nil {
			return err
		}
		env[in.Target] = val
		return s.advance(line)

	case *IfInstr:
		return s.branch(in.Cond, line)

	case *WhileInstr:
		return s.branch(in.Cond, line)

	case *DefInstr:
		body := in.Stmt().(*DefStmt).Body
		closure := Closure{Line: body.First(), Formals: in.Formals}
		env, err := s.lookupEnv(in.Name, line)
		if err != nil {
			return err
		}
		env[in.Name] = closure
		return s.advance(line)

	case *CallInstr:
		return s.call(in, line)

	case *RetInstr:
		return s.ret(in, line)
	}
	return runtimeErr(line, "unsupported instruction type %T", instr)
}

// Run steps until the program finishes, up to maxSteps instructions.
func (s *State) Run(maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if s.Finished() {
			return nil
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	if s.Finished() {
		return nil
	}
	return runtimeErr(s.top().Line, "program did not finish within %d steps", maxSteps)
}

func (s *State) advance(line int) error {
	next, ok := s.tables.Next[line]
	if !ok {
		return runtimeErr(line, "no control transfer from this line")
	}
	s.top().Line = next
	return nil
}

func (s *State) branch(cond syntax.Expr, line int) error {
	val, err := s.eval(cond, line)
	if err != nil {
		return err
	}
	table := s.tables.False
	if val.Truthy() {
		table = s.tables.True
	}
	next, ok := table[line]
	if !ok {
		return runtimeErr(line, "no control transfer from this line")
	}
	s.top().Line = next
	return nil
}

func (s *State) call(in *CallInstr, line int) error {
	fn, err := s.lookupVal(in.Func, line)
	if err != nil {
		return err
	}
	closure, ok := fn.(Closure)
	if !ok {
		return runtimeErr(line, "%q is not callable", in.Func)
	}
	if len(in.Args) != len(closure.Formals) {
		return runtimeErr(line, "%s() takes %d argument(s) but %d were given",
			in.Func, len(closure.Formals), len(in.Args))
	}

	args := make([]Value, len(in.Args))
	for i, arg := range in.Args {
		if args[i], err = s.eval(arg, line); err != nil {
			return err
		}
	}

	envID := s.nextEnvID
	s.nextEnvID++
	env := map[string]Value{}
	s.envs[envID] = env

	// Declared locals start unbound; formals shadow any local of the
	// same name with the argument value.
	body := s.prog.InstrAt(closure.Line).Stmt().Block().lexicalBlock()
	for name := range body.Locals {
		env[name] = Bottom{}
	}
	for i, name := range closure.Formals {
		env[name] = args[i]
	}

	s.parents[envID] = s.top().Env
	s.stack = append(s.stack, Frame{Line: closure.Line, Env: envID})
	return nil
}

func (s *State) ret(in *RetInstr, line int) error {
	val, err := s.eval(in.Value, line)
	if err != nil {
		return err
	}
	if len(s.stack) < 2 {
		return runtimeErr(line, "return outside of a call")
	}
	s.stack = s.stack[:len(s.stack)-1]

	callerLine := s.top().Line
	call, ok := s.prog.InstrAt(callerLine).(*CallInstr)
	if !ok {
		return runtimeErr(callerLine, "continuation does not resume at a call")
	}
	env, err := s.lookupEnv(call.Target, callerLine)
	if err != nil {
		return err
	}
	env[call.Target] = val
	return s.advance(callerLine)
}

// envChain lists the environment ids from the top frame's environment
// up the parent chain.
func (s *State) envChain() []int {
	chain := []int{s.top().Env}
	current := chain[0]
	for {
		parent, ok := s.parents[current]
		if !ok {
			return chain
		}
		chain = append(chain, parent)
		current = parent
	}
}

// lookupEnv resolves the environment a name binds in, following the
// block's scope declarations: globals go to the module environment,
// nonlocals search the chain between the current and the module
// environment, everything else searches the whole chain.
func (s *State) lookupEnv(name string, line int) (map[string]Value, error) {
	blk := s.prog.InstrAt(line).Stmt().Block().lexicalBlock()

	switch {
	case blk.Parent == nil || blk.Globals[name]:
		return s.envs[globalEnvID], nil
	case blk.Nonlocals[name]:
		chain := s.envChain()
		for _, id := range chain[1 : len(chain)-1] {
			if _, bound := s.envs[id][name]; bound {
				return s.envs[id], nil
			}
		}
	default:
		for _, id := range s.envChain() {
			if _, bound := s.envs[id][name]; bound {
				return s.envs[id], nil
			}
		}
	}
	return nil, runtimeErr(line, "name %q is not defined", name)
}

func (s *State) lookupVal(name string, line int) (Value, error) {
	env, err := s.lookupEnv(name, line)
	if err != nil {
		return nil, err
	}
	val, bound := env[name]
	if !bound {
		return nil, runtimeErr(line, "name %q is not defined", name)
	}
	return val, nil
}

func (s *State) eval(e syntax.Expr, line int) (Value, error) {
	switch x := e.(type) {
	case *syntax.IntExpr:
		return Int(x.Value), nil
	case *syntax.FloatExpr:
		return Float(x.Value), nil
	case *syntax.StrExpr:
		return Str(x.Value), nil
	case *syntax.BoolExpr:
		return Bool(x.Value), nil
	case *syntax.NoneExpr:
		return None{}, nil
	case *syntax.NameExpr:
		val, err := s.lookupVal(x.Ident, line)
		if err != nil {
			return nil, err
		}
		if _, unbound := val.(Bottom); unbound {
			return nil, runtimeErr(line, "local variable %q referenced before assignment", x.Ident)
		}
		return val, nil
	case *syntax.UnaryExpr:
		operand, err := s.eval(x.Operand, line)
		if err != nil {
			return nil, err
		}
		return unaryOp(x.Op, operand, line)
	case *syntax.BinaryExpr:
		left, err := s.eval(x.Left, line)
		if err != nil {
			return nil, err
		}
		right, err := s.eval(x.Right, line)
		if err != nil {
			return nil, err
		}
		return binaryOp(x.Op, left, right, line)
	case *syntax.BoolOpExpr:
		var val Value
		for _, operand := range x.Values {
			var err error
			if val, err = s.eval(operand, line); err != nil {
				return nil, err
			}
			if x.Op == syntax.OpAnd && !val.Truthy() {
				return val, nil
			}
			if x.Op == syntax.OpOr && val.Truthy() {
				return val, nil
			}
		}
		return val, nil
	case *syntax.CompareExpr:
		left, err := s.eval(x.Left, line)
		if err != nil {
			return nil, err
		}
		for i, op := range x.Ops {
			right, err := s.eval(x.Comparators[i], line)
			if err != nil {
				return nil, err
			}
			ok, err := compareOp(op, left, right, line)
			if err != nil {
				return nil, err
			}
			if !ok {
				return Bool(false), nil
			}
			left = right
		}
		return Bool(true), nil
	case *syntax.CallExpr:
		return nil, runtimeErr(line, "function calls inside expressions are not supported")
	}
	return nil, runtimeErr(line, "unsupported expression type %T", e)
}

// A Snapshot is the serializable view of a state: environments, parent
// chain, continuation stack and the control-transfer tables.
type Snapshot struct {
	Envs    map[int]map[string]Value `json:"e"`
	Parents map[int]int              `json:"p"`
	Stack   []Frame                  `json:"k"`
	Tables  *Tables                  `json:"ctfs"`
}

// Snapshot deep-copies the mutable parts of the state so callers can
// hold it across further steps.
func (s *State) Snapshot() *Snapshot {
	envs := make(map[int]map[string]Value, len(s.envs))
	for id, env := range s.envs {
		bindings := make(map[string]Value, len(env))
		for name, val := range env {
			bindings[name] = val
		}
		envs[id] = bindings
	}
	parents := make(map[int]int, len(s.parents))
	for child, parent := range s.parents {
		parents[child] = parent
	}
	stack := make([]Frame, len(s.stack))
	copy(stack, s.stack)

	return &Snapshot{Envs: envs, Parents: parents, Stack: stack, Tables: s.tables}
}
