// Package interp executes SimpliPy programs one instruction at a time.
// It lowers the surface AST into a program IR of blocks, statements and
// instructions, precomputes control-transfer tables keyed by line
// number, and exposes a small-step state machine whose full state is
// serializable.
package interp

import (
	"fmt"

	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

// A CompileError reports a program that parses but falls outside the
// executable core.
type CompileError struct {
	Line int
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func compileErr(line int, format string, args ...any) *CompileError {
	return &CompileError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Instruction is a single steppable unit, addressed by its line number.
type Instruction interface {
	Line() int
	Stmt() Statement
	setStmt(Statement)
}

type instrBase struct {
	line int
	stmt Statement
}

func (b *instrBase) Line() int           { return b.line }
func (b *instrBase) Stmt() Statement     { return b.stmt }
func (b *instrBase) setStmt(s Statement) { b.stmt = s }

type (
	// PassInstr does nothing.
	PassInstr struct{ instrBase }

	// GlobalInstr records a global declaration. Scope effects are
	// applied at compile time; stepping it is a no-op.
	GlobalInstr struct {
		instrBase
		Names []string
	}

	// NonlocalInstr records a nonlocal declaration.
	NonlocalInstr struct {
		instrBase
		Names []string
	}

	// AssignInstr evaluates an expression and binds the result.
	AssignInstr struct {
		instrBase
		Target string
		Value  syntax.Expr
	}

	// CallInstr calls the closure held in Func and will bind the
	// returned value to Target.
	CallInstr struct {
		instrBase
		Target string
		Func   string
		Args   []syntax.Expr
	}

	// IfInstr branches on its condition.
	IfInstr struct {
		instrBase
		Cond syntax.Expr
	}

	// WhileInstr branches on its condition.
	WhileInstr struct {
		instrBase
		Cond syntax.Expr
	}

	// BreakInstr exits the enclosing loop.
	BreakInstr struct{ instrBase }

	// ContinueInstr re-enters the enclosing loop test.
	ContinueInstr struct{ instrBase }

	// DefInstr binds a closure over the function body.
	DefInstr struct {
		instrBase
		Name    string
		Formals []string
	}

	// RetInstr evaluates the return value and pops the continuation.
	RetInstr struct {
		instrBase
		Value syntax.Expr
	}
)

// Statement is a node of the program IR: either a single instruction or
// a compound carrying nested blocks.
type Statement interface {
	// First is the line of the statement's entry instruction.
	First() int
	// Last is the final line spanned by the statement.
	Last() int
	// FirstInstr is the instruction control enters the statement at.
	FirstInstr() Instruction
	Index() int
	Block() *Block
	setIndex(int)
	setBlock(*Block)
}

type stmtBase struct {
	index int
	block *Block
}

func (b *stmtBase) Index() int        { return b.index }
func (b *stmtBase) Block() *Block     { return b.block }
func (b *stmtBase) setIndex(i int)    { b.index = i }
func (b *stmtBase) setBlock(p *Block) { b.block = p }

// SimpleStmt wraps a single instruction.
type SimpleStmt struct {
	stmtBase
	Instr Instruction
}

func (s *SimpleStmt) First() int              { return s.Instr.Line() }
func (s *SimpleStmt) Last() int               { return s.Instr.Line() }
func (s *SimpleStmt) FirstInstr() Instruction { return s.Instr }

// IfStmt is a two-armed conditional.
type IfStmt struct {
	stmtBase
	Instr     *IfInstr
	IfBlock   *Block
	ElseBlock *Block
}

func (s *IfStmt) First() int              { return s.Instr.Line() }
func (s *IfStmt) Last() int               { return s.ElseBlock.Last() }
func (s *IfStmt) FirstInstr() Instruction { return s.Instr }

// WhileStmt is a loop.
type WhileStmt struct {
	stmtBase
	Instr *WhileInstr
	Body  *Block
}

func (s *WhileStmt) First() int              { return s.Instr.Line() }
func (s *WhileStmt) Last() int               { return s.Body.Last() }
func (s *WhileStmt) FirstInstr() Instruction { return s.Instr }

// DefStmt is a function definition.
type DefStmt struct {
	stmtBase
	Instr *DefInstr
	Body  *Block
}

func (s *DefStmt) First() int              { return s.Instr.Line() }
func (s *DefStmt) Last() int               { return s.Body.Last() }
func (s *DefStmt) FirstInstr() Instruction { return s.Instr }

// Block is a sequence of statements. Lexical blocks (the module body and
// function bodies) own scope sets; branch and loop bodies share their
// enclosing lexical block's scope.
type Block struct {
	Stmts   []Statement
	Lexical bool

	// Parent is the statement holding this block, nil for the module
	// body.
	Parent Statement

	Locals    map[string]bool
	Globals   map[string]bool
	Nonlocals map[string]bool
}

func newBlock(lexical bool) *Block {
	b := &Block{Lexical: lexical}
	if lexical {
		b.Locals = map[string]bool{}
		b.Globals = map[string]bool{}
		b.Nonlocals = map[string]bool{}
	}
	return b
}

func (b *Block) add(s Statement) {
	s.setIndex(len(b.Stmts))
	s.setBlock(b)
	b.Stmts = append(b.Stmts, s)
}

// First is the entry line of the block.
func (b *Block) First() int { return b.Stmts[0].First() }

// Last is the final line of the block.
func (b *Block) Last() int { return b.Stmts[len(b.Stmts)-1].Last() }

// lexicalBlock walks outward to the nearest lexical block, which is the
// block itself for module and function bodies.
func (b *Block) lexicalBlock() *Block {
	blk := b
	for !blk.Lexical {
		blk = blk.Parent.Block()
	}
	return blk
}

// Program is a compiled SimpliPy program.
type Program struct {
	Body *Block

	// instrs maps every instruction's line number to the instruction.
	instrs map[int]Instruction
}

// InstrAt returns the instruction at a line, or nil.
func (p *Program) InstrAt(line int) Instruction { return p.instrs[line] }

type compiler struct {
	blocks []*Block
}

// Compile lowers a surface module into the executable IR, enforcing the
// strict core: calls only as the entire right-hand side of an
// assignment, if always with else, return always with a value, no bare
// expression statements. Programs that need repair go through the
// simplifier first.
func Compile(m *syntax.Module) (*Program, error) {
	top := newBlock(true)
	c := &compiler{blocks: []*Block{top}}
	for _, stmt := range m.Body {
		if err := c.stmt(stmt); err != nil {
			return nil, err
		}
	}
	if len(top.Stmts) == 0 {
		return nil, compileErr(1, "empty program")
	}

	p := &Program{Body: top, instrs: map[int]Instruction{}}
	if err := p.index(top); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Program) index(b *Block) error {
	for _, stmt := range b.Stmts {
		instr := stmt.FirstInstr()
		if prev, dup := p.instrs[instr.Line()]; dup && prev != instr {
			return compileErr(instr.Line(), "multiple statements on one line are not supported")
		}
		p.instrs[instr.Line()] = instr

		switch s := stmt.(type) {
		case *IfStmt:
			if err := p.index(s.IfBlock); err != nil {
				return err
			}
			if err := p.index(s.ElseBlock); err != nil {
				return err
			}
		case *WhileStmt:
			if err := p.index(s.Body); err != nil {
				return err
			}
		case *DefStmt:
			if err := p.index(s.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *compiler) current() *Block { return c.blocks[len(c.blocks)-1] }

func (c *compiler) push(b *Block) {
	c.blocks = append(c.blocks, b)
}

func (c *compiler) pop() *Block {
	b := c.blocks[len(c.blocks)-1]
	c.blocks = c.blocks[:len(c.blocks)-1]
	return b
}

func (c *compiler) enclosingLexical() *Block {
	for i := len(c.blocks) - 1; i >= 0; i-- {
		if c.blocks[i].Lexical {
			return c.blocks[i]
		}
	}
	return c.blocks[0]
}

// noteLocal records an assigned name in the enclosing function scope.
// Top-level assignments go straight to the global environment and are
// not tracked.
func (c *compiler) noteLocal(name string) {
	encl := c.enclosingLexical()
	if encl == c.blocks[0] {
		return
	}
	if encl.Globals[name] || encl.Nonlocals[name] {
		return
	}
	encl.Locals[name] = true
}

func (c *compiler) add(instr Instruction) {
	stmt := &SimpleStmt{Instr: instr}
	instr.setStmt(stmt)
	c.current().add(stmt)
}

func (c *compiler) stmt(stmt syntax.Stmt) error {
	switch s := stmt.(type) {
	case *syntax.PassStmt:
		c.add(&PassInstr{instrBase: instrBase{line: s.Line()}})
	case *syntax.BreakStmt:
		c.add(&BreakInstr{instrBase: instrBase{line: s.Line()}})
	case *syntax.ContinueStmt:
		c.add(&ContinueInstr{instrBase: instrBase{line: s.Line()}})
	case *syntax.GlobalStmt:
		encl := c.enclosingLexical()
		if encl.Nonlocals != nil {
			for _, name := range s.Names {
				if encl.Nonlocals[name] {
					return compileErr(s.Line(), "name %q is nonlocal and global", name)
				}
				encl.Globals[name] = true
				delete(encl.Locals, name)
			}
		}
		c.add(&GlobalInstr{instrBase: instrBase{line: s.Line()}, Names: s.Names})
	case *syntax.NonlocalStmt:
		encl := c.enclosingLexical()
		if encl == c.blocks[0] {
			return compileErr(s.Line(), "nonlocal declaration at module level")
		}
		for _, name := range s.Names {
			if encl.Globals[name] {
				return compileErr(s.Line(), "name %q is nonlocal and global", name)
			}
			encl.Nonlocals[name] = true
			delete(encl.Locals, name)
		}
		c.add(&NonlocalInstr{instrBase: instrBase{line: s.Line()}, Names: s.Names})
	case *syntax.AssignStmt:
		c.noteLocal(s.Target)
		if call, ok := s.Value.(*syntax.CallExpr); ok {
			for _, arg := range call.Args {
				if err := rejectCalls(arg); err != nil {
					return err
				}
			}
			c.add(&CallInstr{
				instrBase: instrBase{line: s.Line()},
				Target:    s.Target,
				Func:      call.Func,
				Args:      call.Args,
			})
			return nil
		}
		if err := rejectCalls(s.Value); err != nil {
			return err
		}
		c.add(&AssignInstr{instrBase: instrBase{line: s.Line()}, Target: s.Target, Value: s.Value})
	case *syntax.ExprStmt:
		return compileErr(s.Line(), "expression statements are not supported; run the program through the simplifier")
	case *syntax.ReturnStmt:
		if s.Value == nil {
			return compileErr(s.Line(), "return must carry a value; run the program through the simplifier")
		}
		if err := rejectCalls(s.Value); err != nil {
			return err
		}
		c.add(&RetInstr{instrBase: instrBase{line: s.Line()}, Value: s.Value})
	case *syntax.IfStmt:
		return c.ifStmt(s)
	case *syntax.WhileStmt:
		return c.whileStmt(s)
	case *syntax.DefStmt:
		return c.defStmt(s)
	default:
		return compileErr(stmt.Line(), "unsupported statement type %T", stmt)
	}
	return nil
}

func (c *compiler) block(stmts []syntax.Stmt, lexical bool) (*Block, error) {
	c.push(newBlock(lexical))
	for _, stmt := range stmts {
		if err := c.stmt(stmt); err != nil {
			c.pop()
			return nil, err
		}
	}
	return c.pop(), nil
}

func (c *compiler) ifStmt(s *syntax.IfStmt) error {
	if err := rejectCalls(s.Test); err != nil {
		return err
	}
	if len(s.Else) == 0 {
		return compileErr(s.Line(), "if must have an else block; run the program through the simplifier")
	}

	ifBlock, err := c.block(s.Body, false)
	if err != nil {
		return err
	}
	elseBlock, err := c.block(s.Else, false)
	if err != nil {
		return err
	}

	instr := &IfInstr{instrBase: instrBase{line: s.Line()}, Cond: s.Test}
	stmt := &IfStmt{Instr: instr, IfBlock: ifBlock, ElseBlock: elseBlock}
	instr.setStmt(stmt)
	ifBlock.Parent = stmt
	elseBlock.Parent = stmt
	c.current().add(stmt)
	return nil
}

func (c *compiler) whileStmt(s *syntax.WhileStmt) error {
	if err := rejectCalls(s.Test); err != nil {
		return err
	}
	body, err := c.block(s.Body, false)
	if err != nil {
		return err
	}

	instr := &WhileInstr{instrBase: instrBase{line: s.Line()}, Cond: s.Test}
	stmt := &WhileStmt{Instr: instr, Body: body}
	instr.setStmt(stmt)
	body.Parent = stmt
	c.current().add(stmt)
	return nil
}

func (c *compiler) defStmt(s *syntax.DefStmt) error {
	c.noteLocal(s.Name)
	seen := map[string]bool{}
	for _, p := range s.Params {
		if seen[p] {
			return compileErr(s.Line(), "duplicate parameter %q", p)
		}
		seen[p] = true
	}

	body, err := c.block(s.Body, true)
	if err != nil {
		return err
	}
	if len(body.Stmts) == 0 {
		return compileErr(s.Line(), "function body is empty")
	}

	instr := &DefInstr{instrBase: instrBase{line: s.Line()}, Name: s.Name, Formals: s.Params}
	stmt := &DefStmt{Instr: instr, Body: body}
	instr.setStmt(stmt)
	body.Parent = stmt
	c.current().add(stmt)
	return nil
}

// rejectCalls enforces that expressions in the core carry no calls;
// calls exist only as the entire right-hand side of an assignment.
func rejectCalls(e syntax.Expr) error {
	switch x := e.(type) {
	case *syntax.CallExpr:
		return compileErr(x.Line(), "function calls inside expressions are not supported; run the program through the simplifier")
	case *syntax.UnaryExpr:
		return rejectCalls(x.Operand)
	case *syntax.BinaryExpr:
		if err := rejectCalls(x.Left); err != nil {
			return err
		}
		return rejectCalls(x.Right)
	case *syntax.BoolOpExpr:
		for _, v := range x.Values {
			if err := rejectCalls(v); err != nil {
				return err
			}
		}
	case *syntax.CompareExpr:
		if err := rejectCalls(x.Left); err != nil {
			return err
		}
		for _, cmp := range x.Comparators {
			if err := rejectCalls(cmp); err != nil {
				return err
			}
		}
	}
	return nil
}
