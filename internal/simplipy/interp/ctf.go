package interp

// Tables are the control-transfer functions of a program, precomputed as
// line-number maps. Next drives straight-line flow, True and False the
// two arms of if and while tests. Termination is the fixed point: the
// final top-level statement's Next entry maps to itself.
type Tables struct {
	Next  map[int]int `json:"next"`
	True  map[int]int `json:"true"`
	False map[int]int `json:"false"`
}

// BuildTables computes the control-transfer tables for a compiled
// program. It fails on break or continue outside a loop.
func BuildTables(p *Program) (*Tables, error) {
	t := &Tables{
		Next:  map[int]int{},
		True:  map[int]int{},
		False: map[int]int{},
	}
	if err := t.visit(p.Body); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) visit(b *Block) error {
	for _, stmt := range b.Stmts {
		switch s := stmt.(type) {
		case *IfStmt:
			tr, err := trueStmt(s)
			if err != nil {
				return err
			}
			fa, err := falseStmt(s)
			if err != nil {
				return err
			}
			t.True[s.First()] = tr.FirstInstr().Line()
			t.False[s.First()] = fa.FirstInstr().Line()
			if err := t.visit(s.IfBlock); err != nil {
				return err
			}
			if err := t.visit(s.ElseBlock); err != nil {
				return err
			}
		case *WhileStmt:
			tr, err := trueStmt(s)
			if err != nil {
				return err
			}
			fa, err := falseStmt(s)
			if err != nil {
				return err
			}
			t.True[s.First()] = tr.FirstInstr().Line()
			t.False[s.First()] = fa.FirstInstr().Line()
			if err := t.visit(s.Body); err != nil {
				return err
			}
		case *DefStmt:
			// Stepping a def binds the closure and skips the body.
			next, err := nextStmt(s)
			if err != nil {
				return err
			}
			t.Next[s.First()] = next.FirstInstr().Line()
			if err := t.visit(s.Body); err != nil {
				return err
			}
		default:
			if _, ok := stmt.FirstInstr().(*RetInstr); ok {
				// Return transfers through the continuation, not a table.
				continue
			}
			next, err := nextStmt(stmt)
			if err != nil {
				return err
			}
			t.Next[stmt.First()] = next.FirstInstr().Line()
		}
	}
	return nil
}

// nextStmt is the statement control reaches after stmt completes
// normally. The final top-level statement is its own successor.
func nextStmt(stmt Statement) (Statement, error) {
	switch stmt.FirstInstr().(type) {
	case *ContinueInstr:
		return enclosingWhile(stmt)
	case *BreakInstr:
		loop, err := enclosingWhile(stmt)
		if err != nil {
			return nil, err
		}
		return nextStmt(loop)
	case *RetInstr:
		return nil, compileErr(stmt.First(), "return has no static successor")
	}

	block := stmt.Block()
	if stmt.Index() == len(block.Stmts)-1 {
		if block.Parent == nil {
			// Fixed point: the program has nowhere left to go.
			return stmt, nil
		}
		return nextStmt(block.Parent)
	}
	return block.Stmts[stmt.Index()+1], nil
}

func trueStmt(stmt Statement) (Statement, error) {
	switch s := stmt.(type) {
	case *WhileStmt:
		return s.Body.Stmts[0], nil
	case *IfStmt:
		return s.IfBlock.Stmts[0], nil
	}
	return nil, compileErr(stmt.First(), "true transfer undefined for this statement")
}

func falseStmt(stmt Statement) (Statement, error) {
	switch s := stmt.(type) {
	case *WhileStmt:
		return nextStmt(s)
	case *IfStmt:
		return s.ElseBlock.Stmts[0], nil
	}
	return nil, compileErr(stmt.First(), "false transfer undefined for this statement")
}

// enclosingWhile finds the loop a break or continue belongs to.
func enclosingWhile(stmt Statement) (Statement, error) {
	block := stmt.Block()
	for {
		if block.Parent == nil {
			return nil, compileErr(stmt.First(), "break or continue outside a loop")
		}
		parent := block.Parent
		if _, ok := parent.(*WhileStmt); ok {
			return parent, nil
		}
		block = parent.Block()
	}
}
