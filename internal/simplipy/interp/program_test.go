package interp

import (
	"errors"
	"strings"
	"testing"

	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

func TestCompile_RejectsNonCorePrograms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "expression statement",
			src:      "x + 1\n",
			wantLine: 1,
			wantMsg:  "expression statements are not supported",
		},
		{
			name:     "if without else",
			src:      "if a:\n    pass\n",
			wantLine: 1,
			wantMsg:  "if must have an else block",
		},
		{
			name:     "bare return",
			src:      "def f():\n    return\n",
			wantLine: 2,
			wantMsg:  "return must carry a value",
		},
		{
			name:     "call inside an expression",
			src:      "x = f(1) + 2\n",
			wantLine: 1,
			wantMsg:  "function calls inside expressions are not supported",
		},
		{
			name:     "nonlocal at module level",
			src:      "nonlocal x\n",
			wantLine: 1,
			wantMsg:  "nonlocal declaration at module level",
		},
		{
			name: "name both global and nonlocal",
			src: `def f():
    global x
    nonlocal x
    return None
`,
			wantLine: 3,
			wantMsg:  `name "x" is nonlocal and global`,
		},
		{
			name: "duplicate parameter",
			src: `def f(a, a):
    return a
`,
			wantLine: 1,
			wantMsg:  `duplicate parameter "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := syntax.Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			_, err = Compile(m)
			if err == nil {
				t.Fatal("Compile: want error, got nil")
			}
			var compErr *CompileError
			if !errors.As(err, &compErr) {
				t.Fatalf("error type = %T, want *CompileError", err)
			}
			if compErr.Line != tt.wantLine {
				t.Errorf("error line = %d, want %d", compErr.Line, tt.wantLine)
			}
			if !strings.Contains(compErr.Msg, tt.wantMsg) {
				t.Errorf("error msg = %q, want it to contain %q", compErr.Msg, tt.wantMsg)
			}
		})
	}
}

func TestCompile_InstructionsAreAddressedByLine(t *testing.T) {
	t.Parallel()

	prog := compileSource(t, `def f(x):
    return x
y = f(1)
`)

	if instr := prog.InstrAt(1); instr == nil {
		t.Error("no instruction at line 1")
	} else if _, ok := instr.(*DefInstr); !ok {
		t.Errorf("line 1 = %T, want *DefInstr", instr)
	}

	if instr := prog.InstrAt(3); instr == nil {
		t.Error("no instruction at line 3")
	} else if call, ok := instr.(*CallInstr); !ok {
		t.Errorf("line 3 = %T, want *CallInstr", instr)
	} else if call.Target != "y" || call.Func != "f" {
		t.Errorf("call = %+v, want target y calling f", call)
	}

	if instr := prog.InstrAt(99); instr != nil {
		t.Errorf("line 99 = %T, want nil", instr)
	}
}
