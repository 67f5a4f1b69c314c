package interp

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestState(t *testing.T, src string) *State {
	t.Helper()
	state, err := NewState(compileSource(t, src))
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return state
}

func runToEnd(t *testing.T, src string) *State {
	t.Helper()
	state := newTestState(t, src)
	if err := state.Run(10000); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !state.Finished() {
		t.Fatal("state not finished after Run")
	}
	return state
}

func TestRun_GlobalEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want map[string]Value
	}{
		{
			name: "loop accumulates even numbers through a call",
			src: `def add(x, y):
    s = x + y
    t = s * 2
    return t
i = 0
total = 0
while i < 10:
    if i % 2 == 0:
        total = total + i
    else:
        pass
    i = i + 1
    continue
r = add(total, i)
pass
`,
			want: map[string]Value{
				"add":   Closure{Line: 2, Formals: []string{"x", "y"}},
				"i":     Int(10),
				"total": Int(20),
				"r":     Int(60),
			},
		},
		{
			name: "nonlocal writes into the defining call's environment",
			src: `x = 10
def outer():
    y = 1
    def inner():
        nonlocal y
        y = y + 1
        return y
    r = inner()
    return r
z = outer()
pass
`,
			want: map[string]Value{
				"x":     Int(10),
				"outer": Closure{Line: 3, Formals: []string{}},
				"z":     Int(2),
			},
		},
		{
			name: "global declaration rebinds at the top level",
			src: `count = 0
def bump():
    global count
    count = count + 1
    return None
t1 = bump()
t2 = bump()
pass
`,
			want: map[string]Value{
				"count": Int(2),
				"bump":  Closure{Line: 3, Formals: []string{}},
				"t1":    None{},
				"t2":    None{},
			},
		},
		{
			name: "break exits and skips the rest of the loop body",
			src: `n = 0
while True:
    n = n + 1
    if n > 3:
        break
    else:
        pass
    continue
done = n * 2
pass
`,
			want: map[string]Value{
				"n":    Int(4),
				"done": Int(8),
			},
		},
		{
			name: "recursion",
			src: `def fact(n):
    if n <= 1:
        return 1
    else:
        m = fact(n - 1)
        return n * m
f = fact(5)
pass
`,
			want: map[string]Value{
				"fact": Closure{Line: 2, Formals: []string{"n"}},
				"f":    Int(120),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := runToEnd(t, tt.src)
			got := state.Snapshot().Envs[0]
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("global environment mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "undefined name",
			src:      "x = y + 1\npass\n",
			wantLine: 1,
			wantMsg:  `name "y" is not defined`,
		},
		{
			name: "local read before assignment",
			src: `def f():
    x = y
    y = 1
    return x
r = f()
pass
`,
			wantLine: 2,
			wantMsg:  `local variable "y" referenced before assignment`,
		},
		{
			name: "calling a non-function",
			src: `f = 3
r = f()
pass
`,
			wantLine: 2,
			wantMsg:  `"f" is not callable`,
		},
		{
			name: "arity mismatch",
			src: `def f(x):
    return x
r = f(1, 2)
pass
`,
			wantLine: 3,
			wantMsg:  "f() takes 1 argument(s) but 2 were given",
		},
		{
			name:     "division by zero",
			src:      "x = 1 // 0\npass\n",
			wantLine: 1,
			wantMsg:  "division by zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := newTestState(t, tt.src)
			err := state.Run(10000)
			if err == nil {
				t.Fatal("Run: want error, got nil")
			}

			var rtErr *RuntimeError
			if !errors.As(err, &rtErr) {
				t.Fatalf("error type = %T, want *RuntimeError", err)
			}
			if rtErr.Line != tt.wantLine {
				t.Errorf("error line = %d, want %d", rtErr.Line, tt.wantLine)
			}
			if !strings.Contains(rtErr.Msg, tt.wantMsg) {
				t.Errorf("error msg = %q, want it to contain %q", rtErr.Msg, tt.wantMsg)
			}
		})
	}
}

func TestRun_StepLimit(t *testing.T) {
	t.Parallel()

	state := newTestState(t, "x = 0\nwhile True:\n    continue\npass\n")
	err := state.Run(50)
	if err == nil {
		t.Fatal("Run: want step limit error, got nil")
	}
	if !strings.Contains(err.Error(), "did not finish") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStep_CallAndReturnManageTheStack(t *testing.T) {
	t.Parallel()

	state := newTestState(t, `def f(x):
    return x + 1
r = f(41)
pass
`)

	// def binds f, then the call pushes a frame at the body entry.
	mustStep := func() {
		t.Helper()
		if err := state.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	mustStep() // def
	mustStep() // call

	snap := state.Snapshot()
	wantStack := []Frame{{Line: 3, Env: 0}, {Line: 2, Env: 1}}
	if diff := cmp.Diff(wantStack, snap.Stack); diff != "" {
		t.Fatalf("stack after call (-want +got):\n%s", diff)
	}
	if got, want := snap.Envs[1]["x"], Value(Int(41)); got != want {
		t.Errorf("argument binding = %v, want %v", got, want)
	}
	if got, want := snap.Parents[1], 0; got != want {
		t.Errorf("parent of call env = %d, want %d", got, want)
	}

	mustStep() // return
	snap = state.Snapshot()
	if got, want := len(snap.Stack), 1; got != want {
		t.Fatalf("stack depth after return = %d, want %d", got, want)
	}
	if got, want := snap.Envs[0]["r"], Value(Int(42)); got != want {
		t.Errorf("returned value = %v, want %v", got, want)
	}
	if !state.Finished() {
		t.Error("state should be finished after the return")
	}
}

func TestStep_FinishedIsIdempotent(t *testing.T) {
	t.Parallel()

	state := runToEnd(t, "x = 1\n")
	before := state.Snapshot()
	if err := state.Step(); err != nil {
		t.Fatalf("Step after finish: %v", err)
	}
	after := state.Snapshot()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("stepping a finished state changed it (-before +after):\n%s", diff)
	}
}

func TestSnapshot_IsADeepCopy(t *testing.T) {
	t.Parallel()

	state := newTestState(t, "x = 1\ny = 2\n")
	snap := state.Snapshot()
	snap.Envs[0]["x"] = Int(99)
	snap.Stack[0].Line = 42

	fresh := state.Snapshot()
	if got := fresh.Envs[0]["x"]; got == Int(99) {
		t.Error("mutating a snapshot environment leaked into the state")
	}
	if got := fresh.Stack[0].Line; got == 42 {
		t.Error("mutating a snapshot stack leaked into the state")
	}
}
