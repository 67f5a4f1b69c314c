package syntax

import "testing"

// Canonical sources must print back to themselves, since the simplifier
// hands clients printed output and expects its line numbers to hold.
func TestPrint_RoundTrip(t *testing.T) {
	t.Parallel()

	sources := []string{
		"x = 1\n",
		"x = -2.5\n",
		"msg = \"a\" + \"b\" * 3\n",
		"ok = not flag and x < y <= z\n",
		"x = (1 + 2) * 3\n",
		"x = 2 ** 3 ** 2\n",
		"x = (2 ** 3) ** 2\n",
		"x = a is not None or b not in c\n",
		"r = f(g(1), h())\n",
		"if a:\n    pass\nelse:\n    x = 1\n",
		"while i < 10:\n    i = i + 1\n    continue\n",
		"def f(a, b):\n    global g\n    nonlocal n\n    return a\n",
		"def f():\n    return None\n",
		"while run:\n    if done:\n        break\n    else:\n        pass\n    continue\n",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			m, err := Parse(src)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := Print(m); got != src {
				t.Errorf("Print = %q, want %q", got, src)
			}
		})
	}
}

func TestPrint_Normalizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "redundant parentheses are dropped",
			src:  "x = (a) + ((b * c))\n",
			want: "x = a + b * c\n",
		},
		{
			name: "strings print double-quoted with escapes",
			src:  "x = 'it\\'s \"here\"\\n'\n",
			want: "x = \"it's \\\"here\\\"\\n\"\n",
		},
		{
			name: "float keeps a decimal point",
			src:  "x = 1e1\n",
			want: "x = 10.0\n",
		},
		{
			name: "indentation is four spaces",
			src:  "if a:\n  pass\n",
			want: "if a:\n    pass\n",
		},
		{
			name: "elif prints as a nested if",
			src:  "if a:\n    pass\nelif b:\n    pass\n",
			want: "if a:\n    pass\nelse:\n    if b:\n        pass\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := Print(m); got != tt.want {
				t.Errorf("Print = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	t.Parallel()

	expr := &BinaryExpr{
		Op:   OpMul,
		Left: &BinaryExpr{Op: OpAdd, Left: &IntExpr{Value: 1}, Right: &IntExpr{Value: 2}},
		Right: &UnaryExpr{
			Op:      OpNeg,
			Operand: &NameExpr{Ident: "x"},
		},
	}
	if got, want := ExprString(expr), "(1 + 2) * -x"; got != want {
		t.Errorf("ExprString = %q, want %q", got, want)
	}
}
