package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

func TestSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "core programs pass through",
			in:   "x = 1\ny = x + 2\n",
			want: "x = 1\ny = x + 2\n",
		},
		{
			name: "nested call is hoisted into a temporary",
			in:   "x = g(1) + 2\n",
			want: "_simplipy_temp_0 = g(1)\nx = _simplipy_temp_0 + 2\n",
		},
		{
			name: "call arguments are hoisted before the call",
			in:   "x = f(g(1), h(2))\n",
			want: "_simplipy_temp_0 = g(1)\n_simplipy_temp_1 = h(2)\nx = f(_simplipy_temp_0, _simplipy_temp_1)\n",
		},
		{
			name: "direct call assignment keeps its shape",
			in:   "x = f(1, 2)\n",
			want: "x = f(1, 2)\n",
		},
		{
			name: "bare call lands in a temporary",
			in:   "f(1)\n",
			want: "_simplipy_temp_0 = f(1)\n",
		},
		{
			name: "effect-free expression statement becomes pass",
			in:   "x + 1\n",
			want: "pass\n",
		},
		{
			name: "missing else is supplied",
			in:   "if a:\n    x = 1\n",
			want: "if a:\n    x = 1\nelse:\n    pass\n",
		},
		{
			name: "loop body gains a trailing continue",
			in:   "while i < 3:\n    i = i + 1\n",
			want: "while i < 3:\n    i = i + 1\n    continue\n",
		},
		{
			name: "existing trailing continue is kept",
			in:   "while i < 3:\n    i = i + 1\n    continue\n",
			want: "while i < 3:\n    i = i + 1\n    continue\n",
		},
		{
			name: "bare return becomes return None",
			in:   "def f():\n    return\n",
			want: "def f():\n    return None\n",
		},
		{
			name: "function body gains a final return",
			in:   "def f(x):\n    y = x + 1\n",
			want: "def f(x):\n    y = x + 1\n    return None\n",
		},
		{
			name: "return value calls are hoisted",
			in:   "def f():\n    return g(1) + 1\n",
			want: "def f():\n    _simplipy_temp_0 = g(1)\n    return _simplipy_temp_0 + 1\n",
		},
		{
			name: "if test calls are hoisted before the if",
			in:   "if check(x):\n    y = 1\nelse:\n    y = 2\n",
			want: "_simplipy_temp_0 = check(x)\nif _simplipy_temp_0:\n    y = 1\nelse:\n    y = 2\n",
		},
		{
			name: "elif chain is flattened into nested ifs",
			in:   "if a:\n    x = 1\nelif b:\n    x = 2\n",
			want: "if a:\n    x = 1\nelse:\n    if b:\n        x = 2\n    else:\n        pass\n",
		},
		{
			name: "temporaries number left to right across a statement",
			in:   "x = f(g(h(1)))\n",
			want: "_simplipy_temp_0 = h(1)\n_simplipy_temp_1 = g(_simplipy_temp_0)\nx = f(_simplipy_temp_1)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Source(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{
			name: "call in a while condition",
			in:   "while check(x):\n    pass\n",
			msg:  "function calls in while conditions cannot be simplified",
		},
		{
			name: "parse errors propagate",
			in:   "x += 1\n",
			msg:  "augmented assignment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Source(tt.in)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.msg)

			var synErr *syntax.SyntaxError
			assert.ErrorAs(t, err, &synErr)
		})
	}
}

func TestSource_OutputReparses(t *testing.T) {
	t.Parallel()

	in := `def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
r = fib(10)
`
	first, err := Source(in)
	require.NoError(t, err)

	second, err := Source(first)
	require.NoError(t, err)
	assert.Equal(t, first, second, "simplified output should be a fixed point")
}
