package syntax

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []Kind
	}{
		{
			name: "assignment",
			src:  "x = 1\n",
			want: []Kind{Name, Assign, IntLit, Newline, EOF},
		},
		{
			name: "indentation becomes indent and dedent",
			src:  "if x:\n    pass\ny = 2\n",
			want: []Kind{
				KwIf, Name, Colon, Newline,
				Indent, KwPass, Newline, Dedent,
				Name, Assign, IntLit, Newline, EOF,
			},
		},
		{
			name: "blank and comment lines produce nothing",
			src:  "x = 1\n\n# a comment\ny = 2  # trailing\n",
			want: []Kind{
				Name, Assign, IntLit, Newline,
				Name, Assign, IntLit, Newline, EOF,
			},
		},
		{
			name: "nested blocks unwind all dedents at EOF",
			src:  "def f():\n    if x:\n        pass",
			want: []Kind{
				KwDef, Name, LParen, RParen, Colon, Newline,
				Indent, KwIf, Name, Colon, Newline,
				Indent, KwPass, Newline, Dedent, Dedent, EOF,
			},
		},
		{
			name: "newlines inside parentheses are ignored",
			src:  "x = f(1,\n      2)\n",
			want: []Kind{
				Name, Assign, Name, LParen, IntLit, Comma, IntLit, RParen, Newline, EOF,
			},
		},
		{
			name: "multi-character operators",
			src:  "x = a ** 2 // b << 1 >= c != d\n",
			want: []Kind{
				Name, Assign, Name, DoubleStar, IntLit, DoubleSlash, Name,
				LShift, IntLit, GtE, Name, NotEq, Name, Newline, EOF,
			},
		},
		{
			name: "keywords versus names",
			src:  "while not done and flag is None:\n    pass\n",
			want: []Kind{
				KwWhile, KwNot, Name, KwAnd, Name, KwIs, KwNone, Colon, Newline,
				Indent, KwPass, Newline, Dedent, EOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := Tokenize(tt.src)
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			if diff := cmp.Diff(tt.want, kinds(tokens)); diff != "" {
				t.Errorf("token kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize_Literals(t *testing.T) {
	t.Parallel()

	tokens, err := Tokenize(`x = 'it\'s' + "two\nlines" + 3.5e2` + "\n")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	var strLits []string
	var floatLits []string
	for _, tok := range tokens {
		switch tok.Kind {
		case StrLit:
			strLits = append(strLits, tok.Lit)
		case FloatLit:
			floatLits = append(floatLits, tok.Lit)
		}
	}
	if diff := cmp.Diff([]string{"it's", "two\nlines"}, strLits); diff != "" {
		t.Errorf("string literals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"3.5e2"}, floatLits); diff != "" {
		t.Errorf("float literals mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_LineNumbers(t *testing.T) {
	t.Parallel()

	tokens, err := Tokenize("a = 1\n\nb = 2\n")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	byName := map[string]int{}
	for _, tok := range tokens {
		if tok.Kind == Name {
			byName[tok.Lit] = tok.Line
		}
	}
	if got, want := byName["a"], 1; got != want {
		t.Errorf("line of a = %d, want %d", got, want)
	}
	if got, want := byName["b"], 3; got != want {
		t.Errorf("line of b = %d, want %d", got, want)
	}
}

func TestTokenize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "inconsistent dedent",
			src:      "if x:\n        pass\n    pass\n",
			wantLine: 3,
			wantMsg:  "unindent does not match",
		},
		{
			name:     "unterminated string",
			src:      "x = 'oops\n",
			wantLine: 1,
			wantMsg:  "unterminated string literal",
		},
		{
			name:     "bad escape",
			src:      `x = "\q"` + "\n",
			wantLine: 1,
			wantMsg:  "unsupported escape sequence",
		},
		{
			name:     "malformed number",
			src:      "x = 1e\n",
			wantLine: 1,
			wantMsg:  "malformed number literal",
		},
		{
			name:     "identifier glued to a number",
			src:      "x = 12abc\n",
			wantLine: 1,
			wantMsg:  "malformed number literal",
		},
		{
			name:     "stray character",
			src:      "x = $\n",
			wantLine: 1,
			wantMsg:  "unexpected character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Tokenize(tt.src)
			if err == nil {
				t.Fatal("Tokenize: want error, got nil")
			}
			synErr, ok := err.(*SyntaxError)
			if !ok {
				t.Fatalf("error type = %T, want *SyntaxError", err)
			}
			if synErr.Line != tt.wantLine {
				t.Errorf("error line = %d, want %d", synErr.Line, tt.wantLine)
			}
			if !strings.Contains(synErr.Msg, tt.wantMsg) {
				t.Errorf("error msg = %q, want it to contain %q", synErr.Msg, tt.wantMsg)
			}
		})
	}
}
