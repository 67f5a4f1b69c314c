package syntax

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	Newline
	Indent
	Dedent

	Name
	IntLit
	FloatLit
	StrLit

	KwIf
	KwElif
	KwElse
	KwWhile
	KwDef
	KwReturn
	KwPass
	KwBreak
	KwContinue
	KwGlobal
	KwNonlocal
	KwAnd
	KwOr
	KwNot
	KwIs
	KwIn
	KwTrue
	KwFalse
	KwNone

	LParen
	RParen
	Comma
	Colon
	Assign
	AugAssign

	Plus
	Minus
	Star
	DoubleStar
	Slash
	DoubleSlash
	Percent
	At
	LShift
	RShift
	Pipe
	Caret
	Amp
	Tilde

	EqEq
	NotEq
	Lt
	LtE
	Gt
	GtE
)

var kindNames = map[Kind]string{
	EOF:         "end of input",
	Newline:     "newline",
	Indent:      "indent",
	Dedent:      "dedent",
	Name:        "name",
	IntLit:      "integer literal",
	FloatLit:    "float literal",
	StrLit:      "string literal",
	KwIf:        "'if'",
	KwElif:      "'elif'",
	KwElse:      "'else'",
	KwWhile:     "'while'",
	KwDef:       "'def'",
	KwReturn:    "'return'",
	KwPass:      "'pass'",
	KwBreak:     "'break'",
	KwContinue:  "'continue'",
	KwGlobal:    "'global'",
	KwNonlocal:  "'nonlocal'",
	KwAnd:       "'and'",
	KwOr:        "'or'",
	KwNot:       "'not'",
	KwIs:        "'is'",
	KwIn:        "'in'",
	KwTrue:      "'True'",
	KwFalse:     "'False'",
	KwNone:      "'None'",
	LParen:      "'('",
	RParen:      "')'",
	Comma:       "','",
	Colon:       "':'",
	Assign:      "'='",
	AugAssign:   "augmented assignment",
	Plus:        "'+'",
	Minus:       "'-'",
	Star:        "'*'",
	DoubleStar:  "'**'",
	Slash:       "'/'",
	DoubleSlash: "'//'",
	Percent:     "'%'",
	At:          "'@'",
	LShift:      "'<<'",
	RShift:      "'>>'",
	Pipe:        "'|'",
	Caret:       "'^'",
	Amp:         "'&'",
	Tilde:       "'~'",
	EqEq:        "'=='",
	NotEq:       "'!='",
	Lt:          "'<'",
	LtE:         "'<='",
	Gt:          "'>'",
	GtE:         "'>='",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// keywords maps reserved words to their token kinds. Reserved words of
// full Python that the language does not support are listed in
// unsupportedKeywords so the parser can report them by name.
var keywords = map[string]Kind{
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"while":    KwWhile,
	"def":      KwDef,
	"return":   KwReturn,
	"pass":     KwPass,
	"break":    KwBreak,
	"continue": KwContinue,
	"global":   KwGlobal,
	"nonlocal": KwNonlocal,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
	"is":       KwIs,
	"in":       KwIn,
	"True":     KwTrue,
	"False":    KwFalse,
	"None":     KwNone,
}

var unsupportedKeywords = map[string]bool{
	"for":     true,
	"import":  true,
	"from":    true,
	"class":   true,
	"try":     true,
	"except":  true,
	"finally": true,
	"raise":   true,
	"with":    true,
	"lambda":  true,
	"yield":   true,
	"del":     true,
	"assert":  true,
	"async":   true,
	"await":   true,
}

// Token is a single lexical unit with its position in the source.
type Token struct {
	Kind Kind
	Lit  string
	Line int
	Col  int
}
