package token

// Kind identifies the category of a lexed token.
type Kind uint8

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota

	// Ident is a variable or property name.
	Ident

	// Literals.
	IntLit    // 123
	FloatLit  // 12.3, 5., .5
	StringLit // "text" or 'text'
	BoolLit   // true | false

	// Keywords.
	KwLet       // let
	KwFn        // fn
	KwIf        // if
	KwElse      // else
	KwLoop      // loop
	KwWhile     // while
	KwBreak     // break
	KwReturn    // return
	KwNull      // null
	KwInterface // interface

	// Operators.
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Caret      // ^
	Bang       // !
	Assign     // =
	EqEq       // ==
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	AndAnd     // &&
	OrOr       // ||
	PlusPlus   // ++
	MinusMinus // --

	// Punctuation.
	Dot        // .
	DotDot     // ..
	Comma      // ,
	Colon      // :
	ColonColon // ::
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
)

var kindNames = map[Kind]string{
	EOF:         "end of input",
	Ident:       "identifier",
	IntLit:      "int literal",
	FloatLit:    "float literal",
	StringLit:   "string literal",
	BoolLit:     "bool literal",
	KwLet:       "'let'",
	KwFn:        "'fn'",
	KwIf:        "'if'",
	KwElse:      "'else'",
	KwLoop:      "'loop'",
	KwWhile:     "'while'",
	KwBreak:     "'break'",
	KwReturn:    "'return'",
	KwNull:      "'null'",
	KwInterface: "'interface'",
	Plus:        "'+'",
	Minus:       "'-'",
	Star:        "'*'",
	Slash:       "'/'",
	Percent:     "'%'",
	Caret:       "'^'",
	Bang:        "'!'",
	Assign:      "'='",
	EqEq:        "'=='",
	BangEq:      "'!='",
	Lt:          "'<'",
	LtEq:        "'<='",
	Gt:          "'>'",
	GtEq:        "'>='",
	AndAnd:      "'&&'",
	OrOr:        "'||'",
	PlusPlus:    "'++'",
	MinusMinus:  "'--'",
	Dot:         "'.'",
	DotDot:      "'..'",
	Comma:       "','",
	Colon:       "':'",
	ColonColon:  "'::'",
	LParen:      "'('",
	RParen:      "')'",
	LBrace:      "'{'",
	RBrace:      "'}'",
	LBracket:    "'['",
	RBracket:    "']'",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown token"
}

// Binary operator precedence, low to high. Zero means the token is not a
// binary operator. All levels are left associative except power.
const (
	PrecNone           = 0
	PrecOr             = 1
	PrecAnd            = 2
	PrecEquality       = 3
	PrecRelational     = 4
	PrecAdditive       = 5
	PrecMultiplicative = 6
	PrecPower          = 7
	PrecUnary          = 8
)

// BinaryPrecedence reports the binding strength of the token as a binary
// operator, or PrecNone when it is not one.
func (k Kind) BinaryPrecedence() int {
	switch k {
	case OrOr:
		return PrecOr
	case AndAnd:
		return PrecAnd
	case EqEq, BangEq:
		return PrecEquality
	case Lt, LtEq, Gt, GtEq:
		return PrecRelational
	case Plus, Minus:
		return PrecAdditive
	case Star, Slash, Percent:
		return PrecMultiplicative
	case Caret:
		return PrecPower
	default:
		return PrecNone
	}
}

// UnaryPrecedence reports the binding strength of the token as a unary
// operator, or PrecNone when it is not one.
func (k Kind) UnaryPrecedence() int {
	switch k {
	case Plus, Minus, Bang:
		return PrecUnary
	default:
		return PrecNone
	}
}

// IsRightAssociative reports whether the binary operator groups rightward.
// Power is the only one.
func (k Kind) IsRightAssociative() bool {
	return k == Caret
}

// IsCompoundAssignOp reports whether the token can precede '=' to form a
// compound assignment such as 'x += 1'.
func (k Kind) IsCompoundAssignOp() bool {
	switch k {
	case Plus, Minus, Star, Slash, Percent, OrOr, AndAnd:
		return true
	default:
		return false
	}
}
