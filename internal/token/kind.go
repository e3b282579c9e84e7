package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token, raw (`r#type`) or plain.
	Ident
	// Lifetime represents a lifetime or loop label ('a).
	Lifetime

	KwAs
	KwBreak
	KwConst
	KwContinue
	KwCrate
	KwElse
	KwEnum
	KwExtern
	KwFn
	KwFor
	KwIf
	KwImpl
	KwIn
	KwLet
	KwLoop
	KwMatch
	KwMod
	KwMove
	KwMut
	KwPub
	KwRef
	KwReturn
	KwSelfValue // self
	KwSelfType  // Self
	KwStatic
	KwStruct
	KwSuper
	KwTrait
	KwType
	KwUnsafe
	KwUse
	KwWhere
	KwWhile
	KwAsync
	KwAwait
	KwDyn

	// BoolLit represents `true` or `false`.
	BoolLit
	// IntLit represents an integer literal, suffix included.
	IntLit
	// FloatLit represents a float literal, suffix included.
	FloatLit
	// CharLit represents a char literal ('x').
	CharLit
	// ByteLit represents a byte literal (b'x').
	ByteLit
	// StringLit represents a "..." literal.
	StringLit
	// RawStringLit represents r"..." / r#"..."# literals.
	RawStringLit
	// ByteStringLit represents b"..." literals.
	ByteStringLit
	// RawByteStringLit represents br"..." literals.
	RawByteStringLit
	// CStringLit represents c"..." and cr"..." literals.
	CStringLit

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Caret      // ^
	Bang       // !
	Amp        // &
	Pipe       // |
	AndAnd     // &&
	OrOr       // ||
	Shl        // <<
	Shr        // >>
	PlusEq     // +=
	MinusEq    // -=
	StarEq     // *=
	SlashEq    // /=
	PercentEq  // %=
	CaretEq    // ^=
	AmpEq      // &=
	PipeEq     // |=
	ShlEq      // <<=
	ShrEq      // >>=
	Eq         // =
	EqEq       // ==
	Ne         // !=
	Gt         // >
	Lt         // <
	Ge         // >=
	Le         // <=
	At         // @
	Underscore // _
	Dot        // .
	DotDot     // ..
	DotDotDot  // ...
	DotDotEq   // ..=
	Comma      // ,
	Semi       // ;
	Colon      // :
	PathSep    // ::
	RArrow     // ->
	FatArrow   // =>
	Pound      // #
	Dollar     // $
	Question   // ?
	Tilde      // ~
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
)

var kindNames = map[Kind]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident", Lifetime: "Lifetime",
	BoolLit: "BoolLit", IntLit: "IntLit", FloatLit: "FloatLit", CharLit: "CharLit",
	ByteLit: "ByteLit", StringLit: "StringLit", RawStringLit: "RawStringLit",
	ByteStringLit: "ByteStringLit", RawByteStringLit: "RawByteStringLit", CStringLit: "CStringLit",
}

var punctText = map[Kind]string{
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Caret: "^", Bang: "!",
	Amp: "&", Pipe: "|", AndAnd: "&&", OrOr: "||", Shl: "<<", Shr: ">>",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=", PercentEq: "%=",
	CaretEq: "^=", AmpEq: "&=", PipeEq: "|=", ShlEq: "<<=", ShrEq: ">>=",
	Eq: "=", EqEq: "==", Ne: "!=", Gt: ">", Lt: "<", Ge: ">=", Le: "<=",
	At: "@", Underscore: "_", Dot: ".", DotDot: "..", DotDotDot: "...", DotDotEq: "..=",
	Comma: ",", Semi: ";", Colon: ":", PathSep: "::", RArrow: "->", FatArrow: "=>",
	Pound: "#", Dollar: "$", Question: "?", Tilde: "~",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if text, ok := punctText[k]; ok {
		return "'" + text + "'"
	}
	if kw, ok := keywordText[k]; ok {
		return "kw:" + kw
	}
	return "Kind(?)"
}
