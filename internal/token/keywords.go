package token

// Strict keywords of the 2021 edition that the scanner cares about.
// `true`/`false` are lexed as BoolLit.
var keywords = map[string]Kind{
	"as":       KwAs,
	"break":    KwBreak,
	"const":    KwConst,
	"continue": KwContinue,
	"crate":    KwCrate,
	"else":     KwElse,
	"enum":     KwEnum,
	"extern":   KwExtern,
	"fn":       KwFn,
	"for":      KwFor,
	"if":       KwIf,
	"impl":     KwImpl,
	"in":       KwIn,
	"let":      KwLet,
	"loop":     KwLoop,
	"match":    KwMatch,
	"mod":      KwMod,
	"move":     KwMove,
	"mut":      KwMut,
	"pub":      KwPub,
	"ref":      KwRef,
	"return":   KwReturn,
	"self":     KwSelfValue,
	"Self":     KwSelfType,
	"static":   KwStatic,
	"struct":   KwStruct,
	"super":    KwSuper,
	"trait":    KwTrait,
	"type":     KwType,
	"unsafe":   KwUnsafe,
	"use":      KwUse,
	"where":    KwWhere,
	"while":    KwWhile,
	"async":    KwAsync,
	"await":    KwAwait,
	"dyn":      KwDyn,
	"true":     BoolLit,
	"false":    BoolLit,
}

var keywordText = func() map[Kind]string {
	out := make(map[Kind]string, len(keywords))
	for text, k := range keywords {
		if k != BoolLit {
			out[k] = text
		}
	}
	return out
}()

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Keywords are case-sensitive: `self` and `Self` are different kinds.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
