package callsite

// Scope answers whether a name is visible at the call site as a local binding.
// Named placeholders that match no explicit argument resolve through it.
type Scope interface {
	Has(name string) bool
}

// NameSet is a finite scope.
type NameSet map[string]struct{}

// NewNameSet builds a scope from names.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, n := range names {
		set[NormalizeIdent(n)] = struct{}{}
	}
	return set
}

func (s NameSet) Has(name string) bool {
	_, ok := s[NormalizeIdent(name)]
	return ok
}

// AnyName treats every well-formed identifier as visible. The Rust front end
// uses it: input that compiles cannot contain an unresolved capture.
type AnyName struct{}

func (AnyName) Has(name string) bool { return IsIdentifier(NormalizeIdent(name)) }
