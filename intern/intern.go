// Package intern implements the two-way symbol table used by HIR lowering.
// It plays the role the source's src/hir interner plays for Metal DOL, and
// follows the "replace string-keyed symbol tables with a two-way interner"
// guidance of spec.md 9: an Interner owns its strings, is append-only
// within a compilation, and is never a process-global (spec.md 5/9) -- each
// compilation constructs and owns exactly one.
package intern

// Symbol is an opaque handle into an Interner. Two symbols from the same
// Interner compare equal iff they were interned from equal byte sequences.
// Symbols from different Interners are never comparable in a meaningful
// way, matching the "independent interner per compilation" contract of
// spec.md 5 (testable property 2, parser locality).
type Symbol struct {
	id int32
}

// sentinelText is returned by Lookup for an id that was never produced by this
// Interner (spec.md 3: "resolving a nonexistent handle yields a sentinel").
const sentinelText = "<invalid-symbol>"

// IsValid reports whether s was ever produced by an Intern call.
func (s Symbol) IsValid() bool { return s.id > 0 }

// Interner maps byte strings to dense integer ids and back. It is not
// safe for concurrent use -- per spec.md 5 each compilation (and hence
// each Interner) is single-threaded, and parallelism is achieved by giving
// independent files independent Interners rather than sharing one.
type Interner struct {
	ids  map[string]int32
	strs []string
}

// New returns an empty Interner. Index 0 is reserved so the zero Symbol is
// always invalid.
func New() *Interner {
	return &Interner{
		ids:  make(map[string]int32),
		strs: []string{""},
	}
}

// Intern returns the Symbol for s, assigning a fresh id the first time a
// given string is seen. Interning the same bytes twice always yields the
// same Symbol (idempotent, per spec.md 4B).
func (in *Interner) Intern(s string) Symbol {
	if id, ok := in.ids[s]; ok {
		return Symbol{id: id}
	}
	id := int32(len(in.strs))
	in.strs = append(in.strs, s)
	in.ids[s] = id
	return Symbol{id: id}
}

// Lookup returns the original string for sym, or the sentinel text if sym
// was not produced by this Interner.
func (in *Interner) Lookup(sym Symbol) string {
	if sym.id <= 0 || int(sym.id) >= len(in.strs) {
		return sentinelText
	}
	return in.strs[sym.id]
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int { return len(in.strs) - 1 }
