// Package mal implements the core of a small Clojure-inspired Lisp: the
// term representation, lexically-scoped environments, the tail-call
// trampolining evaluator, macro expansion, quasiquote, and the minimum
// built-in operation set needed to bootstrap the language from within
// itself.
package mal

import (
	"fmt"
	"sort"
	"sync"
)

// Type is the tag of a Term's underlying representation.
type Type int

// The possible Term tags.
const (
	Invalid Type = iota
	TNil
	TBool
	TNumber
	TString
	TKeyword
	TSymbol
	TList
	TVector
	THashMap
	TFunction
	TNative
	TAtom
	TError
)

var typeNames = [...]string{
	Invalid:   "invalid",
	TNil:      "nil",
	TBool:     "boolean",
	TNumber:   "number",
	TString:   "string",
	TKeyword:  "keyword",
	TSymbol:   "symbol",
	TList:     "list",
	TVector:   "vector",
	THashMap:  "hash-map",
	TFunction: "function",
	TNative:   "native-function",
	TAtom:     "atom",
	TError:    "error",
}

func (t Type) String() string {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return "invalid"
	}
	return typeNames[t]
}

// NativeFn is a host function bound into the root environment. It receives
// already-evaluated arguments and returns either a resulting Term or a
// MalError.
type NativeFn func(args []*Term) (*Term, *MalError)

// mapEntry is one key/value pair stored in a HashMap.
type mapEntry struct {
	Key *Term
	Val *Term
}

// Term is a tagged variant representing every value the evaluator, reader,
// and printer pass around. Terms are immutable after construction except
// for an Atom's referenced value; defmacro! builds a new Function Term with
// IsMacro set rather than changing the flag on an existing one.
type Term struct {
	Type Type

	Num int64  // TNumber
	Str string // TString / TSymbol / TKeyword content (Keyword without leading ':')
	B   bool   // TBool

	Cells []*Term             // TList / TVector elements
	Map   map[string]mapEntry // THashMap, keyed by encodeMapKey(key)

	// TFunction
	Params  *Term // sequential of Symbols, possibly containing "&"
	Body    *Term
	Env     *Environment
	IsMacro bool
	Meta    *Term

	// TNative
	Name   string
	Native NativeFn

	// TAtom
	Ref *Term
}

// Singletons for nil and the two booleans. Pointer identity is irrelevant
// for correctness (Equal never relies on it) but sharing them avoids
// needless allocation for the values used constantly by the evaluator.
var (
	Nil   = &Term{Type: TNil}
	True  = &Term{Type: TBool, B: true}
	False = &Term{Type: TBool, B: false}
)

// Symbols and keywords are interned in process-wide tables so that two
// requests for the same name return the same *Term, giving pointer equality
// as a (never required, but available) shortcut on top of plain name
// equality. Go string comparison already suffices for correctness; the
// table just lets special forms and builtins compare interned pointers
// cheaply when they want to.
var (
	symbolMu    sync.Mutex
	symbolTable = map[string]*Term{}
	keywordMu   sync.Mutex
	keywordTable = map[string]*Term{}
)

// NewNumber returns a Term representing the integer n.
func NewNumber(n int64) *Term {
	return &Term{Type: TNumber, Num: n}
}

// NewString returns a Term representing the string s.
func NewString(s string) *Term {
	return &Term{Type: TString, Str: s}
}

// NewSymbol returns the interned Term representing the symbol named name.
func NewSymbol(name string) *Term {
	symbolMu.Lock()
	defer symbolMu.Unlock()
	if t, ok := symbolTable[name]; ok {
		return t
	}
	t := &Term{Type: TSymbol, Str: name}
	symbolTable[name] = t
	return t
}

// NewKeyword returns the interned Term representing the keyword named name
// (name excludes the leading ':').
func NewKeyword(name string) *Term {
	keywordMu.Lock()
	defer keywordMu.Unlock()
	if t, ok := keywordTable[name]; ok {
		return t
	}
	t := &Term{Type: TKeyword, Str: name}
	keywordTable[name] = t
	return t
}

// NewList returns a Term representing a List containing items.
func NewList(items ...*Term) *Term {
	return &Term{Type: TList, Cells: items}
}

// NewVector returns a Term representing a Vector containing items.
func NewVector(items ...*Term) *Term {
	return &Term{Type: TVector, Cells: items}
}

// NewHashMap returns an empty HashMap Term.
func NewHashMap() *Term {
	return &Term{Type: THashMap, Map: make(map[string]mapEntry)}
}

// NewFunction returns a Term representing a user-defined closure.
func NewFunction(params, body *Term, env *Environment) *Term {
	return &Term{Type: TFunction, Params: params, Body: body, Env: env}
}

// NewNative returns a Term wrapping a host-implemented function.
func NewNative(name string, fn NativeFn) *Term {
	return &Term{Type: TNative, Name: name, Native: fn}
}

// NewAtom returns a Term representing a mutable cell initially holding val.
func NewAtom(val *Term) *Term {
	return &Term{Type: TAtom, Ref: val}
}

// IsNil reports whether t is the Nil singleton.
func (t *Term) IsNil() bool { return t.Type == TNil }

// IsTruthy reports whether t is anything other than false and nil.
func (t *Term) IsTruthy() bool {
	if t.Type == TNil {
		return false
	}
	if t.Type == TBool {
		return t.B
	}
	return true
}

// IsSequential reports whether t is a List or a Vector.
func (t *Term) IsSequential() bool {
	return t.Type == TList || t.Type == TVector
}

// IsCallable reports whether t can appear in head position of an
// application.
func (t *Term) IsCallable() bool {
	return t.Type == TFunction || t.Type == TNative
}

// Len returns the number of elements in a sequential Term, or 0 for Nil
// (so that `(count nil)` behaves like `(count ())`).
func (t *Term) Len() int {
	if t.Type == TNil {
		return 0
	}
	return len(t.Cells)
}

// encodeMapKey produces the Go-comparable map key used internally by
// HashMap, tagging the key's kind so that a String "foo" and Keyword "foo"
// never collide.
func encodeMapKey(key *Term) (string, bool) {
	switch key.Type {
	case TString:
		return "s:" + key.Str, true
	case TKeyword:
		return "k:" + key.Str, true
	default:
		return "", false
	}
}

// HashMapGet returns the value bound to key in m, or Nil with ok=false if
// absent or key is not a valid HashMap key type.
func HashMapGet(m *Term, key *Term) (*Term, bool) {
	k, ok := encodeMapKey(key)
	if !ok {
		return Nil, false
	}
	entry, ok := m.Map[k]
	if !ok {
		return Nil, false
	}
	return entry.Val, true
}

// HashMapSet returns a new HashMap equal to m with key bound to val.
func HashMapSet(m *Term, key, val *Term) (*Term, bool) {
	k, ok := encodeMapKey(key)
	if !ok {
		return nil, false
	}
	out := NewHashMap()
	for ek, ev := range m.Map {
		out.Map[ek] = ev
	}
	out.Map[k] = mapEntry{Key: key, Val: val}
	return out, true
}

// HashMapDissoc returns a new HashMap equal to m with key removed.
func HashMapDissoc(m *Term, key *Term) (*Term, bool) {
	k, ok := encodeMapKey(key)
	if !ok {
		return nil, false
	}
	out := NewHashMap()
	for ek, ev := range m.Map {
		if ek == k {
			continue
		}
		out.Map[ek] = ev
	}
	return out, true
}

// HashMapKeys returns the HashMap's keys in a stable (sorted) order so that
// printed output is deterministic.
func HashMapKeys(m *Term) []*Term {
	keys := make([]string, 0, len(m.Map))
	for k := range m.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Term, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.Map[k].Key)
	}
	return out
}

// HashMapVals returns the HashMap's values, ordered identically to
// HashMapKeys.
func HashMapVals(m *Term) []*Term {
	keys := HashMapKeys(m)
	out := make([]*Term, 0, len(keys))
	for _, k := range keys {
		v, _ := HashMapGet(m, k)
		out = append(out, v)
	}
	return out
}

// Equal implements Mal's value equality: sequentials compare element-wise
// regardless of List/Vector tag, HashMaps compare by key/value sets,
// everything else compares by Type and content.
func Equal(a, b *Term) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.IsSequential() && b.IsSequential() {
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !Equal(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TNil:
		return true
	case TBool:
		return a.B == b.B
	case TNumber:
		return a.Num == b.Num
	case TString, TSymbol, TKeyword:
		return a.Str == b.Str
	case THashMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for k, ev := range a.Map {
			bv, ok := b.Map[k]
			if !ok || !Equal(ev.Val, bv.Val) {
				return false
			}
		}
		return true
	case TFunction, TNative, TAtom:
		return a == b
	case TError:
		return false
	default:
		return false
	}
}

// GoString supports %#v debugging without leaking internal field layout
// through fmt's default struct formatting.
func (t *Term) GoString() string {
	return fmt.Sprintf("Term{%s %q}", t.Type, t.Str)
}
