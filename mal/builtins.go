package mal

import (
	"encoding/json"
	"fmt"
	"os"
)

// builtin pairs a name with its NativeFn for registration.
type builtin struct {
	name string
	fn   NativeFn
}

// installBuiltins registers the core NativeFunction set plus the JSON and
// metadata extensions into env, which must be the root Environment.
func installBuiltins(env *Environment) {
	for _, b := range defaultBuiltins(env) {
		env.Set(NewSymbol(b.name), NewNative(b.name, b.fn))
	}
}

func defaultBuiltins(root *Environment) []builtin {
	return []builtin{
		// arithmetic
		{"+", biAdd}, {"-", biSub}, {"*", biMul}, {"/", biDiv},

		// comparison
		{"=", biEq}, {"<", biLt}, {"<=", biLe}, {">", biGt}, {">=", biGe},

		// numeric max/min/mod, string comparison
		{"max", biMax}, {"min", biMin}, {"mod", biMod},
		{"string=", biStringEq}, {"string<", biStringLt}, {"string<=", biStringLe},
		{"string>", biStringGt}, {"string>=", biStringGe},

		// predicates
		{"nil?", biPred(func(t *Term) bool { return t.Type == TNil })},
		{"true?", biPred(func(t *Term) bool { return t.Type == TBool && t.B })},
		{"false?", biPred(func(t *Term) bool { return t.Type == TBool && !t.B })},
		{"symbol?", biPred(func(t *Term) bool { return t.Type == TSymbol })},
		{"keyword?", biPred(func(t *Term) bool { return t.Type == TKeyword })},
		{"vector?", biPred(func(t *Term) bool { return t.Type == TVector })},
		{"list?", biPred(func(t *Term) bool { return t.Type == TList })},
		{"sequential?", biPred(func(t *Term) bool { return t.IsSequential() })},
		{"map?", biPred(func(t *Term) bool { return t.Type == THashMap })},
		{"fn?", biPred(func(t *Term) bool { return t.Type == TNative || (t.Type == TFunction && !t.IsMacro) })},
		{"macro?", biPred(func(t *Term) bool { return t.Type == TFunction && t.IsMacro })},
		{"atom?", biPred(func(t *Term) bool { return t.Type == TAtom })},
		{"string?", biPred(func(t *Term) bool { return t.Type == TString })},
		{"number?", biPred(func(t *Term) bool { return t.Type == TNumber })},
		{"empty?", biEmpty},

		// sequence ops
		{"list", biList},
		{"vector", biVector},
		{"count", biCount},
		{"cons", biCons},
		{"concat", biConcat},
		{"nth", biNth},
		{"first", biFirst},
		{"rest", biRest},
		{"vec", biVec},
		{"reverse", biReverse},
		{"apply", biApply},
		{"map", biMap},

		// map ops
		{"hash-map", biHashMap},
		{"assoc", biAssoc},
		{"dissoc", biDissoc},
		{"get", biGet},
		{"contains?", biContains},
		{"keys", biKeys},
		{"vals", biVals},

		// I/O
		{"pr-str", biPrStr(root)},
		{"str", biStr(root)},
		{"prn", biPrn(root)},
		{"println", biPrintln(root)},
		{"slurp", biSlurp},

		// symbol/keyword constructors
		{"symbol", biSymbol},
		{"keyword", biKeyword},

		// atoms
		{"atom", biAtom},
		{"deref", biDeref},
		{"reset!", biReset},
		{"swap!", biSwap},

		// exceptions, reading
		{"throw", biThrow},
		{"read-string", biReadString(root)},

		// eval, bound as a first-class value in addition to the
		// evaluator's own tail-continuing special-form case (the special
		// form is the TCO fast path for direct (eval x) calls; this entry
		// is what lets eval be passed around, e.g. (map eval forms))
		{"eval", biEval(root)},

		// JSON and metadata extensions
		{"to-json", biToJSON},
		{"from-json", biFromJSON},
		{"meta", biMeta},
		{"with-meta", biWithMeta},
		{"vary-meta", biVaryMeta},
	}
}

func arity(name string, got, want int) *MalError {
	return errArity(name, "expected %d argument(s), got %d", want, got)
}

func arityAtLeast(name string, got, want int) *MalError {
	return errArity(name, "expected at least %d argument(s), got %d", want, got)
}

func requireType(name string, t *Term, want Type) *MalError {
	if t.Type != want {
		return errType("%s: expected %s, got %s", name, want, t.Type)
	}
	return nil
}

func requireNumber(name string, t *Term) *MalError {
	return requireType(name, t, TNumber)
}

func requireString(name string, t *Term) *MalError {
	return requireType(name, t, TString)
}

// requireSeqable rejects any Term that Len() would otherwise silently treat
// as zero-length (Number, String, Symbol, Keyword, Bool, Function, Native,
// Atom), matching the IsSequential() guard first/rest/nth/vec already use.
func requireSeqable(name string, t *Term) *MalError {
	if t.IsNil() || t.IsSequential() {
		return nil
	}
	return errType("%s: expected a list or vector, got %s", name, t.Type)
}

// --- arithmetic ---

func biAdd(args []*Term) (*Term, *MalError) {
	var sum int64
	for _, a := range args {
		if err := requireNumber("+", a); err != nil {
			return nil, err
		}
		sum += a.Num
	}
	return NewNumber(sum), nil
}

func biSub(args []*Term) (*Term, *MalError) {
	if len(args) == 0 {
		return nil, arityAtLeast("-", 0, 1)
	}
	for _, a := range args {
		if err := requireNumber("-", a); err != nil {
			return nil, err
		}
	}
	if len(args) == 1 {
		return NewNumber(-args[0].Num), nil
	}
	total := args[0].Num
	for _, a := range args[1:] {
		total -= a.Num
	}
	return NewNumber(total), nil
}

func biMul(args []*Term) (*Term, *MalError) {
	var product int64 = 1
	for _, a := range args {
		if err := requireNumber("*", a); err != nil {
			return nil, err
		}
		product *= a.Num
	}
	return NewNumber(product), nil
}

func biDiv(args []*Term) (*Term, *MalError) {
	if len(args) == 0 {
		return nil, arityAtLeast("/", 0, 1)
	}
	for _, a := range args {
		if err := requireNumber("/", a); err != nil {
			return nil, err
		}
	}
	if len(args) == 1 {
		if args[0].Num == 0 {
			return nil, errType("/: division by zero")
		}
		return NewNumber(1 / args[0].Num), nil
	}
	total := args[0].Num
	for _, a := range args[1:] {
		if a.Num == 0 {
			return nil, errType("/: division by zero")
		}
		total /= a.Num
	}
	return NewNumber(total), nil
}

// --- comparison ---

func biEq(args []*Term) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity("=", len(args), 2)
	}
	return boolTerm(Equal(args[0], args[1])), nil
}

func numCompare(name string, args []*Term, cmp func(a, b int64) bool) (*Term, *MalError) {
	if len(args) < 2 {
		return nil, arityAtLeast(name, len(args), 2)
	}
	for _, a := range args {
		if err := requireNumber(name, a); err != nil {
			return nil, err
		}
	}
	for i := 0; i+1 < len(args); i++ {
		if !cmp(args[i].Num, args[i+1].Num) {
			return False, nil
		}
	}
	return True, nil
}

func biLt(args []*Term) (*Term, *MalError) {
	return numCompare("<", args, func(a, b int64) bool { return a < b })
}
func biLe(args []*Term) (*Term, *MalError) {
	return numCompare("<=", args, func(a, b int64) bool { return a <= b })
}
func biGt(args []*Term) (*Term, *MalError) {
	return numCompare(">", args, func(a, b int64) bool { return a > b })
}
func biGe(args []*Term) (*Term, *MalError) {
	return numCompare(">=", args, func(a, b int64) bool { return a >= b })
}

// biMax and biMin fold left over one or more numeric args, where </> need at
// least two.
func biMax(args []*Term) (*Term, *MalError) {
	if len(args) == 0 {
		return nil, arityAtLeast("max", 0, 1)
	}
	if err := requireNumber("max", args[0]); err != nil {
		return nil, err
	}
	best := args[0].Num
	for _, a := range args[1:] {
		if err := requireNumber("max", a); err != nil {
			return nil, err
		}
		if a.Num > best {
			best = a.Num
		}
	}
	return NewNumber(best), nil
}

func biMin(args []*Term) (*Term, *MalError) {
	if len(args) == 0 {
		return nil, arityAtLeast("min", 0, 1)
	}
	if err := requireNumber("min", args[0]); err != nil {
		return nil, err
	}
	best := args[0].Num
	for _, a := range args[1:] {
		if err := requireNumber("min", a); err != nil {
			return nil, err
		}
		if a.Num < best {
			best = a.Num
		}
	}
	return NewNumber(best), nil
}

// biMod is a two-argument integer remainder operation distinct from
// division.
func biMod(args []*Term) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity("mod", len(args), 2)
	}
	if err := requireNumber("mod", args[0]); err != nil {
		return nil, err
	}
	if err := requireNumber("mod", args[1]); err != nil {
		return nil, err
	}
	if args[1].Num == 0 {
		return nil, errType("mod: division by zero")
	}
	return NewNumber(args[0].Num % args[1].Num), nil
}

func boolTerm(b bool) *Term {
	if b {
		return True
	}
	return False
}

// --- string comparison ---
//
// Registered under their own string=/string</string> names rather than
// overloading =/</> onto strings.

func strCompare(name string, args []*Term, cmp func(a, b string) bool) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity(name, len(args), 2)
	}
	if err := requireString(name, args[0]); err != nil {
		return nil, err
	}
	if err := requireString(name, args[1]); err != nil {
		return nil, err
	}
	return boolTerm(cmp(args[0].Str, args[1].Str)), nil
}

func biStringEq(args []*Term) (*Term, *MalError) {
	return strCompare("string=", args, func(a, b string) bool { return a == b })
}
func biStringLt(args []*Term) (*Term, *MalError) {
	return strCompare("string<", args, func(a, b string) bool { return a < b })
}
func biStringLe(args []*Term) (*Term, *MalError) {
	return strCompare("string<=", args, func(a, b string) bool { return a <= b })
}
func biStringGt(args []*Term) (*Term, *MalError) {
	return strCompare("string>", args, func(a, b string) bool { return a > b })
}
func biStringGe(args []*Term) (*Term, *MalError) {
	return strCompare("string>=", args, func(a, b string) bool { return a >= b })
}

// --- predicates ---

func biPred(p func(*Term) bool) NativeFn {
	return func(args []*Term) (*Term, *MalError) {
		if len(args) != 1 {
			return nil, arity("predicate", len(args), 1)
		}
		return boolTerm(p(args[0])), nil
	}
}

// --- sequence ops ---

func biList(args []*Term) (*Term, *MalError) {
	return NewList(args...), nil
}

func biVector(args []*Term) (*Term, *MalError) {
	return NewVector(args...), nil
}

func biCount(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("count", len(args), 1)
	}
	if err := requireSeqable("count", args[0]); err != nil {
		return nil, err
	}
	return NewNumber(int64(args[0].Len())), nil
}

func biEmpty(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("empty?", len(args), 1)
	}
	if err := requireSeqable("empty?", args[0]); err != nil {
		return nil, err
	}
	return boolTerm(args[0].Len() == 0), nil
}

func biCons(args []*Term) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity("cons", len(args), 2)
	}
	if !args[1].IsSequential() {
		return nil, errType("cons: second argument must be sequential, got %s", args[1].Type)
	}
	out := make([]*Term, 0, 1+len(args[1].Cells))
	out = append(out, args[0])
	out = append(out, args[1].Cells...)
	return NewList(out...), nil
}

func biConcat(args []*Term) (*Term, *MalError) {
	var out []*Term
	for _, a := range args {
		if !a.IsSequential() {
			return nil, errType("concat: argument must be sequential, got %s", a.Type)
		}
		out = append(out, a.Cells...)
	}
	return NewList(out...), nil
}

func biNth(args []*Term) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity("nth", len(args), 2)
	}
	if !args[0].IsSequential() {
		return nil, errType("nth: first argument must be sequential, got %s", args[0].Type)
	}
	if err := requireNumber("nth", args[1]); err != nil {
		return nil, err
	}
	idx := args[1].Num
	if idx < 0 || idx >= int64(len(args[0].Cells)) {
		return nil, errType("nth: index %d out of range", idx)
	}
	return args[0].Cells[idx], nil
}

func biFirst(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("first", len(args), 1)
	}
	if args[0].IsNil() {
		return Nil, nil
	}
	if !args[0].IsSequential() {
		return nil, errType("first: argument must be sequential, got %s", args[0].Type)
	}
	if len(args[0].Cells) == 0 {
		return Nil, nil
	}
	return args[0].Cells[0], nil
}

func biRest(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("rest", len(args), 1)
	}
	if args[0].IsNil() {
		return NewList(), nil
	}
	if !args[0].IsSequential() {
		return nil, errType("rest: argument must be sequential, got %s", args[0].Type)
	}
	if len(args[0].Cells) <= 1 {
		return NewList(), nil
	}
	return NewList(args[0].Cells[1:]...), nil
}

func biVec(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("vec", len(args), 1)
	}
	if !args[0].IsSequential() {
		return nil, errType("vec: argument must be sequential, got %s", args[0].Type)
	}
	return NewVector(args[0].Cells...), nil
}

// biReverse returns a new sequential of the same kind rather than mutating
// args[0]'s Cells, matching the rest of this table's copy-on-write
// treatment of lists and vectors.
func biReverse(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("reverse", len(args), 1)
	}
	if err := requireSeqable("reverse", args[0]); err != nil {
		return nil, err
	}
	cells := args[0].Cells
	out := make([]*Term, len(cells))
	for i, c := range cells {
		out[len(cells)-1-i] = c
	}
	if args[0].Type == TVector {
		return NewVector(out...), nil
	}
	return NewList(out...), nil
}

// applyFn invokes f (Function or NativeFunction) on already-evaluated args,
// used by the apply/map builtins and by with-meta's companions. Duplicates
// the tail end of mal/eval.go's Eval loop deliberately: calls made from a
// builtin are never in tail position, so there is nothing to trampoline.
func applyFn(f *Term, args []*Term) (*Term, *MalError) {
	switch f.Type {
	case TNative:
		return f.Native(args)
	case TFunction:
		if f.IsMacro {
			return nil, errNotCallable(f)
		}
		callEnv, err := BindFormals(f.Env, f.Params, args)
		if err != nil {
			return nil, err
		}
		return Eval(f.Body, callEnv)
	default:
		return nil, errNotCallable(f)
	}
}

func biApply(args []*Term) (*Term, *MalError) {
	if len(args) < 2 {
		return nil, arityAtLeast("apply", len(args), 2)
	}
	f := args[0]
	last := args[len(args)-1]
	if !last.IsSequential() {
		return nil, errType("apply: last argument must be sequential, got %s", last.Type)
	}
	callArgs := make([]*Term, 0, len(args)-2+len(last.Cells))
	callArgs = append(callArgs, args[1:len(args)-1]...)
	callArgs = append(callArgs, last.Cells...)
	return applyFn(f, callArgs)
}

func biMap(args []*Term) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity("map", len(args), 2)
	}
	f := args[0]
	seq := args[1]
	if !seq.IsSequential() {
		return nil, errType("map: second argument must be sequential, got %s", seq.Type)
	}
	out := make([]*Term, len(seq.Cells))
	for i, c := range seq.Cells {
		v, err := applyFn(f, []*Term{c})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return NewList(out...), nil
}

// --- map ops ---

func biHashMap(args []*Term) (*Term, *MalError) {
	if len(args)%2 != 0 {
		return nil, errType("hash-map: expected an even number of arguments, got %d", len(args))
	}
	out := NewHashMap()
	for i := 0; i < len(args); i += 2 {
		var ok bool
		out, ok = HashMapSet(out, args[i], args[i+1])
		if !ok {
			return nil, errType("hash-map: keys must be string or keyword, got %s", args[i].Type)
		}
	}
	return out, nil
}

func biAssoc(args []*Term) (*Term, *MalError) {
	if len(args) < 1 || len(args)%2 != 1 {
		return nil, errType("assoc: expected a map followed by an even number of arguments")
	}
	if err := requireType("assoc", args[0], THashMap); err != nil {
		return nil, err
	}
	out := args[0]
	var ok bool
	for i := 1; i < len(args); i += 2 {
		out, ok = HashMapSet(out, args[i], args[i+1])
		if !ok {
			return nil, errType("assoc: keys must be string or keyword, got %s", args[i].Type)
		}
	}
	return out, nil
}

func biDissoc(args []*Term) (*Term, *MalError) {
	if len(args) < 1 {
		return nil, arityAtLeast("dissoc", len(args), 1)
	}
	if err := requireType("dissoc", args[0], THashMap); err != nil {
		return nil, err
	}
	out := args[0]
	for _, k := range args[1:] {
		if next, ok := HashMapDissoc(out, k); ok {
			out = next
		}
	}
	return out, nil
}

func biGet(args []*Term) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity("get", len(args), 2)
	}
	if args[0].IsNil() {
		return Nil, nil
	}
	if err := requireType("get", args[0], THashMap); err != nil {
		return nil, err
	}
	v, ok := HashMapGet(args[0], args[1])
	if !ok {
		return Nil, nil
	}
	return v, nil
}

func biContains(args []*Term) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity("contains?", len(args), 2)
	}
	if err := requireType("contains?", args[0], THashMap); err != nil {
		return nil, err
	}
	_, ok := HashMapGet(args[0], args[1])
	return boolTerm(ok), nil
}

func biKeys(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("keys", len(args), 1)
	}
	if err := requireType("keys", args[0], THashMap); err != nil {
		return nil, err
	}
	return NewList(HashMapKeys(args[0])...), nil
}

func biVals(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("vals", len(args), 1)
	}
	if err := requireType("vals", args[0], THashMap); err != nil {
		return nil, err
	}
	return NewList(HashMapVals(args[0])...), nil
}

// --- I/O ---

// biPrStr, biStr, biPrn, and biPrintln close over the root Environment so
// they can reach its injected Printer and output streams: NativeFn's
// signature takes only already-evaluated arguments, so the Runtime must be
// captured at registration time rather than passed in per call.
func biPrStr(root *Environment) NativeFn {
	return func(args []*Term) (*Term, *MalError) {
		return NewString(joinPrinted(root, args, true, " ")), nil
	}
}

func biStr(root *Environment) NativeFn {
	return func(args []*Term) (*Term, *MalError) {
		return NewString(joinPrinted(root, args, false, "")), nil
	}
}

func biPrn(root *Environment) NativeFn {
	return func(args []*Term) (*Term, *MalError) {
		writeLine(root, joinPrinted(root, args, true, " "))
		return Nil, nil
	}
}

func biPrintln(root *Environment) NativeFn {
	return func(args []*Term) (*Term, *MalError) {
		writeLine(root, joinPrinted(root, args, false, " "))
		return Nil, nil
	}
}

func joinPrinted(root *Environment, args []*Term, readable bool, sep string) string {
	rt := root.Runtime
	s := ""
	for i, a := range args {
		if i > 0 {
			s += sep
		}
		if rt != nil && rt.Printer != nil {
			s += rt.Printer.PrintStr(a, readable)
		} else {
			s += displayFallback(a)
		}
	}
	return s
}

func writeLine(root *Environment, s string) {
	rt := root.Runtime
	if rt != nil && rt.Stdout != nil {
		fmt.Fprintln(rt.Stdout, s)
		return
	}
	fmt.Fprintln(os.Stdout, s)
}

func biSlurp(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("slurp", len(args), 1)
	}
	if err := requireType("slurp", args[0], TString); err != nil {
		return nil, err
	}
	data, ioErr := os.ReadFile(args[0].Str)
	if ioErr != nil {
		return nil, errType("slurp: %s", ioErr)
	}
	return NewString(string(data)), nil
}

// --- symbol/keyword constructors ---

func biSymbol(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("symbol", len(args), 1)
	}
	if err := requireType("symbol", args[0], TString); err != nil {
		return nil, err
	}
	return NewSymbol(args[0].Str), nil
}

func biKeyword(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("keyword", len(args), 1)
	}
	switch args[0].Type {
	case TKeyword:
		return args[0], nil
	case TString:
		return NewKeyword(args[0].Str), nil
	default:
		return nil, errType("keyword: expected string or keyword, got %s", args[0].Type)
	}
}

// --- atoms ---

func biAtom(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("atom", len(args), 1)
	}
	return NewAtom(args[0]), nil
}

func biDeref(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("deref", len(args), 1)
	}
	if err := requireType("deref", args[0], TAtom); err != nil {
		return nil, err
	}
	return args[0].Ref, nil
}

func biReset(args []*Term) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity("reset!", len(args), 2)
	}
	if err := requireType("reset!", args[0], TAtom); err != nil {
		return nil, err
	}
	args[0].Ref = args[1]
	return args[1], nil
}

func biSwap(args []*Term) (*Term, *MalError) {
	if len(args) < 2 {
		return nil, arityAtLeast("swap!", len(args), 2)
	}
	if err := requireType("swap!", args[0], TAtom); err != nil {
		return nil, err
	}
	f := args[1]
	callArgs := make([]*Term, 0, 1+len(args)-2)
	callArgs = append(callArgs, args[0].Ref)
	callArgs = append(callArgs, args[2:]...)
	result, err := applyFn(f, callArgs)
	if err != nil {
		return nil, err
	}
	args[0].Ref = result
	return result, nil
}

// --- exceptions, reading ---

func biThrow(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("throw", len(args), 1)
	}
	return nil, Throw(args[0])
}

// biEval evaluates its argument against the root Environment, regardless of
// what env it was called from, matching the "eval" special form's own
// env.Root() rebinding. Closing over root (rather than taking an env
// argument) is required by NativeFn's signature.
func biEval(root *Environment) NativeFn {
	return func(args []*Term) (*Term, *MalError) {
		if len(args) != 1 {
			return nil, arity("eval", len(args), 1)
		}
		return Eval(args[0], root)
	}
}

func biReadString(root *Environment) NativeFn {
	return func(args []*Term) (*Term, *MalError) {
		if len(args) != 1 {
			return nil, arity("read-string", len(args), 1)
		}
		if err := requireType("read-string", args[0], TString); err != nil {
			return nil, err
		}
		rt := root.Runtime
		if rt == nil || rt.Reader == nil {
			return nil, errType("read-string: no reader configured")
		}
		return rt.Reader.ReadStr(args[0].Str)
	}
}

// --- JSON ---

func biToJSON(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("to-json", len(args), 1)
	}
	v, err := termToJSON(args[0])
	if err != nil {
		return nil, err
	}
	data, jsonErr := json.Marshal(v)
	if jsonErr != nil {
		return nil, errType("to-json: %s", jsonErr)
	}
	return NewString(string(data)), nil
}

func termToJSON(t *Term) (interface{}, *MalError) {
	switch t.Type {
	case TNil:
		return nil, nil
	case TBool:
		return t.B, nil
	case TNumber:
		return t.Num, nil
	case TString:
		return t.Str, nil
	case TKeyword:
		return t.Str, nil
	case TList, TVector:
		out := make([]interface{}, len(t.Cells))
		for i, c := range t.Cells {
			v, err := termToJSON(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case THashMap:
		out := make(map[string]interface{}, len(t.Map))
		for _, k := range HashMapKeys(t) {
			val, _ := HashMapGet(t, k)
			v, err := termToJSON(val)
			if err != nil {
				return nil, err
			}
			out[k.Str] = v
		}
		return out, nil
	default:
		return nil, errType("to-json: %s cannot be represented as JSON", t.Type)
	}
}

func biFromJSON(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("from-json", len(args), 1)
	}
	if err := requireType("from-json", args[0], TString); err != nil {
		return nil, err
	}
	var v interface{}
	if jsonErr := json.Unmarshal([]byte(args[0].Str), &v); jsonErr != nil {
		return nil, errType("from-json: %s", jsonErr)
	}
	return jsonToTerm(v), nil
}

func jsonToTerm(v interface{}) *Term {
	switch x := v.(type) {
	case nil:
		return Nil
	case bool:
		return boolTerm(x)
	case float64:
		return NewNumber(int64(x))
	case string:
		return NewString(x)
	case []interface{}:
		out := make([]*Term, len(x))
		for i, e := range x {
			out[i] = jsonToTerm(e)
		}
		return NewVector(out...)
	case map[string]interface{}:
		out := NewHashMap()
		for k, e := range x {
			out, _ = HashMapSet(out, NewString(k), jsonToTerm(e))
		}
		return out
	default:
		return Nil
	}
}

// --- metadata ---

func biMeta(args []*Term) (*Term, *MalError) {
	if len(args) != 1 {
		return nil, arity("meta", len(args), 1)
	}
	if args[0].Type != TFunction || args[0].Meta == nil {
		return Nil, nil
	}
	return args[0].Meta, nil
}

func biWithMeta(args []*Term) (*Term, *MalError) {
	if len(args) != 2 {
		return nil, arity("with-meta", len(args), 2)
	}
	if err := requireType("with-meta", args[0], TFunction); err != nil {
		return nil, err
	}
	copied := *args[0]
	copied.Meta = args[1]
	return &copied, nil
}

func biVaryMeta(args []*Term) (*Term, *MalError) {
	if len(args) < 2 {
		return nil, arityAtLeast("vary-meta", len(args), 2)
	}
	if err := requireType("vary-meta", args[0], TFunction); err != nil {
		return nil, err
	}
	cur := args[0].Meta
	if cur == nil {
		cur = Nil
	}
	callArgs := append([]*Term{cur}, args[2:]...)
	newMeta, err := applyFn(args[1], callArgs)
	if err != nil {
		return nil, err
	}
	copied := *args[0]
	copied.Meta = newMeta
	return &copied, nil
}
