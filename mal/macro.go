package mal

// isMacroCall reports whether ast is a non-empty List whose head symbol is
// currently bound to a macro Function, returning that Function when so.
func isMacroCall(ast *Term, env *Environment) (*Term, bool) {
	if ast.Type != TList || len(ast.Cells) == 0 {
		return nil, false
	}
	head := ast.Cells[0]
	if head.Type != TSymbol {
		return nil, false
	}
	frame := env.Find(head)
	if frame == nil {
		return nil, false
	}
	v := frame.Scope[head.Str]
	if v.Type == TFunction && v.IsMacro {
		return v, true
	}
	return nil, false
}

// macroExpand repeatedly expands ast while it is a macro call: the macro
// function is invoked with its arguments unevaluated.
func macroExpand(ast *Term, env *Environment) (*Term, *MalError) {
	for {
		fn, ok := isMacroCall(ast, env)
		if !ok {
			return ast, nil
		}
		args := ast.Cells[1:]
		callEnv, err := BindFormals(fn.Env, fn.Params, args)
		if err != nil {
			return nil, err.WithTrace(ast)
		}
		result, err := Eval(fn.Body, callEnv)
		if err != nil {
			return nil, err.WithTrace(ast)
		}
		ast = result
	}
}

// MacroExpand1 is exposed as the `macroexpand` special form: it fully
// expands ast to a fixed point without evaluating the result.
func MacroExpand1(ast *Term, env *Environment) (*Term, *MalError) {
	return macroExpand(ast, env)
}

// Quasiquote rewrites x into a term whose evaluation reconstructs the
// intended data, walking x structurally and emitting cons/concat
// code-generation in place of each unquote/splice-unquote it finds.
func Quasiquote(x *Term) *Term {
	result := quasiquoteRec(x)
	if x.Type == TVector {
		// Preserve outer Vector-ness by wrapping in (vec ...); see
		// DESIGN.md for why.
		return NewList(NewSymbol("vec"), result)
	}
	return result
}

func quasiquoteRec(x *Term) *Term {
	if !x.IsSequential() || len(x.Cells) == 0 {
		return NewList(NewSymbol("quote"), x)
	}

	head := x.Cells[0]
	if head.Type == TSymbol && head.Str == "unquote" && len(x.Cells) >= 2 {
		return x.Cells[1]
	}

	if head.IsSequential() && len(head.Cells) > 0 {
		h0 := head.Cells[0]
		if h0.Type == TSymbol && h0.Str == "splice-unquote" && len(head.Cells) >= 2 {
			rest := NewList(x.Cells[1:]...)
			return NewList(NewSymbol("concat"), head.Cells[1], quasiquoteRec(rest))
		}
	}

	rest := NewList(x.Cells[1:]...)
	return NewList(NewSymbol("cons"), quasiquoteRec(head), quasiquoteRec(rest))
}
