package mal

import "fmt"

// Eval evaluates ast in env, trampolining on every tail position (let*, do,
// if branches, function application, quasiquote, eval, the catch body of
// try*) instead of recursing, so that deeply tail-recursive Mal programs run
// in constant Go stack space.
func Eval(ast *Term, env *Environment) (*Term, *MalError) {
	for {
		if ast.Type != TList {
			return evalAst(ast, env)
		}

		expanded, err := macroExpand(ast, env)
		if err != nil {
			return nil, err.WithTrace(ast)
		}
		ast = expanded

		if ast.Type != TList {
			return evalAst(ast, env)
		}
		if len(ast.Cells) == 0 {
			return NewList(), nil
		}

		head := ast.Cells[0]
		if head.Type == TSymbol {
			switch head.Str {
			case "def!":
				if len(ast.Cells) != 3 {
					return nil, errArity("def!", "expected 2 arguments, got %d", len(ast.Cells)-1)
				}
				if ast.Cells[1].Type != TSymbol {
					return nil, errType("def!: first argument must be a symbol, got %s", ast.Cells[1].Type)
				}
				value, err := Eval(ast.Cells[2], env)
				if err != nil {
					return nil, err.WithTrace(ast)
				}
				env.Set(ast.Cells[1], value)
				return value, nil

			case "defmacro!":
				if len(ast.Cells) != 3 {
					return nil, errArity("defmacro!", "expected 2 arguments, got %d", len(ast.Cells)-1)
				}
				if ast.Cells[1].Type != TSymbol {
					return nil, errType("defmacro!: first argument must be a symbol, got %s", ast.Cells[1].Type)
				}
				value, err := Eval(ast.Cells[2], env)
				if err != nil {
					return nil, err.WithTrace(ast)
				}
				if value.Type != TFunction {
					return nil, errType("defmacro!: value must be a function, got %s", value.Type)
				}
				macroFn := &Term{
					Type:    TFunction,
					Params:  value.Params,
					Body:    value.Body,
					Env:     value.Env,
					IsMacro: true,
					Meta:    value.Meta,
				}
				env.Set(ast.Cells[1], macroFn)
				return macroFn, nil

			case "let*":
				if len(ast.Cells) != 3 {
					return nil, errArity("let*", "expected 2 arguments, got %d", len(ast.Cells)-1)
				}
				bindings := ast.Cells[1]
				if !bindings.IsSequential() || bindings.Len()%2 != 0 {
					return nil, errType("let*: bindings must be a list/vector of even length")
				}
				letEnv := NewEnvironment(env)
				for i := 0; i < len(bindings.Cells); i += 2 {
					sym := bindings.Cells[i]
					if sym.Type != TSymbol {
						return nil, errType("let*: binding name must be a symbol, got %s", sym.Type)
					}
					val, err := Eval(bindings.Cells[i+1], letEnv)
					if err != nil {
						return nil, err.WithTrace(ast)
					}
					letEnv.Set(sym, val)
				}
				ast = ast.Cells[2]
				env = letEnv
				continue

			case "do":
				if len(ast.Cells) < 2 {
					return Nil, nil
				}
				for _, c := range ast.Cells[1 : len(ast.Cells)-1] {
					if _, err := Eval(c, env); err != nil {
						return nil, err.WithTrace(ast)
					}
				}
				ast = ast.Cells[len(ast.Cells)-1]
				continue

			case "if":
				if len(ast.Cells) != 3 && len(ast.Cells) != 4 {
					return nil, errArity("if", "expected 2 or 3 arguments, got %d", len(ast.Cells)-1)
				}
				cond, err := Eval(ast.Cells[1], env)
				if err != nil {
					return nil, err.WithTrace(ast)
				}
				if cond.IsTruthy() {
					ast = ast.Cells[2]
					continue
				}
				if len(ast.Cells) == 4 {
					ast = ast.Cells[3]
					continue
				}
				return Nil, nil

			case "fn*":
				if len(ast.Cells) != 3 {
					return nil, errArity("fn*", "expected 2 arguments, got %d", len(ast.Cells)-1)
				}
				if err := ValidateParams(ast.Cells[1]); err != nil {
					return nil, err.WithTrace(ast)
				}
				return NewFunction(ast.Cells[1], ast.Cells[2], env), nil

			case "quote":
				if len(ast.Cells) != 2 {
					return nil, errArity("quote", "expected 1 argument, got %d", len(ast.Cells)-1)
				}
				return ast.Cells[1], nil

			case "quasiquote":
				if len(ast.Cells) != 2 {
					return nil, errArity("quasiquote", "expected 1 argument, got %d", len(ast.Cells)-1)
				}
				ast = Quasiquote(ast.Cells[1])
				continue

			case "macroexpand":
				if len(ast.Cells) != 2 {
					return nil, errArity("macroexpand", "expected 1 argument, got %d", len(ast.Cells)-1)
				}
				result, err := MacroExpand1(ast.Cells[1], env)
				if err != nil {
					return nil, err.WithTrace(ast)
				}
				return result, nil

			case "try*":
				if len(ast.Cells) != 3 {
					return nil, errArity("try*", "expected 2 arguments, got %d", len(ast.Cells)-1)
				}
				value, evalErr := Eval(ast.Cells[1], env)
				if evalErr == nil {
					return value, nil
				}
				clause := ast.Cells[2]
				if clause.Type != TList || len(clause.Cells) != 3 ||
					clause.Cells[0].Type != TSymbol || clause.Cells[0].Str != "catch*" {
					return nil, evalErr.WithTrace(ast)
				}
				name := clause.Cells[1]
				if name.Type != TSymbol {
					return nil, errType("catch*: binding name must be a symbol, got %s", name.Type)
				}
				catchEnv := NewEnvironment(env)
				catchEnv.Set(name, evalErr.Value)
				ast = clause.Cells[2]
				env = catchEnv
				continue

			case "trace":
				if len(ast.Cells) != 2 {
					return nil, errArity("trace", "expected 1 argument, got %d", len(ast.Cells)-1)
				}
				value, err := Eval(ast.Cells[1], env)
				if err != nil {
					return nil, err.WithTrace(ast)
				}
				rt := env.Root().Runtime
				if rt != nil && rt.Printer != nil && rt.Stderr != nil {
					fmt.Fprintln(rt.Stderr, rt.Printer.PrintStr(value, true))
				}
				return value, nil

			case "eval":
				if len(ast.Cells) != 2 {
					return nil, errArity("eval", "expected 1 argument, got %d", len(ast.Cells)-1)
				}
				form, err := Eval(ast.Cells[1], env)
				if err != nil {
					return nil, err.WithTrace(ast)
				}
				ast = form
				env = env.Root()
				continue
			}
		}

		evaluated, err := evalList(ast, env)
		if err != nil {
			return nil, err.WithTrace(ast)
		}
		f := evaluated[0]
		args := evaluated[1:]

		switch f.Type {
		case TNative:
			value, err := f.Native(args)
			if err != nil {
				return nil, err.WithTrace(ast)
			}
			return value, nil
		case TFunction:
			if f.IsMacro {
				return nil, errNotCallable(f).WithTrace(ast)
			}
			callEnv, err := BindFormals(f.Env, f.Params, args)
			if err != nil {
				return nil, err.WithTrace(ast)
			}
			ast = f.Body
			env = callEnv
			continue
		default:
			return nil, errNotCallable(f).WithTrace(ast)
		}
	}
}

// evalAst dispatches non-List terms: Symbols resolve against env, Vectors
// and HashMaps evaluate their elements/values, everything else (numbers,
// strings, keywords, nil, booleans, functions) is self-evaluating.
func evalAst(ast *Term, env *Environment) (*Term, *MalError) {
	switch ast.Type {
	case TSymbol:
		return env.Get(ast)
	case TVector:
		out := make([]*Term, len(ast.Cells))
		for i, c := range ast.Cells {
			v, err := Eval(c, env)
			if err != nil {
				return nil, err.WithTrace(ast)
			}
			out[i] = v
		}
		return NewVector(out...), nil
	case THashMap:
		out := NewHashMap()
		for _, k := range HashMapKeys(ast) {
			val, _ := HashMapGet(ast, k)
			v, err := Eval(val, env)
			if err != nil {
				return nil, err.WithTrace(ast)
			}
			out, _ = HashMapSet(out, k, v)
		}
		return out, nil
	default:
		return ast, nil
	}
}

// evalList evaluates every element of a List in order, short-circuiting on
// the first error. Used by general application to evaluate the operator and
// its operands.
func evalList(ast *Term, env *Environment) ([]*Term, *MalError) {
	out := make([]*Term, len(ast.Cells))
	for i, c := range ast.Cells {
		v, err := Eval(c, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
