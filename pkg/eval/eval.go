package eval

// MaxExecutionSteps bounds the number of AST nodes a single Eval call
// may visit, the runtime half of §4.3's resource-limit contract (the
// parse-time half is MaxExprDepth).
const MaxExecutionSteps = 10000

// Eval executes a parsed Program's statements in order against env,
// with side effects. It returns the value of the last expression
// statement (used for condition evaluation) and any EvalError. An
// empty Program evaluates to a true BoolValue, matching §4.4's
// "empty condition treated as true" rule at the call site in the
// simulator; Eval itself just returns what was parsed.
func Eval(prog *Program, env *Env) (Value, *Error) {
	steps := 0
	var last Value
	last = BoolValue(true)
	for _, stmt := range prog.Statements {
		v, err := evalStatement(stmt, env, &steps)
		if err != nil {
			return Value{}, err
		}
		last = v
	}
	return last, nil
}

func evalStatement(stmt Statement, env *Env, steps *int) (Value, *Error) {
	switch s := stmt.(type) {
	case *Assignment:
		v, err := evalExpr(s.Value, env, steps)
		if err != nil {
			return Value{}, err
		}
		if err := env.set(s.Name, v); err != nil {
			return Value{}, err
		}
		return v, nil
	case *ExprStatement:
		return evalExpr(s.Expr, env, steps)
	default:
		return Value{}, newError(Syntax, "unknown statement")
	}
}

func tick(steps *int) *Error {
	*steps++
	if *steps > MaxExecutionSteps {
		return newError(ResourceLimit, "expression exceeded maximum execution step count")
	}
	return nil
}

func evalExpr(e Expr, env *Env, steps *int) (Value, *Error) {
	if err := tick(steps); err != nil {
		return Value{}, err
	}
	switch n := e.(type) {
	case *IntLit:
		return IntValue(n.Value), nil
	case *FloatLit:
		return FloatValue(n.Value), nil
	case *BoolLit:
		return BoolValue(n.Value), nil
	case *StringLit:
		return StringValue(n.Value), nil
	case *Ident:
		v, ok := env.get(n.Name)
		if !ok {
			return Value{}, newError(UndefinedVariable, "undefined variable "+n.Name)
		}
		return v, nil
	case *UnaryExpr:
		return evalUnary(n, env, steps)
	case *BinaryExpr:
		return evalBinary(n, env, steps)
	default:
		return Value{}, newError(Syntax, "unknown expression node")
	}
}

func evalUnary(n *UnaryExpr, env *Env, steps *int) (Value, *Error) {
	x, err := evalExpr(n.X, env, steps)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case "!":
		b, err := x.Truthy()
		if err != nil {
			return Value{}, err
		}
		return BoolValue(!b), nil
	case "-":
		switch x.Kind {
		case KindInt:
			return IntValue(-x.I), nil
		case KindFloat:
			return FloatValue(-x.F), nil
		default:
			return Value{}, newError(TypeMismatch, "unary - requires a numeric operand, got "+x.Kind.String())
		}
	default:
		return Value{}, newError(Syntax, "unknown unary operator "+n.Op)
	}
}

func evalBinary(n *BinaryExpr, env *Env, steps *int) (Value, *Error) {
	// Short-circuit && and || before evaluating the right operand.
	if n.Op == "&&" || n.Op == "||" {
		x, err := evalExpr(n.X, env, steps)
		if err != nil {
			return Value{}, err
		}
		xb, err := x.Truthy()
		if err != nil {
			return Value{}, err
		}
		if n.Op == "&&" && !xb {
			return BoolValue(false), nil
		}
		if n.Op == "||" && xb {
			return BoolValue(true), nil
		}
		y, err := evalExpr(n.Y, env, steps)
		if err != nil {
			return Value{}, err
		}
		yb, err := y.Truthy()
		if err != nil {
			return Value{}, err
		}
		return BoolValue(yb), nil
	}

	x, err := evalExpr(n.X, env, steps)
	if err != nil {
		return Value{}, err
	}
	y, err := evalExpr(n.Y, env, steps)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		return evalComparison(n.Op, x, y)
	case "+", "-", "*", "/", "%":
		return evalArithmetic(n.Op, x, y)
	case "&", "|", "^":
		return evalBitwise(n.Op, x, y)
	default:
		return Value{}, newError(Syntax, "unknown binary operator "+n.Op)
	}
}

func numeric(v Value) (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I), true
	case KindFloat:
		return float64(v.F), true
	default:
		return 0, false
	}
}

func evalComparison(op string, x, y Value) (Value, *Error) {
	if x.Kind == KindString && y.Kind == KindString {
		switch op {
		case "==":
			return BoolValue(x.S == y.S), nil
		case "!=":
			return BoolValue(x.S != y.S), nil
		case "<":
			return BoolValue(x.S < y.S), nil
		case "<=":
			return BoolValue(x.S <= y.S), nil
		case ">":
			return BoolValue(x.S > y.S), nil
		case ">=":
			return BoolValue(x.S >= y.S), nil
		}
	}
	if x.Kind == KindBool && y.Kind == KindBool {
		switch op {
		case "==":
			return BoolValue(x.B == y.B), nil
		case "!=":
			return BoolValue(x.B != y.B), nil
		}
		return Value{}, newError(TypeMismatch, "operator "+op+" not defined for bool")
	}
	xf, xok := numeric(x)
	yf, yok := numeric(y)
	if !xok || !yok {
		return Value{}, newError(TypeMismatch, "operator "+op+" requires matching comparable types, got "+x.Kind.String()+" and "+y.Kind.String())
	}
	switch op {
	case "==":
		return BoolValue(xf == yf), nil
	case "!=":
		return BoolValue(xf != yf), nil
	case "<":
		return BoolValue(xf < yf), nil
	case "<=":
		return BoolValue(xf <= yf), nil
	case ">":
		return BoolValue(xf > yf), nil
	case ">=":
		return BoolValue(xf >= yf), nil
	}
	return Value{}, newError(Syntax, "unknown comparison operator "+op)
}

func evalArithmetic(op string, x, y Value) (Value, *Error) {
	if x.Kind == KindString || y.Kind == KindString {
		if op == "+" && x.Kind == KindString && y.Kind == KindString {
			return StringValue(x.S + y.S), nil
		}
		return Value{}, newError(TypeMismatch, "operator "+op+" not defined for string")
	}
	if x.Kind == KindInt && y.Kind == KindInt {
		switch op {
		case "+":
			r := x.I + y.I
			if (y.I > 0 && r < x.I) || (y.I < 0 && r > x.I) {
				return Value{}, newError(Overflow, "integer addition overflow")
			}
			return IntValue(r), nil
		case "-":
			r := x.I - y.I
			if (y.I < 0 && r < x.I) || (y.I > 0 && r > x.I) {
				return Value{}, newError(Overflow, "integer subtraction overflow")
			}
			return IntValue(r), nil
		case "*":
			if x.I != 0 && y.I != 0 {
				r := x.I * y.I
				if r/y.I != x.I {
					return Value{}, newError(Overflow, "integer multiplication overflow")
				}
				return IntValue(r), nil
			}
			return IntValue(0), nil
		case "/":
			if y.I == 0 {
				return Value{}, newError(DivisionByZero, "integer division by zero")
			}
			return IntValue(x.I / y.I), nil
		case "%":
			if y.I == 0 {
				return Value{}, newError(DivisionByZero, "modulo by zero")
			}
			return IntValue(x.I % y.I), nil
		}
	}
	xf, xok := numeric(x)
	yf, yok := numeric(y)
	if !xok || !yok {
		return Value{}, newError(TypeMismatch, "operator "+op+" requires numeric operands, got "+x.Kind.String()+" and "+y.Kind.String())
	}
	switch op {
	case "+":
		return FloatValue(xf + yf), nil
	case "-":
		return FloatValue(xf - yf), nil
	case "*":
		return FloatValue(xf * yf), nil
	case "/":
		if yf == 0 {
			return Value{}, newError(DivisionByZero, "floating point division by zero")
		}
		return FloatValue(xf / yf), nil
	case "%":
		return Value{}, newError(TypeMismatch, "modulo is not defined for float operands")
	}
	return Value{}, newError(Syntax, "unknown arithmetic operator "+op)
}

func evalBitwise(op string, x, y Value) (Value, *Error) {
	if x.Kind == KindBool && y.Kind == KindBool {
		switch op {
		case "&":
			return BoolValue(x.B && y.B), nil
		case "|":
			return BoolValue(x.B || y.B), nil
		case "^":
			return BoolValue(x.B != y.B), nil
		}
	}
	if x.Kind != KindInt || y.Kind != KindInt {
		return Value{}, newError(TypeMismatch, "bitwise operator "+op+" requires int or bool operands, got "+x.Kind.String()+" and "+y.Kind.String())
	}
	switch op {
	case "&":
		return IntValue(x.I & y.I), nil
	case "|":
		return IntValue(x.I | y.I), nil
	case "^":
		return IntValue(x.I ^ y.I), nil
	}
	return Value{}, newError(Syntax, "unknown bitwise operator "+op)
}
