package eval

import "fmt"

// Kind tags the dynamic type of a Value. The evaluator only ever
// produces these four kinds, matching the Data Dictionary's declared
// types (§3).
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a small tagged union, deliberately not an interface{}: the
// sandboxed evaluator never holds anything beyond these four scalar
// shapes, so there is nothing to reflect over.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	B    bool
	S    string
}

func IntValue(i int64) Value    { return Value{Kind: KindInt, I: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, F: f} }
func BoolValue(b bool) Value    { return Value{Kind: KindBool, B: b} }
func StringValue(s string) Value { return Value{Kind: KindString, S: s} }

// Truthy implements the condition-coercion rule of §4.3: booleans pass
// through, ints coerce (0 → false, non-zero → true), everything else
// is a TypeMismatch.
func (v Value) Truthy() (bool, *Error) {
	switch v.Kind {
	case KindBool:
		return v.B, nil
	case KindInt:
		return v.I != 0, nil
	default:
		return false, newError(TypeMismatch, fmt.Sprintf("cannot use %s value as a condition", v.Kind))
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.I)
	case KindFloat:
		return fmt.Sprintf("%g", v.F)
	case KindBool:
		return fmt.Sprintf("%t", v.B)
	case KindString:
		return v.S
	default:
		return "?"
	}
}

// FromInitial converts a Data Dictionary InitialValue (decoded from
// JSON as interface{}) into a typed Value matching the declared
// VarType. It is deliberately forgiving about JSON's float64-for-
// everything-numeric behavior, since the schema layer already checked
// the declared type is one of the four recognized tags.
func FromInitial(declared string, raw interface{}) Value {
	switch declared {
	case "int":
		switch n := raw.(type) {
		case float64:
			return IntValue(int64(n))
		case int64:
			return IntValue(n)
		case int:
			return IntValue(int64(n))
		}
		return IntValue(0)
	case "float":
		switch n := raw.(type) {
		case float64:
			return FloatValue(n)
		case int64:
			return FloatValue(float64(n))
		}
		return FloatValue(0)
	case "bool":
		if b, ok := raw.(bool); ok {
			return BoolValue(b)
		}
		return BoolValue(false)
	case "string":
		if s, ok := raw.(string); ok {
			return StringValue(s)
		}
		return StringValue("")
	default:
		return IntValue(0)
	}
}
