package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string, inAction bool) *Program {
	t.Helper()
	prog, err := Parse(src, inAction)
	require.Nil(t, err, "unexpected parse error: %v", err)
	return prog
}

func TestEvalArithmetic(t *testing.T) {
	env := NewEnv(map[string]Value{"x": IntValue(10)})
	prog := mustParse(t, "x + 5 * 2", false)
	v, err := Eval(prog, env)
	require.Nil(t, err)
	assert.Equal(t, IntValue(20), v)
}

func TestEvalComparisonAndLogic(t *testing.T) {
	env := NewEnv(map[string]Value{"count": IntValue(3)})
	prog := mustParse(t, "count > 0 && count < 10", false)
	v, err := Eval(prog, env)
	require.Nil(t, err)
	assert.Equal(t, BoolValue(true), v)
}

func TestEvalAssignment(t *testing.T) {
	env := NewEnv(map[string]Value{"count": IntValue(0)})
	prog := mustParse(t, "count = count + 1", true)
	_, err := Eval(prog, env)
	require.Nil(t, err)
	assert.Equal(t, IntValue(1), env.Vars["count"])
}

func TestEvalAssignmentRejectedInCondition(t *testing.T) {
	_, err := Parse("count = 1", false)
	require.NotNil(t, err)
	assert.Equal(t, AssignmentInCondition, err.Kind)
}

func TestEvalDivisionByZero(t *testing.T) {
	env := NewEnv(nil)
	prog := mustParse(t, "1 / 0", false)
	_, err := Eval(prog, env)
	require.NotNil(t, err)
	assert.Equal(t, DivisionByZero, err.Kind)
}

func TestEvalUndefinedVariable(t *testing.T) {
	env := NewEnv(nil)
	prog := mustParse(t, "missing + 1", false)
	_, err := Eval(prog, env)
	require.NotNil(t, err)
	assert.Equal(t, UndefinedVariable, err.Kind)
}

func TestEvalTypeMismatch(t *testing.T) {
	env := NewEnv(map[string]Value{"s": StringValue("a")})
	prog := mustParse(t, "s - 1", false)
	_, err := Eval(prog, env)
	require.NotNil(t, err)
	assert.Equal(t, TypeMismatch, err.Kind)
}

func TestEvalOverflow(t *testing.T) {
	env := NewEnv(map[string]Value{"x": IntValue(9223372036854775807)})
	prog := mustParse(t, "x + 1", false)
	_, err := Eval(prog, env)
	require.NotNil(t, err)
	assert.Equal(t, Overflow, err.Kind)
}

func TestEvalCurrentTickReadOnly(t *testing.T) {
	env := NewEnv(nil)
	env.Tick = 42
	prog := mustParse(t, "current_tick", false)
	v, err := Eval(prog, env)
	require.Nil(t, err)
	assert.Equal(t, IntValue(42), v)

	prog = mustParse(t, "current_tick = 1", true)
	_, err = Eval(prog, env)
	require.NotNil(t, err)
	assert.Equal(t, TypeMismatch, err.Kind)
}

func TestEvalResourceLimitOnDeepExpression(t *testing.T) {
	src := "1"
	for i := 0; i < MaxExprDepth+10; i++ {
		src = "(" + src + ")"
	}
	_, err := Parse(src, false)
	require.NotNil(t, err)
	assert.Equal(t, ResourceLimit, err.Kind)
}

func TestEvalEmptyProgramIsTrue(t *testing.T) {
	prog := mustParse(t, "", false)
	v, err := Eval(prog, NewEnv(nil))
	require.Nil(t, err)
	assert.Equal(t, BoolValue(true), v)
}

func TestStaticScanReadsAndWrites(t *testing.T) {
	prog := mustParse(t, "count = count + delta", true)
	result := StaticScan(prog)
	assert.True(t, result.Writes["count"])
	assert.True(t, result.Reads["count"])
	assert.True(t, result.Reads["delta"])
	assert.False(t, result.Writes["delta"])
}

func TestStaticScanDoesNotExecute(t *testing.T) {
	// A division by zero must not panic or error during a static scan;
	// scanning never evaluates.
	prog := mustParse(t, "1 / 0 + unused_var", false)
	result := StaticScan(prog)
	assert.True(t, result.Reads["unused_var"])
}
