package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(name string) Token { return Token{Type: Identifier, Lexeme: name, Line: 1} }

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NumberObject(1))

	val, err := env.Get(tok("x"))
	require.NoError(t, err)
	assert.Equal(t, NumberObject(1), val)
}

func TestEnvironmentGetUndefinedIsRuntimeError(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get(tok("missing"))
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestEnvironmentChildSeesParentBinding(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("x", NumberObject(1))
	child := NewEnvironment(parent)

	val, err := child.Get(tok("x"))
	require.NoError(t, err)
	assert.Equal(t, NumberObject(1), val)
}

func TestEnvironmentAssignUpdatesEnclosingScope(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("x", NumberObject(1))
	child := NewEnvironment(parent)

	require.NoError(t, child.Assign(tok("x"), NumberObject(2)))

	val, err := parent.Get(tok("x"))
	require.NoError(t, err)
	assert.Equal(t, NumberObject(2), val)
}

func TestEnvironmentAssignUndeclaredIsRuntimeError(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Assign(tok("missing"), NumberObject(1))
	require.Error(t, err)
}

func TestEnvironmentRedefineInSameScopeReplaces(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NumberObject(1))
	env.Define("x", NumberObject(2))

	val, err := env.Get(tok("x"))
	require.NoError(t, err)
	assert.Equal(t, NumberObject(2), val)
}

func TestEnvironmentChildShadowsWithoutMutatingParent(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("x", NumberObject(1))
	child := NewEnvironment(parent)
	child.Define("x", NumberObject(99))

	childVal, err := child.Get(tok("x"))
	require.NoError(t, err)
	assert.Equal(t, NumberObject(99), childVal)

	parentVal, err := parent.Get(tok("x"))
	require.NoError(t, err)
	assert.Equal(t, NumberObject(1), parentVal)
}
