package filter

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() any {
	return map[string]any{
		"items": []any{1, 2, 3},
		"user":  map[string]any{"name": "alice", "age": 30},
		"users": []any{
			map[string]any{"name": "alice", "active": true},
			map[string]any{"name": "bob", "active": false},
		},
	}
}

func TestNewCompiler(t *testing.T) {
	t.Run("default engine is jq", func(t *testing.T) {
		c, err := NewCompiler("")
		require.NoError(t, err)
		f, err := c.Compile(".items")
		require.NoError(t, err)
		out, err := f.Apply(sample())
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{1, 2, 3}}, out)
	})

	t.Run("engine names are case-insensitive", func(t *testing.T) {
		_, err := NewCompiler("JMESPath")
		assert.NoError(t, err)
	})

	t.Run("unknown engine", func(t *testing.T) {
		_, err := NewCompiler("xpath")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gjson, jmespath, jq")
	})

	t.Run("empty expression", func(t *testing.T) {
		for _, engine := range Engines() {
			c, err := NewCompiler(engine)
			require.NoError(t, err)
			_, err = c.Compile("   ")
			assert.ErrorIs(t, err, ErrEmptyExpression, engine)
		}
	})
}

func TestJQ(t *testing.T) {
	c, err := NewCompiler(EngineJQ)
	require.NoError(t, err)

	tests := []struct {
		name     string
		expr     string
		expected []any
	}{
		{name: "identity", expr: ".", expected: []any{sample()}},
		{name: "projection", expr: ".user.name", expected: []any{"alice"}},
		{name: "iteration multiplies results", expr: ".items[]", expected: []any{1, 2, 3}},
		{name: "select", expr: `.users[] | select(.active) | .name`, expected: []any{"alice"}},
		{name: "empty", expr: "empty", expected: []any{}},
		{name: "object construction", expr: "{n: .user.name}", expected: []any{map[string]any{"n": "alice"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := c.Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, f.String())

			out, err := f.Apply(sample())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("syntax error at compile time", func(t *testing.T) {
		_, err := c.Compile(".items[")
		assert.Error(t, err)
	})

	t.Run("runtime error", func(t *testing.T) {
		f, err := c.Compile(`error("boom")`)
		require.NoError(t, err)
		_, err = f.Apply(sample())
		assert.Error(t, err)
	})
}

func TestJMESPath(t *testing.T) {
	c, err := NewCompiler(EngineJMESPath)
	require.NoError(t, err)

	f, err := c.Compile("users[?active].name")
	require.NoError(t, err)
	out, err := f.Apply(sample())
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"alice"}}, out)

	t.Run("integers compare with literals", func(t *testing.T) {
		f, err := c.Compile("user.age > `18`")
		require.NoError(t, err)
		out, err := f.Apply(sample())
		require.NoError(t, err)
		assert.Equal(t, []any{true}, out)
	})

	t.Run("missing key is null", func(t *testing.T) {
		f, err := c.Compile("nope")
		require.NoError(t, err)
		out, err := f.Apply(sample())
		require.NoError(t, err)
		assert.Equal(t, []any{nil}, out)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := c.Compile("users[?")
		assert.Error(t, err)
	})
}

func TestGJSON(t *testing.T) {
	c, err := NewCompiler(EngineGJSON)
	require.NoError(t, err)

	f, err := c.Compile("user.name")
	require.NoError(t, err)
	out, err := f.Apply(sample())
	require.NoError(t, err)
	assert.Equal(t, []any{"alice"}, out)

	f, err = c.Compile("items.#")
	require.NoError(t, err)
	out, err = f.Apply(sample())
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("3")}, out)

	f, err = c.Compile("missing.path")
	require.NoError(t, err)
	out, err = f.Apply(sample())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBigIntegers(t *testing.T) {
	id, ok := new(big.Int).SetString("12345678901234567890", 10)
	require.True(t, ok)
	value := map[string]any{"id": id}

	tests := []struct {
		engine string
		expr   string
		want   any
	}{
		{EngineJQ, ".id", id},
		{EngineGJSON, "id", json.Number("12345678901234567890")},
		{EngineJMESPath, "id", float64(12345678901234567890)},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			c, err := NewCompiler(tt.engine)
			require.NoError(t, err)
			f, err := c.Compile(tt.expr)
			require.NoError(t, err)

			out, err := f.Apply(value)
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.Equal(t, tt.want, out[0])
		})
	}
}
