package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/barbouse/packages/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_SimpleGET(t *testing.T) {
	def, err := Parse("#GET^https://api.example.com/users/1\n", "get.req", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "get.req", def.File)
	assert.Equal(t, "GET", def.Method)
	assert.Equal(t, "https://api.example.com/users/1", def.URL)
	assert.Empty(t, def.Headers)
	assert.False(t, def.HasFilter())
	assert.False(t, def.HasBody())
}

func TestParser_Templating(t *testing.T) {
	input := "#GET^https://api.example.com/items?user={USER}\n" +
		"#Authorization: Bearer {TOKEN}\n" +
		"#|.items[] | select(.owner == \"{USER}\")\n" +
		"\n" +
		"{\"user\": \"{USER}\"}"
	vars := map[string]string{"USER": "alice", "TOKEN": "t0k"}

	def, err := Parse(input, "t.req", vars, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/items?user=alice", def.URL)
	assert.Equal(t, "Bearer t0k", def.Headers["Authorization"])
	assert.Equal(t, `.items[] | select(.owner == "alice")`, def.FilterExpr)
	assert.Equal(t, `{"user": "{USER}"}`, def.Body, "body is never templated")
}

func TestParser_UnresolvedPlaceholders(t *testing.T) {
	input := "#GET^{BASE}/users/{USER}?q={MISSING}\n" +
		"#X-Trace: {TRACE}-{MISSING}\n" +
		"#|{name: .name}\n"
	vars := map[string]string{"BASE": "http://x", "USER": "{literal}"}

	def, err := Parse(input, "u.req", vars, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://x/users/{literal}?q={MISSING}", def.URL)
	assert.Equal(t, []string{"MISSING", "TRACE"}, def.Unresolved)
}

func TestParser_NoUnresolvedWhenAllSet(t *testing.T) {
	def, err := Parse("#GET^http://x/{A}\n", "", map[string]string{"A": "a"}, nil)
	require.NoError(t, err)
	assert.Empty(t, def.Unresolved)
}

func TestParser_POSTWithBody(t *testing.T) {
	input := "#POST^https://api.example.com/users\n" +
		"#Content-Type: application/json\n" +
		"\n" +
		"{\n  \"name\": \"John\"\n}\n"

	def, err := Parse(input, "post.req", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "POST", def.Method)
	assert.Equal(t, "application/json", def.Headers["Content-Type"])
	require.True(t, def.HasBody())
	assert.Equal(t, "{\n  \"name\": \"John\"\n}\n", def.Body)
}

func TestParser_BodyWithoutSeparator(t *testing.T) {
	def, err := Parse("#PUT^http://x/y\nraw body\nline two", "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "raw body\nline two", def.Body)
}

func TestParser_BodyKeepsLaterBlankLines(t *testing.T) {
	def, err := Parse("#PUT^http://x/y\n\n\nindented\n", "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "\nindented\n", def.Body)
}

func TestParser_WhitespaceBodyIsAbsent(t *testing.T) {
	def, err := Parse("#POST^http://x/y\n\n   \n\t\n", "", nil, nil)
	require.NoError(t, err)
	assert.False(t, def.HasBody())
	assert.Equal(t, "", def.Body)
}

func TestParser_DuplicateHeadersLastWins(t *testing.T) {
	input := "#GET^http://x\n#Accept: text/plain\n#Accept: application/json\n"
	def, err := Parse(input, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Accept": "application/json"}, def.Headers)
}

func TestParser_HeaderSplitsOnFirstColon(t *testing.T) {
	input := "#GET^http://x\n#X-Forwarded: http://proxy:8080/a:b\n"
	def, err := Parse(input, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy:8080/a:b", def.Headers["X-Forwarded"])
}

func TestParser_LastFilterWins(t *testing.T) {
	input := "#GET^http://x\n#|.first\n#|.second\n"
	def, err := Parse(input, "", nil, nil)
	require.NoError(t, err)
	require.True(t, def.HasFilter())
	assert.Equal(t, ".second", def.FilterExpr)
	assert.Equal(t, ".second", def.Filter.String())
}

func TestParser_IgnoredLines(t *testing.T) {
	input := "#GET^http://x\n# just a note\n#Accept: */*\n#\n"
	def, err := Parse(input, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "*/*", def.Headers["Accept"])
	assert.Equal(t, []IgnoredLine{
		{Line: 2, Text: "# just a note"},
		{Line: 4, Text: "#"},
	}, def.Ignored)
}

func TestParser_CRLF(t *testing.T) {
	input := "#GET^http://x/y\r\n#Accept: application/json\r\n\r\nbody\r\n"
	def, err := Parse(input, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://x/y", def.URL)
	assert.Equal(t, "application/json", def.Headers["Accept"])
	assert.Equal(t, "body\r\n", def.Body)
}

func TestParser_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "empty file", input: "", message: "empty request file"},
		{name: "missing marker", input: "GET^http://x\n", message: "must start with '#'"},
		{name: "blank first line", input: "\n#GET^http://x\n", message: "must start with '#'"},
		{name: "missing separator", input: "#GET http://x\n", message: "missing the '^' separator"},
		{name: "missing method", input: "#^http://x\n", message: "missing HTTP method"},
		{name: "missing url", input: "#GET^  \n", message: "missing URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse(tt.input, "bad.req", nil, nil)
			require.Error(t, err)
			assert.Nil(t, def)

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "bad.req", fe.File)
			assert.Equal(t, 1, fe.Line)
			assert.Contains(t, fe.Message, tt.message)
			assert.Contains(t, err.Error(), "bad.req:1:")
		})
	}
}

func TestParser_FilterCompileError(t *testing.T) {
	input := "#GET^http://x\n#Accept: */*\n#|.items[\n"
	def, err := Parse(input, "f.req", nil, nil)
	require.Error(t, err)
	assert.Nil(t, def)

	var fce *FilterCompileError
	require.True(t, errors.As(err, &fce))
	assert.Equal(t, ".items[", fce.Expr)
	assert.Equal(t, 3, fce.Line)
	assert.Contains(t, err.Error(), `f.req:3: invalid filter ".items["`)
}

func TestParser_EmptyFilter(t *testing.T) {
	_, err := Parse("#GET^http://x\n#|   \n", "", nil, nil)
	assert.ErrorIs(t, err, filter.ErrEmptyExpression)
}

func TestParser_CustomEngine(t *testing.T) {
	compiler, err := filter.NewCompiler(filter.EngineJMESPath)
	require.NoError(t, err)

	def, err := Parse("#GET^http://x\n#|items[0]\n", "", nil, compiler)
	require.NoError(t, err)

	out, err := def.Filter.Apply(map[string]any{"items": []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, out)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.req")
	require.NoError(t, os.WriteFile(path, []byte("#DELETE^http://x/{ID}\n"), 0644))

	def, err := ParseFile(path, map[string]string{"ID": "7"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "DELETE", def.Method)
	assert.Equal(t, "http://x/7", def.URL)
	assert.Equal(t, path, def.File)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.req"), nil, nil)
	assert.True(t, os.IsNotExist(err))
}
