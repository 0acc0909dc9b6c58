package binding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var data any
	require.NoError(t, json.Unmarshal([]byte(s), &data))
	return data
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada","unread":3},"folders":[{"name":"Inbox"},{"name":"Spam"}],"ratio":0.5}`)

	cases := []struct {
		in, want string
	}{
		{"Hello ${user.name}", "Hello Ada"},
		{"${user.unread} unread", "3 unread"},
		{"${folders[1].name}", "Spam"},
		{"${ratio}", "0.5"},
		{"${user.email}", "${user.email}"},
		{"${user.email|no mail}", "no mail"},
		{"${folders[9].name|}", ""},
		{"${ }", "${ }"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Interpolate(tc.in, data), tc.in)
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	assert.Equal(t, "${a}", Interpolate("${a}", nil))
	assert.Equal(t, "x", Interpolate("${a|x}", nil))
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${a.b} and ${ c[0] |d} ${}")
	assert.Equal(t, []string{"a.b", "c[0]"}, got)
}

func TestResolve(t *testing.T) {
	data := map[string]any{"list": []any{map[string]any{"k": "v"}}}
	v, ok := Resolve(data, "list[0].k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = Resolve(data, "list[x]")
	assert.False(t, ok)
	_, ok = Resolve(data, "list[-1]")
	assert.False(t, ok)
}
