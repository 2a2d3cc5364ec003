package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"full url", "https://example.com/map?session=abc123&tab=grid", "abc123", true},
		{"bare query", "session=xyz", "xyz", true},
		{"leading question mark", "?session=xyz", "xyz", true},
		{"missing param", "https://example.com/map?tab=grid", "", false},
		{"blank value", "session=%20", "", false},
		{"empty input", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromQuery(tt.raw)
			if !tt.ok {
				require.ErrorIs(t, err, ErrNoSession)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	got, err := Resolve(" abc ")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	t.Setenv(EnvVar, "from-env")
	got, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	t.Setenv(EnvVar, "")
	_, err = Resolve("")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestResolve_PastedPageURL(t *testing.T) {
	got, err := Resolve("https://example.com/map?session=abc123&tab=grid")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	t.Setenv(EnvVar, "?session=from-env")
	got, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	_, err = Resolve("https://example.com/map?tab=grid")
	require.ErrorIs(t, err, ErrNoSession)
}
