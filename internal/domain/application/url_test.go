package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare host", "example.com", "https://example.com"},
		{"http kept", "http://x.com", "http://x.com"},
		{"https kept", "https://x.com/a?b=c", "https://x.com/a?b=c"},
		{"upper scheme trimmed not reprefixed", " HTTPS://X.com ", "HTTPS://X.com"},
		{"path only", "github.com/user/repo", "https://github.com/user/repo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestNormalizeURL_Blank(t *testing.T) {
	assert.Nil(t, NormalizeURL(""))
	assert.Nil(t, NormalizeURL("  "))
	assert.Nil(t, NormalizeURL("\t\n"))
}
