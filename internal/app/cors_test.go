package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"itd.example", "*.media.example", "localhost:3000"}

	require.True(t, originAllowed(patterns, "https://itd.example"))
	require.True(t, originAllowed(patterns, "https://itd.example:443"))
	require.True(t, originAllowed(patterns, "https://cdn.media.example"))
	require.True(t, originAllowed(patterns, "http://localhost:3000"))

	require.False(t, originAllowed(patterns, "https://evil.example"))
	require.False(t, originAllowed(patterns, "https://itd.example.evil.example"))
	require.False(t, originAllowed(patterns, "https://media.example"), "the wildcard needs a subdomain")
	require.False(t, originAllowed(patterns, "http://localhost:9999"))

	require.True(t, originAllowed([]string{"*"}, "https://anything.example"))
	require.False(t, originAllowed(nil, "https://itd.example"))
}
