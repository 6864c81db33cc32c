package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(12)
	require.Len(t, s, 12)

	// Two draws colliding would be astronomically unlikely.
	require.NotEqual(t, s, GenerateRandomString(12))
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
	require.Equal(t, "farmer@agro.org", NormalizeEmail("farmer@agro.org"))
}

func TestContains(t *testing.T) {
	roles := []string{"farmer", "expert"}
	require.True(t, Contains(roles, "farmer"))
	require.False(t, Contains(roles, "admin"))
}
