package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"128-bit token", TokenSize128, 22},
		{"256-bit token", TokenSize256, 43},
		{"512-bit token", TokenSize512, 86},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, a, tt.wantLen)

			b, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, a, b)
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
	require.Panics(t, func() { MustGenerateToken(0) })
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("refresh-token")

	require.Equal(t, fp, FingerprintToken("refresh-token"))
	require.NotEqual(t, fp, FingerprintToken("refresh-token2"))
	require.Len(t, fp, 43)
}

func TestGenerateNumericCode(t *testing.T) {
	t.Run("always six digits", func(t *testing.T) {
		for range 200 {
			code, err := GenerateNumericCode(6)
			require.NoError(t, err)
			require.Regexp(t, `^[0-9]{6}$`, code)
		}
	})

	t.Run("keeps leading zeros", func(t *testing.T) {
		seenLeadingZero := false
		for range 2000 {
			code, err := GenerateNumericCode(2)
			require.NoError(t, err)
			require.Len(t, code, 2)
			if code[0] == '0' {
				seenLeadingZero = true
				break
			}
		}
		require.True(t, seenLeadingZero)
	})

	t.Run("rejects bad lengths", func(t *testing.T) {
		_, err := GenerateNumericCode(0)
		require.Error(t, err)
		_, err = GenerateNumericCode(19)
		require.Error(t, err)
	})
}
