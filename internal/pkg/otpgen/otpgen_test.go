package otpgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LengthAndDigits(t *testing.T) {
	for _, length := range []int{4, 6, 10} {
		for i := 0; i < 50; i++ {
			code, err := New(length)
			require.NoError(t, err)
			assert.Len(t, code, length)
			assert.Regexp(t, `^\d+$`, code)
		}
	}
}

func TestNew_ZeroPadded(t *testing.T) {
	// With 200 draws of a 4-digit code, a leading zero shows up with
	// probability 1-(0.9^200); absence means padding is broken.
	seenLeadingZero := false
	for i := 0; i < 200 && !seenLeadingZero; i++ {
		code, err := New(4)
		require.NoError(t, err)
		require.Len(t, code, 4)
		if code[0] == '0' {
			seenLeadingZero = true
		}
	}
	assert.True(t, seenLeadingZero)
}

func TestNew_RejectsOutOfRangeLength(t *testing.T) {
	_, err := New(3)
	assert.Error(t, err)
	_, err = New(11)
	assert.Error(t, err)
}

func TestNew_CodesVary(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := New(6)
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
