package phone

import (
	"errors"
	"testing"

	"github.com/go-otp-core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"+15550001000":          "+15550001000",
		" +1 555-000-1000 ":     "+15550001000",
		"tel:+1 (555) 000.1000": "+15550001000",
		"TEL:+15550001000":      "+15550001000",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalizeAndValidate_ValidNumber(t *testing.T) {
	got, err := NormalizeAndValidate(" +1 555-000-1000 ", domain.ChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, "+15550001000", got)
}

func TestNormalizeAndValidate_Malformed(t *testing.T) {
	for _, in := range []string{"", "   ", "5550001000", "1 555 000 1000", "tel:5550001000", "+1-555-CALL-NOW", "what"} {
		_, err := NormalizeAndValidate(in, domain.ChannelSMS)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	}
}

func TestNormalizeAndValidate_PushTargetIsOpaque(t *testing.T) {
	got, err := NormalizeAndValidate("arn:aws:sns:us-east-1:123:endpoint/GCM/app/abc", domain.ChannelPush)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
