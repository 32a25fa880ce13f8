package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChannelValid(t *testing.T) {
	assert.True(t, ChannelSMS.Valid())
	assert.True(t, ChannelCall.Valid())
	assert.True(t, ChannelPush.Valid())
	assert.False(t, Channel("email").Valid())
	assert.False(t, Channel("").Valid())
}

// A code is invalid at the expiry instant itself, not only after it.
func TestVerificationCodeExpired_Boundary(t *testing.T) {
	expiry := time.Now().Truncate(time.Second)
	v := &VerificationCode{ExpiresAt: expiry.Unix()}

	assert.False(t, v.Expired(expiry.Add(-time.Second)))
	assert.True(t, v.Expired(expiry))
	assert.True(t, v.Expired(expiry.Add(time.Second)))
}
