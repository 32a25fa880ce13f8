package phone

import (
	"fmt"
	"strings"

	"github.com/go-otp-core/internal/domain"
	"github.com/go-otp-core/internal/pkg/validate"
)

// Normalize canonicalizes a verification target. Issuance and
// verification must apply the identical normalization or codes issued
// to "+1 555 0001" would never match a verify call for "+15550001".
// Phone numbers are trimmed, case-folded and stripped of separators;
// anything else (push endpoint ARNs are case-sensitive) is only trimmed.
func Normalize(target string) string {
	t := strings.TrimSpace(target)
	if len(t) >= 4 && strings.EqualFold(t[:4], "tel:") {
		t = strings.TrimSpace(t[4:])
	}
	var b strings.Builder
	for _, r := range t {
		switch r {
		case ' ', '-', '.', '(', ')':
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()
	if strings.HasPrefix(s, "+") {
		return strings.ToLower(s)
	}
	return t
}

// NormalizeAndValidate normalizes target and checks it is an E.164
// phone number. Push targets are opaque device endpoints and only
// checked for presence.
func NormalizeAndValidate(target string, channel domain.Channel) (string, error) {
	t := Normalize(target)
	if t == "" {
		return "", fmt.Errorf("target required: %w", domain.ErrValidation)
	}
	if channel == domain.ChannelPush {
		return t, nil
	}
	// The e164 tag treats the leading + as optional; here it is not.
	if !strings.HasPrefix(t, "+") {
		return "", fmt.Errorf("malformed phone number: %w", domain.ErrValidation)
	}
	if err := validate.Var(t, "e164"); err != nil {
		return "", fmt.Errorf("malformed phone number: %w", domain.ErrValidation)
	}
	return t, nil
}
