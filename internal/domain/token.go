package domain

// TokenType distinguishes the two token families.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Identity is the authenticated subject embedded in signed token claims.
type Identity struct {
	SubjectID string   `json:"subject_id"`
	Roles     []string `json:"roles,omitempty"`
}

// TokenPair holds a freshly issued access/refresh pair. The two tokens
// carry distinct token IDs and are independently revocable.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime in seconds
}
