package http

import (
	"github.com/go-otp-core/internal/application/audit"
	"github.com/go-otp-core/internal/application/otp"
	"github.com/go-otp-core/internal/application/token"
	"github.com/go-otp-core/internal/domain"
	jwtinfra "github.com/go-otp-core/internal/infrastructure/jwt"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	VerificationRepo otp.Repository
	Limiter          otp.Limiter
	Adapters         map[domain.Channel]otp.ChannelAdapter
	Registry         token.Registry
	JWTProvider      *jwtinfra.Provider
	Audit            audit.Sink
	OTPConfig        otp.Config
}
