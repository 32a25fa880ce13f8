package otp

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-otp-core/internal/application/audit"
	"github.com/go-otp-core/internal/domain"
	"github.com/go-otp-core/internal/pkg/id"
	"github.com/go-otp-core/internal/pkg/otpgen"
	"github.com/go-otp-core/internal/pkg/phone"
)

// Repository is the persistence interface for verification code records.
type Repository interface {
	Create(ctx context.Context, v *domain.VerificationCode) error
	FindLatestValid(ctx context.Context, target string) (*domain.VerificationCode, error)
	IncrementAttempts(ctx context.Context, target, codeID string) (int, error)
	Delete(ctx context.Context, target, codeID string) error
}

// Limiter is a fixed-window counter. A backend error means the count is
// unknown; issuance treats that as a denial so an outage cannot be used
// for SMS bombing.
type Limiter interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (bool, error)
}

// ChannelAdapter delivers a message to a target through one gateway.
type ChannelAdapter interface {
	Send(ctx context.Context, target, message string) error
}

// ChannelAdapterFunc adapts a plain function to a ChannelAdapter.
type ChannelAdapterFunc func(ctx context.Context, target, message string) error

func (f ChannelAdapterFunc) Send(ctx context.Context, target, message string) error {
	return f(ctx, target, message)
}

// Config holds the tunables of the code engine. Length and expiry are
// configuration, not constants.
type Config struct {
	CodeLength      int
	CodeExpiry      time.Duration
	MaxAttempts     int
	IssueCooldown   time.Duration
	IssueHourlyMax  int
	VerifyWindow    time.Duration
	VerifyMax       int
	DeliveryTimeout time.Duration
}

type IssueRequest struct {
	Target  string            `json:"target" validate:"required"`
	Channel string            `json:"channel" validate:"required"`
	Meta    map[string]string `json:"meta,omitempty"`
}

type IssueResult struct {
	Sent      bool  `json:"sent"`
	ExpiresIn int64 `json:"expires_in"`
}

type Service interface {
	Issue(ctx context.Context, req IssueRequest) (*IssueResult, error)
	Verify(ctx context.Context, target, code string) (bool, error)
}

// Deps holds the collaborators of the verification code engine.
type Deps struct {
	Repo     Repository
	Limiter  Limiter
	Adapters map[domain.Channel]ChannelAdapter
	Audit    audit.Sink
	Config   Config
}

type service struct {
	repo     Repository
	limiter  Limiter
	adapters map[domain.Channel]ChannelAdapter
	audit    audit.Sink
	cfg      Config
}

func NewService(deps Deps) Service {
	return &service{
		repo:     deps.Repo,
		limiter:  deps.Limiter,
		adapters: deps.Adapters,
		audit:    deps.Audit,
		cfg:      deps.Config,
	}
}

func (s *service) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	ch := domain.Channel(req.Channel)
	if !ch.Valid() {
		s.audit.Record(ctx, domain.AuditCodeIssueDenied, map[string]string{
			"target": req.Target, "channel": req.Channel, "reason": "unknown channel",
		}, "")
		return nil, fmt.Errorf("unknown channel %q: %w", req.Channel, domain.ErrValidation)
	}
	target, err := phone.NormalizeAndValidate(req.Target, ch)
	if err != nil {
		s.audit.Record(ctx, domain.AuditCodeIssueDenied, map[string]string{
			"target": req.Target, "channel": string(ch), "reason": err.Error(),
		}, "")
		return nil, err
	}

	if err := s.allowIssue(ctx, target); err != nil {
		s.audit.Record(ctx, domain.AuditCodeIssueDenied, map[string]string{
			"target": target, "channel": string(ch), "reason": err.Error(),
		}, "")
		return nil, err
	}

	code, err := otpgen.New(s.cfg.CodeLength)
	if err != nil {
		s.audit.Record(ctx, domain.AuditCodeIssueDenied, map[string]string{
			"target": target, "channel": string(ch), "reason": "code generation failed",
		}, "")
		return nil, err
	}
	now := time.Now().UTC()
	rec := &domain.VerificationCode{
		CodeID:    id.New(),
		Target:    target,
		Channel:   ch,
		Code:      code,
		Attempts:  0,
		Meta:      req.Meta,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.CodeExpiry).Unix(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.audit.Record(ctx, domain.AuditCodeIssueDenied, map[string]string{
			"target": target, "channel": string(ch), "reason": "persist failed",
		}, "")
		return nil, fmt.Errorf("persist verification code: %w", err)
	}

	adapter, ok := s.adapters[ch]
	if !ok {
		s.audit.Record(ctx, domain.AuditCodeSendFailed, map[string]string{
			"target": target, "channel": string(ch), "reason": "channel not configured",
		}, "")
		return nil, fmt.Errorf("channel %q not configured: %w", ch, domain.ErrDelivery)
	}

	dctx, cancel := context.WithTimeout(ctx, s.cfg.DeliveryTimeout)
	defer cancel()
	if err := adapter.Send(dctx, target, "Your verification code: "+code); err != nil {
		// The record stays persisted: the gateway may have delivered
		// despite a late or failed acknowledgment.
		s.audit.Record(ctx, domain.AuditCodeSendFailed, map[string]string{
			"target": target, "channel": string(ch), "reason": err.Error(),
		}, "")
		return nil, fmt.Errorf("send via %s: %w", ch, domain.ErrDelivery)
	}

	s.audit.Record(ctx, domain.AuditCodeIssued, map[string]string{
		"target": target, "channel": string(ch), "code_id": rec.CodeID,
	}, "")
	return &IssueResult{Sent: true, ExpiresIn: int64(s.cfg.CodeExpiry.Seconds())}, nil
}

// allowIssue enforces the per-target cooldown and hourly cap.
func (s *service) allowIssue(ctx context.Context, target string) error {
	ok, err := s.limiter.Allow(ctx, "issue:cool:"+target, s.cfg.IssueCooldown, 1)
	if err != nil {
		slog.Warn("issuance limiter unavailable, denying", "target", target, "err", err)
		return &domain.RateLimitError{RetryAfter: s.cfg.IssueCooldown}
	}
	if !ok {
		return &domain.RateLimitError{RetryAfter: s.cfg.IssueCooldown}
	}
	ok, err = s.limiter.Allow(ctx, "issue:hourly:"+target, time.Hour, s.cfg.IssueHourlyMax)
	if err != nil {
		slog.Warn("issuance limiter unavailable, denying", "target", target, "err", err)
		return &domain.RateLimitError{RetryAfter: time.Hour}
	}
	if !ok {
		return &domain.RateLimitError{RetryAfter: time.Hour}
	}
	return nil
}

// Verify checks code against the most recent outstanding record for
// target. Mismatch, lockout, and no-record all return plain false so a
// caller cannot distinguish "wrong code" from "no code" and enumerate
// targets. Rate limiting is the one exceptional path.
func (s *service) Verify(ctx context.Context, target, code string) (bool, error) {
	target = phone.Normalize(target)

	ok, err := s.limiter.Allow(ctx, "verify:"+target, s.cfg.VerifyWindow, s.cfg.VerifyMax)
	if err != nil {
		slog.Warn("verification limiter unavailable, denying", "target", target, "err", err)
		return false, &domain.RateLimitError{RetryAfter: s.cfg.VerifyWindow}
	}
	if !ok {
		return false, &domain.RateLimitError{RetryAfter: s.cfg.VerifyWindow}
	}

	rec, err := s.repo.FindLatestValid(ctx, target)
	if err != nil {
		s.audit.Record(ctx, domain.AuditCodeVerifyFailed, map[string]string{
			"target": target, "reason": "not found or expired",
		}, "")
		return false, nil
	}
	if rec.Expired(time.Now()) {
		s.audit.Record(ctx, domain.AuditCodeVerifyFailed, map[string]string{
			"target": target, "code_id": rec.CodeID, "reason": "expired",
		}, "")
		return false, nil
	}

	// Locked out even if the code would match; the caller must request
	// a fresh code once rate limits allow.
	if rec.Attempts >= s.cfg.MaxAttempts {
		s.audit.Record(ctx, domain.AuditCodeVerifyFailed, map[string]string{
			"target": target, "code_id": rec.CodeID, "reason": "attempts exceeded",
		}, "")
		return false, nil
	}

	attempts, err := s.repo.IncrementAttempts(ctx, target, rec.CodeID)
	if err != nil {
		return false, fmt.Errorf("increment attempts: %w", err)
	}
	// Concurrent verifies can all pass the pre-check on the same stale
	// snapshot; the atomic count is the authoritative one. Anything past
	// the cap is locked out before the code is compared.
	if attempts > s.cfg.MaxAttempts {
		s.audit.Record(ctx, domain.AuditCodeVerifyFailed, map[string]string{
			"target": target, "code_id": rec.CodeID, "attempts": strconv.Itoa(attempts),
			"reason": "attempts exceeded",
		}, "")
		return false, nil
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		s.audit.Record(ctx, domain.AuditCodeVerifyFailed, map[string]string{
			"target": target, "code_id": rec.CodeID, "attempts": strconv.Itoa(attempts),
			"reason": "code mismatch",
		}, "")
		return false, nil
	}

	// Single-use: the record is gone after a successful match.
	if err := s.repo.Delete(ctx, target, rec.CodeID); err != nil {
		slog.Warn("failed to delete verification code record", "target", target, "code_id", rec.CodeID, "err", err)
	}
	s.audit.Record(ctx, domain.AuditCodeVerified, map[string]string{
		"target": target, "code_id": rec.CodeID, "attempts": strconv.Itoa(attempts),
	}, "")
	return true, nil
}
