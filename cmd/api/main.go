package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-otp-core/internal/application/audit"
	"github.com/go-otp-core/internal/application/otp"
	"github.com/go-otp-core/internal/application/token"
	"github.com/go-otp-core/internal/config"
	"github.com/go-otp-core/internal/domain"
	"github.com/go-otp-core/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-otp-core/internal/infrastructure/jwt"
	"github.com/go-otp-core/internal/infrastructure/memory"
	redisinfra "github.com/go-otp-core/internal/infrastructure/redis"
	snsinfra "github.com/go-otp-core/internal/infrastructure/sns"
	"github.com/go-otp-core/internal/infrastructure/voice"
	transporthttp "github.com/go-otp-core/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// Channel adapters. SNS covers sms and push; the voice gateway is
	// optional and only wired when configured.
	adapters := map[domain.Channel]otp.ChannelAdapter{}
	if sender, err := snsinfra.NewSender(cfg); err == nil {
		adapters[domain.ChannelSMS] = otp.ChannelAdapterFunc(sender.SendSMS)
		adapters[domain.ChannelPush] = otp.ChannelAdapterFunc(sender.SendPush)
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}
	if cfg.VoiceGatewayURL != "" {
		adapters[domain.ChannelCall] = otp.ChannelAdapterFunc(voice.NewClient(cfg).Call)
	}

	// Revocation registry: Redis when configured (required for more
	// than one instance), in-memory otherwise.
	var registry token.Registry
	if cfg.RedisAddr != "" {
		registry = redisinfra.NewRevocationRegistry(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}))
	} else {
		registry = memory.NewRevocationRegistry()
		log.Println("WARN: in-memory revocation registry, revocations are lost on restart")
	}

	auditSink := audit.Multi{
		audit.NewSlogSink(),
		audit.NewStoreSink(dynamo.NewAuditRepo(dynamoClient, cfg.DynamoTables.AuditEvents), cfg.AuditRetention),
	}

	deps := &transporthttp.Deps{
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications),
		Limiter:          dynamo.NewCounterRepo(dynamoClient, cfg.DynamoTables.Counters),
		Adapters:         adapters,
		Registry:         registry,
		JWTProvider:      jwtProvider,
		Audit:            auditSink,
		OTPConfig: otp.Config{
			CodeLength:      cfg.CodeLength,
			CodeExpiry:      cfg.CodeExpiry,
			MaxAttempts:     cfg.CodeMaxAttempts,
			IssueCooldown:   cfg.IssueCooldown,
			IssueHourlyMax:  cfg.IssueHourlyMax,
			VerifyWindow:    cfg.VerifyWindow,
			VerifyMax:       cfg.VerifyMax,
			DeliveryTimeout: cfg.DeliveryTimeout,
		},
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
