package ratelimit

import (
	"context"
	"fmt"

	"github.com/imigpt/foodzippy-backend/internal/config"
	"github.com/imigpt/foodzippy-backend/internal/observability/metrics"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyRegistrationAgent = "registration:agent:%s"

// RegistrationLimiter throttles vendor registration per agent. When Redis
// is not configured the limiter is disabled and every request passes.
type RegistrationLimiter struct {
	enabled bool
	bucket  *TokenBucket
	rate    float64
	burst   int
	log     *zap.Logger
	metrics *metrics.Metrics
}

type RegistrationLimiterParams struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

func NewRegistrationLimiter(lc fx.Lifecycle, p RegistrationLimiterParams) *RegistrationLimiter {
	log := p.Log.Named("ratelimit.registration")
	cfg := p.Cfg.RateLimit
	if !cfg.Enabled || cfg.RedisAddr == "" {
		log.Info("registration rate limiting disabled")
		return &RegistrationLimiter{enabled: false, log: log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	log.Info("registration rate limiting enabled",
		zap.Float64("rate", cfg.RegistrationRate),
		zap.Int("burst", cfg.RegistrationBurst),
	)

	return &RegistrationLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    cfg.RegistrationRate,
		burst:   cfg.RegistrationBurst,
		log:     log,
		metrics: p.Metrics,
	}
}

// AllowAgent reports whether the agent may register another vendor now.
// Redis failures fail open so an outage never blocks registration.
func (l *RegistrationLimiter) AllowAgent(ctx context.Context, agentID string) bool {
	if l == nil || !l.enabled || agentID == "" {
		return true
	}

	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyRegistrationAgent, agentID), l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed", zap.Error(err))
		return true
	}
	if !res.Allowed {
		l.metrics.RecordRateLimitDenied(ctx, "vendor.register")
	}
	return res.Allowed
}
