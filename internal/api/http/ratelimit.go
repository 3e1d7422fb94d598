package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

const intakeLimitKeyPrefix = "intake:contact:"

// IntakeRateLimiter caps daily report submissions per citizen contact using a
// Redis counter with a 24h window. Fails open: a missing or unreachable Redis
// never blocks intake.
func IntakeRateLimiter(client *redis.Client, limit int, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil || limit <= 0 {
			return c.Next()
		}

		var probe struct {
			Contact string `json:"contact"`
		}
		if err := json.Unmarshal(c.Body(), &probe); err != nil || strings.TrimSpace(probe.Contact) == "" {
			// Validation rejects the submission downstream.
			return c.Next()
		}

		ctx := c.UserContext()
		key := intakeLimitKeyPrefix + strings.TrimSpace(probe.Contact)

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("intake limiter unavailable, allowing request", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := client.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
				logger.Warn("intake limiter ttl not set", zap.Error(err))
			}
		}
		if count > int64(limit) {
			retryAfter, _ := client.TTL(ctx, key).Result()
			return apperrors.NewTooManyRequests("daily report limit reached for this contact", map[string]any{
				"retry_after_seconds": int64(retryAfter.Seconds()),
			})
		}
		return c.Next()
	}
}
