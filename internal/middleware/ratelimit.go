package middleware

import (
	"fmt"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

// RateLimit limits requests per client IP. rate uses the limiter format,
// e.g. "300-M" for 300 requests per minute. An empty rate disables limiting.
func RateLimit(rate string, logger *logger.Logger) (func(http.Handler) http.Handler, error) {
	if rate == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}

	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	instance := limiter.New(memory.NewStore(), parsed, limiter.WithTrustForwardHeader(true))
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.WithField("path", r.URL.Path).Warn("Rate limit reached")
			errors.Write(w, errors.NewRateLimitError("Too many requests"), RequestIDFromContext(r.Context()))
		}),
	)
	return mw.Handler, nil
}
