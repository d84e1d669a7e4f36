package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/slotmind/booking-engine/internal/api/handlers"
)

// RateLimiter ограничивает частоту запросов отдельно по каждому
// клиенту. Ключом служит X-User-ID, для неаутентифицированных
// запросов — IP адрес.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	rps   rate.Limit
	burst int
}

// NewRateLimiter создает новый rate limiter: rps запросов в секунду
// с допустимым всплеском burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// Middleware возвращает HTTP middleware, отклоняющий запросы сверх лимита
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(HeaderUserID)
		if key == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			key = host
		}

		if !rl.limiterFor(key).Allow() {
			handlers.RespondError(w, http.StatusTooManyRequests, "превышен лимит запросов")
			return
		}

		next.ServeHTTP(w, r)
	})
}
