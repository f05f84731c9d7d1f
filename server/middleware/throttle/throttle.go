// Package throttle provides an HTTP middleware which rate limits mutating
// requests.  Piezo amplifiers respond poorly to step-hammering; pacing the
// command stream at the server keeps misbehaving clients from exciting the
// stage's resonances.
package throttle

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Throttle bounces mutating requests beyond a sustained rate
type Throttle struct {
	lim *rate.Limiter
}

// New returns a Throttle allowing perSecond mutating requests with the
// given burst
func New(perSecond float64, burst int) *Throttle {
	return &Throttle{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Check is an HTTP middleware that returns 429 when the command rate is
// exceeded.  Reads pass unthrottled.
func (t *Throttle) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		if !t.lim.Allow() {
			http.Error(w, "command rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
