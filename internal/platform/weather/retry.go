package weather

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// backoff spaces weather lookups after a transient failure. A server-sent
// Retry-After wins over the linear step, and both are capped at max.
type backoff struct {
	step time.Duration
	max  time.Duration
}

var defaultBackoff = backoff{step: 250 * time.Millisecond, max: 2 * time.Second}

func (b backoff) delay(attempt int, resp *http.Response) time.Duration {
	d := b.step * time.Duration(attempt+1)
	if resp != nil {
		if secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After"))); err == nil && secs > 0 {
			d = time.Duration(secs) * time.Second
		}
	}
	if b.max > 0 && d > b.max {
		d = b.max
	}
	// +-20% so concurrent users' lookups spread out.
	spread := float64(d) * 0.2
	return time.Duration(float64(d) - spread + rand.Float64()*2*spread)
}

// transient reports whether a failed lookup is worth repeating. Caller
// cancellation never is.
func transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusRequestTimeout || se.code == http.StatusTooManyRequests || se.code >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
