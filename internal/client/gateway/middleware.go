package gateway

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Middleware decorates the transport of every gateway request.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// TokenSource yields the bearer token of the current session. ok is false
// when there is nothing to send.
type TokenSource interface {
	BearerToken() (token string, ok bool)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, bool)

func (f TokenFunc) BearerToken() (string, bool) { return f() }

// Chain applies mws so that the first one sees the request first.
func Chain(rt http.RoundTripper, mws ...Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// BearerAuth sets Authorization when src has a non-empty token and leaves the
// request untouched otherwise.
func BearerAuth(src TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			if src == nil {
				return next.RoundTrip(r)
			}
			token, ok := src.BearerToken()
			if !ok || token == "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(r)
		})
	}
}

// RequestID stamps X-Request-ID unless the caller already set one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(HeaderRequestID) != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(HeaderRequestID, uuid.NewString())
			return next.RoundTrip(r)
		})
	}
}

const HeaderRequestID = "X-Request-ID"

// Logging traces every exchange at debug level.
func Logging(log zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			ev := log.Debug().
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("request_id", r.Header.Get(HeaderRequestID)).
				Dur("latency", time.Since(start))
			if err != nil {
				ev.Err(err).Msg("request failed")
				return resp, err
			}
			ev.Int("status", resp.StatusCode).Msg("request")
			return resp, nil
		})
	}
}
