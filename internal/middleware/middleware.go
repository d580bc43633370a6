package middleware

import (
	"net/http"
)

// Middleware decorates an outbound transport.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain wraps base with mws. The first middleware sees the request first.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			base = mws[i](base)
		}
	}
	return base
}

// StaticHeaders sets the given headers on every request unless the caller
// already set them. Deployment-specific proxy headers travel this way.
func StaticHeaders(headers map[string]string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if len(headers) == 0 {
				return next.RoundTrip(r)
			}

			r = r.Clone(r.Context())
			for k, v := range headers {
				if r.Header.Get(k) == "" {
					r.Header.Set(k, v)
				}
			}
			return next.RoundTrip(r)
		})
	}
}
