package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/creditmonitor/internal/common"
	"github.com/google/uuid"
)

// TokenSource returns the current session credential, or "" when there is none.
type TokenSource func() string

// AuthFailureHandler is invoked when any response carries 401 or 403.
// credential is the bearer value the rejected request was sent with, or ""
// when it carried none.
type AuthFailureHandler func(ctx context.Context, statusCode int, credential string)

// Middleware decorates a RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain wraps base with mws; the first middleware is the outermost.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// WithRequestID stamps every request with a fresh X-Request-ID unless the
// caller already set one.
func WithRequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(common.RequestIDHeaderName) != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
			return next.RoundTrip(req)
		})
	}
}

// WithBearer attaches "Authorization: Bearer <credential>" when tokens yields
// a credential and the request does not already carry an Authorization
// header (the login exchange sends the identity token itself).
func WithBearer(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if tokens == nil || req.Header.Get(common.AuthorizationHeaderName) != "" {
				return next.RoundTrip(req)
			}
			token := tokens()
			if token == "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
			return next.RoundTrip(req)
		})
	}
}

// WithAuthFailureInterceptor observes every completed response. On 401/403 it
// calls onFailure before handing the untouched response back to the caller.
// It must sit inside WithBearer so the credential it reports is the one the
// request actually carried.
func WithAuthFailureInterceptor(onFailure AuthFailureHandler) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || resp == nil || onFailure == nil {
				return resp, err
			}
			if IsAuthFailure(resp.StatusCode) {
				onFailure(req.Context(), resp.StatusCode, bearerCredential(req.Header))
			}
			return resp, nil
		})
	}
}

func bearerCredential(h http.Header) string {
	token, ok := strings.CutPrefix(h.Get(common.AuthorizationHeaderName), common.BearerPrefix)
	if !ok {
		return ""
	}
	return token
}
