package middleware

import (
	"net/http"

	"golang.org/x/oauth2"
)

// Bearer attaches a static bearer token to every request. An empty token
// leaves requests untouched.
func Bearer(token string) Middleware {
	if token == "" {
		return nil
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})

	return func(next http.RoundTripper) http.RoundTripper {
		return &oauth2.Transport{Source: source, Base: next}
	}
}
