package net

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 30
)

var (
	reqTransport = &http.Transport{
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       timeoutInSeconds * time.Second,
		DisableKeepAlives:     false,
		ResponseHeaderTimeout: time.Duration(timeoutInSeconds) * time.Second,
	}
)

// GetHTTPClient returns an unauthenticated client with bounded timeouts.
func GetHTTPClient() *http.Client {
	return &http.Client{
		Transport: reqTransport,
		Timeout:   time.Duration(timeoutInSeconds) * time.Second,
	}
}

// GetOAuthClient returns a client that sends token on every request.
func GetOAuthClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{
			TokenType:   "token",
			AccessToken: token,
		},
	)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, GetHTTPClient())
	return oauth2.NewClient(ctx, ts)
}
