// Package xapi is the HTTP client for the X API v2 endpoints the service
// needs: profile lookup by username and the recent-posts timeline. Every
// response, success or failure, carries the upstream rate-limit metadata so
// the caller can feed the process-wide tracker.
package xapi

import (
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
}

func NewClient(baseURL, bearerToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		bearerToken: bearerToken,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}
