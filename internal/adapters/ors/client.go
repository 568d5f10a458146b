// Package ors adapts the openrouteservice HTTP API to the pipeline's
// optimizer and directions ports.
package ors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL           = "https://api.openrouteservice.org"
	defaultDirectionsProfile = "driving-car"
	defaultTimeout           = 60 * time.Second
)

// Config is the explicit client configuration. Credentials are injected
// here, never read from ambient process state by the client itself.
type Config struct {
	APIKey            string
	BaseURL           string
	DirectionsProfile string
	Timeout           time.Duration
}

// Client calls the openrouteservice optimization and directions
// endpoints. It is safe for concurrent use and never retries: retry,
// backoff and rate limiting are caller responsibilities.
type Client struct {
	session           *http.Client
	apiKey            string
	baseURL           string
	directionsProfile string
	logger            *logrus.Logger
}

func NewClient(cfg Config, logger *logrus.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	profile := cfg.DirectionsProfile
	if profile == "" {
		profile = defaultDirectionsProfile
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	if logger == nil {
		logger = logrus.New()
	}

	return &Client{
		session:           &http.Client{Timeout: timeout},
		apiKey:            cfg.APIKey,
		baseURL:           strings.TrimRight(baseURL, "/"),
		directionsProfile: profile,
		logger:            logger,
	}, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}
