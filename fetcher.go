package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// defaultUserAgent mimics a desktop browser; the middleware rejects
// requests without one.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// bodyPreviewLimit caps raw response bodies captured into envelopes and
// publish results.
const bodyPreviewLimit = 500

// BasicAuth carries optional credentials for outgoing requests.
type BasicAuth struct {
	Username string
	Password string
}

// Fetcher performs middleware GETs and folds every outcome into a
// FetchEnvelope. Transport failures are retried with a constant backoff;
// any received HTTP response ends retrying regardless of its status.
type Fetcher struct {
	client   *http.Client
	headers  map[string]string
	auth     *BasicAuth
	retries  int
	interval time.Duration
}

// NewFetcher creates a fetcher with the default User-Agent, 3 retries
// and a 1 second retry interval.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		headers:  map[string]string{"User-Agent": defaultUserAgent},
		retries:  3,
		interval: time.Second,
	}
}

// SetBasicAuth attaches credentials to every outgoing request.
func (f *Fetcher) SetBasicAuth(username, password string) {
	f.auth = &BasicAuth{Username: username, Password: password}
}

// SetRetries overrides the retry count; total attempts = retries + 1.
func (f *Fetcher) SetRetries(retries int) {
	f.retries = retries
}

// SetHeader overrides or adds a request header.
func (f *Fetcher) SetHeader(key, value string) {
	f.headers[key] = value
}

// Fetch executes the GET. The returned envelope defaults to statusCode
// 500 and is only updated when a response actually arrives.
func (f *Fetcher) Fetch(url string) FetchEnvelope {
	envelope := FetchEnvelope{StatusCode: 500, Result: map[string]any{}}

	var resp *http.Response
	attempt := 0
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(f.interval), uint64(f.retries))
	err := backoff.Retry(func() error {
		attempt++
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		for k, v := range f.headers {
			req.Header.Set(k, v)
		}
		if f.auth != nil {
			req.SetBasicAuth(f.auth.Username, f.auth.Password)
		}

		r, err := f.client.Do(req)
		if err != nil {
			if attempt <= f.retries {
				log.Printf("Attempt %d failed. Retrying...", attempt)
			}
			return err
		}
		resp = r
		return nil
	}, policy)

	if err != nil {
		envelope.Result = map[string]any{
			"errorType": transportErrorType(err),
			"message":   err.Error(),
			"url":       url,
		}
		return envelope
	}
	defer resp.Body.Close()

	envelope.StatusCode = resp.StatusCode

	body, _ := io.ReadAll(resp.Body)
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		envelope.Result = map[string]any{
			"error":   "Invalid JSON response",
			"content": preview(string(body), bodyPreviewLimit),
		}
		return envelope
	}
	envelope.Result = decoded

	return envelope
}

// transportErrorType names the failure class captured in the envelope.
func transportErrorType(err error) string {
	if isTimeout(err) {
		return "Timeout"
	}
	return "ConnectionError"
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// preview returns at most limit runes of s.
func preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
