package main

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"
)

// Publisher POSTs transformed payloads to the content API. Failures are
// folded into the PublishResult; Publish never returns an error.
type Publisher struct {
	endpoint string
	auth     BasicAuth
	client   *http.Client
}

// NewPublisher creates a publisher for the given endpoint.
func NewPublisher(endpoint string, auth BasicAuth, timeout time.Duration) *Publisher {
	return &Publisher{
		endpoint: endpoint,
		auth:     auth,
		client:   &http.Client{Timeout: timeout},
	}
}

// Publish sends the payload as a JSON body and reports the response
// status, decoded body and elapsed duration. Duration is populated on
// every path, rounded to 2 decimal places.
func (p *Publisher) Publish(payload any) PublishResult {
	start := time.Now()
	result := PublishResult{StatusCode: 500, Result: map[string]any{}}

	body, err := json.Marshal(payload)
	if err != nil {
		return p.fail(result, "encoding payload: "+err.Error(), start)
	}

	req, err := http.NewRequest(http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return p.fail(result, err.Error(), start)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(p.auth.Username, p.auth.Password)

	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			result.StatusCode = 504
			result.Result = map[string]any{
				"error":    "Request timed out",
				"endpoint": p.endpoint,
			}
			result.Duration = roundSeconds(time.Since(start))
			return result
		}
		return p.fail(result, err.Error(), start)
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	raw, _ := io.ReadAll(resp.Body)
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		result.Result = map[string]any{
			"raw_response": preview(string(raw), bodyPreviewLimit),
			"error":        "Invalid JSON format",
		}
	} else {
		result.Result = decoded
	}
	result.Duration = roundSeconds(time.Since(start))
	return result
}

func (p *Publisher) fail(result PublishResult, message string, start time.Time) PublishResult {
	result.Result = map[string]any{
		"error":    message,
		"endpoint": p.endpoint,
	}
	result.Duration = roundSeconds(time.Since(start))
	return result
}

// roundSeconds converts d to seconds rounded to 2 decimal places.
func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
