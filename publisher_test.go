package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestPublishEchoRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Accept = %q, want application/json", accept)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			t.Errorf("basic auth = %q/%q, want admin/secret", user, pass)
		}

		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	defer server.Close()

	publisher := NewPublisher(server.URL, BasicAuth{Username: "admin", Password: "secret"}, time.Second)
	payload := []ArticleSummary{{"title": "Hi", "tag": "short"}}

	result := publisher.Publish(payload)

	if result.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}

	// The echoed result must deep-equal the payload after a JSON round trip.
	raw, _ := json.Marshal(payload)
	var want any
	json.Unmarshal(raw, &want)
	if !reflect.DeepEqual(result.Result, want) {
		t.Errorf("Result = %v, want %v", result.Result, want)
	}
}

func TestPublishInvalidJSONResponse(t *testing.T) {
	raw := "ok " + strings.Repeat("y", 600)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(raw))
	}))
	defer server.Close()

	publisher := NewPublisher(server.URL, BasicAuth{}, time.Second)
	result := publisher.Publish(map[string]any{"a": 1})

	if result.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}
	m, ok := result.Result.(map[string]any)
	if !ok {
		t.Fatalf("Result = %T, want map", result.Result)
	}
	if m["error"] != "Invalid JSON format" {
		t.Errorf("error = %v, want %q", m["error"], "Invalid JSON format")
	}
	preview, _ := m["raw_response"].(string)
	if preview != raw[:bodyPreviewLimit] {
		t.Error("raw_response should be the first 500 characters of the body")
	}
}

func TestPublishTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	publisher := NewPublisher(server.URL, BasicAuth{}, 20*time.Millisecond)
	result := publisher.Publish(map[string]any{})

	if result.StatusCode != 504 {
		t.Errorf("StatusCode = %d, want 504 on timeout", result.StatusCode)
	}
	m, ok := result.Result.(map[string]any)
	if !ok {
		t.Fatalf("Result = %T, want map", result.Result)
	}
	if m["error"] != "Request timed out" {
		t.Errorf("error = %v, want %q", m["error"], "Request timed out")
	}
	if m["endpoint"] != server.URL {
		t.Errorf("endpoint = %v, want %q", m["endpoint"], server.URL)
	}
	if result.Duration < 0 {
		t.Errorf("Duration = %v, must be populated on the timeout path", result.Duration)
	}
}

func TestPublishConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close() // nothing listens anymore

	publisher := NewPublisher(endpoint, BasicAuth{}, time.Second)
	result := publisher.Publish(map[string]any{})

	if result.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500 on connection error", result.StatusCode)
	}
	m, ok := result.Result.(map[string]any)
	if !ok {
		t.Fatalf("Result = %T, want map", result.Result)
	}
	if m["endpoint"] != endpoint {
		t.Errorf("endpoint = %v, want %q", m["endpoint"], endpoint)
	}
	if m["error"] == nil || m["error"] == "" {
		t.Error("error should carry the transport error text")
	}
}

func TestPublishStatusPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"reason":"bad payload"}`))
	}))
	defer server.Close()

	publisher := NewPublisher(server.URL, BasicAuth{}, time.Second)
	result := publisher.Publish(map[string]any{})

	if result.StatusCode != 422 {
		t.Errorf("StatusCode = %d, want 422 recorded verbatim", result.StatusCode)
	}
	m, _ := result.Result.(map[string]any)
	if m["reason"] != "bad payload" {
		t.Errorf("Result = %v, want decoded error body", result.Result)
	}
}

func TestRoundSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{1234 * time.Millisecond, 1.23},
		{1235 * time.Millisecond, 1.24},
		{0, 0},
		{10 * time.Second, 10},
	}

	for _, tt := range tests {
		if got := roundSeconds(tt.d); got != tt.want {
			t.Errorf("roundSeconds(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
