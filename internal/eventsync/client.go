// Package eventsync publishes accepted candidates to the backend over the
// idempotent sync contract. The backend keys events on their natural
// identity (club, title, date), so re-submitting the same candidate yields
// a duplicate outcome, not a second record — and duplicate is success.
package eventsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/thehive/hive-events/internal/event"
)

// Status tags a publish outcome.
type Status string

const (
	StatusCreated   Status = "created"
	StatusDuplicate Status = "duplicate"
	StatusRejected  Status = "rejected"
)

// Outcome is the result of publishing a candidate.
type Outcome struct {
	Status  Status
	EventID int64  // backend record ID when known
	Reason  string // populated for rejected outcomes
}

// Client talks to the backend sync endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries uint64
}

// NewClient creates a sync client for the given backend.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		maxRetries: 3,
	}
}

// publishPayload mirrors the backend's scraped-event request body.
type publishPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	EndDate     string `json:"end_date,omitempty"`
	Location    string `json:"location"`
	Category    string `json:"category,omitempty"`
	Source      string `json:"source"`
	PostURL     string `json:"post_url,omitempty"`
	ClubName    string `json:"club_name"`
}

// publishResponse mirrors the backend's reply.
type publishResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Error   string `json:"error"`
}

// Publish submits a candidate with its source context. Transient failures
// (network errors, 5xx) are retried with exponential backoff; any 4xx is
// final. A duplicate reply is a normal, successful outcome.
func (c *Client) Publish(ctx context.Context, cand event.Candidate, source event.Post) (Outcome, error) {
	payload := publishPayload{
		Title:       cand.Title,
		Description: cand.Description,
		EventDate:   cand.EventDate,
		EndDate:     cand.EndDate,
		Location:    cand.Location,
		Category:    cand.Category,
		Source:      "scraped",
		PostURL:     source.PostURL,
		ClubName:    source.ClubName,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{}, fmt.Errorf("encoding payload: %w", err)
	}

	var outcome Outcome
	operation := func() error {
		var opErr error
		outcome, opErr = c.attempt(ctx, body)
		return opErr
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// attempt performs a single publish request. Returning backoff.Permanent
// stops the retry loop for non-transient failures.
func (c *Client) attempt(ctx context.Context, body []byte) (Outcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/events/scraped", bytes.NewReader(body))
	if err != nil {
		return Outcome{}, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading response: %w", err)
	}

	var parsed publishResponse
	if len(respBody) > 0 {
		// Tolerate non-JSON error bodies; status codes drive the outcome.
		_ = json.Unmarshal(respBody, &parsed)
	}

	switch {
	case resp.StatusCode == http.StatusCreated:
		return Outcome{Status: StatusCreated, EventID: parsed.ID}, nil
	case resp.StatusCode == http.StatusOK:
		return Outcome{Status: StatusDuplicate, EventID: parsed.ID}, nil
	case resp.StatusCode == http.StatusBadRequest:
		return Outcome{Status: StatusRejected, Reason: parsed.Error}, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return Outcome{}, backoff.Permanent(fmt.Errorf("backend rejected API key"))
	case resp.StatusCode >= 500:
		return Outcome{}, fmt.Errorf("backend returned status %d", resp.StatusCode)
	default:
		return Outcome{}, backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}
