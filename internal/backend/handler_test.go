package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/thehive/hive-events/internal/event"
	"github.com/thehive/hive-events/internal/eventsync"
)

const testKey = "test-scraper-key"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := openTestStore(t)
	srv := httptest.NewServer(NewHandler(store, testKey, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postScraped(t *testing.T, srv *httptest.Server, apiKey, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/events/scraped", strings.NewReader(body))
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("sending request: %v", err)
	}
	defer resp.Body.Close()

	var parsed map[string]any
	json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

const validBody = `{
	"title": "Spring Festival",
	"event_date": "2025-03-15T14:00:00",
	"club_name": "ituacm",
	"location": "Merkez Anfisi",
	"source": "scraped"
}`

func TestCreateScrapedStatusCodes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		apiKey     string
		body       string
		wantStatus int
	}{
		{"missing api key", "", validBody, http.StatusUnauthorized},
		{"wrong api key", "nope", validBody, http.StatusUnauthorized},
		{"malformed json", testKey, "{not json", http.StatusBadRequest},
		{"missing title", testKey, `{"event_date":"2025-03-15","club_name":"x"}`, http.StatusBadRequest},
		{"missing date", testKey, `{"title":"T","club_name":"x"}`, http.StatusBadRequest},
		{"missing club", testKey, `{"title":"T","event_date":"2025-03-15"}`, http.StatusBadRequest},
		{"valid", testKey, validBody, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postScraped(t, srv, tt.apiKey, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %v)", resp.StatusCode, tt.wantStatus, body)
			}
		})
	}
}

func TestCreateScrapedIdempotent(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postScraped(t, srv, testKey, validBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first publish: status %d", resp.StatusCode)
	}
	firstID := body["id"]

	// Re-publishing the same identity returns 200 with the same ID.
	resp, body = postScraped(t, srv, testKey, validBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second publish: status %d, want 200", resp.StatusCode)
	}
	if body["id"] != firstID {
		t.Errorf("duplicate id = %v, want %v", body["id"], firstID)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

// Round trip through the real sync client against the real handler.
func TestSyncClientAgainstHandler(t *testing.T) {
	srv := newTestServer(t)
	client := eventsync.NewClient(srv.URL, testKey)

	cand := event.Candidate{
		Title:     "Hackathon 2025",
		EventDate: "2025-04-01T10:00:00",
		Location:  "EEB Binası",
	}
	post := event.Post{ClubName: "ituieee", PostURL: "https://instagram.com/p/abc"}

	out, err := client.Publish(context.Background(), cand, post)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if out.Status != eventsync.StatusCreated {
		t.Errorf("Status = %q, want created", out.Status)
	}

	out, err = client.Publish(context.Background(), cand, post)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if out.Status != eventsync.StatusDuplicate {
		t.Errorf("Status = %q, want duplicate", out.Status)
	}
	if out.EventID == 0 {
		t.Error("duplicate should carry the existing event ID")
	}
}
