package eventsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/thehive/hive-events/internal/event"
)

var testCandidate = event.Candidate{
	Title:     "Spring Festival",
	EventDate: "2025-03-15T00:00:00",
	Location:  "Merkez Anfisi",
	Category:  "social",
}

var testPost = event.Post{
	ClubName: "ituacm",
	PostURL:  "https://example.com/p/abc",
}

func TestPublishOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus Status
		wantID     int64
		wantReason string
	}{
		{
			name:       "Created",
			status:     http.StatusCreated,
			body:       `{"message":"Scraped event created","id":42}`,
			wantStatus: StatusCreated,
			wantID:     42,
		},
		{
			name:       "Duplicate",
			status:     http.StatusOK,
			body:       `{"message":"Event already exists","id":42}`,
			wantStatus: StatusDuplicate,
			wantID:     42,
		},
		{
			name:       "Rejected",
			status:     http.StatusBadRequest,
			body:       `{"error":"Title, event_date, and club_name are required"}`,
			wantStatus: StatusRejected,
			wantReason: "Title, event_date, and club_name are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/events/scraped" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if r.Header.Get("x-api-key") != "secret" {
					t.Errorf("missing api key header")
				}
				var payload map[string]any
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Errorf("decoding payload: %v", err)
				}
				if payload["source"] != "scraped" {
					t.Errorf("source = %v", payload["source"])
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			outcome, err := NewClient(srv.URL, "secret").Publish(context.Background(), testCandidate, testPost)
			if err != nil {
				t.Fatalf("Publish() error = %v", err)
			}
			if outcome.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", outcome.Status, tt.wantStatus)
			}
			if outcome.EventID != tt.wantID {
				t.Errorf("EventID = %d, want %d", outcome.EventID, tt.wantID)
			}
			if outcome.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", outcome.Reason, tt.wantReason)
			}
		})
	}
}

func TestPublishRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	outcome, err := NewClient(srv.URL, "secret").Publish(context.Background(), testCandidate, testPost)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if outcome.Status != StatusCreated {
		t.Errorf("Status = %v, want created after retries", outcome.Status)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("backend called %d times, want 3", got)
	}
}

func TestPublishAuthFailureIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid API Key"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "wrong").Publish(context.Background(), testCandidate, testPost)
	if err == nil {
		t.Fatal("Publish() expected error for auth failure")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("backend called %d times, want 1 (no retry on 401)", got)
	}
}

func TestPublishIdempotentSequence(t *testing.T) {
	// Simulates the backend's natural-key behavior: first submit creates,
	// the identical second submit reports a duplicate.
	seen := make(map[string]int64)
	var nextID int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Title     string `json:"title"`
			EventDate string `json:"event_date"`
			ClubName  string `json:"club_name"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		key := payload.ClubName + "|" + payload.Title + "|" + payload.EventDate
		if id, ok := seen[key]; ok {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]any{"message": "Event already exists", "id": id})
			return
		}
		nextID++
		seen[key] = nextID
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"message": "Scraped event created", "id": nextID})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")

	first, err := client.Publish(context.Background(), testCandidate, testPost)
	if err != nil {
		t.Fatalf("first Publish() error = %v", err)
	}
	second, err := client.Publish(context.Background(), testCandidate, testPost)
	if err != nil {
		t.Fatalf("second Publish() error = %v", err)
	}

	if first.Status != StatusCreated {
		t.Errorf("first Status = %v, want created", first.Status)
	}
	if second.Status != StatusDuplicate {
		t.Errorf("second Status = %v, want duplicate", second.Status)
	}
	if first.EventID != second.EventID {
		t.Errorf("duplicate should reference the same record: %d vs %d", first.EventID, second.EventID)
	}
}
