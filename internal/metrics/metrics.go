// Package metrics exposes Prometheus counters for the extraction pipeline.
// Counters are registered on the default registry; Serve starts an
// optional /metrics listener for loop-style deployments.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PostsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_posts_scanned_total",
		Help: "Posts read from the configured source.",
	})
	PostsClassifiedEvent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_posts_classified_event_total",
		Help: "Posts the heuristic classifier marked as events.",
	})
	ExtractionsAI = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_extractions_ai_total",
		Help: "Extractions served by the AI tier.",
	})
	ExtractionsFallback = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_extractions_fallback_total",
		Help: "Extractions served by the regex fallback tier.",
	})
	CandidatesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_candidates_accepted_total",
		Help: "Candidates that passed validation and the acceptance gate.",
	})
	CandidatesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_candidates_rejected_total",
		Help: "Candidates dropped because neither title nor date survived validation.",
	})
	SyncCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_sync_created_total",
		Help: "Candidates the backend stored as new events.",
	})
	SyncDuplicates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_sync_duplicates_total",
		Help: "Candidates the backend reported as already existing.",
	})
	SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hive_sync_failures_total",
		Help: "Publish attempts that failed after retries.",
	})
)

// Serve starts a /metrics HTTP listener on addr. The returned server can
// be shut down by the caller; errors from the listener surface on errCh.
func Serve(addr string) (*http.Server, <-chan error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	return srv, errCh
}
