// Package cli implements the command-line interface for hive-scan.
//
// The cli package provides the Cobra-based CLI that runs a scan batch:
// it loads posts from the configured source, drives them through the
// extraction pipeline, publishes accepted candidates to the backend, and
// reports the run summary as text or JSON. The exit code signals the
// outcome: 0 for a clean run, 2 when new events were created.
package cli
