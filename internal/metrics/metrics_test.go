package metrics

import (
	"net"
	"testing"
	"time"
)

func TestServeReportsBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving port: %v", err)
	}
	defer ln.Close()

	// The port is occupied, so the listener must fail and say so.
	srv, errCh := Serve(ln.Addr().String())
	defer srv.Close()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected a bind error, channel closed without one")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error surfaced for an occupied address")
	}
}
