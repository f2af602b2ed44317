package cli

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// TestServeCommandPassesAddr verifies serve hands the flag address and a
// working handler to the server layer.
func TestServeCommandPassesAddr(t *testing.T) {
	ws := newWorkspace(t)
	var gotAddr string
	var status int
	origServe := serveHTTP
	serveHTTP = func(_ context.Context, addr string, handler http.Handler, _ *zap.Logger, ready func(net.Addr)) error {
		gotAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		status = rec.Code
		ready(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 5050})
		return nil
	}
	t.Cleanup(func() { serveHTTP = origServe })

	code, out, errOut := run(t, "serve", "--config", ws.config, "--addr", "127.0.0.1:5050")
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut)
	}
	if gotAddr != "127.0.0.1:5050" {
		t.Fatalf("unexpected addr %q", gotAddr)
	}
	if status != http.StatusOK {
		t.Fatalf("expected healthy handler, got %d", status)
	}
	if !strings.Contains(out, "Listening on http://127.0.0.1:5050") {
		t.Fatalf("unexpected output %q", out)
	}
}

// TestServeCommandDefaultsAddr verifies the configured address is used
// without --addr.
func TestServeCommandDefaultsAddr(t *testing.T) {
	ws := newWorkspace(t)
	var gotAddr string
	origServe := serveHTTP
	serveHTTP = func(_ context.Context, addr string, _ http.Handler, _ *zap.Logger, _ func(net.Addr)) error {
		gotAddr = addr
		return nil
	}
	t.Cleanup(func() { serveHTTP = origServe })

	if code, _, errOut := run(t, "serve", "--config", ws.config, "--no-history"); code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut)
	}
	if gotAddr != "127.0.0.1:8765" {
		t.Fatalf("unexpected addr %q", gotAddr)
	}
}

// TestServeCommandRejectsArgs verifies positional arguments are a usage error.
func TestServeCommandRejectsArgs(t *testing.T) {
	code, _, _ := run(t, "serve", "extra")
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
}
