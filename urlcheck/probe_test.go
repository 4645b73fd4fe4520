package urlcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// newLoopbackProber returns a prober that may dial httptest servers.
func newLoopbackProber() *Prober {
	p := NewProber()
	p.allowPrivate = true
	return p
}

func TestBlockedHostReservedAddresses(t *testing.T) {
	p := NewProber()
	ctx := context.Background()

	tests := []struct {
		name    string
		host    string
		blocked bool
	}{
		{"ipv4 loopback", "127.0.0.1", true},
		{"ipv4 private 10", "10.0.0.5", true},
		{"ipv4 private 172", "172.16.4.2", true},
		{"ipv4 private 192", "192.168.1.1", true},
		{"ipv4 link local metadata", "169.254.169.254", true},
		{"ipv4 shared address space", "100.64.0.1", true},
		{"ipv4 documentation", "192.0.2.10", true},
		{"ipv4 documentation 198", "198.51.100.7", true},
		{"ipv4 documentation 203", "203.0.113.9", true},
		{"ipv4 benchmarking", "198.18.0.1", true},
		{"ipv4 unspecified", "0.0.0.0", true},
		{"ipv6 loopback", "::1", true},
		{"ipv6 link local", "fe80::1", true},
		{"ipv6 unique local", "fc00::1", true},
		{"ipv6 unique local fd", "fd12:3456::1", true},
		{"ipv6 documentation", "2001:db8::1", true},
		{"ipv6 unspecified", "::", true},
		{"localhost name", "localhost", true},
		{"localhost suffix", "dev.localhost", true},
		{"internal suffix", "build.internal", true},
		{"lan suffix", "nas.lan", true},
		{"corp suffix", "printer.corp", true},
		{"cloud metadata name", "metadata.google.internal", true},
		{"public ipv4", "8.8.8.8", false},
		{"public ipv4 web", "93.184.216.34", false},
		{"public ipv6", "2606:4700:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.blockedHost(ctx, tt.host); got != tt.blocked {
				t.Errorf("blockedHost(%q) = %v, want %v", tt.host, got, tt.blocked)
			}
		})
	}
}

// A guarded target is never dialed and never penalized: the probe comes
// back Unknown, not Fail.
func TestProbeRefusesReservedTargets(t *testing.T) {
	p := NewProber()

	for _, target := range []string{
		"https://10.0.0.5/",
		"https://127.0.0.1:8080/admin",
		"https://[::1]/",
		"https://169.254.169.254/latest/meta-data/",
	} {
		res := p.Probe(context.Background(), target)
		if res.Resolves != Unknown {
			t.Errorf("Probe(%s).Resolves = %v, want Unknown", target, res.Resolves)
		}
	}
}

func TestProbeAliveOnAnyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	res := newLoopbackProber().Probe(context.Background(), srv.URL)
	if res.Resolves != Pass {
		t.Errorf("a 404 still proves the server is alive; got %v", res.Resolves)
	}
}

func TestProbeFollowsRedirectChain(t *testing.T) {
	var hits int32
	dest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer dest.Close()

	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, dest.URL+"/landing", http.StatusFound)
	}))
	defer src.Close()

	res := newLoopbackProber().Probe(context.Background(), src.URL)
	if res.Resolves != Pass {
		t.Fatalf("expected Pass, got %v", res.Resolves)
	}
	if res.FinalURL != dest.URL+"/landing" {
		t.Errorf("final URL = %q, want %q", res.FinalURL, dest.URL+"/landing")
	}
	if atomic.LoadInt32(&hits) == 0 {
		t.Error("destination was never requested")
	}
}

// A chain that redirects back to a previously visited URL terminates
// instead of looping.
func TestProbeRedirectLoopTerminates(t *testing.T) {
	var requests int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.Redirect(w, r, srv.URL+"/b", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.Redirect(w, r, srv.URL+"/a", http.StatusMovedPermanently)
	})

	res := newLoopbackProber().Probe(context.Background(), srv.URL+"/a")
	if res.Resolves != Pass {
		t.Errorf("expected Pass from a live looping server, got %v", res.Resolves)
	}
	if n := atomic.LoadInt32(&requests); n > probeMaxHops {
		t.Errorf("loop was not cut off: %d requests", n)
	}
}

func TestProbeMaxHops(t *testing.T) {
	var requests int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// An endless chain of distinct URLs: /hop?n=0 -> /hop?n=1 -> ...
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		http.Redirect(w, r, fmt.Sprintf("%s/hop?n=%d", srv.URL, n), http.StatusFound)
	})

	res := newLoopbackProber().Probe(context.Background(), srv.URL+"/hop?n=start")
	if res.Resolves != Pass {
		t.Errorf("expected Pass, got %v", res.Resolves)
	}
	if n := atomic.LoadInt32(&requests); n > probeMaxHops {
		t.Errorf("expected at most %d hops, saw %d requests", probeMaxHops, n)
	}
}

// Only a definitive name-resolution failure maps to Fail; TLS problems,
// refused connections and timeouts stay Unknown.
func TestProbeErrorAsymmetry(t *testing.T) {
	notFound := &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}
	if !isNameNotFound(fmt.Errorf("head: %w", notFound)) {
		t.Error("wrapped NXDOMAIN not recognized")
	}

	timeout := &net.DNSError{Err: "i/o timeout", Name: "slow.example", IsTimeout: true}
	if isNameNotFound(timeout) {
		t.Error("DNS timeout misclassified as a confirmed missing host")
	}

	if isNameNotFound(errors.New("tls: handshake failure")) {
		t.Error("TLS failure misclassified as a confirmed missing host")
	}
}

// A refused connection on an otherwise resolvable host is Unknown.
func TestProbeConnectionRefusedUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close() // now nothing listens there

	res := newLoopbackProber().Probe(context.Background(), addr)
	if res.Resolves != Unknown {
		t.Errorf("refused connection should stay Unknown, got %v", res.Resolves)
	}
}
