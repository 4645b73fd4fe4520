package urlcheck

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *httptest.Server {
	v := New(Config{DisableNetwork: true})
	return httptest.NewServer(Routes(v))
}

func decodeResult(t *testing.T, resp *http.Response) ValidationResult {
	t.Helper()
	defer resp.Body.Close()
	var r ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return r
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCheckQueryParam(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/check?url=https%3A%2F%2Fexample.com%2Fabout")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	r := decodeResult(t, resp)
	if !r.Safe {
		t.Errorf("expected safe verdict, got score %d, message %q", r.Score, r.Message)
	}
}

func TestCheckJSONBody(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	body := strings.NewReader(`{"url": "https://paypal-secure-login.com/signin"}`)
	resp, err := http.Post(srv.URL+"/check", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	r := decodeResult(t, resp)
	if r.Safe {
		t.Error("brand impersonation scored safe")
	}
	if len(r.Flags) == 0 {
		t.Error("expected risk flags in the response")
	}
}

// An unsafe verdict is still a successful check: 4xx is reserved for
// malformed requests.
func TestCheckUnsafeIsStill200(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/check?url=g00gle.com")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	r := decodeResult(t, resp)
	if r.Safe {
		t.Error("typosquat scored safe")
	}
}

func TestCheckMissingURL(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/check", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/check")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCheckOversizedBody(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	huge := `{"url": "https://example.com/` + strings.Repeat("a", maxRequestBody) + `"}`
	resp, err := http.Post(srv.URL+"/check", "application/json", strings.NewReader(huge))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for oversized body", resp.StatusCode)
	}
}

// Unparseable input is an engine answer, not an HTTP error: score zero,
// unsafe, with a reason.
func TestCheckUnparseableInput(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/check?url=http%3A%2F%2F")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	r := decodeResult(t, resp)
	if r.Safe || r.Score != 0 {
		t.Errorf("expected zero-score unsafe result, got %+v", r)
	}
	if r.Message == "" {
		t.Error("expected a reason message")
	}
}
