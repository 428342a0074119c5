package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPProberClassifies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok"+InfoPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":"6.4.0","success":true}`))
	})
	mux.HandleFunc("/auth"+InfoPath, func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); ok && user == "bob" && pass == "hunter2" {
			_, _ = w.Write([]byte(`{"version":"6.4.0"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/noversion"+InfoPath, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/html"+InfoPath, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	})
	mux.HandleFunc("/broken"+InfoPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	withCreds := strings.Replace(srv.URL, "http://", "http://bob:hunter2@", 1)

	tests := []struct {
		candidate string
		want      Status
	}{
		{srv.URL + "/ok", StatusValid},
		{srv.URL + "/ok/", StatusValid},
		{srv.URL + "/auth", StatusNeedsAuth},
		{withCreds + "/auth", StatusValid},
		{srv.URL + "/noversion", StatusInvalid},
		{srv.URL + "/html", StatusInvalid},
		{srv.URL + "/broken", StatusInvalid},
		{srv.URL + "/missing", StatusInvalid},
		{strings.TrimPrefix(srv.URL, "http://") + "/ok", StatusInvalid},
	}
	prober := HTTPProber{Client: srv.Client()}
	for _, tt := range tests {
		if got := prober.Probe(context.Background(), tt.candidate); got != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.candidate, tt.want, got)
		}
	}
}

func TestHTTPProberDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if got := (HTTPProber{Client: srv.Client()}).Probe(ctx, srv.URL); got != StatusTimeout {
		t.Fatalf("expected timeout, got %s", got)
	}
}

func TestMachineOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != InfoPath {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"version":"7.0.0"}`))
	}))
	defer srv.Close()

	res, err := New(HTTPProber{Client: srv.Client()}, time.Second).Validate(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempts != 1 || len(res.Rewrites) != 0 {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestTrimInfoPath(t *testing.T) {
	if got := TrimInfoPath("https://chat.example/api/info"); got != "https://chat.example" {
		t.Fatalf("unexpected %q", got)
	}
	if got := TrimInfoPath("https://chat.example"); got != "https://chat.example" {
		t.Fatalf("unexpected %q", got)
	}
}
