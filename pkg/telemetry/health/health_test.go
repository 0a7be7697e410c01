package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
	}{
		{
			name:   "no checks",
			checks: nil,
			want:   StatusReady,
		},
		{
			name: "all passing",
			checks: map[string]CheckFunc{
				"watcher": func(context.Context) error { return nil },
				"session": func(context.Context) error { return nil },
			},
			want: StatusReady,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"watcher": func(context.Context) error { return errors.New("watcher not running") },
				"session": func(context.Context) error { return nil },
			},
			want: StatusNotReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.want {
				t.Errorf("Status = %q, want %q", status.Status, tt.want)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	status := checker.CheckReadiness(context.Background())
	result := status.Checks["slow"]
	if result.Status != StatusFailing || result.Message != "health check timeout" {
		t.Errorf("result = %+v, want timeout failure", result)
	}
}

func TestChecks(t *testing.T) {
	checker := New(0)
	checker.RegisterCheck("watcher", func(context.Context) error { return nil })
	checker.RegisterCheck("baseline", func(context.Context) error { return nil })

	names := checker.Checks()
	if len(names) != 2 || names[0] != "baseline" || names[1] != "watcher" {
		t.Errorf("Checks() = %v", names)
	}
}

func TestEndpoints(t *testing.T) {
	checker := New(time.Second)
	failing := true
	checker.RegisterCheck("watcher", func(context.Context) error {
		if failing {
			return errors.New("watcher not running")
		}
		return nil
	})

	mux := http.NewServeMux()
	Register(mux, checker, "1.2.3")

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"liveness", http.MethodGet, "/healthz", http.StatusOK},
		{"readiness failing", http.MethodGet, "/readyz", http.StatusServiceUnavailable},
		{"version", http.MethodGet, "/version", http.StatusOK},
		{"post rejected", http.MethodPost, "/healthz", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantCode)
			}
		})
	}

	failing = false
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/readyz = %d, want 200", rec.Code)
	}

	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Checks["watcher"].Status != StatusOK {
		t.Errorf("watcher check = %+v", status.Checks["watcher"])
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != "1.2.3" || info.GoVersion == "" {
		t.Errorf("version = %+v", info)
	}
}
