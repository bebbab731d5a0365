// cmd/fsmctl/fsmctl_test.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tamzrod/fsm-bridge/internal/control"
)

type apiCall struct {
	method string
	path   string
	body   string
}

// fakeAPI serves canned control API responses and records requests.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body bytes.Buffer
	_, _ = body.ReadFrom(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: r.Method, path: r.URL.Path, body: body.String()})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/v1/rx", "/api/v1/tx":
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(control.SwitchState{Enabled: true})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case "/api/v1/rotation":
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(control.ErrorBody{Error: "invalid angle"})
			return
		}
		_ = json.NewEncoder(w).Encode(control.RotationState{Angle: 90})
	case "/api/v1/version":
		_ = json.NewEncoder(w).Encode(control.VersionInfo{Version: control.Version})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) recorded() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func runCmd(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", server}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseSwitch(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"1", true, false},
		{"off", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSwitch(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %t, got %t", tt.want, got)
			}
		})
	}
}

func TestRxSetThenReads(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, err := runCmd(t, srv.URL, "rx", "off")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "rx: on" {
		t.Fatalf("unexpected output %q", out)
	}

	calls := api.recorded()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].method != http.MethodPut || calls[0].path != "/api/v1/rx" {
		t.Fatalf("expected PUT /api/v1/rx, got %s %s", calls[0].method, calls[0].path)
	}
	if !strings.Contains(calls[0].body, `"enabled":false`) {
		t.Fatalf("unexpected body %q", calls[0].body)
	}
}

func TestRotationJSONOutput(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	out, err := runCmd(t, srv.URL, "-o", "json", "rotation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var st control.RotationState
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, out)
	}
	if st.Angle != 90 {
		t.Fatalf("expected angle 90, got %d", st.Angle)
	}
}

func TestVersionYAMLOutput(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	out, err := runCmd(t, srv.URL, "-o", "yaml", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "version: "+control.Version {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAPIErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()

	if _, err := runCmd(t, srv.URL, "rotation", "45"); err == nil {
		t.Fatalf("expected API error")
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	if _, err := runCmd(t, "http://127.0.0.1:1", "-o", "xml", "version"); err == nil {
		t.Fatalf("expected error for unknown output format")
	}
}
