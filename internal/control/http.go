// internal/control/http.go
package control

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/tamzrod/fsm-bridge/internal/afe"
	"github.com/tamzrod/fsm-bridge/internal/channel"
	"github.com/tamzrod/fsm-bridge/internal/monitor"
	"github.com/tamzrod/fsm-bridge/internal/status"
)

// RequestIDHeader carries the per-request id on every reply.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// NewHandler exposes the service over JSON/HTTP.
func NewHandler(svc *Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ready": svc.ch.Ready()})
	})
	mux.HandleFunc("GET /api/v1/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, VersionInfo{Version: Version})
	})

	mux.HandleFunc("GET /api/v1/rx", getSwitch(svc.RxStatus))
	mux.HandleFunc("PUT /api/v1/rx", putSwitch(svc.SetRxEnable))
	mux.HandleFunc("GET /api/v1/tx", getSwitch(svc.TxStatus))
	mux.HandleFunc("PUT /api/v1/tx", putSwitch(svc.SetTxEnable))
	mux.HandleFunc("PUT /api/v1/module", putSwitch(svc.SetModuleEnable))

	mux.HandleFunc("GET /api/v1/rotation", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, RotationState{Angle: svc.Rotation()})
	})
	mux.HandleFunc("PUT /api/v1/rotation", func(w http.ResponseWriter, r *http.Request) {
		var req RotationState
		if !decode(w, r, &req) {
			return
		}
		if err := svc.SetRotation(r.Context(), req.Angle); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, RotationState{Angle: svc.Rotation()})
	})

	mux.HandleFunc("POST /api/v1/fade", func(w http.ResponseWriter, r *http.Request) {
		var req FadeRequest
		if !decode(w, r, &req) {
			return
		}
		f := afe.Fade{Type: req.Type, TimeMs: req.TimeMs, StartDB: req.StartDB, Channel: req.Channel}
		if err := svc.SetFade(r.Context(), f); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/v1/monitor", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, monitorStatus(svc.MonitorState()))
	})
	mux.HandleFunc("PUT /api/v1/monitor", func(w http.ResponseWriter, r *http.Request) {
		var req SwitchState
		if !decode(w, r, &req) {
			return
		}
		svc.MonitorEnable(req.Enabled)
		writeJSON(w, http.StatusOK, monitorStatus(svc.MonitorState()))
	})

	return withRequestID(mux)
}

func getSwitch(get func(context.Context) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		on, err := get(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, SwitchState{Enabled: on})
	}
}

func putSwitch(set func(context.Context, bool) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SwitchState
		if !decode(w, r, &req) {
			return
		}
		if err := set(r.Context(), req.Enabled); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	}
}

func monitorStatus(s monitor.State) MonitorStatus {
	out := MonitorStatus{
		Enabled:    s.Enabled,
		Running:    s.Running,
		Version:    s.Version.String(),
		IntervalMs: s.Interval.Milliseconds(),
		Ticks:      s.Ticks,
		Health:     status.HealthName(s.Health),
	}
	if s.LastError != nil {
		out.LastError = s.LastError.Error()
	}
	return out
}

// ---- plumbing ----

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "bad request body: " + err.Error(), RequestID: requestID(r)})
		return false
	}
	return true
}

// statusFor maps command errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, channel.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotReady), errors.Is(err, channel.ErrTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	id := requestID(r)
	log.Printf("control: %s %s id=%s: %v", r.Method, r.URL.Path, id, err)
	writeJSON(w, code, ErrorBody{Error: err.Error(), RequestID: id})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
