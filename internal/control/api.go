// internal/control/api.go
package control

// Wire types shared by the HTTP API and its client.

type SwitchState struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

type RotationState struct {
	Angle int32 `json:"angle" yaml:"angle"`
}

type FadeRequest struct {
	Type    int32 `json:"type" yaml:"type"`
	TimeMs  int32 `json:"time_ms" yaml:"time_ms"`
	StartDB int32 `json:"start_db" yaml:"start_db"`
	Channel int32 `json:"channel" yaml:"channel"`
}

type MonitorStatus struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Running    bool   `json:"running" yaml:"running"`
	Version    string `json:"version" yaml:"version"`
	IntervalMs int64  `json:"interval_ms" yaml:"interval_ms"`
	Ticks      uint32 `json:"ticks" yaml:"ticks"`
	Health     string `json:"health" yaml:"health"`
	LastError  string `json:"last_error,omitempty" yaml:"last_error,omitempty"`
}

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
}

type ErrorBody struct {
	Error     string `json:"error" yaml:"error"`
	RequestID string `json:"request_id,omitempty" yaml:"request_id,omitempty"`
}
