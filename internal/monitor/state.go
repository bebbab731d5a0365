// internal/monitor/state.go
package monitor

import (
	"time"

	"github.com/tamzrod/fsm-bridge/internal/channel"
	"github.com/tamzrod/fsm-bridge/internal/status"
)

// State is a point-in-time view of the monitor.
type State struct {
	Enabled   bool
	Running   bool
	Version   Version
	Interval  time.Duration
	Ticks     uint32
	Health    uint16
	LastError error
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{
		Enabled:   m.enabled,
		Running:   m.running,
		Version:   m.proto.current(),
		Ticks:     m.ticks,
		Health:    m.health,
		LastError: m.lastErr,
	}
	switch s.Version {
	case V1:
		s.Interval = m.legacy
	case V2:
		s.Interval = m.delay
	}
	return s
}

// Snapshot maps the state onto the status block fields.
// SecondsInError is owned by the publisher and left zero.
func (s State) Snapshot() status.Snapshot {
	ms := s.Interval.Milliseconds()
	if ms > 65535 {
		ms = 65535
	}
	return status.Snapshot{
		Health:          s.Health,
		LastErrorCode:   channel.Code(s.LastError),
		ProtocolVersion: s.Version.Code(),
		IntervalMs:      uint16(ms),
		TickCount:       s.Ticks,
	}
}

// Snapshot returns the current state in status block form.
func (m *Monitor) Snapshot() status.Snapshot {
	return m.State().Snapshot()
}
