// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are legal wherever Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	b := &cfg.Bridge

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	switch b.Transport {
	case "", TransportSim:
	default:
		return fmt.Errorf("transport %q not supported (want %q)", b.Transport, TransportSim)
	}

	// ------------------------------------------------------------
	// COMMAND CHANNEL
	// ------------------------------------------------------------

	c := b.Channel
	if c.ChunkLimit != 0 && (c.ChunkLimit <= 16 || c.ChunkLimit > MaxChunkLimit) {
		return fmt.Errorf("channel.chunk_limit %d out of range (17..%d)", c.ChunkLimit, MaxChunkLimit)
	}
	if c.Retries < 0 {
		return fmt.Errorf("channel.retries must be >= 0, got %d", c.Retries)
	}
	if c.RetrySleepMs < 0 {
		return fmt.Errorf("channel.retry_sleep_ms must be >= 0, got %d", c.RetrySleepMs)
	}
	if c.ReplyTimeoutMs < 0 {
		return fmt.Errorf("channel.reply_timeout_ms must be >= 0, got %d", c.ReplyTimeoutMs)
	}

	e := b.Endpoints
	if e.PlaybackPort != 0 && e.PlaybackPort == e.CapturePort {
		return fmt.Errorf("endpoints: playback and capture share port 0x%04x", e.PlaybackPort)
	}

	// ------------------------------------------------------------
	// MONITOR
	// ------------------------------------------------------------

	if b.Monitor.LegacyIntervalMs < 0 {
		return fmt.Errorf("monitor.legacy_interval_ms must be >= 0, got %d", b.Monitor.LegacyIntervalMs)
	}

	// ------------------------------------------------------------
	// POWER SUPPLY
	// ------------------------------------------------------------

	switch b.Power.Source {
	case "", PowerSysfs:
	case PowerModbus:
		if err := validateBMS(b.Power.Modbus); err != nil {
			return err
		}
	default:
		return fmt.Errorf("power.source %q not supported", b.Power.Source)
	}

	// ------------------------------------------------------------
	// STATUS MEMORY (OPT-IN)
	// ------------------------------------------------------------

	if s := b.Status; s != nil {
		switch s.Protocol {
		case "", StatusModbus, StatusIngest:
		default:
			return fmt.Errorf("status.protocol %q not supported", s.Protocol)
		}
		if s.Endpoint == "" {
			return errors.New("status.endpoint required when status is set")
		}
		if s.TimeoutMs < 0 {
			return fmt.Errorf("status.timeout_ms must be >= 0, got %d", s.TimeoutMs)
		}
		for i := 0; i < len(s.DeviceName); i++ {
			if s.DeviceName[i] > 0x7F {
				return errors.New("status.device_name must contain ASCII characters only")
			}
		}
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	l := b.Log
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return errors.New("log: rotation limits must be >= 0")
	}

	// ------------------------------------------------------------
	// SIMULATED DSP
	// ------------------------------------------------------------

	sim := b.Sim
	if sim.ReadyAfterMs < 0 || sim.ReplyDelayMs < 0 {
		return errors.New("sim: delays must be >= 0")
	}
	if sim.BSG.BSGInterval < 0 || sim.BSG.TCInterval < 0 {
		return errors.New("sim.bsg: intervals must be >= 0")
	}

	return nil
}

func validateBMS(m *BMSConfig) error {
	if m == nil {
		return errors.New("power.modbus required when power.source is modbus")
	}
	if m.Endpoint == "" {
		return errors.New("power.modbus.endpoint required")
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("power.modbus.timeout_ms must be >= 0, got %d", m.TimeoutMs)
	}

	regs := []struct {
		name string
		r    *RegisterConfig
	}{
		{"voltage", &m.Voltage},
		{"capacity", m.Capacity},
		{"temp", m.Temp},
	}
	for _, rc := range regs {
		if rc.r == nil {
			continue
		}
		if rc.r.Words > 2 {
			return fmt.Errorf("power.modbus.%s.words must be 1 or 2, got %d", rc.name, rc.r.Words)
		}
	}
	return nil
}
