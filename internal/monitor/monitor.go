// internal/monitor/monitor.go
package monitor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/tamzrod/fsm-bridge/internal/afe"
	"github.com/tamzrod/fsm-bridge/internal/power"
	"github.com/tamzrod/fsm-bridge/internal/status"
)

// ErrFeatureDisabled is the terminal signal for "both BSG and thermal
// control are off on the DSP". It is not a failure.
var ErrFeatureDisabled = errors.New("monitor: feature disabled remotely")

// Channel is the subset of the command channel the monitor drives.
type Channel interface {
	Ready() bool
	SetParam(ctx context.Context, h afe.Header, payload []byte) error
	GetParam(ctx context.Context, h afe.Header, out []byte) error
}

// Config is the minimal runtime config the monitor needs.
type Config struct {
	LegacyInterval time.Duration
}

// Monitor feeds battery and thermal telemetry to the DSP while enabled.
// One runner goroutine per enable period; ticks never overlap.
type Monitor struct {
	ch     Channel
	supply power.Provider
	legacy time.Duration

	// serializes Start/Stop, held while Stop waits for the runner
	ctl sync.Mutex

	mu      sync.Mutex
	enabled bool
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	proto   protocol
	delay   time.Duration
	cfg     *afe.BSGConfig
	ticks   uint32
	health  uint16
	lastErr error
}

func New(cfg Config, ch Channel, supply power.Provider) (*Monitor, error) {
	if ch == nil {
		return nil, errors.New("monitor: channel required")
	}
	if supply == nil {
		return nil, errors.New("monitor: power provider required")
	}
	if cfg.LegacyInterval <= 0 {
		return nil, errors.New("monitor: legacy interval must be > 0")
	}
	return &Monitor{
		ch:     ch,
		supply: supply,
		legacy: cfg.LegacyInterval,
		health: status.HealthDisabled,
	}, nil
}

// Start enables the monitor and schedules an immediate tick.
// No-op while a runner is live. A monitor that went idle (DSP not ready)
// is re-armed.
func (m *Monitor) Start() {
	m.ctl.Lock()
	defer m.ctl.Unlock()

	m.mu.Lock()
	if m.enabled && m.running {
		m.mu.Unlock()
		return
	}
	if m.cancel != nil {
		m.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	m.enabled = true
	m.running = true
	m.cancel = cancel
	m.done = done
	m.health = status.HealthUnknown
	m.mu.Unlock()

	log.Printf("monitor: enable")
	go m.run(ctx, done)
}

// Stop disables the monitor. It returns only after any in-flight tick has
// finished; no tick fires afterwards. The resolved interval and cached
// config are dropped so the next Start re-reads them. A V1 fallback stays.
func (m *Monitor) Stop() {
	m.ctl.Lock()
	defer m.ctl.Unlock()

	m.mu.Lock()
	if !m.enabled {
		m.mu.Unlock()
		return
	}
	m.enabled = false
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	log.Printf("monitor: disable")
	if cancel != nil {
		cancel()
		<-done
	}

	m.mu.Lock()
	m.delay = 0
	m.cfg = nil
	m.health = status.HealthDisabled
	m.mu.Unlock()
}

// Set is the idempotent on/off switch exposed to the control surface.
func (m *Monitor) Set(enable bool) {
	if enable {
		m.Start()
		return
	}
	m.Stop()
}

func (m *Monitor) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	var delay time.Duration // first tick is immediate

	for {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}

		next, again := m.Tick(ctx)
		if !again {
			return
		}
		delay = next
	}
}
