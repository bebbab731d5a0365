// internal/monitor/tick.go
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tamzrod/fsm-bridge/internal/afe"
	"github.com/tamzrod/fsm-bridge/internal/power"
	"github.com/tamzrod/fsm-bridge/internal/status"
)

// Tick runs one monitor cycle.
// It returns the delay before the next cycle, or false when the monitor
// should stop rescheduling itself.
func (m *Monitor) Tick(ctx context.Context) (time.Duration, bool) {
	if !m.ch.Ready() {
		log.Printf("monitor: dsp not ready, idle until restarted")
		m.finish(status.HealthStale, nil)
		return 0, false
	}

	m.mu.Lock()
	tryV2 := m.proto.attemptV2()
	m.mu.Unlock()

	if tryV2 {
		interval, err := m.tickV2(ctx)
		switch {
		case err == nil:
			m.finish(status.HealthOK, nil)
			return interval, true

		case errors.Is(err, ErrFeatureDisabled):
			log.Printf("monitor: bsg and thermal control disabled by dsp, stopping")
			m.finish(status.HealthDisabled, nil)
			return 0, false

		case ctx.Err() != nil:
			return 0, false
		}

		log.Printf("monitor: v2 failed, falling back to v1: %v", err)
		m.mu.Lock()
		m.proto.fallback()
		m.delay = m.legacy
		m.mu.Unlock()
	}

	if err := m.tickV1(ctx); err != nil {
		if ctx.Err() != nil {
			return 0, false
		}
		log.Printf("monitor: v1 vbat: %v", err)
		m.finish(status.HealthError, err)
		return m.legacy, true
	}

	m.finish(status.HealthOK, nil)
	return m.legacy, true
}

// tickV2 fetches the config on first use, then sends one BSG V2 record.
func (m *Monitor) tickV2(ctx context.Context) (time.Duration, error) {
	m.mu.Lock()
	cfg, delay := m.cfg, m.delay
	m.mu.Unlock()

	if cfg == nil {
		fetched, interval, err := m.fetchConfig(ctx)
		if err != nil {
			return 0, err
		}

		m.mu.Lock()
		m.cfg = &fetched
		m.delay = interval
		m.mu.Unlock()

		cfg, delay = &fetched, interval
	}

	param, err := m.buildParam(ctx, *cfg)
	if err != nil {
		return 0, err
	}

	payload := param.Marshal()
	h := afe.NewHeader(afe.ModuleRX, afe.ParamBSGV2Param, len(payload))
	if err := m.ch.SetParam(ctx, h, payload); err != nil {
		return 0, fmt.Errorf("monitor: send bsg param: %w", err)
	}
	return delay, nil
}

func (m *Monitor) fetchConfig(ctx context.Context) (afe.BSGConfig, time.Duration, error) {
	out := make([]byte, afe.BSGConfigSize)
	h := afe.NewHeader(afe.ModuleRX, afe.ParamBSGV2Config, afe.BSGConfigSize)

	if err := m.ch.GetParam(ctx, h, out); err != nil {
		return afe.BSGConfig{}, 0, fmt.Errorf("monitor: fetch bsg config: %w", err)
	}

	cfg, err := afe.UnmarshalBSGConfig(out)
	if err != nil {
		return afe.BSGConfig{}, 0, fmt.Errorf("monitor: fetch bsg config: %w", err)
	}
	if !cfg.Enabled() {
		return afe.BSGConfig{}, 0, ErrFeatureDisabled
	}

	ms := cfg.Interval()
	if ms <= 0 {
		return afe.BSGConfig{}, 0, fmt.Errorf("monitor: bsg config: invalid interval %dms", ms)
	}

	log.Printf(
		"monitor: bsg config mode=%d enable=%d interval=%dms tc_mode=%d tc_enable=%d tc_interval=%dms",
		cfg.BSGMode, cfg.BSGEnable, cfg.BSGInterval, cfg.TCMode, cfg.TCModeEnable, cfg.TCInterval,
	)
	return cfg, time.Duration(ms) * time.Millisecond, nil
}

// buildParam fills both slots; an unused slot carries zero.
func (m *Monitor) buildParam(ctx context.Context, cfg afe.BSGConfig) (afe.BSGParam, error) {
	p := afe.BSGParam{
		BSGMode: cfg.BSGMode,
		TCMode:  cfg.TCMode,
	}

	var prop power.Property
	switch cfg.BSGMode {
	case afe.BSGModeVoltage:
		prop = power.VoltageNow
	case afe.BSGModeCapacity:
		prop = power.Capacity
	default:
		prop = -1
	}
	if prop >= 0 {
		v, err := m.supply.Read(ctx, prop)
		if err != nil {
			return afe.BSGParam{}, fmt.Errorf("monitor: read %s: %w", prop, err)
		}
		p.BSGVal = int32(v)
	}

	if cfg.TCMode == afe.TCModeTemp {
		v, err := m.supply.Read(ctx, power.Temp)
		if err != nil {
			return afe.BSGParam{}, fmt.Errorf("monitor: read %s: %w", power.Temp, err)
		}
		p.TCVal = int32(v)
	}

	return p, nil
}

// tickV1 sends the instantaneous battery voltage as a single scalar.
func (m *Monitor) tickV1(ctx context.Context) error {
	v, err := m.supply.Read(ctx, power.VoltageNow)
	if err != nil {
		return fmt.Errorf("monitor: read %s: %w", power.VoltageNow, err)
	}

	h := afe.NewHeader(afe.ModuleRX, afe.ParamBSGVbat, afe.ScalarSize)
	if err := m.ch.SetParam(ctx, h, afe.Scalar(int32(v))); err != nil {
		return fmt.Errorf("monitor: send vbat: %w", err)
	}
	return nil
}

func (m *Monitor) finish(health uint16, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticks++
	m.health = health
	m.lastErr = err
}
