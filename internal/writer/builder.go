// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/fsm-bridge/internal/config"
	"github.com/tamzrod/fsm-bridge/internal/writer/ingest"
	wmodbus "github.com/tamzrod/fsm-bridge/internal/writer/modbus"
)

// BuildPlan converts the status config into a StatusPlan.
// Assumes config has already passed validation.
func BuildPlan(sc *cfg.StatusConfig) (StatusPlan, error) {
	if sc == nil {
		return StatusPlan{}, errors.New("writer: status not configured")
	}
	return StatusPlan{
		Endpoint:   sc.Endpoint,
		UnitID:     sc.UnitID,
		BaseSlot:   sc.Slot,
		DeviceName: sc.DeviceName,
	}, nil
}

// BuildStatusWriter creates the endpoint client for the configured protocol
// and wraps it in a status writer.
func BuildStatusWriter(sc *cfg.StatusConfig) (StatusWriter, func() error, error) {
	plan, err := BuildPlan(sc)
	if err != nil {
		return nil, nil, err
	}

	timeout := time.Duration(sc.TimeoutMs) * time.Millisecond

	var (
		cli     endpointClient
		closeFn func() error
	)

	switch sc.Protocol {
	case cfg.StatusModbus:
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: sc.Endpoint, Timeout: timeout})
		if err != nil {
			return nil, nil, err
		}
		cli, closeFn = c, c.Close

	case cfg.StatusIngest:
		c, err := ingest.NewEndpointClient(ingest.Config{Endpoint: sc.Endpoint, Timeout: timeout})
		if err != nil {
			return nil, nil, err
		}
		cli, closeFn = c, c.Close

	default:
		return nil, nil, fmt.Errorf("writer: unknown status protocol %q", sc.Protocol)
	}

	sw, err := NewDeviceStatusWriter(plan, cli)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return sw, closeFn, nil
}
