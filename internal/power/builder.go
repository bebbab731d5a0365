// internal/power/builder.go
package power

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/fsm-bridge/internal/config"
	pmodbus "github.com/tamzrod/fsm-bridge/internal/power/modbus"
)

// Build constructs the configured provider.
// The returned closer releases any connection the provider holds.
func Build(pc cfg.PowerConfig) (Provider, func() error, error) {
	switch pc.Source {
	case cfg.PowerSysfs:
		p, err := NewSysfs(pc.Sysfs.Root, pc.Sysfs.Supply)
		if err != nil {
			return nil, nil, err
		}
		return p, func() error { return nil }, nil

	case cfg.PowerModbus:
		m := pc.Modbus
		client, err := pmodbus.New(pmodbus.Config{
			Endpoint: m.Endpoint,
			UnitID:   m.UnitID,
			Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, nil, err
		}
		return NewBMS(client, registerMap(m)), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("power: unknown source %q", pc.Source)
	}
}

func registerMap(m *cfg.BMSConfig) map[Property]pmodbus.Register {
	regs := map[Property]pmodbus.Register{
		VoltageNow: register(m.Voltage),
	}
	if m.Capacity != nil {
		regs[Capacity] = register(*m.Capacity)
	}
	if m.Temp != nil {
		regs[Temp] = register(*m.Temp)
	}
	return regs
}

func register(r cfg.RegisterConfig) pmodbus.Register {
	return pmodbus.Register{
		Address: r.Address,
		Words:   r.Words,
		Signed:  r.Signed,
		Scale:   r.Scale,
	}
}
