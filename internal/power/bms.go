// internal/power/bms.go
package power

import (
	"context"
	"fmt"

	pmodbus "github.com/tamzrod/fsm-bridge/internal/power/modbus"
)

// RegisterReader reads one decoded register value.
type RegisterReader interface {
	Read(ctx context.Context, r pmodbus.Register) (int, error)
}

// BMS serves properties from a battery management system register map.
type BMS struct {
	reader RegisterReader
	regs   map[Property]pmodbus.Register
}

func NewBMS(reader RegisterReader, regs map[Property]pmodbus.Register) *BMS {
	return &BMS{reader: reader, regs: regs}
}

func (b *BMS) Read(ctx context.Context, p Property) (int, error) {
	r, ok := b.regs[p]
	if !ok {
		return 0, fmt.Errorf("%w: %s not mapped", ErrUnsupported, p)
	}

	v, err := b.reader.Read(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("power: bms %s: %w", p, err)
	}
	return v, nil
}
