// internal/power/provider.go
package power

import (
	"context"
	"errors"
	"fmt"
)

// Property is one power-supply reading.
type Property int

const (
	VoltageNow Property = iota // µV
	Capacity                   // percent
	Temp                       // 0.1 °C
)

func (p Property) String() string {
	switch p {
	case VoltageNow:
		return "voltage_now"
	case Capacity:
		return "capacity"
	case Temp:
		return "temp"
	default:
		return fmt.Sprintf("property(%d)", int(p))
	}
}

var ErrUnsupported = errors.New("power: unsupported property")

// Provider reads battery properties.
type Provider interface {
	Read(ctx context.Context, p Property) (int, error)
}
