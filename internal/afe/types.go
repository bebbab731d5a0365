// internal/afe/types.go
package afe

import "fmt"

// Role is the logical direction of an endpoint.
type Role uint8

const (
	Playback Role = iota
	Capture
)

func (r Role) String() string {
	switch r {
	case Playback:
		return "playback"
	case Capture:
		return "capture"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Endpoint binds a role to its physical port.
type Endpoint struct {
	Role   Role
	PortID uint16
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s(0x%04x)", e.Role, e.PortID)
}

// Endpoints is the immutable pair used for the whole process lifetime.
type Endpoints struct {
	Playback Endpoint
	Capture  Endpoint
}

// DefaultEndpoints returns the stock codec DMA port pair.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Playback: Endpoint{Role: Playback, PortID: DefaultPlaybackPort},
		Capture:  Endpoint{Role: Capture, PortID: DefaultCapturePort},
	}
}

// ForModule routes a module id: RX goes to playback, everything else to capture.
func (e Endpoints) ForModule(moduleID uint32) Endpoint {
	if moduleID == ModuleRX {
		return e.Playback
	}
	return e.Capture
}

// Header addresses one parameter of one module instance.
type Header struct {
	ModuleID   uint32
	InstanceID uint16
	Reserved   uint16
	ParamID    uint32
	ParamSize  uint32
}

func (h Header) String() string {
	return fmt.Sprintf("module=0x%08x param=0x%08x size=%d", h.ModuleID, h.ParamID, h.ParamSize)
}

// NewHeader builds a header for instance 0.
func NewHeader(moduleID, paramID uint32, size int) Header {
	return Header{
		ModuleID:  moduleID,
		ParamID:   paramID,
		ParamSize: uint32(size),
	}
}
