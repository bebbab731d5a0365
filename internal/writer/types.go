// internal/writer/types.go
package writer

import "github.com/tamzrod/fsm-bridge/internal/status"

// StatusPlan locates the monitor status block in status memory.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// endpointClient is the register delivery contract shared by the
// modbus and ingest clients.
type endpointClient interface {
	WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error
}

// StatusWriter is the delivery-only contract for monitor status.
// It receives a snapshot and writes it verbatim.
// No logic, no state, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// Source yields the current monitor snapshot.
type Source interface {
	Snapshot() status.Snapshot
}
