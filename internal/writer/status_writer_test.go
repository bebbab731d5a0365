// internal/writer/status_writer_test.go
package writer

import (
	"errors"
	"sync"
	"testing"

	"github.com/tamzrod/fsm-bridge/internal/status"
)

type regWrite struct {
	area   byte
	unitID uint8
	addr   uint16
	regs   []uint16
}

type fakeEndpointClient struct {
	mu     sync.Mutex
	writes []regWrite
	fail   error
}

func (f *fakeEndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	cp := append([]uint16(nil), regs...)
	f.writes = append(f.writes, regWrite{area: area, unitID: unitID, addr: addr, regs: cp})
	return nil
}

func (f *fakeEndpointClient) setFail(err error) {
	f.mu.Lock()
	f.fail = err
	f.mu.Unlock()
}

func (f *fakeEndpointClient) snapshot() []regWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]regWrite(nil), f.writes...)
}

func (f *fakeEndpointClient) last() regWrite {
	w := f.snapshot()
	return w[len(w)-1]
}

func newTestWriter(t *testing.T, cli *fakeEndpointClient) *deviceStatusWriter {
	t.Helper()
	sw, err := NewDeviceStatusWriter(StatusPlan{
		Endpoint:   "status-endpoint",
		UnitID:     7,
		BaseSlot:   2,
		DeviceName: "AMP-01",
	}, cli)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sw
}

func TestNewDeviceStatusWriterRequiresClient(t *testing.T) {
	if _, err := NewDeviceStatusWriter(StatusPlan{Endpoint: "x"}, nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestFirstWriteIsFullBlockWithDeviceName(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli)

	snap := status.Snapshot{
		Health:          status.HealthOK,
		ProtocolVersion: 2,
		IntervalMs:      500,
		TickCount:       0x00010002,
	}
	if err := sw.WriteStatus(snap); err != nil {
		t.Fatalf("full write failed: %v", err)
	}

	w := cli.last()
	if w.area != 3 || w.unitID != 7 {
		t.Fatalf("expected area 3 unit 7, got area %d unit %d", w.area, w.unitID)
	}
	if w.addr != 2*status.SlotsPerDevice {
		t.Fatalf("expected base addr %d, got %d", 2*status.SlotsPerDevice, w.addr)
	}
	if len(w.regs) != status.SlotsPerDevice {
		t.Fatalf("expected %d regs, got %d", status.SlotsPerDevice, len(w.regs))
	}
	if w.regs[status.SlotHealthCode] != status.HealthOK ||
		w.regs[status.SlotProtocolVersion] != 2 ||
		w.regs[status.SlotIntervalMs] != 500 ||
		w.regs[status.SlotTickCountHi] != 1 ||
		w.regs[status.SlotTickCountLo] != 2 {
		t.Fatalf("unexpected live slots: %v", w.regs[:7])
	}

	name := encodeDeviceNameRegs("AMP-01")
	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		if w.regs[status.SlotDeviceNameStart+i] != name[i] {
			t.Fatalf("device name slot %d mismatch: got=%d want=%d",
				status.SlotDeviceNameStart+i, w.regs[status.SlotDeviceNameStart+i], name[i])
		}
	}
}

func TestIncrementalWritesOnlyChangedSlots(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli)

	base := status.Snapshot{Health: status.HealthOK, ProtocolVersion: 2, IntervalMs: 500}
	if err := sw.WriteStatus(base); err != nil {
		t.Fatalf("full write failed: %v", err)
	}

	next := base
	next.Health = status.HealthError
	next.LastErrorCode = 0x13
	if err := sw.WriteStatus(next); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	writes := cli.snapshot()[1:]
	if len(writes) != 2 {
		t.Fatalf("expected 2 single-slot writes, got %d", len(writes))
	}
	baseAddr := uint16(2 * status.SlotsPerDevice)
	if writes[0].addr != baseAddr+status.SlotHealthCode || writes[0].regs[0] != status.HealthError {
		t.Fatalf("unexpected health write: %+v", writes[0])
	}
	if writes[1].addr != baseAddr+status.SlotLastErrorCode || writes[1].regs[0] != 0x13 {
		t.Fatalf("unexpected last error write: %+v", writes[1])
	}
}

func TestTickCountWrittenAsPair(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli)

	if err := sw.WriteStatus(status.Snapshot{}); err != nil {
		t.Fatalf("full write failed: %v", err)
	}
	if err := sw.WriteStatus(status.Snapshot{TickCount: 0x00030004}); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	w := cli.last()
	if w.addr != 2*status.SlotsPerDevice+status.SlotTickCountHi {
		t.Fatalf("expected tick pair at slot %d, got addr %d", status.SlotTickCountHi, w.addr)
	}
	if len(w.regs) != 2 || w.regs[0] != 3 || w.regs[1] != 4 {
		t.Fatalf("expected [3 4], got %v", w.regs)
	}
}

func TestFailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli)

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("full write failed: %v", err)
	}

	cli.setFail(errors.New("boom"))
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthStale}); err == nil {
		t.Fatalf("expected write error")
	}

	cli.setFail(nil)
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthStale}); err != nil {
		t.Fatalf("recovery write failed: %v", err)
	}
	if got := len(cli.last().regs); got != status.SlotsPerDevice {
		t.Fatalf("expected full block after failure, got %d regs", got)
	}
}

func TestEncodeDeviceNameRegs(t *testing.T) {
	regs := encodeDeviceNameRegs("AB\x01")
	if regs[0] != uint16('A')<<8|uint16('B') {
		t.Fatalf("unexpected first reg: %#x", regs[0])
	}
	if regs[1] != uint16('?')<<8 {
		t.Fatalf("control byte not sanitized: %#x", regs[1])
	}

	long := encodeDeviceNameRegs("0123456789abcdefXYZ")
	if long[7] != uint16('e')<<8|uint16('f') {
		t.Fatalf("expected truncation at 16 chars, got %#x", long[7])
	}
}
