// internal/status/encode.go
package status

// Encode converts a Snapshot into the live slots of a status block.
// Layout is protocol-locked. Device name slots are left zero.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotProtocolVersion] = s.ProtocolVersion
	regs[SlotIntervalMs] = s.IntervalMs
	regs[SlotTickCountHi] = uint16(s.TickCount >> 16)
	regs[SlotTickCountLo] = uint16(s.TickCount)

	return regs
}
