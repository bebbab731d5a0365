// internal/status/constants.go
package status

// Monitor Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per device.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the monitor health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last channel error code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the monitor has not been OK.
const SlotSecondsInError = 2

// SlotProtocolVersion holds the resolved telemetry protocol (0 unresolved, 2 V2, 1 V1).
const SlotProtocolVersion = 3

// SlotIntervalMs holds the active tick interval, saturating at 65535.
const SlotIntervalMs = 4

// SlotTickCountHi and SlotTickCountLo hold the 32-bit tick counter.
const SlotTickCountHi = 5
const SlotTickCountLo = 6

// ---- RESERVED RANGE ----

// Slots 7–10 are reserved for future use.
const SlotReservedStart = 7
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents a started monitor that has not ticked yet.
const HealthUnknown uint16 = 0

// HealthOK represents a tick that delivered telemetry.
const HealthOK uint16 = 1

// HealthError represents a tick that failed to deliver telemetry.
const HealthError uint16 = 2

// HealthStale represents a monitor idled because the DSP was not ready.
const HealthStale uint16 = 3

// HealthDisabled represents a monitor switched off locally or by the DSP.
const HealthDisabled uint16 = 4

// HealthName returns a short label for a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	case HealthDisabled:
		return "disabled"
	default:
		return "invalid"
	}
}
