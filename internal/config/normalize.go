// internal/config/normalize.go
package config

// Protocol and source names.
const (
	TransportSim = "sim"

	PowerSysfs  = "sysfs"
	PowerModbus = "modbus"

	StatusModbus = "modbus"
	StatusIngest = "ingest"
)

// Defaults.
const (
	DefaultChunkLimit       = 256
	MaxChunkLimit           = 4096
	DefaultRetries          = 3
	DefaultRetrySleepMs     = 10
	DefaultReplyTimeoutMs   = 1000
	DefaultLegacyIntervalMs = 2000

	DefaultPlaybackPort uint16 = 0xB030
	DefaultCapturePort  uint16 = 0xB037

	DefaultPowerRoot   = "/sys/class/power_supply"
	DefaultPowerSupply = "battery"
	DefaultBMSTimeout  = 1000

	DefaultControlListen = "127.0.0.1:8095"

	DefaultStatusTimeoutMs = 2000
	DeviceNameMaxChars     = 16

	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	b := &cfg.Bridge

	if b.Transport == "" {
		b.Transport = TransportSim
	}

	// ---- channel ----
	setDefault(&b.Channel.ChunkLimit, DefaultChunkLimit)
	setDefault(&b.Channel.Retries, DefaultRetries)
	setDefault(&b.Channel.RetrySleepMs, DefaultRetrySleepMs)
	setDefault(&b.Channel.ReplyTimeoutMs, DefaultReplyTimeoutMs)

	if b.Endpoints.PlaybackPort == 0 {
		b.Endpoints.PlaybackPort = DefaultPlaybackPort
	}
	if b.Endpoints.CapturePort == 0 {
		b.Endpoints.CapturePort = DefaultCapturePort
	}

	// ---- monitor ----
	if b.Monitor.Autostart == nil {
		on := true
		b.Monitor.Autostart = &on
	}
	setDefault(&b.Monitor.LegacyIntervalMs, DefaultLegacyIntervalMs)

	// ---- power ----
	if b.Power.Source == "" {
		b.Power.Source = PowerSysfs
	}
	if b.Power.Sysfs.Root == "" {
		b.Power.Sysfs.Root = DefaultPowerRoot
	}
	if b.Power.Sysfs.Supply == "" {
		b.Power.Sysfs.Supply = DefaultPowerSupply
	}
	if m := b.Power.Modbus; m != nil {
		setDefault(&m.TimeoutMs, DefaultBMSTimeout)
		normalizeRegister(&m.Voltage)
		if m.Capacity != nil {
			normalizeRegister(m.Capacity)
		}
		if m.Temp != nil {
			normalizeRegister(m.Temp)
		}
	}

	// ---- control ----
	if b.Control.Listen == "" {
		b.Control.Listen = DefaultControlListen
	}

	// ---- status (opt-in) ----
	if s := b.Status; s != nil {
		if s.Protocol == "" {
			s.Protocol = StatusModbus
		}
		setDefault(&s.TimeoutMs, DefaultStatusTimeoutMs)

		// ASCII already validated; truncate only.
		if len(s.DeviceName) > DeviceNameMaxChars {
			s.DeviceName = s.DeviceName[:DeviceNameMaxChars]
		}
	}

	// ---- log rotation ----
	if b.Log.File != "" {
		setDefault(&b.Log.MaxSizeMB, DefaultLogMaxSizeMB)
		setDefault(&b.Log.MaxBackups, DefaultLogMaxBackups)
		setDefault(&b.Log.MaxAgeDays, DefaultLogMaxAgeDays)
	}
}

func normalizeRegister(r *RegisterConfig) {
	if r.Words == 0 {
		r.Words = 1
	}
	if r.Scale == 0 {
		r.Scale = 1
	}
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
