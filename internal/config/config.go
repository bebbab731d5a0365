// internal/config/config.go
package config

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

type BridgeConfig struct {
	Transport string          `yaml:"transport"` // "sim"
	Channel   ChannelConfig   `yaml:"channel"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Power     PowerConfig     `yaml:"power"`
	Control   ControlConfig   `yaml:"control"`
	Log       LogConfig       `yaml:"log"`
	Sim       SimConfig       `yaml:"sim"`

	// Monitor status block (optional, opt-in)
	Status *StatusConfig `yaml:"status"`
}

// ---- COMMAND CHANNEL ----

type ChannelConfig struct {
	ChunkLimit     int `yaml:"chunk_limit"`
	Retries        int `yaml:"retries"`
	RetrySleepMs   int `yaml:"retry_sleep_ms"`
	ReplyTimeoutMs int `yaml:"reply_timeout_ms"`
}

type EndpointsConfig struct {
	PlaybackPort uint16 `yaml:"playback_port"`
	CapturePort  uint16 `yaml:"capture_port"`
}

// ---- MONITOR ----

type MonitorConfig struct {
	Autostart        *bool `yaml:"autostart"`
	LegacyIntervalMs int   `yaml:"legacy_interval_ms"`
}

// ---- POWER SUPPLY ----

type PowerConfig struct {
	Source string      `yaml:"source"` // "sysfs" | "modbus"
	Sysfs  SysfsConfig `yaml:"sysfs"`
	Modbus *BMSConfig  `yaml:"modbus"`
}

type SysfsConfig struct {
	Root   string `yaml:"root"`
	Supply string `yaml:"supply"`
}

type BMSConfig struct {
	Endpoint  string          `yaml:"endpoint"`
	UnitID    uint8           `yaml:"unit_id"`
	TimeoutMs int             `yaml:"timeout_ms"`
	Voltage   RegisterConfig  `yaml:"voltage"`
	Capacity  *RegisterConfig `yaml:"capacity"`
	Temp      *RegisterConfig `yaml:"temp"`
}

type RegisterConfig struct {
	Address uint16 `yaml:"address"`
	Words   uint16 `yaml:"words"`
	Signed  bool   `yaml:"signed"`
	Scale   int    `yaml:"scale"`
}

// ---- CONTROL SURFACE ----

type ControlConfig struct {
	Listen string `yaml:"listen"`
}

// ---- STATUS MEMORY ----

type StatusConfig struct {
	Protocol   string `yaml:"protocol"` // "modbus" | "ingest"
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Slot       uint16 `yaml:"slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// ---- LOGGING ----

type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ---- SIMULATED DSP ----

type SimConfig struct {
	ReadyAfterMs int          `yaml:"ready_after_ms"`
	ReplyDelayMs int          `yaml:"reply_delay_ms"`
	RejectConfig bool         `yaml:"reject_config"`
	BSG          SimBSGConfig `yaml:"bsg"`
}

type SimBSGConfig struct {
	BSGMode      int32 `yaml:"bsg_mode"`
	BSGEnable    bool  `yaml:"bsg_enable"`
	BSGInterval  int32 `yaml:"bsg_interval_ms"`
	TCMode       int32 `yaml:"tc_mode"`
	TCModeEnable bool  `yaml:"tc_mode_enable"`
	TCInterval   int32 `yaml:"tc_interval_ms"`
}
