// internal/config/validate_test.go
package config

import "testing"

// helper to build a minimal valid config quickly
func base() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Transport: TransportSim,
		},
	}
}

func bms(endpoint string) *BMSConfig {
	return &BMSConfig{
		Endpoint: endpoint,
		UnitID:   1,
		Voltage:  RegisterConfig{Address: 0x100, Words: 1, Scale: 1000},
	}
}

// ---- tests ----

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownTransport(t *testing.T) {
	cfg := base()
	cfg.Bridge.Transport = "apr"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected transport error, got nil")
	}
}

func TestValidate_ChunkLimitRange(t *testing.T) {
	for _, limit := range []int{1, 16, MaxChunkLimit + 1} {
		cfg := base()
		cfg.Bridge.Channel.ChunkLimit = limit

		if err := Validate(cfg); err == nil {
			t.Fatalf("expected error for chunk_limit=%d, got nil", limit)
		}
	}

	cfg := base()
	cfg.Bridge.Channel.ChunkLimit = 512
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NegativeChannelTimings(t *testing.T) {
	cfg := base()
	cfg.Bridge.Channel.RetrySleepMs = -1

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestValidate_PortCollision(t *testing.T) {
	cfg := base()
	cfg.Bridge.Endpoints = EndpointsConfig{PlaybackPort: 0xB030, CapturePort: 0xB030}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected port collision error, got nil")
	}
}

func TestValidate_ModbusPowerRequiresSection(t *testing.T) {
	cfg := base()
	cfg.Bridge.Power.Source = PowerModbus

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected missing power.modbus error, got nil")
	}

	cfg.Bridge.Power.Modbus = bms("")
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected missing endpoint error, got nil")
	}

	cfg.Bridge.Power.Modbus = bms("10.0.0.5:502")
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ModbusRegisterWords(t *testing.T) {
	cfg := base()
	cfg.Bridge.Power.Source = PowerModbus
	cfg.Bridge.Power.Modbus = bms("10.0.0.5:502")
	cfg.Bridge.Power.Modbus.Temp = &RegisterConfig{Address: 0x102, Words: 4}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected words error, got nil")
	}
}

func TestValidate_UnknownPowerSource(t *testing.T) {
	cfg := base()
	cfg.Bridge.Power.Source = "acpi"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestValidate_StatusRequiresEndpoint(t *testing.T) {
	cfg := base()
	cfg.Bridge.Status = &StatusConfig{Protocol: StatusModbus}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected endpoint error, got nil")
	}
}

func TestValidate_StatusDeviceNameASCII(t *testing.T) {
	cfg := base()
	cfg.Bridge.Status = &StatusConfig{
		Endpoint:   "10.0.0.9:502",
		DeviceName: "amp-é",
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected ASCII error, got nil")
	}
}

func TestValidate_StatusUnknownProtocol(t *testing.T) {
	cfg := base()
	cfg.Bridge.Status = &StatusConfig{Protocol: "mqtt", Endpoint: "x:1"}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected protocol error, got nil")
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := base()
	cfg.Bridge.Status = &StatusConfig{
		Endpoint:   "10.0.0.9:502",
		DeviceName: "a-very-long-device-name",
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bridge.Status.Protocol != "" || cfg.Bridge.Channel.Retries != 0 {
		t.Fatalf("Validate mutated config: %+v", cfg.Bridge)
	}
	if len(cfg.Bridge.Status.DeviceName) <= DeviceNameMaxChars {
		t.Fatalf("Validate truncated device name")
	}
}
