// internal/afe/ids.go
package afe

// Module IDs understood by the amplifier-protection topology on the DSP.
const (
	ModuleTX uint32 = 0x10001110
	ModuleRX uint32 = 0x10001111
)

// Parameter IDs.
const (
	ParamTXEnable     uint32 = 0x11111601
	ParamRXEnable     uint32 = 0x11111611
	ParamModuleEnable uint32 = 0x10001FA1
	ParamRotation     uint32 = 0x10001FB1
	ParamBSGVbat      uint32 = 0x10001FB2
	ParamBSGV2Param   uint32 = 0x10001FB5
	ParamBSGV2Config  uint32 = 0x10001FB6
	ParamFade         uint32 = 0x10001FB7
)

// Default AFE port identifiers for the two endpoints.
const (
	DefaultPlaybackPort uint16 = 0xB030
	DefaultCapturePort  uint16 = 0xB037
)

// KnownModule reports whether id is one of the two protection modules.
func KnownModule(id uint32) bool {
	return id == ModuleRX || id == ModuleTX
}
