// internal/afe/records.go
package afe

import (
	"encoding/binary"
	"fmt"
)

// Record sizes in bytes.
const (
	BSGConfigSize = 24
	BSGParamSize  = 16
	RotationSize  = 12
	FadeSize      = 16
	ScalarSize    = 4
)

// BSG modes understood by the V2 protocol.
const (
	BSGModeVoltage  int32 = 1
	BSGModeCapacity int32 = 2
	TCModeTemp      int32 = 3
)

// BSGConfig is the V2 monitor configuration reported by the DSP.
type BSGConfig struct {
	BSGMode      int32
	BSGEnable    int32
	BSGInterval  int32 // ms
	TCMode       int32
	TCModeEnable int32
	TCInterval   int32 // ms
}

func (c BSGConfig) Enabled() bool {
	return c.BSGEnable != 0 || c.TCModeEnable != 0
}

// Interval returns the effective tick interval in ms.
// Thermal interval wins when both are enabled.
func (c BSGConfig) Interval() int32 {
	var ms int32
	if c.BSGEnable != 0 {
		ms = c.BSGInterval
	}
	if c.TCModeEnable != 0 {
		ms = c.TCInterval
	}
	return ms
}

func (c BSGConfig) Marshal() []byte {
	return putWords(c.BSGMode, c.BSGEnable, c.BSGInterval, c.TCMode, c.TCModeEnable, c.TCInterval)
}

func UnmarshalBSGConfig(b []byte) (BSGConfig, error) {
	w, err := words(b, 6)
	if err != nil {
		return BSGConfig{}, fmt.Errorf("afe: bsg config: %w", err)
	}
	return BSGConfig{
		BSGMode:      w[0],
		BSGEnable:    w[1],
		BSGInterval:  w[2],
		TCMode:       w[3],
		TCModeEnable: w[4],
		TCInterval:   w[5],
	}, nil
}

// BSGParam is the V2 telemetry record. Both slots are always present.
type BSGParam struct {
	BSGMode int32
	BSGVal  int32
	TCMode  int32
	TCVal   int32
}

func (p BSGParam) Marshal() []byte {
	return putWords(p.BSGMode, p.BSGVal, p.TCMode, p.TCVal)
}

func UnmarshalBSGParam(b []byte) (BSGParam, error) {
	w, err := words(b, 4)
	if err != nil {
		return BSGParam{}, fmt.Errorf("afe: bsg param: %w", err)
	}
	return BSGParam{BSGMode: w[0], BSGVal: w[1], TCMode: w[2], TCVal: w[3]}, nil
}

// Rotation is the speaker channel mapping for a display angle.
type Rotation struct {
	Angle      int32
	ChSequence [8]int8
}

// NewRotation maps 0 and 90 degrees onto channel sequences.
func NewRotation(angle int32) (Rotation, error) {
	r := Rotation{Angle: angle}
	switch angle {
	case 0:
		r.ChSequence[0], r.ChSequence[1] = 0, 1
	case 90:
		r.ChSequence[0], r.ChSequence[1] = 1, 0
	default:
		return Rotation{}, fmt.Errorf("afe: unsupported rotation angle %d", angle)
	}
	return r, nil
}

func (r Rotation) Marshal() []byte {
	out := make([]byte, RotationSize)
	binary.LittleEndian.PutUint32(out[0:4], uint32(r.Angle))
	for i, v := range r.ChSequence {
		out[4+i] = byte(v)
	}
	return out
}

// Fade types.
const (
	FadeMute int32 = 0x10
	FadeIn   int32 = 0x11
	FadeOut  int32 = 0x12
)

// Fade channels.
const (
	ChannelLeft  int32 = 1
	ChannelRight int32 = 2
	ChannelMono  int32 = 3
)

// Fade is a one-shot gain ramp request.
type Fade struct {
	Type    int32
	TimeMs  int32
	StartDB int32
	Channel int32
}

func (f Fade) Validate() error {
	switch f.Type {
	case FadeMute, FadeIn, FadeOut:
	default:
		return fmt.Errorf("afe: unknown fade type 0x%x", f.Type)
	}
	switch f.Channel {
	case ChannelLeft, ChannelRight, ChannelMono:
	default:
		return fmt.Errorf("afe: unknown fade channel %d", f.Channel)
	}
	if f.TimeMs < 0 {
		return fmt.Errorf("afe: negative fade time %d", f.TimeMs)
	}
	return nil
}

func (f Fade) Marshal() []byte {
	return putWords(f.Type, f.TimeMs, f.StartDB, f.Channel)
}

// Scalar encodes a single int32 parameter value.
func Scalar(v int32) []byte {
	return putWords(v)
}

// ParseScalar decodes a single int32 parameter value.
func ParseScalar(b []byte) (int32, error) {
	w, err := words(b, 1)
	if err != nil {
		return 0, fmt.Errorf("afe: scalar: %w", err)
	}
	return w[0], nil
}

func putWords(vals ...int32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[4*i:], uint32(v))
	}
	return out
}

func words(b []byte, n int) ([]int32, error) {
	if len(b) < 4*n {
		return nil, fmt.Errorf("need %d bytes, got %d", 4*n, len(b))
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out, nil
}
