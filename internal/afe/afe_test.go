// internal/afe/afe_test.go
package afe

import (
	"bytes"
	"errors"
	"testing"
)

func TestCodecPack_Layout(t *testing.T) {
	c := Codec{ChunkLimit: DefaultChunkLimit}
	h := NewHeader(ModuleRX, ParamBSGVbat, ScalarSize)

	buf, err := c.Pack(h, Scalar(3800))
	if err != nil {
		t.Fatalf("Pack err=%v", err)
	}
	if len(buf) != HeaderSize+ScalarSize {
		t.Fatalf("expected %d bytes, got %d", HeaderSize+ScalarSize, len(buf))
	}

	got, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader err=%v", err)
	}
	if got != h {
		t.Fatalf("header mismatch: got=%v want=%v", got, h)
	}
	if !bytes.Equal(buf[HeaderSize:], []byte{0xD8, 0x0E, 0, 0}) {
		t.Fatalf("unexpected payload bytes % x", buf[HeaderSize:])
	}
}

func TestCodecPack_Rejects(t *testing.T) {
	c := Codec{ChunkLimit: 8}

	cases := []struct {
		name    string
		h       Header
		payload []byte
		want    error
	}{
		{"at limit", NewHeader(ModuleRX, ParamFade, 8), make([]byte, 8), ErrChunkLimit},
		{"short payload", NewHeader(ModuleRX, ParamFade, 4), make([]byte, 2), ErrPayloadSize},
		{"long payload", NewHeader(ModuleRX, ParamFade, 4), make([]byte, 6), ErrPayloadSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Pack(tc.h, tc.payload)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestEndpointsForModule(t *testing.T) {
	eps := DefaultEndpoints()

	if ep := eps.ForModule(ModuleRX); ep.Role != Playback {
		t.Fatalf("RX module should route to playback, got %s", ep)
	}
	if ep := eps.ForModule(ModuleTX); ep.Role != Capture {
		t.Fatalf("TX module should route to capture, got %s", ep)
	}
	if ep := eps.ForModule(0xDEAD); ep.Role != Capture {
		t.Fatalf("unknown module should route to capture, got %s", ep)
	}
}

func TestBSGConfigInterval(t *testing.T) {
	cases := []struct {
		name string
		cfg  BSGConfig
		want int32
	}{
		{"voltage only", BSGConfig{BSGEnable: 1, BSGInterval: 200, TCInterval: 500}, 200},
		{"thermal only", BSGConfig{TCModeEnable: 1, BSGInterval: 200, TCInterval: 500}, 500},
		{"thermal wins", BSGConfig{BSGEnable: 1, TCModeEnable: 1, BSGInterval: 200, TCInterval: 500}, 500},
		{"disabled", BSGConfig{BSGInterval: 200, TCInterval: 500}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Interval(); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestBSGConfigUnmarshal(t *testing.T) {
	in := BSGConfig{BSGMode: 1, BSGEnable: 1, BSGInterval: 200, TCMode: 3, TCModeEnable: 0, TCInterval: 1000}

	out, err := UnmarshalBSGConfig(in.Marshal())
	if err != nil {
		t.Fatalf("unmarshal err=%v", err)
	}
	if out != in {
		t.Fatalf("got=%+v want=%+v", out, in)
	}

	if _, err := UnmarshalBSGConfig(make([]byte, 10)); err == nil {
		t.Fatalf("expected short buffer error, got nil")
	}
}

func TestNewRotation(t *testing.T) {
	r0, err := NewRotation(0)
	if err != nil {
		t.Fatalf("rotation 0 err=%v", err)
	}
	if r0.ChSequence[0] != 0 || r0.ChSequence[1] != 1 {
		t.Fatalf("unexpected 0 degree sequence %v", r0.ChSequence)
	}

	r90, err := NewRotation(90)
	if err != nil {
		t.Fatalf("rotation 90 err=%v", err)
	}
	if r90.ChSequence[0] != 1 || r90.ChSequence[1] != 0 {
		t.Fatalf("unexpected 90 degree sequence %v", r90.ChSequence)
	}
	if b := r90.Marshal(); len(b) != RotationSize || b[0] != 90 || b[4] != 1 {
		t.Fatalf("unexpected rotation bytes % x", b)
	}

	if _, err := NewRotation(180); err == nil {
		t.Fatalf("expected error for 180, got nil")
	}
}

func TestFadeValidate(t *testing.T) {
	ok := Fade{Type: FadeOut, TimeMs: 50, StartDB: -6, Channel: ChannelMono}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []Fade{
		{Type: 0x13, Channel: ChannelLeft},
		{Type: FadeIn, Channel: 4},
		{Type: FadeIn, Channel: ChannelLeft, TimeMs: -1},
	}
	for _, f := range bad {
		if err := f.Validate(); err == nil {
			t.Fatalf("expected error for %+v, got nil", f)
		}
	}
}
