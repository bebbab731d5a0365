// internal/control/service.go
package control

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/tamzrod/fsm-bridge/internal/afe"
	"github.com/tamzrod/fsm-bridge/internal/channel"
	"github.com/tamzrod/fsm-bridge/internal/monitor"
)

// Version is reported by the control API.
const Version = "v1.1.1"

var ErrNotReady = errors.New("control: dsp not ready")

// Channel is the command channel surface used by one-shot commands.
type Channel interface {
	Ready() bool
	SetParam(ctx context.Context, h afe.Header, payload []byte) error
	GetParam(ctx context.Context, h afe.Header, out []byte) error
}

// Monitor is the adaptive monitor switch.
type Monitor interface {
	Set(enable bool)
	Enabled() bool
	State() monitor.State
}

// Service implements the one-shot commands and the monitor switch.
type Service struct {
	ch  Channel
	mon Monitor

	// guards angle across a whole rotation command
	mu    sync.Mutex
	angle int32
}

func NewService(ch Channel, mon Monitor) *Service {
	return &Service{ch: ch, mon: mon}
}

// ---- RX / TX enable ----

func (s *Service) SetRxEnable(ctx context.Context, on bool) error {
	return s.setSwitch(ctx, afe.ModuleRX, afe.ParamRXEnable, on)
}

// RxStatus reads the RX module enable state from the DSP.
func (s *Service) RxStatus(ctx context.Context) (bool, error) {
	return s.getSwitch(ctx, afe.ModuleRX, afe.ParamRXEnable)
}

func (s *Service) SetTxEnable(ctx context.Context, on bool) error {
	return s.setSwitch(ctx, afe.ModuleTX, afe.ParamTXEnable, on)
}

func (s *Service) TxStatus(ctx context.Context) (bool, error) {
	return s.getSwitch(ctx, afe.ModuleTX, afe.ParamTXEnable)
}

// SetModuleEnable bypasses or engages the whole protection module.
func (s *Service) SetModuleEnable(ctx context.Context, on bool) error {
	return s.setSwitch(ctx, afe.ModuleRX, afe.ParamModuleEnable, on)
}

func (s *Service) setSwitch(ctx context.Context, module, param uint32, on bool) error {
	if !s.ch.Ready() {
		return ErrNotReady
	}

	var v int32
	if on {
		v = 1
	}
	h := afe.NewHeader(module, param, afe.ScalarSize)
	if err := s.ch.SetParam(ctx, h, afe.Scalar(v)); err != nil {
		return err
	}

	log.Printf("control: module=0x%08x param=0x%08x set %v", module, param, on)
	return nil
}

func (s *Service) getSwitch(ctx context.Context, module, param uint32) (bool, error) {
	out := make([]byte, afe.ScalarSize)
	h := afe.NewHeader(module, param, afe.ScalarSize)
	if err := s.ch.GetParam(ctx, h, out); err != nil {
		return false, err
	}
	v, err := afe.ParseScalar(out)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ---- rotation ----

// SetRotation maps the speaker channels for a display angle (0 or 90).
// An unchanged angle returns nil without contacting the DSP, so it succeeds
// even while the DSP is down. Otherwise the RX module must be active.
func (s *Service) SetRotation(ctx context.Context, angle int32) error {
	rot, err := afe.NewRotation(angle)
	if err != nil {
		return fmt.Errorf("control: %w: %v", channel.ErrInvalidArgument, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.angle == angle {
		return nil
	}
	if err := s.requireRx(ctx); err != nil {
		return err
	}

	payload := rot.Marshal()
	h := afe.NewHeader(afe.ModuleRX, afe.ParamRotation, len(payload))
	if err := s.ch.SetParam(ctx, h, payload); err != nil {
		return err
	}

	log.Printf("control: rotation %d -> %d", s.angle, angle)
	s.angle = angle
	return nil
}

func (s *Service) Rotation() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle
}

// ---- fade ----

func (s *Service) SetFade(ctx context.Context, f afe.Fade) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("control: %w: %v", channel.ErrInvalidArgument, err)
	}
	if err := s.requireRx(ctx); err != nil {
		return err
	}

	payload := f.Marshal()
	h := afe.NewHeader(afe.ModuleRX, afe.ParamFade, len(payload))
	return s.ch.SetParam(ctx, h, payload)
}

func (s *Service) requireRx(ctx context.Context) error {
	on, err := s.RxStatus(ctx)
	if err != nil {
		return err
	}
	if !on {
		return fmt.Errorf("%w: rx module inactive", ErrNotReady)
	}
	return nil
}

// ---- monitor ----

func (s *Service) MonitorEnable(on bool) {
	s.mon.Set(on)
}

func (s *Service) MonitorState() monitor.State {
	return s.mon.State()
}
