// internal/dsp/sim/sim.go
package sim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tamzrod/fsm-bridge/internal/afe"
	"github.com/tamzrod/fsm-bridge/internal/channel"
)

var ErrNotSupported = errors.New("sim: param not supported")

// Config describes the simulated DSP.
type Config struct {
	Endpoints    afe.Endpoints
	ReadyAfter   time.Duration // route appears this long after New
	ReplyDelay   time.Duration
	RejectConfig bool // fail BSG V2 config reads (forces V1)
	BSG          afe.BSGConfig
}

type key struct {
	module uint32
	param  uint32
}

// DSP is an in-process stand-in for the audio DSP.
// It implements channel.Transport and replies to gets asynchronously.
type DSP struct {
	cfg   Config
	start time.Time
	now   func() time.Time

	mu     sync.Mutex
	routed bool
	params map[key][]byte
	notify func([]byte) error

	wg sync.WaitGroup
}

func New(cfg Config) *DSP {
	d := &DSP{
		cfg:    cfg,
		now:    time.Now,
		routed: true,
		params: make(map[key][]byte),
	}
	d.start = d.now()

	d.params[key{afe.ModuleRX, afe.ParamRXEnable}] = afe.Scalar(1)
	d.params[key{afe.ModuleTX, afe.ParamTXEnable}] = afe.Scalar(0)
	return d
}

// Attach sets the reply sink, normally (*channel.Channel).Notify.
func (d *DSP) Attach(notify func([]byte) error) {
	d.mu.Lock()
	d.notify = notify
	d.mu.Unlock()
}

// SetRouted toggles the playback route.
func (d *DSP) SetRouted(on bool) {
	d.mu.Lock()
	d.routed = on
	d.mu.Unlock()
}

func (d *DSP) IsReady(ep afe.Endpoint) bool {
	d.mu.Lock()
	routed := d.routed
	d.mu.Unlock()

	return routed && d.now().Sub(d.start) >= d.cfg.ReadyAfter
}

func (d *DSP) PortIndex(ep afe.Endpoint) (int, error) {
	switch ep.PortID {
	case d.cfg.Endpoints.Playback.PortID:
		return 0, nil
	case d.cfg.Endpoints.Capture.PortID:
		return 1, nil
	default:
		return -1, fmt.Errorf("sim: unknown port 0x%04x", ep.PortID)
	}
}

func (d *DSP) Submit(ctx context.Context, ep afe.Endpoint, index int, buf []byte) error {
	if want, err := d.PortIndex(ep); err != nil || want != index {
		return fmt.Errorf("sim: port index mismatch for %s: %d", ep, index)
	}

	h, err := afe.ParseHeader(buf)
	if err != nil {
		return err
	}
	payload := buf[afe.HeaderSize:]
	if len(payload) != int(h.ParamSize) {
		return fmt.Errorf("sim: %s: payload %d bytes", h, len(payload))
	}

	d.mu.Lock()
	d.params[key{h.ModuleID, h.ParamID}] = append([]byte(nil), payload...)
	d.mu.Unlock()

	log.Printf("sim: set %s on %s", h, ep)
	return nil
}

func (d *DSP) Request(ctx context.Context, ep afe.Endpoint, h afe.Header) error {
	data, err := d.lookup(h)
	if err != nil {
		return err
	}

	d.mu.Lock()
	notify := d.notify
	d.mu.Unlock()
	if notify == nil {
		return errors.New("sim: no notification sink attached")
	}

	reply := channel.EncodeReply(0, h, data)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if d.cfg.ReplyDelay > 0 {
			time.Sleep(d.cfg.ReplyDelay)
		}
		if err := notify(reply); err != nil {
			log.Printf("sim: reply %s dropped: %v", h, err)
		}
	}()
	return nil
}

func (d *DSP) lookup(h afe.Header) ([]byte, error) {
	if h.ModuleID == afe.ModuleRX && h.ParamID == afe.ParamBSGV2Config {
		if d.cfg.RejectConfig {
			return nil, fmt.Errorf("%w: %s", ErrNotSupported, h)
		}
		return d.cfg.BSG.Marshal(), nil
	}

	d.mu.Lock()
	stored, ok := d.params[key{h.ModuleID, h.ParamID}]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotSupported, h)
	}

	out := make([]byte, h.ParamSize)
	copy(out, stored)
	return out, nil
}

// Param returns the last value set for a parameter.
func (d *DSP) Param(moduleID, paramID uint32) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.params[key{moduleID, paramID}]
	return append([]byte(nil), v...), ok
}

// Close waits for pending replies.
func (d *DSP) Close() error {
	d.wg.Wait()
	return nil
}
