// internal/channel/channel.go
package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tamzrod/fsm-bridge/internal/afe"
)

// Transport moves packed params to and from the DSP.
// Replies to Request arrive later through Channel.Notify.
type Transport interface {
	IsReady(ep afe.Endpoint) bool
	PortIndex(ep afe.Endpoint) (int, error)
	Submit(ctx context.Context, ep afe.Endpoint, index int, buf []byte) error
	Request(ctx context.Context, ep afe.Endpoint, h afe.Header) error
}

// Packer serializes a header and payload into one transport buffer.
type Packer interface {
	Pack(h afe.Header, payload []byte) ([]byte, error)
}

// Config is the immutable runtime config of a channel.
type Config struct {
	Endpoints    afe.Endpoints
	ChunkLimit   int
	Retries      int
	RetrySleep   time.Duration
	ReplyTimeout time.Duration // 0 waits for ctx only
}

// replyMargin is the header area at the start of every reply.
const replyMargin = afe.HeaderSize

// Channel serializes parameter operations against the DSP.
type Channel struct {
	cfg    Config
	tr     Transport
	packer Packer
	sleep  func(ctx context.Context, d time.Duration) error

	// held across the whole retry loop of one operation
	mu sync.Mutex

	// guards slot only; Notify never takes mu
	slotMu sync.Mutex
	slot   *pending
}

type pending struct {
	module uint32
	param  uint32
	buf    []byte
	done   chan struct{}
	filled bool
}

// New creates a channel. The packer defaults to afe.Codec.
func New(cfg Config, tr Transport, packer Packer) (*Channel, error) {
	if tr == nil {
		return nil, errors.New("channel: transport required")
	}
	if cfg.ChunkLimit <= 0 {
		return nil, errors.New("channel: chunk limit must be > 0")
	}
	if cfg.Retries <= 0 {
		return nil, errors.New("channel: retries must be > 0")
	}
	if cfg.RetrySleep < 0 || cfg.ReplyTimeout < 0 {
		return nil, errors.New("channel: durations must be >= 0")
	}
	if packer == nil {
		packer = afe.Codec{ChunkLimit: cfg.ChunkLimit}
	}
	return &Channel{
		cfg:    cfg,
		tr:     tr,
		packer: packer,
		sleep:  sleepCtx,
	}, nil
}

// Endpoints returns the endpoint pair the channel routes to.
func (c *Channel) Endpoints() afe.Endpoints {
	return c.cfg.Endpoints
}

// Ready reports whether the playback route exists.
// It is the admission gate for every operation, whatever the target endpoint.
func (c *Channel) Ready() bool {
	return c.tr.IsReady(c.cfg.Endpoints.Playback)
}

// SetParam packs and submits one parameter.
func (c *Channel) SetParam(ctx context.Context, h afe.Header, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("channel: set %s: %w: empty payload", h, ErrInvalidArgument)
	}
	if int(h.ParamSize) >= c.cfg.ChunkLimit {
		return fmt.Errorf("channel: set %s: %w: size >= chunk limit %d", h, ErrInvalidArgument, c.cfg.ChunkLimit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ep := c.cfg.Endpoints.ForModule(h.ModuleID)

	index, err := c.tr.PortIndex(ep)
	if err != nil {
		return fmt.Errorf("channel: set %s: %w: %s: %v", h, ErrResolution, ep, err)
	}

	buf, err := c.packer.Pack(h, payload)
	if err != nil {
		return fmt.Errorf("channel: set %s: %w: %v", h, ErrPack, err)
	}

	err = c.whenReady(ctx, func() error {
		if err := c.tr.Submit(ctx, ep, index, buf); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("channel: set %s: %w", h, err)
	}
	return nil
}

// GetParam requests one parameter and copies len(out) reply bytes into out.
// out is left untouched on failure.
func (c *Channel) GetParam(ctx context.Context, h afe.Header, out []byte) error {
	if len(out) == 0 {
		return fmt.Errorf("channel: get %s: %w: empty output", h, ErrInvalidArgument)
	}
	if len(out) >= c.cfg.ChunkLimit {
		return fmt.Errorf("channel: get %s: %w: %d bytes", h, ErrAllocation, len(out))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.register(h, len(out))
	defer c.release(p)

	ep := c.cfg.Endpoints.ForModule(h.ModuleID)

	err := c.whenReady(ctx, func() error {
		if err := c.tr.Request(ctx, ep, h); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("channel: get %s: %w", h, err)
	}

	if err := c.await(ctx, p); err != nil {
		return fmt.Errorf("channel: get %s: %w", h, err)
	}

	copy(out, p.buf[replyMargin:])
	return nil
}

// whenReady runs action on the first attempt that finds the DSP ready.
// The action result is final. Never ready within the budget is a timeout.
func (c *Channel) whenReady(ctx context.Context, action func() error) error {
	for attempt := 0; attempt < c.cfg.Retries; attempt++ {
		if c.Ready() {
			return action()
		}
		if err := c.sleep(ctx, c.cfg.RetrySleep); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: not ready after %d attempts", ErrTimeout, c.cfg.Retries)
}

func (c *Channel) await(ctx context.Context, p *pending) error {
	var expired <-chan time.Time
	if c.cfg.ReplyTimeout > 0 {
		t := time.NewTimer(c.cfg.ReplyTimeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-p.done:
		return nil
	case <-expired:
		return fmt.Errorf("%w: no reply within %s", ErrTimeout, c.cfg.ReplyTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
