// internal/power/modbus/client.go
package modbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Register locates one value in the BMS holding register map.
type Register struct {
	Address uint16
	Words   uint16 // 1 or 2 (big-endian word order)
	Signed  bool
	Scale   int // multiplier applied after decode; 0 means 1
}

type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// Client is a single TCP connection to a battery management system.
// Requests are serialized.
type Client struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("power modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("power modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// Read performs one FC3 read and decodes it.
func (c *Client) Read(ctx context.Context, r Register) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r.Words != 1 && r.Words != 2 {
		return 0, fmt.Errorf("power modbus: register %d: words must be 1 or 2", r.Address)
	}

	c.mu.Lock()
	raw, err := c.client.ReadHoldingRegisters(r.Address, r.Words)
	c.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("power modbus: read %d: %w", r.Address, err)
	}

	return Decode(raw, r)
}

// Decode converts raw register bytes (big-endian) into a scaled value.
func Decode(raw []byte, r Register) (int, error) {
	if len(raw) != int(r.Words)*2 {
		return 0, fmt.Errorf("power modbus: register %d: expected %d bytes, got %d", r.Address, r.Words*2, len(raw))
	}

	var v int
	switch r.Words {
	case 1:
		u := uint16(raw[0])<<8 | uint16(raw[1])
		if r.Signed {
			v = int(int16(u))
		} else {
			v = int(u)
		}
	case 2:
		u := uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
		if r.Signed {
			v = int(int32(u))
		} else {
			v = int(u)
		}
	default:
		return 0, fmt.Errorf("power modbus: register %d: words must be 1 or 2", r.Address)
	}

	if r.Scale != 0 {
		v *= r.Scale
	}
	return v, nil
}
