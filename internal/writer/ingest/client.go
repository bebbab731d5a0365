// internal/writer/ingest/client.go
package ingest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// Raw Ingest v1 framing.
//
//	0-1  magic "RI"
//	2    version
//	3    memory area
//	4-5  unit id
//	6-7  start address
//	8-9  register count
//	10+  registers, big-endian
const (
	HeaderSize = 10
	Version    = 0x01

	// AreaHoldingRegisters is the only area the status block lives in.
	AreaHoldingRegisters byte = 3

	// MaxRegisters bounds one packet to a full status block run.
	MaxRegisters = 125
)

var magic = [2]byte{'R', 'I'}

// Reply bytes.
const (
	replyOK       byte = 0x00
	replyRejected byte = 0x01
)

var (
	ErrRejected      = errors.New("writer ingest: rejected by endpoint")
	ErrUnknownReply  = errors.New("writer ingest: unknown reply")
	ErrArea          = errors.New("writer ingest: area not writable")
	ErrRegisterCount = errors.New("writer ingest: register count out of range")
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// EndpointClient pushes status block registers to a Raw Ingest endpoint.
// One packet per connection; the endpoint answers with a single status byte.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &EndpointClient{endpoint: cfg.Endpoint, timeout: cfg.Timeout}, nil
}

// Close is a no-op; connections never outlive a write.
func (c *EndpointClient) Close() error { return nil }

// WriteRegisters delivers one register run of the status block.
func (c *EndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	pkt, err := Encode(area, unitID, addr, regs)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("writer ingest: dial %s: %w", c.endpoint, err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	// net.Conn.Write returns an error on any short write.
	if _, err := conn.Write(pkt); err != nil {
		return fmt.Errorf("writer ingest: write addr=%d: %w", addr, err)
	}

	var reply [1]byte
	if _, err := io.ReadFull(conn, reply[:]); err != nil {
		return fmt.Errorf("writer ingest: reply addr=%d: %w", addr, err)
	}
	return decodeReply(reply[0])
}

// Encode builds one Raw Ingest v1 packet for a holding register run.
func Encode(area byte, unitID uint8, addr uint16, regs []uint16) ([]byte, error) {
	if area != AreaHoldingRegisters {
		return nil, fmt.Errorf("%w: %d", ErrArea, area)
	}
	if len(regs) == 0 || len(regs) > MaxRegisters {
		return nil, fmt.Errorf("%w: %d", ErrRegisterCount, len(regs))
	}

	pkt := make([]byte, HeaderSize+2*len(regs))
	pkt[0], pkt[1] = magic[0], magic[1]
	pkt[2] = Version
	pkt[3] = area
	binary.BigEndian.PutUint16(pkt[4:6], uint16(unitID))
	binary.BigEndian.PutUint16(pkt[6:8], addr)
	binary.BigEndian.PutUint16(pkt[8:10], uint16(len(regs)))

	body := pkt[HeaderSize:]
	for i, r := range regs {
		binary.BigEndian.PutUint16(body[2*i:], r)
	}
	return pkt, nil
}

func decodeReply(b byte) error {
	switch b {
	case replyOK:
		return nil
	case replyRejected:
		return ErrRejected
	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnknownReply, b)
	}
}
