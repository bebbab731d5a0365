// internal/afe/codec.go
package afe

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the packed size of a Header on the wire.
const HeaderSize = 16

// DefaultChunkLimit is the largest parameter payload accepted by one operation.
const DefaultChunkLimit = 256

var (
	ErrPayloadSize = errors.New("afe: payload size does not match header")
	ErrChunkLimit  = errors.New("afe: payload exceeds chunk limit")
)

// Codec packs (header, payload) pairs into single transport buffers.
type Codec struct {
	ChunkLimit int
}

// Pack serializes h followed by payload.
// Layout (little-endian):
// 0–3   module id
// 4–5   instance id
// 6–7   reserved
// 8–11  param id
// 12–15 param size
// 16+   payload
func (c Codec) Pack(h Header, payload []byte) ([]byte, error) {
	limit := c.ChunkLimit
	if limit <= 0 {
		limit = DefaultChunkLimit
	}
	if int(h.ParamSize) >= limit {
		return nil, fmt.Errorf("%w: %d >= %d", ErrChunkLimit, h.ParamSize, limit)
	}
	if len(payload) != int(h.ParamSize) {
		return nil, fmt.Errorf("%w: header=%d payload=%d", ErrPayloadSize, h.ParamSize, len(payload))
	}

	buf := make([]byte, HeaderSize+len(payload))
	PutHeader(buf, h)
	copy(buf[HeaderSize:], payload)
	return buf, nil
}

// PutHeader writes h into the first HeaderSize bytes of dst.
func PutHeader(dst []byte, h Header) {
	binary.LittleEndian.PutUint32(dst[0:4], h.ModuleID)
	binary.LittleEndian.PutUint16(dst[4:6], h.InstanceID)
	binary.LittleEndian.PutUint16(dst[6:8], h.Reserved)
	binary.LittleEndian.PutUint32(dst[8:12], h.ParamID)
	binary.LittleEndian.PutUint32(dst[12:16], h.ParamSize)
}

// ParseHeader reads a packed header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("afe: short header (%d bytes)", len(b))
	}
	return Header{
		ModuleID:   binary.LittleEndian.Uint32(b[0:4]),
		InstanceID: binary.LittleEndian.Uint16(b[4:6]),
		Reserved:   binary.LittleEndian.Uint16(b[6:8]),
		ParamID:    binary.LittleEndian.Uint32(b[8:12]),
		ParamSize:  binary.LittleEndian.Uint32(b[12:16]),
	}, nil
}
