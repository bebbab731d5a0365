// internal/channel/notify.go
package channel

import (
	"encoding/binary"
	"fmt"

	"github.com/tamzrod/fsm-bridge/internal/afe"
)

// register installs the single pending reply slot for h. Caller holds mu.
func (c *Channel) register(h afe.Header, n int) *pending {
	p := &pending{
		module: h.ModuleID,
		param:  h.ParamID,
		buf:    make([]byte, n+replyMargin),
		done:   make(chan struct{}),
	}

	c.slotMu.Lock()
	c.slot = p
	c.slotMu.Unlock()

	return p
}

// release tears the slot down. Caller holds mu.
func (c *Channel) release(p *pending) {
	c.slotMu.Lock()
	if c.slot == p {
		c.slot = nil
	}
	c.slotMu.Unlock()
}

// Notify delivers an asynchronous get reply.
// Layout: word 0 status (must be 0), then the echoed param header and data.
// The echoed module and param ids must match the outstanding get; a reply
// for any other request leaves the slot untouched. Everything after the
// status word lands in the pending slot. Safe to call from any goroutine.
func (c *Channel) Notify(payload []byte) error {
	if len(payload) < 4+afe.HeaderSize {
		return fmt.Errorf("channel: notify: %w: %d bytes", ErrInvalidArgument, len(payload))
	}

	status := binary.LittleEndian.Uint32(payload[0:4])
	if status != 0 {
		return fmt.Errorf("channel: notify: %w: 0x%x", ErrRemoteStatus, status)
	}

	echo, err := afe.ParseHeader(payload[4 : 4+afe.HeaderSize])
	if err != nil {
		return fmt.Errorf("channel: notify: %w: %v", ErrInvalidArgument, err)
	}
	if !afe.KnownModule(echo.ModuleID) {
		return fmt.Errorf("channel: notify: %w: 0x%08x", ErrUnknownModule, echo.ModuleID)
	}

	c.slotMu.Lock()
	defer c.slotMu.Unlock()

	p := c.slot
	if p == nil || p.filled {
		return fmt.Errorf("channel: notify: %w", ErrNoPending)
	}
	if echo.ModuleID != p.module || echo.ParamID != p.param {
		return fmt.Errorf("channel: notify: %w: got 0x%08x/0x%08x, waiting for 0x%08x/0x%08x",
			ErrUnexpectedReply, echo.ModuleID, echo.ParamID, p.module, p.param)
	}

	copy(p.buf, payload[4:])
	p.filled = true
	close(p.done)
	return nil
}

// EncodeReply builds a notification payload in the layout Notify expects.
func EncodeReply(status uint32, h afe.Header, data []byte) []byte {
	out := make([]byte, 4+afe.HeaderSize+len(data))
	binary.LittleEndian.PutUint32(out[0:4], status)
	afe.PutHeader(out[4:4+afe.HeaderSize], h)
	copy(out[4+afe.HeaderSize:], data)
	return out
}
