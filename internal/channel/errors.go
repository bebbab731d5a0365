// internal/channel/errors.go
package channel

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrResolution      = errors.New("endpoint resolution failed")
	ErrPack            = errors.New("param packing failed")
	ErrTimeout         = errors.New("transport timeout")
	ErrTransport       = errors.New("transport error")
	ErrAllocation      = errors.New("scratch buffer unavailable")

	// notification path
	ErrRemoteStatus    = errors.New("remote reported failure status")
	ErrUnknownModule   = errors.New("notification from unknown module")
	ErrNoPending       = errors.New("no outstanding get")
	ErrUnexpectedReply = errors.New("reply does not match outstanding get")
)

// Error codes published in the status block.
const (
	CodeNone          uint16 = 0x0000
	CodeGeneric       uint16 = 0x0001
	CodeInvalid       uint16 = 0x0010
	CodeResolution    uint16 = 0x0011
	CodePack          uint16 = 0x0012
	CodeTimeout       uint16 = 0x0013
	CodeTransport     uint16 = 0x0014
	CodeAllocation    uint16 = 0x0015
	CodeRemoteStatus  uint16 = 0x0016
	CodeUnknownModule uint16 = 0x0017
	CodeNoPending     uint16 = 0x0018
	CodeUnexpected    uint16 = 0x0019
)

var codes = []struct {
	err  error
	code uint16
}{
	{ErrInvalidArgument, CodeInvalid},
	{ErrResolution, CodeResolution},
	{ErrPack, CodePack},
	{ErrTimeout, CodeTimeout},
	{ErrTransport, CodeTransport},
	{ErrAllocation, CodeAllocation},
	{ErrRemoteStatus, CodeRemoteStatus},
	{ErrUnknownModule, CodeUnknownModule},
	{ErrNoPending, CodeNoPending},
	{ErrUnexpectedReply, CodeUnexpected},
}

// Code extracts a uint16 code from err.
// Errors exposing Code() uint16 win; otherwise the channel sentinels are
// matched; anything else is CodeGeneric.
func Code(err error) uint16 {
	if err == nil {
		return CodeNone
	}

	type coder interface{ Code() uint16 }
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	for _, e := range codes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeGeneric
}
