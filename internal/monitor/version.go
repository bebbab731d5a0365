// internal/monitor/version.go
package monitor

import "fmt"

// Version is the resolved telemetry protocol.
type Version uint8

const (
	Unresolved Version = iota
	V2
	V1
)

func (v Version) String() string {
	switch v {
	case Unresolved:
		return "unresolved"
	case V2:
		return "v2"
	case V1:
		return "v1"
	default:
		return fmt.Sprintf("version(%d)", uint8(v))
	}
}

// Code is the wire number of the version (0 while unresolved).
func (v Version) Code() uint16 {
	switch v {
	case V2:
		return 2
	case V1:
		return 1
	default:
		return 0
	}
}

// protocol only moves forward: Unresolved -> V2 -> V1.
type protocol struct {
	v Version
}

func (p *protocol) current() Version { return p.v }

// attemptV2 promotes Unresolved to V2. It reports false once V1 is sticky.
func (p *protocol) attemptV2() bool {
	switch p.v {
	case Unresolved:
		p.v = V2
		return true
	case V2:
		return true
	default:
		return false
	}
}

// fallback is one-way.
func (p *protocol) fallback() {
	p.v = V1
}
