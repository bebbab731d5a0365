// internal/power/sysfs.go
package power

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Sysfs reads a power_supply class device, e.g. /sys/class/power_supply/battery.
type Sysfs struct {
	dir string
}

func NewSysfs(root, supply string) (*Sysfs, error) {
	dir := filepath.Join(root, supply)

	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("power: supply %q: %w", supply, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("power: supply %q: not a directory", supply)
	}
	return &Sysfs{dir: dir}, nil
}

func (s *Sysfs) Read(ctx context.Context, p Property) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch p {
	case VoltageNow, Capacity, Temp:
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupported, p)
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, p.String()))
	if err != nil {
		return 0, fmt.Errorf("power: read %s: %w", p, err)
	}

	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("power: parse %s: %w", p, err)
	}
	return v, nil
}
