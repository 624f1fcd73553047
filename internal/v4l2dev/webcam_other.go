//go:build !linux

package v4l2dev

import (
	"errors"
	"fmt"
)

// Open is only supported on Linux.
func Open(path string, _ Options) (*Device, error) {
	return nil, fmt.Errorf("open %s: %w", path, errors.ErrUnsupported)
}
