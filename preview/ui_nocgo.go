//go:build tinygo || !cgo

package preview

import (
	"errors"
)

func ui(s *Scene, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
