package confloader

import (
	"errors"

	"github.com/knadh/koanf/maps"
)

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// mapProvider feeds a nested map to koanf.
type mapProvider map[string]any

// newMapProvider expands flat dotted keys ("cache.size_soft_limit") into
// the nested form koanf unmarshals from.
func newMapProvider(flat map[string]any) mapProvider {
	return mapProvider(maps.Unflatten(flat, "."))
}

// ReadBytes returns an error as map provider doesn't support byte serialization.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration map.
func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}
