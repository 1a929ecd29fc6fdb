// Package compression provides the blob codecs used for cached snapshots.
package compression

import (
	"fmt"

	"github.com/debemdeboas/homeadmin/internal/config"
)

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// ForName returns the codec registered under name.
func ForName(name string) (Compressor, error) {
	switch name {
	case config.CompressionZstd, "":
		return ZstdCompressor{}, nil
	case config.CompressionGzip:
		return GzipCompressor{}, nil
	case config.CompressionNone:
		return NoopCompressor{}, nil
	}
	return nil, fmt.Errorf("unknown compression %q", name)
}

type NoopCompressor struct{}

func (NoopCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (NoopCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}
