package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the compression applied to a stored value.
// Values are written to the file; changing them breaks existing files.
type Compression uint8

const (
	// None stores the encoded value as is. The file is exactly the value's encoding.
	None Compression = 0
	// Zstd compresses with zstd at the default level.
	Zstd Compression = 1
	// S2 compresses with S2, a faster Snappy extension.
	S2 Compression = 2
	// LZ4 compresses with LZ4 block compression.
	LZ4 Compression = 3
)

// String returns the name of the compression.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// errIncompressible is returned by compress when the data can't be made smaller; it is stored uncompressed instead.
var errIncompressible = errors.New("data is incompressible")

// zstdEncoder is safe for concurrent use of EncodeAll.
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("store: zstd encoder initialisation failed: " + err.Error())
	}
}

// zstdDecompress decodes at most limit bytes of compressed; anything more is left undecoded.
func zstdDecompress(compressed []byte, limit int) ([]byte, error) {
	zr, err := zstd.NewReader(bytes.NewReader(compressed), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	result := bytes.NewBuffer(make([]byte, 0, limit))
	if _, err := io.Copy(result, io.LimitReader(zr, int64(limit))); err != nil {
		return nil, err
	}
	return result.Bytes(), nil
}

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case None:
		return data, nil

	case Zstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	case S2:
		return s2.Encode(nil, data), nil

	case LZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		var compressor lz4.Compressor
		n, err := compressor.CompressBlock(data, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 {
			return nil, errIncompressible
		}
		return dst[:n], nil

	default:
		return nil, fmt.Errorf("unsupported compression %v", c)
	}
}

// decompress returns the decompressed data, which must be exactly size bytes.
func decompress(compressed []byte, c Compression, size int) ([]byte, error) {
	var (
		result []byte
		err    error
	)

	switch c {
	case None:
		result = compressed

	case Zstd:
		// One byte over is enough to tell the frame is bigger than the header says.
		result, err = zstdDecompress(compressed, size+1)

	case S2:
		var n int
		if n, err = s2.DecodedLen(compressed); err == nil {
			if n != size {
				return nil, fmt.Errorf("s2 decompress: header says %d bytes, expected %d", n, size)
			}
			result, err = s2.Decode(make([]byte, size), compressed)
		}

	case LZ4:
		result = make([]byte, size)
		var n int
		n, err = lz4.UncompressBlock(compressed, result)
		result = result[:max(n, 0)]

	default:
		return nil, fmt.Errorf("unsupported compression %v", c)
	}

	if err != nil {
		return nil, fmt.Errorf("%v decompress: %w", c, err)
	}
	if len(result) != size {
		return nil, fmt.Errorf("%v decompress: got %d bytes, expected %d", c, len(result), size)
	}
	return result, nil
}
