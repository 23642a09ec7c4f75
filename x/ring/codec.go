package ring

import (
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/s2"
)

// Codec compresses and decompresses one chunk's worth of float32 samples.
// Grounded on the klauspost/compress usage in the kelindar-column
// reference retrieved for this spec, which compresses its column pages
// with the same library.
type Codec interface {
	Compress(rows []float32) []byte
	Decompress(dst []float32, src []byte) error
}

// s2Codec encodes the float32 slice as raw little-endian bytes and runs
// them through s2 (klauspost/compress's snappy-compatible, faster codec).
type s2Codec struct{}

func newCodec() Codec { return s2Codec{} }

func (s2Codec) Compress(rows []float32) []byte {
	raw := make([]byte, len(rows)*4)
	for i, v := range rows {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	return s2.Encode(nil, raw)
}

func (s2Codec) Decompress(dst []float32, src []byte) error {
	raw, err := s2.Decode(nil, src)
	if err != nil {
		return err
	}
	n := len(raw) / 4
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return nil
}
