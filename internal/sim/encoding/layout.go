// Package encoding packs a deal's ownership vector into a short URL-safe
// string so a partition can be shared and checked without the full message.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// maxTiles bounds decoded output so a hostile code cannot allocate freely.
const maxTiles = 1 << 12

// EncodeLayout encodes owners (one seat per tile id, 0 = shared) as
// base64url(varint pairs) of (seat, run_len).
func EncodeLayout(owners []uint16) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(owners) {
		seat := owners[i]
		run := 1
		for j := i + 1; j < len(owners) && owners[j] == seat; j++ {
			run++
		}

		n := binary.PutUvarint(tmp[:], uint64(seat))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes())
}

func DecodeLayout(code string) ([]uint16, error) {
	raw, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return nil, err
	}
	var out []uint16
	for i := 0; i < len(raw); {
		seat, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if seat > 0xFFFF {
			return nil, fmt.Errorf("seat too large: %d", seat)
		}
		if run == 0 {
			return nil, fmt.Errorf("empty run at %d", i)
		}
		if run > maxTiles-uint64(len(out)) {
			return nil, fmt.Errorf("layout longer than %d tiles", maxTiles)
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, uint16(seat))
		}
	}
	return out, nil
}
