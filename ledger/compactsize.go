package ledger

import "encoding/binary"

// CompactSize is a Bitcoin-style variable-length integer encoding, reused
// here purely as a deterministic length prefix for byte strings and lists
// in the canonical transaction encoding.
type CompactSize uint64

// Encode returns the CompactSize wire encoding of cs.
func (cs CompactSize) Encode() []byte {
	return AppendCompactSize(nil, uint64(cs))
}

// AppendCompactSize appends n's CompactSize encoding to dst.
func AppendCompactSize(dst []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 0xfd)
		return appendU16le(dst, uint16(n))
	case n <= 0xffff_ffff:
		dst = append(dst, 0xfe)
		return appendU32le(dst, uint32(n))
	default:
		dst = append(dst, 0xff)
		return appendU64le(dst, n)
	}
}

// DecodeCompactSize decodes one CompactSize value from the front of buf,
// returning the value and the number of bytes consumed. Non-minimal
// encodings are rejected.
func DecodeCompactSize(buf []byte) (uint64, int, error) {
	off := 0
	v, n, err := readCompactSize(buf, &off)
	return v, n, err
}

func readCompactSize(b []byte, off *int) (uint64, int, error) {
	start := *off
	tag, err := readU8(b, off)
	if err != nil {
		return 0, 0, err
	}
	switch {
	case tag < 0xfd:
		return uint64(tag), *off - start, nil
	case tag == 0xfd:
		v, err := readU16le(b, off)
		if err != nil {
			return 0, 0, err
		}
		if v < 0xfd {
			return 0, 0, newParseError("non-minimal CompactSize (0xfd)")
		}
		return uint64(v), *off - start, nil
	case tag == 0xfe:
		v, err := readU32le(b, off)
		if err != nil {
			return 0, 0, err
		}
		if v <= 0xffff {
			return 0, 0, newParseError("non-minimal CompactSize (0xfe)")
		}
		return uint64(v), *off - start, nil
	default:
		v, err := readU64le(b, off)
		if err != nil {
			return 0, 0, err
		}
		if v <= 0xffff_ffff {
			return 0, 0, newParseError("non-minimal CompactSize (0xff)")
		}
		return v, *off - start, nil
	}
}

func appendU16le(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}

func appendU32le(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

func appendU64le(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}
