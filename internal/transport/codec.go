package transport

import "encoding/binary"

// EncodeInts packs a slice of ints into a byte payload, 8 bytes per
// element, matching the spec's "homogeneous array of a fixed element
// type" requirement for DONATION_BASE/CANDIDATES/ints-as-counts payloads.
func EncodeInts(values []int) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(int64(v)))
	}
	return buf
}

// DecodeInts unpacks a payload produced by EncodeInts.
func DecodeInts(payload []byte) []int {
	n := len(payload) / 8
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = int(int64(binary.LittleEndian.Uint64(payload[i*8:])))
	}
	return out
}

// EncodeInt64s packs a slice of int64 (e.g. RESULT_COUNTS, STAT_*).
func EncodeInt64s(values []int64) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
	}
	return buf
}

// DecodeInt64s unpacks a payload produced by EncodeInt64s.
func DecodeInt64s(payload []byte) []int64 {
	n := len(payload) / 8
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(binary.LittleEndian.Uint64(payload[i*8:]))
	}
	return out
}

// EncodeInt packs a single int (HELP_REQUEST/HELP_RESPONSE/DONATION_DEPTH
// and the other scalar-payload tags).
func EncodeInt(v int) []byte {
	return EncodeInts([]int{v})
}

// DecodeInt unpacks a payload produced by EncodeInt. Panics if the payload
// does not carry exactly one element, surfacing a malformed message as a
// protocol error at the call site rather than silently truncating.
func DecodeInt(payload []byte) int {
	vs := DecodeInts(payload)
	if len(vs) != 1 {
		panic("transport: DecodeInt expects exactly one element")
	}
	return vs[0]
}

// EncodeString packs a UTF-8 string verbatim (FILE_PATH's char[] payload).
func EncodeString(s string) []byte {
	return []byte(s)
}
