package wire

import "math"

// alphabet is the 64-symbol character set used for packed numeric operands.
// Each symbol carries six bits. The order matches base64 but the packing
// does not: fragments are little-endian, least significant group first.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// symbolValues maps a byte to its 6-bit value, or 0xFF for bytes outside
// the alphabet.
var symbolValues = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = 0xFF
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = byte(i)
	}
	return t
}()

// appendUint32 appends a 32-bit integer as six symbols, least significant
// six bits first. Base64 packing wastes four bits but needs two fewer
// characters than hex.
func appendUint32(dst []byte, v uint32) []byte {
	for i := 0; i < 6; i++ {
		dst = append(dst, alphabet[v&0x3f])
		v >>= 6
	}
	return dst
}

// appendFloat32 appends a float as its IEEE-754 bits in uint32 packing.
func appendFloat32(dst []byte, f float32) []byte {
	return appendUint32(dst, math.Float32bits(f))
}

// appendUint64Truncated appends a 64-bit integer in the truncated encoding:
// five data bits per symbol, little-endian, bit 0x20 set on every symbol
// except the last. Small values take a single character; the encoding never
// exceeds 13 symbols.
func appendUint64Truncated(dst []byte, v uint64) []byte {
	for i := 0; i < 13; i++ {
		fiveBits := byte(v & 0x1f)
		v >>= 5
		if v != 0 {
			dst = append(dst, alphabet[fiveBits|0x20])
		} else {
			dst = append(dst, alphabet[fiveBits])
			break
		}
	}
	return dst
}

// uint32FromSymbols reassembles a 32-bit integer from six 6-bit values.
// The values must already be validated against the alphabet.
func uint32FromSymbols(sym []byte) uint32 {
	var v uint32
	for i := 0; i < 6; i++ {
		v |= uint32(symbolValues[sym[i]]) << (6 * i)
	}
	return v
}

// float32FromSymbols reassembles a float from six 6-bit values.
func float32FromSymbols(sym []byte) float32 {
	return math.Float32frombits(uint32FromSymbols(sym))
}
