// Package wire implements the textual encoding of drawstream instructions.
//
// The encoding is a dense ASCII format with no external schema. Every
// instruction starts with a one-character opcode, optionally followed by
// sub-opcode characters and packed numeric operands:
//
//   - 32-bit floats and integers are packed as six symbols from a 64-symbol
//     alphabet (A-Z, a-z, 0-9, '+', '/'), six bits per symbol, least
//     significant group first.
//   - Sprite identifiers are truncated 64-bit integers: five data bits per
//     symbol, little-endian, with bit 0x20 acting as a continuation flag.
//
// Space and newline characters between instructions are ignored; no other
// separators are accepted. Anything that does not match the grammar is a
// fatal positional error: the decoder stops
// immediately and reports the offending character and its offset. There is
// no recovery and no rollback; instructions decoded before the error stand.
//
// The decoder is push-style: feed it bytes and collect instructions as they
// complete. Decode and DecodeEach wrap it for whole-batch use.
package wire
