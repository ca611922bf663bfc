package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// WireType identifies how a field's value is laid out on the wire.
type WireType uint8

const (
	WireVarint  WireType = 0
	WireFixed64 WireType = 1
	WireBytes   WireType = 2
	WireGroup3  WireType = 3 // start group, unused by ESPHome but must be skippable
	WireGroup4  WireType = 4 // end group
	WireFixed32 WireType = 5
)

// ErrUnsupportedWireType is returned when skipping or decoding an
// unrecognized wire type (anything outside 0,1,2,3,4,5).
var ErrUnsupportedWireType = errors.New("wire: unsupported wire type")

// Tag packs a field number and wire type into the single wire tag value.
func Tag(fieldNum int, wt WireType) uint64 {
	return uint64(fieldNum)<<3 | uint64(wt)
}

// SplitTag unpacks a decoded tag value into its field number and wire type.
func SplitTag(tag uint64) (fieldNum int, wt WireType) {
	return int(tag >> 3), WireType(tag & 0x7)
}

// Field is one decoded (field number, raw value) pair. The value sits in
// the member matching its wire type: U64 for varint/fixed64, U32 for
// fixed32, Buf for length-delimited.
type Field struct {
	Num int
	Wt  WireType
	U64 uint64
	U32 uint32
	Buf []byte
}

// Decode performs a single pass over a protobuf-shaped message body,
// invoking fn for every field encountered in wire order. Unknown field
// numbers are still delivered to fn (never fatal) so callers can choose
// to ignore them; fn itself is free to switch on Num and ignore what it
// doesn't know. Group wire types (3/4) are consumed and dropped — the
// ESPHome API never emits them, but a conforming decoder must not choke
// on them.
func Decode(body []byte, fn func(Field) error) error {
	for len(body) > 0 {
		tag, n, err := ConsumeVarint(body)
		if err != nil {
			return err
		}
		body = body[n:]
		num, wt := SplitTag(tag)

		switch wt {
		case WireVarint:
			v, n, err := ConsumeVarint(body)
			if err != nil {
				return err
			}
			body = body[n:]
			if err := fn(Field{Num: num, Wt: wt, U64: v}); err != nil {
				return err
			}
		case WireFixed64:
			if len(body) < 8 {
				return ErrTruncated
			}
			v := binary.LittleEndian.Uint64(body[:8])
			body = body[8:]
			if err := fn(Field{Num: num, Wt: wt, U64: v}); err != nil {
				return err
			}
		case WireFixed32:
			if len(body) < 4 {
				return ErrTruncated
			}
			v := binary.LittleEndian.Uint32(body[:4])
			body = body[4:]
			if err := fn(Field{Num: num, Wt: wt, U32: v}); err != nil {
				return err
			}
		case WireBytes:
			l, n, err := ConsumeVarint(body)
			if err != nil {
				return err
			}
			body = body[n:]
			if uint64(len(body)) < l {
				return ErrTruncated
			}
			buf := body[:l]
			body = body[l:]
			if err := fn(Field{Num: num, Wt: wt, Buf: buf}); err != nil {
				return err
			}
		case WireGroup3:
			// Skip to the matching end-group; ESPHome never nests groups.
			for {
				t2, n2, err := ConsumeVarint(body)
				if err != nil {
					return err
				}
				body = body[n2:]
				_, wt2 := SplitTag(t2)
				if wt2 == WireGroup4 {
					break
				}
				if len(body) == 0 {
					return ErrTruncated
				}
			}
		case WireGroup4:
			// A bare end-group with no matching start is malformed but
			// harmless to ignore; ESPHome never produces groups.
		default:
			return ErrUnsupportedWireType
		}
	}
	return nil
}

// AppendTag appends a field tag.
func AppendTag(dst []byte, fieldNum int, wt WireType) []byte {
	return AppendVarint(dst, Tag(fieldNum, wt))
}

// AppendVarintField appends a complete (tag, varint value) field. v==0 is
// the proto3 default and is omitted.
func AppendVarintField(dst []byte, fieldNum int, v uint64) []byte {
	if v == 0 {
		return dst
	}
	dst = AppendTag(dst, fieldNum, WireVarint)
	return AppendVarint(dst, v)
}

// AppendBoolField appends a bool as a 0/1 varint field.
func AppendBoolField(dst []byte, fieldNum int, v bool) []byte {
	if !v {
		return dst
	}
	return AppendVarintField(dst, fieldNum, 1)
}

// AppendInt32Field appends a proto3 int32 (two's-complement varint, sign
// extended to 64 bits the way protoc does for negative values).
func AppendInt32Field(dst []byte, fieldNum int, v int32) []byte {
	if v == 0 {
		return dst
	}
	return AppendVarintField(dst, fieldNum, uint64(int64(v)))
}

// AppendUint32Field appends a proto3 uint32/enum field.
func AppendUint32Field(dst []byte, fieldNum int, v uint32) []byte {
	if v == 0 {
		return dst
	}
	return AppendVarintField(dst, fieldNum, uint64(v))
}

// AppendSint32Field appends a zig-zag encoded sint32 field.
func AppendSint32Field(dst []byte, fieldNum int, v int32) []byte {
	if v == 0 {
		return dst
	}
	return AppendVarintField(dst, fieldNum, uint64(ZigZagEncode32(v)))
}

// AppendFixed32Field appends a little-endian fixed32 field.
func AppendFixed32Field(dst []byte, fieldNum int, v uint32) []byte {
	if v == 0 {
		return dst
	}
	dst = AppendTag(dst, fieldNum, WireFixed32)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// AppendFloatField appends an IEEE-754 little-endian float field.
func AppendFloatField(dst []byte, fieldNum int, v float32) []byte {
	if v == 0 {
		return dst
	}
	return AppendFixed32Field(dst, fieldNum, math.Float32bits(v))
}

// AppendDoubleField appends an IEEE-754 little-endian double field.
func AppendDoubleField(dst []byte, fieldNum int, v float64) []byte {
	if v == 0 {
		return dst
	}
	dst = AppendTag(dst, fieldNum, WireFixed64)
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	return append(dst, b[:]...)
}

// AppendStringField appends a length-delimited UTF-8 string field.
func AppendStringField(dst []byte, fieldNum int, v string) []byte {
	if v == "" {
		return dst
	}
	return AppendBytesField(dst, fieldNum, []byte(v))
}

// AppendBytesField appends a length-delimited bytes field.
func AppendBytesField(dst []byte, fieldNum int, v []byte) []byte {
	if len(v) == 0 {
		return dst
	}
	dst = AppendTag(dst, fieldNum, WireBytes)
	dst = AppendVarint(dst, uint64(len(v)))
	return append(dst, v...)
}

// Float32FromBits converts a decoded fixed32 field back to a float32.
func Float32FromBits(bits uint32) float32 {
	return math.Float32frombits(bits)
}

// Float64FromBits converts a decoded fixed64 field back to a float64.
func Float64FromBits(bits uint64) float64 {
	return math.Float64frombits(bits)
}
