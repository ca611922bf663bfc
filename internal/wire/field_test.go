package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var body []byte
	body = AppendVarintField(body, 1, 42)
	body = AppendStringField(body, 2, "relay")
	body = AppendBoolField(body, 3, true)
	body = AppendFloatField(body, 4, 22.5)
	body = AppendSint32Field(body, 5, -7)

	got := map[int]Field{}
	err := Decode(body, func(f Field) error {
		got[f.Num] = f
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, uint64(42), got[1].U64)
	require.Equal(t, "relay", string(got[2].Buf))
	require.Equal(t, uint64(1), got[3].U64)
	require.InDelta(t, float32(22.5), Float32FromBits(got[4].U32), 0.0001)
	require.Equal(t, int32(-7), ZigZagDecode32(uint32(got[5].U64)))
}

func TestDefaultValuedFieldsOmitted(t *testing.T) {
	var body []byte
	body = AppendVarintField(body, 1, 0)
	body = AppendStringField(body, 2, "")
	body = AppendBoolField(body, 3, false)
	body = AppendFloatField(body, 4, 0)

	require.Empty(t, body, "proto3 default-valued scalars must be omitted")
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	var body []byte
	body = AppendVarintField(body, 99, 7) // unknown field number
	body = AppendStringField(body, 2, "known")

	var sawKnown bool
	err := Decode(body, func(f Field) error {
		if f.Num == 2 {
			sawKnown = true
		}
		return nil
	})
	require.NoError(t, err)
	require.True(t, sawKnown)
}

func TestDecodeGroupIsSkippable(t *testing.T) {
	var body []byte
	body = AppendTag(body, 10, WireGroup3)
	body = AppendVarintField(body, 1, 5) // content inside the group
	body = AppendTag(body, 10, WireGroup4)
	body = AppendStringField(body, 2, "after-group")

	var after string
	err := Decode(body, func(f Field) error {
		if f.Num == 2 {
			after = string(f.Buf)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "after-group", after)
}

func TestFixed32AndFixed64(t *testing.T) {
	var body []byte
	body = AppendFixed32Field(body, 1, 0xdeadbeef)
	body = AppendDoubleField(body, 2, 3.5)

	var u32 uint32
	var f64 float64
	err := Decode(body, func(f Field) error {
		switch f.Num {
		case 1:
			u32 = f.U32
		case 2:
			f64 = Float64FromBits(f.U64)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), u32)
	require.Equal(t, 3.5, f64)
}
