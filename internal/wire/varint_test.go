package wire

import "testing"

func TestVarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 1<<14 - 1, 1 << 14, 1<<56 - 1, ^uint64(0)}
	for _, v := range cases {
		buf := AppendVarint(nil, v)
		if len(buf) != SizeVarint(v) {
			t.Fatalf("SizeVarint(%d) = %d, encoded length = %d", v, SizeVarint(v), len(buf))
		}
		got, n, err := ConsumeVarint(buf)
		if err != nil {
			t.Fatalf("ConsumeVarint(%d): %v", v, err)
		}
		if n != len(buf) {
			t.Fatalf("ConsumeVarint(%d) consumed %d of %d bytes", v, n, len(buf))
		}
		if got != v {
			t.Fatalf("round trip mismatch: want %d got %d", v, got)
		}
	}
}

func TestConsumeVarintTruncated(t *testing.T) {
	_, _, err := ConsumeVarint([]byte{0x80})
	if err != ErrTruncated {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

func TestConsumeVarintOverflow(t *testing.T) {
	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x02}
	_, _, err := ConsumeVarint(buf)
	if err != ErrVarintOverflow {
		t.Fatalf("want ErrVarintOverflow, got %v", err)
	}
}

func TestZigZag32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2, -2, 1 << 20, -(1 << 20)} {
		if got := ZigZagDecode32(ZigZagEncode32(v)); got != v {
			t.Fatalf("zigzag32 round trip: want %d got %d", v, got)
		}
	}
}

func TestZigZag64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		if got := ZigZagDecode64(ZigZagEncode64(v)); got != v {
			t.Fatalf("zigzag64 round trip: want %d got %d", v, got)
		}
	}
}
