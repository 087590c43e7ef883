package commandstation

import "testing"

func TestXorSum(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want byte
	}{
		{"empty", nil, 0x00},
		{"single", []byte{0x42}, 0x42},
		{"firmware-response", []byte{0xF3, 0x0A, 0x01, 0x33}, 0xCB},
		{"set-loco-drive", []byte{0xE4, 0x12, 0x00, 0x03, 0x9E}, 0x6B},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := xorSum(tc.in); got != tc.want {
				t.Errorf("xorSum(% X) = %#02x, want %#02x", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeBCDVersionTwoByte(t *testing.T) {
	// Firmware version is always read as two bytes, major then minor, each
	// byte's nibbles decimal digits: 0x01 -> "1", 0x33 -> "33".
	got := decodeBCDVersion([]byte{0x01, 0x33}, false)
	want := "1.33"
	if got != want {
		t.Errorf("decodeBCDVersion(01 33, false) = %q, want %q", got, want)
	}
}

func TestDecodeBCDVersionDropsZeroBytes(t *testing.T) {
	// Walking from the last byte to the first (littleEndian=true) and
	// dropping every zero byte along the way, not just leading ones.
	got := decodeBCDVersion([]byte{0x00, 0x00, 0x0A, 0x33}, true)
	want := "33.10"
	if got != want {
		t.Errorf("decodeBCDVersion(00 00 0A 33, true) = %q, want %q", got, want)
	}
}

func TestDecodeBCDVersionEmptyOnAllZero(t *testing.T) {
	got := decodeBCDVersion([]byte{0x00, 0x00, 0x00, 0x00}, true)
	if got != "" {
		t.Errorf("decodeBCDVersion(all zero) = %q, want empty string", got)
	}
}

func TestPutU16LEAndPutU32LE(t *testing.T) {
	buf := putU16LE(nil, 0x3344)
	if len(buf) != 2 || buf[0] != 0x44 || buf[1] != 0x33 {
		t.Errorf("putU16LE(0x3344) = % X, want 44 33", buf)
	}
	buf32 := putU32LE(nil, 0x44332211)
	want32 := []byte{0x11, 0x22, 0x33, 0x44}
	for i := range want32 {
		if buf32[i] != want32[i] {
			t.Errorf("putU32LE(0x44332211) = % X, want % X", buf32, want32)
			break
		}
	}
}
