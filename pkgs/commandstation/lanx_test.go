package commandstation

import (
	"bytes"
	"testing"
)

// S4: inner LAN_X bytes F3 0A 01 33 XOR, XOR = F3^0A^01^33 = CB.
func TestUnpackLanXFirmwareVersionResponse(t *testing.T) {
	raw := []byte{0xF3, 0x0A, 0x01, 0x33, 0xCB}
	msg, err := UnpackLanX(raw)
	if err != nil {
		t.Fatalf("UnpackLanX: %v", err)
	}
	resp, ok := msg.(LanXFirmwareVersionResponse)
	if !ok {
		t.Fatalf("got %T, want LanXFirmwareVersionResponse", msg)
	}
	if resp.Version != "1.33" {
		t.Errorf("Version = %q, want \"1.33\"", resp.Version)
	}
}

// S5: address=3, speed=30, forward=true -> E4 12 00 03 9E, XOR 6B.
func TestPackLanXSetLocoDrive(t *testing.T) {
	msg := LanXSetLocoDrive{Address: 3, Speed: 30, Forward: true}
	got := PackLanX(msg)
	want := []byte{0xE4, 0x12, 0x00, 0x03, 0x9E, 0x6B}
	if !bytes.Equal(got, want) {
		t.Errorf("PackLanX(%+v) = % X, want % X", msg, got, want)
	}
}

func TestUnpackLanXRejectsBadChecksum(t *testing.T) {
	raw := []byte{0xF3, 0x0A, 0x01, 0x33, 0x00} // wrong trailing byte
	if _, err := UnpackLanX(raw); err == nil {
		t.Fatal("expected checksum error, got nil")
	}
}

func TestLanXRoundTrip(t *testing.T) {
	cases := []LanXMessage{
		LanXGetVersion{},
		LanXGetStatus{},
		LanXSetTrackPowerOff{},
		LanXSetTrackPowerOn{},
		LanXCvRead{CV: 8},
		LanXCvWrite{CV: 8, Value: 42},
		LanXGetTurnoutInfo{Address: 12},
		LanXTurnoutInfo{Address: 12, Status: TurnoutSwitchedP1},
		LanXSetTurnout{Address: 12, Value: 1},
		LanXSetStop{},
		LanXGetLocoInfo{Address: 3},
		LanXSetLocoDrive{Address: 3, Speed: 30, Forward: true},
		LanXSetLocoFunction{Address: 3, Function: 0x44},
		LanXBcTrackPowerOff{},
		LanXBcTrackPowerOn{},
		LanXBcProgrammingMode{},
		LanXBcTrackShortCircuit{},
		LanXCvNack{},
		LanXCvNackSc{},
		LanXUnknownCommand{},
		LanXStatusChanged{CentralState: 0x25},
		LanXGetVersionResponse{XBusVersion: 0x30, CommandStationID: 0x12},
		LanXCvResult{CV: 8, Value: 42},
		LanXBcStopped{},
		LanXGetFirmwareVersion{},
		LanXFirmwareVersionResponse{Version: "1.33"},
		LanXDccReadRegister{Register: 5},
		LanXDccWriteRegister{Register: 5, Value: 9},
		LanXMmWriteByte{Register: 3, Value: 7},
		LanXGetExtAccessoryInfo{Address: 20},
		LanXExtAccessoryInfo{Address: 20, State: 1, Valid: 1},
		LanXSetExtAccessory{Address: 20, State: 1},
		LanXSetLocoFunctionGroup{Address: 3, Group: 0x21, Bits: 0x05},
		LanXSetLocoBinaryState{Address: 3, Lo: 1, Hi: 2},
		LanXCvPomRead{Address: 3, CV: 10},
		LanXCvPomWrite{Address: 3, CV: 10, Value: 5},
		LanXCvPomAccessoryRead{Address: 20, CV: 10},
		LanXCvPomAccessoryWrite{Address: 20, CV: 10, Value: 5},
	}

	for _, tc := range cases {
		packed := PackLanX(tc)
		got, err := UnpackLanX(packed)
		if err != nil {
			t.Fatalf("UnpackLanX(PackLanX(%#v)): %v", tc, err)
		}
		if got != tc {
			t.Errorf("round trip mismatch: got %#v, want %#v", got, tc)
		}
		n := len(packed)
		if packed[n-1] != xorSum(packed[:n-1]) {
			t.Errorf("checksum byte of %#v is not xorSum of the rest", tc)
		}
	}
}

func TestLanXLocoInfoRoundTrip(t *testing.T) {
	info := LanXLocoInfo{
		Address:        1234,
		Busy:           true,
		SpeedSteps:     SpeedSteps128,
		DirectionFwd:   true,
		Speed:          97,
		DoubleTraction: true,
		SmartSearch:    false,
		FunctionsKnown: 29,
	}
	info.Functions[0] = true
	info.Functions[4] = true
	info.Functions[12] = true
	info.Functions[20] = true
	info.Functions[27] = true

	packed := PackLanX(info)
	got, err := UnpackLanX(packed)
	if err != nil {
		t.Fatalf("UnpackLanX: %v", err)
	}
	decoded, ok := got.(LanXLocoInfo)
	if !ok {
		t.Fatalf("got %T, want LanXLocoInfo", got)
	}
	if decoded != info {
		t.Errorf("round trip mismatch:\ngot  %#v\nwant %#v", decoded, info)
	}
}

func TestLanXFunctionBitOrdering(t *testing.T) {
	// F0 at bit 4, F4 at bit 3, F3 at bit 2, F2 at bit 1, F1 at bit 0 of the
	// function byte following direction/speed.
	info := LanXLocoInfo{Address: 3, FunctionsKnown: 5}
	info.Functions[0] = true
	packed := PackLanX(info)
	// payload: EF hi lo db3 db4 f0f4 xor -> f0f4 is byte index 5
	if packed[5] != 0x10 {
		t.Errorf("F0 should set bit 4 of the function byte, got % X", packed[5])
	}

	info2 := LanXLocoInfo{Address: 3, FunctionsKnown: 5}
	info2.Functions[4] = true
	packed2 := PackLanX(info2)
	if packed2[5] != 0x08 {
		t.Errorf("F4 should set bit 3 of the function byte, got % X", packed2[5])
	}
}

func TestCVAddressingRoundTrip(t *testing.T) {
	for _, n := range []CVNum{1, 8, 256, 1024} {
		hi, lo := packCVNum(n)
		got := unpackCVNum(hi, lo)
		if got != n {
			t.Errorf("CV %d: pack/unpack round trip gave %d", n, got)
		}
	}
	// CV 8 (user-facing, 1-based) packs as wire value 7.
	hi, lo := packCVNum(8)
	if hi != 0 || lo != 7 {
		t.Errorf("packCVNum(8) = %02x %02x, want 00 07", hi, lo)
	}
}

func TestLocoAddrMasking(t *testing.T) {
	hi, lo := packLocoAddr(0x7FFF)
	if hi&0xC0 != 0 {
		t.Errorf("packLocoAddr high byte should be masked to 6 bits, got %02x", hi)
	}
	addr := unpackLocoAddr(hi, lo)
	if addr != LocoAddr(0x7FFF&0x3FFF) {
		t.Errorf("unpackLocoAddr round trip = %d, want %d", addr, 0x7FFF&0x3FFF)
	}
}
