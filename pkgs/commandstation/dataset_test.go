package commandstation

import (
	"bytes"
	"testing"
)

// S1: request bytes 04 00 10 00; response payload 11 22 33 44 decodes to
// serial_number = 0x44332211.
func TestDataSetGetSerialNumber(t *testing.T) {
	req := PackDataSet(LanGetSerialNumberRequest{})
	want := []byte{0x04, 0x00, 0x10, 0x00}
	if !bytes.Equal(req, want) {
		t.Errorf("request = % X, want % X", req, want)
	}

	msgs, err := ParseDatagram([]byte{0x08, 0x00, 0x10, 0x00, 0x11, 0x22, 0x33, 0x44})
	if err != nil {
		t.Fatalf("ParseDatagram: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	resp, ok := msgs[0].(LanGetSerialNumberResponse)
	if !ok {
		t.Fatalf("got %T, want LanGetSerialNumberResponse", msgs[0])
	}
	if resp.SerialNumber != 0x44332211 {
		t.Errorf("SerialNumber = %#x, want 0x44332211", resp.SerialNumber)
	}
}

// S2: request 04 00 18 00; response payload 02 decodes to StartUnlocked.
func TestDataSetGetCode(t *testing.T) {
	req := PackDataSet(LanGetCodeRequest{})
	want := []byte{0x04, 0x00, 0x18, 0x00}
	if !bytes.Equal(req, want) {
		t.Errorf("request = % X, want % X", req, want)
	}

	msgs, err := ParseDatagram([]byte{0x05, 0x00, 0x18, 0x00, 0x02})
	if err != nil {
		t.Fatalf("ParseDatagram: %v", err)
	}
	resp, ok := msgs[0].(LanGetCodeResponse)
	if !ok {
		t.Fatalf("got %T, want LanGetCodeResponse", msgs[0])
	}
	if resp.FeatureSet != FeatureSetStartUnlocked {
		t.Errorf("FeatureSet = %v, want StartUnlocked", resp.FeatureSet)
	}
}

// S3: DataSet id 0x1A payload 00 02 00 00 33 01 0A F3: hw_type u32 LE =
// 0x00000200. The firmware field's BCD decoding is exercised directly in
// codec_test.go (TestDecodeBCDVersionDropsZeroBytes); here we only check
// the hw_type split and that the DataSet plumbs the firmware bytes through.
func TestDataSetGetHWInfo(t *testing.T) {
	payload := []byte{0x00, 0x02, 0x00, 0x00, 0x33, 0x01, 0x0A, 0xF3}
	msgs, err := ParseDatagram(append([]byte{0x0C, 0x00, 0x1A, 0x00}, payload...))
	if err != nil {
		t.Fatalf("ParseDatagram: %v", err)
	}
	resp, ok := msgs[0].(LanGetHWInfoResponse)
	if !ok {
		t.Fatalf("got %T, want LanGetHWInfoResponse", msgs[0])
	}
	if resp.HWType != 0x00000200 {
		t.Errorf("HWType = %#x, want 0x00000200", resp.HWType)
	}
	want := decodeBCDVersion(payload[4:8], true)
	if resp.FWVersion != want {
		t.Errorf("FWVersion = %q, want %q", resp.FWVersion, want)
	}
}

// S6: 04 00 10 00 ++ 04 00 18 00 parses into two DataSets.
func TestParseDatagramCoalesced(t *testing.T) {
	raw := append(
		[]byte{0x04, 0x00, 0x10, 0x00},
		[]byte{0x04, 0x00, 0x18, 0x00}...,
	)
	msgs, err := ParseDatagram(raw)
	if err != nil {
		t.Fatalf("ParseDatagram: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if _, ok := msgs[0].(LanGetSerialNumberRequest); !ok {
		t.Errorf("msgs[0] = %T, want LanGetSerialNumberRequest", msgs[0])
	}
	if _, ok := msgs[1].(LanGetCodeRequest); !ok {
		t.Errorf("msgs[1] = %T, want LanGetCodeRequest", msgs[1])
	}
}

func TestParseDatagramFraming(t *testing.T) {
	ordered := []DataSetMessage{
		LanGetSerialNumberRequest{},
		LanSetBroadcastFlags{Flags: 0x00000101},
		LanGetLocoModeRequest{Address: 42},
	}
	var raw []byte
	for _, m := range ordered {
		raw = append(raw, PackDataSet(m)...)
	}
	got, err := ParseDatagram(raw)
	if err != nil {
		t.Fatalf("ParseDatagram: %v", err)
	}
	if len(got) != len(ordered) {
		t.Fatalf("got %d messages, want %d", len(got), len(ordered))
	}
	for i := range ordered {
		if got[i] != ordered[i] {
			t.Errorf("message %d = %#v, want %#v", i, got[i], ordered[i])
		}
	}
}

func TestParseDatagramRejectsUndersizedDataSet(t *testing.T) {
	_, err := ParseDatagram([]byte{0x02, 0x00, 0x10, 0x00})
	if err == nil {
		t.Fatal("expected decode error for size < 4")
	}
}

func TestParseDatagramRejectsTruncatedPayload(t *testing.T) {
	_, err := ParseDatagram([]byte{0x08, 0x00, 0x10, 0x00, 0x01, 0x02})
	if err == nil {
		t.Fatal("expected decode error for truncated payload")
	}
}

func TestDataSetRoundTrip(t *testing.T) {
	cases := []DataSetMessage{
		LanGetSerialNumberRequest{},
		LanGetSerialNumberResponse{SerialNumber: 0x44332211},
		LanGetCodeRequest{},
		LanGetCodeResponse{FeatureSet: FeatureSetStartLocked},
		LanGetHWInfoRequest{},
		LanLogoff{},
		LanSetBroadcastFlags{Flags: 0x00010001},
		LanGetBroadcastFlagsRequest{},
		LanGetBroadcastFlagsResponse{Flags: 0x00010001},
		LanGetLocoModeRequest{Address: 500},
		LanGetLocoModeResponse{Address: 500, Mode: LocoModeDCC},
		LanSetLocoMode{Address: 500, Mode: LocoModeMM},
		LanGetTurnoutModeRequest{Address: 12},
		LanGetTurnoutModeResponse{Address: 12, Mode: LocoModeDCC},
		LanSetTurnoutMode{Address: 12, Mode: LocoModeDCC},
		LanSystemstateGetData{},
		LanSystemstateDatachanged{
			MainCurrent: 500, ProgCurrent: 10, FilteredMainCurrent: 480,
			Temperature: 25, SupplyVoltage: 18000, VCCVoltage: 5000,
			CentralState: 0x00, CentralStateEx: 0x00, Capabilities: 0x01,
		},
		LanXEnvelope{Message: LanXGetVersion{}},
	}

	for _, tc := range cases {
		packed := PackDataSet(tc)
		parsed, err := ParseDatagram(packed)
		if err != nil {
			t.Fatalf("ParseDatagram(PackDataSet(%#v)): %v", tc, err)
		}
		if len(parsed) != 1 {
			t.Fatalf("got %d messages for %#v, want 1", len(parsed), tc)
		}
		if parsed[0] != tc {
			t.Errorf("round trip mismatch: got %#v, want %#v", parsed[0], tc)
		}
	}
}

func TestModeFlagDerivation(t *testing.T) {
	agg := newStatusAggregator()
	agg.Apply(LanSystemstateDatachanged{CentralState: 0x01 | 0x02 | 0x04 | 0x20})
	snap := agg.Snapshot()
	if !snap.EmergencyStop {
		t.Error("EmergencyStop should be set from bit 0")
	}
	if !snap.TrackVoltageOff {
		t.Error("TrackVoltageOff should be set from bit 1")
	}
	if !snap.ShortCircuit {
		t.Error("ShortCircuit should be set from bit 2")
	}
	if !snap.ProgrammingMode {
		t.Error("ProgrammingMode should be set from bit 5")
	}
}

func TestLocoModeBigEndianAddressing(t *testing.T) {
	req := PackDataSet(LanGetLocoModeRequest{Address: 0x0102})
	// header(4) + address big-endian: high byte first.
	if req[4] != 0x01 || req[5] != 0x02 {
		t.Errorf("LAN_GET_LOCOMODE address bytes = % X, want 01 02 (big-endian)", req[4:6])
	}
}
