package commandstation

import "fmt"

// LanXMessage is implemented by every inner LAN_X command/response variant
// carried inside a DataSet id 0x40 payload.
type LanXMessage interface {
	// packLanXData returns x_header followed by the variant's data bytes,
	// without the trailing checksum byte.
	packLanXData() []byte
}

// PackLanX serialises msg into a full LAN_X envelope: x_header, data, then
// the XOR checksum of everything preceding it.
func PackLanX(msg LanXMessage) []byte {
	body := msg.packLanXData()
	out := make([]byte, len(body)+1)
	copy(out, body)
	out[len(body)] = xorSum(body)
	return out
}

// UnpackLanX verifies the trailing checksum and dispatches to a concrete
// decoded variant based on x_header and, where the header is ambiguous, the
// following sub-command/db0 byte. Unknown combinations decode to LanXUnknown
// rather than failing, per the protocol's "unknown command" tolerance.
func UnpackLanX(raw []byte) (LanXMessage, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: LAN_X envelope too short (%d bytes)", ErrDecode, len(raw))
	}
	body := raw[:len(raw)-1]
	checksum := raw[len(raw)-1]
	if xorSum(body) != checksum {
		return nil, fmt.Errorf("%w: %w: got %#02x, want %#02x", ErrDecode, ErrChecksum, checksum, xorSum(body))
	}

	xHeader := body[0]
	data := body[1:]

	switch xHeader {
	case 0x21:
		if len(data) < 1 {
			return nil, fmt.Errorf("%w: LAN_X 0x21 envelope truncated", ErrDecode)
		}
		switch data[0] {
		case 0x21:
			return LanXGetVersion{}, nil
		case 0x24:
			return LanXGetStatus{}, nil
		case 0x80:
			return LanXSetTrackPowerOff{}, nil
		case 0x81:
			return LanXSetTrackPowerOn{}, nil
		}
	case 0x22:
		if len(data) >= 2 && data[0] == 0x11 {
			return LanXDccReadRegister{Register: data[1]}, nil
		}
	case 0x23:
		if len(data) >= 3 && data[0] == 0x11 {
			return LanXCvRead{CV: unpackCVNum(data[1], data[2])}, nil
		}
		if len(data) >= 3 && data[0] == 0x12 {
			return LanXDccWriteRegister{Register: data[1], Value: data[2]}, nil
		}
	case 0x24:
		if len(data) >= 4 && data[0] == 0x12 {
			return LanXCvWrite{CV: unpackCVNum(data[1], data[2]), Value: data[3]}, nil
		}
		if len(data) >= 4 && data[0] == 0xFF && data[1] == 0x00 {
			return LanXMmWriteByte{Register: data[2], Value: data[3]}, nil
		}
	case 0x43:
		if len(data) >= 2 && len(data) < 3 {
			return LanXGetTurnoutInfo{Address: unpackTurnoutAddr(data[0], data[1])}, nil
		}
		if len(data) >= 3 {
			return LanXTurnoutInfo{
				Address: unpackTurnoutAddr(data[0], data[1]),
				Status:  decodeTurnoutStatus(data[2]),
			}, nil
		}
	case 0x44:
		if len(data) >= 3 && len(data) < 4 {
			return LanXGetExtAccessoryInfo{Address: unpackTurnoutAddr(data[0], data[1])}, nil
		}
		if len(data) >= 4 {
			return LanXExtAccessoryInfo{
				Address: unpackTurnoutAddr(data[0], data[1]),
				State:   data[2],
				Valid:   data[3],
			}, nil
		}
	case 0x53:
		if len(data) >= 3 {
			return LanXSetTurnout{Address: unpackTurnoutAddr(data[0], data[1]), Value: data[2]}, nil
		}
	case 0x54:
		if len(data) >= 4 {
			return LanXSetExtAccessory{Address: unpackTurnoutAddr(data[0], data[1]), State: data[2]}, nil
		}
	case 0x61:
		if len(data) < 1 {
			return nil, fmt.Errorf("%w: LAN_X 0x61 envelope missing sub-command byte", ErrDecode)
		}
		switch data[0] {
		case 0x00:
			return LanXBcTrackPowerOff{}, nil
		case 0x01:
			return LanXBcTrackPowerOn{}, nil
		case 0x02:
			return LanXBcProgrammingMode{}, nil
		case 0x08:
			return LanXBcTrackShortCircuit{}, nil
		case 0x12:
			return LanXCvNackSc{}, nil
		case 0x13:
			return LanXCvNack{}, nil
		case 0x82:
			return LanXUnknownCommand{}, nil
		}
	case 0x62:
		if len(data) >= 1 {
			return LanXStatusChanged{CentralState: data[0]}, nil
		}
	case 0x63:
		if len(data) >= 3 {
			return LanXGetVersionResponse{XBusVersion: data[1], CommandStationID: data[2]}, nil
		}
	case 0x64:
		if len(data) >= 4 && data[0] == 0x14 {
			return LanXCvResult{CV: unpackCVNum(data[1], data[2]), Value: data[3]}, nil
		}
	case 0x80:
		return LanXSetStop{}, nil
	case 0x81:
		if len(data) >= 1 && data[0] == 0x00 {
			return LanXBcStopped{}, nil
		}
	case 0xE3:
		if len(data) >= 3 && data[0] == 0xF0 {
			return LanXGetLocoInfo{Address: unpackLocoAddr(data[1], data[2])}, nil
		}
	case 0xE4:
		if len(data) >= 4 && data[0] == 0x12 {
			return LanXSetLocoDrive{
				Address: unpackLocoAddr(data[1], data[2]),
				Speed:   data[3] & 0x7F,
				Forward: data[3]&0x80 != 0,
			}, nil
		}
		if len(data) >= 4 && data[0] == 0xF8 {
			return LanXSetLocoFunction{Address: unpackLocoAddr(data[1], data[2]), Function: data[3]}, nil
		}
		if len(data) >= 4 && isFunctionGroupByte(data[0]) {
			return LanXSetLocoFunctionGroup{
				Address: unpackLocoAddr(data[1], data[2]),
				Group:   data[0],
				Bits:    data[3],
			}, nil
		}
	case 0xE5:
		if len(data) >= 5 && data[0] == 0x5F {
			return LanXSetLocoBinaryState{
				Address: unpackLocoAddr(data[1], data[2]),
				Lo:      data[3],
				Hi:      data[4],
			}, nil
		}
	case 0xE6:
		if len(data) >= 1 && data[0] == 0x30 {
			return unpackLanXCvPom(data[1:], false)
		}
		if len(data) >= 1 && data[0] == 0x31 {
			return unpackLanXCvPom(data[1:], true)
		}
	case 0xEF:
		if len(data) >= 5 {
			return unpackLanXLocoInfo(data), nil
		}
	case 0xF1:
		if len(data) >= 1 && data[0] == 0x0A {
			return LanXGetFirmwareVersion{}, nil
		}
	case 0xF3:
		if len(data) >= 3 && data[0] == 0x0A {
			return LanXFirmwareVersionResponse{Version: decodeBCDVersion(data[1:3], false)}, nil
		}
	}

	return LanXUnknown{XHeader: xHeader, Data: append([]byte(nil), data...)}, nil
}

//
// Address / CV helpers
//

func packLocoAddr(addr LocoAddr) (hi, lo byte) {
	return byte((addr >> 8) & 0x3F), byte(addr & 0xFF)
}

func unpackLocoAddr(hi, lo byte) LocoAddr {
	return LocoAddr(uint16(hi&0x3F)<<8 | uint16(lo))
}

func packTurnoutAddr(addr TurnoutAddr) (hi, lo byte) {
	return byte((addr >> 8) & 0x3F), byte(addr & 0xFF)
}

func unpackTurnoutAddr(hi, lo byte) TurnoutAddr {
	return TurnoutAddr(uint16(hi&0x3F)<<8 | uint16(lo))
}

func packCVNum(num CVNum) (hi, lo byte) {
	wire := uint16(num) - 1
	return byte(wire >> 8), byte(wire & 0xFF)
}

func unpackCVNum(hi, lo byte) CVNum {
	wire := uint16(hi)<<8 | uint16(lo)
	return CVNum(wire + 1)
}

func isFunctionGroupByte(b byte) bool {
	switch {
	case b >= 0x20 && b <= 0x23:
		return true
	case b >= 0x28 && b <= 0x2B:
		return true
	case b == 0x50 || b == 0x51:
		return true
	default:
		return false
	}
}

//
// Client -> Station requests
//

type LanXGetVersion struct{}

func (LanXGetVersion) packLanXData() []byte { return []byte{0x21, 0x21} }

type LanXGetStatus struct{}

func (LanXGetStatus) packLanXData() []byte { return []byte{0x21, 0x24} }

type LanXSetTrackPowerOff struct{}

func (LanXSetTrackPowerOff) packLanXData() []byte { return []byte{0x21, 0x80} }

type LanXSetTrackPowerOn struct{}

func (LanXSetTrackPowerOn) packLanXData() []byte { return []byte{0x21, 0x81} }

type LanXDccReadRegister struct{ Register byte }

func (m LanXDccReadRegister) packLanXData() []byte { return []byte{0x22, 0x11, m.Register} }

type LanXCvRead struct{ CV CVNum }

func (m LanXCvRead) packLanXData() []byte {
	hi, lo := packCVNum(m.CV)
	return []byte{0x23, 0x11, hi, lo}
}

type LanXDccWriteRegister struct{ Register, Value byte }

func (m LanXDccWriteRegister) packLanXData() []byte {
	return []byte{0x23, 0x12, m.Register, m.Value}
}

type LanXCvWrite struct {
	CV    CVNum
	Value byte
}

func (m LanXCvWrite) packLanXData() []byte {
	hi, lo := packCVNum(m.CV)
	return []byte{0x24, 0x12, hi, lo, m.Value}
}

type LanXMmWriteByte struct{ Register, Value byte }

func (m LanXMmWriteByte) packLanXData() []byte {
	return []byte{0x24, 0xFF, 0x00, m.Register, m.Value}
}

type LanXGetTurnoutInfo struct{ Address TurnoutAddr }

func (m LanXGetTurnoutInfo) packLanXData() []byte {
	hi, lo := packTurnoutAddr(m.Address)
	return []byte{0x43, hi, lo}
}

type LanXGetExtAccessoryInfo struct{ Address TurnoutAddr }

func (m LanXGetExtAccessoryInfo) packLanXData() []byte {
	hi, lo := packTurnoutAddr(m.Address)
	return []byte{0x44, hi, lo, 0x00}
}

type LanXSetTurnout struct {
	Address TurnoutAddr
	Value   byte
}

func (m LanXSetTurnout) packLanXData() []byte {
	hi, lo := packTurnoutAddr(m.Address)
	return []byte{0x53, hi, lo, m.Value}
}

type LanXSetExtAccessory struct {
	Address TurnoutAddr
	State   byte
}

func (m LanXSetExtAccessory) packLanXData() []byte {
	hi, lo := packTurnoutAddr(m.Address)
	return []byte{0x54, hi, lo, m.State, 0x00}
}

type LanXSetStop struct{}

func (LanXSetStop) packLanXData() []byte { return []byte{0x80} }

type LanXGetLocoInfo struct{ Address LocoAddr }

func (m LanXGetLocoInfo) packLanXData() []byte {
	hi, lo := packLocoAddr(m.Address)
	return []byte{0xE3, 0xF0, hi, lo}
}

type LanXSetLocoDrive struct {
	Address LocoAddr
	Speed   byte // 0..127
	Forward bool
}

func (m LanXSetLocoDrive) packLanXData() []byte {
	hi, lo := packLocoAddr(m.Address)
	speedByte := m.Speed & 0x7F
	if m.Forward {
		speedByte |= 0x80
	}
	return []byte{0xE4, 0x12, hi, lo, speedByte}
}

// LanXSetLocoFunction toggles a single function; Function packs the
// requested on/off/toggle semantics in its high bits per the station spec,
// the low 6 bits carry the function number.
type LanXSetLocoFunction struct {
	Address  LocoAddr
	Function byte
}

func (m LanXSetLocoFunction) packLanXData() []byte {
	hi, lo := packLocoAddr(m.Address)
	return []byte{0xE4, 0xF8, hi, lo, m.Function}
}

// LanXSetLocoFunctionGroup sets a block of function bits at once; Group is
// one of the station's function-group opcodes (0x20..0x23, 0x28..0x2B,
// 0x50, 0x51) and Bits is the corresponding bitmask.
type LanXSetLocoFunctionGroup struct {
	Address LocoAddr
	Group   byte
	Bits    byte
}

func (m LanXSetLocoFunctionGroup) packLanXData() []byte {
	hi, lo := packLocoAddr(m.Address)
	return []byte{0xE4, m.Group, hi, lo, m.Bits}
}

type LanXSetLocoBinaryState struct {
	Address LocoAddr
	Lo, Hi  byte
}

func (m LanXSetLocoBinaryState) packLanXData() []byte {
	hi, lo := packLocoAddr(m.Address)
	return []byte{0xE5, 0x5F, hi, lo, m.Lo, m.Hi}
}

// LanXCvPomWrite/Read/accessory variants carry an option byte (0xEC for a
// write, 0xE4 for a read, for loco and accessory alike) with
// the two high CV-address bits OR-ed into it; LongAddr ORs 0xC0 into the
// address high byte for the long-address convention some decoders expect.
type LanXCvPomWrite struct {
	Address  LocoAddr
	CV       CVNum
	Value    byte
	LongAddr bool
}

func (m LanXCvPomWrite) packLanXData() []byte {
	hi, lo := packLocoAddr(m.Address)
	if m.LongAddr && m.Address >= 128 {
		hi |= 0xC0
	}
	cvHi, cvLo := packCVNum(m.CV)
	option := byte(0xEC) | (cvHi & 0x03)
	return []byte{0xE6, 0x30, hi, lo, option, cvLo, m.Value}
}

type LanXCvPomRead struct {
	Address  LocoAddr
	CV       CVNum
	LongAddr bool
}

func (m LanXCvPomRead) packLanXData() []byte {
	hi, lo := packLocoAddr(m.Address)
	if m.LongAddr && m.Address >= 128 {
		hi |= 0xC0
	}
	cvHi, cvLo := packCVNum(m.CV)
	option := byte(0xE4) | (cvHi & 0x03)
	return []byte{0xE6, 0x30, hi, lo, option, cvLo, 0x00}
}

type LanXCvPomAccessoryWrite struct {
	Address TurnoutAddr
	CV      CVNum
	Value   byte
}

func (m LanXCvPomAccessoryWrite) packLanXData() []byte {
	hi, lo := packTurnoutAddr(m.Address)
	cvHi, cvLo := packCVNum(m.CV)
	option := byte(0xEC) | (cvHi & 0x03)
	return []byte{0xE6, 0x31, hi, lo, option, cvLo, m.Value}
}

type LanXCvPomAccessoryRead struct {
	Address TurnoutAddr
	CV      CVNum
}

func (m LanXCvPomAccessoryRead) packLanXData() []byte {
	hi, lo := packTurnoutAddr(m.Address)
	cvHi, cvLo := packCVNum(m.CV)
	option := byte(0xE4) | (cvHi & 0x03)
	return []byte{0xE6, 0x31, hi, lo, option, cvLo, 0x00}
}

// unpackLanXCvPom decodes the bytes following the 0x30/0x31 POM
// discriminator: hi, lo, option (0xEC|0xE4 with the two high CV-address
// bits OR-ed in), cvLo, and — for a write — the value byte.
func unpackLanXCvPom(data []byte, accessory bool) (LanXMessage, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: LAN_X CV_POM envelope truncated", ErrDecode)
	}
	cv := unpackCVNum(data[2]&0x03, data[3])
	value := byte(0)
	if len(data) >= 5 {
		value = data[4]
	}
	write := data[2]&0xEC == 0xEC
	if accessory {
		addr := unpackTurnoutAddr(data[0], data[1])
		if write {
			return LanXCvPomAccessoryWrite{Address: addr, CV: cv, Value: value}, nil
		}
		return LanXCvPomAccessoryRead{Address: addr, CV: cv}, nil
	}
	addr := unpackLocoAddr(data[0], data[1])
	if write {
		return LanXCvPomWrite{Address: addr, CV: cv, Value: value}, nil
	}
	return LanXCvPomRead{Address: addr, CV: cv}, nil
}

type LanXGetFirmwareVersion struct{}

func (LanXGetFirmwareVersion) packLanXData() []byte { return []byte{0xF1, 0x0A} }

//
// Station -> Client responses
//

type TurnoutStatus byte

const (
	TurnoutNotSwitched TurnoutStatus = iota
	TurnoutSwitchedP0
	TurnoutSwitchedP1
	TurnoutStatusUnknown
)

func decodeTurnoutStatus(db byte) TurnoutStatus {
	switch db & 0x03 {
	case 0:
		return TurnoutNotSwitched
	case 1:
		return TurnoutSwitchedP0
	case 2:
		return TurnoutSwitchedP1
	default:
		return TurnoutStatusUnknown
	}
}

type LanXTurnoutInfo struct {
	Address TurnoutAddr
	Status  TurnoutStatus
}

func (m LanXTurnoutInfo) packLanXData() []byte {
	hi, lo := packTurnoutAddr(m.Address)
	return []byte{0x43, hi, lo, byte(m.Status)}
}

type LanXExtAccessoryInfo struct {
	Address    TurnoutAddr
	State      byte
	Valid      byte
}

func (m LanXExtAccessoryInfo) packLanXData() []byte {
	hi, lo := packTurnoutAddr(m.Address)
	return []byte{0x44, hi, lo, m.State, m.Valid}
}

type LanXBcTrackPowerOff struct{}

func (LanXBcTrackPowerOff) packLanXData() []byte { return []byte{0x61, 0x00} }

type LanXBcTrackPowerOn struct{}

func (LanXBcTrackPowerOn) packLanXData() []byte { return []byte{0x61, 0x01} }

type LanXBcProgrammingMode struct{}

func (LanXBcProgrammingMode) packLanXData() []byte { return []byte{0x61, 0x02} }

type LanXBcTrackShortCircuit struct{}

func (LanXBcTrackShortCircuit) packLanXData() []byte { return []byte{0x61, 0x08} }

type LanXCvNackSc struct{}

func (LanXCvNackSc) packLanXData() []byte { return []byte{0x61, 0x12} }

type LanXCvNack struct{}

func (LanXCvNack) packLanXData() []byte { return []byte{0x61, 0x13} }

type LanXUnknownCommand struct{}

func (LanXUnknownCommand) packLanXData() []byte { return []byte{0x61, 0x82} }

// LanXStatusChanged carries the station's raw central-state byte; the state
// aggregator derives emergency_stop/track_voltage_off/short_circuit/
// programming_mode from it (see status.go).
type LanXStatusChanged struct{ CentralState byte }

func (m LanXStatusChanged) packLanXData() []byte { return []byte{0x62, m.CentralState} }

type LanXGetVersionResponse struct {
	XBusVersion      byte
	CommandStationID byte
}

func (m LanXGetVersionResponse) packLanXData() []byte {
	return []byte{0x63, 0x21, m.XBusVersion, m.CommandStationID}
}

type LanXCvResult struct {
	CV    CVNum
	Value byte
}

func (m LanXCvResult) packLanXData() []byte {
	hi, lo := packCVNum(m.CV)
	return []byte{0x64, 0x14, hi, lo, m.Value}
}

type LanXBcStopped struct{}

func (LanXBcStopped) packLanXData() []byte { return []byte{0x81, 0x00} }

type SpeedSteps byte

const (
	SpeedSteps14 SpeedSteps = iota
	SpeedSteps28
	SpeedSteps128
	SpeedStepsUnknown
)

func decodeSpeedSteps(db3 byte) SpeedSteps {
	switch db3 & 0x07 {
	case 0:
		return SpeedSteps14
	case 2:
		return SpeedSteps28
	case 4:
		return SpeedSteps128
	default:
		return SpeedStepsUnknown
	}
}

func encodeSpeedSteps(s SpeedSteps) byte {
	switch s {
	case SpeedSteps14:
		return 0
	case SpeedSteps28:
		return 2
	case SpeedSteps128:
		return 4
	default:
		return 0
	}
}

// LanXLocoInfo is the decoded form of a LOCO_INFO response. Functions[i]
// reports whether Fi is active; only entries the payload length actually
// covered are meaningful (see FunctionsKnown).
type LanXLocoInfo struct {
	Address        LocoAddr
	Busy           bool
	SpeedSteps     SpeedSteps
	DirectionFwd   bool
	Speed          byte
	DoubleTraction bool
	SmartSearch    bool
	Functions      [32]bool
	FunctionsKnown int // highest Fn index (exclusive) decoded from this payload
}

// packLanXData lays out, after the address, one byte for busy/speed-steps,
// one for direction/speed, then the function bytes described in
// unpackLanXLocoInfo below — F0..F4 is always emitted once FunctionsKnown
// covers it, since a locomotive reporting any functions at all reports that
// byte on the wire.
func (m LanXLocoInfo) packLanXData() []byte {
	hi, lo := packLocoAddr(m.Address)
	statusByte := encodeSpeedSteps(m.SpeedSteps)
	if m.Busy {
		statusByte |= 0x08
	}
	speedByte := m.Speed & 0x7F
	if m.DirectionFwd {
		speedByte |= 0x80
	}
	out := []byte{0xEF, hi, lo, statusByte, speedByte}
	if m.FunctionsKnown < 5 {
		return out
	}

	f0f4 := byte(0)
	if m.DoubleTraction {
		f0f4 |= 0x40
	}
	if m.SmartSearch {
		f0f4 |= 0x20
	}
	if m.Functions[0] {
		f0f4 |= 1 << 4
	}
	if m.Functions[4] {
		f0f4 |= 1 << 3
	}
	if m.Functions[3] {
		f0f4 |= 1 << 2
	}
	if m.Functions[2] {
		f0f4 |= 1 << 1
	}
	if m.Functions[1] {
		f0f4 |= 1 << 0
	}
	out = append(out, f0f4)
	if m.FunctionsKnown < 13 {
		return out
	}

	f5f12 := byte(0)
	for i := 0; i < 8; i++ {
		if m.Functions[5+i] {
			f5f12 |= 1 << uint(i)
		}
	}
	out = append(out, f5f12)
	if m.FunctionsKnown < 21 {
		return out
	}

	f13f20 := byte(0)
	for i := 0; i < 8; i++ {
		if m.Functions[13+i] {
			f13f20 |= 1 << uint(i)
		}
	}
	out = append(out, f13f20)
	if m.FunctionsKnown < 29 {
		return out
	}

	f21f28 := byte(0)
	for i := 0; i < 8; i++ {
		if m.Functions[21+i] {
			f21f28 |= 1 << uint(i)
		}
	}
	return append(out, f21f28)
}

// unpackLanXLocoInfo decodes a LOCO_INFO payload (bytes after the 0xEF
// x_header). After the address, db2 is busy/speed-steps, db3 is
// direction/speed, and the function bytes follow only as far as the
// payload runs: db4 holds F0..F4 in its non-linear bit order (F0 at bit 4,
// F4 at bit 3, F3 at bit 2, F2 at bit 1, F1 at bit 0) plus the
// double-traction/smart-search flags, db5 holds F5..F12, db6 holds
// F13..F20, and an optional db7 holds F21..F28.
func unpackLanXLocoInfo(data []byte) LanXLocoInfo {
	info := LanXLocoInfo{
		Address:      unpackLocoAddr(data[0], data[1]),
		Busy:         data[2]&0x08 != 0,
		SpeedSteps:   decodeSpeedSteps(data[2]),
		DirectionFwd: data[3]&0x80 != 0,
		Speed:        data[3] & 0x7F,
	}
	if len(data) >= 5 {
		f0f4 := data[4]
		info.DoubleTraction = f0f4&0x40 != 0
		info.SmartSearch = f0f4&0x20 != 0
		info.Functions[0] = f0f4&0x10 != 0
		info.Functions[4] = f0f4&0x08 != 0
		info.Functions[3] = f0f4&0x04 != 0
		info.Functions[2] = f0f4&0x02 != 0
		info.Functions[1] = f0f4&0x01 != 0
		info.FunctionsKnown = 5
	}
	if len(data) >= 6 {
		f5f12 := data[5]
		for i := 0; i < 8; i++ {
			info.Functions[5+i] = f5f12&(1<<uint(i)) != 0
		}
		info.FunctionsKnown = 13
	}
	if len(data) >= 7 {
		f13f20 := data[6]
		for i := 0; i < 8; i++ {
			info.Functions[13+i] = f13f20&(1<<uint(i)) != 0
		}
		info.FunctionsKnown = 21
	}
	if len(data) >= 8 {
		f21f28 := data[7]
		for i := 0; i < 8; i++ {
			info.Functions[21+i] = f21f28&(1<<uint(i)) != 0
		}
		info.FunctionsKnown = 29
	}
	return info
}

type LanXFirmwareVersionResponse struct{ Version string }

func (m LanXFirmwareVersionResponse) packLanXData() []byte {
	maj, min := 0, 0
	fmt.Sscanf(m.Version, "%d.%d", &maj, &min)
	return []byte{0xF3, 0x0A, bcdByte(maj), bcdByte(min)}
}

func bcdByte(v int) byte {
	return byte((v/10)<<4) | byte(v%10)
}

// LanXUnknown carries the raw bytes of a LAN_X envelope the dispatch table
// does not recognise; it is data, not a decode error, per the protocol's
// UNKNOWN_COMMAND tolerance.
type LanXUnknown struct {
	XHeader byte
	Data    []byte
}

func (m LanXUnknown) packLanXData() []byte {
	return append([]byte{m.XHeader}, m.Data...)
}
