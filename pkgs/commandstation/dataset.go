package commandstation

import "fmt"

// DataSet ids understood by the core.
const (
	idGetSerialNumber       uint16 = 0x10
	idGetCode               uint16 = 0x18
	idGetHWInfo             uint16 = 0x1A
	idLogoff                uint16 = 0x30
	idLanX                  uint16 = 0x40
	idSetBroadcastFlags     uint16 = 0x50
	idGetBroadcastFlags     uint16 = 0x51
	idGetLocoMode           uint16 = 0x60
	idSetLocoMode           uint16 = 0x61
	idGetTurnoutMode        uint16 = 0x70
	idSetTurnoutMode        uint16 = 0x71
	idSystemstateDatachange uint16 = 0x84
	idSystemstateGetData    uint16 = 0x85
)

// DataSetMessage is implemented by every outer DataSet variant.
type DataSetMessage interface {
	dataSetID() uint16
	dataSetPayload() []byte
}

// PackDataSet serialises msg as a full outer frame: size (u16 LE, including
// the 4-byte header itself), id (u16 LE), then the variant's payload.
func PackDataSet(msg DataSetMessage) []byte {
	payload := msg.dataSetPayload()
	size := uint16(4 + len(payload))
	buf := make([]byte, 0, size)
	buf = putU16LE(buf, size)
	buf = putU16LE(buf, msg.dataSetID())
	buf = append(buf, payload...)
	return buf
}

// ParseDatagram splits a possibly-coalesced UDP datagram into its individual
// DataSet messages, advancing by each one's declared size regardless of
// whether its id or payload length was expected.
func ParseDatagram(raw []byte) ([]DataSetMessage, error) {
	var out []DataSetMessage
	cursor := 0
	for len(raw)-cursor >= 4 {
		size := int(u16LE(raw[cursor : cursor+2]))
		id := u16LE(raw[cursor+2 : cursor+4])
		if size < 4 {
			return nil, fmt.Errorf("%w: DataSet size %d below minimum header length", ErrDecode, size)
		}
		if cursor+size > len(raw) {
			return nil, fmt.Errorf("%w: DataSet size %d exceeds remaining datagram bytes", ErrDecode, size)
		}
		payload := raw[cursor+4 : cursor+size]
		msg, err := unpackDataSet(id, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
		cursor += size
	}
	return out, nil
}

func unpackDataSet(id uint16, payload []byte) (DataSetMessage, error) {
	switch id {
	case idGetSerialNumber:
		if len(payload) >= 4 {
			return LanGetSerialNumberResponse{SerialNumber: u32LE(payload[0:4])}, nil
		}
		return LanGetSerialNumberRequest{}, nil
	case idGetCode:
		if len(payload) >= 1 {
			return LanGetCodeResponse{FeatureSet: decodeFeatureSet(payload[0])}, nil
		}
		return LanGetCodeRequest{}, nil
	case idGetHWInfo:
		if len(payload) >= 8 {
			return LanGetHWInfoResponse{
				HWType:     u32LE(payload[0:4]),
				FWVersion:  decodeBCDVersion(payload[4:8], true),
			}, nil
		}
		return LanGetHWInfoRequest{}, nil
	case idLogoff:
		return LanLogoff{}, nil
	case idLanX:
		msg, err := UnpackLanX(payload)
		if err != nil {
			return nil, err
		}
		return LanXEnvelope{Message: msg}, nil
	case idSetBroadcastFlags:
		if len(payload) < 4 {
			return nil, fmt.Errorf("%w: LAN_SET_BROADCASTFLAGS payload truncated", ErrDecode)
		}
		return LanSetBroadcastFlags{Flags: u32LE(payload[0:4])}, nil
	case idGetBroadcastFlags:
		if len(payload) >= 4 {
			return LanGetBroadcastFlagsResponse{Flags: u32LE(payload[0:4])}, nil
		}
		return LanGetBroadcastFlagsRequest{}, nil
	case idGetLocoMode:
		if len(payload) >= 3 {
			return LanGetLocoModeResponse{
				Address: LocoAddr(u16BE(payload[0:2]) & 0x3FFF),
				Mode:    LocoMode(payload[2]),
			}, nil
		}
		if len(payload) >= 2 {
			return LanGetLocoModeRequest{Address: LocoAddr(u16BE(payload[0:2]) & 0x3FFF)}, nil
		}
		return nil, fmt.Errorf("%w: LAN_GET_LOCOMODE payload truncated", ErrDecode)
	case idSetLocoMode:
		if len(payload) < 3 {
			return nil, fmt.Errorf("%w: LAN_SET_LOCOMODE payload truncated", ErrDecode)
		}
		return LanSetLocoMode{
			Address: LocoAddr(u16BE(payload[0:2]) & 0x3FFF),
			Mode:    LocoMode(payload[2]),
		}, nil
	case idGetTurnoutMode:
		if len(payload) >= 3 {
			return LanGetTurnoutModeResponse{
				Address: TurnoutAddr(u16BE(payload[0:2]) & 0x3FFF),
				Mode:    LocoMode(payload[2]),
			}, nil
		}
		if len(payload) >= 2 {
			return LanGetTurnoutModeRequest{Address: TurnoutAddr(u16BE(payload[0:2]) & 0x3FFF)}, nil
		}
		return nil, fmt.Errorf("%w: LAN_GET_TURNOUTMODE payload truncated", ErrDecode)
	case idSetTurnoutMode:
		if len(payload) < 3 {
			return nil, fmt.Errorf("%w: LAN_SET_TURNOUTMODE payload truncated", ErrDecode)
		}
		return LanSetTurnoutMode{
			Address: TurnoutAddr(u16BE(payload[0:2]) & 0x3FFF),
			Mode:    LocoMode(payload[2]),
		}, nil
	case idSystemstateDatachange:
		if len(payload) < 16 {
			return nil, fmt.Errorf("%w: LAN_SYSTEMSTATE_DATACHANGED payload truncated", ErrDecode)
		}
		return LanSystemstateDatachanged{
			MainCurrent:         int16(u16LE(payload[0:2])),
			ProgCurrent:         int16(u16LE(payload[2:4])),
			FilteredMainCurrent: int16(u16LE(payload[4:6])),
			Temperature:         int16(u16LE(payload[6:8])),
			SupplyVoltage:       u16LE(payload[8:10]),
			VCCVoltage:          u16LE(payload[10:12]),
			CentralState:        payload[12],
			CentralStateEx:      payload[13],
			Capabilities:        payload[15],
		}, nil
	case idSystemstateGetData:
		return LanSystemstateGetData{}, nil
	default:
		return DataSetUnknown{ID: id, Payload: append([]byte(nil), payload...)}, nil
	}
}

//
// Identity
//

type LanGetSerialNumberRequest struct{}

func (LanGetSerialNumberRequest) dataSetID() uint16    { return idGetSerialNumber }
func (LanGetSerialNumberRequest) dataSetPayload() []byte { return nil }

type LanGetSerialNumberResponse struct{ SerialNumber uint32 }

func (LanGetSerialNumberResponse) dataSetID() uint16 { return idGetSerialNumber }
func (m LanGetSerialNumberResponse) dataSetPayload() []byte {
	return putU32LE(nil, m.SerialNumber)
}

// FeatureSet reports whether the station's start-up lock has been cleared.
type FeatureSet byte

const (
	FeatureSetUnknown FeatureSet = iota
	FeatureSetNoLock
	FeatureSetStartLocked
	FeatureSetStartUnlocked
)

func decodeFeatureSet(code byte) FeatureSet {
	switch code {
	case 0x00:
		return FeatureSetNoLock
	case 0x01:
		return FeatureSetStartLocked
	case 0x02:
		return FeatureSetStartUnlocked
	default:
		return FeatureSetUnknown
	}
}

func encodeFeatureSet(fs FeatureSet) byte {
	switch fs {
	case FeatureSetNoLock:
		return 0x00
	case FeatureSetStartLocked:
		return 0x01
	case FeatureSetStartUnlocked:
		return 0x02
	default:
		return 0xFF
	}
}

type LanGetCodeRequest struct{}

func (LanGetCodeRequest) dataSetID() uint16      { return idGetCode }
func (LanGetCodeRequest) dataSetPayload() []byte { return nil }

type LanGetCodeResponse struct{ FeatureSet FeatureSet }

func (LanGetCodeResponse) dataSetID() uint16 { return idGetCode }
func (m LanGetCodeResponse) dataSetPayload() []byte {
	return []byte{encodeFeatureSet(m.FeatureSet)}
}

type LanGetHWInfoRequest struct{}

func (LanGetHWInfoRequest) dataSetID() uint16      { return idGetHWInfo }
func (LanGetHWInfoRequest) dataSetPayload() []byte { return nil }

type LanGetHWInfoResponse struct {
	HWType    uint32
	FWVersion string
}

func (LanGetHWInfoResponse) dataSetID() uint16 { return idGetHWInfo }
func (m LanGetHWInfoResponse) dataSetPayload() []byte {
	buf := putU32LE(nil, m.HWType)
	return append(buf, encodeBCDVersion(m.FWVersion, 4)...)
}

type LanLogoff struct{}

func (LanLogoff) dataSetID() uint16      { return idLogoff }
func (LanLogoff) dataSetPayload() []byte { return nil }

//
// LAN_X envelope
//

// LanXEnvelope is the DataSet id 0x40 carrier for an inner LAN_X message.
type LanXEnvelope struct{ Message LanXMessage }

func (LanXEnvelope) dataSetID() uint16 { return idLanX }
func (m LanXEnvelope) dataSetPayload() []byte {
	return PackLanX(m.Message)
}

//
// Broadcast flags
//

type LanSetBroadcastFlags struct{ Flags uint32 }

func (LanSetBroadcastFlags) dataSetID() uint16 { return idSetBroadcastFlags }
func (m LanSetBroadcastFlags) dataSetPayload() []byte {
	return putU32LE(nil, m.Flags)
}

type LanGetBroadcastFlagsRequest struct{}

func (LanGetBroadcastFlagsRequest) dataSetID() uint16      { return idGetBroadcastFlags }
func (LanGetBroadcastFlagsRequest) dataSetPayload() []byte { return nil }

type LanGetBroadcastFlagsResponse struct{ Flags uint32 }

func (LanGetBroadcastFlagsResponse) dataSetID() uint16 { return idGetBroadcastFlags }
func (m LanGetBroadcastFlagsResponse) dataSetPayload() []byte {
	return putU32LE(nil, m.Flags)
}

//
// Loco / turnout decoder mode
//

// LocoMode distinguishes a decoder's addressing protocol.
type LocoMode byte

const (
	LocoModeDCC     LocoMode = 0
	LocoModeMM      LocoMode = 1
	LocoModeUnknown LocoMode = 255
)

type LanGetLocoModeRequest struct{ Address LocoAddr }

func (LanGetLocoModeRequest) dataSetID() uint16 { return idGetLocoMode }
func (m LanGetLocoModeRequest) dataSetPayload() []byte {
	buf := make([]byte, 2)
	writeU16BE(buf, uint16(m.Address)&0x3FFF)
	return buf
}

type LanGetLocoModeResponse struct {
	Address LocoAddr
	Mode    LocoMode
}

func (LanGetLocoModeResponse) dataSetID() uint16 { return idGetLocoMode }
func (m LanGetLocoModeResponse) dataSetPayload() []byte {
	buf := make([]byte, 3)
	writeU16BE(buf, uint16(m.Address)&0x3FFF)
	buf[2] = byte(m.Mode)
	return buf
}

type LanSetLocoMode struct {
	Address LocoAddr
	Mode    LocoMode
}

func (LanSetLocoMode) dataSetID() uint16 { return idSetLocoMode }
func (m LanSetLocoMode) dataSetPayload() []byte {
	buf := make([]byte, 3)
	writeU16BE(buf, uint16(m.Address)&0x3FFF)
	buf[2] = byte(m.Mode)
	return buf
}

type LanGetTurnoutModeRequest struct{ Address TurnoutAddr }

func (LanGetTurnoutModeRequest) dataSetID() uint16 { return idGetTurnoutMode }
func (m LanGetTurnoutModeRequest) dataSetPayload() []byte {
	buf := make([]byte, 2)
	writeU16BE(buf, uint16(m.Address)&0x3FFF)
	return buf
}

type LanGetTurnoutModeResponse struct {
	Address TurnoutAddr
	Mode    LocoMode
}

func (LanGetTurnoutModeResponse) dataSetID() uint16 { return idGetTurnoutMode }
func (m LanGetTurnoutModeResponse) dataSetPayload() []byte {
	buf := make([]byte, 3)
	writeU16BE(buf, uint16(m.Address)&0x3FFF)
	buf[2] = byte(m.Mode)
	return buf
}

type LanSetTurnoutMode struct {
	Address TurnoutAddr
	Mode    LocoMode
}

func (LanSetTurnoutMode) dataSetID() uint16 { return idSetTurnoutMode }
func (m LanSetTurnoutMode) dataSetPayload() []byte {
	buf := make([]byte, 3)
	writeU16BE(buf, uint16(m.Address)&0x3FFF)
	buf[2] = byte(m.Mode)
	return buf
}

//
// System state
//

type LanSystemstateDatachanged struct {
	MainCurrent         int16
	ProgCurrent         int16
	FilteredMainCurrent int16
	Temperature         int16
	SupplyVoltage       uint16
	VCCVoltage          uint16
	CentralState        byte
	CentralStateEx      byte
	Capabilities        byte
}

func (LanSystemstateDatachanged) dataSetID() uint16 { return idSystemstateDatachange }
func (m LanSystemstateDatachanged) dataSetPayload() []byte {
	buf := make([]byte, 16)
	writeU16LESigned(buf[0:2], m.MainCurrent)
	writeU16LESigned(buf[2:4], m.ProgCurrent)
	writeU16LESigned(buf[4:6], m.FilteredMainCurrent)
	writeU16LESigned(buf[6:8], m.Temperature)
	writeU16LE(buf[8:10], m.SupplyVoltage)
	writeU16LE(buf[10:12], m.VCCVoltage)
	buf[12] = m.CentralState
	buf[13] = m.CentralStateEx
	buf[15] = m.Capabilities
	return buf
}

type LanSystemstateGetData struct{}

func (LanSystemstateGetData) dataSetID() uint16      { return idSystemstateGetData }
func (LanSystemstateGetData) dataSetPayload() []byte { return nil }

// DataSetUnknown carries the raw payload of a DataSet id the dispatch table
// does not recognise; it is data, not a decode error.
type DataSetUnknown struct {
	ID      uint16
	Payload []byte
}

func (m DataSetUnknown) dataSetID() uint16      { return m.ID }
func (m DataSetUnknown) dataSetPayload() []byte { return m.Payload }

//
// small in-place helpers (distinct from the append-style codec.go helpers,
// since several DataSet payloads have a fixed, pre-sized layout)
//

func writeU16BE(buf []byte, v uint16) {
	buf[0] = byte(v >> 8)
	buf[1] = byte(v)
}

func writeU16LE(buf []byte, v uint16) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
}

func writeU16LESigned(buf []byte, v int16) {
	writeU16LE(buf, uint16(v))
}

// encodeBCDVersion is the inverse of decodeBCDVersion for the HWINFO
// firmware field: it right-aligns the dotted components into width bytes,
// most-significant component last, matching the reverse-byte-order layout
// decodeBCDVersion reads.
func encodeBCDVersion(version string, width int) []byte {
	out := make([]byte, width)
	if version == "" {
		return out
	}
	parts := splitDots(version)
	for i := 0; i < len(parts) && i < width; i++ {
		n := parts[len(parts)-1-i]
		out[i] = byte((n/10)<<4) | byte(n%10)
	}
	return out
}

func splitDots(s string) []int {
	var out []int
	cur := 0
	has := false
	for _, r := range s {
		if r == '.' {
			out = append(out, cur)
			cur = 0
			has = false
			continue
		}
		cur = cur*10 + int(r-'0')
		has = true
	}
	if has || len(out) == 0 {
		out = append(out, cur)
	}
	return out
}
