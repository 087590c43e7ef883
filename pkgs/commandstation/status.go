package commandstation

import "sync"

// Z21Status is the aggregated, mutable snapshot of station identity, track
// electrical values, and mode flags built up from decoded events. The
// receiver is the only mutator; callers read it through Snapshot, which
// copies the struct under RLock so they never hold a pointer into live
// state (see transport.go / client.go).
type Z21Status struct {
	SerialNumber uint32
	HWType       uint32
	FWVersion    string
	FeatureSet   FeatureSet

	MainCurrent         int16
	ProgCurrent         int16
	FilteredMainCurrent int16
	SupplyVoltage       uint16
	VCCVoltage          uint16
	Temperature         int16

	CentralState   byte
	CentralStateEx byte
	Capabilities   byte

	EmergencyStop   bool
	TrackVoltageOff bool
	ShortCircuit    bool
	ProgrammingMode bool
	InvalidRequest  bool
}

func deriveModeFlags(s *Z21Status) {
	s.EmergencyStop = s.CentralState&0x01 != 0
	s.TrackVoltageOff = s.CentralState&0x02 != 0
	s.ShortCircuit = s.CentralState&0x04 != 0
	s.ProgrammingMode = s.CentralState&0x20 != 0
}

// LocoState is the last known decoded state of a single locomotive, built
// from LAN_X_LOCO_INFO responses/broadcasts.
type LocoState struct {
	Address        LocoAddr
	Busy           bool
	SpeedSteps     SpeedSteps
	DirectionFwd   bool
	Speed          byte
	DoubleTraction bool
	SmartSearch    bool
	Functions      [32]bool
}

// AccessoryState is the last known decoded state of a turnout or extended
// accessory, built from LAN_X_TURNOUT_INFO / LAN_X_EXT_ACCESSORY_INFO.
type AccessoryState struct {
	Address TurnoutAddr
	Status  TurnoutStatus
	State   byte
	Valid   byte
	Known   bool
}

// StatusAggregator owns the mutable Z21Status plus the per-address loco and
// accessory maps, all guarded by one RWMutex — the same discipline the
// teacher used for its smaller function-state cache, generalized to the
// full station snapshot.
type StatusAggregator struct {
	mu          sync.RWMutex
	status      Z21Status
	locos       map[LocoAddr]LocoState
	accessories map[TurnoutAddr]AccessoryState
}

func newStatusAggregator() *StatusAggregator {
	return &StatusAggregator{
		locos:       make(map[LocoAddr]LocoState),
		accessories: make(map[TurnoutAddr]AccessoryState),
	}
}

// Snapshot returns a value copy of the current station status.
func (a *StatusAggregator) Snapshot() Z21Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Loco returns the last known state for addr, if the station has reported
// one.
func (a *StatusAggregator) Loco(addr LocoAddr) (LocoState, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.locos[addr]
	return s, ok
}

// Accessory returns the last known state for addr, if the station has
// reported one.
func (a *StatusAggregator) Accessory(addr TurnoutAddr) (AccessoryState, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.accessories[addr]
	return s, ok
}

// Apply folds one decoded DataSet into the aggregator's state. It is called
// exclusively from the receiver goroutine (see transport.go).
func (a *StatusAggregator) Apply(msg DataSetMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch m := msg.(type) {
	case LanGetSerialNumberResponse:
		a.status.SerialNumber = m.SerialNumber
	case LanGetCodeResponse:
		a.status.FeatureSet = m.FeatureSet
	case LanGetHWInfoResponse:
		a.status.HWType = m.HWType
		a.status.FWVersion = m.FWVersion
	case LanSystemstateDatachanged:
		a.status.MainCurrent = m.MainCurrent
		a.status.ProgCurrent = m.ProgCurrent
		a.status.FilteredMainCurrent = m.FilteredMainCurrent
		a.status.Temperature = m.Temperature
		a.status.SupplyVoltage = m.SupplyVoltage
		a.status.VCCVoltage = m.VCCVoltage
		a.status.CentralState = m.CentralState
		a.status.CentralStateEx = m.CentralStateEx
		a.status.Capabilities = m.Capabilities
		deriveModeFlags(&a.status)
	case LanXEnvelope:
		a.applyLanX(m.Message)
	}
}

func (a *StatusAggregator) applyLanX(msg LanXMessage) {
	switch m := msg.(type) {
	case LanXBcTrackPowerOff:
		a.status.TrackVoltageOff = true
	case LanXBcTrackPowerOn:
		a.status.TrackVoltageOff = false
	case LanXBcProgrammingMode:
		a.status.ProgrammingMode = true
	case LanXBcTrackShortCircuit:
		a.status.ShortCircuit = true
	case LanXBcStopped:
		a.status.EmergencyStop = true
	case LanXUnknownCommand:
		a.status.InvalidRequest = true
	case LanXFirmwareVersionResponse:
		a.status.FWVersion = m.Version
	case LanXStatusChanged:
		a.status.CentralState = m.CentralState
		deriveModeFlags(&a.status)
	case LanXLocoInfo:
		a.locos[m.Address] = LocoState{
			Address:        m.Address,
			Busy:           m.Busy,
			SpeedSteps:     m.SpeedSteps,
			DirectionFwd:   m.DirectionFwd,
			Speed:          m.Speed,
			DoubleTraction: m.DoubleTraction,
			SmartSearch:    m.SmartSearch,
			Functions:      m.Functions,
		}
	case LanXTurnoutInfo:
		a.accessories[m.Address] = AccessoryState{Address: m.Address, Status: m.Status, Known: true}
	case LanXExtAccessoryInfo:
		a.accessories[m.Address] = AccessoryState{Address: m.Address, State: m.State, Valid: m.Valid, Known: true}
	}
}
