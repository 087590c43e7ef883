package commandstation

import "testing"

func TestStatusAggregatorLocoInfo(t *testing.T) {
	agg := newStatusAggregator()
	_, ok := agg.Loco(3)
	if ok {
		t.Fatal("expected no loco state before any LOCO_INFO is applied")
	}

	info := LanXLocoInfo{Address: 3, Speed: 50, DirectionFwd: true, FunctionsKnown: 5}
	info.Functions[0] = true
	agg.Apply(LanXEnvelope{Message: info})

	got, ok := agg.Loco(3)
	if !ok {
		t.Fatal("expected loco state after LOCO_INFO is applied")
	}
	if got.Speed != 50 || !got.DirectionFwd || !got.Functions[0] {
		t.Errorf("loco state = %+v, want speed=50 forward=true F0=true", got)
	}
}

func TestStatusAggregatorTurnoutInfo(t *testing.T) {
	agg := newStatusAggregator()
	agg.Apply(LanXEnvelope{Message: LanXTurnoutInfo{Address: 12, Status: TurnoutSwitchedP1}})

	got, ok := agg.Accessory(12)
	if !ok {
		t.Fatal("expected accessory state after TURNOUT_INFO is applied")
	}
	if !got.Known || got.Status != TurnoutSwitchedP1 {
		t.Errorf("accessory state = %+v, want Known=true Status=SwitchedP1", got)
	}
}

func TestStatusAggregatorExtAccessoryInfo(t *testing.T) {
	agg := newStatusAggregator()
	agg.Apply(LanXEnvelope{Message: LanXExtAccessoryInfo{Address: 20, State: 1, Valid: 1}})

	got, ok := agg.Accessory(20)
	if !ok || got.State != 1 || got.Valid != 1 {
		t.Errorf("accessory state = %+v, ok=%v, want State=1 Valid=1", got, ok)
	}
}

func TestStatusAggregatorBroadcastFlags(t *testing.T) {
	agg := newStatusAggregator()
	agg.Apply(LanXEnvelope{Message: LanXBcTrackPowerOff{}})
	if !agg.Snapshot().TrackVoltageOff {
		t.Error("TrackVoltageOff should be set after LanXBcTrackPowerOff")
	}
	agg.Apply(LanXEnvelope{Message: LanXBcTrackPowerOn{}})
	if agg.Snapshot().TrackVoltageOff {
		t.Error("TrackVoltageOff should clear after LanXBcTrackPowerOn")
	}
	agg.Apply(LanXEnvelope{Message: LanXBcTrackShortCircuit{}})
	if !agg.Snapshot().ShortCircuit {
		t.Error("ShortCircuit should be set after LanXBcTrackShortCircuit")
	}
}

func TestStatusAggregatorSerialAndHWInfo(t *testing.T) {
	agg := newStatusAggregator()
	agg.Apply(LanGetSerialNumberResponse{SerialNumber: 0x44332211})
	agg.Apply(LanGetHWInfoResponse{HWType: 0x200, FWVersion: "1.33"})

	snap := agg.Snapshot()
	if snap.SerialNumber != 0x44332211 || snap.HWType != 0x200 || snap.FWVersion != "1.33" {
		t.Errorf("snapshot = %+v, want SerialNumber=0x44332211 HWType=0x200 FWVersion=1.33", snap)
	}
}
