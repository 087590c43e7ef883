package commandstation

import (
	"fmt"
	"time"
)

//
// Fire-and-forget protocol operations: one method per DataSet/LAN_X request
// named after its opcode. None of these block on a response; the answer (if
// any) arrives later via Events()/the StatusAggregator.
//

func (c *Client) GetSerialNumber() error { return c.send(LanGetSerialNumberRequest{}) }
func (c *Client) GetCode() error         { return c.send(LanGetCodeRequest{}) }
func (c *Client) GetHWInfo() error       { return c.send(LanGetHWInfoRequest{}) }
func (c *Client) Logoff() error          { return c.send(LanLogoff{}) }

func (c *Client) SetBroadcastFlags(flags uint32) error {
	return c.send(LanSetBroadcastFlags{Flags: flags})
}
func (c *Client) GetBroadcastFlags() error { return c.send(LanGetBroadcastFlagsRequest{}) }

func (c *Client) GetLocoMode(addr LocoAddr) error {
	return c.send(LanGetLocoModeRequest{Address: addr})
}
func (c *Client) SetLocoMode(addr LocoAddr, mode LocoMode) error {
	return c.send(LanSetLocoMode{Address: addr, Mode: mode})
}
func (c *Client) GetTurnoutMode(addr TurnoutAddr) error {
	return c.send(LanGetTurnoutModeRequest{Address: addr})
}
func (c *Client) SetTurnoutMode(addr TurnoutAddr, mode LocoMode) error {
	return c.send(LanSetTurnoutMode{Address: addr, Mode: mode})
}

func (c *Client) GetSystemState() error { return c.send(LanSystemstateGetData{}) }

func (c *Client) XBusGetVersion() error        { return c.sendLanX(LanXGetVersion{}) }
func (c *Client) XBusGetStatus() error         { return c.sendLanX(LanXGetStatus{}) }
func (c *Client) XBusSetTrackPowerOff() error  { return c.sendLanX(LanXSetTrackPowerOff{}) }
func (c *Client) XBusSetTrackPowerOn() error   { return c.sendLanX(LanXSetTrackPowerOn{}) }
func (c *Client) XBusSetStop() error           { return c.sendLanX(LanXSetStop{}) }
func (c *Client) XBusGetFirmwareVersion() error { return c.sendLanX(LanXGetFirmwareVersion{}) }

func (c *Client) XBusCvReadProg(cv CVNum) error { return c.sendLanX(LanXCvRead{CV: cv}) }
func (c *Client) XBusCvWriteProg(cv CVNum, value byte) error {
	return c.sendLanX(LanXCvWrite{CV: cv, Value: value})
}

func (c *Client) XBusGetTurnoutInfo(addr TurnoutAddr) error {
	return c.sendLanX(LanXGetTurnoutInfo{Address: addr})
}
func (c *Client) XBusSetTurnout(addr TurnoutAddr, value byte) error {
	return c.sendLanX(LanXSetTurnout{Address: addr, Value: value})
}
func (c *Client) XBusGetExtAccessoryInfo(addr TurnoutAddr) error {
	return c.sendLanX(LanXGetExtAccessoryInfo{Address: addr})
}
func (c *Client) XBusSetExtAccessory(addr TurnoutAddr, state byte) error {
	return c.sendLanX(LanXSetExtAccessory{Address: addr, State: state})
}

func (c *Client) XBusGetLocoInfo(addr LocoAddr) error {
	return c.sendLanX(LanXGetLocoInfo{Address: addr})
}
func (c *Client) XBusSetLocoDrive(addr LocoAddr, speed byte, forward bool) error {
	return c.sendLanX(LanXSetLocoDrive{Address: addr, Speed: speed, Forward: forward})
}
func (c *Client) XBusSetLocoFunction(addr LocoAddr, function byte) error {
	return c.sendLanX(LanXSetLocoFunction{Address: addr, Function: function})
}
func (c *Client) XBusSetLocoFunctionGroup(addr LocoAddr, group, bits byte) error {
	return c.sendLanX(LanXSetLocoFunctionGroup{Address: addr, Group: group, Bits: bits})
}
func (c *Client) XBusSetLocoBinaryState(addr LocoAddr, lo, hi byte) error {
	return c.sendLanX(LanXSetLocoBinaryState{Address: addr, Lo: lo, Hi: hi})
}

func (c *Client) XBusCvPomRead(addr LocoAddr, cv CVNum, longAddr bool) error {
	return c.sendLanX(LanXCvPomRead{Address: addr, CV: cv, LongAddr: longAddr})
}
func (c *Client) XBusCvPomWrite(addr LocoAddr, cv CVNum, value byte, longAddr bool) error {
	return c.sendLanX(LanXCvPomWrite{Address: addr, CV: cv, Value: value, LongAddr: longAddr})
}
func (c *Client) XBusCvPomAccessoryRead(addr TurnoutAddr, cv CVNum) error {
	return c.sendLanX(LanXCvPomAccessoryRead{Address: addr, CV: cv})
}
func (c *Client) XBusCvPomAccessoryWrite(addr TurnoutAddr, cv CVNum, value byte) error {
	return c.sendLanX(LanXCvPomAccessoryWrite{Address: addr, CV: cv, Value: value})
}

//
// Blocking helpers built on the fire-and-forget primitives above: CV
// read/write with retry and optional post-write verification, function
// toggling, speed get/set, turnout get/set. Grounded on the teacher's
// ctxOptions-configured WriteCV/ReadCV/SendFn/ListFunctions/SetSpeed.
//

// awaitCVResult waits for the next CV_RESULT or CV_NACK(_SC) on sub, bounded
// by timeout. A NACK is reported as an error; anything else is ignored so
// unrelated traffic doesn't unblock the wait early.
func awaitCVResult(sub <-chan Event, timeout time.Duration) (byte, error) {
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return 0, fmt.Errorf("%w: subscription closed", ErrTimeout)
			}
			env, isLanX := ev.Message.(LanXEnvelope)
			if !isLanX {
				continue
			}
			switch m := env.Message.(type) {
			case LanXCvResult:
				return m.Value, nil
			case LanXCvNack:
				return 0, fmt.Errorf("z21: CV_NACK")
			case LanXCvNackSc:
				return 0, fmt.Errorf("z21: CV_NACK (short circuit)")
			}
		case <-deadline:
			return 0, ErrTimeout
		}
	}
}

// ReadCV reads a CV on the given programming channel, retrying up to
// ctx.retries times on timeout/NACK.
func (c *Client) ReadCV(mode Mode, lcv LocoCV, options ...ctxOptions) (int, error) {
	ctx, err := newRequestContext(options)
	if err != nil {
		return 0, err
	}

	sub, cancel := c.subscribe()
	defer cancel()

	var lastErr error
	for attempt := uint8(0); attempt <= ctx.retries; attempt++ {
		if err := c.issueCVRead(mode, lcv.LocoId, lcv.Cv, ctx); err != nil {
			return 0, err
		}
		value, err := awaitCVResult(sub, ctx.timeout)
		if err == nil {
			return int(value), nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("z21: ReadCV exhausted retries: %w", lastErr)
}

// WriteCV writes a CV, optionally reading it back to verify the write stuck.
func (c *Client) WriteCV(mode Mode, lcv LocoCV, options ...ctxOptions) error {
	ctx, err := newRequestContext(options)
	if err != nil {
		return err
	}

	sub, cancel := c.subscribe()
	defer cancel()

	var lastErr error
	for attempt := uint8(0); attempt <= ctx.retries; attempt++ {
		if err := c.issueCVWrite(mode, lcv.LocoId, lcv.Cv, byte(lcv.Cv.Value), ctx); err != nil {
			return err
		}
		if _, err := awaitCVResult(sub, ctx.timeout); err != nil {
			lastErr = err
			continue
		}
		if !ctx.verify {
			return nil
		}
		time.Sleep(ctx.settle)
		if err := c.issueCVRead(mode, lcv.LocoId, lcv.Cv, ctx); err != nil {
			return err
		}
		value, err := awaitCVResult(sub, ctx.timeout)
		if err != nil {
			lastErr = err
			continue
		}
		if int(value) != lcv.Cv.Value {
			lastErr = fmt.Errorf("%w: wrote %d, read back %d", ErrVerifyMismatch, lcv.Cv.Value, value)
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Client) issueCVRead(mode Mode, addr LocoAddr, cv CV, ctx *RequestContext) error {
	if mode == MainTrackMode {
		return c.XBusCvPomRead(addr, cv.Num, ctx.longAddressing)
	}
	return c.XBusCvReadProg(cv.Num)
}

func (c *Client) issueCVWrite(mode Mode, addr LocoAddr, cv CV, value byte, ctx *RequestContext) error {
	if mode == MainTrackMode {
		return c.XBusCvPomWrite(addr, cv.Num, value, ctx.longAddressing)
	}
	return c.XBusCvWriteProg(cv.Num, value)
}

// SendFunction toggles function num on addr on or off.
func (c *Client) SendFunction(addr LocoAddr, num FuncNum, on bool) error {
	function := byte(num) & 0x3F
	if on {
		function |= 0x40
	}
	return c.XBusSetLocoFunction(addr, function)
}

// ListFunctions queries the locomotive's current state and returns the
// function numbers the last known LocoState reports as active.
func (c *Client) ListFunctions(addr LocoAddr, options ...ctxOptions) ([]int, error) {
	ctx, err := newRequestContext(options)
	if err != nil {
		return nil, err
	}

	sub, cancel := c.subscribe()
	defer cancel()

	if err := c.XBusGetLocoInfo(addr); err != nil {
		return nil, err
	}

	deadline := time.After(ctx.timeout)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return nil, ErrTimeout
			}
			env, isLanX := ev.Message.(LanXEnvelope)
			if !isLanX {
				continue
			}
			info, isInfo := env.Message.(LanXLocoInfo)
			if !isInfo || info.Address != addr {
				continue
			}
			var active []int
			for i := 0; i < info.FunctionsKnown; i++ {
				if info.Functions[i] {
					active = append(active, i)
				}
			}
			return active, nil
		case <-deadline:
			return nil, ErrTimeout
		}
	}
}

// SetSpeed sets the speed/direction of addr.
func (c *Client) SetSpeed(addr LocoAddr, speed uint8, forward bool) error {
	return c.XBusSetLocoDrive(addr, speed, forward)
}

// GetSpeed queries addr's speed and blocks for the LOCO_INFO response.
func (c *Client) GetSpeed(addr LocoAddr, options ...ctxOptions) (uint8, bool, error) {
	ctx, err := newRequestContext(options)
	if err != nil {
		return 0, false, err
	}

	sub, cancel := c.subscribe()
	defer cancel()

	if err := c.XBusGetLocoInfo(addr); err != nil {
		return 0, false, err
	}

	deadline := time.After(ctx.timeout)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return 0, false, ErrTimeout
			}
			env, isLanX := ev.Message.(LanXEnvelope)
			if !isLanX {
				continue
			}
			info, isInfo := env.Message.(LanXLocoInfo)
			if !isInfo || info.Address != addr {
				continue
			}
			return info.Speed, info.DirectionFwd, nil
		case <-deadline:
			return 0, false, ErrTimeout
		}
	}
}

// SetTurnout drives a turnout to the given output (0 or 1).
func (c *Client) SetTurnout(addr TurnoutAddr, output byte) error {
	return c.XBusSetTurnout(addr, output)
}

// GetTurnoutInfo queries addr's current status and blocks for the response.
func (c *Client) GetTurnoutInfo(addr TurnoutAddr, options ...ctxOptions) (TurnoutStatus, error) {
	ctx, err := newRequestContext(options)
	if err != nil {
		return TurnoutStatusUnknown, err
	}

	sub, cancel := c.subscribe()
	defer cancel()

	if err := c.XBusGetTurnoutInfo(addr); err != nil {
		return TurnoutStatusUnknown, err
	}

	deadline := time.After(ctx.timeout)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return TurnoutStatusUnknown, ErrTimeout
			}
			env, isLanX := ev.Message.(LanXEnvelope)
			if !isLanX {
				continue
			}
			info, isInfo := env.Message.(LanXTurnoutInfo)
			if !isInfo || info.Address != addr {
				continue
			}
			return info.Status, nil
		case <-deadline:
			return TurnoutStatusUnknown, ErrTimeout
		}
	}
}
