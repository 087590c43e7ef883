package app

import "github.com/pugo/zconn/pkgs/commandstation"

// SetTurnoutAction drives a turnout to the given output (0 or 1).
func (app *LocoApp) SetTurnoutAction(addr uint16, output byte) error {
	if cmdErr := app.initializeCommandStation(); cmdErr != nil {
		return cmdErr
	}
	defer app.cleanUp()

	return app.client.SetTurnout(commandstation.TurnoutAddr(addr), output)
}

// GetTurnoutInfoAction blocks for a turnout's current status and prints it.
func (app *LocoApp) GetTurnoutInfoAction(addr uint16) error {
	if cmdErr := app.initializeCommandStation(); cmdErr != nil {
		return cmdErr
	}
	defer app.cleanUp()

	status, err := app.client.GetTurnoutInfo(commandstation.TurnoutAddr(addr))
	if err != nil {
		return err
	}

	var repr string
	switch status {
	case commandstation.TurnoutNotSwitched:
		repr = "not switched"
	case commandstation.TurnoutSwitchedP0:
		repr = "switched P0"
	case commandstation.TurnoutSwitchedP1:
		repr = "switched P1"
	default:
		repr = "unknown"
	}
	app.P.Printf("turnout %d: %s\n", addr, repr)
	return nil
}
