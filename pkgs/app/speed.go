package app

import "github.com/pugo/zconn/pkgs/commandstation"

// SetSpeedAction sets the speed and direction of a locomotive. speedSteps is
// validated by the CLI layer against the 14/28/128 step conventions; the
// wire-level SET_LOCO_DRIVE request itself only ever carries a 7-bit speed.
func (app *LocoApp) SetSpeedAction(locoId uint8, speed uint8, forward bool, speedSteps uint8) error {
	if cmdErr := app.initializeCommandStation(); cmdErr != nil {
		return cmdErr
	}
	defer app.cleanUp()

	return app.client.SetSpeed(commandstation.LocoAddr(locoId), speed, forward)
}

// GetSpeedAction retrieves the current speed and direction of a locomotive
func (app *LocoApp) GetSpeedAction(locoId uint8) (speed uint8, forward bool, err error) {
	if cmdErr := app.initializeCommandStation(); cmdErr != nil {
		return 0, false, cmdErr
	}
	defer app.cleanUp()

	return app.client.GetSpeed(commandstation.LocoAddr(locoId))
}
