package app

import "time"

// StatusAction requests the current system state from the station, waits
// the configured settle time, then prints the aggregated status snapshot as
// it stands at that moment.
func (app *LocoApp) StatusAction() error {
	if cmdErr := app.initializeCommandStation(); cmdErr != nil {
		return cmdErr
	}
	defer app.cleanUp()

	if err := app.client.GetSystemState(); err != nil {
		return err
	}
	if err := app.client.XBusGetStatus(); err != nil {
		return err
	}

	time.Sleep(app.Config.Timeouts.Settle)
	status := app.client.Status()
	app.P.Printf("main current:    %d mA\n", status.MainCurrent)
	app.P.Printf("prog current:    %d mA\n", status.ProgCurrent)
	app.P.Printf("supply voltage:  %d mV\n", status.SupplyVoltage)
	app.P.Printf("temperature:     %d C\n", status.Temperature)
	app.P.Printf("emergency stop:  %t\n", status.EmergencyStop)
	app.P.Printf("track power off: %t\n", status.TrackVoltageOff)
	app.P.Printf("short circuit:   %t\n", status.ShortCircuit)
	app.P.Printf("programming mode: %t\n", status.ProgrammingMode)
	return nil
}
