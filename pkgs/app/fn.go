package app

import "github.com/pugo/zconn/pkgs/commandstation"

// SendFnAction toggles a locomotive function. Functions are only ever
// addressed via the main track, so mode is accepted for CLI symmetry with
// the CV commands but has no effect here.
func (app *LocoApp) SendFnAction(mode string, locoId uint8, fnNum int, toggle bool) error {
	if cmdErr := app.initializeCommandStation(); cmdErr != nil {
		return cmdErr
	}
	defer app.cleanUp()
	return app.client.SendFunction(commandstation.LocoAddr(locoId), commandstation.FuncNum(fnNum), toggle)
}

func (app *LocoApp) ListFnAction(locoId uint8) error {
	if cmdErr := app.initializeCommandStation(); cmdErr != nil {
		return cmdErr
	}
	defer app.cleanUp()

	activeFunctions, err := app.client.ListFunctions(commandstation.LocoAddr(locoId))
	if err != nil {
		return err
	}

	// Format output: each function on a new line in format "F0 = On"
	if len(activeFunctions) == 0 {
		app.P.Printf("No active functions\n")
	} else {
		for _, fnNum := range activeFunctions {
			app.P.Printf("F%d = On\n", fnNum)
		}
	}

	return nil
}
