package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pugo/zconn/pkgs/output"

	"github.com/pugo/zconn/pkgs/commandstation"
	"github.com/pugo/zconn/pkgs/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

//
// Actions - a controller level
// prints are allowed only via Printer interface
//
// The controller level is intended to provide a layer of performing actions - everything needed to perform a single action e.g. Read list of given CV's
//

type LocoApp struct {
	Config *config.Configuration
	client *commandstation.Client
	cancel context.CancelFunc

	// runtime parameters
	Debug bool
	P     output.Printer
}

// Initialize is running after parsing the arguments, so we know how to configure the app
func (app *LocoApp) Initialize() error {
	// logging
	if app.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// configuration
	logrus.Debug("Reading configuration files")
	cfg, cfgErr := config.NewConfig()
	app.Config = cfg
	if cfgErr != nil {
		return fmt.Errorf("cannot initialize app: %s", cfgErr)
	}
	return nil
}

func (app *LocoApp) initializeCommandStation() error {
	// initialize Command Station communication
	logrus.Debug("Initializing command station")
	if app.Config.Server.Type != "z21" {
		return fmt.Errorf("unknown command station type '%s'", app.Config.Server.Type)
	}

	client := commandstation.NewClient(app.Config.Server.Address, strconv.Itoa(int(app.Config.Server.Port)))
	client.RegisterMetrics(prometheus.DefaultRegisterer)
	if err := client.Connect(); err != nil {
		return fmt.Errorf("cannot initialize app: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := client.Listen(ctx); err != nil {
		cancel()
		return fmt.Errorf("cannot initialize app: %s", err)
	}

	app.client = client
	app.cancel = cancel
	return nil
}

// cleanUp stops the background receiver and closes the socket opened by
// initializeCommandStation.
func (app *LocoApp) cleanUp() {
	if app.cancel != nil {
		app.cancel()
	}
	if app.client != nil {
		if err := app.client.Close(); err != nil {
			logrus.Errorf("error closing command station connection: %s", err)
		}
	}
}
