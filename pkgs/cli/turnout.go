package cli

import (
	"fmt"

	"github.com/pugo/zconn/pkgs/app"
	"github.com/spf13/cobra"
)

func NewTurnoutCommand(app *app.LocoApp) *cobra.Command {
	command := &cobra.Command{
		Use:   "turnout",
		Short: "Get or set the state of a turnout",
		RunE: func(command *cobra.Command, args []string) error {
			return command.Help()
		},
	}

	command.AddCommand(NewTurnoutSetCommand(app))
	command.AddCommand(NewTurnoutGetCommand(app))

	return command
}

func NewTurnoutSetCommand(app *app.LocoApp) *cobra.Command {
	type Args struct {
		Address uint16
		Output  uint8
	}

	cmdArgs := Args{}
	command := &cobra.Command{
		Use:   "set",
		Short: "Drive a turnout to a given output (0 or 1)",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}
			if cmdArgs.Output > 1 {
				return fmt.Errorf("invalid output %d, must be 0 or 1", cmdArgs.Output)
			}
			return app.SetTurnoutAction(cmdArgs.Address, cmdArgs.Output)
		},
	}

	command.Flags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")
	command.Flags().Uint16VarP(&cmdArgs.Address, "address", "a", 0, "Turnout address")
	command.Flags().Uint8VarP(&cmdArgs.Output, "output", "o", 0, "Output state: 0 or 1")
	command.MarkFlagRequired("address")

	return command
}

func NewTurnoutGetCommand(app *app.LocoApp) *cobra.Command {
	type Args struct {
		Address uint16
	}

	cmdArgs := Args{}
	command := &cobra.Command{
		Use:   "get",
		Short: "Get the current status of a turnout",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}
			return app.GetTurnoutInfoAction(cmdArgs.Address)
		},
	}

	command.Flags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")
	command.Flags().Uint16VarP(&cmdArgs.Address, "address", "a", 0, "Turnout address")
	command.MarkFlagRequired("address")

	return command
}
