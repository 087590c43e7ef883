package cli

import (
	"errors"

	"github.com/pugo/zconn/pkgs/app"
	"github.com/spf13/cobra"
)

func NewRootCommand(app *app.LocoApp) *cobra.Command {
	command := &cobra.Command{
		Use:   "lococtl",
		Short: "Z21 command station client CLI",
		RunE: func(command *cobra.Command, args []string) error {
			return errors.New("please select a command")
		},
	}

	command.AddCommand(NewCVCommand(app))
	command.AddCommand(NewFnCommand(app))
	command.AddCommand(NewSpeedCommand(app))
	command.AddCommand(NewTurnoutCommand(app))
	command.AddCommand(NewStatusCommand(app))

	return command
}
