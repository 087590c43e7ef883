package cli

import (
	"github.com/pugo/zconn/pkgs/app"
	"github.com/spf13/cobra"
)

func NewStatusCommand(app *app.LocoApp) *cobra.Command {
	command := &cobra.Command{
		Use:   "status",
		Short: "Print the command station's current electrical and mode status",
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}
			return app.StatusAction()
		},
	}

	command.Flags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")

	return command
}
