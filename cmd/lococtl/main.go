package main

import (
	"os"

	"github.com/pugo/zconn/pkgs/app"
	"github.com/pugo/zconn/pkgs/cli"
	"github.com/pugo/zconn/pkgs/output"
)

func main() {
	app := app.LocoApp{P: output.ConsolePrinter{}}
	cmd := cli.NewRootCommand(&app)
	args := os.Args
	if args != nil {
		args = args[1:]
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
