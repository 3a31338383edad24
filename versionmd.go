package main

import (
	"fmt"

	"go.coder.com/cli"

	"go.coder.com/projtool/internal/program"
)

var version = "dev"

func versionCommand() program.Command {
	return program.Command{
		CommandSpec: cli.CommandSpec{
			Name: "version",
			Desc: "Retrieve the current version.",
		},
		Run: func(h program.Host, _ *program.Namespace) error {
			fmt.Fprintln(h.(*tool).stdout, version)
			return nil
		},
	}
}
