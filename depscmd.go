package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"go.coder.com/cli"

	"go.coder.com/projtool/internal/metadata"
	"go.coder.com/projtool/internal/program"
)

func depsCommand(t *tool) program.Command {
	return program.Command{
		CommandSpec: cli.CommandSpec{
			Name:  "deps",
			Usage: "[flags]",
			Desc: `Print the project's requirements, one per line.

Requirements are read from the common_depends and dev_depends sections of
project.ini, plus build_depends with -build or run_depends otherwise.

Example:
	- pip install $(projtool deps)`,
		},
		Options: func(fl, _ *flag.FlagSet) {
			fl.String("project-ini", t.iniPath(), "Project metadata file.")
			fl.Bool("build", buildFromSource(), "Use build dependencies instead of run dependencies. (default from BUILD_FROM_SOURCE)")
		},
		Run: runDeps,
	}
}

// buildFromSource reports whether dependencies should be built rather than
// installed from binary packages. BUILD_FROM_SOURCE wins when set; BSD hosts
// default to building since few binary packages exist for them.
func buildFromSource() bool {
	if v, ok := os.LookupEnv("BUILD_FROM_SOURCE"); ok {
		return v != ""
	}
	return strings.Contains(runtime.GOOS, "bsd")
}

func runDeps(h program.Host, ns *program.Namespace) error {
	t := h.(*tool)

	m, err := t.metadata(ns.String("project-ini"))
	if err != nil {
		return err
	}

	reqs, err := m.Requirements(metadata.DependencyGroups(ns.Bool("build"))...)
	if err != nil {
		return err
	}
	for _, r := range reqs {
		fmt.Fprintln(t.stdout, r)
	}
	return nil
}
