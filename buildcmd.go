package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"go.coder.com/cli"

	"go.coder.com/projtool/internal/metadata"
	"go.coder.com/projtool/internal/program"
)

// projectMeta lazily loads project.ini.
type projectMeta struct {
	path string
	m    *metadata.Metadata
	err  error
}

func (t *tool) iniPath() string {
	if t.projectINI != "" {
		return t.projectINI
	}
	return filepath.Join(t.projectDir, "project.ini")
}

// metadata loads the project metadata at path, caching the result.
func (t *tool) metadata(path string) (*metadata.Metadata, error) {
	if path == "" {
		path = t.iniPath()
	}
	if t.meta.path == path && (t.meta.m != nil || t.meta.err != nil) {
		return t.meta.m, t.meta.err
	}
	m, err := metadata.Load(path)
	t.meta = projectMeta{path: path, m: m, err: err}
	return m, err
}

// buildCommand has no runner, it is handled by tool.RunCommand.
func buildCommand(t *tool) program.Command {
	return program.Command{
		CommandSpec: cli.CommandSpec{
			Name:  "build",
			Usage: "[flags]",
			Desc: `(unimplemented) Build the project.

A -<package>-version flag is defined for each build and run dependency
in project.ini, defaulting to the version listed there. The flags follow
the file named by -project-ini when it is given.`,
		},
		Options: t.buildOptions,
	}
}

func (t *tool) buildOptions(fl, _ *flag.FlagSet) {
	fl.String("project-ini", t.iniPath(), "Project metadata file.")

	m, err := t.metadata(t.iniPath())
	if err != nil {
		// Reported when the command runs.
		return
	}
	for _, group := range []string{metadata.SectionBuild, metadata.SectionRun} {
		entries, err := m.Section(group)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := versionFlag(e.Key)
			if fl.Lookup(name) != nil {
				continue
			}
			fl.String(name, e.Value, fmt.Sprintf("%s version for build.", e.Key))
		}
	}
}

func versionFlag(pkg string) string {
	return strings.ToLower(pkg) + "-version"
}

func (t *tool) runBuild(ns *program.Namespace) error {
	_, err := t.metadata(ns.String("project-ini"))
	if err != nil {
		return err
	}

	ns.Flags.VisitAll(func(f *flag.Flag) {
		if strings.HasSuffix(f.Name, "-version") {
			t.debug("build %s = %s", f.Name, f.Value)
		}
	})

	fmt.Fprintln(t.stdout, "not implemented (build)")
	return nil
}
