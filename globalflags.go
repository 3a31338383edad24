package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"go.coder.com/flog"
	"golang.org/x/xerrors"
)

type globalFlags struct {
	verbose    bool
	configPath string
	tmpdir     string

	// We don't use these directly, they are handled before dispatch.
	installAutocomplete   bool
	uninstallAutocomplete bool
}

func (gf *globalFlags) register(fl *flag.FlagSet) {
	fl.BoolVar(&gf.verbose, "v", false, "Enable debug logging.")
	fl.StringVar(&gf.configPath, "config",
		filepath.Join(metaRoot(), "projtool.toml"),
		"Path to config.",
	)

	tmpdir := os.Getenv("TMPDIR")
	fl.StringVar(&gf.tmpdir, "tmpdir", tmpdir, "Temporary directory for commands. The system default is used when empty. Overrides TMPDIR.")
	fl.StringVar(&gf.tmpdir, "t", tmpdir, "Shorthand for --tmpdir.")

	fl.BoolVar(&gf.installAutocomplete, "install-autocomplete", false, "Install autocomplete")
	fl.BoolVar(&gf.uninstallAutocomplete, "uninstall-autocomplete", false, "Uninstall autocomplete")
}

func (gf *globalFlags) debug(msg string, args ...interface{}) {
	if !gf.verbose {
		return
	}

	flog.Log(
		flog.Level(color.New(color.FgHiMagenta).Sprint("DEBUG")),
		msg, args...,
	)
}

func (gf *globalFlags) config() (config, error) {
	return readConfig(cleanPath(gf.configPath))
}

// ensureTmpDir creates the temporary directory, readable only by the user,
// if one was given.
func (gf *globalFlags) ensureTmpDir() error {
	if gf.tmpdir == "" {
		return nil
	}
	err := os.MkdirAll(gf.tmpdir, 0700)
	if err != nil {
		return xerrors.Errorf("failed to create tmpdir %s: %w", gf.tmpdir, err)
	}
	gf.debug("using tmpdir %s", gf.tmpdir)
	return nil
}
