package main

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/browser"
	"go.coder.com/cli"
	"golang.org/x/xerrors"

	"go.coder.com/projtool/internal/pipinfo"
	"go.coder.com/projtool/internal/program"
)

func versionsCommand() program.Command {
	return program.Command{
		CommandSpec: cli.CommandSpec{
			Name:  "versions",
			Usage: "[flags] <package> [version]",
			Desc: `Lists the released versions of a package, highest first.

With a version, lists the files of that release.
With -source, prints the source archive URL of the version, or of the latest release.

Examples:
	List virtualenv releases on PyPI
	- projtool versions virtualenv

	Find the source archive of the latest release
	- projtool versions -source virtualenv

	List releases of a GitHub repository
	- projtool versions -index github pypa/virtualenv`,
		},
		Options: func(fl, _ *flag.FlagSet) {
			fl.String("index", "", `Release index, "pypi" or "github". (default from config, else pypi)`)
			fl.Bool("source", false, "Print the source archive URL.")
			fl.Bool("open", false, "Open the package's project page in a browser.")
		},
		Run: runVersions,
	}
}

func (t *tool) index(kind string, conf config) (pipinfo.Index, error) {
	switch kind {
	case "", "pypi":
		return &pipinfo.PyPI{BaseURL: conf.IndexURL}, nil
	case "github":
		return &pipinfo.GitHub{}, nil
	default:
		return nil, xerrors.Errorf("unknown index %q", kind)
	}
}

func runVersions(h program.Host, ns *program.Namespace) error {
	t := h.(*tool)

	name := ns.Arg(0)
	if name == "" {
		ns.Flags.Usage()
		return xerrors.New("argument <package> must be provided")
	}

	conf, err := t.config()
	if err != nil {
		return err
	}

	kind := ns.String("index")
	if kind == "" {
		kind = conf.Index
	}
	idx, err := t.index(kind, conf)
	if err != nil {
		return err
	}

	if ns.Bool("open") {
		u := idx.ProjectURL(name)
		t.debug("opening %s", u)
		err = browser.OpenURL(u)
		if err != nil {
			return xerrors.Errorf("failed to open %s: %w", u, err)
		}
	}

	d, err := idx.Fetch(t.context(), name)
	if err != nil {
		return err
	}

	version := ns.Arg(1)
	switch {
	case ns.Bool("source"):
		f, err := d.SourceFile(version)
		if err != nil {
			return err
		}
		if f == nil {
			return xerrors.Errorf("no source archive for %s %s", name, version)
		}
		fmt.Fprintln(t.stdout, f.URL)
	case version != "":
		files, err := d.Release(version)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(t.stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(tw, "file\ttype\turl\n")
		for _, f := range files {
			fmt.Fprintf(tw, "%v\t%v\t%v\n", f.Filename, f.PackageType, f.URL)
		}
		tw.Flush()
	default:
		for _, v := range d.Versions() {
			fmt.Fprintln(t.stdout, v)
		}
	}
	return nil
}
