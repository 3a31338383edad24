package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.coder.com/flog"
	"golang.org/x/xerrors"

	"go.coder.com/projtool/internal/environment"
	"go.coder.com/projtool/internal/program"
)

var _ program.Host = new(tool)

// tool is the projtool program.
type tool struct {
	program.Base
	globalFlags

	// projectDir holds project.ini and the default environment.
	projectDir string
	stdout     io.Writer

	newWorkflow func() *environment.Workflow

	// ctx is canceled when the process is interrupted.
	ctx context.Context

	// projectINI overrides the default project.ini location.
	projectINI string
	meta       projectMeta
}

func newTool() *tool {
	dir := os.Getenv("PROJECT_DIR")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			flog.Fatal("failed to get working directory: %v", err)
		}
		dir = wd
	}
	return &tool{
		projectDir:  dir,
		stdout:      os.Stdout,
		newWorkflow: environment.NewWorkflow,
	}
}

func (t *tool) Commands() []program.Command {
	return []program.Command{
		ensureEnvCommand(t),
		buildCommand(t),
		depsCommand(t),
		versionsCommand(),
		versionCommand(),
	}
}

// RunCommand handles the commands that have no runner of their own.
func (t *tool) RunCommand(name string, ns *program.Namespace) error {
	switch name {
	case "build":
		return t.runBuild(ns)
	default:
		return t.Base.RunCommand(name, ns)
	}
}

func (t *tool) newProgram(name string) *program.Program {
	p := program.New(name, t)
	p.Desc = `Project bootstrapping tooling.
Creates the project's virtual environment and queries package indexes.`
	p.Stdout = t.stdout
	p.RootOptions = t.globalFlags.register
	return p
}

func (t *tool) context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// run parses and executes args.
// -project-ini is read ahead of parsing since the build flags depend on it.
func (t *tool) run(p *program.Program, args []string) error {
	if path, ok := scanFlag(args, "project-ini"); ok {
		t.projectINI = path
	}
	return p.Run(args)
}

// scanFlag returns the value of the string flag name from args without
// parsing them.
func scanFlag(args []string, name string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		arg = strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
		if arg == name && i+1 < len(args) {
			return args[i+1], true
		}
		if strings.HasPrefix(arg, name+"=") {
			return strings.TrimPrefix(arg, name+"="), true
		}
	}
	return "", false
}

// interruptContext returns a context that is canceled on SIGINT or SIGTERM.
// Running children are killed and cleanup runs before the process exits.
func interruptContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-signals:
			flog.Info("exiting, received signal %s", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(signals)
		cancel()
	}
}

func main() {
	name := filepath.Base(os.Args[0])
	t := newTool()
	p := t.newProgram(name)

	if handleAutocomplete(p, os.Args[1:]) {
		return
	}

	ctx, stop := interruptContext()
	t.ctx = ctx

	err := t.run(p, program.ArgsAfter(os.Args, program.BaseNameIs(name)))
	stop()
	os.Exit(exitCode(err))
}

// exitCode reports err and maps it to the process exit code.
func exitCode(err error) int {
	if err == nil || err == flag.ErrHelp {
		return 0
	}

	var usageErr *program.UsageError
	if xerrors.As(err, &usageErr) {
		return 2
	}

	var exitErr *environment.ExitError
	if xerrors.As(err, &exitErr) {
		// The workflow has already reported the failure.
		return exitErr.Code
	}

	flog.Error("%v", err)
	return 1
}
