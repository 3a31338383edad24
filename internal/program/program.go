// Package program provides a small command dispatch framework on top of the
// standard flag package.
//
// A host declares an ordered list of Commands. Each command may carry an
// options configurator, which adds flags to the command's FlagSet, and a
// runner. Commands without a runner are dispatched to the host's RunCommand.
package program

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.coder.com/cli"
	"golang.org/x/xerrors"
)

// RunFunc is the behavior bound into a Namespace.
type RunFunc func(ns *Namespace) error

// Command describes a single subcommand.
type Command struct {
	cli.CommandSpec

	// Options adds command specific flags to fl.
	// root is the program's top level FlagSet.
	Options func(fl, root *flag.FlagSet)
	// Run executes the command.
	// When nil, the host's RunCommand is called with the command name.
	Run func(h Host, ns *Namespace) error
}

// Host is implemented by programs built on this package.
type Host interface {
	// Commands returns the ordered commands of the program.
	// It must not have side effects.
	Commands() []Command
	// RunCommand handles commands that have no runner.
	// name is empty when the program declares no commands.
	RunCommand(name string, ns *Namespace) error
}

// Base provides the default Host behavior and is meant to be embedded.
type Base struct{}

// Commands returns nil.
func (Base) Commands() []Command {
	return nil
}

// RunCommand always fails.
func (b Base) RunCommand(name string, ns *Namespace) error {
	err := &UnhandledCommandError{Name: name}
	if ns != nil {
		err.Program = ns.Program
	}
	return err
}

// UnhandledCommandError is returned when dispatch reaches RunCommand for a
// command the host never handled.
type UnhandledCommandError struct {
	Name    string
	Program string
}

func (e *UnhandledCommandError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: reached default RunCommand with no command", e.Program)
	}
	return fmt.Sprintf("%s: reached default RunCommand for %q", e.Program, e.Name)
}

// Program builds argument schemas for a Host and dispatches parsed invocations.
type Program struct {
	Name  string
	Usage string
	Desc  string
	Host  Host

	// RootOptions adds top level flags.
	RootOptions func(fl *flag.FlagSet)
	// Default is used when commands are declared but none is selected.
	// When nil, usage is printed.
	Default RunFunc

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Program for h writing to the process streams.
func New(name string, h Host) *Program {
	return &Program{
		Name:   name,
		Host:   h,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run parses args and invokes the resolved behavior.
// It returns flag.ErrHelp when help was requested.
func (p *Program) Run(args []string) error {
	ns, err := p.Parse(args)
	if err != nil {
		return err
	}
	return ns.Func(ns)
}

// Parse builds a fresh schema and parses args with it.
func (p *Program) Parse(args []string) (*Namespace, error) {
	s := p.Schema()

	err := s.root.Parse(args)
	if err != nil {
		return nil, usageError(err)
	}

	ns := &Namespace{
		Program: p.Name,
		Root:    s.root,
		Args:    s.root.Args(),
		Func:    s.dflt,
	}

	if len(s.order) == 0 || s.root.NArg() == 0 {
		return ns, nil
	}

	name := s.root.Arg(0)
	ent, ok := s.entries[name]
	if !ok {
		fmt.Fprintf(s.root.Output(), "unknown command %q\n", name)
		s.root.Usage()
		return nil, &UsageError{Err: xerrors.Errorf("%w: %q", ErrUnknownCommand, name)}
	}

	err = ent.flags.Parse(s.root.Args()[1:])
	if err != nil {
		return nil, usageError(err)
	}

	ns.Command = name
	ns.Flags = ent.flags
	ns.Args = ent.flags.Args()
	ns.Func = ent.fn
	return ns, nil
}

// ErrUnknownCommand is returned by Parse for undeclared command names.
var ErrUnknownCommand = xerrors.New("unknown command")

// UsageError is returned by Parse when the arguments do not match the schema.
// Usage has already been printed when it is returned.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// usageError wraps flag errors. flag.ErrHelp is passed through untouched.
func usageError(err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return &UsageError{Err: err}
}

func (p *Program) stdout() io.Writer {
	if p.Stdout == nil {
		return os.Stdout
	}
	return p.Stdout
}

func (p *Program) stderr() io.Writer {
	if p.Stderr == nil {
		return os.Stderr
	}
	return p.Stderr
}
