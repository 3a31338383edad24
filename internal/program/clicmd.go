package program

import (
	"flag"

	"go.coder.com/cli"
	"go.coder.com/flog"
)

var _ interface {
	cli.Command
	cli.FlaggedCommand
	cli.ParentCommand
} = new(rootCommand)

var _ cli.FlaggedCommand = new(subcommand)

// Root adapts the program into a go.coder.com/cli command tree.
// The returned command can be passed to cli.RunRoot or walked for completion.
func (p *Program) Root() cli.Command {
	return &rootCommand{p: p, s: p.Schema()}
}

type rootCommand struct {
	p *Program
	s *Schema
}

func (r *rootCommand) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  r.p.Name,
		Usage: r.p.Usage,
		Desc:  r.p.Desc,
	}
}

func (r *rootCommand) RegisterFlags(fl *flag.FlagSet) {
	if r.p.RootOptions != nil {
		r.p.RootOptions(fl)
	}
}

func (r *rootCommand) Subcommands() []cli.Command {
	cmds := make([]cli.Command, 0, len(r.s.order))
	for _, name := range r.s.order {
		cmds = append(cmds, &subcommand{p: r.p, cmd: r.s.entries[name].cmd})
	}
	return cmds
}

func (r *rootCommand) Run(fl *flag.FlagSet) {
	run(&Namespace{
		Program: r.p.Name,
		Root:    fl,
		Args:    fl.Args(),
		Func:    r.s.dflt,
	})
}

type subcommand struct {
	p   *Program
	cmd Command
}

func (c *subcommand) Spec() cli.CommandSpec {
	return c.cmd.CommandSpec
}

func (c *subcommand) RegisterFlags(fl *flag.FlagSet) {
	if c.cmd.Options != nil {
		// Top level flags are registered by the root command.
		c.cmd.Options(fl, flag.NewFlagSet(c.p.Name, flag.ContinueOnError))
	}
}

func (c *subcommand) Run(fl *flag.FlagSet) {
	run(&Namespace{
		Program: c.p.Name,
		Command: c.cmd.Name,
		Flags:   fl,
		Args:    fl.Args(),
		Func:    c.p.bind(c.cmd),
	})
}

func run(ns *Namespace) {
	err := ns.Func(ns)
	if err != nil {
		flog.Fatal("%v", err)
	}
}
