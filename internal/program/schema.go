package program

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Schema is the set of flag sets built for one parse.
type Schema struct {
	root    *flag.FlagSet
	order   []string
	entries map[string]*entry
	dflt    RunFunc
}

type entry struct {
	cmd   Command
	flags *flag.FlagSet
	fn    RunFunc
}

// Root returns the top level FlagSet.
func (s *Schema) Root() *flag.FlagSet {
	return s.root
}

// Command returns the FlagSet registered for name.
func (s *Schema) Command(name string) (*flag.FlagSet, bool) {
	ent, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	return ent.flags, true
}

// Names returns the command names in declaration order.
func (s *Schema) Names() []string {
	return append([]string(nil), s.order...)
}

// Schema builds the argument schema for the program.
// It panics if the host declares the same command name twice.
func (p *Program) Schema() *Schema {
	s := &Schema{
		root:    flag.NewFlagSet(p.Name, flag.ContinueOnError),
		entries: make(map[string]*entry),
	}
	s.root.SetOutput(p.stderr())
	s.root.Usage = func() {
		p.printUsage(s.root.Output(), s)
	}
	if p.RootOptions != nil {
		p.RootOptions(s.root)
	}

	for _, cmd := range p.Host.Commands() {
		if _, exists := s.entries[cmd.Name]; exists {
			panic(fmt.Sprintf("command %s already registered", cmd.Name))
		}
		s.entries[cmd.Name] = p.defineCommand(cmd, s.root)
		s.order = append(s.order, cmd.Name)
	}

	s.dflt = p.globalDefault(s)
	return s
}

func (p *Program) defineCommand(cmd Command, root *flag.FlagSet) *entry {
	fl := flag.NewFlagSet(p.Name+" "+cmd.Name, flag.ContinueOnError)
	fl.SetOutput(p.stderr())
	fl.Usage = func() {
		printCommandUsage(fl.Output(), p.Name, cmd, fl)
	}
	if cmd.Options != nil {
		cmd.Options(fl, root)
	}
	return &entry{
		cmd:   cmd,
		flags: fl,
		fn:    p.bind(cmd),
	}
}

// bind resolves the behavior for cmd once, at schema construction.
func (p *Program) bind(cmd Command) RunFunc {
	h := p.Host
	if cmd.Run != nil {
		run := cmd.Run
		return func(ns *Namespace) error {
			return run(h, ns)
		}
	}
	name := cmd.Name
	return func(ns *Namespace) error {
		return h.RunCommand(name, ns)
	}
}

func (p *Program) globalDefault(s *Schema) RunFunc {
	h := p.Host
	if len(s.order) == 0 {
		return func(ns *Namespace) error {
			return h.RunCommand("", ns)
		}
	}
	if p.Default != nil {
		return p.Default
	}
	return func(ns *Namespace) error {
		p.printUsage(p.stdout(), s)
		return nil
	}
}

func (p *Program) printUsage(w io.Writer, s *Schema) {
	usage := p.Usage
	if usage == "" {
		usage = "[GLOBAL FLAGS] COMMAND [COMMAND FLAGS] [ARGS...]"
		if len(s.order) == 0 {
			usage = "[FLAGS] [ARGS...]"
		}
	}
	fmt.Fprintf(w, "Usage: %s %s\n", p.Name, usage)
	if p.Desc != "" {
		fmt.Fprintf(w, "\n%s\n", p.Desc)
	}

	if len(s.order) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		for _, name := range s.order {
			fmt.Fprintf(tw, "\t%s\t%s\n", name, shortDesc(s.entries[name].cmd.Desc))
		}
		tw.Flush()
	}

	if hasFlags(s.root) {
		fmt.Fprintf(w, "\nFlags:\n")
		printDefaults(w, s.root)
	}
}

func printCommandUsage(w io.Writer, prog string, cmd Command, fl *flag.FlagSet) {
	usage := cmd.Usage
	if usage == "" {
		usage = "[flags]"
	}
	fmt.Fprintf(w, "Usage: %s %s %s\n", prog, cmd.Name, usage)
	if cmd.Desc != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Desc)
	}
	if hasFlags(fl) {
		fmt.Fprintf(w, "\n%s flags:\n", cmd.Name)
		printDefaults(w, fl)
	}
}

func printDefaults(w io.Writer, fl *flag.FlagSet) {
	out := fl.Output()
	fl.SetOutput(w)
	fl.PrintDefaults()
	fl.SetOutput(out)
}

func hasFlags(fl *flag.FlagSet) bool {
	var n int
	fl.VisitAll(func(*flag.Flag) { n++ })
	return n > 0
}

func shortDesc(desc string) string {
	return strings.SplitN(strings.TrimSpace(desc), "\n", 2)[0]
}
