package program

import (
	"flag"
	"path/filepath"
)

// Namespace is the result of parsing one invocation.
type Namespace struct {
	// Program is the name of the owning program.
	Program string
	// Command is the selected command, or empty.
	Command string

	Root  *flag.FlagSet
	Flags *flag.FlagSet
	// Args are the positional arguments left after flag parsing.
	Args []string

	// Func is the resolved behavior. It is never nil after a successful parse.
	Func RunFunc
}

// Lookup finds a flag by name, preferring command flags over top level flags.
func (ns *Namespace) Lookup(name string) (*flag.Flag, bool) {
	for _, fl := range []*flag.FlagSet{ns.Flags, ns.Root} {
		if fl == nil {
			continue
		}
		if f := fl.Lookup(name); f != nil {
			return f, true
		}
	}
	return nil, false
}

// IsSet reports whether any of the named flags was given on the command line.
func (ns *Namespace) IsSet(names ...string) bool {
	var set bool
	for _, fl := range []*flag.FlagSet{ns.Flags, ns.Root} {
		if fl == nil {
			continue
		}
		fl.Visit(func(f *flag.Flag) {
			for _, name := range names {
				if f.Name == name {
					set = true
				}
			}
		})
	}
	return set
}

// String returns the value of a flag, or the empty string if it is undefined.
func (ns *Namespace) String(name string) string {
	f, ok := ns.Lookup(name)
	if !ok {
		return ""
	}
	return f.Value.String()
}

// Bool returns the value of a boolean flag.
func (ns *Namespace) Bool(name string) bool {
	f, ok := ns.Lookup(name)
	if !ok {
		return false
	}
	if g, ok := f.Value.(flag.Getter); ok {
		b, _ := g.Get().(bool)
		return b
	}
	return f.Value.String() == "true"
}

// Arg returns the i'th positional argument or the empty string.
func (ns *Namespace) Arg(i int) string {
	if i < 0 || i >= len(ns.Args) {
		return ""
	}
	return ns.Args[i]
}

// ArgsAfter returns the elements of args after the first one for which match
// returns true. If nothing matches, args[1:] is returned.
func ArgsAfter(args []string, match func(arg string) bool) []string {
	for i, arg := range args {
		if match(arg) {
			return args[i+1:]
		}
	}
	if len(args) == 0 {
		return nil
	}
	return args[1:]
}

// BaseNameIs matches arguments whose base name is name.
func BaseNameIs(name string) func(string) bool {
	return func(arg string) bool {
		return filepath.Base(arg) == name
	}
}
