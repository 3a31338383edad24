// Package metadata reads the project.ini file describing a project's
// packaging metadata and dependency groups.
package metadata

import (
	"fmt"
	"os"

	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

// Well known sections.
const (
	SectionProject     = "project"
	SectionClassifiers = "project_classifiers"
	SectionCommon      = "common_depends"
	SectionDev         = "dev_depends"
	SectionBuild       = "build_depends"
	SectionRun         = "run_depends"
)

// ErrLookup is returned for missing files, sections and keys.
var ErrLookup = xerrors.New("metadata lookup failed")

// Metadata is a parsed project.ini.
type Metadata struct {
	path string
	file *ini.File
}

// Load parses the file at path.
func Load(path string) (*Metadata, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, xerrors.Errorf("%w: %s does not exist", ErrLookup, path)
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		// Keys are package names; keep their case.
		Insensitive: false,
	}, path)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse %s: %w", path, err)
	}
	return &Metadata{path: path, file: f}, nil
}

// Path returns the file the metadata was loaded from.
func (m *Metadata) Path() string {
	return m.path
}

func (m *Metadata) section(name string) (*ini.Section, error) {
	sec, err := m.file.GetSection(name)
	if err != nil {
		return nil, xerrors.Errorf("%w: no section [%s] in %s", ErrLookup, name, m.path)
	}
	return sec, nil
}

// Get returns the value of key in section.
func (m *Metadata) Get(section, key string) (string, error) {
	sec, err := m.section(section)
	if err != nil {
		return "", err
	}
	if !sec.HasKey(key) {
		return "", xerrors.Errorf("%w: no key %q in [%s] of %s", ErrLookup, key, section, m.path)
	}
	return sec.Key(key).String(), nil
}

// Section returns the keys and values of a section in file order.
func (m *Metadata) Section(name string) ([]Entry, error) {
	sec, err := m.section(name)
	if err != nil {
		return nil, err
	}
	keys := sec.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k.Name(), Value: k.String()})
	}
	return entries, nil
}

// Entry is a single key of a section.
type Entry struct {
	Key   string
	Value string
}

// Classifiers returns the values of the classifiers section.
func (m *Metadata) Classifiers() ([]string, error) {
	entries, err := m.Section(SectionClassifiers)
	if err != nil {
		return nil, err
	}
	cls := make([]string, 0, len(entries))
	for _, e := range entries {
		cls = append(cls, e.Value)
	}
	return cls, nil
}

// DependencyGroups returns the dependency sections for a build from source
// or for a binary install.
func DependencyGroups(fromSource bool) []string {
	last := SectionRun
	if fromSource {
		last = SectionBuild
	}
	return []string{SectionCommon, SectionDev, last}
}

// Requirements returns "name>=version" specifiers for every key of the given
// sections. A missing section is a lookup failure.
func (m *Metadata) Requirements(groups ...string) ([]string, error) {
	var reqs []string
	for _, g := range groups {
		entries, err := m.Section(g)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			reqs = append(reqs, fmt.Sprintf("%s>=%s", e.Key, e.Value))
		}
	}
	return reqs, nil
}
