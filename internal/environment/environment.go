// Package environment provisions virtual environments for a project.
package environment

import (
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/xerrors"
)

// The files that mark an environment directory.
const (
	// ConfigMarker is written when an environment directory is initialized.
	ConfigMarker = "pyvenv.cfg"
	// ActivateMarker is present once the environment is usable.
	ActivateMarker = "activate_this.py"
)

// State describes how far an environment directory has been provisioned.
type State int

const (
	Absent State = iota
	Partial
	Provisioned
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Partial:
		return "partial"
	case Provisioned:
		return "provisioned"
	default:
		return "unknown"
	}
}

// BinDir returns the directory holding executables of the environment at dir.
func BinDir(dir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, "Scripts")
	}
	return filepath.Join(dir, "bin")
}

// Executable returns the path of the named executable inside the environment.
func Executable(dir, name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(BinDir(dir), name)
}

// ActivatePath returns the path of the activation marker for dir.
func ActivatePath(dir string) string {
	return filepath.Join(BinDir(dir), ActivateMarker)
}

// Probe derives the State of dir from the files it contains.
// It is never cached.
func Probe(dir string) (State, error) {
	ok, err := exists(filepath.Join(dir, ConfigMarker))
	if err != nil {
		return Absent, err
	}
	if !ok {
		return Absent, nil
	}

	ok, err = exists(ActivatePath(dir))
	if err != nil {
		return Partial, err
	}
	if !ok {
		return Partial, nil
	}
	return Provisioned, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, xerrors.Errorf("failed to stat %s: %w", path, err)
}
