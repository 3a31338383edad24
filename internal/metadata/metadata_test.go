package metadata

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

const projectINI = `[project]
name = pylaborate.spydy.qt5
version = 1.0.0

[project_classifiers]
lang = Programming Language :: Python :: 3
license = License :: OSI Approved :: BSD License

[common_depends]
packaging = 21.0

[dev_depends]
pytest = 7.0

[build_depends]
PyQt-builder = 1.12
sip = 6.5

[run_depends]
PyQt5 = 5.15.4
`

func writeINI(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "project.ini")
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "project.ini"))
		require.Error(t, err)
		assert.True(t, xerrors.Is(err, ErrLookup))
	})

	t.Run("Get", func(t *testing.T) {
		m, err := Load(writeINI(t, projectINI))
		require.NoError(t, err)

		v, err := m.Get(SectionRun, "PyQt5")
		require.NoError(t, err)
		assert.Equal(t, "5.15.4", v)

		v, err = m.Get(SectionProject, "name")
		require.NoError(t, err)
		assert.Equal(t, "pylaborate.spydy.qt5", v)
	})

	t.Run("MissingKey", func(t *testing.T) {
		m, err := Load(writeINI(t, projectINI))
		require.NoError(t, err)

		_, err = m.Get(SectionRun, "PySide2")
		assert.True(t, xerrors.Is(err, ErrLookup))

		_, err = m.Get("nope", "PyQt5")
		assert.True(t, xerrors.Is(err, ErrLookup))
	})
}

func TestRequirements(t *testing.T) {
	m, err := Load(writeINI(t, projectINI))
	require.NoError(t, err)

	reqs, err := m.Requirements(DependencyGroups(false)...)
	require.NoError(t, err)
	assert.Equal(t, []string{"packaging>=21.0", "pytest>=7.0", "PyQt5>=5.15.4"}, reqs)

	reqs, err = m.Requirements(DependencyGroups(true)...)
	require.NoError(t, err)
	assert.Equal(t, []string{"packaging>=21.0", "pytest>=7.0", "PyQt-builder>=1.12", "sip>=6.5"}, reqs)

	_, err = m.Requirements("missing_depends")
	assert.True(t, xerrors.Is(err, ErrLookup))
}

func TestClassifiers(t *testing.T) {
	m, err := Load(writeINI(t, projectINI))
	require.NoError(t, err)

	cls, err := m.Classifiers()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Programming Language :: Python :: 3",
		"License :: OSI Approved :: BSD License",
	}, cls)
}
