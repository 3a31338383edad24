package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.coder.com/flog"
	"golang.org/x/xerrors"
)

func resolvePath(homedir string, path string) string {
	path = filepath.Clean(path)

	list := strings.Split(path, string(filepath.Separator))

	for i, seg := range list {
		if seg == "~" {
			list[i] = homedir
		}
	}

	if filepath.IsAbs(path) {
		return string(filepath.Separator) + filepath.Join(list...)
	}
	return filepath.Join(list...)
}

func cleanPath(path string) string {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(path)
	}
	return resolvePath(homedir, path)
}

// config describes the projtool.toml.
// Changes to this should be accompanied by changes to DefaultConfig.
type config struct {
	Python      string `toml:"python"`
	EnvDir      string `toml:"env_dir"`
	Prompt      string `toml:"prompt"`
	InstallOpts string `toml:"install_opts"`
	CreateOpts  string `toml:"create_opts"`
	Index       string `toml:"index"`
	IndexURL    string `toml:"index_url"`
}

const DefaultConfig = `# projtool configuration.
# python is the interpreter used to create the bootstrap environment.
python = "python3"

# env_dir is the default virtual environment directory.
# It is resolved against the project directory when relative.
# env_dir = "env"

# prompt is the default virtual environment prompt.
# prompt = "env"

# install_opts are passed to pip install in the bootstrap environment.
install_opts = ""

# create_opts are passed to virtualenv when creating the environment.
# e.g. create_opts = "--python python3.11"
create_opts = ""

# index selects the release index used by the versions command.
# One of "pypi" or "github".
index = "pypi"

# index_url is the base URL of the PyPI compatible index.
index_url = "https://pypi.org"
`

// readConfig reads the config at path, writing DefaultConfig there first if
// nothing exists.
func readConfig(path string) (config, error) {
	var c config
	_, err := toml.DecodeFile(path, &c)
	if err != nil {
		if os.IsNotExist(err) {
			flog.Info("No configuration exists at %v, writing default.", path)

			baseDir := filepath.Dir(path)
			err = os.MkdirAll(baseDir, 0755)
			if err != nil {
				return config{}, xerrors.Errorf("failed to mkdirall %v: %w", baseDir, err)
			}

			err = ioutil.WriteFile(path, []byte(DefaultConfig), 0644)
			if err != nil {
				return config{}, xerrors.Errorf("failed to write default config @ %v: %w", path, err)
			}

			return readConfig(path)
		}
		return config{}, xerrors.Errorf("failed to parse config @ %v: %w", path, err)
	}
	return c, nil
}

// metaRoot returns the directory holding the default config.
func metaRoot() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".projtool")
	}
	return filepath.Join(dir, "projtool")
}
