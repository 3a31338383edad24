package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_resolvePath(t *testing.T) {
	type args struct {
		homedir string
		path    string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{"Abs", args{"/home/ammar", "/home/ammar/test"}, "/home/ammar/test"},
		{"Tilde", args{"/home/ammar", "~/Projects/env"}, "/home/ammar/Projects/env"},
		{"Relative", args{"/home/ammar", "env"}, "env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvePath(tt.args.homedir, tt.args.path); got != tt.want {
				t.Errorf("resolvePath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_readConfig(t *testing.T) {
	t.Run("WritesDefault", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "projtool.toml")

		c, err := readConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "python3", c.Python)
		assert.Equal(t, "pypi", c.Index)
		assert.Equal(t, "https://pypi.org", c.IndexURL)

		byt, err := ioutil.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig, string(byt))
	})

	t.Run("Existing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "projtool.toml")
		require.NoError(t, ioutil.WriteFile(path, []byte(`
python = "/opt/python/bin/python3"
env_dir = "venv"
create_opts = "--python python3.11"
`), 0644))

		c, err := readConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/opt/python/bin/python3", c.Python)
		assert.Equal(t, "venv", c.EnvDir)
		assert.Equal(t, "--python python3.11", c.CreateOpts)
		assert.Equal(t, "", c.Index)
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "projtool.toml")
		require.NoError(t, ioutil.WriteFile(path, []byte("python = "), 0644))

		_, err := readConfig(path)
		require.Error(t, err)
	})
}
