package main

import (
	"flag"
	"os"
	"path/filepath"

	"go.coder.com/cli"
	"golang.org/x/xerrors"

	"go.coder.com/projtool/internal/environment"
	"go.coder.com/projtool/internal/program"
)

func ensureEnvCommand(t *tool) program.Command {
	return program.Command{
		CommandSpec: cli.CommandSpec{
			Name:  "ensure_env",
			Usage: "[flags]",
			Desc: `Ensure a virtual environment is created.

If the environment directory already holds a usable environment, nothing is
done. A directory that was initialized but has no bin/activate_this.py is
reported and left alone (exit status 7).

Otherwise a bootstrap environment is created in a temporary directory,
virtualenv is installed into it, and virtualenv creates the environment.

Exit status:
	0   created or already present
	7   incomplete environment found
	11  bootstrap environment or virtualenv install failed
	23  failure before running virtualenv
	31  virtualenv could not be run
	    any other status is forwarded from pip or virtualenv`,
		},
		Options: t.ensureEnvOptions,
		Run:     runEnsureEnv,
	}
}

func (t *tool) ensureEnvOptions(fl, _ *flag.FlagSet) {
	envdir := envOr("ENV_DIR", filepath.Join(t.projectDir, "env"))
	prompt := envOr("VENV_PROMPT", "env")

	var s string
	fl.StringVar(&s, "envdir", envdir, "Directory path for virtual environment. Overrides ENV_DIR.")
	fl.StringVar(&s, "e", envdir, "Shorthand for --envdir.")

	var p string
	fl.StringVar(&p, "prompt", prompt, "Virtual environment prompt string. Overrides VENV_PROMPT.")
	fl.StringVar(&p, "p", prompt, "Shorthand for --prompt.")

	var i string
	fl.StringVar(&i, "pip-opts", "", "Options to pass to pip install.")
	fl.StringVar(&i, "i", "", "Shorthand for --pip-opts.")

	var o string
	fl.StringVar(&o, "virtualenv-opts", "", "Options to pass to virtualenv.")
	fl.StringVar(&o, "o", "", "Shorthand for --virtualenv-opts.")

	fl.String("python", "", "Python interpreter for the bootstrap environment. (default from config, else python3)")
}

func runEnsureEnv(h program.Host, ns *program.Namespace) error {
	t := h.(*tool)

	conf, err := t.config()
	if err != nil {
		return err
	}

	err = t.ensureTmpDir()
	if err != nil {
		return err
	}

	envdir, err := t.envDir(ns, conf)
	if err != nil {
		return err
	}

	cfg := environment.Config{
		Name:        ns.Program,
		EnvDir:      envdir,
		Prompt:      setting(ns, []string{"prompt", "p"}, "VENV_PROMPT", conf.Prompt, "env"),
		TmpDir:      t.tmpdir,
		Python:      setting(ns, []string{"python"}, "", conf.Python, "python3"),
		InstallOpts: setting(ns, []string{"pip-opts", "i"}, "", conf.InstallOpts, ""),
		CreateOpts:  setting(ns, []string{"virtualenv-opts", "o"}, "", conf.CreateOpts, ""),
	}
	t.debug("ensuring environment %+v", cfg)

	w := t.newWorkflow()
	w.Debug = t.debug
	return w.Ensure(t.context(), cfg)
}

// envDir resolves the target environment directory. Values from the command
// line or ENV_DIR are relative to the working directory, env_dir from the
// config is relative to the project directory.
func (t *tool) envDir(ns *program.Namespace, conf config) (string, error) {
	var dir string
	switch {
	case ns.IsSet("envdir", "e"):
		dir = ns.String("envdir")
	case os.Getenv("ENV_DIR") != "":
		dir = os.Getenv("ENV_DIR")
	case conf.EnvDir != "":
		dir = cleanPath(conf.EnvDir)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(t.projectDir, dir)
		}
		return dir, nil
	default:
		return filepath.Join(t.projectDir, "env"), nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", xerrors.Errorf("failed to resolve %s: %w", dir, err)
	}
	return abs, nil
}

// setting resolves a value from the command line, the environment, the config
// file and fallback, in that order.
func setting(ns *program.Namespace, names []string, env, conf, fallback string) string {
	if ns.IsSet(names...) {
		return ns.String(names[0])
	}
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if conf != "" {
		return conf
	}
	return fallback
}

func envOr(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}
