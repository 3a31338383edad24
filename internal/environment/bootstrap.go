package environment

import (
	"context"
	"os"

	"github.com/google/shlex"
	"go.coder.com/flog"
	"golang.org/x/xerrors"

	"go.coder.com/projtool/internal/xexec"
)

// Config describes the environment to ensure.
type Config struct {
	// Name prefixes the bootstrap directory.
	Name string
	// EnvDir is the target environment directory.
	EnvDir string
	// Prompt is passed to the provisioning tool when set.
	Prompt string
	// TmpDir is the parent of the bootstrap directory and the TMPDIR of
	// child processes. The system default is used when empty.
	TmpDir string
	// Python is the interpreter used for the bootstrap environment.
	Python string
	// InstallOpts are shell-quoted options for pip install.
	InstallOpts string
	// CreateOpts are shell-quoted options for virtualenv.
	CreateOpts string
}

// Workflow ensures an environment exists.
type Workflow struct {
	Exec  xexec.Executor
	Debug func(msg string, args ...interface{})
}

// NewWorkflow returns a Workflow running tools attached to the process streams.
func NewWorkflow() *Workflow {
	return &Workflow{Exec: xexec.Attached{}}
}

func (w *Workflow) debug(msg string, args ...interface{}) {
	if w.Debug != nil {
		w.Debug(msg, args...)
	}
}

// Ensure makes sure a usable environment exists at cfg.EnvDir.
//
// An existing environment is left alone. A directory with a configuration
// marker but no activation marker is reported with CodePartial. Otherwise a
// throwaway bootstrap environment is created, virtualenv is installed into it
// and used to create the target environment. The bootstrap environment is
// removed before Ensure returns, including when ctx is canceled while a
// tool is running. An interrupted step fails with that step's exit code.
//
// Failures are returned as *ExitError.
func (w *Workflow) Ensure(ctx context.Context, cfg Config) error {
	state, err := Probe(cfg.EnvDir)
	if err != nil {
		return xerrors.Errorf("failed to probe %s: %w", cfg.EnvDir, err)
	}
	w.debug("environment %s is %v", cfg.EnvDir, state)

	switch state {
	case Provisioned:
		flog.Info("virtual environment already created: %s", cfg.EnvDir)
		return nil
	case Partial:
		flog.Error("virtual environment exists but %s not found: %s", ActivatePath(cfg.EnvDir), cfg.EnvDir)
		return exitErr(CodePartial, xerrors.Errorf("incomplete environment at %s", cfg.EnvDir))
	}

	return w.bootstrap(ctx, cfg)
}

func (w *Workflow) bootstrap(ctx context.Context, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return exitErr(CodeBootstrap, xerrors.Errorf("bootstrap not started: %w", err))
	}

	prefix := cfg.Name
	if prefix == "" {
		prefix = "bootstrap"
	}
	tmp, err := os.MkdirTemp(cfg.TmpDir, prefix+".")
	if err != nil {
		return exitErr(CodeBootstrap, xerrors.Errorf("failed to create bootstrap dir: %w", err))
	}
	defer func() {
		w.debug("removing bootstrap environment %s", tmp)
		err := os.RemoveAll(tmp)
		if err != nil {
			flog.Error("failed to remove bootstrap environment %s: %v", tmp, err)
		}
	}()

	var env []string
	if cfg.TmpDir != "" {
		env = append(env, "TMPDIR="+cfg.TmpDir)
	}

	python := cfg.Python
	if python == "" {
		python = "python3"
	}

	flog.Info("creating bootstrap environment %s", tmp)
	code, err := w.Exec.Run(ctx, []string{python, "-m", "venv", "--upgrade-deps", tmp}, env)
	if err != nil {
		flog.Error("bootstrap venv creation failed: %v", err)
		return exitErr(CodeBootstrap, err)
	}
	if code != 0 {
		flog.Error("bootstrap venv creation failed, %s exited %d", python, code)
		return exitErr(CodeBootstrap, xerrors.Errorf("venv exited %d", code))
	}

	installOpts, err := shlex.Split(cfg.InstallOpts)
	if err != nil {
		flog.Error("failed to parse pip options %q: %v", cfg.InstallOpts, err)
		return exitErr(CodeBootstrap, err)
	}

	flog.Info("installing virtualenv in bootstrap environment %s", tmp)
	argv := append([]string{Executable(tmp, "pip"), "install"}, installOpts...)
	argv = append(argv, "virtualenv")
	code, err = w.Exec.Run(ctx, argv, env)
	if err != nil {
		flog.Error("failed to install virtualenv: %v", err)
		return exitErr(CodeBootstrap, err)
	}
	if code != 0 {
		flog.Error("failed to install virtualenv, pip install exited %d", code)
		return exitErr(code, xerrors.Errorf("pip install exited %d", code))
	}

	createOpts, err := shlex.Split(cfg.CreateOpts)
	if err != nil {
		flog.Error("failed to parse virtualenv options %q: %v", cfg.CreateOpts, err)
		return exitErr(CodePrepare, err)
	}

	tool := Executable(tmp, "virtualenv")
	_, err = os.Stat(tool)
	if err != nil {
		flog.Error("virtualenv not found in bootstrap environment: %v", err)
		return exitErr(CodePrepare, err)
	}

	argv = []string{tool}
	if cfg.Prompt != "" {
		argv = append(argv, "--prompt", cfg.Prompt)
	}
	argv = append(argv, createOpts...)
	argv = append(argv, cfg.EnvDir)

	flog.Info("creating primary virtual environment in %s", cfg.EnvDir)
	code, err = w.Exec.Run(ctx, argv, env)
	if err != nil {
		flog.Error("failed to create primary virtual environment: %v", err)
		return exitErr(CodeCreate, err)
	}
	if code != 0 {
		flog.Error("virtualenv exited non-zero: %d", code)
		return exitErr(code, xerrors.Errorf("virtualenv exited %d", code))
	}

	flog.Info("created virtualenv environment in %s", cfg.EnvDir)
	return nil
}
