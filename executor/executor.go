// Package executor stages in-memory file content onto the real file system
// and runs it as an external process. This is the only place in the module
// with platform-conditional behavior; the tree core stays free of process
// and permission concerns.
package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/camresh/emfs"
	"github.com/camresh/emfs/config"
	"github.com/camresh/emfs/internal/util"
)

// Local implements [emfs.Executor] against the host OS: content is written
// into a fresh staging directory under cfg.ExecDir (the OS temp dir when
// unset), made executable, run synchronously from that directory, and the
// staging directory is removed afterwards unless cfg.KeepStaged is set.
//
// Inability to stage or launch is reported as ErrExecFailed; a process that
// ran and exited non-zero is a successful call returning its exit code.
type Local struct {
	cfg *config.Config
}

// NewLocal creates a Local executor. A nil cfg falls back to defaults.
func NewLocal(cfg *config.Config) *Local {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Local{cfg: cfg}
}

// Execute stages content under the suggested base name and runs it.
// Stdout and stderr are inherited from the calling process.
func (l *Local) Execute(name string, content []byte) (int, error) {
	logger := util.GetLogger("Executor")

	stageRoot := l.cfg.ExecDir
	if stageRoot == "" {
		stageRoot = os.TempDir()
	}
	stageDir := filepath.Join(stageRoot, "emfs-"+uuid.NewString())
	if err := os.MkdirAll(stageDir, 0o700); err != nil {
		return -1, emfs.NewError(emfs.ErrExecFailed, "failed to create staging directory: "+err.Error(), name)
	}
	if !l.cfg.KeepStaged {
		defer func() {
			if err := os.RemoveAll(stageDir); err != nil {
				logger.Warn().Err(err).Str("dir", stageDir).Msg("Failed to clean staging directory")
			}
		}()
	}

	stagePath := filepath.Join(stageDir, runnableName(name))
	if err := os.WriteFile(stagePath, content, 0o755); err != nil {
		return -1, emfs.NewError(emfs.ErrExecFailed, "failed to stage file: "+err.Error(), name)
	}

	ctx := context.Background()
	if l.cfg.ExecTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(l.cfg.ExecTimeout*float64(time.Second)))
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, stagePath)
	cmd.Dir = stageDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Debug().Str("name", name).Str("dir", stageDir).Msg("Running staged file")
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// the process ran; its exit code is the caller's result
			return exitErr.ExitCode(), nil
		}
		return -1, emfs.NewError(emfs.ErrExecFailed, "failed to launch: "+err.Error(), name)
	}
	return cmd.ProcessState.ExitCode(), nil
}

// runnableName adapts the suggested name to what the host can launch
// directly. Windows needs an executable extension; everything else runs
// under whatever name the tree stored.
func runnableName(name string) string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		return name + ".exe"
	}
	return name
}
