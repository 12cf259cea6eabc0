// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-sidebar/internal/bridge"
	"github.com/jeranaias/rigrun-sidebar/internal/config"
	"github.com/jeranaias/rigrun-sidebar/internal/lockfile"
	"github.com/jeranaias/rigrun-sidebar/internal/logging"
	"github.com/jeranaias/rigrun-sidebar/internal/ollama"
)

// ToggleClosedMessage is printed when a launch closed the running instance.
const ToggleClosedMessage = "Toggle: Closed existing assistant"

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	model      string
	lockPath   string
	logFile    string
	plain      bool
	debug      bool
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the sidebar command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "sidebar",
		Short: "Toggleable local-LLM assistant overlay",
		Long: `sidebar opens a small assistant overlay backed by a local model run
through the ollama CLI. Launching it again while it is open closes it, so
one hotkey binding works as a show/hide toggle.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()
			return runToggle(cmd.Context(), cmd, e)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.sidebar/config.toml)")
	pf.StringVar(&flags.model, "model", "", "model name passed to `ollama run`")
	pf.StringVar(&flags.lockPath, "lock", "", "pid lock file (default $TMPDIR/"+lockfile.DefaultName+")")
	pf.BoolVar(&flags.plain, "plain", false, "line mode instead of the overlay")
	pf.StringVar(&flags.logFile, "log-file", "", `log file, "-" for stderr (default $TMPDIR/`+logging.DefaultName+")")
	pf.BoolVar(&flags.debug, "debug", false, "debug logging")

	root.AddCommand(
		newAskCommand(flags),
		newDoctorCommand(flags),
		newConfigCommand(flags),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI and exits the process on error. SIGTERM and
// interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
		os.Exit(ExitCodeFor(err))
	}
}

// =============================================================================
// COMMAND ENVIRONMENT
// =============================================================================

// env is the config, logger and paths resolved from flags.
type env struct {
	flags   *globalFlags
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	closer  io.Closer
}

// newEnv loads configuration and sets up logging. A broken config file is
// reported on warn and replaced by defaults, except when it was named
// explicitly with --config.
func newEnv(flags *globalFlags, warn io.Writer) (*env, error) {
	e := &env{flags: flags}

	var err error
	if flags.configPath != "" {
		e.cfgPath = flags.configPath
		e.cfg, err = config.LoadFromPath(flags.configPath)
		if err != nil {
			return nil, NewCommandError("config", "load", flags.configPath, err)
		}
	} else {
		e.cfgPath, _ = config.ResolvePath()
		e.cfg, err = config.Load()
		if e.cfg == nil {
			return nil, NewCommandError("config", "load", "defaults", err)
		}
		if err != nil {
			fmt.Fprintf(warn, "%s %v (using defaults)\n", WarningStyle.Render("[WARN]"), err)
		}
	}
	e.applyFlags()

	logger, closer, logErr := logging.Setup(logging.Options{
		Path:  e.cfg.Log.Path,
		Level: e.cfg.Log.Level,
		Debug: flags.debug,
	})
	if logErr != nil {
		fmt.Fprintf(warn, "%s %v\n", WarningStyle.Render("[WARN]"), logErr)
	}
	e.logger = logger.With("component", "cli")
	e.closer = closer
	return e, nil
}

// applyFlags layers command-line flags over the loaded config.
func (e *env) applyFlags() {
	if e.flags.model != "" {
		e.cfg.Model.Name = e.flags.model
	}
	if e.flags.lockPath != "" {
		e.cfg.Lock.Path = e.flags.lockPath
	}
	if e.flags.logFile != "" {
		e.cfg.Log.Path = e.flags.logFile
	}
	if e.flags.plain {
		e.cfg.UI.Plain = true
	}
}

// Close flushes the log file.
func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// lockPath returns the configured lock file or the default one.
func (e *env) lockPath() string {
	if e.cfg.Lock.Path != "" {
		return e.cfg.Lock.Path
	}
	return lockfile.DefaultPath()
}

// runnerConfig maps the model section onto the runner.
func runnerConfig(cfg *config.Config) ollama.RunnerConfig {
	rc := ollama.DefaultRunnerConfig()
	rc.Command = cfg.Model.Command
	rc.Model = cfg.Model.Name
	rc.Timeout = cfg.Timeout()
	rc.NumThreads = cfg.Model.NumThreads
	rc.KeepAlive = cfg.Model.KeepAlive
	return rc
}

// newBridge builds the runner and the bridge that serializes prompts onto it.
func (e *env) newBridge() (*ollama.Runner, *bridge.Bridge) {
	runner := ollama.NewRunner(runnerConfig(e.cfg), e.logger)
	b := bridge.New(runner, bridge.Options{
		MaxPromptChars: e.cfg.Model.MaxPromptChars,
		Logger:         e.logger,
	})
	return runner, b
}

// reconfigure applies a reloaded config to the runner and bridge. Flag
// overrides keep precedence over the file.
func (e *env) reconfigure(cfg *config.Config, runner *ollama.Runner, b *bridge.Bridge) {
	next := cfg.Clone()
	if e.flags.model != "" {
		next.Model.Name = e.flags.model
	}
	runner.Configure(runnerConfig(next))
	b.SetMaxPromptChars(next.Model.MaxPromptChars)
	e.cfg = next
	e.logger.Info("runner reconfigured", "model", next.Model.Name, "timeout", next.Timeout())
}

// =============================================================================
// TOGGLE
// =============================================================================

// runToggle is the default action: close a running instance, or take the
// lock and run the assistant until it is closed.
func runToggle(ctx context.Context, cmd *cobra.Command, e *env) error {
	lockPath := e.lockPath()

	res, err := lockfile.AcquireOrToggleWith(lockPath, lockfile.Options{Logger: e.logger})
	if res == lockfile.ExitNow {
		fmt.Fprintln(cmd.OutOrStdout(), ToggleClosedMessage)
		return nil
	}
	if err != nil {
		// RELIABILITY: lock trouble never aborts startup.
		e.logger.Warn("running without a recorded pid", "error", err)
	}
	defer func() {
		if err := lockfile.Release(lockPath); err != nil {
			e.logger.Warn("could not release lock", "path", lockPath, "error", err)
		}
	}()

	runner, b := e.newBridge()
	defer b.Close()

	if e.cfg.UI.Plain || !CanRunOverlay() {
		return runREPL(ctx, e, b, cmd.InOrStdin(), cmd.OutOrStdout())
	}
	err = runOverlay(ctx, e, runner, b)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
