// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Doctor command implementation for sidebar.
//
// Command: doctor
// Short:   Check the model tool, config file and toggle lock
//
// Health Checks Performed:
//   1. Model Tool   - the configured command resolves to an executable
//   2. Config File  - the config file parses and validates
//   3. Toggle Lock  - free, held by a live pid, or stale
//   4. Log File     - where logs are written
//
// Exit Codes:
//   0   All checks passed
//   1   One or more checks failed

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-sidebar/internal/config"
	"github.com/jeranaias/rigrun-sidebar/internal/lockfile"
	"github.com/jeranaias/rigrun-sidebar/internal/logging"
	"github.com/jeranaias/rigrun-sidebar/internal/ollama"
)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	// CheckPass indicates the check passed successfully.
	CheckPass CheckStatus = iota
	// CheckWarn indicates the check passed with warnings.
	CheckWarn
	// CheckFail indicates the check failed.
	CheckFail
)

// String returns the string representation of the check status.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "Pass"
	case CheckWarn:
		return "Warn"
	case CheckFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// Symbol returns the status marker.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return SuccessStyle.Render("[OK]")
	case CheckWarn:
		return WarningStyle.Render("[!!]")
	case CheckFail:
		return ErrorStyle.Render("[FAIL]")
	default:
		return "?"
	}
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // Suggested fix command or instruction
}

// Render returns a formatted string representation of the health check.
func (c *HealthCheck) Render() string {
	result := fmt.Sprintf("%s %s %s", c.Status.Symbol(), LabelStyle.Render(c.Name), ValueStyle.Render(c.Message))
	if c.Status != CheckPass && c.Fix != "" {
		result += "\n" + DimStyle.Render("     -> "+c.Fix)
	}
	return result
}

// =============================================================================
// COMMAND
// =============================================================================

func newDoctorCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"diag"},
		Short:   "Check the model tool, config file and toggle lock",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			checks := []HealthCheck{
				checkModelTool(e.cfg),
				checkConfigFile(e.cfgPath),
				checkLock(e.lockPath(), lockfile.Alive),
				checkLogFile(e.cfg),
			}
			return reportChecks(cmd.OutOrStdout(), checks)
		},
	}
}

// reportChecks prints every check and fails when any of them failed.
func reportChecks(out io.Writer, checks []HealthCheck) error {
	fmt.Fprintln(out, TitleStyle.Render("sidebar doctor"))

	failed := 0
	for i := range checks {
		fmt.Fprintln(out, checks[i].Render())
		if checks[i].Status == CheckFail {
			failed++
		}
	}
	fmt.Fprintln(out)

	if failed > 0 {
		return NewCommandError("doctor", "check", strconv.Itoa(failed)+" check(s) failed", nil)
	}
	fmt.Fprintln(out, DimStyle.Render("All checks passed."))
	return nil
}

// =============================================================================
// CHECKS
// =============================================================================

func checkModelTool(cfg *config.Config) HealthCheck {
	c := HealthCheck{Name: "Model tool"}
	path, err := ollama.FindExecutable(cfg.Model.Command)
	if err != nil {
		c.Status = CheckFail
		c.Message = fmt.Sprintf("%q not found", cfg.Model.Command)
		c.Fix = "Install Ollama from https://ollama.com or set model.command"
		return c
	}
	c.Status = CheckPass
	c.Message = fmt.Sprintf("%s (model %s)", path, cfg.Model.Name)
	return c
}

func checkConfigFile(path string) HealthCheck {
	c := HealthCheck{Name: "Config file"}
	if path == "" {
		c.Status = CheckWarn
		c.Message = "no config directory, using defaults"
		return c
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		c.Status = CheckPass
		c.Message = path + " (not created, using defaults)"
		c.Fix = "sidebar config init"
		return c
	}
	if _, err := config.LoadFromPath(path); err != nil {
		c.Status = CheckFail
		c.Message = err.Error()
		c.Fix = "Fix the file or recreate it with: sidebar config init --force"
		return c
	}
	c.Status = CheckPass
	c.Message = path
	return c
}

// checkLock reports the lock state. A recorded pid that is not alive is
// stale: the next launch will treat it as a toggle-off and exit.
func checkLock(path string, alive func(int) bool) HealthCheck {
	c := HealthCheck{Name: "Toggle lock"}
	pid, ok := lockfile.Holder(path)
	switch {
	case !ok:
		c.Status = CheckPass
		c.Message = path + " (free)"
	case alive(pid):
		c.Status = CheckPass
		c.Message = fmt.Sprintf("%s (held by pid %d)", path, pid)
	default:
		c.Status = CheckWarn
		c.Message = fmt.Sprintf("%s (stale, pid %d is gone)", path, pid)
		c.Fix = "The next launch only clears it; launch again to open the assistant"
	}
	return c
}

func checkLogFile(cfg *config.Config) HealthCheck {
	path := cfg.Log.Path
	if path == "" {
		path = logging.DefaultPath()
	}
	if path == "-" {
		path = "stderr"
	}
	return HealthCheck{
		Name:    "Log file",
		Status:  CheckPass,
		Message: fmt.Sprintf("%s (level %s)", path, cfg.Log.Level),
	}
}
