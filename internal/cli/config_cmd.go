// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Config command implementation for sidebar.
//
// Command: config [subcommand]
// Short:   Show and edit the sidebar configuration
//
// Subcommands:
//   show                Print the effective configuration (file, env, flags)
//   init [--force]      Write the default configuration file
//   path                Print the configuration file path
//   get <key>           Print one value, e.g. model.name
//   set <key> <value>   Change one value in the file
//   keys                List every key
//
// Examples:
//   sidebar config init
//   sidebar config set model.name qwen2.5:3b
//   sidebar config show --json

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-sidebar/internal/config"
)

func newConfigCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit the sidebar configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()
			return writeConfig(cmd.OutOrStdout(), e.cfg, asJSON)
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configTarget(flags)
			if err != nil {
				return err
			}
			if err := initConfig(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", SuccessStyle.Render("[OK]"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configTarget(flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  exactArgs(1, "config get <key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			v, err := e.cfg.Get(args[0])
			if err != nil {
				return &UsageError{Msg: err.Error()}
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one value in the configuration file",
		Args:  exactArgs(2, "config set <key> <value>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configTarget(flags)
			if err != nil {
				return err
			}
			if err := setConfigValue(p, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("[OK]"), args[0], args[1])
			return nil
		},
	}

	keys := &cobra.Command{
		Use:   "keys",
		Short: "List every configuration key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range config.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}

	cmd.AddCommand(show, initCmd, path, get, set, keys)
	return cmd
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{Msg: "usage: sidebar " + usage}
		}
		return nil
	}
}

// configTarget is the file config commands read and write: --config when
// given, else the file Load would read.
func configTarget(flags *globalFlags) (string, error) {
	if flags.configPath != "" {
		return flags.configPath, nil
	}
	p, err := config.ResolvePath()
	if err != nil {
		return "", NewCommandError("config", "path", "cannot locate home directory", err)
	}
	return p, nil
}

// writeConfig prints cfg as TOML, or as JSON when asJSON is set.
func writeConfig(out io.Writer, cfg *config.Config, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}
	return toml.NewEncoder(out).Encode(cfg)
}

// initConfig writes the defaults to path. An existing file is kept unless
// force is set.
func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return NewCommandError("config", "init", path+" already exists (use --force to overwrite)", nil)
	}
	if err := config.Save(config.Default(), path); err != nil {
		return NewCommandError("config", "init", path, err)
	}
	return nil
}

// setConfigValue changes one key in the file at path. Environment
// overrides are not applied, so they never leak into the saved file.
func setConfigValue(path, key, value string) error {
	cfg := config.Default()

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		var err error
		if strings.HasSuffix(strings.ToLower(path), ".json") {
			err = config.LoadJSON(cfg, path)
		} else {
			err = config.LoadTOML(cfg, path)
		}
		if err != nil {
			return NewCommandError("config", "set", "cannot read "+path, err)
		}
	case !errors.Is(statErr, fs.ErrNotExist):
		return NewCommandError("config", "set", "cannot read "+path, statErr)
	}

	if err := cfg.Set(key, value); err != nil {
		return &UsageError{Msg: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return NewCommandError("config", "set", path, err)
	}
	return nil
}
