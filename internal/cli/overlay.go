// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-sidebar/internal/bridge"
	"github.com/jeranaias/rigrun-sidebar/internal/config"
	"github.com/jeranaias/rigrun-sidebar/internal/ollama"
	"github.com/jeranaias/rigrun-sidebar/internal/ui/chat"
	"github.com/jeranaias/rigrun-sidebar/internal/ui/styles"
)

// runOverlay runs the full-screen chat overlay until the user closes it
// or ctx is canceled by a termination signal.
func runOverlay(ctx context.Context, e *env, runner *ollama.Runner, b *bridge.Bridge) error {
	m := chat.New(chat.Options{
		Bridge:    b,
		Theme:     styles.NewTheme(e.cfg.UI.Theme),
		ModelName: e.cfg.Model.Name,
		Markdown:  e.cfg.UI.Markdown,
		MaxWidth:  e.cfg.UI.Width,
		Apply: func(cfg *config.Config) {
			e.reconfigure(cfg, runner, b)
		},
		Logger: e.logger,
	})

	// Lives until the overlay quits.
	bg, stop := context.WithCancel(m.BackgroundContext())
	defer stop()

	p := tea.NewProgram(m, tea.WithAltScreen())

	// A toggle-off launch delivers SIGTERM, which cancels ctx.
	go func() {
		select {
		case <-ctx.Done():
			e.logger.Info("termination requested")
			p.Send(chat.ShutdownMsg{Reason: "signal"})
		case <-bg.Done():
		}
	}()

	if e.cfgPath != "" {
		go func() {
			err := config.Watch(bg, e.cfgPath, func(cfg *config.Config, err error) {
				p.Send(chat.ConfigReloadedMsg{Config: cfg, Err: err})
			})
			if err != nil {
				e.logger.Debug("config watch disabled", "path", e.cfgPath, "error", err)
			}
		}()
	}

	e.logger.Info("overlay started", "model", e.cfg.Model.Name)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	e.logger.Info("overlay closed")
	return nil
}
