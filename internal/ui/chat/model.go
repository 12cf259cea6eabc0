// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-sidebar/internal/bridge"
	"github.com/jeranaias/rigrun-sidebar/internal/config"
	"github.com/jeranaias/rigrun-sidebar/internal/model"
	"github.com/jeranaias/rigrun-sidebar/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// Placeholder shown in the empty input.
	Placeholder = "Type your question here..."

	// ThinkingText is the processing indicator appended after a prompt.
	ThinkingText = "🤔 Processing your request..."

	// Labels of the send affordance.
	SendLabel = "Send"
	BusyLabel = "..."

	// Rows taken below the chat log: bordered input (3) and hint line (1).
	inputRows = 3
	hintRows  = 1

	minLogRows = 3
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures a chat Model.
type Options struct {
	// Bridge receives every submitted prompt. Required.
	Bridge *bridge.Bridge
	// Theme styles the overlay. Nil means styles.NewTheme("auto").
	Theme *styles.Theme
	// ModelName is shown in the hint line.
	ModelName string
	// Markdown renders successful replies through glamour.
	Markdown bool
	// MaxWidth caps the overlay width in columns. Zero means full width.
	MaxWidth int
	// Apply receives reloaded configs between requests, so the caller can
	// reconfigure the runner and bridge.
	Apply func(*config.Config)
	// Logger receives UI events. Nil means slog.Default().
	Logger *slog.Logger
}

// Model is the Bubble Tea model of the overlay.
type Model struct {
	bridge *bridge.Bridge
	theme  *styles.Theme
	keyMap KeyMap
	logger *slog.Logger

	// Dimensions
	width    int
	height   int
	maxWidth int
	ready    bool

	// Chat log
	transcript *model.Transcript

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model

	// Request state mirrored from the bridge for rendering
	processing bool
	current    bridge.Request

	// Settings
	modelName     string
	markdown      bool
	renderer      *markdownRenderer
	apply         func(*config.Config)
	pendingConfig *config.Config
	statusMsg     string

	quitting  bool
	cancelMgr *cancelManager // Pointer to avoid copying mutex during Bubble Tea updates
}

// New creates the overlay model.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = Placeholder
	ti.Focus()

	vp := viewport.New(60, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.DotsSpinner.Frames,
		FPS:    styles.DotsSpinner.Duration(),
	}

	return Model{
		bridge:     opts.Bridge,
		theme:      theme,
		keyMap:     DefaultKeyMap(),
		logger:     logger.With("component", "ui"),
		maxWidth:   opts.MaxWidth,
		transcript: model.NewTranscript(),
		viewport:   vp,
		input:      ti,
		spinner:    sp,
		help:       help.New(),
		modelName:  opts.ModelName,
		markdown:   opts.Markdown,
		apply:      opts.Apply,
		cancelMgr:  newCancelManager(),
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ResponseMsg:
		return m.handleResponse(msg)

	case spinner.TickMsg:
		if !m.processing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh(false)
		return m, cmd

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg), nil

	case ShutdownMsg:
		m.logger.Info("closing overlay", "reason", msg.Reason)
		return m.quit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the overlay.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	return m.renderOverlay()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	width := msg.Width
	if m.maxWidth > 0 && width > m.maxWidth {
		width = m.maxWidth
	}
	m.width = width
	m.height = msg.Height
	m.theme.SetSize(width, msg.Height)

	logRows := msg.Height - inputRows - hintRows
	if logRows < minLogRows {
		logRows = minLogRows
	}
	m.viewport.Width = width
	m.viewport.Height = logRows

	// Input box border and padding take 4 columns, the button the rest.
	m.input.Width = width - 4 - lipgloss.Width(m.theme.SendButton.Render(SendLabel)) - 1
	if m.input.Width < 10 {
		m.input.Width = 10
	}

	m.renderer = newMarkdownRenderer(m.bubbleTextWidth(), m.theme.IsDark)
	m.ready = true
	m.refresh(true)
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Close):
		return m.quit()

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.LineUp):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.LineDown):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keyMap.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit forwards the input to the bridge. While a request is in
// flight the bridge refuses the prompt and the input is left untouched.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" || m.processing {
		return m, nil
	}

	req, ok := m.bridge.Submit(query)
	if !ok {
		return m, nil
	}

	m.transcript.AddUser(query)
	m.input.Reset()
	m.processing = true
	m.current = req
	m.statusMsg = ""
	if req.Truncated {
		m.statusMsg = "Long question shortened before sending"
	}
	m.refresh(true)

	return m, tea.Batch(WaitForResponse(m.bridge), m.spinner.Tick)
}

func (m Model) handleResponse(msg ResponseMsg) (tea.Model, tea.Cmd) {
	if msg.Closed {
		m.processing = false
		return m, nil
	}

	resp, ok := m.bridge.Complete(msg.Response)
	if !ok {
		if m.processing {
			return m, WaitForResponse(m.bridge)
		}
		return m, nil
	}

	m.transcript.AddReply(resp.Reply)
	m.logger.Debug("reply rendered",
		"request_id", m.current.ID,
		"kind", resp.Kind.String(),
		"wait", time.Since(m.current.SubmittedAt))
	m.processing = false
	m.current = bridge.Request{}
	if m.pendingConfig != nil {
		m.applyConfig(m.pendingConfig)
		m.pendingConfig = nil
	}
	m.refresh(true)
	m.input.Focus()
	return m, nil
}

// handleConfigReloaded applies a reloaded config between requests. During
// a request it is parked and applied when the reply arrives.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) Model {
	if msg.Err != nil {
		m.logger.Warn("config reload failed", "error", msg.Err)
		m.statusMsg = "Config not reloaded: " + firstLine(msg.Err.Error())
		return m
	}
	if msg.Config == nil {
		return m
	}
	if m.processing {
		m.pendingConfig = msg.Config
		return m
	}
	m.applyConfig(msg.Config)
	m.refresh(false)
	return m
}

func (m *Model) applyConfig(cfg *config.Config) {
	if m.apply != nil {
		m.apply(cfg)
	}
	m.modelName = cfg.Model.Name
	m.markdown = cfg.UI.Markdown
	m.statusMsg = "Config reloaded"
	m.logger.Info("config applied", "model", cfg.Model.Name, "timeout_secs", cfg.Model.TimeoutSecs)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.stopBackground()
	if m.bridge != nil {
		m.bridge.Cancel()
	}
	return m, tea.Quit
}

// refresh re-renders the chat log. follow scrolls to the bottom; without
// it the view only sticks to the bottom if it was already there.
func (m *Model) refresh(follow bool) {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderLog())
	if follow || atBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Processing reports whether a prompt is awaiting its reply.
func (m Model) Processing() bool {
	return m.processing
}

// Transcript returns the chat log.
func (m Model) Transcript() *model.Transcript {
	return m.transcript
}

// ModelName returns the model shown in the hint line.
func (m Model) ModelName() string {
	return m.modelName
}

// Status returns the transient status line, if any.
func (m Model) Status() string {
	return m.statusMsg
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// SetInputValue replaces the input text.
func (m *Model) SetInputValue(s string) {
	m.input.SetValue(s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
