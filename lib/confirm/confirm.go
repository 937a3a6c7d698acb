// Package confirm implements the single pending yes/no confirmation dialog.
//
// The dialog is either closed or open. While open, HandleConfirm runs the
// attached action with the processing flag set. A failed action leaves the
// dialog open so the user can retry or cancel; the action itself is
// expected to report the failure through a notification.
package confirm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Type is the visual style of the dialog.
type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeDanger  Type = "danger"
	TypeSuccess Type = "success"
)

// Default button labels.
const (
	DefaultConfirmText = "Confirm"
	DefaultCancelText  = "Cancel"
)

// Config describes one confirmation.
type Config struct {
	Title       string
	Message     string
	Type        Type
	ConfirmText string
	CancelText  string
	OnConfirm   func(ctx context.Context) error
	OnCancel    func()
}

// State is a snapshot of the dialog for rendering.
type State struct {
	Open        bool
	Processing  bool
	Title       string
	Message     string
	Type        Type
	ConfirmText string
	CancelText  string
}

// Controller owns one dialog. Opening a new confirmation replaces the
// previous one.
type Controller struct {
	mu         sync.Mutex
	cfg        Config
	open       bool
	processing bool
	gen        uint64
	logger     *slog.Logger
}

// New creates a closed dialog. A nil logger means slog.Default().
func New(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{logger: logger}
}

// Confirm opens the dialog with cfg, filling in default labels and type.
func (c *Controller) Confirm(cfg Config) {
	if cfg.ConfirmText == "" {
		cfg.ConfirmText = DefaultConfirmText
	}
	if cfg.CancelText == "" {
		cfg.CancelText = DefaultCancelText
	}
	if cfg.Type == "" {
		cfg.Type = TypeInfo
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.cfg = cfg
	c.open = true
	c.processing = false
}

// ConfirmDelete opens a danger dialog asking to delete name.
func (c *Controller) ConfirmDelete(name string, onConfirm func(ctx context.Context) error) {
	c.Confirm(Config{
		Title:     "Delete item",
		Message:   fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", name),
		Type:      TypeDanger,
		OnConfirm: onConfirm,
	})
}

// ConfirmDisable opens a danger dialog asking to disable name.
func (c *Controller) ConfirmDisable(name string, onConfirm func(ctx context.Context) error) {
	c.Confirm(Config{
		Title:     "Disable item",
		Message:   fmt.Sprintf("Are you sure you want to disable %q?", name),
		Type:      TypeDanger,
		OnConfirm: onConfirm,
	})
}

// HandleConfirm runs the pending action. Without an action the dialog just
// closes. On success the dialog closes; on failure it stays open with
// processing cleared, and the error is logged and returned.
//
// Calls while an action is already running are ignored.
func (c *Controller) HandleConfirm(ctx context.Context) error {
	c.mu.Lock()
	if !c.open || c.processing {
		c.mu.Unlock()
		return nil
	}
	fn := c.cfg.OnConfirm
	if fn == nil {
		c.closeLocked()
		c.mu.Unlock()
		return nil
	}
	c.processing = true
	gen := c.gen
	title := c.cfg.Title
	c.mu.Unlock()

	err := fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// replaced or closed while running
		return err
	}
	c.processing = false
	if err != nil {
		c.logger.Error("confirm action failed", "title", title, "err", err)
		return err
	}
	c.closeLocked()
	return nil
}

// HandleCancel runs the cancel callback, if any, and closes the dialog.
func (c *Controller) HandleCancel() {
	c.mu.Lock()
	fn := c.cfg.OnCancel
	c.mu.Unlock()

	if fn != nil {
		fn()
	}

	c.mu.Lock()
	c.closeLocked()
	c.mu.Unlock()
}

// Close dismisses the dialog without running any callback.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	c.gen++
	c.open = false
	c.processing = false
	c.cfg = Config{}
}

// State returns a snapshot of the dialog.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Open:        c.open,
		Processing:  c.processing,
		Title:       c.cfg.Title,
		Message:     c.cfg.Message,
		Type:        c.cfg.Type,
		ConfirmText: c.cfg.ConfirmText,
		CancelText:  c.cfg.CancelText,
	}
}

// IsOpen reports whether a confirmation is pending.
func (c *Controller) IsOpen() bool {
	return c.State().Open
}
