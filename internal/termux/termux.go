// Package termux wraps the termux-api command line tools.
package termux

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/banktotal-dev/banktotal/internal/model"
)

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands as subprocesses.
type ExecRunner struct{}

// Run executes name with args. The process is killed when ctx is done.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s: %w", filepath.Base(name), bytes.TrimSpace(exitErr.Stderr), err)
		}
		return nil, fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return out, nil
}

// Timeouts bound each termux-api call.
type Timeouts struct {
	SMS              time.Duration
	NotificationList time.Duration
	Publish          time.Duration
}

// Client calls termux-api tools installed in a bin directory.
type Client struct {
	bin      string
	runner   Runner
	timeouts Timeouts
}

// NewClient creates a Client for tools in bin.
func NewClient(bin string, runner Runner, timeouts Timeouts) *Client {
	return &Client{bin: bin, runner: runner, timeouts: timeouts}
}

// ListSMS returns up to limit messages from folder, oldest first.
func (c *Client) ListSMS(ctx context.Context, limit int, folder string) ([]model.Message, error) {
	out, err := c.run(ctx, c.timeouts.SMS, "termux-sms-list", "-l", strconv.Itoa(limit), "-t", folder)
	if err != nil {
		return nil, err
	}
	var msgs []model.Message
	if err := decode(out, &msgs); err != nil {
		return nil, fmt.Errorf("parsing sms list: %w", err)
	}
	return msgs, nil
}

// ListNotifications returns the active notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	out, err := c.run(ctx, c.timeouts.NotificationList, "termux-notification-list")
	if err != nil {
		return nil, err
	}
	var notifs []model.Notification
	if err := decode(out, &notifs); err != nil {
		return nil, fmt.Errorf("parsing notification list: %w", err)
	}
	return notifs, nil
}

// Notify shows n, replacing any notification with the same ID.
func (c *Client) Notify(ctx context.Context, n Notification) error {
	if _, err := c.run(ctx, c.timeouts.Publish, "termux-notification", n.Args()...); err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, timeout time.Duration, tool string, args ...string) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.runner.Run(ctx, filepath.Join(c.bin, tool), args...)
}

func decode(out []byte, v any) error {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return errors.New("empty output")
	}
	return json.Unmarshal(out, v)
}
