// Package collect gathers raw messages and notifications for one run.
package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/banktotal-dev/banktotal/internal/model"
)

// Device lists SMS messages and active notifications.
type Device interface {
	ListSMS(ctx context.Context, limit int, folder string) ([]model.Message, error)
	ListNotifications(ctx context.Context) ([]model.Notification, error)
}

// Options configures what is collected.
type Options struct {
	SMSLimit    int
	SMSFolder   string
	CapturedLog string
}

// Batch holds everything collected in one run.
type Batch struct {
	SMS           []model.Message // oldest first
	Captured      []model.Message // file order
	Notifications []model.Notification
}

// Collector reads every source. A failing source contributes nothing.
type Collector struct {
	device Device
	opts   Options
	log    *zap.Logger
}

// New creates a Collector.
func New(device Device, opts Options, log *zap.Logger) *Collector {
	return &Collector{device: device, opts: opts, log: log}
}

// Collect reads the SMS inbox, the captured-message log and the active
// notifications. It never fails; errors are logged and the source is
// treated as empty.
func (c *Collector) Collect(ctx context.Context) Batch {
	var b Batch

	sms, err := c.device.ListSMS(ctx, c.opts.SMSLimit, c.opts.SMSFolder)
	if err != nil {
		c.log.Warn("sms list unavailable", zap.Error(err))
	} else {
		b.SMS = sms
	}

	captured, skipped, err := ReadCaptured(c.opts.CapturedLog)
	if err != nil {
		c.log.Warn("captured log unavailable", zap.String("path", c.opts.CapturedLog), zap.Error(err))
	} else {
		b.Captured = captured
	}
	if skipped > 0 {
		c.log.Warn("skipped captured log entries", zap.String("path", c.opts.CapturedLog), zap.Int("skipped", skipped))
	}

	notifs, err := c.device.ListNotifications(ctx)
	if err != nil {
		c.log.Warn("notification list unavailable", zap.Error(err))
	} else {
		b.Notifications = notifs
	}

	c.log.Debug("collected",
		zap.Int("sms", len(b.SMS)),
		zap.Int("captured", len(b.Captured)),
		zap.Int("notifications", len(b.Notifications)))
	return b
}

// ReadCaptured reads the captured-message log, a JSON array of
// {number, body} objects. Returns nil if the file does not exist. Entries
// that do not decode are skipped and counted; a number written as a JSON
// number is accepted.
func ReadCaptured(path string) (msgs []model.Message, skipped int, err error) {
	if path == "" {
		return nil, 0, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("reading captured log: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("parsing captured log: %w", err)
	}
	for _, r := range raw {
		var e capturedEntry
		if err := json.Unmarshal(r, &e); err != nil {
			skipped++
			continue
		}
		msgs = append(msgs, model.Message{Number: string(e.Number), Body: string(e.Body)})
	}
	return msgs, skipped, nil
}

type capturedEntry struct {
	Number text `json:"number"`
	Body   text `json:"body"`
}

// text decodes a JSON string, number or null.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("want string or number, got %s", data)
	}
	*t = text(n.String())
	return nil
}
