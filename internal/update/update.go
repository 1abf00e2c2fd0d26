// Package update runs one gather, parse, merge, persist and display pass.
package update

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/banktotal-dev/banktotal/internal/collect"
	"github.com/banktotal-dev/banktotal/internal/extract"
	"github.com/banktotal-dev/banktotal/internal/model"
	"github.com/banktotal-dev/banktotal/internal/present"
	"github.com/banktotal-dev/banktotal/internal/runlog"
	"github.com/banktotal-dev/banktotal/internal/termux"
)

// Collector gathers the raw inputs for a run.
type Collector interface {
	Collect(ctx context.Context) collect.Batch
}

// Store loads and overwrites the persisted balances.
type Store interface {
	Load() (model.Balances, error)
	Save(b model.Balances) error
}

// Publisher shows the summary notification.
type Publisher interface {
	Notify(ctx context.Context, n termux.Notification) error
}

// Recorder keeps observations beyond the current run.
type Recorder interface {
	Record(runID string, at time.Time, obs []model.Observation) (int, error)
}

// NotificationOptions fixes the parts of the summary notification that do
// not change between runs.
type NotificationOptions struct {
	ID            string
	Icon          string
	ButtonLabel   string
	UpdateCommand string // run by the button; no button if empty
}

// Deps wires an Updater. History and RunLog are optional.
type Deps struct {
	Collector    Collector
	Extractor    *extract.Extractor
	Store        Store
	Publisher    Publisher
	History      Recorder
	RunLog       string
	Notification NotificationOptions
	Out          io.Writer
	Log          *zap.Logger
	Now          func() time.Time
	NewRunID     func() string
}

// Updater merges freshly extracted balances into the persisted record and
// republishes the summary.
type Updater struct {
	Deps
}

// New creates an Updater, filling in defaults for the extractor, logger,
// clock and run id generator.
func New(d Deps) *Updater {
	if d.Extractor == nil {
		d.Extractor = extract.Default()
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewRunID == nil {
		d.NewRunID = uuid.NewString
	}
	return &Updater{Deps: d}
}

// Result describes a completed run.
type Result struct {
	RunID   string
	Fresh   model.Balances // extracted this run
	Saved   model.Balances // loaded from the store
	Merged  model.Balances // persisted at the end of the run
	Summary present.Summary
}

// Run executes one pass. Source and parse failures only shrink the fresh
// record; the only error returned is a failure to persist balances or to
// write program output.
func (u *Updater) Run(ctx context.Context) (*Result, error) {
	runID := u.NewRunID()
	now := u.Now()
	log := u.Log.With(zap.String("run_id", runID))

	saved, err := u.Store.Load()
	if err != nil {
		log.Warn("ignoring saved balances", zap.Error(err))
		saved = model.Balances{}
	}

	batch := u.Collector.Collect(ctx)

	smsBalances, smsObs := u.Extractor.Messages(batch.SMS, model.SourceSMS)
	capturedBalances, capturedObs := u.Extractor.Messages(batch.Captured, model.SourceCaptured)
	notifBalances, notifObs := u.Extractor.Notifications(batch.Notifications)

	// Notifications are applied last and take precedence.
	fresh := model.Balances{}
	fresh.Merge(smsBalances)
	fresh.Merge(capturedBalances)
	fresh.Merge(notifBalances)

	merged := saved.Clone()
	merged.Merge(fresh)

	if err := u.Store.Save(merged); err != nil {
		return nil, fmt.Errorf("saving balances: %w", err)
	}
	if err := present.WriteDebug(u.Out, fresh, saved, merged); err != nil {
		return nil, fmt.Errorf("writing debug output: %w", err)
	}

	if u.History != nil {
		obs := make([]model.Observation, 0, len(smsObs)+len(capturedObs)+len(notifObs))
		obs = append(obs, smsObs...)
		obs = append(obs, capturedObs...)
		obs = append(obs, notifObs...)
		added, err := u.History.Record(runID, now, obs)
		if err != nil {
			log.Warn("recording history failed", zap.Error(err))
		} else {
			log.Debug("recorded history", zap.Int("observations", len(obs)), zap.Int("new", added))
		}
	}

	summary := present.Summarize(merged, now)
	if err := u.Publisher.Notify(ctx, u.notification(summary)); err != nil {
		log.Warn("notification not published", zap.Error(err))
	}
	if err := present.WriteTerminal(u.Out, summary); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}

	if u.RunLog != "" {
		entry := runlog.Entry{
			Timestamp:     now,
			RunID:         runID,
			Total:         summary.Total,
			SMS:           len(batch.SMS),
			Captured:      len(batch.Captured),
			Notifications: len(batch.Notifications),
			Fresh:         fresh.Institutions(),
		}
		if err := runlog.Append(u.RunLog, entry); err != nil {
			log.Warn("appending run log failed", zap.Error(err))
		}
	}

	log.Info("balances updated",
		zap.Int64("total", summary.Total),
		zap.Int("fresh", len(fresh)),
		zap.Int("known", len(merged)))

	return &Result{
		RunID:   runID,
		Fresh:   fresh,
		Saved:   saved,
		Merged:  merged,
		Summary: summary,
	}, nil
}

func (u *Updater) notification(s present.Summary) termux.Notification {
	n := termux.Notification{
		ID:        u.Notification.ID,
		Title:     s.Title(),
		Content:   s.Content(),
		Ongoing:   true,
		Priority:  "low",
		AlertOnce: true,
		Icon:      u.Notification.Icon,
	}
	if u.Notification.UpdateCommand != "" {
		n.Button = &termux.Button{Label: u.Notification.ButtonLabel, Action: u.Notification.UpdateCommand}
	}
	return n
}
