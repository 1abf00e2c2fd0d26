package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banktotal-dev/banktotal/internal/collect"
	"github.com/banktotal-dev/banktotal/internal/config"
	"github.com/banktotal-dev/banktotal/internal/history"
	"github.com/banktotal-dev/banktotal/internal/logging"
	"github.com/banktotal-dev/banktotal/internal/store"
	"github.com/banktotal-dev/banktotal/internal/termux"
	"github.com/banktotal-dev/banktotal/internal/update"
)

func runUpdate(cmd *cobra.Command) error {
	// An unusable config file must not stop the update; Resolve still hands
	// back the defaults.
	cfg, cfgErr := config.Resolve()
	var invalid *config.InvalidFileError
	if cfgErr != nil && !errors.As(cfgErr, &invalid) {
		return fmt.Errorf("loading config: %w", cfgErr)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	if invalid != nil {
		logger.Warn("using default config", zap.String("path", invalid.Path), zap.Error(invalid.Err))
	}

	u, closeFn := newUpdater(cfg, cmd.OutOrStdout(), logger)
	defer closeFn()

	if _, err := u.Run(cmd.Context()); err != nil {
		return err
	}
	return nil
}

// newUpdater wires an Updater from cfg. The returned func releases the
// history database.
func newUpdater(cfg *config.Config, out io.Writer, logger *zap.Logger) (*update.Updater, func()) {
	client := termux.NewClient(cfg.TermuxBin, termux.ExecRunner{}, termux.Timeouts{
		SMS:              cfg.SMS.Timeout,
		NotificationList: cfg.Notifications.ListTimeout,
		Publish:          cfg.Notifications.PublishTimeout,
	})

	deps := update.Deps{
		Collector: collect.New(client, collect.Options{
			SMSLimit:    cfg.SMS.Limit,
			SMSFolder:   cfg.SMS.Folder,
			CapturedLog: cfg.State.CapturedLog,
		}, logger),
		Store:     store.New(cfg.State.Balances),
		Publisher: client,
		RunLog:    cfg.State.RunLog,
		Notification: update.NotificationOptions{
			ID:            cfg.Notifications.ID,
			Icon:          cfg.Notifications.Icon,
			ButtonLabel:   cfg.Notifications.ButtonLabel,
			UpdateCommand: cfg.Notifications.UpdateCommand,
		},
		Out: out,
		Log: logger,
	}

	closeFn := func() {}
	if cfg.State.HistoryDB != "" {
		db, err := history.Open(cfg.State.HistoryDB)
		if err != nil {
			logger.Warn("history unavailable", zap.Error(err))
		} else {
			deps.History = db
			closeFn = func() { db.Close() }
		}
	}

	return update.New(deps), closeFn
}
