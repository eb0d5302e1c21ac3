package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"nova-sync-backend/internal/feed"
	"nova-sync-backend/internal/model"
)

// writeTimeout bounds the archive writes done on behalf of a single tick.
const writeTimeout = 2 * time.Second

// Archiver copies feed changes into a Store.
type Archiver struct {
	store  Store
	logger *zap.Logger
}

// NewArchiver creates an Archiver.
func NewArchiver(s Store, logger *zap.Logger) *Archiver {
	return &Archiver{store: s, logger: logger}
}

// HandleChange archives the synthesized log, marks the logs that left the live
// window and records the command transition of a tick.
// Errors are logged; the feed keeps running without the archive.
func (a *Archiver) HandleChange(ctx context.Context, c feed.Change) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := a.store.ArchiveLog(ctx, c.Log); err != nil {
		a.logger.Warn("archive log failed", zap.String("log_id", c.Log.ID), zap.Error(err))
	}

	for _, l := range c.Evicted {
		if err := a.store.MarkEvicted(ctx, l, c.At); err != nil {
			a.logger.Warn("mark evicted failed", zap.String("log_id", l.ID), zap.Error(err))
		}
	}

	if c.Advanced == nil {
		return
	}
	t := model.CommandTransition{
		CommandID:   c.Advanced.Command.ID,
		CommandName: c.Advanced.Command.CommandName,
		From:        c.Advanced.From,
		To:          c.Advanced.Command.Status,
		ObservedAt:  c.At.UTC(),
	}
	if err := a.store.RecordTransition(ctx, t); err != nil {
		a.logger.Warn("record transition failed", zap.String("command_id", t.CommandID), zap.Error(err))
	}
}
