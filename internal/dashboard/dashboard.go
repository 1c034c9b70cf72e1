// Package dashboard wires the add dialog, the edit dialog and the row
// actions to the applications table of one session. Every successful
// write is followed by a full table refresh.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
	"github.com/justsurfingit/applied-jobs-tracker/internal/notify"
	"github.com/justsurfingit/applied-jobs-tracker/internal/table"
	"github.com/justsurfingit/applied-jobs-tracker/internal/validation"
	"go.uber.org/zap"
)

var (
	ErrUnknownRow = errors.New("application is not in the table")
	ErrNoLink     = errors.New("application has no link")
	ErrSubmitting = errors.New("a submission is already in progress")
)

// Adapter is the record store adapter as seen by the dialogs.
type Adapter interface {
	table.Lister
	Create(ctx context.Context, ownerID string, in models.ApplicationFields) (string, error)
	Update(ctx context.Context, id string, in models.ApplicationFields) error
	Delete(ctx context.Context, id string) error
}

type Dashboard struct {
	Session *auth.Session
	Table   *table.Controller
	Feed    *notify.Feed

	Create *CreateDialog
	Edit   *EditDialog
	Rows   *RowActions

	adapter   Adapter
	validator *validation.Validator
	sink      notify.Sink
	loc       *time.Location
	logger    *zap.Logger
}

type Deps struct {
	Adapter   Adapter
	Validator *validation.Validator
	Location  *time.Location
	Logger    *zap.Logger
}

func New(s *auth.Session, deps Deps) *Dashboard {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	logger := deps.Logger.With(zap.String("session", s.ID))
	feed := notify.NewFeed(0)
	sink := notify.Multi(feed, notify.LogSink{Logger: logger})

	d := &Dashboard{
		Session:   s,
		Table:     table.NewController(s, deps.Adapter, sink, logger),
		Feed:      feed,
		adapter:   deps.Adapter,
		validator: deps.Validator,
		sink:      sink,
		loc:       loc,
		logger:    logger,
	}
	d.Create = &CreateDialog{d: d}
	d.Edit = &EditDialog{d: d}
	d.Rows = &RowActions{d: d}
	return d
}

// Welcome greets the user right after sign-in.
func (d *Dashboard) Welcome() {
	d.sink.Success(fmt.Sprintf("Welcome, %s!", d.Session.User.Greeting()))
}

// refreshAfterWrite reloads the table once a write has gone through. The
// reload outlives the caller's context: a client that goes away after the
// write must not leave the table empty. A failed reload is already
// reported by the table; the write still stands.
func (d *Dashboard) refreshAfterWrite(ctx context.Context) {
	if err := d.Table.Refresh(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, table.ErrClosed) {
		d.logger.Warn("refresh after write failed", zap.Error(err))
	}
}

func (d *Dashboard) Close() {
	d.Table.Close()
}

func describe(title, company string) string {
	return fmt.Sprintf("Job application for %s at %s", title, company)
}
